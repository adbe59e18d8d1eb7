// Package client maintains the live connection to a cutthroat server and the
// authoritative local copy of the synchronized game state. Stale pushes are
// dropped by version, at most one action is in flight at a time, and dropped
// sockets are redialed with exponential backoff. Schema mismatches on the
// wire are fatal and stop reconnection.
package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cutthroat/internal/protocol"
)

var (
	// ErrActionPending is returned when an action is submitted while a
	// previous one is still awaiting its acknowledging state push.
	ErrActionPending = errors.New("client: action already pending")
	// ErrAckTimeout rejects a pending action whose acknowledgment never
	// arrived.
	ErrAckTimeout = errors.New("client: action acknowledgment timed out")
	// ErrDisconnected rejects a pending action when its connection drops.
	ErrDisconnected = errors.New("client: disconnected")
	// ErrNotConnected is returned by operations that require a live socket.
	ErrNotConnected = errors.New("client: not connected")
)

// ServerError is an error frame pushed by the server, typically rejecting
// the pending action.
type ServerError struct {
	Code    int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.Code, e.Message)
}

// Handler receives client events. Callbacks run on the read loop goroutine
// without internal locks held; a nil handler or nil field disables delivery.
type Handler struct {
	// OnState fires for every state push that survives version gating.
	OnState func(*protocol.GameStatePayload)
	// OnScrapStraighten fires when any seat straightens or unstraightens
	// the scrap pile.
	OnScrapStraighten func(straightened bool, actorSeat int)
	// OnFatal fires once when a protocol violation permanently stops the
	// connection.
	OnFatal func(error)
}

// Options configures a GameClient.
type Options struct {
	// AckTimeout bounds how long a submitted action waits for its
	// acknowledging state push.
	AckTimeout time.Duration
	// ReconnectInitialDelay is the first redial delay after a drop.
	ReconnectInitialDelay time.Duration
	// ReconnectMaxDelay caps the doubled redial delay.
	ReconnectMaxDelay time.Duration
}

// DefaultOptions mirror the production client timings.
func DefaultOptions() Options {
	return Options{
		AckTimeout:            5 * time.Second,
		ReconnectInitialDelay: time.Second,
		ReconnectMaxDelay:     5 * time.Second,
	}
}

type pendingAction struct {
	id              string
	expectedVersion int64
	done            chan error
	timer           Timer
}

// GameClient synchronizes one game. It is safe for concurrent use.
type GameClient struct {
	dialer  Dialer
	api     *API
	clock   Clock
	log     *zap.Logger
	opts    Options
	handler Handler
	wsBase  string

	mu             sync.Mutex
	runCtx         context.Context
	runCancel      context.CancelFunc
	conn           Conn
	connID         string
	gameID         int64
	spectate       bool
	state          *protocol.GameStatePayload
	hasState       bool
	pending        *pendingAction
	reconnect      bool
	reconnectDelay time.Duration
	reconnectTimer Timer
	fatalErr       error
}

// NewGameClient builds a client. wsBase is the WebSocket origin, e.g.
// "wss://play.example.com". api may be nil to disable the HTTP fallback.
func NewGameClient(wsBase string, dialer Dialer, api *API, clock Clock, log *zap.Logger, handler Handler, opts Options) *GameClient {
	if clock == nil {
		clock = SystemClock()
	}
	if log == nil {
		log = zap.NewNop()
	}
	if opts.AckTimeout <= 0 {
		opts.AckTimeout = DefaultOptions().AckTimeout
	}
	if opts.ReconnectInitialDelay <= 0 {
		opts.ReconnectInitialDelay = DefaultOptions().ReconnectInitialDelay
	}
	if opts.ReconnectMaxDelay <= 0 {
		opts.ReconnectMaxDelay = DefaultOptions().ReconnectMaxDelay
	}
	return &GameClient{
		dialer:  dialer,
		api:     api,
		clock:   clock,
		log:     log,
		opts:    opts,
		handler: handler,
		wsBase:  wsBase,
	}
}

func (c *GameClient) wsURL(gameID int64, spectate bool) string {
	if spectate {
		return fmt.Sprintf("%s/cutthroat/ws/games/%d/spectate", c.wsBase, gameID)
	}
	return fmt.Sprintf("%s/cutthroat/ws/games/%d", c.wsBase, gameID)
}

// Connect opens the live connection for a game. Any previous connection is
// torn down first. ctx bounds the initial dial only; the connection itself
// lives until Disconnect or a fatal protocol violation.
func (c *GameClient) Connect(ctx context.Context, gameID int64, spectate bool) error {
	c.Disconnect()

	c.mu.Lock()
	c.runCtx, c.runCancel = context.WithCancel(context.Background())
	c.gameID = gameID
	c.spectate = spectate
	c.reconnect = true
	c.reconnectDelay = c.opts.ReconnectInitialDelay
	c.fatalErr = nil
	c.mu.Unlock()

	return c.dial(ctx)
}

func (c *GameClient) dial(ctx context.Context) error {
	c.mu.Lock()
	if !c.reconnect {
		c.mu.Unlock()
		return ErrNotConnected
	}
	url := c.wsURL(c.gameID, c.spectate)
	c.mu.Unlock()

	conn, err := c.dialer.Dial(ctx, url)
	if err != nil {
		c.log.Warn("dial failed", zap.String("url", url), zap.Error(err))
		c.scheduleReconnect()
		return err
	}

	c.mu.Lock()
	if !c.reconnect {
		c.mu.Unlock()
		conn.Close()
		return ErrNotConnected
	}
	id := uuid.NewString()
	c.conn = conn
	c.connID = id
	c.reconnectDelay = c.opts.ReconnectInitialDelay
	runCtx := c.runCtx
	c.mu.Unlock()

	c.log.Info("connected", zap.String("conn", id), zap.Int64("game", c.gameID))
	go c.readLoop(runCtx, id, conn)
	return nil
}

func (c *GameClient) readLoop(ctx context.Context, id string, conn Conn) {
	for {
		data, err := conn.Read(ctx)
		if err != nil {
			c.onConnClosed(id)
			return
		}
		msg, err := protocol.ParseServerMessage(data)
		if err != nil {
			c.onProtocolViolation(id, err)
			return
		}
		c.dispatch(id, msg)
	}
}

func (c *GameClient) dispatch(id string, msg *protocol.ServerMessage) {
	switch msg.Type {
	case protocol.TypeState:
		c.applyState(id, msg.State)
	case protocol.TypeError:
		c.rejectPending(&ServerError{Code: msg.ErrorCode, Message: msg.ErrorMessage})
	case protocol.TypeScrapStraighten:
		if c.handler.OnScrapStraighten != nil {
			c.handler.OnScrapStraighten(msg.ScrapStraightened, msg.ScrapActorSeat)
		}
	}
}

// applyState enforces the version gate and resolves the pending action when
// its acknowledging push arrives.
func (c *GameClient) applyState(id string, state *protocol.GameStatePayload) {
	c.mu.Lock()
	if id != "" && id != c.connID {
		c.mu.Unlock()
		return
	}
	if c.hasState && state.Version < c.state.Version {
		c.mu.Unlock()
		c.log.Debug("dropped stale state",
			zap.Int64("version", state.Version))
		return
	}
	c.state = state
	c.hasState = true
	var ack *pendingAction
	if c.pending != nil && state.Version > c.pending.expectedVersion {
		ack = c.pending
		c.pending = nil
	}
	c.mu.Unlock()

	if ack != nil {
		ack.timer.Stop()
		ack.done <- nil
	}
	if c.handler.OnState != nil {
		c.handler.OnState(state)
	}
}

func (c *GameClient) onConnClosed(id string) {
	c.mu.Lock()
	if id != c.connID {
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.connID = ""
	c.mu.Unlock()

	c.rejectPending(ErrDisconnected)
	c.scheduleReconnect()
}

func (c *GameClient) onProtocolViolation(id string, err error) {
	c.mu.Lock()
	if id != c.connID {
		c.mu.Unlock()
		return
	}
	conn := c.conn
	c.conn = nil
	c.connID = ""
	c.reconnect = false
	c.fatalErr = err
	if t := c.reconnectTimer; t != nil {
		t.Stop()
		c.reconnectTimer = nil
	}
	c.mu.Unlock()

	c.log.Error("protocol violation, closing connection", zap.Error(err))
	if conn != nil {
		conn.Close()
	}
	c.rejectPending(err)
	if c.handler.OnFatal != nil {
		c.handler.OnFatal(err)
	}
}

// scheduleReconnect arms the redial timer at the current delay and doubles
// the delay for the next attempt when it fires.
func (c *GameClient) scheduleReconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.reconnect || c.reconnectTimer != nil || c.conn != nil {
		return
	}
	delay := c.reconnectDelay
	c.reconnectTimer = c.clock.AfterFunc(delay, func() {
		c.mu.Lock()
		c.reconnectTimer = nil
		if !c.reconnect {
			c.mu.Unlock()
			return
		}
		next := c.reconnectDelay * 2
		if next > c.opts.ReconnectMaxDelay {
			next = c.opts.ReconnectMaxDelay
		}
		c.reconnectDelay = next
		ctx := c.runCtx
		c.mu.Unlock()
		c.dial(ctx)
	})
	c.log.Info("reconnect scheduled", zap.Duration("delay", delay))
}

// Disconnect tears down the connection, cancels any scheduled redial and
// rejects the pending action before returning.
func (c *GameClient) Disconnect() {
	c.mu.Lock()
	c.reconnect = false
	if t := c.reconnectTimer; t != nil {
		t.Stop()
		c.reconnectTimer = nil
	}
	conn := c.conn
	c.conn = nil
	c.connID = ""
	cancel := c.runCancel
	c.runCancel = nil
	c.mu.Unlock()

	c.rejectPending(ErrDisconnected)
	if conn != nil {
		conn.Close()
	}
	if cancel != nil {
		cancel()
	}
}

func (c *GameClient) rejectPending(err error) {
	c.mu.Lock()
	p := c.pending
	c.pending = nil
	c.mu.Unlock()
	if p == nil {
		return
	}
	p.timer.Stop()
	p.done <- err
}

// SendAction submits one tokenlog action and blocks until the acknowledging
// state push arrives, the server rejects it, or the ack timeout elapses.
// While the socket is down it falls back to the HTTP endpoint. Only one
// action may be in flight; a second call fails immediately.
func (c *GameClient) SendAction(ctx context.Context, action string) error {
	c.mu.Lock()
	if c.fatalErr != nil {
		err := c.fatalErr
		c.mu.Unlock()
		return err
	}
	if c.pending != nil {
		c.mu.Unlock()
		return ErrActionPending
	}
	var expected int64
	if c.hasState {
		expected = c.state.Version
	}
	conn := c.conn
	if conn == nil {
		gameID := c.gameID
		c.mu.Unlock()
		return c.sendActionHTTP(ctx, gameID, expected, action)
	}

	p := &pendingAction{
		id:              uuid.NewString(),
		expectedVersion: expected,
		done:            make(chan error, 1),
	}
	pid := p.id
	p.timer = c.clock.AfterFunc(c.opts.AckTimeout, func() {
		c.timeoutPending(pid)
	})
	c.pending = p
	c.mu.Unlock()

	frame, err := protocol.EncodeAction(expected, action)
	if err != nil {
		c.clearPending(pid)
		return err
	}
	if err := conn.Write(ctx, frame); err != nil {
		c.clearPending(pid)
		return err
	}

	select {
	case err := <-p.done:
		return err
	case <-ctx.Done():
		c.clearPending(pid)
		return ctx.Err()
	}
}

func (c *GameClient) sendActionHTTP(ctx context.Context, gameID, expected int64, action string) error {
	if c.api == nil {
		return ErrNotConnected
	}
	state, err := c.api.SubmitAction(ctx, gameID, expected, action)
	if err != nil {
		return err
	}
	c.applyState("", state)
	return nil
}

func (c *GameClient) timeoutPending(id string) {
	c.mu.Lock()
	p := c.pending
	if p == nil || p.id != id {
		c.mu.Unlock()
		return
	}
	c.pending = nil
	c.mu.Unlock()
	c.log.Warn("action acknowledgment timed out")
	p.done <- ErrAckTimeout
}

func (c *GameClient) clearPending(id string) {
	c.mu.Lock()
	if c.pending != nil && c.pending.id == id {
		c.pending.timer.Stop()
		c.pending = nil
	}
	c.mu.Unlock()
}

// SendScrapStraighten signals the table to straighten the scrap pile. It
// requires a live socket and has no acknowledgment.
func (c *GameClient) SendScrapStraighten(ctx context.Context) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	frame, err := protocol.EncodeScrapStraighten()
	if err != nil {
		return err
	}
	return conn.Write(ctx, frame)
}

// State returns the latest applied state, or nil before the first push.
func (c *GameClient) State() *protocol.GameStatePayload {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Version returns the latest applied version, or -1 before the first push.
func (c *GameClient) Version() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasState {
		return -1
	}
	return c.state.Version
}

// Err returns the fatal protocol error, if any.
func (c *GameClient) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fatalErr
}
