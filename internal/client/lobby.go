package client

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cutthroat/internal/protocol"
)

// LobbyHandler receives lobby feed events.
type LobbyHandler struct {
	// OnLobbies fires for every lobby list push.
	OnLobbies func(lobbies []protocol.LobbySummary, spectatable []protocol.SpectatableGameSummary)
	// OnFatal fires once when a protocol violation permanently stops the
	// feed.
	OnFatal func(error)
}

// LobbyClient follows the lobby feed. It reconnects with the same backoff
// as the game connection but carries no pending action; it is independent
// of any GameClient and safe for concurrent use.
type LobbyClient struct {
	dialer  Dialer
	clock   Clock
	log     *zap.Logger
	handler LobbyHandler
	wsBase  string

	initialDelay time.Duration
	maxDelay     time.Duration

	mu             sync.Mutex
	runCtx         context.Context
	runCancel      context.CancelFunc
	conn           Conn
	connID         string
	reconnect      bool
	reconnectDelay time.Duration
	reconnectTimer Timer
	fatalErr       error
}

// NewLobbyClient builds a lobby feed client. wsBase is the WebSocket origin.
func NewLobbyClient(wsBase string, dialer Dialer, clock Clock, log *zap.Logger, handler LobbyHandler, opts Options) *LobbyClient {
	if clock == nil {
		clock = SystemClock()
	}
	if log == nil {
		log = zap.NewNop()
	}
	if opts.ReconnectInitialDelay <= 0 {
		opts.ReconnectInitialDelay = DefaultOptions().ReconnectInitialDelay
	}
	if opts.ReconnectMaxDelay <= 0 {
		opts.ReconnectMaxDelay = DefaultOptions().ReconnectMaxDelay
	}
	return &LobbyClient{
		dialer:       dialer,
		clock:        clock,
		log:          log,
		handler:      handler,
		wsBase:       wsBase,
		initialDelay: opts.ReconnectInitialDelay,
		maxDelay:     opts.ReconnectMaxDelay,
	}
}

// Connect opens the lobby feed. ctx bounds the initial dial only.
func (c *LobbyClient) Connect(ctx context.Context) error {
	c.Disconnect()

	c.mu.Lock()
	c.runCtx, c.runCancel = context.WithCancel(context.Background())
	c.reconnect = true
	c.reconnectDelay = c.initialDelay
	c.fatalErr = nil
	c.mu.Unlock()

	return c.dial(ctx)
}

func (c *LobbyClient) dial(ctx context.Context) error {
	c.mu.Lock()
	if !c.reconnect {
		c.mu.Unlock()
		return ErrNotConnected
	}
	c.mu.Unlock()

	conn, err := c.dialer.Dial(ctx, c.wsBase+"/cutthroat/ws/lobbies")
	if err != nil {
		c.log.Warn("lobby dial failed", zap.Error(err))
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
	c.reconnectDelay = c.initialDelay
	runCtx := c.runCtx
	c.mu.Unlock()

	go c.readLoop(runCtx, id, conn)
	return nil
}

func (c *LobbyClient) readLoop(ctx context.Context, id string, conn Conn) {
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
		if msg.Type == protocol.TypeLobbies && c.handler.OnLobbies != nil {
			c.handler.OnLobbies(msg.Lobbies, msg.SpectatableGames)
		}
	}
}

func (c *LobbyClient) onConnClosed(id string) {
	c.mu.Lock()
	if id != c.connID {
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.connID = ""
	c.mu.Unlock()
	c.scheduleReconnect()
}

func (c *LobbyClient) onProtocolViolation(id string, err error) {
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

	c.log.Error("lobby protocol violation, closing connection", zap.Error(err))
	if conn != nil {
		conn.Close()
	}
	if c.handler.OnFatal != nil {
		c.handler.OnFatal(err)
	}
}

func (c *LobbyClient) scheduleReconnect() {
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
		if next > c.maxDelay {
			next = c.maxDelay
		}
		c.reconnectDelay = next
		ctx := c.runCtx
		c.mu.Unlock()
		c.dial(ctx)
	})
	c.log.Info("lobby reconnect scheduled", zap.Duration("delay", delay))
}

// Disconnect closes the feed and cancels any scheduled redial.
func (c *LobbyClient) Disconnect() {
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

	if conn != nil {
		conn.Close()
	}
	if cancel != nil {
		cancel()
	}
}

// Err returns the fatal protocol error, if any.
func (c *LobbyClient) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fatalErr
}
