package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"

	"cutthroat/internal/protocol"
)

// gameServer is a minimal in-process cutthroat server: one game socket that
// pushes an initial state and acks each action with a version bump.
type gameServer struct {
	t       *testing.T
	version int64
	actions chan string
}

func (s *gameServer) handle(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}
	defer c.CloseNow()
	ctx := r.Context()

	if err := s.pushState(ctx, c); err != nil {
		return
	}
	for {
		_, data, err := c.Read(ctx)
		if err != nil {
			return
		}
		var envelope struct {
			Type            string `json:"type"`
			ExpectedVersion int64  `json:"expected_version"`
			Action          string `json:"action"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil {
			s.t.Errorf("server received malformed frame: %v", err)
			return
		}
		if envelope.Type != "action" {
			continue
		}
		s.actions <- envelope.Action
		s.version++
		if err := s.pushState(ctx, c); err != nil {
			return
		}
	}
}

func (s *gameServer) pushState(ctx context.Context, c *websocket.Conn) error {
	frame := fmt.Sprintf(
		`{"type":"state","version":%d,"seat":0,"status":1,"tokenlog":"V1 CUTTHROAT3P DEALER P0 DECK ENDDECK","legal_actions":["P0 draw","P0 pass"]}`,
		s.version)
	return c.Write(ctx, websocket.MessageText, []byte(frame))
}

func TestGameFlowOverWebSocket(t *testing.T) {
	srv := &gameServer{t: t, version: 1, actions: make(chan string, 4)}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cutthroat/ws/games/7" {
			http.NotFound(w, r)
			return
		}
		srv.handle(w, r)
	}))
	defer server.Close()

	applied := make(chan *protocol.GameStatePayload, 4)
	c := NewGameClient(
		"ws"+strings.TrimPrefix(server.URL, "http"),
		NewDialer(server.Client()),
		nil,
		SystemClock(),
		nil,
		Handler{OnState: func(state *protocol.GameStatePayload) { applied <- state }},
		DefaultOptions(),
	)
	require.NoError(t, c.Connect(context.Background(), 7, false))
	defer c.Disconnect()

	select {
	case state := <-applied:
		assert.Equal(t, int64(1), state.Version)
		assert.Equal(t, []string{"P0 draw", "P0 pass"}, state.LegalActions)
	case <-time.After(5 * time.Second):
		t.Fatal("initial state was not pushed")
	}

	require.NoError(t, c.SendAction(context.Background(), "P0 draw"))

	select {
	case action := <-srv.actions:
		assert.Equal(t, "P0 draw", action)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not receive the action")
	}

	select {
	case state := <-applied:
		assert.Equal(t, int64(2), state.Version)
	case <-time.After(5 * time.Second):
		t.Fatal("acknowledging state was not pushed")
	}
	assert.Equal(t, int64(2), c.Version())
}
