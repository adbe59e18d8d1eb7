package client

import (
	"context"
	"net/http"

	"nhooyr.io/websocket"
)

// Conn is one live socket. Read blocks until a text frame arrives or the
// connection dies.
type Conn interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Close() error
}

// Dialer opens sockets. Tests substitute an in-memory implementation.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

type wsDialer struct {
	httpClient *http.Client
}

// NewDialer returns a Dialer backed by real WebSocket connections. The HTTP
// client carries the session cookie jar so the server can authorize the
// upgrade.
func NewDialer(httpClient *http.Client) Dialer {
	return &wsDialer{httpClient: httpClient}
}

func (d *wsDialer) Dial(ctx context.Context, url string) (Conn, error) {
	c, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		HTTPClient: d.httpClient,
	})
	if err != nil {
		return nil, err
	}
	return &wsConn{c: c}, nil
}

type wsConn struct {
	c *websocket.Conn
}

func (w *wsConn) Read(ctx context.Context) ([]byte, error) {
	_, data, err := w.c.Read(ctx)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (w *wsConn) Write(ctx context.Context, data []byte) error {
	return w.c.Write(ctx, websocket.MessageText, data)
}

func (w *wsConn) Close() error {
	return w.c.Close(websocket.StatusNormalClosure, "")
}
