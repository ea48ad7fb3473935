// Package ws implements ports.Dialer and ports.Conn on top of
// gorilla/websocket.
package ws

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/atmouse-/gensokyoradio/internal/ports"
)

const (
	// DefaultHandshakeTimeout bounds the websocket opening handshake.
	DefaultHandshakeTimeout = 15 * time.Second

	writeTimeout = 10 * time.Second
	closeGrace   = time.Second
)

// Dialer opens websocket connections to the feed.
type Dialer struct {
	dialer *websocket.Dialer
}

// NewDialer creates a Dialer with the given handshake timeout.
func NewDialer(handshakeTimeout time.Duration) *Dialer {
	if handshakeTimeout <= 0 {
		handshakeTimeout = DefaultHandshakeTimeout
	}
	d := *websocket.DefaultDialer
	d.HandshakeTimeout = handshakeTimeout
	return &Dialer{dialer: &d}
}

// Dial connects to url and completes the websocket handshake.
func (d *Dialer) Dial(ctx context.Context, url string) (ports.Conn, error) {
	conn, resp, err := d.dialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", url, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return NewConn(conn), nil
}

// Conn adapts a *websocket.Conn to ports.Conn.
type Conn struct {
	conn      *websocket.Conn
	closeOnce sync.Once
	closeErr  error
}

// NewConn wraps an established websocket connection.
func NewConn(conn *websocket.Conn) *Conn {
	return &Conn{conn: conn}
}

// ReadFrame blocks until the next data frame or a close from the peer.
func (c *Conn) ReadFrame() (ports.Frame, error) {
	typ, data, err := c.conn.ReadMessage()
	if err != nil {
		var ce *websocket.CloseError
		if errors.As(err, &ce) {
			return ports.Frame{Kind: ports.FrameClose, Data: []byte(ce.Text)}, nil
		}
		return ports.Frame{}, err
	}

	switch typ {
	case websocket.TextMessage:
		return ports.Frame{Kind: ports.FrameText, Data: data}, nil
	default:
		return ports.Frame{Kind: ports.FrameBinary, Data: data}, nil
	}
}

// WriteText sends one text frame.
func (c *Conn) WriteText(data string) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, []byte(data))
}

// Close sends a normal close frame, best effort, and closes the socket.
// It is safe to call more than once.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGrace))
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}
