package api

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// clientConn adapts a fiber websocket connection for the chat service.
// The underlying connection allows one writer at a time; relay and filter
// responses come from two goroutines, so writes take a mutex.
type clientConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func newClientConn(conn *websocket.Conn) *clientConn {
	return &clientConn{conn: conn}
}

func (c *clientConn) ReadMessage() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()

	return data, err
}

func (c *clientConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.conn.WriteJSON(v)
}

func (c *clientConn) Close() error {
	return c.conn.Close()
}
