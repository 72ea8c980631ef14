package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// safeConn serializes writes on one WebSocket connection. Notifications are
// pushed from the signal feed goroutine while responses come from the read
// loop, so every write goes through the mutex.
type safeConn struct {
	mu           sync.Mutex
	conn         *websocket.Conn
	writeTimeout time.Duration
}

func newSafeConn(conn *websocket.Conn, writeTimeout time.Duration) *safeConn {
	return &safeConn{conn: conn, writeTimeout: writeTimeout}
}

// WriteJSON satisfies subscription.Writer.
func (c *safeConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	return c.conn.WriteJSON(v)
}

func (c *safeConn) Close() error {
	return c.conn.Close()
}
