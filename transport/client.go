package transport

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 256
	// Frames above this close the connection outright. Kept far above the
	// content length policy so an oversized paste still reaches the
	// pipeline and its user-facing rejection.
	maxFrameSize = 1 << 16
)

// client is one live websocket connection bound to an authenticated user.
type client struct {
	id       string
	username string
	conn     *websocket.Conn
	send     chan []byte
	log      *slog.Logger
}

// readPump feeds every inbound text frame to handle, in arrival order, until
// the connection drops. It runs on the connection's own goroutine, which is
// what guarantees per-connection ordering through the pipeline.
func (c *client) readPump(handle func(text string)) {
	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("Unexpected close", "connection_id", c.id, "error", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		text := string(data)
		if strings.TrimSpace(text) == "" {
			continue
		}
		handle(text)
	}
}

// writePump drains the outbound buffer onto the socket and keeps the
// connection alive with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
