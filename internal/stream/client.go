package stream

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 2 * time.Second
	maxMessageSize = 4096
)

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// Subscription state, owned by the hub loop. all is set on connect and
	// cleared by the first subscribe; instruments holds normalized names.
	all         bool
	instruments map[string]struct{}
}

func (c *client) wants(instrument string) bool {
	if c.all {
		return true
	}
	_, ok := c.instruments[instrument]
	return ok
}

// readPump reads client commands until the connection fails, and keeps the
// read deadline moving on pongs.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	pongWait := c.hub.pongWait()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("stream client read failed", "remote", c.conn.RemoteAddr(), "err", err)
			}
			return
		}

		// Unparseable input is answered with an error reply.
		var cmd Command
		if err := json.Unmarshal(message, &cmd); err != nil {
			cmd = Command{}
		}
		select {
		case c.hub.commands <- clientCommand{client: c, cmd: cmd}:
		case <-c.hub.done:
			return
		}
	}
}

// writePump delivers queued messages and pings. It exits when the hub closes
// the send channel.
func (c *client) writePump() {
	ticker := time.NewTicker(c.hub.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.logger.Debug("stream client write failed", "remote", c.conn.RemoteAddr(), "err", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
