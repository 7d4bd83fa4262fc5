package ws

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"signaling-service/internal/models"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound frame size. Generous because chat messages may carry
	// inline file attachments.
	maxMessageSize = 1 << 20

	// Outbound queue depth per connection.
	sendQueueSize = 256
)

// Client wraps a single websocket connection. The id is assigned at connect
// time and stays stable for the connection's lifetime; it doubles as the
// user id on the wire.
type Client struct {
	ID          string
	Conn        *websocket.Conn
	Send        chan models.Event
	IP          string
	ConnectedAt time.Time

	hub        *Hub
	dispatcher *Dispatcher

	quitOnce sync.Once
	quit     chan struct{}
}

// shutdown asks the write pump to drain and close the connection.
func (c *Client) shutdown() {
	c.quitOnce.Do(func() { close(c.quit) })
}

// readPump pumps inbound events into the dispatcher. There is at most one
// reader per connection; the exit path runs the idempotent disconnect
// cleanup.
func (c *Client) readPump() {
	defer func() {
		c.hub.remove(c)
		c.dispatcher.Disconnect(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var event models.Event
		if err := c.Conn.ReadJSON(&event); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("read error from %s: %v", c.ID, err)
			}
			return
		}
		c.dispatcher.Dispatch(c, event)
	}
}

// writePump pumps queued events to the websocket connection. There is at
// most one writer per connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(event); err != nil {
				log.Printf("write error to %s: %v", c.ID, err)
				return
			}

		case <-c.quit:
			// Flush whatever is queued, then say goodbye. Used by the kick
			// path so the terminal event still goes out.
			for {
				select {
				case event, ok := <-c.Send:
					if !ok {
						c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
						return
					}
					c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
					if err := c.Conn.WriteJSON(event); err != nil {
						return
					}
				default:
					c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
					c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
