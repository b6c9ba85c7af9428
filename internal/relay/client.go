package relay

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	apperrors "bazaar/internal/errors"
	"bazaar/internal/model"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

// Appender is the chat-service hook the relay funnels message events through.
// It persists the message and returns the authoritative record to broadcast.
type Appender func(ctx context.Context, actor, roomID, body string) (*model.Message, error)

// Inbound is a frame received from a live connection.
type Inbound struct {
	Type string `json:"type"`
	Room string `json:"room"`
	Body string `json:"body,omitempty"`
}

// Client is one live websocket connection with its subscribed channels
// tracked by the hub.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	append Appender

	send     chan []byte
	done     chan struct{}
	doneOnce sync.Once
}

// NewClient wraps an upgraded connection. userID comes from the already
// resolved session; the relay never trusts identity from frames.
func NewClient(hub *Hub, conn *websocket.Conn, userID string, append Appender) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		append: append,
		send:   make(chan []byte, 32),
		done:   make(chan struct{}),
	}
}

// Start launches the connection's read and write pumps.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

// shutdown signals the write pump to close the connection. The send channel
// itself is never closed: the read pump and the hub may still hold frames for
// this client, and a send to a closed channel would panic their goroutines.
func (c *Client) shutdown() {
	c.doneOnce.Do(func() { close(c.done) })
}

func (c *Client) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// deliver queues a frame for the write pump. It never blocks and never
// panics; false means the client is shut down or its buffer is full.
func (c *Client) deliver(payload []byte) bool {
	if c.closed() {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("relay: read: %v", err)
			}
			return
		}
		var ev Inbound
		if err := json.Unmarshal(raw, &ev); err != nil {
			c.sendError("malformed event")
			continue
		}
		c.handle(ev)
	}
}

func (c *Client) handle(ev Inbound) {
	switch ev.Type {
	case "join":
		if ev.Room == "" {
			c.sendError("room required")
			return
		}
		// listen-only: no membership check at subscribe time
		c.hub.Join(c, ev.Room)
	case "message":
		msg, err := c.append(context.Background(), c.userID, ev.Room, ev.Body)
		if err != nil {
			c.sendError(apperrors.MapErrorToHTTP(err).Message)
			return
		}
		c.hub.Broadcast(ev.Room, msg)
	default:
		c.sendError("unknown event type")
	}
}

func (c *Client) sendError(msg string) {
	payload, err := json.Marshal(Outbound{Type: "error", Error: msg})
	if err != nil {
		return
	}
	c.deliver(payload)
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case payload := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
