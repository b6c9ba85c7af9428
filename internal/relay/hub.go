// Package relay fans out newly appended chat messages to live websocket
// subscribers. Joining a channel is "listen only": membership is enforced by
// the chat service when an event mutates state, not at subscribe time.
// Delivery is at-most-once and best-effort; a disconnected client catches up
// through the room read endpoints.
package relay

import (
	"encoding/json"
	"log"

	"bazaar/internal/model"
)

// Outbound is the frame delivered to subscribers and back to event senders.
type Outbound struct {
	Type    string         `json:"type"`
	Room    string         `json:"room,omitempty"`
	Message *model.Message `json:"message,omitempty"`
	Error   string         `json:"error,omitempty"`
}

type subscription struct {
	client *Client
	room   string
}

type roomBroadcast struct {
	room    string
	payload []byte
}

// Hub owns all subscription state. A single goroutine (Run) serializes every
// mutation, fed through channels; no locks are needed.
type Hub struct {
	rooms map[string]map[*Client]struct{}

	join       chan subscription
	unregister chan *Client
	broadcast  chan roomBroadcast
}

// NewHub creates a hub. Run must be started on its own goroutine.
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]struct{}),
		join:       make(chan subscription),
		unregister: make(chan *Client),
		broadcast:  make(chan roomBroadcast, 16),
	}
}

// Run processes subscription and broadcast events until the hub's channels
// are abandoned. It is the only goroutine touching h.rooms.
func (h *Hub) Run() {
	for {
		select {
		case sub := <-h.join:
			if sub.client.closed() {
				// a join that raced with the drop of its connection
				continue
			}
			subs, ok := h.rooms[sub.room]
			if !ok {
				subs = make(map[*Client]struct{})
				h.rooms[sub.room] = subs
			}
			subs[sub.client] = struct{}{}
		case c := <-h.unregister:
			h.drop(c)
		case b := <-h.broadcast:
			for c := range h.rooms[b.room] {
				if !c.deliver(b.payload) {
					// subscriber too slow or already shut down; drop the
					// whole connection, it catches up over HTTP
					h.drop(c)
				}
			}
		}
	}
}

// drop removes a client from every room and signals its shutdown. Must only
// be called from Run.
func (h *Hub) drop(c *Client) {
	for room, subs := range h.rooms {
		if _, ok := subs[c]; ok {
			delete(subs, c)
			if len(subs) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	c.shutdown()
}

// Join subscribes a client to a room channel.
func (h *Hub) Join(c *Client, room string) {
	h.join <- subscription{client: c, room: room}
}

// Unregister removes a client from every room and signals its shutdown.
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// Broadcast delivers a message frame to every current subscriber of the room,
// the sender's connection included; clients reconcile their optimistic echo
// by message id.
func (h *Hub) Broadcast(room string, msg *model.Message) {
	payload, err := json.Marshal(Outbound{Type: "message", Room: room, Message: msg})
	if err != nil {
		log.Printf("relay: marshal broadcast: %v", err)
		return
	}
	h.broadcast <- roomBroadcast{room: room, payload: payload}
}
