package model

import "time"

// SystemSender is the sender id used for room lifecycle messages.
const SystemSender = "system"

// Message is a single chat message. Messages are immutable once appended; ids
// and timestamps are always server-assigned.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Room is a group chat with a member set and an append-only message history.
type Room struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Members     []string  `json:"members"`
	Messages    []Message `json:"messages"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasMember reports whether id belongs to the room's member set.
func (r *Room) HasMember(id string) bool {
	for _, m := range r.Members {
		if m == id {
			return true
		}
	}
	return false
}

// ChatCollection is the persisted shape of the chats collection file.
type ChatCollection struct {
	Chats []Room `json:"chats"`
}
