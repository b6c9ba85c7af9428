package model

import "time"

// Article represents a marketplace listing in the articles collection.
type Article struct {
	ID          string    `json:"id"`
	Seller      string    `json:"seller"`
	Name        string    `json:"name"`
	Price       string    `json:"price"`
	Description string    `json:"description"`
	Version     string    `json:"version,omitempty"`
	Edition     string    `json:"edition,omitempty"`
	Image       string    `json:"image,omitempty"` // generated upload filename, never a client path
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
