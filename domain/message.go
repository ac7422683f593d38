// Package domain contains the core concepts of the marketplace messaging
// system: messages exchanged around a classified ad, the users trading
// them, and the block relation between users.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tombstone replaces the content of a deleted message. The row itself is
// never removed so both parties keep a consistent conversation timeline.
const Tombstone = "[message deleted]"

// DeliveryStatus reported back to a sender in the messageSent ack.
type DeliveryStatus string

const (
	// StatusSent means the message is persisted but the receiver was not
	// reachable for a real-time push. It will surface on their next fetch.
	StatusSent DeliveryStatus = "sent"
	// StatusDelivered means the message was also pushed to the receiver's
	// open connection.
	StatusDelivered DeliveryStatus = "delivered"
)

// Location optionally attached to a message, e.g. a meeting point for a
// hand-over.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// Message is one direct message between two users. Immutable except for
// the read flag (one-way, unread to read) and the delete path which
// overwrites Content with Tombstone.
type Message struct {
	ID         uuid.UUID
	SenderID   string
	ReceiverID string
	Content    string
	AdID       string
	ImageURL   string
	Location   *Location
	Lang       string
	IsRead     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Deleted reports whether the message has been tombstoned.
func (m Message) Deleted() bool {
	return m.Content == Tombstone
}
