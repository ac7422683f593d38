// Package event defines the outbound events the gateway pushes to
// connected clients. Every event is a tagged JSON envelope on the wire:
// {"event": <name>, "data": <payload>}.
package event

import (
	"time"

	"market-chat/domain"

	"github.com/google/uuid"
)

type DomainEvent interface {
	EventName() string
}

// SenderSummary is the public slice of a user profile pushed alongside a
// delivered message.
type SenderSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Avatar    string `json:"avatar,omitempty"`
}

type UserOnline struct {
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

func (UserOnline) EventName() string { return "userOnline" }

type UserOffline struct {
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

func (UserOffline) EventName() string { return "userOffline" }

type MessageReceived struct {
	ID         uuid.UUID        `json:"id"`
	SenderID   string           `json:"senderId"`
	ReceiverID string           `json:"receiverId"`
	Content    string           `json:"content"`
	AdID       string           `json:"adId,omitempty"`
	ImageURL   string           `json:"imageUrl,omitempty"`
	Location   *domain.Location `json:"location,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
	Sender     SenderSummary    `json:"sender"`
}

func (MessageReceived) EventName() string { return "messageReceived" }

// MessageSent acknowledges a send back to its author.
type MessageSent struct {
	ID        uuid.UUID             `json:"id"`
	Timestamp time.Time             `json:"timestamp"`
	Status    domain.DeliveryStatus `json:"status"`
}

func (MessageSent) EventName() string { return "messageSent" }

type MessageReadNotification struct {
	MessageID string    `json:"messageId"`
	ReadBy    string    `json:"readBy"`
	ReadAt    time.Time `json:"readAt"`
}

func (MessageReadNotification) EventName() string { return "messageReadNotification" }

type UserTyping struct {
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

func (UserTyping) EventName() string { return "userTyping" }

type UserStoppedTyping struct {
	UserID string `json:"userId"`
}

func (UserStoppedTyping) EventName() string { return "userStoppedTyping" }

type OnlineUsersList struct {
	Users []string `json:"users"`
}

func (OnlineUsersList) EventName() string { return "onlineUsersList" }

// Error is only ever emitted to the connection that caused it.
type Error struct {
	Message string `json:"message"`
}

func (Error) EventName() string { return "error" }
