package domain

import "time"

// SendMessageCommand is a validated send intent. SenderID always comes
// from the authenticated connection, never from the client payload.
type SendMessageCommand struct {
	SenderID   string
	ReceiverID string
	Content    string
	AdID       string
	ImageURL   string
	Location   *Location
	CreatedAt  time.Time
}

type MarkReadCommand struct {
	MessageID string
	ReaderID  string
}

type TypingCommand struct {
	FromID string
	ToID   string
}

type DeleteMessageCommand struct {
	MessageID   string
	RequesterID string
}

// HistoryCommand pages through the messages between two users, newest
// first. Cursor is the opaque continuation token returned by the previous
// page, nil for the first page.
type HistoryCommand struct {
	UserID string
	PeerID string
	Cursor *string
}
