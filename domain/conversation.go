package domain

// Conversation is a derived view, never persisted: all messages between
// the requester and one counterpart collapse into the most recent message
// plus the number of unread messages addressed to the requester.
type Conversation struct {
	PeerID      string
	LastMessage Message
	UnreadCount int
}
