package domain

import "time"

// User carries the public profile fields the gateway is allowed to push
// alongside a delivered message. Account management lives in the main
// marketplace backend, not here.
type User struct {
	ID        string
	FirstName string
	LastName  string
	Avatar    string
	CreatedAt time.Time
}

// Ad is the minimal view of a classified ad a message can reference.
type Ad struct {
	ID        string
	Title     string
	OwnerID   string
	CreatedAt time.Time
}

// Block is a directed relation: Blocked can no longer message Blocker.
// The pair {BlockerID, BlockedID} is unique.
type Block struct {
	BlockerID string
	BlockedID string
	CreatedAt time.Time
}
