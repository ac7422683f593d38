// Package runtime holds the process-local state of the gateway: which
// users currently have an open connection. Nothing here survives a
// restart; presence is derived purely from registry membership.
package runtime

import (
	"sync"

	"market-chat/contract"
)

type session struct {
	userID       string
	connectionID string
	sink         contract.EventSink
}

// Registry maps a user id to their single tracked connection. A second
// connection from the same user replaces the first entry; the replaced
// socket may still be open at transport level, which is why Unregister
// works by connection id and only removes the entry it still owns.
type Registry struct {
	mu     sync.RWMutex
	byUser map[string]*session
	byConn map[string]*session
}

func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[string]*session),
		byConn: make(map[string]*session),
	}
}

// Register tracks a connection for a user, displacing any previous entry
// for the same user id.
func (r *Registry) Register(userID, connectionID string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.byUser[userID]; ok {
		delete(r.byConn, old.connectionID)
	}
	s := &session{userID: userID, connectionID: connectionID, sink: sink}
	r.byUser[userID] = s
	r.byConn[connectionID] = s
}

// Unregister removes the entry owned by connectionID. Disconnect events
// only carry the handle, and the handle of a replaced connection must not
// evict the replacement, so the user entry is removed only when it still
// points at this connection.
func (r *Registry) Unregister(connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byConn[connectionID]
	if !ok {
		return
	}
	delete(r.byConn, connectionID)

	if current, ok := r.byUser[s.userID]; ok && current.connectionID == connectionID {
		delete(r.byUser, s.userID)
	}
}

// Lookup returns the sink of the user's tracked connection, if any.
func (r *Registry) Lookup(userID string) (contract.EventSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byUser[userID]
	if !ok {
		return nil, false
	}
	return s.sink, true
}

// OnlineUsers returns the current key set of the registry.
func (r *Registry) OnlineUsers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]string, 0, len(r.byUser))
	for userID := range r.byUser {
		users = append(users, userID)
	}
	return users
}

// Sinks returns every tracked connection's sink, for broadcasts.
func (r *Registry) Sinks() []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sinks := make([]contract.EventSink, 0, len(r.byUser))
	for _, s := range r.byUser {
		sinks = append(sinks, s.sink)
	}
	return sinks
}
