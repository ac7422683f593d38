package runtime

import (
	"context"
	"testing"

	"market-chat/domain/event"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type stubSink struct {
	name string
}

func (s *stubSink) Consume(ctx context.Context, e event.DomainEvent) error {
	return nil
}

func TestRegistry_Register_Then_Lookup(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := uuid.NewString()
	connectionID := uuid.NewString()
	sink := &stubSink{name: "a"}

	// Given an empty registry
	req.Empty(registry.OnlineUsers())

	// When a user registers
	registry.Register(userID, connectionID, sink)

	// Then the lookup returns their sink
	got, ok := registry.Lookup(userID)
	req.True(ok)
	req.Same(sink, got)
	req.Equal([]string{userID}, registry.OnlineUsers())
	req.Len(registry.Sinks(), 1)
}

func TestRegistry_Unregister_Removes_Entry(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := uuid.NewString()
	connectionID := uuid.NewString()

	// Given a registered user
	registry.Register(userID, connectionID, &stubSink{})

	// When their connection unregisters
	registry.Unregister(connectionID)

	// Then the user is no longer reachable
	_, ok := registry.Lookup(userID)
	req.False(ok)
	req.Empty(registry.OnlineUsers())
	req.Empty(registry.Sinks())
}

func TestRegistry_Second_Connection_Replaces_First(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := uuid.NewString()
	first := &stubSink{name: "first"}
	second := &stubSink{name: "second"}

	// Given a user already connected
	registry.Register(userID, "conn-1", first)

	// When the same user connects again
	registry.Register(userID, "conn-2", second)

	// Then only the newer connection is tracked
	got, ok := registry.Lookup(userID)
	req.True(ok)
	req.Same(second, got)
	req.Len(registry.OnlineUsers(), 1)
}

func TestRegistry_Stale_Unregister_Keeps_Replacement(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := uuid.NewString()
	second := &stubSink{name: "second"}

	// Given a replaced connection whose socket closes late
	registry.Register(userID, "conn-1", &stubSink{name: "first"})
	registry.Register(userID, "conn-2", second)

	// When the stale connection unregisters
	registry.Unregister("conn-1")

	// Then the replacement entry survives
	got, ok := registry.Lookup(userID)
	req.True(ok)
	req.Same(second, got)
}

func TestRegistry_Unregister_Unknown_Handle_Is_Noop(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	registry.Register("alice", "conn-1", &stubSink{})

	registry.Unregister("never-seen")

	req.Len(registry.OnlineUsers(), 1)
}
