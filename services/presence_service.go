//go:generate go run go.uber.org/mock/mockgen -source=presence_service.go -destination=../mocks/mock_presence_service.go -package=mocks
package services

import (
	"context"
	"log/slog"
	"time"

	"market-chat/contract"
	"market-chat/domain/event"
)

type IPresenceService interface {
	Connect(ctx context.Context, userID, connectionID string, sink contract.EventSink)
	Disconnect(ctx context.Context, userID, connectionID string)
	Snapshot() event.OnlineUsersList
}

// PresenceService announces registry membership changes to every tracked
// connection. Full broadcast is deliberate: presence is a low-cardinality,
// low-frequency signal compared to message traffic.
type PresenceService struct {
	log      *slog.Logger
	registry contract.IRegistry
}

func NewPresenceService(log *slog.Logger, registry contract.IRegistry) *PresenceService {
	return &PresenceService{log: log, registry: registry}
}

// Connect tracks the connection and announces the user as online,
// followed by a fresh snapshot of the online set.
func (p *PresenceService) Connect(ctx context.Context, userID, connectionID string, sink contract.EventSink) {
	p.registry.Register(userID, connectionID, sink)
	p.log.Info("User connected", "user_id", userID, "connection_id", connectionID)

	p.broadcast(ctx, event.UserOnline{UserID: userID, Timestamp: time.Now().UTC()})
	p.broadcast(ctx, p.Snapshot())
}

// Disconnect drops the tracked entry (a no-op when a newer connection for
// the same user already replaced it) and announces the user as offline.
func (p *PresenceService) Disconnect(ctx context.Context, userID, connectionID string) {
	p.registry.Unregister(connectionID)
	p.log.Info("User disconnected", "user_id", userID, "connection_id", connectionID)

	p.broadcast(ctx, event.UserOffline{UserID: userID, Timestamp: time.Now().UTC()})
	p.broadcast(ctx, p.Snapshot())
}

// Snapshot returns the current key set of the registry.
func (p *PresenceService) Snapshot() event.OnlineUsersList {
	return event.OnlineUsersList{Users: p.registry.OnlineUsers()}
}

func (p *PresenceService) broadcast(ctx context.Context, e event.DomainEvent) {
	for _, sink := range p.registry.Sinks() {
		if err := sink.Consume(ctx, e); err != nil {
			p.log.Debug("Broadcast push failed", "event", e.EventName(), "error", err)
		}
	}
}
