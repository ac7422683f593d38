package gateway

import (
	"context"
	"time"

	"market-chat/domain/event"
)

// Sink is the outbound half of one websocket connection. The services
// push domain events into the buffered channel; the connection's write
// pump drains it.
type Sink struct {
	Events  chan event.DomainEvent
	timeout time.Duration
}

func NewSink(bufferSize int, timeout time.Duration) *Sink {
	return &Sink{Events: make(chan event.DomainEvent, bufferSize), timeout: timeout}
}

// Consume hands the event to the write pump. A connection that cannot
// drain its buffer within the timeout loses the event: pushes are
// best-effort and a slow client must not stall the caller.
func (s *Sink) Consume(ctx context.Context, e event.DomainEvent) error {
	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case s.Events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return context.DeadlineExceeded
	}
}
