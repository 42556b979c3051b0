package audit

import (
	"context"
	"time"

	"btocore/pkg/domain"
	"btocore/pkg/requestcontext"
)

// Store is the append-only sink behind the publisher.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByActor(ctx context.Context, actor domain.NRIC) ([]Event, error)
}

// Publisher captures structured audit events. It is append-only and uses the
// store for persistence so tests can swap sinks easily.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

// Emit records the event, defaulting the timestamp and correlation ID from
// the context when unset.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	return p.store.Append(ctx, event)
}

// List returns all events recorded for an actor, oldest first.
func (p *Publisher) List(ctx context.Context, actor domain.NRIC) ([]Event, error) {
	return p.store.ListByActor(ctx, actor)
}
