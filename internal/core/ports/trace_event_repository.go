package ports

import (
	"context"
	"time"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/trace"
)

// TraceEventRepository is the append-only custody log. There is no update or delete.
type TraceEventRepository interface {
	// Append inserts the event and then backfills its content hash exactly once.
	Append(ctx context.Context, event *trace.Event) error

	// Find returns events matching the filter ordered by occurredAt, then id.
	Find(ctx context.Context, filter trace.Filter) ([]*trace.Event, error)
}

// TraceOutbox exposes committed events not yet relayed to the message bus.
type TraceOutbox interface {
	ListUnpublished(ctx context.Context, limit int) ([]*trace.Event, error)
	MarkPublished(ctx context.Context, ids []kernel.UUID, at time.Time) error
}
