package ports

import (
	"context"
	"time"

	"custody/internal/core/domain/model/trace"
)

// Clock supplies the time stamped on transitions and trace events.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock in UTC.
type SystemClock struct{}

// Now returns time.Now in UTC.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// TraceEventPublisher relays committed trace events to downstream consumers.
type TraceEventPublisher interface {
	Publish(ctx context.Context, events []*trace.Event) error
}

// CustodyArchiver stores the exported custody chain of a listing and returns its URI.
type CustodyArchiver interface {
	Archive(ctx context.Context, key string, document any) (string, error)
}
