package commands

import (
	"context"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/ports"
)

// RelayTraceEventsCommandHandler publishes unpublished events and marks them in the same
// transaction. A failed publish leaves the batch unmarked, so consumers may see an event
// twice but never miss one.
type RelayTraceEventsCommandHandler struct {
	uowFactory OutboxUoWFactory
	publisher  ports.TraceEventPublisher
	clock      ports.Clock
}

// NewRelayTraceEventsCommandHandler creates a RelayTraceEventsCommandHandler with its dependencies.
func NewRelayTraceEventsCommandHandler(
	uowFactory OutboxUoWFactory,
	publisher ports.TraceEventPublisher,
	clock ports.Clock,
) RelayTraceEventsCommandHandler {
	return RelayTraceEventsCommandHandler{uowFactory: uowFactory, publisher: publisher, clock: clock}
}

// Handle returns the number of events relayed.
func (h RelayTraceEventsCommandHandler) Handle(ctx context.Context, cmd RelayTraceEventsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	events, err := uow.TraceOutbox().ListUnpublished(ctx, cmd.BatchSize())
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	if err = h.publisher.Publish(ctx, events); err != nil {
		return 0, err
	}

	ids := make([]kernel.UUID, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID())
	}
	if err = uow.TraceOutbox().MarkPublished(ctx, ids, h.clock.Now()); err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}
	return len(events), nil
}
