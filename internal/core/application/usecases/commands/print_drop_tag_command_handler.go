package commands

import (
	"context"

	"custody/internal/core/domain/model/trace"
	"custody/internal/core/ports"
)

// PrintDropTagCommandHandler records the first print of a tag and returns the print job id.
// Rendering the label is up to the caller.
type PrintDropTagCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewPrintDropTagCommandHandler creates a PrintDropTagCommandHandler with its dependencies.
func NewPrintDropTagCommandHandler(uowFactory UoWFactory, clock ports.Clock) PrintDropTagCommandHandler {
	return PrintDropTagCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle marks the tag PRINTED and returns the print job id.
func (h PrintDropTagCommandHandler) Handle(ctx context.Context, cmd PrintDropTagCommand) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	tag, err := uow.DropTagRepository().GetForUpdate(ctx, cmd.DropTagID())
	if err != nil {
		return "", err
	}

	now := h.clock.Now()
	previous := tag.Status().String()
	jobID, err := tag.Print(cmd.Actor().UserID(), now)
	if err != nil {
		return "", err
	}
	if err = uow.DropTagRepository().Update(ctx, tag); err != nil {
		return "", err
	}

	fields := tagEvent(tag, trace.DropTagPrinted, cmd.Actor(), previous, now)
	fields.Metadata["printJobId"] = jobID
	if _, err = appendEvent(ctx, uow.TraceEventRepository(), fields, nil); err != nil {
		return "", err
	}

	if err = uow.Commit(ctx); err != nil {
		return "", err
	}
	return jobID, nil
}
