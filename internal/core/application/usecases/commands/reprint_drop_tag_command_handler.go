package commands

import (
	"context"

	"custody/internal/core/domain/model/trace"
	"custody/internal/core/ports"
)

// ReprintDropTagCommandHandler issues a replacement label. The fourth reprint is refused with
// errs.ErrPolicyLimitExceeded and nothing is written.
type ReprintDropTagCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewReprintDropTagCommandHandler creates a ReprintDropTagCommandHandler with its dependencies.
func NewReprintDropTagCommandHandler(uowFactory UoWFactory, clock ports.Clock) ReprintDropTagCommandHandler {
	return ReprintDropTagCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle increments the reprint count and returns the new print job id.
func (h ReprintDropTagCommandHandler) Handle(ctx context.Context, cmd ReprintDropTagCommand) (string, error) {
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
	jobID, err := tag.Reprint(cmd.Reason(), cmd.Actor().UserID(), now)
	if err != nil {
		return "", err
	}
	if err = uow.DropTagRepository().Update(ctx, tag); err != nil {
		return "", err
	}

	fields := tagEvent(tag, trace.DropTagReprinted, cmd.Actor(), previous, now)
	fields.Metadata["reason"] = string(cmd.Reason())
	fields.Metadata["reprintCount"] = tag.ReprintCount()
	fields.Metadata["printJobId"] = jobID
	if _, err = appendEvent(ctx, uow.TraceEventRepository(), fields, nil); err != nil {
		return "", err
	}

	if err = uow.Commit(ctx); err != nil {
		return "", err
	}
	return jobID, nil
}
