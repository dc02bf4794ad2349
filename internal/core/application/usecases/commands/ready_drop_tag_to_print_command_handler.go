package commands

import (
	"context"

	"custody/internal/core/domain/model/trace"
	"custody/internal/core/ports"
)

// ReadyDropTagToPrintCommandHandler queues a DRAFT tag for printing once its package passed QC.
type ReadyDropTagToPrintCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewReadyDropTagToPrintCommandHandler creates a ReadyDropTagToPrintCommandHandler with its dependencies.
func NewReadyDropTagToPrintCommandHandler(uowFactory UoWFactory, clock ports.Clock) ReadyDropTagToPrintCommandHandler {
	return ReadyDropTagToPrintCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle moves the tag to READY_TO_PRINT.
func (h ReadyDropTagToPrintCommandHandler) Handle(ctx context.Context, cmd ReadyDropTagToPrintCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	tag, err := uow.DropTagRepository().GetForUpdate(ctx, cmd.DropTagID())
	if err != nil {
		return err
	}
	pkg, err := uow.PackageRepository().Get(ctx, tag.PackageID())
	if err != nil {
		return err
	}

	now := h.clock.Now()
	previous := tag.Status().String()
	if err = tag.ReadyToPrint(pkg, now); err != nil {
		return err
	}
	if err = uow.DropTagRepository().Update(ctx, tag); err != nil {
		return err
	}

	fields := tagEvent(tag, trace.DropTagReadyToPrint, cmd.Actor(), previous, now)
	fields.Metadata["qcStatus"] = pkg.QCStatus().String()
	if _, err = appendEvent(ctx, uow.TraceEventRepository(), fields, nil); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
