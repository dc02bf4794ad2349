package commands

import (
	"context"

	"custody/internal/core/domain/model/trace"
	"custody/internal/core/ports"
)

// ApplyDropTagCommandHandler moves a PRINTED tag to APPLIED. Two concurrent applies of the
// same tag serialize on the row lock; the second one finds APPLIED and fails with
// errs.ErrInvalidState.
type ApplyDropTagCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewApplyDropTagCommandHandler creates a ApplyDropTagCommandHandler with its dependencies.
func NewApplyDropTagCommandHandler(uowFactory UoWFactory, clock ports.Clock) ApplyDropTagCommandHandler {
	return ApplyDropTagCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle marks the tag APPLIED.
// Returns errs.ErrIdentityMismatch when the package scan does not match the tag package.
func (h ApplyDropTagCommandHandler) Handle(ctx context.Context, cmd ApplyDropTagCommand) error {
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
	if err = tag.Apply(pkg, cmd.PackageScan(), cmd.Actor().UserID(), now); err != nil {
		return err
	}
	if err = uow.DropTagRepository().Update(ctx, tag); err != nil {
		return err
	}

	fields := tagEvent(tag, trace.DropTagApplied, cmd.Actor(), previous, now)
	fields.LocationID = optional(pkg.Location())
	fields.Metadata["packageCode"] = pkg.Code().String()
	if cmd.PackageScan() != "" {
		fields.Metadata["packageScan"] = cmd.PackageScan()
	}
	if _, err = appendEvent(ctx, uow.TraceEventRepository(), fields, nil); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
