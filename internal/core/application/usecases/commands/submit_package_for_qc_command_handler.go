package commands

import (
	"context"

	"custody/internal/core/domain/model/trace"
	"custody/internal/core/ports"
)

// SubmitPackageForQCCommandHandler moves a packed package into the QC queue.
type SubmitPackageForQCCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewSubmitPackageForQCCommandHandler creates a SubmitPackageForQCCommandHandler with its dependencies.
func NewSubmitPackageForQCCommandHandler(uowFactory UoWFactory, clock ports.Clock) SubmitPackageForQCCommandHandler {
	return SubmitPackageForQCCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle moves a PACKING package to READY_FOR_QC.
func (h SubmitPackageForQCCommandHandler) Handle(ctx context.Context, cmd SubmitPackageForQCCommand) error {
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

	pkg, err := uow.PackageRepository().GetForUpdate(ctx, cmd.PackageID())
	if err != nil {
		return err
	}

	now := h.clock.Now()
	previous := pkg.Status().String()
	if err = pkg.SubmitForQC(now); err != nil {
		return err
	}
	if err = uow.PackageRepository().Update(ctx, pkg); err != nil {
		return err
	}

	fields := packageEvent(pkg, trace.PackageSubmittedQC, cmd.Actor(), previous, now)
	fields.Metadata["pieces"] = pkg.Pieces()
	if _, err = appendEvent(ctx, uow.TraceEventRepository(), fields, nil); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
