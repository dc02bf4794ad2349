package commands

import (
	"context"

	"custody/internal/core/domain/model/trace"
	"custody/internal/core/ports"
)

// RecordQCDecisionCommandHandler applies a QC verdict to a package in READY_FOR_QC.
type RecordQCDecisionCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewRecordQCDecisionCommandHandler creates a RecordQCDecisionCommandHandler with its dependencies.
func NewRecordQCDecisionCommandHandler(uowFactory UoWFactory, clock ports.Clock) RecordQCDecisionCommandHandler {
	return RecordQCDecisionCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle records the verdict and moves the package accordingly.
func (h RecordQCDecisionCommandHandler) Handle(ctx context.Context, cmd RecordQCDecisionCommand) error {
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
	previousQC := pkg.QCStatus().String()
	if err = pkg.RecordQCDecision(cmd.Decision(), cmd.Notes(), cmd.Actor().UserID(), now); err != nil {
		return err
	}
	if err = uow.PackageRepository().Update(ctx, pkg); err != nil {
		return err
	}

	fields := packageEvent(pkg, trace.PackageQCDecided, cmd.Actor(), previous, now)
	fields.Metadata["decision"] = string(cmd.Decision())
	fields.Metadata["previousQcStatus"] = previousQC
	fields.Metadata["qcStatus"] = pkg.QCStatus().String()
	if cmd.Notes() != "" {
		fields.Metadata["notes"] = cmd.Notes()
	}
	if _, err = appendEvent(ctx, uow.TraceEventRepository(), fields, nil); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
