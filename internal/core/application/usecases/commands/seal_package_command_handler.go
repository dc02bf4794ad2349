package commands

import (
	"context"

	"custody/internal/core/domain/model/trace"
	"custody/internal/core/domain/services"
	"custody/internal/core/ports"
)

// SealPackageCommandHandler seals a QC-released package whose active tags are all applied,
// and cascades SEALED to those tags in the same transaction.
type SealPackageCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewSealPackageCommandHandler creates a SealPackageCommandHandler with its dependencies.
func NewSealPackageCommandHandler(uowFactory UoWFactory, clock ports.Clock) SealPackageCommandHandler {
	return SealPackageCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle seals the package and cascades SEALED to its applied tags.
func (h SealPackageCommandHandler) Handle(ctx context.Context, cmd SealPackageCommand) error {
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
	tags, err := uow.DropTagRepository().FindByPackage(ctx, pkg.ID(), true)
	if err != nil {
		return err
	}

	now := h.clock.Now()
	previous := pkg.Status().String()
	cascades, err := services.NewPackageSealer().Seal(pkg, tags, cmd.SealID(), cmd.Actor().UserID(), now)
	if err != nil {
		return err
	}

	if err = uow.PackageRepository().Update(ctx, pkg); err != nil {
		return err
	}
	if err = updateTags(ctx, uow.DropTagRepository(), tags); err != nil {
		return err
	}

	fields := packageEvent(pkg, trace.PackageSealed, cmd.Actor(), previous, now)
	fields.Metadata["sealId"] = cmd.SealID()
	fields.Metadata["identity"] = "IMMUTABLE"
	if _, err = appendEvent(ctx, uow.TraceEventRepository(), fields, cascades); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
