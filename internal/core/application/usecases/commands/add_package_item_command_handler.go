package commands

import (
	"context"

	"custody/internal/core/domain/model/trace"
	"custody/internal/core/ports"
)

// AddPackageItemCommandHandler appends an item to an OPEN or PACKING package.
type AddPackageItemCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewAddPackageItemCommandHandler creates a AddPackageItemCommandHandler with its dependencies.
func NewAddPackageItemCommandHandler(uowFactory UoWFactory, clock ports.Clock) AddPackageItemCommandHandler {
	return AddPackageItemCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle appends the item and records PACKAGE_ITEM_ADDED.
func (h AddPackageItemCommandHandler) Handle(ctx context.Context, cmd AddPackageItemCommand) error {
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
	item := cmd.Item()
	if err = pkg.AddItem(item, now); err != nil {
		return err
	}
	if err = uow.PackageRepository().Update(ctx, pkg); err != nil {
		return err
	}

	fields := packageEvent(pkg, trace.PackageItemAdded, cmd.Actor(), previous, now)
	fields.Metadata["itemId"] = item.ID().String()
	fields.Metadata["grade"] = item.Grade()
	fields.Metadata["form"] = item.Form()
	fields.Metadata["heatNumber"] = item.HeatNumber()
	fields.Metadata["pieces"] = item.Pieces()
	fields.Metadata["weight"] = item.Weight().String()
	fields.Metadata["totalPieces"] = pkg.Pieces()
	fields.Metadata["netWeight"] = pkg.NetWeight().String()
	if _, err = appendEvent(ctx, uow.TraceEventRepository(), fields, nil); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
