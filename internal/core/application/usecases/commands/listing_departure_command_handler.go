package commands

import (
	"context"

	"custody/internal/core/domain/model/droptag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/packaging"
	"custody/internal/core/domain/model/trace"
	"custody/internal/core/domain/services"
	"custody/internal/core/ports"
)

// LockAndDepartListingCommandHandler departs a LOADED listing. The totals are re-checked
// against the live members; on a mismatch nothing is written. Members and their packages
// move to SHIPPED in the same transaction.
type LockAndDepartListingCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewLockAndDepartListingCommandHandler creates a LockAndDepartListingCommandHandler with its dependencies.
func NewLockAndDepartListingCommandHandler(uowFactory UoWFactory, clock ports.Clock) LockAndDepartListingCommandHandler {
	return LockAndDepartListingCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle departs the listing and ships its members.
// Returns errs.ErrValidationFailed with every mismatch when the locked manifest differs.
func (h LockAndDepartListingCommandHandler) Handle(ctx context.Context, cmd LockAndDepartListingCommand) error {
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

	l, err := uow.ListingRepository().GetForUpdate(ctx, cmd.ListingID())
	if err != nil {
		return err
	}
	members, err := uow.DropTagRepository().FindByListing(ctx, l.ID(), true)
	if err != nil {
		return err
	}
	packages, err := lockPackages(ctx, uow.PackageRepository(), members)
	if err != nil {
		return err
	}

	now := h.clock.Now()
	previous := l.Status().String()
	if err = l.LockAndDepart(members, cmd.Actor().UserID(), now); err != nil {
		return err
	}
	cascades, err := services.NewCustody().ShipAll(members, packages, now)
	if err != nil {
		return err
	}

	if err = persistCascade(ctx, uow, members, packages); err != nil {
		return err
	}
	if err = uow.ListingRepository().Update(ctx, l); err != nil {
		return err
	}
	if _, err = appendEvent(ctx, uow.TraceEventRepository(), listingEvent(l, trace.ListingDeparted, cmd.Actor(), previous, now), cascades); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// ConfirmListingDeliveredCommandHandler records proof of delivery and delivers every member
// and package not already delivered.
type ConfirmListingDeliveredCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewConfirmListingDeliveredCommandHandler creates a ConfirmListingDeliveredCommandHandler with its dependencies.
func NewConfirmListingDeliveredCommandHandler(uowFactory UoWFactory, clock ports.Clock) ConfirmListingDeliveredCommandHandler {
	return ConfirmListingDeliveredCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle stores the proof of delivery and marks the listing DELIVERED.
func (h ConfirmListingDeliveredCommandHandler) Handle(ctx context.Context, cmd ConfirmListingDeliveredCommand) error {
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

	l, err := uow.ListingRepository().GetForUpdate(ctx, cmd.ListingID())
	if err != nil {
		return err
	}
	members, err := uow.DropTagRepository().FindByListing(ctx, l.ID(), true)
	if err != nil {
		return err
	}
	packages, err := lockPackages(ctx, uow.PackageRepository(), members)
	if err != nil {
		return err
	}

	now := h.clock.Now()
	previous := l.Status().String()
	if err = l.ConfirmDelivered(cmd.POD(), now); err != nil {
		return err
	}
	cascades, err := services.NewCustody().DeliverAll(members, packages, now)
	if err != nil {
		return err
	}

	if err = persistCascade(ctx, uow, members, packages); err != nil {
		return err
	}
	if err = uow.ListingRepository().Update(ctx, l); err != nil {
		return err
	}

	fields := listingEvent(l, trace.ListingDelivered, cmd.Actor(), previous, now)
	pod := l.POD()
	fields.Metadata["signerName"] = pod.SignerName
	if pod.DocumentID != "" {
		fields.Metadata["podDocumentId"] = pod.DocumentID
	}
	if _, err = appendEvent(ctx, uow.TraceEventRepository(), fields, cascades); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// lockPackages locks the distinct packages of tags in tag code order.
func lockPackages(ctx context.Context, repo ports.PackageRepository, tags []*droptag.DropTag) (map[kernel.UUID]*packaging.Package, error) {
	packages := make(map[kernel.UUID]*packaging.Package)
	for _, tag := range tags {
		if _, ok := packages[tag.PackageID()]; ok {
			continue
		}
		pkg, err := repo.GetForUpdate(ctx, tag.PackageID())
		if err != nil {
			return nil, err
		}
		packages[pkg.ID()] = pkg
	}
	return packages, nil
}

func persistCascade(ctx context.Context, uow UoW, tags []*droptag.DropTag, packages map[kernel.UUID]*packaging.Package) error {
	if err := updateTags(ctx, uow.DropTagRepository(), tags); err != nil {
		return err
	}
	for _, tag := range tags {
		pkg, ok := packages[tag.PackageID()]
		if !ok || pkg.Status() == pkg.PersistedStatus() {
			continue
		}
		if err := uow.PackageRepository().Update(ctx, pkg); err != nil {
			return err
		}
	}
	return nil
}
