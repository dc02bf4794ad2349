package commands

import (
	"context"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/listing"
	"custody/internal/core/domain/model/trace"
	"custody/internal/core/ports"
)

type CreateListingCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewCreateListingCommandHandler creates a CreateListingCommandHandler with its dependencies.
func NewCreateListingCommandHandler(uowFactory UoWFactory, clock ports.Clock) CreateListingCommandHandler {
	return CreateListingCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle stores a DRAFT listing and returns its LST code.
func (h CreateListingCommandHandler) Handle(ctx context.Context, cmd CreateListingCommand) (kernel.Code, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.Code{}, err
	}

	now := h.clock.Now()
	code, err := kernel.NewCode(kernel.ListingCodeKind, now.Year())
	if err != nil {
		return kernel.Code{}, err
	}
	l, err := listing.NewListing(cmd.ListingID(), code, cmd.ShipmentRef(), cmd.Origin(), now)
	if err != nil {
		return kernel.Code{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.Code{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.ListingRepository().Add(ctx, l); err != nil {
		return kernel.Code{}, err
	}
	if _, err = appendEvent(ctx, uow.TraceEventRepository(), listingEvent(l, trace.ListingCreated, cmd.Actor(), "", now), nil); err != nil {
		return kernel.Code{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.Code{}, err
	}
	return code, nil
}
