package commands

import (
	"context"
	"time"

	"custody/internal/core/domain/model/droptag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/listing"
	"custody/internal/core/domain/model/trace"
	"custody/internal/core/ports"
)

// listingStep is one listing transition. It may change members; it returns extra event metadata.
type listingStep func(l *listing.Listing, members []*droptag.DropTag, now time.Time) (map[string]any, error)

// runListingStep locks the listing and its members, applies step and records eventType.
func runListingStep(
	ctx context.Context,
	uowFactory UoWFactory,
	clock ports.Clock,
	listingID kernel.UUID,
	actor kernel.Actor,
	eventType trace.EventType,
	step listingStep,
) error {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	l, err := uow.ListingRepository().GetForUpdate(ctx, listingID)
	if err != nil {
		return err
	}
	members, err := uow.DropTagRepository().FindByListing(ctx, l.ID(), true)
	if err != nil {
		return err
	}

	now := clock.Now()
	previous := l.Status().String()
	extra, err := step(l, members, now)
	if err != nil {
		return err
	}
	if err = uow.ListingRepository().Update(ctx, l); err != nil {
		return err
	}
	if err = updateTags(ctx, uow.DropTagRepository(), members); err != nil {
		return err
	}

	fields := listingEvent(l, eventType, actor, previous, now)
	for k, v := range extra {
		fields.Metadata[k] = v
	}
	if _, err = appendEvent(ctx, uow.TraceEventRepository(), fields, nil); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// SetListingStopsCommandHandler assigns every member to exactly one stop.
type SetListingStopsCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewSetListingStopsCommandHandler creates a SetListingStopsCommandHandler with its dependencies.
func NewSetListingStopsCommandHandler(uowFactory UoWFactory, clock ports.Clock) SetListingStopsCommandHandler {
	return SetListingStopsCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle replaces the stops of a DRAFT or READY listing.
func (h SetListingStopsCommandHandler) Handle(ctx context.Context, cmd SetListingStopsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return runListingStep(ctx, h.uowFactory, h.clock, cmd.ListingID(), cmd.Actor(), trace.ListingStopsSet,
		func(l *listing.Listing, members []*droptag.DropTag, now time.Time) (map[string]any, error) {
			if err := l.SetStops(cmd.Stops(), members, now); err != nil {
				return nil, err
			}
			route := make([]map[string]any, 0, len(l.Stops()))
			for _, stop := range l.Stops() {
				route = append(route, map[string]any{
					"number":     stop.Number,
					"locationId": stop.LocationID,
					"tagCount":   len(stop.TagIDs),
				})
			}
			return map[string]any{"stops": route}, nil
		})
}

// FinalizeListingCommandHandler marks a listing READY.
type FinalizeListingCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewFinalizeListingCommandHandler creates a FinalizeListingCommandHandler with its dependencies.
func NewFinalizeListingCommandHandler(uowFactory UoWFactory, clock ports.Clock) FinalizeListingCommandHandler {
	return FinalizeListingCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle moves an open listing to READY.
func (h FinalizeListingCommandHandler) Handle(ctx context.Context, cmd FinalizeListingCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return runListingStep(ctx, h.uowFactory, h.clock, cmd.ListingID(), cmd.Actor(), trace.ListingFinalized,
		func(l *listing.Listing, _ []*droptag.DropTag, now time.Time) (map[string]any, error) {
			return nil, l.Finalize(now)
		})
}

// PrintListingCommandHandler stamps the rendered document ids.
type PrintListingCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewPrintListingCommandHandler creates a PrintListingCommandHandler with its dependencies.
func NewPrintListingCommandHandler(uowFactory UoWFactory, clock ports.Clock) PrintListingCommandHandler {
	return PrintListingCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle stamps the document ids and moves the listing to PRINTED.
func (h PrintListingCommandHandler) Handle(ctx context.Context, cmd PrintListingCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return runListingStep(ctx, h.uowFactory, h.clock, cmd.ListingID(), cmd.Actor(), trace.ListingPrinted,
		func(l *listing.Listing, _ []*droptag.DropTag, now time.Time) (map[string]any, error) {
			docs := cmd.Documents()
			if err := l.Print(docs, now); err != nil {
				return nil, err
			}
			return map[string]any{"manifestId": docs.ManifestID, "cocId": docs.COCID, "mtrId": docs.MTRID}, nil
		})
}

// ConfirmListingLoadedCommandHandler checks every member reached LOADED at the load station.
type ConfirmListingLoadedCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewConfirmListingLoadedCommandHandler creates a ConfirmListingLoadedCommandHandler with its dependencies.
func NewConfirmListingLoadedCommandHandler(uowFactory UoWFactory, clock ports.Clock) ConfirmListingLoadedCommandHandler {
	return ConfirmListingLoadedCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle moves the listing to LOADED.
// Returns errs.ErrValidationFailed listing every member not yet LOADED.
func (h ConfirmListingLoadedCommandHandler) Handle(ctx context.Context, cmd ConfirmListingLoadedCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return runListingStep(ctx, h.uowFactory, h.clock, cmd.ListingID(), cmd.Actor(), trace.ListingLoaded,
		func(l *listing.Listing, members []*droptag.DropTag, now time.Time) (map[string]any, error) {
			return nil, l.ConfirmLoaded(members, now)
		})
}

type CloseListingCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewCloseListingCommandHandler creates a CloseListingCommandHandler with its dependencies.
func NewCloseListingCommandHandler(uowFactory UoWFactory, clock ports.Clock) CloseListingCommandHandler {
	return CloseListingCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle moves a DELIVERED listing to CLOSED.
func (h CloseListingCommandHandler) Handle(ctx context.Context, cmd CloseListingCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return runListingStep(ctx, h.uowFactory, h.clock, cmd.ListingID(), cmd.Actor(), trace.ListingClosed,
		func(l *listing.Listing, _ []*droptag.DropTag, now time.Time) (map[string]any, error) {
			return nil, l.Close(now)
		})
}
