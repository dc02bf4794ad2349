package commands

import (
	"context"
	"time"

	"custody/internal/core/domain/model/droptag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/listing"
	"custody/internal/core/domain/model/trace"
	"custody/internal/core/ports"
	"custody/internal/pkg/errs"
)

// VoidDropTagCommandHandler voids a tag and keeps its listing consistent:
//   - listing DRAFT or READY: the tag leaves the listing and totals are recomputed
//   - listing PRINTED or LOADED: refused with listing.ErrListingLocked, reprint or unload first
//   - listing DEPARTED or later: membership is frozen, the void needs a claim id
type VoidDropTagCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewVoidDropTagCommandHandler creates a VoidDropTagCommandHandler with its dependencies.
func NewVoidDropTagCommandHandler(uowFactory UoWFactory, clock ports.Clock) VoidDropTagCommandHandler {
	return VoidDropTagCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle voids the tag and detaches it from its listing where the listing state allows.
func (h VoidDropTagCommandHandler) Handle(ctx context.Context, cmd VoidDropTagCommand) error {
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

	now := h.clock.Now()
	previous := tag.Status().String()

	var cascades []trace.Cascade
	var onListing *listing.Listing
	if listingID := tag.ListingID(); listingID != nil {
		onListing, err = uow.ListingRepository().GetForUpdate(ctx, *listingID)
		if err != nil {
			return err
		}
		switch onListing.Status() { //nolint:exhaustive // later statuses keep membership frozen
		case listing.StatusDraft, listing.StatusReady:
			if cascades, err = h.detach(ctx, uow, onListing, tag, now); err != nil {
				return err
			}
		case listing.StatusPrinted, listing.StatusLoaded:
			return errs.NewInvalidStateErrorWithCause("listing", onListing.Status().String(),
				"void a member of", listing.ErrListingLocked)
		}
	}

	recorded, err := tag.Void(cmd.Reason(), cmd.ClaimID(), cmd.Actor(), now)
	if err != nil {
		return err
	}
	if err = uow.DropTagRepository().Update(ctx, tag); err != nil {
		return err
	}

	fields := tagEvent(tag, trace.DropTagVoided, recorded, previous, now)
	fields.Metadata["reason"] = cmd.Reason()
	if cmd.ClaimID() != "" {
		fields.Metadata["claimId"] = cmd.ClaimID()
	}
	if onListing != nil {
		fields.ShipmentID = optional(onListing.ShipmentRef())
		fields.Metadata["listingCode"] = onListing.Code().String()
	}
	if _, err = appendEvent(ctx, uow.TraceEventRepository(), fields, cascades); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// detach removes tag from an open listing. The tag instance is swapped into the member set so
// the listing releases the same object that is voided and persisted afterwards.
func (h VoidDropTagCommandHandler) detach(
	ctx context.Context,
	uow UoW,
	l *listing.Listing,
	tag *droptag.DropTag,
	now time.Time,
) ([]trace.Cascade, error) {
	members, err := uow.DropTagRepository().FindByListing(ctx, l.ID(), true)
	if err != nil {
		return nil, err
	}
	for i, member := range members {
		if member.IsEqual(tag) {
			members[i] = tag
		}
	}

	from := l.Status()
	if _, err = l.RemoveTags([]kernel.UUID{tag.ID()}, members, now); err != nil {
		return nil, err
	}
	if err = uow.ListingRepository().Update(ctx, l); err != nil {
		return nil, err
	}
	return []trace.Cascade{listingCascade(l, from)}, nil
}
