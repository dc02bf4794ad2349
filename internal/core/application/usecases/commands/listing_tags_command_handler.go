package commands

import (
	"context"

	"custody/internal/core/domain/model/droptag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/trace"
	"custody/internal/core/ports"
)

// AddListingTagsCommandHandler adds tags to a listing. Every rejected tag is reported in one
// errs.ValidationFailedError and nothing is written.
type AddListingTagsCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewAddListingTagsCommandHandler creates a AddListingTagsCommandHandler with its dependencies.
func NewAddListingTagsCommandHandler(uowFactory UoWFactory, clock ports.Clock) AddListingTagsCommandHandler {
	return AddListingTagsCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle assigns the tags to the listing and recomputes its totals.
func (h AddListingTagsCommandHandler) Handle(ctx context.Context, cmd AddListingTagsCommand) error {
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
	adding, err := uow.DropTagRepository().GetManyForUpdate(ctx, cmd.TagIDs())
	if err != nil {
		return err
	}

	now := h.clock.Now()
	previous := l.Status().String()
	before := make(map[kernel.UUID]bool, len(members))
	for _, member := range members {
		before[member.ID()] = true
	}
	if err = l.AddTags(adding, members, now); err != nil {
		return err
	}
	if err = uow.ListingRepository().Update(ctx, l); err != nil {
		return err
	}

	var added []*droptag.DropTag
	for _, tag := range adding {
		if before[tag.ID()] || !l.HasTag(tag.ID()) {
			continue
		}
		before[tag.ID()] = true
		added = append(added, tag)
	}
	if err = updateTags(ctx, uow.DropTagRepository(), added); err != nil {
		return err
	}

	fields := listingEvent(l, trace.ListingTagsAdded, cmd.Actor(), previous, now)
	fields.Metadata["dropTagCodes"] = tagCodes(added)
	if _, err = appendEvent(ctx, uow.TraceEventRepository(), fields, nil); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// RemoveListingTagsCommandHandler releases tags from a listing; they leave their stop too.
type RemoveListingTagsCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewRemoveListingTagsCommandHandler creates a RemoveListingTagsCommandHandler with its dependencies.
func NewRemoveListingTagsCommandHandler(uowFactory UoWFactory, clock ports.Clock) RemoveListingTagsCommandHandler {
	return RemoveListingTagsCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle releases the tags from the listing.
func (h RemoveListingTagsCommandHandler) Handle(ctx context.Context, cmd RemoveListingTagsCommand) error {
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

	now := h.clock.Now()
	previous := l.Status().String()
	removed, err := l.RemoveTags(cmd.TagIDs(), members, now)
	if err != nil {
		return err
	}
	if err = uow.ListingRepository().Update(ctx, l); err != nil {
		return err
	}
	if err = updateTags(ctx, uow.DropTagRepository(), removed); err != nil {
		return err
	}

	fields := listingEvent(l, trace.ListingTagsRemoved, cmd.Actor(), previous, now)
	fields.Metadata["dropTagCodes"] = tagCodes(removed)
	if _, err = appendEvent(ctx, uow.TraceEventRepository(), fields, nil); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
