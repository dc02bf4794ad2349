package commands

import (
	"errors"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

var (
	ErrAddListingTagsCommandIsNotConstructed = errors.New(
		"AddListingTagsCommand must be created via NewAddListingTagsCommand constructor",
	)
	ErrRemoveListingTagsCommandIsNotConstructed = errors.New(
		"RemoveListingTagsCommand must be created via NewRemoveListingTagsCommand constructor",
	)
)

type listingTags struct {
	listingID kernel.UUID
	tagIDs    []kernel.UUID
	actor     kernel.Actor
}

func newListingTags(listingID kernel.UUID, tagIDs []kernel.UUID, actor kernel.Actor) (listingTags, error) {
	var emptyErr error
	if len(tagIDs) == 0 {
		emptyErr = errs.NewValueIsRequiredError("drop tag ids")
	}
	idErrs := make([]error, 0, len(tagIDs))
	for _, id := range tagIDs {
		idErrs = append(idErrs, id.Validate())
	}
	if err := errors.Join(listingID.Validate(), actor.Validate(), emptyErr, errors.Join(idErrs...)); err != nil {
		return listingTags{}, err
	}
	return listingTags{listingID: listingID, tagIDs: append([]kernel.UUID(nil), tagIDs...), actor: actor}, nil
}

// AddListingTagsCommand claims SEALED or STAGED tags for a DRAFT or READY listing.
type AddListingTagsCommand struct { //nolint:recvcheck //using for validation
	listingTags
	guard guard.ConstructorGuard
}

// NewAddListingTagsCommand creates a command to claim tags for a listing.
// Requires at least one tag id; every id must be valid.
func NewAddListingTagsCommand(listingID kernel.UUID, tagIDs []kernel.UUID, actor kernel.Actor) (AddListingTagsCommand, error) {
	base, err := newListingTags(listingID, tagIDs, actor)
	if err != nil {
		return AddListingTagsCommand{}, err
	}
	return AddListingTagsCommand{listingTags: base, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAddListingTagsCommandIsNotConstructed if validation fails.
func (c AddListingTagsCommand) Validate() error {
	return c.guard.Validate(ErrAddListingTagsCommandIsNotConstructed)
}

// RemoveListingTagsCommand releases members of a DRAFT or READY listing.
type RemoveListingTagsCommand struct { //nolint:recvcheck //using for validation
	listingTags
	guard guard.ConstructorGuard
}

// NewRemoveListingTagsCommand creates a command to release tags from a listing.
// Requires at least one tag id; every id must be valid.
func NewRemoveListingTagsCommand(listingID kernel.UUID, tagIDs []kernel.UUID, actor kernel.Actor) (RemoveListingTagsCommand, error) {
	base, err := newListingTags(listingID, tagIDs, actor)
	if err != nil {
		return RemoveListingTagsCommand{}, err
	}
	return RemoveListingTagsCommand{listingTags: base, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRemoveListingTagsCommandIsNotConstructed if validation fails.
func (c RemoveListingTagsCommand) Validate() error {
	return c.guard.Validate(ErrRemoveListingTagsCommandIsNotConstructed)
}

// ListingID returns the identifier of the target listing.
func (c listingTags) ListingID() kernel.UUID {
	return c.listingID
}

// TagIDs returns a copy of the drop tag ids to claim or release.
func (c listingTags) TagIDs() []kernel.UUID {
	return append([]kernel.UUID(nil), c.tagIDs...)
}

// Actor returns who issued the command.
func (c listingTags) Actor() kernel.Actor {
	return c.actor
}
