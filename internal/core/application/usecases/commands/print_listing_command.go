package commands

import (
	"errors"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/listing"
	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

var ErrPrintListingCommandIsNotConstructed = errors.New(
	"PrintListingCommand must be created via NewPrintListingCommand constructor",
)

// PrintListingCommand records the ids of the rendered manifest, COC and MTR.
type PrintListingCommand struct { //nolint:recvcheck //using for validation
	listingRef
	documents listing.Documents
	guard     guard.ConstructorGuard
}

// NewPrintListingCommand creates a command to record the rendered listing documents.
// All three document ids are required.
func NewPrintListingCommand(listingID kernel.UUID, docs listing.Documents, actor kernel.Actor) (PrintListingCommand, error) {
	ref, err := newListingRef(listingID, actor)
	var docsErr error
	if docs.ManifestID == "" || docs.COCID == "" || docs.MTRID == "" {
		docsErr = errs.NewValueIsRequiredError("document ids")
	}
	if err = errors.Join(err, docsErr); err != nil {
		return PrintListingCommand{}, err
	}
	return PrintListingCommand{listingRef: ref, documents: docs, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrPrintListingCommandIsNotConstructed if validation fails.
func (c PrintListingCommand) Validate() error {
	return c.guard.Validate(ErrPrintListingCommandIsNotConstructed)
}

// Documents returns the ids of the rendered shipping documents.
func (c PrintListingCommand) Documents() listing.Documents {
	return c.documents
}
