package commands

import (
	"errors"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/listing"
	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

var ErrSetListingStopsCommandIsNotConstructed = errors.New(
	"SetListingStopsCommand must be created via NewSetListingStopsCommand constructor",
)

// SetListingStopsCommand replaces the route of a listing.
type SetListingStopsCommand struct { //nolint:recvcheck //using for validation
	listingRef
	stops []listing.Stop
	guard guard.ConstructorGuard
}

// NewSetListingStopsCommand creates a command to replace the route of a listing.
// Requires at least one stop. Stops are copied.
func NewSetListingStopsCommand(listingID kernel.UUID, stops []listing.Stop, actor kernel.Actor) (SetListingStopsCommand, error) {
	ref, err := newListingRef(listingID, actor)
	var stopsErr error
	if len(stops) == 0 {
		stopsErr = errs.NewValueIsRequiredError("stops")
	}
	if err = errors.Join(err, stopsErr); err != nil {
		return SetListingStopsCommand{}, err
	}

	copied := make([]listing.Stop, 0, len(stops))
	for _, stop := range stops {
		stop.TagIDs = append([]kernel.UUID(nil), stop.TagIDs...)
		copied = append(copied, stop)
	}
	return SetListingStopsCommand{listingRef: ref, stops: copied, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrSetListingStopsCommandIsNotConstructed if validation fails.
func (c SetListingStopsCommand) Validate() error {
	return c.guard.Validate(ErrSetListingStopsCommandIsNotConstructed)
}

// Stops returns a copy of the new route.
func (c SetListingStopsCommand) Stops() []listing.Stop {
	return append([]listing.Stop(nil), c.stops...)
}
