package commands

import (
	"errors"
	"strings"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

var ErrCreateListingCommandIsNotConstructed = errors.New(
	"CreateListingCommand must be created via NewCreateListingCommand constructor",
)

// CreateListingCommand opens a DRAFT shipment listing at an origin location.
type CreateListingCommand struct { //nolint:recvcheck //using for validation
	listingID   kernel.UUID
	shipmentRef string
	origin      string
	actor       kernel.Actor

	guard guard.ConstructorGuard
}

// NewCreateListingCommand creates a command to open a DRAFT listing.
// Validates the ids and requires a shipment reference and an origin location.
func NewCreateListingCommand(listingID kernel.UUID, shipmentRef, origin string, actor kernel.Actor) (CreateListingCommand, error) {
	cmd := CreateListingCommand{
		listingID:   listingID,
		shipmentRef: strings.TrimSpace(shipmentRef),
		origin:      strings.TrimSpace(origin),
		actor:       actor,
		guard:       guard.NewConstructorGuard(),
	}

	var refErr, originErr error
	if cmd.shipmentRef == "" {
		refErr = errs.NewValueIsRequiredError("shipment reference")
	}
	if cmd.origin == "" {
		originErr = errs.NewValueIsRequiredError("origin location")
	}
	if err := errors.Join(listingID.Validate(), actor.Validate(), refErr, originErr); err != nil {
		return CreateListingCommand{}, err
	}
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateListingCommandIsNotConstructed if validation fails.
func (c CreateListingCommand) Validate() error {
	return c.guard.Validate(ErrCreateListingCommandIsNotConstructed)
}

// ListingID returns the identifier of the target listing.
func (c CreateListingCommand) ListingID() kernel.UUID {
	return c.listingID
}

// ShipmentRef returns the carrier shipment reference.
func (c CreateListingCommand) ShipmentRef() string {
	return c.shipmentRef
}

// Origin returns the location the truck departs from.
func (c CreateListingCommand) Origin() string {
	return c.origin
}

// Actor returns who issued the command.
func (c CreateListingCommand) Actor() kernel.Actor {
	return c.actor
}
