package commands

import (
	"errors"
	"strings"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

var ErrCreatePackageCommandIsNotConstructed = errors.New(
	"CreatePackageCommand must be created via NewCreatePackageCommand constructor",
)

// CreatePackageCommand opens a new package for an order at a packing location.
//
// Example:
//
//	cmd, err := NewCreatePackageCommand(kernel.NewUUID(), "SO-88123", "PACK-03", actor)
//	if err != nil {
//	    return err
//	}
//	code, err := handler.Handle(ctx, cmd)
type CreatePackageCommand struct { //nolint:recvcheck //using for validation
	packageID kernel.UUID
	orderRef  string
	location  string
	actor     kernel.Actor

	guard guard.ConstructorGuard
}

// NewCreatePackageCommand creates a command to open a package.
// Validates the package id and actor and requires an order reference.
// Returns all validation failures joined.
func NewCreatePackageCommand(packageID kernel.UUID, orderRef, location string, actor kernel.Actor) (CreatePackageCommand, error) {
	cmd := CreatePackageCommand{
		packageID: packageID,
		orderRef:  strings.TrimSpace(orderRef),
		location:  strings.TrimSpace(location),
		actor:     actor,
		guard:     guard.NewConstructorGuard(),
	}

	var orderErr error
	if cmd.orderRef == "" {
		orderErr = errs.NewValueIsRequiredError("order reference")
	}

	if err := errors.Join(packageID.Validate(), actor.Validate(), orderErr); err != nil {
		return CreatePackageCommand{}, err
	}
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreatePackageCommandIsNotConstructed if validation fails.
func (c CreatePackageCommand) Validate() error {
	return c.guard.Validate(ErrCreatePackageCommandIsNotConstructed)
}

// PackageID returns the identifier of the target package.
func (c CreatePackageCommand) PackageID() kernel.UUID {
	return c.packageID
}

// OrderRef returns the sales order the package belongs to.
func (c CreatePackageCommand) OrderRef() string {
	return c.orderRef
}

// Location returns the packing location.
func (c CreatePackageCommand) Location() string {
	return c.location
}

// Actor returns who issued the command.
func (c CreatePackageCommand) Actor() kernel.Actor {
	return c.actor
}
