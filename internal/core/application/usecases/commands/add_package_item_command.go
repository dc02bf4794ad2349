package commands

import (
	"errors"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/packaging"
	"custody/internal/pkg/guard"
)

var ErrAddPackageItemCommandIsNotConstructed = errors.New(
	"AddPackageItemCommand must be created via NewAddPackageItemCommand constructor",
)

// ItemInput describes one line of cut material placed in a package.
type ItemInput struct {
	ItemID     kernel.UUID
	Grade      string
	Form       string
	HeatNumber string
	Pieces     int
	Weight     kernel.Weight
	Dimensions string
}

type AddPackageItemCommand struct { //nolint:recvcheck //using for validation
	packageID kernel.UUID
	item      *packaging.Item
	actor     kernel.Actor

	guard guard.ConstructorGuard
}

// NewAddPackageItemCommand creates a command to append one line of material to a package.
// Validates the package id and actor, then builds the item through packaging.NewItem.
func NewAddPackageItemCommand(packageID kernel.UUID, in ItemInput, actor kernel.Actor) (AddPackageItemCommand, error) {
	if err := errors.Join(packageID.Validate(), actor.Validate()); err != nil {
		return AddPackageItemCommand{}, err
	}
	item, err := packaging.NewItem(in.ItemID, in.Grade, in.Form, in.HeatNumber, in.Pieces, in.Weight, in.Dimensions)
	if err != nil {
		return AddPackageItemCommand{}, err
	}
	return AddPackageItemCommand{
		packageID: packageID,
		item:      item,
		actor:     actor,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAddPackageItemCommandIsNotConstructed if validation fails.
func (c AddPackageItemCommand) Validate() error {
	return c.guard.Validate(ErrAddPackageItemCommandIsNotConstructed)
}

// PackageID returns the identifier of the target package.
func (c AddPackageItemCommand) PackageID() kernel.UUID {
	return c.packageID
}

// Item returns the validated line to append.
func (c AddPackageItemCommand) Item() *packaging.Item {
	return c.item
}

// Actor returns who issued the command.
func (c AddPackageItemCommand) Actor() kernel.Actor {
	return c.actor
}
