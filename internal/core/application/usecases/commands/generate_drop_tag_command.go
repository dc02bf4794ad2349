package commands

import (
	"errors"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/guard"
)

var ErrGenerateDropTagCommandIsNotConstructed = errors.New(
	"GenerateDropTagCommand must be created via NewGenerateDropTagCommand constructor",
)

// GenerateDropTagCommand issues a DRAFT tag summarizing the material of a package.
//
// Example:
//
//	cmd, _ := NewGenerateDropTagCommand(pkgID, kernel.NewUUID(), actor)
//	result, err := handler.Handle(ctx, cmd)
//	switch errs.KindOf(err) {
//	case errs.KindValidationFailed:
//	    // errs.Reasons(err) lists every blocking reason, e.g. "Mixed grades detected: 4140, 1018"
//	case errs.KindUnknown:
//	    // result.Warnings may still carry mixed heat notices
//	}
type GenerateDropTagCommand struct { //nolint:recvcheck //using for validation
	packageID kernel.UUID
	dropTagID kernel.UUID
	actor     kernel.Actor

	guard guard.ConstructorGuard
}

// NewGenerateDropTagCommand creates a command to issue a tag for a package.
// Validates both ids and the actor.
func NewGenerateDropTagCommand(packageID, dropTagID kernel.UUID, actor kernel.Actor) (GenerateDropTagCommand, error) {
	if err := errors.Join(packageID.Validate(), dropTagID.Validate(), actor.Validate()); err != nil {
		return GenerateDropTagCommand{}, err
	}
	return GenerateDropTagCommand{
		packageID: packageID,
		dropTagID: dropTagID,
		actor:     actor,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrGenerateDropTagCommandIsNotConstructed if validation fails.
func (c GenerateDropTagCommand) Validate() error {
	return c.guard.Validate(ErrGenerateDropTagCommandIsNotConstructed)
}

// PackageID returns the identifier of the target package.
func (c GenerateDropTagCommand) PackageID() kernel.UUID {
	return c.packageID
}

// DropTagID returns the identifier of the target drop tag.
func (c GenerateDropTagCommand) DropTagID() kernel.UUID {
	return c.dropTagID
}

// Actor returns who issued the command.
func (c GenerateDropTagCommand) Actor() kernel.Actor {
	return c.actor
}
