package commands

import (
	"errors"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/guard"
)

var ErrSubmitPackageForQCCommandIsNotConstructed = errors.New(
	"SubmitPackageForQCCommand must be created via NewSubmitPackageForQCCommand constructor",
)

// SubmitPackageForQCCommand hands an OPEN package with items to inspection.
type SubmitPackageForQCCommand struct { //nolint:recvcheck //using for validation
	packageID kernel.UUID
	actor     kernel.Actor

	guard guard.ConstructorGuard
}

// NewSubmitPackageForQCCommand creates a command to hand a package to inspection.
func NewSubmitPackageForQCCommand(packageID kernel.UUID, actor kernel.Actor) (SubmitPackageForQCCommand, error) {
	if err := errors.Join(packageID.Validate(), actor.Validate()); err != nil {
		return SubmitPackageForQCCommand{}, err
	}
	return SubmitPackageForQCCommand{packageID: packageID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrSubmitPackageForQCCommandIsNotConstructed if validation fails.
func (c SubmitPackageForQCCommand) Validate() error {
	return c.guard.Validate(ErrSubmitPackageForQCCommandIsNotConstructed)
}

// PackageID returns the identifier of the target package.
func (c SubmitPackageForQCCommand) PackageID() kernel.UUID {
	return c.packageID
}

// Actor returns who issued the command.
func (c SubmitPackageForQCCommand) Actor() kernel.Actor {
	return c.actor
}
