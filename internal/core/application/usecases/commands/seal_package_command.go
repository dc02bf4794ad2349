package commands

import (
	"errors"
	"strings"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

var ErrSealPackageCommandIsNotConstructed = errors.New(
	"SealPackageCommand must be created via NewSealPackageCommand constructor",
)

// SealPackageCommand closes a package under a physical seal. The seal id is write-once.
type SealPackageCommand struct { //nolint:recvcheck //using for validation
	packageID kernel.UUID
	sealID    string
	actor     kernel.Actor

	guard guard.ConstructorGuard
}

// NewSealPackageCommand creates a command to seal a package.
// Requires a non-blank seal id.
func NewSealPackageCommand(packageID kernel.UUID, sealID string, actor kernel.Actor) (SealPackageCommand, error) {
	sealID = strings.TrimSpace(sealID)
	var sealErr error
	if sealID == "" {
		sealErr = errs.NewValueIsRequiredError("seal id")
	}
	if err := errors.Join(packageID.Validate(), actor.Validate(), sealErr); err != nil {
		return SealPackageCommand{}, err
	}
	return SealPackageCommand{packageID: packageID, sealID: sealID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrSealPackageCommandIsNotConstructed if validation fails.
func (c SealPackageCommand) Validate() error {
	return c.guard.Validate(ErrSealPackageCommandIsNotConstructed)
}

// PackageID returns the identifier of the target package.
func (c SealPackageCommand) PackageID() kernel.UUID {
	return c.packageID
}

// SealID returns the physical seal number.
func (c SealPackageCommand) SealID() string {
	return c.sealID
}

// Actor returns who issued the command.
func (c SealPackageCommand) Actor() kernel.Actor {
	return c.actor
}
