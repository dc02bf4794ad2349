package commands

import (
	"errors"
	"strings"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/guard"
)

var ErrApplyDropTagCommandIsNotConstructed = errors.New(
	"ApplyDropTagCommand must be created via NewApplyDropTagCommand constructor",
)

// ApplyDropTagCommand confirms a printed label is on the package. packageScan is the value
// the operator scanned off the package, or empty when none was taken.
type ApplyDropTagCommand struct { //nolint:recvcheck //using for validation
	dropTagID   kernel.UUID
	packageScan string
	actor       kernel.Actor

	guard guard.ConstructorGuard
}

// NewApplyDropTagCommand creates a command to confirm a printed label was applied.
// Validates the tag id and actor. The package scan is trimmed and may be empty.
func NewApplyDropTagCommand(dropTagID kernel.UUID, packageScan string, actor kernel.Actor) (ApplyDropTagCommand, error) {
	if err := errors.Join(dropTagID.Validate(), actor.Validate()); err != nil {
		return ApplyDropTagCommand{}, err
	}
	return ApplyDropTagCommand{
		dropTagID:   dropTagID,
		packageScan: strings.TrimSpace(packageScan),
		actor:       actor,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrApplyDropTagCommandIsNotConstructed if validation fails.
func (c ApplyDropTagCommand) Validate() error {
	return c.guard.Validate(ErrApplyDropTagCommandIsNotConstructed)
}

// DropTagID returns the identifier of the target drop tag.
func (c ApplyDropTagCommand) DropTagID() kernel.UUID {
	return c.dropTagID
}

// PackageScan returns the package code scanned next to the label, if any.
func (c ApplyDropTagCommand) PackageScan() string {
	return c.packageScan
}

// Actor returns who issued the command.
func (c ApplyDropTagCommand) Actor() kernel.Actor {
	return c.actor
}
