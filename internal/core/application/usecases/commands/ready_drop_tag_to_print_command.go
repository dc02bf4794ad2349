package commands

import (
	"errors"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/guard"
)

var ErrReadyDropTagToPrintCommandIsNotConstructed = errors.New(
	"ReadyDropTagToPrintCommand must be created via NewReadyDropTagToPrintCommand constructor",
)

// ReadyDropTagToPrintCommand moves a DRAFT tag to READY_TO_PRINT.
type ReadyDropTagToPrintCommand struct { //nolint:recvcheck //using for validation
	dropTagID kernel.UUID
	actor     kernel.Actor

	guard guard.ConstructorGuard
}

// NewReadyDropTagToPrintCommand creates a command to queue a DRAFT tag for printing.
func NewReadyDropTagToPrintCommand(dropTagID kernel.UUID, actor kernel.Actor) (ReadyDropTagToPrintCommand, error) {
	if err := errors.Join(dropTagID.Validate(), actor.Validate()); err != nil {
		return ReadyDropTagToPrintCommand{}, err
	}
	return ReadyDropTagToPrintCommand{dropTagID: dropTagID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrReadyDropTagToPrintCommandIsNotConstructed if validation fails.
func (c ReadyDropTagToPrintCommand) Validate() error {
	return c.guard.Validate(ErrReadyDropTagToPrintCommandIsNotConstructed)
}

// DropTagID returns the identifier of the target drop tag.
func (c ReadyDropTagToPrintCommand) DropTagID() kernel.UUID {
	return c.dropTagID
}

// Actor returns who issued the command.
func (c ReadyDropTagToPrintCommand) Actor() kernel.Actor {
	return c.actor
}
