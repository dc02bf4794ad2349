package commands

import (
	"errors"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/guard"
)

var ErrPrintDropTagCommandIsNotConstructed = errors.New(
	"PrintDropTagCommand must be created via NewPrintDropTagCommand constructor",
)

// PrintDropTagCommand records the first print of a label.
//
// Example:
//
//	cmd, err := NewPrintDropTagCommand(tagID, actor)
//	if err != nil {
//	    return err
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("print label: %w", err)
//	}
type PrintDropTagCommand struct { //nolint:recvcheck //using for validation
	dropTagID kernel.UUID
	actor     kernel.Actor

	guard guard.ConstructorGuard
}

// NewPrintDropTagCommand creates a command to record the first print of a label.
func NewPrintDropTagCommand(dropTagID kernel.UUID, actor kernel.Actor) (PrintDropTagCommand, error) {
	if err := errors.Join(dropTagID.Validate(), actor.Validate()); err != nil {
		return PrintDropTagCommand{}, err
	}
	return PrintDropTagCommand{dropTagID: dropTagID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrPrintDropTagCommandIsNotConstructed if validation fails.
func (c PrintDropTagCommand) Validate() error {
	return c.guard.Validate(ErrPrintDropTagCommandIsNotConstructed)
}

// DropTagID returns the identifier of the target drop tag.
func (c PrintDropTagCommand) DropTagID() kernel.UUID {
	return c.dropTagID
}

// Actor returns who issued the command.
func (c PrintDropTagCommand) Actor() kernel.Actor {
	return c.actor
}
