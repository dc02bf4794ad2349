package commands

import (
	"errors"

	"custody/internal/core/domain/model/droptag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/guard"
)

var ErrReprintDropTagCommandIsNotConstructed = errors.New(
	"ReprintDropTagCommand must be created via NewReprintDropTagCommand constructor",
)

// ReprintDropTagCommand reissues a printed label. Each call increments the reprint count.
type ReprintDropTagCommand struct { //nolint:recvcheck //using for validation
	dropTagID kernel.UUID
	reason    droptag.ReprintReason
	actor     kernel.Actor

	guard guard.ConstructorGuard
}

// NewReprintDropTagCommand creates a command to reissue a printed label.
// The reason must be one of the known reprint reasons.
func NewReprintDropTagCommand(dropTagID kernel.UUID, reason droptag.ReprintReason, actor kernel.Actor) (ReprintDropTagCommand, error) {
	if err := errors.Join(dropTagID.Validate(), reason.Validate(), actor.Validate()); err != nil {
		return ReprintDropTagCommand{}, err
	}
	return ReprintDropTagCommand{dropTagID: dropTagID, reason: reason, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrReprintDropTagCommandIsNotConstructed if validation fails.
func (c ReprintDropTagCommand) Validate() error {
	return c.guard.Validate(ErrReprintDropTagCommandIsNotConstructed)
}

// DropTagID returns the identifier of the target drop tag.
func (c ReprintDropTagCommand) DropTagID() kernel.UUID {
	return c.dropTagID
}

// Reason returns why the label is reissued or voided.
func (c ReprintDropTagCommand) Reason() droptag.ReprintReason {
	return c.reason
}

// Actor returns who issued the command.
func (c ReprintDropTagCommand) Actor() kernel.Actor {
	return c.actor
}
