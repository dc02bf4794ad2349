package commands

import (
	"errors"
	"strings"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

var ErrVoidDropTagCommandIsNotConstructed = errors.New(
	"VoidDropTagCommand must be created via NewVoidDropTagCommand constructor",
)

// VoidDropTagCommand permanently invalidates a tag. claimID is required once the tag is
// LOADED or SHIPPED.
type VoidDropTagCommand struct { //nolint:recvcheck //using for validation
	dropTagID kernel.UUID
	reason    string
	claimID   string
	actor     kernel.Actor

	guard guard.ConstructorGuard
}

// NewVoidDropTagCommand creates a command to void a tag.
// Requires a reason; the claim id is checked by the handler against the tag state.
func NewVoidDropTagCommand(dropTagID kernel.UUID, reason, claimID string, actor kernel.Actor) (VoidDropTagCommand, error) {
	reason = strings.TrimSpace(reason)
	var reasonErr error
	if reason == "" {
		reasonErr = errs.NewValueIsRequiredError("void reason")
	}
	if err := errors.Join(dropTagID.Validate(), actor.Validate(), reasonErr); err != nil {
		return VoidDropTagCommand{}, err
	}
	return VoidDropTagCommand{
		dropTagID: dropTagID,
		reason:    reason,
		claimID:   strings.TrimSpace(claimID),
		actor:     actor,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrVoidDropTagCommandIsNotConstructed if validation fails.
func (c VoidDropTagCommand) Validate() error {
	return c.guard.Validate(ErrVoidDropTagCommandIsNotConstructed)
}

// DropTagID returns the identifier of the target drop tag.
func (c VoidDropTagCommand) DropTagID() kernel.UUID {
	return c.dropTagID
}

// Reason returns why the label is reissued or voided.
func (c VoidDropTagCommand) Reason() string {
	return c.reason
}

// ClaimID returns the claim the void is filed under, empty before loading.
func (c VoidDropTagCommand) ClaimID() string {
	return c.claimID
}

// Actor returns who issued the command.
func (c VoidDropTagCommand) Actor() kernel.Actor {
	return c.actor
}
