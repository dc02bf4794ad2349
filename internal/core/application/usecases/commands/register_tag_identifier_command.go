package commands

import (
	"errors"

	"custody/internal/core/domain/model/droptag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

var ErrRegisterTagIdentifierCommandIsNotConstructed = errors.New(
	"RegisterTagIdentifierCommand must be created via NewRegisterTagIdentifierCommand constructor",
)

// RegisterTagIdentifierCommand binds an RFID, etch mark or alternate barcode to a tag.
type RegisterTagIdentifierCommand struct { //nolint:recvcheck //using for validation
	identifierID kernel.UUID
	dropTagID    kernel.UUID
	kind         droptag.IdentifierType
	value        string
	actor        kernel.Actor

	guard guard.ConstructorGuard
}

// NewRegisterTagIdentifierCommand creates a command to bind an identifier to a tag.
// The value is normalized before the required check.
func NewRegisterTagIdentifierCommand(
	identifierID, dropTagID kernel.UUID,
	kind droptag.IdentifierType,
	value string,
	actor kernel.Actor,
) (RegisterTagIdentifierCommand, error) {
	value = droptag.NormalizeIdentifierValue(value)
	var valueErr error
	if value == "" {
		valueErr = errs.NewValueIsRequiredError("identifier value")
	}
	if err := errors.Join(identifierID.Validate(), dropTagID.Validate(), kind.Validate(), actor.Validate(), valueErr); err != nil {
		return RegisterTagIdentifierCommand{}, err
	}
	return RegisterTagIdentifierCommand{
		identifierID: identifierID,
		dropTagID:    dropTagID,
		kind:         kind,
		value:        value,
		actor:        actor,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRegisterTagIdentifierCommandIsNotConstructed if validation fails.
func (c RegisterTagIdentifierCommand) Validate() error {
	return c.guard.Validate(ErrRegisterTagIdentifierCommandIsNotConstructed)
}

// IdentifierID returns the id of the new identifier record.
func (c RegisterTagIdentifierCommand) IdentifierID() kernel.UUID {
	return c.identifierID
}

// DropTagID returns the identifier of the target drop tag.
func (c RegisterTagIdentifierCommand) DropTagID() kernel.UUID {
	return c.dropTagID
}

// Type returns the identifier technology.
func (c RegisterTagIdentifierCommand) Type() droptag.IdentifierType {
	return c.kind
}

// Value returns the normalized identifier value.
func (c RegisterTagIdentifierCommand) Value() string {
	return c.value
}

// Actor returns who issued the command.
func (c RegisterTagIdentifierCommand) Actor() kernel.Actor {
	return c.actor
}
