package commands

import (
	"context"

	"custody/internal/core/domain/model/droptag"
	"custody/internal/core/domain/model/trace"
	"custody/internal/core/ports"
	"custody/internal/pkg/errs"
)

// RegisterTagIdentifierCommandHandler records a secondary identifier. Void tags cannot gain
// identifiers; a (type, value) pair already in use fails with errs.ErrAlreadyExists.
type RegisterTagIdentifierCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewRegisterTagIdentifierCommandHandler creates a RegisterTagIdentifierCommandHandler with its dependencies.
func NewRegisterTagIdentifierCommandHandler(uowFactory UoWFactory, clock ports.Clock) RegisterTagIdentifierCommandHandler {
	return RegisterTagIdentifierCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle stores the identifier and records TAG_IDENTIFIER_REGISTERED on the tag.
func (h RegisterTagIdentifierCommandHandler) Handle(ctx context.Context, cmd RegisterTagIdentifierCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	tag, err := uow.DropTagRepository().Get(ctx, cmd.DropTagID())
	if err != nil {
		return err
	}
	if !tag.IsActive() {
		return errs.NewInvalidStateError("drop tag", tag.Status().String(), "register an identifier for")
	}

	now := h.clock.Now()
	identifier, err := droptag.NewTagIdentifier(cmd.IdentifierID(), tag.ID(), cmd.Type(), cmd.Value(), now)
	if err != nil {
		return err
	}
	if err = uow.TagIdentifierRepository().Add(ctx, identifier); err != nil {
		return err
	}

	status := tag.Status().String()
	fields := tagEvent(tag, trace.IdentifierBound, cmd.Actor(), status, now)
	fields.Category = trace.CategoryIdentity
	fields.Metadata["identifierType"] = string(identifier.Type())
	fields.Metadata["identifierValue"] = identifier.Value()
	if _, err = appendEvent(ctx, uow.TraceEventRepository(), fields, nil); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
