package commands

import (
	"errors"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/guard"
)

var (
	ErrFinalizeListingCommandIsNotConstructed = errors.New(
		"FinalizeListingCommand must be created via NewFinalizeListingCommand constructor",
	)
	ErrConfirmListingLoadedCommandIsNotConstructed = errors.New(
		"ConfirmListingLoadedCommand must be created via NewConfirmListingLoadedCommand constructor",
	)
	ErrLockAndDepartListingCommandIsNotConstructed = errors.New(
		"LockAndDepartListingCommand must be created via NewLockAndDepartListingCommand constructor",
	)
	ErrCloseListingCommandIsNotConstructed = errors.New(
		"CloseListingCommand must be created via NewCloseListingCommand constructor",
	)
)

type listingRef struct {
	listingID kernel.UUID
	actor     kernel.Actor
}

func newListingRef(listingID kernel.UUID, actor kernel.Actor) (listingRef, error) {
	if err := errors.Join(listingID.Validate(), actor.Validate()); err != nil {
		return listingRef{}, err
	}
	return listingRef{listingID: listingID, actor: actor}, nil
}

// ListingID returns the identifier of the target listing.
func (c listingRef) ListingID() kernel.UUID {
	return c.listingID
}

// Actor returns who issued the command.
func (c listingRef) Actor() kernel.Actor {
	return c.actor
}

// FinalizeListingCommand marks a fully stopped listing READY.
type FinalizeListingCommand struct { //nolint:recvcheck //using for validation
	listingRef
	guard guard.ConstructorGuard
}

// NewFinalizeListingCommand creates a command to mark a listing READY.
func NewFinalizeListingCommand(listingID kernel.UUID, actor kernel.Actor) (FinalizeListingCommand, error) {
	ref, err := newListingRef(listingID, actor)
	if err != nil {
		return FinalizeListingCommand{}, err
	}
	return FinalizeListingCommand{listingRef: ref, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrFinalizeListingCommandIsNotConstructed if validation fails.
func (c FinalizeListingCommand) Validate() error {
	return c.guard.Validate(ErrFinalizeListingCommandIsNotConstructed)
}

// ConfirmListingLoadedCommand moves a PRINTED listing to LOADED once the truck is loaded.
type ConfirmListingLoadedCommand struct { //nolint:recvcheck //using for validation
	listingRef
	guard guard.ConstructorGuard
}

// NewConfirmListingLoadedCommand creates a command to confirm loading of a listing.
func NewConfirmListingLoadedCommand(listingID kernel.UUID, actor kernel.Actor) (ConfirmListingLoadedCommand, error) {
	ref, err := newListingRef(listingID, actor)
	if err != nil {
		return ConfirmListingLoadedCommand{}, err
	}
	return ConfirmListingLoadedCommand{listingRef: ref, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrConfirmListingLoadedCommandIsNotConstructed if validation fails.
func (c ConfirmListingLoadedCommand) Validate() error {
	return c.guard.Validate(ErrConfirmListingLoadedCommandIsNotConstructed)
}

// LockAndDepartListingCommand is the irrevocable departure of the truck.
type LockAndDepartListingCommand struct { //nolint:recvcheck //using for validation
	listingRef
	guard guard.ConstructorGuard
}

// NewLockAndDepartListingCommand creates a command to lock and depart a listing.
func NewLockAndDepartListingCommand(listingID kernel.UUID, actor kernel.Actor) (LockAndDepartListingCommand, error) {
	ref, err := newListingRef(listingID, actor)
	if err != nil {
		return LockAndDepartListingCommand{}, err
	}
	return LockAndDepartListingCommand{listingRef: ref, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrLockAndDepartListingCommandIsNotConstructed if validation fails.
func (c LockAndDepartListingCommand) Validate() error {
	return c.guard.Validate(ErrLockAndDepartListingCommandIsNotConstructed)
}

// CloseListingCommand ends a DELIVERED listing.
type CloseListingCommand struct { //nolint:recvcheck //using for validation
	listingRef
	guard guard.ConstructorGuard
}

// NewCloseListingCommand creates a command to close a delivered listing.
func NewCloseListingCommand(listingID kernel.UUID, actor kernel.Actor) (CloseListingCommand, error) {
	ref, err := newListingRef(listingID, actor)
	if err != nil {
		return CloseListingCommand{}, err
	}
	return CloseListingCommand{listingRef: ref, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCloseListingCommandIsNotConstructed if validation fails.
func (c CloseListingCommand) Validate() error {
	return c.guard.Validate(ErrCloseListingCommandIsNotConstructed)
}
