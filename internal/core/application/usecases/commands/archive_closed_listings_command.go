package commands

import (
	"errors"

	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

var ErrArchiveClosedListingsCommandIsNotConstructed = errors.New(
	"ArchiveClosedListingsCommand must be created via NewArchiveClosedListingsCommand constructor",
)

// ArchiveClosedListingsCommand exports the custody chain of up to batchSize closed listings.
type ArchiveClosedListingsCommand struct { //nolint:recvcheck //using for validation
	batchSize int

	guard guard.ConstructorGuard
}

// NewArchiveClosedListingsCommand creates a command for one archive run.
// Returns errs.ErrValueIsOutOfRange when batchSize is not positive.
func NewArchiveClosedListingsCommand(batchSize int) (ArchiveClosedListingsCommand, error) {
	if batchSize <= 0 {
		return ArchiveClosedListingsCommand{}, errs.NewValueIsOutOfRangeError("batch size", batchSize, 1, "unbounded")
	}
	return ArchiveClosedListingsCommand{batchSize: batchSize, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrArchiveClosedListingsCommandIsNotConstructed if validation fails.
func (c ArchiveClosedListingsCommand) Validate() error {
	return c.guard.Validate(ErrArchiveClosedListingsCommandIsNotConstructed)
}

// BatchSize returns the maximum number of records handled in one run.
func (c ArchiveClosedListingsCommand) BatchSize() int {
	return c.batchSize
}
