package commands

import (
	"errors"

	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

var ErrRelayTraceEventsCommandIsNotConstructed = errors.New(
	"RelayTraceEventsCommand must be created via NewRelayTraceEventsCommand constructor",
)

// RelayTraceEventsCommand moves one batch of committed trace events to the message bus.
type RelayTraceEventsCommand struct { //nolint:recvcheck //using for validation
	batchSize int

	guard guard.ConstructorGuard
}

// NewRelayTraceEventsCommand creates a command for one relay batch.
// Returns errs.ErrValueIsOutOfRange when batchSize is not positive.
func NewRelayTraceEventsCommand(batchSize int) (RelayTraceEventsCommand, error) {
	if batchSize <= 0 {
		return RelayTraceEventsCommand{}, errs.NewValueIsOutOfRangeError("batch size", batchSize, 1, "unbounded")
	}
	return RelayTraceEventsCommand{batchSize: batchSize, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRelayTraceEventsCommandIsNotConstructed if validation fails.
func (c RelayTraceEventsCommand) Validate() error {
	return c.guard.Validate(ErrRelayTraceEventsCommandIsNotConstructed)
}

// BatchSize returns the maximum number of records handled in one run.
func (c RelayTraceEventsCommand) BatchSize() int {
	return c.batchSize
}
