package ports

import "errors"

// Causes attached by repository adapters to the typed errors they return.
var (
	// ErrDuplicateKey is the cause of errs.ErrAlreadyExists on a unique index violation.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrConcurrentUpdate is the cause of errs.ErrInvalidState when a compare-and-set write
	// matched no row because another transaction moved the status first.
	ErrConcurrentUpdate = errors.New("status changed by a concurrent transaction")

	// ErrNoTransaction is returned by Commit and Rollback outside Begin.
	ErrNoTransaction = errors.New("no active transaction")
)
