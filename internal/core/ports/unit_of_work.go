package ports

import (
	"context"
)

// UnitOfWorkFactory hands out a fresh UnitOfWork per command or query.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is one custody transaction. Every repository it returns is bound to the
// transaction opened by Begin; callers Begin, defer Rollback and Commit explicitly.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit fails when no transaction is open.
	Commit(ctx context.Context) error

	// Rollback returns ErrNoTransaction after Commit; deferred calls ignore it.
	Rollback(ctx context.Context) error

	PackageRepository() PackageRepository
	DropTagRepository() DropTagRepository
	TagIdentifierRepository() TagIdentifierRepository
	ListingRepository() ListingRepository
	TraceEventRepository() TraceEventRepository
	TraceOutbox() TraceOutbox
	CustodyArchiveRepository() CustodyArchiveRepository
}
