package memory

import (
	"context"

	"custody/internal/core/ports"
)

// UnitOfWork serializes against every other unit of work of the same store. Repositories
// used outside Begin read and write the committed data directly, one call at a time.
type UnitOfWork struct {
	store *Store
	work  *data
}

// Begin takes the store lock and snapshots its data. A second Begin is a no-op.
func (uow *UnitOfWork) Begin(ctx context.Context) error {
	if uow.work != nil {
		return nil
	}
	if err := uow.store.lock(ctx); err != nil {
		return err
	}
	uow.work = uow.store.data.clone()
	return nil
}

// Commit publishes the working copy and releases the lock.
func (uow *UnitOfWork) Commit(_ context.Context) error {
	if uow.work == nil {
		return ports.ErrNoTransaction
	}
	uow.store.data = uow.work
	uow.work = nil
	uow.store.unlock()
	return nil
}

// Rollback drops the working copy and releases the lock.
// Returns ports.ErrNoTransaction when nothing is active.
func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if uow.work == nil {
		return ports.ErrNoTransaction
	}
	uow.work = nil
	uow.store.unlock()
	return nil
}

// with runs fn against the transaction data, or against the committed data under the
// store lock when no transaction is active.
func (uow *UnitOfWork) with(ctx context.Context, fn func(d *data) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if uow.work != nil {
		return fn(uow.work)
	}
	if err := uow.store.lock(ctx); err != nil {
		return err
	}
	defer uow.store.unlock()
	return fn(uow.store.data)
}

// PackageRepository returns the package repository bound to this unit of work.
func (uow *UnitOfWork) PackageRepository() ports.PackageRepository {
	return &packageRepository{uow: uow}
}

// DropTagRepository returns the drop tag repository bound to this unit of work.
func (uow *UnitOfWork) DropTagRepository() ports.DropTagRepository {
	return &dropTagRepository{uow: uow}
}

// TagIdentifierRepository returns the identifier repository bound to this unit of work.
func (uow *UnitOfWork) TagIdentifierRepository() ports.TagIdentifierRepository {
	return &tagIdentifierRepository{uow: uow}
}

// ListingRepository returns the listing repository bound to this unit of work.
func (uow *UnitOfWork) ListingRepository() ports.ListingRepository {
	return &listingRepository{uow: uow}
}

// TraceEventRepository returns the trace log bound to this unit of work.
func (uow *UnitOfWork) TraceEventRepository() ports.TraceEventRepository {
	return &traceEventRepository{uow: uow}
}

// TraceOutbox returns the relay view of the trace log.
func (uow *UnitOfWork) TraceOutbox() ports.TraceOutbox {
	return &traceEventRepository{uow: uow}
}

// CustodyArchiveRepository returns the archive records bound to this unit of work.
func (uow *UnitOfWork) CustodyArchiveRepository() ports.CustodyArchiveRepository {
	return &archiveRepository{uow: uow}
}
