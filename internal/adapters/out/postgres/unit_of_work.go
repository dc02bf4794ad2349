// Package postgres provides the GORM-based Unit of Work over the custody tables.
//
// Every repository handed out by a GormUnitOfWork runs inside the transaction opened by
// Begin. Outside a transaction the repositories use the pool directly, which is how the
// read side and the archive job use them.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	tag, err := uow.DropTagRepository().GetForUpdate(ctx, id)
//	...
//	return uow.Commit(ctx)
//
// Concurrency:
//   - GetForUpdate and FindBy...(forUpdate=true) take row locks held until Commit or Rollback
//   - Update is a compare-and-set on the status the aggregate was loaded with
//   - a unit of work is not safe for use from several goroutines
package postgres

import (
	"context"

	"custody/internal/adapters/out/postgres/archiverepo"
	"custody/internal/adapters/out/postgres/droptagrepo"
	"custody/internal/adapters/out/postgres/listingrepo"
	"custody/internal/adapters/out/postgres/packagerepo"
	"custody/internal/adapters/out/postgres/tracerepo"
	"custody/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances over one connection pool.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory over db.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create returns a unit of work with no open transaction.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork coordinates one database transaction.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin opens the transaction. A second Begin on an open unit of work is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	uow.tx = tx
	return nil
}

// Commit commits the transaction. Returns ports.ErrNoTransaction when none is open.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return ports.ErrNoTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback aborts the transaction. Returns ports.ErrNoTransaction when none is open,
// which the deferred Rollback after a Commit ignores.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return ports.ErrNoTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// PackageRepository returns a package repository on the current connection.
func (uow *GormUnitOfWork) PackageRepository() ports.PackageRepository {
	return packagerepo.NewGormPackageRepository(uow.conn())
}

// DropTagRepository returns a drop tag repository on the current connection.
func (uow *GormUnitOfWork) DropTagRepository() ports.DropTagRepository {
	return droptagrepo.NewGormDropTagRepository(uow.conn())
}

// TagIdentifierRepository returns an identifier repository on the current connection.
func (uow *GormUnitOfWork) TagIdentifierRepository() ports.TagIdentifierRepository {
	return droptagrepo.NewGormTagIdentifierRepository(uow.conn())
}

// ListingRepository returns a listing repository on the current connection.
func (uow *GormUnitOfWork) ListingRepository() ports.ListingRepository {
	return listingrepo.NewGormListingRepository(uow.conn())
}

// TraceEventRepository returns the trace log on the current connection.
func (uow *GormUnitOfWork) TraceEventRepository() ports.TraceEventRepository {
	return tracerepo.NewGormTraceEventRepository(uow.conn())
}

// TraceOutbox returns the relay view of the trace log.
func (uow *GormUnitOfWork) TraceOutbox() ports.TraceOutbox {
	return tracerepo.NewGormTraceEventRepository(uow.conn())
}

// CustodyArchiveRepository returns the archive records on the current connection.
func (uow *GormUnitOfWork) CustodyArchiveRepository() ports.CustodyArchiveRepository {
	return archiverepo.NewGormCustodyArchiveRepository(uow.conn())
}
