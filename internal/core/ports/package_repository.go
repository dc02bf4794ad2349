// Package ports defines the contracts between the custody core and its infrastructure:
// repositories bound to a unit of work, the clock, and the outbound publisher and archiver.
package ports

import (
	"context"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/packaging"
)

// PackageRepository persists Package aggregates with their items.
type PackageRepository interface {
	// Add inserts a new package. A duplicate code is reported as errs.ErrAlreadyExists.
	Add(ctx context.Context, aggregate *packaging.Package) error

	// Update writes the package with a compare-and-set on the status it was loaded with.
	// If another transaction changed the status first, errs.ErrInvalidState is returned.
	Update(ctx context.Context, aggregate *packaging.Package) error

	// Get reads a package without locking it.
	Get(ctx context.Context, id kernel.UUID) (*packaging.Package, error)

	// GetForUpdate reads a package and locks its row until the unit of work ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*packaging.Package, error)

	// FindByCode looks a package up by its PKG code.
	FindByCode(ctx context.Context, code kernel.Code) (*packaging.Package, error)
}
