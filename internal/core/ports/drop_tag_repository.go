package ports

import (
	"context"

	"custody/internal/core/domain/model/droptag"
	"custody/internal/core/domain/model/kernel"
)

// DropTagRepository persists DropTag aggregates.
type DropTagRepository interface {
	Add(ctx context.Context, aggregate *droptag.DropTag) error

	// Update writes the tag with a compare-and-set on its loaded status; a lost race
	// surfaces as errs.ErrInvalidState.
	Update(ctx context.Context, aggregate *droptag.DropTag) error

	Get(ctx context.Context, id kernel.UUID) (*droptag.DropTag, error)
	GetForUpdate(ctx context.Context, id kernel.UUID) (*droptag.DropTag, error)
	FindByCode(ctx context.Context, code kernel.Code) (*droptag.DropTag, error)

	// FindByPackage returns every tag of the package, void ones included, ordered by code.
	FindByPackage(ctx context.Context, packageID kernel.UUID, forUpdate bool) ([]*droptag.DropTag, error)

	// FindByListing returns the tags currently claimed by the listing, ordered by code.
	FindByListing(ctx context.Context, listingID kernel.UUID, forUpdate bool) ([]*droptag.DropTag, error)

	// GetManyForUpdate locks and returns the given tags. Missing ids are reported as errs.ErrObjectNotFound.
	GetManyForUpdate(ctx context.Context, ids []kernel.UUID) ([]*droptag.DropTag, error)
}

// TagIdentifierRepository stores secondary identifiers. It is read by the resolver only.
type TagIdentifierRepository interface {
	// Add registers an identifier. The (type, value) pair is unique.
	Add(ctx context.Context, identifier *droptag.TagIdentifier) error

	// FindByValue returns every identifier with the normalized value, across types.
	FindByValue(ctx context.Context, value string) ([]*droptag.TagIdentifier, error)
}
