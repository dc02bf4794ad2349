package ports

import (
	"context"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/listing"
)

// ListingRepository persists Listing aggregates with their stops.
type ListingRepository interface {
	Add(ctx context.Context, aggregate *listing.Listing) error
	Update(ctx context.Context, aggregate *listing.Listing) error
	Get(ctx context.Context, id kernel.UUID) (*listing.Listing, error)
	GetForUpdate(ctx context.Context, id kernel.UUID) (*listing.Listing, error)
	FindByCode(ctx context.Context, code kernel.Code) (*listing.Listing, error)

	// FindClosedUnarchived returns up to limit CLOSED listings with no custody archive yet.
	FindClosedUnarchived(ctx context.Context, limit int) ([]*listing.Listing, error)
}
