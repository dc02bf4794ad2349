package listingrepo

import (
	"context"
	"errors"

	"custody/internal/adapters/out/postgres/pgerr"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/listing"
	"custody/internal/core/ports"
	"custody/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormListingRepository implements ports.ListingRepository using GORM.
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a listing repository over db.
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// Add saves a new listing.
func (r *GormListingRepository) Add(ctx context.Context, aggregate *listing.Listing) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Insert(err, "listing", aggregate.Code())
	}

	aggregate.MarkPersisted()
	return nil
}

// Update is a compare-and-set on the loaded status. Stops are rewritten in full.
func (r *GormListingRepository) Update(ctx context.Context, aggregate *listing.Listing) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)
	result := db.
		Model(&ListingDTO{}).
		Where("id = ? AND status = ?", dto.ID, int(aggregate.PersistedStatus())).
		Select("*").
		Omit("id", "code", "created_at", clause.Associations).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.lostUpdate(ctx, aggregate.ID())
	}

	if err := db.Where("listing_id = ?", dto.ID).Delete(&StopDTO{}).Error; err != nil {
		return err
	}
	if len(dto.Stops) > 0 {
		if err := db.Create(&dto.Stops).Error; err != nil {
			return err
		}
	}

	aggregate.MarkPersisted()
	return nil
}

func (r *GormListingRepository) lostUpdate(ctx context.Context, id kernel.UUID) error {
	var status int
	err := r.db.WithContext(ctx).Model(&ListingDTO{}).Select("status").Where("id = ?", id.Bytes()).Take(&status).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError("listing", id)
	}
	if err != nil {
		return err
	}
	return errs.NewInvalidStateErrorWithCause("listing", listing.Status(status).String(), "update", ports.ErrConcurrentUpdate)
}

// Get retrieves a listing by ID.
func (r *GormListingRepository) Get(ctx context.Context, id kernel.UUID) (*listing.Listing, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate retrieves a listing by ID and locks it until the transaction ends.
func (r *GormListingRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*listing.Listing, error) {
	return r.get(ctx, id, true)
}

func (r *GormListingRepository) get(ctx context.Context, id kernel.UUID, forUpdate bool) (*listing.Listing, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx).Preload("Stops", byNumber)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dto ListingDTO
	if err := q.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, pgerr.Read(err, "listing", id)
	}
	return toDomain(dto)
}

// FindByCode retrieves a listing by its human-readable code.
func (r *GormListingRepository) FindByCode(ctx context.Context, code kernel.Code) (*listing.Listing, error) {
	var dto ListingDTO
	if err := r.db.WithContext(ctx).Preload("Stops", byNumber).First(&dto, "code = ?", code.String()).Error; err != nil {
		return nil, pgerr.Read(err, "listing code", code)
	}
	return toDomain(dto)
}

// FindClosedUnarchived retrieves up to limit CLOSED listings that have no archive record.
func (r *GormListingRepository) FindClosedUnarchived(ctx context.Context, limit int) ([]*listing.Listing, error) {
	q := r.db.WithContext(ctx).
		Preload("Stops", byNumber).
		Table("listings").
		Select("listings.*").
		Joins("LEFT JOIN custody_archives ON custody_archives.listing_id = listings.id").
		Where("listings.status = ? AND custody_archives.listing_id IS NULL", int(listing.StatusClosed)).
		Order("listings.code")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var dtos []ListingDTO
	if err := q.Find(&dtos).Error; err != nil {
		return nil, err
	}

	out := make([]*listing.Listing, 0, len(dtos))
	for _, dto := range dtos {
		l, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

func byNumber(db *gorm.DB) *gorm.DB {
	return db.Order("number")
}
