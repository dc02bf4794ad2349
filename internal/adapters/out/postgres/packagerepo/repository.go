package packagerepo

import (
	"context"
	"errors"

	"custody/internal/adapters/out/postgres/pgerr"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/packaging"
	"custody/internal/core/ports"
	"custody/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPackageRepository implements ports.PackageRepository using GORM.
type GormPackageRepository struct {
	db *gorm.DB
}

// NewGormPackageRepository creates a package repository over db.
func NewGormPackageRepository(db *gorm.DB) *GormPackageRepository {
	return &GormPackageRepository{db: db}
}

// Add saves a new package.
func (r *GormPackageRepository) Add(ctx context.Context, aggregate *packaging.Package) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Insert(err, "package", aggregate.Code())
	}

	aggregate.MarkPersisted()
	return nil
}

// Update rewrites the row only while the stored status is still the one the aggregate was
// loaded with. Items are append-only, so new ones are inserted and existing ones left alone.
func (r *GormPackageRepository) Update(ctx context.Context, aggregate *packaging.Package) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&PackageDTO{}).
		Where("id = ? AND status = ?", dto.ID, int(aggregate.PersistedStatus())).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.lostUpdate(ctx, aggregate.ID())
	}

	if len(dto.Items) > 0 {
		if err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&dto.Items).Error; err != nil {
			return err
		}
	}

	aggregate.MarkPersisted()
	return nil
}

func (r *GormPackageRepository) lostUpdate(ctx context.Context, id kernel.UUID) error {
	var status int
	err := r.db.WithContext(ctx).Model(&PackageDTO{}).Select("status").Where("id = ?", id.Bytes()).Take(&status).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError("package", id)
	}
	if err != nil {
		return err
	}
	return errs.NewInvalidStateErrorWithCause("package", packaging.Status(status).String(), "update", ports.ErrConcurrentUpdate)
}

// Get retrieves a package by ID.
func (r *GormPackageRepository) Get(ctx context.Context, id kernel.UUID) (*packaging.Package, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate retrieves a package by ID and locks it until the transaction ends.
func (r *GormPackageRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*packaging.Package, error) {
	return r.get(ctx, id, true)
}

func (r *GormPackageRepository) get(ctx context.Context, id kernel.UUID, forUpdate bool) (*packaging.Package, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx).Preload("Items", byPosition)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dto PackageDTO
	if err := q.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, pgerr.Read(err, "package", id)
	}
	return toDomain(dto)
}

// FindByCode retrieves a package by its human-readable code.
func (r *GormPackageRepository) FindByCode(ctx context.Context, code kernel.Code) (*packaging.Package, error) {
	var dto PackageDTO
	if err := r.db.WithContext(ctx).Preload("Items", byPosition).First(&dto, "code = ?", code.String()).Error; err != nil {
		return nil, pgerr.Read(err, "package code", code)
	}
	return toDomain(dto)
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}
