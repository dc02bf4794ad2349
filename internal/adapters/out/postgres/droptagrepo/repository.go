package droptagrepo

import (
	"context"
	"errors"

	"custody/internal/adapters/out/postgres/pgerr"
	"custody/internal/core/domain/model/droptag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/ports"
	"custody/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDropTagRepository implements ports.DropTagRepository using GORM.
type GormDropTagRepository struct {
	db *gorm.DB
}

// NewGormDropTagRepository creates a drop tag repository over db.
func NewGormDropTagRepository(db *gorm.DB) *GormDropTagRepository {
	return &GormDropTagRepository{db: db}
}

// Add saves a new drop tag.
func (r *GormDropTagRepository) Add(ctx context.Context, aggregate *droptag.DropTag) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Insert(err, "drop tag", aggregate.Code())
	}

	aggregate.MarkPersisted()
	return nil
}

// Update saves a changed drop tag.
// Fails with ports.ErrConcurrentUpdate when the stored status moved since it was read.
func (r *GormDropTagRepository) Update(ctx context.Context, aggregate *droptag.DropTag) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&DropTagDTO{}).
		Where("id = ? AND status = ?", dto.ID, int(aggregate.PersistedStatus())).
		Select("*").
		Omit("id", "code", "package_id", "created_at", clause.Associations).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.lostUpdate(ctx, aggregate.ID())
	}

	aggregate.MarkPersisted()
	return nil
}

func (r *GormDropTagRepository) lostUpdate(ctx context.Context, id kernel.UUID) error {
	var status int
	err := r.db.WithContext(ctx).Model(&DropTagDTO{}).Select("status").Where("id = ?", id.Bytes()).Take(&status).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError("drop tag", id)
	}
	if err != nil {
		return err
	}
	return errs.NewInvalidStateErrorWithCause("drop tag", droptag.Status(status).String(), "update", ports.ErrConcurrentUpdate)
}

// Get retrieves a drop tag by ID.
func (r *GormDropTagRepository) Get(ctx context.Context, id kernel.UUID) (*droptag.DropTag, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate retrieves a drop tag by ID and locks it until the transaction ends.
func (r *GormDropTagRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*droptag.DropTag, error) {
	return r.get(ctx, id, true)
}

func (r *GormDropTagRepository) get(ctx context.Context, id kernel.UUID, forUpdate bool) (*droptag.DropTag, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DropTagDTO
	if err := r.query(ctx, forUpdate).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, pgerr.Read(err, "drop tag", id)
	}
	return toDomain(dto)
}

// FindByCode retrieves a drop tag by its human-readable code.
func (r *GormDropTagRepository) FindByCode(ctx context.Context, code kernel.Code) (*droptag.DropTag, error) {
	var dto DropTagDTO
	if err := r.db.WithContext(ctx).First(&dto, "code = ?", code.String()).Error; err != nil {
		return nil, pgerr.Read(err, "drop tag code", code)
	}
	return toDomain(dto)
}

// FindByPackage retrieves every tag of a package, locking them when forUpdate is set.
func (r *GormDropTagRepository) FindByPackage(ctx context.Context, packageID kernel.UUID, forUpdate bool) ([]*droptag.DropTag, error) {
	return r.findWhere(r.query(ctx, forUpdate).Where("package_id = ?", packageID.Bytes()))
}

// FindByListing retrieves the members of a listing, locking them when forUpdate is set.
func (r *GormDropTagRepository) FindByListing(ctx context.Context, listingID kernel.UUID, forUpdate bool) ([]*droptag.DropTag, error) {
	return r.findWhere(r.query(ctx, forUpdate).Where("listing_id = ?", listingID.Bytes()))
}

// GetManyForUpdate locks rows in code order so that concurrent callers lock in the same order.
func (r *GormDropTagRepository) GetManyForUpdate(ctx context.Context, ids []kernel.UUID) ([]*droptag.DropTag, error) {
	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	tags, err := r.findWhere(r.query(ctx, true).Where("id IN ?", raw))
	if err != nil {
		return nil, err
	}

	found := make(map[kernel.UUID]*droptag.DropTag, len(tags))
	for _, tag := range tags {
		found[tag.ID()] = tag
	}
	out := make([]*droptag.DropTag, 0, len(ids))
	for _, id := range ids {
		tag, ok := found[id]
		if !ok {
			return nil, errs.NewObjectNotFoundError("drop tag", id)
		}
		out = append(out, tag)
	}
	return out, nil
}

func (r *GormDropTagRepository) query(ctx context.Context, forUpdate bool) *gorm.DB {
	q := r.db.WithContext(ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

func (r *GormDropTagRepository) findWhere(q *gorm.DB) ([]*droptag.DropTag, error) {
	var dtos []DropTagDTO
	if err := q.Order("code").Find(&dtos).Error; err != nil {
		return nil, pgerr.Read(err, "drop tag", "query")
	}

	tags := make([]*droptag.DropTag, 0, len(dtos))
	for _, dto := range dtos {
		tag, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// GormTagIdentifierRepository implements ports.TagIdentifierRepository using GORM.
type GormTagIdentifierRepository struct {
	db *gorm.DB
}

// NewGormTagIdentifierRepository creates an identifier repository over db.
func NewGormTagIdentifierRepository(db *gorm.DB) *GormTagIdentifierRepository {
	return &GormTagIdentifierRepository{db: db}
}

// Add saves an identifier. A bound (type, value) pair fails with errs.ErrAlreadyExists.
func (r *GormTagIdentifierRepository) Add(ctx context.Context, identifier *droptag.TagIdentifier) error {
	if err := identifier.Validate(); err != nil {
		return err
	}

	dto := identifierFromDomain(identifier)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.Code(err) == pgerr.ForeignKeyViolation {
			return errs.NewObjectNotFoundError("drop tag", identifier.DropTagID())
		}
		return pgerr.Insert(err, string(identifier.Type()), identifier.Value())
	}
	return nil
}

// FindByValue retrieves every identifier bound to value.
func (r *GormTagIdentifierRepository) FindByValue(ctx context.Context, value string) ([]*droptag.TagIdentifier, error) {
	var dtos []TagIdentifierDTO
	if err := r.db.WithContext(ctx).Where("value = ?", value).Order("created_at, id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	out := make([]*droptag.TagIdentifier, 0, len(dtos))
	for _, dto := range dtos {
		ti, err := identifierToDomain(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, ti)
	}
	return out, nil
}
