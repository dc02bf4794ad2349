// Package archiverepo records which closed listings have had their custody chain exported.
package archiverepo

import (
	"context"
	"time"

	"custody/internal/adapters/out/postgres/pgerr"
	"custody/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustodyArchiveDTO struct {
	ListingID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	URI        string    `gorm:"type:text;not null"`
	EventCount int       `gorm:"not null"`
	ArchivedAt time.Time `gorm:"not null"`
}

// TableName returns the archive record table name.
func (CustodyArchiveDTO) TableName() string {
	return "custody_archives"
}

// GormCustodyArchiveRepository implements ports.CustodyArchiveRepository using GORM.
type GormCustodyArchiveRepository struct {
	db *gorm.DB
}

// NewGormCustodyArchiveRepository creates an archive record repository over db.
func NewGormCustodyArchiveRepository(db *gorm.DB) *GormCustodyArchiveRepository {
	return &GormCustodyArchiveRepository{db: db}
}

// Add records an archived listing.
func (r *GormCustodyArchiveRepository) Add(ctx context.Context, archive ports.CustodyArchive) error {
	dto := CustodyArchiveDTO{
		ListingID:  archive.ListingID.Bytes(),
		URI:        archive.URI,
		EventCount: archive.EventCount,
		ArchivedAt: archive.ArchivedAt,
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Insert(err, "custody archive", archive.ListingID)
	}
	return nil
}
