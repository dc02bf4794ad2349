// Package packagerepo maps Package aggregates to the packages and package_items tables.
package packagerepo

import (
	"time"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/packaging"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PackageDTO is one row of packages. Items hang off it by package_id; totals are never
// stored and are recomputed from items on restore.
type PackageDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code      string    `gorm:"type:varchar(32);not null;uniqueIndex"`
	OrderRef  string    `gorm:"type:varchar(64);not null"`
	Location  string    `gorm:"type:varchar(64)"`
	Status    int       `gorm:"type:smallint;not null;index"`
	QCStatus  int       `gorm:"type:smallint;not null"`
	QCNotes   string    `gorm:"type:text"`
	QCBy      string    `gorm:"type:varchar(64)"`
	QCAt      *time.Time
	SealID    *string `gorm:"type:varchar(64)"`
	SealedBy  string  `gorm:"type:varchar(64)"`
	SealedAt  *time.Time
	Items     []ItemDTO `gorm:"foreignKey:PackageID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

// TableName returns the package table name.
func (PackageDTO) TableName() string {
	return "packages"
}

// ItemDTO is one line of material. Position keeps the packing order.
type ItemDTO struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PackageID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position   int             `gorm:"not null"`
	Grade      string          `gorm:"type:varchar(32);not null"`
	Form       string          `gorm:"type:varchar(32);not null"`
	HeatNumber string          `gorm:"type:varchar(32)"`
	Pieces     int             `gorm:"not null"`
	Weight     decimal.Decimal `gorm:"type:numeric(14,3);not null"`
	Dimensions string          `gorm:"type:varchar(128)"`
}

// TableName returns the package item table name.
func (ItemDTO) TableName() string {
	return "package_items"
}

func fromDomain(p *packaging.Package) PackageDTO {
	s := p.State()
	id := s.ID.Bytes()

	items := make([]ItemDTO, 0, len(s.Items))
	for i, it := range s.Items {
		items = append(items, ItemDTO{
			ID:         it.ID.Bytes(),
			PackageID:  id,
			Position:   i,
			Grade:      it.Grade,
			Form:       it.Form,
			HeatNumber: it.HeatNumber,
			Pieces:     it.Pieces,
			Weight:     it.Weight.Decimal(),
			Dimensions: it.Dimensions,
		})
	}

	return PackageDTO{
		ID:        id,
		Code:      s.Code.String(),
		OrderRef:  s.OrderRef,
		Location:  s.Location,
		Status:    int(s.Status),
		QCStatus:  int(s.QCStatus),
		QCNotes:   s.QCNotes,
		QCBy:      s.QCBy,
		QCAt:      s.QCAt,
		SealID:    s.SealID,
		SealedBy:  s.SealedBy,
		SealedAt:  s.SealedAt,
		Items:     items,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toDomain(dto PackageDTO) (*packaging.Package, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	code, err := kernel.ParseCode(kernel.PackageCodeKind, dto.Code)
	if err != nil {
		return nil, err
	}

	items := make([]packaging.ItemState, 0, len(dto.Items))
	for _, it := range dto.Items {
		itemID, itemErr := kernel.UUIDFromBytes(it.ID[:])
		if itemErr != nil {
			return nil, itemErr
		}
		weight, weightErr := kernel.NewWeight(it.Weight)
		if weightErr != nil {
			return nil, weightErr
		}
		items = append(items, packaging.ItemState{
			ID:         itemID,
			Grade:      it.Grade,
			Form:       it.Form,
			HeatNumber: it.HeatNumber,
			Pieces:     it.Pieces,
			Weight:     weight,
			Dimensions: it.Dimensions,
		})
	}

	return packaging.RestorePackage(packaging.State{
		ID:        id,
		Code:      code,
		OrderRef:  dto.OrderRef,
		Location:  dto.Location,
		Status:    packaging.Status(dto.Status),
		QCStatus:  packaging.QCStatus(dto.QCStatus),
		QCNotes:   dto.QCNotes,
		QCBy:      dto.QCBy,
		QCAt:      utc(dto.QCAt),
		SealID:    dto.SealID,
		SealedBy:  dto.SealedBy,
		SealedAt:  utc(dto.SealedAt),
		Items:     items,
		CreatedAt: dto.CreatedAt.UTC(),
		UpdatedAt: dto.UpdatedAt.UTC(),
	})
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
