// Package droptagrepo maps DropTag aggregates and their secondary identifiers to the
// drop_tags and tag_identifiers tables.
package droptagrepo

import (
	"time"

	"custody/internal/core/domain/model/droptag"
	"custody/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DropTagDTO struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Code           string          `gorm:"type:varchar(32);not null;uniqueIndex"`
	PackageID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status         int             `gorm:"type:smallint;not null;index"`
	Grade          string          `gorm:"type:varchar(32);not null"`
	Form           string          `gorm:"type:varchar(32);not null"`
	HeatNumber     *string         `gorm:"type:varchar(32)"`
	Pieces         int             `gorm:"not null"`
	Weight         decimal.Decimal `gorm:"type:numeric(14,3);not null"`
	ReprintCount   int             `gorm:"not null;default:0"`
	LastPrintJobID string          `gorm:"type:varchar(64)"`
	PrintedBy      string          `gorm:"type:varchar(64)"`
	PrintedAt      *time.Time
	AppliedBy      string `gorm:"type:varchar(64)"`
	AppliedAt      *time.Time
	SealedAt       *time.Time
	DeliveredAt    *time.Time
	ListingID      *uuid.UUID `gorm:"type:uuid;index"`
	RouteStop      *int
	VoidReason     string  `gorm:"type:text"`
	VoidClaimID    *string `gorm:"type:varchar(64)"`
	VoidedBy       string  `gorm:"type:varchar(64)"`
	VoidedAt       *time.Time
	CreatedAt      time.Time          `gorm:"autoCreateTime:false"`
	UpdatedAt      time.Time          `gorm:"autoUpdateTime:false"`
	Identifiers    []TagIdentifierDTO `gorm:"foreignKey:DropTagID;constraint:OnDelete:CASCADE"`
}

// TableName returns the drop tag table name.
func (DropTagDTO) TableName() string {
	return "drop_tags"
}

// TagIdentifierDTO binds an RFID, etch or alternate barcode to a tag. A value may repeat
// across types but not within one.
type TagIdentifierDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	DropTagID uuid.UUID `gorm:"type:uuid;not null;index"`
	Type      string    `gorm:"type:varchar(16);not null;uniqueIndex:ux_tag_identifiers_type_value"`
	Value     string    `gorm:"type:varchar(128);not null;uniqueIndex:ux_tag_identifiers_type_value;index"`
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
}

// TableName returns the tag identifier table name.
func (TagIdentifierDTO) TableName() string {
	return "tag_identifiers"
}

func fromDomain(t *droptag.DropTag) DropTagDTO {
	s := t.State()

	var listingID *uuid.UUID
	if s.ListingID != nil {
		raw := s.ListingID.Bytes()
		listingID = &raw
	}

	return DropTagDTO{
		ID:             s.ID.Bytes(),
		Code:           s.Code.String(),
		PackageID:      s.PackageID.Bytes(),
		Status:         int(s.Status),
		Grade:          s.Grade,
		Form:           s.Form,
		HeatNumber:     s.HeatNumber,
		Pieces:         s.Pieces,
		Weight:         s.Weight.Decimal(),
		ReprintCount:   s.ReprintCount,
		LastPrintJobID: s.LastPrintJobID,
		PrintedBy:      s.PrintedBy,
		PrintedAt:      s.PrintedAt,
		AppliedBy:      s.AppliedBy,
		AppliedAt:      s.AppliedAt,
		SealedAt:       s.SealedAt,
		DeliveredAt:    s.DeliveredAt,
		ListingID:      listingID,
		RouteStop:      s.RouteStop,
		VoidReason:     s.VoidReason,
		VoidClaimID:    s.VoidClaimID,
		VoidedBy:       s.VoidedBy,
		VoidedAt:       s.VoidedAt,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func toDomain(dto DropTagDTO) (*droptag.DropTag, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	packageID, err := kernel.UUIDFromBytes(dto.PackageID[:])
	if err != nil {
		return nil, err
	}
	code, err := kernel.ParseCode(kernel.DropTagCodeKind, dto.Code)
	if err != nil {
		return nil, err
	}
	weight, err := kernel.NewWeight(dto.Weight)
	if err != nil {
		return nil, err
	}

	var listingID *kernel.UUID
	if dto.ListingID != nil {
		lID, listingErr := kernel.UUIDFromBytes((*dto.ListingID)[:])
		if listingErr != nil {
			return nil, listingErr
		}
		listingID = &lID
	}

	return droptag.RestoreDropTag(droptag.State{
		ID:             id,
		Code:           code,
		PackageID:      packageID,
		Status:         droptag.Status(dto.Status),
		Grade:          dto.Grade,
		Form:           dto.Form,
		HeatNumber:     dto.HeatNumber,
		Pieces:         dto.Pieces,
		Weight:         weight,
		ReprintCount:   dto.ReprintCount,
		LastPrintJobID: dto.LastPrintJobID,
		PrintedBy:      dto.PrintedBy,
		PrintedAt:      utc(dto.PrintedAt),
		AppliedBy:      dto.AppliedBy,
		AppliedAt:      utc(dto.AppliedAt),
		SealedAt:       utc(dto.SealedAt),
		DeliveredAt:    utc(dto.DeliveredAt),
		ListingID:      listingID,
		RouteStop:      dto.RouteStop,
		VoidReason:     dto.VoidReason,
		VoidClaimID:    dto.VoidClaimID,
		VoidedBy:       dto.VoidedBy,
		VoidedAt:       utc(dto.VoidedAt),
		CreatedAt:      dto.CreatedAt.UTC(),
		UpdatedAt:      dto.UpdatedAt.UTC(),
	})
}

func identifierFromDomain(ti *droptag.TagIdentifier) TagIdentifierDTO {
	return TagIdentifierDTO{
		ID:        ti.ID().Bytes(),
		DropTagID: ti.DropTagID().Bytes(),
		Type:      string(ti.Type()),
		Value:     ti.Value(),
		CreatedAt: ti.CreatedAt(),
	}
}

func identifierToDomain(dto TagIdentifierDTO) (*droptag.TagIdentifier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	tagID, err := kernel.UUIDFromBytes(dto.DropTagID[:])
	if err != nil {
		return nil, err
	}
	return droptag.NewTagIdentifier(id, tagID, droptag.IdentifierType(dto.Type), dto.Value, dto.CreatedAt.UTC())
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
