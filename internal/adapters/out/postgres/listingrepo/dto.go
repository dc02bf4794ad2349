// Package listingrepo maps Listing aggregates to the listings and listing_stops tables.
package listingrepo

import (
	"time"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/listing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type ListingDTO struct {
	ID             uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	Code           string                      `gorm:"type:varchar(32);not null;uniqueIndex"`
	ShipmentRef    string                      `gorm:"type:varchar(64);not null;index"`
	OriginLocation string                      `gorm:"type:varchar(64)"`
	Status         int                         `gorm:"type:smallint;not null;index"`
	TagIDs         datatypes.JSONSlice[string] `gorm:"type:jsonb;not null"`
	Stops          []StopDTO                   `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
	Totals         TotalsDTO                   `gorm:"embedded;embeddedPrefix:total_"`
	Documents      DocumentsDTO                `gorm:"embedded;embeddedPrefix:doc_"`
	PrintedAt      *time.Time
	LockedBy       string `gorm:"type:varchar(64)"`
	LockedAt       *time.Time
	DepartedBy     string `gorm:"type:varchar(64)"`
	DepartedAt     *time.Time
	DeliveredAt    *time.Time
	POD            PODDTO `gorm:"embedded;embeddedPrefix:pod_"`
	ClosedAt       *time.Time
	CreatedAt      time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime:false"`
}

// TableName returns the listing table name.
func (ListingDTO) TableName() string {
	return "listings"
}

type TotalsDTO struct {
	Packages int
	Pieces   int
	Weight   decimal.Decimal `gorm:"type:numeric(14,3)"`
}

type DocumentsDTO struct {
	ManifestID string `gorm:"type:varchar(64)"`
	COCID      string `gorm:"column:coc_id;type:varchar(64)"`
	MTRID      string `gorm:"column:mtr_id;type:varchar(64)"`
}

type PODDTO struct {
	Signature  string `gorm:"type:text"`
	SignerName string `gorm:"type:varchar(128)"`
	DocumentID string `gorm:"type:varchar(64)"`
}

// StopDTO is one route stop. Stops are replaced as a whole whenever the listing is written.
type StopDTO struct {
	ListingID  uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	Number     int                         `gorm:"primaryKey;autoIncrement:false"`
	LocationID string                      `gorm:"type:varchar(64);not null"`
	TagIDs     datatypes.JSONSlice[string] `gorm:"type:jsonb;not null"`
}

// TableName returns the listing stop table name.
func (StopDTO) TableName() string {
	return "listing_stops"
}

func fromDomain(l *listing.Listing) ListingDTO {
	s := l.State()
	id := s.ID.Bytes()

	stops := make([]StopDTO, 0, len(s.Stops))
	for _, stop := range s.Stops {
		stops = append(stops, StopDTO{
			ListingID:  id,
			Number:     stop.Number,
			LocationID: stop.LocationID,
			TagIDs:     idStrings(stop.TagIDs),
		})
	}

	return ListingDTO{
		ID:             id,
		Code:           s.Code.String(),
		ShipmentRef:    s.ShipmentRef,
		OriginLocation: s.OriginLocation,
		Status:         int(s.Status),
		TagIDs:         idStrings(s.TagIDs),
		Stops:          stops,
		Totals: TotalsDTO{
			Packages: s.Totals.Packages,
			Pieces:   s.Totals.Pieces,
			Weight:   s.Totals.Weight.Decimal(),
		},
		Documents: DocumentsDTO{
			ManifestID: s.Documents.ManifestID,
			COCID:      s.Documents.COCID,
			MTRID:      s.Documents.MTRID,
		},
		PrintedAt:   s.PrintedAt,
		LockedBy:    s.LockedBy,
		LockedAt:    s.LockedAt,
		DepartedBy:  s.DepartedBy,
		DepartedAt:  s.DepartedAt,
		DeliveredAt: s.DeliveredAt,
		POD: PODDTO{
			Signature:  s.POD.Signature,
			SignerName: s.POD.SignerName,
			DocumentID: s.POD.DocumentID,
		},
		ClosedAt:  s.ClosedAt,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toDomain(dto ListingDTO) (*listing.Listing, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	code, err := kernel.ParseCode(kernel.ListingCodeKind, dto.Code)
	if err != nil {
		return nil, err
	}
	tagIDs, err := parseIDs(dto.TagIDs)
	if err != nil {
		return nil, err
	}
	weight, err := kernel.NewWeight(dto.Totals.Weight)
	if err != nil {
		return nil, err
	}

	stops := make([]listing.Stop, 0, len(dto.Stops))
	for _, stopDTO := range dto.Stops {
		stopTags, stopErr := parseIDs(stopDTO.TagIDs)
		if stopErr != nil {
			return nil, stopErr
		}
		stops = append(stops, listing.Stop{Number: stopDTO.Number, LocationID: stopDTO.LocationID, TagIDs: stopTags})
	}

	return listing.RestoreListing(listing.State{
		ID:             id,
		Code:           code,
		ShipmentRef:    dto.ShipmentRef,
		OriginLocation: dto.OriginLocation,
		Status:         listing.Status(dto.Status),
		TagIDs:         tagIDs,
		Stops:          stops,
		Totals:         listing.Totals{Packages: dto.Totals.Packages, Pieces: dto.Totals.Pieces, Weight: weight},
		Documents: listing.Documents{
			ManifestID: dto.Documents.ManifestID,
			COCID:      dto.Documents.COCID,
			MTRID:      dto.Documents.MTRID,
		},
		PrintedAt:   utc(dto.PrintedAt),
		LockedBy:    dto.LockedBy,
		LockedAt:    utc(dto.LockedAt),
		DepartedBy:  dto.DepartedBy,
		DepartedAt:  utc(dto.DepartedAt),
		DeliveredAt: utc(dto.DeliveredAt),
		POD: listing.ProofOfDelivery{
			Signature:  dto.POD.Signature,
			SignerName: dto.POD.SignerName,
			DocumentID: dto.POD.DocumentID,
		},
		ClosedAt:  utc(dto.ClosedAt),
		CreatedAt: dto.CreatedAt.UTC(),
		UpdatedAt: dto.UpdatedAt.UTC(),
	})
}

func idStrings(ids []kernel.UUID) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func parseIDs(raw []string) ([]kernel.UUID, error) {
	out := make([]kernel.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := kernel.UUIDFromString(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
