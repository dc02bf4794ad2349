// Package tracerepo stores the append-only custody log in trace_events. Rows are never
// updated except for the single event_hash backfill and the outbox published_at stamp.
package tracerepo

import (
	"time"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/trace"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TraceEventDTO struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Seq           int64             `gorm:"->;type:bigserial;not null;uniqueIndex"`
	EventType     string            `gorm:"type:varchar(64);not null;index"`
	EventCategory string            `gorm:"type:varchar(32);not null"`
	ActorUserID   string            `gorm:"type:varchar(64);not null"`
	ActorRole     string            `gorm:"type:varchar(16);not null"`
	ResourceType  string            `gorm:"type:varchar(16);not null;index:ix_trace_events_resource,priority:1"`
	ResourceID    uuid.UUID         `gorm:"type:uuid;not null;index:ix_trace_events_resource,priority:2"`
	PreviousState string            `gorm:"type:varchar(32)"`
	NewState      string            `gorm:"type:varchar(32)"`
	StationID     *string           `gorm:"type:varchar(64);index"`
	LocationID    *string           `gorm:"type:varchar(64)"`
	ShipmentID    *string           `gorm:"type:varchar(64);index"`
	DropTagID     *uuid.UUID        `gorm:"type:uuid;index"`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb;not null"`
	OccurredAt    time.Time         `gorm:"not null;index"`
	EventHash     string            `gorm:"type:char(64);not null;default:''"`
	PublishedAt   *time.Time        `gorm:"index"`
}

// TableName returns the trace log table name.
func (TraceEventDTO) TableName() string {
	return "trace_events"
}

func fromDomain(e *trace.Event) TraceEventDTO {
	var dropTagID *uuid.UUID
	if e.DropTagID() != nil {
		raw := e.DropTagID().Bytes()
		dropTagID = &raw
	}

	return TraceEventDTO{
		ID:            e.ID().Bytes(),
		EventType:     string(e.Type()),
		EventCategory: string(e.Category()),
		ActorUserID:   e.Actor().UserID(),
		ActorRole:     string(e.Actor().Role()),
		ResourceType:  string(e.ResourceType()),
		ResourceID:    e.ResourceID().Bytes(),
		PreviousState: e.PreviousState(),
		NewState:      e.NewState(),
		StationID:     e.StationID(),
		LocationID:    e.LocationID(),
		ShipmentID:    e.ShipmentID(),
		DropTagID:     dropTagID,
		Metadata:      datatypes.JSONMap(e.Metadata()),
		OccurredAt:    e.OccurredAt(),
		EventHash:     e.Hash(),
	}
}

func toDomain(dto TraceEventDTO) (*trace.Event, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	resourceID, err := kernel.UUIDFromBytes(dto.ResourceID[:])
	if err != nil {
		return nil, err
	}
	actor, err := kernel.NewActor(dto.ActorUserID, kernel.Role(dto.ActorRole))
	if err != nil {
		return nil, err
	}

	var dropTagID *kernel.UUID
	if dto.DropTagID != nil {
		tID, tagErr := kernel.UUIDFromBytes((*dto.DropTagID)[:])
		if tagErr != nil {
			return nil, tagErr
		}
		dropTagID = &tID
	}

	return trace.RestoreEvent(id, trace.Fields{
		Type:          trace.EventType(dto.EventType),
		Category:      trace.Category(dto.EventCategory),
		Actor:         actor,
		ResourceType:  trace.ResourceType(dto.ResourceType),
		ResourceID:    resourceID,
		PreviousState: dto.PreviousState,
		NewState:      dto.NewState,
		StationID:     dto.StationID,
		LocationID:    dto.LocationID,
		ShipmentID:    dto.ShipmentID,
		DropTagID:     dropTagID,
		Metadata:      map[string]any(dto.Metadata),
		OccurredAt:    dto.OccurredAt,
	}, dto.EventHash)
}
