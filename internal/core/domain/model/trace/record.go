package trace

import (
	"time"
)

// Record is the boundary shape of an event, as published to the bus, archived and served.
type Record struct {
	ID            string         `json:"id"`
	EventType     string         `json:"eventType"`
	EventCategory string         `json:"eventCategory"`
	ActorUserID   string         `json:"actorUserId"`
	ActorRole     string         `json:"actorRole"`
	ResourceType  string         `json:"resourceType"`
	ResourceID    string         `json:"resourceId"`
	PreviousState string         `json:"previousState,omitempty"`
	NewState      string         `json:"newState,omitempty"`
	StationID     *string        `json:"stationId,omitempty"`
	LocationID    *string        `json:"locationId,omitempty"`
	ShipmentID    *string        `json:"shipmentId,omitempty"`
	DropTagID     *string        `json:"dropTagId,omitempty"`
	Metadata      map[string]any `json:"metadata"`
	OccurredAt    time.Time      `json:"occurredAt"`
	EventHash     string         `json:"eventHash"`
	Verified      bool           `json:"verified"`
}

// NewRecord flattens e into its boundary shape. Cascades stay inside Metadata.
func NewRecord(e *Event) Record {
	r := Record{
		ID:            e.ID().String(),
		EventType:     string(e.Type()),
		EventCategory: string(e.Category()),
		ActorUserID:   e.Actor().UserID(),
		ActorRole:     string(e.Actor().Role()),
		ResourceType:  string(e.ResourceType()),
		ResourceID:    e.ResourceID().String(),
		PreviousState: e.PreviousState(),
		NewState:      e.NewState(),
		StationID:     e.StationID(),
		LocationID:    e.LocationID(),
		ShipmentID:    e.ShipmentID(),
		Metadata:      e.Metadata(),
		OccurredAt:    e.OccurredAt(),
		EventHash:     e.Hash(),
		Verified:      e.Verify(),
	}
	if e.DropTagID() != nil {
		id := e.DropTagID().String()
		r.DropTagID = &id
	}
	return r
}

// NewRecords converts events in order.
func NewRecords(events []*Event) []Record {
	out := make([]Record, 0, len(events))
	for _, e := range events {
		out = append(out, NewRecord(e))
	}
	return out
}
