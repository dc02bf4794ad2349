package trace

import (
	"time"

	"custody/internal/core/domain/model/kernel"
)

// Filter narrows a history query. Zero fields are ignored.
type Filter struct {
	ResourceType ResourceType
	ResourceID   *kernel.UUID
	DropTagID    *kernel.UUID
	ShipmentID   string
	StationID    string
	From         *time.Time
	To           *time.Time
	Limit        int
}

// DefaultLimit caps history queries that do not set one.
const DefaultLimit = 500

// Matches reports whether e passes the filter. In-memory adapters use it directly; SQL
// adapters translate the same fields into WHERE clauses.
func (f Filter) Matches(e *Event) bool {
	if f.ResourceType != "" && e.ResourceType() != f.ResourceType {
		return false
	}
	if f.ResourceID != nil && !e.ResourceID().IsEqual(*f.ResourceID) {
		return false
	}
	if f.DropTagID != nil && (e.DropTagID() == nil || !e.DropTagID().IsEqual(*f.DropTagID)) {
		return false
	}
	if f.ShipmentID != "" && (e.ShipmentID() == nil || *e.ShipmentID() != f.ShipmentID) {
		return false
	}
	if f.StationID != "" && (e.StationID() == nil || *e.StationID() != f.StationID) {
		return false
	}
	if f.From != nil && e.OccurredAt().Before(*f.From) {
		return false
	}
	if f.To != nil && !e.OccurredAt().Before(*f.To) {
		return false
	}
	return true
}

// EffectiveLimit returns the limit to apply.
func (f Filter) EffectiveLimit() int {
	if f.Limit <= 0 || f.Limit > DefaultLimit {
		return DefaultLimit
	}
	return f.Limit
}
