package queries

import (
	"errors"
	"fmt"

	"custody/internal/core/domain/model/trace"
	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

var ErrGetTraceHistoryQueryIsNotConstructed = errors.New(
	"GetTraceHistoryQuery must be created via NewGetTraceHistoryQuery constructor",
)

// GetTraceHistoryQuery reads the custody log for a resource, a drop tag, a shipment or a
// station, optionally bounded in time. At least one of those selectors is required.
type GetTraceHistoryQuery struct {
	filter trace.Filter

	guard guard.ConstructorGuard
}

// NewGetTraceHistoryQuery creates a history query.
// At least one of resource, drop tag, shipment or station must be set.
// A time range, when both ends are given, must have From before To.
func NewGetTraceHistoryQuery(filter trace.Filter) (GetTraceHistoryQuery, error) {
	if filter.ResourceID == nil && filter.DropTagID == nil && filter.ShipmentID == "" && filter.StationID == "" {
		return GetTraceHistoryQuery{}, errs.NewValueIsRequiredError("resource, drop tag, shipment or station")
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return GetTraceHistoryQuery{}, errs.NewValueIsInvalidErrorWithCause("time range",
			fmt.Errorf("from %s is not before to %s", filter.From, filter.To))
	}
	return GetTraceHistoryQuery{filter: filter, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetTraceHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetTraceHistoryQueryIsNotConstructed)
}

// Filter returns the validated filter.
func (q GetTraceHistoryQuery) Filter() trace.Filter {
	return q.filter
}

// GetTraceHistoryQueryResponse lists events oldest first. Tampered counts events whose
// stored hash no longer matches their content.
type GetTraceHistoryQueryResponse struct {
	Events   []trace.Record
	Tampered int
}
