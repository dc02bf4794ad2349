package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"custody/internal/core/application/resolver"
	"custody/internal/core/application/usecases/queries"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/trace"

	"github.com/labstack/echo/v4"
)

type ResolveIdentifierResponse struct {
	DropTagID     string   `json:"dropTagId"`
	DropTagCode   string   `json:"dropTagCode"`
	DropTagStatus string   `json:"dropTagStatus"`
	PackageID     string   `json:"packageId"`
	PackageCode   string   `json:"packageCode"`
	PackageStatus string   `json:"packageStatus"`
	ListingID     *string  `json:"listingId,omitempty"`
	RouteStop     *int     `json:"routeStop,omitempty"`
	Confidence    float64  `json:"confidence"`
	ResolvedBy    string   `json:"resolvedBy"`
	Ambiguous     bool     `json:"ambiguous"`
	Warnings      []string `json:"warnings,omitempty"`
}

type TraceHistoryResponse struct {
	Events   []trace.Record `json:"events"`
	Tampered int            `json:"tampered"`
}

// ResolveIdentifier handles GET /api/v1/identifiers/resolve?value=&type=.
func (s *Server) ResolveIdentifier(c echo.Context) error {
	idType, err := resolver.ParseIdentifierType(c.QueryParam("type"))
	if err != nil {
		return err
	}
	query, err := queries.NewResolveIdentifierQuery(c.QueryParam("value"), idType)
	if err != nil {
		return err
	}
	res, err := s.h.ResolveIdentifier.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	out := ResolveIdentifierResponse{
		DropTagID:     res.DropTagID.String(),
		DropTagCode:   res.DropTagCode,
		DropTagStatus: res.DropTagStatus,
		PackageID:     res.PackageID.String(),
		PackageCode:   res.PackageCode,
		PackageStatus: res.PackageStatus,
		RouteStop:     res.RouteStop,
		Confidence:    res.Confidence,
		ResolvedBy:    res.ResolvedBy,
		Ambiguous:     res.Ambiguous,
		Warnings:      res.Warnings,
	}
	if res.ListingID != nil {
		id := res.ListingID.String()
		out.ListingID = &id
	}
	return c.JSON(http.StatusOK, out)
}

// GetTraceHistory handles GET /api/v1/trace-events. At least one of resourceId, dropTagId,
// shipmentId or stationId is required; from and to are RFC 3339.
func (s *Server) GetTraceHistory(c echo.Context) error {
	filter, err := traceFilter(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetTraceHistoryQuery(filter)
	if err != nil {
		return err
	}
	res, err := s.h.GetTraceHistory.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	if res.Events == nil {
		res.Events = []trace.Record{}
	}
	return c.JSON(http.StatusOK, TraceHistoryResponse{Events: res.Events, Tampered: res.Tampered})
}

func traceFilter(c echo.Context) (trace.Filter, error) {
	filter := trace.Filter{
		ResourceType: trace.ResourceType(strings.ToUpper(strings.TrimSpace(c.QueryParam("resourceType")))),
		ShipmentID:   strings.TrimSpace(c.QueryParam("shipmentId")),
		StationID:    strings.TrimSpace(c.QueryParam("stationId")),
	}

	for param, dst := range map[string]**kernel.UUID{"resourceId": &filter.ResourceID, "dropTagId": &filter.DropTagID} {
		raw := c.QueryParam(param)
		if raw == "" {
			continue
		}
		id, err := kernel.UUIDFromString(raw)
		if err != nil {
			return trace.Filter{}, badRequest("invalid " + param)
		}
		*dst = &id
	}

	for param, dst := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		raw := c.QueryParam(param)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return trace.Filter{}, badRequest("invalid " + param)
		}
		*dst = &t
	}

	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return trace.Filter{}, badRequest("invalid limit")
		}
		filter.Limit = limit
	}
	return filter, nil
}
