package http

import (
	"net/http"

	"custody/internal/core/application/resolver"
	"custody/internal/core/application/usecases/commands"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/station"
	"custody/internal/core/domain/model/trace"
	"custody/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

type ScanRequest struct {
	Identifier     string  `json:"identifier"`
	IdentifierType string  `json:"identifierType"`
	StationType    string  `json:"stationType"`
	StationID      string  `json:"stationId"`
	LocationID     string  `json:"locationId"`
	SealID         string  `json:"sealId"`
	PackageScan    string  `json:"packageScan"`
	ListingID      *string `json:"listingId"`
	ShipmentRef    string  `json:"shipmentRef"`
	StopNumber     *int    `json:"stopNumber"`
}

type ScanResponse struct {
	Success        bool            `json:"success"`
	DropTagID      *string         `json:"dropTagId,omitempty"`
	DropTagCode    string          `json:"dropTagCode,omitempty"`
	PreviousStatus string          `json:"previousStatus,omitempty"`
	NewStatus      string          `json:"newStatus,omitempty"`
	NextAction     string          `json:"nextAction,omitempty"`
	Errors         []string        `json:"errors,omitempty"`
	ErrorKind      string          `json:"errorKind,omitempty"`
	Warnings       []string        `json:"warnings,omitempty"`
	Cascade        []trace.Cascade `json:"cascade,omitempty"`
	Confidence     float64         `json:"confidence"`
}

// ProcessScan handles POST /api/v1/scans. Rejected scans are still answered with 200: the
// outcome is in the body for the station to display.
func (s *Server) ProcessScan(c echo.Context) error {
	var req ScanRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	kind, err := station.ParseKind(req.StationType)
	if err != nil {
		return err
	}
	idType, err := resolver.ParseIdentifierType(req.IdentifierType)
	if err != nil {
		return err
	}

	sc := commands.ScanContext{
		StationID:   req.StationID,
		LocationID:  req.LocationID,
		SealID:      req.SealID,
		PackageScan: req.PackageScan,
		ShipmentRef: req.ShipmentRef,
		StopNumber:  req.StopNumber,
	}
	if req.ListingID != nil && *req.ListingID != "" {
		listingID, parseErr := kernel.UUIDFromString(*req.ListingID)
		if parseErr != nil {
			return badRequest("invalid listingId")
		}
		sc.ListingID = &listingID
	}

	cmd, err := commands.NewProcessScanCommand(req.Identifier, idType, kind, sc, ActorFrom(c))
	if err != nil {
		return err
	}
	res, err := s.h.ProcessScan.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newScanResponse(res))
}

func newScanResponse(res commands.ScanResult) ScanResponse {
	out := ScanResponse{
		Success:        res.Success,
		DropTagCode:    res.DropTagCode,
		PreviousStatus: res.PreviousStatus,
		NewStatus:      res.NewStatus,
		NextAction:     res.NextAction,
		Errors:         res.Errors,
		Warnings:       res.Warnings,
		Cascade:        res.Cascade,
		Confidence:     res.Confidence,
	}
	if res.DropTagID != nil {
		id := res.DropTagID.String()
		out.DropTagID = &id
	}
	if res.Err != nil {
		out.ErrorKind = errs.KindOf(res.Err).String()
	}
	return out
}
