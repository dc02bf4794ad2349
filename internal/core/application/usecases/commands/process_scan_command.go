package commands

import (
	"errors"
	"strings"

	"custody/internal/core/application/resolver"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/station"
	"custody/internal/core/domain/model/trace"
	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

var ErrProcessScanCommandIsNotConstructed = errors.New(
	"ProcessScanCommand must be created via NewProcessScanCommand constructor",
)

// ScanContext is what the station knows about the scan besides the identifier.
// Only the fields relevant to the station kind are consulted.
type ScanContext struct {
	StationID   string
	LocationID  string
	SealID      string
	PackageScan string
	ListingID   *kernel.UUID
	ShipmentRef string
	StopNumber  *int
}

// ScanResult is the operator-facing outcome of a scan. Business failures are reported here
// with Success false; they never come back as the handler's error.
type ScanResult struct {
	Success        bool
	DropTagID      *kernel.UUID
	DropTagCode    string
	PreviousStatus string
	NewStatus      string
	NextAction     string
	Errors         []string
	Warnings       []string
	Cascade        []trace.Cascade
	Confidence     float64
	Err            error
}

// ProcessScanCommand is one physical scan at a station.
//
// Example:
//
//	cmd, err := NewProcessScanCommand("DT-2026-004211", resolver.TypeAny, station.Load,
//	    ScanContext{StationID: "DOCK-2", ShipmentRef: "SHP-901"}, actor)
//	res, err := handler.Handle(ctx, cmd)
type ProcessScanCommand struct { //nolint:recvcheck //using for validation
	identifier string
	idType     resolver.IdentifierType
	kind       station.Kind
	scan       ScanContext
	actor      kernel.Actor

	guard guard.ConstructorGuard
}

// NewProcessScanCommand creates a command for one station scan.
// The identifier is required. An empty type hint defaults to resolver.TypeAny.
// Scan context fields are trimmed.
func NewProcessScanCommand(
	identifier string,
	idType resolver.IdentifierType,
	kind station.Kind,
	scan ScanContext,
	actor kernel.Actor,
) (ProcessScanCommand, error) {
	identifier = strings.TrimSpace(identifier)

	var identifierErr error
	if identifier == "" {
		identifierErr = errs.NewValueIsRequiredError("identifier")
	}
	if idType == "" {
		idType = resolver.TypeAny
	}
	_, typeErr := resolver.ParseIdentifierType(string(idType))

	if err := errors.Join(identifierErr, typeErr, kind.Validate(), actor.Validate()); err != nil {
		return ProcessScanCommand{}, err
	}

	scan.StationID = strings.TrimSpace(scan.StationID)
	scan.LocationID = strings.TrimSpace(scan.LocationID)
	scan.SealID = strings.TrimSpace(scan.SealID)
	scan.PackageScan = strings.TrimSpace(scan.PackageScan)
	scan.ShipmentRef = strings.TrimSpace(scan.ShipmentRef)

	return ProcessScanCommand{
		identifier: identifier,
		idType:     idType,
		kind:       kind,
		scan:       scan,
		actor:      actor,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrProcessScanCommandIsNotConstructed if validation fails.
func (c ProcessScanCommand) Validate() error {
	return c.guard.Validate(ErrProcessScanCommandIsNotConstructed)
}

// Identifier returns the scanned value, trimmed.
func (c ProcessScanCommand) Identifier() string {
	return c.identifier
}

// IdentifierType returns the scan type hint; TypeAny when none was given.
func (c ProcessScanCommand) IdentifierType() resolver.IdentifierType {
	return c.idType
}

// Station returns the kind of station that produced the scan.
func (c ProcessScanCommand) Station() station.Kind {
	return c.kind
}

// Context returns the station facts recorded with the scan.
func (c ProcessScanCommand) Context() ScanContext {
	return c.scan
}

// Actor returns who issued the command.
func (c ProcessScanCommand) Actor() kernel.Actor {
	return c.actor
}
