package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"custody/internal/core/application/resolver"
	"custody/internal/core/domain/model/droptag"
	"custody/internal/core/domain/model/packaging"
	"custody/internal/core/domain/model/station"
	"custody/internal/core/domain/model/trace"
	"custody/internal/core/domain/services"
	"custody/internal/core/ports"
	"custody/internal/pkg/errs"
)

// ProcessScanCommandHandler is the single entry point for station scans. It resolves the
// identifier, then dispatches on the station kind. Each kind requires a prior tag status and
// either commits the transition with exactly one trace event or writes nothing.
type ProcessScanCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
	resolver   resolver.Resolver
	custody    services.Custody
}

// NewProcessScanCommandHandler creates a ProcessScanCommandHandler with its dependencies.
func NewProcessScanCommandHandler(uowFactory UoWFactory, clock ports.Clock) ProcessScanCommandHandler {
	return ProcessScanCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		resolver:   resolver.New(),
		custody:    services.NewCustody(),
	}
}

// scanOutcome is what a station step changed besides the tag status.
type scanOutcome struct {
	tag      *droptag.DropTag
	cascades []trace.Cascade
	warnings []string
	metadata map[string]any
}

// Handle resolves the scan and applies the station transition.
// Business refusals come back in ScanResult; the error is reserved for infrastructure failures.
func (h ProcessScanCommandHandler) Handle(ctx context.Context, cmd ProcessScanCommand) (ScanResult, error) {
	if err := cmd.Validate(); err != nil {
		return ScanResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ScanResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	var result ScanResult
	resolution, err := h.resolver.Resolve(ctx, uow, cmd.IdentifierType(), cmd.Identifier())
	if err != nil {
		return failScan(result, err)
	}
	result.Confidence = resolution.Confidence
	result.Warnings = append(result.Warnings, resolution.Warnings...)

	tag, err := uow.DropTagRepository().GetForUpdate(ctx, resolution.DropTag.ID())
	if err != nil {
		return failScan(result, err)
	}
	id := tag.ID()
	result.DropTagID = &id
	result.DropTagCode = tag.Code().String()
	result.PreviousStatus = tag.Status().String()

	pkg, err := uow.PackageRepository().GetForUpdate(ctx, tag.PackageID())
	if err != nil {
		return failScan(result, err)
	}

	now := h.clock.Now()
	scan := cmd.Context()
	out, err := h.dispatch(ctx, uow, cmd, tag, pkg, now)
	if err != nil {
		return failScan(result, err)
	}
	tag = out.tag

	relocated := scan.LocationID != "" && scan.LocationID != pkg.Location()
	if relocated {
		pkg.Relocate(scan.LocationID, now)
	}

	if err = uow.DropTagRepository().Update(ctx, tag); err != nil {
		return failScan(result, err)
	}
	if relocated || pkg.Status() != pkg.PersistedStatus() {
		if err = uow.PackageRepository().Update(ctx, pkg); err != nil {
			return failScan(result, err)
		}
	}

	result.Warnings = append(result.Warnings, out.warnings...)
	fields := h.scanEvent(cmd, tag, pkg, result.PreviousStatus, now)
	fields.Metadata["confidence"] = resolution.Confidence
	fields.Metadata["resolvedBy"] = resolution.Tier.String()
	if len(result.Warnings) > 0 {
		fields.Metadata["warnings"] = result.Warnings
	}
	for k, v := range out.metadata {
		fields.Metadata[k] = v
	}
	if _, err = appendEvent(ctx, uow.TraceEventRepository(), fields, out.cascades); err != nil {
		return failScan(result, err)
	}
	if err = uow.Commit(ctx); err != nil {
		return ScanResult{}, err
	}

	result.Success = true
	result.NewStatus = tag.Status().String()
	result.NextAction = cmd.Station().NextAction()
	result.Cascade = out.cascades
	return result, nil
}

func (h ProcessScanCommandHandler) dispatch(
	ctx context.Context,
	uow UoW,
	cmd ProcessScanCommand,
	tag *droptag.DropTag,
	pkg *packaging.Package,
	now time.Time,
) (scanOutcome, error) {
	switch cmd.Station() {
	case station.Print:
		return h.print(cmd, tag, now)
	case station.Apply:
		return h.apply(cmd, tag, pkg, now)
	case station.Seal:
		return h.seal(ctx, uow, cmd, tag, pkg, now)
	case station.Stage:
		cascades, err := h.custody.Stage(tag, pkg, now)
		return scanOutcome{tag: tag, cascades: cascades}, err
	case station.Load:
		return h.load(ctx, uow, cmd, tag, pkg, now)
	case station.Deliver:
		return h.deliver(cmd, tag, pkg, now)
	case station.KindUnknown:
	}
	return scanOutcome{}, cmd.Station().Validate()
}

func (h ProcessScanCommandHandler) print(cmd ProcessScanCommand, tag *droptag.DropTag, now time.Time) (scanOutcome, error) {
	jobID, err := tag.Print(cmd.Actor().UserID(), now)
	if err != nil {
		return scanOutcome{}, err
	}
	return scanOutcome{tag: tag, metadata: map[string]any{"printJobId": jobID}}, nil
}

func (h ProcessScanCommandHandler) apply(
	cmd ProcessScanCommand,
	tag *droptag.DropTag,
	pkg *packaging.Package,
	now time.Time,
) (scanOutcome, error) {
	scan := cmd.Context()
	if err := tag.Apply(pkg, scan.PackageScan, cmd.Actor().UserID(), now); err != nil {
		return scanOutcome{}, err
	}
	out := scanOutcome{tag: tag, metadata: map[string]any{}}
	if scan.PackageScan != "" {
		out.metadata["packageScan"] = scan.PackageScan
	}
	return out, nil
}

// seal works on the sibling instance of the tag so the all-sealed check sees the new status.
func (h ProcessScanCommandHandler) seal(
	ctx context.Context,
	uow UoW,
	cmd ProcessScanCommand,
	tag *droptag.DropTag,
	pkg *packaging.Package,
	now time.Time,
) (scanOutcome, error) {
	scan := cmd.Context()
	if scan.SealID == "" {
		return scanOutcome{}, errs.NewValueIsRequiredError("seal id")
	}

	siblings, err := uow.DropTagRepository().FindByPackage(ctx, pkg.ID(), true)
	if err != nil {
		return scanOutcome{}, err
	}
	for i, sibling := range siblings {
		if sibling.ID() == tag.ID() {
			siblings[i] = tag
		}
	}

	cascades, err := h.custody.SealAtStation(tag, pkg, siblings, scan.SealID, cmd.Actor().UserID(), now)
	if err != nil {
		return scanOutcome{}, err
	}
	out := scanOutcome{tag: tag, cascades: cascades, metadata: map[string]any{"sealId": scan.SealID}}
	if len(cascades) == 0 {
		out.warnings = append(out.warnings,
			fmt.Sprintf("Package %s stays %s until every active tag is sealed", pkg.Code(), pkg.Status()))
	}
	return out, nil
}

// load checks the tag against the listing the dock is loading. A listing or shipment
// mismatch rejects the scan; a stop out of sequence is only a warning.
func (h ProcessScanCommandHandler) load(
	ctx context.Context,
	uow UoW,
	cmd ProcessScanCommand,
	tag *droptag.DropTag,
	pkg *packaging.Package,
	now time.Time,
) (scanOutcome, error) {
	scan := cmd.Context()
	out := scanOutcome{tag: tag, metadata: map[string]any{}}

	if scan.ListingID != nil {
		if tag.ListingID() == nil {
			return scanOutcome{}, errs.NewIdentityMismatchError("listing", scan.ListingID.String(), "none")
		}
		if *tag.ListingID() != *scan.ListingID {
			return scanOutcome{}, errs.NewIdentityMismatchError("listing", scan.ListingID.String(), tag.ListingID().String())
		}
	}
	if scan.ShipmentRef != "" {
		if tag.ListingID() == nil {
			return scanOutcome{}, errs.NewIdentityMismatchError("shipment", scan.ShipmentRef, "none")
		}
		l, err := uow.ListingRepository().Get(ctx, *tag.ListingID())
		if err != nil {
			return scanOutcome{}, err
		}
		if l.ShipmentRef() != scan.ShipmentRef {
			return scanOutcome{}, errs.NewIdentityMismatchError("shipment", scan.ShipmentRef, l.ShipmentRef())
		}
		out.metadata["listingCode"] = l.Code().String()
	}
	if stopMismatch(scan.StopNumber, tag.RouteStop()) {
		out.warnings = append(out.warnings,
			fmt.Sprintf("Tag %s is for stop %d, loading at stop %d", tag.Code(), *tag.RouteStop(), *scan.StopNumber))
	}

	cascades, err := h.custody.Load(tag, pkg, now)
	if err != nil {
		return scanOutcome{}, err
	}
	out.cascades = cascades
	return out, nil
}

// deliver rejects a tag dropped at the wrong stop.
func (h ProcessScanCommandHandler) deliver(
	cmd ProcessScanCommand,
	tag *droptag.DropTag,
	pkg *packaging.Package,
	now time.Time,
) (scanOutcome, error) {
	scan := cmd.Context()
	if stopMismatch(scan.StopNumber, tag.RouteStop()) {
		return scanOutcome{}, errs.NewIdentityMismatchError("route stop",
			strconv.Itoa(*tag.RouteStop()), strconv.Itoa(*scan.StopNumber))
	}
	cascades, err := h.custody.Deliver(tag, pkg, now)
	if err != nil {
		return scanOutcome{}, err
	}
	return scanOutcome{tag: tag, cascades: cascades}, nil
}

func (h ProcessScanCommandHandler) scanEvent(
	cmd ProcessScanCommand,
	tag *droptag.DropTag,
	pkg *packaging.Package,
	previous string,
	now time.Time,
) trace.Fields {
	scan := cmd.Context()
	fields := tagEvent(tag, trace.ScanEventType(cmd.Station().String()), cmd.Actor(), previous, now)
	fields.Category = trace.CategoryStation
	fields.StationID = optional(scan.StationID)
	fields.LocationID = optional(pkg.Location())
	fields.ShipmentID = optional(scan.ShipmentRef)
	fields.Metadata["packageCode"] = pkg.Code().String()
	fields.Metadata["identifier"] = cmd.Identifier()
	if tag.RouteStop() != nil {
		fields.Metadata["routeStop"] = *tag.RouteStop()
	}
	return fields
}

func stopMismatch(scanned, assigned *int) bool {
	return scanned != nil && assigned != nil && *scanned != *assigned
}

// failScan turns a business failure into a result. Infrastructure failures stay errors.
func failScan(result ScanResult, err error) (ScanResult, error) {
	if errs.KindOf(err) == errs.KindUnknown {
		return ScanResult{}, err
	}
	result.Success = false
	result.Errors = errs.Reasons(err)
	result.Err = err
	return result, nil
}
