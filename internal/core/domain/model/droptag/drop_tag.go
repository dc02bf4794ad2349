package droptag

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/packaging"
	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

const resourceName = "drop tag"

var (
	ErrDropTagIsNotConstructed = errors.New("DropTag must be created via NewDropTag constructor")

	// ErrReprintLimitExceeded is the cause of the PolicyLimitExceeded error on the 4th reprint.
	ErrReprintLimitExceeded = errors.New("reprint limit exceeded")

	// ErrPackageMismatch is the cause when the package scanned at APPLY is not the tag's package.
	ErrPackageMismatch = errors.New("package mismatch")

	// ErrVoidRequiresClaim is the cause when a LOADED or SHIPPED tag is voided without a claim id.
	ErrVoidRequiresClaim = errors.New("void requires claim")

	// ErrOnAnotherListing is the cause when a tag is already claimed by a different listing.
	ErrOnAnotherListing = errors.New("tag is on another listing")
)

// DropTag is the aggregate root for one physical identity label.
type DropTag struct {
	id        kernel.UUID
	code      kernel.Code
	packageID kernel.UUID
	status    Status

	grade      string
	form       string
	heatNumber *string
	pieces     int
	weight     kernel.Weight

	reprintCount   int
	lastPrintJobID string
	printedBy      string
	printedAt      *time.Time
	appliedBy      string
	appliedAt      *time.Time
	sealedAt       *time.Time
	deliveredAt    *time.Time

	listingID *kernel.UUID
	routeStop *int

	voidReason  string
	voidClaimID *string
	voidedBy    string
	voidedAt    *time.Time

	createdAt time.Time
	updatedAt time.Time

	persistedStatus Status
	guard           guard.ConstructorGuard
}

// Material is the material summary a tag carries, derived from its package items.
type Material struct {
	Grade      string
	Form       string
	HeatNumber *string
	Pieces     int
	Weight     kernel.Weight
}

// NewDropTag creates a DRAFT tag for packageID. Material is the summary computed by
// services.TagIssuer; the tag does not re-check it against the package.
//
// Example:
//
//	code, _ := kernel.NewCode(kernel.DropTagCodeKind, now.Year())
//	tag, err := droptag.NewDropTag(kernel.NewUUID(), code, pkg.ID(), droptag.Material{
//	    Grade: "4140", Form: "ROUND_BAR", Pieces: 12, Weight: kernel.MustWeight("148.5"),
//	}, now)
//	if err != nil {
//	    return err
//	}
func NewDropTag(id kernel.UUID, code kernel.Code, packageID kernel.UUID, material Material, now time.Time) (*DropTag, error) {
	t := &DropTag{
		status:    StatusDraft,
		grade:     material.Grade,
		form:      material.Form,
		weight:    material.Weight,
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}
	if material.HeatNumber != nil {
		heat := strings.TrimSpace(*material.HeatNumber)
		if heat != "" {
			t.heatNumber = &heat
		}
	}

	var piecesErr error
	if material.Pieces <= 0 {
		piecesErr = errs.NewValueIsInvalidErrorWithCause("pieces", fmt.Errorf("%d is not greater than 0", material.Pieces))
	}
	t.pieces = material.Pieces

	if err := errors.Join(t.setID(id), t.setCode(code), t.setPackageID(packageID), piecesErr); err != nil {
		return nil, err
	}

	return t, nil
}

// State is the persisted form of a DropTag.
type State struct {
	ID             kernel.UUID
	Code           kernel.Code
	PackageID      kernel.UUID
	Status         Status
	Grade          string
	Form           string
	HeatNumber     *string
	Pieces         int
	Weight         kernel.Weight
	ReprintCount   int
	LastPrintJobID string
	PrintedBy      string
	PrintedAt      *time.Time
	AppliedBy      string
	AppliedAt      *time.Time
	SealedAt       *time.Time
	DeliveredAt    *time.Time
	ListingID      *kernel.UUID
	RouteStop      *int
	VoidReason     string
	VoidClaimID    *string
	VoidedBy       string
	VoidedAt       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RestoreDropTag rebuilds a tag read from storage. It checks identity fields and the
// reprint count but not lifecycle rules, since the stored state was valid when written.
// The restored status becomes the persisted status used for compare-and-set.
//
// Returns:
//   - *DropTag: the restored tag
//   - error: ValueIsRequired, ValueIsInvalid or ValueIsOutOfRange for corrupt rows
func RestoreDropTag(s State) (*DropTag, error) {
	t := &DropTag{
		status:          s.Status,
		grade:           s.Grade,
		form:            s.Form,
		heatNumber:      s.HeatNumber,
		pieces:          s.Pieces,
		weight:          s.Weight,
		reprintCount:    s.ReprintCount,
		lastPrintJobID:  s.LastPrintJobID,
		printedBy:       s.PrintedBy,
		printedAt:       s.PrintedAt,
		appliedBy:       s.AppliedBy,
		appliedAt:       s.AppliedAt,
		sealedAt:        s.SealedAt,
		deliveredAt:     s.DeliveredAt,
		listingID:       s.ListingID,
		routeStop:       s.RouteStop,
		voidReason:      s.VoidReason,
		voidClaimID:     s.VoidClaimID,
		voidedBy:        s.VoidedBy,
		voidedAt:        s.VoidedAt,
		createdAt:       s.CreatedAt,
		updatedAt:       s.UpdatedAt,
		persistedStatus: s.Status,
		guard:           guard.NewConstructorGuard(),
	}

	var countErr error
	if s.ReprintCount < 0 || s.ReprintCount > MaxReprints {
		countErr = errs.NewValueIsOutOfRangeError("reprint count", s.ReprintCount, 0, MaxReprints)
	}

	if err := errors.Join(
		t.setID(s.ID),
		t.setCode(s.Code),
		t.setPackageID(s.PackageID),
		s.Status.Validate(),
		countErr,
	); err != nil {
		return nil, err
	}
	return t, nil
}

// State returns a copy of every field for persistence adapters.
func (t *DropTag) State() State {
	return State{
		ID:             t.id,
		Code:           t.code,
		PackageID:      t.packageID,
		Status:         t.status,
		Grade:          t.grade,
		Form:           t.form,
		HeatNumber:     t.heatNumber,
		Pieces:         t.pieces,
		Weight:         t.weight,
		ReprintCount:   t.reprintCount,
		LastPrintJobID: t.lastPrintJobID,
		PrintedBy:      t.printedBy,
		PrintedAt:      t.printedAt,
		AppliedBy:      t.appliedBy,
		AppliedAt:      t.appliedAt,
		SealedAt:       t.sealedAt,
		DeliveredAt:    t.deliveredAt,
		ListingID:      t.listingID,
		RouteStop:      t.routeStop,
		VoidReason:     t.voidReason,
		VoidClaimID:    t.voidClaimID,
		VoidedBy:       t.voidedBy,
		VoidedAt:       t.voidedAt,
		CreatedAt:      t.createdAt,
		UpdatedAt:      t.updatedAt,
	}
}

// Validate ensures the tag was created through NewDropTag or RestoreDropTag.
func (t *DropTag) Validate() error {
	if t == nil {
		return ErrDropTagIsNotConstructed
	}
	return t.guard.Validate(ErrDropTagIsNotConstructed)
}

// IsEqual compares tags by identifier. A nil other is never equal.
func (t *DropTag) IsEqual(other *DropTag) bool {
	return other != nil && t.id.IsEqual(other.id)
}

// ID returns the tag's internal identifier.
func (t *DropTag) ID() kernel.UUID {
	return t.id
}

// Code returns the printed DT code.
func (t *DropTag) Code() kernel.Code {
	return t.code
}

// PackageID returns the package the tag is bound to. It never changes.
func (t *DropTag) PackageID() kernel.UUID {
	return t.packageID
}

// Status returns the current lifecycle state.
func (t *DropTag) Status() Status {
	return t.status
}

// Grade returns the single material grade of the package.
func (t *DropTag) Grade() string {
	return t.grade
}

// Form returns the single material form of the package, e.g. ROUND_BAR.
func (t *DropTag) Form() string {
	return t.form
}

// HeatNumber returns the shared heat of every item, or nil when heats were mixed.
func (t *DropTag) HeatNumber() *string {
	return t.heatNumber
}

// Pieces returns the piece count summed over the package items.
func (t *DropTag) Pieces() int {
	return t.pieces
}

// Weight returns the net weight summed over the package items.
func (t *DropTag) Weight() kernel.Weight {
	return t.weight
}

// ReprintCount returns how many extra labels were issued. It never exceeds MaxReprints.
func (t *DropTag) ReprintCount() int {
	return t.reprintCount
}

// LastPrintJobID returns the job id of the most recent print or reprint.
func (t *DropTag) LastPrintJobID() string {
	return t.lastPrintJobID
}

// PrintedAt returns when the first label was printed, or nil.
func (t *DropTag) PrintedAt() *time.Time {
	return t.printedAt
}

// ListingID returns the listing that claimed the tag, or nil.
func (t *DropTag) ListingID() *kernel.UUID {
	return t.listingID
}

// RouteStop returns the listing stop the tag is delivered at, or nil.
func (t *DropTag) RouteStop() *int {
	return t.routeStop
}

// VoidClaimID returns the claim reference of a post-shipment void, or nil.
func (t *DropTag) VoidClaimID() *string {
	return t.voidClaimID
}

// PersistedStatus returns the status last read from or written to storage.
// Repositories use it as the compare-and-set guard of Update.
func (t *DropTag) PersistedStatus() Status {
	return t.persistedStatus
}

// IsActive reports whether the tag still counts towards its package.
func (t *DropTag) IsActive() bool {
	return t.status.IsActive()
}

// UpdatedAt returns the time of the last change.
func (t *DropTag) UpdatedAt() time.Time {
	return t.updatedAt
}

// DeliveredAt returns the delivery time, or nil.
func (t *DropTag) DeliveredAt() *time.Time {
	return t.deliveredAt
}

// CreatedAt returns when the tag was issued.
func (t *DropTag) CreatedAt() time.Time {
	return t.createdAt
}

// AppliedAt returns when the label was put on the package, or nil.
func (t *DropTag) AppliedAt() *time.Time {
	return t.appliedAt
}

// SealedAt returns the seal time, or nil.
func (t *DropTag) SealedAt() *time.Time {
	return t.sealedAt
}

// VoidedAt returns the void time, or nil.
func (t *DropTag) VoidedAt() *time.Time {
	return t.voidedAt
}

// MarkPersisted records a successful write so the next Update compares against it.
func (t *DropTag) MarkPersisted() {
	t.persistedStatus = t.status
}

// ReadyToPrint moves DRAFT to READY_TO_PRINT once the package has passed QC.
func (t *DropTag) ReadyToPrint(pkg *packaging.Package, now time.Time) error {
	if t.status != StatusDraft {
		return errs.NewInvalidStateError(resourceName, t.status.String(), "ready to print")
	}
	if err := pkg.Validate(); err != nil {
		return err
	}
	if !pkg.QCStatus().IsPassed() {
		return errs.NewPrerequisiteNotMetError("QC release",
			fmt.Sprintf("package %s has QC status %s", pkg.Code(), pkg.QCStatus()))
	}
	t.status = StatusReadyToPrint
	t.updatedAt = now
	return nil
}

// Print moves READY_TO_PRINT to PRINTED and returns the print job id handed to the label printer.
func (t *DropTag) Print(by string, now time.Time) (string, error) {
	if t.status != StatusReadyToPrint {
		return "", errs.NewInvalidStateError(resourceName, t.status.String(), "print")
	}
	jobID := newPrintJobID()
	t.status = StatusPrinted
	t.printedBy = by
	t.printedAt = &now
	t.lastPrintJobID = jobID
	t.updatedAt = now
	return jobID, nil
}

// Reprint issues another physical label without changing the tag's identity or status.
// Any tag printed once may be reprinted, a VOID one included. The count never decreases
// and a failed attempt leaves it unchanged.
func (t *DropTag) Reprint(reason ReprintReason, by string, now time.Time) (string, error) {
	if err := reason.Validate(); err != nil {
		return "", err
	}
	if t.printedAt == nil {
		return "", errs.NewInvalidStateError(resourceName, t.status.String(), "reprint")
	}
	if t.reprintCount >= MaxReprints {
		return "", errs.NewPolicyLimitExceededErrorWithCause("reprints", MaxReprints, ErrReprintLimitExceeded)
	}
	jobID := newPrintJobID()
	t.reprintCount++
	t.printedBy = by
	t.lastPrintJobID = jobID
	t.updatedAt = now
	return jobID, nil
}

// Apply moves PRINTED to APPLIED. When the operator also scanned the package, the scanned
// value must be the package's own code.
func (t *DropTag) Apply(pkg *packaging.Package, packageScan, by string, now time.Time) error {
	if t.status != StatusPrinted {
		return errs.NewInvalidStateError(resourceName, t.status.String(), "apply")
	}
	if err := t.checkCustody(StatusApplied, pkg); err != nil {
		return err
	}
	if scanned := strings.ToUpper(strings.TrimSpace(packageScan)); scanned != "" && scanned != pkg.Code().String() {
		return errs.NewIdentityMismatchErrorWithCause("package", pkg.Code().String(), scanned, ErrPackageMismatch)
	}
	t.status = StatusApplied
	t.appliedBy = by
	t.appliedAt = &now
	t.updatedAt = now
	return nil
}

// Seal moves APPLIED to SEALED. The package must have passed QC.
func (t *DropTag) Seal(pkg *packaging.Package, now time.Time) error {
	if t.status != StatusApplied {
		return errs.NewInvalidStateError(resourceName, t.status.String(), "seal")
	}
	if err := t.checkCustody(StatusSealed, pkg); err != nil {
		return err
	}
	if !pkg.QCStatus().IsPassed() {
		return errs.NewPrerequisiteNotMetError("QC release",
			fmt.Sprintf("package %s has QC status %s", pkg.Code(), pkg.QCStatus()))
	}
	t.status = StatusSealed
	t.sealedAt = &now
	t.updatedAt = now
	return nil
}

// Stage moves SEALED to STAGED.
func (t *DropTag) Stage(pkg *packaging.Package, now time.Time) error {
	return t.transition(pkg, StatusStaged, "stage", now, StatusSealed)
}

// Load moves STAGED or SEALED to LOADED.
func (t *DropTag) Load(pkg *packaging.Package, now time.Time) error {
	return t.transition(pkg, StatusLoaded, "load", now, StatusStaged, StatusSealed)
}

// Ship moves LOADED to SHIPPED.
func (t *DropTag) Ship(pkg *packaging.Package, now time.Time) error {
	return t.transition(pkg, StatusShipped, "ship", now, StatusLoaded)
}

// Deliver moves LOADED or SHIPPED to DELIVERED.
func (t *DropTag) Deliver(pkg *packaging.Package, now time.Time) error {
	if err := t.transition(pkg, StatusDelivered, "deliver", now, StatusLoaded, StatusShipped); err != nil {
		return err
	}
	t.deliveredAt = &now
	return nil
}

// Void permanently invalidates the tag. LOADED and SHIPPED tags need a claim and the event is
// recorded under a manager role; earlier voids are recorded under a supervisor role. The
// returned actor carries the role to record.
func (t *DropTag) Void(reason, claimID string, actor kernel.Actor, now time.Time) (kernel.Actor, error) {
	reason = strings.TrimSpace(reason)
	claimID = strings.TrimSpace(claimID)

	if reason == "" {
		return kernel.Actor{}, errs.NewValueIsRequiredError("void reason")
	}
	if t.status == StatusDelivered || t.status == StatusVoid {
		return kernel.Actor{}, errs.NewInvalidStateError(resourceName, t.status.String(), "void")
	}

	recorded := actor.WithRole(kernel.RoleSupervisor)
	if t.status.IsPostShip() {
		if claimID == "" {
			return kernel.Actor{}, errs.NewPrerequisiteNotMetErrorWithCause("claim id",
				fmt.Sprintf("tag %s is %s", t.code, t.status), ErrVoidRequiresClaim)
		}
		recorded = actor.WithRole(kernel.RoleManager)
	}

	if claimID != "" {
		t.voidClaimID = &claimID
	}
	t.status = StatusVoid
	t.voidReason = reason
	t.voidedBy = actor.UserID()
	t.voidedAt = &now
	t.updatedAt = now
	return recorded, nil
}

// AssignToListing claims the tag for a listing.
func (t *DropTag) AssignToListing(listingID kernel.UUID, now time.Time) error {
	if err := listingID.Validate(); err != nil {
		return err
	}
	if t.listingID != nil {
		if t.listingID.IsEqual(listingID) {
			return nil
		}
		return errs.NewInvalidStateErrorWithCause(resourceName, t.status.String(), "add to listing", ErrOnAnotherListing)
	}
	t.listingID = &listingID
	t.routeStop = nil
	t.updatedAt = now
	return nil
}

// ClearListing releases the tag from listingID. The listing decides whether it may still
// release members.
func (t *DropTag) ClearListing(listingID kernel.UUID, now time.Time) error {
	if t.listingID == nil || !t.listingID.IsEqual(listingID) {
		return errs.NewIdentityMismatchError("listing", listingID.String(), t.listingIDString())
	}
	t.listingID = nil
	t.routeStop = nil
	t.updatedAt = now
	return nil
}

// AssignStop records the route stop the tag is delivered at.
func (t *DropTag) AssignStop(stop int, now time.Time) error {
	if stop <= 0 {
		return errs.NewValueIsOutOfRangeError("stop number", stop, 1, "unbounded")
	}
	if t.listingID == nil {
		return errs.NewInvalidStateError(resourceName, t.status.String(), "assign a stop to")
	}
	t.routeStop = &stop
	t.updatedAt = now
	return nil
}

func (t *DropTag) transition(pkg *packaging.Package, target Status, operation string, now time.Time, from ...Status) error {
	allowed := false
	for _, s := range from {
		if t.status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return errs.NewInvalidStateError(resourceName, t.status.String(), operation)
	}
	if err := t.checkCustody(target, pkg); err != nil {
		return err
	}
	t.status = target
	t.updatedAt = now
	return nil
}

func (t *DropTag) listingIDString() string {
	if t.listingID == nil {
		return "none"
	}
	return t.listingID.String()
}

func (t *DropTag) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	t.id = id
	return nil
}

func (t *DropTag) setCode(code kernel.Code) error {
	if err := code.Validate(); err != nil {
		return err
	}
	if code.Kind() != kernel.DropTagCodeKind {
		return errs.NewValueIsInvalidErrorWithCause("drop tag code", fmt.Errorf("%s is not a drop tag code", code))
	}
	t.code = code
	return nil
}

func (t *DropTag) setPackageID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("package id", err)
	}
	t.packageID = id
	return nil
}

func newPrintJobID() string {
	return "PJ-" + kernel.NewUUID().String()
}
