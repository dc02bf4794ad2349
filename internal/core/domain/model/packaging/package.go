package packaging

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

const resourceName = "package"

var (
	// ErrPackageIsNotConstructed is returned when a Package was not built through NewPackage or RestorePackage.
	ErrPackageIsNotConstructed = errors.New("Package must be created via NewPackage constructor")

	// ErrTagsNotApplied is the cause reported when a seal is attempted while active tags are
	// not yet APPLIED. The wrapping error lists the offending tag codes.
	ErrTagsNotApplied = errors.New("tags not applied")

	// ErrSealAlreadyAssigned guards the write-once seal identity.
	ErrSealAlreadyAssigned = errors.New("seal identity is immutable")
)

// Package is the aggregate root for a physical bundle of material.
//
// Invariants:
//   - pieces and net weight equal the sum over items
//   - the seal id is set exactly once, on the transition into SEALED
//   - status only moves forward along the lifecycle
type Package struct {
	id       kernel.UUID
	code     kernel.Code
	orderRef string
	location string

	status   Status
	qcStatus QCStatus
	qcNotes  string
	qcBy     string
	qcAt     *time.Time

	sealID   *string
	sealedBy string
	sealedAt *time.Time

	items     []*Item
	pieces    int
	netWeight kernel.Weight

	createdAt time.Time
	updatedAt time.Time

	// persistedStatus is the status read from storage; repositories use it for compare-and-set.
	persistedStatus Status

	guard guard.ConstructorGuard
}

// NewPackage creates an OPEN package with QC PENDING and no items.
//
// Parameters:
//   - id: internal identifier, must be valid
//   - code: the PKG code drawn by the caller; uniqueness is checked on insert
//   - orderRef: sales order reference, required
//   - location: packing bin or station, optional
//
// Example:
//
//	code, _ := kernel.NewCode(kernel.PackageCodeKind, now.Year())
//	pkg, err := packaging.NewPackage(kernel.NewUUID(), code, "SO-88123", "PACK-03", now)
//	if err != nil {
//	    return err
//	}
func NewPackage(id kernel.UUID, code kernel.Code, orderRef, location string, now time.Time) (*Package, error) {
	p := &Package{
		orderRef:  strings.TrimSpace(orderRef),
		location:  strings.TrimSpace(location),
		status:    StatusOpen,
		qcStatus:  QCPending,
		netWeight: kernel.ZeroWeight(),
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(p.setID(id), p.setCode(code)); err != nil {
		return nil, err
	}

	return p, nil
}

// ItemState is the persisted form of an Item.
type ItemState struct {
	ID         kernel.UUID
	Grade      string
	Form       string
	HeatNumber string
	Pieces     int
	Weight     kernel.Weight
	Dimensions string
}

// State is the full persisted form of a Package. Repositories map it to and from rows.
type State struct {
	ID        kernel.UUID
	Code      kernel.Code
	OrderRef  string
	Location  string
	Status    Status
	QCStatus  QCStatus
	QCNotes   string
	QCBy      string
	QCAt      *time.Time
	SealID    *string
	SealedBy  string
	SealedAt  *time.Time
	Items     []ItemState
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RestorePackage rebuilds a package read from storage. Totals are recomputed from items
// rather than trusted from the row.
func RestorePackage(state State) (*Package, error) {
	p := &Package{
		orderRef:        state.OrderRef,
		location:        state.Location,
		qcNotes:         state.QCNotes,
		qcBy:            state.QCBy,
		qcAt:            state.QCAt,
		sealID:          state.SealID,
		sealedBy:        state.SealedBy,
		sealedAt:        state.SealedAt,
		createdAt:       state.CreatedAt,
		updatedAt:       state.UpdatedAt,
		status:          state.Status,
		qcStatus:        state.QCStatus,
		persistedStatus: state.Status,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(state.ID),
		p.setCode(state.Code),
		state.Status.Validate(),
		state.QCStatus.Validate(),
	); err != nil {
		return nil, err
	}

	items := make([]*Item, 0, len(state.Items))
	for _, is := range state.Items {
		item, err := NewItem(is.ID, is.Grade, is.Form, is.HeatNumber, is.Pieces, is.Weight, is.Dimensions)
		if err != nil {
			return nil, fmt.Errorf("restore item %s: %w", is.ID, err)
		}
		items = append(items, item)
	}
	p.items = items
	p.recomputeTotals()

	return p, nil
}

// State snapshots the package for persistence.
func (p *Package) State() State {
	items := make([]ItemState, 0, len(p.items))
	for _, item := range p.items {
		items = append(items, ItemState{
			ID:         item.id,
			Grade:      item.grade,
			Form:       item.form,
			HeatNumber: item.heatNumber,
			Pieces:     item.pieces,
			Weight:     item.weight,
			Dimensions: item.dimensions,
		})
	}

	return State{
		ID:        p.id,
		Code:      p.code,
		OrderRef:  p.orderRef,
		Location:  p.location,
		Status:    p.status,
		QCStatus:  p.qcStatus,
		QCNotes:   p.qcNotes,
		QCBy:      p.qcBy,
		QCAt:      p.qcAt,
		SealID:    p.sealID,
		SealedBy:  p.sealedBy,
		SealedAt:  p.sealedAt,
		Items:     items,
		CreatedAt: p.createdAt,
		UpdatedAt: p.updatedAt,
	}
}

// Validate ensures the package was created through NewPackage or RestorePackage.
func (p *Package) Validate() error {
	if p == nil {
		return ErrPackageIsNotConstructed
	}
	return p.guard.Validate(ErrPackageIsNotConstructed)
}

// IsEqual compares packages by identifier. A nil other is never equal.
func (p *Package) IsEqual(other *Package) bool {
	return other != nil && p.id.IsEqual(other.id)
}

// ID returns the package's internal identifier.
func (p *Package) ID() kernel.UUID {
	return p.id
}

// Code returns the printed PKG code.
func (p *Package) Code() kernel.Code {
	return p.code
}

// OrderRef returns the sales order the package was packed for.
func (p *Package) OrderRef() string {
	return p.orderRef
}

// Location returns the bin or station the package was last seen at.
func (p *Package) Location() string {
	return p.location
}

// Status returns the current lifecycle state.
func (p *Package) Status() Status {
	return p.status
}

// QCStatus returns the latest inspection verdict.
func (p *Package) QCStatus() QCStatus {
	return p.qcStatus
}

// QCNotes returns the inspector's notes on the latest decision.
func (p *Package) QCNotes() string {
	return p.qcNotes
}

// Pieces returns the piece count summed over items.
func (p *Package) Pieces() int {
	return p.pieces
}

// NetWeight returns the weight summed over items.
func (p *Package) NetWeight() kernel.Weight {
	return p.netWeight
}

// SealedAt returns the seal time, or nil.
func (p *Package) SealedAt() *time.Time {
	return p.sealedAt
}

// CreatedAt returns when the package was opened.
func (p *Package) CreatedAt() time.Time {
	return p.createdAt
}

// UpdatedAt returns the time of the last change.
func (p *Package) UpdatedAt() time.Time {
	return p.updatedAt
}

// SealID returns the seal identity, or "" if the package is not sealed.
func (p *Package) SealID() string {
	if p.sealID == nil {
		return ""
	}
	return *p.sealID
}

// Items returns a copy of the item slice.
func (p *Package) Items() []*Item {
	out := make([]*Item, len(p.items))
	copy(out, p.items)
	return out
}

// PersistedStatus is the status the aggregate had when it was loaded. Zero for new packages.
func (p *Package) PersistedStatus() Status {
	return p.persistedStatus
}

// MarkPersisted records that the current status is now the stored one.
func (p *Package) MarkPersisted() {
	p.persistedStatus = p.status
}

// AddItem appends an item and recomputes totals. The first item moves OPEN to PACKING.
func (p *Package) AddItem(item *Item, now time.Time) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if p.status != StatusOpen && p.status != StatusPacking {
		return errs.NewInvalidStateError(resourceName, p.status.String(), "add item to")
	}
	for _, existing := range p.items {
		if existing.id.IsEqual(item.id) {
			return errs.NewValueIsInvalidErrorWithCause("item", fmt.Errorf("item %s already on package", item.id))
		}
	}

	p.items = append(p.items, item)
	p.recomputeTotals()
	if p.status == StatusOpen {
		p.status = StatusPacking
	}
	p.updatedAt = now
	return nil
}

// SubmitForQC moves a packed package into the QC queue.
func (p *Package) SubmitForQC(now time.Time) error {
	if p.status != StatusPacking {
		return errs.NewInvalidStateError(resourceName, p.status.String(), "submit for QC")
	}
	if len(p.items) == 0 {
		return errs.NewValidationFailedError("Package has no items")
	}
	p.status = StatusReadyForQC
	p.updatedAt = now
	return nil
}

// RecordQCDecision applies an inspector's verdict. RELEASE and CONDITIONAL advance the
// package to QC_RELEASED; HOLD and REJECT only change the QC status, leaving the package
// in READY_FOR_QC so a later decision can still release it.
func (p *Package) RecordQCDecision(decision QCDecision, notes, by string, now time.Time) error {
	if err := decision.Validate(); err != nil {
		return err
	}
	if p.status != StatusReadyForQC {
		return errs.NewInvalidStateError(resourceName, p.status.String(), "record QC decision for")
	}

	switch decision {
	case DecisionRelease:
		p.status = StatusQCReleased
		p.qcStatus = QCReleased
	case DecisionConditional:
		p.status = StatusQCReleased
		p.qcStatus = QCConditional
	case DecisionHold:
		p.qcStatus = QCHold
	case DecisionReject:
		p.qcStatus = QCRejected
	}

	p.qcNotes = strings.TrimSpace(notes)
	p.qcBy = by
	p.qcAt = &now
	p.updatedAt = now
	return nil
}

// Seal stamps the seal identity and moves QC_RELEASED to SEALED. Tag-level prerequisites are
// checked by the caller, which owns the sibling tags.
func (p *Package) Seal(sealID, by string, now time.Time) error {
	sealID = strings.TrimSpace(sealID)
	if sealID == "" {
		return errs.NewValueIsRequiredError("seal id")
	}
	if p.sealID != nil {
		return errs.NewInvalidStateErrorWithCause(resourceName, p.status.String(), "seal", ErrSealAlreadyAssigned)
	}
	if p.status != StatusQCReleased {
		return errs.NewInvalidStateError(resourceName, p.status.String(), "seal")
	}
	if !p.qcStatus.IsPassed() {
		return errs.NewPrerequisiteNotMetError("QC release",
			fmt.Sprintf("package %s has QC status %s", p.code, p.qcStatus))
	}

	p.sealID = &sealID
	p.sealedBy = by
	p.sealedAt = &now
	p.status = StatusSealed
	p.updatedAt = now
	return nil
}

// Stage moves a sealed package to STAGED.
func (p *Package) Stage(now time.Time) (bool, error) {
	return p.advance(StatusStaged, StatusSealed, "stage", now)
}

// Load moves a sealed or staged package to LOADED.
func (p *Package) Load(now time.Time) (bool, error) {
	return p.advance(StatusLoaded, StatusSealed, "load", now)
}

// Ship moves a loaded package to SHIPPED.
func (p *Package) Ship(now time.Time) (bool, error) {
	return p.advance(StatusShipped, StatusLoaded, "ship", now)
}

// Deliver moves a loaded or shipped package to DELIVERED.
func (p *Package) Deliver(now time.Time) (bool, error) {
	return p.advance(StatusDelivered, StatusLoaded, "deliver", now)
}

// Relocate records the bin or location a station last saw the package at.
func (p *Package) Relocate(location string, now time.Time) {
	location = strings.TrimSpace(location)
	if location == "" || location == p.location {
		return
	}
	p.location = location
	p.updatedAt = now
}

// advance moves the package forward to target. Packages that already reached target are left
// alone (several tags may cascade the same package); packages behind minSource are rejected.
func (p *Package) advance(target, minSource Status, operation string, now time.Time) (bool, error) {
	if p.status.AtLeast(target) {
		return false, nil
	}
	if !p.status.AtLeast(minSource) {
		return false, errs.NewInvalidStateError(resourceName, p.status.String(), operation)
	}
	p.status = target
	p.updatedAt = now
	return true, nil
}

func (p *Package) recomputeTotals() {
	pieces := 0
	weight := kernel.ZeroWeight()
	for _, item := range p.items {
		pieces += item.pieces
		weight = weight.Add(item.weight)
	}
	p.pieces = pieces
	p.netWeight = weight
}

func (p *Package) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Package) setCode(code kernel.Code) error {
	if err := code.Validate(); err != nil {
		return err
	}
	if code.Kind() != kernel.PackageCodeKind {
		return errs.NewValueIsInvalidErrorWithCause("package code", fmt.Errorf("%s is not a package code", code))
	}
	p.code = code
	return nil
}
