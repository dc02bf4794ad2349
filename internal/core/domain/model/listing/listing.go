package listing

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"custody/internal/core/domain/model/droptag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

const resourceName = "listing"

var (
	ErrListingIsNotConstructed = errors.New("Listing must be created via NewListing constructor")

	// ErrListingLocked is the cause when membership or stops change after READY.
	ErrListingLocked = errors.New("listing locked")

	// ErrTotalsMismatch is the cause of the integrity fault raised at departure.
	ErrTotalsMismatch = errors.New("totals mismatch")

	// ErrStopsNotFullyAssigned is the cause when a member has no stop, or more than one.
	ErrStopsNotFullyAssigned = errors.New("stops not fully assigned")
)

// Listing is the aggregate root for a shipment manifest. It references drop tags by id and
// never owns them; callers load the member tags and hand them in so totals are always
// computed from live data.
type Listing struct {
	id             kernel.UUID
	code           kernel.Code
	shipmentRef    string
	originLocation string
	status         Status

	tagIDs []kernel.UUID
	stops  []Stop
	totals Totals

	documents Documents
	printedAt *time.Time

	lockedBy    string
	lockedAt    *time.Time
	departedBy  string
	departedAt  *time.Time
	deliveredAt *time.Time
	pod         ProofOfDelivery
	closedAt    *time.Time

	createdAt time.Time
	updatedAt time.Time

	persistedStatus Status
	guard           guard.ConstructorGuard
}

// NewListing creates an empty DRAFT listing for a shipment.
//
// Example:
//
//	code, _ := kernel.NewCode(kernel.ListingCodeKind, now.Year())
//	l, err := listing.NewListing(kernel.NewUUID(), code, "SHP-901", "DOCK-2", now)
//	if err != nil {
//	    return err
//	}
func NewListing(id kernel.UUID, code kernel.Code, shipmentRef, originLocation string, now time.Time) (*Listing, error) {
	l := &Listing{
		status:    StatusDraft,
		totals:    Totals{Weight: kernel.ZeroWeight()},
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	var refErr error
	if l.shipmentRef = strings.TrimSpace(shipmentRef); l.shipmentRef == "" {
		refErr = errs.NewValueIsRequiredError("shipment reference")
	}
	var originErr error
	if l.originLocation = strings.TrimSpace(originLocation); l.originLocation == "" {
		originErr = errs.NewValueIsRequiredError("origin location")
	}

	if err := errors.Join(l.setID(id), l.setCode(code), refErr, originErr); err != nil {
		return nil, err
	}
	return l, nil
}

// State is the persisted form of a Listing.
type State struct {
	ID             kernel.UUID
	Code           kernel.Code
	ShipmentRef    string
	OriginLocation string
	Status         Status
	TagIDs         []kernel.UUID
	Stops          []Stop
	Totals         Totals
	Documents      Documents
	PrintedAt      *time.Time
	LockedBy       string
	LockedAt       *time.Time
	DepartedBy     string
	DepartedAt     *time.Time
	DeliveredAt    *time.Time
	POD            ProofOfDelivery
	ClosedAt       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RestoreListing rebuilds a listing read from storage, stops and member ids included.
// The stored status becomes the persisted status used for compare-and-set.
func RestoreListing(s State) (*Listing, error) {
	l := &Listing{
		shipmentRef:     s.ShipmentRef,
		originLocation:  s.OriginLocation,
		status:          s.Status,
		tagIDs:          append([]kernel.UUID(nil), s.TagIDs...),
		totals:          s.Totals,
		documents:       s.Documents,
		printedAt:       s.PrintedAt,
		lockedBy:        s.LockedBy,
		lockedAt:        s.LockedAt,
		departedBy:      s.DepartedBy,
		departedAt:      s.DepartedAt,
		deliveredAt:     s.DeliveredAt,
		pod:             s.POD,
		closedAt:        s.ClosedAt,
		createdAt:       s.CreatedAt,
		updatedAt:       s.UpdatedAt,
		persistedStatus: s.Status,
		guard:           guard.NewConstructorGuard(),
	}
	for _, stop := range s.Stops {
		l.stops = append(l.stops, stop.clone())
	}

	if err := errors.Join(l.setID(s.ID), l.setCode(s.Code), s.Status.Validate()); err != nil {
		return nil, err
	}
	return l, nil
}

// State returns a copy of every field for persistence adapters.
func (l *Listing) State() State {
	stops := make([]Stop, 0, len(l.stops))
	for _, stop := range l.stops {
		stops = append(stops, stop.clone())
	}
	return State{
		ID:             l.id,
		Code:           l.code,
		ShipmentRef:    l.shipmentRef,
		OriginLocation: l.originLocation,
		Status:         l.status,
		TagIDs:         append([]kernel.UUID(nil), l.tagIDs...),
		Stops:          stops,
		Totals:         l.totals,
		Documents:      l.documents,
		PrintedAt:      l.printedAt,
		LockedBy:       l.lockedBy,
		LockedAt:       l.lockedAt,
		DepartedBy:     l.departedBy,
		DepartedAt:     l.departedAt,
		DeliveredAt:    l.deliveredAt,
		POD:            l.pod,
		ClosedAt:       l.closedAt,
		CreatedAt:      l.createdAt,
		UpdatedAt:      l.updatedAt,
	}
}

// Validate ensures the listing was created through NewListing or RestoreListing.
func (l *Listing) Validate() error {
	if l == nil {
		return ErrListingIsNotConstructed
	}
	return l.guard.Validate(ErrListingIsNotConstructed)
}

// ID returns the listing's internal identifier.
func (l *Listing) ID() kernel.UUID {
	return l.id
}

// Code returns the printed DTL code.
func (l *Listing) Code() kernel.Code {
	return l.code
}

// ShipmentRef returns the carrier shipment the listing travels under.
func (l *Listing) ShipmentRef() string {
	return l.shipmentRef
}

// OriginLocation returns the dock the shipment leaves from.
func (l *Listing) OriginLocation() string {
	return l.originLocation
}

// Status returns the current lifecycle state.
func (l *Listing) Status() Status {
	return l.status
}

// Totals returns the counts last computed from the live member tags.
func (l *Listing) Totals() Totals {
	return l.totals
}

// Documents returns the manifest, COC and MTR ids stamped at print.
func (l *Listing) Documents() Documents {
	return l.documents
}

// POD returns the proof of delivery; it is zero before DELIVERED.
func (l *Listing) POD() ProofOfDelivery {
	return l.pod
}

// DepartedAt returns the lock and depart time, or nil.
func (l *Listing) DepartedAt() *time.Time {
	return l.departedAt
}

// ClosedAt returns the close time, or nil.
func (l *Listing) ClosedAt() *time.Time {
	return l.closedAt
}

// PersistedStatus returns the status last read from or written to storage.
func (l *Listing) PersistedStatus() Status {
	return l.persistedStatus
}

// MarkPersisted records a successful write so the next Update compares against it.
func (l *Listing) MarkPersisted() {
	l.persistedStatus = l.status
}

// TagIDs returns a copy of the member ids in insertion order.
func (l *Listing) TagIDs() []kernel.UUID {
	return append([]kernel.UUID(nil), l.tagIDs...)
}

// HasTag reports whether id is a member.
func (l *Listing) HasTag(id kernel.UUID) bool {
	return indexOf(l.tagIDs, id) >= 0
}

// Stops returns the stop sequence ordered by stop number.
func (l *Listing) Stops() []Stop {
	out := make([]Stop, 0, len(l.stops))
	for _, stop := range l.stops {
		out = append(out, stop.clone())
	}
	return out
}

// StopFor returns the stop number the tag is assigned to.
func (l *Listing) StopFor(tagID kernel.UUID) (int, bool) {
	for _, stop := range l.stops {
		if stop.contains(tagID) {
			return stop.Number, true
		}
	}
	return 0, false
}

// AddTags claims tags for the listing. Every tag must be SEALED or STAGED and not on another
// listing; all violations are reported together and nothing changes when any is found.
// members are the tags currently on the listing.
func (l *Listing) AddTags(adding, members []*droptag.DropTag, now time.Time) error {
	if err := l.ensureOpen("add tags to"); err != nil {
		return err
	}
	byID, err := l.index(members)
	if err != nil {
		return err
	}

	var reasons []string
	var fresh []*droptag.DropTag
	seen := make(map[kernel.UUID]bool)
	for _, tag := range adding {
		if l.HasTag(tag.ID()) || seen[tag.ID()] {
			continue
		}
		seen[tag.ID()] = true
		if tag.Status() != droptag.StatusSealed && tag.Status() != droptag.StatusStaged {
			reasons = append(reasons, fmt.Sprintf("%s is %s, expected SEALED or STAGED", tag.Code(), tag.Status()))
		}
		if other := tag.ListingID(); other != nil && !other.IsEqual(l.id) {
			reasons = append(reasons, fmt.Sprintf("%s is already on listing %s", tag.Code(), other))
		}
		fresh = append(fresh, tag)
	}
	if len(reasons) > 0 {
		return errs.NewValidationFailedError(reasons...)
	}
	if len(fresh) == 0 {
		return nil
	}

	for _, tag := range fresh {
		if err = tag.AssignToListing(l.id, now); err != nil {
			return err
		}
		l.tagIDs = append(l.tagIDs, tag.ID())
		byID[tag.ID()] = tag
	}

	l.recomputeTotals(byID)
	l.reopen(now)
	return nil
}

// RemoveTags releases the given members. Removed tags also leave their stop and keep their
// own lifecycle. It returns the released tags so the caller can persist them.
func (l *Listing) RemoveTags(tagIDs []kernel.UUID, members []*droptag.DropTag, now time.Time) ([]*droptag.DropTag, error) {
	if err := l.ensureOpen("remove tags from"); err != nil {
		return nil, err
	}
	byID, err := l.index(members)
	if err != nil {
		return nil, err
	}

	var reasons []string
	for _, id := range tagIDs {
		if !l.HasTag(id) {
			reasons = append(reasons, fmt.Sprintf("tag %s is not on listing %s", id, l.code))
		}
	}
	if len(reasons) > 0 {
		return nil, errs.NewValidationFailedError(reasons...)
	}

	removed := make([]*droptag.DropTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		tag, ok := byID[id]
		if !ok {
			continue
		}
		if err = tag.ClearListing(l.id, now); err != nil {
			return nil, err
		}
		removed = append(removed, tag)
		delete(byID, id)
		l.tagIDs = removeID(l.tagIDs, id)
		for i := range l.stops {
			l.stops[i].TagIDs = removeID(l.stops[i].TagIDs, id)
		}
	}

	l.recomputeTotals(byID)
	l.reopen(now)
	return removed, nil
}

// SetStops replaces the stop sequence. Every member must appear in exactly one stop, stop
// numbers must be unique and positive, and each tag's route stop is updated.
func (l *Listing) SetStops(stops []Stop, members []*droptag.DropTag, now time.Time) error {
	if err := l.ensureOpen("set stops on"); err != nil {
		return err
	}
	byID, err := l.index(members)
	if err != nil {
		return err
	}

	var reasons []string
	numbers := make(map[int]bool)
	placed := make(map[kernel.UUID]int)
	for _, stop := range stops {
		if stop.Number <= 0 {
			reasons = append(reasons, fmt.Sprintf("stop number %d is not positive", stop.Number))
		}
		if numbers[stop.Number] {
			reasons = append(reasons, fmt.Sprintf("stop number %d is used twice", stop.Number))
		}
		numbers[stop.Number] = true
		for _, id := range stop.TagIDs {
			if !l.HasTag(id) {
				reasons = append(reasons, fmt.Sprintf("tag %s is not on listing %s", id, l.code))
				continue
			}
			if _, dup := placed[id]; dup {
				reasons = append(reasons, fmt.Sprintf("%s appears in more than one stop", byID[id].Code()))
			}
			placed[id] = stop.Number
		}
	}
	for _, id := range l.tagIDs {
		if _, ok := placed[id]; !ok {
			reasons = append(reasons, fmt.Sprintf("%s has no stop", byID[id].Code()))
		}
	}
	if len(reasons) > 0 {
		return errs.NewValidationFailedErrorWithCause(ErrStopsNotFullyAssigned, reasons...)
	}

	next := make([]Stop, 0, len(stops))
	for _, stop := range stops {
		next = append(next, Stop{Number: stop.Number, LocationID: strings.TrimSpace(stop.LocationID)}.withTags(stop.TagIDs))
	}
	sort.Slice(next, func(i, j int) bool { return next[i].Number < next[j].Number })

	for id, number := range placed {
		if err = byID[id].AssignStop(number, now); err != nil {
			return err
		}
	}

	l.stops = next
	l.updatedAt = now
	return nil
}

// Finalize marks a complete listing READY.
func (l *Listing) Finalize(now time.Time) error {
	if err := l.ensureOpen("finalize"); err != nil {
		return err
	}
	if len(l.tagIDs) == 0 {
		return errs.NewValidationFailedError("Listing has no tags")
	}
	missing := 0
	for _, id := range l.tagIDs {
		if _, ok := l.StopFor(id); !ok {
			missing++
		}
	}
	if missing > 0 {
		return errs.NewValidationFailedErrorWithCause(ErrStopsNotFullyAssigned,
			fmt.Sprintf("stops not fully assigned: %d of %d tags have no stop", missing, len(l.tagIDs)))
	}
	l.status = StatusReady
	l.updatedAt = now
	return nil
}

// Print stamps the rendered document ids and moves READY to PRINTED.
func (l *Listing) Print(docs Documents, now time.Time) error {
	if l.status != StatusReady {
		return errs.NewInvalidStateError(resourceName, l.status.String(), "print")
	}
	if docs.ManifestID == "" || docs.COCID == "" || docs.MTRID == "" {
		return errs.NewValueIsRequiredError("document ids")
	}
	l.documents = docs
	l.printedAt = &now
	l.status = StatusPrinted
	l.updatedAt = now
	return nil
}

// ConfirmLoaded moves PRINTED to LOADED once every member tag is LOADED.
func (l *Listing) ConfirmLoaded(members []*droptag.DropTag, now time.Time) error {
	if l.status != StatusPrinted {
		return errs.NewInvalidStateError(resourceName, l.status.String(), "confirm loaded")
	}
	if _, err := l.index(members); err != nil {
		return err
	}
	if err := requireAllLoaded(members); err != nil {
		return err
	}
	l.status = StatusLoaded
	l.updatedAt = now
	return nil
}

// LockAndDepart is the irrevocable departure. It re-checks that every member is LOADED and
// that live pieces equal the stored total; a mismatch is an integrity fault and leaves the
// listing untouched. Cascading the members to SHIPPED is the caller's job.
func (l *Listing) LockAndDepart(members []*droptag.DropTag, by string, now time.Time) error {
	if l.status != StatusLoaded {
		return errs.NewInvalidStateError(resourceName, l.status.String(), "lock and depart")
	}
	if _, err := l.index(members); err != nil {
		return err
	}
	if err := requireAllLoaded(members); err != nil {
		return err
	}

	live := 0
	for _, tag := range members {
		live += tag.Pieces()
	}
	if live != l.totals.Pieces {
		return errs.NewIntegrityFaultErrorWithCause(
			fmt.Sprintf("Expected %d pieces, found %d", l.totals.Pieces, live), ErrTotalsMismatch)
	}

	l.lockedBy = by
	l.lockedAt = &now
	l.departedBy = by
	l.departedAt = &now
	l.status = StatusDeparted
	l.updatedAt = now
	return nil
}

// ConfirmDelivered records proof of delivery and moves DEPARTED to DELIVERED.
func (l *Listing) ConfirmDelivered(pod ProofOfDelivery, now time.Time) error {
	if l.status != StatusDeparted {
		return errs.NewInvalidStateError(resourceName, l.status.String(), "confirm delivered")
	}
	pod.SignerName = strings.TrimSpace(pod.SignerName)
	if pod.SignerName == "" {
		return errs.NewValueIsRequiredError("POD signer")
	}
	l.pod = pod
	l.deliveredAt = &now
	l.status = StatusDelivered
	l.updatedAt = now
	return nil
}

// Close is terminal.
func (l *Listing) Close(now time.Time) error {
	if l.status != StatusDelivered {
		return errs.NewInvalidStateError(resourceName, l.status.String(), "close")
	}
	l.closedAt = &now
	l.status = StatusClosed
	l.updatedAt = now
	return nil
}

func (l *Listing) ensureOpen(operation string) error {
	if !l.status.IsOpen() {
		return errs.NewInvalidStateErrorWithCause(resourceName, l.status.String(), operation, ErrListingLocked)
	}
	return nil
}

// reopen sends a READY listing back to DRAFT after a membership change.
func (l *Listing) reopen(now time.Time) {
	if l.status == StatusReady {
		l.status = StatusDraft
	}
	l.updatedAt = now
}

// index maps members by id and checks they are exactly the listing's tags.
func (l *Listing) index(members []*droptag.DropTag) (map[kernel.UUID]*droptag.DropTag, error) {
	byID := make(map[kernel.UUID]*droptag.DropTag, len(members))
	for _, tag := range members {
		if !l.HasTag(tag.ID()) {
			return nil, errs.NewIntegrityFaultError(
				fmt.Sprintf("%s is not a member of listing %s", tag.Code(), l.code))
		}
		byID[tag.ID()] = tag
	}
	if len(byID) != len(l.tagIDs) {
		return nil, errs.NewIntegrityFaultError(
			fmt.Sprintf("listing %s has %d tags, %d were loaded", l.code, len(l.tagIDs), len(byID)))
	}
	return byID, nil
}

func (l *Listing) recomputeTotals(byID map[kernel.UUID]*droptag.DropTag) {
	packages := make(map[kernel.UUID]struct{})
	totals := Totals{Weight: kernel.ZeroWeight()}
	for _, id := range l.tagIDs {
		tag := byID[id]
		packages[tag.PackageID()] = struct{}{}
		totals.Pieces += tag.Pieces()
		totals.Weight = totals.Weight.Add(tag.Weight())
	}
	totals.Packages = len(packages)
	l.totals = totals
}

func requireAllLoaded(members []*droptag.DropTag) error {
	notLoaded := 0
	for _, tag := range members {
		if tag.Status() != droptag.StatusLoaded {
			notLoaded++
		}
	}
	if notLoaded > 0 {
		return errs.NewPrerequisiteNotMetError("all tags loaded",
			fmt.Sprintf("%d of %d tags not loaded", notLoaded, len(members)))
	}
	return nil
}

func (s Stop) withTags(ids []kernel.UUID) Stop {
	s.TagIDs = append([]kernel.UUID(nil), ids...)
	return s
}

func indexOf(ids []kernel.UUID, id kernel.UUID) int {
	for i, candidate := range ids {
		if candidate.IsEqual(id) {
			return i
		}
	}
	return -1
}

func removeID(ids []kernel.UUID, id kernel.UUID) []kernel.UUID {
	if i := indexOf(ids, id); i >= 0 {
		return append(ids[:i:i], ids[i+1:]...)
	}
	return ids
}

func (l *Listing) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	l.id = id
	return nil
}

func (l *Listing) setCode(code kernel.Code) error {
	if err := code.Validate(); err != nil {
		return err
	}
	if code.Kind() != kernel.ListingCodeKind {
		return errs.NewValueIsInvalidErrorWithCause("listing code", fmt.Errorf("%s is not a listing code", code))
	}
	l.code = code
	return nil
}
