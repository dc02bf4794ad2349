package trace

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

var (
	ErrEventIsNotConstructed = errors.New("Event must be created via NewEvent constructor")

	// ErrHashAlreadyAssigned is returned when the hash backfill is attempted twice.
	ErrHashAlreadyAssigned = errors.New("event hash already assigned")
)

// Fields describes an event before it is recorded.
type Fields struct {
	Type          EventType
	Category      Category
	Actor         kernel.Actor
	ResourceType  ResourceType
	ResourceID    kernel.UUID
	PreviousState string
	NewState      string
	StationID     *string
	LocationID    *string
	ShipmentID    *string
	DropTagID     *kernel.UUID
	Metadata      map[string]any
	OccurredAt    time.Time
}

// Event is an immutable custody record. The only mutation ever allowed is the single hash
// backfill performed by the repository right after insert.
type Event struct {
	id     kernel.UUID
	fields Fields
	hash   string
	guard  guard.ConstructorGuard
}

// NewEvent validates fields and normalizes them to what storage returns: occurredAt in UTC
// truncated to microseconds, and metadata as plain JSON values. Hashes computed before and
// after a round trip through storage are therefore identical.
func NewEvent(id kernel.UUID, f Fields) (*Event, error) {
	if err := errors.Join(
		id.Validate(),
		f.ResourceID.Validate(),
		f.Actor.Validate(),
		required("event type", string(f.Type)),
		required("event category", string(f.Category)),
		required("resource type", string(f.ResourceType)),
	); err != nil {
		return nil, err
	}
	if f.OccurredAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("occurred at")
	}

	metadata, err := normalizeMetadata(f.Metadata)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("metadata", err)
	}
	f.Metadata = metadata
	f.OccurredAt = f.OccurredAt.UTC().Truncate(time.Microsecond)

	return &Event{id: id, fields: f, guard: guard.NewConstructorGuard()}, nil
}

// RestoreEvent rebuilds a stored event, hash included.
func RestoreEvent(id kernel.UUID, f Fields, hash string) (*Event, error) {
	e, err := NewEvent(id, f)
	if err != nil {
		return nil, err
	}
	e.hash = hash
	return e, nil
}

// Validate ensures the event was created through NewEvent or RestoreEvent.
func (e *Event) Validate() error {
	if e == nil {
		return ErrEventIsNotConstructed
	}
	return e.guard.Validate(ErrEventIsNotConstructed)
}

// ID returns the event identifier.
func (e *Event) ID() kernel.UUID {
	return e.id
}

// Type returns the transition the event records.
func (e *Event) Type() EventType {
	return e.fields.Type
}

// Category returns the reporting group.
func (e *Event) Category() Category {
	return e.fields.Category
}

// Actor returns who performed the transition.
func (e *Event) Actor() kernel.Actor {
	return e.fields.Actor
}

// ResourceType returns the kind of entity the event is about.
func (e *Event) ResourceType() ResourceType {
	return e.fields.ResourceType
}

// ResourceID returns the entity the event is about.
func (e *Event) ResourceID() kernel.UUID {
	return e.fields.ResourceID
}

// PreviousState returns the status before the transition, or "" on creation.
func (e *Event) PreviousState() string {
	return e.fields.PreviousState
}

// NewState returns the status after the transition.
func (e *Event) NewState() string {
	return e.fields.NewState
}

// StationID returns the scan station, or nil for non-station events.
func (e *Event) StationID() *string {
	return e.fields.StationID
}

// LocationID returns where the transition happened, or nil.
func (e *Event) LocationID() *string {
	return e.fields.LocationID
}

// ShipmentID returns the shipment reference, or nil.
func (e *Event) ShipmentID() *string {
	return e.fields.ShipmentID
}

// DropTagID returns the tag involved, or nil for package and listing events.
func (e *Event) DropTagID() *kernel.UUID {
	return e.fields.DropTagID
}

// OccurredAt returns the UTC time of the transition, truncated to microseconds.
func (e *Event) OccurredAt() time.Time {
	return e.fields.OccurredAt
}

// Hash returns the hex content hash, or "" before AssignHash.
func (e *Event) Hash() string {
	return e.hash
}

// Metadata returns a shallow copy of the event metadata.
func (e *Event) Metadata() map[string]any {
	out := make(map[string]any, len(e.fields.Metadata))
	for k, v := range e.fields.Metadata {
		out[k] = v
	}
	return out
}

// Fields returns a copy of the recorded fields.
func (e *Event) Fields() Fields {
	f := e.fields
	f.Metadata = e.Metadata()
	return f
}

// ComputeHash returns the hex SHA-256 of the canonical content: id, type, resource id,
// occurredAt and metadata. Map keys are emitted sorted by encoding/json.
func (e *Event) ComputeHash() (string, error) {
	content := struct {
		ID         string         `json:"id"`
		Type       string         `json:"type"`
		ResourceID string         `json:"resourceId"`
		OccurredAt string         `json:"occurredAt"`
		Metadata   map[string]any `json:"metadata"`
	}{
		ID:         e.id.String(),
		Type:       string(e.fields.Type),
		ResourceID: e.fields.ResourceID.String(),
		OccurredAt: e.fields.OccurredAt.UTC().Format(time.RFC3339Nano),
		Metadata:   e.fields.Metadata,
	}
	if content.Metadata == nil {
		content.Metadata = map[string]any{}
	}

	raw, err := json.Marshal(content)
	if err != nil {
		return "", fmt.Errorf("canonical event content: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// AssignHash computes and stores the content hash. It succeeds exactly once.
func (e *Event) AssignHash() error {
	if e.hash != "" {
		return errs.NewIntegrityFaultErrorWithCause(fmt.Sprintf("event %s already hashed", e.id), ErrHashAlreadyAssigned)
	}
	hash, err := e.ComputeHash()
	if err != nil {
		return err
	}
	e.hash = hash
	return nil
}

// Verify recomputes the hash and compares it with the stored one.
func (e *Event) Verify() bool {
	if e.hash == "" {
		return false
	}
	hash, err := e.ComputeHash()
	return err == nil && hash == e.hash
}

func normalizeMetadata(in map[string]any) (map[string]any, error) {
	if len(in) == 0 {
		return map[string]any{}, nil
	}
	raw, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(in))
	if err = json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func required(name, value string) error {
	if value == "" {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}
