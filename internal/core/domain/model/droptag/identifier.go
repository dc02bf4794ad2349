package droptag

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

// ErrTagIdentifierIsNotConstructed is returned by Validate for zero-value bindings.
var ErrTagIdentifierIsNotConstructed = errors.New("TagIdentifier must be created via NewTagIdentifier constructor")

// IdentifierType is the physical medium of a secondary identifier.
type IdentifierType string

const (
	IdentifierRFID       IdentifierType = "RFID"
	IdentifierEtch       IdentifierType = "ETCH"
	IdentifierAltBarcode IdentifierType = "ALT_BARCODE"
)

// ParseIdentifierType accepts RFID, ETCH and ALT_BARCODE in any case.
func ParseIdentifierType(s string) (IdentifierType, error) {
	t := IdentifierType(strings.ToUpper(strings.TrimSpace(s)))
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// Validate rejects media other than RFID, ETCH and ALT_BARCODE.
func (t IdentifierType) Validate() error {
	switch t {
	case IdentifierRFID, IdentifierEtch, IdentifierAltBarcode:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("identifier type", fmt.Errorf("%q is not a valid identifier type", string(t)))
	}
}

// NormalizeIdentifierValue is applied both when registering and when resolving.
func NormalizeIdentifierValue(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}

// TagIdentifier binds a secondary physical identifier to a drop tag. It is only used for
// resolution and never carries state of its own.
type TagIdentifier struct {
	id        kernel.UUID
	dropTagID kernel.UUID
	kind      IdentifierType
	value     string
	createdAt time.Time
	guard     guard.ConstructorGuard
}

// NewTagIdentifier binds value, normalized, to dropTagID. A value may be registered once per
// type; repositories enforce that.
//
// Example:
//
//	ti, err := droptag.NewTagIdentifier(kernel.NewUUID(), tag.ID(), droptag.IdentifierRFID, "e200 3412", now)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(ti.Value()) // E200 3412
func NewTagIdentifier(id, dropTagID kernel.UUID, kind IdentifierType, value string, now time.Time) (*TagIdentifier, error) {
	ti := &TagIdentifier{
		kind:      kind,
		value:     NormalizeIdentifierValue(value),
		createdAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	var valueErr error
	if ti.value == "" {
		valueErr = errs.NewValueIsRequiredError("identifier value")
	}

	if err := errors.Join(id.Validate(), dropTagID.Validate(), kind.Validate(), valueErr); err != nil {
		return nil, err
	}

	ti.id = id
	ti.dropTagID = dropTagID
	return ti, nil
}

// ID returns the binding's identifier.
func (ti *TagIdentifier) ID() kernel.UUID {
	return ti.id
}

// DropTagID returns the tag the identifier resolves to.
func (ti *TagIdentifier) DropTagID() kernel.UUID {
	return ti.dropTagID
}

// Type returns the physical medium.
func (ti *TagIdentifier) Type() IdentifierType {
	return ti.kind
}

// Value returns the normalized identifier value.
func (ti *TagIdentifier) Value() string {
	return ti.value
}

// CreatedAt returns when the identifier was registered.
func (ti *TagIdentifier) CreatedAt() time.Time {
	return ti.createdAt
}

// Validate ensures the binding was created through NewTagIdentifier.
func (ti *TagIdentifier) Validate() error {
	if ti == nil {
		return ErrTagIdentifierIsNotConstructed
	}
	return ti.guard.Validate(ErrTagIdentifierIsNotConstructed)
}
