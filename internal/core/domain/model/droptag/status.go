package droptag

import (
	"fmt"
	"strings"

	"custody/internal/pkg/errs"
)

// Status is the lifecycle state of a drop tag.
//
//	DRAFT -> READY_TO_PRINT -> PRINTED -> APPLIED -> SEALED -> STAGED -> LOADED -> SHIPPED -> DELIVERED
//	any state except DELIVERED -> VOID
type Status int

const (
	StatusUnknown Status = iota
	StatusDraft
	StatusReadyToPrint
	StatusPrinted
	StatusApplied
	StatusSealed
	StatusStaged
	StatusLoaded
	StatusShipped
	StatusDelivered
	StatusVoid
)

var statusNames = map[Status]string{
	StatusUnknown:      "UNKNOWN",
	StatusDraft:        "DRAFT",
	StatusReadyToPrint: "READY_TO_PRINT",
	StatusPrinted:      "PRINTED",
	StatusApplied:      "APPLIED",
	StatusSealed:       "SEALED",
	StatusStaged:       "STAGED",
	StatusLoaded:       "LOADED",
	StatusShipped:      "SHIPPED",
	StatusDelivered:    "DELIVERED",
	StatusVoid:         "VOID",
}

// String returns the upper-case name used in trace events and HTTP bodies.
func (s Status) String() string {
	if str, ok := statusNames[s]; ok {
		return str
	}
	return statusNames[StatusUnknown]
}

// Validate rejects StatusUnknown and out-of-range values.
func (s Status) Validate() error {
	if s <= StatusUnknown || s > StatusVoid {
		return errs.NewValueIsInvalidErrorWithCause("drop tag status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsActive reports whether the tag still counts towards its package.
func (s Status) IsActive() bool {
	return s != StatusVoid && s != StatusUnknown
}

// IsPostShip reports whether voiding from s requires a claim.
func (s Status) IsPostShip() bool {
	return s == StatusLoaded || s == StatusShipped
}

// ParseStatus is the inverse of String.
func ParseStatus(s string) (Status, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for status, str := range statusNames {
		if status != StatusUnknown && str == name {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("drop tag status", fmt.Errorf("%q is not a valid status", s))
}
