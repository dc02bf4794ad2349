package listing

import (
	"fmt"
	"strings"

	"custody/internal/pkg/errs"
)

// Status is the lifecycle state of a listing.
//
//	DRAFT -> READY -> PRINTED -> LOADED -> DEPARTED -> DELIVERED -> CLOSED
type Status int

const (
	StatusUnknown Status = iota
	StatusDraft
	StatusReady
	StatusPrinted
	StatusLoaded
	StatusDeparted
	StatusDelivered
	StatusClosed
)

var statusNames = map[Status]string{
	StatusUnknown:   "UNKNOWN",
	StatusDraft:     "DRAFT",
	StatusReady:     "READY",
	StatusPrinted:   "PRINTED",
	StatusLoaded:    "LOADED",
	StatusDeparted:  "DEPARTED",
	StatusDelivered: "DELIVERED",
	StatusClosed:    "CLOSED",
}

// String returns the upper-case name used in trace events.
func (s Status) String() string {
	if str, ok := statusNames[s]; ok {
		return str
	}
	return statusNames[StatusUnknown]
}

// Validate rejects StatusUnknown and out-of-range values.
func (s Status) Validate() error {
	if s <= StatusUnknown || s > StatusClosed {
		return errs.NewValueIsInvalidErrorWithCause("listing status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsOpen reports whether membership and stops may still change.
func (s Status) IsOpen() bool {
	return s == StatusDraft || s == StatusReady
}

// ParseStatus is the inverse of String.
func ParseStatus(s string) (Status, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for status, str := range statusNames {
		if status != StatusUnknown && str == name {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("listing status", fmt.Errorf("%q is not a valid status", s))
}
