// Package station defines the closed set of physical scan stations on the floor.
package station

import (
	"fmt"
	"strings"

	"custody/internal/pkg/errs"
)

// Kind is a physical station type. The set is closed; adding a kind means adding a handler
// to the scan engine's dispatch switch.
type Kind int

const (
	KindUnknown Kind = iota
	Print
	Apply
	Seal
	Stage
	Load
	Deliver
)

var kindNames = map[Kind]string{
	KindUnknown: "UNKNOWN",
	Print:       "PRINT",
	Apply:       "APPLY",
	Seal:        "SEAL",
	Stage:       "STAGE",
	Load:        "LOAD",
	Deliver:     "DELIVER",
}

// Kinds lists every valid kind in floor order.
func Kinds() []Kind {
	return []Kind{Print, Apply, Seal, Stage, Load, Deliver}
}

// ParseKind accepts PRINT, APPLY, SEAL, STAGE, LOAD and DELIVER in any case.
func ParseKind(s string) (Kind, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for _, k := range Kinds() {
		if kindNames[k] == name {
			return k, nil
		}
	}
	return KindUnknown, errs.NewValueIsInvalidErrorWithCause("station type", fmt.Errorf("%q is not a station type", s))
}

// String returns the upper-case station name, also used as the scan event type suffix.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[KindUnknown]
}

// Validate rejects kinds outside the closed set.
func (k Kind) Validate() error {
	if k <= KindUnknown || k > Deliver {
		return errs.NewValueIsInvalidErrorWithCause("station type", fmt.Errorf("%d is not a station type", k))
	}
	return nil
}

// NextAction tells the operator what happens to the tag after a successful scan at k.
func (k Kind) NextAction() string {
	switch k {
	case Print:
		return "APPLY_TAG"
	case Apply:
		return "SEAL_PACKAGE"
	case Seal:
		return "STAGE"
	case Stage:
		return "LOAD"
	case Load:
		return "DELIVER"
	case Deliver:
		return "NONE"
	case KindUnknown:
		return ""
	}
	return ""
}
