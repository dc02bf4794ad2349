package packaging

import (
	"fmt"
	"strings"

	"custody/internal/pkg/errs"
)

// Status is the lifecycle state of a package.
//
//	OPEN -> PACKING -> READY_FOR_QC -> QC_RELEASED -> SEALED -> STAGED -> LOADED -> SHIPPED -> DELIVERED
//
// The order of the constants is the lifecycle order; AtLeast relies on it.
type Status int

const (
	StatusUnknown Status = iota
	StatusOpen
	StatusPacking
	StatusReadyForQC
	StatusQCReleased
	StatusSealed
	StatusStaged
	StatusLoaded
	StatusShipped
	StatusDelivered
)

var statusNames = map[Status]string{
	StatusUnknown:    "UNKNOWN",
	StatusOpen:       "OPEN",
	StatusPacking:    "PACKING",
	StatusReadyForQC: "READY_FOR_QC",
	StatusQCReleased: "QC_RELEASED",
	StatusSealed:     "SEALED",
	StatusStaged:     "STAGED",
	StatusLoaded:     "LOADED",
	StatusShipped:    "SHIPPED",
	StatusDelivered:  "DELIVERED",
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
	if s <= StatusUnknown || s > StatusDelivered {
		return errs.NewValueIsInvalidErrorWithCause("package status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// AtLeast reports whether s has reached other in the lifecycle.
func (s Status) AtLeast(other Status) bool {
	return s >= other
}

// ParseStatus converts a persisted status name back into a Status.
func ParseStatus(s string) (Status, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for status, str := range statusNames {
		if status != StatusUnknown && str == name {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("package status", fmt.Errorf("%q is not a valid status", s))
}

// QCStatus is the quality-control verdict recorded on a package.
type QCStatus int

const (
	QCUnknown QCStatus = iota
	QCPending
	QCReleased
	QCConditional
	QCHold
	QCRejected
)

var qcStatusNames = map[QCStatus]string{
	QCUnknown:     "UNKNOWN",
	QCPending:     "PENDING",
	QCReleased:    "RELEASED",
	QCConditional: "CONDITIONAL",
	QCHold:        "HOLD",
	QCRejected:    "REJECTED",
}

// String returns the upper-case verdict name.
func (q QCStatus) String() string {
	if str, ok := qcStatusNames[q]; ok {
		return str
	}
	return qcStatusNames[QCUnknown]
}

// Validate rejects values outside PENDING..REJECTED.
func (q QCStatus) Validate() error {
	if q <= QCUnknown || q > QCRejected {
		return errs.NewValueIsInvalidErrorWithCause("qc status", fmt.Errorf("%d is not a valid QC status", q))
	}
	return nil
}

// IsPassed reports whether the verdict lets tags be printed and sealed.
func (q QCStatus) IsPassed() bool {
	return q == QCReleased || q == QCConditional
}

// IsBlocking reports whether the verdict forbids generating tags.
func (q QCStatus) IsBlocking() bool {
	return q == QCHold || q == QCRejected
}

// ParseQCStatus is the inverse of QCStatus.String.
func ParseQCStatus(s string) (QCStatus, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for status, str := range qcStatusNames {
		if status != QCUnknown && str == name {
			return status, nil
		}
	}
	return QCUnknown, errs.NewValueIsInvalidErrorWithCause("qc status", fmt.Errorf("%q is not a valid QC status", s))
}

// QCDecision is what an inspector records against a package in READY_FOR_QC.
type QCDecision string

const (
	DecisionRelease     QCDecision = "RELEASE"
	DecisionConditional QCDecision = "CONDITIONAL"
	DecisionHold        QCDecision = "HOLD"
	DecisionReject      QCDecision = "REJECT"
)

// ParseQCDecision accepts RELEASE, CONDITIONAL, HOLD and REJECT in any case.
func ParseQCDecision(s string) (QCDecision, error) {
	d := QCDecision(strings.ToUpper(strings.TrimSpace(s)))
	if err := d.Validate(); err != nil {
		return "", err
	}
	return d, nil
}

// Validate rejects unknown decisions.
func (d QCDecision) Validate() error {
	switch d {
	case DecisionRelease, DecisionConditional, DecisionHold, DecisionReject:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("qc decision", fmt.Errorf("%q is not a valid QC decision", string(d)))
	}
}
