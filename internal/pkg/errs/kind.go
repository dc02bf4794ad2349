package errs

import "errors"

// Kind classifies an error for callers at a component boundary.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindAlreadyExists
	KindInvalidInput
	KindInvalidState
	KindValidationFailed
	KindIdentityMismatch
	KindPolicyLimitExceeded
	KindIntegrityFault
	KindPrerequisiteNotMet
)

var kindNames = map[Kind]string{
	KindUnknown:             "UNKNOWN",
	KindNotFound:            "NOT_FOUND",
	KindAlreadyExists:       "ALREADY_EXISTS",
	KindInvalidInput:        "INVALID_INPUT",
	KindInvalidState:        "INVALID_STATE",
	KindValidationFailed:    "VALIDATION_FAILED",
	KindIdentityMismatch:    "IDENTITY_MISMATCH",
	KindPolicyLimitExceeded: "POLICY_LIMIT_EXCEEDED",
	KindIntegrityFault:      "INTEGRITY_FAULT",
	KindPrerequisiteNotMet:  "PREREQUISITE_NOT_MET",
}

// String returns the wire name used in HTTP error bodies, e.g. "INVALID_STATE".
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[KindUnknown]
}

// KindOf maps err onto the taxonomy. Integrity faults win over everything else.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrIntegrityFault):
		return KindIntegrityFault
	case errors.Is(err, ErrObjectNotFound):
		return KindNotFound
	case errors.Is(err, ErrAlreadyExists):
		return KindAlreadyExists
	case errors.Is(err, ErrInvalidState):
		return KindInvalidState
	case errors.Is(err, ErrValidationFailed):
		return KindValidationFailed
	case errors.Is(err, ErrIdentityMismatch):
		return KindIdentityMismatch
	case errors.Is(err, ErrPolicyLimitExceeded):
		return KindPolicyLimitExceeded
	case errors.Is(err, ErrPrerequisiteNotMet):
		return KindPrerequisiteNotMet
	case errors.Is(err, ErrValueIsRequired), errors.Is(err, ErrValueIsInvalid), errors.Is(err, ErrValueIsOutOfRange):
		return KindInvalidInput
	default:
		return KindUnknown
	}
}

// Reasons flattens an error into operator-facing messages.
func Reasons(err error) []string {
	if err == nil {
		return nil
	}
	var vf *ValidationFailedError
	if errors.As(err, &vf) {
		return append([]string(nil), vf.Reasons...)
	}
	return []string{err.Error()}
}
