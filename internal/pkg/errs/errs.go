package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Every typed error in this package unwraps to exactly one of them.
var (
	ErrObjectNotFound      = errors.New("object not found")
	ErrAlreadyExists       = errors.New("object already exists")
	ErrValueIsInvalid      = errors.New("value is invalid")
	ErrValueIsOutOfRange   = errors.New("value is out of range")
	ErrValueIsRequired     = errors.New("value is required")
	ErrInvalidState        = errors.New("invalid state")
	ErrValidationFailed    = errors.New("validation failed")
	ErrIdentityMismatch    = errors.New("identity mismatch")
	ErrPolicyLimitExceeded = errors.New("policy limit exceeded")
	ErrIntegrityFault      = errors.New("integrity fault")
	ErrPrerequisiteNotMet  = errors.New("prerequisite not met")
)

// causeIs lets typed errors match both their sentinel (via Unwrap) and their cause.
func causeIs(cause, target error) bool {
	return cause != nil && errors.Is(cause, target)
}

func sanitize(input any) string {
	str := fmt.Sprintf("%v", input)
	return strings.ReplaceAll(str, "\n", " ")
}

// ObjectNotFoundError reports a missing package, drop tag, listing or identifier.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError reports that no paramName with the given id exists.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause is NewObjectNotFoundError with the lookup failure attached.
// The cause keeps matching errors.Is, so callers can still test for a named domain failure.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

// Error returns the short form when there is no cause and the parameter form otherwise.
func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %v)",
			ErrObjectNotFound, e.ParamName, sanitize(e.ID), e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, sanitize(e.ID))
}

// Unwrap exposes ErrObjectNotFound for errors.Is checks.
func (e *ObjectNotFoundError) Unwrap() error { return ErrObjectNotFound }

// Is matches the attached cause.
func (e *ObjectNotFoundError) Is(target error) bool { return causeIs(e.Cause, target) }

// AlreadyExistsError reports a uniqueness violation at the persistence boundary.
type AlreadyExistsError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewAlreadyExistsErrorWithCause reports a duplicate paramName keyed by id.
// Repositories pass ports.ErrDuplicateKey or the driver error as cause.
func NewAlreadyExistsErrorWithCause(paramName string, id any, cause error) *AlreadyExistsError {
	return &AlreadyExistsError{ParamName: paramName, ID: id, Cause: cause}
}

// Error names the duplicated parameter and key.
func (e *AlreadyExistsError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s %s (cause: %v)", ErrAlreadyExists, e.ParamName, sanitize(e.ID), e.Cause)
	}
	return fmt.Sprintf("%s: %s %s", ErrAlreadyExists, e.ParamName, sanitize(e.ID))
}

// Unwrap exposes ErrAlreadyExists.
func (e *AlreadyExistsError) Unwrap() error { return ErrAlreadyExists }

// Is matches the attached cause, e.g. ports.ErrDuplicateKey.
func (e *AlreadyExistsError) Is(target error) bool { return causeIs(e.Cause, target) }

type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError reports a malformed paramName.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause reports a malformed paramName and why parsing failed.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

// Unwrap exposes ErrValueIsInvalid.
func (e *ValueIsInvalidError) Unwrap() error { return ErrValueIsInvalid }

func (e *ValueIsInvalidError) Is(target error) bool { return causeIs(e.Cause, target) }

type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

// NewValueIsOutOfRangeError reports value outside [minValue, maxValue].
func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %s is %s, min value is %s, max value is %s",
		ErrValueIsInvalid, sanitize(e.Value), e.ParamName, sanitize(e.Min), sanitize(e.Max))
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

// Unwrap exposes ErrValueIsOutOfRange.
func (e *ValueIsOutOfRangeError) Unwrap() error { return ErrValueIsOutOfRange }

func (e *ValueIsOutOfRangeError) Is(target error) bool { return causeIs(e.Cause, target) }

type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError reports a missing or blank paramName.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause reports a missing paramName with the underlying failure.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

// Unwrap exposes ErrValueIsRequired.
func (e *ValueIsRequiredError) Unwrap() error { return ErrValueIsRequired }

func (e *ValueIsRequiredError) Is(target error) bool { return causeIs(e.Cause, target) }

// InvalidStateError is returned when an operation is attempted outside its required prior status.
type InvalidStateError struct {
	Resource  string
	Current   string
	Operation string
	Cause     error
}

// NewInvalidStateError reports that operation is not allowed on resource while it is in
// state current.
//
// Example:
//
//	if t.status != StatusReadyToPrint {
//	    return errs.NewInvalidStateError("dropTag", t.status.String(), "print")
//	}
func NewInvalidStateError(resource, current, operation string) *InvalidStateError {
	return &InvalidStateError{Resource: resource, Current: current, Operation: operation}
}

// NewInvalidStateErrorWithCause is NewInvalidStateError with a named domain failure as cause,
// e.g. ErrListingLocked.
func NewInvalidStateErrorWithCause(resource, current, operation string, cause error) *InvalidStateError {
	return &InvalidStateError{Resource: resource, Current: current, Operation: operation, Cause: cause}
}

// Error reads "<sentinel>: cannot <operation> <resource> in status <current>".
func (e *InvalidStateError) Error() string {
	msg := fmt.Sprintf("%s: cannot %s %s in status %s", ErrInvalidState, e.Operation, e.Resource, e.Current)
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

// Unwrap exposes ErrInvalidState.
func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

func (e *InvalidStateError) Is(target error) bool { return causeIs(e.Cause, target) }

// ValidationFailedError carries every business-rule violation found, not just the first one.
type ValidationFailedError struct {
	Reasons []string
	Cause   error
}

// NewValidationFailedError collects every business rule the input broke. Reasons are
// reported to operators verbatim.
func NewValidationFailedError(reasons ...string) *ValidationFailedError {
	return &ValidationFailedError{Reasons: reasons}
}

// NewValidationFailedErrorWithCause is NewValidationFailedError with a named cause.
func NewValidationFailedErrorWithCause(cause error, reasons ...string) *ValidationFailedError {
	return &ValidationFailedError{Reasons: reasons, Cause: cause}
}

// Error joins the reasons.
func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidationFailed, sanitize(strings.Join(e.Reasons, "; ")))
}

// Unwrap exposes ErrValidationFailed.
func (e *ValidationFailedError) Unwrap() error { return ErrValidationFailed }

func (e *ValidationFailedError) Is(target error) bool { return causeIs(e.Cause, target) }

type IdentityMismatchError struct {
	ParamName string
	Expected  string
	Actual    string
	Cause     error
}

// NewIdentityMismatchError reports a scanned paramName that does not match the expected one.
func NewIdentityMismatchError(paramName, expected, actual string) *IdentityMismatchError {
	return &IdentityMismatchError{ParamName: paramName, Expected: expected, Actual: actual}
}

// NewIdentityMismatchErrorWithCause attaches a named failure such as ErrPackageMismatch.
func NewIdentityMismatchErrorWithCause(paramName, expected, actual string, cause error) *IdentityMismatchError {
	return &IdentityMismatchError{ParamName: paramName, Expected: expected, Actual: actual, Cause: cause}
}

func (e *IdentityMismatchError) Error() string {
	return fmt.Sprintf("%s: %s expected %s, got %s",
		ErrIdentityMismatch, e.ParamName, sanitize(e.Expected), sanitize(e.Actual))
}

// Unwrap exposes ErrIdentityMismatch.
func (e *IdentityMismatchError) Unwrap() error { return ErrIdentityMismatch }

func (e *IdentityMismatchError) Is(target error) bool { return causeIs(e.Cause, target) }

type PolicyLimitExceededError struct {
	Policy string
	Limit  int
	Cause  error
}

// NewPolicyLimitExceededErrorWithCause reports that policy would go past limit.
func NewPolicyLimitExceededErrorWithCause(policy string, limit int, cause error) *PolicyLimitExceededError {
	return &PolicyLimitExceededError{Policy: policy, Limit: limit, Cause: cause}
}

func (e *PolicyLimitExceededError) Error() string {
	return fmt.Sprintf("%s: %s, limit is %d", ErrPolicyLimitExceeded, e.Policy, e.Limit)
}

// Unwrap exposes ErrPolicyLimitExceeded.
func (e *PolicyLimitExceededError) Unwrap() error { return ErrPolicyLimitExceeded }

func (e *PolicyLimitExceededError) Is(target error) bool { return causeIs(e.Cause, target) }

// IntegrityFaultError signals data that should never have been produced. It is not retried.
type IntegrityFaultError struct {
	Detail string
	Cause  error
}

// NewIntegrityFaultError reports data that contradicts itself. It is never retried.
func NewIntegrityFaultError(detail string) *IntegrityFaultError {
	return &IntegrityFaultError{Detail: detail}
}

// NewIntegrityFaultErrorWithCause attaches a named failure such as ErrTotalsMismatch.
func NewIntegrityFaultErrorWithCause(detail string, cause error) *IntegrityFaultError {
	return &IntegrityFaultError{Detail: detail, Cause: cause}
}

func (e *IntegrityFaultError) Error() string {
	return fmt.Sprintf("%s: %s", ErrIntegrityFault, sanitize(e.Detail))
}

// Unwrap exposes ErrIntegrityFault.
func (e *IntegrityFaultError) Unwrap() error { return ErrIntegrityFault }

func (e *IntegrityFaultError) Is(target error) bool { return causeIs(e.Cause, target) }

type PrerequisiteNotMetError struct {
	Prerequisite string
	Detail       string
	Cause        error
}

// NewPrerequisiteNotMetError reports a missing prerequisite, e.g. a QC release before sealing.
func NewPrerequisiteNotMetError(prerequisite, detail string) *PrerequisiteNotMetError {
	return &PrerequisiteNotMetError{Prerequisite: prerequisite, Detail: detail}
}

// NewPrerequisiteNotMetErrorWithCause attaches a named failure such as ErrVoidRequiresClaim.
func NewPrerequisiteNotMetErrorWithCause(prerequisite, detail string, cause error) *PrerequisiteNotMetError {
	return &PrerequisiteNotMetError{Prerequisite: prerequisite, Detail: detail, Cause: cause}
}

func (e *PrerequisiteNotMetError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", ErrPrerequisiteNotMet, e.Prerequisite)
	}
	return fmt.Sprintf("%s: %s: %s", ErrPrerequisiteNotMet, e.Prerequisite, sanitize(e.Detail))
}

// Unwrap exposes ErrPrerequisiteNotMet.
func (e *PrerequisiteNotMetError) Unwrap() error { return ErrPrerequisiteNotMet }

func (e *PrerequisiteNotMetError) Is(target error) bool { return causeIs(e.Cause, target) }
