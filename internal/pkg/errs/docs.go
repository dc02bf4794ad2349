// Package errs provides standardized error types for the custody engine.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package covers the custody error taxonomy:
//   - ObjectNotFoundError: unknown tag, package, listing or identifier
//   - InvalidStateError: operation attempted outside its required prior status
//   - ValidationFailedError: business-rule violations, all reasons returned together
//   - IdentityMismatchError: scanned package/tag/shipment does not match its counterpart
//   - PolicyLimitExceededError: reprint cap and similar workflow limits
//   - IntegrityFaultError: data that must never exist, e.g. stale listing totals
//   - PrerequisiteNotMetError: missing claim, missing QC release and similar gates
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: input checks
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrInvalidState)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Unwrap() returning the sentinel, Is() matching the cause
//
// Domain packages keep their own named sentinels (droptag.ErrReprintLimitExceeded,
// listing.ErrTotalsMismatch, ...) and pass them as the cause, so callers can test
// either the taxonomy or the specific failure with errors.Is. KindOf maps any error
// onto the taxonomy for boundaries such as the HTTP adapter and the scan result.
package errs
