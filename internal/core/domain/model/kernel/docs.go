// Package kernel provides the value objects shared by every custody aggregate.
//
// The package includes:
//   - UUID: internal identifiers, wrapping github.com/google/uuid
//   - Code: human-facing identity codes (DT-, PKG-, DTL-<year>-<6 digits>)
//   - Weight: exact decimal weights in kilograms, wrapping github.com/shopspring/decimal
//   - Actor: the user id and role recorded on every trace event
//
// Values are immutable and their zero values are invalid where that matters,
// so a half-built aggregate cannot reach persistence.
package kernel
