package kernel

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

// CodeKind selects the prefix of an identity code.
type CodeKind int

const (
	UnknownCodeKind CodeKind = iota
	PackageCodeKind
	DropTagCodeKind
	ListingCodeKind
)

const codeSerialDigits = 6

var codePrefixes = map[CodeKind]string{
	PackageCodeKind: "PKG",
	DropTagCodeKind: "DT",
	ListingCodeKind: "DTL",
}

// Prefix returns PKG, DT or DTL, and "" for UnknownCodeKind.
func (k CodeKind) Prefix() string {
	return codePrefixes[k]
}

// ErrCodeIsNotConstructed is returned for zero-value codes.
var ErrCodeIsNotConstructed = errs.NewValueIsRequiredError("code must be created via NewCode or ParseCode")

// Code is a printed identity code such as DT-2026-004211.
// Uniqueness is enforced by the persistence layer.
type Code struct { //nolint:recvcheck //using for validation
	kind  CodeKind
	value string
	guard guard.ConstructorGuard
}

// NewCode draws a random six digit serial for the given year.
func NewCode(kind CodeKind, year int) (Code, error) {
	serial := rand.IntN(1_000_000) //nolint:gosec // identity codes are not secrets
	return ParseCode(kind, fmt.Sprintf("%s-%04d-%0*d", kind.Prefix(), year, codeSerialDigits, serial))
}

// ParseCode validates s against the <prefix>-<year>-<6 digits> format. Case and surrounding
// whitespace are normalized because scanners and operators are inconsistent about both.
func ParseCode(kind CodeKind, s string) (Code, error) {
	prefix := kind.Prefix()
	if prefix == "" {
		return Code{}, errs.NewValueIsInvalidErrorWithCause("code kind", fmt.Errorf("%d is not a valid code kind", kind))
	}

	normalized := strings.ToUpper(strings.TrimSpace(s))
	parts := strings.Split(normalized, "-")
	if len(parts) != 3 || parts[0] != prefix {
		return Code{}, errs.NewValueIsInvalidErrorWithCause("code", fmt.Errorf("%q is not a %s code", s, prefix))
	}
	if len(parts[1]) != 4 || !isDigits(parts[1]) {
		return Code{}, errs.NewValueIsInvalidErrorWithCause("code", fmt.Errorf("%q has an invalid year", s))
	}
	if len(parts[2]) != codeSerialDigits || !isDigits(parts[2]) {
		return Code{}, errs.NewValueIsInvalidErrorWithCause("code", fmt.Errorf("%q has an invalid serial", s))
	}

	return Code{kind: kind, value: normalized, guard: guard.NewConstructorGuard()}, nil
}

// DetectCodeKind reports which kind of code s looks like, without validating it fully.
func DetectCodeKind(s string) CodeKind {
	prefix, _, found := strings.Cut(strings.ToUpper(strings.TrimSpace(s)), "-")
	if !found {
		return UnknownCodeKind
	}
	for kind, p := range codePrefixes {
		if p == prefix {
			return kind
		}
	}
	return UnknownCodeKind
}

// Kind returns which entity the code identifies.
func (c Code) Kind() CodeKind {
	return c.kind
}

// String returns the normalized upper-case code.
func (c Code) String() string {
	return c.value
}

// Year returns the year segment of the code.
func (c Code) Year() int {
	parts := strings.Split(c.value, "-")
	if len(parts) != 3 {
		return 0
	}
	year, _ := strconv.Atoi(parts[1])
	return year
}

// IsEqual compares kind and value.
func (c Code) IsEqual(other Code) bool {
	return c.kind == other.kind && c.value == other.value
}

// Validate returns ErrCodeIsNotConstructed for zero-value codes.
func (c Code) Validate() error {
	return c.guard.Validate(ErrCodeIsNotConstructed)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
