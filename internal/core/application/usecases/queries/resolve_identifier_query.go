package queries

import (
	"errors"
	"strings"

	"custody/internal/core/application/resolver"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

var ErrResolveIdentifierQueryIsNotConstructed = errors.New(
	"ResolveIdentifierQuery must be created via NewResolveIdentifierQuery constructor",
)

// ResolveIdentifierQuery looks up what a scanned or typed value refers to, without scanning it.
//
// Example:
//
//	query, err := NewResolveIdentifierQuery("PKG-2026-004211", resolver.TypeAny)
//	res, err := handler.Handle(ctx, query)
//	if res.Ambiguous {
//	    // ask the operator to scan the tag itself
//	}
type ResolveIdentifierQuery struct {
	value  string
	idType resolver.IdentifierType

	guard guard.ConstructorGuard
}

// NewResolveIdentifierQuery creates a lookup query for value.
// An empty type hint defaults to resolver.TypeAny; an unknown one is rejected.
func NewResolveIdentifierQuery(value string, idType resolver.IdentifierType) (ResolveIdentifierQuery, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return ResolveIdentifierQuery{}, errs.NewValueIsRequiredError("identifier value")
	}
	if idType == "" {
		idType = resolver.TypeAny
	}
	if _, err := resolver.ParseIdentifierType(string(idType)); err != nil {
		return ResolveIdentifierQuery{}, err
	}
	return ResolveIdentifierQuery{value: value, idType: idType, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q ResolveIdentifierQuery) Validate() error {
	return q.guard.Validate(ErrResolveIdentifierQueryIsNotConstructed)
}

// Value returns the trimmed identifier.
func (q ResolveIdentifierQuery) Value() string {
	return q.value
}

// IdentifierType returns the type hint.
func (q ResolveIdentifierQuery) IdentifierType() resolver.IdentifierType {
	return q.idType
}

// ResolveIdentifierQueryResponse is the read model of a resolution.
type ResolveIdentifierQueryResponse struct {
	DropTagID     kernel.UUID
	DropTagCode   string
	DropTagStatus string
	PackageID     kernel.UUID
	PackageCode   string
	PackageStatus string
	ListingID     *kernel.UUID
	RouteStop     *int
	Confidence    float64
	ResolvedBy    string
	Ambiguous     bool
	Warnings      []string
}
