// Package resolver maps any scanned or typed identifier to a canonical drop tag and its
// package, with a confidence score. It never writes.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"custody/internal/core/domain/model/droptag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/packaging"
	"custody/internal/core/ports"
	"custody/internal/pkg/errs"
)

// ErrInvalidIdentifier is the cause of the NotFound error returned when no tier matches.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// IdentifierType restricts which tiers are consulted.
type IdentifierType string

const (
	TypeAny        IdentifierType = "ANY"
	TypeDropTag    IdentifierType = "DROP_TAG"
	TypePackage    IdentifierType = "PACKAGE"
	TypeRFID       IdentifierType = IdentifierType(droptag.IdentifierRFID)
	TypeEtch       IdentifierType = IdentifierType(droptag.IdentifierEtch)
	TypeAltBarcode IdentifierType = IdentifierType(droptag.IdentifierAltBarcode)
)

// ParseIdentifierType maps a request value onto an IdentifierType. The empty string means ANY.
func ParseIdentifierType(s string) (IdentifierType, error) {
	t := IdentifierType(strings.ToUpper(strings.TrimSpace(s)))
	if t == "" {
		return TypeAny, nil
	}
	switch t {
	case TypeAny, TypeDropTag, TypePackage, TypeRFID, TypeEtch, TypeAltBarcode:
		return t, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("identifier type", fmt.Errorf("%q is not a valid identifier type", s))
	}
}

// Tier is the resolution path that matched.
type Tier int

const (
	TierNone Tier = iota
	TierDropTag
	TierIdentifier
	TierPackage
)

// String returns DROP_TAG, TAG_IDENTIFIER, PACKAGE or NONE.
func (t Tier) String() string {
	switch t {
	case TierDropTag:
		return "DROP_TAG"
	case TierIdentifier:
		return "TAG_IDENTIFIER"
	case TierPackage:
		return "PACKAGE"
	case TierNone:
		return "NONE"
	}
	return "NONE"
}

const (
	ExactConfidence    = 1.0
	FallbackConfidence = 0.9
)

// Resolution is the outcome of a successful lookup.
type Resolution struct {
	DropTag    *droptag.DropTag
	Package    *packaging.Package
	Confidence float64
	Tier       Tier
	Ambiguous  bool
	Warnings   []string
}

// Repositories is the read surface the resolver needs. A unit of work satisfies it.
type Repositories interface {
	PackageRepository() ports.PackageRepository
	DropTagRepository() ports.DropTagRepository
	TagIdentifierRepository() ports.TagIdentifierRepository
}

// Resolver walks the tiers highest confidence first:
//  1. drop tag code or id, confidence 1.0
//  2. registered tag identifier (RFID, etch, alternate barcode), confidence 1.0
//  3. package code or id, falling back to the package's first-issued active tag, confidence 0.9
type Resolver struct{}

// New returns a Resolver. It holds no state and is safe for concurrent use.
func New() Resolver {
	return Resolver{}
}

// Resolve maps value to a drop tag and its package. idType limits the tiers consulted.
// It never writes.
//
// Returns:
//   - Resolution: the tag, its package, confidence, tier, ambiguity and warnings
//   - error: ValueIsRequired for a blank value, or a NotFound error whose cause is
//     ErrInvalidIdentifier when no tier matches
//
// Example:
//
//	res, err := resolver.New().Resolve(ctx, uow, resolver.TypeAny, "PKG-2026-000777")
//	if errors.Is(err, resolver.ErrInvalidIdentifier) {
//	    return err
//	}
//	if res.Ambiguous {
//	    logger.Warn("ambiguous identifier", "warnings", res.Warnings)
//	}
func (r Resolver) Resolve(ctx context.Context, repos Repositories, idType IdentifierType, value string) (Resolution, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Resolution{}, errs.NewValueIsRequiredError("identifier value")
	}

	type tier struct {
		applies bool
		lookup  func() (Resolution, bool, error)
	}
	tiers := []tier{
		{idType == TypeAny || idType == TypeDropTag, func() (Resolution, bool, error) { return r.byDropTag(ctx, repos, value) }},
		{idType == TypeAny || isPhysical(idType), func() (Resolution, bool, error) { return r.byIdentifier(ctx, repos, idType, value) }},
		{idType == TypeAny || idType == TypePackage, func() (Resolution, bool, error) { return r.byPackage(ctx, repos, value) }},
	}

	for _, t := range tiers {
		if !t.applies {
			continue
		}
		res, found, err := t.lookup()
		if err != nil {
			return Resolution{}, err
		}
		if found {
			return res, nil
		}
	}

	return Resolution{}, errs.NewObjectNotFoundErrorWithCause("identifier", value, ErrInvalidIdentifier)
}

func (r Resolver) byDropTag(ctx context.Context, repos Repositories, value string) (Resolution, bool, error) {
	tags := repos.DropTagRepository()

	var tag *droptag.DropTag
	var err error
	if code, parseErr := kernel.ParseCode(kernel.DropTagCodeKind, value); parseErr == nil {
		tag, err = tags.FindByCode(ctx, code)
	} else if id, idErr := kernel.UUIDFromString(value); idErr == nil {
		tag, err = tags.Get(ctx, id)
	} else {
		return Resolution{}, false, nil
	}
	if errors.Is(err, errs.ErrObjectNotFound) {
		return Resolution{}, false, nil
	}
	if err != nil {
		return Resolution{}, false, err
	}

	return r.withPackage(ctx, repos, Resolution{DropTag: tag, Confidence: ExactConfidence, Tier: TierDropTag})
}

func (r Resolver) byIdentifier(ctx context.Context, repos Repositories, idType IdentifierType, value string) (Resolution, bool, error) {
	found, err := repos.TagIdentifierRepository().FindByValue(ctx, droptag.NormalizeIdentifierValue(value))
	if err != nil {
		return Resolution{}, false, err
	}

	var matches []*droptag.TagIdentifier
	tagIDs := make(map[kernel.UUID]bool)
	for _, ti := range found {
		if isPhysical(idType) && ti.Type() != droptag.IdentifierType(idType) {
			continue
		}
		matches = append(matches, ti)
		tagIDs[ti.DropTagID()] = true
	}
	if len(matches) == 0 {
		return Resolution{}, false, nil
	}

	tag, err := repos.DropTagRepository().Get(ctx, matches[0].DropTagID())
	if err != nil {
		return Resolution{}, false, err
	}

	res := Resolution{DropTag: tag, Confidence: ExactConfidence, Tier: TierIdentifier}
	if len(tagIDs) > 1 {
		res.Ambiguous = true
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("Identifier %s is registered to %d drop tags; resolved to %s", value, len(tagIDs), tag.Code()))
	}
	return r.withPackage(ctx, repos, res)
}

// byPackage is a best-effort fallback. The tag chosen is the active one issued first (code breaks
// ties); several active tags mark the result ambiguous.
func (r Resolver) byPackage(ctx context.Context, repos Repositories, value string) (Resolution, bool, error) {
	packages := repos.PackageRepository()

	var pkg *packaging.Package
	var err error
	if code, parseErr := kernel.ParseCode(kernel.PackageCodeKind, value); parseErr == nil {
		pkg, err = packages.FindByCode(ctx, code)
	} else if id, idErr := kernel.UUIDFromString(value); idErr == nil {
		pkg, err = packages.Get(ctx, id)
	} else {
		return Resolution{}, false, nil
	}
	if errors.Is(err, errs.ErrObjectNotFound) {
		return Resolution{}, false, nil
	}
	if err != nil {
		return Resolution{}, false, err
	}

	tags, err := repos.DropTagRepository().FindByPackage(ctx, pkg.ID(), false)
	if err != nil {
		return Resolution{}, false, err
	}
	var active []*droptag.DropTag
	for _, tag := range tags {
		if tag.IsActive() {
			active = append(active, tag)
		}
	}
	if len(active) == 0 {
		return Resolution{}, false, nil
	}

	first := slices.MinFunc(active, func(a, b *droptag.DropTag) int {
		if c := a.CreatedAt().Compare(b.CreatedAt()); c != 0 {
			return c
		}
		return strings.Compare(a.Code().String(), b.Code().String())
	})

	res := Resolution{DropTag: first, Package: pkg, Confidence: FallbackConfidence, Tier: TierPackage}
	if len(active) > 1 {
		res.Ambiguous = true
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("Package %s has %d active drop tags; resolved to %s", pkg.Code(), len(active), first.Code()))
	}
	return res, true, nil
}

func (r Resolver) withPackage(ctx context.Context, repos Repositories, res Resolution) (Resolution, bool, error) {
	pkg, err := repos.PackageRepository().Get(ctx, res.DropTag.PackageID())
	if err != nil {
		return Resolution{}, false, err
	}
	res.Package = pkg
	return res, true, nil
}

func isPhysical(t IdentifierType) bool {
	return t == TypeRFID || t == TypeEtch || t == TypeAltBarcode
}
