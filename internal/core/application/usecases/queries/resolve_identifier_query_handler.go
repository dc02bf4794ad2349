package queries

import (
	"context"

	"custody/internal/core/application/resolver"
)

// ResolveIdentifierQueryHandler answers identifier lookups for the HTTP API.
type ResolveIdentifierQueryHandler struct {
	repos    RepositoriesFactory
	resolver resolver.Resolver
}

// NewResolveIdentifierQueryHandler creates a handler reading through repos.
func NewResolveIdentifierQueryHandler(repos RepositoriesFactory) ResolveIdentifierQueryHandler {
	return ResolveIdentifierQueryHandler{repos: repos, resolver: resolver.New()}
}

// Handle resolves the value without writing. A value that matches nothing fails with
// errs.ErrObjectNotFound wrapping resolver.ErrInvalidIdentifier.
func (h ResolveIdentifierQueryHandler) Handle(ctx context.Context, query ResolveIdentifierQuery) (ResolveIdentifierQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ResolveIdentifierQueryResponse{}, err
	}

	res, err := h.resolver.Resolve(ctx, h.repos.Create(), query.IdentifierType(), query.Value())
	if err != nil {
		return ResolveIdentifierQueryResponse{}, err
	}

	tag, pkg := res.DropTag, res.Package
	return ResolveIdentifierQueryResponse{
		DropTagID:     tag.ID(),
		DropTagCode:   tag.Code().String(),
		DropTagStatus: tag.Status().String(),
		PackageID:     pkg.ID(),
		PackageCode:   pkg.Code().String(),
		PackageStatus: pkg.Status().String(),
		ListingID:     tag.ListingID(),
		RouteStop:     tag.RouteStop(),
		Confidence:    res.Confidence,
		ResolvedBy:    res.Tier.String(),
		Ambiguous:     res.Ambiguous,
		Warnings:      res.Warnings,
	}, nil
}
