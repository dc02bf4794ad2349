package memory

import (
	"context"
	"slices"
	"strings"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/listing"
	"custody/internal/core/ports"
	"custody/internal/pkg/errs"
)

type listingRepository struct {
	uow *UnitOfWork
}

// Add saves a new listing.
func (r *listingRepository) Add(ctx context.Context, aggregate *listing.Listing) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.uow.with(ctx, func(d *data) error {
		if _, ok := d.listings[aggregate.ID()]; ok {
			return errs.NewAlreadyExistsErrorWithCause("listing", aggregate.ID(), ports.ErrDuplicateKey)
		}
		for _, s := range d.listings {
			if s.Code.IsEqual(aggregate.Code()) {
				return errs.NewAlreadyExistsErrorWithCause("listing code", aggregate.Code(), ports.ErrDuplicateKey)
			}
		}
		d.listings[aggregate.ID()] = aggregate.State()
		aggregate.MarkPersisted()
		return nil
	})
}

// Update saves a changed listing.
// Fails with ports.ErrConcurrentUpdate when the stored status moved since it was read.
func (r *listingRepository) Update(ctx context.Context, aggregate *listing.Listing) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.uow.with(ctx, func(d *data) error {
		stored, ok := d.listings[aggregate.ID()]
		if !ok {
			return errs.NewObjectNotFoundError("listing", aggregate.ID())
		}
		if stored.Status != aggregate.PersistedStatus() {
			return errs.NewInvalidStateErrorWithCause("listing", stored.Status.String(), "update", ports.ErrConcurrentUpdate)
		}
		d.listings[aggregate.ID()] = aggregate.State()
		aggregate.MarkPersisted()
		return nil
	})
}

// Get retrieves a listing by ID.
func (r *listingRepository) Get(ctx context.Context, id kernel.UUID) (*listing.Listing, error) {
	var out *listing.Listing
	err := r.uow.with(ctx, func(d *data) error {
		s, ok := d.listings[id]
		if !ok {
			return errs.NewObjectNotFoundError("listing", id)
		}
		var err error
		out, err = listing.RestoreListing(s)
		return err
	})
	return out, err
}

// GetForUpdate retrieves a listing by ID and locks it until the transaction ends.
func (r *listingRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*listing.Listing, error) {
	return r.Get(ctx, id)
}

// FindByCode retrieves a listing by its human-readable code.
func (r *listingRepository) FindByCode(ctx context.Context, code kernel.Code) (*listing.Listing, error) {
	var out *listing.Listing
	err := r.uow.with(ctx, func(d *data) error {
		for _, s := range d.listings {
			if s.Code.IsEqual(code) {
				var err error
				out, err = listing.RestoreListing(s)
				return err
			}
		}
		return errs.NewObjectNotFoundError("listing code", code)
	})
	return out, err
}

// FindClosedUnarchived returns up to limit CLOSED listings without an archive record, in code order.
func (r *listingRepository) FindClosedUnarchived(ctx context.Context, limit int) ([]*listing.Listing, error) {
	var states []listing.State
	err := r.uow.with(ctx, func(d *data) error {
		for id, s := range d.listings {
			if _, archived := d.archives[id]; s.Status == listing.StatusClosed && !archived {
				states = append(states, s)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(states, func(a, b listing.State) int {
		return strings.Compare(a.Code.String(), b.Code.String())
	})
	if limit > 0 && len(states) > limit {
		states = states[:limit]
	}

	out := make([]*listing.Listing, 0, len(states))
	for _, s := range states {
		l, err := listing.RestoreListing(s)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

type archiveRepository struct {
	uow *UnitOfWork
}

// Add records an archived listing. A second record for the same listing fails with errs.ErrAlreadyExists.
func (r *archiveRepository) Add(ctx context.Context, archive ports.CustodyArchive) error {
	return r.uow.with(ctx, func(d *data) error {
		if _, ok := d.archives[archive.ListingID]; ok {
			return errs.NewAlreadyExistsErrorWithCause("custody archive", archive.ListingID, ports.ErrDuplicateKey)
		}
		d.archives[archive.ListingID] = archive
		return nil
	})
}
