package memory

import (
	"context"
	"slices"
	"strings"

	"custody/internal/core/domain/model/droptag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/ports"
	"custody/internal/pkg/errs"
)

type dropTagRepository struct {
	uow *UnitOfWork
}

// Add saves a new drop tag.
func (r *dropTagRepository) Add(ctx context.Context, aggregate *droptag.DropTag) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.uow.with(ctx, func(d *data) error {
		if _, ok := d.tags[aggregate.ID()]; ok {
			return errs.NewAlreadyExistsErrorWithCause("drop tag", aggregate.ID(), ports.ErrDuplicateKey)
		}
		for _, s := range d.tags {
			if s.Code.IsEqual(aggregate.Code()) {
				return errs.NewAlreadyExistsErrorWithCause("drop tag code", aggregate.Code(), ports.ErrDuplicateKey)
			}
		}
		d.tags[aggregate.ID()] = aggregate.State()
		aggregate.MarkPersisted()
		return nil
	})
}

// Update saves a changed drop tag.
// Fails with ports.ErrConcurrentUpdate when the stored status moved since it was read.
func (r *dropTagRepository) Update(ctx context.Context, aggregate *droptag.DropTag) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.uow.with(ctx, func(d *data) error {
		stored, ok := d.tags[aggregate.ID()]
		if !ok {
			return errs.NewObjectNotFoundError("drop tag", aggregate.ID())
		}
		if stored.Status != aggregate.PersistedStatus() {
			return errs.NewInvalidStateErrorWithCause("drop tag", stored.Status.String(), "update", ports.ErrConcurrentUpdate)
		}
		d.tags[aggregate.ID()] = aggregate.State()
		aggregate.MarkPersisted()
		return nil
	})
}

// Get retrieves a drop tag by ID.
func (r *dropTagRepository) Get(ctx context.Context, id kernel.UUID) (*droptag.DropTag, error) {
	var out *droptag.DropTag
	err := r.uow.with(ctx, func(d *data) error {
		s, ok := d.tags[id]
		if !ok {
			return errs.NewObjectNotFoundError("drop tag", id)
		}
		var err error
		out, err = droptag.RestoreDropTag(s)
		return err
	})
	return out, err
}

// GetForUpdate retrieves a drop tag by ID and locks it until the transaction ends.
func (r *dropTagRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*droptag.DropTag, error) {
	return r.Get(ctx, id)
}

// FindByCode retrieves a drop tag by its human-readable code.
func (r *dropTagRepository) FindByCode(ctx context.Context, code kernel.Code) (*droptag.DropTag, error) {
	var out *droptag.DropTag
	err := r.uow.with(ctx, func(d *data) error {
		for _, s := range d.tags {
			if s.Code.IsEqual(code) {
				var err error
				out, err = droptag.RestoreDropTag(s)
				return err
			}
		}
		return errs.NewObjectNotFoundError("drop tag code", code)
	})
	return out, err
}

// FindByPackage returns the tags of a package, active and void.
func (r *dropTagRepository) FindByPackage(ctx context.Context, packageID kernel.UUID, _ bool) ([]*droptag.DropTag, error) {
	return r.findWhere(ctx, func(s droptag.State) bool {
		return s.PackageID.IsEqual(packageID)
	})
}

// FindByListing returns the tags assigned to a listing.
func (r *dropTagRepository) FindByListing(ctx context.Context, listingID kernel.UUID, _ bool) ([]*droptag.DropTag, error) {
	return r.findWhere(ctx, func(s droptag.State) bool {
		return s.ListingID != nil && s.ListingID.IsEqual(listingID)
	})
}

// GetManyForUpdate retrieves the tags in ids order. A missing id fails the call.
func (r *dropTagRepository) GetManyForUpdate(ctx context.Context, ids []kernel.UUID) ([]*droptag.DropTag, error) {
	out := make([]*droptag.DropTag, 0, len(ids))
	err := r.uow.with(ctx, func(d *data) error {
		for _, id := range ids {
			s, ok := d.tags[id]
			if !ok {
				return errs.NewObjectNotFoundError("drop tag", id)
			}
			tag, err := droptag.RestoreDropTag(s)
			if err != nil {
				return err
			}
			out = append(out, tag)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *dropTagRepository) findWhere(ctx context.Context, match func(droptag.State) bool) ([]*droptag.DropTag, error) {
	var states []droptag.State
	err := r.uow.with(ctx, func(d *data) error {
		for _, s := range d.tags {
			if match(s) {
				states = append(states, s)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(states, func(a, b droptag.State) int {
		return strings.Compare(a.Code.String(), b.Code.String())
	})

	out := make([]*droptag.DropTag, 0, len(states))
	for _, s := range states {
		tag, err := droptag.RestoreDropTag(s)
		if err != nil {
			return nil, err
		}
		out = append(out, tag)
	}
	return out, nil
}

type tagIdentifierRepository struct {
	uow *UnitOfWork
}

// Add saves an identifier. A (type, value) pair already bound fails with errs.ErrAlreadyExists.
func (r *tagIdentifierRepository) Add(ctx context.Context, identifier *droptag.TagIdentifier) error {
	if err := identifier.Validate(); err != nil {
		return err
	}
	return r.uow.with(ctx, func(d *data) error {
		for _, rec := range d.identifiers {
			if rec.kind == identifier.Type() && rec.value == identifier.Value() {
				return errs.NewAlreadyExistsErrorWithCause(string(identifier.Type()), identifier.Value(), ports.ErrDuplicateKey)
			}
		}
		if _, ok := d.tags[identifier.DropTagID()]; !ok {
			return errs.NewObjectNotFoundError("drop tag", identifier.DropTagID())
		}
		d.identifiers = append(d.identifiers, identifierRecord{
			id:        identifier.ID(),
			dropTagID: identifier.DropTagID(),
			kind:      identifier.Type(),
			value:     identifier.Value(),
			createdAt: identifier.CreatedAt(),
		})
		return nil
	})
}

// FindByValue returns every identifier bound to value, whatever its type.
func (r *tagIdentifierRepository) FindByValue(ctx context.Context, value string) ([]*droptag.TagIdentifier, error) {
	var out []*droptag.TagIdentifier
	err := r.uow.with(ctx, func(d *data) error {
		for _, rec := range d.identifiers {
			if rec.value != value {
				continue
			}
			ti, err := droptag.NewTagIdentifier(rec.id, rec.dropTagID, rec.kind, rec.value, rec.createdAt)
			if err != nil {
				return err
			}
			out = append(out, ti)
		}
		return nil
	})
	return out, err
}
