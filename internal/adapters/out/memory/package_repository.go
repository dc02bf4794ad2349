package memory

import (
	"context"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/packaging"
	"custody/internal/core/ports"
	"custody/internal/pkg/errs"
)

type packageRepository struct {
	uow *UnitOfWork
}

// Add saves a new package.
func (r *packageRepository) Add(ctx context.Context, aggregate *packaging.Package) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.uow.with(ctx, func(d *data) error {
		if _, ok := d.packages[aggregate.ID()]; ok {
			return errs.NewAlreadyExistsErrorWithCause("package", aggregate.ID(), ports.ErrDuplicateKey)
		}
		for _, s := range d.packages {
			if s.Code.IsEqual(aggregate.Code()) {
				return errs.NewAlreadyExistsErrorWithCause("package code", aggregate.Code(), ports.ErrDuplicateKey)
			}
		}
		d.packages[aggregate.ID()] = aggregate.State()
		aggregate.MarkPersisted()
		return nil
	})
}

// Update saves a changed package.
// Fails with ports.ErrConcurrentUpdate when the stored status moved since it was read.
func (r *packageRepository) Update(ctx context.Context, aggregate *packaging.Package) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.uow.with(ctx, func(d *data) error {
		stored, ok := d.packages[aggregate.ID()]
		if !ok {
			return errs.NewObjectNotFoundError("package", aggregate.ID())
		}
		if stored.Status != aggregate.PersistedStatus() {
			return errs.NewInvalidStateErrorWithCause("package", stored.Status.String(), "update", ports.ErrConcurrentUpdate)
		}
		d.packages[aggregate.ID()] = aggregate.State()
		aggregate.MarkPersisted()
		return nil
	})
}

// Get retrieves a package by ID.
func (r *packageRepository) Get(ctx context.Context, id kernel.UUID) (*packaging.Package, error) {
	var out *packaging.Package
	err := r.uow.with(ctx, func(d *data) error {
		s, ok := d.packages[id]
		if !ok {
			return errs.NewObjectNotFoundError("package", id)
		}
		var err error
		out, err = packaging.RestorePackage(s)
		return err
	})
	return out, err
}

// GetForUpdate is Get: the unit of work already holds the store lock.
func (r *packageRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*packaging.Package, error) {
	return r.Get(ctx, id)
}

// FindByCode retrieves a package by its human-readable code.
func (r *packageRepository) FindByCode(ctx context.Context, code kernel.Code) (*packaging.Package, error) {
	var out *packaging.Package
	err := r.uow.with(ctx, func(d *data) error {
		for _, s := range d.packages {
			if s.Code.IsEqual(code) {
				var err error
				out, err = packaging.RestorePackage(s)
				return err
			}
		}
		return errs.NewObjectNotFoundError("package code", code)
	})
	return out, err
}
