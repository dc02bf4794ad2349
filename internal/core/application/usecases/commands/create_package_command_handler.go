package commands

import (
	"context"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/packaging"
	"custody/internal/core/domain/model/trace"
	"custody/internal/core/ports"
)

// CreatePackageCommandHandler opens packages. The PKG code is drawn here; a collision with an
// existing code surfaces as errs.ErrAlreadyExists and is not retried.
type CreatePackageCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewCreatePackageCommandHandler creates a CreatePackageCommandHandler with its dependencies.
func NewCreatePackageCommandHandler(uowFactory UoWFactory, clock ports.Clock) CreatePackageCommandHandler {
	return CreatePackageCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle stores an OPEN package and returns its PKG code.
func (h CreatePackageCommandHandler) Handle(ctx context.Context, cmd CreatePackageCommand) (kernel.Code, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.Code{}, err
	}

	now := h.clock.Now()
	code, err := kernel.NewCode(kernel.PackageCodeKind, now.Year())
	if err != nil {
		return kernel.Code{}, err
	}
	pkg, err := packaging.NewPackage(cmd.PackageID(), code, cmd.OrderRef(), cmd.Location(), now)
	if err != nil {
		return kernel.Code{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.Code{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.PackageRepository().Add(ctx, pkg); err != nil {
		return kernel.Code{}, err
	}

	fields := packageEvent(pkg, trace.PackageCreated, cmd.Actor(), "", now)
	fields.Metadata["orderRef"] = pkg.OrderRef()
	if _, err = appendEvent(ctx, uow.TraceEventRepository(), fields, nil); err != nil {
		return kernel.Code{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.Code{}, err
	}
	return code, nil
}
