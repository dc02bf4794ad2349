package commands

import (
	"context"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/trace"
	"custody/internal/core/domain/services"
	"custody/internal/core/ports"
)

// GenerateDropTagResult identifies the issued tag. Warnings never block issuing.
type GenerateDropTagResult struct {
	DropTagID kernel.UUID
	Code      kernel.Code
	Warnings  []string
}

type GenerateDropTagCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

// NewGenerateDropTagCommandHandler creates a GenerateDropTagCommandHandler with its dependencies.
func NewGenerateDropTagCommandHandler(uowFactory UoWFactory, clock ports.Clock) GenerateDropTagCommandHandler {
	return GenerateDropTagCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle issues the tag and returns its code with the material summary.
func (h GenerateDropTagCommandHandler) Handle(ctx context.Context, cmd GenerateDropTagCommand) (GenerateDropTagResult, error) {
	if err := cmd.Validate(); err != nil {
		return GenerateDropTagResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return GenerateDropTagResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	pkg, err := uow.PackageRepository().GetForUpdate(ctx, cmd.PackageID())
	if err != nil {
		return GenerateDropTagResult{}, err
	}
	existing, err := uow.DropTagRepository().FindByPackage(ctx, pkg.ID(), false)
	if err != nil {
		return GenerateDropTagResult{}, err
	}

	now := h.clock.Now()
	code, err := kernel.NewCode(kernel.DropTagCodeKind, now.Year())
	if err != nil {
		return GenerateDropTagResult{}, err
	}
	tag, warnings, err := services.NewTagIssuer().Issue(pkg, existing, cmd.DropTagID(), code, now)
	if err != nil {
		return GenerateDropTagResult{}, err
	}
	if err = uow.DropTagRepository().Add(ctx, tag); err != nil {
		return GenerateDropTagResult{}, err
	}

	fields := tagEvent(tag, trace.DropTagGenerated, cmd.Actor(), "", now)
	fields.LocationID = optional(pkg.Location())
	fields.Metadata["packageCode"] = pkg.Code().String()
	fields.Metadata["grade"] = tag.Grade()
	fields.Metadata["form"] = tag.Form()
	if heat := tag.HeatNumber(); heat != nil {
		fields.Metadata["heatNumber"] = *heat
	}
	fields.Metadata["pieces"] = tag.Pieces()
	fields.Metadata["weight"] = tag.Weight().String()
	if len(warnings) > 0 {
		fields.Metadata["warnings"] = warnings
	}
	if _, err = appendEvent(ctx, uow.TraceEventRepository(), fields, nil); err != nil {
		return GenerateDropTagResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return GenerateDropTagResult{}, err
	}
	return GenerateDropTagResult{DropTagID: tag.ID(), Code: code, Warnings: warnings}, nil
}
