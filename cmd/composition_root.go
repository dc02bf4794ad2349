package cmd

import (
	"log/slog"

	httpin "custody/internal/adapters/in/http"
	"custody/internal/core/application/usecases/commands"
	"custody/internal/core/application/usecases/queries"
	"custody/internal/core/ports"
)

// CompositionRoot builds every handler over one storage backend.
type CompositionRoot struct {
	cfg        Config
	uowFactory ports.UnitOfWorkFactory
	clock      ports.Clock
	logger     *slog.Logger
}

func NewCompositionRoot(cfg Config, uowFactory ports.UnitOfWorkFactory, clock ports.Clock, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		cfg:        cfg,
		uowFactory: uowFactory,
		clock:      clock,
		logger:     logger,
	}
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) repositories() queries.RepositoriesFactory {
	return FuncRepositoriesFactory(func() queries.Repositories {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateHTTPHandlers() httpin.Handlers {
	uow, clock := c.uow(), c.clock
	return httpin.Handlers{
		CreatePackage:      commands.NewCreatePackageCommandHandler(uow, clock),
		AddPackageItem:     commands.NewAddPackageItemCommandHandler(uow, clock),
		SubmitPackageForQC: commands.NewSubmitPackageForQCCommandHandler(uow, clock),
		RecordQCDecision:   commands.NewRecordQCDecisionCommandHandler(uow, clock),
		SealPackage:        commands.NewSealPackageCommandHandler(uow, clock),

		GenerateDropTag:       commands.NewGenerateDropTagCommandHandler(uow, clock),
		ReadyDropTagToPrint:   commands.NewReadyDropTagToPrintCommandHandler(uow, clock),
		PrintDropTag:          commands.NewPrintDropTagCommandHandler(uow, clock),
		ReprintDropTag:        commands.NewReprintDropTagCommandHandler(uow, clock),
		ApplyDropTag:          commands.NewApplyDropTagCommandHandler(uow, clock),
		VoidDropTag:           commands.NewVoidDropTagCommandHandler(uow, clock),
		RegisterTagIdentifier: commands.NewRegisterTagIdentifierCommandHandler(uow, clock),

		CreateListing:           commands.NewCreateListingCommandHandler(uow, clock),
		AddListingTags:          commands.NewAddListingTagsCommandHandler(uow, clock),
		RemoveListingTags:       commands.NewRemoveListingTagsCommandHandler(uow, clock),
		SetListingStops:         commands.NewSetListingStopsCommandHandler(uow, clock),
		FinalizeListing:         commands.NewFinalizeListingCommandHandler(uow, clock),
		PrintListing:            commands.NewPrintListingCommandHandler(uow, clock),
		ConfirmListingLoaded:    commands.NewConfirmListingLoadedCommandHandler(uow, clock),
		LockAndDepartListing:    commands.NewLockAndDepartListingCommandHandler(uow, clock),
		ConfirmListingDelivered: commands.NewConfirmListingDeliveredCommandHandler(uow, clock),
		CloseListing:            commands.NewCloseListingCommandHandler(uow, clock),

		ProcessScan: commands.NewProcessScanCommandHandler(uow, clock),

		ResolveIdentifier: queries.NewResolveIdentifierQueryHandler(c.repositories()),
		GetTraceHistory:   queries.NewGetTraceHistoryQueryHandler(c.repositories()),
	}
}

func (c *CompositionRoot) CreateRelayTraceEventsCommandHandler(publisher ports.TraceEventPublisher) commands.RelayTraceEventsCommandHandler {
	var f commands.OutboxUoWFactory = FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRelayTraceEventsCommandHandler(f, publisher, c.clock)
}

func (c *CompositionRoot) CreateArchiveClosedListingsCommandHandler(archiver ports.CustodyArchiver) commands.ArchiveClosedListingsCommandHandler {
	var f commands.ArchiveUoWFactory = FuncArchiveUoWFactory(func() commands.ArchiveUoW {
		return c.uowFactory.Create()
	})
	return commands.NewArchiveClosedListingsCommandHandler(f, archiver, c.clock)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(c.CreateHTTPHandlers())
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncOutboxUoWFactory func() commands.OutboxUoW

func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}

type FuncArchiveUoWFactory func() commands.ArchiveUoW

func (f FuncArchiveUoWFactory) Create() commands.ArchiveUoW {
	return f()
}

type FuncRepositoriesFactory func() queries.Repositories

func (f FuncRepositoriesFactory) Create() queries.Repositories {
	return f()
}
