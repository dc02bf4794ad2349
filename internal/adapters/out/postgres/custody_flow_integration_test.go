package postgres_test

import (
	"context"
	"sync"
	"time"

	"custody/internal/core/application/resolver"
	"custody/internal/core/application/usecases/commands"
	"custody/internal/core/domain/model/droptag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/listing"
	"custody/internal/core/domain/model/packaging"
	"custody/internal/core/domain/model/station"
	"custody/internal/core/domain/model/trace"
	"custody/internal/core/ports"
)

type steppingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type commandFactory struct{ inner ports.UnitOfWorkFactory }

func (f commandFactory) Create() commands.UoW { return f.inner.Create() }

type archiveFactory struct{ inner ports.UnitOfWorkFactory }

func (f archiveFactory) Create() commands.ArchiveUoW { return f.inner.Create() }

type capturingArchiver struct {
	keys []string
	docs []any
}

func (a *capturingArchiver) Archive(_ context.Context, key string, document any) (string, error) {
	a.keys = append(a.keys, key)
	a.docs = append(a.docs, document)
	return "s3://custody-test/" + key, nil
}

// TestCustodyFlow drives one package from packing to a closed, archived listing through the
// command handlers.
func (suite *UnitOfWorkIntegrationTestSuite) TestCustodyFlow() {
	ctx := context.Background()
	uows := commandFactory{inner: suite.factory}
	clock := &steppingClock{now: suite.now}
	actor, err := kernel.NewActor("op-88", kernel.RoleOperator)
	suite.Require().NoError(err)

	pkgID := kernel.NewUUID()
	create, err := commands.NewCreatePackageCommand(pkgID, "SO-4410", "PACK-02", actor)
	suite.Require().NoError(err)
	_, err = commands.NewCreatePackageCommandHandler(uows, clock).Handle(ctx, create)
	suite.Require().NoError(err)

	add, err := commands.NewAddPackageItemCommand(pkgID, commands.ItemInput{
		ItemID: kernel.NewUUID(), Grade: "A36", Form: "PLATE", HeatNumber: "P-119", Pieces: 14, Weight: kernel.MustWeight("640.25"),
	}, actor)
	suite.Require().NoError(err)
	suite.Require().NoError(commands.NewAddPackageItemCommandHandler(uows, clock).Handle(ctx, add))

	submit, err := commands.NewSubmitPackageForQCCommand(pkgID, actor)
	suite.Require().NoError(err)
	suite.Require().NoError(commands.NewSubmitPackageForQCCommandHandler(uows, clock).Handle(ctx, submit))
	decide, err := commands.NewRecordQCDecisionCommand(pkgID, packaging.DecisionRelease, "flatness ok", actor)
	suite.Require().NoError(err)
	suite.Require().NoError(commands.NewRecordQCDecisionCommandHandler(uows, clock).Handle(ctx, decide))

	gen, err := commands.NewGenerateDropTagCommand(pkgID, kernel.NewUUID(), actor)
	suite.Require().NoError(err)
	tag, err := commands.NewGenerateDropTagCommandHandler(uows, clock).Handle(ctx, gen)
	suite.Require().NoError(err)
	ready, err := commands.NewReadyDropTagToPrintCommand(tag.DropTagID, actor)
	suite.Require().NoError(err)
	suite.Require().NoError(commands.NewReadyDropTagToPrintCommandHandler(uows, clock).Handle(ctx, ready))

	scan := func(kind station.Kind, sc commands.ScanContext) commands.ScanResult {
		cmd, cmdErr := commands.NewProcessScanCommand(tag.Code.String(), resolver.TypeAny, kind, sc, actor)
		suite.Require().NoError(cmdErr)
		res, handleErr := commands.NewProcessScanCommandHandler(uows, clock).Handle(ctx, cmd)
		suite.Require().NoError(handleErr)
		suite.Require().True(res.Success, "%s: %v", kind, res.Errors)
		return res
	}
	scan(station.Print, commands.ScanContext{StationID: "PRN-2"})
	scan(station.Apply, commands.ScanContext{StationID: "APL-2"})
	sealed := scan(station.Seal, commands.ScanContext{StationID: "SEAL-2", SealID: "S-7781"})
	suite.Len(sealed.Cascade, 1, "single tag seals its package")

	listingID := kernel.NewUUID()
	createListing, err := commands.NewCreateListingCommand(listingID, "SHP-5120", "DOCK-3", actor)
	suite.Require().NoError(err)
	_, err = commands.NewCreateListingCommandHandler(uows, clock).Handle(ctx, createListing)
	suite.Require().NoError(err)
	addTags, err := commands.NewAddListingTagsCommand(listingID, []kernel.UUID{tag.DropTagID}, actor)
	suite.Require().NoError(err)
	suite.Require().NoError(commands.NewAddListingTagsCommandHandler(uows, clock).Handle(ctx, addTags))

	// stops are set twice so the second write has to replace the first set of rows
	for _, location := range []string{"CUST-X", "CUST-Y"} {
		stops, stopsErr := commands.NewSetListingStopsCommand(listingID, []listing.Stop{
			{Number: 1, LocationID: location, TagIDs: []kernel.UUID{tag.DropTagID}},
		}, actor)
		suite.Require().NoError(stopsErr)
		suite.Require().NoError(commands.NewSetListingStopsCommandHandler(uows, clock).Handle(ctx, stops))
	}

	finalize, err := commands.NewFinalizeListingCommand(listingID, actor)
	suite.Require().NoError(err)
	suite.Require().NoError(commands.NewFinalizeListingCommandHandler(uows, clock).Handle(ctx, finalize))
	printCmd, err := commands.NewPrintListingCommand(listingID, listing.Documents{ManifestID: "MAN-77", COCID: "COC-77", MTRID: "MTR-77"}, actor)
	suite.Require().NoError(err)
	suite.Require().NoError(commands.NewPrintListingCommandHandler(uows, clock).Handle(ctx, printCmd))

	stop := 1
	scan(station.Load, commands.ScanContext{StationID: "DOCK-3", ListingID: &listingID, ShipmentRef: "SHP-5120", StopNumber: &stop})

	loaded, err := commands.NewConfirmListingLoadedCommand(listingID, actor)
	suite.Require().NoError(err)
	suite.Require().NoError(commands.NewConfirmListingLoadedCommandHandler(uows, clock).Handle(ctx, loaded))
	depart, err := commands.NewLockAndDepartListingCommand(listingID, actor)
	suite.Require().NoError(err)
	suite.Require().NoError(commands.NewLockAndDepartListingCommandHandler(uows, clock).Handle(ctx, depart))
	delivered, err := commands.NewConfirmListingDeliveredCommand(listingID, listing.ProofOfDelivery{SignerName: "K. Banda", DocumentID: "POD-77"}, actor)
	suite.Require().NoError(err)
	suite.Require().NoError(commands.NewConfirmListingDeliveredCommandHandler(uows, clock).Handle(ctx, delivered))
	closeCmd, err := commands.NewCloseListingCommand(listingID, actor)
	suite.Require().NoError(err)
	suite.Require().NoError(commands.NewCloseListingCommandHandler(uows, clock).Handle(ctx, closeCmd))

	reader := suite.factory.Create()
	l, err := reader.ListingRepository().Get(ctx, listingID)
	suite.Require().NoError(err)
	suite.Equal(listing.StatusClosed, l.Status())
	suite.Require().Len(l.Stops(), 1)
	suite.Equal("CUST-Y", l.Stops()[0].LocationID)

	stored, err := reader.DropTagRepository().Get(ctx, tag.DropTagID)
	suite.Require().NoError(err)
	suite.Equal(droptag.StatusDelivered, stored.Status())
	pkg, err := reader.PackageRepository().Get(ctx, pkgID)
	suite.Require().NoError(err)
	suite.Equal(packaging.StatusDelivered, pkg.Status())

	history, err := reader.TraceEventRepository().Find(ctx, trace.Filter{DropTagID: &tag.DropTagID})
	suite.Require().NoError(err)
	suite.NotEmpty(history)
	for _, e := range history {
		suite.True(e.Verify(), "event %s verifies", e.Type())
	}

	archiver := &capturingArchiver{}
	archiveCmd, err := commands.NewArchiveClosedListingsCommand(5)
	suite.Require().NoError(err)
	archived, err := commands.NewArchiveClosedListingsCommandHandler(archiveFactory{inner: suite.factory}, archiver, clock).Handle(ctx, archiveCmd)
	suite.Require().NoError(err)
	suite.Equal(1, archived)
	suite.Require().Len(archiver.keys, 1)
	suite.Equal(commands.ArchiveKey(l.Code()), archiver.keys[0])

	doc, ok := archiver.docs[0].(commands.CustodyDocument)
	suite.Require().True(ok)
	suite.Equal([]string{tag.Code.String()}, doc.DropTags)
	for _, rec := range doc.Events {
		suite.True(rec.Verified)
	}

	again, err := commands.NewArchiveClosedListingsCommandHandler(archiveFactory{inner: suite.factory}, archiver, clock).Handle(ctx, archiveCmd)
	suite.Require().NoError(err)
	suite.Zero(again)
}
