package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"custody/internal/adapters/out/memory"
	"custody/internal/core/application/resolver"
	"custody/internal/core/application/usecases/commands"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/listing"
	"custody/internal/core/domain/model/packaging"
	"custody/internal/core/domain/model/station"
	"custody/internal/core/domain/model/trace"
	"custody/internal/core/ports"

	"github.com/stretchr/testify/require"
)

// tickingClock advances one second per reading so events order deterministically.
type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newClock() *tickingClock {
	return &tickingClock{now: time.Date(2026, 3, 9, 6, 0, 0, 0, time.UTC)}
}

type uowFactory struct{ inner *memory.UnitOfWorkFactory }

func (f uowFactory) Create() commands.UoW { return f.inner.Create() }

type outboxFactory struct{ inner *memory.UnitOfWorkFactory }

func (f outboxFactory) Create() commands.OutboxUoW { return f.inner.Create() }

type archiveFactory struct{ inner *memory.UnitOfWorkFactory }

func (f archiveFactory) Create() commands.ArchiveUoW { return f.inner.Create() }

type harness struct {
	t       *testing.T
	ctx     context.Context
	factory *memory.UnitOfWorkFactory
	uow     uowFactory
	clock   *tickingClock
	actor   kernel.Actor
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	actor, err := kernel.NewActor("op-17", kernel.RoleOperator)
	require.NoError(t, err)
	factory := memory.NewUnitOfWorkFactory(memory.NewStore())
	return &harness{
		t:       t,
		ctx:     t.Context(),
		factory: factory,
		uow:     uowFactory{inner: factory},
		clock:   newClock(),
		actor:   actor,
	}
}

// repos reads committed state outside any unit of work.
func (h *harness) repos() ports.UnitOfWork {
	return h.factory.Create()
}

// packageWithItems opens a package and packs one item per pieces value.
func (h *harness) packageWithItems(heat string, pieces ...int) kernel.UUID {
	h.t.Helper()
	id := kernel.NewUUID()
	cmd, err := commands.NewCreatePackageCommand(id, "SO-88123", "PACK-03", h.actor)
	require.NoError(h.t, err)
	_, err = commands.NewCreatePackageCommandHandler(h.uow, h.clock).Handle(h.ctx, cmd)
	require.NoError(h.t, err)

	for _, n := range pieces {
		add, err := commands.NewAddPackageItemCommand(id, commands.ItemInput{
			ItemID:     kernel.NewUUID(),
			Grade:      "4140",
			Form:       "ROUND_BAR",
			HeatNumber: heat,
			Pieces:     n,
			Weight:     kernel.MustWeight("12.5"),
		}, h.actor)
		require.NoError(h.t, err)
		require.NoError(h.t, commands.NewAddPackageItemCommandHandler(h.uow, h.clock).Handle(h.ctx, add))
	}
	return id
}

func (h *harness) release(packageID kernel.UUID) {
	h.t.Helper()
	submit, err := commands.NewSubmitPackageForQCCommand(packageID, h.actor)
	require.NoError(h.t, err)
	require.NoError(h.t, commands.NewSubmitPackageForQCCommandHandler(h.uow, h.clock).Handle(h.ctx, submit))

	decide, err := commands.NewRecordQCDecisionCommand(packageID, packaging.DecisionRelease, "ok", h.actor)
	require.NoError(h.t, err)
	require.NoError(h.t, commands.NewRecordQCDecisionCommandHandler(h.uow, h.clock).Handle(h.ctx, decide))
}

// generate issues a tag and readies it for printing.
func (h *harness) generate(packageID kernel.UUID) commands.GenerateDropTagResult {
	h.t.Helper()
	cmd, err := commands.NewGenerateDropTagCommand(packageID, kernel.NewUUID(), h.actor)
	require.NoError(h.t, err)
	res, err := commands.NewGenerateDropTagCommandHandler(h.uow, h.clock).Handle(h.ctx, cmd)
	require.NoError(h.t, err)
	return res
}

func (h *harness) ready(tagID kernel.UUID) {
	h.t.Helper()
	cmd, err := commands.NewReadyDropTagToPrintCommand(tagID, h.actor)
	require.NoError(h.t, err)
	require.NoError(h.t, commands.NewReadyDropTagToPrintCommandHandler(h.uow, h.clock).Handle(h.ctx, cmd))
}

func (h *harness) scan(identifier string, kind station.Kind, sc commands.ScanContext) commands.ScanResult {
	h.t.Helper()
	cmd, err := commands.NewProcessScanCommand(identifier, resolver.TypeAny, kind, sc, h.actor)
	require.NoError(h.t, err)
	res, err := commands.NewProcessScanCommandHandler(h.uow, h.clock).Handle(h.ctx, cmd)
	require.NoError(h.t, err)
	return res
}

// sealedTag runs a single-tag package through QC and the PRINT, APPLY and SEAL stations.
func (h *harness) sealedTag(pieces int) commands.GenerateDropTagResult {
	h.t.Helper()
	pkgID := h.packageWithItems("A12345", pieces)
	h.release(pkgID)
	tag := h.generate(pkgID)
	h.ready(tag.DropTagID)

	code := tag.Code.String()
	require.True(h.t, h.scan(code, station.Print, commands.ScanContext{StationID: "PRN-1"}).Success)
	require.True(h.t, h.scan(code, station.Apply, commands.ScanContext{StationID: "APL-1"}).Success)
	res := h.scan(code, station.Seal, commands.ScanContext{StationID: "SEAL-1", SealID: "S-" + code})
	require.True(h.t, res.Success, res.Errors)
	return tag
}

// printedListing builds a listing of the given tags, one stop each, up to PRINTED.
func (h *harness) printedListing(tagIDs ...kernel.UUID) kernel.UUID {
	h.t.Helper()
	id := kernel.NewUUID()
	create, err := commands.NewCreateListingCommand(id, "SHP-901", "DOCK-2", h.actor)
	require.NoError(h.t, err)
	_, err = commands.NewCreateListingCommandHandler(h.uow, h.clock).Handle(h.ctx, create)
	require.NoError(h.t, err)

	add, err := commands.NewAddListingTagsCommand(id, tagIDs, h.actor)
	require.NoError(h.t, err)
	require.NoError(h.t, commands.NewAddListingTagsCommandHandler(h.uow, h.clock).Handle(h.ctx, add))

	stops := make([]listing.Stop, 0, len(tagIDs))
	for i, tagID := range tagIDs {
		stops = append(stops, listing.Stop{Number: i + 1, LocationID: "CUST-" + string(rune('A'+i)), TagIDs: []kernel.UUID{tagID}})
	}
	setStops, err := commands.NewSetListingStopsCommand(id, stops, h.actor)
	require.NoError(h.t, err)
	require.NoError(h.t, commands.NewSetListingStopsCommandHandler(h.uow, h.clock).Handle(h.ctx, setStops))

	finalize, err := commands.NewFinalizeListingCommand(id, h.actor)
	require.NoError(h.t, err)
	require.NoError(h.t, commands.NewFinalizeListingCommandHandler(h.uow, h.clock).Handle(h.ctx, finalize))

	printCmd, err := commands.NewPrintListingCommand(id, listing.Documents{ManifestID: "MAN-1", COCID: "COC-1", MTRID: "MTR-1"}, h.actor)
	require.NoError(h.t, err)
	require.NoError(h.t, commands.NewPrintListingCommandHandler(h.uow, h.clock).Handle(h.ctx, printCmd))
	return id
}

func (h *harness) events(filter trace.Filter) []*trace.Event {
	h.t.Helper()
	events, err := h.repos().TraceEventRepository().Find(h.ctx, filter)
	require.NoError(h.t, err)
	return events
}
