package queries_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"custody/internal/adapters/out/memory"
	"custody/internal/core/application/usecases/commands"
	"custody/internal/core/application/usecases/queries"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/packaging"

	"github.com/stretchr/testify/require"
)

type fixedStepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedStepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

type uowFactory struct{ inner *memory.UnitOfWorkFactory }

func (f uowFactory) Create() commands.UoW { return f.inner.Create() }

type readFactory struct{ inner *memory.UnitOfWorkFactory }

func (f readFactory) Create() queries.Repositories { return f.inner.Create() }

type fixture struct {
	t     *testing.T
	ctx   context.Context
	uow   uowFactory
	read  readFactory
	clock *fixedStepClock
	actor kernel.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	actor, err := kernel.NewActor("qc-04", kernel.RoleSupervisor)
	require.NoError(t, err)
	factory := memory.NewUnitOfWorkFactory(memory.NewStore())
	return &fixture{
		t:     t,
		ctx:   t.Context(),
		uow:   uowFactory{inner: factory},
		read:  readFactory{inner: factory},
		clock: &fixedStepClock{now: time.Date(2026, 5, 4, 7, 30, 0, 0, time.UTC)},
		actor: actor,
	}
}

// releasedPackage opens a one-item package and releases it through QC.
func (f *fixture) releasedPackage() (kernel.UUID, kernel.Code) {
	f.t.Helper()
	id := kernel.NewUUID()
	create, err := commands.NewCreatePackageCommand(id, "SO-55120", "PACK-01", f.actor)
	require.NoError(f.t, err)
	code, err := commands.NewCreatePackageCommandHandler(f.uow, f.clock).Handle(f.ctx, create)
	require.NoError(f.t, err)

	add, err := commands.NewAddPackageItemCommand(id, commands.ItemInput{
		ItemID:     kernel.NewUUID(),
		Grade:      "1018",
		Form:       "FLAT_BAR",
		HeatNumber: "H-7781",
		Pieces:     8,
		Weight:     kernel.MustWeight("40"),
	}, f.actor)
	require.NoError(f.t, err)
	require.NoError(f.t, commands.NewAddPackageItemCommandHandler(f.uow, f.clock).Handle(f.ctx, add))

	submit, err := commands.NewSubmitPackageForQCCommand(id, f.actor)
	require.NoError(f.t, err)
	require.NoError(f.t, commands.NewSubmitPackageForQCCommandHandler(f.uow, f.clock).Handle(f.ctx, submit))

	decide, err := commands.NewRecordQCDecisionCommand(id, packaging.DecisionRelease, "released", f.actor)
	require.NoError(f.t, err)
	require.NoError(f.t, commands.NewRecordQCDecisionCommandHandler(f.uow, f.clock).Handle(f.ctx, decide))
	return id, code
}

func (f *fixture) generate(packageID kernel.UUID) commands.GenerateDropTagResult {
	f.t.Helper()
	cmd, err := commands.NewGenerateDropTagCommand(packageID, kernel.NewUUID(), f.actor)
	require.NoError(f.t, err)
	res, err := commands.NewGenerateDropTagCommandHandler(f.uow, f.clock).Handle(f.ctx, cmd)
	require.NoError(f.t, err)
	return res
}
