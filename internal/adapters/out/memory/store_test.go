package memory_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"custody/internal/adapters/out/memory"
	"custody/internal/core/domain/model/droptag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/packaging"
	"custody/internal/core/domain/model/trace"
	"custody/internal/core/ports"
	"custody/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	now    = time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC)
	serial atomic.Int64
)

func nextCode(t *testing.T, kind kernel.CodeKind) kernel.Code {
	t.Helper()
	code, err := kernel.ParseCode(kind, fmt.Sprintf("%s-2026-%06d", kind.Prefix(), serial.Add(1)))
	require.NoError(t, err)
	return code
}

func newPackage(t *testing.T) *packaging.Package {
	t.Helper()
	pkg, err := packaging.NewPackage(kernel.NewUUID(), nextCode(t, kernel.PackageCodeKind), "SO-1", "BIN-1", now)
	require.NoError(t, err)
	return pkg
}

func newTag(t *testing.T, pkg *packaging.Package) *droptag.DropTag {
	t.Helper()
	tag, err := droptag.NewDropTag(kernel.NewUUID(), nextCode(t, kernel.DropTagCodeKind), pkg.ID(), droptag.Material{
		Grade: "4140", Form: "BAR", Pieces: 4, Weight: kernel.MustWeight("10"),
	}, now)
	require.NoError(t, err)
	return tag
}

func inTx(t *testing.T, f ports.UnitOfWorkFactory, fn func(uow ports.UnitOfWork)) {
	t.Helper()
	ctx := context.Background()
	uow := f.Create()
	require.NoError(t, uow.Begin(ctx))
	fn(uow)
	require.NoError(t, uow.Commit(ctx))
}

func TestUnitOfWork_CommitAndRollback(t *testing.T) {
	ctx := context.Background()
	f := memory.NewUnitOfWorkFactory(memory.NewStore())

	committed := newPackage(t)
	inTx(t, f, func(uow ports.UnitOfWork) {
		require.NoError(t, uow.PackageRepository().Add(ctx, committed))
	})

	discarded := newPackage(t)
	uow := f.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.PackageRepository().Add(ctx, discarded))
	require.NoError(t, uow.Rollback(ctx))

	reader := f.Create()
	got, err := reader.PackageRepository().Get(ctx, committed.ID())
	require.NoError(t, err)
	assert.Equal(t, committed.Code().String(), got.Code().String())

	_, err = reader.PackageRepository().Get(ctx, discarded.ID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestUnitOfWork_CommitWithoutBegin(t *testing.T) {
	uow := memory.NewUnitOfWorkFactory(memory.NewStore()).Create()
	require.ErrorIs(t, uow.Commit(context.Background()), ports.ErrNoTransaction)
	require.ErrorIs(t, uow.Rollback(context.Background()), ports.ErrNoTransaction)
}

func TestUnitOfWork_BeginWaitsForHolder(t *testing.T) {
	f := memory.NewUnitOfWorkFactory(memory.NewStore())
	holder := f.Create()
	require.NoError(t, holder.Begin(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, f.Create().Begin(ctx), context.DeadlineExceeded)

	require.NoError(t, holder.Rollback(context.Background()))
	next := f.Create()
	require.NoError(t, next.Begin(context.Background()))
	require.NoError(t, next.Rollback(context.Background()))
}

func TestPackageRepository_DuplicateCode(t *testing.T) {
	ctx := context.Background()
	f := memory.NewUnitOfWorkFactory(memory.NewStore())
	first := newPackage(t)
	inTx(t, f, func(uow ports.UnitOfWork) {
		require.NoError(t, uow.PackageRepository().Add(ctx, first))
	})

	clash, err := packaging.NewPackage(kernel.NewUUID(), first.Code(), "SO-2", "BIN-2", now)
	require.NoError(t, err)
	err = f.Create().PackageRepository().Add(ctx, clash)
	require.ErrorIs(t, err, errs.ErrAlreadyExists)
	assert.ErrorIs(t, err, ports.ErrDuplicateKey)
}

func TestDropTagRepository_CompareAndSet(t *testing.T) {
	ctx := context.Background()
	f := memory.NewUnitOfWorkFactory(memory.NewStore())
	pkg := newPackage(t)
	tag := newTag(t, pkg)
	inTx(t, f, func(uow ports.UnitOfWork) {
		require.NoError(t, uow.PackageRepository().Add(ctx, pkg))
		require.NoError(t, uow.DropTagRepository().Add(ctx, tag))
	})

	stale, err := f.Create().DropTagRepository().Get(ctx, tag.ID())
	require.NoError(t, err)

	inTx(t, f, func(uow ports.UnitOfWork) {
		winner, err := uow.DropTagRepository().GetForUpdate(ctx, tag.ID())
		require.NoError(t, err)
		_, err = winner.Void("damaged", "", kernel.SystemActor(), now)
		require.NoError(t, err)
		require.NoError(t, uow.DropTagRepository().Update(ctx, winner))
	})

	_, err = stale.Void("again", "", kernel.SystemActor(), now)
	require.NoError(t, err)
	err = f.Create().DropTagRepository().Update(ctx, stale)
	require.ErrorIs(t, err, errs.ErrInvalidState)
	assert.ErrorIs(t, err, ports.ErrConcurrentUpdate)
}

func TestDropTagRepository_FindByPackageOrdersByCode(t *testing.T) {
	ctx := context.Background()
	f := memory.NewUnitOfWorkFactory(memory.NewStore())
	pkg := newPackage(t)
	first, second := newTag(t, pkg), newTag(t, pkg)
	other := newTag(t, newPackage(t))
	inTx(t, f, func(uow ports.UnitOfWork) {
		for _, tag := range []*droptag.DropTag{second, other, first} {
			require.NoError(t, uow.DropTagRepository().Add(ctx, tag))
		}
	})

	tags, err := f.Create().DropTagRepository().FindByPackage(ctx, pkg.ID(), false)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, first.Code().String(), tags[0].Code().String())
	assert.Equal(t, second.Code().String(), tags[1].Code().String())

	_, err = f.Create().DropTagRepository().GetManyForUpdate(ctx, []kernel.UUID{first.ID(), kernel.NewUUID()})
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestTagIdentifierRepository_UniquePerType(t *testing.T) {
	ctx := context.Background()
	f := memory.NewUnitOfWorkFactory(memory.NewStore())
	pkg := newPackage(t)
	tag := newTag(t, pkg)
	require.NoError(t, f.Create().DropTagRepository().Add(ctx, tag))

	rfid, err := droptag.NewTagIdentifier(kernel.NewUUID(), tag.ID(), droptag.IdentifierRFID, " e200-01 ", now)
	require.NoError(t, err)
	require.NoError(t, f.Create().TagIdentifierRepository().Add(ctx, rfid))

	dup, err := droptag.NewTagIdentifier(kernel.NewUUID(), tag.ID(), droptag.IdentifierRFID, "E200-01", now)
	require.NoError(t, err)
	require.ErrorIs(t, f.Create().TagIdentifierRepository().Add(ctx, dup), errs.ErrAlreadyExists)

	etch, err := droptag.NewTagIdentifier(kernel.NewUUID(), tag.ID(), droptag.IdentifierEtch, "E200-01", now)
	require.NoError(t, err)
	require.NoError(t, f.Create().TagIdentifierRepository().Add(ctx, etch))

	found, err := f.Create().TagIdentifierRepository().FindByValue(ctx, "E200-01")
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestTraceEventRepository_AppendFindAndOutbox(t *testing.T) {
	ctx := context.Background()
	f := memory.NewUnitOfWorkFactory(memory.NewStore())
	pkgID := kernel.NewUUID()

	var ids []kernel.UUID
	inTx(t, f, func(uow ports.UnitOfWork) {
		for i, eventType := range []trace.EventType{trace.PackageSealed, trace.PackageCreated} {
			e, err := trace.NewEvent(kernel.NewUUID(), trace.Fields{
				Type:         eventType,
				Category:     trace.CategoryPackage,
				Actor:        kernel.SystemActor(),
				ResourceType: trace.ResourcePackage,
				ResourceID:   pkgID,
				Metadata:     map[string]any{"step": i},
				OccurredAt:   now.Add(time.Duration(-i) * time.Minute),
			})
			require.NoError(t, err)
			require.NoError(t, uow.TraceEventRepository().Append(ctx, e))
			assert.NotEmpty(t, e.Hash())
			require.ErrorIs(t, uow.TraceEventRepository().Append(ctx, e), errs.ErrAlreadyExists)
			ids = append(ids, e.ID())
		}
	})

	events, err := f.Create().TraceEventRepository().Find(ctx, trace.Filter{ResourceID: &pkgID})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, trace.PackageCreated, events[0].Type())
	for _, e := range events {
		assert.True(t, e.Verify())
	}

	outbox := f.Create().TraceOutbox()
	pending, err := outbox.ListUnpublished(ctx, 1)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, ids[1], pending[0].ID())

	require.NoError(t, outbox.MarkPublished(ctx, []kernel.UUID{ids[1]}, now))
	pending, err = outbox.ListUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, ids[0], pending[0].ID())
}

func TestTraceEventRepository_SameInstantKeepsAppendOrder(t *testing.T) {
	ctx := context.Background()
	f := memory.NewUnitOfWorkFactory(memory.NewStore())
	pkgID := kernel.NewUUID()

	var want []kernel.UUID
	inTx(t, f, func(uow ports.UnitOfWork) {
		for _, raw := range []string{
			"f0000000-0000-4000-8000-000000000001",
			"80000000-0000-4000-8000-000000000002",
			"00000000-0000-4000-8000-000000000003",
		} {
			id, err := kernel.UUIDFromString(raw)
			require.NoError(t, err)
			e, err := trace.NewEvent(id, trace.Fields{
				Type:         trace.PackageItemAdded,
				Category:     trace.CategoryPackage,
				Actor:        kernel.SystemActor(),
				ResourceType: trace.ResourcePackage,
				ResourceID:   pkgID,
				OccurredAt:   now,
			})
			require.NoError(t, err)
			require.NoError(t, uow.TraceEventRepository().Append(ctx, e))
			want = append(want, id)
		}
	})

	events, err := f.Create().TraceEventRepository().Find(ctx, trace.Filter{ResourceID: &pkgID})
	require.NoError(t, err)
	got := make([]kernel.UUID, 0, len(events))
	for _, e := range events {
		got = append(got, e.ID())
	}
	assert.Equal(t, want, got)

	pending, err := f.Create().TraceOutbox().ListUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, want[0], pending[0].ID())
}
