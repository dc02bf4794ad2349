package jobs_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"custody/internal/adapters/out/memory"
	"custody/internal/core/application/usecases/commands"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/trace"
	"custody/internal/core/ports"
	"custody/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, events []*trace.Event) error {
	return m.Called(ctx, events).Error(0)
}

type MockArchiver struct{ mock.Mock }

func (m *MockArchiver) Archive(ctx context.Context, key string, document any) (string, error) {
	args := m.Called(ctx, key, document)
	return args.String(0), args.Error(1)
}

type uowFactory struct{ inner ports.UnitOfWorkFactory }

func (f uowFactory) Create() commands.UoW { return f.inner.Create() }

type outboxFactory struct{ inner ports.UnitOfWorkFactory }

func (f outboxFactory) Create() commands.OutboxUoW { return f.inner.Create() }

type archiveFactory struct{ inner ports.UnitOfWorkFactory }

func (f archiveFactory) Create() commands.ArchiveUoW { return f.inner.Create() }

// seedPackages opens n packages, one trace event each.
func seedPackages(t *testing.T, factory ports.UnitOfWorkFactory, n int) {
	t.Helper()
	actor, err := kernel.NewActor("op-1", kernel.RoleOperator)
	require.NoError(t, err)
	handler := commands.NewCreatePackageCommandHandler(uowFactory{inner: factory}, ports.SystemClock{})
	for range n {
		cmd, err := commands.NewCreatePackageCommand(kernel.NewUUID(), "SO-1", "PACK-01", actor)
		require.NoError(t, err)
		_, err = handler.Handle(t.Context(), cmd)
		require.NoError(t, err)
	}
}

func TestTraceEventRelayJob_RunOnce_DrainsInBatches(t *testing.T) {
	factory := memory.NewUnitOfWorkFactory(memory.NewStore())
	seedPackages(t, factory, 5)

	publisher := new(MockPublisher)
	var sizes []int
	publisher.On("Publish", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sizes = append(sizes, len(args.Get(1).([]*trace.Event))) }).
		Return(nil)

	handler := commands.NewRelayTraceEventsCommandHandler(outboxFactory{inner: factory}, publisher, ports.SystemClock{})
	job := jobs.NewTraceEventRelayJob(handler, "*/5 * * * * *", 2, discard)

	require.NoError(t, job.RunOnce(t.Context()))
	assert.Equal(t, []int{2, 2, 1}, sizes)

	sizes = nil
	require.NoError(t, job.RunOnce(t.Context()))
	assert.Empty(t, sizes, "nothing left to relay")
}

func TestTraceEventRelayJob_RunOnce_PublishFailure(t *testing.T) {
	factory := memory.NewUnitOfWorkFactory(memory.NewStore())
	seedPackages(t, factory, 1)

	down := errors.New("broker down")
	publisher := new(MockPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(down).Once()
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

	handler := commands.NewRelayTraceEventsCommandHandler(outboxFactory{inner: factory}, publisher, ports.SystemClock{})
	job := jobs.NewTraceEventRelayJob(handler, "*/5 * * * * *", 10, discard)

	require.ErrorIs(t, job.RunOnce(t.Context()), down)
	require.NoError(t, job.RunOnce(t.Context()))
	publisher.AssertNumberOfCalls(t, "Publish", 2)
}

func TestCustodyArchiveJob_RunOnce_NothingClosed(t *testing.T) {
	factory := memory.NewUnitOfWorkFactory(memory.NewStore())
	seedPackages(t, factory, 1)

	archiver := new(MockArchiver)
	handler := commands.NewArchiveClosedListingsCommandHandler(archiveFactory{inner: factory}, archiver, ports.SystemClock{})
	job := jobs.NewCustodyArchiveJob(handler, "0 */10 * * * *", 5, discard)

	require.NoError(t, job.RunOnce(t.Context()))
	archiver.AssertNotCalled(t, "Archive", mock.Anything, mock.Anything, mock.Anything)
}

func TestScheduledJob_StartStop(t *testing.T) {
	factory := memory.NewUnitOfWorkFactory(memory.NewStore())
	handler := commands.NewRelayTraceEventsCommandHandler(outboxFactory{inner: factory}, new(MockPublisher), ports.SystemClock{})

	t.Run("invalid schedule", func(t *testing.T) {
		job := jobs.NewTraceEventRelayJob(handler, "every second", 10, discard)
		require.Error(t, job.Start())
	})

	t.Run("starts and stops", func(t *testing.T) {
		job := jobs.NewTraceEventRelayJob(handler, "* * * * * *", 10, discard)
		require.NoError(t, job.Start())
		time.Sleep(10 * time.Millisecond)
		job.Stop()
		assert.Equal(t, "trace_event_relay_job", job.Name())
	})
}

type fakeJob struct {
	name     string
	startErr error
	log      *[]string
}

func (f fakeJob) Name() string { return f.name }

func (f fakeJob) Start() error {
	if f.startErr != nil {
		return f.startErr
	}
	*f.log = append(*f.log, "start "+f.name)
	return nil
}

func (f fakeJob) Stop() { *f.log = append(*f.log, "stop "+f.name) }

func TestJobManager(t *testing.T) {
	t.Run("start and stop in reverse order", func(t *testing.T) {
		var log []string
		jm := jobs.NewJobManager(fakeJob{name: "a", log: &log}, fakeJob{name: "b", log: &log})
		require.NoError(t, jm.StartAll())
		jm.StopAll()
		assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, log)
	})

	t.Run("failed start stops already started jobs", func(t *testing.T) {
		var log []string
		boom := errors.New("boom")
		jm := jobs.NewJobManager(fakeJob{name: "a", log: &log}, fakeJob{name: "b", startErr: boom, log: &log}, fakeJob{name: "c", log: &log})
		err := jm.StartAll()
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "failed to start b")
		assert.Equal(t, []string{"start a", "stop a"}, log)

		jm.StopAll()
		assert.Len(t, log, 2, "second StopAll is a no-op")
	})
}
