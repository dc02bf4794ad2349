package commands_test

import (
	"context"
	"errors"
	"testing"

	"custody/internal/core/application/usecases/commands"
	"custody/internal/core/domain/model/trace"
	"custody/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTraceEventPublisher struct{ mock.Mock }

func (m *MockTraceEventPublisher) Publish(ctx context.Context, events []*trace.Event) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func TestRelayTraceEventsCommandHandler_Handle(t *testing.T) {
	h := newHarness(t)
	h.packageWithItems("A12345", 3)
	total := len(h.events(trace.Filter{}))
	require.Equal(t, 2, total)

	publisher := new(MockTraceEventPublisher)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []*trace.Event) bool {
		return len(events) == 1
	})).Return(nil).Twice()

	handler := commands.NewRelayTraceEventsCommandHandler(outboxFactory{inner: h.factory}, publisher, h.clock)
	cmd, err := commands.NewRelayTraceEventsCommand(1)
	require.NoError(t, err)

	for range total {
		n, err := handler.Handle(h.ctx, cmd)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	}
	n, err := handler.Handle(h.ctx, cmd)
	require.NoError(t, err)
	assert.Zero(t, n)
	publisher.AssertExpectations(t)
}

func TestRelayTraceEventsCommandHandler_PublishFailureKeepsBatch(t *testing.T) {
	h := newHarness(t)
	h.packageWithItems("A12345", 3)

	failing := new(MockTraceEventPublisher)
	failing.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
	cmd, err := commands.NewRelayTraceEventsCommand(10)
	require.NoError(t, err)

	_, err = commands.NewRelayTraceEventsCommandHandler(outboxFactory{inner: h.factory}, failing, h.clock).Handle(h.ctx, cmd)
	require.EqualError(t, err, "broker down")

	working := new(MockTraceEventPublisher)
	working.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()
	n, err := commands.NewRelayTraceEventsCommandHandler(outboxFactory{inner: h.factory}, working, h.clock).Handle(h.ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	failing.AssertExpectations(t)
	working.AssertExpectations(t)
}

func TestNewRelayTraceEventsCommand(t *testing.T) {
	_, err := commands.NewRelayTraceEventsCommand(0)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	cmd, err := commands.NewRelayTraceEventsCommand(50)
	require.NoError(t, err)
	assert.Equal(t, 50, cmd.BatchSize())
	require.ErrorIs(t, commands.RelayTraceEventsCommand{}.Validate(), commands.ErrRelayTraceEventsCommandIsNotConstructed)
}
