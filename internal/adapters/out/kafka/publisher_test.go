package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"custody/internal/adapters/out/kafka"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/trace"

	skafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWriter struct{ mock.Mock }

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...skafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockWriter) Close() error {
	return m.Called().Error(0)
}

func hashedEvent(t *testing.T, resourceID kernel.UUID, eventType trace.EventType, at time.Time) *trace.Event {
	t.Helper()
	actor, err := kernel.NewActor("op-3", kernel.RoleOperator)
	require.NoError(t, err)
	e, err := trace.NewEvent(kernel.NewUUID(), trace.Fields{
		Type:         eventType,
		Category:     trace.CategoryPackage,
		Actor:        actor,
		ResourceType: trace.ResourcePackage,
		ResourceID:   resourceID,
		NewState:     "OPEN",
		Metadata:     map[string]any{"orderRef": "SO-12"},
		OccurredAt:   at,
	})
	require.NoError(t, err)
	require.NoError(t, e.AssignHash())
	return e
}

func TestTracePublisher_Publish(t *testing.T) {
	at := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	pkgA, pkgB := kernel.NewUUID(), kernel.NewUUID()
	events := []*trace.Event{
		hashedEvent(t, pkgA, trace.PackageCreated, at),
		hashedEvent(t, pkgB, trace.PackageCreated, at.Add(time.Second)),
	}

	var written []skafka.Message
	writer := new(MockWriter)
	writer.On("WriteMessages", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { written = args.Get(1).([]skafka.Message) }).
		Return(nil).Once()

	err := kafka.NewTracePublisherWithWriter(writer).Publish(t.Context(), events)
	require.NoError(t, err)
	writer.AssertExpectations(t)

	require.Len(t, written, 2)
	assert.Equal(t, pkgA.String(), string(written[0].Key))
	assert.Equal(t, pkgB.String(), string(written[1].Key))
	assert.Equal(t, at, written[0].Time)
	assert.Equal(t, []skafka.Header{
		{Key: kafka.HeaderEventType, Value: []byte(trace.PackageCreated)},
		{Key: kafka.HeaderEventHash, Value: []byte(events[0].Hash())},
	}, written[0].Headers)

	var rec trace.Record
	require.NoError(t, json.Unmarshal(written[0].Value, &rec))
	assert.Equal(t, events[0].ID().String(), rec.ID)
	assert.Equal(t, events[0].Hash(), rec.EventHash)
	assert.True(t, rec.Verified)
	assert.Equal(t, "SO-12", rec.Metadata["orderRef"])
}

func TestTracePublisher_Publish_Empty(t *testing.T) {
	writer := new(MockWriter)
	require.NoError(t, kafka.NewTracePublisherWithWriter(writer).Publish(t.Context(), nil))
	writer.AssertNotCalled(t, "WriteMessages", mock.Anything, mock.Anything)
}

func TestTracePublisher_Publish_WriteFailure(t *testing.T) {
	broker := errors.New("leader not available")
	writer := new(MockWriter)
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(broker).Once()

	err := kafka.NewTracePublisherWithWriter(writer).Publish(t.Context(), []*trace.Event{
		hashedEvent(t, kernel.NewUUID(), trace.PackageCreated, time.Now().UTC()),
	})
	require.ErrorIs(t, err, broker)
	assert.Contains(t, err.Error(), "write 1 trace events")
}

func TestTracePublisher_Close(t *testing.T) {
	writer := new(MockWriter)
	writer.On("Close").Return(nil).Once()
	require.NoError(t, kafka.NewTracePublisherWithWriter(writer).Close())
	writer.AssertExpectations(t)
}
