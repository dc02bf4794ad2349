package jobs

import (
	"context"
	"log/slog"

	"custody/internal/core/application/usecases/commands"
)

// TraceEventRelayJob drains the trace outbox to the configured publisher.
type TraceEventRelayJob struct {
	*scheduledJob
	handler commands.RelayTraceEventsCommandHandler
	batch   int
}

// NewTraceEventRelayJob creates a job relaying events in batches of batch.
func NewTraceEventRelayJob(
	handler commands.RelayTraceEventsCommandHandler,
	schedule string,
	batch int,
	logger *slog.Logger,
) *TraceEventRelayJob {
	j := &TraceEventRelayJob{handler: handler, batch: batch}
	j.scheduledJob = newScheduledJob("trace_event_relay_job", schedule, j.RunOnce, logger)
	return j
}

// maxBatchesPerRun bounds one run so a large backlog is drained over several ticks.
const maxBatchesPerRun = 20

// RunOnce relays batches until the outbox is empty or a batch fails.
func (j *TraceEventRelayJob) RunOnce(ctx context.Context) error {
	cmd, err := commands.NewRelayTraceEventsCommand(j.batch)
	if err != nil {
		return err
	}

	total := 0
	for range maxBatchesPerRun {
		n, err := j.handler.Handle(ctx, cmd)
		total += n
		if err != nil {
			return err
		}
		if n < cmd.BatchSize() {
			break
		}
	}
	if total > 0 {
		j.logger.InfoContext(ctx, "trace events relayed", "count", total)
	}
	return nil
}
