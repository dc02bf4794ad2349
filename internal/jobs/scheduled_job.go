package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// scheduledJob runs one function on a six-field cron schedule. A run that is still going
// when the next tick fires makes that tick a no-op.
type scheduledJob struct {
	name     string
	schedule string
	run      func(ctx context.Context) error
	cron     *cron.Cron
	logger   *slog.Logger
}

func newScheduledJob(name, schedule string, run func(ctx context.Context) error, logger *slog.Logger) *scheduledJob {
	return &scheduledJob{
		name:     name,
		schedule: schedule,
		run:      run,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", name),
	}
}

func (j *scheduledJob) Name() string {
	return j.name
}

// Start registers the schedule and starts the cron loop. Run errors are logged, not returned.
func (j *scheduledJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if err := j.run(ctx); err != nil {
			j.logger.ErrorContext(ctx, "job run failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "job started", "schedule", j.schedule)
	return nil
}

// Stop waits for a run in progress to finish.
func (j *scheduledJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "job stopped")
}
