package jobs

import (
	"context"
	"log/slog"

	"custody/internal/core/application/usecases/commands"
)

// CustodyArchiveJob exports the custody chain of closed listings.
type CustodyArchiveJob struct {
	*scheduledJob
	handler commands.ArchiveClosedListingsCommandHandler
	batch   int
}

// NewCustodyArchiveJob creates a job archiving up to batch listings per tick.
func NewCustodyArchiveJob(
	handler commands.ArchiveClosedListingsCommandHandler,
	schedule string,
	batch int,
	logger *slog.Logger,
) *CustodyArchiveJob {
	j := &CustodyArchiveJob{handler: handler, batch: batch}
	j.scheduledJob = newScheduledJob("custody_archive_job", schedule, j.RunOnce, logger)
	return j
}

// RunOnce archives one batch. Listings that fail stay queued for the next run.
func (j *CustodyArchiveJob) RunOnce(ctx context.Context) error {
	cmd, err := commands.NewArchiveClosedListingsCommand(j.batch)
	if err != nil {
		return err
	}
	n, err := j.handler.Handle(ctx, cmd)
	if n > 0 {
		j.logger.InfoContext(ctx, "listings archived", "count", n)
	}
	return err
}
