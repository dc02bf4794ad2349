package cmd

import (
	"context"
	"errors"

	"custody/internal/adapters/out/kafka"
	"custody/internal/adapters/out/s3"
	"custody/internal/jobs"
)

// CreateJobManager wires the relay when Kafka brokers are configured and the archive when an
// S3 bucket is. The returned function closes the Kafka writer.
func (c *CompositionRoot) CreateJobManager(ctx context.Context) (*jobs.JobManager, func() error, error) {
	var scheduled []jobs.Job
	closers := []func() error{}

	if c.cfg.RelayEnabled() {
		publisher := kafka.NewTracePublisher(c.cfg.KafkaBrokers, c.cfg.KafkaTraceTopic, c.cfg.KafkaWriteTimeout)
		closers = append(closers, publisher.Close)
		scheduled = append(scheduled, jobs.NewTraceEventRelayJob(
			c.CreateRelayTraceEventsCommandHandler(publisher), c.cfg.TraceRelaySchedule, c.cfg.TraceRelayBatch, c.logger))
	} else {
		c.logger.Warn("KAFKA_BROKERS not set, trace events stay in the outbox")
	}

	if c.cfg.ArchiveEnabled() {
		archiver, err := s3.NewArchiver(ctx, s3.Options{
			Bucket:   c.cfg.ArchiveS3Bucket,
			Prefix:   c.cfg.ArchiveS3Prefix,
			Region:   c.cfg.AWSRegion,
			Endpoint: c.cfg.ArchiveS3Endpoint,
		})
		if err != nil {
			return nil, nil, errors.Join(err, closeAll(closers))
		}
		scheduled = append(scheduled, jobs.NewCustodyArchiveJob(
			c.CreateArchiveClosedListingsCommandHandler(archiver), c.cfg.ArchiveSchedule, c.cfg.ArchiveBatch, c.logger))
	} else {
		c.logger.Warn("ARCHIVE_S3_BUCKET not set, closed listings are not archived")
	}

	return jobs.NewJobManager(scheduled...), func() error { return closeAll(closers) }, nil
}

func closeAll(closers []func() error) error {
	var errList []error
	for _, closeFn := range closers {
		errList = append(errList, closeFn())
	}
	return errors.Join(errList...)
}
