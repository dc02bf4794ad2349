// Package jobs provides scheduled background tasks for the custody engine.
//
// Jobs use github.com/robfig/cron/v3 with six-field (seconds first) expressions. A tick that
// fires while the previous run is still going is skipped.
//
// # Available Jobs
//
// 1. TraceEventRelayJob - drains committed trace events from the outbox to Kafka
// 2. CustodyArchiveJob - uploads the custody chain of each closed, unarchived listing to S3
//
// # Usage
//
//	relay := jobs.NewTraceEventRelayJob(relayHandler, "*/5 * * * * *", 200, logger)
//	archive := jobs.NewCustodyArchiveJob(archiveHandler, "0 */10 * * * *", 20, logger)
//
//	jobManager := jobs.NewJobManager(relay, archive)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Failed runs are logged and retried on the next tick. The relay delivers at least once: a
// batch published but not marked is published again.
package jobs
