package jobs

import (
	"fmt"
	"log/slog"
)

// Schedules holds the cron expressions of the jobs, seconds field first.
type Schedules struct {
	Matching  string
	RiskSweep string
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	matchingJob  *DeliveryMatchingJob
	riskSweepJob *RiskSweepJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	matchHandler matchRoundHandler,
	sweepHandler riskSweepHandler,
	schedules Schedules,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		matchingJob:  NewDeliveryMatchingJob(matchHandler, schedules.Matching, logger),
		riskSweepJob: NewRiskSweepJob(sweepHandler, schedules.RiskSweep, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.matchingJob.Start(); err != nil {
		return fmt.Errorf("failed to start delivery matching job: %w", err)
	}

	if err := jm.riskSweepJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.matchingJob.Stop()
		return fmt.Errorf("failed to start risk sweep job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs, waiting for running rounds to finish.
func (jm *JobManager) StopAll() {
	jm.riskSweepJob.Stop()
	jm.matchingJob.Stop()
}
