package jobs

import (
	"context"
	"log/slog"
	"time"

	"lastmile/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

type riskSweepHandler interface {
	Handle(ctx context.Context, cmd commands.RunRiskSweepCommand) (commands.RiskSweepResult, error)
}

// RiskSweepJob periodically re-scores the available couriers.
type RiskSweepJob struct {
	handler  riskSweepHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewRiskSweepJob(handler riskSweepHandler, schedule string, logger *slog.Logger) *RiskSweepJob {
	return &RiskSweepJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "risk_sweep_job"),
	}
}

// Start schedules the sweep.
func (j *RiskSweepJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Risk sweep job started", "schedule", j.schedule)
	return nil
}

// RunOnce runs a single sweep.
func (j *RiskSweepJob) RunOnce(ctx context.Context) {
	cmd, err := commands.NewRunRiskSweepCommand(time.Now().UTC())
	if err != nil {
		j.logger.ErrorContext(ctx, "Risk sweep job failed", "error", err)
		return
	}

	result, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Risk sweep job failed", "error", err)
		return
	}

	level := slog.LevelInfo
	if result.Suspended > 0 {
		level = slog.LevelWarn
	}
	j.logger.Log(ctx, level, "Risk sweep finished",
		"analyzed", result.Analyzed,
		"reviews", result.Reviews,
		"suspended", result.Suspended,
		"skipped", result.Skipped,
	)
}

// Stop stops the risk sweep job.
func (j *RiskSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Risk sweep job stopped")
}
