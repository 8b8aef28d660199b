package jobs

import (
	"context"
	"log/slog"
	"time"

	"lastmile/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

type matchRoundHandler interface {
	Handle(ctx context.Context, cmd commands.MatchPendingDeliveriesCommand) (commands.MatchRoundResult, error)
}

// DeliveryMatchingJob periodically matches pending deliveries with available couriers.
type DeliveryMatchingJob struct {
	handler  matchRoundHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewDeliveryMatchingJob creates a matching job running on schedule, a cron
// expression with a leading seconds field.
func NewDeliveryMatchingJob(handler matchRoundHandler, schedule string, logger *slog.Logger) *DeliveryMatchingJob {
	return &DeliveryMatchingJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "delivery_matching_job"),
	}
}

// Start schedules the matching rounds.
func (j *DeliveryMatchingJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Delivery matching job started", "schedule", j.schedule)
	return nil
}

// RunOnce runs a single matching round. A round with nothing to match is not logged.
func (j *DeliveryMatchingJob) RunOnce(ctx context.Context) {
	cmd, err := commands.NewMatchPendingDeliveriesCommand(commands.DefaultMatchBatchSize, time.Now().UTC())
	if err != nil {
		j.logger.ErrorContext(ctx, "Delivery matching job failed", "error", err)
		return
	}

	result, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Delivery matching job failed", "error", err)
		return
	}

	if result.Matched > 0 || result.Skipped > 0 {
		j.logger.InfoContext(ctx, "Matching round finished",
			"processed", result.Processed,
			"matched", result.Matched,
			"skipped", result.Skipped,
		)
	}
}

// Stop stops the matching job.
func (j *DeliveryMatchingJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Delivery matching job stopped")
}
