package commands

import (
	"context"
	"errors"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/services"
	"lastmile/internal/pkg/errs"
)

// RiskSweepResult summarizes a sweep.
type RiskSweepResult struct {
	Analyzed int
	// Reviews is the number of reports recorded for manual review.
	Reviews int
	// Suspended is the number of couriers taken offline at critical risk.
	Suspended int
	// Skipped counts couriers changed by another transaction during the sweep.
	// They are scored again on the next sweep.
	Skipped int
}

// RunRiskSweepCommandHandler re-scores available couriers.
//
// For each courier the level is stored on the aggregate. Reports that require
// manual review are recorded, and a critical level takes the courier offline
// until an operator brings it back through a profile update.
type RunRiskSweepCommandHandler struct {
	uowFactory UoWFactory
	analyzer   *services.RiskAnalyzer
}

// NewRunRiskSweepCommandHandler creates a sweep handler.
func NewRunRiskSweepCommandHandler(uowFactory UoWFactory, analyzer *services.RiskAnalyzer) RunRiskSweepCommandHandler {
	return RunRiskSweepCommandHandler{
		uowFactory: uowFactory,
		analyzer:   analyzer,
	}
}

// Handle runs the sweep in a single transaction.
func (h RunRiskSweepCommandHandler) Handle(ctx context.Context, cmd RunRiskSweepCommand) (RiskSweepResult, error) {
	if err := cmd.Validate(); err != nil {
		return RiskSweepResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return RiskSweepResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()
	reviewRepo := uow.RiskReviewRepository()

	couriers, err := courierRepo.GetAllAvailable(ctx)
	if err != nil {
		return RiskSweepResult{}, err
	}

	var result RiskSweepResult
	for _, c := range couriers {
		report, analyzeErr := h.analyzer.Analyze(c, cmd.At())
		if analyzeErr != nil {
			return RiskSweepResult{}, analyzeErr
		}
		result.Analyzed++

		if err = c.SetRiskLevel(report.RiskLevel); err != nil {
			return RiskSweepResult{}, err
		}
		suspend := report.RiskLevel == courier.RiskCritical
		if suspend {
			c.SetAvailable(false)
		}
		err = courierRepo.Update(ctx, c)
		if errors.Is(err, errs.ErrVersionIsInvalid) {
			result.Skipped++
			continue
		}
		if err != nil {
			return RiskSweepResult{}, err
		}
		if suspend {
			result.Suspended++
		}

		if report.RequiresManualReview {
			if err = reviewRepo.Add(ctx, report); err != nil {
				return RiskSweepResult{}, err
			}
			result.Reviews++
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return RiskSweepResult{}, err
	}

	return result, nil
}
