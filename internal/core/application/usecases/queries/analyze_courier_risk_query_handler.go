package queries

import (
	"context"

	"lastmile/internal/core/domain/services"
	"lastmile/internal/core/ports"
)

// AnalyzeCourierRiskQueryHandler scores a courier's behaviour on demand.
// Nothing is persisted; the risk sweep job is what records levels.
type AnalyzeCourierRiskQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	analyzer   *services.RiskAnalyzer
}

func NewAnalyzeCourierRiskQueryHandler(
	uowFactory ports.UnitOfWorkFactory,
	analyzer *services.RiskAnalyzer,
) AnalyzeCourierRiskQueryHandler {
	return AnalyzeCourierRiskQueryHandler{
		uowFactory: uowFactory,
		analyzer:   analyzer,
	}
}

// Handle loads the courier with its history and returns its risk report.
func (h AnalyzeCourierRiskQueryHandler) Handle(
	ctx context.Context,
	query CourierAnalysisQuery,
) (services.RiskReport, error) {
	if err := query.Validate(); err != nil {
		return services.RiskReport{}, err
	}

	c, err := h.uowFactory.Create().CourierRepository().Get(ctx, query.CourierID())
	if err != nil {
		return services.RiskReport{}, err
	}

	return h.analyzer.Analyze(c, query.At())
}
