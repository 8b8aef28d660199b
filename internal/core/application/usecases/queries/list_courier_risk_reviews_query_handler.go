package queries

import (
	"context"

	"lastmile/internal/core/domain/services"
	"lastmile/internal/core/ports"
)

// ListCourierRiskReviewsQueryHandler returns the reports the risk sweep
// recorded for manual review, newest first. The query timestamp is unused.
type ListCourierRiskReviewsQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewListCourierRiskReviewsQueryHandler(uowFactory ports.UnitOfWorkFactory) ListCourierRiskReviewsQueryHandler {
	return ListCourierRiskReviewsQueryHandler{uowFactory: uowFactory}
}

func (h ListCourierRiskReviewsQueryHandler) Handle(
	ctx context.Context,
	query CourierAnalysisQuery,
) ([]services.RiskReport, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if _, err := uow.CourierRepository().Get(ctx, query.CourierID()); err != nil {
		return nil, err
	}

	return uow.RiskReviewRepository().ListByCourier(ctx, query.CourierID())
}
