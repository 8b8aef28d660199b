package queries

import (
	"context"

	"lastmile/internal/core/domain/services"
	"lastmile/internal/core/ports"
)

// AssessCourierSecurityQueryHandler combines risk analysis with the identity
// verification policy and the name consistency check.
type AssessCourierSecurityQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	assessor   *services.SecurityAssessor
}

func NewAssessCourierSecurityQueryHandler(
	uowFactory ports.UnitOfWorkFactory,
	assessor *services.SecurityAssessor,
) AssessCourierSecurityQueryHandler {
	return AssessCourierSecurityQueryHandler{
		uowFactory: uowFactory,
		assessor:   assessor,
	}
}

func (h AssessCourierSecurityQueryHandler) Handle(
	ctx context.Context,
	query CourierAnalysisQuery,
) (services.SecurityAssessment, error) {
	if err := query.Validate(); err != nil {
		return services.SecurityAssessment{}, err
	}

	c, err := h.uowFactory.Create().CourierRepository().Get(ctx, query.CourierID())
	if err != nil {
		return services.SecurityAssessment{}, err
	}

	return h.assessor.Assess(c, query.At())
}
