package queries

import (
	"context"

	"lastmile/internal/core/domain/services"
)

// PredictDemandQueryHandler forecasts zone demand for a city.
type PredictDemandQueryHandler struct {
	predictor *services.DemandPredictor
}

func NewPredictDemandQueryHandler(predictor *services.DemandPredictor) PredictDemandQueryHandler {
	return PredictDemandQueryHandler{
		predictor: predictor,
	}
}

// Handle builds the heatmap of the query's city. A city without zones in the
// catalog gets an empty heatmap with a low level, not an error.
func (h PredictDemandQueryHandler) Handle(_ context.Context, query PredictDemandQuery) (services.Heatmap, error) {
	if err := query.Validate(); err != nil {
		return services.Heatmap{}, err
	}

	return h.predictor.Predict(query.City(), query.At()), nil
}
