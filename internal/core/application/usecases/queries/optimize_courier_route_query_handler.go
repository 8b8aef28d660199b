package queries

import (
	"context"
	"errors"

	"lastmile/internal/core/domain/services"
	"lastmile/internal/core/ports"
)

// ErrCourierLocationIsUnknown is returned when planning a route for a courier
// that never reported a position.
var ErrCourierLocationIsUnknown = errors.New("courier location is unknown")

// OptimizeCourierRouteQueryHandler plans the route through every delivery the
// courier is carrying, starting at the courier's current position.
//
// Example:
//
//	plan, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	for _, p := range plan.Sequence {
//	    fmt.Println(p.Kind, p.Location)
//	}
type OptimizeCourierRouteQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	optimizer  services.RouteOptimizer
}

func NewOptimizeCourierRouteQueryHandler(uowFactory ports.UnitOfWorkFactory) OptimizeCourierRouteQueryHandler {
	return OptimizeCourierRouteQueryHandler{
		uowFactory: uowFactory,
		optimizer:  services.NewRouteOptimizer(),
	}
}

// Handle returns an empty plan when the courier carries nothing.
func (h OptimizeCourierRouteQueryHandler) Handle(
	ctx context.Context,
	query CourierAnalysisQuery,
) (services.RoutePlan, error) {
	if err := query.Validate(); err != nil {
		return services.RoutePlan{}, err
	}

	uow := h.uowFactory.Create()

	c, err := uow.CourierRepository().Get(ctx, query.CourierID())
	if err != nil {
		return services.RoutePlan{}, err
	}
	start := c.Location()
	if start == nil {
		return services.RoutePlan{}, ErrCourierLocationIsUnknown
	}

	active, err := uow.DeliveryRepository().GetActiveByCourier(ctx, c.ID())
	if err != nil {
		return services.RoutePlan{}, err
	}

	return h.optimizer.Optimize(services.StopsFor(active), *start, query.At()), nil
}
