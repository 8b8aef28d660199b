package http

import (
	"context"

	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/core/application/usecases/queries"
	"lastmile/internal/core/domain/model/delivery"
	"lastmile/internal/core/domain/services"
)

// Use case contracts consumed by the server. The command and query handlers
// satisfy them as they are; tests substitute stubs.
type (
	createCourierHandler interface {
		Handle(ctx context.Context, cmd commands.CreateCourierCommand) error
	}
	updateCourierLocationHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateCourierLocationCommand) error
	}
	updateCourierProfileHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateCourierProfileCommand) error
	}
	createDeliveryHandler interface {
		Handle(ctx context.Context, cmd commands.CreateDeliveryCommand) (delivery.Pricing, error)
	}
	matchDeliveryHandler interface {
		Handle(ctx context.Context, cmd commands.MatchDeliveryCommand) (commands.MatchResult, error)
	}
	validatePinHandler interface {
		Handle(ctx context.Context, cmd commands.ValidatePinCommand) (delivery.PinOutcome, error)
	}
	advanceDeliveryStatusHandler interface {
		Handle(ctx context.Context, cmd commands.AdvanceDeliveryStatusCommand) error
	}

	getAvailableCouriersHandler interface {
		Handle(
			ctx context.Context,
			query queries.GetAvailableCouriersQuery,
		) ([]queries.GetAvailableCouriersQueryResponse, error)
	}
	getUnfinishedDeliveriesHandler interface {
		Handle(
			ctx context.Context,
			query queries.GetUnfinishedDeliveriesQuery,
		) ([]queries.GetUnfinishedDeliveriesQueryResponse, error)
	}
	analyzeCourierRiskHandler interface {
		Handle(ctx context.Context, query queries.CourierAnalysisQuery) (services.RiskReport, error)
	}
	assessCourierSecurityHandler interface {
		Handle(ctx context.Context, query queries.CourierAnalysisQuery) (services.SecurityAssessment, error)
	}
	optimizeCourierRouteHandler interface {
		Handle(ctx context.Context, query queries.CourierAnalysisQuery) (services.RoutePlan, error)
	}
	listCourierRiskReviewsHandler interface {
		Handle(ctx context.Context, query queries.CourierAnalysisQuery) ([]services.RiskReport, error)
	}
	predictDemandHandler interface {
		Handle(ctx context.Context, query queries.PredictDemandQuery) (services.Heatmap, error)
	}
	moderateChatMessageHandler interface {
		Handle(ctx context.Context, query queries.ModerateChatMessageQuery) (services.ModerationResult, error)
	}
)

// Handlers groups the use cases the server exposes.
type Handlers struct {
	CreateCourier           createCourierHandler
	UpdateCourierLocation   updateCourierLocationHandler
	UpdateCourierProfile    updateCourierProfileHandler
	CreateDelivery          createDeliveryHandler
	MatchDelivery           matchDeliveryHandler
	ValidatePin             validatePinHandler
	AdvanceDeliveryStatus   advanceDeliveryStatusHandler
	GetAvailableCouriers    getAvailableCouriersHandler
	GetUnfinishedDeliveries getUnfinishedDeliveriesHandler
	AnalyzeCourierRisk      analyzeCourierRiskHandler
	AssessCourierSecurity   assessCourierSecurityHandler
	OptimizeCourierRoute    optimizeCourierRouteHandler
	ListCourierRiskReviews  listCourierRiskReviewsHandler
	PredictDemand           predictDemandHandler
	ModerateChatMessage     moderateChatMessageHandler
}
