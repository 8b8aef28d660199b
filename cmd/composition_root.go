package cmd

import (
	"log/slog"

	httpadapter "lastmile/internal/adapters/in/http"
	"lastmile/internal/adapters/out/postgres"
	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/core/application/usecases/queries"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/territory"
	"lastmile/internal/core/domain/services"
	"lastmile/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot builds the service graph once. Domain services that hold
// state (catalog, random source) are shared by every handler.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	catalog    *territory.Catalog
	random     kernel.RandomSource
	analyzer   *services.RiskAnalyzer
	logger     *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	catalog := territory.DefaultCatalog()
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		catalog:    catalog,
		random:     kernel.DefaultRandomSource(),
		analyzer:   services.NewRiskAnalyzer(catalog),
		logger:     logger,
	}
}

func (c *CompositionRoot) courierUoWFactory() commands.CourierUoWFactory {
	return FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) deliveryUoWFactory() commands.DeliveryUoWFactory {
	return FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateCourierCommandHandler() commands.CreateCourierCommandHandler {
	return commands.NewCreateCourierCommandHandler(c.courierUoWFactory(), c.catalog)
}

func (c *CompositionRoot) CreateUpdateCourierLocationCommandHandler() commands.UpdateCourierLocationCommandHandler {
	return commands.NewUpdateCourierLocationCommandHandler(c.courierUoWFactory())
}

func (c *CompositionRoot) CreateUpdateCourierProfileCommandHandler() commands.UpdateCourierProfileCommandHandler {
	return commands.NewUpdateCourierProfileCommandHandler(c.courierUoWFactory())
}

func (c *CompositionRoot) CreateCreateDeliveryCommandHandler() commands.CreateDeliveryCommandHandler {
	return commands.NewCreateDeliveryCommandHandler(c.deliveryUoWFactory(), c.catalog)
}

func (c *CompositionRoot) CreateValidatePinCommandHandler() commands.ValidatePinCommandHandler {
	return commands.NewValidatePinCommandHandler(c.deliveryUoWFactory())
}

func (c *CompositionRoot) CreateMatchDeliveryCommandHandler() commands.MatchDeliveryCommandHandler {
	return commands.NewMatchDeliveryCommandHandler(c.uow(), c.random)
}

func (c *CompositionRoot) CreateMatchPendingDeliveriesCommandHandler() commands.MatchPendingDeliveriesCommandHandler {
	return commands.NewMatchPendingDeliveriesCommandHandler(c.uow(), c.random)
}

func (c *CompositionRoot) CreateAdvanceDeliveryStatusCommandHandler() commands.AdvanceDeliveryStatusCommandHandler {
	return commands.NewAdvanceDeliveryStatusCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateRunRiskSweepCommandHandler() commands.RunRiskSweepCommandHandler {
	return commands.NewRunRiskSweepCommandHandler(c.uow(), c.analyzer)
}

func (c *CompositionRoot) CreateGetAvailableCouriersQueryHandler() queries.GetAvailableCouriersQueryHandler {
	return queries.NewGetAvailableCouriersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetUnfinishedDeliveriesQueryHandler() queries.GetUnfinishedDeliveriesQueryHandler {
	return queries.NewGetUnfinishedDeliveriesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateAnalyzeCourierRiskQueryHandler() queries.AnalyzeCourierRiskQueryHandler {
	return queries.NewAnalyzeCourierRiskQueryHandler(c.uowFactory, c.analyzer)
}

func (c *CompositionRoot) CreateAssessCourierSecurityQueryHandler() queries.AssessCourierSecurityQueryHandler {
	assessor := services.NewSecurityAssessor(c.analyzer, services.NewIdentityVerifier())
	return queries.NewAssessCourierSecurityQueryHandler(c.uowFactory, assessor)
}

func (c *CompositionRoot) CreateOptimizeCourierRouteQueryHandler() queries.OptimizeCourierRouteQueryHandler {
	return queries.NewOptimizeCourierRouteQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateListCourierRiskReviewsQueryHandler() queries.ListCourierRiskReviewsQueryHandler {
	return queries.NewListCourierRiskReviewsQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreatePredictDemandQueryHandler() queries.PredictDemandQueryHandler {
	return queries.NewPredictDemandQueryHandler(services.NewDemandPredictor(c.catalog, c.random))
}

func (c *CompositionRoot) CreateModerateChatMessageQueryHandler() queries.ModerateChatMessageQueryHandler {
	return queries.NewModerateChatMessageQueryHandler()
}

// CreateHTTPServer wires every use case into the HTTP adapter.
func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(httpadapter.Handlers{
		CreateCourier:           c.CreateCreateCourierCommandHandler(),
		UpdateCourierLocation:   c.CreateUpdateCourierLocationCommandHandler(),
		UpdateCourierProfile:    c.CreateUpdateCourierProfileCommandHandler(),
		CreateDelivery:          c.CreateCreateDeliveryCommandHandler(),
		MatchDelivery:           c.CreateMatchDeliveryCommandHandler(),
		ValidatePin:             c.CreateValidatePinCommandHandler(),
		AdvanceDeliveryStatus:   c.CreateAdvanceDeliveryStatusCommandHandler(),
		GetAvailableCouriers:    c.CreateGetAvailableCouriersQueryHandler(),
		GetUnfinishedDeliveries: c.CreateGetUnfinishedDeliveriesQueryHandler(),
		AnalyzeCourierRisk:      c.CreateAnalyzeCourierRiskQueryHandler(),
		AssessCourierSecurity:   c.CreateAssessCourierSecurityQueryHandler(),
		OptimizeCourierRoute:    c.CreateOptimizeCourierRouteQueryHandler(),
		ListCourierRiskReviews:  c.CreateListCourierRiskReviewsQueryHandler(),
		PredictDemand:           c.CreatePredictDemandQueryHandler(),
		ModerateChatMessage:     c.CreateModerateChatMessageQueryHandler(),
	}, c.logger)
}

// CreateJobManager wires the matching and risk sweep jobs.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateMatchPendingDeliveriesCommandHandler(),
		c.CreateRunRiskSweepCommandHandler(),
		jobs.Schedules{
			Matching:  c.config.MatchingSchedule,
			RiskSweep: c.config.RiskSweepSchedule,
		},
		c.logger,
	)
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncDeliveryUoWFactory func() commands.DeliveryUoW

func (f FuncDeliveryUoWFactory) Create() commands.DeliveryUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
