package http

import (
	"log/slog"
	"net/http"
	"time"

	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/core/application/usecases/queries"
	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/delivery"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// Server adapts HTTP requests to the command and query handlers.
// Timestamps not supplied by the client are taken from the server clock.
type Server struct {
	h      Handlers
	logger *slog.Logger
	now    func() time.Time
}

// Option customizes a Server.
type Option func(*Server)

// WithClock replaces the wall clock used for request timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer creates a new HTTP server over the given use cases.
func NewServer(handlers Handlers, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		h:      handlers,
		logger: logger.With("component", "http_server"),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetCouriers handles GET /api/v1/couriers - lists available couriers.
func (s *Server) GetCouriers(ctx echo.Context) error {
	city, err := bindCity(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	couriers, err := s.h.GetAvailableCouriers.Handle(
		ctx.Request().Context(),
		queries.NewGetAvailableCouriersQuery(city),
	)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, couriersOf(couriers))
}

// CreateCourier handles POST /api/v1/couriers - registers a courier.
func (s *Server) CreateCourier(ctx echo.Context) error {
	var req NewCourier
	if err := ctx.Bind(&req); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	id := kernel.NewUUID()
	cmd, err := commands.NewCreateCourierCommand(id, req.Name, req.BaseCity, s.now())
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.h.CreateCourier.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, Created{ID: id.Bytes()})
}

// UpdateCourierLocation handles PUT /api/v1/couriers/{id}/location.
func (s *Server) UpdateCourierLocation(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	var req LocationUpdate
	if err = ctx.Bind(&req); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	at := s.now()
	if req.At != nil {
		at = *req.At
	}
	point, err := kernel.NewTrackPoint(req.Lat, req.Lng, at)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewUpdateCourierLocationCommand(id, point)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.h.UpdateCourierLocation.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UpdateCourierProfile handles PUT /api/v1/couriers/{id}/profile.
func (s *Server) UpdateCourierProfile(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	var req CourierProfile
	if err = ctx.Bind(&req); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewUpdateCourierProfileCommand(
		id,
		req.Available,
		courier.IdentityNames{
			OAuth:      req.OAuthName,
			Document:   req.DocumentName,
			BankHolder: req.BankHolderName,
		},
		req.WalletBalance,
		req.RankingScore,
		req.VerifiedAt,
	)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.h.UpdateCourierProfile.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AnalyzeCourierRisk handles GET /api/v1/couriers/{id}/risk.
func (s *Server) AnalyzeCourierRisk(ctx echo.Context) error {
	query, err := s.bindAnalysisQuery(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	report, err := s.h.AnalyzeCourierRisk.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, riskReportOf(report))
}

// AssessCourierSecurity handles GET /api/v1/couriers/{id}/security.
func (s *Server) AssessCourierSecurity(ctx echo.Context) error {
	query, err := s.bindAnalysisQuery(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	assessment, err := s.h.AssessCourierSecurity.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, securityAssessmentOf(assessment))
}

// OptimizeCourierRoute handles GET /api/v1/couriers/{id}/route.
func (s *Server) OptimizeCourierRoute(ctx echo.Context) error {
	query, err := s.bindAnalysisQuery(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	plan, err := s.h.OptimizeCourierRoute.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, routePlanOf(plan))
}

// ListCourierRiskReviews handles GET /api/v1/couriers/{id}/reviews.
func (s *Server) ListCourierRiskReviews(ctx echo.Context) error {
	query, err := s.bindAnalysisQuery(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	reports, err := s.h.ListCourierRiskReviews.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]RiskReport, len(reports))
	for i, r := range reports {
		response[i] = riskReportOf(r)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetDeliveries handles GET /api/v1/deliveries - lists unfinished deliveries.
func (s *Server) GetDeliveries(ctx echo.Context) error {
	city, err := bindCity(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	deliveries, err := s.h.GetUnfinishedDeliveries.Handle(
		ctx.Request().Context(),
		queries.NewGetUnfinishedDeliveriesQuery(city),
	)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, unfinishedDeliveriesOf(deliveries))
}

// CreateDelivery handles POST /api/v1/deliveries - registers a pending delivery.
func (s *Server) CreateDelivery(ctx echo.Context) error {
	var req NewDelivery
	if err := ctx.Bind(&req); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	shopID, err := kernel.UUIDFromBytes(req.ShopID[:])
	if err != nil {
		return s.fail(ctx, errs.NewValueIsInvalidErrorWithCause("shop_id", err))
	}
	pickup, err := addressOf(req.Pickup)
	if err != nil {
		return s.fail(ctx, err)
	}
	drop, err := addressOf(req.Drop)
	if err != nil {
		return s.fail(ctx, err)
	}

	id := kernel.NewUUID()
	cmd, err := commands.NewCreateDeliveryCommand(id, shopID, pickup, drop, req.Priority, s.now())
	if err != nil {
		return s.fail(ctx, err)
	}

	pricing, err := s.h.CreateDelivery.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedDelivery{
		ID:      id.Bytes(),
		Status:  delivery.Pending.String(),
		Pricing: pricingOf(pricing),
	})
}

// MatchDelivery handles POST /api/v1/deliveries/{id}/match.
// A delivery left pending is still a 200 with matched set to false.
func (s *Server) MatchDelivery(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewMatchDeliveryCommand(id, s.now())
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.h.MatchDelivery.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, matchResultOf(result))
}

// ValidatePin handles POST /api/v1/deliveries/{id}/pin/validate.
// Every rejection of the code is reported in the outcome body with 200.
func (s *Server) ValidatePin(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	var req PinAttempt
	if err = ctx.Bind(&req); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewValidatePinCommand(id, req.Code, s.now())
	if err != nil {
		return s.fail(ctx, err)
	}

	outcome, err := s.h.ValidatePin.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, pinOutcomeOf(outcome))
}

// AdvanceDeliveryStatus handles PUT /api/v1/deliveries/{id}/status.
func (s *Server) AdvanceDeliveryStatus(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	var req StatusChange
	if err = ctx.Bind(&req); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	target, err := delivery.ParseStatus(req.Status)
	if err != nil {
		return s.fail(ctx, errs.NewValueIsInvalidErrorWithCause("status", err))
	}

	cmd, err := commands.NewAdvanceDeliveryStatusCommand(id, target, s.now())
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.h.AdvanceDeliveryStatus.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// PredictDemand handles GET /api/v1/demand/{city}.
func (s *Server) PredictDemand(ctx echo.Context) error {
	var city string
	if err := runtime.BindStyledParameterWithOptions("simple", "city", ctx.Param("city"), &city,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true}); err != nil {
		return s.fail(ctx, errs.NewValueIsInvalidErrorWithCause("city", err))
	}

	at, err := s.bindAt(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewPredictDemandQuery(city, at)
	if err != nil {
		return s.fail(ctx, err)
	}

	heatmap, err := s.h.PredictDemand.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, heatmapOf(heatmap))
}

// ModerateChatMessage handles POST /api/v1/chat/moderate.
func (s *Server) ModerateChatMessage(ctx echo.Context) error {
	var req ChatMessage
	if err := ctx.Bind(&req); err != nil {
		return s.badRequest(ctx, "Invalid request body")
	}

	query, err := queries.NewModerateChatMessageQuery(req.Message, req.AuthorID, req.City, s.now())
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.h.ModerateChatMessage.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, moderationResultOf(result))
}

func (s *Server) bindAnalysisQuery(ctx echo.Context) (queries.CourierAnalysisQuery, error) {
	id, err := bindID(ctx)
	if err != nil {
		return queries.CourierAnalysisQuery{}, err
	}
	at, err := s.bindAt(ctx)
	if err != nil {
		return queries.CourierAnalysisQuery{}, err
	}
	return queries.NewCourierAnalysisQuery(id, at)
}

// bindAt reads the optional "at" query parameter, defaulting to now.
func (s *Server) bindAt(ctx echo.Context) (time.Time, error) {
	var at *time.Time
	if err := runtime.BindQueryParameter("form", true, false, "at", ctx.QueryParams(), &at); err != nil {
		return time.Time{}, errs.NewValueIsInvalidErrorWithCause("at", err)
	}
	if at == nil {
		return s.now(), nil
	}
	return *at, nil
}

func bindID(ctx echo.Context) (kernel.UUID, error) {
	var id uuid.UUID
	if err := runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true}); err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	return kernel.UUIDFromBytes(id[:])
}

func bindCity(ctx echo.Context) (string, error) {
	var city *string
	if err := runtime.BindQueryParameter("form", true, false, "city", ctx.QueryParams(), &city); err != nil {
		return "", errs.NewValueIsInvalidErrorWithCause("city", err)
	}
	if city == nil {
		return "", nil
	}
	return *city, nil
}

func addressOf(a Address) (delivery.Address, error) {
	p, err := kernel.NewGeoPoint(a.Lat, a.Lng)
	if err != nil {
		return delivery.Address{}, err
	}
	return delivery.Address{Point: p, City: a.City}, nil
}

func (s *Server) badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}

// fail writes err as a JSON error. Internal failures are logged and their
// details withheld from the client.
func (s *Server) fail(ctx echo.Context, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), "Request failed",
			"method", ctx.Request().Method,
			"path", ctx.Path(),
			"error", err,
		)
		return ctx.JSON(status, Error{Code: status, Message: "Internal error"})
	}
	return ctx.JSON(status, Error{Code: status, Message: err.Error()})
}
