package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Register mounts the API under /api/v1 behind contract validation, plus
// /health and the swagger UI at /swagger/.
func (s *Server) Register(e *echo.Echo) error {
	doc, err := LoadOpenAPI()
	if err != nil {
		return err
	}
	validate, err := requestValidator(doc)
	if err != nil {
		return err
	}
	if err = registerSwaggerDoc(doc); err != nil {
		return err
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1", validate)

	api.GET("/couriers", s.GetCouriers)
	api.POST("/couriers", s.CreateCourier)
	api.PUT("/couriers/:id/location", s.UpdateCourierLocation)
	api.PUT("/couriers/:id/profile", s.UpdateCourierProfile)
	api.GET("/couriers/:id/risk", s.AnalyzeCourierRisk)
	api.GET("/couriers/:id/security", s.AssessCourierSecurity)
	api.GET("/couriers/:id/route", s.OptimizeCourierRoute)
	api.GET("/couriers/:id/reviews", s.ListCourierRiskReviews)

	api.GET("/deliveries", s.GetDeliveries)
	api.POST("/deliveries", s.CreateDelivery)
	api.POST("/deliveries/:id/match", s.MatchDelivery)
	api.POST("/deliveries/:id/pin/validate", s.ValidatePin)
	api.PUT("/deliveries/:id/status", s.AdvanceDeliveryStatus)

	api.GET("/demand/:city", s.PredictDemand)
	api.POST("/chat/moderate", s.ModerateChatMessage)

	return nil
}
