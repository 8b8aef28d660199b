package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"lastmile/internal/core/application/usecases/queries"
	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/delivery"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/territory"
	"lastmile/internal/core/domain/services"
	"lastmile/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewCourierAnalysisQuery(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		id := kernel.NewUUID()
		query, err := queries.NewCourierAnalysisQuery(id, now)
		require.NoError(t, err)
		require.NoError(t, query.Validate())
		assert.Equal(t, id, query.CourierID())
		assert.Equal(t, now, query.At())
	})

	t.Run("missing timestamp", func(t *testing.T) {
		_, err := queries.NewCourierAnalysisQuery(kernel.NewUUID(), time.Time{})
		require.ErrorIs(t, err, queries.ErrTimestampIsRequired)
	})

	t.Run("missing courier", func(t *testing.T) {
		_, err := queries.NewCourierAnalysisQuery(kernel.UUID{}, now)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("zero value", func(t *testing.T) {
		var query queries.CourierAnalysisQuery
		require.ErrorIs(t, query.Validate(), queries.ErrCourierAnalysisQueryIsNotConstructed)
	})
}

func TestAnalyzeCourierRiskQueryHandler(t *testing.T) {
	ctx := context.Background()
	catalog := territory.DefaultCatalog()

	t.Run("fresh courier is low risk", func(t *testing.T) {
		uow := newMockUoW()
		c := newTestCourier(t, -23.53, -47.13)
		uow.couriers.On("Get", ctx, c.ID()).Return(c, nil)

		handler := queries.NewAnalyzeCourierRiskQueryHandler(stubUoWFactory{uow}, services.NewRiskAnalyzer(catalog))
		query, err := queries.NewCourierAnalysisQuery(c.ID(), now)
		require.NoError(t, err)

		report, err := handler.Handle(ctx, query)
		require.NoError(t, err)
		assert.Equal(t, c.ID(), report.CourierID)
		assert.Equal(t, courier.RiskLow, report.RiskLevel)
		assert.InDelta(t, 0.0, report.RiskScore, 1e-9)
		assert.Len(t, report.Factors, 4)
		assert.False(t, report.RequiresManualReview)
		assert.Equal(t, now, report.AnalyzedAt)
	})

	t.Run("unknown courier", func(t *testing.T) {
		uow := newMockUoW()
		id := kernel.NewUUID()
		notFound := errs.NewObjectNotFoundError("courier", id)
		uow.couriers.On("Get", ctx, id).Return(nil, notFound)

		handler := queries.NewAnalyzeCourierRiskQueryHandler(stubUoWFactory{uow}, services.NewRiskAnalyzer(catalog))
		query, err := queries.NewCourierAnalysisQuery(id, now)
		require.NoError(t, err)

		_, err = handler.Handle(ctx, query)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("unconstructed query", func(t *testing.T) {
		uow := newMockUoW()
		handler := queries.NewAnalyzeCourierRiskQueryHandler(stubUoWFactory{uow}, services.NewRiskAnalyzer(catalog))

		_, err := handler.Handle(ctx, queries.CourierAnalysisQuery{})
		require.ErrorIs(t, err, queries.ErrCourierAnalysisQueryIsNotConstructed)
		uow.couriers.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}

func TestAssessCourierSecurityQueryHandler(t *testing.T) {
	ctx := context.Background()
	analyzer := services.NewRiskAnalyzer(territory.DefaultCatalog())
	assessor := services.NewSecurityAssessor(analyzer, services.NewIdentityVerifier())

	t.Run("never verified courier needs verification", func(t *testing.T) {
		uow := newMockUoW()
		c := newTestCourier(t, -23.53, -47.13)
		uow.couriers.On("Get", ctx, c.ID()).Return(c, nil)

		handler := queries.NewAssessCourierSecurityQueryHandler(stubUoWFactory{uow}, assessor)
		query, err := queries.NewCourierAnalysisQuery(c.ID(), now)
		require.NoError(t, err)

		assessment, err := handler.Handle(ctx, query)
		require.NoError(t, err)
		assert.Equal(t, c.ID(), assessment.CourierID)
		assert.True(t, assessment.NeedsIdentityVerification)
		assert.InDelta(t, 100.0, assessment.OverallSecurityScore, 1e-9)
	})

	t.Run("repository error", func(t *testing.T) {
		uow := newMockUoW()
		id := kernel.NewUUID()
		uow.couriers.On("Get", ctx, id).Return(nil, errors.New("connection reset"))

		handler := queries.NewAssessCourierSecurityQueryHandler(stubUoWFactory{uow}, assessor)
		query, err := queries.NewCourierAnalysisQuery(id, now)
		require.NoError(t, err)

		_, err = handler.Handle(ctx, query)
		require.EqualError(t, err, "connection reset")
	})
}

func TestOptimizeCourierRouteQueryHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("pickup precedes its drop", func(t *testing.T) {
		uow := newMockUoW()
		c := newTestCourier(t, -23.53, -47.13)
		urgent := newActiveDelivery(t, c.ID(), 9,
			kernel.MustGeoPoint(-23.54, -47.14), kernel.MustGeoPoint(-23.56, -47.16))
		regular := newActiveDelivery(t, c.ID(), 2,
			kernel.MustGeoPoint(-23.52, -47.12), kernel.MustGeoPoint(-23.50, -47.10))

		uow.couriers.On("Get", ctx, c.ID()).Return(c, nil)
		uow.deliveries.On("GetActiveByCourier", ctx, c.ID()).Return([]*delivery.Delivery{regular, urgent}, nil)

		handler := queries.NewOptimizeCourierRouteQueryHandler(stubUoWFactory{uow})
		query, err := queries.NewCourierAnalysisQuery(c.ID(), now)
		require.NoError(t, err)

		plan, err := handler.Handle(ctx, query)
		require.NoError(t, err)
		require.Len(t, plan.Sequence, 5)

		assert.Equal(t, services.PointStart, plan.Sequence[0].Kind)
		assert.Equal(t, services.PointPickup, plan.Sequence[1].Kind)
		assert.Equal(t, urgent.ID(), plan.Sequence[1].DeliveryID)
		assert.Equal(t, services.PointDelivery, plan.Sequence[2].Kind)
		assert.Equal(t, urgent.ID(), plan.Sequence[2].DeliveryID)
		assert.Equal(t, regular.ID(), plan.Sequence[3].DeliveryID)
		assert.Greater(t, plan.TotalDistanceKm, 0.0)
	})

	t.Run("nothing to carry", func(t *testing.T) {
		uow := newMockUoW()
		c := newTestCourier(t, -23.53, -47.13)
		uow.couriers.On("Get", ctx, c.ID()).Return(c, nil)
		uow.deliveries.On("GetActiveByCourier", ctx, c.ID()).Return([]*delivery.Delivery{}, nil)

		handler := queries.NewOptimizeCourierRouteQueryHandler(stubUoWFactory{uow})
		query, err := queries.NewCourierAnalysisQuery(c.ID(), now)
		require.NoError(t, err)

		plan, err := handler.Handle(ctx, query)
		require.NoError(t, err)
		assert.Empty(t, plan.Sequence)
		assert.Zero(t, plan.TotalDistanceKm)
	})

	t.Run("courier without location", func(t *testing.T) {
		uow := newMockUoW()
		c, err := courier.NewCourier(kernel.NewUUID(), "Bruno Lima", "Ibiúna", now)
		require.NoError(t, err)
		uow.couriers.On("Get", ctx, c.ID()).Return(c, nil)

		handler := queries.NewOptimizeCourierRouteQueryHandler(stubUoWFactory{uow})
		query, err := queries.NewCourierAnalysisQuery(c.ID(), now)
		require.NoError(t, err)

		_, err = handler.Handle(ctx, query)
		require.ErrorIs(t, err, queries.ErrCourierLocationIsUnknown)
		uow.deliveries.AssertNotCalled(t, "GetActiveByCourier", mock.Anything, mock.Anything)
	})
}

func TestListCourierRiskReviewsQueryHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("lists reviews", func(t *testing.T) {
		uow := newMockUoW()
		c := newTestCourier(t, -23.53, -47.13)
		reports := []services.RiskReport{
			{CourierID: c.ID(), RiskScore: 80, RiskLevel: courier.RiskCritical, AnalyzedAt: now},
			{CourierID: c.ID(), RiskScore: 50, RiskLevel: courier.RiskHigh, AnalyzedAt: now.Add(-time.Hour)},
		}
		uow.couriers.On("Get", ctx, c.ID()).Return(c, nil)
		uow.reviews.On("ListByCourier", ctx, c.ID()).Return(reports, nil)

		handler := queries.NewListCourierRiskReviewsQueryHandler(stubUoWFactory{uow})
		query, err := queries.NewCourierAnalysisQuery(c.ID(), now)
		require.NoError(t, err)

		got, err := handler.Handle(ctx, query)
		require.NoError(t, err)
		assert.Equal(t, reports, got)
	})

	t.Run("unknown courier", func(t *testing.T) {
		uow := newMockUoW()
		id := kernel.NewUUID()
		uow.couriers.On("Get", ctx, id).Return(nil, errs.NewObjectNotFoundError("courier", id))

		handler := queries.NewListCourierRiskReviewsQueryHandler(stubUoWFactory{uow})
		query, err := queries.NewCourierAnalysisQuery(id, now)
		require.NoError(t, err)

		_, err = handler.Handle(ctx, query)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		uow.reviews.AssertNotCalled(t, "ListByCourier", mock.Anything, mock.Anything)
	})
}

func TestPredictDemandQueryHandler(t *testing.T) {
	ctx := context.Background()
	catalog := territory.DefaultCatalog()
	handler := queries.NewPredictDemandQueryHandler(
		services.NewDemandPredictor(catalog, kernel.NewSeededRandomSource(7)),
	)

	t.Run("served city", func(t *testing.T) {
		query, err := queries.NewPredictDemandQuery(" São Roque ", now)
		require.NoError(t, err)
		assert.Equal(t, "São Roque", query.City())

		heatmap, err := handler.Handle(ctx, query)
		require.NoError(t, err)
		assert.Equal(t, "São Roque", heatmap.City)
		assert.Len(t, heatmap.Zones, len(catalog.Zones("São Roque")))
		assert.LessOrEqual(t, len(heatmap.TopZones), 3)
		for _, z := range heatmap.Zones {
			assert.GreaterOrEqual(t, z.PredictedDemand, 0.0)
			assert.LessOrEqual(t, z.PredictedDemand, 1.0)
		}
	})

	t.Run("city outside the catalog gets an empty heatmap", func(t *testing.T) {
		query, err := queries.NewPredictDemandQuery("Sorocaba", now)
		require.NoError(t, err)

		heatmap, err := handler.Handle(ctx, query)
		require.NoError(t, err)
		assert.Equal(t, "Sorocaba", heatmap.City)
		assert.Empty(t, heatmap.Zones)
		assert.Empty(t, heatmap.TopZones)
		assert.Equal(t, services.DemandLow, heatmap.Overall.Level)
		assert.Zero(t, heatmap.Overall.TotalZones)
	})

	t.Run("invalid query", func(t *testing.T) {
		_, err := queries.NewPredictDemandQuery("  ", time.Time{})
		require.ErrorIs(t, err, queries.ErrCityIsRequired)
		require.ErrorIs(t, err, queries.ErrTimestampIsRequired)

		_, err = handler.Handle(ctx, queries.PredictDemandQuery{})
		require.ErrorIs(t, err, queries.ErrPredictDemandQueryIsNotConstructed)
	})
}

func TestModerateChatMessageQueryHandler(t *testing.T) {
	ctx := context.Background()
	handler := queries.NewModerateChatMessageQueryHandler()

	tests := []struct {
		name   string
		text   string
		action services.ModerationAction
		flag   string
	}{
		{"plain message", "bom dia pessoal", services.ActionApproved, ""},
		{"profanity is masked", "que idiota esse motorista", services.ActionFiltered, services.FlagProfanity},
		{"link is spam", "confira https://promo.example.com", services.ActionBlocked, services.FlagSpam},
		{"emergency goes to review", "teve um assalto na avenida", services.ActionFlaggedForReview, services.FlagEmergency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := queries.NewModerateChatMessageQuery(tt.text, "courier-42", "Ibiúna", now)
			require.NoError(t, err)

			result, err := handler.Handle(ctx, query)
			require.NoError(t, err)
			assert.Equal(t, tt.action, result.Action)
			assert.Equal(t, tt.text, result.OriginalMessage)
			assert.Equal(t, "courier-42", result.AuthorID)
			if tt.flag != "" {
				assert.True(t, result.HasFlag(tt.flag))
			}
		})
	}

	t.Run("author required", func(t *testing.T) {
		_, err := queries.NewModerateChatMessageQuery("oi", " ", "", now)
		require.ErrorIs(t, err, queries.ErrAuthorIsRequired)
	})
}
