package riskreviewrepo_test

import (
	"context"
	"testing"
	"time"

	"lastmile/internal/adapters/out/postgres/riskreviewrepo"
	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/services"

	"github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var now = time.Date(2025, 3, 3, 15, 0, 0, 0, time.UTC)

type RiskReviewRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *riskreviewrepo.GormRiskReviewRepository
}

func (suite *RiskReviewRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&riskreviewrepo.RiskReviewDTO{}))
	suite.repository = riskreviewrepo.NewGormRiskReviewRepository(db)
}

func (suite *RiskReviewRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE risk_reviews").Error)
}

func (suite *RiskReviewRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *RiskReviewRepositoryIntegrationTestSuite) TestAdd_ThenListByCourier_NewestFirst() {
	ctx := context.Background()
	courierID := kernel.NewUUID()

	older := highRiskReport(courierID, now.Add(-time.Hour))
	newer := highRiskReport(courierID, now)
	unrelated := highRiskReport(kernel.NewUUID(), now)

	for _, r := range []services.RiskReport{older, newer, unrelated} {
		suite.Require().NoError(suite.repository.Add(ctx, r))
	}

	reports, err := suite.repository.ListByCourier(ctx, courierID)
	suite.Require().NoError(err)

	suite.Require().Len(reports, 2)
	suite.True(newer.AnalyzedAt.Equal(reports[0].AnalyzedAt))
	suite.True(older.AnalyzedAt.Equal(reports[1].AnalyzedAt))

	got := reports[0]
	suite.Equal(courierID, got.CourierID)
	suite.InDelta(75.0, got.RiskScore, 1e-9)
	suite.Equal(courier.RiskHigh, got.RiskLevel)
	suite.True(got.RequiresManualReview)
	suite.Equal(newer.RecommendedActions, got.RecommendedActions)
	suite.Require().Len(got.Factors, 4)
	suite.Equal(services.FactorCarouselPattern, got.Factors[0].Factor)
	suite.InDelta(0.1, got.Factors[0].Metrics["acceptance_rate"], 1e-9)
}

func (suite *RiskReviewRepositoryIntegrationTestSuite) TestAdd_StoresFlaggedFactorsAsArray() {
	ctx := context.Background()
	courierID := kernel.NewUUID()
	suite.Require().NoError(suite.repository.Add(ctx, highRiskReport(courierID, now)))

	var flagged pq.StringArray
	err := suite.db.Raw(
		"SELECT flagged_factors FROM risk_reviews WHERE ? = ANY(flagged_factors)",
		string(services.FactorSpeedAnomaly),
	).Row().Scan(&flagged)
	suite.Require().NoError(err)

	suite.ElementsMatch(pq.StringArray{
		string(services.FactorCarouselPattern),
		string(services.FactorSpeedAnomaly),
		string(services.FactorLocationConsistency),
	}, flagged)
}

func (suite *RiskReviewRepositoryIntegrationTestSuite) TestListByCourier_Empty() {
	reports, err := suite.repository.ListByCourier(context.Background(), kernel.NewUUID())

	suite.Require().NoError(err)
	suite.Empty(reports)
}

func highRiskReport(courierID kernel.UUID, at time.Time) services.RiskReport {
	return services.RiskReport{
		CourierID: courierID,
		RiskScore: 75,
		RiskLevel: courier.RiskHigh,
		Factors: []services.RiskFactorResult{
			{
				Factor:  services.FactorCarouselPattern,
				Score:   1,
				Details: "Low acceptance rate: 10.0%",
				Metrics: map[string]float64{"acceptance_rate": 0.1},
			},
			{
				Factor:  services.FactorSpeedAnomaly,
				Score:   1,
				Details: "Abnormal max speed: 3000.0 km/h",
				Metrics: map[string]float64{"max_speed": 3000, "avg_speed": 2900},
			},
			{
				Factor:  services.FactorTimeAnomaly,
				Details: "Insufficient completed deliveries",
				Metrics: map[string]float64{},
			},
			{
				Factor:  services.FactorLocationConsistency,
				Score:   1,
				Details: "Location inconsistencies detected: 180.0%",
				Metrics: map[string]float64{"impossible_jumps": 4, "out_of_bounds_rate": 0.8},
			},
		},
		RequiresManualReview: true,
		RecommendedActions:   services.RecommendedActions(courier.RiskHigh),
		AnalyzedAt:           at,
	}
}

func TestRiskReviewRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(RiskReviewRepositoryIntegrationTestSuite))
}
