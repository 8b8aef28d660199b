package queries_test

import (
	"context"
	"testing"
	"time"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/delivery"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/services"
	"lastmile/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 3, 15, 0, 0, 0, time.UTC)

type MockCourierRepository struct{ mock.Mock }

func (m *MockCourierRepository) Add(ctx context.Context, c *courier.Courier) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCourierRepository) Update(ctx context.Context, c *courier.Courier) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) GetAvailableInCity(ctx context.Context, city string) ([]*courier.Courier, error) {
	args := m.Called(ctx, city)
	return args.Get(0).([]*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) GetAllAvailable(ctx context.Context) ([]*courier.Courier, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*courier.Courier), args.Error(1)
}

type MockDeliveryRepository struct{ mock.Mock }

func (m *MockDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) GetPending(ctx context.Context, limit int) ([]*delivery.Delivery, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) GetActiveByCourier(
	ctx context.Context,
	courierID kernel.UUID,
) ([]*delivery.Delivery, error) {
	args := m.Called(ctx, courierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.Delivery), args.Error(1)
}

type MockRiskReviewRepository struct{ mock.Mock }

func (m *MockRiskReviewRepository) Add(ctx context.Context, report services.RiskReport) error {
	return m.Called(ctx, report).Error(0)
}

func (m *MockRiskReviewRepository) ListByCourier(
	ctx context.Context,
	courierID kernel.UUID,
) ([]services.RiskReport, error) {
	args := m.Called(ctx, courierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.RiskReport), args.Error(1)
}

// MockUoW hands out the repositories given at construction.
type MockUoW struct {
	mock.Mock
	couriers   *MockCourierRepository
	deliveries *MockDeliveryRepository
	reviews    *MockRiskReviewRepository
}

func newMockUoW() *MockUoW {
	return &MockUoW{
		couriers:   new(MockCourierRepository),
		deliveries: new(MockDeliveryRepository),
		reviews:    new(MockRiskReviewRepository),
	}
}

func (m *MockUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUoW) CourierRepository() ports.CourierRepository       { return m.couriers }
func (m *MockUoW) DeliveryRepository() ports.DeliveryRepository     { return m.deliveries }
func (m *MockUoW) RiskReviewRepository() ports.RiskReviewRepository { return m.reviews }

type stubUoWFactory struct{ uow *MockUoW }

func (f stubUoWFactory) Create() ports.UnitOfWork { return f.uow }

func newTestCourier(t *testing.T, lat, lng float64) *courier.Courier {
	t.Helper()

	c, err := courier.NewCourier(kernel.NewUUID(), "Ana Souza", "São Roque", now.AddDate(0, -3, 0))
	require.NoError(t, err)

	p, err := kernel.NewTrackPoint(lat, lng, now.Add(-time.Minute))
	require.NoError(t, err)
	require.NoError(t, c.UpdateLocation(p))
	return c
}

func newActiveDelivery(t *testing.T, courierID kernel.UUID, priority int, pickup, drop kernel.GeoPoint) *delivery.Delivery {
	t.Helper()

	d, err := delivery.NewDelivery(
		kernel.NewUUID(),
		kernel.NewUUID(),
		delivery.Address{Point: pickup, City: "São Roque"},
		delivery.Address{Point: drop, City: "São Roque"},
		priority,
		now.Add(-30*time.Minute),
	)
	require.NoError(t, err)
	require.NoError(t, d.Match(courierID, kernel.NewSeededRandomSource(1), now.Add(-20*time.Minute)))
	return d
}
