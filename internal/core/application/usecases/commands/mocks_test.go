package commands_test

import (
	"context"
	"testing"
	"time"

	"lastmile/internal/core/application/usecases/commands"
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
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Update(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) GetAllAvailable(ctx context.Context) ([]*courier.Courier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*courier.Courier), args.Error(1)
}

type MockDeliveryRepository struct{ mock.Mock }

func (m *MockDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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
	args := m.Called(ctx, report)
	return args.Error(0)
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

// MockUoW satisfies every unit of work flavour used by the handlers.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) CourierRepository() ports.CourierRepository {
	args := m.Called()
	return args.Get(0).(ports.CourierRepository)
}

func (m *MockUoW) DeliveryRepository() ports.DeliveryRepository {
	args := m.Called()
	return args.Get(0).(ports.DeliveryRepository)
}

func (m *MockUoW) RiskReviewRepository() ports.RiskReviewRepository {
	args := m.Called()
	return args.Get(0).(ports.RiskReviewRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockCourierUoWFactory struct{ mock.Mock }

func (m *MockCourierUoWFactory) Create() commands.CourierUoW {
	args := m.Called()
	return args.Get(0).(commands.CourierUoW)
}

type MockDeliveryUoWFactory struct{ mock.Mock }

func (m *MockDeliveryUoWFactory) Create() commands.DeliveryUoW {
	args := m.Called()
	return args.Get(0).(commands.DeliveryUoW)
}

// fixedSource always draws the same value.
type fixedSource struct{ value float64 }

func (s fixedSource) Float64() float64 { return s.value }

func (s fixedSource) IntN(n int) int { return int(s.value * float64(n)) }

func newTestCourier(t *testing.T, city string, lat, lng float64) *courier.Courier {
	t.Helper()

	c, err := courier.NewCourier(kernel.NewUUID(), "Ana Souza", city, now.AddDate(0, -3, 0))
	require.NoError(t, err)

	p, err := kernel.NewTrackPoint(lat, lng, now.Add(-time.Minute))
	require.NoError(t, err)
	require.NoError(t, c.UpdateLocation(p))
	return c
}

func newTestDelivery(t *testing.T, city string) *delivery.Delivery {
	t.Helper()

	pickup := delivery.Address{Point: kernel.MustGeoPoint(-23.5290, -47.1350), City: city}
	drop := delivery.Address{Point: kernel.MustGeoPoint(-23.5400, -47.1500), City: city}

	d, err := delivery.NewDelivery(kernel.NewUUID(), kernel.NewUUID(), pickup, drop, 5, now.Add(-10*time.Minute))
	require.NoError(t, err)
	return d
}

func matchedTestDelivery(t *testing.T, courierID kernel.UUID) *delivery.Delivery {
	t.Helper()

	d := newTestDelivery(t, "São Roque")
	require.NoError(t, d.Match(courierID, fixedSource{value: 0.5}, now.Add(-5*time.Minute)))
	return d
}
