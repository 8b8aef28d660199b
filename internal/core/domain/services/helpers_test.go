package services_test

import (
	"testing"
	"time"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/delivery"
	"lastmile/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/require"
)

var (
	now         = time.Date(2025, 3, 3, 15, 0, 0, 0, time.UTC) // Monday
	saoRoque    = kernel.MustGeoPoint(-23.5320, -47.1360)
	mairinque   = kernel.MustGeoPoint(-23.5450, -47.1680)
	ibiunaPoint = kernel.MustGeoPoint(-23.6560, -47.2230)
)

type courierOption func(*courier.State)

func withLocation(p kernel.GeoPoint) courierOption {
	return func(s *courier.State) { s.Location = &p }
}

func withRanking(score int) courierOption {
	return func(s *courier.State) { s.RankingScore = score }
}

func withCity(city string) courierOption {
	return func(s *courier.State) { s.BaseCity = city }
}

func unavailable() courierOption {
	return func(s *courier.State) { s.Available = false }
}

func withHistory(h ...courier.DeliverySnapshot) courierOption {
	return func(s *courier.State) { s.DeliveryHistory = h }
}

func withTrack(points ...kernel.TrackPoint) courierOption {
	return func(s *courier.State) { s.LocationHistory = points }
}

func withCreatedAt(at time.Time) courierOption {
	return func(s *courier.State) { s.CreatedAt = at }
}

func withVerifiedAt(at time.Time) courierOption {
	return func(s *courier.State) { s.LastVerifiedAt = &at }
}

func withRiskLevel(level courier.RiskLevel) courierOption {
	return func(s *courier.State) { s.RiskLevel = level }
}

func withWallet(balance float64) courierOption {
	return func(s *courier.State) { s.WalletBalance = balance }
}

func withNames(n courier.IdentityNames) courierOption {
	return func(s *courier.State) { s.Names = n }
}

func newCourier(t *testing.T, opts ...courierOption) *courier.Courier {
	t.Helper()
	state := courier.State{
		ID:           kernel.NewUUID(),
		Name:         "Ana Souza",
		BaseCity:     "São Roque",
		Available:    true,
		RankingScore: courier.DefaultRankingScore,
		CreatedAt:    now.Add(-90 * 24 * time.Hour),
	}
	for _, opt := range opts {
		opt(&state)
	}
	c, err := courier.RestoreCourier(state)
	require.NoError(t, err)
	return c
}

func newDelivery(t *testing.T, pickup, drop kernel.GeoPoint, city string, priority int) *delivery.Delivery {
	t.Helper()
	d, err := delivery.NewDelivery(
		kernel.NewUUID(), kernel.NewUUID(),
		delivery.Address{Point: pickup, City: city},
		delivery.Address{Point: drop, City: city},
		priority, now,
	)
	require.NoError(t, err)
	return d
}

func track(t *testing.T, start time.Time, step time.Duration, coords ...[2]float64) []kernel.TrackPoint {
	t.Helper()
	points := make([]kernel.TrackPoint, 0, len(coords))
	for i, c := range coords {
		p, err := kernel.NewTrackPoint(c[0], c[1], start.Add(time.Duration(i)*step))
		require.NoError(t, err)
		points = append(points, p)
	}
	return points
}

func snapshot(status delivery.Status) courier.DeliverySnapshot {
	return courier.DeliverySnapshot{DeliveryID: kernel.NewUUID(), Status: status}
}

func timedSnapshot(minutes int) courier.DeliverySnapshot {
	pickup := now.Add(-24 * time.Hour)
	delivered := pickup.Add(time.Duration(minutes) * time.Minute)
	return courier.DeliverySnapshot{
		DeliveryID:        kernel.NewUUID(),
		Status:            delivery.Delivered,
		PickupConfirmedAt: &pickup,
		DeliveredAt:       &delivered,
	}
}

// fixedSource returns the same draw every time.
type fixedSource struct{ value float64 }

func (f fixedSource) Float64() float64 { return f.value }

func (f fixedSource) IntN(n int) int { return int(f.value * float64(n)) }
