package services_test

import (
	"testing"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/delivery"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliveryMatcher_Select(t *testing.T) {
	matcher := services.NewDeliveryMatcher()

	t.Run("should prefer the best weighted score", func(t *testing.T) {
		d := newDelivery(t, saoRoque, mairinque, "São Roque", 0)
		far := newCourier(t, withLocation(kernel.MustGeoPoint(-23.5500, -47.1360)))
		near := newCourier(t, withLocation(saoRoque))

		decision, err := matcher.Select(d, []*courier.Courier{far, near})

		require.NoError(t, err)
		require.True(t, decision.Matched)
		assert.True(t, decision.Courier.IsEqual(near))
		assert.InDelta(t, 0, decision.Best.DistanceToPickup, 1e-9)
		assert.InDelta(t, 100, decision.Best.ProximityScore, 1e-9)
		assert.InDelta(t, 100, decision.Best.WeightedScore, 1e-9)
		assert.Len(t, decision.Candidates, 2)
	})

	t.Run("should blend ranking and proximity", func(t *testing.T) {
		d := newDelivery(t, saoRoque, mairinque, "São Roque", 0)
		lowRankedNear := newCourier(t, withLocation(saoRoque), withRanking(60))
		highRankedFar := newCourier(t, withLocation(kernel.MustGeoPoint(-23.5500, -47.1360)), withRanking(100))

		decision, err := matcher.Select(d, []*courier.Courier{lowRankedNear, highRankedFar})

		require.NoError(t, err)
		assert.True(t, decision.Courier.IsEqual(highRankedFar))
		distance := saoRoque.DistanceTo(kernel.MustGeoPoint(-23.5500, -47.1360))
		assert.InDelta(t, 70+(100-distance*10)*0.3, decision.Best.WeightedScore, 1e-9)
	})

	t.Run("should never pick unavailable or out-of-city couriers", func(t *testing.T) {
		d := newDelivery(t, saoRoque, mairinque, "São Roque", 0)
		offline := newCourier(t, withLocation(saoRoque), unavailable())
		otherCity := newCourier(t, withLocation(saoRoque), withCity("Mairinque"))
		noLocation := newCourier(t)

		decision, err := matcher.Select(d, []*courier.Courier{offline, otherCity, noLocation})

		require.NoError(t, err)
		assert.False(t, decision.Matched)
		assert.Nil(t, decision.Courier)
		assert.Empty(t, decision.Candidates)
	})

	t.Run("should break equal scores by distance", func(t *testing.T) {
		d := newDelivery(t, saoRoque, mairinque, "São Roque", 0)
		farther := newCourier(t, withRanking(50), withLocation(kernel.MustGeoPoint(-23.7000, -47.1360)))
		closer := newCourier(t, withRanking(50), withLocation(kernel.MustGeoPoint(-23.6500, -47.1360)))

		decision, err := matcher.Select(d, []*courier.Courier{farther, closer})

		require.NoError(t, err)
		assert.InDelta(t, 35, decision.Best.WeightedScore, 1e-9)
		assert.True(t, decision.Courier.IsEqual(closer))
	})

	t.Run("should keep the first seen on a full tie", func(t *testing.T) {
		d := newDelivery(t, saoRoque, mairinque, "São Roque", 0)
		first := newCourier(t, withLocation(mairinque))
		second := newCourier(t, withLocation(mairinque))

		decision, err := matcher.Select(d, []*courier.Courier{first, second})

		require.NoError(t, err)
		assert.True(t, decision.Courier.IsEqual(first))
	})

	t.Run("should reject invalid input", func(t *testing.T) {
		_, err := matcher.Select(&delivery.Delivery{}, nil)
		require.ErrorIs(t, err, delivery.ErrDeliveryIsNotConstructed)

		d := newDelivery(t, saoRoque, mairinque, "São Roque", 0)
		_, err = matcher.Select(d, []*courier.Courier{{}})
		require.ErrorIs(t, err, courier.ErrCourierIsNotConstructed)
	})
}

func TestDeliveryMatcher_Dispatch(t *testing.T) {
	matcher := services.NewDeliveryMatcher()

	t.Run("should match delivery and issue pin", func(t *testing.T) {
		d := newDelivery(t, saoRoque, mairinque, "São Roque", 0)
		c := newCourier(t, withLocation(saoRoque))

		decision, err := matcher.Dispatch(d, []*courier.Courier{c}, kernel.NewSeededRandomSource(1), now)

		require.NoError(t, err)
		require.True(t, decision.Matched)
		assert.Equal(t, delivery.Matched, d.Status())
		require.NotNil(t, d.CourierID())
		assert.True(t, d.CourierID().IsEqual(c.ID()))
		assert.NotNil(t, d.Pin())
	})

	t.Run("should leave delivery pending without candidates", func(t *testing.T) {
		d := newDelivery(t, saoRoque, mairinque, "São Roque", 0)

		decision, err := matcher.Dispatch(d, nil, kernel.NewSeededRandomSource(1), now)

		require.NoError(t, err)
		assert.False(t, decision.Matched)
		assert.Equal(t, delivery.Pending, d.Status())
		assert.Nil(t, d.Pin())
	})

	t.Run("should fail on an already matched delivery", func(t *testing.T) {
		d := newDelivery(t, saoRoque, mairinque, "São Roque", 0)
		c := newCourier(t, withLocation(saoRoque))
		_, err := matcher.Dispatch(d, []*courier.Courier{c}, kernel.NewSeededRandomSource(1), now)
		require.NoError(t, err)

		_, err = matcher.Dispatch(d, []*courier.Courier{c}, kernel.NewSeededRandomSource(1), now)

		require.ErrorIs(t, err, delivery.ErrInvalidTransition)
	})
}
