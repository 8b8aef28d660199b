package delivery_test

import (
	"strings"
	"testing"
	"time"

	"lastmile/internal/core/domain/model/delivery"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)

func pickupAddress() delivery.Address {
	return delivery.Address{Point: kernel.MustGeoPoint(-23.5320, -47.1360), City: "São Roque"}
}

func dropAddress() delivery.Address {
	return delivery.Address{Point: kernel.MustGeoPoint(-23.5450, -47.1680), City: "Mairinque"}
}

func newPendingDelivery(t *testing.T) *delivery.Delivery {
	t.Helper()
	d, err := delivery.NewDelivery(kernel.NewUUID(), kernel.NewUUID(), pickupAddress(), dropAddress(), 5, baseTime)
	require.NoError(t, err)
	return d
}

func newMatchedDelivery(t *testing.T) *delivery.Delivery {
	t.Helper()
	d := newPendingDelivery(t)
	require.NoError(t, d.Match(kernel.NewUUID(), kernel.NewSeededRandomSource(1), baseTime.Add(time.Minute)))
	return d
}

func newInTransitDelivery(t *testing.T) *delivery.Delivery {
	t.Helper()
	d := newMatchedDelivery(t)
	require.NoError(t, d.ConfirmPickup(baseTime.Add(10*time.Minute)))
	require.NoError(t, d.StartTransit(baseTime.Add(11*time.Minute)))
	return d
}

func wrongCode(pin *delivery.HandoffPin) string {
	if pin.ConfirmCode() == "0000" {
		return "1111"
	}
	return "0000"
}

func TestNewDelivery(t *testing.T) {
	t.Run("should create a pending priced delivery", func(t *testing.T) {
		d := newPendingDelivery(t)

		require.NoError(t, d.Validate())
		assert.Equal(t, delivery.Pending, d.Status())
		assert.Nil(t, d.CourierID())
		assert.Nil(t, d.Pin())
		assert.Equal(t, 5, d.Priority())
		assert.InDelta(t, 3.57, d.Pricing().DistanceKm, 0.05)
		assert.InDelta(t, delivery.BasePrice, d.Pricing().TotalPrice, 1e-9)
		assert.Equal(t, baseTime, d.Timestamps().CreatedAt)
	})

	t.Run("should join every validation error", func(t *testing.T) {
		d, err := delivery.NewDelivery(kernel.UUID{}, kernel.UUID{}, delivery.Address{}, dropAddress(), 11, time.Time{})

		require.Error(t, err)
		assert.Nil(t, d)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("zero value should not validate", func(t *testing.T) {
		var d delivery.Delivery
		require.ErrorIs(t, d.Validate(), delivery.ErrDeliveryIsNotConstructed)

		var nilDelivery *delivery.Delivery
		require.ErrorIs(t, nilDelivery.Validate(), delivery.ErrDeliveryIsNotConstructed)
	})
}

func TestDelivery_Match(t *testing.T) {
	t.Run("should assign courier and issue pin", func(t *testing.T) {
		d := newPendingDelivery(t)
		courierID := kernel.NewUUID()
		at := baseTime.Add(time.Minute)

		err := d.Match(courierID, kernel.NewSeededRandomSource(3), at)

		require.NoError(t, err)
		assert.Equal(t, delivery.Matched, d.Status())
		require.NotNil(t, d.CourierID())
		assert.True(t, d.CourierID().IsEqual(courierID))
		require.NotNil(t, d.Pin())
		assert.Len(t, d.Pin().FullCode(), delivery.PinLength)
		require.NotNil(t, d.Timestamps().MatchedAt)
		assert.Equal(t, at, *d.Timestamps().MatchedAt)
	})

	t.Run("should match only once", func(t *testing.T) {
		d := newMatchedDelivery(t)
		pin := d.Pin().FullCode()

		err := d.Match(kernel.NewUUID(), kernel.NewSeededRandomSource(4), baseTime)

		require.ErrorIs(t, err, delivery.ErrInvalidTransition)
		assert.Equal(t, pin, d.Pin().FullCode())
	})

	t.Run("should refuse to re-issue a restored pin", func(t *testing.T) {
		pin, err := delivery.RestoreHandoffPin("AAAA1234", 0, false, false, nil)
		require.NoError(t, err)
		d, err := delivery.RestoreDelivery(delivery.State{
			ID: kernel.NewUUID(), ShopID: kernel.NewUUID(),
			Pickup: pickupAddress(), Drop: dropAddress(),
			Status:     delivery.Pending,
			Timestamps: delivery.Timestamps{CreatedAt: baseTime},
			Pin:        &pin,
		})
		require.NoError(t, err)

		err = d.Match(kernel.NewUUID(), kernel.NewSeededRandomSource(5), baseTime)

		require.ErrorIs(t, err, delivery.ErrPinAlreadyIssued)
		assert.Equal(t, delivery.Pending, d.Status())
		assert.Nil(t, d.CourierID())
	})
}

func TestDelivery_ValidatePin(t *testing.T) {
	t.Run("should accept the confirm code case-insensitively", func(t *testing.T) {
		d := newMatchedDelivery(t)
		code := d.Pin().ConfirmCode()
		at := baseTime.Add(time.Hour)

		outcome := d.ValidatePin(" "+strings.ToLower(code)+" ", at)

		assert.Equal(t, delivery.PinValid, outcome.Result)
		assert.True(t, d.Pin().IsValidated())
		require.NotNil(t, d.Pin().ValidatedAt())
		assert.Equal(t, at, *d.Pin().ValidatedAt())
	})

	t.Run("should count wrong attempts and report remaining", func(t *testing.T) {
		d := newMatchedDelivery(t)
		wrong := wrongCode(d.Pin())

		first := d.ValidatePin(wrong, baseTime)
		second := d.ValidatePin(wrong, baseTime)

		assert.Equal(t, delivery.PinOutcome{Result: delivery.PinIncorrect, Attempts: 1, Remaining: 2}, first)
		assert.Equal(t, delivery.PinOutcome{Result: delivery.PinIncorrect, Attempts: 2, Remaining: 1}, second)
	})

	t.Run("should reset attempts on success", func(t *testing.T) {
		d := newMatchedDelivery(t)
		d.ValidatePin(wrongCode(d.Pin()), baseTime)
		d.ValidatePin(wrongCode(d.Pin()), baseTime)

		outcome := d.ValidatePin(d.Pin().ConfirmCode(), baseTime)

		assert.Equal(t, delivery.PinValid, outcome.Result)
		assert.Zero(t, d.Pin().Attempts())
	})

	t.Run("should block permanently after the third wrong attempt", func(t *testing.T) {
		d := newMatchedDelivery(t)
		wrong := wrongCode(d.Pin())
		d.ValidatePin(wrong, baseTime)
		d.ValidatePin(wrong, baseTime)

		third := d.ValidatePin(wrong, baseTime)
		assert.Equal(t, delivery.PinBlocked, third.Result)
		assert.Equal(t, 3, third.Attempts)
		assert.True(t, d.Pin().IsBlocked())

		correct := d.ValidatePin(d.Pin().ConfirmCode(), baseTime)
		assert.Equal(t, delivery.PinBlocked, correct.Result)
		assert.False(t, d.Pin().IsValidated())
		assert.Equal(t, 3, d.Pin().Attempts())
	})

	t.Run("attempts should never decrease without success", func(t *testing.T) {
		d := newMatchedDelivery(t)
		wrong := wrongCode(d.Pin())
		last := 0
		for range 6 {
			d.ValidatePin(wrong, baseTime)
			assert.GreaterOrEqual(t, d.Pin().Attempts(), last)
			last = d.Pin().Attempts()
		}
	})

	t.Run("should report missing pin", func(t *testing.T) {
		d := newPendingDelivery(t)

		outcome := d.ValidatePin("ABCD", baseTime)

		assert.Equal(t, delivery.PinOutcome{Result: delivery.NoPin}, outcome)
	})
}

func TestDelivery_Deliver(t *testing.T) {
	t.Run("should refuse delivery before pin validation", func(t *testing.T) {
		d := newInTransitDelivery(t)

		err := d.Deliver(baseTime.Add(time.Hour))

		require.ErrorIs(t, err, delivery.ErrPinNotValidated)
		assert.Equal(t, delivery.InTransit, d.Status())
		assert.Nil(t, d.Timestamps().DeliveredAt)
	})

	t.Run("should deliver after pin validation", func(t *testing.T) {
		d := newInTransitDelivery(t)
		require.Equal(t, delivery.PinValid, d.ValidatePin(d.Pin().ConfirmCode(), baseTime).Result)

		err := d.Deliver(baseTime.Add(time.Hour))

		require.NoError(t, err)
		assert.Equal(t, delivery.Delivered, d.Status())
		require.NotNil(t, d.Timestamps().DeliveredAt)
	})

	t.Run("should deliver from waiting once validated even if later attempts fail", func(t *testing.T) {
		d := newInTransitDelivery(t)
		require.NoError(t, d.Wait(baseTime.Add(20*time.Minute)))
		d.ValidatePin(d.Pin().ConfirmCode(), baseTime)
		d.ValidatePin(wrongCode(d.Pin()), baseTime)

		require.NoError(t, d.Deliver(baseTime.Add(time.Hour)))
	})

	t.Run("should let pin-less restored deliveries through", func(t *testing.T) {
		courierID := kernel.NewUUID()
		d, err := delivery.RestoreDelivery(delivery.State{
			ID: kernel.NewUUID(), ShopID: kernel.NewUUID(), CourierID: &courierID,
			Pickup: pickupAddress(), Drop: dropAddress(),
			Status:     delivery.InTransit,
			Timestamps: delivery.Timestamps{CreatedAt: baseTime},
			Version:    4,
		})
		require.NoError(t, err)

		require.NoError(t, d.Deliver(baseTime.Add(time.Hour)))
		assert.Equal(t, int64(4), d.Version())
	})

	t.Run("should refuse delivery from matched", func(t *testing.T) {
		d := newMatchedDelivery(t)

		require.ErrorIs(t, d.Deliver(baseTime), delivery.ErrInvalidTransition)
	})
}

func TestDelivery_Advance(t *testing.T) {
	t.Run("should walk the happy path", func(t *testing.T) {
		d := newMatchedDelivery(t)

		require.NoError(t, d.Advance(delivery.PickupConfirmed, baseTime))
		require.NoError(t, d.Advance(delivery.InTransit, baseTime))
		require.NoError(t, d.Advance(delivery.Waiting, baseTime))
		require.NoError(t, d.Advance(delivery.ClientNotFound, baseTime))
		assert.Equal(t, delivery.ClientNotFound, d.Status())
		assert.NotNil(t, d.Timestamps().ClientNotFoundAt)
	})

	t.Run("should not match through advance", func(t *testing.T) {
		d := newPendingDelivery(t)

		require.ErrorIs(t, d.Advance(delivery.Matched, baseTime), delivery.ErrInvalidTransition)
	})

	t.Run("should cancel a pending delivery", func(t *testing.T) {
		d := newPendingDelivery(t)

		require.NoError(t, d.Advance(delivery.Cancelled, baseTime))
		assert.Equal(t, delivery.Cancelled, d.Status())
		require.ErrorIs(t, d.Cancel(baseTime), delivery.ErrInvalidTransition)
	})
}

func TestRestoreDelivery(t *testing.T) {
	t.Run("should require a courier for matched statuses", func(t *testing.T) {
		_, err := delivery.RestoreDelivery(delivery.State{
			ID: kernel.NewUUID(), ShopID: kernel.NewUUID(),
			Pickup: pickupAddress(), Drop: dropAddress(),
			Status:     delivery.Matched,
			Timestamps: delivery.Timestamps{CreatedAt: baseTime},
		})

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject unknown status", func(t *testing.T) {
		_, err := delivery.RestoreDelivery(delivery.State{
			ID: kernel.NewUUID(), ShopID: kernel.NewUUID(),
			Pickup: pickupAddress(), Drop: dropAddress(),
			Timestamps: delivery.Timestamps{CreatedAt: baseTime},
		})

		require.Error(t, err)
	})
}
