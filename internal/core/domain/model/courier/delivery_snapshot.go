package courier

import (
	"time"

	"lastmile/internal/core/domain/model/delivery"
	"lastmile/internal/core/domain/model/kernel"
)

// DeliverySnapshot is the read-only view of a past delivery kept in a
// courier's history for risk analysis.
type DeliverySnapshot struct {
	DeliveryID        kernel.UUID
	Status            delivery.Status
	PickupConfirmedAt *time.Time
	DeliveredAt       *time.Time
}

// SnapshotOf captures the fields of d that risk analysis reads.
func SnapshotOf(d *delivery.Delivery) DeliverySnapshot {
	ts := d.Timestamps()
	return DeliverySnapshot{
		DeliveryID:        d.ID(),
		Status:            d.Status(),
		PickupConfirmedAt: ts.PickupConfirmedAt,
		DeliveredAt:       ts.DeliveredAt,
	}
}

// Duration returns pickup-to-delivered time for completed deliveries.
func (s DeliverySnapshot) Duration() (time.Duration, bool) {
	if s.Status != delivery.Delivered || s.PickupConfirmedAt == nil || s.DeliveredAt == nil {
		return 0, false
	}
	return s.DeliveredAt.Sub(*s.PickupConfirmedAt), true
}
