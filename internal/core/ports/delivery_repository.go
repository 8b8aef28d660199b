package ports

import (
	"context"

	"lastmile/internal/core/domain/model/delivery"
	"lastmile/internal/core/domain/model/kernel"
)

// DeliveryRepository defines the persistence contract for delivery aggregates.
type DeliveryRepository interface {
	// Add persists a new delivery aggregate.
	Add(ctx context.Context, aggregate *delivery.Delivery) error

	// Update persists changes to an existing delivery.
	//
	// The write is conditional on the version the aggregate was loaded with,
	// which gives at most one successful transition out of pending and
	// serialized PIN attempt counters. A concurrent writer makes it fail with
	// errs.ErrVersionIsInvalid; a missing row fails with errs.ErrObjectNotFound.
	Update(ctx context.Context, aggregate *delivery.Delivery) error

	// Get retrieves a delivery by its identifier.
	Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// GetPending retrieves up to limit deliveries waiting for a courier,
	// oldest first.
	GetPending(ctx context.Context, limit int) ([]*delivery.Delivery, error)

	// GetActiveByCourier retrieves the non-terminal deliveries assigned to a courier.
	GetActiveByCourier(ctx context.Context, courierID kernel.UUID) ([]*delivery.Delivery, error)
}
