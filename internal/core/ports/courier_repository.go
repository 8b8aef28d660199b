// Package ports defines the persistence contracts of the delivery core.
// Use cases depend on these interfaces; adapters under internal/adapters implement them.
package ports

import (
	"context"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier aggregates.
// Loaded couriers carry their delivery history and location trace, which the
// risk analysis reads.
type CourierRepository interface {
	// Add persists a new courier aggregate.
	Add(ctx context.Context, courier *courier.Courier) error

	// Update persists changes to an existing courier aggregate.
	// Returns errs.ErrObjectNotFound when the courier does not exist.
	Update(ctx context.Context, courier *courier.Courier) error

	// Get retrieves a courier by its identifier.
	// Returns errs.ErrObjectNotFound when the courier does not exist.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetAvailableInCity retrieves the couriers of a city that accept new
	// deliveries. Inside a transaction the returned rows stay locked until
	// commit, so two concurrent matches never hand the same courier out twice.
	//
	// Example:
	//   couriers, err := repo.GetAvailableInCity(ctx, "São Roque")
	//   if err != nil {
	//       return fmt.Errorf("failed to load candidates: %w", err)
	//   }
	GetAvailableInCity(ctx context.Context, city string) ([]*courier.Courier, error)

	// GetAllAvailable retrieves every courier that accepts new deliveries.
	GetAllAvailable(ctx context.Context) ([]*courier.Courier, error)
}
