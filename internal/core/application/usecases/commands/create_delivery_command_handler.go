package commands

import (
	"context"
	"fmt"

	"lastmile/internal/core/domain/model/delivery"
	"lastmile/internal/core/domain/model/territory"
)

// CreateDeliveryCommandHandler registers pending deliveries.
type CreateDeliveryCommandHandler struct {
	uowFactory DeliveryUoWFactory
	catalog    *territory.Catalog
}

// NewCreateDeliveryCommandHandler creates a handler for delivery registration.
func NewCreateDeliveryCommandHandler(
	uowFactory DeliveryUoWFactory,
	catalog *territory.Catalog,
) CreateDeliveryCommandHandler {
	return CreateDeliveryCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
	}
}

// Handle creates a pending delivery priced from the pickup to drop distance.
// The pickup city must be served.
//
// Returns the pricing the shop will be charged when a courier is matched.
func (h CreateDeliveryCommandHandler) Handle(ctx context.Context, cmd CreateDeliveryCommand) (delivery.Pricing, error) {
	if err := cmd.Validate(); err != nil {
		return delivery.Pricing{}, err
	}

	if !h.catalog.IsServed(cmd.Pickup().City) {
		return delivery.Pricing{}, fmt.Errorf("%w: %s", ErrCityIsNotServed, cmd.Pickup().City)
	}

	d, err := delivery.NewDelivery(
		cmd.DeliveryID(),
		cmd.ShopID(),
		cmd.Pickup(),
		cmd.Drop(),
		cmd.Priority(),
		cmd.CreatedAt(),
	)
	if err != nil {
		return delivery.Pricing{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return delivery.Pricing{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.DeliveryRepository().Add(ctx, d); err != nil {
		return delivery.Pricing{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return delivery.Pricing{}, err
	}

	return d.Pricing(), nil
}
