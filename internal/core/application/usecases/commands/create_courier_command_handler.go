package commands

import (
	"context"
	"errors"
	"fmt"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/territory"
)

// ErrCityIsNotServed is returned when a courier or a delivery names a city
// outside the service area.
var ErrCityIsNotServed = errors.New("city is not served")

// CreateCourierCommandHandler registers couriers.
//
// Example:
//
//	handler := NewCreateCourierCommandHandler(uowFactory, territory.DefaultCatalog())
//	cmd, _ := NewCreateCourierCommand(kernel.NewUUID(), "Ana Souza", "Mairinque", time.Now())
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("courier registration failed: %w", err)
//	}
type CreateCourierCommandHandler struct {
	uowFactory CourierUoWFactory
	catalog    *territory.Catalog
}

// NewCreateCourierCommandHandler creates a handler for courier registration.
func NewCreateCourierCommandHandler(
	uowFactory CourierUoWFactory,
	catalog *territory.Catalog,
) CreateCourierCommandHandler {
	return CreateCourierCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
	}
}

// Handle creates the courier, available and with the default ranking, and
// persists it. The base city must be served.
func (h CreateCourierCommandHandler) Handle(ctx context.Context, cmd CreateCourierCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if !h.catalog.IsServed(cmd.BaseCity()) {
		return fmt.Errorf("%w: %s", ErrCityIsNotServed, cmd.BaseCity())
	}

	courierEntity, err := courier.NewCourier(cmd.CourierID(), cmd.Name(), cmd.BaseCity(), cmd.CreatedAt())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.CourierRepository().Add(ctx, courierEntity); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
