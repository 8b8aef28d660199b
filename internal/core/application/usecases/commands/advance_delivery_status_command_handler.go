package commands

import (
	"context"
)

// AdvanceDeliveryStatusCommandHandler applies lifecycle transitions.
//
// Delivering requires a validated handoff PIN (delivery.ErrPinNotValidated
// otherwise). Reaching a terminal status releases the courier, who becomes
// available for new deliveries again.
type AdvanceDeliveryStatusCommandHandler struct {
	uowFactory UoWFactory
}

// NewAdvanceDeliveryStatusCommandHandler creates a handler for lifecycle transitions.
func NewAdvanceDeliveryStatusCommandHandler(uowFactory UoWFactory) AdvanceDeliveryStatusCommandHandler {
	return AdvanceDeliveryStatusCommandHandler{uowFactory: uowFactory}
}

// Handle loads the delivery, applies the transition and persists it.
func (h AdvanceDeliveryStatusCommandHandler) Handle(ctx context.Context, cmd AdvanceDeliveryStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deliveryRepo := uow.DeliveryRepository()

	d, err := deliveryRepo.Get(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}

	if err = d.Advance(cmd.Target(), cmd.At()); err != nil {
		return err
	}

	if err = deliveryRepo.Update(ctx, d); err != nil {
		return err
	}

	if courierID := d.CourierID(); d.Status().IsTerminal() && courierID != nil {
		courierRepo := uow.CourierRepository()

		c, getErr := courierRepo.Get(ctx, *courierID)
		if getErr != nil {
			return getErr
		}

		c.SetAvailable(true)
		if err = courierRepo.Update(ctx, c); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
