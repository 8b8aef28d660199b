package commands

import (
	"context"

	"lastmile/internal/core/domain/model/delivery"
)

// ValidatePinCommandHandler checks handoff codes and persists the attempt
// counter.
type ValidatePinCommandHandler struct {
	uowFactory DeliveryUoWFactory
}

// NewValidatePinCommandHandler creates a handler for handoff code checks.
func NewValidatePinCommandHandler(uowFactory DeliveryUoWFactory) ValidatePinCommandHandler {
	return ValidatePinCommandHandler{uowFactory: uowFactory}
}

// Handle validates the code and stores the new PIN state.
//
// Rejections (incorrect, blocked, no PIN) are outcomes, not errors. The write
// is version checked, so two concurrent attempts never count as one; the loser
// gets errs.ErrVersionIsInvalid and may retry.
func (h ValidatePinCommandHandler) Handle(ctx context.Context, cmd ValidatePinCommand) (delivery.PinOutcome, error) {
	if err := cmd.Validate(); err != nil {
		return delivery.PinOutcome{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return delivery.PinOutcome{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deliveryRepo := uow.DeliveryRepository()

	d, err := deliveryRepo.Get(ctx, cmd.DeliveryID())
	if err != nil {
		return delivery.PinOutcome{}, err
	}

	pinBefore := d.Pin()
	outcome := d.ValidatePin(cmd.Code(), cmd.At())
	if pinBefore == nil || (pinBefore.IsBlocked() && outcome.Result == delivery.PinBlocked) {
		return outcome, nil
	}

	if err = deliveryRepo.Update(ctx, d); err != nil {
		return delivery.PinOutcome{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return delivery.PinOutcome{}, err
	}

	return outcome, nil
}
