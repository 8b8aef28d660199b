package commands

import (
	"context"
	"errors"
	"fmt"

	"lastmile/internal/core/domain/model/delivery"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/services"
)

// ErrDeliveryIsNotPending is returned when matching a delivery that already
// left the pending status.
var ErrDeliveryIsNotPending = errors.New("delivery is not pending")

// MatchResult reports a matching round. When Matched is false the delivery
// stays pending and the other fields are empty.
type MatchResult struct {
	Matched bool
	// Decision is the score breakdown of every eligible courier.
	Decision services.MatchDecision
	// CourierID is the selected courier.
	CourierID kernel.UUID
	// HandoffPin is the full code to send to the recipient.
	HandoffPin string
	// AmountToDebit is the total price the host charges the shop.
	AmountToDebit float64
}

// MatchDeliveryCommandHandler assigns the best available courier of the
// pickup city to a pending delivery.
//
// The candidate couriers are locked for the transaction and the delivery
// write is conditional on its version, so concurrent matches of the same
// delivery produce a single winner and the others fail with
// errs.ErrVersionIsInvalid.
//
// Example:
//
//	handler := NewMatchDeliveryCommandHandler(uowFactory, kernel.DefaultRandomSource())
//	cmd, _ := NewMatchDeliveryCommand(deliveryID, time.Now())
//	result, err := handler.Handle(ctx, cmd)
//	switch {
//	case err != nil:
//	    return err
//	case !result.Matched:
//	    log.Println("No courier available, delivery stays pending")
//	default:
//	    notifyRecipient(result.HandoffPin)
//	}
type MatchDeliveryCommandHandler struct {
	uowFactory UoWFactory
	matcher    services.DeliveryMatcher
	random     kernel.RandomSource
}

// NewMatchDeliveryCommandHandler creates a handler that draws handoff PINs from random.
func NewMatchDeliveryCommandHandler(uowFactory UoWFactory, random kernel.RandomSource) MatchDeliveryCommandHandler {
	return MatchDeliveryCommandHandler{
		uowFactory: uowFactory,
		matcher:    services.NewDeliveryMatcher(),
		random:     random,
	}
}

// Handle runs one matching round for the delivery.
// "No eligible courier" is a result with Matched false, not an error.
func (h MatchDeliveryCommandHandler) Handle(ctx context.Context, cmd MatchDeliveryCommand) (MatchResult, error) {
	if err := cmd.Validate(); err != nil {
		return MatchResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return MatchResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deliveryRepo := uow.DeliveryRepository()
	courierRepo := uow.CourierRepository()

	d, err := deliveryRepo.Get(ctx, cmd.DeliveryID())
	if err != nil {
		return MatchResult{}, err
	}
	if d.Status() != delivery.Pending {
		return MatchResult{}, fmt.Errorf("%w: %s is %s", ErrDeliveryIsNotPending, d.ID(), d.Status())
	}

	couriers, err := courierRepo.GetAvailableInCity(ctx, d.Pickup().City)
	if err != nil {
		return MatchResult{}, err
	}

	decision, err := h.matcher.Dispatch(d, couriers, h.random, cmd.At())
	if err != nil {
		return MatchResult{}, err
	}
	if !decision.Matched {
		return MatchResult{Decision: decision}, nil
	}

	assigned := decision.Courier
	assigned.SetAvailable(false)

	if err = deliveryRepo.Update(ctx, d); err != nil {
		return MatchResult{}, err
	}
	if err = courierRepo.Update(ctx, assigned); err != nil {
		return MatchResult{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return MatchResult{}, err
	}

	return MatchResult{
		Matched:       true,
		Decision:      decision,
		CourierID:     assigned.ID(),
		HandoffPin:    d.Pin().FullCode(),
		AmountToDebit: d.Pricing().TotalPrice,
	}, nil
}
