package commands

import (
	"errors"
	"fmt"
	"time"

	"lastmile/internal/core/domain/model/delivery"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var ErrAdvanceDeliveryStatusCommandIsNotConstructed = errors.New(
	"AdvanceDeliveryStatusCommand must be created via NewAdvanceDeliveryStatusCommand constructor",
)

// AdvanceDeliveryStatusCommand moves a matched delivery along its lifecycle:
// pickup confirmed, in transit, waiting, delivered, cancelled or client not found.
type AdvanceDeliveryStatusCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	target     delivery.Status
	at         time.Time

	guard guard.ConstructorGuard
}

// NewAdvanceDeliveryStatusCommand creates a status change. Pending and matched
// are not valid targets; matching has its own command.
func NewAdvanceDeliveryStatusCommand(
	deliveryID kernel.UUID,
	target delivery.Status,
	at time.Time,
) (AdvanceDeliveryStatusCommand, error) {
	command := AdvanceDeliveryStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	var errList []error
	if err := deliveryID.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := target.Validate(); err != nil {
		errList = append(errList, err)
	} else if target == delivery.Pending || target == delivery.Matched {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"target status",
			fmt.Errorf("%w: %s is not reachable by advancing", delivery.ErrInvalidTransition, target),
		))
	}
	if at.IsZero() {
		errList = append(errList, ErrTimestampIsRequired)
	}
	if err := errors.Join(errList...); err != nil {
		return AdvanceDeliveryStatusCommand{}, err
	}

	command.deliveryID = deliveryID
	command.target = target
	command.at = at
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c AdvanceDeliveryStatusCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceDeliveryStatusCommandIsNotConstructed)
}

func (c AdvanceDeliveryStatusCommand) DeliveryID() kernel.UUID { return c.deliveryID }

func (c AdvanceDeliveryStatusCommand) Target() delivery.Status { return c.target }

func (c AdvanceDeliveryStatusCommand) At() time.Time { return c.at }
