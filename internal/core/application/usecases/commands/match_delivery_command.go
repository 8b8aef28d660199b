package commands

import (
	"errors"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/guard"
)

var ErrMatchDeliveryCommandIsNotConstructed = errors.New(
	"MatchDeliveryCommand must be created via NewMatchDeliveryCommand constructor",
)

// MatchDeliveryCommand asks for the best courier of one pending delivery.
type MatchDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	at         time.Time

	guard guard.ConstructorGuard
}

// NewMatchDeliveryCommand creates a match request evaluated at the given time.
func NewMatchDeliveryCommand(deliveryID kernel.UUID, at time.Time) (MatchDeliveryCommand, error) {
	command := MatchDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setDeliveryID(deliveryID),
		command.setAt(at),
	); err != nil {
		return MatchDeliveryCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c MatchDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrMatchDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the delivery to match.
func (c MatchDeliveryCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// At returns the time the match is recorded at.
func (c MatchDeliveryCommand) At() time.Time {
	return c.at
}

func (c *MatchDeliveryCommand) setDeliveryID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.deliveryID = id
	return nil
}

func (c *MatchDeliveryCommand) setAt(at time.Time) error {
	if at.IsZero() {
		return ErrTimestampIsRequired
	}

	c.at = at
	return nil
}
