package commands

import (
	"errors"
	"time"

	"lastmile/internal/core/domain/model/delivery"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var ErrCreateDeliveryCommandIsNotConstructed = errors.New(
	"CreateDeliveryCommand must be created via NewCreateDeliveryCommand constructor",
)

// CreateDeliveryCommand represents a shop's request to have a parcel taken
// from pickup to drop.
//
// Example:
//
//	pickup := delivery.Address{Point: kernel.MustGeoPoint(-23.529, -47.135), City: "São Roque"}
//	drop := delivery.Address{Point: kernel.MustGeoPoint(-23.540, -47.150), City: "São Roque"}
//	cmd, err := NewCreateDeliveryCommand(kernel.NewUUID(), shopID, pickup, drop, 5, time.Now())
//	if err != nil {
//	    return fmt.Errorf("invalid delivery data: %w", err)
//	}
type CreateDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	shopID     kernel.UUID
	pickup     delivery.Address
	drop       delivery.Address
	priority   int
	createdAt  time.Time

	guard guard.ConstructorGuard
}

// NewCreateDeliveryCommand validates identifiers, addresses and priority.
func NewCreateDeliveryCommand(
	deliveryID, shopID kernel.UUID,
	pickup, drop delivery.Address,
	priority int,
	createdAt time.Time,
) (CreateDeliveryCommand, error) {
	command := CreateDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setIDs(deliveryID, shopID),
		command.setAddresses(pickup, drop),
		command.setPriority(priority),
		command.setCreatedAt(createdAt),
	); err != nil {
		return CreateDeliveryCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCreateDeliveryCommandIsNotConstructed)
}

func (c CreateDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }

func (c CreateDeliveryCommand) ShopID() kernel.UUID { return c.shopID }

func (c CreateDeliveryCommand) Pickup() delivery.Address { return c.pickup }

func (c CreateDeliveryCommand) Drop() delivery.Address { return c.drop }

func (c CreateDeliveryCommand) Priority() int { return c.priority }

func (c CreateDeliveryCommand) CreatedAt() time.Time { return c.createdAt }

func (c *CreateDeliveryCommand) setIDs(deliveryID, shopID kernel.UUID) error {
	if err := errors.Join(deliveryID.Validate(), shopID.Validate()); err != nil {
		return err
	}

	c.deliveryID = deliveryID
	c.shopID = shopID
	return nil
}

func (c *CreateDeliveryCommand) setAddresses(pickup, drop delivery.Address) error {
	if err := errors.Join(pickup.Validate(), drop.Validate()); err != nil {
		return err
	}

	c.pickup = pickup
	c.drop = drop
	return nil
}

func (c *CreateDeliveryCommand) setPriority(priority int) error {
	if priority < delivery.MinPriority || priority > delivery.MaxPriority {
		return errs.NewValueIsOutOfRangeError("priority", priority, delivery.MinPriority, delivery.MaxPriority)
	}

	c.priority = priority
	return nil
}

func (c *CreateDeliveryCommand) setCreatedAt(at time.Time) error {
	if at.IsZero() {
		return ErrTimestampIsRequired
	}

	c.createdAt = at
	return nil
}
