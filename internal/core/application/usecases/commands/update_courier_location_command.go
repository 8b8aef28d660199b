package commands

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/guard"
)

var ErrUpdateCourierLocationCommandIsNotConstructed = errors.New(
	"UpdateCourierLocationCommand must be created via NewUpdateCourierLocationCommand constructor",
)

// UpdateCourierLocationCommand carries one position report pushed by a courier's device.
type UpdateCourierLocationCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	point     kernel.TrackPoint

	guard guard.ConstructorGuard
}

// NewUpdateCourierLocationCommand validates the coordinate and timestamp of a
// position report.
func NewUpdateCourierLocationCommand(courierID kernel.UUID, point kernel.TrackPoint) (UpdateCourierLocationCommand, error) {
	command := UpdateCourierLocationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setCourierID(courierID),
		command.setPoint(point),
	); err != nil {
		return UpdateCourierLocationCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateCourierLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCourierLocationCommandIsNotConstructed)
}

// CourierID returns the reporting courier.
func (c UpdateCourierLocationCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Point returns the reported position.
func (c UpdateCourierLocationCommand) Point() kernel.TrackPoint {
	return c.point
}

func (c *UpdateCourierLocationCommand) setCourierID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.courierID = id
	return nil
}

func (c *UpdateCourierLocationCommand) setPoint(p kernel.TrackPoint) error {
	if p.At().IsZero() {
		return ErrTimestampIsRequired
	}
	if err := p.Point().Validate(); err != nil {
		return err
	}

	c.point = p
	return nil
}
