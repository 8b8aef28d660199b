package commands

import (
	"errors"
	"strings"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var (
	ErrCreateCourierCommandIsNotConstructed = errors.New(
		"CreateCourierCommand must be created via NewCreateCourierCommand constructor",
	)
	ErrNameIsRequired      = errs.NewValueIsRequiredError("name")
	ErrCityIsRequired      = errs.NewValueIsRequiredError("city")
	ErrTimestampIsRequired = errs.NewValueIsRequiredError("timestamp")
)

// CreateCourierCommand represents a request to register a new courier in one
// of the served cities.
//
// Example:
//
//	cmd, err := NewCreateCourierCommand(kernel.NewUUID(), "Ana Souza", "São Roque", time.Now())
//	if err != nil {
//	    return fmt.Errorf("invalid courier data: %w", err)
//	}
//
//	handler := NewCreateCourierCommandHandler(uowFactory, territory.DefaultCatalog())
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create courier: %w", err)
//	}
type CreateCourierCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	name      string
	baseCity  string
	createdAt time.Time

	guard guard.ConstructorGuard
}

// NewCreateCourierCommand creates a command to register a new courier.
// Name and base city are trimmed and must not be empty.
func NewCreateCourierCommand(
	courierID kernel.UUID,
	name, baseCity string,
	createdAt time.Time,
) (CreateCourierCommand, error) {
	command := CreateCourierCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setCourierID(courierID),
		command.setName(name),
		command.setBaseCity(baseCity),
		command.setCreatedAt(createdAt),
	); err != nil {
		return CreateCourierCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateCourierCommand) Validate() error {
	return c.guard.Validate(ErrCreateCourierCommandIsNotConstructed)
}

// CourierID returns the identifier of the new courier.
func (c CreateCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Name returns the declared courier name.
func (c CreateCourierCommand) Name() string {
	return c.name
}

// BaseCity returns the city the courier operates in.
func (c CreateCourierCommand) BaseCity() string {
	return c.baseCity
}

// CreatedAt returns the registration time.
func (c CreateCourierCommand) CreatedAt() time.Time {
	return c.createdAt
}

func (c *CreateCourierCommand) setCourierID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.courierID = id
	return nil
}

func (c *CreateCourierCommand) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}

	c.name = name
	return nil
}

func (c *CreateCourierCommand) setBaseCity(city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return ErrCityIsRequired
	}

	c.baseCity = city
	return nil
}

func (c *CreateCourierCommand) setCreatedAt(at time.Time) error {
	if at.IsZero() {
		return ErrTimestampIsRequired
	}

	c.createdAt = at
	return nil
}
