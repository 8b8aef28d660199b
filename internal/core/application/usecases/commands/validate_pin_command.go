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
	ErrValidatePinCommandIsNotConstructed = errors.New(
		"ValidatePinCommand must be created via NewValidatePinCommand constructor",
	)
	ErrCodeIsRequired = errs.NewValueIsRequiredError("code")
)

// ValidatePinCommand carries the confirm code typed at the door.
type ValidatePinCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	code       string
	at         time.Time

	guard guard.ConstructorGuard
}

// NewValidatePinCommand creates a validation attempt. A blank code is
// rejected here and never consumes an attempt.
func NewValidatePinCommand(deliveryID kernel.UUID, code string, at time.Time) (ValidatePinCommand, error) {
	command := ValidatePinCommand{
		guard: guard.NewConstructorGuard(),
	}

	var errList []error
	if err := deliveryID.Validate(); err != nil {
		errList = append(errList, err)
	}
	if strings.TrimSpace(code) == "" {
		errList = append(errList, ErrCodeIsRequired)
	}
	if at.IsZero() {
		errList = append(errList, ErrTimestampIsRequired)
	}
	if err := errors.Join(errList...); err != nil {
		return ValidatePinCommand{}, err
	}

	command.deliveryID = deliveryID
	command.code = code
	command.at = at
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ValidatePinCommand) Validate() error {
	return c.guard.Validate(ErrValidatePinCommandIsNotConstructed)
}

func (c ValidatePinCommand) DeliveryID() kernel.UUID { return c.deliveryID }

func (c ValidatePinCommand) Code() string { return c.code }

func (c ValidatePinCommand) At() time.Time { return c.at }
