package commands

import (
	"errors"
	"time"

	"lastmile/internal/pkg/guard"
)

var ErrRunRiskSweepCommandIsNotConstructed = errors.New(
	"RunRiskSweepCommand must be created via NewRunRiskSweepCommand constructor",
)

// RunRiskSweepCommand triggers a risk analysis of every available courier.
type RunRiskSweepCommand struct {
	at    time.Time
	guard guard.ConstructorGuard
}

// NewRunRiskSweepCommand creates a sweep evaluated at the given time.
func NewRunRiskSweepCommand(at time.Time) (RunRiskSweepCommand, error) {
	if at.IsZero() {
		return RunRiskSweepCommand{}, ErrTimestampIsRequired
	}
	return RunRiskSweepCommand{at: at, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c RunRiskSweepCommand) Validate() error {
	return c.guard.Validate(ErrRunRiskSweepCommandIsNotConstructed)
}

// At returns the analysis time.
func (c RunRiskSweepCommand) At() time.Time {
	return c.at
}
