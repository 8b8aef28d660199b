package commands

import (
	"errors"
	"time"

	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

// DefaultMatchBatchSize bounds how many pending deliveries one round handles.
const DefaultMatchBatchSize = 50

var ErrMatchPendingDeliveriesCommandIsNotConstructed = errors.New(
	"MatchPendingDeliveriesCommand must be created via NewMatchPendingDeliveriesCommand constructor",
)

// MatchPendingDeliveriesCommand triggers a matching round over the oldest
// pending deliveries. It is issued by the matching job.
type MatchPendingDeliveriesCommand struct { //nolint:recvcheck //using for validation
	limit int
	at    time.Time

	guard guard.ConstructorGuard
}

// NewMatchPendingDeliveriesCommand creates a round over at most limit deliveries.
func NewMatchPendingDeliveriesCommand(limit int, at time.Time) (MatchPendingDeliveriesCommand, error) {
	command := MatchPendingDeliveriesCommand{
		guard: guard.NewConstructorGuard(),
	}

	var errList []error
	if limit <= 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("limit", limit, 1, nil))
	}
	if at.IsZero() {
		errList = append(errList, ErrTimestampIsRequired)
	}
	if err := errors.Join(errList...); err != nil {
		return MatchPendingDeliveriesCommand{}, err
	}

	command.limit = limit
	command.at = at
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c MatchPendingDeliveriesCommand) Validate() error {
	return c.guard.Validate(ErrMatchPendingDeliveriesCommandIsNotConstructed)
}

// Limit returns the batch size.
func (c MatchPendingDeliveriesCommand) Limit() int {
	return c.limit
}

// At returns the time the round runs at.
func (c MatchPendingDeliveriesCommand) At() time.Time {
	return c.at
}
