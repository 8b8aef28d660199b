package delivery

import (
	"errors"
	"fmt"

	"lastmile/internal/pkg/errs"
)

// ErrInvalidTransition is returned when a lifecycle step is not allowed from
// the current status.
var ErrInvalidTransition = errors.New("invalid status transition")

// Status is the lifecycle state of a Delivery.
//
//	pending -> matched -> pickup_confirmed -> in_transit -> (waiting) -> delivered
//
// cancelled is reachable from every non-terminal status; client_not_found from
// in_transit and waiting.
type Status int

const (
	// Unknown is the zero value and never a valid status.
	Unknown Status = iota
	// Pending means the delivery waits for a courier.
	Pending
	// Matched means a courier was selected and a handoff PIN issued.
	Matched
	// PickupConfirmed means the courier collected the parcel.
	PickupConfirmed
	// InTransit means the parcel is on its way to the recipient.
	InTransit
	// Waiting means the courier is at the drop-off waiting for the recipient.
	Waiting
	// Delivered is terminal.
	Delivered
	// Cancelled is terminal.
	Cancelled
	// ClientNotFound is terminal.
	ClientNotFound
)

var statusNames = map[Status]string{
	Pending:         "pending",
	Matched:         "matched",
	PickupConfirmed: "pickup_confirmed",
	InTransit:       "in_transit",
	Waiting:         "waiting",
	Delivered:       "delivered",
	Cancelled:       "cancelled",
	ClientNotFound:  "client_not_found",
}

var transitions = map[Status][]Status{
	Pending:         {Matched, Cancelled},
	Matched:         {PickupConfirmed, Cancelled},
	PickupConfirmed: {InTransit, Cancelled},
	InTransit:       {Waiting, Delivered, Cancelled, ClientNotFound},
	Waiting:         {Delivered, Cancelled, ClientNotFound},
}

// ParseStatus maps the wire name of a status back to its value.
func ParseStatus(s string) (Status, error) {
	for st, name := range statusNames {
		if name == s {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// String returns the lowercase wire name, "unknown" for invalid values.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == ClientNotFound
}

// HasCourier reports whether a delivery in this status must reference a courier.
func (s Status) HasCourier() bool {
	switch s {
	case Matched, PickupConfirmed, InTransit, Waiting, Delivered, ClientNotFound:
		return true
	default:
		return false
	}
}

// TransitionTo returns next when the move from s is allowed.
func (s Status) TransitionTo(next Status) (Status, error) {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return next, nil
		}
	}
	return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
}
