package delivery

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

const (
	// MinPriority and MaxPriority bound the shop-assigned priority used when
	// sequencing routes.
	MinPriority = 0
	MaxPriority = 10
)

// ErrDeliveryIsNotConstructed is returned when using a zero-value Delivery.
var ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery constructor")

// Address is a geocoded stop of a delivery.
type Address struct {
	Point kernel.GeoPoint
	City  string
}

// Validate checks the point and requires a city.
func (a Address) Validate() error {
	var errList []error
	if err := a.Point.Validate(); err != nil {
		errList = append(errList, err)
	}
	if strings.TrimSpace(a.City) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("city"))
	}
	return errors.Join(errList...)
}

// Timestamps records when each lifecycle transition happened.
type Timestamps struct {
	CreatedAt         time.Time
	MatchedAt         *time.Time
	PickupConfirmedAt *time.Time
	InTransitAt       *time.Time
	WaitingAt         *time.Time
	DeliveredAt       *time.Time
	CancelledAt       *time.Time
	ClientNotFoundAt  *time.Time
}

// Delivery is the aggregate root of a single shop-to-recipient run.
//
// It owns the lifecycle status machine and the handoff PIN sub-record. A PIN
// is issued atomically with the pending -> matched transition, so every
// delivery matched through Match carries one; the delivered transition is
// then refused until the PIN was validated.
//
// Deliveries restored without a PIN (records written before PIN issuance
// existed) skip the delivered gate.
//
// Concurrent updates are serialized by the storage adapter via Version.
//
// Example:
//
//	d, err := delivery.NewDelivery(kernel.NewUUID(), shopID, pickup, drop, 3, time.Now())
//	if err != nil {
//	    return err
//	}
//	if err := d.Match(courierID, rnd, time.Now()); err != nil {
//	    return err
//	}
type Delivery struct {
	id        kernel.UUID
	shopID    kernel.UUID
	courierID *kernel.UUID
	pickup    Address
	drop      Address
	priority  int
	pricing   Pricing
	status    Status
	times     Timestamps
	pin       *HandoffPin
	version   int64
	guard     guard.ConstructorGuard
}

// NewDelivery creates a pending delivery and prices it from the great-circle
// distance between pickup and drop.
//
// Parameters:
//   - id: delivery identifier
//   - shopID: the shop paying for the run
//   - pickup, drop: validated addresses
//   - priority: 0..10, higher is served earlier by the route optimizer
//   - now: creation time
//
// Returns:
//   - *Delivery: a pending delivery without courier and without PIN
//   - error: joined validation errors
func NewDelivery(id, shopID kernel.UUID, pickup, drop Address, priority int, now time.Time) (*Delivery, error) {
	d := &Delivery{
		status: Pending,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setShopID(shopID),
		d.setAddresses(pickup, drop),
		d.setPriority(priority),
		d.setCreatedAt(now),
	); err != nil {
		return nil, err
	}

	pricing, err := NewPricing(pickup.Point.DistanceTo(drop.Point))
	if err != nil {
		return nil, err
	}
	d.pricing = pricing

	return d, nil
}

// State is the full persisted form of a Delivery, used by RestoreDelivery.
type State struct {
	ID         kernel.UUID
	ShopID     kernel.UUID
	CourierID  *kernel.UUID
	Pickup     Address
	Drop       Address
	Priority   int
	Pricing    Pricing
	Status     Status
	Timestamps Timestamps
	Pin        *HandoffPin
	Version    int64
}

// RestoreDelivery rebuilds a Delivery from storage. Pricing is taken as
// stored, not recomputed.
func RestoreDelivery(s State) (*Delivery, error) {
	d := &Delivery{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		d.setID(s.ID),
		d.setShopID(s.ShopID),
		d.setAddresses(s.Pickup, s.Drop),
		d.setPriority(s.Priority),
		d.setCreatedAt(s.Timestamps.CreatedAt),
		d.setStatus(s.Status, s.CourierID),
	); err != nil {
		return nil, err
	}

	d.pricing = s.Pricing
	d.times = s.Timestamps
	d.version = s.Version
	if s.Pin != nil {
		pin := *s.Pin
		d.pin = &pin
	}
	return d, nil
}

// Validate fails for a nil or zero-value Delivery.
func (d *Delivery) Validate() error {
	if d == nil {
		return ErrDeliveryIsNotConstructed
	}
	return d.guard.Validate(ErrDeliveryIsNotConstructed)
}

// IsEqual compares deliveries by identifier.
func (d *Delivery) IsEqual(other *Delivery) bool {
	return other != nil && d.id.IsEqual(other.id)
}

func (d *Delivery) ID() kernel.UUID { return d.id }

func (d *Delivery) ShopID() kernel.UUID { return d.shopID }

// CourierID returns the matched courier, nil while pending.
func (d *Delivery) CourierID() *kernel.UUID {
	if d.courierID == nil {
		return nil
	}
	id := *d.courierID
	return &id
}

func (d *Delivery) Pickup() Address { return d.pickup }

func (d *Delivery) Drop() Address { return d.drop }

func (d *Delivery) Priority() int { return d.priority }

func (d *Delivery) Pricing() Pricing { return d.pricing }

func (d *Delivery) Status() Status { return d.status }

func (d *Delivery) Timestamps() Timestamps { return d.times }

// Version is the optimistic concurrency token of the stored row.
func (d *Delivery) Version() int64 { return d.version }

// Pin returns a copy of the handoff PIN, nil when none was issued.
func (d *Delivery) Pin() *HandoffPin {
	if d.pin == nil {
		return nil
	}
	pin := *d.pin
	return &pin
}

// Match assigns the courier, issues the handoff PIN and moves to matched.
//
// Returns ErrInvalidTransition unless the delivery is pending, and
// ErrPinAlreadyIssued if a PIN already exists.
func (d *Delivery) Match(courierID kernel.UUID, r kernel.RandomSource, now time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	next, err := d.status.TransitionTo(Matched)
	if err != nil {
		return err
	}
	if d.pin != nil {
		return ErrPinAlreadyIssued
	}

	pin := GenerateHandoffPin(r)
	d.pin = &pin
	d.courierID = &courierID
	d.status = next
	d.times.MatchedAt = &now
	return nil
}

// ConfirmPickup records that the courier collected the parcel.
func (d *Delivery) ConfirmPickup(now time.Time) error {
	return d.advance(PickupConfirmed, &d.times.PickupConfirmedAt, now)
}

// StartTransit records departure towards the recipient.
func (d *Delivery) StartTransit(now time.Time) error {
	return d.advance(InTransit, &d.times.InTransitAt, now)
}

// Wait records arrival at the drop-off while the recipient is not there yet.
func (d *Delivery) Wait(now time.Time) error {
	return d.advance(Waiting, &d.times.WaitingAt, now)
}

// Cancel terminates a non-terminal delivery.
func (d *Delivery) Cancel(now time.Time) error {
	return d.advance(Cancelled, &d.times.CancelledAt, now)
}

// ClientNotFound terminates a delivery whose recipient could not be reached.
func (d *Delivery) ClientNotFound(now time.Time) error {
	return d.advance(ClientNotFound, &d.times.ClientNotFoundAt, now)
}

// Deliver completes the run. When a PIN exists it must have been validated,
// otherwise ErrPinNotValidated is returned and nothing changes.
func (d *Delivery) Deliver(now time.Time) error {
	if _, err := d.status.TransitionTo(Delivered); err != nil {
		return err
	}
	if d.pin != nil && !d.pin.IsValidated() {
		return ErrPinNotValidated
	}
	return d.advance(Delivered, &d.times.DeliveredAt, now)
}

// ValidatePin checks the code entered by the recipient against the confirm
// code. Every rejection is reported through the outcome.
func (d *Delivery) ValidatePin(entered string, now time.Time) PinOutcome {
	if d.pin == nil {
		return PinOutcome{Result: NoPin}
	}
	return d.pin.check(entered, now)
}

// Advance moves the delivery to target through the matching lifecycle method.
// Matching is not reachable here because it needs a courier.
func (d *Delivery) Advance(target Status, now time.Time) error {
	switch target {
	case PickupConfirmed:
		return d.ConfirmPickup(now)
	case InTransit:
		return d.StartTransit(now)
	case Waiting:
		return d.Wait(now)
	case Delivered:
		return d.Deliver(now)
	case Cancelled:
		return d.Cancel(now)
	case ClientNotFound:
		return d.ClientNotFound(now)
	default:
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, d.status, target)
	}
}

func (d *Delivery) advance(target Status, stamp **time.Time, now time.Time) error {
	next, err := d.status.TransitionTo(target)
	if err != nil {
		return err
	}
	d.status = next
	*stamp = &now
	return nil
}

func (d *Delivery) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Delivery) setShopID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("shop id", err)
	}
	d.shopID = id
	return nil
}

func (d *Delivery) setAddresses(pickup, drop Address) error {
	if err := errors.Join(pickup.Validate(), drop.Validate()); err != nil {
		return err
	}
	d.pickup = pickup
	d.drop = drop
	return nil
}

func (d *Delivery) setPriority(priority int) error {
	if priority < MinPriority || priority > MaxPriority {
		return errs.NewValueIsOutOfRangeError("priority", priority, MinPriority, MaxPriority)
	}
	d.priority = priority
	return nil
}

func (d *Delivery) setCreatedAt(at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError("created at")
	}
	d.times.CreatedAt = at
	return nil
}

func (d *Delivery) setStatus(status Status, courierID *kernel.UUID) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if courierID != nil {
		if err := courierID.Validate(); err != nil {
			return err
		}
		id := *courierID
		d.courierID = &id
	}
	if status.HasCourier() && courierID == nil {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s requires a courier", status))
	}
	d.status = status
	return nil
}
