package queries

import (
	"errors"
	"strings"
	"time"

	"lastmile/internal/core/domain/model/delivery"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/guard"
)

var ErrGetUnfinishedDeliveriesQueryIsNotConstructed = errors.New(
	"GetUnfinishedDeliveriesQuery must be created via NewGetUnfinishedDeliveriesQuery constructor",
)

// GetUnfinishedDeliveriesQuery lists deliveries that have not reached a
// terminal status, optionally restricted to one pickup city.
type GetUnfinishedDeliveriesQuery struct {
	city string

	guard guard.ConstructorGuard
}

// NewGetUnfinishedDeliveriesQuery creates the query. An empty city lists every city.
func NewGetUnfinishedDeliveriesQuery(city string) GetUnfinishedDeliveriesQuery {
	return GetUnfinishedDeliveriesQuery{
		city:  strings.TrimSpace(city),
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the query was created through the constructor.
func (q GetUnfinishedDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrGetUnfinishedDeliveriesQueryIsNotConstructed)
}

// City returns the pickup city filter, empty for all cities.
func (q GetUnfinishedDeliveriesQuery) City() string {
	return q.city
}

// GetUnfinishedDeliveriesQueryResponse is the tracking view of one delivery.
// CourierID is nil while the delivery is pending.
type GetUnfinishedDeliveriesQueryResponse struct {
	ID         kernel.UUID
	Status     delivery.Status
	PickupCity string
	CourierID  *kernel.UUID
	Priority   int
	TotalPrice float64
	CreatedAt  time.Time
}
