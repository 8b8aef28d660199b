// Package queries contains read operations for retrieving system state.
// Listing queries read the database directly; analysis queries load
// aggregates through the repositories and run a domain service over them.
package queries

import (
	"errors"
	"strings"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/guard"
)

var ErrGetAvailableCouriersQueryIsNotConstructed = errors.New(
	"GetAvailableCouriersQuery must be created via NewGetAvailableCouriersQuery constructor",
)

// GetAvailableCouriersQuery lists the couriers that accept new deliveries,
// optionally restricted to one base city.
//
// Example:
//
//	query := NewGetAvailableCouriersQuery("São Roque")
//	handler := NewGetAvailableCouriersQueryHandler(db)
//
//	couriers, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to list couriers: %w", err)
//	}
type GetAvailableCouriersQuery struct {
	city string

	guard guard.ConstructorGuard
}

// NewGetAvailableCouriersQuery creates the query. An empty city lists every city.
func NewGetAvailableCouriersQuery(city string) GetAvailableCouriersQuery {
	return GetAvailableCouriersQuery{
		city:  strings.TrimSpace(city),
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the query was created through the constructor.
func (q GetAvailableCouriersQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableCouriersQueryIsNotConstructed)
}

// City returns the city filter, empty for all cities.
func (q GetAvailableCouriersQuery) City() string {
	return q.city
}

// GetAvailableCouriersQueryResponse is the dispatch view of one courier.
// Location is nil until the courier reports a position.
type GetAvailableCouriersQueryResponse struct {
	ID           kernel.UUID
	Name         string
	BaseCity     string
	Location     *kernel.GeoPoint
	RankingScore int
	RiskLevel    courier.RiskLevel
}
