package services

import (
	"cmp"
	"math"
	"slices"
	"time"

	"lastmile/internal/core/domain/model/delivery"
	"lastmile/internal/core/domain/model/kernel"
)

const (
	baseSpeedKmh     = 30.0
	fuelPricePerKm   = 0.15
	efficiencyWeight = 0.7
	priorityWeight   = 0.3
	positionPenalty  = 0.1
)

// PointKind tells what happens at a route point.
type PointKind string

const (
	PointStart    PointKind = "start"
	PointPickup   PointKind = "pickup"
	PointDelivery PointKind = "delivery"
)

// RouteStop is one delivery assigned to the courier. PickedUp stops only
// have their drop-off left to visit.
type RouteStop struct {
	DeliveryID kernel.UUID
	Pickup     kernel.GeoPoint
	Drop       kernel.GeoPoint
	Priority   int
	PickedUp   bool
}

// next is the first point of the stop still to be visited.
func (s RouteStop) next() kernel.GeoPoint {
	if s.PickedUp {
		return s.Drop
	}
	return s.Pickup
}

// StopsFor converts deliveries to route stops. Deliveries with a confirmed
// pickup are already in the courier's hands.
func StopsFor(deliveries []*delivery.Delivery) []RouteStop {
	stops := make([]RouteStop, 0, len(deliveries))
	for _, d := range deliveries {
		stops = append(stops, RouteStop{
			DeliveryID: d.ID(),
			Pickup:     d.Pickup().Point,
			Drop:       d.Drop().Point,
			Priority:   d.Priority(),
			PickedUp:   isPickedUp(d.Status()),
		})
	}
	return stops
}

func isPickedUp(s delivery.Status) bool {
	switch s {
	case delivery.PickupConfirmed, delivery.InTransit, delivery.Waiting:
		return true
	default:
		return false
	}
}

// RoutePoint is one emitted point of the plan. DeliveryID is the zero UUID
// for the start point.
type RoutePoint struct {
	Kind       PointKind
	DeliveryID kernel.UUID
	Location   kernel.GeoPoint
	Priority   int
}

// FuelSavings compares the plan with serving every delivery as its own round trip.
type FuelSavings struct {
	DistanceSavedKm       float64
	MoneySaved            float64
	EfficiencyImprovement float64
}

// RoutePlan is the sequenced multi-stop route of a courier.
type RoutePlan struct {
	Sequence          []RoutePoint
	TotalDistanceKm   float64
	EstimatedMinutes  float64
	FuelSavings       FuelSavings
	OptimizationScore float64
}

// RouteOptimizer sequences the deliveries of one courier with a greedy
// heuristic: stops in order of descending priority and then distance from the
// start to their next point, each pickup followed directly by its drop-off.
// A delivery point therefore never precedes its own pickup, and a stop already
// picked up contributes its drop-off only.
type RouteOptimizer struct{}

func NewRouteOptimizer() RouteOptimizer {
	return RouteOptimizer{}
}

// Optimize plans the route from start at the given time of day. An empty
// stop list yields an empty plan.
func (o RouteOptimizer) Optimize(stops []RouteStop, start kernel.GeoPoint, at time.Time) RoutePlan {
	if len(stops) == 0 {
		return RoutePlan{Sequence: []RoutePoint{}}
	}

	ordered := slices.Clone(stops)
	slices.SortStableFunc(ordered, func(a, b RouteStop) int {
		if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
			return c
		}
		return cmp.Compare(start.DistanceTo(a.next()), start.DistanceTo(b.next()))
	})

	sequence := make([]RoutePoint, 0, 1+2*len(ordered))
	sequence = append(sequence, RoutePoint{Kind: PointStart, Location: start})
	for _, s := range ordered {
		if !s.PickedUp {
			sequence = append(sequence,
				RoutePoint{Kind: PointPickup, DeliveryID: s.DeliveryID, Location: s.Pickup, Priority: s.Priority})
		}
		sequence = append(sequence,
			RoutePoint{Kind: PointDelivery, DeliveryID: s.DeliveryID, Location: s.Drop, Priority: s.Priority})
	}

	multiplier := TrafficMultiplier(at.Hour())
	var distance, minutes float64
	for i := 1; i < len(sequence); i++ {
		d := sequence[i-1].Location.DistanceTo(sequence[i].Location)
		distance += d
		minutes += d / baseSpeedKmh * 60 * multiplier
	}

	savings := fuelSavings(stops, distance)

	return RoutePlan{
		Sequence:          sequence,
		TotalDistanceKm:   round(distance, 2),
		EstimatedMinutes:  math.Round(minutes),
		FuelSavings:       savings,
		OptimizationScore: round(optimizationScore(savings, sequence), 2),
	}
}

// TrafficMultiplier slows the 30 km/h base speed during rush hours (07-09,
// 17-19) and lunch (11-14). Hour windows are inclusive.
func TrafficMultiplier(hour int) float64 {
	switch {
	case (hour >= 7 && hour <= 9) || (hour >= 17 && hour <= 19):
		return 1.5
	case hour >= 11 && hour <= 14:
		return 1.2
	default:
		return 1.0
	}
}

func fuelSavings(stops []RouteStop, optimized float64) FuelSavings {
	var baseline float64
	for _, s := range stops {
		baseline += s.Pickup.DistanceTo(s.Drop) * 2
	}

	saved := math.Max(0, baseline-optimized)
	savings := FuelSavings{
		DistanceSavedKm: round(saved, 2),
		MoneySaved:      round(saved*fuelPricePerKm, 2),
	}
	if baseline > 0 {
		savings.EfficiencyImprovement = round(saved/baseline*100, 1)
	}
	return savings
}

func optimizationScore(savings FuelSavings, sequence []RoutePoint) float64 {
	var priority float64
	position := 0
	for _, p := range sequence {
		if p.Kind != PointDelivery {
			continue
		}
		priority += math.Max(0, float64(p.Priority)/10-float64(position)*positionPenalty)
		position++
	}

	score := savings.EfficiencyImprovement*efficiencyWeight + priority*priorityWeight
	return math.Min(100, math.Max(0, score))
}
