package services

import (
	"math"
	"time"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/delivery"
	"lastmile/internal/core/domain/model/kernel"
)

const (
	rankingWeight   = 0.7
	proximityWeight = 0.3
	// proximityPenaltyPerKm is subtracted from a 100 proximity score per km to pickup.
	proximityPenaltyPerKm = 10.0
)

// CandidateScore is the score breakdown of one eligible courier.
type CandidateScore struct {
	CourierID        kernel.UUID
	RankingScore     int
	DistanceToPickup float64
	ProximityScore   float64
	WeightedScore    float64
}

// MatchDecision is the result of a matching round. Matched is false when no
// courier is eligible, which is an expected outcome and not an error.
type MatchDecision struct {
	Matched    bool
	Courier    *courier.Courier
	Best       CandidateScore
	Candidates []CandidateScore
}

// DeliveryMatcher is a domain service that selects the courier for a pending
// delivery.
//
// Eligibility:
//   - Courier is available
//   - Courier base city equals the pickup city
//   - Courier has a current coordinate
//
// Every eligible courier is scored as
//
//	proximity = max(0, 100 - distance_to_pickup*10)
//	weighted  = ranking*0.7 + proximity*0.3
//
// and the highest weighted score wins. Equal scores prefer the courier closer
// to the pickup, then the one seen first.
//
// Example usage:
//
//	matcher := services.NewDeliveryMatcher()
//	decision, err := matcher.Dispatch(d, couriers, rnd, time.Now())
//	if err != nil {
//	    return err
//	}
//	if !decision.Matched {
//	    // delivery stays pending
//	}
type DeliveryMatcher struct{}

// NewDeliveryMatcher creates a DeliveryMatcher.
func NewDeliveryMatcher() DeliveryMatcher {
	return DeliveryMatcher{}
}

// Select scores the couriers for d without changing any state.
//
// Parameters:
//   - d: the delivery to match (must be valid)
//   - couriers: candidates in iteration order
//
// Returns:
//   - MatchDecision: the winner and the breakdown of every eligible courier
//   - error: validation errors of d or of a candidate
func (m DeliveryMatcher) Select(d *delivery.Delivery, couriers []*courier.Courier) (MatchDecision, error) {
	if err := d.Validate(); err != nil {
		return MatchDecision{}, err
	}

	var decision MatchDecision
	pickup := d.Pickup()

	for _, c := range couriers {
		if err := c.Validate(); err != nil {
			return MatchDecision{}, err
		}

		if !c.IsAvailable() || c.BaseCity() != pickup.City {
			continue
		}
		location := c.Location()
		if location == nil {
			continue
		}

		score := scoreCandidate(c, kernel.Distance(location, &pickup.Point))
		decision.Candidates = append(decision.Candidates, score)

		if !decision.Matched || beats(score, decision.Best) {
			decision.Matched = true
			decision.Best = score
			decision.Courier = c
		}
	}

	return decision, nil
}

// Dispatch selects the best courier and matches the delivery to it, which
// issues the handoff PIN. The delivery is left untouched when nobody is
// eligible.
func (m DeliveryMatcher) Dispatch(
	d *delivery.Delivery,
	couriers []*courier.Courier,
	r kernel.RandomSource,
	now time.Time,
) (MatchDecision, error) {
	decision, err := m.Select(d, couriers)
	if err != nil {
		return MatchDecision{}, err
	}
	if !decision.Matched {
		return decision, nil
	}

	if err := d.Match(decision.Courier.ID(), r, now); err != nil {
		return MatchDecision{}, err
	}
	return decision, nil
}

func scoreCandidate(c *courier.Courier, distanceKm float64) CandidateScore {
	proximity := math.Max(0, 100-distanceKm*proximityPenaltyPerKm)
	return CandidateScore{
		CourierID:        c.ID(),
		RankingScore:     c.RankingScore(),
		DistanceToPickup: distanceKm,
		ProximityScore:   proximity,
		WeightedScore:    float64(c.RankingScore())*rankingWeight + proximity*proximityWeight,
	}
}

func beats(candidate, best CandidateScore) bool {
	if candidate.WeightedScore != best.WeightedScore {
		return candidate.WeightedScore > best.WeightedScore
	}
	return candidate.DistanceToPickup < best.DistanceToPickup
}
