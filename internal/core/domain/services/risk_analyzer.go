package services

import (
	"fmt"
	"math"
	"slices"
	"time"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/delivery"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/territory"
)

// RiskFactor names one behavioural signal of the risk analysis.
type RiskFactor string

const (
	FactorCarouselPattern     RiskFactor = "carousel_pattern"
	FactorSpeedAnomaly        RiskFactor = "speed_anomaly"
	FactorTimeAnomaly         RiskFactor = "time_anomaly"
	FactorLocationConsistency RiskFactor = "location_consistency"
)

const (
	carouselMinDeliveries   = 10
	carouselWindow          = 30
	carouselMinAcceptance   = 0.30
	speedMinPoints          = 5
	speedLimitKmh           = 80.0
	timeMinDeliveries       = 5
	timeDeviationFactor     = 2.0
	timeMaxAnomalyRate      = 0.20
	locationMinPoints       = 3
	impossibleSpeedKmh      = 150.0
	locationMaxInconsistent = 0.10
	riskScoreScale          = 25.0
)

// RiskFactorResult is the outcome of one factor. Score is within 0..1 and
// Metrics carries the factor-specific measurements.
type RiskFactorResult struct {
	Factor  RiskFactor
	Score   float64
	Details string
	Metrics map[string]float64
}

// RiskReport is the aggregated behavioural risk of a courier.
type RiskReport struct {
	CourierID            kernel.UUID
	RiskScore            float64
	RiskLevel            courier.RiskLevel
	Factors              []RiskFactorResult
	RequiresManualReview bool
	RecommendedActions   []string
	AnalyzedAt           time.Time
}

var recommendedActions = map[courier.RiskLevel][]string{
	courier.RiskLow: {"Continue monitoring"},
	courier.RiskMedium: {
		"Increase monitoring frequency",
		"Request identity verification within 7 days",
	},
	courier.RiskHigh: {
		"Immediate identity verification required",
		"Limit to maximum 5 deliveries per day",
		"Manual review of next 10 deliveries",
	},
	courier.RiskCritical: {
		"Immediate account suspension",
		"Manual investigation required",
		"Contact courier for explanation",
		"Consider permanent ban if fraud confirmed",
	},
}

// RiskAnalyzer scores a courier's recent behaviour for fraud.
//
// Four independent factors each contribute 0..1:
//   - carousel pattern: acceptance rate below 30% over the last 30 deliveries
//   - speed anomaly: any track segment above 80 km/h
//   - time anomaly: more than 20% of delivery durations beyond 2 standard deviations
//   - location consistency: impossible jumps (>150 km/h) plus points outside the base city
//
// The aggregate is min(sum*25, 100). A factor without enough data scores 0
// and says so in its details; analysis never fails on short history.
type RiskAnalyzer struct {
	catalog *territory.Catalog
}

// NewRiskAnalyzer creates a RiskAnalyzer that checks location consistency
// against the bounding boxes of catalog.
func NewRiskAnalyzer(catalog *territory.Catalog) *RiskAnalyzer {
	return &RiskAnalyzer{catalog: catalog}
}

// Analyze builds the risk report of c as of now.
func (a *RiskAnalyzer) Analyze(c *courier.Courier, now time.Time) (RiskReport, error) {
	if err := c.Validate(); err != nil {
		return RiskReport{}, err
	}

	factors := []RiskFactorResult{
		a.carouselPattern(c.DeliveryHistory()),
		a.speedAnomaly(c.LocationHistory()),
		a.timeAnomaly(c.DeliveryHistory()),
		a.locationConsistency(c.BaseCity(), c.LocationHistory()),
	}

	var sum float64
	for _, f := range factors {
		sum += f.Score
	}
	score := round(math.Min(sum*riskScoreScale, 100), 2)
	level := RiskLevelFor(score)

	return RiskReport{
		CourierID:            c.ID(),
		RiskScore:            score,
		RiskLevel:            level,
		Factors:              factors,
		RequiresManualReview: level.IsElevated(),
		RecommendedActions:   RecommendedActions(level),
		AnalyzedAt:           now,
	}, nil
}

// RiskLevelFor maps an aggregate score to its level. Boundaries are inclusive
// on the lower level: 25 is low, 25.01 is medium.
func RiskLevelFor(score float64) courier.RiskLevel {
	switch {
	case score <= 25:
		return courier.RiskLow
	case score <= 50:
		return courier.RiskMedium
	case score <= 75:
		return courier.RiskHigh
	default:
		return courier.RiskCritical
	}
}

// RecommendedActions returns a copy of the fixed action list of level.
func RecommendedActions(level courier.RiskLevel) []string {
	return slices.Clone(recommendedActions[level])
}

func (a *RiskAnalyzer) carouselPattern(history []courier.DeliverySnapshot) RiskFactorResult {
	if len(history) < carouselMinDeliveries {
		return insufficient(FactorCarouselPattern, "Insufficient data")
	}

	recent := history[max(0, len(history)-carouselWindow):]
	cancelled := 0
	for _, d := range recent {
		if d.Status == delivery.Cancelled {
			cancelled++
		}
	}
	acceptance := float64(len(recent)-cancelled) / float64(len(recent))

	result := RiskFactorResult{
		Factor:  FactorCarouselPattern,
		Details: fmt.Sprintf("Normal acceptance rate: %s", percent(acceptance)),
		Metrics: map[string]float64{"acceptance_rate": acceptance},
	}
	if acceptance < carouselMinAcceptance {
		result.Score = 1
		result.Details = fmt.Sprintf("Low acceptance rate: %s", percent(acceptance))
	}
	return result
}

func (a *RiskAnalyzer) speedAnomaly(track []kernel.TrackPoint) RiskFactorResult {
	if len(track) < speedMinPoints {
		return insufficient(FactorSpeedAnomaly, "Insufficient location data")
	}

	var maxSpeed, total float64
	segments := 0
	for i := 1; i < len(track); i++ {
		speed, ok := kernel.SpeedKmh(track[i-1], track[i])
		if !ok {
			continue
		}
		maxSpeed = math.Max(maxSpeed, speed)
		total += speed
		segments++
	}
	if segments == 0 {
		return insufficient(FactorSpeedAnomaly, "No speed data")
	}

	result := RiskFactorResult{
		Factor:  FactorSpeedAnomaly,
		Details: fmt.Sprintf("Normal speed patterns (max: %.1f km/h)", maxSpeed),
		Metrics: map[string]float64{"max_speed": maxSpeed, "avg_speed": total / float64(segments)},
	}
	if maxSpeed > speedLimitKmh {
		result.Score = math.Min(maxSpeed/100, 1)
		result.Details = fmt.Sprintf("Abnormal max speed: %.1f km/h", maxSpeed)
	}
	return result
}

func (a *RiskAnalyzer) timeAnomaly(history []courier.DeliverySnapshot) RiskFactorResult {
	var minutes []float64
	for _, d := range history {
		if dur, ok := d.Duration(); ok {
			minutes = append(minutes, dur.Minutes())
		}
	}
	if len(minutes) < timeMinDeliveries {
		return insufficient(FactorTimeAnomaly, "Insufficient completed deliveries")
	}

	mean, std := meanStd(minutes)
	anomalous := 0
	for _, m := range minutes {
		if math.Abs(m-mean) > timeDeviationFactor*std {
			anomalous++
		}
	}
	rate := float64(anomalous) / float64(len(minutes))

	result := RiskFactorResult{
		Factor:  FactorTimeAnomaly,
		Details: fmt.Sprintf("Normal delivery times (avg: %.1fmin)", mean),
		Metrics: map[string]float64{"avg_delivery_time": mean, "anomaly_rate": rate},
	}
	if rate > timeMaxAnomalyRate {
		result.Score = rate
		result.Details = fmt.Sprintf("High anomaly rate: %s", percent(rate))
	}
	return result
}

func (a *RiskAnalyzer) locationConsistency(baseCity string, track []kernel.TrackPoint) RiskFactorResult {
	if len(track) < locationMinPoints {
		return insufficient(FactorLocationConsistency, "Insufficient location data")
	}

	jumps, movements, outOfBounds := 0, 0, 0
	for i := 1; i < len(track); i++ {
		if speed, ok := kernel.SpeedKmh(track[i-1], track[i]); ok {
			if speed > impossibleSpeedKmh {
				jumps++
			}
			movements++
		}
		if a.catalog != nil && !a.catalog.WithinCity(baseCity, track[i].Point()) {
			outOfBounds++
		}
	}
	if movements == 0 {
		return insufficient(FactorLocationConsistency, "No movement data")
	}

	outOfBoundsRate := float64(outOfBounds) / float64(len(track))
	inconsistency := float64(jumps)/float64(movements) + outOfBoundsRate

	result := RiskFactorResult{
		Factor:  FactorLocationConsistency,
		Details: "Location patterns consistent",
		Metrics: map[string]float64{"impossible_jumps": float64(jumps), "out_of_bounds_rate": outOfBoundsRate},
	}
	if inconsistency > locationMaxInconsistent {
		result.Score = math.Min(inconsistency, 1)
		result.Details = fmt.Sprintf("Location inconsistencies detected: %s", percent(inconsistency))
	}
	return result
}

func insufficient(factor RiskFactor, details string) RiskFactorResult {
	return RiskFactorResult{Factor: factor, Details: details, Metrics: map[string]float64{}}
}

// meanStd returns the mean and the population standard deviation.
func meanStd(values []float64) (float64, float64) {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(sq / float64(len(values)))
}

func percent(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*100)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
