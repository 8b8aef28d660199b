package services

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/territory"
)

const (
	highDemandZoneScore = 0.6
	topZonesCount       = 3
	reliableConfidence  = 0.8
)

// DemandLevel is the city-wide demand label.
type DemandLevel string

const (
	DemandLow    DemandLevel = "low"
	DemandMedium DemandLevel = "medium"
	DemandHigh   DemandLevel = "high"
)

type hourWindow struct {
	from, to   int
	multiplier float64
}

// Inclusive windows, first match wins.
var hourWindows = []hourWindow{
	{7, 9, 1.5},
	{11, 14, 1.8},
	{17, 20, 1.6},
	{20, 22, 1.2},
}

var zoneMultipliers = map[territory.ZoneType]float64{
	territory.Commercial:       1.5,
	territory.BusinessDistrict: 1.8,
	territory.Residential:      1.0,
	territory.Industrial:       0.7,
}

var peakHours = map[territory.ZoneType][]string{
	territory.Commercial:       {"08:00-10:00", "12:00-14:00", "18:00-20:00"},
	territory.BusinessDistrict: {"08:00-09:00", "12:00-13:00", "17:00-19:00"},
	territory.Residential:      {"11:00-13:00", "18:00-21:00"},
	territory.Industrial:       {"07:00-08:00", "12:00-13:00", "17:00-18:00"},
}

// DemandFactors are the multipliers that produced a zone prediction.
type DemandFactors struct {
	Hour    float64
	Day     float64
	Zone    float64
	Weather float64
}

// ZoneDemand is the prediction for one zone.
type ZoneDemand struct {
	ZoneID          string
	ZoneName        string
	Center          kernel.GeoPoint
	RadiusKm        float64
	PredictedDemand float64
	Confidence      float64
	PeakHours       []string
	Factors         DemandFactors
}

// CityDemand summarizes the zones of a city.
type CityDemand struct {
	Level           DemandLevel
	Score           float64
	TotalZones      int
	HighDemandZones int
}

// Heatmap is the demand forecast of a city at a point in time. Zones are
// sorted by descending demand and TopZones holds at most three of them.
type Heatmap struct {
	City            string
	PredictedFor    time.Time
	Zones           []ZoneDemand
	TopZones        []ZoneDemand
	Overall         CityDemand
	Recommendations []string
}

// DemandPredictor forecasts per-zone demand for the served cities.
//
//	demand = base * hour * day * zone type * weather, capped at 1
//
// The base level (0.3..0.8), the weather factor (0.8..1.3) and the
// confidence (0.70..0.95) are drawn from the injected random source. The
// weather factor is a stand-in for a weather feed, not a forecast.
type DemandPredictor struct {
	catalog *territory.Catalog
	rnd     kernel.RandomSource
}

// NewDemandPredictor creates a predictor over catalog. rnd must be safe for
// concurrent use when the predictor is shared.
func NewDemandPredictor(catalog *territory.Catalog, rnd kernel.RandomSource) *DemandPredictor {
	return &DemandPredictor{catalog: catalog, rnd: rnd}
}

// Predict builds the heatmap of city at the given time. An unknown city gets
// an empty heatmap with a low level.
func (p *DemandPredictor) Predict(city string, at time.Time) Heatmap {
	zones := p.catalog.Zones(city)
	predictions := make([]ZoneDemand, 0, len(zones))
	for _, z := range zones {
		predictions = append(predictions, p.predictZone(z, at))
	}

	slices.SortStableFunc(predictions, func(a, b ZoneDemand) int {
		switch {
		case a.PredictedDemand > b.PredictedDemand:
			return -1
		case a.PredictedDemand < b.PredictedDemand:
			return 1
		default:
			return 0
		}
	})

	return Heatmap{
		City:            city,
		PredictedFor:    at,
		Zones:           predictions,
		TopZones:        slices.Clone(predictions[:min(topZonesCount, len(predictions))]),
		Overall:         cityDemand(predictions),
		Recommendations: recommendations(predictions),
	}
}

func (p *DemandPredictor) predictZone(z territory.Zone, at time.Time) ZoneDemand {
	base := kernel.Uniform(p.rnd, 0.3, 0.8)
	weather := kernel.Uniform(p.rnd, 0.8, 1.3)
	confidence := kernel.Uniform(p.rnd, 0.7, 0.95)

	factors := DemandFactors{
		Hour:    HourMultiplier(at.Hour()),
		Day:     DayMultiplier(at.Weekday()),
		Zone:    zoneMultiplier(z.Type()),
		Weather: weather,
	}
	demand := math.Min(1, base*factors.Hour*factors.Day*factors.Zone*factors.Weather)

	return ZoneDemand{
		ZoneID:          z.ID(),
		ZoneName:        z.Name(),
		Center:          z.Center(),
		RadiusKm:        z.RadiusKm(),
		PredictedDemand: round(demand, 3),
		Confidence:      round(confidence, 3),
		PeakHours:       PeakHours(z.Type()),
		Factors:         factors,
	}
}

// HourMultiplier is 1.5 for 07-09, 1.8 for 11-14, 1.6 for 17-20, 1.2 for
// 20-22 and 1 otherwise.
func HourMultiplier(hour int) float64 {
	for _, w := range hourWindows {
		if hour >= w.from && hour <= w.to {
			return w.multiplier
		}
	}
	return 1.0
}

// DayMultiplier is 1.4 on Friday, 0.8 on weekends and 1.2 on other weekdays.
func DayMultiplier(day time.Weekday) float64 {
	switch day {
	case time.Friday:
		return 1.4
	case time.Saturday, time.Sunday:
		return 0.8
	default:
		return 1.2
	}
}

// PeakHours returns the typical busy windows of a zone type.
func PeakHours(t territory.ZoneType) []string {
	if hours, ok := peakHours[t]; ok {
		return slices.Clone(hours)
	}
	return []string{"12:00-14:00"}
}

func zoneMultiplier(t territory.ZoneType) float64 {
	if m, ok := zoneMultipliers[t]; ok {
		return m
	}
	return 1.0
}

func cityDemand(zones []ZoneDemand) CityDemand {
	overall := CityDemand{Level: DemandLow, TotalZones: len(zones)}
	if len(zones) == 0 {
		return overall
	}

	var sum float64
	for _, z := range zones {
		sum += z.PredictedDemand
		if z.PredictedDemand >= highDemandZoneScore {
			overall.HighDemandZones++
		}
	}
	avg := sum / float64(len(zones))

	switch {
	case avg >= 0.7:
		overall.Level = DemandHigh
	case avg >= 0.4:
		overall.Level = DemandMedium
	}
	overall.Score = round(avg, 3)
	return overall
}

func recommendations(zones []ZoneDemand) []string {
	if len(zones) == 0 {
		return []string{}
	}

	out := []string{
		fmt.Sprintf("Posicione-se próximo a %s (demanda: %.1f%%)", zones[0].ZoneName, zones[0].PredictedDemand*100),
	}

	var high []string
	var confidence float64
	for _, z := range zones {
		if z.PredictedDemand >= highDemandZoneScore && len(high) < topZonesCount {
			high = append(high, z.ZoneName)
		}
		confidence += z.Confidence
	}
	if len(high) > 1 {
		out = append(out, "Áreas de alta demanda: "+strings.Join(high, ", "))
	}

	if confidence/float64(len(zones)) >= reliableConfidence {
		out = append(out, "Predição confiável - boa oportunidade de ganhos")
	} else {
		out = append(out, "Predição moderada - monitore mudanças na demanda")
	}
	return out
}
