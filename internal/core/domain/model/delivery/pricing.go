package delivery

import (
	"fmt"
	"math"

	"lastmile/internal/pkg/errs"
)

const (
	BasePrice       = 9.00
	IncludedKm      = 4.0
	PricePerExtraKm = 2.50
	PlatformFee     = 2.00
)

// Pricing is the fare breakdown of a delivery in BRL.
type Pricing struct {
	DistanceKm      float64
	BasePrice       float64
	AdditionalPrice float64
	TotalPrice      float64
	PlatformFee     float64
	CourierEarning  float64
}

// NewPricing charges the base fare for the first IncludedKm and
// PricePerExtraKm for every kilometre after that.
func NewPricing(distanceKm float64) (Pricing, error) {
	if math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) || distanceKm < 0 {
		return Pricing{}, errs.NewValueIsInvalidErrorWithCause("distance", fmt.Errorf("%v is not a valid distance", distanceKm))
	}

	additional := 0.0
	if distanceKm > IncludedKm {
		additional = (distanceKm - IncludedKm) * PricePerExtraKm
	}
	total := BasePrice + additional

	return Pricing{
		DistanceKm:      round2(distanceKm),
		BasePrice:       BasePrice,
		AdditionalPrice: round2(additional),
		TotalPrice:      round2(total),
		PlatformFee:     PlatformFee,
		CourierEarning:  round2(total - PlatformFee),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
