package territory

import (
	"fmt"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
)

// Bounds is a static latitude/longitude bounding box around a city.
type Bounds struct {
	LatMin, LatMax float64
	LngMin, LngMax float64
}

// NewBounds validates that the box is not inverted.
func NewBounds(latMin, latMax, lngMin, lngMax float64) (Bounds, error) {
	if latMin > latMax {
		return Bounds{}, errs.NewValueIsInvalidErrorWithCause("bounds",
			fmt.Errorf("lat min %.4f is above lat max %.4f", latMin, latMax))
	}
	if lngMin > lngMax {
		return Bounds{}, errs.NewValueIsInvalidErrorWithCause("bounds",
			fmt.Errorf("lng min %.4f is above lng max %.4f", lngMin, lngMax))
	}
	return Bounds{LatMin: latMin, LatMax: latMax, LngMin: lngMin, LngMax: lngMax}, nil
}

// Contains reports whether p lies inside the box, edges included.
func (b Bounds) Contains(p kernel.GeoPoint) bool {
	return p.Lat() >= b.LatMin && p.Lat() <= b.LatMax &&
		p.Lng() >= b.LngMin && p.Lng() <= b.LngMax
}

// City is a served city: its name, bounding box and demand zones.
type City struct {
	Name   string
	Bounds Bounds
	Zones  []Zone
}
