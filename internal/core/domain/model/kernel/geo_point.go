package kernel

import (
	"errors"
	"fmt"
	"math"

	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

const (
	// MinLatitude is the southern bound of a valid latitude.
	MinLatitude = -90.0
	// MaxLatitude is the northern bound of a valid latitude.
	MaxLatitude = 90.0
	// MinLongitude is the western bound of a valid longitude.
	MinLongitude = -180.0
	// MaxLongitude is the eastern bound of a valid longitude.
	MaxLongitude = 180.0

	// earthRadiusKm is the mean Earth radius used by the haversine formula.
	earthRadiusKm = 6371.0088
)

// ErrGeoPointIsNotConstructed is returned when a zero-value GeoPoint is used.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError("geo point must be created via NewGeoPoint")

// GeoPoint is an immutable WGS84 coordinate (latitude, longitude in degrees).
//
// A courier without a known position carries a nil *GeoPoint rather than a
// zero coordinate, so "missing" can never be confused with the Gulf of Guinea.
//
// Example:
//
//	pickup, err := kernel.NewGeoPoint(-23.5320, -47.1360)
//	if err != nil {
//	    return err
//	}
//	km := pickup.DistanceTo(drop)
type GeoPoint struct {
	lat   float64
	lng   float64
	guard guard.ConstructorGuard
}

// NewGeoPoint validates and builds a coordinate.
//
// Returns:
//   - GeoPoint: the coordinate
//   - error: ValueIsOutOfRangeError for latitude outside [-90, 90] or longitude outside [-180, 180];
//     both violations are joined when both occur
func NewGeoPoint(lat, lng float64) (GeoPoint, error) {
	p := GeoPoint{guard: guard.NewConstructorGuard()}
	if err := errors.Join(p.setLat(lat), p.setLng(lng)); err != nil {
		return GeoPoint{}, err
	}
	return p, nil
}

// MustGeoPoint is NewGeoPoint for static catalogs whose values are known to be valid.
func MustGeoPoint(lat, lng float64) GeoPoint {
	p, err := NewGeoPoint(lat, lng)
	if err != nil {
		panic(err)
	}
	return p
}

// Validate fails for a GeoPoint that was not built by NewGeoPoint.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Lat returns the latitude in degrees.
func (p GeoPoint) Lat() float64 {
	return p.lat
}

// Lng returns the longitude in degrees.
func (p GeoPoint) Lng() float64 {
	return p.lng
}

// String renders the point as "GeoPoint(lat,lng)".
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.6f,%.6f)", p.lat, p.lng)
}

// DistanceTo returns the great-circle distance in kilometres using the
// haversine formula. Unconstructed points yield 0.
func (p GeoPoint) DistanceTo(other GeoPoint) float64 {
	if p.Validate() != nil || other.Validate() != nil {
		return 0
	}

	lat1, lat2 := toRadians(p.lat), toRadians(other.lat)
	dLat := lat2 - lat1
	dLng := toRadians(other.lng - p.lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Distance is the total form of GeoPoint.DistanceTo used across the domain
// services: a missing (nil) or unconstructed point means "unknown distance"
// and yields 0, never an error.
func Distance(a, b *GeoPoint) float64 {
	if a == nil || b == nil {
		return 0
	}
	return a.DistanceTo(*b)
}

func (p *GeoPoint) setLat(lat float64) error {
	if math.IsNaN(lat) || lat < MinLatitude || lat > MaxLatitude {
		return errs.NewValueIsOutOfRangeError("lat", lat, MinLatitude, MaxLatitude)
	}
	p.lat = lat
	return nil
}

func (p *GeoPoint) setLng(lng float64) error {
	if math.IsNaN(lng) || lng < MinLongitude || lng > MaxLongitude {
		return errs.NewValueIsOutOfRangeError("lng", lng, MinLongitude, MaxLongitude)
	}
	p.lng = lng
	return nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
