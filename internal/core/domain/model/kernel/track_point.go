package kernel

import (
	"time"

	"lastmile/internal/pkg/errs"
)

// TrackPoint is one sample of a courier's location trace.
type TrackPoint struct {
	point GeoPoint
	at    time.Time
}

// NewTrackPoint builds a trace sample. The timestamp is required.
func NewTrackPoint(lat, lng float64, at time.Time) (TrackPoint, error) {
	if at.IsZero() {
		return TrackPoint{}, errs.NewValueIsRequiredError("timestamp")
	}
	p, err := NewGeoPoint(lat, lng)
	if err != nil {
		return TrackPoint{}, err
	}
	return TrackPoint{point: p, at: at}, nil
}

// Point returns the sampled coordinate.
func (t TrackPoint) Point() GeoPoint {
	return t.point
}

// At returns when the sample was taken.
func (t TrackPoint) At() time.Time {
	return t.at
}

// SpeedKmh returns the average speed needed to move from prev to next.
// ok is false when the samples are not strictly increasing in time.
func SpeedKmh(prev, next TrackPoint) (speed float64, ok bool) {
	hours := next.at.Sub(prev.at).Hours()
	if hours <= 0 {
		return 0, false
	}
	return prev.point.DistanceTo(next.point) / hours, true
}
