package territory

import (
	"errors"
	"fmt"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

// ZoneType classifies a zone by land use; demand modelling weighs it.
type ZoneType string

const (
	Commercial       ZoneType = "commercial"
	BusinessDistrict ZoneType = "business_district"
	Residential      ZoneType = "residential"
	Industrial       ZoneType = "industrial"
)

// Validate reports whether t is one of the known zone types.
func (t ZoneType) Validate() error {
	switch t {
	case Commercial, BusinessDistrict, Residential, Industrial:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("zone type", fmt.Errorf("%q is not a known zone type", string(t)))
	}
}

// ErrZoneIsNotConstructed is returned for a zero-value Zone.
var ErrZoneIsNotConstructed = errors.New("Zone must be created via NewZone constructor")

// Zone is a static geographic sub-area of a served city. Zones are configured
// at startup and read-only afterwards.
type Zone struct {
	id       string
	name     string
	center   kernel.GeoPoint
	radiusKm float64
	zoneType ZoneType
	guard    guard.ConstructorGuard
}

// NewZone validates and builds a zone definition.
func NewZone(id, name string, center kernel.GeoPoint, radiusKm float64, zoneType ZoneType) (Zone, error) {
	z := Zone{guard: guard.NewConstructorGuard()}

	var errList []error
	if id == "" {
		errList = append(errList, errs.NewValueIsRequiredError("zone id"))
	}
	if name == "" {
		errList = append(errList, errs.NewValueIsRequiredError("zone name"))
	}
	if err := center.Validate(); err != nil {
		errList = append(errList, err)
	}
	if radiusKm <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("radius",
			fmt.Errorf("%.2f is not greater than 0", radiusKm)))
	}
	if err := zoneType.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := errors.Join(errList...); err != nil {
		return Zone{}, err
	}

	z.id, z.name, z.center, z.radiusKm, z.zoneType = id, name, center, radiusKm, zoneType
	return z, nil
}

// Validate fails for a zero-value Zone.
func (z Zone) Validate() error { return z.guard.Validate(ErrZoneIsNotConstructed) }

// ID returns the catalog identifier, e.g. "sr_center".
func (z Zone) ID() string { return z.id }

// Name returns the display name.
func (z Zone) Name() string { return z.name }

// Center returns the zone centre.
func (z Zone) Center() kernel.GeoPoint { return z.center }

// RadiusKm returns the zone radius in kilometres.
func (z Zone) RadiusKm() float64 { return z.radiusKm }

// Type returns the land-use classification.
func (z Zone) Type() ZoneType { return z.zoneType }
