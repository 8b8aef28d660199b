package territory

import (
	"errors"
	"fmt"
	"slices"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
)

// Catalog is the read-only registry of served cities. It is built once by the
// composition root and shared by reference; nothing mutates it afterwards.
type Catalog struct {
	cities map[string]City
}

// NewCatalog builds a catalog, rejecting duplicate or unnamed cities and
// invalid zones.
func NewCatalog(cities ...City) (*Catalog, error) {
	c := &Catalog{cities: make(map[string]City, len(cities))}
	for _, city := range cities {
		if city.Name == "" {
			return nil, errs.NewValueIsRequiredError("city name")
		}
		if _, dup := c.cities[city.Name]; dup {
			return nil, errs.NewValueIsInvalidErrorWithCause("city", fmt.Errorf("%s is registered twice", city.Name))
		}
		for _, z := range city.Zones {
			if err := z.Validate(); err != nil {
				return nil, err
			}
		}
		city.Zones = slices.Clone(city.Zones)
		c.cities[city.Name] = city
	}
	return c, nil
}

// IsServed reports whether the platform operates in the named city.
func (c *Catalog) IsServed(city string) bool {
	_, ok := c.cities[city]
	return ok
}

// Cities returns the served city names in lexical order.
func (c *Catalog) Cities() []string {
	names := make([]string, 0, len(c.cities))
	for name := range c.cities {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Zones returns a copy of the zone definitions of a city; unknown cities have none.
func (c *Catalog) Zones(city string) []Zone {
	return slices.Clone(c.cities[city].Zones)
}

// Bounds returns the bounding box of a city.
func (c *Catalog) Bounds(city string) (Bounds, bool) {
	ct, ok := c.cities[city]
	if !ok {
		return Bounds{}, false
	}
	return ct.Bounds, true
}

// WithinCity reports whether p lies in the bounding box of city. A city
// without a known box accepts every point.
func (c *Catalog) WithinCity(city string, p kernel.GeoPoint) bool {
	b, ok := c.Bounds(city)
	if !ok {
		return true
	}
	return b.Contains(p)
}

// DefaultCatalog returns the five cities currently served by the platform.
func DefaultCatalog() *Catalog {
	type zoneSpec struct {
		id, name string
		lat, lng float64
		radius   float64
		zt       ZoneType
	}
	build := func(name string, b [4]float64, specs ...zoneSpec) City {
		bounds, err := NewBounds(b[0], b[1], b[2], b[3])
		city := City{Name: name, Bounds: bounds}
		for _, s := range specs {
			z, zErr := NewZone(s.id, s.name, kernel.MustGeoPoint(s.lat, s.lng), s.radius, s.zt)
			err = errors.Join(err, zErr)
			city.Zones = append(city.Zones, z)
		}
		if err != nil {
			panic(err)
		}
		return city
	}

	catalog, err := NewCatalog(
		build("São Roque", [4]float64{-23.6, -23.5, -47.2, -47.1},
			zoneSpec{"sr_center", "Centro", -23.5320, -47.1360, 2, Commercial},
			zoneSpec{"sr_industrial", "Zona Industrial", -23.5250, -47.1300, 3, Industrial},
			zoneSpec{"sr_residential", "Zona Residencial", -23.5400, -47.1400, 2.5, Residential},
		),
		build("Mairinque", [4]float64{-23.6, -23.5, -47.2, -47.1},
			zoneSpec{"mq_center", "Centro", -23.5450, -47.1680, 2, Commercial},
			zoneSpec{"mq_residential", "Bairros", -23.5500, -47.1750, 3, Residential},
		),
		build("Araçariguama", [4]float64{-23.5, -23.4, -47.1, -47.0},
			zoneSpec{"ar_center", "Centro", -23.4420, -47.0610, 1.5, Commercial},
			zoneSpec{"ar_residential", "Residencial", -23.4400, -47.0580, 2, Residential},
		),
		build("Alumínio", [4]float64{-23.6, -23.5, -47.3, -47.2},
			zoneSpec{"al_center", "Centro", -23.5340, -47.2590, 1.8, Commercial},
			zoneSpec{"al_industrial", "Industrial", -23.5300, -47.2550, 2.5, Industrial},
		),
		build("Ibiúna", [4]float64{-23.7, -23.6, -47.3, -47.2},
			zoneSpec{"ib_center", "Centro", -23.6560, -47.2230, 2, Commercial},
			zoneSpec{"ib_rural", "Zona Rural", -23.6600, -47.2300, 4, Residential},
		),
	)
	if err != nil {
		panic(err)
	}
	return catalog
}
