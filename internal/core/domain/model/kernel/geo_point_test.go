package kernel_test

import (
	"testing"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lng     float64
		wantErr bool
	}{
		{name: "São Roque centre", lat: -23.5320, lng: -47.1360},
		{name: "bounds", lat: kernel.MaxLatitude, lng: kernel.MinLongitude},
		{name: "latitude too far south", lat: -90.01, lng: 0, wantErr: true},
		{name: "longitude too far east", lat: 0, lng: 180.5, wantErr: true},
		{name: "both invalid", lat: 100, lng: -200, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := kernel.NewGeoPoint(tt.lat, tt.lng)
			if tt.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
				assert.Zero(t, p)
				return
			}
			require.NoError(t, err)
			require.NoError(t, p.Validate())
			assert.InDelta(t, tt.lat, p.Lat(), 1e-12)
			assert.InDelta(t, tt.lng, p.Lng(), 1e-12)
		})
	}
}

func TestGeoPoint_DistanceTo(t *testing.T) {
	saoRoque := kernel.MustGeoPoint(-23.5320, -47.1360)
	mairinque := kernel.MustGeoPoint(-23.5450, -47.1680)

	t.Run("same point is zero", func(t *testing.T) {
		assert.InDelta(t, 0.0, saoRoque.DistanceTo(saoRoque), 1e-9)
	})

	t.Run("neighbouring cities", func(t *testing.T) {
		d := saoRoque.DistanceTo(mairinque)
		assert.InDelta(t, 3.55, d, 0.05)
		assert.InDelta(t, d, mairinque.DistanceTo(saoRoque), 1e-9, "distance is symmetric")
	})

	t.Run("one degree of latitude", func(t *testing.T) {
		a := kernel.MustGeoPoint(0, 0)
		b := kernel.MustGeoPoint(1, 0)
		assert.InDelta(t, 111.19, a.DistanceTo(b), 0.01)
	})

	t.Run("unconstructed point is unknown distance", func(t *testing.T) {
		var zero kernel.GeoPoint
		assert.Zero(t, zero.DistanceTo(saoRoque))
	})
}

func TestDistance_MissingPoints(t *testing.T) {
	p := kernel.MustGeoPoint(-23.53, -47.13)

	assert.Zero(t, kernel.Distance(nil, &p))
	assert.Zero(t, kernel.Distance(&p, nil))
	assert.Zero(t, kernel.Distance(nil, nil))
}
