package geo_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"

	"github.com/parking-zone-service/internal/pkg/geo"
)

func TestHaversineDistance(t *testing.T) {
	t.Run("same point is zero", func(t *testing.T) {
		assert.Equal(t, 0.0, geo.HaversineDistance(55.6, 13.0, 55.6, 13.0))
	})

	t.Run("one degree of latitude", func(t *testing.T) {
		d := geo.HaversineDistance(55.0, 13.0, 56.0, 13.0)
		assert.InDelta(t, 111195.0, d, 1.0)
	})

	t.Run("symmetric", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		for i := 0; i < 100; i++ {
			lat1, lon1 := 55+rng.Float64(), 12+rng.Float64()
			lat2, lon2 := 55+rng.Float64(), 12+rng.Float64()
			assert.InDelta(t,
				geo.HaversineDistance(lat1, lon1, lat2, lon2),
				geo.HaversineDistance(lat2, lon2, lat1, lon1),
				1e-9)
		}
	})
}

func TestProjectToGeographic(t *testing.T) {
	lat, lon := geo.ProjectToGeographic(500000, 0)
	assert.Equal(t, 55.5, lat)
	assert.Equal(t, 15.0, lon)

	lat, lon = geo.ProjectToGeographic(500000+111320, 111320)
	assert.InDelta(t, 56.5, lat, 1e-12)
	assert.InDelta(t, 16.0, lon, 1e-12)
}

func TestDistancePointToSegment(t *testing.T) {
	tests := []struct {
		name     string
		p, a, b  orb.Point
		expected float64
	}{
		{"perpendicular foot inside", orb.Point{5, 3}, orb.Point{0, 0}, orb.Point{10, 0}, 3},
		{"clamped to start", orb.Point{-4, 3}, orb.Point{0, 0}, orb.Point{10, 0}, 5},
		{"clamped to end", orb.Point{13, 4}, orb.Point{0, 0}, orb.Point{10, 0}, 5},
		{"zero-length segment", orb.Point{3, 4}, orb.Point{0, 0}, orb.Point{0, 0}, 5},
		{"point on segment", orb.Point{2, 2}, orb.Point{0, 0}, orb.Point{4, 4}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := geo.DistancePointToSegment(tt.p, tt.a, tt.b)
			assert.False(t, math.IsNaN(d))
			assert.InDelta(t, tt.expected, d, 1e-9)
		})
	}
}

func TestLocalFrame_AxisGapsNeverExceedHaversine(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	frame := geo.NewLocalFrame(55.7)

	for i := 0; i < 1000; i++ {
		lat1, lon1 := 55.5+rng.Float64()*0.2, 12.9+rng.Float64()*0.2
		lat2 := lat1 + (rng.Float64()-0.5)*0.001
		lon2 := lon1 + (rng.Float64()-0.5)*0.001

		d := geo.HaversineDistance(lat1, lon1, lat2, lon2)
		p1 := frame.Project(lat1, lon1)
		p2 := frame.Project(lat2, lon2)

		assert.LessOrEqual(t, math.Abs(p1.X()-p2.X()), d)
		assert.LessOrEqual(t, math.Abs(p1.Y()-p2.Y()), d+1e-9)
	}
}

func TestGapLowerBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		lat1, lon1 := 55+rng.Float64(), 12+rng.Float64()
		lat2, lon2 := 55+rng.Float64(), 12+rng.Float64()
		d := geo.HaversineDistance(lat1, lon1, lat2, lon2)

		assert.LessOrEqual(t, geo.LatGapLowerBound(lat1-lat2), d+1e-6)
		assert.LessOrEqual(t, geo.LonGapLowerBound(lon1-lon2, 56), d+1e-6)
	}
}

func TestValidateCoordinates(t *testing.T) {
	assert.True(t, geo.ValidateCoordinates(55.6, 13.0))
	assert.True(t, geo.ValidateCoordinates(-90, 180))
	assert.False(t, geo.ValidateCoordinates(90.1, 0))
	assert.False(t, geo.ValidateCoordinates(0, -180.5))
}
