package starindex

import (
	"math"
	"testing"

	"github.com/forestrie/go-skyindex/mesh"
	"github.com/stretchr/testify/assert"
)

func TestEpochOfYear(t *testing.T) {
	assert.Equal(t, J2000, EpochOfYear(2000))
	assert.InDelta(t, 2150.5, EpochOfYear(2150.5).Year(), 1e-9)
	assert.InDelta(t, -25.0, EpochOfYear(1975).YearsSince(J2000), 1e-9)
	assert.InDelta(t, 365.25, float64(EpochOfYear(2001)-J2000), 1e-9)
}

func TestPositionAt(t *testing.T) {
	tests := []struct {
		name    string
		star    Star
		years   float64
		wantRA  float64
		wantDec float64
	}{
		{"still", Star{RA: 30, Dec: 40}, 500, 30, 40},
		{"reference epoch", Star{RA: 30, Dec: 40, PMRA: 1e5, PMDec: 1e5}, 0, 30, 40},
		// one degree along the tangent plane projects to atan(1 deg) on the sphere
		{"north", Star{RA: 0, Dec: 0, PMDec: 36000}, 100, 0, math.Atan(math.Pi/180) * 180 / math.Pi},
		{"east", Star{RA: 0, Dec: 0, PMRA: 36000}, 100, math.Atan(math.Pi/180) * 180 / math.Pi, 0},
		{"backwards", Star{RA: 0, Dec: 0, PMDec: 36000}, -100, 0, -math.Atan(math.Pi/180) * 180 / math.Pi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.star.PositionAt(EpochOfYear(2000 + tt.years))
			assert.InDelta(t, tt.wantRA, got.RA, 1e-9)
			assert.InDelta(t, tt.wantDec, got.Dec, 1e-9)
		})
	}
}

func TestPositionAtPole(t *testing.T) {
	s := Star{RA: 123, Dec: 90, PMRA: 3600, PMDec: 3600}
	got := s.PositionAt(EpochOfYear(3000))
	assert.False(t, math.IsNaN(got.RA) || math.IsNaN(got.Dec))
	moved := mesh.AngularDistance(s.Reference(), got)
	want := math.Atan(math.Hypot(1, 1)*math.Pi/180) * 180 / math.Pi
	assert.InDelta(t, want, moved, 1e-9)
}

func TestApparentPositionCachedPerPass(t *testing.T) {
	s := &Star{RA: 10, Dec: 10, PMDec: 3.6e6}
	first := s.ApparentPosition(Pass{Epoch: EpochOfYear(2001), Token: 5})
	assert.Equal(t, first, s.ApparentPosition(Pass{Epoch: EpochOfYear(2010), Token: 5}))

	moved := s.ApparentPosition(Pass{Epoch: EpochOfYear(2002), Token: 6})
	assert.NotEqual(t, first, moved)

	uncached := s.ApparentPosition(Pass{Epoch: EpochOfYear(2003)})
	assert.Equal(t, s.PositionAt(EpochOfYear(2003)), uncached)
	assert.Equal(t, s.PositionAt(EpochOfYear(2001)), s.ApparentPosition(Pass{Epoch: EpochOfYear(2001)}))
}

func TestStarAccessors(t *testing.T) {
	s := Star{PMRA: 3, PMDec: 4, Mag: 6.5}
	assert.Equal(t, 5.0, s.ProperMotion())
	assert.Equal(t, 6.5, s.Magnitude())
	assert.False(t, s.HasName())
	s.AltName = "x"
	assert.True(t, s.HasName())
	assert.Equal(t, 1.0, driftDegrees(3.6e6, -1))
}
