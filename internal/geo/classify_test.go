package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBand(t *testing.T) {
	tests := []struct {
		name       string
		distanceKM float64
		expected   string
	}{
		{name: "urban_core: at center", distanceKM: 0, expected: BandUrbanCore},
		{name: "urban_core: just inside", distanceKM: 1.99, expected: BandUrbanCore},
		{name: "inner_ring: at threshold", distanceKM: 2.0, expected: BandInnerRing},
		{name: "inner_ring: mid", distanceKM: 5.0, expected: BandInnerRing},
		{name: "outer_ring: at threshold", distanceKM: 8.0, expected: BandOuterRing},
		{name: "outer_ring: far", distanceKM: 40.0, expected: BandOuterRing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Band(tt.distanceKM))
		})
	}
}
