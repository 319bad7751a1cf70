// Package geo provides the spatial primitives of the impact pipeline:
// great-circle distance, footprint area, point-in-polygon and distance bands.
package geo

// Distance bands around the city center.
const (
	BandUrbanCore = "urban_core"
	BandInnerRing = "inner_ring"
	BandOuterRing = "outer_ring"
)

// Band thresholds (kilometers from the city center).
const (
	urbanCoreThresholdKM = 2.0
	innerRingThresholdKM = 8.0
)

// Band returns the distance band for a point distanceKM from the city center.
// Rules:
//   - urban_core: distance < 2km
//   - inner_ring: 2km <= distance < 8km
//   - outer_ring: distance >= 8km
func Band(distanceKM float64) string {
	switch {
	case distanceKM < urbanCoreThresholdKM:
		return BandUrbanCore
	case distanceKM < innerRingThresholdKM:
		return BandInnerRing
	default:
		return BandOuterRing
	}
}
