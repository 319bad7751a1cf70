package geo

import (
	"math"

	"github.com/sells-group/impact-cli/internal/model"
)

// EarthRadiusMeters is the mean Earth radius used by Distance.
const EarthRadiusMeters = 6371000.0

// Distance returns the great-circle (Haversine) distance between a and b in
// meters. Identical points return exactly 0.
func Distance(a, b model.Location) float64 {
	if a == b {
		return 0
	}

	phi1 := a.Lat * math.Pi / 180
	phi2 := b.Lat * math.Pi / 180
	dPhi := (b.Lat - a.Lat) * math.Pi / 180
	dLambda := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)

	// Rounding can push h a hair outside [0, 1] near antipodes.
	h = math.Min(1, math.Max(0, h))

	return EarthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// DistanceKM is Distance in kilometers.
func DistanceKM(a, b model.Location) float64 {
	return Distance(a, b) / 1000
}
