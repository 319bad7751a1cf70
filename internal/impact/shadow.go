package impact

import (
	"math"

	"github.com/sells-group/impact-cli/internal/geo"
	"github.com/sells-group/impact-cli/internal/model"
)

// Shadow estimation constants. Footprint coordinates are degrees, so the
// shoelace area is converted with a flat factor rather than a projection.
const (
	SqftPerSquareDegree = 10_000_000.0
	ParcelSqft          = 5000.0
)

type sunPosition struct {
	time     string
	azimuth  float64
	altitude float64
}

// Summer-solstice sun positions for Atlanta (33.7°N), the worst case.
var sunPositions = []sunPosition{
	{"9:00 AM", 120, 25},
	{"12:00 PM", 180, 55},
	{"3:00 PM", 240, 35},
	{"5:00 PM", 270, 15},
}

// ShadowImpact approximates the shadow cast at four sun positions. The
// shadow area is the footprint area stretched by (1 + length/100); this is
// an elongation proxy, not a projected 3D shadow. The total counts each
// distinct per-slot parcel count once.
func ShadowImpact(footprint [][]float64, stories int, p Params) model.ShadowAnalysis {
	height := float64(stories * p.FeetPerStory)
	area := geo.FootprintArea(footprint) * SqftPerSquareDegree

	slots := make([]model.ShadowSlot, 0, len(sunPositions))
	distinct := make(map[int]struct{}, len(sunPositions))
	for _, sun := range sunPositions {
		length := height / math.Tan(sun.altitude*math.Pi/180)
		shadowArea := area * (1 + length/100)
		parcels := int(math.Floor(shadowArea / ParcelSqft))

		slots = append(slots, model.ShadowSlot{
			Time:            sun.time,
			Azimuth:         sun.azimuth,
			Altitude:        sun.altitude,
			ShadowLengthFt:  length,
			ShadowAreaSqft:  shadowArea,
			AffectedParcels: parcels,
		})
		distinct[parcels] = struct{}{}
	}

	total := 0
	for n := range distinct {
		total += n
	}
	return model.ShadowAnalysis{
		ShadowsByTime:        slots,
		TotalAffectedParcels: total,
	}
}
