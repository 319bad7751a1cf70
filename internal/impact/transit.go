package impact

import (
	"sort"

	"github.com/sells-group/impact-cli/internal/geo"
	"github.com/sells-group/impact-cli/internal/model"
)

const nearbyStationCount = 3

// ScoreWalkTime bands a walk time in minutes.
func ScoreWalkTime(minutes float64) model.TransitScore {
	switch {
	case minutes < 5:
		return model.TransitExcellent
	case minutes < 10:
		return model.TransitGood
	case minutes < 15:
		return model.TransitFair
	default:
		return model.TransitPoor
	}
}

// TransitAccess ranks every station by distance and scores the walk to the
// nearest one. Ties keep catalog order. An empty catalog scores POOR with no
// nearest station.
func TransitAccess(loc model.Location, stations []model.TransitStation, p Params) model.TransitAccess {
	ranked := make([]model.StationDistance, len(stations))
	for i, s := range stations {
		ranked[i] = model.StationDistance{
			Name:     s.Name,
			Line:     s.Line,
			Distance: geo.Distance(loc, s.Location()),
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Distance < ranked[j].Distance })

	if len(ranked) == 0 {
		return model.TransitAccess{
			TransitScore:   model.TransitPoor,
			NearbyStations: []model.StationDistance{},
		}
	}

	nearest := ranked[0]
	walk := nearest.Distance / p.WalkSpeedMPS / 60

	n := min(nearbyStationCount, len(ranked))
	return model.TransitAccess{
		NearestStation:  &nearest,
		WalkTimeMinutes: round1(walk),
		TransitScore:    ScoreWalkTime(walk),
		NearbyStations:  ranked[:n:n],
	}
}
