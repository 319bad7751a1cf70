package impact

import (
	"math"
	"sort"

	"github.com/sells-group/impact-cli/internal/geo"
	"github.com/sells-group/impact-cli/internal/model"
)

// ClassifyLOS grades a peak-hour volume (vehicles/hour) using Highway
// Capacity Manual thresholds.
func ClassifyLOS(volume float64) model.LOS {
	switch {
	case volume < 600:
		return model.LOSA
	case volume < 900:
		return model.LOSB
	case volume < 1200:
		return model.LOSC
	case volume < 1400:
		return model.LOSD
	case volume < 1600:
		return model.LOSE
	default:
		return model.LOSF
	}
}

// TrafficImpact estimates trip generation and the intersections whose level
// of service degrades. Each intersection inside the radius receives
// pm_peak / (1 + (d/decay)^2) trips; the shares are not normalized.
func TrafficImpact(loc model.Location, units int, intersections []model.Intersection, p Params) model.TrafficImpact {
	daily := int(math.Floor(float64(units) * p.TripsPerUnit))
	am := int(math.Floor(float64(daily) * p.AMPeakRatio))
	pm := int(math.Floor(float64(daily) * p.PMPeakRatio))

	impacts := []model.IntersectionImpact{}
	for _, x := range intersections {
		d := geo.Distance(loc, x.Location())
		if d > p.TrafficRadiusM {
			continue
		}
		ratio := d / p.TrafficDecayM
		added := float64(pm) / (1 + ratio*ratio)
		projected := x.CurrentVolume + added
		los := ClassifyLOS(projected)
		if los <= x.CurrentLOS {
			continue
		}
		severity := model.SeverityMedium
		if los == model.LOSF {
			severity = model.SeverityHigh
		}
		impacts = append(impacts, model.IntersectionImpact{
			Name:            x.Name,
			Distance:        d,
			CurrentVolume:   x.CurrentVolume,
			AddedTrips:      added,
			ProjectedVolume: projected,
			CurrentLOS:      x.CurrentLOS,
			ProjectedLOS:    los,
			Severity:        severity,
		})
	}

	sort.SliceStable(impacts, func(i, j int) bool {
		hi, hj := impacts[i].Severity == model.SeverityHigh, impacts[j].Severity == model.SeverityHigh
		if hi != hj {
			return hi
		}
		return impacts[i].Distance < impacts[j].Distance
	})

	return model.TrafficImpact{
		DailyTrips: daily,
		PeakTrips:  model.PeakTrips{AM: am, PM: pm},
		LOSImpacts: impacts,
	}
}
