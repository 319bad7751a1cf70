package impact

import (
	"math"

	"github.com/sells-group/impact-cli/internal/geo"
	"github.com/sells-group/impact-cli/internal/model"
)

// CityCenter is the reference point property values decay from.
var CityCenter = model.Location{Lat: 33.7590, Lng: -84.3880}

const (
	baseValuePerUnit   = 400000.0
	valueSlopePerKM    = 15000.0
	minValuePerUnit    = 180000.0
	breakevenSentinel  = 99.0
	downtownJobsPer    = 25
	outlyingJobsPer    = 50
	downtownJobsRadius = 2.0 // km
)

// infraCostPerUnit is the public infrastructure cost per unit by distance band.
var infraCostPerUnit = map[string]float64{
	geo.BandUrbanCore: 15000,
	geo.BandInnerRing: 10000,
	geo.BandOuterRing: 6000,
}

// EconomicImpact estimates tax revenue, public cost, jobs and the breakeven
// horizon. Property value per unit falls linearly with distance from the
// city center down to a floor.
func EconomicImpact(loc model.Location, units, stories int, p Params) model.EconomicImpact {
	km := geo.DistanceKM(loc, CityCenter)

	valuePerUnit := math.Max(minValuePerUnit, baseValuePerUnit-valueSlopePerKM*km)
	revenue := float64(units) * valuePerUnit * p.PropertyTaxRate
	cost := float64(units) * infraCostPerUnit[geo.Band(km)]

	perJob := outlyingJobsPer
	if km < downtownJobsRadius {
		perJob = downtownJobsPer
	}

	breakeven := breakevenSentinel
	if revenue > 0 {
		breakeven = round1(cost / revenue)
	}

	return model.EconomicImpact{
		AnnualTaxRevenue:   revenue,
		InfrastructureCost: cost,
		NetImpactYear1:     revenue - cost,
		YearsToBreakeven:   breakeven,
		ConstructionJobs:   units * stories / 2,
		PermanentJobs:      max(units/perJob, 1),
	}
}
