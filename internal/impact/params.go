// Package impact computes the planning metrics for a proposed building:
// zoning compliance, school capacity, traffic, transit access, utility
// demand, shadows and fiscal return, plus the bottlenecks derived from them.
// Every calculator is a pure function of its inputs and a read-only catalog.
package impact

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/sells-group/impact-cli/internal/config"
)

// Params are the tunable rates the calculators use.
type Params struct {
	StudentsPerUnit float64
	ElementaryShare float64
	MiddleShare     float64
	HighShare       float64
	SchoolRadiusM   float64

	TripsPerUnit   float64 // ITE code 220, trips per unit per day
	AMPeakRatio    float64
	PMPeakRatio    float64
	TrafficRadiusM float64
	TrafficDecayM  float64

	WalkSpeedMPS    float64
	WaterGPDPerUnit float64
	PropertyTaxRate float64
	FeetPerStory    int
}

// DefaultParams returns the industry-standard rates.
func DefaultParams() Params {
	return Params{
		StudentsPerUnit: 0.3,
		ElementaryShare: 0.4,
		MiddleShare:     0.3,
		HighShare:       0.3,
		SchoolRadiusM:   4000,
		TripsPerUnit:    9.57,
		AMPeakRatio:     0.11,
		PMPeakRatio:     0.12,
		TrafficRadiusM:  2400,
		TrafficDecayM:   400,
		WalkSpeedMPS:    1.4,
		WaterGPDPerUnit: 150,
		PropertyTaxRate: 0.011,
		FeetPerStory:    12,
	}
}

// ParamsFromConfig converts the analysis config section.
func ParamsFromConfig(cfg config.AnalysisConfig) Params {
	return Params{
		StudentsPerUnit: cfg.StudentsPerUnit,
		ElementaryShare: cfg.ElementaryShare,
		MiddleShare:     cfg.MiddleShare,
		HighShare:       cfg.HighShare,
		SchoolRadiusM:   cfg.SchoolRadiusM,
		TripsPerUnit:    cfg.TripsPerUnit,
		AMPeakRatio:     cfg.AMPeakRatio,
		PMPeakRatio:     cfg.PMPeakRatio,
		TrafficRadiusM:  cfg.TrafficRadiusM,
		TrafficDecayM:   cfg.TrafficDecayM,
		WalkSpeedMPS:    cfg.WalkSpeedMPS,
		WaterGPDPerUnit: cfg.WaterGPDPerUnit,
		PropertyTaxRate: cfg.PropertyTaxRate,
		FeetPerStory:    cfg.FeetPerStory,
	}
}

// Validate rejects parameter sets the calculators cannot use.
func (p Params) Validate() error {
	if sum := p.ElementaryShare + p.MiddleShare + p.HighShare; math.Abs(sum-1) > 1e-9 {
		return eris.Errorf("impact: grade shares must sum to 1, got %.4f", sum)
	}
	positive := map[string]float64{
		"students_per_unit": p.StudentsPerUnit,
		"trips_per_unit":    p.TripsPerUnit,
		"traffic_decay_m":   p.TrafficDecayM,
		"walk_speed_mps":    p.WalkSpeedMPS,
		"feet_per_story":    float64(p.FeetPerStory),
	}
	for name, v := range positive {
		if v <= 0 {
			return eris.Errorf("impact: %s must be positive, got %v", name, v)
		}
	}
	nonNegative := map[string]float64{
		"school_radius_m":    p.SchoolRadiusM,
		"traffic_radius_m":   p.TrafficRadiusM,
		"am_peak_ratio":      p.AMPeakRatio,
		"pm_peak_ratio":      p.PMPeakRatio,
		"water_gpd_per_unit": p.WaterGPDPerUnit,
		"property_tax_rate":  p.PropertyTaxRate,
	}
	for name, v := range nonNegative {
		if v < 0 {
			return eris.Errorf("impact: %s must not be negative, got %v", name, v)
		}
	}
	return nil
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
