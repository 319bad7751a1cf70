package model

import "time"

// Severity grades a bottleneck or a degraded intersection.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
)

// BottleneckType names the metric a bottleneck was raised from.
type BottleneckType string

const (
	BottleneckZoning         BottleneckType = "ZONING"
	BottleneckSchoolCapacity BottleneckType = "SCHOOL_CAPACITY"
	BottleneckTraffic        BottleneckType = "TRAFFIC"
	BottleneckInfrastructure BottleneckType = "INFRASTRUCTURE"
)

// TransitScore bands the walk time to the nearest station.
type TransitScore string

const (
	TransitExcellent TransitScore = "EXCELLENT"
	TransitGood      TransitScore = "GOOD"
	TransitFair      TransitScore = "FAIR"
	TransitPoor      TransitScore = "POOR"
)

// ZoningResult is the outcome of a height-envelope check.
type ZoningResult struct {
	Zone       string   `json:"zone"`
	Compliant  bool     `json:"compliant"`
	Violations []string `json:"violations"`
	MaxHeight  *int     `json:"max_height"`
	MaxFAR     *float64 `json:"max_far"`
}

// SchoolInfo is a school inside the catchment with its projected load.
type SchoolInfo struct {
	Name        string     `json:"name"`
	Distance    float64    `json:"distance"` // meters
	GradeLevel  GradeLevel `json:"grade_level"`
	Enrollment  int        `json:"enrollment"`
	Capacity    int        `json:"capacity"`
	NewStudents float64    `json:"new_students"`
	CapacityPct float64    `json:"capacity_pct"`
}

// SchoolBottleneck flags a school pushed over capacity.
type SchoolBottleneck struct {
	School      string   `json:"school"`
	CapacityPct float64  `json:"capacity_pct"`
	Severity    Severity `json:"severity"`
	Message     string   `json:"message"`
}

// SchoolImpact is the school-capacity result.
type SchoolImpact struct {
	StudentsGenerated float64            `json:"students_generated"`
	Schools           []SchoolInfo       `json:"schools"`
	Bottlenecks       []SchoolBottleneck `json:"bottlenecks"`
}

// PeakTrips holds peak-hour trip counts.
type PeakTrips struct {
	AM int `json:"am"`
	PM int `json:"pm"`
}

// IntersectionImpact is an intersection whose LOS degrades.
type IntersectionImpact struct {
	Name            string   `json:"name"`
	Distance        float64  `json:"distance"` // meters
	CurrentVolume   float64  `json:"current_volume"`
	AddedTrips      float64  `json:"added_trips"`
	ProjectedVolume float64  `json:"projected_volume"`
	CurrentLOS      LOS      `json:"current_los"`
	ProjectedLOS    LOS      `json:"projected_los"`
	Severity        Severity `json:"severity"`
}

// TrafficImpact is the trip-generation result.
type TrafficImpact struct {
	DailyTrips int                  `json:"daily_trips"`
	PeakTrips  PeakTrips            `json:"peak_trips"`
	LOSImpacts []IntersectionImpact `json:"los_impacts"`
}

// StationDistance is a station annotated with its distance from the site.
type StationDistance struct {
	Name     string  `json:"name"`
	Line     string  `json:"line"`
	Distance float64 `json:"distance"` // meters
}

// TransitAccess is the transit-proximity result. NearestStation is nil when
// the station catalog is empty.
type TransitAccess struct {
	NearestStation  *StationDistance  `json:"nearest_station"`
	WalkTimeMinutes float64           `json:"walk_time_minutes"`
	TransitScore    TransitScore      `json:"transit_score"`
	NearbyStations  []StationDistance `json:"nearby_stations"`
}

// InfrastructureImpact is the utility-demand result.
type InfrastructureImpact struct {
	WaterDemand            float64  `json:"water_demand"` // gallons per day
	SewerDemand            float64  `json:"sewer_demand"` // gallons per day
	PowerDemand            float64  `json:"power_demand"` // kW
	UpgradesNeeded         []string `json:"upgrades_needed"`
	EstimatedCost          float64  `json:"estimated_cost"`
	InfrastructureAdequate bool     `json:"infrastructure_adequate"`
}

// ShadowSlot is the shadow estimate for one sun position.
type ShadowSlot struct {
	Time            string  `json:"time"`
	Azimuth         float64 `json:"azimuth"`
	Altitude        float64 `json:"altitude"`
	ShadowLengthFt  float64 `json:"shadow_length_ft"`
	ShadowAreaSqft  float64 `json:"shadow_area_sqft"`
	AffectedParcels int     `json:"affected_parcels"`
}

// ShadowAnalysis is the shadow-casting result.
type ShadowAnalysis struct {
	ShadowsByTime        []ShadowSlot `json:"shadows_by_time"`
	TotalAffectedParcels int          `json:"total_affected_parcels"`
}

// EconomicImpact is the fiscal-return result.
type EconomicImpact struct {
	AnnualTaxRevenue   float64 `json:"annual_tax_revenue"`
	InfrastructureCost float64 `json:"infrastructure_cost"`
	NetImpactYear1     float64 `json:"net_impact_year_1"`
	YearsToBreakeven   float64 `json:"years_to_breakeven"`
	ConstructionJobs   int     `json:"construction_jobs"`
	PermanentJobs      int     `json:"permanent_jobs"`
}

// Bottleneck is a cross-metric issue derived from the calculator results.
type Bottleneck struct {
	Type     BottleneckType `json:"type"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
}

// ReportSource records which generator produced a narrative.
type ReportSource string

const (
	ReportSourceClaude   ReportSource = "claude"
	ReportSourceTemplate ReportSource = "template"
)

// Report is the planning narrative attached to an analysis.
type Report struct {
	AISummary string       `json:"ai_summary"`
	Source    ReportSource `json:"source"`
	Timestamp time.Time    `json:"timestamp"`
}
