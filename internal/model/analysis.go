package model

import "time"

// Analysis bundles the seven calculator results and the derived bottlenecks
// for one building request.
type Analysis struct {
	Zoning         ZoningResult         `json:"zoning"`
	SchoolImpact   SchoolImpact         `json:"school_impact"`
	TrafficImpact  TrafficImpact        `json:"traffic_impact"`
	TransitAccess  TransitAccess        `json:"transit_access"`
	Infrastructure InfrastructureImpact `json:"infrastructure"`
	ShadowAnalysis ShadowAnalysis       `json:"shadow_analysis"`
	EconomicImpact EconomicImpact       `json:"economic_impact"`
	Bottlenecks    []Bottleneck         `json:"bottlenecks"`
}

// BuildingAnalysisResponse is the full record returned to API clients and
// kept in the analysis history.
type BuildingAnalysisResponse struct {
	BuildingID string          `json:"building_id"`
	Building   BuildingRequest `json:"building"`
	Analysis
	AIReport  *Report   `json:"ai_report"`
	CreatedAt time.Time `json:"created_at"`
}

// AnalysisSummary is the history listing entry of a stored analysis.
type AnalysisSummary struct {
	BuildingID  string       `json:"building_id"`
	Zone        string       `json:"zone"`
	Type        BuildingType `json:"type"`
	Units       int          `json:"units"`
	Stories     int          `json:"stories"`
	Compliant   bool         `json:"compliant"`
	Bottlenecks int          `json:"bottlenecks"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Summary returns the listing entry for r.
func (r *BuildingAnalysisResponse) Summary() AnalysisSummary {
	return AnalysisSummary{
		BuildingID:  r.BuildingID,
		Zone:        r.Zoning.Zone,
		Type:        r.Building.Type,
		Units:       r.Building.Units,
		Stories:     r.Building.Stories,
		Compliant:   r.Zoning.Compliant,
		Bottlenecks: len(r.Bottlenecks),
		CreatedAt:   r.CreatedAt,
	}
}
