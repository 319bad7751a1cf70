package report

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// maxPromptSchools caps the school bottlenecks listed in the prompt.
const maxPromptSchools = 3

// BuildPrompt renders the user prompt for a narrative request.
func BuildPrompt(in Input) string {
	b := in.Building
	a := in.Analysis
	p := printer()
	title := cases.Title(language.English)

	var sb strings.Builder
	sb.WriteString("Generate a concise impact report for the proposed development below.\n\n")

	sb.WriteString("PROPOSED DEVELOPMENT:\n")
	p.Fprintf(&sb, "- Location: Atlanta, GA (%.6f, %.6f)\n", b.Location.Lat, b.Location.Lng)
	p.Fprintf(&sb, "- Type: %s\n", title.String(string(b.Type)))
	p.Fprintf(&sb, "- Size: %d units, %d stories\n", b.Units, b.Stories)
	p.Fprintf(&sb, "- Parking: %d spaces\n\n", b.ParkingSpaces)

	sb.WriteString("ANALYSIS RESULTS:\n\n")
	if a.Zoning.Compliant {
		p.Fprintf(&sb, "Zoning: Compliant\n")
	} else {
		p.Fprintf(&sb, "Zoning: Violations: %s\n", strings.Join(a.Zoning.Violations, ", "))
	}
	p.Fprintf(&sb, "Zone: %s\n\n", a.Zoning.Zone)

	s := a.SchoolImpact
	sb.WriteString("School Impact:\n")
	p.Fprintf(&sb, "- New students: %.0f\n", s.StudentsGenerated)
	p.Fprintf(&sb, "- Bottlenecks: %d schools over capacity\n", len(s.Bottlenecks))
	if len(s.Bottlenecks) == 0 {
		sb.WriteString("  - None\n")
	}
	for i, bn := range s.Bottlenecks {
		if i == maxPromptSchools {
			break
		}
		p.Fprintf(&sb, "  - %s: %.0f%% capacity (%s)\n", bn.School, bn.CapacityPct, bn.Severity)
	}
	sb.WriteString("\n")

	t := a.TrafficImpact
	sb.WriteString("Traffic Impact:\n")
	p.Fprintf(&sb, "- Daily trips: %d\n", t.DailyTrips)
	p.Fprintf(&sb, "- Peak hour trips: AM %d, PM %d\n", t.PeakTrips.AM, t.PeakTrips.PM)
	p.Fprintf(&sb, "- Degraded intersections: %d\n\n", len(t.LOSImpacts))

	tr := a.TransitAccess
	p.Fprintf(&sb, "Transit Access: %s\n", tr.TransitScore)
	if tr.NearestStation != nil {
		p.Fprintf(&sb, "- Nearest station: %s (%.1f min walk)\n\n", tr.NearestStation.Name, tr.WalkTimeMinutes)
	} else {
		sb.WriteString("- Nearest station: none in catalog\n\n")
	}

	inf := a.Infrastructure
	if inf.InfrastructureAdequate {
		sb.WriteString("Infrastructure: Adequate\n")
	} else {
		sb.WriteString("Infrastructure: Upgrades needed\n")
	}
	p.Fprintf(&sb, "- Water demand: %.0f gpd\n", inf.WaterDemand)
	upgrades := "None"
	if len(inf.UpgradesNeeded) > 0 {
		upgrades = strings.Join(inf.UpgradesNeeded, ", ")
	}
	p.Fprintf(&sb, "- Upgrades needed: %s\n", upgrades)
	p.Fprintf(&sb, "- Cost: $%.0f\n\n", inf.EstimatedCost)

	e := a.EconomicImpact
	sb.WriteString("Economics:\n")
	p.Fprintf(&sb, "- Annual tax revenue: $%.0f\n", e.AnnualTaxRevenue)
	p.Fprintf(&sb, "- Infrastructure cost: $%.0f\n", e.InfrastructureCost)
	p.Fprintf(&sb, "- Break-even: %.1f years\n", e.YearsToBreakeven)
	p.Fprintf(&sb, "- Jobs: %d construction, %d permanent\n\n", e.ConstructionJobs, e.PermanentJobs)

	sb.WriteString(`Provide:
1. **Executive Summary** (2-3 sentences highlighting key findings)
2. **Critical Issues** (top 3 concerns with severity)
3. **Recommendations** (3 specific, actionable suggestions to mitigate impacts)
4. **Timeline Estimate** (permitting duration based on complexity and likely opposition)

Keep it professional but concise. Use bullet points for clarity.
`)
	return sb.String()
}
