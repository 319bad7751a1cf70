package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/impact-cli/internal/model"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(sampleInput())

	for _, want := range []string{
		"- Location: Atlanta, GA (33.759000, -84.388000)",
		"- Type: Residential",
		"- Size: 1,000 units, 8 stories",
		"Zoning: Compliant",
		"Zone: MR-3",
		"- New students: 300",
		"  - Grady High School: 113% capacity (MEDIUM)",
		"- Daily trips: 9,570",
		"- Peak hour trips: AM 1,052, PM 1,148",
		"- Degraded intersections: 1",
		"Transit Access: EXCELLENT",
		"- Nearest station: Peachtree Center (1.0 min walk)",
		"Infrastructure: Upgrades needed",
		"- Water demand: 150,000 gpd",
		"- Upgrades needed: Water main upgrade required",
		"- Annual tax revenue: $4,400,000",
		"- Break-even: 3.4 years",
		"- Jobs: 4,000 construction, 40 permanent",
		"**Timeline Estimate**",
	} {
		assert.Contains(t, prompt, want)
	}
}

func TestBuildPrompt_EdgeCases(t *testing.T) {
	in := cleanInput()
	in.Analysis.Zoning.Compliant = false
	in.Analysis.Zoning.Violations = []string{"Height 192ft exceeds maximum 150ft"}
	in.Analysis.TransitAccess = model.TransitAccess{TransitScore: model.TransitPoor}
	in.Analysis.SchoolImpact.Bottlenecks = []model.SchoolBottleneck{
		{School: "A", CapacityPct: 101, Severity: model.SeverityMedium},
		{School: "B", CapacityPct: 102, Severity: model.SeverityMedium},
		{School: "C", CapacityPct: 103, Severity: model.SeverityMedium},
		{School: "D", CapacityPct: 130, Severity: model.SeverityHigh},
	}

	prompt := BuildPrompt(in)
	assert.Contains(t, prompt, "Zoning: Violations: Height 192ft exceeds maximum 150ft")
	assert.Contains(t, prompt, "- Nearest station: none in catalog")
	assert.Contains(t, prompt, "- Upgrades needed: None")
	assert.Contains(t, prompt, "- Bottlenecks: 4 schools over capacity")
	assert.Contains(t, prompt, "  - C: 103% capacity")
	assert.NotContains(t, prompt, "  - D: 130% capacity")
}
