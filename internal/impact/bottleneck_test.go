package impact

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/impact-cli/internal/model"
)

func TestAggregateBottlenecks(t *testing.T) {
	zoning := model.ZoningResult{Compliant: false, Violations: []string{"Height 156ft exceeds maximum 150ft", "FAR"}}
	schools := model.SchoolImpact{Bottlenecks: []model.SchoolBottleneck{
		{School: "A", Severity: model.SeverityHigh, Message: "A will be at 130% capacity"},
		{School: "B", Severity: model.SeverityMedium, Message: "B will be at 105% capacity"},
	}}
	traffic := model.TrafficImpact{LOSImpacts: []model.IntersectionImpact{{Name: "x"}, {Name: "y"}, {Name: "z"}}}
	infra := model.InfrastructureImpact{
		InfrastructureAdequate: false,
		UpgradesNeeded:         []string{waterUpgradeMessage, sewerUpgradeMessage},
	}

	got := AggregateBottlenecks(zoning, schools, traffic, infra)

	assert.Equal(t, []model.Bottleneck{
		{Type: model.BottleneckZoning, Severity: model.SeverityHigh, Message: "Zoning violations: Height 156ft exceeds maximum 150ft, FAR"},
		{Type: model.BottleneckSchoolCapacity, Severity: model.SeverityHigh, Message: "A will be at 130% capacity"},
		{Type: model.BottleneckSchoolCapacity, Severity: model.SeverityMedium, Message: "B will be at 105% capacity"},
		{Type: model.BottleneckTraffic, Severity: model.SeverityHigh, Message: "3 intersections degraded"},
		{Type: model.BottleneckInfrastructure, Severity: model.SeverityMedium, Message: "Upgrades needed: Water main upgrade required, Sewer line expansion needed"},
	}, got)
}

func TestAggregateBottlenecks_Clean(t *testing.T) {
	got := AggregateBottlenecks(
		model.ZoningResult{Compliant: true},
		model.SchoolImpact{},
		model.TrafficImpact{},
		model.InfrastructureImpact{InfrastructureAdequate: true},
	)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
