package impact

import (
	"fmt"
	"strings"

	"github.com/sells-group/impact-cli/internal/model"
)

// AggregateBottlenecks derives the cross-metric issue list, in the order
// zoning, schools, traffic, infrastructure.
func AggregateBottlenecks(
	zoning model.ZoningResult,
	schools model.SchoolImpact,
	traffic model.TrafficImpact,
	infra model.InfrastructureImpact,
) []model.Bottleneck {
	out := []model.Bottleneck{}

	if !zoning.Compliant {
		out = append(out, model.Bottleneck{
			Type:     model.BottleneckZoning,
			Severity: model.SeverityHigh,
			Message:  "Zoning violations: " + strings.Join(zoning.Violations, ", "),
		})
	}

	for _, b := range schools.Bottlenecks {
		out = append(out, model.Bottleneck{
			Type:     model.BottleneckSchoolCapacity,
			Severity: b.Severity,
			Message:  b.Message,
		})
	}

	if n := len(traffic.LOSImpacts); n > 0 {
		out = append(out, model.Bottleneck{
			Type:     model.BottleneckTraffic,
			Severity: model.SeverityHigh,
			Message:  fmt.Sprintf("%d intersections degraded", n),
		})
	}

	if !infra.InfrastructureAdequate {
		out = append(out, model.Bottleneck{
			Type:     model.BottleneckInfrastructure,
			Severity: model.SeverityMedium,
			Message:  "Upgrades needed: " + strings.Join(infra.UpgradesNeeded, ", "),
		})
	}
	return out
}
