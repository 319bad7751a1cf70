package report

import (
	"context"
	"strings"
	"text/template"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/impact-cli/internal/model"
)

var planningTemplate = template.Must(template.New("planning").Funcs(template.FuncMap{
	"join": strings.Join,
	"inc":  func(i int) int { return i + 1 },
}).Parse(`**Executive Summary**

The proposed {{.Units}}-unit {{.Type}} development presents {{if .Issues}}several challenges{{else}}a viable opportunity{{end}} for the community. {{if .Issues}}Key concerns include: {{join .Issues ", "}}.{{else}}Analysis shows generally positive impacts with manageable constraints.{{end}}

**Critical Issues**

{{range $i, $issue := .Critical}}{{inc $i}}. {{$issue}}
{{end}}
**Recommendations**

1. Conduct detailed traffic impact study for affected intersections
2. Coordinate with school district on capacity planning
3. {{if .InfraAdequate}}Verify utility connections with service providers{{else}}Secure funding for infrastructure upgrades ({{.InfraCost}}){{end}}

**Timeline Estimate**

Based on project complexity and identified impacts, expect {{.Timeline}} for permitting and approval process.

*Note: This is an automated analysis. Detailed engineering studies recommended.*
`))

// criticalDefaults pad the critical-issue list to three entries.
var criticalDefaults = []string{
	"No major issues identified",
	"Minor infrastructure considerations",
	"Standard permitting requirements",
}

type templateView struct {
	Units         int
	Type          model.BuildingType
	Issues        []string
	Critical      []string
	InfraAdequate bool
	InfraCost     string
	Timeline      string
}

// TemplateGenerator renders a deterministic markdown report.
type TemplateGenerator struct {
	now func() time.Time
}

// NewTemplateGenerator creates a TemplateGenerator.
func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{now: time.Now}
}

// Generate implements Generator.
func (g *TemplateGenerator) Generate(_ context.Context, in Input) (*model.Report, error) {
	if in.Analysis == nil {
		return nil, eris.New("report: template: nil analysis")
	}

	issues := Issues(in.Analysis)
	critical := make([]string, len(criticalDefaults))
	for i := range critical {
		if i < len(issues) {
			critical[i] = issues[i]
		} else {
			critical[i] = criticalDefaults[i]
		}
	}

	typ := in.Building.Type
	if typ == "" {
		typ = model.BuildingResidential
	}

	view := templateView{
		Units:         in.Building.Units,
		Type:          typ,
		Issues:        issues,
		Critical:      critical,
		InfraAdequate: in.Analysis.Infrastructure.InfrastructureAdequate,
		InfraCost:     printer().Sprintf("$%.0f", in.Analysis.Infrastructure.EstimatedCost),
		Timeline:      Timeline(len(issues)),
	}

	var sb strings.Builder
	if err := planningTemplate.Execute(&sb, view); err != nil {
		return nil, eris.Wrap(err, "report: template: execute")
	}

	return &model.Report{
		AISummary: sb.String(),
		Source:    model.ReportSourceTemplate,
		Timestamp: g.now().UTC(),
	}, nil
}

// Issues lists the headline concerns of an analysis, at most one per metric.
func Issues(a *model.Analysis) []string {
	var out []string
	if !a.Zoning.Compliant {
		out = append(out, "Zoning compliance issues")
	}
	if n := len(a.SchoolImpact.Bottlenecks); n > 0 {
		out = append(out, printer().Sprintf("%d schools over capacity", n))
	}
	if len(a.TrafficImpact.LOSImpacts) > 0 {
		out = append(out, "Traffic congestion at nearby intersections")
	}
	if !a.Infrastructure.InfrastructureAdequate {
		out = append(out, "Infrastructure upgrades required")
	}
	return out
}

// Timeline estimates the permitting duration from the number of issues.
func Timeline(issues int) string {
	switch {
	case issues > 2:
		return "18-24 months"
	case issues > 0:
		return "12-18 months"
	default:
		return "9-12 months"
	}
}
