package impact

import (
	"fmt"
	"sort"

	"github.com/sells-group/impact-cli/internal/geo"
	"github.com/sells-group/impact-cli/internal/model"
)

// School capacity thresholds, in percent.
const (
	schoolOverCapacityPct = 100
	schoolHighSeverityPct = 120
)

// SchoolImpact projects the students a development generates onto the
// schools inside the catchment radius. Schools are returned nearest first.
// Schools with no recorded capacity are skipped.
func SchoolImpact(loc model.Location, units int, schools []model.School, p Params) model.SchoolImpact {
	students := float64(units) * p.StudentsPerUnit
	share := map[model.GradeLevel]float64{
		model.GradeElementary: students * p.ElementaryShare,
		model.GradeMiddle:     students * p.MiddleShare,
		model.GradeHigh:       students * p.HighShare,
	}

	result := model.SchoolImpact{
		StudentsGenerated: students,
		Schools:           []model.SchoolInfo{},
		Bottlenecks:       []model.SchoolBottleneck{},
	}

	for _, s := range schools {
		if s.Capacity <= 0 {
			continue
		}
		d := geo.Distance(loc, s.Location())
		if d > p.SchoolRadiusM {
			continue
		}
		added := share[s.GradeLevel]
		result.Schools = append(result.Schools, model.SchoolInfo{
			Name:        s.Name,
			Distance:    d,
			GradeLevel:  s.GradeLevel,
			Enrollment:  s.Enrollment,
			Capacity:    s.Capacity,
			NewStudents: added,
			CapacityPct: (float64(s.Enrollment) + added) / float64(s.Capacity) * 100,
		})
	}

	sort.SliceStable(result.Schools, func(i, j int) bool {
		return result.Schools[i].Distance < result.Schools[j].Distance
	})

	for _, s := range result.Schools {
		if s.CapacityPct <= schoolOverCapacityPct {
			continue
		}
		severity := model.SeverityMedium
		if s.CapacityPct > schoolHighSeverityPct {
			severity = model.SeverityHigh
		}
		result.Bottlenecks = append(result.Bottlenecks, model.SchoolBottleneck{
			School:      s.Name,
			CapacityPct: s.CapacityPct,
			Severity:    severity,
			Message:     fmt.Sprintf("%s will be at %.0f%% capacity", s.Name, s.CapacityPct),
		})
	}
	return result
}
