package impact

import (
	"fmt"

	"github.com/sells-group/impact-cli/internal/model"
)

// CheckZoning tests the building height (stories × feet per story) against
// the zone's height limit. FAR is reported but not checked since lot area
// is not modeled.
func CheckZoning(rule model.ZoningRule, stories, feetPerStory int) model.ZoningResult {
	height := stories * feetPerStory

	violations := []string{}
	if height > rule.MaxHeightFt {
		violations = append(violations, fmt.Sprintf("Height %dft exceeds maximum %dft", height, rule.MaxHeightFt))
	}

	maxHeight := rule.MaxHeightFt
	return model.ZoningResult{
		Zone:       rule.ZoneCode,
		Compliant:  len(violations) == 0,
		Violations: violations,
		MaxHeight:  &maxHeight,
		MaxFAR:     rule.MaxFAR,
	}
}
