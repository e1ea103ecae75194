package hcahps

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMetric is returned when a selection names a label that is not in
// the catalog.
var ErrUnknownMetric = errors.New("unknown metric")

// Catalog lists every metric that can be compared, in display order.
var Catalog = []MetricDefinition{
	{Label: "Nurse Communication", MeasureID: "H_COMP_1_A_P",
		Description: `% of patients who said nurses "always" communicated well`},
	{Label: "Doctor Communication", MeasureID: "H_COMP_2_A_P",
		Description: `% of patients who said doctors "always" communicated well`},
	{Label: "Staff Responsiveness", MeasureID: "H_COMP_3_A_P",
		Description: `% of patients who said they "always" received help as soon as they wanted`},
	{Label: "Care Transition", MeasureID: "H_COMP_5_A_P",
		Description: `% of patients who "strongly agree" they understood their care when leaving the hospital`},
	{Label: "Discharge Info", MeasureID: "H_COMP_6_Y_P",
		Description: `% of patients who said staff "did" give them discharge information`},
	{Label: "Care Cleanliness", MeasureID: "H_CLEAN_HSP_A_P",
		Description: `% of patients who said their room was "always" clean`},
	{Label: "Quietness", MeasureID: "H_QUIET_HSP_A_P",
		Description: `% of patients who said the area around their room was "always" quiet at night`},
	{Label: "Recommend", MeasureID: "H_RECMND_DY",
		Description: `% of patients who would "definitely recommend" the hospital`},
}

// Labels returns the catalog labels in order.
func Labels() []string {
	out := make([]string, len(Catalog))
	for i, m := range Catalog {
		out[i] = m.Label
	}
	return out
}

// AllMetrics returns a copy of the whole catalog, the default selection of
// every view.
func AllMetrics() []MetricDefinition {
	out := make([]MetricDefinition, len(Catalog))
	copy(out, Catalog)
	return out
}

// SelectMetrics returns the catalog entries named by labels, in catalog
// order. Blank labels are skipped, so an empty or all-blank list selects
// nothing and yields an empty comparison.
func SelectMetrics(labels []string) ([]MetricDefinition, error) {
	want := make(map[string]bool, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, ok := MetricByLabel(l); !ok {
			return nil, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownMetric, l, strings.Join(Labels(), ", "))
		}
		want[l] = true
	}

	var out []MetricDefinition
	for _, m := range Catalog {
		if want[m.Label] {
			out = append(out, m)
		}
	}
	return out, nil
}

// MetricByLabel looks up a catalog entry by its exact label.
func MetricByLabel(label string) (MetricDefinition, bool) {
	for _, m := range Catalog {
		if m.Label == label {
			return m, true
		}
	}
	return MetricDefinition{}, false
}
