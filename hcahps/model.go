// Package hcahps holds the HCAHPS benchmark domain: survey records, the
// metric catalog, the hospital/state/national aggregation and the sentiment
// classification shared by every output surface.
package hcahps

// SurveyRecord is one row of the HCAHPS survey file. AnswerPercent is nil when
// the source value was missing or not numeric.
type SurveyRecord struct {
	FacilityID    string   `json:"facilityId"`
	State         string   `json:"state"`
	MeasureID     string   `json:"measureId"`
	AnswerPercent *float64 `json:"answerPercent"`
}

// Hospital is one entry of the hospital directory.
type Hospital struct {
	Name       string `json:"name"`
	FacilityID string `json:"facilityId"`
	State      string `json:"state"`
}

// MetricDefinition pairs a display label with the survey measure it reads.
type MetricDefinition struct {
	Label       string `json:"label"`
	MeasureID   string `json:"measureId"`
	Description string `json:"description,omitempty"`
}

// ComparisonRow holds one metric's scores. A nil pointer means no data
// contributed to that value.
type ComparisonRow struct {
	Measure     string   `json:"measure"`
	Hospital    *float64 `json:"hospital"`
	StateAvg    *float64 `json:"stateAvg"`
	NationalAvg *float64 `json:"nationalAvg"`
	VsState     *float64 `json:"vsState"`
	VsNational  *float64 `json:"vsNational"`
}

// ComparisonTable is the ordered result of Aggregate, one row per selected
// metric in selection order.
type ComparisonTable struct {
	Rows []ComparisonRow `json:"rows"`
}

// Columns are the table headers shared by the terminal view and the reports.
var Columns = []string{"Measure", "Hospital", "State Avg", "National Avg", "vs State", "vs National"}

// Len returns the number of rows.
func (t ComparisonTable) Len() int { return len(t.Rows) }

// Measures returns the row labels in table order.
func (t ComparisonTable) Measures() []string {
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Measure
	}
	return out
}

// Cells renders every row as display strings, aligned with Columns.
func (t ComparisonTable) Cells() [][]string {
	out := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = []string{
			r.Measure,
			FormatValue(r.Hospital),
			FormatValue(r.StateAvg),
			FormatValue(r.NationalAvg),
			FormatValue(r.VsState),
			FormatValue(r.VsNational),
		}
	}
	return out
}

// Values returns the numeric cells of a row aligned with Columns[1:].
func (r ComparisonRow) Values() []*float64 {
	return []*float64{r.Hospital, r.StateAvg, r.NationalAvg, r.VsState, r.VsNational}
}
