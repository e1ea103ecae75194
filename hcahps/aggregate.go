package hcahps

// accumulator collects a running sum for an arithmetic mean.
type accumulator struct {
	sum   float64
	count int
}

func (a *accumulator) add(v float64) {
	a.sum += v
	a.count++
}

// mean returns nil when nothing was accumulated.
func (a *accumulator) mean() *float64 {
	if a == nil || a.count == 0 {
		return nil
	}
	m := a.sum / float64(a.count)
	return &m
}

// Aggregate builds the comparison table for one hospital. For every metric it
// averages AnswerPercent over three filters of records: the hospital's own
// rows, rows in hospitalState, and all rows of the measure. Records without a
// percentage are skipped. The result has exactly one row per metric, in the
// order given, even when no record matched.
func Aggregate(records []SurveyRecord, metrics []MetricDefinition, hospitalID, hospitalState string) ComparisonTable {
	type measureAccum struct {
		hospital, state, national accumulator
	}

	wanted := make(map[string]*measureAccum, len(metrics))
	for _, m := range metrics {
		if _, ok := wanted[m.MeasureID]; !ok {
			wanted[m.MeasureID] = &measureAccum{}
		}
	}

	for _, rec := range records {
		if rec.AnswerPercent == nil {
			continue
		}
		acc, ok := wanted[rec.MeasureID]
		if !ok {
			continue
		}
		v := *rec.AnswerPercent
		acc.national.add(v)
		if rec.State == hospitalState {
			acc.state.add(v)
		}
		if rec.FacilityID == hospitalID {
			acc.hospital.add(v)
		}
	}

	rows := make([]ComparisonRow, 0, len(metrics))
	for _, m := range metrics {
		acc := wanted[m.MeasureID]
		row := ComparisonRow{
			Measure:     m.Label,
			Hospital:    acc.hospital.mean(),
			StateAvg:    acc.state.mean(),
			NationalAvg: acc.national.mean(),
		}
		row.VsState = diff(row.Hospital, row.StateAvg)
		row.VsNational = diff(row.Hospital, row.NationalAvg)
		rows = append(rows, row)
	}
	return ComparisonTable{Rows: rows}
}

// diff returns a-b, or nil if either side is missing.
func diff(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	d := *a - *b
	return &d
}
