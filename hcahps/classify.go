package hcahps

// Sentiment is the color class of a signed difference.
type Sentiment int

const (
	Neutral Sentiment = iota
	Positive
	Negative
)

func (s Sentiment) String() string {
	switch s {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	}
	return "neutral"
}

// MarshalText lets Sentiment appear as its name in JSON.
func (s Sentiment) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Classify maps a difference to its sentiment. Missing values and exact zero
// are neutral. Every renderer colors vs-cells through this function so the
// terminal, the API and the exported reports always agree.
func Classify(v *float64) Sentiment {
	switch {
	case v == nil:
		return Neutral
	case *v > 0:
		return Positive
	case *v < 0:
		return Negative
	}
	return Neutral
}

// RowSentiment returns the sentiment of the vs State and vs National cells.
func (r ComparisonRow) RowSentiment() (vsState, vsNational Sentiment) {
	return Classify(r.VsState), Classify(r.VsNational)
}

// CellSentiment returns the sentiment of column col (an index into Columns).
// Only the two difference columns are classified; everything else is neutral.
func (r ComparisonRow) CellSentiment(col int) Sentiment {
	switch col {
	case 4:
		return Classify(r.VsState)
	case 5:
		return Classify(r.VsNational)
	}
	return Neutral
}
