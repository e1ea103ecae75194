package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ravisuresh229/hospital-benchmark-tool/hcahps"
)

// header maps trimmed column names to their index.
type header map[string]int

func readHeader(r *csv.Reader, required ...string) (header, error) {
	cols, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	h := make(header, len(cols))
	for i, c := range cols {
		c = strings.TrimSpace(strings.TrimPrefix(c, "\ufeff"))
		if _, ok := h[c]; !ok {
			h[c] = i
		}
	}
	for _, name := range required {
		if _, ok := h[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
	}
	return h, nil
}

// get returns the trimmed field for column name, or "" if the row is short.
func (h header) get(row []string, name string) string {
	i := h[name]
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true
	return cr
}

// forEachRow calls fn for every data row after the header.
func forEachRow(cr *csv.Reader, fn func(row []string)) error {
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		line++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return fmt.Errorf("line %d: %w", line, err)
			}
			return err
		}
		fn(row)
	}
}

// ReadSurvey parses the HCAHPS survey CSV. Fields are trimmed; an answer
// percent that is not a finite number becomes nil.
func ReadSurvey(r io.Reader) ([]hcahps.SurveyRecord, error) {
	cr := newReader(r)
	h, err := readHeader(cr, ColFacilityID, ColState, ColMeasureID, ColAnswerPercent)
	if err != nil {
		return nil, err
	}

	var records []hcahps.SurveyRecord
	err = forEachRow(cr, func(row []string) {
		records = append(records, hcahps.SurveyRecord{
			FacilityID:    h.get(row, ColFacilityID),
			State:         h.get(row, ColState),
			MeasureID:     h.get(row, ColMeasureID),
			AnswerPercent: ParsePercent(h.get(row, ColAnswerPercent)),
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ReadHospitals parses the hospital general information CSV in file order.
func ReadHospitals(r io.Reader) ([]hcahps.Hospital, error) {
	cr := newReader(r)
	h, err := readHeader(cr, ColFacilityName, ColFacilityID, ColState)
	if err != nil {
		return nil, err
	}

	var hospitals []hcahps.Hospital
	err = forEachRow(cr, func(row []string) {
		hospitals = append(hospitals, hcahps.Hospital{
			Name:       h.get(row, ColFacilityName),
			FacilityID: h.get(row, ColFacilityID),
			State:      h.get(row, ColState),
		})
	})
	if err != nil {
		return nil, err
	}
	return hospitals, nil
}

// ParsePercent converts a survey answer to a number. CMS publishes
// "Not Available", "Not Applicable" and blanks for suppressed values; all of
// them, and anything else that is not a finite number, yield nil.
func ParsePercent(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
