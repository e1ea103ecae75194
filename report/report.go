// Package report assembles the downloadable benchmark document: a title, the
// analysis date, the comparison table and the chart image, placed by a
// layout.Plan.
package report

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/ravisuresh229/hospital-benchmark-tool/hcahps"
	"github.com/ravisuresh229/hospital-benchmark-tool/layout"
)

// ErrUnknownFormat is returned by ParseFormat.
var ErrUnknownFormat = errors.New("unknown report format")

// Format is a document type.
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatMarkdown Format = "md"
)

// Formats lists the supported formats.
var Formats = []Format{FormatPDF, FormatMarkdown}

// ParseFormat accepts "pdf", "md" or "markdown".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf", "":
		return FormatPDF, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w: %q (valid: pdf, md)", ErrUnknownFormat, s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatMarkdown {
		return "text/markdown; charset=utf-8"
	}
	return "application/pdf"
}

// Input is everything needed to assemble one document.
type Input struct {
	Hospital  string
	Table     hcahps.ComparisonTable
	Plan      layout.Plan
	ChartPath string
	Date      time.Time
}

// Title returns the document heading.
func (in Input) Title() string {
	return "HCAHPS Benchmark Report: " + in.Hospital
}

// DateLine returns the analysis date stamp.
func (in Input) DateLine() string {
	return "Analysis Date: " + in.Date.Format("2006-01-02")
}

// Filename returns "{hospital}_HCAHPS_Benchmark_{YYYYMMDD}.{ext}". Path
// separators in the hospital name are replaced so the result is a single
// file name.
func Filename(hospital string, date time.Time, f Format) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '-'
		}
		return r
	}, hospital)
	return fmt.Sprintf("%s_HCAHPS_Benchmark_%s.%s", name, date.Format("20060102"), f)
}

// Sentiment fills for vs-cells.
var (
	positiveFill = color.RGBA{R: 0xd4, G: 0xed, B: 0xda, A: 0xff}
	negativeFill = color.RGBA{R: 0xf8, G: 0xd7, B: 0xda, A: 0xff}
)

// sentimentFill returns the background for a cell, or nil for none.
func sentimentFill(s hcahps.Sentiment) color.Color {
	switch s {
	case hcahps.Positive:
		return positiveFill
	case hcahps.Negative:
		return negativeFill
	}
	return nil
}
