package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ravisuresh229/hospital-benchmark-tool/hcahps"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorRed   = lipgloss.Color("167")
	colorDim   = lipgloss.Color("240")
)

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim      = lipgloss.NewStyle().Foreground(colorDim)
	styleSuccess  = lipgloss.NewStyle().Foreground(colorGreen)
	styleHeader   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	styleCell     = lipgloss.NewStyle().Padding(0, 1)
	stylePositive = styleCell.Foreground(colorGreen)
	styleNegative = styleCell.Foreground(colorRed)
)

const iconSuccess = "✓"

// headerRow is the row index lipgloss passes to StyleFunc for the header.
const headerRow = -1

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

// sentimentStyle colors a vs-cell the same way the PDF shades it.
func sentimentStyle(s hcahps.Sentiment) lipgloss.Style {
	switch s {
	case hcahps.Positive:
		return stylePositive
	case hcahps.Negative:
		return styleNegative
	}
	return styleCell
}

// comparisonTable renders the comparison for a terminal.
func comparisonTable(t hcahps.ComparisonTable) *table.Table {
	cells := t.Cells()
	for i, row := range t.Rows {
		cells[i][4] = hcahps.FormatSigned(row.VsState)
		cells[i][5] = hcahps.FormatSigned(row.VsNational)
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(hcahps.Columns...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader
			}
			if row < 0 || row >= len(t.Rows) {
				return styleCell
			}
			return sentimentStyle(t.Rows[row].CellSentiment(col))
		})
}
