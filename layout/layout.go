// Package layout places the report title, date stamp, comparison table and
// chart image on a fixed-size canvas.
//
// Regions are measured in vg.Length (points) from the top-left corner of the
// canvas, y growing downward. Renderers whose origin is bottom-left convert
// with Region.Bottom / Canvas height.
package layout

import (
	"errors"
	"unicode/utf8"

	"gonum.org/v1/plot/vg"
)

// Configuration errors returned by Config.Validate and Config.Fits.
var (
	ErrInvalidCanvas      = errors.New("invalid canvas: width and height must be positive")
	ErrCanvasTooNarrow    = errors.New("invalid canvas: width must be at least twice the margin")
	ErrNegativeLength     = errors.New("invalid layout: margins and heights must be non-negative")
	ErrInvalidRowHeight   = errors.New("invalid layout: row height must be positive")
	ErrInvalidColumnRange = errors.New("invalid layout: min column width exceeds max column width")
)

// Size is a canvas size.
type Size struct {
	Width  vg.Length
	Height vg.Length
}

// Slide is the 4:3 presentation canvas the reports are laid out on.
var Slide = Size{Width: 10 * vg.Inch, Height: 7.5 * vg.Inch}

// Region is a rectangle on the canvas.
type Region struct {
	Left   vg.Length `json:"left"`
	Top    vg.Length `json:"top"`
	Width  vg.Length `json:"width"`
	Height vg.Length `json:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Region) Right() vg.Length { return r.Left + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Region) Bottom() vg.Length { return r.Top + r.Height }

// Overlaps reports whether r and o share any area.
func (r Region) Overlaps(o Region) bool {
	return r.Left < o.Right() && o.Left < r.Right() && r.Top < o.Bottom() && o.Top < r.Bottom()
}

// Plan is the output of Planner.Plan.
type Plan struct {
	Canvas       Size        `json:"canvas"`
	Title        Region      `json:"title"`
	Date         Region      `json:"date"`
	Table        Region      `json:"table"`
	Chart        Region      `json:"chart"`
	ColumnWidths []vg.Length `json:"columnWidths"`
	// RowHeight is the height of each body row of the table.
	RowHeight vg.Length `json:"rowHeight"`
	// HeaderHeight is the table's base offset; header plus body rows fill
	// the table region exactly.
	HeaderHeight vg.Length `json:"headerHeight"`
}

// ChartOverflows reports whether the chart was clamped past the bottom margin.
func (p Plan) ChartOverflows(bottomMargin vg.Length) bool {
	return p.Chart.Bottom() > p.Canvas.Height-bottomMargin
}

// TableWidth returns the sum of the column widths.
func (p Plan) TableWidth() vg.Length {
	var w vg.Length
	for _, c := range p.ColumnWidths {
		w += c
	}
	return w
}

// Config holds the layout constants.
type Config struct {
	Margin       vg.Length // left, right and top margin
	BottomMargin vg.Length
	Gap          vg.Length // vertical space between regions

	TitleHeight vg.Length
	DateHeight  vg.Length

	// TableBaseOffset is the table height with zero body rows; it includes
	// the header row.
	TableBaseOffset vg.Length
	RowHeight       vg.Length

	MinChartHeight vg.Length

	CharWidth      vg.Length // width allowance per character of cell text
	MinColumnWidth vg.Length
	MaxColumnWidth vg.Length
}

// DefaultConfig returns the constants used for the 10in x 7.5in slide.
func DefaultConfig() Config {
	return Config{
		Margin:          0.5 * vg.Inch,
		BottomMargin:    0.3 * vg.Inch,
		Gap:             0.1 * vg.Inch,
		TitleHeight:     0.6 * vg.Inch,
		DateHeight:      0.4 * vg.Inch,
		TableBaseOffset: 0.4 * vg.Inch,
		RowHeight:       0.3 * vg.Inch,
		MinChartHeight:  1.5 * vg.Inch,
		CharWidth:       0.085 * vg.Inch,
		MinColumnWidth:  0.8 * vg.Inch,
		MaxColumnWidth:  2.4 * vg.Inch,
	}
}

// Validate checks that the constants describe a usable layout.
func (c Config) Validate() error {
	for _, l := range []vg.Length{
		c.Margin, c.BottomMargin, c.Gap, c.TitleHeight, c.DateHeight,
		c.TableBaseOffset, c.MinChartHeight, c.CharWidth, c.MinColumnWidth, c.MaxColumnWidth,
	} {
		if l < 0 {
			return ErrNegativeLength
		}
	}
	if c.RowHeight <= 0 {
		return ErrInvalidRowHeight
	}
	if c.MinColumnWidth > c.MaxColumnWidth {
		return ErrInvalidColumnRange
	}
	return nil
}

// Validate checks that a canvas has a positive area.
func (s Size) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return ErrInvalidCanvas
	}
	return nil
}

// Fits reports whether canvas leaves room for the side margins, so every
// region starts inside the canvas.
func (c Config) Fits(canvas Size) error {
	if err := canvas.Validate(); err != nil {
		return err
	}
	if canvas.Width < 2*c.Margin {
		return ErrCanvasTooNarrow
	}
	return nil
}

// Planner computes layouts from a fixed Config.
type Planner struct {
	cfg Config
}

// NewPlanner returns a planner using cfg.
func NewPlanner(cfg Config) *Planner {
	return &Planner{cfg: cfg}
}

// Config returns the planner's constants.
func (p *Planner) Config() Config { return p.cfg }

// Plan stacks the title, date, table and chart regions top to bottom and
// sizes each table column from its longest text. header gives the column
// count; rows gives the body row count and the cell text.
//
// The chart fills the space left above the bottom margin but never shrinks
// below MinChartHeight; when the table is tall the chart runs past the
// bottom margin instead.
func (p *Planner) Plan(canvas Size, header []string, rows [][]string) Plan {
	c := p.cfg

	width := canvas.Width - 2*c.Margin
	if width < 0 {
		width = 0
	}
	region := func(top, height vg.Length) Region {
		return Region{Left: c.Margin, Top: top, Width: width, Height: height}
	}

	title := region(c.Margin, c.TitleHeight)
	date := region(title.Bottom()+c.Gap, c.DateHeight)
	table := region(date.Bottom()+c.Gap, c.TableBaseOffset+vg.Length(len(rows))*c.RowHeight)

	chartTop := table.Bottom() + c.Gap
	chartHeight := canvas.Height - chartTop - c.BottomMargin
	if chartHeight < c.MinChartHeight {
		chartHeight = c.MinChartHeight
	}
	chart := region(chartTop, chartHeight)

	return Plan{
		Canvas:       canvas,
		Title:        title,
		Date:         date,
		Table:        table,
		Chart:        chart,
		ColumnWidths: p.ColumnWidths(header, rows),
		RowHeight:    c.RowHeight,
		HeaderHeight: c.TableBaseOffset,
	}
}

// ColumnWidths returns one width per header column: the longest text in the
// column times CharWidth, clamped to [MinColumnWidth, MaxColumnWidth]. Each
// column is sized on its own; the total is not fitted to the table region.
func (p *Planner) ColumnWidths(header []string, rows [][]string) []vg.Length {
	widths := make([]vg.Length, len(header))
	for j, h := range header {
		n := utf8.RuneCountInString(h)
		for _, row := range rows {
			if j < len(row) {
				if l := utf8.RuneCountInString(row[j]); l > n {
					n = l
				}
			}
		}
		widths[j] = clamp(vg.Length(n)*p.cfg.CharWidth, p.cfg.MinColumnWidth, p.cfg.MaxColumnWidth)
	}
	return widths
}

func clamp(v, lo, hi vg.Length) vg.Length {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
