// Package chart draws the grouped benchmark bar chart and rasterizes it.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/ravisuresh229/hospital-benchmark-tool/hcahps"
)

// ErrInvalidSize is returned for non-positive image dimensions.
var ErrInvalidSize = errors.New("invalid chart size: width, height and dpi must be positive")

// Series colors, one per bar group member.
var (
	hospitalColor = color.RGBA{R: 99, G: 110, B: 250, A: 255}
	stateColor    = color.RGBA{R: 239, G: 85, B: 59, A: 255}
	nationalColor = color.RGBA{R: 0, G: 204, B: 150, A: 255}
)

// Options sets the raster size of the chart image.
type Options struct {
	Width  int // pixels
	Height int // pixels
	DPI    int
}

// DefaultOptions returns a 700x500 pixel image at 96 dpi.
func DefaultOptions() Options {
	return Options{Width: 700, Height: 500, DPI: 96}
}

func (o Options) validate() error {
	if o.Width <= 0 || o.Height <= 0 || o.DPI <= 0 {
		return ErrInvalidSize
	}
	return nil
}

// size converts the pixel dimensions to canvas lengths.
func (o Options) size() (vg.Length, vg.Length) {
	w := vg.Length(float64(o.Width)/float64(o.DPI)) * vg.Inch
	h := vg.Length(float64(o.Height)/float64(o.DPI)) * vg.Inch
	return w, h
}

// series is one bar series of the grouped chart.
type series struct {
	name  string
	color color.Color
	value func(hcahps.ComparisonRow) *float64
}

var benchmarkSeries = []series{
	{"Hospital", hospitalColor, func(r hcahps.ComparisonRow) *float64 { return r.Hospital }},
	{"State Avg", stateColor, func(r hcahps.ComparisonRow) *float64 { return r.StateAvg }},
	{"National Avg", nationalColor, func(r hcahps.ComparisonRow) *float64 { return r.NationalAvg }},
}

// New builds a grouped bar chart with one group per measure and bars for the
// hospital, state average and national average. Missing values draw as empty
// bars.
func New(table hcahps.ComparisonTable) (*plot.Plot, error) {
	p := plot.New()
	p.BackgroundColor = color.White
	p.Title.Text = "Benchmark Chart"
	p.Title.TextStyle.Font.Size = vg.Points(12)
	p.Y.Label.Text = "Score (%)"
	p.X.Label.Text = "Measure"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	if table.Len() == 0 {
		p.HideX()
		p.Y.Min, p.Y.Max = 0, 100
		return p, nil
	}

	const barWidth = 12
	n := len(benchmarkSeries)
	for i, s := range benchmarkSeries {
		vals := make(plotter.Values, table.Len())
		for j, row := range table.Rows {
			if v := s.value(row); v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0) {
				vals[j] = *v
			}
		}
		bars, err := plotter.NewBarChart(vals, vg.Points(barWidth))
		if err != nil {
			return nil, fmt.Errorf("%s bars: %w", s.name, err)
		}
		bars.Color = s.color
		bars.LineStyle.Width = 0
		bars.Offset = vg.Points(barWidth * (float64(i) - float64(n-1)/2))
		p.Add(bars)
		p.Legend.Add(s.name, bars)
	}

	p.NominalX(table.Measures()...)
	p.X.Tick.Label.Rotation = math.Pi / 6
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Y.Min = 0
	if p.Y.Max < 100 {
		p.Y.Max = 100
	}
	return p, nil
}

// WritePNG renders the chart for table as a PNG of the configured pixel size.
func WritePNG(w io.Writer, table hcahps.ComparisonTable, opts Options) error {
	if err := opts.validate(); err != nil {
		return err
	}
	p, err := New(table)
	if err != nil {
		return err
	}

	width, height := opts.size()
	c := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(opts.DPI))
	p.Draw(draw.New(c))

	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// WriteTempPNG renders the chart into a new temporary file and returns its
// path. The caller owns the file and must remove it.
func WriteTempPNG(table hcahps.ComparisonTable, opts Options) (string, error) {
	f, err := os.CreateTemp("", "hcbench-chart-*.png")
	if err != nil {
		return "", fmt.Errorf("create chart image: %w", err)
	}
	path := f.Name()

	if err := WritePNG(f, table, opts); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close chart image: %w", err)
	}
	return path, nil
}
