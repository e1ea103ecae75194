package report

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png" // chart images are PNG
	"io"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgpdf"

	"github.com/ravisuresh229/hospital-benchmark-tool/hcahps"
	"github.com/ravisuresh229/hospital-benchmark-tool/layout"
)

const (
	titleSize  = 20
	minTitle   = 10
	dateSize   = 11
	cellSize   = 9
	cellIndent = 4
)

var (
	headerFill = color.Gray{Y: 230}
	gridColor  = color.Gray{Y: 180}
	dimText    = color.Gray{Y: 90}
)

// WritePDF draws the document described by in as a single PDF page the size
// of in.Plan.Canvas.
func WritePDF(w io.Writer, in Input) error {
	img, err := loadImage(in.ChartPath)
	if err != nil {
		return err
	}

	plan := in.Plan
	c := vgpdf.New(plan.Canvas.Width, plan.Canvas.Height)
	dc := draw.New(c)
	pg := page{c: dc, height: plan.Canvas.Height}

	pg.fitText(in.Title(), titleSize, plan.Title, color.Black)
	pg.text(in.DateLine(), dateSize, plan.Date.Left, plan.Date.Top+plan.Date.Height/2, dimText)
	pg.table(in.Table, plan)
	pg.drawImage(img, plan.Chart)

	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open chart image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode chart image: %w", err)
	}
	return img, nil
}

// page draws with layout coordinates (top-left origin) onto a PDF canvas,
// whose origin is bottom-left.
type page struct {
	c      draw.Canvas
	height vg.Length
}

func (p page) y(top vg.Length) vg.Length { return p.height - top }

func textStyle(size float64, clr color.Color) draw.TextStyle {
	sty := draw.TextStyle{
		Color:   clr,
		Font:    plot.DefaultFont,
		Handler: plot.DefaultTextHandler,
		XAlign:  draw.XLeft,
		YAlign:  draw.YCenter,
	}
	sty.Font.Size = vg.Points(size)
	return sty
}

// text draws txt left-aligned and vertically centered on midY.
func (p page) text(txt string, size float64, x, midY vg.Length, clr color.Color) {
	p.c.FillText(textStyle(size, clr), vg.Point{X: x, Y: p.y(midY)}, txt)
}

// fitText draws txt in r, shrinking the font until it fits the width.
func (p page) fitText(txt string, size float64, r layout.Region, clr color.Color) {
	sty := textStyle(size, clr)
	for size > minTitle && sty.Width(txt) > r.Width {
		size--
		sty.Font.Size = vg.Points(size)
	}
	p.c.FillText(sty, vg.Point{X: r.Left, Y: p.y(r.Top + r.Height/2)}, truncate(sty, txt, r.Width))
}

func (p page) fill(clr color.Color, left, top, width, height vg.Length) {
	x0, x1 := left, left+width
	y0, y1 := p.y(top+height), p.y(top)
	p.c.FillPolygon(clr, []vg.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}})
}

func (p page) hline(x0, x1, top vg.Length) {
	p.c.StrokeLine2(draw.LineStyle{Color: gridColor, Width: vg.Points(0.5)}, x0, p.y(top), x1, p.y(top))
}

func (p page) vline(x, top, bottom vg.Length) {
	p.c.StrokeLine2(draw.LineStyle{Color: gridColor, Width: vg.Points(0.5)}, x, p.y(top), x, p.y(bottom))
}

// table draws the header and one row per comparison row. Columns take the
// planned widths; vs-cells are shaded by sentiment.
func (p page) table(t hcahps.ComparisonTable, plan layout.Plan) {
	r := plan.Table
	widths := plan.ColumnWidths
	if len(widths) == 0 {
		return
	}
	right := r.Left + plan.TableWidth()

	// Header.
	p.fill(headerFill, r.Left, r.Top, right-r.Left, plan.HeaderHeight)
	x := r.Left
	hdr := textStyle(cellSize, color.Black)
	for j, name := range hcahps.Columns {
		if j >= len(widths) {
			break
		}
		p.c.FillText(hdr, vg.Point{X: x + cellIndent, Y: p.y(r.Top + plan.HeaderHeight/2)},
			truncate(hdr, name, widths[j]-cellIndent))
		x += widths[j]
	}

	cell := textStyle(cellSize, color.Black)
	cells := t.Cells()
	top := r.Top + plan.HeaderHeight
	for i, row := range t.Rows {
		x := r.Left
		for j, txt := range cells[i] {
			if j >= len(widths) {
				break
			}
			if fill := sentimentFill(row.CellSentiment(j)); fill != nil {
				p.fill(fill, x, top, widths[j], plan.RowHeight)
			}
			p.c.FillText(cell, vg.Point{X: x + cellIndent, Y: p.y(top + plan.RowHeight/2)},
				truncate(cell, txt, widths[j]-cellIndent))
			x += widths[j]
		}
		top += plan.RowHeight
	}

	// Grid.
	p.hline(r.Left, right, r.Top)
	y := r.Top + plan.HeaderHeight
	p.hline(r.Left, right, y)
	for range t.Rows {
		y += plan.RowHeight
		p.hline(r.Left, right, y)
	}
	x = r.Left
	p.vline(x, r.Top, top)
	for _, w := range widths {
		x += w
		p.vline(x, r.Top, top)
	}
}

// drawImage draws img into r, scaled to fit while keeping its aspect ratio.
func (p page) drawImage(img image.Image, r layout.Region) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || r.Width <= 0 || r.Height <= 0 {
		return
	}
	w, h := r.Width, r.Width*vg.Length(b.Dy())/vg.Length(b.Dx())
	if h > r.Height {
		h = r.Height
		w = r.Height * vg.Length(b.Dx()) / vg.Length(b.Dy())
	}
	rect := vg.Rectangle{
		Min: vg.Point{X: r.Left, Y: p.y(r.Top + h)},
		Max: vg.Point{X: r.Left + w, Y: p.y(r.Top)},
	}
	p.c.DrawImage(rect, img)
}

// truncate shortens txt with "..." until it fits width.
func truncate(sty draw.TextStyle, txt string, width vg.Length) string {
	if sty.Width(txt) <= width {
		return txt
	}
	runes := []rune(txt)
	for n := len(runes) - 1; n > 0; n-- {
		s := string(runes[:n]) + "..."
		if sty.Width(s) <= width {
			return s
		}
	}
	return ""
}
