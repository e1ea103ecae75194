package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ravisuresh229/hospital-benchmark-tool/chart"
	"github.com/ravisuresh229/hospital-benchmark-tool/hcahps"
	"github.com/ravisuresh229/hospital-benchmark-tool/layout"
)

// Exporter renders the chart, lays out the page and assembles a document.
// Intermediate files live in the temp directory and are removed before
// Export returns, whether it succeeds or not.
type Exporter struct {
	Planner *layout.Planner
	Canvas  layout.Size
	Chart   chart.Options
	Logger  *log.Logger
	Now     func() time.Time
}

// NewExporter returns an exporter for the default slide canvas.
func NewExporter(planner *layout.Planner, chartOpts chart.Options, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = log.Default()
	}
	return &Exporter{
		Planner: planner,
		Canvas:  layout.Slide,
		Chart:   chartOpts,
		Logger:  logger,
		Now:     time.Now,
	}
}

// Export writes the report for hospital to w and returns the download file
// name.
func (e *Exporter) Export(ctx context.Context, w io.Writer, hospital string, table hcahps.ComparisonTable, format Format) (string, error) {
	date := e.Now()
	name := Filename(hospital, date, format)

	chartPath, err := chart.WriteTempPNG(table, e.Chart)
	if err != nil {
		return "", fmt.Errorf("render chart: %w", err)
	}
	defer e.remove(chartPath)

	if err := ctx.Err(); err != nil {
		return "", err
	}

	in := Input{
		Hospital:  hospital,
		Table:     table,
		Plan:      e.Planner.Plan(e.Canvas, hcahps.Columns, table.Cells()),
		ChartPath: chartPath,
		Date:      date,
	}
	if in.Plan.ChartOverflows(e.Planner.Config().BottomMargin) {
		e.Logger.Debug("chart extends past the bottom margin", "rows", table.Len())
	}

	doc, err := os.CreateTemp("", "hcbench-report-*."+string(format))
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	defer func() {
		doc.Close()
		e.remove(doc.Name())
	}()

	switch format {
	case FormatMarkdown:
		err = WriteMarkdown(doc, in)
	default:
		err = WritePDF(doc, in)
	}
	if err != nil {
		return "", fmt.Errorf("assemble report: %w", err)
	}

	if _, err := doc.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind report: %w", err)
	}
	if format == FormatPDF {
		pages, err := VerifyPDF(doc)
		if err != nil {
			return "", fmt.Errorf("verify report: %w", err)
		}
		e.Logger.Debug("verified report", "pages", pages)
		if _, err := doc.Seek(0, io.SeekStart); err != nil {
			return "", fmt.Errorf("rewind report: %w", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	n, err := io.Copy(w, doc)
	if err != nil {
		return "", fmt.Errorf("send report: %w", err)
	}
	e.Logger.Info("exported report", "hospital", hospital, "file", name, "bytes", n)
	return name, nil
}

func (e *Exporter) remove(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		e.Logger.Warn("remove temp file", "path", path, "err", err)
	}
}
