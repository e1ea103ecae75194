package report

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"github.com/nao1215/markdown"

	"github.com/ravisuresh229/hospital-benchmark-tool/hcahps"
)

// sentimentMark prefixes vs-cells in Markdown, where cells cannot be shaded.
func sentimentMark(s hcahps.Sentiment) string {
	switch s {
	case hcahps.Positive:
		return "🟢 "
	case hcahps.Negative:
		return "🔴 "
	}
	return ""
}

// WriteMarkdown writes the document as Markdown. The chart is inlined as a
// data URI so the report stays a single file.
func WriteMarkdown(w io.Writer, in Input) error {
	png, err := os.ReadFile(in.ChartPath)
	if err != nil {
		return fmt.Errorf("read chart image: %w", err)
	}

	md := markdown.NewMarkdown(w)
	md.H1(in.Title())
	md.PlainText("")
	md.PlainText(in.DateLine())
	md.PlainText("")

	md.H2("Comparison Table")
	md.PlainText("")
	if in.Table.Len() == 0 {
		md.PlainText("No metrics selected.")
	} else {
		cells := in.Table.Cells()
		for i, row := range in.Table.Rows {
			for j := range cells[i] {
				if s := row.CellSentiment(j); s != hcahps.Neutral {
					cells[i][j] = sentimentMark(s) + hcahps.FormatSigned(row.Values()[j-1])
				}
			}
		}
		md.Table(markdown.TableSet{Header: hcahps.Columns, Rows: cells})
		md.PlainText("")
		md.Note("vs State / vs National: 🟢 the hospital scores above the benchmark, 🔴 below it.")
	}
	md.PlainText("")

	md.H2("Benchmark Chart")
	md.PlainText("")
	md.PlainTextf("![Benchmark chart](data:image/png;base64,%s)", base64.StdEncoding.EncodeToString(png))
	md.PlainText("")

	return md.Build()
}
