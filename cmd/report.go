package cmd

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ravisuresh229/hospital-benchmark-tool/report"
)

func (a *app) reportCommand() *cobra.Command {
	var (
		sel    selection
		format string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export the benchmark report as PDF or Markdown",
		Long: `Export the benchmark report. The file is named
{hospital}_HCAHPS_Benchmark_{YYYYMMDD}.{pdf|md} and written to --out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			ds, err := a.loadDataset(ctx)
			if err != nil {
				return err
			}
			h, t, err := sel.compare(cmd, ds)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			name, err := a.exporter(loggerFromContext(ctx)).Export(ctx, &buf, h.Name, t, f)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			path := filepath.Join(outDir, name)
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Wrote %s", path)
			return nil
		},
	}
	sel.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", string(report.FormatPDF), "report format: pdf or md")
	cmd.Flags().StringVar(&outDir, "out", ".", "directory to write the report to")
	return cmd
}
