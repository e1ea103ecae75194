package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ravisuresh229/hospital-benchmark-tool/chart"
)

func (a *app) chartCommand() *cobra.Command {
	var (
		sel    selection
		output string
	)

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render the grouped bar chart as a PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.loadDataset(cmd.Context())
			if err != nil {
				return err
			}
			_, t, err := sel.compare(cmd, ds)
			if err != nil {
				return err
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := chart.WritePNG(f, t, a.cfg.ChartOptions()); err != nil {
				f.Close()
				os.Remove(output)
				return fmt.Errorf("render chart: %w", err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Wrote %s", output)
			return nil
		},
	}
	sel.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "benchmark_chart.png", "PNG file to write")
	return cmd
}
