package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ravisuresh229/hospital-benchmark-tool/hcahps"
)

func (a *app) metricsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "List the HCAHPS metrics that can be benchmarked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, m := range hcahps.Catalog {
				fmt.Fprintf(out, "%s %s\n", styleTitle.Render(m.Label), styleDim.Render("("+m.MeasureID+")"))
				fmt.Fprintf(out, "  %s\n", m.Description)
			}
			return nil
		},
	}
}
