package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ravisuresh229/hospital-benchmark-tool/report"
)

func (a *app) compareCommand() *cobra.Command {
	var sel selection

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Print a hospital's scores next to its state and national averages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.loadDataset(cmd.Context())
			if err != nil {
				return err
			}
			h, t, err := sel.compare(cmd, ds)
			if err != nil {
				return err
			}

			in := report.Input{Hospital: h.Name}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, styleTitle.Render(in.Title()))
			fmt.Fprintln(out, styleDim.Render(fmt.Sprintf("%s, %s (facility %s)", h.Name, h.State, h.FacilityID)))
			if t.Len() == 0 {
				fmt.Fprintln(out, "No metrics selected.")
				return nil
			}
			fmt.Fprintln(out, comparisonTable(t).Render())
			return nil
		},
	}
	sel.register(cmd)
	return cmd
}
