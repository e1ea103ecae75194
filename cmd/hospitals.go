package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) hospitalsCommand() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "hospitals",
		Short: "List hospital names accepted by --hospital",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.loadDataset(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, h := range ds.Directory.Search(search) {
				fmt.Fprintf(out, "%s\t%s\t%s\n", h.Name, h.State, h.FacilityID)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "only names containing this text (case-insensitive)")
	return cmd
}
