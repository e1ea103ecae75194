package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ravisuresh229/hospital-benchmark-tool/source"
	"github.com/ravisuresh229/hospital-benchmark-tool/store"
)

func (a *app) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Save the configured CSV sources to a SQLite snapshot",
		Long: `Read the HCAHPS and hospital information CSVs and replace the contents of the
snapshot at --db (default: data.database from the config). Later commands
read the snapshot when --db is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			p := newProgress(logger)

			ds, err := source.Load(ctx, a.client, a.cfg.Data.HCAHPS, a.cfg.Data.HospitalInfo)
			if err != nil {
				return err
			}
			p.done("Read sources")

			path := a.db
			if path == "" {
				path = a.cfg.Data.Database
			}
			st, err := store.Open(path)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Import(ctx, ds); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Imported %d survey records and %d hospitals into %s",
				len(ds.Records), ds.Directory.Len(), path)
			return nil
		},
	}
}
