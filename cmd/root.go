// Package cmd implements the hcbench command-line interface.
//
// Every command shares the global flags declared on the root command:
// --config selects the YAML file, --hcahps and --hospital-info override the
// data sources, --db reads a SQLite snapshot instead of the CSVs, and -v
// turns on debug logging. The logger travels on the command context.
package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ravisuresh229/hospital-benchmark-tool/config"
	"github.com/ravisuresh229/hospital-benchmark-tool/hcahps"
	"github.com/ravisuresh229/hospital-benchmark-tool/layout"
	"github.com/ravisuresh229/hospital-benchmark-tool/report"
	"github.com/ravisuresh229/hospital-benchmark-tool/source"
	"github.com/ravisuresh229/hospital-benchmark-tool/store"
)

var version = "dev"

// app holds the global flag values and everything derived from them in
// PersistentPreRunE.
type app struct {
	configPath   string
	verbose      bool
	hcahps       string
	hospitalInfo string
	db           string

	cfg    *config.Config
	logger *log.Logger
	client *http.Client
}

// Execute runs the hcbench CLI.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func newRootCommand() *cobra.Command {
	a := &app{client: &http.Client{Timeout: 5 * time.Minute}}

	root := &cobra.Command{
		Use:   "hcbench",
		Short: "hcbench benchmarks a hospital's HCAHPS scores",
		Long: `hcbench compares one hospital's HCAHPS patient-experience scores with its
state and national averages, and exports the comparison as a PDF or Markdown report.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default ./hcbench.yaml or $XDG_CONFIG_HOME/hcbench/config.yaml)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&a.hcahps, "hcahps", "", "HCAHPS survey CSV (path or URL)")
	pf.StringVar(&a.hospitalInfo, "hospital-info", "", "hospital general information CSV (path or URL)")
	pf.StringVar(&a.db, "db", "", "SQLite snapshot to read instead of the CSV sources")

	root.AddCommand(
		a.metricsCommand(),
		a.hospitalsCommand(),
		a.compareCommand(),
		a.chartCommand(),
		a.reportCommand(),
		a.importCommand(),
		a.downloadCommand(),
		a.webCommand(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	level := log.InfoLevel
	if a.verbose {
		level = log.DebugLevel
	}
	a.logger = newLogger(cmd.ErrOrStderr(), level)

	cfg, path, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if path != "" {
		a.logger.Debug("loaded config", "path", path)
	}
	if a.hcahps != "" {
		cfg.Data.HCAHPS = a.hcahps
	}
	if a.hospitalInfo != "" {
		cfg.Data.HospitalInfo = a.hospitalInfo
	}
	a.cfg = cfg

	cmd.SetContext(withLogger(cmd.Context(), a.logger))
	return nil
}

// loadDataset reads the snapshot named by --db, or both CSV sources.
func (a *app) loadDataset(ctx context.Context) (*source.Dataset, error) {
	logger := loggerFromContext(ctx)
	p := newProgress(logger)

	if a.db != "" {
		st, err := store.Open(a.db)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		ds, err := st.Load(ctx)
		if err != nil {
			return nil, err
		}
		imported, err := st.LastImport(ctx)
		if err != nil {
			return nil, err
		}
		p.done(fmt.Sprintf("Loaded %d survey records from %s", len(ds.Records), a.db))
		logger.Info("snapshot imported", "at", imported.Local().Format(time.DateTime))
		return ds, nil
	}

	logger.Debug("loading sources", "hcahps", a.cfg.Data.HCAHPS, "hospitalInfo", a.cfg.Data.HospitalInfo)
	ds, err := source.Load(ctx, a.client, a.cfg.Data.HCAHPS, a.cfg.Data.HospitalInfo)
	if err != nil {
		return nil, err
	}
	p.done(fmt.Sprintf("Loaded %d survey records and %d hospitals", len(ds.Records), ds.Directory.Len()))
	return ds, nil
}

func (a *app) exporter(logger *log.Logger) *report.Exporter {
	e := report.NewExporter(layout.NewPlanner(a.cfg.LayoutConfig()), a.cfg.ChartOptions(), logger)
	e.Canvas = a.cfg.Canvas()
	return e
}

// benchmark resolves the hospital and aggregates the selected metrics. When
// explicit is false the labels are ignored and every catalog metric is used;
// an explicit empty list yields an empty comparison.
func benchmark(ds *source.Dataset, name string, labels []string, explicit bool) (hcahps.Hospital, hcahps.ComparisonTable, error) {
	h, err := ds.Directory.Lookup(name)
	if err != nil {
		return hcahps.Hospital{}, hcahps.ComparisonTable{}, err
	}
	metrics := hcahps.AllMetrics()
	if explicit {
		metrics, err = hcahps.SelectMetrics(labels)
		if err != nil {
			return hcahps.Hospital{}, hcahps.ComparisonTable{}, err
		}
	}
	return h, hcahps.Aggregate(ds.Records, metrics, h.FacilityID, h.State), nil
}

// selection holds the --hospital, --metric and --no-metrics flags of the
// commands that build a comparison.
type selection struct {
	hospital  string
	metrics   []string
	noMetrics bool
}

func (s *selection) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.hospital, "hospital", "", "facility name, exactly as listed by 'hcbench hospitals'")
	cmd.Flags().StringSliceVarP(&s.metrics, "metric", "m", nil, "metric label to include (repeatable; default all)")
	cmd.Flags().BoolVar(&s.noMetrics, "no-metrics", false, "select no metrics (empty comparison)")
	_ = cmd.MarkFlagRequired("hospital")
	cmd.MarkFlagsMutuallyExclusive("metric", "no-metrics")
}

// compare resolves the selection against ds. Without --metric or
// --no-metrics the whole catalog is compared.
func (s *selection) compare(cmd *cobra.Command, ds *source.Dataset) (hcahps.Hospital, hcahps.ComparisonTable, error) {
	explicit := s.noMetrics || cmd.Flags().Changed("metric")
	labels := s.metrics
	if s.noMetrics {
		labels = nil
	}
	return benchmark(ds, s.hospital, labels, explicit)
}
