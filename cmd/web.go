package cmd

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ravisuresh229/hospital-benchmark-tool/chart"
	"github.com/ravisuresh229/hospital-benchmark-tool/hcahps"
	"github.com/ravisuresh229/hospital-benchmark-tool/report"
	"github.com/ravisuresh229/hospital-benchmark-tool/source"
)

//go:embed web.html
var htmlContent embed.FS

var errMissingHospital = errors.New("missing hospital parameter")

func (a *app) webCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the benchmark dashboard and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			ds, err := a.loadDataset(ctx)
			if err != nil {
				return err
			}
			if ds.Directory.Len() == 0 {
				logger.Warn("no hospitals loaded, starting with empty data")
			}

			s := newServer(ds, a.exporter(logger), a.cfg.ChartOptions(), logger)
			return s.serve(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr from the config, :8080)")
	return cmd
}

type serverMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	reports  *prometheus.CounterVec
}

func newServerMetrics(reg prometheus.Registerer) *serverMetrics {
	m := &serverMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hcbench",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hcbench",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hcbench",
			Name:      "reports_total",
			Help:      "Reports exported by format.",
		}, []string{"format"}),
	}
	reg.MustRegister(m.requests, m.duration, m.reports)
	return m
}

type server struct {
	ds        *source.Dataset
	exporter  *report.Exporter
	chartOpts chart.Options
	logger    *log.Logger

	registry *prometheus.Registry
	metrics  *serverMetrics
}

func newServer(ds *source.Dataset, exporter *report.Exporter, chartOpts chart.Options, logger *log.Logger) *server {
	reg := prometheus.NewRegistry()
	return &server{
		ds:        ds,
		exporter:  exporter,
		chartOpts: chartOpts,
		logger:    logger,
		registry:  reg,
		metrics:   newServerMetrics(reg),
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/", s.handleIndex)
	r.Route("/api", func(r chi.Router) {
		r.Get("/hospitals", s.handleHospitals)
		r.Get("/metrics", s.handleMetrics)
		r.Get("/comparison", s.handleComparison)
		r.Get("/chart.png", s.handleChart)
		r.Get("/report", s.handleReport)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

func (s *server) serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("serving", "addr", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// instrument counts and logs every request under its route pattern.
func (s *server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		s.metrics.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		s.metrics.duration.WithLabelValues(route).Observe(elapsed.Seconds())
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status,
			"bytes", ww.BytesWritten(), "took", elapsed.Round(time.Millisecond))
	})
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := htmlContent.ReadFile("web.html")
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

func (s *server) handleHospitals(w http.ResponseWriter, r *http.Request) {
	hospitals := s.ds.Directory.Search(r.URL.Query().Get("search"))
	if hospitals == nil {
		hospitals = []hcahps.Hospital{}
	}
	writeJSON(w, hospitals)
}

func (s *server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, hcahps.Catalog)
}

type comparisonRow struct {
	hcahps.ComparisonRow
	VsStateSentiment    hcahps.Sentiment `json:"vsStateSentiment"`
	VsNationalSentiment hcahps.Sentiment `json:"vsNationalSentiment"`
}

type comparisonResponse struct {
	Title    string          `json:"title"`
	Hospital hcahps.Hospital `json:"hospital"`
	Columns  []string        `json:"columns"`
	Rows     []comparisonRow `json:"rows"`
}

// selection resolves the hospital and metric query parameters. With no
// metric parameter every catalog metric is compared; "metric=" with an empty
// value selects none.
func (s *server) selection(r *http.Request) (hcahps.Hospital, hcahps.ComparisonTable, error) {
	q := r.URL.Query()
	name := q.Get("hospital")
	if name == "" {
		return hcahps.Hospital{}, hcahps.ComparisonTable{}, errMissingHospital
	}
	labels, explicit := q["metric"]
	return benchmark(s.ds, name, labels, explicit)
}

func (s *server) handleComparison(w http.ResponseWriter, r *http.Request) {
	h, t, err := s.selection(r)
	if err != nil {
		s.fail(w, err)
		return
	}

	resp := comparisonResponse{
		Title:    report.Input{Hospital: h.Name}.Title(),
		Hospital: h,
		Columns:  hcahps.Columns,
		Rows:     make([]comparisonRow, 0, t.Len()),
	}
	for _, row := range t.Rows {
		vsState, vsNational := row.RowSentiment()
		resp.Rows = append(resp.Rows, comparisonRow{
			ComparisonRow:       row,
			VsStateSentiment:    vsState,
			VsNationalSentiment: vsNational,
		})
	}
	writeJSON(w, resp)
}

func (s *server) handleChart(w http.ResponseWriter, r *http.Request) {
	_, t, err := s.selection(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	var buf bytes.Buffer
	if err := chart.WritePNG(&buf, t, s.chartOpts); err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

func (s *server) handleReport(w http.ResponseWriter, r *http.Request) {
	f, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.fail(w, err)
		return
	}
	h, t, err := s.selection(r)
	if err != nil {
		s.fail(w, err)
		return
	}

	var buf bytes.Buffer
	name, err := s.exporter.Export(r.Context(), &buf, h.Name, t, f)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.metrics.reports.WithLabelValues(string(f)).Inc()

	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Write(buf.Bytes())
}

// fail maps domain errors to HTTP status codes.
func (s *server) fail(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, hcahps.ErrHospitalNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errMissingHospital),
		errors.Is(err, hcahps.ErrUnknownMetric),
		errors.Is(err, report.ErrUnknownFormat):
		code = http.StatusBadRequest
	}
	if code == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	http.Error(w, err.Error(), code)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
