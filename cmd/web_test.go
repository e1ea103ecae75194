package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/ravisuresh229/hospital-benchmark-tool/chart"
	"github.com/ravisuresh229/hospital-benchmark-tool/hcahps"
	"github.com/ravisuresh229/hospital-benchmark-tool/layout"
	"github.com/ravisuresh229/hospital-benchmark-tool/report"
	"github.com/ravisuresh229/hospital-benchmark-tool/source"
)

func testDataset() *source.Dataset {
	f := hcahps.Float
	return &source.Dataset{
		Records: []hcahps.SurveyRecord{
			{FacilityID: "010001", State: "AL", MeasureID: "H_COMP_1_A_P", AnswerPercent: f(80)},
			{FacilityID: "010002", State: "AL", MeasureID: "H_COMP_1_A_P", AnswerPercent: f(60)},
			{FacilityID: "450001", State: "TX", MeasureID: "H_COMP_1_A_P", AnswerPercent: f(70)},
			{FacilityID: "010001", State: "AL", MeasureID: "H_QUIET_HSP_A_P", AnswerPercent: f(50)},
			{FacilityID: "450001", State: "TX", MeasureID: "H_QUIET_HSP_A_P", AnswerPercent: f(62)},
		},
		Directory: hcahps.NewDirectory([]hcahps.Hospital{
			{Name: "SOUTHEAST HEALTH MEDICAL CENTER", FacilityID: "010001", State: "AL"},
			{Name: "MARSHALL MEDICAL CENTER SOUTH", FacilityID: "010002", State: "AL"},
			{Name: "DALLAS GENERAL", FacilityID: "450001", State: "TX"},
		}),
	}
}

func newTestServer(t *testing.T) (*server, *httptest.Server) {
	t.Helper()
	logger := log.New(io.Discard)
	exp := report.NewExporter(layout.NewPlanner(layout.DefaultConfig()), chart.Options{Width: 350, Height: 250, DPI: 72}, logger)
	s := newServer(testDataset(), exp, chart.Options{Width: 350, Height: 250, DPI: 72}, logger)
	ts := httptest.NewServer(s.routes())
	t.Cleanup(ts.Close)
	return s, ts
}

func get(t *testing.T, ts *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestWeb_Index(t *testing.T) {
	_, ts := newTestServer(t)
	resp := get(t, ts, "/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "/api/comparison") {
		t.Error("index page does not call the comparison API")
	}
}

func TestWeb_Hospitals(t *testing.T) {
	_, ts := newTestServer(t)

	var all []hcahps.Hospital
	if err := json.NewDecoder(get(t, ts, "/api/hospitals").Body).Decode(&all); err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].Name != "DALLAS GENERAL" {
		t.Errorf("hospitals = %+v, want 3 sorted by name", all)
	}

	var found []hcahps.Hospital
	if err := json.NewDecoder(get(t, ts, "/api/hospitals?search=medical+center").Body).Decode(&found); err != nil {
		t.Fatal(err)
	}
	if len(found) != 2 {
		t.Errorf("search found %d hospitals, want 2", len(found))
	}

	body, _ := io.ReadAll(get(t, ts, "/api/hospitals?search=zzz").Body)
	if strings.TrimSpace(string(body)) != "[]" {
		t.Errorf("empty search = %s, want []", body)
	}
}

func TestWeb_Metrics(t *testing.T) {
	_, ts := newTestServer(t)
	var metrics []hcahps.MetricDefinition
	if err := json.NewDecoder(get(t, ts, "/api/metrics").Body).Decode(&metrics); err != nil {
		t.Fatal(err)
	}
	if len(metrics) != len(hcahps.Catalog) {
		t.Errorf("got %d metrics, want %d", len(metrics), len(hcahps.Catalog))
	}
}

func TestWeb_Comparison(t *testing.T) {
	_, ts := newTestServer(t)
	q := url.Values{
		"hospital": {"SOUTHEAST HEALTH MEDICAL CENTER"},
		"metric":   {"Nurse Communication", "Quietness"},
	}
	resp := get(t, ts, "/api/comparison?"+q.Encode())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var got struct {
		Title string `json:"title"`
		Rows  []struct {
			Measure             string   `json:"measure"`
			Hospital            *float64 `json:"hospital"`
			VsState             *float64 `json:"vsState"`
			VsStateSentiment    string   `json:"vsStateSentiment"`
			VsNationalSentiment string   `json:"vsNationalSentiment"`
		} `json:"rows"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Title != "HCAHPS Benchmark Report: SOUTHEAST HEALTH MEDICAL CENTER" {
		t.Errorf("title = %q", got.Title)
	}
	if len(got.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(got.Rows))
	}

	nurse := got.Rows[0]
	// state mean (80+60)/2 = 70, national (80+60+70)/3 = 70
	if nurse.Measure != "Nurse Communication" || nurse.VsState == nil || *nurse.VsState != 10 {
		t.Errorf("nurse row = %+v", nurse)
	}
	if nurse.VsStateSentiment != "positive" || nurse.VsNationalSentiment != "positive" {
		t.Errorf("nurse sentiments = %s/%s", nurse.VsStateSentiment, nurse.VsNationalSentiment)
	}

	quiet := got.Rows[1]
	// state 50, national 56
	if quiet.VsStateSentiment != "neutral" || quiet.VsNationalSentiment != "negative" {
		t.Errorf("quiet sentiments = %s/%s", quiet.VsStateSentiment, quiet.VsNationalSentiment)
	}
}

func TestWeb_Errors(t *testing.T) {
	_, ts := newTestServer(t)
	tests := []struct {
		path string
		want int
	}{
		{"/api/comparison", http.StatusBadRequest},
		{"/api/comparison?hospital=NOWHERE", http.StatusNotFound},
		{"/api/comparison?hospital=DALLAS+GENERAL&metric=Parking", http.StatusBadRequest},
		{"/api/report?hospital=DALLAS+GENERAL&format=docx", http.StatusBadRequest},
		{"/api/chart.png?hospital=NOWHERE", http.StatusNotFound},
	}
	for _, tt := range tests {
		if got := get(t, ts, tt.path).StatusCode; got != tt.want {
			t.Errorf("GET %s = %d, want %d", tt.path, got, tt.want)
		}
	}
}

func TestWeb_Chart(t *testing.T) {
	_, ts := newTestServer(t)
	resp := get(t, ts, "/api/chart.png?hospital=DALLAS+GENERAL")
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(body, []byte("\x89PNG")) {
		t.Error("body is not a PNG")
	}
}

func TestWeb_Report(t *testing.T) {
	_, ts := newTestServer(t)

	for _, f := range report.Formats {
		resp := get(t, ts, "/api/report?hospital=DALLAS+GENERAL&format="+string(f))
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: status = %d", f, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != f.ContentType() {
			t.Errorf("%s: content type = %q", f, ct)
		}
		cd := resp.Header.Get("Content-Disposition")
		if !strings.HasPrefix(cd, "attachment") || !strings.Contains(cd, "DALLAS GENERAL_HCAHPS_Benchmark_") {
			t.Errorf("%s: content disposition = %q", f, cd)
		}
	}
}

func TestWeb_PrometheusMetrics(t *testing.T) {
	_, ts := newTestServer(t)
	get(t, ts, "/api/metrics")
	get(t, ts, "/api/report?hospital=DALLAS+GENERAL&format=md")

	body, _ := io.ReadAll(get(t, ts, "/metrics").Body)
	for _, want := range []string{
		`hcbench_http_requests_total{code="200",route="/api/metrics"} 1`,
		`hcbench_reports_total{format="md"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("/metrics missing %q", want)
		}
	}
}

func TestWeb_MetricSelection(t *testing.T) {
	_, ts := newTestServer(t)
	rows := func(path string) int {
		t.Helper()
		var got struct {
			Rows []json.RawMessage `json:"rows"`
		}
		resp := get(t, ts, path)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s = %d", path, resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		return len(got.Rows)
	}

	tests := []struct {
		query string
		want  int
	}{
		{"hospital=DALLAS+GENERAL", len(hcahps.Catalog)},
		{"hospital=DALLAS+GENERAL&metric=", 0},
		{"hospital=DALLAS+GENERAL&metric=Quietness", 1},
	}
	for _, tt := range tests {
		if got := rows("/api/comparison?" + tt.query); got != tt.want {
			t.Errorf("%s: got %d rows, want %d", tt.query, got, tt.want)
		}
	}
}

func TestWeb_EmptySelectionReport(t *testing.T) {
	_, ts := newTestServer(t)

	resp := get(t, ts, "/api/report?hospital=DALLAS+GENERAL&metric=&format=pdf")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	pages, err := report.VerifyPDF(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("VerifyPDF: %v", err)
	}
	if pages != 1 {
		t.Errorf("got %d pages, want 1", pages)
	}

	md, _ := io.ReadAll(get(t, ts, "/api/report?hospital=DALLAS+GENERAL&metric=&format=md").Body)
	if !strings.Contains(string(md), "No metrics selected.") {
		t.Errorf("markdown report for empty selection:\n%s", md)
	}
}
