package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"gonum.org/v1/plot/vg"

	"github.com/ravisuresh229/hospital-benchmark-tool/layout"
)

func TestDefault_MatchesPackages(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	got := cfg.LayoutConfig()
	want := layout.DefaultConfig()
	if diff := got.Margin - want.Margin; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Margin = %v, want %v", got.Margin, want.Margin)
	}
	if c := cfg.Canvas(); c.Width != 10*vg.Inch || c.Height != 7.5*vg.Inch {
		t.Errorf("Canvas = %+v, want 10x7.5in", c)
	}
	if o := cfg.ChartOptions(); o.Width != 700 || o.Height != 500 || o.DPI != 96 {
		t.Errorf("ChartOptions = %+v", o)
	}
}

func TestLoad_NoFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()

	cfg, path, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if path != "" {
		t.Errorf("path = %q, want none", path)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
}

func TestLoad_PartialOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	data := `
data:
  hcahps: https://example.org/hcahps.csv
layout:
  rowHeight: 0.25
chart:
  dpi: 150
server:
  addr: 127.0.0.1:9000
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != path {
		t.Errorf("path = %q, want %q", got, path)
	}
	if cfg.Data.HCAHPS != "https://example.org/hcahps.csv" {
		t.Errorf("HCAHPS = %q", cfg.Data.HCAHPS)
	}
	if cfg.Data.HospitalInfo != DefaultHospitalInfo {
		t.Errorf("HospitalInfo = %q, want default kept", cfg.Data.HospitalInfo)
	}
	if cfg.LayoutConfig().RowHeight != 0.25*vg.Inch {
		t.Errorf("RowHeight = %v", cfg.LayoutConfig().RowHeight)
	}
	if cfg.Chart.DPI != 150 || cfg.Chart.Width != 700 {
		t.Errorf("Chart = %+v", cfg.Chart)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
}

func TestLoad_WorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(FileName, []byte("server:\n  addr: :7000\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, path, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if path != FileName {
		t.Errorf("path = %q", path)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	tests := []struct {
		name string
		path string
		want error
	}{
		{"missing", filepath.Join(dir, "nope.yaml"), ErrConfigNotFound},
		{"chart", write("chart.yaml", "chart:\n  width: 0\n"), ErrInvalidChartSize},
		{"row height", write("row.yaml", "layout:\n  rowHeight: 0\n"), layout.ErrInvalidRowHeight},
		{"column range", write("cols.yaml", "layout:\n  minColumnWidth: 3\n"), layout.ErrInvalidColumnRange},
		{"source", write("src.yaml", "data:\n  hcahps: \"\"\n"), ErrMissingSource},
		{"addr", write("addr.yaml", "server:\n  addr: \"\"\n"), ErrMissingAddr},
		{"narrow page", write("narrow.yaml", "layout:\n  pageWidth: 0.4\n  margin: 0.5\n"), layout.ErrCanvasTooNarrow},
		{"zero page", write("zero.yaml", "layout:\n  pageHeight: 0\n"), layout.ErrInvalidCanvas},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Load(tt.path)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}

	if _, _, err := Load(write("bad.yaml", "chart: [1, 2")); err == nil {
		t.Error("malformed yaml accepted")
	}
}
