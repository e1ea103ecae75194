// Package config holds the settings shared by every hcbench command: where
// the data comes from, how the report page is laid out, the chart raster
// size and the web server address.
package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
	"gonum.org/v1/plot/vg"

	"github.com/ravisuresh229/hospital-benchmark-tool/chart"
	"github.com/ravisuresh229/hospital-benchmark-tool/layout"
)

// AppName names the XDG config and data directories.
const AppName = "hcbench"

// Default data sources, the CMS Hospital Compare exports.
const (
	DefaultHCAHPS       = "HCAHPS-Hospital.csv"
	DefaultHospitalInfo = "Hospital_General_Information.csv"
	DefaultAddr         = ":8080"
)

// Published copies of the two sources, fetched by "hcbench download".
const (
	RemoteHCAHPS       = "https://www.dropbox.com/scl/fi/d35e3po3qfyaw7fz3qend/HCAHPS.csv?rlkey=pw76uj8z5270ks7izz6esx62r&st=ugsr5p6s&dl=1"
	RemoteHospitalInfo = "https://www.dropbox.com/scl/fi/fq5o8a6evwpsfzutjp7uw/Hospital_General_Information.csv?rlkey=c60s0se15d6nzs40mm19a2q5v&st=li48t6ft&dl=1"
)

// Config is the decoded hcbench.yaml. Fields absent from the file keep
// their defaults.
type Config struct {
	Data   Data   `yaml:"data"`
	Layout Layout `yaml:"layout"`
	Chart  Chart  `yaml:"chart"`
	Server Server `yaml:"server"`
}

// Data locates the input CSVs and the optional SQLite snapshot.
// HCAHPS and HospitalInfo may be file paths or http(s) URLs.
type Data struct {
	HCAHPS       string `yaml:"hcahps"`
	HospitalInfo string `yaml:"hospitalInfo"`
	Database     string `yaml:"database"`
}

// Layout mirrors layout.Config with every length in inches, plus the
// page size.
type Layout struct {
	PageWidth       float64 `yaml:"pageWidth"`
	PageHeight      float64 `yaml:"pageHeight"`
	Margin          float64 `yaml:"margin"`
	BottomMargin    float64 `yaml:"bottomMargin"`
	Gap             float64 `yaml:"gap"`
	TitleHeight     float64 `yaml:"titleHeight"`
	DateHeight      float64 `yaml:"dateHeight"`
	TableBaseOffset float64 `yaml:"tableBaseOffset"`
	RowHeight       float64 `yaml:"rowHeight"`
	MinChartHeight  float64 `yaml:"minChartHeight"`
	CharWidth       float64 `yaml:"charWidth"`
	MinColumnWidth  float64 `yaml:"minColumnWidth"`
	MaxColumnWidth  float64 `yaml:"maxColumnWidth"`
}

// Chart is the raster size of the comparison chart.
type Chart struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	DPI    int `yaml:"dpi"`
}

type Server struct {
	Addr string `yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	lc := layout.DefaultConfig()
	co := chart.DefaultOptions()
	return &Config{
		Data: Data{
			HCAHPS:       DefaultHCAHPS,
			HospitalInfo: DefaultHospitalInfo,
			Database:     DefaultDatabase(),
		},
		Layout: Layout{
			PageWidth:       inches(layout.Slide.Width),
			PageHeight:      inches(layout.Slide.Height),
			Margin:          inches(lc.Margin),
			BottomMargin:    inches(lc.BottomMargin),
			Gap:             inches(lc.Gap),
			TitleHeight:     inches(lc.TitleHeight),
			DateHeight:      inches(lc.DateHeight),
			TableBaseOffset: inches(lc.TableBaseOffset),
			RowHeight:       inches(lc.RowHeight),
			MinChartHeight:  inches(lc.MinChartHeight),
			CharWidth:       inches(lc.CharWidth),
			MinColumnWidth:  inches(lc.MinColumnWidth),
			MaxColumnWidth:  inches(lc.MaxColumnWidth),
		},
		Chart:  Chart{Width: co.Width, Height: co.Height, DPI: co.DPI},
		Server: Server{Addr: DefaultAddr},
	}
}

// DefaultDatabase is the snapshot path under the XDG data directory.
func DefaultDatabase() string {
	return filepath.Join(xdg.DataHome, AppName, "hcahps.db")
}

func inches(l vg.Length) float64 { return float64(l / vg.Inch) }

func length(in float64) vg.Length { return vg.Length(in) * vg.Inch }

// LayoutConfig converts the layout section to planner settings.
func (c *Config) LayoutConfig() layout.Config {
	l := c.Layout
	return layout.Config{
		Margin:          length(l.Margin),
		BottomMargin:    length(l.BottomMargin),
		Gap:             length(l.Gap),
		TitleHeight:     length(l.TitleHeight),
		DateHeight:      length(l.DateHeight),
		TableBaseOffset: length(l.TableBaseOffset),
		RowHeight:       length(l.RowHeight),
		MinChartHeight:  length(l.MinChartHeight),
		CharWidth:       length(l.CharWidth),
		MinColumnWidth:  length(l.MinColumnWidth),
		MaxColumnWidth:  length(l.MaxColumnWidth),
	}
}

// Canvas returns the page size.
func (c *Config) Canvas() layout.Size {
	return layout.Size{Width: length(c.Layout.PageWidth), Height: length(c.Layout.PageHeight)}
}

func (c *Config) ChartOptions() chart.Options {
	return chart.Options{Width: c.Chart.Width, Height: c.Chart.Height, DPI: c.Chart.DPI}
}

// Validate reports the first problem found in c.
func (c *Config) Validate() error {
	if c.Data.HCAHPS == "" || c.Data.HospitalInfo == "" {
		return ErrMissingSource
	}
	lc := c.LayoutConfig()
	if err := lc.Validate(); err != nil {
		return err
	}
	if err := lc.Fits(c.Canvas()); err != nil {
		return err
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 || c.Chart.DPI <= 0 {
		return ErrInvalidChartSize
	}
	if c.Server.Addr == "" {
		return ErrMissingAddr
	}
	return nil
}
