package layout

import (
	"fmt"
	"testing"

	"gonum.org/v1/plot/vg"
)

var testHeader = []string{"Measure", "Hospital", "State Avg", "National Avg", "vs State", "vs National"}

func bodyRows(n int) [][]string {
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("Metric %d", i), "80", "70", "70", "10", "10"}
	}
	return rows
}

func TestPlan_EmptyTable(t *testing.T) {
	cfg := DefaultConfig()
	plan := NewPlanner(cfg).Plan(Slide, testHeader, nil)

	if plan.Table.Height != cfg.TableBaseOffset {
		t.Errorf("table height: got %v, want %v", plan.Table.Height, cfg.TableBaseOffset)
	}
	if plan.Chart.Height < cfg.MinChartHeight {
		t.Errorf("chart height %v below minimum %v", plan.Chart.Height, cfg.MinChartHeight)
	}
	if len(plan.ColumnWidths) != len(testHeader) {
		t.Errorf("got %d column widths, want %d", len(plan.ColumnWidths), len(testHeader))
	}
}

func TestPlan_StacksTopToBottom(t *testing.T) {
	cfg := DefaultConfig()
	plan := NewPlanner(cfg).Plan(Slide, testHeader, bodyRows(8))

	if plan.Title.Top != cfg.Margin {
		t.Errorf("title top: got %v, want %v", plan.Title.Top, cfg.Margin)
	}
	regions := []Region{plan.Title, plan.Date, plan.Table, plan.Chart}
	for i := 1; i < len(regions); i++ {
		want := regions[i-1].Bottom() + cfg.Gap
		if regions[i].Top != want {
			t.Errorf("region %d top: got %v, want %v", i, regions[i].Top, want)
		}
	}
	wantTable := cfg.TableBaseOffset + 8*cfg.RowHeight
	if plan.Table.Height != wantTable {
		t.Errorf("table height: got %v, want %v", plan.Table.Height, wantTable)
	}
	wantChart := Slide.Height - plan.Chart.Top - cfg.BottomMargin
	if plan.Chart.Height != wantChart {
		t.Errorf("chart height: got %v, want %v", plan.Chart.Height, wantChart)
	}
	if plan.ChartOverflows(cfg.BottomMargin) {
		t.Error("chart overflows with 8 rows")
	}
}

func TestPlan_HeaderAndRowsFillTable(t *testing.T) {
	cfg := DefaultConfig()
	planner := NewPlanner(cfg)
	for _, n := range []int{0, 1, 8} {
		plan := planner.Plan(Slide, testHeader, bodyRows(n))
		if plan.HeaderHeight != cfg.TableBaseOffset {
			t.Errorf("rows=%d: header height %v, want %v", n, plan.HeaderHeight, cfg.TableBaseOffset)
		}
		filled := plan.HeaderHeight + vg.Length(n)*plan.RowHeight
		if diff := plan.Table.Height - filled; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("rows=%d: header+rows = %v, table height %v", n, filled, plan.Table.Height)
		}
	}
}

func TestPlan_ChartClampedForTallTables(t *testing.T) {
	cfg := DefaultConfig()
	plan := NewPlanner(cfg).Plan(Slide, testHeader, bodyRows(40))

	if plan.Chart.Height != cfg.MinChartHeight {
		t.Errorf("chart height: got %v, want clamp to %v", plan.Chart.Height, cfg.MinChartHeight)
	}
	if !plan.ChartOverflows(cfg.BottomMargin) {
		t.Error("expected chart to run past the bottom margin")
	}
}

func TestPlan_Properties(t *testing.T) {
	cfg := DefaultConfig()
	p := NewPlanner(cfg)
	canvases := []Size{Slide, {Width: 8.5 * vg.Inch, Height: 11 * vg.Inch}, {Width: 4 * vg.Inch, Height: 3 * vg.Inch}}

	for _, canvas := range canvases {
		for r := 0; r <= 30; r++ {
			plan := p.Plan(canvas, testHeader, bodyRows(r))
			if plan.Chart.Height < cfg.MinChartHeight {
				t.Errorf("%v rows=%d: chart height %v below minimum", canvas, r, plan.Chart.Height)
			}
			if !(plan.Table.Top < plan.Chart.Top) {
				t.Errorf("%v rows=%d: table top %v not above chart top %v", canvas, r, plan.Table.Top, plan.Chart.Top)
			}
			regions := []Region{plan.Title, plan.Date, plan.Table, plan.Chart}
			for i := range regions {
				if regions[i].Left < 0 || regions[i].Right() > canvas.Width {
					t.Errorf("%v rows=%d: region %d outside canvas horizontally", canvas, r, i)
				}
				for j := i + 1; j < len(regions); j++ {
					if regions[i].Overlaps(regions[j]) {
						t.Errorf("%v rows=%d: regions %d and %d overlap", canvas, r, i, j)
					}
				}
			}
		}
	}
}

func TestPlan_NarrowCanvas(t *testing.T) {
	cfg := DefaultConfig()
	plan := NewPlanner(cfg).Plan(Size{Width: 0.5 * vg.Inch, Height: 1 * vg.Inch}, testHeader, bodyRows(2))
	if plan.Table.Width != 0 {
		t.Errorf("table width: got %v, want 0", plan.Table.Width)
	}
	if plan.Chart.Height != cfg.MinChartHeight {
		t.Errorf("chart height: got %v, want %v", plan.Chart.Height, cfg.MinChartHeight)
	}
}

func TestColumnWidths(t *testing.T) {
	cfg := Config{CharWidth: 10, MinColumnWidth: 30, MaxColumnWidth: 100, RowHeight: 1}
	p := NewPlanner(cfg)

	tests := []struct {
		name   string
		header []string
		rows   [][]string
		want   []vg.Length
	}{
		{"header wins", []string{"Hospital"}, [][]string{{"80"}}, []vg.Length{80}},
		{"cell wins", []string{"X"}, [][]string{{"abcdef"}, {"ab"}}, []vg.Length{60}},
		{"min clamp", []string{"a"}, nil, []vg.Length{30}},
		{"max clamp", []string{"a very long header text"}, nil, []vg.Length{100}},
		{"runes not bytes", []string{"ééééé"}, nil, []vg.Length{50}},
		{"short row", []string{"abcd", "abcdefg"}, [][]string{{"x"}}, []vg.Length{40, 70}},
		{"no columns", nil, [][]string{{"x"}}, []vg.Length{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.ColumnWidths(tt.header, tt.rows)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d widths, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("width %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"default", func(*Config) {}, nil},
		{"negative margin", func(c *Config) { c.Margin = -1 }, ErrNegativeLength},
		{"zero row height", func(c *Config) { c.RowHeight = 0 }, ErrInvalidRowHeight},
		{"inverted columns", func(c *Config) { c.MinColumnWidth = 3 * vg.Inch }, ErrInvalidColumnRange},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(&cfg)
		if got := cfg.Validate(); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestConfigFits(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name   string
		canvas Size
		want   error
	}{
		{"slide", Slide, nil},
		{"exactly two margins", Size{Width: 2 * cfg.Margin, Height: Slide.Height}, nil},
		{"narrower than margins", Size{Width: cfg.Margin, Height: Slide.Height}, ErrCanvasTooNarrow},
		{"zero height", Size{Width: Slide.Width}, ErrInvalidCanvas},
	}
	for _, tt := range tests {
		if got := cfg.Fits(tt.canvas); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}
