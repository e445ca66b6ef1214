package charts

import (
	"strings"
	"testing"

	"github.com/sanjog-lama/adk-graph-ui/internal/analytics"
)

func fullPayload() *analytics.Payload {
	return &analytics.Payload{
		AnalysisSummary: "Sales grew 12% quarter over quarter.",
		Insights:        []string{"Q3 was the strongest quarter", "West region leads"},
		VisualizationHints: []analytics.ChartSpec{
			{ChartType: "bar", Title: "Sales by region", X: []any{"west", "east"}, Y: []any{float64(120), float64(80)}},
		},
		Recommendations: []string{"Invest in west region"},
	}
}

func TestRenderOrder(t *testing.T) {
	blocks := Render(fullPayload(), 80)

	wantKinds := []Kind{KindSummary, KindInsights, KindChart, KindRecommendations}
	if len(blocks) != len(wantKinds) {
		t.Fatalf("got %d blocks, want %d: %+v", len(blocks), len(wantKinds), blocks)
	}
	for i, k := range wantKinds {
		if blocks[i].Kind != k {
			t.Errorf("block[%d].Kind = %q, want %q", i, blocks[i].Kind, k)
		}
	}
}

func TestRenderPartialPayload(t *testing.T) {
	p := &analytics.Payload{Insights: []string{"only insight"}}
	blocks := Render(p, 80)
	if len(blocks) != 1 || blocks[0].Kind != KindInsights {
		t.Fatalf("got %+v", blocks)
	}
	if !strings.Contains(blocks[0].Body, "only insight") {
		t.Errorf("Body = %q", blocks[0].Body)
	}
}

func TestRenderNil(t *testing.T) {
	if blocks := Render(nil, 80); blocks != nil {
		t.Fatalf("got %+v, want nil", blocks)
	}
}

func TestUnknownChartTypeSkipped(t *testing.T) {
	p := &analytics.Payload{
		VisualizationHints: []analytics.ChartSpec{
			{ChartType: "scatter3d", X: []any{"a"}, Y: []any{float64(1)}},
			{ChartType: "bar", Title: "kept", X: []any{"a"}, Y: []any{float64(1)}},
		},
	}
	blocks := Render(p, 80)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want only the known chart: %+v", len(blocks), blocks)
	}
	if blocks[0].Title != "kept" {
		t.Errorf("Title = %q", blocks[0].Title)
	}
}

func TestMismatchedSeriesSkipped(t *testing.T) {
	tests := []struct {
		name string
		hint analytics.ChartSpec
	}{
		{"length mismatch", analytics.ChartSpec{ChartType: "bar", X: []any{"a", "b"}, Y: []any{float64(1)}}},
		{"non-numeric y", analytics.ChartSpec{ChartType: "bar", X: []any{"a"}, Y: []any{"not a number"}}},
		{"empty series", analytics.ChartSpec{ChartType: "line", X: []any{}, Y: []any{}}},
		{"nil y values", analytics.ChartSpec{ChartType: "pie", X: []any{"a"}, Y: []any{nil}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &analytics.Payload{VisualizationHints: []analytics.ChartSpec{tt.hint}}
			if blocks := Render(p, 80); len(blocks) != 0 {
				t.Errorf("bad series should be skipped, got %+v", blocks)
			}
		})
	}
}

func TestBarChart(t *testing.T) {
	p := &analytics.Payload{
		VisualizationHints: []analytics.ChartSpec{
			{ChartType: "bar", Title: "Counts", X: []any{"big", "small"}, Y: []any{float64(100), float64(25)}},
		},
	}
	blocks := Render(p, 80)
	if len(blocks) != 1 {
		t.Fatalf("got %+v", blocks)
	}
	lines := strings.Split(blocks[0].Body, "\n")
	if len(lines) != 2 {
		t.Fatalf("bar chart rows = %d, want 2:\n%s", len(lines), blocks[0].Body)
	}
	bigBar := strings.Count(lines[0], "█")
	smallBar := strings.Count(lines[1], "█")
	if bigBar <= smallBar {
		t.Errorf("bar lengths not proportional: big=%d small=%d", bigBar, smallBar)
	}
	if !strings.Contains(lines[0], "100") || !strings.Contains(lines[1], "25") {
		t.Errorf("values missing from rows:\n%s", blocks[0].Body)
	}
}

func TestPieChart(t *testing.T) {
	p := &analytics.Payload{
		VisualizationHints: []analytics.ChartSpec{
			{ChartType: "pie", Title: "Share", X: []any{"a", "b"}, Y: []any{float64(75), float64(25)}},
		},
	}
	blocks := Render(p, 80)
	if len(blocks) != 1 {
		t.Fatalf("got %+v", blocks)
	}
	if !strings.Contains(blocks[0].Body, "75.0%") || !strings.Contains(blocks[0].Body, "25.0%") {
		t.Errorf("shares missing:\n%s", blocks[0].Body)
	}
}

func TestPieChartAllZeroSkipped(t *testing.T) {
	p := &analytics.Payload{
		VisualizationHints: []analytics.ChartSpec{
			{ChartType: "pie", X: []any{"a"}, Y: []any{float64(0)}},
		},
	}
	if blocks := Render(p, 80); len(blocks) != 0 {
		t.Errorf("zero-total pie should be skipped, got %+v", blocks)
	}
}

func TestLineChart(t *testing.T) {
	p := &analytics.Payload{
		VisualizationHints: []analytics.ChartSpec{
			{ChartType: "line", Title: "Trend", X: []any{float64(1), float64(2), float64(3)}, Y: []any{float64(5), float64(10), float64(7)}},
		},
	}
	blocks := Render(p, 80)
	if len(blocks) != 1 {
		t.Fatalf("got %+v", blocks)
	}
	if strings.Count(blocks[0].Body, "●") != 3 {
		t.Errorf("marker count = %d, want 3:\n%s", strings.Count(blocks[0].Body, "●"), blocks[0].Body)
	}
}

func TestLineChartCategoricalX(t *testing.T) {
	p := &analytics.Payload{
		VisualizationHints: []analytics.ChartSpec{
			{ChartType: "line", X: []any{"jan", "feb"}, Y: []any{float64(1), float64(2)}},
		},
	}
	blocks := Render(p, 80)
	if len(blocks) != 1 {
		t.Fatalf("categorical x should plot on index order, got %+v", blocks)
	}
}

func TestChartTitleFallback(t *testing.T) {
	p := &analytics.Payload{
		VisualizationHints: []analytics.ChartSpec{
			{ChartType: "bar", X: []any{"a"}, Y: []any{float64(1)}},
		},
	}
	blocks := Render(p, 80)
	if len(blocks) != 1 || blocks[0].Title != "bar chart" {
		t.Fatalf("got %+v", blocks)
	}
}

func TestNarrowWidthFallsBack(t *testing.T) {
	blocks := Render(fullPayload(), 5)
	if len(blocks) != 4 {
		t.Fatalf("tiny width should fall back to the default, got %+v", blocks)
	}
}

func TestNumericStringSeries(t *testing.T) {
	p := &analytics.Payload{
		VisualizationHints: []analytics.ChartSpec{
			{ChartType: "bar", X: []any{"a", "b"}, Y: []any{"3", "7"}},
		},
	}
	if blocks := Render(p, 80); len(blocks) != 1 {
		t.Fatalf("numeric strings should coerce, got %+v", blocks)
	}
}
