// Package charts renders analytics payloads as terminal blocks: a summary,
// bulleted insight/recommendation lists, and unicode plots for each
// visualization hint. Rendering is total — bad inputs drop the affected
// chart and never take their siblings with them.
package charts

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sanjog-lama/adk-graph-ui/internal/analytics"
	"github.com/sanjog-lama/adk-graph-ui/internal/logging"
)

type Kind string

const (
	KindSummary         Kind = "summary"
	KindInsights        Kind = "insights"
	KindChart           Kind = "chart"
	KindRecommendations Kind = "recommendations"
)

// Block is one printable unit of an analytics rendering. Blocks are emitted
// in presentation order; the caller prints them top to bottom.
type Block struct {
	Kind  Kind
	Title string
	Body  string
}

const (
	minWidth     = 40
	defaultWidth = 80
	lineRows     = 12
)

// Render expands a payload into printable blocks, in fixed order: summary,
// insights, one chart per hint, recommendations. width bounds the widest
// chart row.
func Render(p *analytics.Payload, width int) []Block {
	if p == nil {
		return nil
	}
	if width < minWidth {
		width = defaultWidth
	}

	var blocks []Block
	if s := strings.TrimSpace(p.AnalysisSummary); s != "" {
		blocks = append(blocks, Block{Kind: KindSummary, Title: "Analysis", Body: s})
	}
	if len(p.Insights) > 0 {
		blocks = append(blocks, Block{Kind: KindInsights, Title: "Insights", Body: bulleted(p.Insights)})
	}
	for _, hint := range p.VisualizationHints {
		b, ok := renderChart(hint, width)
		if !ok {
			logging.L().Warn("skipping chart", "type", hint.ChartType, "title", hint.Title)
			continue
		}
		blocks = append(blocks, b)
	}
	if len(p.Recommendations) > 0 {
		blocks = append(blocks, Block{Kind: KindRecommendations, Title: "Recommendations", Body: bulleted(p.Recommendations)})
	}
	return blocks
}

func bulleted(items []string) string {
	var sb strings.Builder
	for i, it := range items {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("• ")
		sb.WriteString(strings.TrimSpace(it))
	}
	return sb.String()
}

func renderChart(hint analytics.ChartSpec, width int) (Block, bool) {
	labels := toLabels(hint.X)
	values, ok := toFloats(hint.Y)
	if !ok || len(values) == 0 || len(labels) != len(values) {
		return Block{}, false
	}

	var body string
	switch hint.ChartType {
	case "bar":
		body = renderBars(labels, values, width)
	case "pie":
		body = renderPie(labels, values, width)
	case "line":
		xs, ok := toFloats(hint.X)
		if !ok {
			// Categorical x axis still plots on index order.
			xs = indexSeries(len(values))
		}
		body = renderLine(xs, values, width)
	default:
		return Block{}, false
	}
	if body == "" {
		return Block{}, false
	}

	title := hint.Title
	if title == "" {
		title = hint.ChartType + " chart"
	}
	return Block{Kind: KindChart, Title: title, Body: body}, true
}

// ─── Bar ────────────────────────────────────────────────────────────────────

// renderBars draws one row per category with a bar proportional to the
// maximum value.
func renderBars(labels []string, values []float64, width int) string {
	labelW := 0
	for _, l := range labels {
		if len(l) > labelW {
			labelW = len(l)
		}
	}
	if labelW > 20 {
		labelW = 20
	}
	max := maxAbs(values)
	if max == 0 {
		max = 1
	}
	barW := width - labelW - 12
	if barW < 10 {
		barW = 10
	}

	var sb strings.Builder
	for i, v := range values {
		n := int(math.Round(math.Abs(v) / max * float64(barW)))
		if n == 0 && v != 0 {
			n = 1
		}
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%-*s %s %s", labelW, clip(labels[i], labelW), strings.Repeat("█", n), formatNum(v))
	}
	return sb.String()
}

// ─── Pie ────────────────────────────────────────────────────────────────────

// renderPie degrades the pie to share rows: label, percentage, and a short
// proportional bar. Non-positive totals cannot express shares.
func renderPie(labels []string, values []float64, width int) string {
	total := 0.0
	for _, v := range values {
		if v > 0 {
			total += v
		}
	}
	if total == 0 {
		return ""
	}
	labelW := 0
	for _, l := range labels {
		if len(l) > labelW {
			labelW = len(l)
		}
	}
	if labelW > 20 {
		labelW = 20
	}
	barW := width - labelW - 14
	if barW < 10 {
		barW = 10
	}

	var sb strings.Builder
	row := 0
	for i, v := range values {
		if v <= 0 {
			continue
		}
		share := v / total
		n := int(math.Round(share * float64(barW)))
		if n == 0 {
			n = 1
		}
		if row > 0 {
			sb.WriteByte('\n')
		}
		row++
		fmt.Fprintf(&sb, "%-*s %5.1f%% %s", labelW, clip(labels[i], labelW), share*100, strings.Repeat("▓", n))
	}
	return sb.String()
}

// ─── Line ───────────────────────────────────────────────────────────────────

// renderLine plots y over x on a fixed-height dot matrix with ● markers.
func renderLine(xs, ys []float64, width int) string {
	if len(xs) != len(ys) || len(ys) == 0 {
		return ""
	}
	cols := width - 10
	if cols < 20 {
		cols = 20
	}
	minX, maxX := minMax(xs)
	minY, maxY := minMax(ys)
	if maxX == minX {
		maxX = minX + 1
	}
	if maxY == minY {
		maxY = minY + 1
	}

	grid := make([][]rune, lineRows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", cols))
	}
	for i := range xs {
		c := int(math.Round((xs[i] - minX) / (maxX - minX) * float64(cols-1)))
		r := lineRows - 1 - int(math.Round((ys[i]-minY)/(maxY-minY)*float64(lineRows-1)))
		grid[r][c] = '●'
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", formatNum(maxY))
	for _, row := range grid {
		sb.WriteString("│")
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	sb.WriteString("└")
	sb.WriteString(strings.Repeat("─", cols))
	fmt.Fprintf(&sb, "\n%s%*s", formatNum(minY), cols-len(formatNum(minY))+1, formatNum(maxX))
	return sb.String()
}

// ─── Series coercion ────────────────────────────────────────────────────────

func toLabels(xs []any) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		switch v := x.(type) {
		case string:
			out[i] = v
		case float64:
			out[i] = formatNum(v)
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}

func toFloats(vals []any) ([]float64, bool) {
	out := make([]float64, len(vals))
	for i, v := range vals {
		switch n := v.(type) {
		case float64:
			out[i] = n
		case int:
			out[i] = float64(n)
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			if err != nil {
				return nil, false
			}
			out[i] = f
		default:
			return nil, false
		}
	}
	return out, true
}

func indexSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

func minMax(vals []float64) (float64, float64) {
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func maxAbs(vals []float64) float64 {
	m := 0.0
	for _, v := range vals {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

func clip(s string, w int) string {
	if len(s) <= w {
		return s
	}
	if w <= 1 {
		return s[:w]
	}
	return s[:w-1] + "…"
}

func formatNum(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e9 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', 4, 64)
}
