package tui

import (
	"fmt"
	"strings"

	"github.com/sanjog-lama/adk-graph-ui/internal/charts"
)

// ─── Welcome Screen ─────────────────────────────────────────────────────────

func renderWelcome(version, server, agent string, width int) string {
	titleLine := logoTitleStyle.Render("ADK Chat") + " " + versionStyle.Render("v"+version)

	var infoLine string
	if server == "" {
		infoLine = welcomeHintStyle.Render("Type /set server <url> to get started")
	} else {
		serverDisplay := server
		if len(serverDisplay) > 40 {
			serverDisplay = serverDisplay[:37] + "..."
		}
		agentDisplay := dimStyle.Render("no agent")
		if agent != "" {
			agentDisplay = agent
			if len(agentDisplay) > 36 {
				agentDisplay = agentDisplay[:33] + "..."
			}
		}
		infoLine = welcomeInfoLabel.Render(fmt.Sprintf("%s · %s", serverDisplay, agentDisplay))
	}

	logo := renderLogoArt()
	return fmt.Sprintf("\n%s\n\n%s\n%s\n", logo, titleLine, infoLine)
}

// The logo is a tiny bar chart: axes in gray, bars in the accent color.
const logoArt = `
  |
  |        ##
  |   ##   ##
  |   ##   ##   ##
  |   ##   ##   ##
  +------------------
`

func renderLogoArt() string {
	lines := strings.Split(logoArt, "\n")
	lines = trimEmptyEdgeLines(lines)
	for i, line := range lines {
		lines[i] = colorizeLogoLine(strings.TrimRight(line, " "))
	}
	return strings.Join(lines, "\n")
}

func trimEmptyEdgeLines(lines []string) []string {
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}

	end := len(lines)
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}

func colorizeLogoLine(line string) string {
	const (
		stylePlain = iota
		styleAxis
		styleBar
	)

	styleFor := func(r rune) int {
		switch r {
		case '|', '+', '-':
			return styleAxis
		case '#':
			return styleBar
		default:
			return stylePlain
		}
	}

	render := func(style int, s string) string {
		switch style {
		case styleAxis:
			return logoAxisStyle.Render(s)
		case styleBar:
			return logoBarStyle.Render(s)
		default:
			return s
		}
	}

	var out strings.Builder
	cur := stylePlain
	var run strings.Builder
	for _, r := range line {
		st := styleFor(r)
		if st != cur && run.Len() > 0 {
			out.WriteString(render(cur, run.String()))
			run.Reset()
		}
		cur = st
		run.WriteRune(r)
	}
	if run.Len() > 0 {
		out.WriteString(render(cur, run.String()))
	}
	return out.String()
}

// ─── Analytics blocks ───────────────────────────────────────────────────────

// renderBlock formats one analytics block for the transcript: a styled title
// line and an indented body.
func renderBlock(b charts.Block) string {
	titleStyle := blockTitleStyle
	if b.Kind == charts.KindChart {
		titleStyle = chartTitleStyle
	}

	var sb strings.Builder
	sb.WriteString("  ")
	sb.WriteString(titleStyle.Render(b.Title))
	for _, line := range strings.Split(b.Body, "\n") {
		sb.WriteString("\n  ")
		if b.Kind == charts.KindChart {
			sb.WriteString(chartBodyStyle.Render(line))
		} else {
			sb.WriteString(line)
		}
	}
	return sb.String()
}
