// Package analytics recognizes structured analysis payloads inside agent
// output. Payloads arrive two ways: as a state-delta value on a stream event
// (preferred) or embedded in the reply text as JSON. Extraction is best
// effort and never fails loudly; anything unrecognizable is simply absent.
package analytics

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/sanjog-lama/adk-graph-ui/internal/api"
)

// Payload is the analysis document an agent attaches to a turn. A candidate
// qualifies when at least one of the four keys is present.
type Payload struct {
	AnalysisSummary    string      `json:"analysis_summary,omitempty"`
	Insights           []string    `json:"insights,omitempty"`
	VisualizationHints []ChartSpec `json:"visualization_hints,omitempty"`
	Recommendations    []string    `json:"recommendations,omitempty"`
}

// ChartSpec describes one requested visualization. X and Y stay untyped:
// labels may be strings, values may be numbers, and the renderer decides
// what it can plot.
type ChartSpec struct {
	ChartType string `json:"chart_type"`
	Title     string `json:"title,omitempty"`
	X         []any  `json:"x"`
	Y         []any  `json:"y"`
}

// statePaths are the candidate locations of the payload on a raw event
// record, probed in order.
var statePaths = []string{
	"actions.stateDelta.analytics_output",
	"stateDelta.analytics_output",
	"analytics_output",
}

// FromEvents scans a turn's events in order and returns the first analytics
// payload found on any of them, or nil.
func FromEvents(events []api.Event) *Payload {
	for _, ev := range events {
		if len(ev.Raw) == 0 {
			continue
		}
		for _, path := range statePaths {
			res := gjson.GetBytes(ev.Raw, path)
			if !res.Exists() {
				continue
			}
			if p := fromCandidate(res); p != nil {
				return p
			}
		}
	}
	return nil
}

// fromCandidate turns one probed value into a payload. Structured values are
// decoded directly; string values get an optional code fence stripped and are
// parsed as JSON, with one repair pass on failure.
func fromCandidate(res gjson.Result) *Payload {
	switch res.Type {
	case gjson.JSON:
		return parsePayload(res.Raw)
	case gjson.String:
		return parsePayload(stripFence(res.String()))
	default:
		return nil
	}
}

// FromText mines a reply's raw text for an embedded payload. Fenced ```json
// blocks are tried first in document order; failing that, brace-delimited
// object substrings are tried last to first, since a payload embedded in
// prose usually trails the explanation.
func FromText(text string) *Payload {
	for _, block := range fencedBlocks(text) {
		if p := parsePayload(block); p != nil {
			return p
		}
	}
	candidates := braceCandidates(text)
	for i := len(candidates) - 1; i >= 0; i-- {
		if p := parsePayload(candidates[i]); p != nil {
			return p
		}
	}
	return nil
}

// trailingComma matches a comma that directly precedes a closing bracket,
// the most common defect in model-written JSON.
var trailingComma = regexp.MustCompile(`,\s*([}\]])`)

func parsePayload(s string) *Payload {
	var p Payload
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		repaired := trailingComma.ReplaceAllString(s, "$1")
		if err := json.Unmarshal([]byte(repaired), &p); err != nil {
			return nil
		}
	}
	if p.AnalysisSummary == "" && p.Insights == nil && p.VisualizationHints == nil && p.Recommendations == nil {
		return nil
	}
	return &p
}

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)```")

func fencedBlocks(text string) []string {
	var blocks []string
	for _, m := range fenceRe.FindAllStringSubmatch(text, -1) {
		body := strings.TrimSpace(m[1])
		if strings.HasPrefix(body, "{") {
			blocks = append(blocks, body)
		}
	}
	return blocks
}

// braceCandidates returns every balanced top-level {...} substring.
func braceCandidates(text string) []string {
	var out []string
	depth := 0
	start := -1
	inString := false
	escaped := false
	for i, r := range text {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					out = append(out, text[start:i+1])
					start = -1
				}
			}
		}
	}
	return out
}

// stripFence removes a surrounding markdown code fence if present.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
