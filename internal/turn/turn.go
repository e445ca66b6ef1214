// Package turn assembles one streamed agent turn into renderable output.
// The assembler is a pure state machine: it consumes decoded stream events
// and returns what to show, with no knowledge of the UI driving it. A turn
// is made of runs — stretches of text bounded by tool activity — and the
// open run is always re-rendered cumulatively, so emitting the same state
// twice draws the same thing.
package turn

import (
	"strings"

	"github.com/sanjog-lama/adk-graph-ui/internal/analytics"
	"github.com/sanjog-lama/adk-graph-ui/internal/api"
)

type State int

const (
	StateIdle State = iota
	StateStreaming
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStreaming:
		return "streaming"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

type OutputKind int

const (
	// OutputRender carries the cumulative text of the open run; the caller
	// replaces the live region with it.
	OutputRender OutputKind = iota
	// OutputClose carries the finalized text of a run the assembler just
	// closed; the caller prints it into the transcript.
	OutputClose
)

type Output struct {
	Kind OutputKind
	Text string
}

// Result is the single assistant message derived from a completed turn.
type Result struct {
	Content     string
	Analytics   *analytics.Payload
	IsAnalytics bool
	Events      []api.Event
}

// PlaceholderContent stands in for message text when a turn resolves to an
// analytics rendering instead of prose.
const PlaceholderContent = "Analytics response"

type Assembler struct {
	state   State
	events  []api.Event
	buf     strings.Builder
	open    bool
	runs    []string
	allText strings.Builder
	result  Result
	err     error
}

func NewAssembler() *Assembler {
	return &Assembler{state: StateIdle}
}

func (a *Assembler) State() State { return a.state }

// Err returns the failure recorded by Fail, if any.
func (a *Assembler) Err() error { return a.err }

// Events returns every event consumed so far, in arrival order.
func (a *Assembler) Events() []api.Event { return a.events }

// OnEvent consumes one stream event and returns the outputs it implies.
// Text parts extend the open run; tool parts close it. A function call only
// closes a run that has accumulated text, while a function response closes
// unconditionally: the response marks tool activity even when its call was
// never observed.
func (a *Assembler) OnEvent(ev api.Event) []Output {
	if a.state == StateCompleted || a.state == StateFailed {
		return nil
	}
	a.state = StateStreaming
	a.events = append(a.events, ev)

	if ev.Content == nil {
		return nil
	}

	var outs []Output
	for _, part := range ev.Content.Parts {
		switch {
		case part.Text != "":
			if !a.open {
				a.open = true
				a.buf.Reset()
			}
			a.buf.WriteString(part.Text)
			a.allText.WriteString(part.Text)
			outs = append(outs, Output{Kind: OutputRender, Text: a.buf.String()})
		case part.FunctionCall != nil:
			if a.buf.Len() > 0 {
				outs = append(outs, a.closeRun())
			}
		case part.FunctionResponse != nil:
			outs = append(outs, a.closeRun())
		}
	}
	return outs
}

func (a *Assembler) closeRun() Output {
	text := a.buf.String()
	a.runs = append(a.runs, text)
	a.buf.Reset()
	a.open = false
	return Output{Kind: OutputClose, Text: text}
}

// Complete finalizes the turn and derives its assistant message. Structured
// analytics on the event history win; failing that, a run buffer that looks
// like a JSON object is mined as text. The first call decides, later calls
// return the same result.
func (a *Assembler) Complete() Result {
	if a.state == StateCompleted {
		return a.result
	}
	a.state = StateCompleted

	payload := analytics.FromEvents(a.events)
	if payload == nil && strings.HasPrefix(strings.TrimSpace(a.buf.String()), "{") {
		payload = analytics.FromText(a.allText.String())
	}

	if payload != nil {
		a.result = Result{
			Content:     PlaceholderContent,
			Analytics:   payload,
			IsAnalytics: true,
			Events:      a.events,
		}
		return a.result
	}

	content := a.buf.String()
	if content == "" && len(a.runs) > 0 {
		content = a.runs[len(a.runs)-1]
	}
	a.result = Result{Content: content, Events: a.events}
	return a.result
}

// Fail aborts the turn. A failed turn produces no assistant message.
func (a *Assembler) Fail(err error) {
	if a.state == StateCompleted || a.state == StateFailed {
		return
	}
	a.state = StateFailed
	a.err = err
}
