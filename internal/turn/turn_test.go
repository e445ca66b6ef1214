package turn

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/sanjog-lama/adk-graph-ui/internal/api"
)

// ─── Event constructors ─────────────────────────────────────────────────────

func textEvent(text string) api.Event {
	return api.Event{
		Author: "agent",
		Content: &api.Content{
			Role:  "model",
			Parts: []api.Part{{Text: text}},
		},
	}
}

func callEvent(name string) api.Event {
	return api.Event{
		Content: &api.Content{
			Parts: []api.Part{{FunctionCall: &api.FunctionCall{Name: name}}},
		},
	}
}

func responseEvent(name string) api.Event {
	return api.Event{
		Content: &api.Content{
			Parts: []api.Part{{FunctionResponse: &api.FunctionResponse{Name: name}}},
		},
	}
}

func analyticsEvent(t *testing.T, payload string) api.Event {
	t.Helper()
	raw := `{"author":"agent","actions":{"stateDelta":{"analytics_output":` + payload + `}}}`
	var ev api.Event
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	ev.Raw = json.RawMessage(raw)
	return ev
}

// ─── OnEvent ────────────────────────────────────────────────────────────────

func TestCumulativeRender(t *testing.T) {
	asm := NewAssembler()

	outs := asm.OnEvent(textEvent("Hello"))
	if len(outs) != 1 || outs[0].Kind != OutputRender || outs[0].Text != "Hello" {
		t.Fatalf("first chunk: got %+v", outs)
	}

	outs = asm.OnEvent(textEvent(" world"))
	if len(outs) != 1 || outs[0].Text != "Hello world" {
		t.Fatalf("second chunk should render cumulative text, got %+v", outs)
	}

	if asm.State() != StateStreaming {
		t.Errorf("state = %v, want streaming", asm.State())
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	a := NewAssembler()
	b := NewAssembler()

	a.OnEvent(textEvent("abc"))
	outsA := a.OnEvent(textEvent("def"))

	b.OnEvent(textEvent("abc"))
	outsB := b.OnEvent(textEvent("def"))

	if outsA[0].Text != outsB[0].Text {
		t.Errorf("same input produced different renders: %q vs %q", outsA[0].Text, outsB[0].Text)
	}
}

func TestFunctionCallClosesNonEmptyRun(t *testing.T) {
	asm := NewAssembler()
	asm.OnEvent(textEvent("first run"))

	outs := asm.OnEvent(callEvent("lookup"))
	if len(outs) != 1 || outs[0].Kind != OutputClose || outs[0].Text != "first run" {
		t.Fatalf("function call should close the run, got %+v", outs)
	}
}

func TestFunctionCallIgnoredOnEmptyRun(t *testing.T) {
	asm := NewAssembler()

	if outs := asm.OnEvent(callEvent("lookup")); len(outs) != 0 {
		t.Fatalf("function call with no accumulated text should emit nothing, got %+v", outs)
	}

	asm.OnEvent(textEvent("text"))
	asm.OnEvent(callEvent("a"))
	if outs := asm.OnEvent(callEvent("b")); len(outs) != 0 {
		t.Fatalf("second consecutive call should emit nothing, got %+v", outs)
	}
}

func TestFunctionResponseClosesUnconditionally(t *testing.T) {
	asm := NewAssembler()

	outs := asm.OnEvent(responseEvent("lookup"))
	if len(outs) != 1 || outs[0].Kind != OutputClose || outs[0].Text != "" {
		t.Fatalf("function response should close even an empty run, got %+v", outs)
	}
}

func TestNewRunAfterToolActivity(t *testing.T) {
	asm := NewAssembler()
	asm.OnEvent(textEvent("before tools"))
	asm.OnEvent(callEvent("query"))
	asm.OnEvent(responseEvent("query"))

	outs := asm.OnEvent(textEvent("after tools"))
	if len(outs) != 1 || outs[0].Text != "after tools" {
		t.Fatalf("new run should start from scratch, got %+v", outs)
	}
}

func TestMixedPartsInOneEvent(t *testing.T) {
	asm := NewAssembler()
	ev := api.Event{
		Content: &api.Content{Parts: []api.Part{
			{Text: "some text"},
			{FunctionCall: &api.FunctionCall{Name: "tool"}},
		}},
	}

	outs := asm.OnEvent(ev)
	if len(outs) != 2 {
		t.Fatalf("expected render + close, got %+v", outs)
	}
	if outs[0].Kind != OutputRender || outs[1].Kind != OutputClose {
		t.Errorf("output kinds = %v, %v", outs[0].Kind, outs[1].Kind)
	}
	if outs[1].Text != "some text" {
		t.Errorf("closed run text = %q", outs[1].Text)
	}
}

func TestContentlessEventIgnored(t *testing.T) {
	asm := NewAssembler()
	if outs := asm.OnEvent(api.Event{Author: "agent"}); len(outs) != 0 {
		t.Fatalf("contentless event should emit nothing, got %+v", outs)
	}
	if len(asm.Events()) != 1 {
		t.Errorf("contentless event should still be retained in history")
	}
}

// ─── Complete ───────────────────────────────────────────────────────────────

func TestCompleteProseTurn(t *testing.T) {
	asm := NewAssembler()
	asm.OnEvent(textEvent("The answer is 42."))

	result := asm.Complete()
	if result.IsAnalytics {
		t.Fatal("plain prose should not resolve as analytics")
	}
	if result.Content != "The answer is 42." {
		t.Errorf("Content = %q", result.Content)
	}
	if len(result.Events) != 1 {
		t.Errorf("Events = %d, want 1", len(result.Events))
	}
	if asm.State() != StateCompleted {
		t.Errorf("state = %v, want completed", asm.State())
	}
}

func TestCompleteStoresLastRun(t *testing.T) {
	asm := NewAssembler()
	asm.OnEvent(textEvent("intermediate thoughts"))
	asm.OnEvent(responseEvent("tool"))
	asm.OnEvent(textEvent("final answer"))

	result := asm.Complete()
	if result.Content != "final answer" {
		t.Errorf("Content = %q, want the last run", result.Content)
	}
}

func TestCompleteFallsBackToClosedRun(t *testing.T) {
	asm := NewAssembler()
	asm.OnEvent(textEvent("only run"))
	asm.OnEvent(callEvent("tool"))

	result := asm.Complete()
	if result.Content != "only run" {
		t.Errorf("Content = %q, want the closed run when nothing is open", result.Content)
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	asm := NewAssembler()
	asm.OnEvent(textEvent("hello"))

	first := asm.Complete()
	asm.OnEvent(textEvent("late event"))
	second := asm.Complete()

	if first.Content != second.Content {
		t.Errorf("repeated Complete changed the result: %q vs %q", first.Content, second.Content)
	}
	if len(second.Events) != len(first.Events) {
		t.Errorf("events after completion should not grow")
	}
}

func TestCompleteStructuredAnalytics(t *testing.T) {
	asm := NewAssembler()
	asm.OnEvent(textEvent("Here is your analysis."))
	asm.OnEvent(analyticsEvent(t, `{"analysis_summary":"Sales rose","insights":["Q3 best"]}`))

	result := asm.Complete()
	if !result.IsAnalytics {
		t.Fatal("expected analytics result")
	}
	if result.Analytics.AnalysisSummary != "Sales rose" {
		t.Errorf("AnalysisSummary = %q", result.Analytics.AnalysisSummary)
	}
	if result.Content != PlaceholderContent {
		t.Errorf("Content = %q, want placeholder", result.Content)
	}
}

func TestStructuredBeatsTextAnalytics(t *testing.T) {
	asm := NewAssembler()
	asm.OnEvent(analyticsEvent(t, `{"analysis_summary":"from events"}`))
	asm.OnEvent(textEvent(`{"analysis_summary":"from text"}`))

	result := asm.Complete()
	if !result.IsAnalytics {
		t.Fatal("expected analytics result")
	}
	if result.Analytics.AnalysisSummary != "from events" {
		t.Errorf("structured payload should win, got %q", result.Analytics.AnalysisSummary)
	}
}

func TestCompleteTextFallbackAnalytics(t *testing.T) {
	asm := NewAssembler()
	asm.OnEvent(textEvent(`{"analysis_summary":"mined from text","recommendations":["act"]}`))

	result := asm.Complete()
	if !result.IsAnalytics {
		t.Fatal("JSON-shaped run buffer should be mined for analytics")
	}
	if result.Analytics.AnalysisSummary != "mined from text" {
		t.Errorf("AnalysisSummary = %q", result.Analytics.AnalysisSummary)
	}
}

func TestNoTextFallbackForProse(t *testing.T) {
	asm := NewAssembler()
	// Mentions JSON mid-prose but the buffer doesn't start with a brace.
	asm.OnEvent(textEvent(`See the data: {"analysis_summary":"embedded"}`))

	result := asm.Complete()
	if result.IsAnalytics {
		t.Fatal("prose buffer should not trigger the text fallback")
	}
	if !strings.Contains(result.Content, "embedded") {
		t.Errorf("Content = %q", result.Content)
	}
}

func TestCompleteEmptyTurn(t *testing.T) {
	asm := NewAssembler()
	result := asm.Complete()
	if result.IsAnalytics || result.Content != "" || len(result.Events) != 0 {
		t.Errorf("empty turn result = %+v", result)
	}
}

// ─── Fail ───────────────────────────────────────────────────────────────────

func TestFail(t *testing.T) {
	asm := NewAssembler()
	asm.OnEvent(textEvent("partial"))

	failure := errors.New("connection reset")
	asm.Fail(failure)

	if asm.State() != StateFailed {
		t.Errorf("state = %v, want failed", asm.State())
	}
	if asm.Err() != failure {
		t.Errorf("Err() = %v", asm.Err())
	}
	if outs := asm.OnEvent(textEvent("late")); len(outs) != 0 {
		t.Errorf("failed assembler should ignore events, got %+v", outs)
	}
}

func TestFailAfterCompleteIgnored(t *testing.T) {
	asm := NewAssembler()
	asm.OnEvent(textEvent("done"))
	asm.Complete()
	asm.Fail(errors.New("late failure"))

	if asm.State() != StateCompleted {
		t.Errorf("state = %v, completion should win", asm.State())
	}
}
