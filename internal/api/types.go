package api

import "encoding/json"

// ─── Event model (ADK wire shape) ───────────────────────────────────────────

// Event is one unit of an agent turn: either a content envelope carrying
// ordered parts, or a bookkeeping record (state delta, transfers) with no
// content. Raw keeps the undecoded record so downstream consumers can probe
// fields the typed struct does not model.
type Event struct {
	ID      string          `json:"id,omitempty"`
	Author  string          `json:"author,omitempty"`
	Content *Content        `json:"content,omitempty"`
	Actions *EventActions   `json:"actions,omitempty"`
	Raw     json.RawMessage `json:"-"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts,omitempty"`
}

// Part is a tagged variant: exactly one of the fields is expected to be set.
type Part struct {
	Text             string            `json:"text,omitempty"`
	FunctionCall     *FunctionCall     `json:"functionCall,omitempty"`
	FunctionResponse *FunctionResponse `json:"functionResponse,omitempty"`
}

type FunctionCall struct {
	Name string          `json:"name,omitempty"`
	Args json.RawMessage `json:"args,omitempty"`
}

type FunctionResponse struct {
	Name     string          `json:"name,omitempty"`
	Response json.RawMessage `json:"response,omitempty"`
}

type EventActions struct {
	StateDelta map[string]json.RawMessage `json:"stateDelta,omitempty"`
}

// IsText reports whether the part carries visible text.
func (p Part) IsText() bool { return p.Text != "" }

// JoinText concatenates every text part of every event in order.
// This is the legacy (non-streaming) extraction of an assistant reply.
func JoinText(events []Event) string {
	var out string
	for _, ev := range events {
		if ev.Content == nil {
			continue
		}
		for _, p := range ev.Content.Parts {
			out += p.Text
		}
	}
	return out
}

// ─── Session model ──────────────────────────────────────────────────────────

type Session struct {
	ID             string  `json:"id"`
	AppName        string  `json:"appName,omitempty"`
	UserID         string  `json:"userId,omitempty"`
	Events         []Event `json:"events,omitempty"`
	LastUpdateTime float64 `json:"lastUpdateTime,omitempty"`
}

// ─── Run request/response ───────────────────────────────────────────────────

type RunRequest struct {
	AppName    string      `json:"appName"`
	UserID     string      `json:"userId"`
	SessionID  string      `json:"sessionId"`
	NewMessage *NewMessage `json:"newMessage"`
	Streaming  bool        `json:"streaming,omitempty"`
}

type NewMessage struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// controlRecord is the stream's out-of-band envelope. A record with a
// non-empty Type is a control marker, not an Event.
type controlRecord struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
