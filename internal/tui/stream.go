package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sanjog-lama/adk-graph-ui/internal/api"
	"github.com/sanjog-lama/adk-graph-ui/internal/session"
)

// ─── Messages sent from the turn goroutine to Bubble Tea ────────────────────

type sessionReadyMsg struct {
	sessionID string
	created   bool
}

type turnEventMsg struct {
	ev api.Event
}

type turnDoneMsg struct{}

type turnErrMsg struct {
	err error
	msg string // server-reported error text, when the stream itself failed
}

// ─── Turn command ───────────────────────────────────────────────────────────
//
// The turn runs in a goroutine and feeds events through a channel; the
// model's Update drains it one message at a time via waitForTurn and feeds
// the assembler. Abandoning a turn just drops the channel — the goroutine
// finishes into a buffer nobody reads, which is fine for a bounded turn.

var activeTurnCh chan tea.Msg

// ensureSession creates the backend session if the model has none yet.
func ensureSession(client *api.Client, agent, user, sessionID string) tea.Cmd {
	return func() tea.Msg {
		if sessionID != "" {
			return sessionReadyMsg{sessionID: sessionID}
		}
		id := session.NewSessionID()
		if _, err := client.CreateSession(agent, user, id); err != nil {
			return turnErrMsg{err: err}
		}
		return sessionReadyMsg{sessionID: id, created: true}
	}
}

func beginTurn(client *api.Client, agent, user, sessionID, prompt string) tea.Cmd {
	ch := make(chan tea.Msg, 64)
	activeTurnCh = ch

	go func() {
		defer close(ch)

		err := client.RunSSE(agent, user, sessionID, prompt, api.StreamCallbacks{
			OnEvent: func(ev api.Event) {
				ch <- turnEventMsg{ev: ev}
			},
			OnComplete: func() {
				ch <- turnDoneMsg{}
			},
			OnError: func(msg string) {
				ch <- turnErrMsg{msg: msg}
			},
		})
		if err != nil {
			ch <- turnErrMsg{err: err}
		}
	}()

	return waitForTurn(ch)
}

// waitForTurn reads the next message from the channel.
func waitForTurn(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return turnDoneMsg{}
		}
		return msg
	}
}
