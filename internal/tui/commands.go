package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sanjog-lama/adk-graph-ui/internal/api"
	"github.com/sanjog-lama/adk-graph-ui/internal/session"
	"github.com/sanjog-lama/adk-graph-ui/internal/turn"
)

// ─── Input dispatcher ───────────────────────────────────────────────────────

func (m model) dispatchInput(input string) (tea.Model, tea.Cmd) {
	if input == "?" {
		return m.cmdHelp()
	}
	if strings.HasPrefix(input, "/") {
		return m.dispatchCommand(input)
	}
	// Default: treat as a chat prompt
	return m.cmdAsk(input)
}

func (m model) dispatchCommand(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "/help", "/h":
		return m.cmdHelp()
	case "/agents":
		return m.cmdAgents()
	case "/agent":
		return m.cmdSetAgent(args)
	case "/sessions":
		return m.cmdSessions()
	case "/new":
		return m.cmdNew()
	case "/delete":
		return m.cmdDelete(args)
	case "/history":
		return m.cmdHistory()
	case "/session":
		return m.cmdSetSession(args)
	case "/config":
		return m.cmdConfig()
	case "/set":
		return m.cmdSet(args)
	case "/clear":
		return m.cmdClear()
	case "/quit", "/exit", "/q":
		return m, tea.Quit
	default:
		return m, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ Unknown command: %s — type /help", cmd)))
	}
}

// ─── Chat ───────────────────────────────────────────────────────────────────

func (m model) cmdAsk(prompt string) (tea.Model, tea.Cmd) {
	if m.client == nil {
		return m, tea.Println(errorMsgStyle.Render("  ✗ No server configured. Use /set server <url>"))
	}
	if m.cfg.Agent == "" {
		return m, tea.Println(errorMsgStyle.Render("  ✗ No agent selected. Use /agents then /agent <name>"))
	}

	m.mode = modeStreaming
	m.prompt = prompt
	m.asm = turn.NewAssembler()

	return m, tea.Sequence(
		tea.Println(userPromptStyle.Render("❯ ")+prompt),
		ensureSession(m.client, m.cfg.Agent, m.cfg.UserID, m.sessionID),
	)
}

// ─── /agents ────────────────────────────────────────────────────────────────

type agentsLoadedMsg struct {
	agents []string
	err    error
}

func (m model) cmdAgents() (tea.Model, tea.Cmd) {
	if m.client == nil {
		return m, tea.Println(errorMsgStyle.Render("  ✗ No server configured. Use /set server <url>"))
	}
	client := m.client
	return m, tea.Sequence(
		tea.Println(statusStyle.Render("  ⟳ Fetching agents...")),
		func() tea.Msg {
			agents, err := client.ListAgents()
			return agentsLoadedMsg{agents: agents, err: err}
		},
	)
}

func (m model) handleAgentsLoaded(msg agentsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ %v", msg.err)))
	}
	if len(msg.agents) == 0 {
		return m, tea.Println(dimStyle.Render("  No agents available."))
	}
	agents := append([]string(nil), msg.agents...)
	sort.Strings(agents)

	cmds := []tea.Cmd{tea.Println("")}
	for _, a := range agents {
		marker := "  "
		if a == m.cfg.Agent {
			marker = successMsgStyle.Render("▸ ")
		}
		cmds = append(cmds, tea.Println("  "+marker+a))
	}
	cmds = append(cmds,
		tea.Println(""),
		tea.Println(dimStyle.Render("  /agent <name> to select")),
	)
	return m, tea.Sequence(cmds...)
}

func (m model) cmdSetAgent(args []string) (tea.Model, tea.Cmd) {
	if len(args) == 0 {
		return m, tea.Println(errorMsgStyle.Render("  ✗ Usage: /agent <name>"))
	}
	m.cfg.Agent = args[0]
	// Switching agents invalidates the active session
	m.sessionID = ""
	m.cfg.LastSession = ""
	if err := m.cfg.Save(); err != nil {
		return m, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ %v", err)))
	}
	return m, tea.Println(successMsgStyle.Render("  ✓ Agent: " + m.cfg.Agent))
}

// ─── /sessions ──────────────────────────────────────────────────────────────

type sessionsLoadedMsg struct {
	sessions []api.Session
	err      error
}

func (m model) cmdSessions() (tea.Model, tea.Cmd) {
	if m.client == nil || m.cfg.Agent == "" {
		return m, tea.Println(errorMsgStyle.Render("  ✗ Select an agent first (/agents)"))
	}
	client, agent, user := m.client, m.cfg.Agent, m.cfg.UserID
	return m, tea.Sequence(
		tea.Println(statusStyle.Render("  ⟳ Fetching sessions...")),
		func() tea.Msg {
			sessions, err := client.ListSessions(agent, user)
			return sessionsLoadedMsg{sessions: sessions, err: err}
		},
	)
}

func (m model) handleSessionsLoaded(msg sessionsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ %v", msg.err)))
	}
	if len(msg.sessions) == 0 {
		return m, tea.Println(dimStyle.Render("  No sessions yet. Just ask a question to start one."))
	}
	cmds := []tea.Cmd{tea.Println("")}
	for _, s := range msg.sessions {
		marker := "  "
		if s.ID == m.sessionID {
			marker = successMsgStyle.Render("▸ ")
		}
		line := "  " + marker + s.ID
		if n := len(s.Events); n > 0 {
			line += dimStyle.Render(fmt.Sprintf("  (%d events)", n))
		}
		cmds = append(cmds, tea.Println(line))
	}
	cmds = append(cmds,
		tea.Println(""),
		tea.Println(dimStyle.Render("  /session <id> to resume, /delete <id> to remove")),
	)
	return m, tea.Sequence(cmds...)
}

// ─── /new, /delete, /session ────────────────────────────────────────────────

func (m model) cmdNew() (tea.Model, tea.Cmd) {
	m.sessionID = ""
	m.cfg.LastSession = ""
	_ = m.cfg.Save()
	return m, tea.Println(successMsgStyle.Render("  ✓ Next question starts a fresh session."))
}

type sessionDeletedMsg struct {
	id  string
	err error
}

func (m model) cmdDelete(args []string) (tea.Model, tea.Cmd) {
	if m.client == nil || m.cfg.Agent == "" {
		return m, tea.Println(errorMsgStyle.Render("  ✗ Select an agent first (/agents)"))
	}
	id := m.sessionID
	if len(args) > 0 {
		id = args[0]
	}
	if id == "" {
		return m, tea.Println(errorMsgStyle.Render("  ✗ Usage: /delete <session-id>"))
	}
	client, agent, user := m.client, m.cfg.Agent, m.cfg.UserID
	return m, func() tea.Msg {
		err := client.DeleteSession(agent, user, id)
		return sessionDeletedMsg{id: id, err: err}
	}
}

func (m model) handleSessionDeleted(msg sessionDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ %v", msg.err)))
	}
	m.store.Delete(m.cfg.Agent, m.cfg.UserID, msg.id)
	if msg.id == m.sessionID {
		m.sessionID = ""
		m.cfg.LastSession = ""
		_ = m.cfg.Save()
	}
	return m, tea.Println(successMsgStyle.Render("  ✓ Deleted session " + truncateID(msg.id)))
}

func (m model) cmdSetSession(args []string) (tea.Model, tea.Cmd) {
	if len(args) == 0 {
		if m.sessionID == "" {
			return m, tea.Println(dimStyle.Render("  No active session."))
		}
		return m, tea.Println(dimStyle.Render("  Active session: " + m.sessionID))
	}
	m.sessionID = args[0]
	m.cfg.LastSession = m.sessionID
	_ = m.cfg.Save()
	return m, tea.Println(successMsgStyle.Render("  ✓ Active session: " + truncateID(m.sessionID)))
}

// ─── /history ───────────────────────────────────────────────────────────────

type historyLoadedMsg struct {
	sess *api.Session
	err  error
}

func (m model) cmdHistory() (tea.Model, tea.Cmd) {
	if m.sessionID == "" {
		return m, tea.Println(dimStyle.Render("  No active session."))
	}

	// Local transcript first; fall back to the backend's event log when this
	// process hasn't seen the session yet.
	if sess := m.store.Get(m.cfg.Agent, m.cfg.UserID, m.sessionID); sess != nil && len(sess.Messages) > 0 {
		cmds := []tea.Cmd{tea.Println("")}
		for _, msg := range sess.Messages {
			cmds = append(cmds, m.printTranscriptMessage(msg)...)
		}
		return m, tea.Sequence(cmds...)
	}

	if m.client == nil {
		return m, tea.Println(dimStyle.Render("  No transcript available."))
	}
	client, agent, user, id := m.client, m.cfg.Agent, m.cfg.UserID, m.sessionID
	return m, tea.Sequence(
		tea.Println(statusStyle.Render("  ⟳ Fetching history...")),
		func() tea.Msg {
			sess, err := client.GetSession(agent, user, id)
			return historyLoadedMsg{sess: sess, err: err}
		},
	)
}

func (m model) printTranscriptMessage(msg session.Message) []tea.Cmd {
	if msg.Role == session.RoleUser {
		return []tea.Cmd{tea.Println(userPromptStyle.Render("❯ ") + msg.Content)}
	}
	if msg.IsAnalytics {
		return []tea.Cmd{tea.Println(dimStyle.Render("  [" + msg.Content + "]"))}
	}
	return []tea.Cmd{tea.Println(renderMarkdown(msg.Content, m.contentWidth()))}
}

func (m model) handleHistoryLoaded(msg historyLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ %v", msg.err)))
	}
	if msg.sess == nil || len(msg.sess.Events) == 0 {
		return m, tea.Println(dimStyle.Render("  Session is empty."))
	}
	cmds := []tea.Cmd{tea.Println("")}
	for _, ev := range msg.sess.Events {
		if ev.Content == nil {
			continue
		}
		text := ""
		for _, p := range ev.Content.Parts {
			text += p.Text
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		if ev.Content.Role == "user" {
			cmds = append(cmds, tea.Println(userPromptStyle.Render("❯ ")+text))
		} else {
			cmds = append(cmds, tea.Println(renderMarkdown(text, m.contentWidth())))
		}
	}
	return m, tea.Sequence(cmds...)
}

// ─── /config, /set, /clear, /help ───────────────────────────────────────────

func (m model) cmdConfig() (tea.Model, tea.Cmd) {
	orDash := func(s string) string {
		if s == "" {
			return dimStyle.Render("(not set)")
		}
		return s
	}
	return m, tea.Sequence(
		tea.Println(""),
		tea.Println(dimStyle.Render("  Profile:  ")+profileName(m.profile)),
		tea.Println(dimStyle.Render("  Server:   ")+orDash(serverStr(m.cfg))),
		tea.Println(dimStyle.Render("  Agent:    ")+orDash(agentStr(m.cfg))),
		tea.Println(dimStyle.Render("  User:     ")+orDash(m.cfg.UserID)),
		tea.Println(dimStyle.Render("  Session:  ")+orDash(m.sessionID)),
		tea.Println(""),
	)
}

func (m model) cmdSet(args []string) (tea.Model, tea.Cmd) {
	if len(args) < 2 {
		return m, tea.Println(errorMsgStyle.Render("  ✗ Usage: /set <server|agent|user> <value>"))
	}
	key, value := strings.ToLower(args[0]), args[1]
	switch key {
	case "server":
		m.cfg.Server = value
		m.client = api.NewClient(m.cfg)
	case "agent":
		return m.cmdSetAgent(args[1:])
	case "user":
		m.cfg.UserID = value
		m.sessionID = ""
		m.cfg.LastSession = ""
	default:
		return m, tea.Println(errorMsgStyle.Render("  ✗ Unknown key: " + key))
	}
	if err := m.cfg.Save(); err != nil {
		return m, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ %v", err)))
	}
	return m, tea.Println(successMsgStyle.Render(fmt.Sprintf("  ✓ %s = %s", key, value)))
}

func (m model) cmdClear() (tea.Model, tea.Cmd) {
	return m, tea.ClearScreen
}

func (m model) cmdHelp() (tea.Model, tea.Cmd) {
	pad := func(s string, w int) string {
		for len(s) < w {
			s += " "
		}
		return s
	}

	lines := []tea.Cmd{
		tea.Println(""),
		tea.Println(dimStyle.Render("  Shortcuts:")),
		tea.Println(""),
		tea.Println("  " + pad(hintKeyStyle.Render("/agents"), 30) + dimStyle.Render("List available agents")),
		tea.Println("  " + pad(hintKeyStyle.Render("/agent <name>"), 30) + dimStyle.Render("Set the active agent")),
		tea.Println("  " + pad(hintKeyStyle.Render("/sessions"), 30) + dimStyle.Render("List sessions for the active agent")),
		tea.Println("  " + pad(hintKeyStyle.Render("/session <id>"), 30) + dimStyle.Render("Resume a session")),
		tea.Println("  " + pad(hintKeyStyle.Render("/new"), 30) + dimStyle.Render("Start a fresh session")),
		tea.Println("  " + pad(hintKeyStyle.Render("/delete <id>"), 30) + dimStyle.Render("Delete a session")),
		tea.Println("  " + pad(hintKeyStyle.Render("/history"), 30) + dimStyle.Render("Show this session's transcript")),
		tea.Println("  " + pad(hintKeyStyle.Render("/set <key> <value>"), 30) + dimStyle.Render("Set server, agent or user")),
		tea.Println("  " + pad(hintKeyStyle.Render("/config"), 30) + dimStyle.Render("Show current configuration")),
		tea.Println("  " + pad(hintKeyStyle.Render("/clear"), 30) + dimStyle.Render("Clear the screen")),
		tea.Println("  " + pad(hintKeyStyle.Render("/quit"), 30) + dimStyle.Render("Exit")),
		tea.Println(""),
		tea.Println(dimStyle.Render("  Or just type a question for the agent.")),
		tea.Println(""),
	}
	return m, tea.Sequence(lines...)
}

func profileName(p string) string {
	if p == "" {
		return "default"
	}
	return p
}
