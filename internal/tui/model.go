package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sanjog-lama/adk-graph-ui/internal/api"
	"github.com/sanjog-lama/adk-graph-ui/internal/charts"
	"github.com/sanjog-lama/adk-graph-ui/internal/config"
	"github.com/sanjog-lama/adk-graph-ui/internal/session"
	"github.com/sanjog-lama/adk-graph-ui/internal/turn"
)

// ─── App mode ───────────────────────────────────────────────────────────────

type appMode int

const (
	modeIdle appMode = iota
	modeStreaming
)

// ─── Slash command registry ─────────────────────────────────────────────────

type slashCmd struct {
	name string
	desc string
}

var slashCommands = []slashCmd{
	{"/agent", "Set the active agent"},
	{"/agents", "List available agents"},
	{"/clear", "Clear the screen"},
	{"/config", "Show current configuration"},
	{"/delete", "Delete a session"},
	{"/help", "Show all commands"},
	{"/history", "Show this session's transcript"},
	{"/new", "Start a fresh session"},
	{"/quit", "Exit"},
	{"/session", "Set the active session"},
	{"/sessions", "List sessions for the active agent"},
	{"/set", "Set server, agent or user"},
}

// ─── Model ──────────────────────────────────────────────────────────────────

type model struct {
	width  int
	height int

	// Bubble Tea components
	input   textinput.Model
	spinner spinner.Model

	// App state
	mode      appMode
	cfg       *config.Config
	client    *api.Client
	store     *session.Store
	sessionID string
	version   string
	profile   string

	// Turn state. asm owns the in-flight turn; live is the open run's
	// cumulative text, redrawn in View() each frame and never printed to
	// the transcript until the run closes.
	asm    *turn.Assembler
	live   string
	prompt string

	// UI state
	ready        bool
	cmdMenuIdx   int
	cmdMenuOpen  bool
	lastInputVal string

	// Command history
	history      []string
	historyIdx   int
	historySaved string
}

func initialModel(version, profile string) model {
	ti := textinput.New()
	ti.Placeholder = "Ask the agent or type /help..."
	ti.Focus()
	ti.CharLimit = 4096
	ti.Prompt = "❯ "
	ti.PromptStyle = promptSymbol
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(colorAccent)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorAccent)

	cfg, _ := config.Load(profile)

	var client *api.Client
	if cfg != nil && cfg.Server != "" {
		client = api.NewClient(cfg)
	}

	return model{
		input:      ti,
		spinner:    sp,
		version:    version,
		profile:    profile,
		cfg:        cfg,
		client:     client,
		store:      session.NewStore(),
		sessionID:  cfgLastSession(cfg),
		mode:       modeIdle,
		history:    make([]string, 0),
		historyIdx: -1,
	}
}

// ─── Init ───────────────────────────────────────────────────────────────────

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
	)
}

// ─── Update ─────────────────────────────────────────────────────────────────

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = m.width - 6

		if !m.ready {
			m.ready = true
			welcome := renderWelcome(m.version, serverStr(m.cfg), agentStr(m.cfg), m.width)
			cmds = append(cmds, tea.Println(welcome))
		}

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			if m.mode == modeStreaming {
				return m.abandonTurn()
			}
			return m, tea.Quit

		case tea.KeyEsc:
			if m.mode == modeStreaming {
				return m.abandonTurn()
			}
			if m.cmdMenuOpen {
				m.cmdMenuOpen = false
				m.cmdMenuIdx = 0
				return m, nil
			}

		case tea.KeyUp:
			if m.mode == modeIdle {
				if m.cmdMenuOpen {
					matches := matchCommands(m.input.Value())
					if len(matches) > 0 {
						m.cmdMenuIdx--
						if m.cmdMenuIdx < 0 {
							m.cmdMenuIdx = len(matches) - 1
						}
						return m, nil
					}
				} else if len(m.history) > 0 {
					if m.historyIdx == -1 {
						m.historySaved = m.input.Value()
						m.historyIdx = len(m.history) - 1
					} else {
						m.historyIdx--
						if m.historyIdx < 0 {
							m.historyIdx = 0
						}
					}
					m.input.SetValue(m.history[m.historyIdx])
					m.input.CursorEnd()
					return m, nil
				}
			}

		case tea.KeyDown:
			if m.mode == modeIdle {
				if m.cmdMenuOpen {
					matches := matchCommands(m.input.Value())
					if len(matches) > 0 {
						m.cmdMenuIdx++
						if m.cmdMenuIdx >= len(matches) {
							m.cmdMenuIdx = 0
						}
						return m, nil
					}
				} else if m.historyIdx != -1 {
					m.historyIdx++
					if m.historyIdx >= len(m.history) {
						m.historyIdx = -1
						m.input.SetValue(m.historySaved)
						m.historySaved = ""
					} else {
						m.input.SetValue(m.history[m.historyIdx])
					}
					m.input.CursorEnd()
					return m, nil
				}
			}

		case tea.KeyTab:
			if m.mode == modeIdle && m.cmdMenuOpen {
				matches := matchCommands(m.input.Value())
				if len(matches) > 0 {
					idx := m.cmdMenuIdx
					if idx < 0 || idx >= len(matches) {
						idx = 0
					}
					m.input.SetValue(matches[idx].name + " ")
					m.input.CursorEnd()
					m.cmdMenuOpen = false
					m.cmdMenuIdx = 0
				}
				return m, nil
			}

		case tea.KeyEnter:
			if m.mode == modeIdle && m.cmdMenuOpen && m.cmdMenuIdx >= 0 {
				matches := matchCommands(m.input.Value())
				if m.cmdMenuIdx < len(matches) {
					m.input.SetValue(matches[m.cmdMenuIdx].name + " ")
					m.input.CursorEnd()
					m.cmdMenuOpen = false
					m.cmdMenuIdx = 0
					return m, nil
				}
			}

			value := strings.TrimSpace(m.input.Value())
			if value == "" {
				return m, nil
			}

			if len(m.history) == 0 || m.history[len(m.history)-1] != value {
				m.history = append(m.history, value)
				if len(m.history) > 1000 {
					m.history = m.history[len(m.history)-1000:]
				}
			}
			m.historyIdx = -1
			m.historySaved = ""

			m.input.SetValue("")
			m.cmdMenuOpen = false
			m.cmdMenuIdx = 0

			return m.dispatchInput(value)
		}

	// ── Turn messages ─────────────────────────────────────────────────
	case sessionReadyMsg:
		m.sessionID = msg.sessionID
		m.cfg.LastSession = m.sessionID
		_ = m.cfg.Save()
		if msg.created {
			cmds = append(cmds, tea.Println(successMsgStyle.Render(fmt.Sprintf("  ✓ Session: %s", truncateID(m.sessionID)))))
		}
		m.recordUserMessage()
		cmds = append(cmds, beginTurn(m.client, m.cfg.Agent, m.cfg.UserID, m.sessionID, m.prompt))
		return m, tea.Batch(cmds...)

	case turnEventMsg:
		if m.asm != nil {
			for _, out := range m.asm.OnEvent(msg.ev) {
				switch out.Kind {
				case turn.OutputRender:
					m.live = out.Text
				case turn.OutputClose:
					m.live = ""
					if strings.TrimSpace(out.Text) != "" {
						cmds = append(cmds, tea.Println(renderMarkdown(out.Text, m.contentWidth())))
					}
				}
			}
		}
		if activeTurnCh != nil {
			cmds = append(cmds, waitForTurn(activeTurnCh))
		}
		return m, tea.Batch(cmds...)

	case turnDoneMsg:
		return m.finishTurn()

	case turnErrMsg:
		m.mode = modeIdle
		activeTurnCh = nil
		if m.asm != nil {
			m.asm.Fail(msg.err)
		}
		text := msg.msg
		if text == "" && msg.err != nil {
			text = msg.err.Error()
		}
		cmds = append(cmds, tea.Println(errorMsgStyle.Render(fmt.Sprintf("  ✗ %s", text))))
		m.resetTurnState()
		return m, tea.Batch(cmds...)

	// ── Async results ─────────────────────────────────────────────────
	case agentsLoadedMsg:
		return m.handleAgentsLoaded(msg)

	case sessionsLoadedMsg:
		return m.handleSessionsLoaded(msg)

	case sessionDeletedMsg:
		return m.handleSessionDeleted(msg)

	case historyLoadedMsg:
		return m.handleHistoryLoaded(msg)
	}

	// Update sub-components
	var cmd tea.Cmd

	if m.mode != modeStreaming {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.spinner, cmd = m.spinner.Update(msg)
	cmds = append(cmds, cmd)

	// Track input changes to open/close command menu and reset selection
	newVal := m.input.Value()
	if newVal != m.lastInputVal {
		m.lastInputVal = newVal
		if m.historyIdx != -1 {
			if m.historyIdx < len(m.history) && m.history[m.historyIdx] != newVal {
				m.historyIdx = -1
				m.historySaved = ""
			}
		}
		if strings.HasPrefix(newVal, "/") {
			m.cmdMenuOpen = true
			m.cmdMenuIdx = 0
		} else {
			m.cmdMenuOpen = false
			m.cmdMenuIdx = 0
		}
	}

	return m, tea.Batch(cmds...)
}

// ─── Turn lifecycle ─────────────────────────────────────────────────────────

func (m model) abandonTurn() (tea.Model, tea.Cmd) {
	m.mode = modeIdle
	activeTurnCh = nil
	if m.asm != nil {
		m.asm.Fail(fmt.Errorf("abandoned"))
	}
	m.resetTurnState()
	return m, tea.Println(warnMsgStyle.Render("  ! Turn abandoned."))
}

// finishTurn resolves the completed turn into exactly one assistant message.
// An analytics turn discards the live region and prints chart blocks
// instead; a prose turn prints whatever text is still open.
func (m model) finishTurn() (tea.Model, tea.Cmd) {
	m.mode = modeIdle
	activeTurnCh = nil

	if m.asm == nil {
		return m, nil
	}
	result := m.asm.Complete()

	var prints []tea.Cmd
	if result.IsAnalytics {
		m.live = ""
		for _, b := range charts.Render(result.Analytics, m.contentWidth()) {
			prints = append(prints, tea.Println(renderBlock(b)))
		}
	} else if strings.TrimSpace(m.live) != "" {
		prints = append(prints, tea.Println(renderMarkdown(m.live, m.contentWidth())))
		m.live = ""
	}

	sess := m.store.Ensure(m.cfg.Agent, m.cfg.UserID, m.sessionID)
	sess.Append(session.Message{
		Role:         session.RoleAssistant,
		Content:      result.Content,
		FullResponse: result.Events,
		IsAnalytics:  result.IsAnalytics,
	})

	prints = append(prints, tea.Println(""))
	m.resetTurnState()
	return m, tea.Sequence(prints...)
}

func (m *model) recordUserMessage() {
	sess := m.store.Ensure(m.cfg.Agent, m.cfg.UserID, m.sessionID)
	sess.Append(session.Message{Role: session.RoleUser, Content: m.prompt})
}

func (m *model) resetTurnState() {
	m.asm = nil
	m.live = ""
	m.prompt = ""
}

func (m model) contentWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 76
	}
	if w > 100 {
		w = 100
	}
	return w
}

// ─── View ───────────────────────────────────────────────────────────────────
//
// Inline mode: View() shows the live region (open run) while streaming, else
// the input prompt + hints. Finalized output is printed above via
// tea.Println.

func (m model) View() string {
	if !m.ready {
		return ""
	}

	var s strings.Builder

	if m.mode == modeStreaming {
		if m.live != "" {
			s.WriteString(liveTail(m.live, m.contentWidth(), 8))
			s.WriteString("\n")
		}
		s.WriteString(m.spinner.View() + " " + statusStyle.Render("Thinking..."))
	} else {
		s.WriteString(m.input.View())
	}
	s.WriteString("\n")

	sepWidth := min(m.width, 80)
	if sepWidth < 20 {
		sepWidth = 20
	}
	s.WriteString(separatorStyle.Render(strings.Repeat("─", sepWidth)))
	s.WriteString("\n")

	s.WriteString(m.renderHints())

	return s.String()
}

// liveTail shows the last few lines of the open run, wrapped to width. The
// full run is re-rendered as markdown once it closes; the tail is just a
// progress window.
func liveTail(text string, width, maxLines int) string {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		for len(raw) > width {
			lines = append(lines, raw[:width])
			raw = raw[width:]
		}
		lines = append(lines, raw)
	}
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}

// ─── Hint bar ───────────────────────────────────────────────────────────────

func (m model) renderHints() string {
	if m.mode == modeStreaming {
		return hintBarStyle.Render("  Esc abandon")
	}

	if m.cmdMenuOpen {
		val := m.input.Value()
		matches := matchCommands(val)
		if len(matches) > 0 {
			return m.renderCommandMenu(matches)
		}
	}

	return hintBarStyle.Render("  ? for help")
}

// renderCommandMenu renders a vertical list of matching commands.
func (m model) renderCommandMenu(matches []slashCmd) string {
	maxLen := 0
	for _, c := range matches {
		if len(c.name) > maxLen {
			maxLen = len(c.name)
		}
	}

	var lines []string
	for i, c := range matches {
		padded := c.name
		for len(padded) < maxLen {
			padded += " "
		}

		var line string
		if i == m.cmdMenuIdx {
			line = "  " + cmdSelectedNameStyle.Render(padded) + "  " + cmdSelectedDescStyle.Render(c.desc)
		} else {
			line = "  " + cmdNameStyle.Render(padded) + "  " + cmdDescStyle.Render(c.desc)
		}
		lines = append(lines, line)
	}

	lines = append(lines, hintBarStyle.Render("  ↑↓ navigate  Tab/Enter select"))

	return strings.Join(lines, "\n")
}

// matchCommands returns all slash commands matching a prefix.
func matchCommands(prefix string) []slashCmd {
	prefix = strings.ToLower(prefix)
	if prefix == "/" {
		return slashCommands
	}
	var matches []slashCmd
	for _, c := range slashCommands {
		if strings.HasPrefix(c.name, prefix) {
			matches = append(matches, c)
		}
	}
	return matches
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func serverStr(cfg *config.Config) string {
	if cfg == nil {
		return ""
	}
	return cfg.Server
}

func agentStr(cfg *config.Config) string {
	if cfg == nil {
		return ""
	}
	return cfg.Agent
}

func cfgLastSession(cfg *config.Config) string {
	if cfg == nil {
		return ""
	}
	return cfg.LastSession
}

func truncateID(s string) string {
	if len(s) > 20 {
		return s[:8] + "..." + s[len(s)-4:]
	}
	return s
}
