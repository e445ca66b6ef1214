package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sanjog-lama/adk-graph-ui/internal/analytics"
	"github.com/sanjog-lama/adk-graph-ui/internal/api"
	"github.com/sanjog-lama/adk-graph-ui/internal/charts"
	"github.com/sanjog-lama/adk-graph-ui/internal/config"
	"github.com/sanjog-lama/adk-graph-ui/internal/display"
	"github.com/sanjog-lama/adk-graph-ui/internal/logging"
	"github.com/sanjog-lama/adk-graph-ui/internal/session"
	"github.com/sanjog-lama/adk-graph-ui/internal/tui"
	"github.com/sanjog-lama/adk-graph-ui/internal/turn"
)

const version = "0.1.0"

var activeProfile string

func main() {
	args := os.Args[1:]

	// Parse global flags first (--profile)
	args = parseGlobalFlags(args)

	logging.Setup(activeProfile)

	// No args → launch interactive mode (default)
	if len(args) == 0 {
		if err := tui.Run(version, activeProfile); err != nil {
			display.Error(err.Error())
			os.Exit(1)
		}
		return
	}

	// Explicit -i flag also launches interactive mode
	if args[0] == "-i" || args[0] == "--interactive" || args[0] == "interactive" {
		if err := tui.Run(version, activeProfile); err != nil {
			display.Error(err.Error())
			os.Exit(1)
		}
		return
	}

	var err error

	switch args[0] {
	case "agents":
		err = cmdAgents()
	case "sessions":
		err = cmdSessions()
	case "new":
		err = cmdNew()
	case "delete":
		err = cmdDelete(args[1:])
	case "history":
		err = cmdHistory(args[1:])
	case "ask":
		err = cmdAsk(args[1:])
	case "set":
		err = cmdSet(args[1:])
	case "config":
		err = cmdConfig()
	case "profiles":
		err = cmdProfiles()
	case "help", "--help", "-h":
		printUsage()
	case "version", "--version", "-v":
		fmt.Printf("adkchat %s\n", version)
	default:
		display.Error(fmt.Sprintf("Unknown command: %s", args[0]))
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		display.Error(err.Error())
		os.Exit(1)
	}
}

// ─── agents ─────────────────────────────────────────────────────────────────

func cmdAgents() error {
	cfg, err := config.Load(activeProfile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	client := api.NewClient(cfg)
	agents, err := client.ListAgents()
	if err != nil {
		return fmt.Errorf("listing agents: %w", err)
	}

	display.Header(fmt.Sprintf("Agents (%d)", len(agents)))

	if len(agents) == 0 {
		display.Warn("No agents available on this server.")
		return nil
	}

	for _, a := range agents {
		marker := " "
		if a == cfg.Agent {
			marker = display.Green + "●" + display.Reset
		}
		fmt.Printf("  %s %s\n", marker, a)
	}

	fmt.Printf("\n  %sTip:%s Run %sadkchat set agent <name>%s to select one.\n\n",
		display.Dim, display.Reset, display.Cyan, display.Reset)
	return nil
}

// ─── sessions ───────────────────────────────────────────────────────────────

func cmdSessions() error {
	cfg, err := config.Load(activeProfile)
	if err != nil {
		return err
	}
	if err := cfg.ValidateAgent(); err != nil {
		return err
	}

	client := api.NewClient(cfg)
	sessions, err := client.ListSessions(cfg.Agent, cfg.UserID)
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}

	display.Header(fmt.Sprintf("Sessions for %s (%d)", cfg.Agent, len(sessions)))

	if len(sessions) == 0 {
		display.Warn("No sessions found.")
		return nil
	}

	for _, s := range sessions {
		marker := " "
		if s.ID == cfg.LastSession {
			marker = display.Green + "●" + display.Reset
		}
		fmt.Printf("  %s %s%s%s\n", marker, display.Bold, s.ID, display.Reset)
		fmt.Printf("    %sUpdated:%s %s  %sEvents:%s %d\n",
			display.Dim, display.Reset, display.FormatUnix(s.LastUpdateTime),
			display.Dim, display.Reset, len(s.Events))
	}

	fmt.Printf("\n  %sTip:%s Run %sadkchat ask \"...\" -s <id>%s to continue one.\n\n",
		display.Dim, display.Reset, display.Cyan, display.Reset)
	return nil
}

// ─── new / delete ───────────────────────────────────────────────────────────

func cmdNew() error {
	cfg, err := config.Load(activeProfile)
	if err != nil {
		return err
	}
	if err := cfg.ValidateAgent(); err != nil {
		return err
	}

	client := api.NewClient(cfg)
	id := session.NewSessionID()
	if _, err := client.CreateSession(cfg.Agent, cfg.UserID, id); err != nil {
		return fmt.Errorf("creating session: %w", err)
	}

	cfg.LastSession = id
	if err := cfg.Save(); err != nil {
		return err
	}

	display.Success("Session created: " + id)
	return nil
}

func cmdDelete(args []string) error {
	cfg, err := config.Load(activeProfile)
	if err != nil {
		return err
	}
	if err := cfg.ValidateAgent(); err != nil {
		return err
	}

	id := cfg.LastSession
	if len(args) > 0 {
		id = args[0]
	}
	if id == "" {
		fmt.Println("Usage: adkchat delete <session-id>")
		return nil
	}

	client := api.NewClient(cfg)
	if err := client.DeleteSession(cfg.Agent, cfg.UserID, id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	if id == cfg.LastSession {
		cfg.LastSession = ""
		_ = cfg.Save()
	}
	display.Success("Deleted session " + id)
	return nil
}

// ─── history ────────────────────────────────────────────────────────────────

func cmdHistory(args []string) error {
	cfg, err := config.Load(activeProfile)
	if err != nil {
		return err
	}
	if err := cfg.ValidateAgent(); err != nil {
		return err
	}

	id := cfg.LastSession
	if len(args) > 0 {
		id = args[0]
	}
	if id == "" {
		fmt.Println("Usage: adkchat history [session-id]")
		return nil
	}

	client := api.NewClient(cfg)
	sess, err := client.GetSession(cfg.Agent, cfg.UserID, id)
	if err != nil {
		return fmt.Errorf("fetching session: %w", err)
	}

	display.Header("Session " + id)

	if len(sess.Events) == 0 {
		display.Warn("Session is empty.")
		return nil
	}

	for _, ev := range sess.Events {
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
			fmt.Printf("\n  %s❯%s %s\n", display.Cyan, display.Reset, text)
		} else {
			for _, line := range strings.Split(text, "\n") {
				fmt.Printf("    %s\n", line)
			}
		}
	}

	fmt.Println()
	return nil
}

// ─── ask ────────────────────────────────────────────────────────────────────

func cmdAsk(args []string) error {
	var sessionID string
	var noStream bool
	var positional []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-s", "--session":
			if i+1 < len(args) {
				i++
				sessionID = args[i]
			} else {
				return fmt.Errorf("--session requires a value")
			}
		case "--no-stream":
			noStream = true
		default:
			positional = append(positional, args[i])
		}
	}

	if len(positional) == 0 {
		fmt.Println(`Usage: adkchat ask "<question>" [-s <session-id>] [--no-stream]`)
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println(`  adkchat ask "Summarize last week's sales"`)
		fmt.Println(`  adkchat ask "Break that down by region" -s <session-id>`)
		return nil
	}
	prompt := strings.Join(positional, " ")

	cfg, err := config.Load(activeProfile)
	if err != nil {
		return err
	}
	if err := cfg.ValidateAgent(); err != nil {
		return err
	}

	client := api.NewClient(cfg)

	if sessionID == "" {
		sessionID = cfg.LastSession
	}
	if sessionID == "" {
		sessionID = session.NewSessionID()
		display.Spinner("Creating session...")
		if _, err := client.CreateSession(cfg.Agent, cfg.UserID, sessionID); err != nil {
			display.ClearLine()
			return fmt.Errorf("creating session: %w", err)
		}
		display.ClearLine()
		display.Success("Session: " + sessionID)
	}

	cfg.LastSession = sessionID
	_ = cfg.Save()

	fmt.Printf("\n  %s❯%s %s\n\n", display.Cyan, display.Reset, prompt)

	if noStream {
		return askOnce(client, cfg, sessionID, prompt)
	}
	return askStreaming(client, cfg, sessionID, prompt)
}

// askStreaming consumes the turn through the assembler, printing each run as
// it closes and the final result when the stream completes.
func askStreaming(client *api.Client, cfg *config.Config, sessionID, prompt string) error {
	asm := turn.NewAssembler()
	var streamErr string

	err := client.RunSSE(cfg.Agent, cfg.UserID, sessionID, prompt, api.StreamCallbacks{
		OnEvent: func(ev api.Event) {
			for _, out := range asm.OnEvent(ev) {
				if out.Kind == turn.OutputClose && strings.TrimSpace(out.Text) != "" {
					printIndented(out.Text)
					fmt.Println()
				}
			}
		},
		OnComplete: func() {},
		OnError: func(msg string) {
			streamErr = msg
		},
	})
	if err != nil {
		return fmt.Errorf("stream error: %w", err)
	}
	if streamErr != "" {
		return fmt.Errorf("agent error: %s", streamErr)
	}

	return printResult(asm.Complete())
}

// askOnce uses the non-streaming endpoint and replays the event list through
// the same assembler, so both paths resolve a turn identically.
func askOnce(client *api.Client, cfg *config.Config, sessionID, prompt string) error {
	events, err := client.Run(cfg.Agent, cfg.UserID, sessionID, prompt)
	if err != nil {
		return fmt.Errorf("running turn: %w", err)
	}

	asm := turn.NewAssembler()
	for _, ev := range events {
		for _, out := range asm.OnEvent(ev) {
			if out.Kind == turn.OutputClose && strings.TrimSpace(out.Text) != "" {
				printIndented(out.Text)
				fmt.Println()
			}
		}
	}
	return printResult(asm.Complete())
}

func printResult(result turn.Result) error {
	if result.IsAnalytics {
		printAnalytics(result.Analytics)
	} else if strings.TrimSpace(result.Content) != "" {
		printIndented(result.Content)
	}
	fmt.Println()
	return nil
}

func printAnalytics(p *analytics.Payload) {
	for _, b := range charts.Render(p, 80) {
		switch b.Kind {
		case charts.KindChart:
			fmt.Printf("\n  %s%s%s\n", display.Bold+display.Cyan, b.Title, display.Reset)
		default:
			fmt.Printf("\n  %s%s%s\n", display.Bold+display.Magenta, b.Title, display.Reset)
		}
		printIndented(b.Body)
	}
}

func printIndented(text string) {
	for _, line := range strings.Split(text, "\n") {
		fmt.Printf("    %s\n", line)
	}
}

// ─── set ────────────────────────────────────────────────────────────────────

func cmdSet(args []string) error {
	if len(args) < 2 {
		fmt.Println("Usage: adkchat set <key> <value>")
		fmt.Println()
		fmt.Println("Keys:")
		fmt.Println("  server   ADK server URL  (e.g. http://localhost:8000)")
		fmt.Println("  agent    Active agent name")
		fmt.Println("  user     User ID for session ownership")
		return nil
	}

	cfg, err := config.Load(activeProfile)
	if err != nil {
		return err
	}

	key, value := args[0], args[1]

	switch key {
	case "server":
		cfg.Server = value
	case "agent":
		cfg.Agent = value
		// A new agent cannot resume the old agent's session
		cfg.LastSession = ""
	case "user":
		cfg.UserID = value
		cfg.LastSession = ""
	default:
		return fmt.Errorf("unknown config key: %s (valid: server, agent, user)", key)
	}

	if err := cfg.Save(); err != nil {
		return err
	}

	display.Success(fmt.Sprintf("%s set to %s", key, value))
	return nil
}

// ─── config ─────────────────────────────────────────────────────────────────

func cmdConfig() error {
	cfg, err := config.Load(activeProfile)
	if err != nil {
		return err
	}

	display.Header("ADK Chat Configuration")

	display.Info("Profile:", config.ProfileName(activeProfile))

	orDash := func(s string) string {
		if s == "" {
			return display.Dim + "(not set)" + display.Reset
		}
		return s
	}
	display.Info("Server:", orDash(cfg.Server))
	display.Info("Agent:", orDash(cfg.Agent))
	display.Info("User:", orDash(cfg.UserID))

	sess := cfg.LastSession
	if sess == "" {
		sess = display.Dim + "(none)" + display.Reset
	}
	display.Info("Last Session:", sess)
	fmt.Println()

	return nil
}

// ─── profiles ───────────────────────────────────────────────────────────────

func cmdProfiles() error {
	profiles, err := config.ListProfiles()
	if err != nil {
		return err
	}

	display.Header(fmt.Sprintf("Profiles (%d)", len(profiles)))

	if len(profiles) == 0 {
		display.Warn("No profiles found.")
		return nil
	}

	for _, p := range profiles {
		marker := " "
		if p == config.ProfileName(activeProfile) {
			marker = display.Green + "●" + display.Reset
		}
		fmt.Printf("  %s %s\n", marker, p)
	}
	fmt.Println()

	return nil
}

// ─── helpers ────────────────────────────────────────────────────────────────

func parseGlobalFlags(args []string) []string {
	var remaining []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--profile" {
			if i+1 < len(args) {
				i++
				activeProfile = args[i]
			}
			continue
		}
		remaining = append(remaining, args[i])
	}
	return remaining
}

// ─── usage ──────────────────────────────────────────────────────────────────

func printUsage() {
	fmt.Printf(`%sADK Chat%s — terminal client for ADK agent backends (v%s)

%sUsage:%s
  adkchat                                            Launch interactive mode (default)
  adkchat [--profile <name>] <command> [arguments]   Run a specific command

%sGetting Started:%s
  set server <url>          Point at an ADK API server
  agents                    List available agents
  set agent <name>          Set the active agent
  config                    Show current configuration

%sChat:%s
  ask "<question>"          Ask the active agent (streams the reply)
    -s, --session <id>      Continue in an existing session
    --no-stream             Wait for the full reply instead of streaming

%sSessions:%s
  sessions                  List sessions for the active agent
  new                       Create a session and make it active
  delete [session-id]       Delete a session (defaults to last session)
  history [session-id]      Print a session's transcript

%sProfiles:%s
  profiles                  List all config profiles
  --profile <name>          Use a named config profile (default: unnamed)

%sExamples:%s
  adkchat                                            # Start interactive mode
  adkchat set server http://localhost:8000
  adkchat set agent data_analyst
  adkchat ask "Summarize last week's sales"
  adkchat ask "Break that down by region" -s <session-id>
  adkchat --profile staging ask "Any anomalies today?"

`, display.Bold, display.Reset, version,
		display.Cyan, display.Reset,
		display.Cyan, display.Reset,
		display.Cyan, display.Reset,
		display.Cyan, display.Reset,
		display.Cyan, display.Reset,
		display.Cyan, display.Reset)
}
