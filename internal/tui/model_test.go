package tui

import (
	"strings"
	"testing"
)

func TestMatchCommands(t *testing.T) {
	tests := []struct {
		prefix string
		want   int
	}{
		{"/", len(slashCommands)},
		{"/agent", 2}, // /agent and /agents
		{"/agents", 1},
		{"/se", 3}, // /session, /sessions, /set
		{"/nope", 0},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			got := matchCommands(tt.prefix)
			if len(got) != tt.want {
				t.Errorf("matchCommands(%q) = %d matches, want %d: %v", tt.prefix, len(got), tt.want, got)
			}
		})
	}
}

func TestMatchCommandsCaseInsensitive(t *testing.T) {
	if got := matchCommands("/AGENTS"); len(got) != 1 {
		t.Errorf("uppercase prefix should still match, got %v", got)
	}
}

func TestTruncateID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"short", "short"},
		{"12345678901234567890", "12345678901234567890"},
		{"0c1de383-91a8-4f43-9b24-6a4e9a01ab5e", "0c1de383...ab5e"},
	}
	for _, tt := range tests {
		if got := truncateID(tt.in); got != tt.want {
			t.Errorf("truncateID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLiveTail(t *testing.T) {
	t.Run("short text passes through", func(t *testing.T) {
		got := liveTail("hello", 80, 8)
		if got != "  hello" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("keeps only the last lines", func(t *testing.T) {
		text := "one\ntwo\nthree\nfour"
		got := liveTail(text, 80, 2)
		if strings.Contains(got, "one") || strings.Contains(got, "two") {
			t.Errorf("early lines should be dropped: %q", got)
		}
		if !strings.Contains(got, "three") || !strings.Contains(got, "four") {
			t.Errorf("late lines missing: %q", got)
		}
	})

	t.Run("wraps long lines before counting", func(t *testing.T) {
		text := strings.Repeat("x", 25)
		got := liveTail(text, 10, 8)
		lines := strings.Split(got, "\n")
		if len(lines) != 3 {
			t.Errorf("got %d lines, want 3: %q", len(lines), got)
		}
	})
}

func TestContentWidth(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{0, 76},     // unknown terminal
		{30, 76},    // too narrow, fall back
		{80, 76},    // normal
		{200, 100},  // capped
	}
	for _, tt := range tests {
		m := model{width: tt.width}
		if got := m.contentWidth(); got != tt.want {
			t.Errorf("contentWidth() with width %d = %d, want %d", tt.width, got, tt.want)
		}
	}
}
