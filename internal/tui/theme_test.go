package tui

import (
	"strings"
	"testing"

	"culler-cli/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
)

func TestGlyphs_FromEnv(t *testing.T) {
	t.Setenv("CULLER_TUI_GLYPHS", "")
	setGlyphs(glyphSetUnicode)
	applyGlyphPreference()
	if got := glyphs(); got != glyphSetUnicode {
		t.Fatalf("expected unicode glyphs by default; got %v", got)
	}

	t.Setenv("CULLER_TUI_GLYPHS", "ascii")
	applyGlyphPreference()
	if got := glyphs(); got != glyphSetASCII {
		t.Fatalf("expected ascii glyphs; got %v", got)
	}
	if got := glyphStars(2); got != "**" {
		t.Fatalf("expected ascii stars; got %q", got)
	}

	// Unknown values are ignored.
	t.Setenv("CULLER_TUI_GLYPHS", "bogus")
	applyGlyphPreference()
	if got := glyphs(); got != glyphSetASCII {
		t.Fatalf("expected unknown to be ignored; got %v", got)
	}
	setGlyphs(glyphSetUnicode)
}

func TestMarkdownStyle_RespectsTUITheme(t *testing.T) {
	t.Setenv("CULLER_TUI_MD_STYLE", "")
	t.Setenv("COLORFGBG", "")

	t.Setenv("CULLER_TUI_THEME", "light")
	if got := markdownStyle(); got != "light" {
		t.Fatalf("expected light; got %q", got)
	}
	t.Setenv("CULLER_TUI_THEME", "dark")
	if got := markdownStyle(); got != "dark" {
		t.Fatalf("expected dark; got %q", got)
	}

	t.Setenv("CULLER_TUI_MD_STYLE", "light")
	if got := markdownStyle(); got != "light" {
		t.Fatalf("expected md style override; got %q", got)
	}
}

func TestMarkdownStyle_ColorFGBG(t *testing.T) {
	t.Setenv("CULLER_TUI_MD_STYLE", "")
	t.Setenv("CULLER_TUI_THEME", "")

	t.Setenv("COLORFGBG", "0;15")
	if got := markdownStyle(); got != "light" {
		t.Fatalf("expected light for a bright background; got %q", got)
	}
	t.Setenv("COLORFGBG", "15;default;0")
	if got := markdownStyle(); got != "dark" {
		t.Fatalf("expected dark for a dark background; got %q", got)
	}
}

func TestRenderMarkdown_HelpOverlay(t *testing.T) {
	t.Setenv("CULLER_TUI_MD_STYLE", "dark")

	out := renderMarkdown("# Shortcuts\n\n| Key | Action |\n| --- | --- |\n| p | pick |\n", 60)
	if !strings.Contains(out, "Shortcuts") || !strings.Contains(out, "pick") {
		t.Fatalf("expected rendered help to keep its text; got %q", out)
	}
	if renderMarkdown("  ", 60) != "" {
		t.Fatalf("expected empty input to render empty")
	}
}

func TestHelpOverlayToggle(t *testing.T) {
	m := startModel(t, seedStore(t, "a.jpg"), testConfig())

	m = step(t, m, runes("?"))
	if !m.showHelp {
		t.Fatalf("expected help overlay to open")
	}
	// Curation keys are inert under the overlay.
	m = step(t, m, runes("x"))
	if m.sess.Fades().Len() != 0 {
		t.Fatalf("expected no curation while help is shown")
	}
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.showHelp {
		t.Fatalf("expected esc to close the overlay")
	}
}

func TestFlushToasts_ErrorsWin(t *testing.T) {
	m := startModel(t, seedStore(t, "a.jpg"), testConfig())
	m.toasts.Notify(session.Notification{Message: "picked a.jpg"})
	m.toasts.Notify(session.Notification{Level: session.LevelError, Message: "reject b.jpg failed"})
	m.toasts.Notify(session.Notification{Message: "picked c.jpg"})

	if cmd := m.flushToasts(); cmd == nil {
		t.Fatalf("expected a toast timer")
	}
	if m.toast.Level != session.LevelError || m.toast.Message != "reject b.jpg failed (+2 more)" {
		t.Fatalf("unexpected toast %+v", m.toast)
	}
	seq := m.toastSeq
	next, _ := m.Update(toastDoneMsg{seq: seq - 1})
	if !next.(appModel).hasToast {
		t.Fatalf("expected an older timer to leave the toast up")
	}
	next, _ = m.Update(toastDoneMsg{seq: seq})
	if next.(appModel).hasToast {
		t.Fatalf("expected the toast to clear")
	}
}

func TestUpgradeProfile(t *testing.T) {
	cases := []struct {
		in          termenv.Profile
		term, cterm string
		want        termenv.Profile
	}{
		{termenv.ANSI, "xterm-256color", "", termenv.ANSI256},
		{termenv.ANSI256, "xterm-256color", "truecolor", termenv.TrueColor},
		{termenv.Ascii, "xterm-256color", "truecolor", termenv.Ascii},
		{termenv.TrueColor, "xterm-256color", "", termenv.TrueColor},
		{termenv.ANSI, "xterm", "", termenv.ANSI},
	}
	for _, tc := range cases {
		if got := upgradeProfile(tc.in, tc.term, tc.cterm); got != tc.want {
			t.Fatalf("%v %q %q: expected %v, got %v", tc.in, tc.term, tc.cterm, tc.want, got)
		}
	}
}
