package tui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// helpRenderers caches one glamour renderer per style and wrap width. The style
// is resolved before building, never via WithAutoStyle, which may query the
// terminal and block.
var helpRenderers struct {
	sync.Mutex
	byKey map[string]*glamour.TermRenderer
}

func helpRenderer(style string, width int) (*glamour.TermRenderer, error) {
	helpRenderers.Lock()
	defer helpRenderers.Unlock()

	key := fmt.Sprintf("%s/%d", style, width)
	if r, ok := helpRenderers.byKey[key]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(markdownStyleConfig(style)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	if helpRenderers.byKey == nil {
		helpRenderers.byKey = map[string]*glamour.TermRenderer{}
	}
	helpRenderers.byKey[key] = r
	return r, nil
}

// renderMarkdown renders md for the help overlay, returning the source text
// unchanged if glamour fails.
func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	r, err := helpRenderer(markdownStyle(), max(width, 10))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func markdownStyleConfig(style string) ansi.StyleConfig {
	cfg := styles.DarkStyleConfig
	if style == "light" {
		cfg = styles.LightStyleConfig
	}
	applyCullerMarkdownPalette(&cfg, style)
	return cfg
}

// envStyle reads "light" or "dark" from an environment variable.
func envStyle(name string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(name)))
	if v == "light" || v == "dark" {
		return v, true
	}
	return "", false
}

// markdownStyle picks the help style: CULLER_TUI_MD_STYLE, then the forced TUI
// theme, then COLORFGBG, then lipgloss' background detection.
func markdownStyle() string {
	for _, name := range []string{"CULLER_TUI_MD_STYLE", "CULLER_TUI_THEME"} {
		if s, ok := envStyle(name); ok {
			return s
		}
	}
	dark := lipgloss.HasDarkBackground
	if bg, ok := colorFGBGBackground(); ok {
		dark = func() bool { return bg < 7 }
	}
	if dark() {
		return "dark"
	}
	return "light"
}

func applyCullerMarkdownPalette(cfg *ansi.StyleConfig, style string) {
	fg := mdColor(colorSurfaceFg, style)
	for _, block := range []*ansi.StyleBlock{&cfg.Heading, &cfg.H1, &cfg.H2, &cfg.H3} {
		block.Color = fg
	}
	cfg.Text.Color = fg
	cfg.Code.Color = fg
	if cfg.Code.BackgroundColor == nil {
		cfg.Code.BackgroundColor = mdColor(colorControlBg, style)
	}
	// Emphasis keeps the body color; bold and italics carry it.
	cfg.Strong.Color, cfg.Emph.Color = nil, nil

	var margin uint
	cfg.Document.Margin = &margin
}

// mdColor resolves an adaptive color to the hex string glamour expects.
func mdColor(c lipgloss.TerminalColor, style string) *string {
	a, ok := c.(lipgloss.AdaptiveColor)
	if !ok {
		return nil
	}
	v := a.Dark
	if style == "light" {
		v = a.Light
	}
	return &v
}
