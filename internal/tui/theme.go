package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Every color is adaptive so tiles and chrome read on both light and dark
// terminals. Faint is reserved for dark backgrounds, where it stays legible.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted    lipgloss.TerminalColor = ac("240", "243")
	colorChromeFg lipgloss.TerminalColor = ac("240", "245")

	colorSurfaceFg lipgloss.TerminalColor = ac("235", "252")
	colorControlBg lipgloss.TerminalColor = ac("252", "235")

	colorSelectedBorder lipgloss.TerminalColor = ac("232", "255")
	colorCursorBorder   lipgloss.TerminalColor = ac("27", "62")
	colorCardBorder     lipgloss.TerminalColor = ac("250", "240")

	colorAccent   lipgloss.TerminalColor = ac("27", "62")
	colorAccentFg lipgloss.TerminalColor = ac("255", "235")

	colorPick   lipgloss.TerminalColor = ac("28", "42")
	colorReject lipgloss.TerminalColor = ac("160", "203")
	colorRating lipgloss.TerminalColor = ac("136", "220")

	colorToastErrorBg lipgloss.TerminalColor = ac("196", "160")
	colorToastInfoBg  lipgloss.TerminalColor = ac("254", "237")

	// Tile fill when a photo has no swatch.
	colorTileFallback lipgloss.TerminalColor = ac("253", "238")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleHeader() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg)
}

func styleGroupLabel() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorChromeFg)
}

func styleTab(active bool) lipgloss.Style {
	st := lipgloss.NewStyle().Padding(0, 1)
	if active {
		return st.Bold(true).Background(colorAccent).Foreground(colorAccentFg)
	}
	return st.Foreground(colorChromeFg)
}

func styleToast(isError bool) lipgloss.Style {
	st := lipgloss.NewStyle().Padding(0, 1)
	if isError {
		return st.Bold(true).Background(colorToastErrorBg).Foreground(lipgloss.Color("255"))
	}
	return st.Background(colorToastInfoBg).Foreground(colorSurfaceFg)
}

// applyColorProfilePreference picks the lipgloss color profile. NO_COLOR turns
// color off; CLICOLOR is ignored since it targets piped output, not a full
// screen program.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(upgradeProfile(termenv.ColorProfile(), os.Getenv("TERM"), os.Getenv("COLORTERM")))
}

// upgradeProfile raises a detected profile when TERM or COLORTERM advertise
// more colors than detection found.
func upgradeProfile(p termenv.Profile, term, colorterm string) termenv.Profile {
	colorterm = strings.ToLower(colorterm)
	switch {
	case p == termenv.Ascii:
		return p
	case strings.Contains(colorterm, "truecolor"), strings.Contains(colorterm, "24bit"):
		return termenv.TrueColor
	case strings.Contains(strings.ToLower(term), "256color") && p == termenv.ANSI:
		return termenv.ANSI256
	}
	return p
}

// applyThemePreference tells lipgloss whether the background is dark.
// CULLER_TUI_THEME wins, then CULLER_TUI_DARKBG, then COLORFGBG. Otherwise
// lipgloss keeps its own detection.
func applyThemePreference() {
	if s, ok := envStyle("CULLER_TUI_THEME"); ok {
		lipgloss.SetHasDarkBackground(s == "dark")
		return
	}
	if b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv("CULLER_TUI_DARKBG"))); err == nil {
		lipgloss.SetHasDarkBackground(b)
		return
	}
	if bg, ok := colorFGBGBackground(); ok {
		lipgloss.SetHasDarkBackground(bg < 7)
	}
}

// colorFGBGBackground returns the last ';'-separated field of COLORFGBG, the
// background palette index.
func colorFGBGBackground() (int, bool) {
	v := strings.TrimSpace(os.Getenv("COLORFGBG"))
	if i := strings.LastIndexByte(v, ';'); i >= 0 {
		v = v[i+1:]
	}
	bg, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || bg < 0 {
		return 0, false
	}
	return bg, true
}
