package tui

import (
	"os"
	"strings"
	"sync"
)

// Some terminal fonts render box and star glyphs badly; CULLER_TUI_GLYPHS=ascii
// switches every gallery affordance to plain ASCII.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

func applyGlyphPreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("CULLER_TUI_GLYPHS"))) {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

func glyphFor(unicode, ascii string) string {
	if glyphs() == glyphSetASCII {
		return ascii
	}
	return unicode
}

func glyphStack() string     { return glyphFor("❐", "#") }
func glyphPick() string      { return glyphFor("⚑", "P") }
func glyphReject() string    { return glyphFor("✕", "X") }
func glyphStar() string      { return glyphFor("★", "*") }
func glyphVideo() string     { return glyphFor("▶", ">") }
func glyphBurstOpen() string { return glyphFor("▾", "v") }
func glyphSeparator() string { return glyphFor("·", "|") }
func glyphHRule() string     { return glyphFor("─", "-") }

func glyphStars(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(glyphStar(), n)
}
