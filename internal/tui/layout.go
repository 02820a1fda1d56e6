package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// Tile geometry in terminal cells, border included.
const (
	tileWidth  = 16
	tileHeight = 4

	// Lines above the grid: tab bar and rule.
	chromeTop = 2
	// Lines below the grid: toast/find line and key help.
	chromeBottom = 2
)

// normalizePane forces s into an exact width x height block: long lines are cut
// with an ellipsis, short ones padded, and missing lines added.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}

	for i, ln := range lines {
		// Bound the StringWidth work on pathological lines.
		if width > 0 && len(ln) > 8192 {
			ln = xansi.Cut(ln, 0, width)
		}
		w := xansi.StringWidth(ln)
		if w > width {
			switch {
			case width <= 0:
				ln = ""
			case width == 1:
				ln = xansi.Cut(ln, 0, 1)
			default:
				ln = xansi.Cut(ln, 0, width-1) + "…"
			}
			w = xansi.StringWidth(ln)
		}
		if w < width {
			ln += strings.Repeat(" ", width-w)
		}
		lines[i] = ln
	}
	return strings.Join(lines, "\n")
}

// truncate cuts s to at most width cells.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return xansi.Cut(s, 0, 1)
	}
	return xansi.Cut(s, 0, width-1) + "…"
}

// gridColumns is the number of tiles that fit in width.
func gridColumns(width int) int {
	if c := width / tileWidth; c > 1 {
		return c
	}
	return 1
}

// gridHeight is the number of lines available to the grid.
func gridHeight(height int) int {
	if h := height - chromeTop - chromeBottom; h > 0 {
		return h
	}
	return 0
}
