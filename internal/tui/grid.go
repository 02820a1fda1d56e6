package tui

import (
	"strconv"
	"strings"

	"culler-cli/internal/gallery"
	"culler-cli/internal/model"
	"culler-cli/internal/session"

	"github.com/charmbracelet/lipgloss"
)

// gridRow is one rendered row: either a group heading or a run of tiles.
type gridRow struct {
	label string
	// group is the group index of a heading row.
	group int
	items []gallery.VisibleItem
}

func (r gridRow) height() int {
	if r.items == nil {
		return 1
	}
	return tileHeight
}

// buildRows lays the visible items out row by row. Every group starts on a fresh
// row, matching the engine's vertical navigation.
func buildRows(e *gallery.Engine, columns int) []gridRow {
	if columns < 1 {
		columns = 1
	}
	var rows []gridRow
	addRange := func(start, end int) {
		items := e.RenderRange(start, end)
		for len(items) > 0 {
			n := min(columns, len(items))
			rows = append(rows, gridRow{items: items[:n:n]})
			items = items[n:]
		}
	}

	groups := e.Groups()
	if len(groups) == 0 {
		addRange(0, e.Len())
		return rows
	}
	for gi, g := range groups {
		start, end, ok := gallery.GroupRange(groups, e.Len(), gi)
		if !ok || start >= end {
			continue
		}
		rows = append(rows, gridRow{label: g.Label + " " + glyphSeparator() + " " + strconv.Itoa(end-start), group: gi})
		addRange(start, end)
	}
	return rows
}

// rowOf returns the row holding the tile for index.
func rowOf(rows []gridRow, index int) (int, bool) {
	for ri, r := range rows {
		for _, it := range r.items {
			if it.Index == index {
				return ri, true
			}
		}
	}
	return 0, false
}

// scrollToShow returns a scroll offset (first row) that keeps row ri inside a
// viewport of height lines.
func scrollToShow(rows []gridRow, scroll, ri, height int) int {
	if ri < scroll {
		// Keep the group heading in view when the cursor sits on its first row.
		if ri > 0 && rows[ri-1].items == nil {
			return ri - 1
		}
		return ri
	}
	for scroll < ri {
		used := 0
		for i := scroll; i <= ri; i++ {
			used += rows[i].height()
		}
		if used <= height {
			break
		}
		scroll++
	}
	return scroll
}

// rowAt returns the row drawn at line y of the viewport.
func rowAt(rows []gridRow, scroll, y int) (int, bool) {
	if y < 0 {
		return 0, false
	}
	top := 0
	for ri := max(scroll, 0); ri < len(rows); ri++ {
		h := rows[ri].height()
		if y < top+h {
			return ri, true
		}
		top += h
	}
	return 0, false
}

// hitTest maps a cell inside the grid viewport to a photo index.
func hitTest(rows []gridRow, scroll, x, y int) (int, bool) {
	ri, ok := rowAt(rows, scroll, y)
	if !ok || x < 0 {
		return 0, false
	}
	col := x / tileWidth
	if rows[ri].items == nil || col >= len(rows[ri].items) {
		return 0, false
	}
	return rows[ri].items[col].Index, true
}

// headingAt returns the group index of the heading drawn at line y.
func headingAt(rows []gridRow, scroll, y int) (int, bool) {
	ri, ok := rowAt(rows, scroll, y)
	if !ok || rows[ri].items != nil {
		return 0, false
	}
	return rows[ri].group, true
}

// renderGrid draws rows starting at scroll into a width x height block.
func renderGrid(s *session.Session, rows []gridRow, scroll, width, height int) string {
	if s.Len() == 0 {
		msg := "No photos in this view."
		if s.Total() > 0 {
			msg = "Loading" + glyphFor("…", "...")
		}
		return normalizePane(styleMuted().Render(msg), width, height)
	}

	e := s.Engine()
	cursor, hasCursor := e.Cursor()
	var out []string
	used := 0
	for ri := scroll; ri < len(rows) && used < height; ri++ {
		r := rows[ri]
		if r.items == nil {
			out = append(out, styleGroupLabel().Render(truncate(r.label, width)))
			used++
			continue
		}
		tiles := make([]string, 0, len(r.items))
		for _, it := range r.items {
			p, _ := s.Photo(it.Index)
			st := tileState{
				selected: e.Selection().Contains(it.Index),
				cursor:   hasCursor && cursor == it.Index,
				fading:   s.Fading(p.Key),
			}
			tiles = append(tiles, renderTile(p, it, st))
		}
		out = append(out, lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
		used += tileHeight
	}
	return normalizePane(strings.Join(out, "\n"), width, height)
}

type tileState struct {
	selected bool
	cursor   bool
	fading   bool
}

func renderTile(p model.Photo, it gallery.VisibleItem, st tileState) string {
	inner := tileWidth - 2

	fill := lipgloss.NewStyle().Width(inner).Background(colorTileFallback)
	if p.Swatch != "" {
		fill = fill.Background(lipgloss.Color(p.Swatch)).Foreground(swatchContrast(p.Swatch))
	}
	top := fill.Render(truncate(tileBadges(p, it), inner))

	name := lipgloss.NewStyle().Width(inner).Foreground(colorSurfaceFg)
	if st.fading {
		name = name.Strikethrough(true).Foreground(colorMuted)
	}
	bottom := name.Render(truncate(p.Name, inner))

	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorCardBorder)
	switch {
	case st.cursor:
		box = box.Border(lipgloss.ThickBorder()).BorderForeground(colorCursorBorder)
	case st.selected:
		box = box.Border(lipgloss.NormalBorder()).BorderForeground(colorSelectedBorder)
	}
	if st.fading {
		box = faintIfDark(box)
	}
	return box.Render(top + "\n" + bottom)
}

// tileBadges is the status line drawn over the swatch.
func tileBadges(p model.Photo, it gallery.VisibleItem) string {
	var parts []string
	switch {
	case it.Kind == gallery.ItemStack:
		parts = append(parts, glyphStack()+strconv.Itoa(it.BurstCount))
	case it.PositionInBurst > 0:
		parts = append(parts, glyphBurstOpen()+strconv.Itoa(it.PositionInBurst)+"/"+strconv.Itoa(it.BurstCount))
	}
	if p.IsVideo {
		parts = append(parts, glyphVideo())
	}
	switch {
	case p.IsTrashed:
		parts = append(parts, lipgloss.NewStyle().Foreground(colorReject).Render(glyphReject()))
	case p.IsCurated:
		parts = append(parts, lipgloss.NewStyle().Foreground(colorPick).Render(glyphPick()))
	}
	if p.Rating > 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorRating).Render(glyphStars(p.Rating)))
	}
	return strings.Join(parts, " ")
}

// swatchContrast picks black or white text for a #rrggbb background.
func swatchContrast(hex string) lipgloss.Color {
	if len(hex) != 7 || hex[0] != '#' {
		return lipgloss.Color("255")
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return lipgloss.Color("255")
	}
	r, g, b := (v>>16)&0xff, (v>>8)&0xff, v&0xff
	// Rec. 601 luma.
	if 299*r+587*g+114*b > 128000 {
		return lipgloss.Color("232")
	}
	return lipgloss.Color("255")
}
