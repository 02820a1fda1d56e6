package tui

import (
	"fmt"
	"strings"
	"time"

	"culler-cli/internal/model"
	"culler-cli/internal/session"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// renderViewer draws the single-photo view: a swatch canvas with the photo's
// details underneath.
func renderViewer(s *session.Session, index, width, height int, now time.Time) string {
	p, ok := s.Photo(index)
	if !ok {
		return normalizePane("", width, height)
	}

	details := viewerDetails(p, index, s.Len(), s.Fading(p.Key), now)
	canvasH := max(0, height-len(details)-1)

	canvas := lipgloss.NewStyle().Width(width).Height(canvasH).Background(colorTileFallback)
	if p.Swatch != "" {
		canvas = canvas.Background(lipgloss.Color(p.Swatch))
	}
	if s.Fading(p.Key) {
		canvas = faintIfDark(canvas)
	}

	var out []string
	if canvasH > 0 {
		out = append(out, canvas.Render(""))
	}
	out = append(out, "")
	out = append(out, details...)
	return normalizePane(strings.Join(out, "\n"), width, height)
}

func viewerDetails(p model.Photo, index, n int, fading bool, now time.Time) []string {
	title := styleHeader().Render(p.Name)
	if p.IsVideo {
		title = glyphVideo() + " " + title
	}
	title += styleMuted().Render(fmt.Sprintf("  %d/%d", index+1, n))

	var status []string
	switch {
	case p.IsTrashed:
		status = append(status, lipgloss.NewStyle().Foreground(colorReject).Render(glyphReject()+" rejected"))
	case p.IsCurated:
		status = append(status, lipgloss.NewStyle().Foreground(colorPick).Render(glyphPick()+" picked"))
	default:
		status = append(status, "unflagged")
	}
	if p.Rating > 0 {
		status = append(status, lipgloss.NewStyle().Foreground(colorRating).Render(glyphStars(p.Rating)))
	}
	if fading {
		status = append(status, styleMuted().Render("leaving this view (z to undo)"))
	}

	var meta []string
	if p.Dir != "" {
		meta = append(meta, p.Dir)
	}
	if !p.TakenAt.IsZero() {
		meta = append(meta, p.TakenAt.Format("2006-01-02 15:04:05")+" ("+humanize.RelTime(p.TakenAt, now, "ago", "from now")+")")
	}
	if cam := strings.TrimSpace(p.Make + " " + p.Model); cam != "" {
		meta = append(meta, cam)
	}
	if p.Width > 0 && p.Height > 0 {
		mp := float64(p.Width*p.Height) / 1e6
		meta = append(meta, fmt.Sprintf("%s x %s (%s MP)", humanize.Comma(p.Width), humanize.Comma(p.Height), humanize.FtoaWithDigits(mp, 1)))
	}

	sep := " " + glyphSeparator() + " "
	return []string{
		title,
		strings.Join(status, sep),
		styleMuted().Render(strings.Join(meta, sep)),
	}
}
