// Package tui is the interactive gallery: a tile grid over one page of a view,
// with a single-photo viewer, keyboard and mouse curation, and timed fade-outs.
package tui

import (
	"time"

	"culler-cli/internal/config"
	"culler-cli/internal/model"
	"culler-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	Store  store.Store
	Config config.Config
	// View overrides the view restored from the last session.
	View *model.View
	// Now defaults to time.Now.
	Now func() time.Time
}

func Run(opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()
	applyGlyphPreference()

	m := newAppModel(opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
