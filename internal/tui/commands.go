package tui

import (
	"context"
	"time"

	"culler-cli/internal/gallery"
	"culler-cli/internal/library"
	"culler-cli/internal/model"
	"culler-cli/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	toastDuration      = 4 * time.Second
	errorToastDuration = 8 * time.Second
)

type pageLoadedMsg struct {
	gen        int
	page       model.Page
	restoreKey string
	err        error
}

type curateDoneMsg struct {
	gen     int
	results []session.CurateResult
}

type fadeExpiredMsg struct {
	gen   int
	key   string
	token uint64
}

type toastDoneMsg struct{ seq int }

type rescanDoneMsg struct {
	res library.ImportResult
	err error
}

// loadPageCmd fetches the current window of the current view. gen tags the result
// so a slow fetch can't clobber a newer page.
func (m *appModel) loadPageCmd(restoreKey string) tea.Cmd {
	m.gen++
	gen := m.gen
	st, v, offset, limit, opts := m.store, m.view(), m.offset, m.pageSize, m.clusterOptions()
	return func() tea.Msg {
		p, err := library.BuildPage(context.Background(), st, v, offset, limit, opts)
		return pageLoadedMsg{gen: gen, page: p, restoreKey: restoreKey, err: err}
	}
}

// curateCmd runs each mutation as its own command so a slow write never holds
// back the results of the others.
func (m *appModel) curateCmd(reqs []session.CurateRequest) tea.Cmd {
	if len(reqs) == 0 {
		return nil
	}
	gen, c := m.gen, m.curator
	cmds := make([]tea.Cmd, 0, len(reqs))
	for _, r := range reqs {
		cmds = append(cmds, func() tea.Msg {
			return curateDoneMsg{gen: gen, results: []session.CurateResult{r.Run(context.Background(), c)}}
		})
	}
	return tea.Batch(cmds...)
}

// fadeCmd fires once the fade's deadline has passed.
func (m *appModel) fadeCmd(e gallery.FadeEntry) tea.Cmd {
	gen := m.gen
	d := e.Deadline.Sub(m.now())
	if d < 0 {
		d = 0
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return fadeExpiredMsg{gen: gen, key: e.Key, token: e.Token}
	})
}

func (m *appModel) rescanCmd() tea.Cmd {
	st, cfg := m.store, m.cfg
	return func() tea.Msg {
		r := library.DefaultReader(cfg.Exiftool)
		defer r.Close()
		res, err := library.Import(context.Background(), st.Root(), st, r, library.ImportOptions{
			ScanOptions: library.ScanOptions{Swatches: cfg.Swatches},
			Prune:       true,
		})
		return rescanDoneMsg{res: res, err: err}
	}
}

func toastCmd(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return toastDoneMsg{seq: seq} })
}
