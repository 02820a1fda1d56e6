package tui

import (
	"fmt"
	"path"
	"strings"
	"time"

	"culler-cli/internal/config"
	"culler-cli/internal/docs"
	"culler-cli/internal/gallery"
	"culler-cli/internal/library"
	"culler-cli/internal/model"
	"culler-cli/internal/session"
	"culler-cli/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"k8s.io/klog/v2"
)

// toastQueue collects session notifications until the next Update drains them.
type toastQueue struct {
	pending []session.Notification
}

func (q *toastQueue) Notify(n session.Notification) { q.pending = append(q.pending, n) }

type appModel struct {
	store store.Store
	cfg   config.Config
	keys  keyMap
	help  help.Model

	views    []model.View
	viewIdx  int
	offset   int
	pageSize int

	// gen increases with every page fetch; results tagged with an older gen are stale.
	gen int

	sess   *session.Session
	toasts *toastQueue

	// curator applies curations; the store unless a test swaps it.
	curator session.Curator

	width  int
	height int
	scroll int

	showHelp bool
	finding  bool
	find     textinput.Model

	toast    session.Notification
	hasToast bool
	toastSeq int

	initCmd tea.Cmd
	now     func() time.Time
}

func newAppModel(opts Options) appModel {
	m := appModel{
		store:    opts.Store,
		curator:  opts.Store,
		cfg:      opts.Config,
		keys:     defaultKeyMap(),
		help:     help.New(),
		views:    model.Views(),
		pageSize: opts.Config.PageSize,
		toasts:   &toastQueue{},
		now:      opts.Now,
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.find = textinput.New()
	m.find.Prompt = "/"
	m.find.Placeholder = "name"
	m.find.CharLimit = 256

	st, err := m.store.LoadUIState()
	if err != nil {
		klog.Warningf("ui state: %v", err)
		st = &store.UIState{Version: 1}
	}
	viewName := st.View
	if opts.View != nil {
		viewName = opts.View.Name
	}
	for i, v := range m.views {
		if v.Name == viewName {
			m.viewIdx = i
		}
	}
	restoreKey := ""
	if opts.View == nil || opts.View.Name == st.View {
		m.offset = st.Offset
		restoreKey = st.SelectedKey
	}
	if m.pageSize <= 0 {
		m.offset = 0
	}
	m.showHelp = st.ShowHelp

	m.sess = m.newSession(m.view())
	m.initCmd = m.loadPageCmd(restoreKey)
	return m
}

func (m *appModel) newSession(v model.View) *session.Session {
	advance, err := session.ParseAdvancePolicy(m.cfg.AdvancePolicy)
	if err != nil {
		advance = session.AdvanceCursor
	}
	return session.New(session.Options{
		View: v,
		Capabilities: gallery.Capabilities{
			HasGroups: m.cfg.GroupBy != config.GroupByNone,
			HasBursts: m.cfg.BurstGap > 0,
		},
		FadeDuration:      m.cfg.FadeDuration,
		DoubleClickWindow: m.cfg.DoubleClickWindow,
		Advance:           advance,
		Notifier:          m.toasts,
		Now:               m.now,
	})
}

func (m *appModel) view() model.View { return m.views[m.viewIdx] }

func (m *appModel) clusterOptions() library.ClusterOptions {
	return library.ClusterOptions{GroupBy: m.cfg.GroupBy, BurstGap: m.cfg.BurstGap, BurstMin: m.cfg.BurstMin}
}

func (m appModel) Init() tea.Cmd { return m.initCmd }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ensureCursorVisible()
		return m, nil

	case pageLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err != nil {
			m.toasts.Notify(session.Notification{Level: session.LevelError, Message: "load: " + msg.err.Error()})
			return m, m.flushToasts()
		}
		// The page emptied out from under us (e.g. the last page was culled away).
		if len(msg.page.Photos) == 0 && msg.page.Total > 0 && m.offset > 0 {
			m.offset = lastPageOffset(msg.page.Total, m.pageSize)
			return m, m.loadPageCmd(msg.restoreKey)
		}
		m.sess.Load(msg.page)
		m.restoreCursor(msg.restoreKey)
		m.scroll = 0
		m.ensureCursorVisible()
		return m, nil

	case curateDoneMsg:
		var cmds []tea.Cmd
		for _, res := range msg.results {
			if msg.gen != m.gen {
				// The page changed underneath; only failures are still worth reporting.
				if res.Err != nil {
					m.toasts.Notify(session.Notification{Level: session.LevelError, Key: res.Request.Key, Message: res.Err.Error()})
				}
				continue
			}
			if e, ok := m.sess.Apply(res); ok {
				cmds = append(cmds, m.fadeCmd(e))
			}
		}
		cmds = append(cmds, m.flushToasts())
		return m, tea.Batch(cmds...)

	case fadeExpiredMsg:
		if msg.gen != m.gen || !m.sess.ExpireFade(msg.key, msg.token) {
			return m, nil
		}
		m.ensureCursorVisible()
		if m.sess.Len() == 0 && m.sess.Total() > 0 {
			return m, m.loadPageCmd("")
		}
		return m, nil

	case toastDoneMsg:
		if msg.seq == m.toastSeq {
			m.hasToast = false
		}
		return m, nil

	case rescanDoneMsg:
		if msg.err != nil {
			m.toasts.Notify(session.Notification{Level: session.LevelError, Message: "rescan: " + msg.err.Error()})
			return m, m.flushToasts()
		}
		m.toasts.Notify(session.Notification{Message: fmt.Sprintf("rescanned: %d photos, %d new, %d removed",
			msg.res.Scanned, msg.res.Added, len(msg.res.Removed))})
		return m, tea.Batch(m.flushToasts(), m.loadPageCmd(m.cursorKey()))

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	if m.finding {
		// Cursor blink.
		var cmd tea.Cmd
		m.find, cmd = m.find.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.finding {
		return m.updateFind(msg)
	}
	if msg.String() == "ctrl+c" {
		return m, m.quit()
	}
	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Back, m.keys.Quit) {
			m.showHelp = false
		}
		return m, nil
	}

	if _, open := m.sess.Viewer(); !open {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, m.quit()
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil
		case key.Matches(msg, m.keys.Find):
			m.finding = true
			m.find.SetValue("")
			return m, m.find.Focus()
		case key.Matches(msg, m.keys.NextView):
			m.switchView((m.viewIdx + 1) % len(m.views))
			return m, m.loadPageCmd("")
		case key.Matches(msg, m.keys.NextPage):
			if m.pageSize > 0 && m.offset+m.pageSize < m.sess.Total() {
				m.offset += m.pageSize
				return m, m.loadPageCmd("")
			}
			return m, nil
		case key.Matches(msg, m.keys.PrevPage):
			if m.pageSize > 0 && m.offset > 0 {
				m.offset = max(0, m.offset-m.pageSize)
				return m, m.loadPageCmd("")
			}
			return m, nil
		case key.Matches(msg, m.keys.Rescan):
			m.toasts.Notify(session.Notification{Message: "rescanning " + m.store.Root() + glyphFor("…", "...")})
			return m, tea.Batch(m.flushToasts(), m.rescanCmd())
		}
	} else if msg.String() == "q" {
		return m, m.quit()
	}

	k, ok := m.keys.sessionKey(msg)
	if !ok {
		return m, nil
	}
	out := m.sess.HandleKey(session.KeyEvent{Key: k, Columns: gridColumns(m.width)})
	return m, m.applyOutcome(out)
}

func (m appModel) updateFind(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.finding = false
		m.find.Blur()
		return m, nil
	case "enter":
		q := m.find.Value()
		m.finding = false
		m.find.Blur()
		m.findNext(q)
		m.ensureCursorVisible()
		return m, m.flushToasts()
	}
	// Gallery shortcuts stay inert while the field owns the keyboard.
	if k, ok := m.keys.sessionKey(msg); ok {
		m.sess.HandleKey(session.KeyEvent{Key: k, Columns: gridColumns(m.width), TextFocus: true})
	}
	var cmd tea.Cmd
	m.find, cmd = m.find.Update(msg)
	return m, cmd
}

func (m appModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp || m.finding {
		return m, nil
	}
	if _, open := m.sess.Viewer(); open {
		return m, nil
	}
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	rows := buildRows(m.sess.Engine(), gridColumns(m.width))
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if m.scroll > 0 {
			m.scroll--
		}
	case tea.MouseButtonWheelDown:
		if m.scroll < len(rows)-1 {
			m.scroll++
		}
	case tea.MouseButtonLeft:
		y := msg.Y - chromeTop
		if gi, ok := headingAt(rows, m.scroll, y); ok {
			if msg.Shift && m.sess.Engine().ToggleGroup(gi) {
				m.ensureCursorVisible()
			}
			return m, nil
		}
		i, ok := hitTest(rows, m.scroll, msg.X, y)
		if !ok {
			return m, nil
		}
		out := m.sess.Click(i, gallery.Modifiers{Shift: msg.Shift, Ctrl: msg.Ctrl})
		return m, m.applyOutcome(out)
	}
	return m, nil
}

// applyOutcome turns a session outcome into follow-up commands.
func (m *appModel) applyOutcome(out session.Outcome) tea.Cmd {
	switch len(out.Undone) {
	case 0:
	case 1:
		m.toasts.Notify(session.Notification{Key: out.Undone[0], Message: "restored " + path.Base(out.Undone[0])})
	default:
		m.toasts.Notify(session.Notification{Message: fmt.Sprintf("restored %d photos", len(out.Undone))})
	}
	m.ensureCursorVisible()
	return tea.Batch(m.curateCmd(out.Requests), m.flushToasts())
}

// flushToasts shows the most relevant pending notification. Errors win over info.
func (m *appModel) flushToasts() tea.Cmd {
	q := m.toasts.pending
	if len(q) == 0 {
		return nil
	}
	m.toasts.pending = nil

	n := q[len(q)-1]
	for _, x := range q {
		if x.Level == session.LevelError {
			n = x
			break
		}
	}
	if len(q) > 1 {
		n.Message = fmt.Sprintf("%s (+%d more)", n.Message, len(q)-1)
	}
	m.toast = n
	m.hasToast = true
	m.toastSeq++
	d := toastDuration
	if n.Level == session.LevelError {
		d = errorToastDuration
	}
	return toastCmd(m.toastSeq, d)
}

func (m *appModel) switchView(i int) {
	m.sess.Close()
	m.viewIdx = i
	m.offset = 0
	m.scroll = 0
	m.sess = m.newSession(m.view())
}

func (m *appModel) restoreCursor(key string) {
	if m.sess.Len() == 0 {
		return
	}
	i, ok := m.sess.IndexOf(key)
	if key == "" || !ok {
		i = 0
	}
	m.sess.Engine().Select(i)
}

// cursorKey is the photo under the cursor (or the viewer), if any.
func (m *appModel) cursorKey() string {
	i, ok := m.focusIndex()
	if !ok {
		return ""
	}
	p, _ := m.sess.Photo(i)
	return p.Key
}

func (m *appModel) focusIndex() (int, bool) {
	if v, open := m.sess.Viewer(); open {
		return v.Index(), true
	}
	if i, ok := m.sess.Engine().Cursor(); ok {
		return i, true
	}
	sel := m.sess.Engine().Selected()
	if len(sel) == 0 {
		return 0, false
	}
	return sel[len(sel)-1], true
}

func (m *appModel) ensureCursorVisible() {
	rows := buildRows(m.sess.Engine(), gridColumns(m.width))
	if m.scroll >= len(rows) {
		m.scroll = max(0, len(rows)-1)
	}
	i, ok := m.focusIndex()
	if !ok {
		return
	}
	if be, inBurst := m.sess.Engine().BurstAt(i); inBurst && !m.sess.Engine().Expanded(be.BurstID) {
		i = be.StartIndex
	}
	ri, ok := rowOf(rows, i)
	if !ok {
		return
	}
	m.scroll = scrollToShow(rows, m.scroll, ri, gridHeight(m.height))
}

// findNext moves the cursor to the next photo whose name contains q, wrapping
// around the page.
func (m *appModel) findNext(q string) {
	q = strings.ToLower(strings.TrimSpace(q))
	n := m.sess.Len()
	if q == "" || n == 0 {
		return
	}
	start, ok := m.focusIndex()
	if !ok {
		start = -1
	}
	for step := 1; step <= n; step++ {
		i := (start + step + n) % n
		p, _ := m.sess.Photo(i)
		if strings.Contains(strings.ToLower(p.Name), q) {
			m.sess.Engine().Select(i)
			return
		}
	}
	m.toasts.Notify(session.Notification{Message: fmt.Sprintf("no photo matching %q on this page", q)})
}

func (m *appModel) quit() tea.Cmd {
	m.saveState()
	m.sess.Close()
	return tea.Quit
}

func (m *appModel) saveState() {
	st := &store.UIState{
		Version:     1,
		View:        m.view().Name,
		Offset:      m.offset,
		SelectedKey: m.cursorKey(),
		ShowHelp:    m.showHelp,
	}
	if err := m.store.SaveUIState(st); err != nil {
		klog.Warningf("save ui state: %v", err)
	}
}

func lastPageOffset(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return ((total - 1) / pageSize) * pageSize
}

func (m appModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	h := gridHeight(m.height)

	var body string
	if m.showHelp {
		md, _ := docs.Get("shortcuts")
		body = normalizePane(renderMarkdown(md, m.width-2), m.width, h)
	} else if v, open := m.sess.Viewer(); open {
		body = renderViewer(m.sess, v.Index(), m.width, h, m.now())
	} else {
		rows := buildRows(m.sess.Engine(), gridColumns(m.width))
		body = renderGrid(m.sess, rows, m.scroll, m.width, h)
	}

	lines := []string{
		normalizePane(m.renderTabs(), m.width, 1),
		styleMuted().Render(strings.Repeat(glyphHRule(), m.width)),
		body,
		normalizePane(m.renderStatus(), m.width, 1),
		normalizePane(m.renderFooter(), m.width, 1),
	}
	return strings.Join(lines, "\n")
}

func (m appModel) renderTabs() string {
	var tabs []string
	for i, v := range m.views {
		tabs = append(tabs, styleTab(i == m.viewIdx).Render(v.Name))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	n := m.sess.Len()
	info := "0 photos"
	if n > 0 {
		info = fmt.Sprintf("%d-%d of %d", m.offset+1, m.offset+n, m.sess.Total())
	}
	if sel := len(m.sess.Engine().Selected()); sel > 1 {
		info += fmt.Sprintf(" %s %d selected", glyphSeparator(), sel)
	}
	if f := m.sess.Fades().Len(); f > 0 {
		info += fmt.Sprintf(" %s %d leaving", glyphSeparator(), f)
	}
	return left + "  " + styleMuted().Render(info)
}

func (m appModel) renderStatus() string {
	switch {
	case m.finding:
		return m.find.View()
	case m.hasToast:
		return styleToast(m.toast.Level == session.LevelError).Render(m.toast.Message)
	}
	return ""
}

func (m appModel) renderFooter() string {
	if _, open := m.sess.Viewer(); open {
		return m.help.ShortHelpView(m.keys.viewerHelp())
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}
