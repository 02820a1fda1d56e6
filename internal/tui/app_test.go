package tui

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"culler-cli/internal/config"
	"culler-cli/internal/model"
	"culler-cli/internal/session"
	"culler-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

var t0 = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func testConfig() config.Config {
	return config.Config{
		FadeDuration:      time.Hour,
		GroupBy:           config.GroupByNone,
		DoubleClickWindow: 400 * time.Millisecond,
		AdvancePolicy:     string(session.AdvanceCursor),
	}
}

func seedStore(t *testing.T, names ...string) store.Store {
	t.Helper()
	s := store.Store{Dir: t.TempDir()}
	var ps []model.Photo
	for i, n := range names {
		ps = append(ps, model.Photo{
			Key:     "roll/" + n,
			Dir:     "roll",
			Name:    n,
			TakenAt: t0.Add(time.Duration(i) * time.Minute),
		})
	}
	if _, err := s.UpsertPhotos(context.Background(), ps); err != nil {
		t.Fatalf("UpsertPhotos: %v", err)
	}
	return s
}

// collectMsgs runs cmd (and any batch it expands to) concurrently and returns the
// messages produced within wait. Long ticks are abandoned.
func collectMsgs(cmd tea.Cmd, wait time.Duration) []tea.Msg {
	out := make(chan tea.Msg, 64)
	var run func(tea.Cmd)
	run = func(c tea.Cmd) {
		if c == nil {
			return
		}
		go func() {
			msg := c()
			if b, ok := msg.(tea.BatchMsg); ok {
				for _, cc := range b {
					run(cc)
				}
				return
			}
			if msg != nil {
				out <- msg
			}
		}()
	}
	run(cmd)

	var msgs []tea.Msg
	deadline := time.After(wait)
	for {
		select {
		case msg := <-out:
			msgs = append(msgs, msg)
		case <-deadline:
			return msgs
		}
	}
}

// step feeds msg to the model and then every message its commands produce.
func step(t *testing.T, m appModel, msg tea.Msg) appModel {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(appModel)
	for _, follow := range collectMsgs(cmd, 300*time.Millisecond) {
		if _, ok := follow.(tea.QuitMsg); ok {
			continue
		}
		m = step(t, m, follow)
	}
	return m
}

func startModel(t *testing.T, s store.Store, cfg config.Config) appModel {
	t.Helper()
	m := newAppModel(Options{Store: s, Config: cfg, Now: func() time.Time { return t0 }})
	m = step(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	for _, msg := range collectMsgs(m.Init(), 300*time.Millisecond) {
		m = step(t, m, msg)
	}
	if m.sess.Len() == 0 {
		t.Fatalf("expected the first page to load")
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func cursor(t *testing.T, m appModel) int {
	t.Helper()
	i, ok := m.sess.Engine().Cursor()
	if !ok {
		t.Fatalf("expected a single cursor, got selection %v", m.sess.Engine().Selected())
	}
	return i
}

func TestRejectFadesThenLeavesGrid(t *testing.T) {
	t.Parallel()

	s := seedStore(t, "a.jpg", "b.jpg", "c.jpg")
	m := startModel(t, s, testConfig())

	m = step(t, m, runes("x"))
	if got := cursor(t, m); got != 1 {
		t.Fatalf("expected cursor to advance to 1, got %d", got)
	}
	if !m.sess.Fading("roll/a.jpg") {
		t.Fatalf("expected a.jpg to be fading")
	}
	if !m.hasToast || !strings.Contains(m.toast.Message, "z to undo") {
		t.Fatalf("expected an undo toast, got %+v", m.toast)
	}
	p, err := s.GetPhoto(context.Background(), "roll/a.jpg")
	if err != nil {
		t.Fatalf("GetPhoto: %v", err)
	}
	if !p.IsTrashed {
		t.Fatalf("expected a.jpg to be trashed in the store")
	}

	e := m.sess.Fades().Entries()[0]
	m = step(t, m, fadeExpiredMsg{gen: m.gen, key: e.Key, token: e.Token})
	if m.sess.Len() != 2 {
		t.Fatalf("expected 2 photos after expiry, got %d", m.sess.Len())
	}
	if got := cursor(t, m); got != 0 {
		t.Fatalf("expected cursor to follow b.jpg to 0, got %d", got)
	}
}

func TestUndoCancelsRemoval(t *testing.T) {
	t.Parallel()

	m := startModel(t, seedStore(t, "a.jpg", "b.jpg"), testConfig())
	m = step(t, m, runes("x"))
	e := m.sess.Fades().Entries()[0]

	m = step(t, m, runes("z"))
	if m.sess.Fades().Len() != 0 {
		t.Fatalf("expected no pending fades after undo")
	}
	if !strings.Contains(m.toast.Message, "restored a.jpg") {
		t.Fatalf("expected restore toast, got %q", m.toast.Message)
	}

	// The stale timer must not remove the photo.
	m = step(t, m, fadeExpiredMsg{gen: m.gen, key: e.Key, token: e.Token})
	if m.sess.Len() != 2 {
		t.Fatalf("expected both photos to stay, got %d", m.sess.Len())
	}
}

func TestStaleFadeFromOldPageIgnored(t *testing.T) {
	t.Parallel()

	m := startModel(t, seedStore(t, "a.jpg", "b.jpg"), testConfig())
	m = step(t, m, runes("x"))
	e := m.sess.Fades().Entries()[0]

	m = step(t, m, fadeExpiredMsg{gen: m.gen - 1, key: e.Key, token: e.Token})
	if m.sess.Len() != 2 {
		t.Fatalf("expected stale expiry to be ignored, got %d photos", m.sess.Len())
	}
}

// gatedCurator holds writes for one key until release is closed.
type gatedCurator struct {
	store.Store
	hold    string
	release chan struct{}
}

func (c gatedCurator) Curate(ctx context.Context, key string, cur model.Curation) error {
	if key == c.hold {
		<-c.release
	}
	return c.Store.Curate(ctx, key, cur)
}

func TestSlowCurationDoesNotHoldBackOthers(t *testing.T) {
	t.Parallel()

	s := seedStore(t, "a.jpg", "b.jpg")
	m := startModel(t, s, testConfig())
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	m.curator = gatedCurator{Store: s, hold: "roll/a.jpg", release: release}

	reqs, err := m.sess.CurateKeys(session.Reject(), []string{"roll/a.jpg", "roll/b.jpg"})
	if err != nil {
		t.Fatalf("CurateKeys: %v", err)
	}
	msgs := collectMsgs(m.curateCmd(reqs), 300*time.Millisecond)
	if len(msgs) != 1 {
		t.Fatalf("expected only the unblocked result, got %d messages", len(msgs))
	}
	m = step(t, m, msgs[0])
	if !m.sess.Fading("roll/b.jpg") {
		t.Fatalf("expected b.jpg to fade while a.jpg is still being written")
	}
	if m.sess.Fading("roll/a.jpg") {
		t.Fatalf("expected a.jpg to wait for its own result")
	}
}

func TestFindMovesCursorAndSuppressesShortcuts(t *testing.T) {
	t.Parallel()

	s := seedStore(t, "beach.jpg", "city.jpg", "forest.jpg")
	m := startModel(t, s, testConfig())

	m = step(t, m, runes("/"))
	if !m.finding {
		t.Fatalf("expected find input to open")
	}
	m = step(t, m, runes("x"))
	if m.sess.Fades().Len() != 0 {
		t.Fatalf("expected shortcuts to be inert while typing")
	}
	m = step(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	for _, r := range "for" {
		m = step(t, m, runes(string(r)))
	}
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.finding {
		t.Fatalf("expected find input to close on enter")
	}
	if got := cursor(t, m); got != 2 {
		t.Fatalf("expected cursor on forest.jpg (2), got %d", got)
	}

	p, err := s.GetPhoto(context.Background(), "roll/beach.jpg")
	if err != nil {
		t.Fatalf("GetPhoto: %v", err)
	}
	if p.IsTrashed {
		t.Fatalf("expected no curation while the find input had focus")
	}
}

func TestTabSwitchesView(t *testing.T) {
	t.Parallel()

	s := seedStore(t, "a.jpg", "b.jpg")
	m := startModel(t, s, testConfig())
	m = step(t, m, runes("p"))

	m = step(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if got := m.view().Name; got != model.ViewUnreviewed {
		t.Fatalf("expected unreviewed view, got %q", got)
	}
	if m.sess.Len() != 1 {
		t.Fatalf("expected only the unflagged photo, got %d", m.sess.Len())
	}
	if p, _ := m.sess.Photo(0); p.Key != "roll/b.jpg" {
		t.Fatalf("expected b.jpg, got %q", p.Key)
	}
}

func TestMouseClicks(t *testing.T) {
	t.Parallel()

	m := startModel(t, seedStore(t, "a.jpg", "b.jpg", "c.jpg", "d.jpg"), testConfig())
	click := func(col int, shift bool) tea.MouseMsg {
		return tea.MouseMsg{
			X:      col*tileWidth + 2,
			Y:      chromeTop + 1,
			Shift:  shift,
			Button: tea.MouseButtonLeft,
			Action: tea.MouseActionPress,
		}
	}

	m = step(t, m, click(1, false))
	if got := cursor(t, m); got != 1 {
		t.Fatalf("expected click to select 1, got %d", got)
	}
	m = step(t, m, click(3, true))
	if got, want := m.sess.Engine().Selected(), []int{1, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected range %v, got %v", want, got)
	}

	// Plain double click opens the viewer.
	m = step(t, m, click(2, false))
	m = step(t, m, click(2, false))
	v, open := m.sess.Viewer()
	if !open || v.Index() != 2 {
		t.Fatalf("expected viewer open at 2, got open=%v", open)
	}
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if _, open := m.sess.Viewer(); open {
		t.Fatalf("expected esc to close the viewer")
	}
}

func TestQuitSavesState(t *testing.T) {
	t.Parallel()

	s := seedStore(t, "a.jpg", "b.jpg", "c.jpg")
	m := startModel(t, s, testConfig())
	m = step(t, m, runes("l"))

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
	st, err := s.LoadUIState()
	if err != nil {
		t.Fatalf("LoadUIState: %v", err)
	}
	if st.SelectedKey != "roll/b.jpg" || st.View != model.ViewAll {
		t.Fatalf("unexpected saved state: %+v", st)
	}

	// A fresh model picks the cursor back up.
	m2 := startModel(t, s, testConfig())
	if got := cursor(t, m2); got != 1 {
		t.Fatalf("expected restored cursor 1, got %d", got)
	}
}

func TestPaging(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.PageSize = 2
	m := startModel(t, seedStore(t, "a.jpg", "b.jpg", "c.jpg"), cfg)

	m = step(t, m, runes("]"))
	if m.offset != 2 || m.sess.Len() != 1 {
		t.Fatalf("expected second page with 1 photo, got offset=%d len=%d", m.offset, m.sess.Len())
	}
	m = step(t, m, runes("]"))
	if m.offset != 2 {
		t.Fatalf("expected to stay on the last page, got offset=%d", m.offset)
	}
	m = step(t, m, runes("["))
	if m.offset != 0 || m.sess.Len() != 2 {
		t.Fatalf("expected first page, got offset=%d len=%d", m.offset, m.sess.Len())
	}
}

func TestViewRendersChrome(t *testing.T) {
	t.Parallel()

	m := startModel(t, seedStore(t, "a.jpg", "b.jpg"), testConfig())
	out := m.View()
	if got := len(strings.Split(out, "\n")); got != m.height {
		t.Fatalf("expected %d lines, got %d", m.height, got)
	}
	for _, want := range []string{"unreviewed", "1-2 of 2", "a.jpg"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected view to contain %q", want)
		}
	}
}
