// Package session owns the working set of one gallery page: the photo list, the
// selection/navigation engine, the fade tracker and the viewer. Every method is
// meant to be called from a single event loop; only CurateRequest.Run may be called
// from other goroutines.
package session

import (
	"context"
	"fmt"
	"path"
	"time"

	"culler-cli/internal/gallery"
	"culler-cli/internal/model"

	"golang.org/x/sync/errgroup"
)

// Curator is the curation mutation endpoint.
type Curator interface {
	Curate(ctx context.Context, key string, c model.Curation) error
}

// AdvancePolicy decides what happens to a multi-selection after a curation shortcut.
type AdvancePolicy string

const (
	// AdvanceCursor collapses the selection onto the next visible photo after the
	// highest curated index.
	AdvanceCursor AdvancePolicy = "cursor"
	// AdvanceClear clears a multi-selection. Single selections still advance.
	AdvanceClear AdvancePolicy = "clear"
)

// ParseAdvancePolicy resolves a policy name; empty means AdvanceCursor.
func ParseAdvancePolicy(s string) (AdvancePolicy, error) {
	switch AdvancePolicy(s) {
	case "", AdvanceCursor:
		return AdvanceCursor, nil
	case AdvanceClear:
		return AdvanceClear, nil
	}
	return "", fmt.Errorf("unknown advance policy: %q", s)
}

type Options struct {
	View              model.View
	Capabilities      gallery.Capabilities
	FadeDuration      time.Duration
	DoubleClickWindow time.Duration
	Advance           AdvancePolicy
	Notifier          Notifier
	// Now defaults to time.Now.
	Now func() time.Time
}

type Session struct {
	opts Options

	offset int
	total  int
	photos []model.Photo

	engine *gallery.Engine
	fades  *gallery.FadeTracker
	viewer *Viewer
}

func New(opts Options) *Session {
	if opts.Notifier == nil {
		opts.Notifier = LogNotifier{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.FadeDuration <= 0 {
		opts.FadeDuration = gallery.DefaultFadeDuration
	}
	if opts.Advance == "" {
		opts.Advance = AdvanceCursor
	}
	if opts.View.Name == "" {
		opts.View, _ = model.ParseView(model.ViewAll)
	}
	return &Session{
		opts:   opts,
		engine: gallery.NewEngine(opts.Capabilities, opts.DoubleClickWindow),
		fades:  gallery.NewFadeTracker(),
	}
}

// Load replaces the working set with a freshly fetched page. Pending fades, the
// viewer, the selection and the expanded bursts are all discarded.
func (s *Session) Load(p model.Page) {
	s.fades.Clear()
	s.viewer = nil
	s.offset = p.Offset
	s.total = p.Total
	s.photos = append([]model.Photo(nil), p.Photos...)
	s.engine.Reset(len(s.photos), p.Groups, p.Bursts)
}

// Close releases timers and state tied to the page.
func (s *Session) Close() {
	s.fades.Clear()
	s.viewer = nil
}

func (s *Session) View() model.View            { return s.opts.View }
func (s *Session) Options() Options            { return s.opts }
func (s *Session) Engine() *gallery.Engine     { return s.engine }
func (s *Session) Fades() *gallery.FadeTracker { return s.fades }
func (s *Session) Len() int                    { return len(s.photos) }
func (s *Session) Offset() int                 { return s.offset }
func (s *Session) Total() int                  { return s.total }
func (s *Session) Fading(key string) bool      { return s.fades.Fading(key) }

// SetNotifier swaps the notification sink, e.g. once the TUI owns the terminal.
func (s *Session) SetNotifier(n Notifier) {
	if n == nil {
		n = discardNotifier{}
	}
	s.opts.Notifier = n
}

func (s *Session) notify(l Level, key, msg string) {
	s.opts.Notifier.Notify(Notification{Level: l, Key: key, Message: msg})
}

// Photos returns the working list. Callers must not modify it.
func (s *Session) Photos() []model.Photo { return s.photos }

func (s *Session) Photo(i int) (model.Photo, bool) {
	if i < 0 || i >= len(s.photos) {
		return model.Photo{}, false
	}
	return s.photos[i], true
}

func (s *Session) IndexOf(key string) (int, bool) {
	for i := range s.photos {
		if s.photos[i].Key == key {
			return i, true
		}
	}
	return 0, false
}

// FadingAt reports whether the photo at index i is fading out.
func (s *Session) FadingAt(i int) bool {
	p, ok := s.Photo(i)
	return ok && s.fades.Fading(p.Key)
}

// Click routes a pointer click to the engine; a double click opens the viewer.
func (s *Session) Click(index int, mods gallery.Modifiers) Outcome {
	if s.viewer != nil {
		return Outcome{}
	}
	res := s.engine.Click(index, mods, s.opts.Now())
	if res.Open {
		if s.OpenViewer(res.Index) {
			return Outcome{Handled: true, OpenViewer: true}
		}
		return Outcome{Handled: true}
	}
	return Outcome{Handled: res.Changed, Moved: res.Changed}
}

// CurateRequest is one planned mutation. It carries everything needed to run the
// mutation off the event loop.
type CurateRequest struct {
	Key      string
	Action   Action
	Curation model.Curation
}

// CurateResult is the outcome of one mutation.
type CurateResult struct {
	Request CurateRequest
	Err     error
}

// Run performs the mutation. It is safe to call concurrently.
func (r CurateRequest) Run(ctx context.Context, c Curator) CurateResult {
	return CurateResult{Request: r, Err: c.Curate(ctx, r.Key, r.Curation)}
}

// RunCurations issues every request concurrently and waits for all of them. Each
// result is independent: one failure never cancels or rolls back the others.
func RunCurations(ctx context.Context, c Curator, reqs []CurateRequest) []CurateResult {
	results := make([]CurateResult, len(reqs))
	var g errgroup.Group
	for i, r := range reqs {
		g.Go(func() error {
			results[i] = r.Run(ctx, c)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Curate plans the action for the current targets (the viewer's photo when it is
// open, otherwise the selection) and advances the cursor. Photos that are fading
// out are skipped.
func (s *Session) Curate(a Action) []CurateRequest {
	if err := a.Validate(); err != nil {
		s.notify(LevelError, "", err.Error())
		return nil
	}
	if s.viewer != nil {
		return s.curateInViewer(a)
	}

	selected := s.engine.Selected()
	if len(selected) == 0 {
		return nil
	}
	var targets []int
	for _, i := range selected {
		if !s.FadingAt(i) {
			targets = append(targets, i)
		}
	}
	if len(targets) == 0 {
		return nil
	}
	reqs := s.plan(a, targets)

	last := selected[len(selected)-1]
	switch {
	case len(selected) == 1:
		if next, ok := s.engine.NextVisible(last); ok {
			s.engine.Select(next)
		}
	case s.opts.Advance == AdvanceClear:
		s.engine.ClearSelection()
	default:
		if next, ok := s.engine.NextVisible(last); ok {
			s.engine.Select(next)
		} else {
			s.engine.Select(last)
		}
	}
	return reqs
}

// CurateKeys plans the action for explicit photo keys without touching the cursor.
func (s *Session) CurateKeys(a Action, keys []string) ([]CurateRequest, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	var targets []int
	for _, k := range keys {
		i, ok := s.IndexOf(k)
		if !ok {
			return nil, model.NotFoundError{Kind: "photo", ID: k}
		}
		if !s.FadingAt(i) {
			targets = append(targets, i)
		}
	}
	return s.plan(a, targets), nil
}

func (s *Session) plan(a Action, indices []int) []CurateRequest {
	reqs := make([]CurateRequest, 0, len(indices))
	for _, i := range indices {
		p := s.photos[i]
		reqs = append(reqs, CurateRequest{Key: p.Key, Action: a, Curation: a.Curation(p)})
	}
	return reqs
}

// Apply folds a finished mutation back into the page. On success the photo is
// updated in place and, when the fade policy says so, starts fading; the returned
// entry must be expired with ExpireFade once its deadline passes. Failures are
// reported and leave the page untouched.
func (s *Session) Apply(res CurateResult) (gallery.FadeEntry, bool) {
	name := path.Base(res.Request.Key)
	if res.Err != nil {
		s.notify(LevelError, res.Request.Key, fmt.Sprintf("%s %s failed: %v", res.Request.Action, name, res.Err))
		return gallery.FadeEntry{}, false
	}
	i, ok := s.IndexOf(res.Request.Key)
	if !ok {
		return gallery.FadeEntry{}, false
	}
	s.photos[i] = res.Request.Curation.Apply(s.photos[i])
	if !ShouldFade(s.opts.View, res.Request.Action, s.photos[i]) {
		return gallery.FadeEntry{}, false
	}
	e := s.fades.Start(res.Request.Key, s.opts.Now(), s.opts.FadeDuration)
	s.notify(LevelInfo, res.Request.Key, fmt.Sprintf("%s %s (z to undo)", res.Request.Action, name))
	return e, true
}

// ExpireFade removes the photo if token is still its live fade.
func (s *Session) ExpireFade(key string, token uint64) bool {
	if !s.fades.Expire(key, token) {
		return false
	}
	i, ok := s.IndexOf(key)
	if !ok {
		return false
	}
	s.removeAt(i)
	return true
}

// ExpireDue removes every photo whose fade deadline has passed and returns their keys.
func (s *Session) ExpireDue(now time.Time) []string {
	var keys []string
	for _, e := range s.fades.Due(now) {
		if s.ExpireFade(e.Key, e.Token) {
			keys = append(keys, e.Key)
		}
	}
	return keys
}

// Undo cancels the pending removal of key. The mutation itself is not reverted.
func (s *Session) Undo(key string) bool {
	return s.fades.Undo(key)
}

// UndoLatest cancels the most recently started fade.
func (s *Session) UndoLatest() (string, bool) {
	e, ok := s.fades.Latest()
	if !ok {
		return "", false
	}
	s.fades.Undo(e.Key)
	return e.Key, true
}

// UndoAll cancels every pending fade.
func (s *Session) UndoAll() int {
	n := s.fades.Len()
	s.fades.Clear()
	return n
}

func (s *Session) removeAt(i int) {
	s.photos = append(s.photos[:i], s.photos[i+1:]...)
	s.engine.RemoveAt(i)
	if s.total > 0 {
		s.total--
	}
	if s.viewer == nil {
		return
	}
	switch {
	case len(s.photos) == 0:
		s.viewer = nil
	case s.viewer.index > i:
		s.viewer.index--
	case s.viewer.index >= len(s.photos):
		s.viewer.index = len(s.photos) - 1
	}
}
