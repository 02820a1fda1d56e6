// Package gallery maps a flat, paginated photo list onto its on-screen hierarchy
// (grid, groups, burst stacks) and computes selection and navigation transitions
// over it. It has no rendering or I/O dependencies: callers pass the live column
// count on every vertical move.
package gallery

import (
	"time"

	"culler-cli/internal/model"
)

// Capabilities describe which overlays and selection modes a gallery variant uses.
type Capabilities struct {
	HasGroups    bool
	HasBursts    bool
	SingleSelect bool
}

// Modifiers held during a click.
type Modifiers struct {
	Shift bool
	Ctrl  bool
}

// DefaultDoubleClickWindow is used when the engine is built without one.
const DefaultDoubleClickWindow = 400 * time.Millisecond

// ClickResult reports what a click did.
type ClickResult struct {
	Index int
	// Open is set for a double click: the viewer should open at Index and the
	// selection was left untouched.
	Open    bool
	Changed bool
}

type clickRecord struct {
	index int
	at    time.Time
	valid bool
}

// Engine owns the selection, expanded-burst set and overlay bookkeeping for one page.
// It is not safe for concurrent use; all calls are expected from one event loop.
type Engine struct {
	caps              Capabilities
	doubleClickWindow time.Duration

	n        int
	groups   []model.Group
	bursts   []model.Burst
	burstIdx map[int]BurstEntry
	expanded map[string]bool

	sel       Selection
	lastClick clickRecord
}

// NewEngine returns an empty engine.
func NewEngine(caps Capabilities, doubleClickWindow time.Duration) *Engine {
	if doubleClickWindow <= 0 {
		doubleClickWindow = DefaultDoubleClickWindow
	}
	return &Engine{
		caps:              caps,
		doubleClickWindow: doubleClickWindow,
		burstIdx:          map[int]BurstEntry{},
		expanded:          map[string]bool{},
		sel:               newSelection(),
	}
}

// Reset replaces the working set. Selection and expanded bursts do not survive a
// page change.
func (e *Engine) Reset(n int, groups []model.Group, bursts []model.Burst) {
	if n < 0 {
		n = 0
	}
	e.n = n
	e.groups = nil
	if e.caps.HasGroups {
		e.groups = append([]model.Group(nil), groups...)
	}
	e.bursts = nil
	if e.caps.HasBursts {
		e.bursts = append([]model.Burst(nil), bursts...)
	}
	e.burstIdx = BuildBurstIndex(e.bursts, e.n)
	e.expanded = map[string]bool{}
	e.sel = newSelection()
	e.lastClick = clickRecord{}
}

func (e *Engine) Capabilities() Capabilities { return e.caps }
func (e *Engine) Len() int                   { return e.n }

// Groups returns a copy of the active grouping overlay.
func (e *Engine) Groups() []model.Group { return append([]model.Group(nil), e.groups...) }

// Bursts returns a copy of the active burst overlay.
func (e *Engine) Bursts() []model.Burst { return append([]model.Burst(nil), e.bursts...) }

// LocateGroup is LocateGroup over the engine's overlay.
func (e *Engine) LocateGroup(index int) (GroupPos, bool) {
	return LocateGroup(e.activeGroups(), e.n, index)
}

// BurstAt returns the burst entry for index, if it belongs to one.
func (e *Engine) BurstAt(index int) (BurstEntry, bool) {
	be, ok := e.burstIdx[index]
	return be, ok
}

// Expanded reports whether the burst is currently expanded.
func (e *Engine) Expanded(burstID string) bool { return e.expanded[burstID] }

// Selection exposes the current selection (read-only by convention).
func (e *Engine) Selection() *Selection { return &e.sel }

// Selected returns the selected indices in ascending order.
func (e *Engine) Selected() []int { return e.sel.Indices() }

// Cursor returns the single-selection cursor.
func (e *Engine) Cursor() (int, bool) { return e.sel.Current() }

// Select makes index (resolved to a visible target) the only selection.
func (e *Engine) Select(index int) (int, bool) {
	if e.n == 0 {
		return 0, false
	}
	i := e.resolve(index, index)
	e.sel.selectOnly(i)
	return i, true
}

// ClearSelection empties the selection. The anchor is kept.
func (e *Engine) ClearSelection() {
	e.sel.clear()
}

// Click applies a pointer click at index. Two plain clicks on the same target within
// the double-click window open the viewer instead of changing the selection.
func (e *Engine) Click(index int, mods Modifiers, at time.Time) ClickResult {
	if index < 0 || index >= e.n {
		return ClickResult{Index: index}
	}
	index = e.resolve(index, index)

	if !mods.Shift && !mods.Ctrl && e.lastClick.valid && e.lastClick.index == index &&
		at.Sub(e.lastClick.at) <= e.doubleClickWindow && !at.Before(e.lastClick.at) {
		e.lastClick = clickRecord{}
		return ClickResult{Index: index, Open: true}
	}
	// Only a plain click can start a double click.
	e.lastClick = clickRecord{}
	if !mods.Shift && !mods.Ctrl {
		e.lastClick = clickRecord{index: index, at: at, valid: true}
	}

	if e.caps.SingleSelect {
		mods = Modifiers{}
	}
	switch {
	case mods.Shift && e.sel.hasAnchor:
		e.selectRange(e.sel.anchor, index)
	case mods.Ctrl:
		if e.sel.Contains(index) {
			e.sel.remove(index)
		} else {
			e.sel.add(index)
			e.sel.anchor = index
			e.sel.hasAnchor = true
		}
	default:
		e.sel.selectOnly(index)
	}
	return ClickResult{Index: index, Changed: true}
}

// selectRange replaces the selection with the visible indices of [min(a,b), max(a,b)].
// The anchor is not moved.
func (e *Engine) selectRange(a, b int) {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	lo = clamp(lo, e.n)
	hi = clamp(hi, e.n)
	anchor, has := e.sel.anchor, e.sel.hasAnchor
	e.sel.clear()
	for i := lo; i <= hi; i++ {
		if e.Visible(i) {
			e.sel.add(i)
		}
	}
	e.sel.anchor, e.sel.hasAnchor = anchor, has
}

// ToggleGroup selects every visible index of group gi, or deselects them all when
// they are already all selected. Selections outside the group are preserved.
func (e *Engine) ToggleGroup(gi int) bool {
	if e.caps.SingleSelect {
		return false
	}
	start, end, ok := GroupRange(e.activeGroups(), e.n, gi)
	if !ok || start >= end {
		return false
	}
	var members []int
	all := true
	for i := start; i < end; i++ {
		if !e.Visible(i) {
			continue
		}
		members = append(members, i)
		if !e.sel.Contains(i) {
			all = false
		}
	}
	if len(members) == 0 {
		return false
	}
	for _, i := range members {
		if all {
			e.sel.remove(i)
		} else {
			e.sel.add(i)
		}
	}
	return true
}

// ToggleBurst expands or collapses the burst containing index. Collapsing moves any
// selected hidden member (and the anchor) onto the stack. It returns the new
// expansion state and false when index is not in a burst.
func (e *Engine) ToggleBurst(index int) (bool, bool) {
	be, ok := e.burstIdx[index]
	if !ok {
		return false, false
	}
	if !e.expanded[be.BurstID] {
		e.expanded[be.BurstID] = true
		return true, true
	}
	delete(e.expanded, be.BurstID)
	end := be.StartIndex + be.BurstCount
	e.sel.remap(func(i int) (int, bool) {
		if i > be.StartIndex && i < end {
			return be.StartIndex, true
		}
		return i, true
	})
	return false, true
}

// RemoveAt splices index out of the working set: the selection drops it and shifts
// later indices down, and the group and burst overlays shrink accordingly.
func (e *Engine) RemoveAt(index int) bool {
	if index < 0 || index >= e.n {
		return false
	}
	if e.caps.HasGroups {
		e.groups = removeFromGroups(e.groups, e.n, index)
	}
	if e.caps.HasBursts {
		for _, b := range e.bursts {
			if b.Count == 1 && b.StartIndex == index {
				delete(e.expanded, b.ID)
			}
		}
		e.bursts = removeFromBursts(e.bursts, index)
	}
	e.n--
	e.burstIdx = BuildBurstIndex(e.bursts, e.n)
	e.sel.remap(func(i int) (int, bool) {
		switch {
		case i == index:
			return 0, false
		case i > index:
			return i - 1, true
		}
		return i, true
	})
	if e.n == 0 {
		e.sel = newSelection()
	} else {
		// A burst shrinking under a hidden selected member can expose a stale index.
		e.sel.remap(func(i int) (int, bool) { return e.resolve(i, i), true })
	}
	if e.lastClick.valid && e.lastClick.index >= index {
		e.lastClick = clickRecord{}
	}
	return true
}

// NextVisible returns the first visible index after i.
func (e *Engine) NextVisible(i int) (int, bool) {
	for j := i + 1; j < e.n; j++ {
		if e.Visible(j) {
			return j, true
		}
	}
	return 0, false
}
