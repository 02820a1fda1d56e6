package gallery

import "culler-cli/internal/model"

// Direction is an arrow-key movement.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return "unknown"
}

// NextRowIndex returns the index one row below i in a grid of the given column count.
//
// Without groups this is i+columns clamped to the list. With groups, rows restart at
// every group boundary: a move off the last (possibly partial) row of a group lands in
// the first row of the next non-empty group at the same column, or at that group's
// last photo when the group is narrower. At the last group i is returned unchanged.
func NextRowIndex(groups []model.Group, n, i, columns int) int {
	if n <= 0 {
		return 0
	}
	if columns < 1 {
		columns = 1
	}
	i = clamp(i, n)
	pos, ok := LocateGroup(groups, n, i)
	if !ok {
		return clamp(i+columns, n)
	}
	row := pos.IndexInGroup / columns
	col := pos.IndexInGroup % columns
	rows := (pos.PhotoCount + columns - 1) / columns
	if row+1 < rows {
		target := pos.GroupStart + (row+1)*columns + col
		if target > pos.GroupEnd-1 {
			target = pos.GroupEnd - 1
		}
		return clamp(target, n)
	}
	start := pos.GroupEnd
	for gi := pos.GroupIndex + 1; gi < len(groups); gi++ {
		count := groups[gi].PhotoCount
		if count <= 0 {
			continue
		}
		if start >= n {
			break
		}
		return clamp(start+min(col, count-1), n)
	}
	return i
}

// PrevRowIndex is the upward counterpart of NextRowIndex. Crossing into the previous
// group lands on that group's last row at the same column, clamped to its last photo.
func PrevRowIndex(groups []model.Group, n, i, columns int) int {
	if n <= 0 {
		return 0
	}
	if columns < 1 {
		columns = 1
	}
	i = clamp(i, n)
	pos, ok := LocateGroup(groups, n, i)
	if !ok {
		return clamp(i-columns, n)
	}
	row := pos.IndexInGroup / columns
	col := pos.IndexInGroup % columns
	if row > 0 {
		return clamp(pos.GroupStart+(row-1)*columns+col, n)
	}
	end := pos.GroupStart
	for gi := pos.GroupIndex - 1; gi >= 0; gi-- {
		count := groups[gi].PhotoCount
		if count <= 0 {
			continue
		}
		start := end - count
		lastRowStart := ((count - 1) / columns) * columns
		return clamp(start+lastRowStart+min(col, count-1-lastRowStart), n)
	}
	return i
}

// Move steps the cursor in dir and makes the result the single selection.
// columns is the live column count of the rendered grid. It returns the new cursor
// and false when the list is empty.
func (e *Engine) Move(dir Direction, columns int) (int, bool) {
	if e.n == 0 {
		return 0, false
	}
	from, ok := e.navOrigin()
	if !ok {
		first := e.resolve(0, -1)
		e.sel.selectOnly(first)
		return first, true
	}

	var target int
	switch dir {
	case Left:
		target = e.stepVisible(from, -1)
	case Right:
		target = e.stepVisible(from, 1)
	case Down:
		target = e.resolve(NextRowIndex(e.activeGroups(), e.n, from, columns), from)
	case Up:
		target = e.resolve(PrevRowIndex(e.activeGroups(), e.n, from, columns), from)
	default:
		target = from
	}
	e.sel.selectOnly(target)
	return target, true
}

// stepVisible moves one visible item in the given direction, staying put at the edges.
func (e *Engine) stepVisible(from, step int) int {
	target := clamp(from+step, e.n)
	if target == from {
		return from
	}
	return e.resolve(target, from)
}

// navOrigin is the index arrow keys move from: the single selected index, or the
// anchor (falling back to the first-added index) of a multi-selection.
func (e *Engine) navOrigin() (int, bool) {
	if cur, ok := e.sel.Current(); ok {
		return clamp(cur, e.n), true
	}
	if e.sel.Len() == 0 {
		return 0, false
	}
	if e.sel.hasAnchor && e.sel.Contains(e.sel.anchor) {
		return clamp(e.sel.anchor, e.n), true
	}
	return clamp(e.sel.order[0], e.n), true
}

func (e *Engine) activeGroups() []model.Group {
	if !e.caps.HasGroups {
		return nil
	}
	return e.groups
}
