package gallery

// ItemKind distinguishes plain photo tiles from collapsed burst stacks.
type ItemKind int

const (
	ItemPhoto ItemKind = iota
	ItemStack
)

func (k ItemKind) String() string {
	if k == ItemStack {
		return "stack"
	}
	return "photo"
}

// VisibleItem is one independently selectable target.
type VisibleItem struct {
	Index int
	Kind  ItemKind

	BurstID    string
	BurstCount int
	// PositionInBurst is 1-based and only set for members of an expanded burst.
	PositionInBurst int
	IsFirstInBurst  bool
	IsLastInBurst   bool
}

// RenderRange enumerates the visible items for flat indices [start, end).
// A collapsed burst contributes a single stack item at its start index; indices of a
// collapsed burst whose start lies before start are skipped.
func (e *Engine) RenderRange(start, end int) []VisibleItem {
	if start < 0 {
		start = 0
	}
	if end > e.n {
		end = e.n
	}
	var out []VisibleItem
	for i := start; i < end; {
		be, ok := e.burstIdx[i]
		if !ok {
			out = append(out, VisibleItem{Index: i, Kind: ItemPhoto})
			i++
			continue
		}
		if !e.expanded[be.BurstID] {
			if be.IsFirst {
				out = append(out, VisibleItem{
					Index:      i,
					Kind:       ItemStack,
					BurstID:    be.BurstID,
					BurstCount: be.BurstCount,
				})
			}
			next := be.StartIndex + be.BurstCount
			if next > end {
				next = end
			}
			i = next
			continue
		}
		pos := i - be.StartIndex + 1
		out = append(out, VisibleItem{
			Index:           i,
			Kind:            ItemPhoto,
			BurstID:         be.BurstID,
			BurstCount:      be.BurstCount,
			PositionInBurst: pos,
			IsFirstInBurst:  pos == 1,
			IsLastInBurst:   pos == be.BurstCount,
		})
		i++
	}
	return out
}

// Visible reports whether index is independently selectable right now.
func (e *Engine) Visible(index int) bool {
	if index < 0 || index >= e.n {
		return false
	}
	be, ok := e.burstIdx[index]
	if !ok || e.expanded[be.BurstID] {
		return true
	}
	return be.IsFirst
}

// resolve maps a raw target onto a visible index. Hidden burst members resolve to
// their stack, except when stepping forward from the stack itself, which skips past
// the burst. from is the index the move started at.
func (e *Engine) resolve(target, from int) int {
	target = clamp(target, e.n)
	if e.Visible(target) {
		return target
	}
	be := e.burstIdx[target]
	if target > from && from >= be.StartIndex {
		next := be.StartIndex + be.BurstCount
		for next < e.n && !e.Visible(next) {
			next++
		}
		if next >= e.n {
			return from
		}
		return next
	}
	return be.StartIndex
}

func clamp(i, n int) int {
	if n <= 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
