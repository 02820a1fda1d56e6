package gallery

import "sort"

// Selection is a set of flat indices that remembers insertion order and the anchor
// used for shift-range selection.
type Selection struct {
	order     []int
	set       map[int]struct{}
	anchor    int
	hasAnchor bool
}

func newSelection() Selection {
	return Selection{set: map[int]struct{}{}}
}

func (s *Selection) Len() int { return len(s.order) }

func (s *Selection) Contains(i int) bool {
	_, ok := s.set[i]
	return ok
}

// Current is the cursor: the only element of a single-element selection.
func (s *Selection) Current() (int, bool) {
	if len(s.order) != 1 {
		return 0, false
	}
	return s.order[0], true
}

// Anchor returns the range-select anchor, if any.
func (s *Selection) Anchor() (int, bool) {
	return s.anchor, s.hasAnchor
}

// Indices returns the selected indices in ascending order.
func (s *Selection) Indices() []int {
	out := make([]int, len(s.order))
	copy(out, s.order)
	sort.Ints(out)
	return out
}

func (s *Selection) add(i int) bool {
	if s.Contains(i) {
		return false
	}
	s.set[i] = struct{}{}
	s.order = append(s.order, i)
	return true
}

func (s *Selection) remove(i int) bool {
	if !s.Contains(i) {
		return false
	}
	delete(s.set, i)
	for k, v := range s.order {
		if v == i {
			s.order = append(s.order[:k], s.order[k+1:]...)
			break
		}
	}
	return true
}

func (s *Selection) clear() {
	s.order = nil
	s.set = map[int]struct{}{}
}

// selectOnly replaces the selection with {i} and moves the anchor to i.
func (s *Selection) selectOnly(i int) {
	s.clear()
	s.add(i)
	s.anchor = i
	s.hasAnchor = true
}

// remap rewrites every selected index through f; f returning false drops the index.
// Duplicates produced by f collapse onto the earliest occurrence.
func (s *Selection) remap(f func(int) (int, bool)) {
	old := s.order
	s.clear()
	for _, i := range old {
		if j, ok := f(i); ok {
			s.add(j)
		}
	}
	if s.hasAnchor {
		if j, ok := f(s.anchor); ok {
			s.anchor = j
		} else {
			s.hasAnchor = false
		}
	}
}
