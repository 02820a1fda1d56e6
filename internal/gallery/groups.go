package gallery

import "culler-cli/internal/model"

// GroupPos locates a flat index inside the grouping overlay.
type GroupPos struct {
	GroupIndex   int
	GroupStart   int
	GroupEnd     int
	IndexInGroup int
	PhotoCount   int
}

// LocateGroup finds the group holding index in a list of n photos.
//
// It returns false when grouping is inactive, the index is outside [0, n), or the
// overlay is malformed around the index (negative counts, or a group running past
// the end of the list). Malformed input is treated as ungrouped, never as an error.
func LocateGroup(groups []model.Group, n, index int) (GroupPos, bool) {
	if len(groups) == 0 || index < 0 || index >= n {
		return GroupPos{}, false
	}
	start := 0
	for gi, g := range groups {
		if g.PhotoCount < 0 {
			return GroupPos{}, false
		}
		end := start + g.PhotoCount
		if index >= start && index < end {
			if end > n {
				return GroupPos{}, false
			}
			return GroupPos{
				GroupIndex:   gi,
				GroupStart:   start,
				GroupEnd:     end,
				IndexInGroup: index - start,
				PhotoCount:   g.PhotoCount,
			}, true
		}
		start = end
	}
	return GroupPos{}, false
}

// GroupRange returns the [start, end) offsets of groups[gi], clamped to n.
func GroupRange(groups []model.Group, n, gi int) (int, int, bool) {
	if gi < 0 || gi >= len(groups) {
		return 0, 0, false
	}
	start := 0
	for i := 0; i < gi; i++ {
		if groups[i].PhotoCount < 0 {
			return 0, 0, false
		}
		start += groups[i].PhotoCount
	}
	if groups[gi].PhotoCount < 0 {
		return 0, 0, false
	}
	end := start + groups[gi].PhotoCount
	if start > n {
		start = n
	}
	if end > n {
		end = n
	}
	return start, end, true
}

// GroupsValid reports whether the overlay partitions exactly n photos.
func GroupsValid(groups []model.Group, n int) bool {
	sum := 0
	for _, g := range groups {
		if g.PhotoCount < 0 {
			return false
		}
		sum += g.PhotoCount
	}
	return sum == n
}

// removeFromGroups decrements the group holding index; a group that reaches zero
// is dropped. Indices the overlay cannot place leave it unchanged.
func removeFromGroups(groups []model.Group, n, index int) []model.Group {
	pos, ok := LocateGroup(groups, n, index)
	if !ok {
		return groups
	}
	out := make([]model.Group, 0, len(groups))
	for gi, g := range groups {
		if gi == pos.GroupIndex {
			g.PhotoCount--
			if g.PhotoCount == 0 {
				continue
			}
		}
		out = append(out, g)
	}
	return out
}
