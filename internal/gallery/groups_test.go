package gallery

import (
	"testing"

	"culler-cli/internal/model"
)

func groupsOf(counts ...int) []model.Group {
	out := make([]model.Group, 0, len(counts))
	for _, c := range counts {
		out = append(out, model.Group{PhotoCount: c})
	}
	return out
}

func TestLocateGroup_CoversEveryIndexAndRoundTrips(t *testing.T) {
	t.Parallel()

	partitions := [][]int{{10}, {7, 3}, {1, 1, 1}, {4, 0, 5}, {2, 6, 1, 3}}
	for _, counts := range partitions {
		groups := groupsOf(counts...)
		n := 0
		for _, c := range counts {
			n += c
		}
		if !GroupsValid(groups, n) {
			t.Fatalf("expected partition %v to be valid for n=%d", counts, n)
		}
		for i := 0; i < n; i++ {
			pos, ok := LocateGroup(groups, n, i)
			if !ok {
				t.Fatalf("partition %v: expected index %d to be located", counts, i)
			}
			if pos.GroupStart > i || i >= pos.GroupEnd {
				t.Fatalf("partition %v: index %d outside [%d,%d)", counts, i, pos.GroupStart, pos.GroupEnd)
			}
			if pos.GroupStart+pos.IndexInGroup != i {
				t.Fatalf("partition %v: round trip for %d gave %d", counts, i, pos.GroupStart+pos.IndexInGroup)
			}
			if pos.PhotoCount != counts[pos.GroupIndex] {
				t.Fatalf("partition %v: expected count %d, got %d", counts, counts[pos.GroupIndex], pos.PhotoCount)
			}
		}
		for _, i := range []int{-1, n, n + 5} {
			if _, ok := LocateGroup(groups, n, i); ok {
				t.Fatalf("partition %v: expected index %d to be out of range", counts, i)
			}
		}
	}
}

func TestLocateGroup_InactiveGrouping(t *testing.T) {
	t.Parallel()

	if _, ok := LocateGroup(nil, 5, 2); ok {
		t.Fatalf("expected no group when grouping is inactive")
	}
}

func TestLocateGroup_MalformedOverlayFailsClosed(t *testing.T) {
	t.Parallel()

	// Sum 12 > n=10: the last group runs past the list, so its indices are ungrouped.
	groups := groupsOf(7, 5)
	if pos, ok := LocateGroup(groups, 10, 3); !ok || pos.GroupIndex != 0 {
		t.Fatalf("expected index 3 in group 0; got %+v ok=%v", pos, ok)
	}
	if _, ok := LocateGroup(groups, 10, 8); ok {
		t.Fatalf("expected index 8 to be treated as ungrouped")
	}

	// Sum 4 < n=6: trailing indices are ungrouped.
	short := groupsOf(4)
	if _, ok := LocateGroup(short, 6, 5); ok {
		t.Fatalf("expected index 5 to be ungrouped")
	}

	// Negative counts make every later offset ambiguous.
	neg := groupsOf(3, -1, 4)
	if _, ok := LocateGroup(neg, 6, 4); ok {
		t.Fatalf("expected negative count to fail closed")
	}
	if GroupsValid(neg, 6) {
		t.Fatalf("expected negative partition to be invalid")
	}
}

func TestGroupRange(t *testing.T) {
	t.Parallel()

	groups := groupsOf(7, 3)
	start, end, ok := GroupRange(groups, 10, 1)
	if !ok || start != 7 || end != 10 {
		t.Fatalf("expected [7,10); got [%d,%d) ok=%v", start, end, ok)
	}
	if _, _, ok := GroupRange(groups, 10, 2); ok {
		t.Fatalf("expected out-of-range group to fail")
	}
}

func TestRemoveFromGroups_DropsEmptyGroup(t *testing.T) {
	t.Parallel()

	got := removeFromGroups(groupsOf(2, 1, 3), 6, 2)
	if len(got) != 2 || got[0].PhotoCount != 2 || got[1].PhotoCount != 3 {
		t.Fatalf("expected [2 3]; got %+v", got)
	}
	got = removeFromGroups(groupsOf(2, 4), 6, 3)
	if len(got) != 2 || got[1].PhotoCount != 3 {
		t.Fatalf("expected [2 3]; got %+v", got)
	}
}
