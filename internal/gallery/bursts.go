package gallery

import (
	"sort"

	"culler-cli/internal/model"
)

// BurstEntry is the per-index lookup record for a burst member.
type BurstEntry struct {
	BurstID    string
	IsFirst    bool
	BurstCount int
	StartIndex int
}

// BuildBurstIndex expands every burst into one entry per member index.
// Bursts that overlap an earlier burst or fall outside [0, n) are skipped.
func BuildBurstIndex(bursts []model.Burst, n int) map[int]BurstEntry {
	idx := make(map[int]BurstEntry)
	for _, b := range bursts {
		if b.Count < 1 || b.StartIndex < 0 || b.End() > n {
			continue
		}
		overlaps := false
		for i := b.StartIndex; i < b.End(); i++ {
			if _, ok := idx[i]; ok {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}
		for i := b.StartIndex; i < b.End(); i++ {
			idx[i] = BurstEntry{
				BurstID:    b.ID,
				IsFirst:    i == b.StartIndex,
				BurstCount: b.Count,
				StartIndex: b.StartIndex,
			}
		}
	}
	return idx
}

// removeFromBursts shifts the burst overlay after index is spliced out of the list.
func removeFromBursts(bursts []model.Burst, index int) []model.Burst {
	out := make([]model.Burst, 0, len(bursts))
	for _, b := range bursts {
		switch {
		case index >= b.StartIndex && index < b.End():
			b.Count--
			if b.Count == 0 {
				continue
			}
		case b.StartIndex > index:
			b.StartIndex--
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartIndex < out[j].StartIndex })
	return out
}
