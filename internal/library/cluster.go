package library

import (
	"time"

	"culler-cli/internal/model"
)

// GroupBy values.
const (
	GroupByDay    = "day"
	GroupByFolder = "folder"
	GroupByNone   = "none"
)

const dayLabel = "Mon, Jan 2 2006"

type ClusterOptions struct {
	GroupBy  string
	BurstGap time.Duration
	BurstMin int
}

// Cluster derives the group and burst overlays for photos, which must already be in
// capture order. Groups cover every photo exactly once; bursts never cross a group
// boundary.
func Cluster(photos []model.Photo, opts ClusterOptions) ([]model.Group, []model.Burst) {
	groups := groupPhotos(photos, opts.GroupBy)
	minCount := opts.BurstMin
	if minCount < 2 {
		minCount = 2
	}

	var bursts []model.Burst
	start := 0
	for _, g := range groupsOrWhole(groups, len(photos)) {
		bursts = append(bursts, findBursts(photos, start, start+g.PhotoCount, opts.BurstGap, minCount)...)
		start += g.PhotoCount
	}
	return groups, bursts
}

func groupsOrWhole(groups []model.Group, n int) []model.Group {
	if len(groups) > 0 {
		return groups
	}
	return []model.Group{{PhotoCount: n}}
}

func groupPhotos(photos []model.Photo, by string) []model.Group {
	if by == GroupByNone || len(photos) == 0 {
		return nil
	}
	label := func(p model.Photo) string {
		if by == GroupByFolder {
			return p.Dir
		}
		return p.TakenAt.Format(dayLabel)
	}

	var out []model.Group
	for _, p := range photos {
		l := label(p)
		if len(out) > 0 && out[len(out)-1].Label == l {
			out[len(out)-1].PhotoCount++
			continue
		}
		out = append(out, model.Group{Label: l, PhotoCount: 1})
	}
	return out
}

// findBursts scans [start, end) for runs of still photos from one camera taken no
// more than gap apart.
func findBursts(photos []model.Photo, start, end int, gap time.Duration, minCount int) []model.Burst {
	var out []model.Burst
	flush := func(runStart, runEnd int) {
		if runEnd-runStart >= minCount {
			out = append(out, model.Burst{ID: photos[runStart].Key, StartIndex: runStart, Count: runEnd - runStart})
		}
	}

	runStart := start
	for i := start + 1; i <= end; i++ {
		if i < end && sameBurst(photos[i-1], photos[i], gap) {
			continue
		}
		flush(runStart, i)
		runStart = i
	}
	return out
}

func sameBurst(a, b model.Photo, gap time.Duration) bool {
	if a.IsVideo || b.IsVideo {
		return false
	}
	if a.Make == "" && a.Model == "" {
		return false
	}
	if a.Camera() != b.Camera() {
		return false
	}
	d := b.TakenAt.Sub(a.TakenAt)
	return d >= 0 && d <= gap
}
