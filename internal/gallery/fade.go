package gallery

import (
	"sort"
	"time"
)

// DefaultFadeDuration is the grace period between curating a photo out of a view
// and removing it from the list.
const DefaultFadeDuration = 3 * time.Second

// FadeEntry is a pending removal. Token identifies this particular countdown so a
// stale timer for a replaced or undone fade can be recognised and ignored.
type FadeEntry struct {
	Key      string
	Token    uint64
	Deadline time.Time
}

// FadeTracker records photos that were just curated and are fading out.
// A key is tracked at most once; restarting a fade supersedes the previous one.
type FadeTracker struct {
	next    uint64
	entries map[string]FadeEntry
}

func NewFadeTracker() *FadeTracker {
	return &FadeTracker{entries: map[string]FadeEntry{}}
}

// Start begins (or restarts) the fade for key.
func (t *FadeTracker) Start(key string, now time.Time, d time.Duration) FadeEntry {
	if d <= 0 {
		d = DefaultFadeDuration
	}
	t.next++
	e := FadeEntry{Key: key, Token: t.next, Deadline: now.Add(d)}
	t.entries[key] = e
	return e
}

// Fading reports whether key has a pending removal.
func (t *FadeTracker) Fading(key string) bool {
	_, ok := t.entries[key]
	return ok
}

// Undo cancels the pending removal for key.
func (t *FadeTracker) Undo(key string) bool {
	if _, ok := t.entries[key]; !ok {
		return false
	}
	delete(t.entries, key)
	return true
}

// Expire consumes the entry for key if token is still the live countdown. The caller
// removes the photo only when Expire returns true.
func (t *FadeTracker) Expire(key string, token uint64) bool {
	e, ok := t.entries[key]
	if !ok || e.Token != token {
		return false
	}
	delete(t.entries, key)
	return true
}

// Due returns entries whose deadline is at or before now, earliest first.
func (t *FadeTracker) Due(now time.Time) []FadeEntry {
	var out []FadeEntry
	for _, e := range t.entries {
		if !e.Deadline.After(now) {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return out
}

// Latest returns the most recently started fade.
func (t *FadeTracker) Latest() (FadeEntry, bool) {
	var best FadeEntry
	found := false
	for _, e := range t.entries {
		if !found || e.Token > best.Token {
			best = e
			found = true
		}
	}
	return best, found
}

// Entries returns all pending fades, earliest deadline first.
func (t *FadeTracker) Entries() []FadeEntry {
	out := make([]FadeEntry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	sortEntries(out)
	return out
}

func (t *FadeTracker) Len() int { return len(t.entries) }

// Clear drops every pending fade. Timers still in flight will fail Expire.
func (t *FadeTracker) Clear() {
	t.entries = map[string]FadeEntry{}
}

func sortEntries(es []FadeEntry) {
	sort.Slice(es, func(i, j int) bool {
		if es[i].Deadline.Equal(es[j].Deadline) {
			return es[i].Token < es[j].Token
		}
		return es[i].Deadline.Before(es[j].Deadline)
	})
}
