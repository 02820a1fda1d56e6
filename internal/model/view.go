package model

import (
	"fmt"
	"strings"
)

// View is the purpose of a page: it filters the library and tells the fade policy
// whether the page is for triaging unreviewed photos.
type View struct {
	Name   string `json:"name"`
	Triage bool   `json:"triage"`
}

const (
	ViewAll        = "all"
	ViewUnreviewed = "unreviewed"
	ViewPicks      = "picks"
	ViewTrash      = "trash"
)

var views = []View{
	{Name: ViewAll},
	{Name: ViewUnreviewed, Triage: true},
	{Name: ViewPicks},
	{Name: ViewTrash},
}

// Views lists the known views in display order.
func Views() []View {
	out := make([]View, len(views))
	copy(out, views)
	return out
}

// ParseView resolves a view name (case-insensitive, empty means "all").
func ParseView(name string) (View, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = ViewAll
	}
	for _, v := range views {
		if v.Name == name {
			return v, nil
		}
	}
	return View{}, fmt.Errorf("unknown view: %q", name)
}

// Matches reports whether p belongs in the view.
func (v View) Matches(p Photo) bool {
	switch v.Name {
	case ViewUnreviewed:
		return !p.IsCurated && !p.IsTrashed && p.Rating == 0
	case ViewPicks:
		return p.IsCurated && !p.IsTrashed
	case ViewTrash:
		return p.IsTrashed
	default:
		return !p.IsTrashed
	}
}
