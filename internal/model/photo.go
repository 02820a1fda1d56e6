package model

import "time"

// Photo is a single library entry. Key is the path relative to the library root and
// is the stable identity used everywhere outside the engine.
type Photo struct {
	Key       string    `json:"key"`
	Dir       string    `json:"dir"`
	Name      string    `json:"name"`
	IsVideo   bool      `json:"isVideo"`
	Rating    int       `json:"rating"`
	IsCurated bool      `json:"isCurated"`
	IsTrashed bool      `json:"isTrashed"`
	TakenAt   time.Time `json:"takenAt"`
	ModTime   time.Time `json:"modTime"`

	Make   string `json:"make,omitempty"`
	Model  string `json:"model,omitempty"`
	Width  int64  `json:"width,omitempty"`
	Height int64  `json:"height,omitempty"`

	// Swatch is the average colour of the image as #rrggbb (empty when not computed).
	Swatch string `json:"swatch,omitempty"`
}

// Camera identifies the capturing device for burst detection.
func (p Photo) Camera() string {
	return p.Make + "/" + p.Model
}

// Group is a contiguous run of photos in a page. Offsets are derived by summing
// PhotoCount over preceding groups.
type Group struct {
	Label      string `json:"label"`
	PhotoCount int    `json:"photoCount"`
}

// Burst is a contiguous run of rapid-succession shots.
type Burst struct {
	ID         string `json:"burstId"`
	StartIndex int    `json:"startIndex"`
	Count      int    `json:"count"`
}

// End returns the first index after the burst.
func (b Burst) End() int { return b.StartIndex + b.Count }

// Page is one fetch of the working set.
type Page struct {
	View   string  `json:"view"`
	Offset int     `json:"offset"`
	Total  int     `json:"total"`
	Photos []Photo `json:"photos"`
	Groups []Group `json:"groups,omitempty"`
	Bursts []Burst `json:"bursts,omitempty"`
}

// Curation is the full set of mutable curation fields written by a mutation.
type Curation struct {
	IsCurated bool `json:"isCurated"`
	IsTrashed bool `json:"isTrashed"`
	Rating    int  `json:"rating"`
}

// CurationOf returns the current curation fields of p.
func CurationOf(p Photo) Curation {
	return Curation{IsCurated: p.IsCurated, IsTrashed: p.IsTrashed, Rating: p.Rating}
}

// Apply returns p with c written over its curation fields.
func (c Curation) Apply(p Photo) Photo {
	p.IsCurated = c.IsCurated
	p.IsTrashed = c.IsTrashed
	p.Rating = c.Rating
	return p
}
