package library

import (
	"context"

	"culler-cli/internal/model"
)

// PhotoLister is the read side of the index.
type PhotoLister interface {
	ListPhotos(ctx context.Context, v model.View, offset, limit int) ([]model.Photo, int, error)
}

// BuildPage fetches one window of a view and attaches its overlays. Overlays are
// computed over the window only, so their counts always sum to len(Photos).
func BuildPage(ctx context.Context, l PhotoLister, v model.View, offset, limit int, opts ClusterOptions) (model.Page, error) {
	photos, total, err := l.ListPhotos(ctx, v, offset, limit)
	if err != nil {
		return model.Page{}, err
	}
	groups, bursts := Cluster(photos, opts)
	return model.Page{
		View:   v.Name,
		Offset: offset,
		Total:  total,
		Photos: photos,
		Groups: groups,
		Bursts: bursts,
	}, nil
}
