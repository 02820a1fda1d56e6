package library

import (
	"context"
	"time"

	"culler-cli/internal/model"

	"k8s.io/klog/v2"
)

// MetaLastImport is the store meta key holding the last import time (RFC 3339).
const MetaLastImport = "last_import"

// Index is the write side of the photo index.
type Index interface {
	UpsertPhotos(ctx context.Context, photos []model.Photo) (int, error)
	RemoveMissing(ctx context.Context, keep map[string]bool) ([]string, error)
	SetMeta(ctx context.Context, k, v string) error
}

type ImportOptions struct {
	ScanOptions
	// Prune drops indexed photos that are no longer on disk.
	Prune bool
}

type ImportResult struct {
	Scanned int      `json:"scanned"`
	Added   int      `json:"added"`
	Removed []string `json:"removed,omitempty"`
}

// Import scans root and reconciles the index with it.
func Import(ctx context.Context, root string, idx Index, r MetadataReader, opts ImportOptions) (ImportResult, error) {
	photos, err := Scan(ctx, root, r, opts.ScanOptions)
	if err != nil {
		return ImportResult{}, err
	}
	added, err := idx.UpsertPhotos(ctx, photos)
	if err != nil {
		return ImportResult{}, err
	}
	res := ImportResult{Scanned: len(photos), Added: added}
	if opts.Prune {
		keep := make(map[string]bool, len(photos))
		for _, p := range photos {
			keep[p.Key] = true
		}
		res.Removed, err = idx.RemoveMissing(ctx, keep)
		if err != nil {
			return res, err
		}
	}
	if err := idx.SetMeta(ctx, MetaLastImport, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return res, err
	}
	klog.Infof("imported %s: %d scanned, %d new, %d removed", root, res.Scanned, res.Added, len(res.Removed))
	return res, nil
}
