// Package library turns a directory tree of photos into indexed library entries and
// derives the group and burst overlays a gallery page is rendered with.
package library

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"culler-cli/internal/model"

	"github.com/karrick/godirwalk"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

var photoExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".heic": true, ".tif": true, ".tiff": true,
	".dng": true, ".raf": true, ".cr2": true, ".cr3": true, ".nef": true, ".arw": true,
}

var videoExts = map[string]bool{
	".mp4": true, ".mov": true, ".m4v": true,
}

// swatchExts are the formats bild can decode.
var swatchExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

type ScanOptions struct {
	Swatches bool
}

// IsMedia reports whether name has a photo or video extension.
func IsMedia(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return photoExts[ext] || videoExts[ext]
}

// Scan walks root and returns every photo and video in capture order. Hidden files
// and directories (including the .culler store) are skipped. Files whose metadata
// cannot be read are logged and indexed with their modification time.
func Scan(ctx context.Context, root string, r MetadataReader, opts ScanOptions) ([]model.Photo, error) {
	root = filepath.Clean(root)
	var found []model.Photo

	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if path != root && strings.HasPrefix(filepath.Base(path), ".") {
				if de.IsDir() {
					return godirwalk.SkipThis
				}
				return nil
			}
			if de.IsDir() || !IsMedia(path) {
				return nil
			}
			p, err := readPhoto(root, path, r)
			if err != nil {
				klog.Errorf("read failure: %v", err)
				return nil
			}
			klog.V(1).Infof("found %s", p.Key)
			found = append(found, p)
			return nil
		},
		Unsorted: true,
	})
	if err != nil {
		return nil, err
	}

	if opts.Swatches {
		if err := fillSwatches(ctx, root, found); err != nil {
			return nil, err
		}
	}
	SortPhotos(found)
	return found, nil
}

func readPhoto(root, path string, r MetadataReader) (model.Photo, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return model.Photo{}, err
	}
	st, err := os.Stat(path)
	if err != nil {
		return model.Photo{}, err
	}
	key := filepath.ToSlash(rel)
	p := model.Photo{
		Key:     key,
		Dir:     filepath.ToSlash(filepath.Dir(rel)),
		Name:    filepath.Base(rel),
		IsVideo: videoExts[strings.ToLower(filepath.Ext(path))],
		ModTime: st.ModTime(),
	}
	m, err := r.Read(path)
	if err != nil {
		klog.Warningf("metadata for %s: %v", key, err)
	}
	p.Make, p.Model = strings.TrimSpace(m.Make), strings.TrimSpace(m.Model)
	p.Width, p.Height = m.Width, m.Height
	p.TakenAt = m.TakenAt
	if p.TakenAt.IsZero() {
		p.TakenAt = p.ModTime
	}
	return p, nil
}

func fillSwatches(ctx context.Context, root string, photos []model.Photo) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := range photos {
		if !swatchExts[strings.ToLower(filepath.Ext(photos[i].Name))] {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sw, err := Swatch(filepath.Join(root, filepath.FromSlash(photos[i].Key)))
			if err != nil {
				klog.V(1).Infof("swatch %s: %v", photos[i].Key, err)
				return nil
			}
			photos[i].Swatch = sw
			return nil
		})
	}
	return g.Wait()
}

// SortPhotos orders photos by capture time, then key.
func SortPhotos(photos []model.Photo) {
	sort.SliceStable(photos, func(i, j int) bool {
		a, b := photos[i], photos[j]
		if !a.TakenAt.Equal(b.TakenAt) {
			return a.TakenAt.Before(b.TakenAt)
		}
		return a.Key < b.Key
	})
}
