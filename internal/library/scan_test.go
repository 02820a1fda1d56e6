package library

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"culler-cli/internal/model"
)

type fakeReader struct {
	meta map[string]Metadata
}

func (f fakeReader) Read(path string) (Metadata, error) {
	m, ok := f.meta[filepath.Base(path)]
	if !ok {
		return Metadata{}, errors.New("no exif")
	}
	return m, nil
}

func (fakeReader) Close() error { return nil }

func writeFile(t *testing.T, path string, body []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func writePNG(t *testing.T, path string, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func TestScan(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "2024", "b.jpg"), []byte("jpg"))
	writeFile(t, filepath.Join(root, "2024", "a.jpg"), []byte("jpg"))
	writeFile(t, filepath.Join(root, "2024", "clip.mov"), []byte("mov"))
	writeFile(t, filepath.Join(root, "2024", "notes.txt"), []byte("txt"))
	writeFile(t, filepath.Join(root, ".culler", "x.jpg"), []byte("jpg"))
	writeFile(t, filepath.Join(root, "2024", ".hidden.jpg"), []byte("jpg"))

	r := fakeReader{meta: map[string]Metadata{
		"a.jpg":    {TakenAt: t0.Add(2 * time.Second), Make: "Fujifilm", Model: "X100V"},
		"b.jpg":    {TakenAt: t0, Make: "Fujifilm", Model: "X100V"},
		"clip.mov": {TakenAt: t0.Add(time.Second)},
	}}
	got, err := Scan(context.Background(), root, r, ScanOptions{})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	keys := make([]string, len(got))
	for i, p := range got {
		keys[i] = p.Key
	}
	want := []string{"2024/b.jpg", "2024/clip.mov", "2024/a.jpg"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("expected %v, got %v", want, keys)
	}
	if !got[1].IsVideo || got[0].IsVideo {
		t.Fatalf("expected only clip.mov to be a video")
	}
	if got[0].Dir != "2024" || got[0].Name != "b.jpg" || got[0].Camera() != "Fujifilm/X100V" {
		t.Fatalf("unexpected photo %+v", got[0])
	}
}

func TestScan_MissingMetadataFallsBackToModTime(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "a.jpg")
	writeFile(t, path, []byte("jpg"))
	mt := t0.Add(-time.Hour)
	if err := os.Chtimes(path, mt, mt); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	got, err := Scan(context.Background(), root, fakeReader{}, ScanOptions{})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(got) != 1 || !got[0].TakenAt.Equal(mt) {
		t.Fatalf("expected taken time from mod time, got %+v", got)
	}
}

func TestScan_Swatches(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writePNG(t, filepath.Join(root, "red.png"), color.RGBA{R: 200, G: 10, B: 20, A: 255})
	got, err := Scan(context.Background(), root, fakeReader{}, ScanOptions{Swatches: true})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one photo, got %d", len(got))
	}
	var r, g, b int
	if _, err := fmt.Sscanf(got[0].Swatch, "#%02x%02x%02x", &r, &g, &b); err != nil {
		t.Fatalf("parse swatch %q: %v", got[0].Swatch, err)
	}
	if abs(r-200) > 1 || abs(g-10) > 1 || abs(b-20) > 1 {
		t.Fatalf("expected swatch near #c80a14, got %s", got[0].Swatch)
	}
}

func TestScan_Cancelled(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.jpg"), []byte("jpg"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Scan(ctx, root, fakeReader{}, ScanOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

type fakeIndex struct {
	photos map[string]model.Photo
	meta   map[string]string
}

func (f *fakeIndex) UpsertPhotos(_ context.Context, ps []model.Photo) (int, error) {
	added := 0
	for _, p := range ps {
		if _, ok := f.photos[p.Key]; !ok {
			added++
		}
		f.photos[p.Key] = p
	}
	return added, nil
}

func (f *fakeIndex) RemoveMissing(_ context.Context, keep map[string]bool) ([]string, error) {
	var gone []string
	for k := range f.photos {
		if !keep[k] {
			gone = append(gone, k)
			delete(f.photos, k)
		}
	}
	return gone, nil
}

func (f *fakeIndex) SetMeta(_ context.Context, k, v string) error {
	f.meta[k] = v
	return nil
}

func TestImport(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.jpg"), []byte("jpg"))
	writeFile(t, filepath.Join(root, "b.jpg"), []byte("jpg"))
	idx := &fakeIndex{
		photos: map[string]model.Photo{"gone.jpg": {Key: "gone.jpg"}, "a.jpg": {Key: "a.jpg"}},
		meta:   map[string]string{},
	}

	res, err := Import(context.Background(), root, idx, fakeReader{}, ImportOptions{Prune: true})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Scanned != 2 || res.Added != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if !reflect.DeepEqual(res.Removed, []string{"gone.jpg"}) {
		t.Fatalf("expected gone.jpg removed, got %v", res.Removed)
	}
	if idx.meta[MetaLastImport] == "" {
		t.Fatalf("expected last import recorded")
	}
}
