package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"culler-cli/internal/model"

	"github.com/otiai10/copy"
	"k8s.io/klog/v2"
)

// Export copies photos from the library root into dest, keeping their relative
// layout and modification times. Files already present with the same size and a
// modification time no older than the source are left alone.
func Export(ctx context.Context, root, dest string, photos []model.Photo) (int, error) {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return 0, fmt.Errorf("mkdir: %w", err)
	}
	copied := 0
	for _, p := range photos {
		if err := ctx.Err(); err != nil {
			return copied, err
		}
		src := filepath.Join(root, filepath.FromSlash(p.Key))
		dst := filepath.Join(dest, filepath.FromSlash(p.Key))
		if upToDate(src, dst) {
			klog.V(1).Infof("skipping %s: up to date", p.Key)
			continue
		}
		if err := copy.Copy(src, dst, copy.Options{PreserveTimes: true}); err != nil {
			return copied, fmt.Errorf("copy %s: %w", p.Key, err)
		}
		copied++
	}
	return copied, nil
}

func upToDate(src, dst string) bool {
	sst, err := os.Stat(src)
	if err != nil {
		return false
	}
	dstInfo, err := os.Stat(dst)
	if err != nil {
		return false
	}
	return sst.Size() == dstInfo.Size() && !sst.ModTime().After(dstInfo.ModTime())
}
