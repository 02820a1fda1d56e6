package library

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"
)

// Watch calls onChange (debounced) whenever media files under root are created,
// written, renamed or removed. It blocks until ctx is done.
func Watch(ctx context.Context, root string, debounce time.Duration, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	defer w.Close()

	dirs, err := watchDirs(root)
	if err != nil {
		return err
	}
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}
	klog.Infof("watching %d dirs under %s", len(dirs), root)

	deb := NewDebouncer(debounce, onChange)
	defer deb.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if hidden(root, event.Name) {
				continue
			}
			klog.V(2).Infof("event: %v", event)
			if event.Has(fsnotify.Create) {
				// New directories need their own watch.
				if sub, err := watchDirs(event.Name); err == nil {
					for _, d := range sub {
						_ = w.Add(d)
					}
				}
			}
			if !relevant(event) {
				continue
			}
			deb.Trigger()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			klog.Warningf("watch error: %v", err)
		}
	}
}

func relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}
	// Removed or renamed directories carry no extension; rescan for them too.
	return IsMedia(event.Name) || filepath.Ext(event.Name) == ""
}

func hidden(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

// watchDirs lists root and every non-hidden directory below it.
func watchDirs(root string) ([]string, error) {
	root = filepath.Clean(root)
	var dirs []string
	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if !de.IsDir() {
				return nil
			}
			if path != root && strings.HasPrefix(filepath.Base(path), ".") {
				return godirwalk.SkipThis
			}
			dirs = append(dirs, path)
			return nil
		},
		Unsorted: true,
	})
	return dirs, err
}
