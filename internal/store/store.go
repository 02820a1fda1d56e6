package store

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	dirName    = ".culler"
	dbFileName = "index.sqlite"
)

// Store is the on-disk index of one photo library. Dir is the library's .culler
// directory; the library root is its parent.
type Store struct {
	Dir string
}

// ForLibrary returns the store for a library root.
func ForLibrary(root string) Store {
	return Store{Dir: filepath.Join(filepath.Clean(root), dirName)}
}

// DiscoverDir walks up from start looking for a .culler directory.
func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, dirName)
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// DefaultDir finds the enclosing library's store, falling back to ./.culler.
func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, dirName), nil
}

// Root is the library directory the store indexes.
func (s Store) Root() string {
	return filepath.Dir(filepath.Clean(s.Dir))
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

// Exists reports whether the store has been initialised.
func (s Store) Exists() bool {
	if strings.TrimSpace(s.Dir) == "" {
		return false
	}
	_, err := os.Stat(s.sqlitePath())
	return err == nil
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, dbFileName)
}
