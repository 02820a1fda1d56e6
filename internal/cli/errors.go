package cli

import (
	"errors"
	"fmt"
)

type errNoLibrary struct {
	root string
}

func (e errNoLibrary) Error() string {
	return fmt.Sprintf("no library at %s (run `culler init` there, or pass --library)", e.root)
}

var errNoTargets = errors.New("no photos given")
