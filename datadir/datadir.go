// Package datadir resolves plugin file names against the bot's shared data
// directory.
package datadir

import (
	"fmt"
	"os"
	"path/filepath"
)

type Dir struct {
	root string
}

// New makes root absolute and creates it if needed.
func New(root string) (Dir, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return Dir{}, fmt.Errorf("data dir %q: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o700); err != nil {
		return Dir{}, fmt.Errorf("data dir %q: %w", abs, err)
	}
	return Dir{root: abs}, nil
}

func (d Dir) Root() string { return d.root }

// Dirize returns name joined under the data directory. Absolute names are
// returned unchanged.
func (d Dir) Dirize(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(d.root, name)
}
