package filewalker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// ResourceExtensions lists translation resource formats the tool reads.
var ResourceExtensions = map[string]bool{
	".yml":  true,
	".yaml": true,
	".json": true,
}

var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"vendor":       true,
}

// Walker searches a project tree for translation resources.
type Walker struct {
	root string
}

// NewWalker creates a Walker rooted at root.
func NewWalker(root string) (*Walker, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", abs)
	}
	return &Walker{root: abs}, nil
}

// Root returns the absolute project root.
func (w *Walker) Root() string { return w.root }

// FileEntry is a discovered resource file.
type FileEntry struct {
	Path string
	Ext  string
	// Base is the file name without extension.
	Base string
}

// Resources returns resource files whose name without extension is base.
func (w *Walker) Resources(base string) ([]FileEntry, error) {
	var entries []FileEntry
	err := w.walk(func(path string, d fs.DirEntry) {
		if d.IsDir() {
			return
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !ResourceExtensions[ext] {
			return
		}
		name := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
		if name != base {
			return
		}
		entries = append(entries, FileEntry{Path: path, Ext: ext, Base: name})
	})
	if err != nil {
		return nil, err
	}
	log.Debug().Int("count", len(entries)).Str("namespace", base).Str("root", w.root).Msg("Discovered resource files")
	return entries, nil
}

// Dirs returns every directory below the root named name.
func (w *Walker) Dirs(name string) ([]string, error) {
	var dirs []string
	err := w.walk(func(path string, d fs.DirEntry) {
		if d.IsDir() && d.Name() == name && path != w.root {
			dirs = append(dirs, path)
		}
	})
	if err != nil {
		return nil, err
	}
	log.Debug().Int("count", len(dirs)).Str("name", name).Msg("Discovered directories")
	return dirs, nil
}

func (w *Walker) walk(visit func(path string, d fs.DirEntry)) error {
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}
		if d.IsDir() && path != w.root && skipDirs[d.Name()] {
			return filepath.SkipDir
		}
		visit(path, d)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory: %w", err)
	}
	return nil
}
