package resource

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog/log"
)

// ErrExists is returned by Commit when a file staged for creation already exists.
var ErrExists = errors.New("file already exists")

type staged struct {
	path   string
	data   []byte
	create bool
}

type applied struct {
	path    string
	backup  []byte
	perm    fs.FileMode
	existed bool
}

// Txn applies a set of whole-file writes all together or not at all.
//
//	txn := resource.NewTxn()
//	defer txn.Rollback()
//	txn.Write(path, data)
//	return txn.Commit()
type Txn struct {
	writes  []staged
	applied []applied
	dirs    []string
	done    bool
}

// NewTxn creates an empty transaction.
func NewTxn() *Txn { return &Txn{} }

// Write stages replacing (or creating) the file at path.
func (t *Txn) Write(path string, data []byte) {
	t.writes = append(t.writes, staged{path: path, data: data})
}

// Create stages creating the file at path; Commit fails if it exists.
func (t *Txn) Create(path string, data []byte) {
	t.writes = append(t.writes, staged{path: path, data: data, create: true})
}

// Paths returns the staged paths in order.
func (t *Txn) Paths() []string {
	out := make([]string, len(t.writes))
	for i, w := range t.writes {
		out[i] = w.path
	}
	return out
}

// Commit applies every staged write. On failure the writes already applied are
// reverted before the error is returned.
func (t *Txn) Commit() error {
	if t.done {
		return errors.New("transaction already finished")
	}
	for _, w := range t.writes {
		if err := t.apply(w); err != nil {
			t.revert()
			t.done = true
			return fmt.Errorf("write %s: %w", w.path, err)
		}
	}
	t.done = true
	log.Debug().Int("files", len(t.writes)).Msg("Transaction committed")
	return nil
}

// Rollback reverts an unfinished transaction. It is a no-op after Commit.
func (t *Txn) Rollback() {
	if t.done {
		return
	}
	t.revert()
	t.done = true
}

func (t *Txn) apply(w staged) error {
	a := applied{path: w.path, perm: 0644}
	info, err := os.Stat(w.path)
	switch {
	case err == nil:
		if w.create {
			return ErrExists
		}
		if a.backup, err = os.ReadFile(w.path); err != nil {
			return err
		}
		a.existed = true
		a.perm = info.Mode().Perm()
	case errors.Is(err, fs.ErrNotExist):
		if err := t.mkdirAll(filepath.Dir(w.path)); err != nil {
			return err
		}
	default:
		return err
	}

	if err := writeAtomic(w.path, w.data, a.perm); err != nil {
		return err
	}
	t.applied = append(t.applied, a)
	return nil
}

// mkdirAll creates dir and records every level it had to create.
func (t *Txn) mkdirAll(dir string) error {
	var missing []string
	for d := dir; ; d = filepath.Dir(d) {
		if _, err := os.Stat(d); err == nil {
			break
		}
		missing = append(missing, d)
		if filepath.Dir(d) == d {
			break
		}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	t.dirs = append(t.dirs, missing...)
	return nil
}

func (t *Txn) revert() {
	for i := len(t.applied) - 1; i >= 0; i-- {
		a := t.applied[i]
		var err error
		if a.existed {
			err = writeAtomic(a.path, a.backup, a.perm)
		} else {
			err = os.Remove(a.path)
		}
		if err != nil {
			log.Error().Err(err).Str("path", a.path).Msg("Failed to revert file")
		}
	}
	t.applied = nil
	// Deepest first; Remove refuses non-empty directories.
	sort.Slice(t.dirs, func(i, j int) bool { return len(t.dirs[i]) > len(t.dirs[j]) })
	for _, d := range t.dirs {
		if err := os.Remove(d); err != nil {
			log.Warn().Err(err).Str("dir", d).Msg("Failed to remove directory")
		}
	}
	t.dirs = nil
}

func writeAtomic(path string, data []byte, perm fs.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Chmod(name, perm); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}
