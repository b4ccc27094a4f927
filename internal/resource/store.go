package resource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"i18n-extract/internal/filewalker"
	"i18n-extract/internal/keytree"
	"i18n-extract/internal/skeleton"
	"i18n-extract/internal/worker"

	"github.com/rs/zerolog/log"
)

// Format selects how a new resource file is rendered.
type Format int

const (
	// FormatAuto picks the renderer from the file extension: JSON for .json,
	// nested YAML for .yml and .yaml, the tab-indented skeleton otherwise.
	FormatAuto Format = iota
	FormatText
	FormatYAML
	FormatJSON
)

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text", "skeleton":
		return FormatText, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatAuto, fmt.Errorf("unknown format %q", s)
	}
}

// Render produces the content of a new file at path for tree.
func Render(format Format, path string, tree *keytree.Tree, placeholder string) ([]byte, error) {
	if format == FormatAuto {
		switch {
		case isJSON(path):
			format = FormatJSON
		case isYAML(path):
			format = FormatYAML
		default:
			format = FormatText
		}
	}
	switch format {
	case FormatYAML:
		out, err := skeleton.YAML(tree, placeholder)
		return []byte(out), err
	case FormatJSON:
		out, err := skeleton.JSON(tree, placeholder)
		return []byte(out), err
	default:
		return []byte(skeleton.ForTree(tree, placeholder) + "\n"), nil
	}
}

// FileName maps a namespace to its resource file name.
func FileName(namespace, ext string) string {
	return namespace + ext
}

// Options configures a Store.
type Options struct {
	DefaultNs    string
	Ext          string
	Vue          bool
	VueDirectory string
	VueFile      string
	Format       Format
	Workers      int
	// Dirs are the folders new namespace files are created in. Relative entries
	// resolve against the project root; empty means the root itself.
	Dirs []string
}

// Store locates and updates translation resources under a project root.
type Store struct {
	walker *filewalker.Walker
	opts   Options
}

// NewStore creates a Store for the project at root.
func NewStore(root string, opts Options) (*Store, error) {
	w, err := filewalker.NewWalker(root)
	if err != nil {
		return nil, err
	}
	if opts.Ext == "" {
		opts.Ext = ".yml"
	}
	if opts.VueDirectory == "" {
		opts.VueDirectory = "locales"
	}
	if opts.VueFile == "" {
		opts.VueFile = "en.json"
	}
	return &Store{walker: w, opts: opts}, nil
}

// Change is a single file write.
type Change struct {
	Path    string
	Content []byte
}

// Plan describes what recording a key requires.
type Plan struct {
	Namespace string
	// Found lists files that already hold the key.
	Found   []string
	Updates []Change
	Creates []Change
}

// Empty reports whether the plan writes nothing.
func (p *Plan) Empty() bool { return len(p.Updates) == 0 && len(p.Creates) == 0 }

// Stage adds the plan's writes to txn.
func (p *Plan) Stage(txn *Txn) {
	for _, c := range p.Updates {
		txn.Write(c.Path, c.Content)
	}
	for _, c := range p.Creates {
		txn.Create(c.Path, c.Content)
	}
}

type lookup struct {
	found bool
}

// Plan works out which files to touch so that tree is recorded with placeholder
// as its pending value. Nothing is written.
func (s *Store) Plan(ctx context.Context, tree *keytree.Tree, placeholder string) (*Plan, error) {
	rel, err := tree.Relative()
	if err != nil {
		return nil, fmt.Errorf("key has no entries below its namespace: %w", err)
	}
	keys := rel.Keys()

	ns, ok := tree.Namespace()
	if !ok {
		ns = s.opts.DefaultNs
	}
	plan := &Plan{Namespace: ns}

	candidates, err := s.candidates(ns)
	if err != nil {
		return nil, err
	}

	pool := worker.NewPool[string, lookup](s.opts.Workers, func(_ context.Context, path string) (lookup, error) {
		found, err := HasKey(path, keys)
		return lookup{found: found}, err
	})
	results := pool.Run(ctx, candidates)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, r := range results {
		if r.Err != nil {
			return nil, fmt.Errorf("check %s: %w", r.Input, r.Err)
		}
		if r.Value.found {
			plan.Found = append(plan.Found, r.Input)
		}
	}
	if len(plan.Found) > 0 {
		log.Info().Strs("files", plan.Found).Msg("Key already present")
		return plan, nil
	}

	value := skeleton.Placeholder(placeholder)
	for _, path := range candidates {
		content, err := Insert(path, keys, value)
		if err != nil {
			return nil, fmt.Errorf("update %s: %w", path, err)
		}
		plan.Updates = append(plan.Updates, Change{Path: path, Content: content})
	}
	if len(plan.Updates) > 0 {
		return plan, nil
	}

	targets, err := s.newFileTargets(ns)
	if err != nil {
		return nil, err
	}
	for _, path := range targets {
		content, err := Render(s.opts.Format, path, rel, placeholder)
		if err != nil {
			return nil, err
		}
		plan.Creates = append(plan.Creates, Change{Path: path, Content: content})
	}
	return plan, nil
}

// candidates lists existing files that may hold keys of namespace ns.
func (s *Store) candidates(ns string) ([]string, error) {
	if s.opts.Vue {
		dirs, err := s.walker.Dirs(s.opts.VueDirectory)
		if err != nil {
			return nil, err
		}
		var files []string
		for _, d := range dirs {
			path := filepath.Join(d, s.opts.VueFile)
			if _, err := os.Stat(path); err == nil {
				files = append(files, path)
			}
		}
		return files, nil
	}

	entries, err := s.walker.Resources(ns)
	if err != nil {
		return nil, err
	}
	files := make([]string, len(entries))
	for i, e := range entries {
		files[i] = e.Path
	}
	return files, nil
}

// newFileTargets lists the paths of files to create when no resource exists.
func (s *Store) newFileTargets(ns string) ([]string, error) {
	if s.opts.Vue {
		dirs, err := s.walker.Dirs(s.opts.VueDirectory)
		if err != nil {
			return nil, err
		}
		if len(dirs) == 0 {
			dirs = []string{filepath.Join(s.walker.Root(), s.opts.VueDirectory)}
		}
		paths := make([]string, len(dirs))
		for i, d := range dirs {
			paths[i] = filepath.Join(d, s.opts.VueFile)
		}
		return paths, nil
	}

	dirs := s.opts.Dirs
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	name := FileName(ns, s.opts.Ext)
	paths := make([]string, len(dirs))
	for i, d := range dirs {
		if !filepath.IsAbs(d) {
			d = filepath.Join(s.walker.Root(), d)
		}
		paths[i] = filepath.Join(d, name)
	}
	return paths, nil
}
