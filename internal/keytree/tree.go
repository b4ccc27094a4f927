package keytree

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyTree is returned when a tree is built from zero segments.
	ErrEmptyTree = errors.New("key tree has no segments")
	// ErrMisplacedRoot is returned when a segment other than the first is marked as root.
	ErrMisplacedRoot = errors.New("only the first segment may be a namespace root")
	// ErrInvalidKey is returned when a key string cannot be parsed into segments.
	ErrInvalidKey = errors.New("invalid translation key")
)

// Segment is one level of a translation key.
type Segment struct {
	// Name is the display name of the level.
	Name string
	// Root marks the namespace segment.
	Root bool
}

// Tree is an immutable chain of segments from the namespace root down to the leaf key.
type Tree struct {
	segments []Segment
}

// New builds a tree from segments ordered root first.
func New(segments ...Segment) (*Tree, error) {
	if len(segments) == 0 {
		return nil, ErrEmptyTree
	}
	for i, s := range segments[1:] {
		if s.Root {
			return nil, fmt.Errorf("segment %d %q: %w", i+1, s.Name, ErrMisplacedRoot)
		}
	}
	cp := make([]Segment, len(segments))
	copy(cp, segments)
	return &Tree{segments: cp}, nil
}

// Ancestors returns the segments ordered from root to leaf.
// The returned slice is a copy.
func (t *Tree) Ancestors() []Segment {
	cp := make([]Segment, len(t.segments))
	copy(cp, t.segments)
	return cp
}

// Len returns the number of segments.
func (t *Tree) Len() int { return len(t.segments) }

// Leaf returns the innermost segment.
func (t *Tree) Leaf() Segment { return t.segments[len(t.segments)-1] }

// Namespace returns the root segment name if the tree has one.
func (t *Tree) Namespace() (string, bool) {
	if t.segments[0].Root {
		return t.segments[0].Name, true
	}
	return "", false
}

// Keys returns the names of the non-root segments, root side first.
func (t *Tree) Keys() []string {
	var keys []string
	for _, s := range t.segments {
		if s.Root {
			continue
		}
		keys = append(keys, s.Name)
	}
	return keys
}

// Relative returns the tree without its namespace root. A tree without a root
// is returned as is.
func (t *Tree) Relative() (*Tree, error) {
	if !t.segments[0].Root {
		return t, nil
	}
	return New(t.segments[1:]...)
}

// Innermost returns the segments ordered from leaf to root.
func (t *Tree) Innermost() []Segment {
	out := make([]Segment, len(t.segments))
	for i, s := range t.segments {
		out[len(t.segments)-1-i] = s
	}
	return out
}

// Compose joins the tree's segment names into a single key. The separator after a
// root segment is nsSep, every other inner separator is keySep.
func Compose(t *Tree, nsSep, keySep string) string {
	ancestors := t.Ancestors()
	var b strings.Builder
	for i, s := range ancestors {
		b.WriteString(s.Name)
		if i == len(ancestors)-1 {
			break
		}
		if s.Root {
			b.WriteString(nsSep)
		} else {
			b.WriteString(keySep)
		}
	}
	return b.String()
}

// Parse splits a key string into a tree. Text before the first nsSep becomes the
// namespace root; the rest is split on keySep.
func Parse(key, nsSep, keySep string) (*Tree, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("empty key: %w", ErrInvalidKey)
	}

	var segments []Segment
	rest := key
	if nsSep != "" {
		if ns, tail, ok := strings.Cut(key, nsSep); ok {
			if ns == "" {
				return nil, fmt.Errorf("key %q has an empty namespace: %w", key, ErrInvalidKey)
			}
			segments = append(segments, Segment{Name: ns, Root: true})
			rest = tail
		}
	}

	parts := []string{rest}
	if keySep != "" {
		parts = strings.Split(rest, keySep)
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return nil, fmt.Errorf("key %q has an empty segment: %w", key, ErrInvalidKey)
		}
		segments = append(segments, Segment{Name: p})
	}
	return New(segments...)
}
