// Package syntaxtree is an in-memory syntax tree loaded from a snapshot written
// by the host parser. It implements extract.Node.
package syntaxtree

import (
	"fmt"
	"os"
	"strings"

	"i18n-extract/internal/extract"

	"gopkg.in/yaml.v3"
)

// Snapshot is the serialized tree. JSON snapshots decode as well since the
// decoder accepts any YAML 1.2 document.
type Snapshot struct {
	FileType string   `yaml:"fileType"`
	Language string   `yaml:"language"`
	Root     NodeSpec `yaml:"root"`
}

// NodeSpec is one serialized node.
type NodeSpec struct {
	Kind     string     `yaml:"kind"`
	Name     string     `yaml:"name,omitempty"`
	Text     *string    `yaml:"text,omitempty"`
	Start    int        `yaml:"start"`
	End      int        `yaml:"end"`
	Language string     `yaml:"language,omitempty"`
	Children []NodeSpec `yaml:"children,omitempty"`
}

// Node is a concrete syntax node.
type Node struct {
	kind     extract.Kind
	name     string
	text     string
	rng      extract.Range
	lang     extract.Language
	fileType extract.FileType
	parent   *Node
	children []*Node
}

func (n *Node) Kind() extract.Kind { return n.kind }
func (n *Node) Name() string { return n.name }
func (n *Node) Text() string { return n.text }
func (n *Node) Range() extract.Range { return n.rng }
func (n *Node) Language() extract.Language { return n.lang }
func (n *Node) FileType() extract.FileType { return n.fileType }

// Parent returns a nil interface, not a typed nil, at the root.
func (n *Node) Parent() extract.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *Node) Children() []extract.Node {
	out := make([]extract.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// Decode parses a YAML or JSON snapshot.
func Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Root.Kind == "" {
		return nil, fmt.Errorf("decode snapshot: root node has no kind")
	}
	return &s, nil
}

// Load reads and decodes a snapshot file.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return Decode(data)
}

// Build materializes the snapshot. Nodes without explicit text take it from
// source when their range fits inside it, otherwise from their children.
// Nodes without a range (end == 0) span their children.
func (s *Snapshot) Build(source []byte) (*Node, error) {
	b := builder{
		source:   source,
		fileType: extract.FileType(strings.ToLower(s.FileType)),
	}
	return b.build(s.Root, nil, extract.Language(s.Language))
}

type builder struct {
	source   []byte
	fileType extract.FileType
}

func (b *builder) build(spec NodeSpec, parent *Node, lang extract.Language) (*Node, error) {
	if spec.Language != "" {
		lang = extract.Language(spec.Language)
	}
	n := &Node{
		kind:     extract.Kind(spec.Kind),
		name:     spec.Name,
		rng:      extract.Range{Start: spec.Start, End: spec.End},
		lang:     lang,
		fileType: b.fileType,
		parent:   parent,
	}
	if n.rng.Start < 0 {
		return nil, fmt.Errorf("node %s: negative start %d", spec.Kind, spec.Start)
	}
	if n.rng.End < n.rng.Start {
		return nil, fmt.Errorf("node %s: end %d before start %d", spec.Kind, spec.End, spec.Start)
	}

	for _, cs := range spec.Children {
		c, err := b.build(cs, n, lang)
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, c)
	}

	if spec.End == 0 && len(n.children) > 0 {
		n.rng = extract.Range{
			Start: n.children[0].rng.Start,
			End:   n.children[len(n.children)-1].rng.End,
		}
	}

	switch {
	case spec.Text != nil:
		n.text = *spec.Text
	case b.source != nil && n.rng.End > 0 && n.rng.End <= len(b.source):
		n.text = string(b.source[n.rng.Start:n.rng.End])
	default:
		var sb strings.Builder
		for _, c := range n.children {
			sb.WriteString(c.text)
		}
		n.text = sb.String()
	}
	return n, nil
}

// Walk visits n and its descendants in pre-order until fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// At returns the deepest node whose range contains offset, or nil.
func (n *Node) At(offset int) *Node {
	if !n.rng.Contains(offset) {
		return nil
	}
	for _, c := range n.children {
		if found := c.At(offset); found != nil {
			return found
		}
	}
	return n
}

// Find returns the first node in pre-order with the given kind and text.
func (n *Node) Find(kind extract.Kind, text string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if c.kind == kind && c.text == text {
			found = c
			return false
		}
		return true
	})
	return found
}
