// Package skeleton renders the initial content of a new translation resource file.
package skeleton

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"i18n-extract/internal/keytree"

	"gopkg.in/yaml.v3"
)

// Placeholder is the value written for a key that still needs a translation.
func Placeholder(text string) string {
	return "TODO-" + text
}

// Generate renders segments as tab-indented "name: value" lines. Segments are
// ordered innermost first; the last one (the root) becomes the top line with no
// indentation and each inner level gains one tab. Every line carries the placeholder.
func Generate(segments []keytree.Segment, placeholder string) string {
	value := Placeholder(placeholder)
	depth := len(segments)

	acc := ""
	for i, s := range segments {
		level := depth - 1 - i
		line := strings.Repeat("\t", level) + s.Name + ": " + value
		if i == 0 {
			acc = line
			continue
		}
		acc = line + "\n" + acc
	}
	return acc
}

// ForTree is Generate over a tree's segments.
func ForTree(t *keytree.Tree, placeholder string) string {
	return Generate(t.Innermost(), placeholder)
}

// YAML renders the tree as a nested YAML document where only the leaf holds the
// placeholder value.
func YAML(t *keytree.Tree, placeholder string) (string, error) {
	doc := Nest(t.Ancestors(), Placeholder(placeholder))

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("encode yaml skeleton: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode yaml skeleton: %w", err)
	}
	return buf.String(), nil
}

// JSON renders the tree as a nested JSON object where only the leaf holds the
// placeholder value.
func JSON(t *keytree.Tree, placeholder string) (string, error) {
	var value any = Placeholder(placeholder)
	ancestors := t.Ancestors()
	for i := len(ancestors) - 1; i >= 0; i-- {
		value = map[string]any{ancestors[i].Name: value}
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode json skeleton: %w", err)
	}
	return string(data) + "\n", nil
}

// Nest builds a yaml mapping node chain for segments ordered root first, ending
// in a scalar leaf.
func Nest(segments []keytree.Segment, leaf string) *yaml.Node {
	node := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: leaf}
	for i := len(segments) - 1; i >= 0; i-- {
		node = &yaml.Node{
			Kind: yaml.MappingNode,
			Tag:  "!!map",
			Content: []*yaml.Node{
				{Kind: yaml.ScalarNode, Tag: "!!str", Value: segments[i].Name},
				node,
			},
		}
	}
	return node
}
