package resource

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrKeyConflict is returned when a key path runs through an existing scalar value.
var ErrKeyConflict = errors.New("key path collides with an existing value")

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yml" || ext == ".yaml"
}

// HasKey reports whether the resource file at path holds the nested key path.
func HasKey(path string, keys []string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read resource: %w", err)
	}
	if isJSON(path) {
		return hasJSONKey(data, keys)
	}
	return hasYAMLKey(data, keys)
}

// Insert returns the content of the file at path with keys set to value.
// Existing values are left untouched.
func Insert(path string, keys []string, value string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read resource: %w", err)
	}
	if isJSON(path) {
		return insertJSON(data, keys, value)
	}
	return insertYAML(data, keys, value)
}

func hasYAMLKey(data []byte, keys []string) (bool, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return false, fmt.Errorf("parse yaml: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return false, nil
	}
	node := doc.Content[0]
	for _, k := range keys {
		node = mappingValue(node, k)
		if node == nil {
			return false, nil
		}
	}
	return true, nil
}

// mappingValue returns the value node for key in a mapping node.
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i < len(node.Content)-1; i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func insertYAML(data []byte, keys []string, value string) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}},
		}
	}

	node := doc.Content[0]
	for i, k := range keys {
		if node.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("insert %s: %w", strings.Join(keys[:i], "."), ErrKeyConflict)
		}
		next := mappingValue(node, k)
		if next == nil {
			next = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			if i == len(keys)-1 {
				next = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				next,
			)
		}
		node = next
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func hasJSONKey(data []byte, keys []string) (bool, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return false, nil
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return false, fmt.Errorf("parse json: %w", err)
	}
	for _, k := range keys {
		m, ok := doc.(map[string]any)
		if !ok {
			return false, nil
		}
		if doc, ok = m[k]; !ok {
			return false, nil
		}
	}
	return true, nil
}

func insertJSON(data []byte, keys []string, value string) ([]byte, error) {
	doc := map[string]any{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	}

	m := doc
	for i, k := range keys {
		if i == len(keys)-1 {
			if _, ok := m[k]; !ok {
				m[k] = value
			}
			break
		}
		switch next := m[k].(type) {
		case map[string]any:
			m = next
		case nil:
			child := map[string]any{}
			m[k] = child
			m = child
		default:
			return nil, fmt.Errorf("insert %s: %w", strings.Join(keys[:i+1], "."), ErrKeyConflict)
		}
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return append(out, '\n'), nil
}
