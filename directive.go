// FILE: fennec-dl/config/directive.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// TagInclude splices another document in place of the tagged scalar.
	TagInclude = "!include"
	// TagRef copies the value found at a dotted path of the assembled document.
	TagRef = "!ref"

	mergeTag = "!!merge"

	// maxDocumentNodes caps the nodes one load may produce once aliases and
	// includes are expanded.
	maxDocumentNodes = 1 << 20
)

// reference is a placeholder left by phase 1 and replaced in phase 2.
type reference struct {
	path string
	line int
}

// assembler performs phase 1: it turns documents into plain nested maps with
// includes spliced in and references left as placeholders.
type assembler struct {
	// stack holds the absolute paths of the files being assembled
	stack []string
	// nodes counts the nodes converted so far
	nodes int
}

// assembleFile reads and assembles the document at path.
func (a *assembler) assembleFile(path string, format Format) (map[string]any, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path '%s': %w", path, err)
	}
	if slices.Contains(a.stack, abs) {
		return nil, fmt.Errorf("include cycle detected: %s -> %s", strings.Join(a.stack, " -> "), abs)
	}
	a.stack = append(a.stack, abs)
	defer func() { a.stack = a.stack[:len(a.stack)-1] }()

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", abs, err)
	}
	root, err := a.assembleBytes(data, filepath.Dir(abs), resolveFormat(format, abs))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", abs, err)
	}
	return root, nil
}

// assembleBytes assembles a document whose relative includes resolve against dir.
func (a *assembler) assembleBytes(data []byte, dir string, format Format) (map[string]any, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatTOML:
		return decodeTOML(data)
	}

	var document yaml.Node
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(document.Content) == 0 || document.Content[0] == nil {
		return nil, errors.New("document is empty")
	}
	root := document.Content[0]
	if root.Kind == yaml.AliasNode && root.Alias != nil {
		root = root.Alias
	}
	if root.Kind != yaml.MappingNode {
		return nil, errors.New("top-level YAML document must be a mapping")
	}
	value, err := a.node(root, dir)
	if err != nil {
		return nil, err
	}
	return value.(map[string]any), nil
}

// node converts one YAML node into a plain value.
func (a *assembler) node(n *yaml.Node, dir string) (any, error) {
	a.nodes++
	if a.nodes > maxDocumentNodes {
		return nil, fmt.Errorf("line %d: document expands to more than %d nodes", n.Line, maxDocumentNodes)
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return a.node(n.Content[0], dir)
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("line %d: unknown alias", n.Line)
		}
		return a.node(n.Alias, dir)
	case yaml.MappingNode:
		if n.Tag == TagInclude || n.Tag == TagRef {
			return nil, fmt.Errorf("line %d: %s expects a scalar argument", n.Line, n.Tag)
		}
		return a.mapping(n, dir)
	case yaml.SequenceNode:
		if n.Tag == TagInclude || n.Tag == TagRef {
			return nil, fmt.Errorf("line %d: %s expects a scalar argument", n.Line, n.Tag)
		}
		out := make([]any, len(n.Content))
		for i, child := range n.Content {
			value, err := a.node(child, dir)
			if err != nil {
				return nil, err
			}
			out[i] = value
		}
		return out, nil
	case yaml.ScalarNode:
		return a.scalar(n, dir)
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
}

// scalar handles directive tags and decodes plain scalars.
func (a *assembler) scalar(n *yaml.Node, dir string) (any, error) {
	switch n.Tag {
	case TagInclude:
		target := strings.TrimSpace(n.Value)
		if target == "" {
			return nil, fmt.Errorf("line %d: %s without a path", n.Line, TagInclude)
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(dir, target)
		}
		included, err := a.assembleFile(target, FormatAuto)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return included, nil
	case TagRef:
		path := strings.TrimSpace(n.Value)
		if path == "" {
			return nil, fmt.Errorf("line %d: %s without a path", n.Line, TagRef)
		}
		return &reference{path: path, line: n.Line}, nil
	}

	if n.Tag != "" && !strings.HasPrefix(n.Tag, "!!") && n.Tag != "!" {
		return nil, fmt.Errorf("line %d: unknown tag %s", n.Line, n.Tag)
	}
	// Timestamps stay strings, the value model has no time type.
	if n.ShortTag() == "!!timestamp" {
		return n.Value, nil
	}
	var value any
	if err := n.Decode(&value); err != nil {
		return nil, fmt.Errorf("line %d: %w", n.Line, err)
	}
	leaf, isLeaf, err := normalizeLeaf(value)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", n.Line, err)
	}
	if !isLeaf {
		return fmt.Sprint(value), nil
	}
	return leaf, nil
}

// mapping converts a mapping node. Explicit keys win over merged ones, earlier
// merge sources win over later ones.
func (a *assembler) mapping(n *yaml.Node, dir string) (map[string]any, error) {
	out := make(map[string]any, len(n.Content)/2)
	var merges []*yaml.Node

	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valueNode := n.Content[i], n.Content[i+1]
		if keyNode.Kind == yaml.ScalarNode && keyNode.ShortTag() == mergeTag {
			merges = append(merges, valueNode)
			continue
		}
		if keyNode.Kind == yaml.AliasNode && keyNode.Alias != nil {
			keyNode = keyNode.Alias
		}
		if keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
		}
		key := keyNode.Value
		if _, exists := out[key]; exists {
			return nil, fmt.Errorf("line %d: duplicate key %q", keyNode.Line, key)
		}
		value, err := a.node(valueNode, dir)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		out[key] = value
	}

	for _, merge := range merges {
		sources, err := a.mergeSources(merge, dir)
		if err != nil {
			return nil, err
		}
		for _, source := range sources {
			for key, value := range source {
				if _, exists := out[key]; !exists {
					out[key] = value
				}
			}
		}
	}
	return out, nil
}

// mergeSources returns the maps named by the value of a "<<" key.
func (a *assembler) mergeSources(n *yaml.Node, dir string) ([]map[string]any, error) {
	if n.Kind == yaml.SequenceNode {
		var sources []map[string]any
		for _, child := range n.Content {
			more, err := a.mergeSources(child, dir)
			if err != nil {
				return nil, err
			}
			sources = append(sources, more...)
		}
		return sources, nil
	}
	value, err := a.node(n, dir)
	if err != nil {
		return nil, err
	}
	m, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("line %d: merge value must be a mapping", n.Line)
	}
	return []map[string]any{m}, nil
}

// resolver performs phase 2 on a fully assembled root map.
type resolver struct {
	root map[string]any
	// active holds the references currently being resolved
	active map[*reference]bool
}

// resolveReferences replaces every placeholder below root with a copy of the
// value its path names.
func resolveReferences(root map[string]any) error {
	r := &resolver{root: root, active: make(map[*reference]bool)}
	_, err := r.resolve(root)
	return err
}

// resolve returns value with placeholders replaced. Maps and sequences are
// updated in place so later lookups see resolved content.
func (r *resolver) resolve(value any) (any, error) {
	switch v := value.(type) {
	case *reference:
		return r.lookup(v)
	case map[string]any:
		for _, key := range sortedNames(v) {
			resolved, err := r.resolve(v[key])
			if err != nil {
				return nil, err
			}
			v[key] = resolved
		}
		return v, nil
	case []any:
		for i, elem := range v {
			resolved, err := r.resolve(elem)
			if err != nil {
				return nil, err
			}
			v[i] = resolved
		}
		return v, nil
	}
	return value, nil
}

// lookup walks from the root along ref's path and returns a resolved copy of
// the target. References met along the way are followed.
func (r *resolver) lookup(ref *reference) (any, error) {
	if r.active[ref] {
		return nil, fmt.Errorf("line %d: reference cycle through %q", ref.line, ref.path)
	}
	r.active[ref] = true
	defer delete(r.active, ref)

	var current any = r.root
	segments := splitPath(ref.path)
	for i, segment := range segments {
		if placeholder, ok := current.(*reference); ok {
			resolved, err := r.lookup(placeholder)
			if err != nil {
				return nil, err
			}
			current = resolved
		}
		m, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("line %d: cannot resolve %q: %q is not a mapping",
				ref.line, ref.path, strings.Join(segments[:i], "."))
		}
		next, ok := m[segment]
		if !ok {
			return nil, fmt.Errorf("line %d: cannot resolve %q: %q not found",
				ref.line, ref.path, strings.Join(segments[:i+1], "."))
		}
		current = next
	}
	return r.resolve(copyValue(current))
}
