// FILE: fennec-dl/config/dynamic.go
package config

import (
	"fmt"
)

// DynamicTree is a schema-free configuration tree. It accepts arbitrary nested
// map content; maps become subtrees and everything else is stored as a
// canonical leaf or sequence.
type DynamicTree struct {
	data     map[string]any
	readonly bool
}

var _ Tree = (*DynamicTree)(nil)

// newDynamicTree parses m into a tree. Only the loader and Clone call it.
func newDynamicTree(m map[string]any) (*DynamicTree, error) {
	t := &DynamicTree{data: make(map[string]any, len(m))}
	for _, name := range sortedNames(m) {
		if !isValidFieldName(name) {
			return nil, fmt.Errorf("%w: invalid field name %q", ErrConfigLoading, name)
		}
		value, err := parseDynamic(m[name], false)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		t.data[name] = value
	}
	return t, nil
}

// parseDynamic applies the construction rule to a single value.
func parseDynamic(value any, inList bool) (any, error) {
	if m, ok := asMap(value); ok {
		if inList {
			return nil, fmt.Errorf("%w: lists of subtrees are not allowed", ErrConfigLoading)
		}
		return newDynamicTree(m)
	}
	leaf, isLeaf, err := normalizeLeaf(value)
	if err != nil {
		return nil, err
	}
	if isLeaf {
		return leaf, nil
	}
	if seq, ok := asSequence(value); ok {
		out := make([]any, len(seq))
		for i, elem := range seq {
			parsed, err := parseDynamic(elem, true)
			if err != nil {
				return nil, err
			}
			out[i] = parsed
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: unsupported value type %T", ErrConfigLoading, value)
}

// Field returns the direct child called name. Sequences are copied so the
// tree can only change through SetField.
func (t *DynamicTree) Field(name string) (any, error) {
	value, ok := t.data[name]
	if !ok {
		return nil, fmt.Errorf("%w: config has no field %q", ErrPathNotFound, name)
	}
	return detachSequence(value), nil
}

// SetField assigns name, parsing maps into subtrees.
func (t *DynamicTree) SetField(name string, value any) error {
	if t.readonly {
		return fmt.Errorf("%w: cannot set %q", ErrReadOnly, name)
	}
	if !isValidFieldName(name) {
		return fmt.Errorf("%w: invalid field name %q", ErrPathNotFound, name)
	}
	parsed, err := parseDynamic(value, false)
	if err != nil {
		return fmt.Errorf("field %q: %w", name, err)
	}
	t.data[name] = parsed
	return nil
}

// DeleteField removes name. A missing field is reported before the frozen state.
func (t *DynamicTree) DeleteField(name string) error {
	if _, ok := t.data[name]; !ok {
		return fmt.Errorf("%w: config has no field %q", ErrPathNotFound, name)
	}
	if t.readonly {
		return fmt.Errorf("%w: cannot delete %q", ErrReadOnly, name)
	}
	delete(t.data, name)
	return nil
}

// Fields returns the direct child names in ascending order.
func (t *DynamicTree) Fields() []string {
	return sortedNames(t.data)
}

func (t *DynamicTree) Get(fqn string) (any, error) { return getPath(t, fqn) }

func (t *DynamicTree) Set(fqn string, value any) error { return setPath(t, fqn, value) }

func (t *DynamicTree) Delete(fqn string) error { return deletePath(t, fqn) }

func (t *DynamicTree) Has(fqn string) bool { return hasPath(t, fqn) }

func (t *DynamicTree) Keys() []string { return collectKeys(t, "", nil) }

func (t *DynamicTree) Items() []Item { return collectItems(t, "", nil) }

func (t *DynamicTree) Len() int { return len(t.Keys()) }

func (t *DynamicTree) Equal(other Tree) bool { return equalTrees(t, other) }

func (t *DynamicTree) ToMap() map[string]any { return treeToMap(t) }

// Clone returns an unfrozen deep copy.
func (t *DynamicTree) Clone() Tree { return t.cloneDynamic() }

func (t *DynamicTree) cloneDynamic() *DynamicTree {
	clone := &DynamicTree{data: make(map[string]any, len(t.data))}
	for name, value := range t.data {
		clone.data[name] = copyValue(value)
	}
	return clone
}

// Freeze makes t and all of its subtrees read-only.
func (t *DynamicTree) Freeze() {
	t.readonly = true
	for _, value := range t.data {
		if sub, ok := value.(Tree); ok {
			sub.Freeze()
		}
	}
}

func (t *DynamicTree) ReadOnly() bool { return t.readonly }
