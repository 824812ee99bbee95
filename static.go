// FILE: fennec-dl/config/static.go
package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// StaticTree is a configuration tree whose field set and field types are fixed
// by a Schema. Fields can be reassigned while the tree is unfrozen, never added
// or removed.
type StaticTree struct {
	schema   *Schema
	values   map[string]any
	readonly bool
	logger   *slog.Logger
}

var _ Tree = (*StaticTree)(nil)

// newStaticTree converts m against schema. The schema must already be valid.
func newStaticTree(schema *Schema, m map[string]any, logger *slog.Logger) (*StaticTree, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var missing []string
	for _, field := range schema.fields {
		if _, ok := m[field.Name]; !ok {
			missing = append(missing, field.Name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: schema %s: missing fields: %s",
			ErrConfigLoading, schema.name, strings.Join(sortedList(missing), ", "))
	}

	var extra []string
	for _, name := range sortedNames(m) {
		if _, declared := schema.index[name]; !declared {
			extra = append(extra, name)
		}
	}
	if len(extra) > 0 {
		logger.Warn("ignoring superfluous configuration fields",
			"schema", schema.name, "fields", extra)
	}

	t := &StaticTree{
		schema: schema,
		values: make(map[string]any, len(schema.fields)),
		logger: logger,
	}
	for _, field := range schema.fields {
		value, err := convert(m[field.Name], field.Type, logger)
		if err != nil {
			return nil, fmt.Errorf("schema %s: field %q: %w", schema.name, field.Name, err)
		}
		t.values[field.Name] = value
	}
	return t, nil
}

// Schema returns the schema the tree was built from.
func (t *StaticTree) Schema() *Schema { return t.schema }

// Field returns the direct child called name, sequences as copies.
func (t *StaticTree) Field(name string) (any, error) {
	value, ok := t.values[name]
	if !ok {
		return nil, fmt.Errorf("%w: schema %s has no field %q", ErrPathNotFound, t.schema.name, name)
	}
	return detachSequence(value), nil
}

// SetField converts value against the declared type of name and stores it.
// Assigning a map to a nested field builds a validated subtree.
func (t *StaticTree) SetField(name string, value any) error {
	fieldType, ok := t.schema.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: schema %s has no field %q", ErrPathNotFound, t.schema.name, name)
	}
	if t.readonly {
		return fmt.Errorf("%w: cannot set %q", ErrReadOnly, name)
	}
	converted, err := convert(value, fieldType, t.logger)
	if err != nil {
		return fmt.Errorf("schema %s: field %q: %w", t.schema.name, name, err)
	}
	t.values[name] = converted
	return nil
}

// DeleteField always fails; a schema-checked tree never shrinks.
func (t *StaticTree) DeleteField(name string) error {
	return fmt.Errorf("%w: cannot delete %q from schema %s", ErrInvalidOperation, name, t.schema.name)
}

// Fields returns the declared field names in ascending order.
func (t *StaticTree) Fields() []string {
	return sortedNames(t.values)
}

func (t *StaticTree) Get(fqn string) (any, error) { return getPath(t, fqn) }

func (t *StaticTree) Set(fqn string, value any) error { return setPath(t, fqn, value) }

func (t *StaticTree) Delete(fqn string) error { return deletePath(t, fqn) }

func (t *StaticTree) Has(fqn string) bool { return hasPath(t, fqn) }

func (t *StaticTree) Keys() []string { return collectKeys(t, "", nil) }

func (t *StaticTree) Items() []Item { return collectItems(t, "", nil) }

func (t *StaticTree) Len() int { return len(t.Keys()) }

func (t *StaticTree) Equal(other Tree) bool { return equalTrees(t, other) }

func (t *StaticTree) ToMap() map[string]any { return treeToMap(t) }

// Clone returns an unfrozen deep copy sharing the schema.
func (t *StaticTree) Clone() Tree { return t.cloneStatic() }

// cloneStatic copies already-converted values, so no validation runs again.
func (t *StaticTree) cloneStatic() *StaticTree {
	clone := &StaticTree{
		schema: t.schema,
		values: make(map[string]any, len(t.values)),
		logger: t.logger,
	}
	for name, value := range t.values {
		clone.values[name] = copyValue(value)
	}
	return clone
}

// Freeze makes t and every nested subtree read-only.
func (t *StaticTree) Freeze() {
	t.readonly = true
	for _, value := range t.values {
		if sub, ok := value.(Tree); ok {
			sub.Freeze()
		}
	}
}

func (t *StaticTree) ReadOnly() bool { return t.readonly }

// typeOf returns the declared type of the field at fqn.
func (t *StaticTree) typeOf(fqn string) (Type, bool) {
	parent, name, err := walkParent(t, fqn)
	if err != nil {
		return Type{}, false
	}
	static, ok := parent.(*StaticTree)
	if !ok {
		return Type{}, false
	}
	return static.schema.Lookup(name)
}
