// FILE: fennec-dl/config/tree.go
package config

import (
	"reflect"
	"sort"
)

// Tree is the contract shared by schema-free (DynamicTree) and schema-checked
// (StaticTree) configuration trees.
//
// Path methods take a fully-qualified name (FQN), the dot-joined path from the
// root such as "model.optimizer.lr". Field methods address a single level.
type Tree interface {
	// Get returns the value at fqn. Subtrees are returned as Tree and shared,
	// sequences are returned as copies.
	Get(fqn string) (any, error)
	// Set assigns value at fqn, applying the owning node's validation.
	Set(fqn string, value any) error
	// Delete removes the node at fqn.
	Delete(fqn string) error
	// Has reports whether fqn names a node or is an ancestor prefix of one.
	Has(fqn string) bool

	// Field returns the direct child called name.
	Field(name string) (any, error)
	// SetField assigns the direct child called name.
	SetField(name string, value any) error
	// DeleteField removes the direct child called name.
	DeleteField(name string) error
	// Fields returns the direct child names in ascending order.
	Fields() []string

	// Keys returns every FQN in the tree, subtrees included, depth-first.
	Keys() []string
	// Items returns the leaf and sequence FQNs with their values, depth-first.
	Items() []Item
	// Len is the number of keys.
	Len() int
	// Equal reports structural equality of the leaf items of both trees.
	// Values compare by type too: int64(1) and float64(1) differ.
	Equal(other Tree) bool

	// ToMap converts the tree into plain nested maps, slices and scalars.
	ToMap() map[string]any
	// Clone returns an unfrozen deep copy.
	Clone() Tree

	// Freeze makes the tree and every subtree permanently read-only.
	Freeze()
	// ReadOnly reports whether the tree has been frozen.
	ReadOnly() bool
}

// Item is a leaf or sequence value together with its FQN.
type Item struct {
	Key   string
	Value any
}

// joinKey prefixes name with the parent FQN.
func joinKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// collectKeys appends the FQNs of t to keys, depth-first in field order.
func collectKeys(t Tree, prefix string, keys []string) []string {
	for _, name := range t.Fields() {
		key := joinKey(prefix, name)
		keys = append(keys, key)
		value, _ := t.Field(name)
		if sub, ok := value.(Tree); ok {
			keys = collectKeys(sub, key, keys)
		}
	}
	return keys
}

// collectItems appends the leaf items of t to items.
func collectItems(t Tree, prefix string, items []Item) []Item {
	for _, name := range t.Fields() {
		key := joinKey(prefix, name)
		value, _ := t.Field(name)
		if sub, ok := value.(Tree); ok {
			items = collectItems(sub, key, items)
			continue
		}
		items = append(items, Item{Key: key, Value: value})
	}
	return items
}

// treeToMap builds the plain map form of any tree.
func treeToMap(t Tree) map[string]any {
	result := make(map[string]any)
	for _, name := range t.Fields() {
		value, _ := t.Field(name)
		result[name] = plainValue(value)
	}
	return result
}

// equalTrees compares the leaf item sets of two trees, regardless of variant.
func equalTrees(a, b Tree) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	itemsA, itemsB := a.Items(), b.Items()
	if len(itemsA) != len(itemsB) {
		return false
	}
	values := make(map[string]any, len(itemsB))
	for _, item := range itemsB {
		values[item.Key] = item.Value
	}
	for _, item := range itemsA {
		other, ok := values[item.Key]
		if !ok || !reflect.DeepEqual(item.Value, other) {
			return false
		}
	}
	return true
}

// sortedNames returns the keys of m in ascending order.
func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// sortedList returns a sorted copy of names.
func sortedList(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}
