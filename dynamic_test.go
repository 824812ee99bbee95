// FILE: fennec-dl/config/dynamic_test.go
package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDynamic(t *testing.T) *DynamicTree {
	t.Helper()
	tree, err := newDynamicTree(map[string]any{
		"a": 1,
		"b": map[string]any{"x": 3},
	})
	require.NoError(t, err)
	return tree
}

// TestDynamicConstruction tests parsing nested maps into trees
func TestDynamicConstruction(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		input := map[string]any{
			"seed":  int64(7),
			"name":  "run",
			"ratio": 0.5,
			"debug": false,
			"none":  nil,
			"dims":  []any{int64(1), []any{"x", "y"}},
			"model": map[string]any{
				"optimizer": map[string]any{"lr": 0.01},
			},
		}
		tree, err := newDynamicTree(input)
		require.NoError(t, err)
		if diff := cmp.Diff(input, tree.ToMap()); diff != "" {
			t.Errorf("ToMap mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("NormalizesNumbers", func(t *testing.T) {
		tree, err := newDynamicTree(map[string]any{
			"i":  42,
			"u":  uint16(3),
			"f":  float32(0.5),
			"is": []int{1, 2},
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"i":  int64(42),
			"u":  int64(3),
			"f":  0.5,
			"is": []any{int64(1), int64(2)},
		}, tree.ToMap())
	})

	t.Run("RejectsListsOfSubtrees", func(t *testing.T) {
		_, err := newDynamicTree(map[string]any{
			"layers": []any{map[string]any{"size": 3}},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConfigLoading)
		assert.Contains(t, err.Error(), "lists of subtrees are not allowed")
	})

	t.Run("RejectsUnsupportedValues", func(t *testing.T) {
		_, err := newDynamicTree(map[string]any{"ch": make(chan int)})
		assert.ErrorIs(t, err, ErrConfigLoading)
	})

	t.Run("RejectsDottedNames", func(t *testing.T) {
		_, err := newDynamicTree(map[string]any{"a.b": 1})
		assert.ErrorIs(t, err, ErrConfigLoading)
	})
}

// TestDynamicEnumeration tests Keys, Items, Has and Len
func TestDynamicEnumeration(t *testing.T) {
	tree := sampleDynamic(t)

	assert.Equal(t, []string{"a", "b", "b.x"}, tree.Keys())
	assert.Equal(t, []Item{{Key: "a", Value: int64(1)}, {Key: "b.x", Value: int64(3)}}, tree.Items())
	assert.Equal(t, 3, tree.Len())
	assert.Equal(t, []string{"a", "b"}, tree.Fields())

	assert.True(t, tree.Has("a"))
	assert.True(t, tree.Has("b"))
	assert.True(t, tree.Has("b.x"))
	assert.False(t, tree.Has("b.y"))
	assert.False(t, tree.Has("bx"))
	assert.False(t, tree.Has(""))
}

// TestDynamicPathOperations tests get/set/delete through dotted paths
func TestDynamicPathOperations(t *testing.T) {
	t.Run("Get", func(t *testing.T) {
		tree := sampleDynamic(t)

		value, err := tree.Get("b.x")
		require.NoError(t, err)
		assert.Equal(t, int64(3), value)

		sub, err := tree.Get("b")
		require.NoError(t, err)
		assert.IsType(t, &DynamicTree{}, sub)

		_, err = tree.Get("b.missing")
		assert.ErrorIs(t, err, ErrPathNotFound)

		_, err = tree.Get("missing.x")
		assert.ErrorIs(t, err, ErrPathNotFound)
		assert.Contains(t, err.Error(), `"missing"`)

		_, err = tree.Get("a.x")
		assert.ErrorIs(t, err, ErrPathNotFound)
		assert.Contains(t, err.Error(), "not a subtree")
	})

	t.Run("SetPromotesMaps", func(t *testing.T) {
		tree := sampleDynamic(t)

		require.NoError(t, tree.Set("b.y", map[string]any{"z": "q"}))
		assert.Equal(t, []string{"a", "b", "b.x", "b.y", "b.y.z"}, tree.Keys())

		value, err := tree.Get("b.y.z")
		require.NoError(t, err)
		assert.Equal(t, "q", value)
	})

	t.Run("SetReplacesAnyType", func(t *testing.T) {
		tree := sampleDynamic(t)

		require.NoError(t, tree.Set("a", "now a string"))
		require.NoError(t, tree.Set("b", []string{"l", "m"}))
		assert.Equal(t, map[string]any{"a": "now a string", "b": []any{"l", "m"}}, tree.ToMap())
	})

	t.Run("SetMissingParent", func(t *testing.T) {
		tree := sampleDynamic(t)
		err := tree.Set("c.d", 1)
		assert.ErrorIs(t, err, ErrPathNotFound)
		assert.False(t, tree.Has("c"))
	})

	t.Run("Delete", func(t *testing.T) {
		tree := sampleDynamic(t)

		require.NoError(t, tree.Delete("b.x"))
		assert.Equal(t, []string{"a", "b"}, tree.Keys())

		err := tree.Delete("b.x")
		assert.ErrorIs(t, err, ErrPathNotFound)

		require.NoError(t, tree.Delete("b"))
		assert.Equal(t, []string{"a"}, tree.Keys())
	})
}

// TestDynamicFreeze tests that freezing cascades and leaves the tree untouched
func TestDynamicFreeze(t *testing.T) {
	tree := sampleDynamic(t)
	tree.Freeze()

	assert.True(t, tree.ReadOnly())
	sub, err := GetTree(tree, "b")
	require.NoError(t, err)
	assert.True(t, sub.ReadOnly())

	assert.ErrorIs(t, tree.Set("a", 2), ErrReadOnly)
	assert.ErrorIs(t, tree.Set("b.x", 2), ErrReadOnly)
	assert.ErrorIs(t, tree.Set("new", 2), ErrReadOnly)
	assert.ErrorIs(t, tree.Delete("a"), ErrReadOnly)
	assert.ErrorIs(t, tree.Delete("b.x"), ErrReadOnly)
	// A missing field is reported before the frozen state
	assert.ErrorIs(t, tree.Delete("missing"), ErrPathNotFound)

	assert.Equal(t, map[string]any{"a": int64(1), "b": map[string]any{"x": int64(3)}}, tree.ToMap())
}

// TestFrozenSequences tests that returned sequences cannot change a frozen tree
func TestFrozenSequences(t *testing.T) {
	tree, err := newDynamicTree(map[string]any{
		"xs":  []any{1, 2},
		"sub": map[string]any{"ys": []any{[]any{3}}},
	})
	require.NoError(t, err)
	tree.Freeze()

	xs, err := tree.Get("xs")
	require.NoError(t, err)
	xs.([]any)[0] = int64(99)

	ys, err := tree.Field("sub")
	require.NoError(t, err)
	inner, _ := ys.(Tree).Get("ys")
	inner.([]any)[0].([]any)[0] = int64(99)

	for _, item := range tree.Items() {
		item.Value.([]any)[0] = "changed"
	}

	assert.Equal(t, map[string]any{
		"xs":  []any{int64(1), int64(2)},
		"sub": map[string]any{"ys": []any{[]any{int64(3)}}},
	}, tree.ToMap())

	static, err := ParseStatic("layers: [1, 2]\n", NewSchema("s").Field("layers", List(Int)))
	require.NoError(t, err)
	static.Freeze()
	layers, _ := static.Get("layers")
	layers.([]any)[1] = int64(99)
	assert.Equal(t, map[string]any{"layers": []any{int64(1), int64(2)}}, static.ToMap())
}

// TestDynamicClone tests that clones share no mutable state
func TestDynamicClone(t *testing.T) {
	tree, err := newDynamicTree(map[string]any{
		"a": 1,
		"b": map[string]any{"x": 3, "l": []any{1, []any{2}}},
	})
	require.NoError(t, err)
	tree.Freeze()

	clone := tree.Clone()
	assert.False(t, clone.ReadOnly())
	assert.Equal(t, tree.ToMap(), clone.ToMap())
	assert.True(t, clone.Equal(tree))

	require.NoError(t, clone.Set("b.x", 9))
	require.NoError(t, clone.Set("b.l", []any{1, []any{99}}))

	x, _ := tree.Get("b.x")
	assert.Equal(t, int64(3), x)
	l, _ := tree.Get("b.l")
	assert.Equal(t, []any{int64(1), []any{int64(2)}}, l)
	assert.False(t, clone.Equal(tree))
}

// TestTreeEquality tests structural equality across values and variants
func TestTreeEquality(t *testing.T) {
	a := sampleDynamic(t)
	b := sampleDynamic(t)
	assert.True(t, a.Equal(b))

	require.NoError(t, b.Set("b.x", 4))
	assert.False(t, a.Equal(b))
	assert.False(t, b.Equal(a))

	c := sampleDynamic(t)
	require.NoError(t, c.Set("extra", 1))
	assert.False(t, a.Equal(c))
	assert.False(t, c.Equal(a))

	inner := NewSchema("inner").Field("x", Int)
	schema := NewSchema("outer").Field("a", Int).Field("b", Nested(inner))
	static, err := newStaticTree(schema, a.ToMap(), nil)
	require.NoError(t, err)
	assert.True(t, a.Equal(static))
	assert.True(t, static.Equal(a))

	// no numeric widening
	ints, err := ParseDynamic("v: 1\n")
	require.NoError(t, err)
	floats, err := ParseDynamic("v: 1.0\n")
	require.NoError(t, err)
	assert.False(t, ints.Equal(floats))
}
