// FILE: fennec-dl/config/grid_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gridBase(t *testing.T) *DynamicTree {
	t.Helper()
	tree, err := ParseDynamic("a: 2\nb:\n  c: 4\n")
	require.NoError(t, err)
	return tree
}

// pairs reads the (a, b.c) combination of every variant
func pairs(t *testing.T, variants []Tree) [][2]any {
	t.Helper()
	out := make([][2]any, len(variants))
	for i, variant := range variants {
		a, err := variant.Get("a")
		require.NoError(t, err)
		c, err := variant.Get("b.c")
		require.NoError(t, err)
		out[i] = [2]any{a, c}
	}
	return out
}

// TestGridOrder tests that the last dimension varies fastest
func TestGridOrder(t *testing.T) {
	base := gridBase(t)

	variants, err := Grid(base, map[string][]any{
		"b.c": {3, 5},
		"a":   {1, 3},
	})
	require.NoError(t, err)
	require.Len(t, variants, 4)
	assert.Equal(t, [][2]any{
		{int64(1), int64(3)},
		{int64(1), int64(5)},
		{int64(3), int64(3)},
		{int64(3), int64(5)},
	}, pairs(t, variants))

	// base is never touched
	assert.Equal(t, map[string]any{"a": int64(2), "b": map[string]any{"c": int64(4)}}, base.ToMap())

	t.Run("SortedNotDocumentOrder", func(t *testing.T) {
		base, err := ParseDynamic("z: 1\na: 2\n")
		require.NoError(t, err)

		variants, err := Grid(base, map[string][]any{"z": {1, 2}, "a": {3, 4}})
		require.NoError(t, err)
		var got [][2]any
		for _, variant := range variants {
			a, _ := variant.Get("a")
			z, _ := variant.Get("z")
			got = append(got, [2]any{a, z})
		}
		assert.Equal(t, [][2]any{
			{int64(3), int64(1)},
			{int64(3), int64(2)},
			{int64(4), int64(1)},
			{int64(4), int64(2)},
		}, got)
	})
}

// TestGridNoOverrides pins the empty result when nothing varies
func TestGridNoOverrides(t *testing.T) {
	base := gridBase(t)

	variants, err := Grid(base, nil)
	require.NoError(t, err)
	assert.Empty(t, variants)

	variants, err = Grid(base, map[string][]any{"a": {}, "b.c": nil})
	require.NoError(t, err)
	assert.Empty(t, variants)
}

// TestGridDimensions tests partial and single-dimension sweeps
func TestGridDimensions(t *testing.T) {
	t.Run("EmptyListIsIgnored", func(t *testing.T) {
		variants, err := Grid(gridBase(t), map[string][]any{"a": {}, "b.c": {7, 8, 9}})
		require.NoError(t, err)
		assert.Equal(t, [][2]any{
			{int64(2), int64(7)},
			{int64(2), int64(8)},
			{int64(2), int64(9)},
		}, pairs(t, variants))
	})

	t.Run("VariantsAreIndependent", func(t *testing.T) {
		variants, err := Grid(gridBase(t), map[string][]any{"a": {1, 2}})
		require.NoError(t, err)
		require.Len(t, variants, 2)

		require.NoError(t, variants[0].Set("b.c", 100))
		c, _ := variants[1].Get("b.c")
		assert.Equal(t, int64(4), c)
	})

	t.Run("ListValuesAreCopied", func(t *testing.T) {
		shared := []any{int64(1), int64(2)}
		base, err := ParseDynamic("l: [0]\n")
		require.NoError(t, err)

		variants, err := Grid(base, map[string][]any{"l": {shared}})
		require.NoError(t, err)
		require.Len(t, variants, 1)
		shared[0] = int64(9)

		l, _ := variants[0].Get("l")
		assert.Equal(t, []any{int64(1), int64(2)}, l)
	})

	t.Run("FrozenBase", func(t *testing.T) {
		base := gridBase(t)
		base.Freeze()

		variants, err := Grid(base, map[string][]any{"a": {5}})
		require.NoError(t, err)
		require.Len(t, variants, 1)
		assert.False(t, variants[0].ReadOnly())
	})
}

// TestGridErrors tests rejection of unknown paths and invalid values
func TestGridErrors(t *testing.T) {
	t.Run("UnknownPath", func(t *testing.T) {
		_, err := Grid(gridBase(t), map[string][]any{"b.missing": {1}})
		assert.ErrorIs(t, err, ErrPathNotFound)
	})

	t.Run("StaticTypeMismatch", func(t *testing.T) {
		schema := NewSchema("s").Field("a", Int)
		base, err := ParseStatic("a: 1\n", schema)
		require.NoError(t, err)

		_, err = Grid(base, map[string][]any{"a": {2, "three"}})
		assert.ErrorIs(t, err, ErrConfigLoading)

		variants, err := Grid(base, map[string][]any{"a": {2, 3}})
		require.NoError(t, err)
		require.Len(t, variants, 2)
		assert.IsType(t, &StaticTree{}, variants[0])
	})
}
