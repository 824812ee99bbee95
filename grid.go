// FILE: fennec-dl/config/grid.go
package config

import (
	"fmt"
	"sort"
)

// Grid returns one clone of base per combination of override values, the
// Cartesian product over every FQN with a non-empty candidate list. Dimensions
// follow the order of base.Keys() and the last one varies fastest, so for
// overrides a:[1,3] and b.c:[3,5] the variants are (1,3) (1,5) (3,3) (3,5).
// Keys are sorted by name at every level, so the order ignores the order of
// the source document: for a document "z: 1\na: 2" the field z varies fastest.
//
// An empty candidate list leaves its field alone. With no non-empty list the
// result is empty, not a single copy of base.
func Grid(base Tree, overrides map[string][]any) ([]Tree, error) {
	for _, fqn := range sortedNames(overrides) {
		if !base.Has(fqn) {
			return nil, fmt.Errorf("%w: cannot override %q", ErrPathNotFound, fqn)
		}
	}

	position := make(map[string]int)
	for i, key := range base.Keys() {
		position[key] = i
	}
	var dims []string
	for fqn, values := range overrides {
		if len(values) > 0 {
			dims = append(dims, fqn)
		}
	}
	if len(dims) == 0 {
		return []Tree{}, nil
	}
	sort.Slice(dims, func(i, j int) bool { return position[dims[i]] < position[dims[j]] })

	total := 1
	for _, fqn := range dims {
		total *= len(overrides[fqn])
	}

	variants := make([]Tree, 0, total)
	index := make([]int, len(dims))
	for n := 0; n < total; n++ {
		variant := base.Clone()
		for d, fqn := range dims {
			if err := variant.Set(fqn, copyValue(overrides[fqn][index[d]])); err != nil {
				return nil, fmt.Errorf("variant %d: %s: %w", n, fqn, err)
			}
		}
		variants = append(variants, variant)

		// odometer step, rightmost dimension first
		for d := len(dims) - 1; d >= 0; d-- {
			index[d]++
			if index[d] < len(overrides[dims[d]]) {
				break
			}
			index[d] = 0
		}
	}
	return variants, nil
}
