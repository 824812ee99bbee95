// FILE: fennec-dl/config/value.go
package config

import (
	"fmt"
	"math"
	"reflect"
)

// normalizeLeaf converts a scalar into its canonical form: nil, bool, int64,
// float64 or string. The second return value is false for non-scalars.
func normalizeLeaf(value any) (any, bool, error) {
	switch v := value.(type) {
	case nil:
		return nil, true, nil
	case bool, int64, float64, string:
		return v, true, nil
	case int:
		return int64(v), true, nil
	case int8:
		return int64(v), true, nil
	case int16:
		return int64(v), true, nil
	case int32:
		return int64(v), true, nil
	case uint8:
		return int64(v), true, nil
	case uint16:
		return int64(v), true, nil
	case uint32:
		return int64(v), true, nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			return nil, true, fmt.Errorf("%w: unsigned integer %d overflows int64", ErrConfigLoading, v)
		}
		return int64(v), true, nil
	case uint64:
		if v > math.MaxInt64 {
			return nil, true, fmt.Errorf("%w: unsigned integer %d overflows int64", ErrConfigLoading, v)
		}
		return int64(v), true, nil
	case float32:
		return float64(v), true, nil
	}
	return nil, false, nil
}

// asSequence returns the elements of any slice or array value as []any.
func asSequence(value any) ([]any, bool) {
	if s, ok := value.([]any); ok {
		return s, true
	}
	if value == nil {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	// []byte is not a sequence of small integers here
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// asMap returns value as a plain nested map. Trees are flattened back into maps
// so that assigning a tree copies its content.
func asMap(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case Tree:
		return v.ToMap(), true
	}
	return nil, false
}

// copyValue deep-copies a stored value. Subtrees are cloned and sequences
// rebuilt, scalars are immutable and shared.
func copyValue(value any) any {
	switch v := value.(type) {
	case *DynamicTree:
		return v.cloneDynamic()
	case *StaticTree:
		return v.cloneStatic()
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = copyValue(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, elem := range v {
			out[k] = copyValue(elem)
		}
		return out
	default:
		return v
	}
}

// detachSequence copies sequences and returns everything else unchanged.
// Subtrees are shared; they guard their own mutations.
func detachSequence(value any) any {
	if seq, ok := value.([]any); ok {
		return copyValue(seq)
	}
	return value
}

// plainValue turns a stored value into its plain map/slice/scalar form.
func plainValue(value any) any {
	switch v := value.(type) {
	case Tree:
		return v.ToMap()
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = plainValue(elem)
		}
		return out
	default:
		return v
	}
}

// kindOf reports the kind of a canonical value.
func kindOf(value any) Kind {
	switch value.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case int64:
		return KindInt
	case float64:
		return KindFloat
	case string:
		return KindString
	case []any:
		return KindList
	case Tree, map[string]any:
		return KindNested
	}
	return KindInvalid
}

// typeName describes the dynamic type of a value for error messages.
func typeName(value any) string {
	if k := kindOf(value); k != KindInvalid {
		return k.String()
	}
	return fmt.Sprintf("%T", value)
}
