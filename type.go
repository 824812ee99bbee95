// File: fennec-dl/config/type.go
package config

import (
	"fmt"
	"strconv"
)

// GetString retrieves a string value at fqn.
// Numbers and booleans are formatted; null reads as the empty string.
func GetString(t Tree, fqn string) (string, error) {
	val, err := t.Get(fqn)
	if err != nil {
		return "", err
	}

	switch v := val.(type) {
	case nil:
		return "", nil // Treat nil as empty string for convenience
	case string:
		return v, nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("cannot convert %s to string for path %s", typeName(val), fqn)
	}
}

// GetInt retrieves an int64 value at fqn.
// Attempts conversion from floats without a fractional part, parsable strings, and booleans.
func GetInt(t Tree, fqn string) (int64, error) {
	val, err := t.Get(fqn)
	if err != nil {
		return 0, err
	}

	switch v := val.(type) {
	case nil:
		return 0, fmt.Errorf("value for path %s is nil, cannot convert to int64", fqn)
	case int64:
		return v, nil
	case float64:
		if v != float64(int64(v)) {
			return 0, fmt.Errorf("cannot convert float %v to int64 for path %s: fractional part", v, fqn)
		}
		return int64(v), nil
	case string:
		// Base 0 accepts prefixes such as "0xFF"
		i, perr := strconv.ParseInt(v, 0, 64)
		if perr != nil {
			return 0, fmt.Errorf("cannot convert string %q to int64 for path %s: %w", v, fqn, perr)
		}
		return i, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	}

	return 0, fmt.Errorf("cannot convert %s to int64 for path %s", typeName(val), fqn)
}

// GetBool retrieves a boolean value at fqn.
// Attempts conversion from numbers (0=false, non-zero=true) and parsable strings.
func GetBool(t Tree, fqn string) (bool, error) {
	val, err := t.Get(fqn)
	if err != nil {
		return false, err
	}

	switch v := val.(type) {
	case nil:
		return false, fmt.Errorf("value for path %s is nil, cannot convert to bool", fqn)
	case bool:
		return v, nil
	case string:
		b, perr := strconv.ParseBool(v)
		if perr != nil {
			return false, fmt.Errorf("cannot convert string %q to bool for path %s: %w", v, fqn, perr)
		}
		return b, nil
	case int64:
		return v != 0, nil
	case float64:
		return v != 0, nil
	}

	return false, fmt.Errorf("cannot convert %s to bool for path %s", typeName(val), fqn)
}

// GetFloat retrieves a float64 value at fqn.
// Attempts conversion from integers, parsable strings, and booleans.
func GetFloat(t Tree, fqn string) (float64, error) {
	val, err := t.Get(fqn)
	if err != nil {
		return 0, err
	}

	switch v := val.(type) {
	case nil:
		return 0, fmt.Errorf("value for path %s is nil, cannot convert to float64", fqn)
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case string:
		f, perr := strconv.ParseFloat(v, 64)
		if perr != nil {
			return 0, fmt.Errorf("cannot convert string %q to float64 for path %s: %w", v, fqn, perr)
		}
		return f, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	}

	return 0, fmt.Errorf("cannot convert %s to float64 for path %s", typeName(val), fqn)
}

// GetList retrieves a copy of the sequence at fqn.
func GetList(t Tree, fqn string) ([]any, error) {
	val, err := t.Get(fqn)
	if err != nil {
		return nil, err
	}
	list, ok := val.([]any)
	if !ok {
		return nil, fmt.Errorf("value for path %s is %s, not a list", fqn, typeName(val))
	}
	return list, nil
}

// GetTree retrieves the subtree at fqn. The subtree is shared with t, not copied.
func GetTree(t Tree, fqn string) (Tree, error) {
	val, err := t.Get(fqn)
	if err != nil {
		return nil, err
	}
	sub, ok := val.(Tree)
	if !ok {
		return nil, fmt.Errorf("value for path %s is %s, not a subtree", fqn, typeName(val))
	}
	return sub, nil
}
