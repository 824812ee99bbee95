// FILE: fennec-dl/config/path.go
package config

import (
	"fmt"
	"strings"
)

// splitPath splits a dotted FQN into its segments.
func splitPath(fqn string) []string {
	return strings.Split(strings.TrimSpace(fqn), ".")
}

// walkParent resolves every segment of fqn except the last as a subtree lookup
// and returns the parent node together with the final segment.
func walkParent(root Tree, fqn string) (Tree, string, error) {
	segments := splitPath(fqn)
	current := root
	for i, segment := range segments[:len(segments)-1] {
		value, err := current.Field(segment)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %q", ErrPathNotFound, strings.Join(segments[:i+1], "."))
		}
		sub, ok := value.(Tree)
		if !ok {
			return nil, "", fmt.Errorf("%w: %q is not a subtree", ErrPathNotFound, strings.Join(segments[:i+1], "."))
		}
		current = sub
	}
	return current, segments[len(segments)-1], nil
}

// getPath returns the value addressed by fqn.
func getPath(root Tree, fqn string) (any, error) {
	parent, name, err := walkParent(root, fqn)
	if err != nil {
		return nil, err
	}
	value, err := parent.Field(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrPathNotFound, fqn)
	}
	return value, nil
}

// setPath assigns value at fqn through the parent's own SetField.
func setPath(root Tree, fqn string, value any) error {
	parent, name, err := walkParent(root, fqn)
	if err != nil {
		return err
	}
	return parent.SetField(name, value)
}

// deletePath removes fqn through the parent's own DeleteField.
func deletePath(root Tree, fqn string) error {
	parent, name, err := walkParent(root, fqn)
	if err != nil {
		return err
	}
	return parent.DeleteField(name)
}

// hasPath reports whether fqn is a key of root or a strict ancestor of one.
func hasPath(root Tree, fqn string) bool {
	fqn = strings.TrimSpace(fqn)
	if fqn == "" {
		return false
	}
	prefix := fqn + "."
	for _, key := range root.Keys() {
		if key == fqn || strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}
