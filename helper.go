// File: fennec-dl/config/helper.go
package config

import "strings"

// isValidFieldName checks if a single path segment can name a field.
// Segments must be non-empty and cannot contain dots, otherwise FQNs would be ambiguous.
func isValidFieldName(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	return !strings.ContainsRune(s, '.')
}

// flattenMap converts a nested map[string]any to a flat map[string]any with dot-notation paths.
func flattenMap(nested map[string]any, prefix string) map[string]any {
	flat := make(map[string]any)

	for key, value := range nested {
		newPath := joinKey(prefix, key)

		// Check if the value is a map that can be further flattened
		if nestedMap, isMap := value.(map[string]any); isMap && len(nestedMap) > 0 {
			for subPath, subValue := range flattenMap(nestedMap, newPath) {
				flat[subPath] = subValue
			}
		} else {
			flat[newPath] = value
		}
	}

	return flat
}
