// FILE: fennec-dl/config/format.go
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format names a document syntax.
type Format string

const (
	// FormatAuto picks the format from the file extension, falling back to YAML
	FormatAuto Format = ""
	// FormatYAML is the only format that understands !include and !ref
	FormatYAML Format = "yaml"
	// FormatJSON also accepts JSONC comments and trailing commas
	FormatJSON Format = "json"
	// FormatTOML reads TOML documents
	FormatTOML Format = "toml"
)

// ParseFormat converts a user supplied name such as "yml" into a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return FormatAuto, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json", "jsonc":
		return FormatJSON, nil
	case "toml", "tml":
		return FormatTOML, nil
	}
	return FormatAuto, fmt.Errorf("unsupported format %q", name)
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml", ".tml":
		return FormatTOML
	case ".json", ".jsonc":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatAuto
	}
}

// resolveFormat applies the precedence explicit format, then extension, then YAML.
func resolveFormat(explicit Format, path string) Format {
	if explicit != FormatAuto {
		return explicit
	}
	if path != "" {
		if detected := detectFileFormat(path); detected != FormatAuto {
			return detected
		}
	}
	return FormatYAML
}

// decodeJSON parses JSON or JSONC into plain values with canonical numbers.
func decodeJSON(data []byte) (map[string]any, error) {
	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	decoder.UseNumber() // Preserve the int/float distinction
	var raw any
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	normalized, err := normalizeDocument(raw)
	if err != nil {
		return nil, err
	}
	root, ok := normalized.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top-level JSON document must be an object, got %s", typeName(normalized))
	}
	return root, nil
}

// decodeTOML parses a TOML document into plain values.
func decodeTOML(data []byte) (map[string]any, error) {
	raw := make(map[string]any)
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	normalized, err := normalizeDocument(raw)
	if err != nil {
		return nil, err
	}
	return normalized.(map[string]any), nil
}

// normalizeDocument rewrites decoder specific values (json.Number, TOML dates,
// typed slices of tables) into the canonical value set.
func normalizeDocument(value any) (any, error) {
	switch v := value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", v.String(), err)
		}
		return f, nil
	case time.Time:
		return formatTime(v), nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, elem := range v {
			normalized, err := normalizeDocument(elem)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			out[key] = normalized
		}
		return out, nil
	case []map[string]any:
		out := make([]any, len(v))
		for i, elem := range v {
			normalized, err := normalizeDocument(elem)
			if err != nil {
				return nil, err
			}
			out[i] = normalized
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			normalized, err := normalizeDocument(elem)
			if err != nil {
				return nil, err
			}
			out[i] = normalized
		}
		return out, nil
	}
	return value, nil
}

// formatTime renders a decoded timestamp as a string. TOML local dates and
// times carry a marker zone and keep their local form.
func formatTime(t time.Time) string {
	switch t.Location().String() {
	case "date-local":
		return t.Format(time.DateOnly)
	case "time-local":
		return t.Format("15:04:05.999999999")
	case "datetime-local":
		return t.Format("2006-01-02T15:04:05.999999999")
	}
	return t.Format(time.RFC3339Nano)
}

// marshalDocument encodes a plain map in the given format.
func marshalDocument(m map[string]any, format Format) ([]byte, error) {
	switch format {
	case FormatAuto, FormatYAML:
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(m); err != nil {
			return nil, fmt.Errorf("failed to marshal YAML: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return nil, fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON:
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return append(data, '\n'), nil
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(m); err != nil {
			return nil, fmt.Errorf("failed to marshal TOML: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}
