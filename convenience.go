// File: fennec-dl/config/convenience.go
package config

import (
	"fmt"
	"os"
	"strings"
)

// LoadDynamic loads a schema-free tree with a default Loader
func LoadDynamic(path string) (*DynamicTree, error) {
	return NewLoader().LoadDynamic(path)
}

// ParseDynamic parses a schema-free tree with a default Loader
func ParseDynamic(text string) (*DynamicTree, error) {
	return NewLoader().ParseDynamic(text)
}

// LoadStatic loads a schema-checked tree with a default Loader
func LoadStatic(path string, schema *Schema) (*StaticTree, error) {
	return NewLoader().LoadStatic(path, schema)
}

// ParseStatic parses a schema-checked tree with a default Loader
func ParseStatic(text string, schema *Schema) (*StaticTree, error) {
	return NewLoader().ParseStatic(text, schema)
}

// MustLoadDynamic is like LoadDynamic but panics on error
func MustLoadDynamic(path string) *DynamicTree {
	tree, err := LoadDynamic(path)
	if err != nil {
		panic(fmt.Sprintf("config initialization failed: %v", err))
	}
	return tree
}

// MustLoadStatic is like LoadStatic but panics on error
func MustLoadStatic(path string, schema *Schema) *StaticTree {
	tree, err := LoadStatic(path, schema)
	if err != nil {
		panic(fmt.Sprintf("config initialization failed: %v", err))
	}
	return tree
}

// Required returns a validator that checks every fqn is present and not null.
func Required(fqns ...string) ValidatorFunc {
	return func(t Tree) error {
		var missing []string
		for _, fqn := range fqns {
			value, err := t.Get(fqn)
			if err != nil || value == nil {
				missing = append(missing, fqn)
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
		}
		return nil
	}
}

// Debug returns a formatted listing of every leaf FQN with its type and value
func Debug(t Tree) string {
	var b strings.Builder
	b.WriteString("Configuration Debug Info:\n")
	fmt.Fprintf(&b, "Variant: %s, read-only: %t\n", variantName(t), t.ReadOnly())
	b.WriteString("Current values:\n")

	flat := flattenMap(t.ToMap(), "")
	for _, key := range sortedNames(flat) {
		value := flat[key]
		fmt.Fprintf(&b, "  %s (%s): %v\n", key, typeName(value), value)
	}

	return b.String()
}

// Dump writes the tree to stdout in YAML format
func Dump(t Tree) error {
	return Encode(os.Stdout, t, FormatYAML)
}

func variantName(t Tree) string {
	switch v := t.(type) {
	case *StaticTree:
		return "static[" + v.schema.name + "]"
	case *DynamicTree:
		return "dynamic"
	}
	return fmt.Sprintf("%T", t)
}
