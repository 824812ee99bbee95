// FILE: fennec-dl/config/flags.go
package config

import (
	"fmt"
	"slices"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// LeafType pairs a leaf FQN with the kind of value an override must have.
type LeafType struct {
	Name string
	Kind Kind
}

// LeafTypes enumerates the leaves of t with their override kinds, in Items order.
// Static trees report the declared type: optional and union fields report
// their first primitive alternative and lists report KindList. Dynamic trees,
// and static fields without a primitive alternative such as a null optional
// subtree, report the kind of the current value with null treated as a bool
// switch.
func LeafTypes(t Tree) []LeafType {
	static, isStatic := t.(*StaticTree)
	items := t.Items()
	out := make([]LeafType, 0, len(items))
	for _, item := range items {
		kind := kindOf(item.Value)
		if isStatic {
			if declared, ok := static.typeOf(item.Key); ok {
				if k := declared.leafKind(); k != KindInvalid {
					kind = k
				}
			}
		}
		if kind == KindNull {
			kind = KindBool
		}
		out = append(out, LeafType{Name: item.Key, Kind: kind})
	}
	return out
}

// overrideAnnotation marks the flags AddOverrideFlags registered.
const overrideAnnotation = "config-override"

// FlagOptions filters the leaves AddOverrideFlags registers. Names are exact FQNs.
type FlagOptions struct {
	// Include, when non-empty, limits registration to these FQNs
	Include []string
	// Exclude skips these FQNs
	Exclude []string
}

func (o FlagOptions) selects(fqn string) bool {
	if len(o.Include) > 0 && !slices.Contains(o.Include, fqn) {
		return false
	}
	return !slices.Contains(o.Exclude, fqn)
}

// AddOverrideFlags registers one repeatable flag per selected leaf of t, named
// after its FQN. Every occurrence adds a candidate value: --b.c 3 --b.c 5.
// List leaves take YAML flow sequences such as --layers "[64, 32]".
func AddOverrideFlags(fs *pflag.FlagSet, t Tree, opts FlagOptions) error {
	for _, leaf := range LeafTypes(t) {
		if !opts.selects(leaf.Name) {
			continue
		}
		if fs.Lookup(leaf.Name) != nil {
			return fmt.Errorf("flag --%s already defined", leaf.Name)
		}
		usage := fmt.Sprintf("override %s (%s, repeatable)", leaf.Name, leaf.Kind)
		switch leaf.Kind {
		case KindBool:
			fs.BoolSlice(leaf.Name, []bool{}, usage)
		case KindInt:
			fs.Int64Slice(leaf.Name, []int64{}, usage)
		case KindFloat:
			fs.Float64Slice(leaf.Name, []float64{}, usage)
		case KindString, KindList:
			fs.StringArray(leaf.Name, []string{}, usage)
		default:
			return fmt.Errorf("cannot register flag --%s for %s values", leaf.Name, leaf.Kind)
		}
		if err := fs.SetAnnotation(leaf.Name, overrideAnnotation, []string{leaf.Kind.String()}); err != nil {
			return err
		}
	}
	return nil
}

// OverridesFromFlags collects the candidate values of every override flag the
// user set. Only flags registered by AddOverrideFlags are read; a program flag
// that shares its name with a leaf is left alone.
func OverridesFromFlags(fs *pflag.FlagSet, t Tree) (map[string][]any, error) {
	overrides := make(map[string][]any)
	for _, leaf := range LeafTypes(t) {
		flag := fs.Lookup(leaf.Name)
		if flag == nil || !flag.Changed {
			continue
		}
		if _, ok := flag.Annotations[overrideAnnotation]; !ok {
			continue
		}
		values, err := flagValues(fs, leaf)
		if err != nil {
			return nil, fmt.Errorf("flag --%s: %w", leaf.Name, err)
		}
		overrides[leaf.Name] = values
	}
	return overrides, nil
}

// ExpandFlags builds the grid of t for the override flags set on fs.
func ExpandFlags(fs *pflag.FlagSet, t Tree) ([]Tree, error) {
	overrides, err := OverridesFromFlags(fs, t)
	if err != nil {
		return nil, err
	}
	return Grid(t, overrides)
}

// flagValues reads the values of one override flag as canonical values.
func flagValues(fs *pflag.FlagSet, leaf LeafType) ([]any, error) {
	var values []any
	switch leaf.Kind {
	case KindBool:
		raw, err := fs.GetBoolSlice(leaf.Name)
		if err != nil {
			return nil, err
		}
		for _, v := range raw {
			values = append(values, v)
		}
	case KindInt:
		raw, err := fs.GetInt64Slice(leaf.Name)
		if err != nil {
			return nil, err
		}
		for _, v := range raw {
			values = append(values, v)
		}
	case KindFloat:
		raw, err := fs.GetFloat64Slice(leaf.Name)
		if err != nil {
			return nil, err
		}
		for _, v := range raw {
			values = append(values, v)
		}
	case KindString:
		raw, err := fs.GetStringArray(leaf.Name)
		if err != nil {
			return nil, err
		}
		for _, v := range raw {
			values = append(values, v)
		}
	case KindList:
		raw, err := fs.GetStringArray(leaf.Name)
		if err != nil {
			return nil, err
		}
		for _, v := range raw {
			list, err := parseFlowSequence(v)
			if err != nil {
				return nil, err
			}
			values = append(values, list)
		}
	default:
		return nil, fmt.Errorf("unsupported kind %s", leaf.Kind)
	}
	return values, nil
}

// parseFlowSequence reads a YAML sequence such as "[1, 2, 3]".
func parseFlowSequence(text string) ([]any, error) {
	var raw any
	if err := yaml.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("invalid list %q: %w", text, err)
	}
	if _, ok := raw.([]any); !ok {
		return nil, fmt.Errorf("invalid list %q: not a sequence", text)
	}
	parsed, err := parseDynamic(raw, false)
	if err != nil {
		return nil, fmt.Errorf("invalid list %q: %w", text, err)
	}
	return parsed.([]any), nil
}
