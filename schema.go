// FILE: fennec-dl/config/schema.go
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
)

// Kind tags a schema type descriptor or a canonical value.
type Kind int

const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindInt
	KindFloat
	KindString
	KindOptional
	KindList
	KindNested
	KindLiteral
	KindUnion
)

var kindNames = map[Kind]string{
	KindInvalid:  "invalid",
	KindNull:     "null",
	KindBool:     "bool",
	KindInt:      "int",
	KindFloat:    "float",
	KindString:   "string",
	KindOptional: "optional",
	KindList:     "list",
	KindNested:   "nested",
	KindLiteral:  "literal",
	KindUnion:    "union",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Type describes the values a schema field accepts. Build types with the
// package-level primitives and constructors; the zero Type is invalid.
type Type struct {
	kind    Kind
	elem    *Type
	options []Type
	schema  *Schema
	literal any
}

// Primitive field types.
var (
	Bool   = Type{kind: KindBool}
	Int    = Type{kind: KindInt}
	Float  = Type{kind: KindFloat}
	String = Type{kind: KindString}
)

// Optional accepts null or a value of t.
func Optional(t Type) Type {
	return Type{kind: KindOptional, elem: &t}
}

// List accepts a sequence whose elements are all of t.
func List(t Type) Type {
	return Type{kind: KindList, elem: &t}
}

// Nested accepts a map that satisfies s and stores it as a subtree.
func Nested(s *Schema) Type {
	return Type{kind: KindNested, schema: s}
}

// Literal accepts exactly value.
func Literal(value any) Type {
	return Type{kind: KindLiteral, literal: value}
}

// Union accepts a value of the first alternative it converts to.
func Union(options ...Type) Type {
	return Type{kind: KindUnion, options: options}
}

// Kind returns the descriptor's tag.
func (t Type) Kind() Kind { return t.kind }

// String renders the descriptor for messages, e.g. "optional[list[int]]".
func (t Type) String() string {
	switch t.kind {
	case KindOptional, KindList:
		if t.elem == nil {
			return t.kind.String() + "[?]"
		}
		return t.kind.String() + "[" + t.elem.String() + "]"
	case KindNested:
		if t.schema == nil {
			return "nested[?]"
		}
		return "nested[" + t.schema.Name() + "]"
	case KindLiteral:
		return fmt.Sprintf("literal[%#v]", t.literal)
	case KindUnion:
		parts := make([]string, len(t.options))
		for i, option := range t.options {
			parts[i] = option.String()
		}
		return "union[" + strings.Join(parts, ", ") + "]"
	}
	return t.kind.String()
}

// leafKind is the primitive kind a command-line override of this type parses
// into. Optional and union types use their first non-null primitive; nested
// schemas have none and report KindInvalid.
func (t Type) leafKind() Kind {
	switch t.kind {
	case KindOptional:
		if t.elem != nil {
			return t.elem.leafKind()
		}
	case KindUnion:
		for _, option := range t.options {
			if k := option.leafKind(); k != KindInvalid {
				return k
			}
		}
	case KindLiteral:
		literal, _, _ := normalizeLeaf(t.literal)
		return kindOf(literal)
	case KindBool, KindInt, KindFloat, KindString, KindList:
		return t.kind
	}
	return KindInvalid
}

// SchemaField is one declared field of a schema.
type SchemaField struct {
	Name string
	Type Type
}

// Schema declares the fixed field set of a StaticTree. Build one with
// NewSchema and chained Field calls; it is validated before any data is read.
type Schema struct {
	name   string
	fields []SchemaField
	index  map[string]int
	errs   []error
}

// NewSchema creates an empty schema called name.
func NewSchema(name string) *Schema {
	return &Schema{name: name, index: make(map[string]int)}
}

// Field declares a field. Problems are recorded and reported by Validate.
func (s *Schema) Field(name string, t Type) *Schema {
	if !isValidFieldName(name) {
		s.errs = append(s.errs, fmt.Errorf("invalid field name %q", name))
		return s
	}
	if _, exists := s.index[name]; exists {
		s.errs = append(s.errs, fmt.Errorf("duplicate field %q", name))
		return s
	}
	s.index[name] = len(s.fields)
	s.fields = append(s.fields, SchemaField{Name: name, Type: t})
	return s
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// Fields returns the declared fields in declaration order.
func (s *Schema) Fields() []SchemaField {
	out := make([]SchemaField, len(s.fields))
	copy(out, s.fields)
	return out
}

// Lookup returns the type declared for name.
func (s *Schema) Lookup(name string) (Type, bool) {
	i, ok := s.index[name]
	if !ok {
		return Type{}, false
	}
	return s.fields[i].Type, true
}

// Validate checks the schema definition itself, including every nested schema.
func (s *Schema) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil schema", ErrSchemaDefinition)
	}
	return s.validate(make(map[*Schema]bool))
}

func (s *Schema) validate(visited map[*Schema]bool) error {
	if visited[s] {
		return nil
	}
	visited[s] = true

	var errs []error
	for _, err := range s.errs {
		errs = append(errs, fmt.Errorf("%w: schema %s: %w", ErrSchemaDefinition, s.name, err))
	}
	for _, field := range s.fields {
		if err := validateType(field.Type, false, visited); err != nil {
			errs = append(errs, fmt.Errorf("%w: schema %s: field %q has type %s: %w",
				ErrSchemaDefinition, s.name, field.Name, field.Type, err))
		}
	}
	return errors.Join(errs...)
}

// validateType checks a descriptor. inList is set below a List, where nested
// schemas are forbidden.
func validateType(t Type, inList bool, visited map[*Schema]bool) error {
	switch t.kind {
	case KindBool, KindInt, KindFloat, KindString:
		return nil
	case KindOptional:
		if t.elem == nil {
			return errors.New("optional without a non-null alternative")
		}
		return validateType(*t.elem, inList, visited)
	case KindList:
		if t.elem == nil {
			return errors.New("list without an element type")
		}
		return validateType(*t.elem, true, visited)
	case KindUnion:
		if len(t.options) == 0 {
			return errors.New("union without alternatives")
		}
		for _, option := range t.options {
			if err := validateType(option, inList, visited); err != nil {
				return err
			}
		}
		return nil
	case KindNested:
		if t.schema == nil {
			return errors.New("nested type without a schema")
		}
		if inList {
			return errors.New("lists of subtrees are not allowed")
		}
		// Nested problems are reported with the nested schema's own name.
		return t.schema.validate(visited)
	case KindLiteral:
		literal, isLeaf, err := normalizeLeaf(t.literal)
		if err != nil || !isLeaf || literal == nil {
			return fmt.Errorf("literal of unsupported type %T", t.literal)
		}
		return nil
	}
	return fmt.Errorf("unrecognized kind %s", t.kind)
}

// convert checks value against t and returns the value to store.
func convert(value any, t Type, logger *slog.Logger) (any, error) {
	switch t.kind {
	case KindNested:
		m, ok := asMap(value)
		if !ok {
			return nil, mismatch(t, value)
		}
		return newStaticTree(t.schema, m, logger)
	case KindList:
		seq, ok := asSequence(value)
		if !ok {
			return nil, mismatch(t, value)
		}
		out := make([]any, len(seq))
		for i, elem := range seq {
			converted, err := convert(elem, *t.elem, logger)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = converted
		}
		return out, nil
	case KindOptional:
		if value == nil {
			return nil, nil
		}
		converted, err := convert(value, *t.elem, logger)
		if err != nil {
			return nil, mismatch(t, value)
		}
		return converted, nil
	case KindUnion:
		for _, option := range t.options {
			if converted, err := convert(value, option, logger); err == nil {
				return converted, nil
			}
		}
		return nil, mismatch(t, value)
	case KindLiteral:
		leaf, _, err := normalizeLeaf(value)
		if err != nil {
			return nil, err
		}
		literal, _, _ := normalizeLeaf(t.literal)
		if leaf == nil || !reflect.DeepEqual(leaf, literal) {
			return nil, mismatch(t, value)
		}
		return leaf, nil
	}

	leaf, isLeaf, err := normalizeLeaf(value)
	if err != nil {
		return nil, err
	}
	if !isLeaf || kindOf(leaf) != t.kind {
		return nil, mismatch(t, value)
	}
	return leaf, nil
}

// mismatch builds the conversion error for value against t.
func mismatch(t Type, value any) error {
	return fmt.Errorf("%w: expected %s, got %s", ErrConfigLoading, t, typeName(value))
}
