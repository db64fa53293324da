// Package resource provides the strongly-typed model the converter targets:
// resource types with ordered properties, resource sets, and mutable resource
// instances with explicit nullability.
package resource

import (
	"fmt"
	"strings"
)

// PropertyKind classifies how a property holds its value
type PropertyKind int

const (
	// Primitive properties hold a single coerced scalar
	Primitive PropertyKind = iota
	// ComplexReference properties hold one nested resource
	ComplexReference
	// Collection properties hold an ordered sequence of scalars or resources
	Collection
)

// String returns the string representation of the property kind
func (k PropertyKind) String() string {
	switch k {
	case Primitive:
		return "primitive"
	case ComplexReference:
		return "complex"
	case Collection:
		return "collection"
	default:
		return "unknown"
	}
}

// ParsePropertyKind converts a string to a PropertyKind
func ParsePropertyKind(s string) (PropertyKind, error) {
	switch s {
	case "primitive":
		return Primitive, nil
	case "complex":
		return ComplexReference, nil
	case "collection":
		return Collection, nil
	default:
		return 0, fmt.Errorf("unknown property kind: %s", s)
	}
}

// ScalarType represents the native scalar types a primitive property can declare
type ScalarType int

const (
	// ScalarNone means no declared scalar type; values are kept as converted
	ScalarNone ScalarType = iota
	ScalarString
	ScalarInt32
	ScalarInt64
	ScalarDouble
	ScalarBool
	ScalarDateTime
	ScalarBinary
	ScalarUUID
)

// String returns the string representation of the scalar type
func (s ScalarType) String() string {
	switch s {
	case ScalarNone:
		return "none"
	case ScalarString:
		return "string"
	case ScalarInt32:
		return "int32"
	case ScalarInt64:
		return "int64"
	case ScalarDouble:
		return "double"
	case ScalarBool:
		return "bool"
	case ScalarDateTime:
		return "datetime"
	case ScalarBinary:
		return "binary"
	case ScalarUUID:
		return "uuid"
	default:
		return "unknown"
	}
}

// ParseScalarType converts a string to a ScalarType. A few common aliases are
// accepted so catalog files can use the names they are used to.
func ParseScalarType(s string) (ScalarType, error) {
	switch s {
	case "", "none", "any":
		return ScalarNone, nil
	case "string", "text", "objectid":
		return ScalarString, nil
	case "int32", "int":
		return ScalarInt32, nil
	case "int64", "long", "bigint":
		return ScalarInt64, nil
	case "double", "float":
		return ScalarDouble, nil
	case "bool", "boolean":
		return ScalarBool, nil
	case "datetime", "timestamp":
		return ScalarDateTime, nil
	case "binary", "bytes":
		return ScalarBinary, nil
	case "uuid", "guid":
		return ScalarUUID, nil
	default:
		return 0, fmt.Errorf("unknown scalar type: %s", s)
	}
}

// TypeRef is the declared value type of a primitive property: either
// Required(T) or Optional(T)
type TypeRef struct {
	scalar   ScalarType
	optional bool
}

// Required declares a non-nullable scalar type
func Required(t ScalarType) TypeRef {
	return TypeRef{scalar: t}
}

// Optional declares a nullable scalar type
func Optional(t ScalarType) TypeRef {
	return TypeRef{scalar: t, optional: true}
}

// Underlying returns the scalar type with any nullable wrapping removed
func (t TypeRef) Underlying() ScalarType {
	return t.scalar
}

// IsOptional returns true if the type accepts null
func (t TypeRef) IsOptional() bool {
	return t.optional
}

// String renders the type with its nullability suffix (string! / string?)
func (t TypeRef) String() string {
	if t.optional {
		return t.scalar.String() + "?"
	}
	return t.scalar.String() + "!"
}

// ParseTypeRef parses the textual form produced by TypeRef.String. A missing
// suffix means required.
func ParseTypeRef(s string) (TypeRef, error) {
	optional := false
	switch {
	case strings.HasSuffix(s, "?"):
		optional = true
		s = strings.TrimSuffix(s, "?")
	case strings.HasSuffix(s, "!"):
		s = strings.TrimSuffix(s, "!")
	}

	scalar, err := ParseScalarType(s)
	if err != nil {
		return TypeRef{}, err
	}
	return TypeRef{scalar: scalar, optional: optional}, nil
}

// Property is a declared field of a resource type
type Property struct {
	Name string
	Kind PropertyKind

	// Type is the value type of a primitive property, or the item type of a
	// scalar collection
	Type TypeRef

	// TypeName names the nested resource type of a complex property or of a
	// collection of complex items
	TypeName string
}

// IsCollection returns true if the property holds a sequence
func (p *Property) IsCollection() bool {
	return p.Kind == Collection
}

// Type is a named resource schema with an ordered list of properties
type Type struct {
	Name          string
	Documentation string
	Properties    []*Property

	index map[string]int
}

// NewType creates a resource type with the given properties in declaration order
func NewType(name string, props ...*Property) *Type {
	t := &Type{Name: name}
	for _, p := range props {
		t.AddProperty(p)
	}
	return t
}

// AddProperty appends a property, replacing an existing one with the same name
func (t *Type) AddProperty(p *Property) {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if i, exists := t.index[p.Name]; exists {
		t.Properties[i] = p
		return
	}
	t.index[p.Name] = len(t.Properties)
	t.Properties = append(t.Properties, p)
}

// Property returns the property with the given name
func (t *Type) Property(name string) (*Property, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.Properties[i], true
}

// HasProperty returns true if the type declares a property with the given name
func (t *Type) HasProperty(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Set is a named collection of resources bound to exactly one resource type
type Set struct {
	Name string
	Type *Type
}

// NewSet creates a resource set
func NewSet(name string, t *Type) *Set {
	return &Set{Name: name, Type: t}
}
