package catalog

import (
	"errors"
	"fmt"

	"github.com/conduit-lang/docbridge/internal/resource"
)

// Builder assembles a Registry from fluent type declarations. Nested complex
// types declared inline are registered under their qualified name
// (Owner__property).
type Builder struct {
	types  []*TypeBuilder
	sets   [][2]string
	errors []error
}

// NewBuilder creates a new catalog builder
func NewBuilder() *Builder {
	return &Builder{
		types:  make([]*TypeBuilder, 0),
		errors: make([]error, 0),
	}
}

// TypeBuilder declares the properties of one resource type
type TypeBuilder struct {
	builder *Builder
	typ     *resource.Type
}

// Type starts the declaration of a top-level resource type
func (b *Builder) Type(name string) *TypeBuilder {
	tb := &TypeBuilder{builder: b, typ: resource.NewType(name)}
	b.types = append(b.types, tb)
	return tb
}

// Set declares a resource set bound to the named type
func (b *Builder) Set(name, typeName string) *Builder {
	b.sets = append(b.sets, [2]string{name, typeName})
	return b
}

// Build registers every declared type and set into a new Registry and runs
// cross-type validation
func (b *Builder) Build() (*Registry, error) {
	if len(b.errors) > 0 {
		return nil, errors.Join(b.errors...)
	}

	registry := NewRegistry()
	for _, tb := range b.types {
		if err := registry.RegisterType(tb.typ); err != nil {
			return nil, err
		}
	}
	for _, s := range b.sets {
		if _, err := registry.RegisterSet(s[0], s[1]); err != nil {
			return nil, err
		}
	}
	if err := registry.ValidateAll(); err != nil {
		return nil, err
	}
	return registry, nil
}

// Name returns the name of the type being declared
func (tb *TypeBuilder) Name() string {
	return tb.typ.Name
}

// Doc attaches documentation to the type
func (tb *TypeBuilder) Doc(text string) *TypeBuilder {
	tb.typ.Documentation = text
	return tb
}

// Primitive declares a scalar property
func (tb *TypeBuilder) Primitive(name string, t resource.TypeRef) *TypeBuilder {
	return tb.add(&resource.Property{Name: name, Kind: resource.Primitive, Type: t})
}

// Complex declares a property holding one nested resource. When declare is
// non-nil the nested type is declared inline under the qualified name;
// otherwise a type named after the property must be registered separately.
func (tb *TypeBuilder) Complex(name string, declare func(*TypeBuilder)) *TypeBuilder {
	typeName := tb.nested(name, declare)
	return tb.add(&resource.Property{Name: name, Kind: resource.ComplexReference, TypeName: typeName})
}

// Collection declares a property holding a sequence of scalars
func (tb *TypeBuilder) Collection(name string, item resource.TypeRef) *TypeBuilder {
	return tb.add(&resource.Property{Name: name, Kind: resource.Collection, Type: item})
}

// ComplexCollection declares a property holding a sequence of nested resources
func (tb *TypeBuilder) ComplexCollection(name string, declare func(*TypeBuilder)) *TypeBuilder {
	typeName := tb.nested(name, declare)
	return tb.add(&resource.Property{Name: name, Kind: resource.Collection, TypeName: typeName})
}

// Done returns the parent builder
func (tb *TypeBuilder) Done() *Builder {
	return tb.builder
}

func (tb *TypeBuilder) nested(property string, declare func(*TypeBuilder)) string {
	if declare == nil {
		return property
	}
	qualified := QualifiedName(tb.typ.Name, property)
	nested := tb.builder.Type(qualified)
	declare(nested)
	return qualified
}

func (tb *TypeBuilder) add(p *resource.Property) *TypeBuilder {
	if tb.typ.HasProperty(p.Name) {
		tb.builder.errors = append(tb.builder.errors,
			fmt.Errorf("%s: duplicate property %s", tb.typ.Name, p.Name))
		return tb
	}
	tb.typ.AddProperty(p)
	return tb
}
