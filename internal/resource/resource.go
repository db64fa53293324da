package resource

import (
	"fmt"
	"sort"

	"github.com/conduit-lang/docbridge/internal/document"
)

// Resource is a mutable instance of a resource type. Values are coerced
// scalars, nested *Resource values for complex properties, or []interface{}
// sequences for collections. A Resource exclusively owns its nested values.
type Resource struct {
	Type   *Type
	values map[string]interface{}
}

// New creates an empty resource of the given type
func New(t *Type) *Resource {
	return &Resource{
		Type:   t,
		values: make(map[string]interface{}),
	}
}

// Get returns the value stored under the property name. The boolean is false
// when the property was never set; a present property may still hold nil.
func (r *Resource) Get(name string) (interface{}, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Value returns the value stored under the property name, or nil
func (r *Resource) Value(name string) interface{} {
	return r.values[name]
}

// Set stores a value under the property name, overwriting any previous value.
// A nil *Resource is stored as nil.
func (r *Resource) Set(name string, v interface{}) {
	if nested, ok := v.(*Resource); ok && nested == nil {
		v = nil
	}
	r.values[name] = v
}

// Unset removes the property from the resource
func (r *Resource) Unset(name string) {
	delete(r.values, name)
}

// Has returns true if the property is present, even when it holds nil
func (r *Resource) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// IsNull returns true if the property is absent or holds nil
func (r *Resource) IsNull(name string) bool {
	return r.values[name] == nil
}

// Len returns the number of present properties
func (r *Resource) Len() int {
	return len(r.values)
}

// Names returns the present property names, declared properties first in
// declaration order
func (r *Resource) Names() []string {
	names := make([]string, 0, len(r.values))
	seen := make(map[string]bool, len(r.values))
	if r.Type != nil {
		for _, p := range r.Type.Properties {
			if _, ok := r.values[p.Name]; ok {
				names = append(names, p.Name)
				seen[p.Name] = true
			}
		}
	}

	var rest []string
	for name := range r.values {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// Map returns a plain map view of the resource with nested resources expanded,
// suitable for JSON rendering
func (r *Resource) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(r.values))
	for name, v := range r.values {
		out[name] = plain(v)
	}
	return out
}

func plain(v interface{}) interface{} {
	switch x := v.(type) {
	case *Resource:
		if x == nil {
			return nil
		}
		return x.Map()
	case []interface{}:
		items := make([]interface{}, len(x))
		for i, item := range x {
			items[i] = plain(item)
		}
		return items
	default:
		return v
	}
}

// ToDocument renders the resource as a document following its type's property
// declaration order. Null and absent properties are omitted.
func (r *Resource) ToDocument() (document.Document, error) {
	if r == nil {
		return nil, fmt.Errorf("nil resource")
	}
	if r.Type == nil {
		return nil, fmt.Errorf("resource has no type")
	}
	return r.encodeProperties(r.Type.Properties)
}

func (r *Resource) encodeProperties(props []*Property) (document.Document, error) {
	doc := make(document.Document, 0, len(props))
	for _, p := range props {
		v := r.values[p.Name]
		if v == nil {
			continue
		}
		dv, err := document.FromNative(v)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", p.Name, err)
		}
		if _, ok := dv.(document.Null); ok {
			continue
		}
		doc = append(doc, document.Field{Name: p.Name, Value: dv})
	}
	return doc, nil
}
