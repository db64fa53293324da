package convert

import (
	"github.com/conduit-lang/docbridge/internal/resource"
)

// Backfill walks r and its nested complex resources and sets every absent or
// null collection property to an empty sequence. Null complex properties are
// left null; primitive properties are not touched.
func Backfill(r *resource.Resource) {
	if r == nil || r.Type == nil {
		return
	}

	for _, prop := range r.Type.Properties {
		switch prop.Kind {
		case resource.Collection:
			if r.IsNull(prop.Name) {
				r.Set(prop.Name, []interface{}{})
			}
		case resource.ComplexReference:
			if nested, ok := r.Value(prop.Name).(*resource.Resource); ok {
				Backfill(nested)
			}
		}
	}
}
