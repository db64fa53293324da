package convert

import (
	"github.com/conduit-lang/docbridge/internal/document"
	"github.com/conduit-lang/docbridge/internal/resource"
)

// convertArray converts a document array stored under prop of owner into a
// sequence. Null elements (and typed-null marker documents) are dropped, so
// an empty or all-null array yields a zero-length, non-nil sequence. Each
// remaining element is converted by its own kind: documents decode into
// nested resources, scalars are coerced to the property's item type.
func (c *Converter) convertArray(arr document.Array, owner *resource.Type, prop *resource.Property) ([]interface{}, error) {
	n := 0
	for _, elem := range arr {
		if !isNullElement(elem) {
			n++
		}
	}

	out := make([]interface{}, 0, n)
	if n == 0 {
		return out, nil
	}

	prefix := c.catalog.QualifiedTypePrefix(owner.Name)
	for _, elem := range arr {
		if isNullElement(elem) {
			continue
		}

		switch e := elem.(type) {
		case document.Document:
			nested, err := c.decodeResource(e, prop.Name, prefix)
			if err != nil {
				return nil, err
			}
			out = append(out, nested)
		default:
			v, err := c.coerceScalar(e, owner, prop)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
	}

	return out, nil
}

func isNullElement(v document.Value) bool {
	if document.IsNull(v) {
		return true
	}
	d, ok := v.(document.Document)
	return ok && d.IsNullMarker()
}
