package convert

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/conduit-lang/docbridge/internal/document"
	"github.com/conduit-lang/docbridge/internal/resource"
)

// Encode renders r as a document using the property list of the named
// resource set's type. Null properties are omitted. An unknown set yields an
// empty document and no error. Nested resources and sequences render
// themselves through document.FromNative.
func (c *Converter) Encode(r *resource.Resource, setName string) (document.Document, error) {
	if r == nil {
		return document.Document{}, nil
	}

	set, ok := c.catalog.ResolveResourceSet(setName)
	if !ok {
		c.logger.Debug("resource set not found, encoding empty document",
			zap.String("set", setName))
		return document.Document{}, nil
	}

	doc := make(document.Document, 0, len(set.Type.Properties))
	for _, prop := range set.Type.Properties {
		v := r.Value(prop.Name)
		if v == nil {
			continue
		}

		dv, err := document.FromNative(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s.%s: %w", set.Type.Name, prop.Name, err)
		}
		if _, ok := dv.(document.Null); ok {
			continue
		}
		doc = append(doc, document.Field{Name: prop.Name, Value: dv})
	}

	return doc, nil
}
