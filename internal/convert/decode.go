package convert

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/conduit-lang/docbridge/internal/document"
	"github.com/conduit-lang/docbridge/internal/resource"
)

// Decode materializes doc as a resource of the named type
func (c *Converter) Decode(doc document.Document, typeName string) (*resource.Resource, error) {
	return c.DecodeNested(doc, typeName, "")
}

// DecodeNested materializes doc as a resource of the named type, resolving the
// name within ownerPrefix first. Fields without a matching property are
// ignored. On error no partial resource is returned.
func (c *Converter) DecodeNested(doc document.Document, typeName, ownerPrefix string) (*resource.Resource, error) {
	return c.decodeResource(doc, typeName, ownerPrefix)
}

func (c *Converter) decodeResource(doc document.Document, typeName, ownerPrefix string) (*resource.Resource, error) {
	t, ok := c.catalog.ResolveResourceType(typeName, ownerPrefix)
	if !ok {
		return nil, &TypeResolutionError{Name: typeName, Prefix: ownerPrefix}
	}

	r := resource.New(t)
	for _, field := range doc {
		prop, ok := c.catalog.ResolveResourceProperty(t, field.Name)
		if !ok {
			c.logger.Debug("ignoring unknown field",
				zap.String("type", t.Name),
				zap.String("field", field.Name))
			continue
		}

		v, err := c.convertField(field.Value, t, prop)
		if err != nil {
			var coerceErr *CoercionError
			if c.policy == SkipProperty && errors.As(err, &coerceErr) {
				c.logger.Warn("skipping property that cannot be coerced",
					zap.String("type", t.Name),
					zap.String("property", prop.Name),
					zap.Error(err))
				continue
			}
			return nil, err
		}

		r.Set(prop.Name, v)
	}

	Backfill(r)
	return r, nil
}

// convertField applies the field-value rule to one document value
func (c *Converter) convertField(v document.Value, owner *resource.Type, prop *resource.Property) (interface{}, error) {
	switch x := v.(type) {
	case document.Document:
		if x.IsNullMarker() {
			return nil, nil
		}
		return c.decodeResource(x, prop.Name, c.catalog.QualifiedTypePrefix(owner.Name))
	case document.Array:
		return c.convertArray(x, owner, prop)
	case nil, document.Null:
		if prop.IsCollection() {
			return c.convertArray(nil, owner, prop)
		}
		return nil, nil
	default:
		if prop.Kind != resource.Primitive {
			return nil, &CoercionError{
				Type:     owner.Name,
				Property: prop.Name,
				Kind:     kindOf(x),
				Target:   prop.Type,
				Err:      fmt.Errorf("%w: scalar in %s property", errNotRepresentable, prop.Kind),
			}
		}
		return c.coerceScalar(x, owner, prop)
	}
}
