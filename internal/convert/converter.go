// Package convert translates between schema-less documents and typed
// resources.
//
// Decoding walks document fields in order, resolves each against the declared
// properties of the target type, materializes nested documents and arrays, and
// finally backfills every unset collection property with an empty sequence.
// Encoding walks the declared properties of a resource set's type and copies
// every non-null value into a new document.
//
// A Converter holds no mutable state; one instance can serve concurrent calls
// as long as the catalog it reads is not modified meanwhile.
package convert

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/conduit-lang/docbridge/internal/resource"
)

// Catalog resolves the metadata the converter needs
type Catalog interface {
	// ResolveResourceType finds a type by name, trying ownerPrefix+name first
	// when a prefix is given
	ResolveResourceType(name, ownerPrefix string) (*resource.Type, bool)

	// ResolveResourceProperty finds the property of t matching a document field
	ResolveResourceProperty(t *resource.Type, fieldName string) (*resource.Property, bool)

	// ResolveResourceSet finds a resource set by name
	ResolveResourceSet(name string) (*resource.Set, bool)

	// QualifiedTypePrefix returns the prefix scoping nested types owned by typeName
	QualifiedTypePrefix(typeName string) string
}

// CoercionPolicy selects what the decoder does with a property whose value
// cannot be coerced
type CoercionPolicy int

const (
	// FailFast aborts the whole decode on the first coercion failure
	FailFast CoercionPolicy = iota
	// SkipProperty logs the failure, leaves the property unset and continues
	SkipProperty
)

// String returns the string representation of the policy
func (p CoercionPolicy) String() string {
	switch p {
	case FailFast:
		return "fail"
	case SkipProperty:
		return "skip"
	default:
		return "unknown"
	}
}

// ParseCoercionPolicy converts a string to a CoercionPolicy
func ParseCoercionPolicy(s string) (CoercionPolicy, error) {
	switch s {
	case "", "fail":
		return FailFast, nil
	case "skip":
		return SkipProperty, nil
	default:
		return 0, fmt.Errorf("unknown coercion policy: %s (expected fail or skip)", s)
	}
}

// Option configures a Converter
type Option func(*Converter)

// WithLogger sets the logger used for skipped fields and properties
func WithLogger(logger *zap.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCoercionPolicy sets how coercion failures are handled
func WithCoercionPolicy(policy CoercionPolicy) Option {
	return func(c *Converter) {
		c.policy = policy
	}
}

// Converter decodes documents into resources and encodes resources into
// documents against one catalog
type Converter struct {
	catalog Catalog
	logger  *zap.Logger
	policy  CoercionPolicy
}

// New creates a Converter reading metadata from catalog
func New(catalog Catalog, opts ...Option) *Converter {
	c := &Converter{
		catalog: catalog,
		logger:  zap.NewNop(),
		policy:  FailFast,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Catalog returns the catalog the converter resolves against
func (c *Converter) Catalog() Catalog {
	return c.catalog
}
