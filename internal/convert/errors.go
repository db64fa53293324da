package convert

import (
	"errors"
	"fmt"

	"github.com/conduit-lang/docbridge/internal/document"
	"github.com/conduit-lang/docbridge/internal/resource"
)

var (
	// ErrTypeResolution is matched by every *TypeResolutionError
	ErrTypeResolution = errors.New("resource type not resolved")

	// ErrCoercion is matched by every *CoercionError
	ErrCoercion = errors.New("value cannot be coerced")

	// errNotRepresentable is the cause recorded when a value has no
	// representation in the target scalar type
	errNotRepresentable = errors.New("not representable")
)

// TypeResolutionError is returned when a requested resource type, or a nested
// type looked up by property name, is not in the catalog. It aborts the whole
// conversion.
type TypeResolutionError struct {
	Name   string
	Prefix string
}

// Error implements the error interface
func (e *TypeResolutionError) Error() string {
	if e.Prefix != "" {
		return fmt.Sprintf("resource type not found: %s (owner prefix %s)", e.Name, e.Prefix)
	}
	return fmt.Sprintf("resource type not found: %s", e.Name)
}

// Is reports whether target is ErrTypeResolution
func (e *TypeResolutionError) Is(target error) bool {
	return target == ErrTypeResolution
}

// CoercionError is returned when a scalar cannot be converted to the type its
// property declares
type CoercionError struct {
	Type     string
	Property string
	Kind     document.Kind
	Target   resource.TypeRef
	Err      error
}

// Error implements the error interface
func (e *CoercionError) Error() string {
	return fmt.Sprintf("cannot coerce %s value of %s.%s to %s: %v",
		e.Kind, e.Type, e.Property, e.Target, e.Err)
}

// Unwrap returns the underlying cause
func (e *CoercionError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrCoercion
func (e *CoercionError) Is(target error) bool {
	return target == ErrCoercion
}

// IsTypeResolution returns true if err is or wraps a TypeResolutionError
func IsTypeResolution(err error) bool {
	return errors.Is(err, ErrTypeResolution)
}

// IsCoercion returns true if err is or wraps a CoercionError
func IsCoercion(err error) bool {
	return errors.Is(err, ErrCoercion)
}
