// Package document provides the self-describing value system used by the
// document store: ordered documents, heterogeneous arrays and the scalar kinds
// a document field can hold.
package document

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind identifies the runtime kind of a document value
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt32
	KindInt64
	KindDouble
	KindString
	KindDateTime
	KindBinary
	KindObjectID
	KindUUID
	KindDocument
	KindArray
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindDateTime:
		return "datetime"
	case KindBinary:
		return "binary"
	case KindObjectID:
		return "objectid"
	case KindUUID:
		return "uuid"
	case KindDocument:
		return "document"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Value is a document value. The set of implementations is closed: only the
// types declared in this package satisfy it.
type Value interface {
	Kind() Kind
	isValue()
}

// Null is the explicit null value
type Null struct{}

// Bool is a boolean value
type Bool bool

// Int32 is a 32-bit integer value
type Int32 int32

// Int64 is a 64-bit integer value
type Int64 int64

// Double is a 64-bit floating point value
type Double float64

// String is a UTF-8 string value
type String string

// DateTime is a timestamp stored as milliseconds since 1970-01-01T00:00:00 UTC
type DateTime int64

// Binary is an opaque byte blob with its store subtype
type Binary struct {
	Subtype byte
	Data    []byte
}

// ObjectID is the store-native 12-byte object identifier
type ObjectID [12]byte

// UUID is a globally unique identifier
type UUID uuid.UUID

// Field is a single named entry of a Document
type Field struct {
	Name  string
	Value Value
}

// Document is an ordered sequence of named fields
type Document []Field

// Array is an ordered sequence of values, possibly heterogeneous and possibly
// containing nulls
type Array []Value

func (Null) Kind() Kind     { return KindNull }
func (Bool) Kind() Kind     { return KindBool }
func (Int32) Kind() Kind    { return KindInt32 }
func (Int64) Kind() Kind    { return KindInt64 }
func (Double) Kind() Kind   { return KindDouble }
func (String) Kind() Kind   { return KindString }
func (DateTime) Kind() Kind { return KindDateTime }
func (Binary) Kind() Kind   { return KindBinary }
func (ObjectID) Kind() Kind { return KindObjectID }
func (UUID) Kind() Kind     { return KindUUID }
func (Document) Kind() Kind { return KindDocument }
func (Array) Kind() Kind    { return KindArray }

func (Null) isValue()     {}
func (Bool) isValue()     {}
func (Int32) isValue()    {}
func (Int64) isValue()    {}
func (Double) isValue()   {}
func (String) isValue()   {}
func (DateTime) isValue() {}
func (Binary) isValue()   {}
func (ObjectID) isValue() {}
func (UUID) isValue()     {}
func (Document) isValue() {}
func (Array) isValue()    {}

// Hex returns the canonical 24-character hex form of the identifier
func (id ObjectID) Hex() string {
	return fmt.Sprintf("%x", [12]byte(id))
}

// String returns the canonical hyphenated form of the identifier
func (u UUID) String() string {
	return uuid.UUID(u).String()
}

// IsNull reports whether v is absent or the explicit null value
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

// Lookup returns the value of the first field with the given name
func (d Document) Lookup(name string) (Value, bool) {
	for _, f := range d {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Set replaces the first field with the given name, or appends a new field
func (d *Document) Set(name string, v Value) {
	for i := range *d {
		if (*d)[i].Name == name {
			(*d)[i].Value = v
			return
		}
	}
	*d = append(*d, Field{Name: name, Value: v})
}

// Names returns the field names in document order
func (d Document) Names() []string {
	names := make([]string, 0, len(d))
	for _, f := range d {
		names = append(names, f.Name)
	}
	return names
}
