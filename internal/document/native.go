package document

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Documenter is implemented by values that know how to render themselves as a
// nested document
type Documenter interface {
	ToDocument() (Document, error)
}

// FromNative wraps a native Go value as a document value. Scalars map to their
// natural kind, time.Time to DateTime, []byte to generic Binary, uuid.UUID to
// UUID, slices to Array and Documenter implementations to Document. A nil
// pointer Documenter is Null.
func FromNative(v interface{}) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case int:
		return Int64(x), nil
	case int8:
		return Int32(x), nil
	case int16:
		return Int32(x), nil
	case int32:
		return Int32(x), nil
	case int64:
		return Int64(x), nil
	case uint8:
		return Int32(x), nil
	case uint16:
		return Int32(x), nil
	case uint32:
		return Int64(x), nil
	case float32:
		return Double(x), nil
	case float64:
		return Double(x), nil
	case string:
		return String(x), nil
	case time.Time:
		return DateTime(x.UnixMilli()), nil
	case []byte:
		return Binary{Data: x}, nil
	case uuid.UUID:
		return UUID(x), nil
	case Documenter:
		if rv := reflect.ValueOf(x); rv.Kind() == reflect.Ptr && rv.IsNil() {
			return Null{}, nil
		}
		d, err := x.ToDocument()
		if err != nil {
			return nil, err
		}
		return d, nil
	case []interface{}:
		arr := make(Array, 0, len(x))
		for i, elem := range x {
			ev, err := FromNative(elem)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			arr = append(arr, ev)
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("%w: native %T", ErrUnsupportedKind, v)
	}
}
