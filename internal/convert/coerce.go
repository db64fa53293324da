package convert

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/conduit-lang/docbridge/internal/document"
	"github.com/conduit-lang/docbridge/internal/resource"
)

// maxExactDouble bounds the integers that float64 represents exactly
const maxExactDouble = 1 << 53

// FromEpochMillis converts a stored timestamp, milliseconds since
// 1970-01-01T00:00:00 UTC, into an absolute UTC time
func FromEpochMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// coerceScalar converts a raw document scalar into the native value of the
// property's declared type
func (c *Converter) coerceScalar(v document.Value, owner *resource.Type, prop *resource.Property) (interface{}, error) {
	native, err := NativeScalar(v)
	if err == nil {
		native, err = CoerceTo(native, prop.Type.Underlying())
	}
	if err != nil {
		return nil, &CoercionError{
			Type:     owner.Name,
			Property: prop.Name,
			Kind:     kindOf(v),
			Target:   prop.Type,
			Err:      err,
		}
	}
	return native, nil
}

// NativeScalar performs the first-pass conversion of a document scalar into a
// Go value matching the scalar's own kind. Object identifiers become their hex
// string, unique identifiers uuid.UUID, timestamps time.Time and binary blobs
// []byte. Nested documents and arrays are not scalars.
func NativeScalar(v document.Value) (interface{}, error) {
	switch x := v.(type) {
	case nil, document.Null:
		return nil, nil
	case document.Bool:
		return bool(x), nil
	case document.Int32:
		return int32(x), nil
	case document.Int64:
		return int64(x), nil
	case document.Double:
		return float64(x), nil
	case document.String:
		return string(x), nil
	case document.DateTime:
		return FromEpochMillis(int64(x)), nil
	case document.Binary:
		return []byte(x.Data), nil
	case document.ObjectID:
		return x.Hex(), nil
	case document.UUID:
		return uuid.UUID(x), nil
	case document.Document, document.Array:
		return nil, fmt.Errorf("%s is not a scalar", x.Kind())
	default:
		return nil, fmt.Errorf("unsupported value %T", v)
	}
}

// CoerceTo converts an intermediate native value into the exact Go type of the
// target scalar type. Nil passes through unchanged, as does any value when the
// target is ScalarNone.
func CoerceTo(v interface{}, target resource.ScalarType) (interface{}, error) {
	if v == nil || target == resource.ScalarNone {
		return v, nil
	}

	switch target {
	case resource.ScalarString:
		return toString(v)
	case resource.ScalarInt32:
		return toInt32(v)
	case resource.ScalarInt64:
		return toInt64(v)
	case resource.ScalarDouble:
		return toDouble(v)
	case resource.ScalarBool:
		return toBool(v)
	case resource.ScalarDateTime:
		return toDateTime(v)
	case resource.ScalarBinary:
		return toBinary(v)
	case resource.ScalarUUID:
		return toUUID(v)
	default:
		return nil, fmt.Errorf("unknown target type %s", target)
	}
}

func notRepresentable(v interface{}, target resource.ScalarType) error {
	return fmt.Errorf("%w: %T %v as %s", errNotRepresentable, v, v, target)
}

func toString(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case time.Time:
		return x.Format(time.RFC3339Nano), nil
	case uuid.UUID:
		return x.String(), nil
	}
	return nil, notRepresentable(v, resource.ScalarString)
}

func toInt32(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case int32:
		return x, nil
	case int64:
		if x >= math.MinInt32 && x <= math.MaxInt32 {
			return int32(x), nil
		}
	case float64:
		if x == math.Trunc(x) && x >= math.MinInt32 && x <= math.MaxInt32 {
			return int32(x), nil
		}
	case string:
		n, err := strconv.ParseInt(x, 10, 32)
		if err == nil {
			return int32(n), nil
		}
	}
	return nil, notRepresentable(v, resource.ScalarInt32)
}

func toInt64(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case float64:
		// float64(math.MaxInt64) rounds up to 2^63, which is out of range
		if x == math.Trunc(x) && x >= math.MinInt64 && x < math.MaxInt64 {
			return int64(x), nil
		}
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		if err == nil {
			return n, nil
		}
	}
	return nil, notRepresentable(v, resource.ScalarInt64)
}

func toDouble(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case int32:
		return float64(x), nil
	case int64:
		// integers beyond 2^53 lose precision as float64
		if x >= -maxExactDouble && x <= maxExactDouble {
			return float64(x), nil
		}
	case float64:
		return x, nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err == nil {
			return f, nil
		}
	}
	return nil, notRepresentable(v, resource.ScalarDouble)
}

func toBool(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		b, err := strconv.ParseBool(x)
		if err == nil {
			return b, nil
		}
	}
	return nil, notRepresentable(v, resource.ScalarBool)
}

func toDateTime(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case string:
		t, err := time.Parse(time.RFC3339Nano, x)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return nil, notRepresentable(v, resource.ScalarDateTime)
}

func toBinary(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case []byte:
		return x, nil
	case uuid.UUID:
		b := make([]byte, len(x))
		copy(b, x[:])
		return b, nil
	}
	return nil, notRepresentable(v, resource.ScalarBinary)
}

func toUUID(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case uuid.UUID:
		return x, nil
	case string:
		u, err := uuid.Parse(x)
		if err == nil {
			return u, nil
		}
	case []byte:
		u, err := uuid.FromBytes(x)
		if err == nil {
			return u, nil
		}
	}
	return nil, notRepresentable(v, resource.ScalarUUID)
}

func kindOf(v document.Value) document.Kind {
	if v == nil {
		return document.KindNull
	}
	return v.Kind()
}
