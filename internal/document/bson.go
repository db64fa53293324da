package document

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// binarySubtypeUUID is the BSON binary subtype tagging RFC 4122 identifiers
const binarySubtypeUUID byte = 0x04

// ErrUnsupportedKind is returned when a BSON value has no document counterpart
var ErrUnsupportedKind = errors.New("unsupported document value kind")

// Unmarshal decodes raw BSON bytes into a Document
func Unmarshal(data []byte) (Document, error) {
	var d bson.D
	if err := bson.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bson: %w", err)
	}
	return FromBSON(d)
}

// Marshal encodes a Document as raw BSON bytes
func Marshal(d Document) ([]byte, error) {
	data, err := bson.Marshal(d.ToBSON())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bson: %w", err)
	}
	return data, nil
}

// UnmarshalExtJSON decodes MongoDB Extended JSON (canonical or relaxed) into a Document
func UnmarshalExtJSON(data []byte) (Document, error) {
	var d bson.D
	if err := bson.UnmarshalExtJSON(data, false, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal extended json: %w", err)
	}
	return FromBSON(d)
}

// MarshalExtJSON encodes a Document as MongoDB Extended JSON
func MarshalExtJSON(d Document, canonical bool) ([]byte, error) {
	data, err := bson.MarshalExtJSON(d.ToBSON(), canonical, false)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal extended json: %w", err)
	}
	return data, nil
}

// FromBSON converts an ordered BSON document into a Document
func FromBSON(d bson.D) (Document, error) {
	out := make(Document, 0, len(d))
	for _, e := range d {
		v, err := fromBSONValue(e.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", e.Key, err)
		}
		out = append(out, Field{Name: e.Key, Value: v})
	}
	return out, nil
}

func fromBSONValue(v interface{}) (Value, error) {
	switch x := v.(type) {
	case nil, primitive.Null, primitive.Undefined:
		return Null{}, nil
	case bool:
		return Bool(x), nil
	case int32:
		return Int32(x), nil
	case int64:
		return Int64(x), nil
	case int:
		return Int64(x), nil
	case float64:
		return Double(x), nil
	case string:
		return String(x), nil
	case primitive.DateTime:
		return DateTime(x), nil
	case primitive.ObjectID:
		return ObjectID(x), nil
	case primitive.Binary:
		if x.Subtype == binarySubtypeUUID && len(x.Data) == 16 {
			var u uuid.UUID
			copy(u[:], x.Data)
			return UUID(u), nil
		}
		return Binary{Subtype: x.Subtype, Data: x.Data}, nil
	case primitive.D:
		return FromBSON(x)
	case primitive.M:
		return nil, fmt.Errorf("%w: unordered document", ErrUnsupportedKind)
	case primitive.A:
		arr := make(Array, 0, len(x))
		for i, elem := range x {
			ev, err := fromBSONValue(elem)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			arr = append(arr, ev)
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedKind, v)
	}
}

// ToBSON converts the Document into an ordered BSON document
func (d Document) ToBSON() bson.D {
	out := make(bson.D, 0, len(d))
	for _, f := range d {
		out = append(out, bson.E{Key: f.Name, Value: toBSONValue(f.Value)})
	}
	return out
}

func toBSONValue(v Value) interface{} {
	switch x := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(x)
	case Int32:
		return int32(x)
	case Int64:
		return int64(x)
	case Double:
		return float64(x)
	case String:
		return string(x)
	case DateTime:
		return primitive.DateTime(x)
	case ObjectID:
		return primitive.ObjectID(x)
	case UUID:
		u := uuid.UUID(x)
		return primitive.Binary{Subtype: binarySubtypeUUID, Data: u[:]}
	case Binary:
		return primitive.Binary{Subtype: x.Subtype, Data: x.Data}
	case Document:
		return x.ToBSON()
	case Array:
		arr := make(bson.A, 0, len(x))
		for _, elem := range x {
			arr = append(arr, toBSONValue(elem))
		}
		return arr
	default:
		return nil
	}
}
