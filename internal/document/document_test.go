package document

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIsNullMarker(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want bool
	}{
		{"marker", NullMarker(), true},
		{"empty document", Document{}, false},
		{"marker false", Document{{Name: NullMarkerKey, Value: Bool(false)}}, false},
		{"marker not bool", Document{{Name: NullMarkerKey, Value: Int32(1)}}, false},
		{"marker with extra field", Document{
			{Name: NullMarkerKey, Value: Bool(true)},
			{Name: "x", Value: Int32(1)},
		}, false},
		{"other key", Document{{Name: "_null", Value: Bool(true)}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.doc.IsNullMarker())
		})
	}
}

func TestDocumentLookupAndSet(t *testing.T) {
	d := Document{
		{Name: "a", Value: Int32(1)},
		{Name: "a", Value: Int32(2)},
	}

	v, ok := d.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, Int32(1), v)

	_, ok = d.Lookup("missing")
	assert.False(t, ok)

	d.Set("b", String("x"))
	d.Set("a", Int32(9))
	assert.Equal(t, []string{"a", "a", "b"}, d.Names())
	v, _ = d.Lookup("a")
	assert.Equal(t, Int32(9), v)
}

func TestFromBSON(t *testing.T) {
	oid := primitive.NewObjectID()
	id := uuid.New()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	d, err := FromBSON(bson.D{
		{Key: "id", Value: oid},
		{Key: "guid", Value: primitive.Binary{Subtype: 0x04, Data: id[:]}},
		{Key: "blob", Value: primitive.Binary{Data: []byte{1, 2}}},
		{Key: "at", Value: primitive.NewDateTimeFromTime(now)},
		{Key: "n", Value: int32(3)},
		{Key: "big", Value: int64(1) << 40},
		{Key: "ratio", Value: 0.5},
		{Key: "name", Value: "widget"},
		{Key: "ok", Value: true},
		{Key: "none", Value: nil},
		{Key: "nested", Value: bson.D{{Key: "x", Value: int32(1)}}},
		{Key: "list", Value: bson.A{int32(1), nil, "two"}},
	})
	require.NoError(t, err)

	expected := Document{
		{Name: "id", Value: ObjectID(oid)},
		{Name: "guid", Value: UUID(id)},
		{Name: "blob", Value: Binary{Data: []byte{1, 2}}},
		{Name: "at", Value: DateTime(now.UnixMilli())},
		{Name: "n", Value: Int32(3)},
		{Name: "big", Value: Int64(1 << 40)},
		{Name: "ratio", Value: Double(0.5)},
		{Name: "name", Value: String("widget")},
		{Name: "ok", Value: Bool(true)},
		{Name: "none", Value: Null{}},
		{Name: "nested", Value: Document{{Name: "x", Value: Int32(1)}}},
		{Name: "list", Value: Array{Int32(1), Null{}, String("two")}},
	}
	assert.Equal(t, expected, d)
}

func TestFromBSONUnsupported(t *testing.T) {
	_, err := FromBSON(bson.D{{Key: "re", Value: primitive.Regex{Pattern: "a+"}}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedKind)
	assert.Contains(t, err.Error(), `field "re"`)
}

func TestMarshalUnmarshal(t *testing.T) {
	original := Document{
		{Name: "name", Value: String("widget")},
		{Name: "guid", Value: UUID(uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"))},
		{Name: "at", Value: DateTime(86400000)},
		{Name: "tags", Value: Array{String("a"), Null{}}},
		{Name: "address", Value: NullMarker()},
	}

	data, err := Marshal(original)
	require.NoError(t, err)

	decoded, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestExtJSON(t *testing.T) {
	d, err := UnmarshalExtJSON([]byte(`{"name": "widget", "count": 2, "at": {"$date": {"$numberLong": "0"}}}`))
	require.NoError(t, err)

	v, ok := d.Lookup("at")
	require.True(t, ok)
	assert.Equal(t, DateTime(0), v)
	assert.Equal(t, []string{"name", "count", "at"}, d.Names())

	out, err := MarshalExtJSON(Document{{Name: "n", Value: Int32(1)}}, true)
	require.NoError(t, err)
	assert.JSONEq(t, `{"n": {"$numberInt": "1"}}`, string(out))
}

type fakeDocumenter struct{ name string }

func (f fakeDocumenter) ToDocument() (Document, error) {
	return Document{{Name: "name", Value: String(f.name)}}, nil
}

func TestFromNative(t *testing.T) {
	id := uuid.New()
	at := time.Unix(0, 0).UTC().Add(24 * time.Hour)

	tests := []struct {
		name string
		in   interface{}
		want Value
	}{
		{"nil", nil, Null{}},
		{"bool", true, Bool(true)},
		{"int32", int32(4), Int32(4)},
		{"int64", int64(4), Int64(4)},
		{"int", 7, Int64(7)},
		{"float64", 1.5, Double(1.5)},
		{"string", "s", String("s")},
		{"time", at, DateTime(86400000)},
		{"bytes", []byte{9}, Binary{Data: []byte{9}}},
		{"uuid", id, UUID(id)},
		{"documenter", fakeDocumenter{name: "x"}, Document{{Name: "name", Value: String("x")}}},
		{"nil documenter pointer", (*fakeDocumenter)(nil), Null{}},
		{"nil documenter in slice", []interface{}{(*fakeDocumenter)(nil), "a"}, Array{Null{}, String("a")}},
		{"slice", []interface{}{int32(1), "a"}, Array{Int32(1), String("a")}},
		{"value passthrough", Int64(3), Int64(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromNative(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := FromNative(struct{}{})
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "document", Document{}.Kind().String())
	assert.Equal(t, "array", Array{}.Kind().String())
	assert.Equal(t, "objectid", ObjectID{}.Kind().String())
	assert.Equal(t, "unknown", Kind(99).String())
}
