package document

// NullMarkerKey is the reserved field name of the typed-null marker document
const NullMarkerKey = "_csharpnull"

// NullMarker returns the marker document that stands for a null embedded
// object: exactly one field, NullMarkerKey, set to true.
func NullMarker() Document {
	return Document{{Name: NullMarkerKey, Value: Bool(true)}}
}

// IsNullMarker reports whether d is the typed-null marker. Any other shape,
// including an empty document or the marker key next to other fields, is data.
func (d Document) IsNullMarker() bool {
	if len(d) != 1 || d[0].Name != NullMarkerKey {
		return false
	}
	b, ok := d[0].Value.(Bool)
	return ok && bool(b)
}
