package batch

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/conduit-lang/docbridge/internal/convert"
	"github.com/conduit-lang/docbridge/internal/document"
	"github.com/conduit-lang/docbridge/internal/store"
)

const maxLineSize = 16 * 1024 * 1024

// ErrMissingID is returned when a document has no usable id field
var ErrMissingID = errors.New("missing document id")

// Item is one document of a batch
type Item struct {
	// Index is the 1-based input line
	Index int
	ID    string
	Doc   document.Document
}

// ReadLines reads Extended JSON documents, one per line. Blank lines are
// skipped. Each document's id is taken from idField.
func ReadLines(r io.Reader, idField string) ([]Item, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var items []Item
	line := 0
	for scanner.Scan() {
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}

		doc, err := document.UnmarshalExtJSON(data)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		id, err := IDOf(doc, idField)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		items = append(items, Item{Index: line, ID: id, Doc: doc})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return items, nil
}

// IDOf renders the value of field as a store id. Strings, integers, object
// ids and UUIDs are accepted.
func IDOf(doc document.Document, field string) (string, error) {
	v, ok := doc.Lookup(field)
	if !ok {
		return "", fmt.Errorf("%w: no %q field", ErrMissingID, field)
	}

	switch x := v.(type) {
	case document.String:
		if x == "" {
			return "", fmt.Errorf("%w: empty %q field", ErrMissingID, field)
		}
		return string(x), nil
	case document.Int32:
		return strconv.FormatInt(int64(x), 10), nil
	case document.Int64:
		return strconv.FormatInt(int64(x), 10), nil
	case document.ObjectID:
		return x.Hex(), nil
	case document.UUID:
		return x.String(), nil
	default:
		return "", fmt.Errorf("%w: %q is %s", ErrMissingID, field, v.Kind())
	}
}

// ImportHandler decodes each item as the set's resource type and saves it
// through the repository. Documents that fail to decode are not stored.
func ImportHandler(conv *convert.Converter, repo *store.Repository, set string) (Handler, error) {
	rs, ok := conv.Catalog().ResolveResourceSet(set)
	if !ok {
		return nil, fmt.Errorf("resource set not found: %s", set)
	}
	typeName := rs.Type.Name

	return func(ctx context.Context, item Item) error {
		res, err := conv.Decode(item.Doc, typeName)
		if err != nil {
			return err
		}
		return repo.Save(ctx, set, item.ID, res)
	}, nil
}
