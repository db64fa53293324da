// Package store persists documents by resource set and id, and provides a
// Repository that loads and saves typed resources through the converter.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/conduit-lang/docbridge/internal/document"
	utilstrings "github.com/conduit-lang/docbridge/internal/util/strings"
)

var (
	// ErrNotFound is returned when no document is stored under a set and id
	ErrNotFound = errors.New("document not found")

	// ErrInvalidKey is returned for an empty set name or id
	ErrInvalidKey = errors.New("set and id must not be empty")
)

// DocumentStore is a keyed document persistence backend
type DocumentStore interface {
	// Get retrieves the document stored under set and id
	Get(ctx context.Context, set, id string) (document.Document, error)

	// Put stores doc under set and id, replacing any existing document
	Put(ctx context.Context, set, id string, doc document.Document) error

	// Delete removes the document stored under set and id
	Delete(ctx context.Context, set, id string) error

	// Keys returns the ids stored for a set, sorted
	Keys(ctx context.Context, set string) ([]string, error)

	// Close releases resources held by the store
	Close() error
}

// IsNotFound returns true if the error is ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func validateKey(set, id string) error {
	if set == "" || id == "" {
		return ErrInvalidKey
	}
	return nil
}

// collectionName maps a resource set name onto the storage namespace
func collectionName(set string) string {
	return utilstrings.ToSnakeCase(set)
}

func encode(doc document.Document) ([]byte, error) {
	data, err := document.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return data, nil
}

func decode(data []byte) (document.Document, error) {
	doc, err := document.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode stored document: %w", err)
	}
	return doc, nil
}
