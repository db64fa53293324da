package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/conduit-lang/docbridge/internal/document"
)

// MemoryStore implements an in-process document store. Documents are kept in
// their BSON encoding so callers never share mutable state with the store.
type MemoryStore struct {
	data sync.Map
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func memoryKey(set, id string) string {
	return collectionName(set) + "/" + id
}

// Get retrieves a document
func (m *MemoryStore) Get(ctx context.Context, set, id string) (document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateKey(set, id); err != nil {
		return nil, err
	}

	value, ok := m.data.Load(memoryKey(set, id))
	if !ok {
		return nil, ErrNotFound
	}
	return decode(value.([]byte))
}

// Put stores a document
func (m *MemoryStore) Put(ctx context.Context, set, id string, doc document.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateKey(set, id); err != nil {
		return err
	}

	data, err := encode(doc)
	if err != nil {
		return err
	}
	m.data.Store(memoryKey(set, id), data)
	return nil
}

// Delete removes a document
func (m *MemoryStore) Delete(ctx context.Context, set, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateKey(set, id); err != nil {
		return err
	}

	if _, loaded := m.data.LoadAndDelete(memoryKey(set, id)); !loaded {
		return ErrNotFound
	}
	return nil
}

// Keys returns the ids stored for a set
func (m *MemoryStore) Keys(ctx context.Context, set string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := collectionName(set) + "/"
	var ids []string
	m.data.Range(func(key, _ interface{}) bool {
		if k := key.(string); strings.HasPrefix(k, prefix) {
			ids = append(ids, strings.TrimPrefix(k, prefix))
		}
		return true
	})
	sort.Strings(ids)
	return ids, nil
}

// Close is a no-op for the in-memory store
func (m *MemoryStore) Close() error {
	return nil
}
