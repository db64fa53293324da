package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/conduit-lang/docbridge/internal/convert"
	"github.com/conduit-lang/docbridge/internal/resource"
)

// Repository loads and saves typed resources through a DocumentStore,
// decoding and encoding with a Converter
type Repository struct {
	store     DocumentStore
	converter *convert.Converter
	logger    *zap.Logger
}

// NewRepository creates a repository over store. A nil logger disables logging.
func NewRepository(store DocumentStore, converter *convert.Converter, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{
		store:     store,
		converter: converter,
		logger:    logger,
	}
}

// Load reads the document stored under set and id and decodes it as the set's
// resource type
func (r *Repository) Load(ctx context.Context, set, id string) (*resource.Resource, error) {
	rs, ok := r.converter.Catalog().ResolveResourceSet(set)
	if !ok {
		return nil, fmt.Errorf("resource set not found: %s", set)
	}

	doc, err := r.store.Get(ctx, set, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s/%s: %w", set, id, err)
	}

	res, err := r.converter.Decode(doc, rs.Type.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s/%s: %w", set, id, err)
	}

	r.logger.Debug("loaded resource",
		zap.String("set", set),
		zap.String("id", id),
		zap.Int("fields", len(doc)))
	return res, nil
}

// Save encodes res with the set's property list and stores it under set and id
func (r *Repository) Save(ctx context.Context, set, id string, res *resource.Resource) error {
	if _, ok := r.converter.Catalog().ResolveResourceSet(set); !ok {
		return fmt.Errorf("resource set not found: %s", set)
	}

	doc, err := r.converter.Encode(res, set)
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", set, id, err)
	}

	if err := r.store.Put(ctx, set, id, doc); err != nil {
		return fmt.Errorf("failed to save %s/%s: %w", set, id, err)
	}

	r.logger.Debug("saved resource",
		zap.String("set", set),
		zap.String("id", id),
		zap.Int("fields", len(doc)))
	return nil
}

// Delete removes the resource stored under set and id
func (r *Repository) Delete(ctx context.Context, set, id string) error {
	if err := r.store.Delete(ctx, set, id); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", set, id, err)
	}
	return nil
}

// List returns the ids stored for a set
func (r *Repository) List(ctx context.Context, set string) ([]string, error) {
	return r.store.Keys(ctx, set)
}
