package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/conduit-lang/docbridge/internal/catalog"
	"github.com/conduit-lang/docbridge/internal/convert"
	"github.com/conduit-lang/docbridge/internal/document"
	"github.com/conduit-lang/docbridge/internal/resource"
)

func setupRepository(t *testing.T) (*Repository, *MemoryStore, *catalog.Registry) {
	registry, err := catalog.NewBuilder().
		Type("Order").
		Primitive("id", resource.Required(resource.ScalarString)).
		Primitive("placed", resource.Optional(resource.ScalarDateTime)).
		Complex("address", func(a *catalog.TypeBuilder) {
			a.Primitive("city", resource.Required(resource.ScalarString))
		}).
		Collection("tags", resource.Required(resource.ScalarString)).
		Done().
		Set("Orders", "Order").
		Build()
	require.NoError(t, err)

	mem := NewMemoryStore()
	conv := convert.New(registry)
	return NewRepository(mem, conv, zaptest.NewLogger(t)), mem, registry
}

func TestRepositorySaveAndLoad(t *testing.T) {
	repo, mem, registry := setupRepository(t)
	ctx := context.Background()

	order, _ := registry.ResolveResourceType("Order", "")
	r := resource.New(order)
	r.Set("id", "o-1")
	r.Set("placed", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	r.Set("address", nil)

	require.NoError(t, repo.Save(ctx, "Orders", "o-1", r))

	stored, err := mem.Get(ctx, "Orders", "o-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "placed"}, stored.Names())

	loaded, err := repo.Load(ctx, "Orders", "o-1")
	require.NoError(t, err)
	assert.Equal(t, "o-1", loaded.Value("id"))
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), loaded.Value("placed"))
	assert.Equal(t, []interface{}{}, loaded.Value("tags"))
	assert.False(t, loaded.Has("address"))

	ids, err := repo.List(ctx, "Orders")
	require.NoError(t, err)
	assert.Equal(t, []string{"o-1"}, ids)

	require.NoError(t, repo.Delete(ctx, "Orders", "o-1"))
	_, err = repo.Load(ctx, "Orders", "o-1")
	assert.True(t, IsNotFound(err))
}

func TestRepositoryLoadsStoredMarker(t *testing.T) {
	repo, mem, _ := setupRepository(t)
	ctx := context.Background()

	require.NoError(t, mem.Put(ctx, "Orders", "o-9", document.Document{
		{Name: "id", Value: document.String("o-9")},
		{Name: "address", Value: document.NullMarker()},
		{Name: "tags", Value: document.Null{}},
	}))

	loaded, err := repo.Load(ctx, "Orders", "o-9")
	require.NoError(t, err)
	assert.True(t, loaded.Has("address"))
	assert.Nil(t, loaded.Value("address"))
	assert.Equal(t, []interface{}{}, loaded.Value("tags"))
}

func TestRepositoryErrors(t *testing.T) {
	repo, mem, _ := setupRepository(t)
	ctx := context.Background()

	_, err := repo.Load(ctx, "Invoices", "i-1")
	assert.Error(t, err)
	assert.Error(t, repo.Save(ctx, "Invoices", "i-1", nil))

	require.NoError(t, mem.Put(ctx, "Orders", "bad", document.Document{
		{Name: "placed", Value: document.String("yesterday")},
	}))
	_, err = repo.Load(ctx, "Orders", "bad")
	require.Error(t, err)
	assert.True(t, convert.IsCoercion(err))
}
