package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/docbridge/internal/resource"
)

func TestRegistry(t *testing.T) {
	t.Run("register and resolve type", func(t *testing.T) {
		registry := NewRegistry()
		order := resource.NewType("Order",
			&resource.Property{Name: "id", Kind: resource.Primitive, Type: resource.Required(resource.ScalarString)},
		)
		require.NoError(t, registry.RegisterType(order))

		resolved, ok := registry.ResolveResourceType("Order", "")
		require.True(t, ok)
		assert.Same(t, order, resolved)

		prop, ok := registry.ResolveResourceProperty(resolved, "id")
		require.True(t, ok)
		assert.Equal(t, "id", prop.Name)

		_, ok = registry.ResolveResourceProperty(resolved, "missing")
		assert.False(t, ok)
	})

	t.Run("duplicate registration", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.RegisterType(resource.NewType("Order")))
		err := registry.RegisterType(resource.NewType("Order"))
		assert.Error(t, err)
	})

	t.Run("structural validation", func(t *testing.T) {
		registry := NewRegistry()
		bad := resource.NewType("Bad",
			&resource.Property{Name: "x", Kind: resource.Primitive},
		)
		err := registry.RegisterType(bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must declare a scalar type")
		assert.Equal(t, 0, registry.Count())
	})

	t.Run("prefix resolution", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.RegisterType(resource.NewType("address")))
		require.NoError(t, registry.RegisterType(resource.NewType("Order__address")))

		scoped, ok := registry.ResolveResourceType("address", registry.QualifiedTypePrefix("Order"))
		require.True(t, ok)
		assert.Equal(t, "Order__address", scoped.Name)

		fallback, ok := registry.ResolveResourceType("address", registry.QualifiedTypePrefix("Customer"))
		require.True(t, ok)
		assert.Equal(t, "address", fallback.Name)

		_, ok = registry.ResolveResourceType("missing", "Order__")
		assert.False(t, ok)
	})

	t.Run("sets", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.RegisterType(resource.NewType("Order")))

		set, err := registry.RegisterSet("Orders", "Order")
		require.NoError(t, err)
		assert.Equal(t, "Order", set.Type.Name)

		_, err = registry.RegisterSet("Orders", "Order")
		assert.Error(t, err)
		_, err = registry.RegisterSet("Ghosts", "Ghost")
		assert.Error(t, err)

		resolved, ok := registry.ResolveResourceSet("Orders")
		require.True(t, ok)
		assert.Same(t, set, resolved)
		assert.Len(t, registry.Sets(), 1)

		registry.Clear()
		_, ok = registry.ResolveResourceSet("Orders")
		assert.False(t, ok)
	})

	t.Run("sets colliding in storage namespace", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.RegisterType(resource.NewType("OrderItem")))

		_, err := registry.RegisterSet("OrderItems", "OrderItem")
		require.NoError(t, err)

		for _, name := range []string{"order_items", "order-items", "Order.Items"} {
			_, err = registry.RegisterSet(name, "OrderItem")
			require.Error(t, err, name)
			assert.Contains(t, err.Error(), "order_items")
		}

		_, ok := registry.ResolveResourceSet("order_items")
		assert.False(t, ok)
		assert.Len(t, registry.Sets(), 1)
	})
}

func TestQualifiedTypePrefix(t *testing.T) {
	assert.Equal(t, "Order__", QualifiedTypePrefix("Order"))
	assert.Equal(t, "Order__lines", QualifiedName("Order", "lines"))
}

func TestBuilder(t *testing.T) {
	registry, err := NewBuilder().
		Type("Order").
		Primitive("id", resource.Required(resource.ScalarString)).
		Complex("address", func(a *TypeBuilder) {
			a.Primitive("city", resource.Required(resource.ScalarString))
		}).
		Collection("tags", resource.Required(resource.ScalarString)).
		ComplexCollection("lines", func(l *TypeBuilder) {
			l.Primitive("sku", resource.Required(resource.ScalarString)).
				Primitive("qty", resource.Required(resource.ScalarInt32))
		}).
		Done().
		Set("Orders", "Order").
		Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"Order", "Order__address", "Order__lines"}, registry.TypeNames())

	order, ok := registry.ResolveResourceType("Order", "")
	require.True(t, ok)
	lines, ok := order.Property("lines")
	require.True(t, ok)
	assert.Equal(t, resource.Collection, lines.Kind)
	assert.Equal(t, "Order__lines", lines.TypeName)
}

func TestBuilderErrors(t *testing.T) {
	t.Run("duplicate property", func(t *testing.T) {
		_, err := NewBuilder().
			Type("Order").
			Primitive("id", resource.Required(resource.ScalarString)).
			Primitive("id", resource.Required(resource.ScalarInt32)).
			Done().
			Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate property id")
	})

	t.Run("missing nested type", func(t *testing.T) {
		_, err := NewBuilder().
			Type("Order").
			Complex("billing", nil).
			Done().
			Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Order.billing")
	})

	t.Run("recursive nesting", func(t *testing.T) {
		_, err := NewBuilder().
			Type("node").
			Complex("node", nil).
			Done().
			Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "recursive complex types")
	})

	t.Run("mutually recursive nesting", func(t *testing.T) {
		_, err := NewBuilder().
			Type("parent").
			ComplexCollection("child", nil).
			Done().
			Type("child").
			Complex("parent", nil).
			Done().
			Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "recursive complex types")
	})

	t.Run("unknown set type", func(t *testing.T) {
		_, err := NewBuilder().Set("Orders", "Order").Build()
		assert.Error(t, err)
	})
}

const catalogYAML = `
types:
  Order:
    doc: A customer order
    properties:
      - name: id
        type: string!
      - name: placed
        type: datetime?
      - name: address
        properties:
          - name: city
            type: string
          - name: zip
            type: string?
      - name: tags
        kind: collection
        type: string
      - name: lines
        kind: collection
        properties:
          - name: sku
            type: string
          - name: qty
            type: int32
sets:
  Orders: Order
`

func TestLoadYAML(t *testing.T) {
	registry, err := LoadYAML(strings.NewReader(catalogYAML))
	require.NoError(t, err)

	order, ok := registry.ResolveResourceType("Order", "")
	require.True(t, ok)
	assert.Equal(t, "A customer order", order.Documentation)

	names := make([]string, 0, len(order.Properties))
	for _, p := range order.Properties {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"id", "placed", "address", "tags", "lines"}, names)

	placed, _ := order.Property("placed")
	assert.Equal(t, resource.Optional(resource.ScalarDateTime), placed.Type)

	address, _ := order.Property("address")
	assert.Equal(t, resource.ComplexReference, address.Kind)

	nested, ok := registry.ResolveResourceType("address", registry.QualifiedTypePrefix("Order"))
	require.True(t, ok)
	zip, _ := nested.Property("zip")
	assert.True(t, zip.Type.IsOptional())

	tags, _ := order.Property("tags")
	assert.Equal(t, resource.Collection, tags.Kind)
	assert.Equal(t, resource.ScalarString, tags.Type.Underlying())

	set, ok := registry.ResolveResourceSet("Orders")
	require.True(t, ok)
	assert.Same(t, order, set.Type)
}

func TestLoadYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "types:\n  A:\n    fields: []\n", "failed to parse catalog"},
		{"unknown scalar", "types:\n  A:\n    properties:\n      - name: x\n        type: decimal\n", "A.x"},
		{"unknown kind", "types:\n  A:\n    properties:\n      - name: x\n        kind: map\n", "unknown property kind"},
		{"typed complex", "types:\n  A:\n    properties:\n      - name: x\n        kind: complex\n        type: string\n", "cannot declare type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadYAML(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRegistryConcurrentResolve(t *testing.T) {
	registry, err := LoadYAML(strings.NewReader(catalogYAML))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := registry.ResolveResourceType("address", registry.QualifiedTypePrefix("Order"))
			assert.True(t, ok)
			_, ok = registry.ResolveResourceSet("Orders")
			assert.True(t, ok)
		}()
	}
	wg.Wait()
}

func TestLoadPathDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "order.yaml"), []byte(catalogYAML), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "billing"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "billing", "invoice.yml"), []byte(`
types:
  Invoice:
    properties:
      - name: number
        type: int64!
sets:
  Invoices: Invoice
`), 0644))

	registry, err := LoadPath(dir)
	require.NoError(t, err)
	_, ok := registry.ResolveResourceType("Invoice", "")
	assert.True(t, ok)
	_, ok = registry.ResolveResourceSet("Orders")
	assert.True(t, ok)
	_, ok = registry.ResolveResourceSet("Invoices")
	assert.True(t, ok)

	single, err := LoadPath(filepath.Join(dir, "order.yaml"))
	require.NoError(t, err)
	_, ok = single.ResolveResourceSet("Invoices")
	assert.False(t, ok)
}

func TestLoadPathErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadPath(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadPath(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no catalog files")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(catalogYAML), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte(catalogYAML), 0644))
	_, err = LoadPath(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already declared")
}
