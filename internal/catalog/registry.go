// Package catalog provides an in-process metadata catalog: it registers resource
// types and resource sets and resolves them for the converter.
package catalog

import (
	"fmt"
	"sort"
	"sync"

	"github.com/conduit-lang/docbridge/internal/resource"
	utilstrings "github.com/conduit-lang/docbridge/internal/util/strings"
)

// QualifierSeparator joins an owner type name and a nested property name into
// the qualified name of a nested complex type
const QualifierSeparator = "__"

// Registry manages all resource types and sets known to the application.
// Registration is expected to happen at startup; resolution is safe for
// concurrent use.
type Registry struct {
	types map[string]*resource.Type
	sets  map[string]*resource.Set
	mu    sync.RWMutex
}

// NewRegistry creates a new, empty catalog
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]*resource.Type),
		sets:  make(map[string]*resource.Set),
	}
}

// RegisterType registers a resource type under its name
func (r *Registry) RegisterType(t *resource.Type) error {
	if t == nil || t.Name == "" {
		return fmt.Errorf("resource type must have a name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[t.Name]; exists {
		return fmt.Errorf("resource type %s is already registered", t.Name)
	}

	if err := validateType(t); err != nil {
		return fmt.Errorf("resource type validation failed for %s: %w", t.Name, err)
	}

	r.types[t.Name] = t
	return nil
}

// RegisterSet registers a resource set bound to an already registered type
func (r *Registry) RegisterSet(name, typeName string) (*resource.Set, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sets[name]; exists {
		return nil, fmt.Errorf("resource set %s is already registered", name)
	}

	// stores namespace sets by their snake_case form
	namespace := utilstrings.ToSnakeCase(name)
	for existing := range r.sets {
		if utilstrings.ToSnakeCase(existing) == namespace {
			return nil, fmt.Errorf("resource set %s collides with %s in storage namespace %s", name, existing, namespace)
		}
	}

	t, exists := r.types[typeName]
	if !exists {
		return nil, fmt.Errorf("resource set %s: resource type %s not found", name, typeName)
	}

	set := resource.NewSet(name, t)
	r.sets[name] = set
	return set, nil
}

// ResolveResourceType finds a resource type by name. When an owner prefix is
// given the qualified name prefix+name is tried first, then the bare name.
func (r *Registry) ResolveResourceType(name, ownerPrefix string) (*resource.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if ownerPrefix != "" {
		if t, ok := r.types[ownerPrefix+name]; ok {
			return t, true
		}
	}
	t, ok := r.types[name]
	return t, ok
}

// ResolveResourceProperty finds the property of t matching a document field name
func (r *Registry) ResolveResourceProperty(t *resource.Type, fieldName string) (*resource.Property, bool) {
	if t == nil {
		return nil, false
	}
	return t.Property(fieldName)
}

// ResolveResourceSet finds a resource set by name
func (r *Registry) ResolveResourceSet(name string) (*resource.Set, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.sets[name]
	return set, ok
}

// QualifiedTypePrefix returns the prefix used to scope nested complex type
// names owned by the given type
func (r *Registry) QualifiedTypePrefix(typeName string) string {
	return QualifiedTypePrefix(typeName)
}

// QualifiedTypePrefix returns typeName followed by the qualifier separator
func QualifiedTypePrefix(typeName string) string {
	return typeName + QualifierSeparator
}

// QualifiedName returns the name a nested complex type owned by ownerType
// through property is registered under
func QualifiedName(ownerType, property string) string {
	return QualifiedTypePrefix(ownerType) + property
}

// TypeNames returns the names of all registered types, sorted
func (r *Registry) TypeNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sets returns all registered resource sets, sorted by name
func (r *Registry) Sets() []*resource.Set {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sets := make([]*resource.Set, 0, len(r.sets))
	for _, s := range r.sets {
		sets = append(sets, s)
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].Name < sets[j].Name })
	return sets
}

// Count returns the number of registered types
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.types)
}

// Clear removes all registered types and sets (useful for testing)
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.types = make(map[string]*resource.Type)
	r.sets = make(map[string]*resource.Set)
}

// ValidateAll checks cross-type consistency: every complex property must
// resolve to a registered nested type by its property name, and complex types
// must not nest recursively
func (r *Registry) ValidateAll() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range sortedKeys(r.types) {
		t := r.types[name]
		for _, p := range t.Properties {
			if !isNested(p) {
				continue
			}
			if _, ok := r.lookupNested(t.Name, p.Name); !ok {
				return fmt.Errorf("%s.%s has no nested resource type (expected %s or %s)",
					t.Name, p.Name, QualifiedName(t.Name, p.Name), p.Name)
			}
		}
	}

	graph := newNestingGraph(r)
	if cycles := graph.DetectCycles(); len(cycles) > 0 {
		return fmt.Errorf("recursive complex types detected:\n%s", formatCycles(cycles))
	}

	return nil
}

// isNested reports whether documents stored under p decode into nested resources
func isNested(p *resource.Property) bool {
	return p.Kind == resource.ComplexReference || (p.Kind == resource.Collection && p.TypeName != "")
}

// lookupNested resolves a nested type by property name the same way the
// converter does.
// Callers must hold the read lock.
func (r *Registry) lookupNested(owner, name string) (*resource.Type, bool) {
	if t, ok := r.types[QualifiedTypePrefix(owner)+name]; ok {
		return t, true
	}
	t, ok := r.types[name]
	return t, ok
}

func sortedKeys(m map[string]*resource.Type) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
