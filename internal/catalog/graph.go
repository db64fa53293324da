package catalog

import (
	"fmt"
	"strings"

	"github.com/conduit-lang/docbridge/internal/resource"
)

// nestingGraph represents which resource types embed which other types
type nestingGraph struct {
	nodes []string
	edges map[string][]string // owner type -> nested types
}

// newNestingGraph builds the graph from the registry. Callers must hold the
// read lock.
func newNestingGraph(r *Registry) *nestingGraph {
	graph := &nestingGraph{
		nodes: sortedKeys(r.types),
		edges: make(map[string][]string),
	}

	for _, name := range graph.nodes {
		t := r.types[name]
		for _, p := range t.Properties {
			if !isNested(p) {
				continue
			}
			if nested, ok := r.lookupNested(t.Name, p.Name); ok {
				graph.edges[name] = append(graph.edges[name], nested.Name)
			}
		}
	}

	return graph
}

// DetectCycles detects types that embed themselves, directly or transitively
func (g *nestingGraph) DetectCycles() [][]string {
	var cycles [][]string
	visited := make(map[string]bool)
	recursionStack := make(map[string]bool)

	var dfs func(node string, path []string) bool
	dfs = func(node string, path []string) bool {
		visited[node] = true
		recursionStack[node] = true
		path = append(path, node)

		for _, neighbor := range g.edges[node] {
			if !visited[neighbor] {
				if dfs(neighbor, path) {
					return true
				}
			} else if recursionStack[neighbor] {
				cycleStart := -1
				for i, n := range path {
					if n == neighbor {
						cycleStart = i
						break
					}
				}
				if cycleStart >= 0 {
					cycle := make([]string, len(path)-cycleStart)
					copy(cycle, path[cycleStart:])
					cycles = append(cycles, cycle)
				}
				return true
			}
		}

		recursionStack[node] = false
		return false
	}

	for _, node := range g.nodes {
		if !visited[node] {
			dfs(node, []string{})
		}
	}

	return cycles
}

// formatCycles formats cycles for error messages
func formatCycles(cycles [][]string) string {
	var lines []string
	for _, cycle := range cycles {
		lines = append(lines, "  "+strings.Join(append(cycle, cycle[0]), " -> "))
	}
	return strings.Join(lines, "\n")
}

// validateType performs structural checks on a single resource type
func validateType(t *resource.Type) error {
	for _, p := range t.Properties {
		if p.Name == "" {
			return fmt.Errorf("property with empty name")
		}

		switch p.Kind {
		case resource.Primitive:
			if p.Type.Underlying() == resource.ScalarNone {
				return fmt.Errorf("primitive property %s must declare a scalar type", p.Name)
			}
			if p.TypeName != "" {
				return fmt.Errorf("primitive property %s cannot reference resource type %s", p.Name, p.TypeName)
			}
		case resource.ComplexReference:
			if p.Type.Underlying() != resource.ScalarNone {
				return fmt.Errorf("complex property %s cannot declare scalar type %s", p.Name, p.Type)
			}
		case resource.Collection:
			if p.TypeName != "" && p.Type.Underlying() != resource.ScalarNone {
				return fmt.Errorf("collection property %s declares both an item type and a resource type", p.Name)
			}
		default:
			return fmt.Errorf("property %s has unknown kind %d", p.Name, p.Kind)
		}
	}
	return nil
}
