// Package graph orders actions so that each runs after everything it depends on.
package graph

import (
	"slices"
	"strings"

	"github.com/spachava753/packtool/internal/models"
)

// Graph is a read-only dependency map from action name to the names it depends on.
type Graph struct {
	edges map[string][]string
}

// New builds a Graph from deps. Every key is a known action; edge targets that
// are not keys are treated as leaves.
func New(deps map[string][]string) *Graph {
	edges := make(map[string][]string, len(deps))
	for name, d := range deps {
		edges[name] = append([]string(nil), d...)
	}
	return &Graph{edges: edges}
}

// Has reports whether name is a known action.
func (g *Graph) Has(name string) bool {
	_, ok := g.edges[name]
	return ok
}

// Dependencies returns the direct dependencies of name.
func (g *Graph) Dependencies(name string) []string {
	return append([]string(nil), g.edges[name]...)
}

// Nodes returns every known action name, sorted.
func (g *Graph) Nodes() []string {
	names := make([]string, 0, len(g.edges))
	for name := range g.edges {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Subgraph collects the edges reachable from root. Only actions with at least
// one dependency appear as keys; leaves appear only as edge targets.
func (g *Graph) Subgraph(root string) map[string][]string {
	sub := make(map[string][]string)
	stack := []string{root}
	for len(stack) > 0 {
		name := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := sub[name]; seen {
			continue
		}
		deps := g.edges[name]
		if len(deps) == 0 {
			continue
		}
		sub[name] = deps
		stack = append(stack, deps...)
	}
	return sub
}

// Resolve returns the execution order for root: every action reachable from
// root exactly once, each after all of its dependencies, ending with root.
// Independent actions are ordered by declaration order of the dependency lists.
func (g *Graph) Resolve(root string) ([]string, error) {
	if !g.Has(root) {
		return nil, models.Errorf(models.ErrTypeUnknownAction, root, "no action named %q", root)
	}

	sub := g.Subgraph(root)
	if _, ok := sub[root]; !ok {
		return []string{root}, nil
	}
	return topoOrder(sub, root)
}

// Validate checks the whole graph for cycles.
func (g *Graph) Validate() error {
	done := make(map[string]bool)
	for _, name := range g.Nodes() {
		if done[name] {
			continue
		}
		order, err := topoOrder(g.Subgraph(name), name)
		if err != nil {
			return err
		}
		for _, n := range order {
			done[n] = true
		}
	}
	return nil
}

// topoOrder emits a depth-first postorder of sub starting at root.
func topoOrder(sub map[string][]string, root string) ([]string, error) {
	var order []string
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)
	var path []string

	var visit func(name string) error
	visit = func(name string) error {
		if permanent[name] {
			return nil
		}
		if temporary[name] {
			start := slices.Index(path, name)
			cycle := append(append([]string(nil), path[start:]...), name)
			return models.Errorf(models.ErrTypeCyclicDependency, name, "cycle detected: %s", strings.Join(cycle, " -> "))
		}

		temporary[name] = true
		path = append(path, name)
		for _, dep := range sub[name] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		delete(temporary, name)
		permanent[name] = true
		order = append(order, name)
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return order, nil
}
