// Package registry loads action declarations into typed configurations.
package registry

import (
	"fmt"
	"strings"

	"github.com/spachava753/packtool/internal/config"
	"github.com/spachava753/packtool/internal/models"
)

// Registry maps unique action names to entries, preserving declaration order.
type Registry struct {
	entries map[string]*models.ActionEntry
	order   []string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[string]*models.ActionEntry)}
}

// Load parses action declarations. Every "@name" category becomes a dependency
// on name and is rewritten to "target:name".
func Load(decls []config.Tree) (*Registry, error) {
	r := New()
	for i, decl := range decls {
		entry, err := loadEntry(i, decl)
		if err != nil {
			return nil, err
		}
		if err := r.add(entry); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// AddSynthetic injects an action the user cannot declare, such as "all".
// It replaces any existing entry of the same name.
func (r *Registry) AddSynthetic(entry *models.ActionEntry) {
	name := entry.Name()
	if _, exists := r.entries[name]; !exists {
		r.order = append(r.order, name)
	}
	r.entries[name] = entry
}

func (r *Registry) add(entry *models.ActionEntry) error {
	name := entry.Name()
	if name == models.AllAction {
		return models.Errorf(models.ErrTypeNameConflict, name, "action name %q is reserved", name)
	}
	if _, exists := r.entries[name]; exists {
		return models.Errorf(models.ErrTypeNameConflict, name, "action name %q is not unique", name)
	}
	r.entries[name] = entry
	r.order = append(r.order, name)
	return nil
}

// Get returns the entry for name.
func (r *Registry) Get(name string) (*models.ActionEntry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Names returns action names in declaration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of actions.
func (r *Registry) Len() int {
	return len(r.order)
}

// Dependencies returns the dependency map of every action.
func (r *Registry) Dependencies() map[string][]string {
	deps := make(map[string][]string, len(r.entries))
	for name, e := range r.entries {
		deps[name] = append([]string(nil), e.Dependencies...)
	}
	return deps
}

func loadEntry(idx int, decl config.Tree) (*models.ActionEntry, error) {
	mode, ok := decl.String("mode")
	if !ok {
		return nil, models.MissingField(fieldPath(idx, "mode"))
	}
	name, ok := decl.String("name")
	if !ok || strings.TrimSpace(name) == "" {
		return nil, models.MissingField(fieldPath(idx, "name"))
	}

	switch models.ActionKind(strings.ToLower(strings.TrimSpace(mode))) {
	case models.KindPack:
		target, err := requireString(decl, idx, "target")
		if err != nil {
			return nil, err
		}
		categories, deps, err := loadCategories(decl, idx)
		if err != nil {
			return nil, err
		}
		if len(categories) == 0 {
			categories = models.CategorySet{models.CategoryDefault}
		}
		return &models.ActionEntry{
			Config:       &models.PackAction{Name: name, Target: target, Categories: categories},
			Dependencies: deps,
		}, nil

	case models.KindCmsisPdsc:
		target, err := requireString(decl, idx, "target")
		if err != nil {
			return nil, err
		}
		categories, deps, err := loadCategories(decl, idx)
		if err != nil {
			return nil, err
		}
		cclass, _ := decl.String("cmsis-Cclass")
		cgroup, _ := decl.String("cmsis-Cgroup")
		return &models.ActionEntry{
			Config: &models.CmsisPdscAction{
				Name:       name,
				Target:     target,
				CClass:     cclass,
				CGroup:     cgroup,
				Categories: categories,
			},
			Dependencies: deps,
		}, nil

	default:
		return nil, models.Errorf(models.ErrTypeUnsupportedMode, name, "action %q: unsupported mode %q", name, mode)
	}
}

// loadCategories parses the categories list. Both "@action" and
// "target:action" select the action's output and make it a dependency.
func loadCategories(decl config.Tree, idx int) (models.CategorySet, []string, error) {
	raw, err := decl.Strings("categories")
	if err != nil {
		return nil, nil, models.Errorf(models.ErrTypeConfig, fieldPath(idx, "categories"), "%s", err)
	}

	var categories models.CategorySet
	var deps []string
	for _, item := range raw {
		item = strings.TrimSpace(item)
		if ref, ok := strings.CutPrefix(item, "@"); ok {
			if ref == "" {
				return nil, nil, models.Errorf(models.ErrTypeConfig, fieldPath(idx, "categories"), "empty action reference")
			}
			if ref == models.AllAction {
				return nil, nil, models.Errorf(models.ErrTypeNameConflict, ref, "action %q cannot be referenced", ref)
			}
			categories = categories.Add(models.TargetCategory(ref))
			deps = appendUnique(deps, ref)
			continue
		}
		c, err := models.ParseFileCategory(item)
		if err != nil {
			return nil, nil, err
		}
		if ref, ok := c.TargetAction(); ok {
			if ref == models.AllAction {
				return nil, nil, models.Errorf(models.ErrTypeNameConflict, ref, "action %q cannot be referenced", ref)
			}
			deps = appendUnique(deps, ref)
		}
		categories = categories.Add(c)
	}
	return categories, deps, nil
}

func requireString(decl config.Tree, idx int, key string) (string, error) {
	s, ok := decl.String(key)
	if !ok {
		return "", models.MissingField(fieldPath(idx, key))
	}
	return s, nil
}

func fieldPath(idx int, key string) string {
	return fmt.Sprintf("action[%d].%s", idx, key)
}

func appendUnique(list []string, s string) []string {
	for _, x := range list {
		if x == s {
			return list
		}
	}
	return append(list, s)
}
