// Package project loads a project document into a package model, an action
// registry and a dependency graph, and resolves execution order for an action.
package project

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spachava753/packtool/internal/config"
	"github.com/spachava753/packtool/internal/fileset"
	"github.com/spachava753/packtool/internal/graph"
	"github.com/spachava753/packtool/internal/models"
	"github.com/spachava753/packtool/internal/registry"
	"github.com/spachava753/packtool/internal/template"
)

// FileExpander turns file declarations into file groups.
type FileExpander interface {
	ExpandGroups(ctx context.Context, decls []models.FileDecl) ([]models.FileGroup, error)
}

// Project is a loaded project document, ready to resolve actions.
type Project struct {
	Package   *models.Package
	Actions   *registry.Registry
	OutputDir string
	Root      config.Tree
	Graph     *graph.Graph

	// Dir is the directory holding the project document; empty for in-memory projects.
	Dir string
	// GitCommitID is the HEAD commit of the repository containing Dir, when there is one.
	GitCommitID *string

	templates *template.Resolver
}

// Load reads the project document at path. File patterns are resolved relative
// to the document's directory.
func Load(ctx context.Context, path, outputDir string) (*Project, error) {
	root, err := config.LoadDocument(path)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("getting absolute path: %w", err)
	}

	dir := filepath.Dir(absPath)
	p, err := New(ctx, root, outputDir, fileset.NewExpander(dir))
	if err != nil {
		return nil, err
	}

	p.Dir = dir
	if sha := resolveGitSHA(dir); sha != "" {
		p.GitCommitID = &sha
	}
	return p, nil
}

// New builds a Project from a parsed document.
func New(ctx context.Context, root config.Tree, outputDir string, files FileExpander) (*Project, error) {
	absOut, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("getting absolute path: %w", err)
	}

	p := &Project{
		OutputDir: absOut,
		Root:      root,
		templates: template.NewResolver(root),
	}

	pkgTree, ok := root.Child("package")
	if !ok {
		return nil, models.MissingField("package")
	}
	p.Package, err = loadPackage(ctx, pkgTree, files)
	if err != nil {
		return nil, err
	}

	decls, err := root.Records("action")
	if err != nil {
		return nil, models.Errorf(models.ErrTypeConfig, "action", "%s", err)
	}
	p.Actions, err = registry.Load(decls)
	if err != nil {
		return nil, err
	}

	if err := p.validateReferences(); err != nil {
		return nil, err
	}

	if err := p.registerProjectedOutputs(); err != nil {
		return nil, err
	}

	p.Actions.AddSynthetic(&models.ActionEntry{
		Config:       &models.NoneAction{Name: models.AllAction},
		Dependencies: p.Actions.Names(),
	})

	p.Graph = graph.New(p.Actions.Dependencies())

	slog.Debug("loaded project",
		"package", p.Package.Name,
		"version", p.Package.Version.String(),
		"actions", p.Actions.Len()-1,
		"file_groups", len(p.Package.FileGroups()))

	return p, nil
}

// Resolve returns the actions to run for name, in execution order.
func (p *Project) Resolve(name string) ([]string, error) {
	return p.Graph.Resolve(name)
}

// Check validates that every action, including "all", can be ordered.
func (p *Project) Check() error {
	if _, err := p.Resolve(models.AllAction); err != nil {
		return err
	}
	return p.Graph.Validate()
}

// Expand expands placeholders in s against the project document.
func (p *Project) Expand(s string) (string, error) {
	return p.templates.Expand(s)
}

// Action returns the entry for name.
func (p *Project) Action(name string) (*models.ActionEntry, bool) {
	return p.Actions.Get(name)
}

// DeclaredActions returns user-declared action names in declaration order.
func (p *Project) DeclaredActions() []string {
	var names []string
	for _, n := range p.Actions.Names() {
		if n != models.AllAction {
			names = append(names, n)
		}
	}
	return names
}

// Target returns the absolute output path of the named action, or "" for
// actions without an output.
func (p *Project) Target(name string) (string, error) {
	entry, ok := p.Actions.Get(name)
	if !ok {
		return "", models.Errorf(models.ErrTypeUnknownAction, name, "action %q is not declared", name)
	}
	tmpl := models.TargetTemplate(entry.Config)
	if tmpl == "" {
		return "", nil
	}
	rel, err := p.Expand(tmpl)
	if err != nil {
		return "", fmt.Errorf("action %q target: %w", name, err)
	}
	return filepath.Join(p.OutputDir, rel), nil
}

// ProjectedOutputs returns the files the named action is expected to produce.
func (p *Project) ProjectedOutputs(name string) []string {
	return p.Package.TargetFiles(name)
}

// validateReferences checks that every dependency and every target category names a declared action.
func (p *Project) validateReferences() error {
	for _, name := range p.Actions.Names() {
		entry, _ := p.Actions.Get(name)
		for _, dep := range entry.Dependencies {
			if _, ok := p.Actions.Get(dep); !ok {
				return models.Errorf(models.ErrTypeUnknownDependency, dep, "action %q depends on undeclared action %q", name, dep)
			}
		}
		for _, c := range categoriesOf(entry.Config) {
			if ref, ok := c.TargetAction(); ok {
				if _, exists := p.Actions.Get(ref); !exists {
					return models.Errorf(models.ErrTypeUnknownDependency, ref, "action %q selects output of undeclared action %q", name, ref)
				}
			}
		}
	}
	return nil
}

// registerProjectedOutputs makes every action's output visible to category
// filters before any action runs.
func (p *Project) registerProjectedOutputs() error {
	for _, name := range p.Actions.Names() {
		entry, _ := p.Actions.Get(name)
		if models.TargetTemplate(entry.Config) == "" {
			continue
		}
		out, err := p.Target(name)
		if err != nil {
			return err
		}
		p.Package.AddTargetFiles(name, ".", []string{out})
		slog.Debug("registered projected output", "action", name, "path", out)
	}
	return nil
}

func categoriesOf(cfg models.ActionConfig) models.CategorySet {
	switch a := cfg.(type) {
	case *models.PackAction:
		return a.Categories
	case *models.CmsisPdscAction:
		return a.Categories
	default:
		return nil
	}
}
