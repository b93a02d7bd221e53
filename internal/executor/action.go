package executor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spachava753/packtool/internal/archive"
	"github.com/spachava753/packtool/internal/models"
	"github.com/spachava753/packtool/internal/pdsc"
	"github.com/spachava753/packtool/internal/project"
)

// DefaultActionExecutor produces the outputs of pack and descriptor actions.
type DefaultActionExecutor struct{}

// NewActionExecutor creates a new action executor.
func NewActionExecutor() *DefaultActionExecutor {
	return &DefaultActionExecutor{}
}

// Execute runs a single action and returns the files it wrote.
func (e *DefaultActionExecutor) Execute(ctx context.Context, p *project.Project, entry *models.ActionEntry) ([]string, error) {
	switch a := entry.Config.(type) {
	case *models.PackAction:
		target, err := p.Target(a.Name)
		if err != nil {
			return nil, err
		}
		groups := p.Package.FileGroupsMatching(a.Categories)
		entries, err := archive.WriteZip(ctx, target, groups)
		if err != nil {
			return nil, fmt.Errorf("writing archive: %w", err)
		}
		slog.Info("packed archive", "action", a.Name, "path", target, "entries", len(entries))
		return []string{target}, nil

	case *models.CmsisPdscAction:
		target, err := p.Target(a.Name)
		if err != nil {
			return nil, err
		}
		categories := a.Categories
		if len(categories) == 0 {
			categories = pdsc.DefaultCategories
		}
		if err := pdsc.WriteFile(target, p.Package, a, p.Package.FileGroupsMatching(categories)); err != nil {
			return nil, err
		}
		slog.Info("generated pdsc", "action", a.Name, "path", target)
		return []string{target}, nil

	case *models.NoneAction:
		return nil, nil

	default:
		return nil, models.Errorf(models.ErrTypeUnsupportedMode, entry.Name(), "no executor for action %q of kind %s", entry.Name(), entry.Config.Kind())
	}
}
