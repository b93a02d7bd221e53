// Package fileset enumerates the files named by glob patterns in a project document.
package fileset

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar"
	"golang.org/x/sync/errgroup"

	"github.com/spachava753/packtool/internal/models"
)

const defaultConcurrency = 4

// Expander resolves glob patterns relative to a base directory. Patterns may use "**".
type Expander struct {
	BaseDir     string
	Concurrency int
}

// NewExpander creates an Expander rooted at baseDir.
func NewExpander(baseDir string) *Expander {
	return &Expander{BaseDir: baseDir, Concurrency: defaultConcurrency}
}

// Expand returns the absolute paths of regular files matching patterns. Matches
// are sorted within each pattern; a file matched by several patterns is kept once.
func (e *Expander) Expand(patterns []string) ([]string, error) {
	base, err := filepath.Abs(e.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("getting absolute path: %w", err)
	}

	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		full := pattern
		if !filepath.IsAbs(full) {
			full = filepath.Join(base, pattern)
		}

		matches, err := doublestar.Glob(full)
		if err != nil {
			return nil, fmt.Errorf("expanding pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			slog.Warn("file pattern matched nothing", "pattern", pattern, "base", base)
			continue
		}
		slices.Sort(matches)

		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil {
				return nil, fmt.Errorf("stat %s: %w", m, err)
			}
			if info.IsDir() {
				continue
			}
			abs := filepath.Clean(m)
			if seen[abs] {
				continue
			}
			seen[abs] = true
			files = append(files, abs)
		}
	}
	return files, nil
}

// ExpandGroups expands every declaration into a FileGroup, preserving declaration order.
func (e *Expander) ExpandGroups(ctx context.Context, decls []models.FileDecl) ([]models.FileGroup, error) {
	groups := make([]models.FileGroup, len(decls))

	g, ctx := errgroup.WithContext(ctx)
	limit := e.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}
	g.SetLimit(limit)

	for i, decl := range decls {
		i, decl := i, decl
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			files, err := e.Expand(decl.Patterns)
			if err != nil {
				return fmt.Errorf("package.file[%d]: %w", i, err)
			}
			slog.Debug("expanded file group", "index", i, "output", decl.Output, "category", decl.Category, "files", len(files))
			groups[i] = models.FileGroup{
				Files:    files,
				PackDir:  decl.Output,
				Category: decl.Category,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return groups, nil
}
