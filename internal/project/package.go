package project

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/spachava753/packtool/internal/config"
	"github.com/spachava753/packtool/internal/models"
)

// loadPackage reads the package table and expands its file declarations.
func loadPackage(ctx context.Context, t config.Tree, files FileExpander) (*models.Package, error) {
	name, ok := t.String("name")
	if !ok || name == "" {
		return nil, models.MissingField("package.name")
	}
	rawVersion, ok := t.String("version")
	if !ok {
		return nil, models.MissingField("package.version")
	}
	version, err := models.ParseVersion(rawVersion)
	if err != nil {
		return nil, err
	}

	pkg := &models.Package{Name: name, Version: version}
	if pkg.Authors, err = t.Strings("authors"); err != nil {
		return nil, models.Errorf(models.ErrTypeConfig, "package.authors", "%s", err)
	}
	if pkg.Keywords, err = t.Strings("keywords"); err != nil {
		return nil, models.Errorf(models.ErrTypeConfig, "package.keywords", "%s", err)
	}
	pkg.Organization, _ = t.String("organization")
	pkg.Description, _ = t.String("description")
	pkg.Support, _ = t.String("support")

	decls, err := fileDecls(t)
	if err != nil {
		return nil, err
	}
	groups, err := files.ExpandGroups(ctx, decls)
	if err != nil {
		return nil, fmt.Errorf("expanding package files: %w", err)
	}
	for _, g := range groups {
		pkg.AddFiles(g)
	}

	return pkg, nil
}

func fileDecls(t config.Tree) ([]models.FileDecl, error) {
	records, err := t.Records("file")
	if err != nil {
		return nil, models.Errorf(models.ErrTypeConfig, "package.file", "%s", err)
	}

	decls := make([]models.FileDecl, 0, len(records))
	for i, rec := range records {
		field := func(key string) string { return fmt.Sprintf("package.file[%d].%s", i, key) }

		if _, ok := rec["file"]; !ok {
			return nil, models.MissingField(field("file"))
		}
		patterns, err := rec.Strings("file")
		if err != nil {
			return nil, models.Errorf(models.ErrTypeConfig, field("file"), "%s", err)
		}
		output, ok := rec.String("output")
		if !ok {
			return nil, models.MissingField(field("output"))
		}
		if clean := path.Clean(filepath.ToSlash(output)); clean == ".." || strings.HasPrefix(clean, "../") {
			return nil, models.Errorf(models.ErrTypeConfig, field("output"), "output %q escapes the package root", output)
		}

		category := models.CategoryDefault
		if raw, ok := rec.String("category"); ok {
			if category, err = models.ParseFileCategory(raw); err != nil {
				return nil, err
			}
		}

		decls = append(decls, models.FileDecl{Patterns: patterns, Output: output, Category: category})
	}
	return decls, nil
}
