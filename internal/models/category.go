package models

import (
	"strings"
)

// FileCategory tags a file group. It is either one of the fixed categories
// or "target:<action>" for the output of an action.
type FileCategory string

const (
	CategoryDefault   FileCategory = "default"
	CategorySources   FileCategory = "sources"
	CategoryHeaders   FileCategory = "headers"
	CategoryBinaries  FileCategory = "binaries"
	CategoryResources FileCategory = "resources"
	CategoryLicense   FileCategory = "license"
)

const targetPrefix = "target:"

var categoryAliases = map[string]FileCategory{
	"default":   CategoryDefault,
	"sources":   CategorySources,
	"headers":   CategoryHeaders,
	"binaries":  CategoryBinaries,
	"binarys":   CategoryBinaries,
	"resources": CategoryResources,
	"license":   CategoryLicense,
}

// ParseFileCategory maps a category name from the project document to a FileCategory.
// Names are case-insensitive. "target:<action>" is accepted as written.
func ParseFileCategory(name string) (FileCategory, error) {
	trimmed := strings.TrimSpace(name)
	if action, ok := strings.CutPrefix(trimmed, targetPrefix); ok && action != "" {
		return TargetCategory(action), nil
	}
	if c, ok := categoryAliases[strings.ToLower(trimmed)]; ok {
		return c, nil
	}
	return "", Errorf(ErrTypeConfig, name, "unknown file category %q", name)
}

// TargetCategory is the category of files produced by the named action.
func TargetCategory(action string) FileCategory {
	return FileCategory(targetPrefix + action)
}

// TargetAction returns the action name of a target category.
func (c FileCategory) TargetAction() (string, bool) {
	return strings.CutPrefix(string(c), targetPrefix)
}

// CategorySet is an ordered set of categories.
type CategorySet []FileCategory

// Add appends c unless it is already present.
func (s CategorySet) Add(c FileCategory) CategorySet {
	if s.Contains(c) {
		return s
	}
	return append(s, c)
}

func (s CategorySet) Contains(c FileCategory) bool {
	for _, x := range s {
		if x == c {
			return true
		}
	}
	return false
}
