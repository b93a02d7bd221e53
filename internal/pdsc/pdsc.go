// Package pdsc generates CMSIS pack description (.pdsc) files.
package pdsc

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spachava753/packtool/internal/archive"
	"github.com/spachava753/packtool/internal/models"
)

const schemaVersion = "1.7.7"

// DefaultCategories is used when a descriptor action selects no categories.
var DefaultCategories = models.CategorySet{models.CategorySources, models.CategoryHeaders}

type document struct {
	XMLName       xml.Name    `xml:"package"`
	SchemaVersion string      `xml:"schemaVersion,attr"`
	XMLNS         string      `xml:"xmlns:xs,attr"`
	SchemaLoc     string      `xml:"xs:noNamespaceSchemaLocation,attr"`
	Vendor        string      `xml:"vendor,omitempty"`
	Name          string      `xml:"name"`
	Description   string      `xml:"description"`
	URL           string      `xml:"url,omitempty"`
	Releases      []release   `xml:"releases>release"`
	Keywords      []string    `xml:"keywords>keyword,omitempty"`
	Components    []component `xml:"components>component"`
}

type release struct {
	Version string `xml:"version,attr"`
	Text    string `xml:",chardata"`
}

type component struct {
	Cclass      string `xml:"Cclass,attr"`
	Cgroup      string `xml:"Cgroup,attr"`
	Cversion    string `xml:"Cversion,attr"`
	Description string `xml:"description,omitempty"`
	Files       []file `xml:"files>file"`
}

type file struct {
	Category string `xml:"category,attr"`
	Name     string `xml:"name,attr"`
}

// Generate renders the descriptor for pkg. groups are the file groups selected
// by the action's categories.
func Generate(pkg *models.Package, action *models.CmsisPdscAction, groups []models.FileGroup) ([]byte, error) {
	if strings.TrimSpace(action.CClass) == "" {
		return nil, models.MissingField(fmt.Sprintf("action %q cmsis-Cclass", action.Name))
	}
	if strings.TrimSpace(action.CGroup) == "" {
		return nil, models.MissingField(fmt.Sprintf("action %q cmsis-Cgroup", action.Name))
	}

	version := pkg.Version.String()
	comp := component{
		Cclass:      action.CClass,
		Cgroup:      action.CGroup,
		Cversion:    version,
		Description: pkg.Description,
	}
	for _, e := range archive.Entries(groups) {
		comp.Files = append(comp.Files, file{
			Category: FileCategory(categoryOf(groups, e.Source), e.Name),
			Name:     e.Name,
		})
	}

	doc := document{
		SchemaVersion: schemaVersion,
		XMLNS:         "http://www.w3.org/2001/XMLSchema-instance",
		SchemaLoc:     "PACK.xsd",
		Vendor:        pkg.Organization,
		Name:          pkg.Name,
		Description:   pkg.Description,
		URL:           pkg.Support,
		Releases:      []release{{Version: version, Text: "Release " + version}},
		Keywords:      pkg.Keywords,
		Components:    []component{comp},
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding pdsc: %w", err)
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

// WriteFile generates the descriptor and writes it to target, creating parent directories.
func WriteFile(target string, pkg *models.Package, action *models.CmsisPdscAction, groups []models.FileGroup) error {
	data, err := Generate(pkg, action, groups)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("creating pdsc directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		return fmt.Errorf("writing pdsc: %w", err)
	}
	return nil
}

// FileCategory maps a package file category to a CMSIS file category.
func FileCategory(c models.FileCategory, name string) string {
	switch c {
	case models.CategorySources:
		switch strings.ToLower(filepath.Ext(name)) {
		case ".cpp", ".cc", ".cxx":
			return "sourceCpp"
		case ".s", ".asm":
			return "sourceAsm"
		default:
			return "sourceC"
		}
	case models.CategoryHeaders:
		return "header"
	case models.CategoryBinaries:
		return "library"
	case models.CategoryLicense:
		return "doc"
	default:
		return "other"
	}
}

func categoryOf(groups []models.FileGroup, source string) models.FileCategory {
	for _, g := range groups {
		for _, f := range g.Files {
			if f == source {
				return g.Category
			}
		}
	}
	return models.CategoryDefault
}
