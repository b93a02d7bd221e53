package models

// FileGroup is a batch of files sharing an archive directory and category.
type FileGroup struct {
	Files    []string     `json:"files"`    // absolute paths
	PackDir  string       `json:"pack_dir"` // relative destination inside an archive
	Category FileCategory `json:"category"`

	// Projected marks a group registered for an action output that may not exist yet.
	Projected bool `json:"projected,omitempty"`
}

// FileDecl is one entry of package.file in the project document.
type FileDecl struct {
	Patterns []string
	Output   string
	Category FileCategory
}

// Package holds package metadata and the file groups to be bundled.
type Package struct {
	Name         string   `json:"name"`
	Version      Version  `json:"version"`
	Authors      []string `json:"authors,omitempty"`
	Keywords     []string `json:"keywords,omitempty"`
	Organization string   `json:"organization,omitempty"`
	Description  string   `json:"description,omitempty"`
	Support      string   `json:"support,omitempty"`

	groups []FileGroup
}

// AddFiles appends a file group declared in the project document.
func (p *Package) AddFiles(g FileGroup) {
	g.Files = append([]string(nil), g.Files...)
	p.groups = append(p.groups, g)
}

// AddTargetFiles registers the projected output of an action as a file group
// with category "target:<action>".
func (p *Package) AddTargetFiles(action, packDir string, files []string) {
	p.groups = append(p.groups, FileGroup{
		Files:     append([]string(nil), files...),
		PackDir:   packDir,
		Category:  TargetCategory(action),
		Projected: true,
	})
}

// FileGroups returns all groups in registration order.
func (p *Package) FileGroups() []FileGroup {
	return append([]FileGroup(nil), p.groups...)
}

// FileGroupsMatching returns the groups whose category is in categories,
// in registration order.
func (p *Package) FileGroupsMatching(categories CategorySet) []FileGroup {
	var out []FileGroup
	for _, g := range p.groups {
		if categories.Contains(g.Category) {
			out = append(out, g)
		}
	}
	return out
}

// TargetFiles returns the projected output files of the named action.
func (p *Package) TargetFiles(action string) []string {
	var files []string
	for _, g := range p.FileGroupsMatching(CategorySet{TargetCategory(action)}) {
		files = append(files, g.Files...)
	}
	return files
}
