package registry_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/spachava753/packtool/internal/config"
	"github.com/spachava753/packtool/internal/models"
	"github.com/spachava753/packtool/internal/registry"
)

func pack(name string, categories ...any) config.Tree {
	return config.Tree{
		"mode":       "pack",
		"name":       name,
		"target":     name + ".zip",
		"categories": categories,
	}
}

func TestLoad(t *testing.T) {
	decls := []config.Tree{
		pack("docs", "resources"),
		pack("zip", "sources", "HEADERS", "@docs"),
		{
			"mode":         "cmsis",
			"name":         "pdsc",
			"target":       "mtfmt.pdsc",
			"cmsis-Cclass": "Utility",
			"cmsis-Cgroup": "Format",
			"categories":   []any{"@zip"},
		},
	}

	r, err := registry.Load(decls)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if diff := cmp.Diff([]string{"docs", "zip", "pdsc"}, r.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	zip, ok := r.Get("zip")
	if !ok {
		t.Fatal("zip not found")
	}
	cfg, ok := zip.Config.(*models.PackAction)
	if !ok {
		t.Fatalf("expected *PackAction, got %T", zip.Config)
	}
	wantCategories := models.CategorySet{models.CategorySources, models.CategoryHeaders, "target:docs"}
	if diff := cmp.Diff(wantCategories, cfg.Categories); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"docs"}, zip.Dependencies); diff != "" {
		t.Errorf("dependencies mismatch (-want +got):\n%s", diff)
	}

	pdsc, _ := r.Get("pdsc")
	pcfg, ok := pdsc.Config.(*models.CmsisPdscAction)
	if !ok {
		t.Fatalf("expected *CmsisPdscAction, got %T", pdsc.Config)
	}
	if pcfg.CClass != "Utility" || pcfg.CGroup != "Format" {
		t.Errorf("unexpected cmsis metadata %q/%q", pcfg.CClass, pcfg.CGroup)
	}
	if diff := cmp.Diff([]string{"zip"}, pdsc.Dependencies); diff != "" {
		t.Errorf("dependencies mismatch (-want +got):\n%s", diff)
	}

	deps := r.Dependencies()
	if len(deps["docs"]) != 0 {
		t.Errorf("docs should have no dependencies, got %v", deps["docs"])
	}
}

func TestLoadDefaultsPackCategories(t *testing.T) {
	r, err := registry.Load([]config.Tree{{"mode": "PACK", "name": "zip", "target": "a.zip"}})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	e, _ := r.Get("zip")
	cfg := e.Config.(*models.PackAction)
	if diff := cmp.Diff(models.CategorySet{models.CategoryDefault}, cfg.Categories); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDeduplicatesReferences(t *testing.T) {
	r, err := registry.Load([]config.Tree{
		pack("a"),
		pack("b", "@a", "@a", "target:a"),
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	e, _ := r.Get("b")
	if diff := cmp.Diff([]string{"a"}, e.Dependencies); diff != "" {
		t.Errorf("dependencies mismatch (-want +got):\n%s", diff)
	}
	if got := e.Config.(*models.PackAction).Categories; len(got) != 1 {
		t.Errorf("expected one category, got %v", got)
	}
}

func TestLoadTargetCategoryAddsDependency(t *testing.T) {
	r, err := registry.Load([]config.Tree{
		{"mode": "cmsis", "name": "pdsc", "target": "x.pdsc"},
		pack("zip", "sources", "target:pdsc"),
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	e, _ := r.Get("zip")
	if diff := cmp.Diff([]string{"pdsc"}, e.Dependencies); diff != "" {
		t.Errorf("dependencies mismatch (-want +got):\n%s", diff)
	}
	want := models.CategorySet{models.CategorySources, models.TargetCategory("pdsc")}
	if diff := cmp.Diff(want, e.Config.(*models.PackAction).Categories); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		decls   []config.Tree
		wantErr *models.Error
	}{
		{"duplicate name", []config.Tree{pack("build"), pack("build")}, models.ErrNameConflict},
		{"reserved name", []config.Tree{pack("all")}, models.ErrNameConflict},
		{"reference to all", []config.Tree{pack("zip", "@all")}, models.ErrNameConflict},
		{"target category of all", []config.Tree{pack("zip", "target:all")}, models.ErrNameConflict},
		{"unsupported mode", []config.Tree{{"mode": "pattern", "name": "p", "target": "x"}}, models.ErrUnsupportedMode},
		{"none mode is synthetic only", []config.Tree{{"mode": "none", "name": "n"}}, models.ErrUnsupportedMode},
		{"missing mode", []config.Tree{{"name": "zip", "target": "x"}}, models.ErrConfig},
		{"missing name", []config.Tree{{"mode": "pack", "target": "x"}}, models.ErrConfig},
		{"missing target", []config.Tree{{"mode": "pack", "name": "zip"}}, models.ErrConfig},
		{"unknown category", []config.Tree{pack("zip", "objects")}, models.ErrConfig},
		{"empty reference", []config.Tree{pack("zip", "@")}, models.ErrConfig},
		{"non-string category", []config.Tree{pack("zip", int64(1))}, models.ErrConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := registry.Load(tt.decls)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %s, got %v", tt.wantErr.Type, err)
			}
		})
	}
}

func TestAddSynthetic(t *testing.T) {
	r, err := registry.Load([]config.Tree{pack("a"), pack("b")})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	r.AddSynthetic(&models.ActionEntry{
		Config:       &models.NoneAction{Name: models.AllAction},
		Dependencies: []string{"a", "b"},
	})

	if r.Len() != 3 {
		t.Errorf("expected 3 actions, got %d", r.Len())
	}
	all, ok := r.Get(models.AllAction)
	if !ok {
		t.Fatal("all not registered")
	}
	if all.Config.Kind() != models.KindNone {
		t.Errorf("expected none kind, got %s", all.Config.Kind())
	}
	if diff := cmp.Diff([]string{"a", "b", "all"}, r.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}
