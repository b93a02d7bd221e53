package config_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/spachava753/packtool/internal/config"
)

const projectToml = `[package]
name = "mtfmt"
version = "1.2.3"
authors = ["XiangYang"]
organization = "MtFmt"

[[package.file]]
file = ["src/*.c"]
output = "src"
category = "sources"

[[action]]
mode = "pack"
name = "zip"
target = "{package:name}-{package:version}.zip"
categories = ["sources", "headers"]

[[action]]
mode = "cmsis"
name = "pdsc"
target = "{package:organization}.{package:name}.pdsc"
cmsis-Cclass = "Utility"
`

const projectYaml = `package:
  name: mtfmt
  version: "1.2.3"
  file:
    - file: ["src/*.c"]
      output: src
action:
  - mode: pack
    name: zip
    target: out.zip
    level: 9
`

func TestParseDocumentTOML(t *testing.T) {
	tree, err := config.ParseDocument([]byte(projectToml), config.FormatTOML)
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	pkg, ok := tree.Child("package")
	if !ok {
		t.Fatal("expected package table")
	}
	if name, _ := pkg.String("name"); name != "mtfmt" {
		t.Errorf("expected name mtfmt, got %q", name)
	}

	files, err := pkg.Records("file")
	if err != nil {
		t.Fatalf("Records(file): %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 file record, got %d", len(files))
	}
	patterns, err := files[0].Strings("file")
	if err != nil || len(patterns) != 1 || patterns[0] != "src/*.c" {
		t.Errorf("unexpected patterns %v (err %v)", patterns, err)
	}

	actions, err := tree.Records("action")
	if err != nil {
		t.Fatalf("Records(action): %v", err)
	}
	if len(actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(actions))
	}
	if cclass, _ := actions[1].String("cmsis-Cclass"); cclass != "Utility" {
		t.Errorf("expected cmsis-Cclass Utility, got %q", cclass)
	}

	// Arrays of tables are normalised to []any.
	if _, ok := tree["action"].([]any); !ok {
		t.Errorf("expected []any for action, got %T", tree["action"])
	}
}

func TestParseDocumentYAML(t *testing.T) {
	tree, err := config.ParseDocument([]byte(projectYaml), config.FormatYAML)
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	actions, err := tree.Records("action")
	if err != nil {
		t.Fatalf("Records(action): %v", err)
	}
	if len(actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(actions))
	}
	if _, ok := actions[0]["level"].(int64); !ok {
		t.Errorf("expected integers normalised to int64, got %T", actions[0]["level"])
	}
}

func TestNormalizeLargeUnsigned(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{uint64(7), int64(7)},
		{uint64(math.MaxInt64), int64(math.MaxInt64)},
		{uint64(math.MaxUint64), uint64(math.MaxUint64)},
	}
	for _, tt := range tests {
		if got := config.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%v) = %v (%T), want %v (%T)", tt.in, got, got, tt.want, tt.want)
		}
	}

	tree, err := config.ParseDocument([]byte("serial: 18446744073709551615\n"), config.FormatYAML)
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}
	if got := config.Stringify(tree["serial"]); got != "18446744073709551615" {
		t.Errorf("expected large integer preserved, got %s", got)
	}
}

func TestParseDocumentInvalid(t *testing.T) {
	if _, err := config.ParseDocument([]byte("[package"), config.FormatTOML); err == nil {
		t.Error("expected error for invalid toml")
	}
	if _, err := config.ParseDocument([]byte("a: [b"), config.FormatYAML); err == nil {
		t.Error("expected error for invalid yaml")
	}
}

func TestLoadDocument(t *testing.T) {
	tmpDir := t.TempDir()

	tomlPath := filepath.Join(tmpDir, "project.toml")
	if err := os.WriteFile(tomlPath, []byte(projectToml), 0644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	yamlPath := filepath.Join(tmpDir, "project.yml")
	if err := os.WriteFile(yamlPath, []byte(projectYaml), 0644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}

	for _, path := range []string{tomlPath, yamlPath} {
		tree, err := config.LoadDocument(path)
		if err != nil {
			t.Fatalf("LoadDocument(%s) failed: %v", path, err)
		}
		if _, ok := tree.Child("package"); !ok {
			t.Errorf("%s: expected package table", path)
		}
	}

	if _, err := config.LoadDocument(filepath.Join(tmpDir, "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]config.Format{
		"project.toml": config.FormatTOML,
		"project.yaml": config.FormatYAML,
		"project.YML":  config.FormatYAML,
		"project":      config.FormatTOML,
	}
	for path, want := range tests {
		if got := config.FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %s, want %s", path, got, want)
		}
	}
}

func TestTreeStrings(t *testing.T) {
	tree := config.Tree{
		"single": "a",
		"list":   []any{"a", "b"},
		"bad":    []any{"a", int64(1)},
		"num":    int64(3),
	}

	if got, err := tree.Strings("single"); err != nil || len(got) != 1 {
		t.Errorf("single: %v %v", got, err)
	}
	if got, err := tree.Strings("list"); err != nil || len(got) != 2 {
		t.Errorf("list: %v %v", got, err)
	}
	if got, err := tree.Strings("missing"); err != nil || got != nil {
		t.Errorf("missing: %v %v", got, err)
	}
	if _, err := tree.Strings("bad"); err == nil {
		t.Error("expected error for non-string element")
	}
	if _, err := tree.Strings("num"); err == nil {
		t.Error("expected error for number")
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"text", "text"},
		{int64(42), "42"},
		{1.5, "1.5"},
		{true, "true"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := config.Stringify(tt.in); got != tt.want {
			t.Errorf("Stringify(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDefaultSettings(t *testing.T) {
	cfg := config.DefaultSettings()

	if cfg.ProjectPath != "./project.toml" {
		t.Errorf("expected default project ./project.toml, got %s", cfg.ProjectPath)
	}
	if cfg.OutputDir != "./target_package" {
		t.Errorf("expected default output dir ./target_package, got %s", cfg.OutputDir)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("unexpected log defaults %s/%s", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.Publish.Enabled() {
		t.Error("publishing should be disabled by default")
	}
}

func TestSettingsFromEnv(t *testing.T) {
	env := map[string]string{
		"PACKTOOL_OUTPUT_DIR":  "dist",
		"PACKTOOL_LOG_LEVEL":   "DEBUG",
		"PACKTOOL_S3_ENDPOINT": "localhost:9000",
		"PACKTOOL_S3_BUCKET":   "bundles",
		"PACKTOOL_S3_USE_SSL":  "false",
	}
	cfg, err := config.SettingsFromEnv(func(k string) string { return env[k] })
	if err != nil {
		t.Fatalf("SettingsFromEnv failed: %v", err)
	}

	if cfg.OutputDir != "dist" {
		t.Errorf("expected output dir dist, got %s", cfg.OutputDir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.LogLevel)
	}
	if !cfg.Publish.Enabled() {
		t.Error("expected publishing enabled")
	}
	if cfg.Publish.UseSSL {
		t.Error("expected UseSSL false")
	}
	if cfg.Publish.Region != "us-east-1" {
		t.Errorf("expected default region, got %s", cfg.Publish.Region)
	}
}

func TestSettingsFromEnvInvalid(t *testing.T) {
	tests := map[string]map[string]string{
		"bad level":  {"PACKTOOL_LOG_LEVEL": "verbose"},
		"bad format": {"PACKTOOL_LOG_FORMAT": "xml"},
		"bad ssl":    {"PACKTOOL_S3_USE_SSL": "maybe"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := config.SettingsFromEnv(func(k string) string { return env[k] }); err == nil {
				t.Error("expected error")
			}
		})
	}
}
