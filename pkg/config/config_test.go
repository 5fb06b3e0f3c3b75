package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-drift/headless/pkg/errors"
	"github.com/go-drift/headless/pkg/widgets"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveDefaults(t *testing.T) {
	dir := t.TempDir()
	r, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.Verbose || !r.TabsWrap || r.TabsOrientation != widgets.Horizontal {
		t.Errorf("defaults = %+v", r)
	}
	if r.HistorySize != widgets.DefaultHistorySize || !r.Normalize || r.Mask != widgets.DefaultMask {
		t.Errorf("text input defaults = %+v", r)
	}
	if r.Project != filepath.Base(dir) {
		t.Errorf("Project = %q, want directory name", r.Project)
	}
}

func TestResolveFromFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/acme/forms/v2\n\ngo 1.24\n")
	writeFile(t, dir, FileName, `
errors:
  verbose: true
tabs:
  wrap: false
  orientation: vertical
text_input:
  history_size: 5
  normalize: false
  mask: "*"
`)
	r, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := Resolved{
		Root:            dir,
		ModulePath:      "example.com/acme/forms/v2",
		Project:         "forms",
		Verbose:         true,
		TabsWrap:        false,
		TabsOrientation: widgets.Vertical,
		HistorySize:     5,
		Normalize:       false,
		Mask:            "*",
	}
	if *r != want {
		t.Errorf("Resolve =\n%+v\nwant\n%+v", *r, want)
	}
}

func TestResolveRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name, yaml string
	}{
		{"orientation", "tabs:\n  orientation: diagonal\n"},
		{"history", "text_input:\n  history_size: -1\n"},
		{"mask", "text_input:\n  mask: \"**\"\n"},
		{"unknown key", "tabs:\n  loop: true\n"},
		{"syntax", "tabs: [\n"},
	}
	for _, tt := range tests {
		dir := t.TempDir()
		writeFile(t, dir, FileName, tt.yaml)
		_, err := Resolve(dir)
		if errors.KindOf(err) != errors.KindConfiguration {
			t.Errorf("%s: error = %v, want configuration error", tt.name, err)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load should fail for a missing file")
	}
	cfg, err := LoadOptional(t.TempDir())
	if err != nil || cfg == nil {
		t.Errorf("LoadOptional on an empty dir = %v, %v", cfg, err)
	}
}

func TestDefault(t *testing.T) {
	r := Default()
	if r == nil || r.Project != "" || !r.TabsWrap {
		t.Errorf("Default = %+v", r)
	}
}
