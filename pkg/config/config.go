// Package config loads the optional headless.yaml configuration and resolves
// defaults.
//
// The file lives at the project root, next to go.mod:
//
//	errors:
//	  verbose: true
//	tabs:
//	  wrap: false
//	  orientation: vertical
//	text_input:
//	  history_size: 50
//	  normalize: true
//	  mask: "*"
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/headless/pkg/errors"
	"github.com/go-drift/headless/pkg/widgets"
)

// FileName is the configuration file looked up by LoadOptional.
const FileName = "headless.yaml"

// Config represents the optional headless.yaml configuration.
type Config struct {
	Errors    ErrorsConfig    `yaml:"errors"`
	Tabs      TabsConfig      `yaml:"tabs"`
	TextInput TextInputConfig `yaml:"text_input"`
}

// ErrorsConfig controls error reporting.
type ErrorsConfig struct {
	Verbose bool `yaml:"verbose,omitempty"`
}

// TabsConfig holds defaults for Tabs widgets.
type TabsConfig struct {
	Wrap        *bool  `yaml:"wrap,omitempty"`
	Orientation string `yaml:"orientation,omitempty"`
}

// TextInputConfig holds defaults for TextInput widgets.
type TextInputConfig struct {
	HistorySize int    `yaml:"history_size,omitempty"`
	Normalize   *bool  `yaml:"normalize,omitempty"`
	Mask        string `yaml:"mask,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	// Root is the project directory, empty when unknown.
	Root string
	// ModulePath is the module path from go.mod, empty when there is none.
	ModulePath string
	// Project is a short project name derived from the module path or Root.
	Project string

	Verbose bool

	TabsWrap        bool
	TabsOrientation widgets.Orientation

	HistorySize int
	Normalize   bool
	Mask        string
}

// Default returns the configuration used when no file is present.
func Default() *Resolved {
	r, _ := (&Config{}).Resolve("")
	return r
}

// Parse decodes configuration data. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.Configuration("config.Parse", "", fmt.Errorf("failed to parse %s: %w", FileName, err))
	}
	return &cfg, nil
}

// Load reads a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// LoadOptional reads headless.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	return cfg, nil
}

// Resolve loads headless.yaml from dir (if present) and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}
	return cfg.Resolve(dir)
}

// Resolve applies defaults and validates values. root may be empty.
func (c *Config) Resolve(root string) (*Resolved, error) {
	r := &Resolved{
		Root:        root,
		Verbose:     c.Errors.Verbose,
		TabsWrap:    true,
		HistorySize: c.TextInput.HistorySize,
		Normalize:   true,
		Mask:        c.TextInput.Mask,
	}

	if root != "" {
		r.ModulePath = modulePath(root)
		r.Project = projectName(r.ModulePath, root)
	}

	if c.Tabs.Wrap != nil {
		r.TabsWrap = *c.Tabs.Wrap
	}
	orientation, err := widgets.ParseOrientation(strings.TrimSpace(c.Tabs.Orientation))
	if err != nil {
		return nil, errors.Configuration("config.Resolve", "", fmt.Errorf("tabs.orientation: %w", err))
	}
	r.TabsOrientation = orientation

	switch {
	case r.HistorySize < 0:
		return nil, errors.Configuration("config.Resolve", "", fmt.Errorf("text_input.history_size must not be negative (got %d)", r.HistorySize))
	case r.HistorySize == 0:
		r.HistorySize = widgets.DefaultHistorySize
	}
	if c.TextInput.Normalize != nil {
		r.Normalize = *c.TextInput.Normalize
	}
	if r.Mask == "" {
		r.Mask = widgets.DefaultMask
	}
	if utf8.RuneCountInString(r.Mask) != 1 {
		return nil, errors.Configuration("config.Resolve", "", fmt.Errorf("text_input.mask must be a single character (got %q)", r.Mask))
	}
	return r, nil
}

// FindProjectRoot walks up from the current directory to find go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Go module (no go.mod found)")
		}
		dir = parent
	}
}

func modulePath(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return ""
	}
	return modfile.ModulePath(data)
}

func projectName(modulePath, dir string) string {
	base := filepath.Base(dir)
	if prefix, _, ok := module.SplitPathVersion(modulePath); ok && prefix != "" {
		parts := strings.Split(prefix, "/")
		base = parts[len(parts)-1]
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "headless"
	}
	return base
}
