// Package config holds the runtime settings for fuzzypatch.
//
// Settings are resolved by layering sources: built-in defaults, then an
// optional config file (TOML or YAML, chosen by extension), then
// FUZZYPATCH_* environment variables. Command-line flags override all of
// these in the app layer.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dshills/fuzzypatch/internal/config/loader"
)

// CandidateFiles are the config file names probed, in order, when no
// explicit path is given.
var CandidateFiles = []string{
	"fuzzypatch.toml",
	"fuzzypatch.yaml",
	"fuzzypatch.yml",
}

// Config holds all fuzzypatch settings.
type Config struct {
	Apply  ApplySettings
	Output OutputSettings
	Log    LogSettings
}

// ApplySettings controls how resolved edits are written back to disk.
type ApplySettings struct {
	Backup bool // Write a .bak copy before modifying a file
	DryRun bool // Resolve and report, but write nothing
}

// OutputSettings controls reporting.
type OutputSettings struct {
	Color   bool // Colorize diff output
	JSON    bool // Emit a machine-readable report instead of a diff
	Context int  // Unified diff context lines
}

// LogSettings controls structured logging.
type LogSettings struct {
	Level string // debug, info, warn, or error
	File  string // Log file path; empty disables logging
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Apply: ApplySettings{
			Backup: false,
			DryRun: false,
		},
		Output: OutputSettings{
			Color:   true,
			JSON:    false,
			Context: 3,
		},
		Log: LogSettings{
			Level: "info",
			File:  "",
		},
	}
}

// Load resolves settings from defaults, the config file at path, and
// the environment. An empty path probes CandidateFiles under root; a
// missing file is not an error.
func Load(root, path string) (*Config, error) {
	return LoadWithFS(loader.DefaultFS(), root, path)
}

// LoadWithFS is Load with a caller-supplied file system.
func LoadWithFS(fsys loader.FileSystem, root, path string) (*Config, error) {
	fileMap, err := loadFile(fsys, root, path)
	if err != nil {
		return nil, err
	}

	envMap, err := loader.NewEnvLoader(loader.EnvPrefix).Load()
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := cfg.applyMap(loader.DeepMerge(fileMap, envMap)); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(fsys loader.FileSystem, root, path string) (map[string]any, error) {
	if path != "" {
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		m, err := fileLoader(fsys, path)
		if err != nil {
			return nil, err
		}
		data, err := m.Load()
		if err != nil {
			return nil, err
		}
		if data == nil {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return data, nil
	}

	for _, name := range CandidateFiles {
		candidate := filepath.Join(root, name)
		m, err := fileLoader(fsys, candidate)
		if err != nil {
			return nil, err
		}
		data, err := m.Load()
		if err != nil {
			return nil, err
		}
		if data != nil {
			return data, nil
		}
	}
	return nil, nil
}

// fileLoader picks a loader by file extension.
func fileLoader(fsys loader.FileSystem, path string) (loader.FileLoader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return loader.NewTOMLLoaderWithFS(fsys, path), nil
	case ".yaml", ".yml":
		return loader.NewYAMLLoaderWithFS(fsys, path), nil
	default:
		return nil, fmt.Errorf("unsupported config format %q (want .toml, .yaml, or .yml)", filepath.Ext(path))
	}
}

// applyMap overlays values from a nested settings map. Unknown keys are
// ignored; known keys with the wrong type are errors.
func (c *Config) applyMap(m map[string]any) error {
	if sec, ok := section(m, "apply"); ok {
		if err := assignBool(sec, "apply", "backup", &c.Apply.Backup); err != nil {
			return err
		}
		if err := assignBool(sec, "apply", "dry_run", &c.Apply.DryRun); err != nil {
			return err
		}
	}
	if sec, ok := section(m, "output"); ok {
		if err := assignBool(sec, "output", "color", &c.Output.Color); err != nil {
			return err
		}
		if err := assignBool(sec, "output", "json", &c.Output.JSON); err != nil {
			return err
		}
		if err := assignInt(sec, "output", "context", &c.Output.Context); err != nil {
			return err
		}
	}
	if sec, ok := section(m, "log"); ok {
		if err := assignString(sec, "log", "level", &c.Log.Level); err != nil {
			return err
		}
		if err := assignString(sec, "log", "file", &c.Log.File); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks that settings hold usable values.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("[log] level: unknown level %q (want debug, info, warn, or error)", c.Log.Level)
	}
	if c.Output.Context < 0 {
		return fmt.Errorf("[output] context: must not be negative, got %d", c.Output.Context)
	}
	return nil
}

func section(m map[string]any, name string) (map[string]any, bool) {
	sec, ok := m[name].(map[string]any)
	return sec, ok
}

func assignBool(sec map[string]any, secName, key string, dst *bool) error {
	v, ok := sec[key]
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case bool:
		*dst = t
	case int64:
		// Env vars arrive as integers for 0/1.
		if t != 0 && t != 1 {
			return typeError(secName, key, "bool", v)
		}
		*dst = t == 1
	default:
		return typeError(secName, key, "bool", v)
	}
	return nil
}

func assignInt(sec map[string]any, secName, key string, dst *int) error {
	v, ok := sec[key]
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case int:
		*dst = t
	case int64:
		*dst = int(t)
	case uint64:
		*dst = int(t)
	case float64:
		*dst = int(t)
	default:
		return typeError(secName, key, "int", v)
	}
	return nil
}

func assignString(sec map[string]any, secName, key string, dst *string) error {
	v, ok := sec[key]
	if !ok {
		return nil
	}
	s, good := v.(string)
	if !good {
		return typeError(secName, key, "string", v)
	}
	*dst = s
	return nil
}

func typeError(secName, key, want string, got any) error {
	return fmt.Errorf("[%s] %s: expected %s, got %T", secName, key, want, got)
}
