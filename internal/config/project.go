package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig is the optional atlas.yaml that tunes the diagnostic
// renderer and the error cap, discovered by walking up from the entry
// file's directory.
type ProjectConfig struct {
	// MaxErrors overrides diagnostics.MaxErrors when positive.
	MaxErrors int `yaml:"max_errors,omitempty"`

	// Color selects the renderer's color mode: "auto" (default), "always",
	// or "never".
	Color string `yaml:"color,omitempty"`

	// Format selects the renderer: "human" (default) or "json".
	Format string `yaml:"format,omitempty"`
}

// DefaultProjectConfig is returned by LoadProjectConfig when no atlas.yaml
// is found, so callers never need a nil check.
func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{MaxErrors: 25, Color: "auto", Format: "human"}
}

const projectConfigFileName = "atlas.yaml"

// LoadProjectConfig searches dir and its ancestors for atlas.yaml, parses
// the first one found, and fills any field left zero from
// DefaultProjectConfig. It returns the default config, not an error, when
// no atlas.yaml exists anywhere above dir — the config file is optional.
func LoadProjectConfig(dir string) (*ProjectConfig, error) {
	path, err := findUpward(dir, projectConfigFileName)
	if err != nil {
		return nil, err
	}
	cfg := DefaultProjectConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.MaxErrors <= 0 {
		cfg.MaxErrors = 25
	}
	if cfg.Color == "" {
		cfg.Color = "auto"
	}
	if cfg.Format == "" {
		cfg.Format = "human"
	}
	return cfg, nil
}

// findUpward looks for name in dir, then each ancestor directory in turn,
// stopping at the filesystem root. It returns "" with a nil error if name
// is never found.
func findUpward(dir, name string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
