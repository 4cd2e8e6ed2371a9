package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"startpage/internal/models"
	"startpage/internal/prefs"
)

// YAMLConfig represents the structure of the config.yaml file.
// Lists that are awkward to express as env vars live here.
type YAMLConfig struct {
	Shortcuts []models.ShortcutEntry `yaml:"shortcuts,omitempty"` // built-in set, replaces the compiled-in defaults
	Engines   []prefs.Engine         `yaml:"engines,omitempty"`   // selectable default search engines
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	return LoadYAMLFile(getEnv("CONFIG_FILE", "config.yaml"))
}

// LoadYAMLFile loads and checks the YAML configuration at path.
func LoadYAMLFile(path string) (*YAMLConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	seen := make(map[string]bool, len(cfg.Shortcuts))
	for _, e := range cfg.Shortcuts {
		if e.Key == "" {
			return nil, fmt.Errorf("%s: shortcut without key", path)
		}
		if seen[e.Key] {
			return nil, fmt.Errorf("%s: duplicate shortcut %q", path, e.Key)
		}
		seen[e.Key] = true
	}
	for _, e := range cfg.Engines {
		if e.Name == "" || e.Template == "" {
			return nil, fmt.Errorf("%s: engine needs a name and a template", path)
		}
	}

	return &cfg, nil
}

// DefaultShortcuts returns the configured built-in shortcuts, or fallback
// when none are configured.
func (c *YAMLConfig) DefaultShortcuts(fallback []models.ShortcutEntry) []models.ShortcutEntry {
	if c == nil || len(c.Shortcuts) == 0 {
		return fallback
	}
	return c.Shortcuts
}

// SearchEngines returns the configured engines, or fallback when none are
// configured.
func (c *YAMLConfig) SearchEngines(fallback []prefs.Engine) []prefs.Engine {
	if c == nil || len(c.Engines) == 0 {
		return fallback
	}
	return c.Engines
}
