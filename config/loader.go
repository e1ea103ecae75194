package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// FileName is looked up in the working directory.
const FileName = "hcbench.yaml"

// Find returns the config file to use, or "" when there is none. An
// explicit path wins; otherwise ./hcbench.yaml, then
// $XDG_CONFIG_HOME/hcbench/config.yaml.
func Find(explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidates := []string{FileName, filepath.Join(xdg.ConfigHome, AppName, "config.yaml")}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load reads the config file chosen by Find and validates it. With no file
// it returns the defaults.
func Load(explicit string) (*Config, string, error) {
	path := Find(explicit)
	cfg := Default()
	if path == "" {
		return cfg, "", nil
	}
	if err := cfg.readFile(path); err != nil {
		return nil, path, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, path, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, path, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", path, ErrConfigNotFound)
		}
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
