package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default config file path.
const DefaultConfigPath = "~/.config/histexport/config.yaml"

// Config holds all histexport configuration.
type Config struct {
	Firefox FirefoxConfig `yaml:"firefox"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// FirefoxConfig locates the history database. PlacesPath wins over
// Profile, which is looked up under ProfilesDir.
type FirefoxConfig struct {
	ProfilesDir string `yaml:"profiles_dir"`
	Profile     string `yaml:"profile"`
	PlacesPath  string `yaml:"places_path"`
}

type ExportConfig struct {
	OutputDir  string `yaml:"output_dir"`
	MaxResults int    `yaml:"max_results"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.Export.MaxResults < 1 {
		cfg.Export.MaxResults = DefaultConfig().Export.MaxResults
	}

	return cfg, nil
}

// LoadOrDefault loads the config at path, or returns the defaults when no
// file exists there. An empty path means DefaultConfigPath. Nothing is
// written to disk.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}
	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}

	return Load(path)
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}
