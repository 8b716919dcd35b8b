// pkg/core/config.go
package core

import (
	"fmt"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultRegistryURL hosts the system package registry
	DefaultRegistryURL = "https://github.com/arc-language/pydesc"
	// DefaultRegistryBranch is the branch cloned by sync
	DefaultRegistryBranch = "main"
	// DefaultScanWorkers bounds concurrent project reads during a scan
	DefaultScanWorkers = 4
)

// DefaultScanExcludes are directory names never descended into by a scan
var DefaultScanExcludes = []string{".git", ".hg", ".tox", ".venv", "venv", "node_modules", "__pycache__", "build", "dist"}

// Config holds pydesc configuration
type Config struct {
	CachePath      string     `yaml:"cache_path"`
	RegistryURL    string     `yaml:"registry_url"`
	RegistryBranch string     `yaml:"registry_branch"`
	VersionScheme  string     `yaml:"version_scheme"`
	NameTemplate   string     `yaml:"name_template"`
	Backend        string     `yaml:"backend"` // system package manager, detected when empty
	Strict         bool       `yaml:"strict"`
	Debug          bool       `yaml:"debug"`
	Scan           ScanConfig `yaml:"scan"`

	Logger *zerolog.Logger `yaml:"-"`
}

// ScanConfig configures tree scans
type ScanConfig struct {
	Exclude []string `yaml:"exclude"`
	Workers int      `yaml:"workers"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		CachePath:      getDefaultCachePath(),
		RegistryURL:    getEnv("PYDESC_REGISTRY_URL", DefaultRegistryURL),
		RegistryBranch: DefaultRegistryBranch,
		VersionScheme:  "full",
		NameTemplate:   "{{.ArtifactID}}",
		Scan: ScanConfig{
			Exclude: append([]string(nil), DefaultScanExcludes...),
			Workers: DefaultScanWorkers,
		},
	}
}

// LoadConfig loads configuration from file, filling unset fields from the defaults
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = filepath.Join(home, ".config", "pydesc", "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := mergo.Merge(&cfg, DefaultConfig()); err != nil {
		return nil, fmt.Errorf("merging config defaults: %w", err)
	}

	return &cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		path = filepath.Join(home, ".config", "pydesc", "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func getDefaultCachePath() string {
	if path := os.Getenv("PYDESC_CACHE_PATH"); path != "" {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "pydesc")
	}

	return filepath.Join(home, ".cache", "pydesc")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
