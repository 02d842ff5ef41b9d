package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DirName is the per-project configuration directory.
const DirName = ".structlens"

// EnvPrefix prefixes every environment override (e.g. STRUCTLENS_EXTRACTION_MAX_DEPTH).
const EnvPrefix = "STRUCTLENS"

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// NewFileLoader creates a loader that reads an explicit config file instead
// of searching the project directory.
func NewFileLoader(path string) Loader {
	return &loader{
		configFile: path,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (STRUCTLENS_*)
// 2. Config file (.structlens/config.yml or .structlens/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(l.rootDir, DirName))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// STRUCTLENS_EXTRACTION_MAX_DEPTH -> extraction.max_depth
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Extraction
	v.BindEnv("extraction.max_depth")
	v.BindEnv("extraction.max_nodes")
	v.BindEnv("extraction.preview_length")
	v.BindEnv("extraction.languages")

	// Reconcile
	v.BindEnv("reconcile.window")

	// Cache
	v.BindEnv("cache.enabled")
	v.BindEnv("cache.max_entries")
	v.BindEnv("cache.ttl")

	// Scan
	v.BindEnv("scan.include")
	v.BindEnv("scan.ignore")
	v.BindEnv("scan.workers")

	// Logging
	v.BindEnv("logging.level")
	v.BindEnv("logging.development")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing project config is fine; an explicit file must exist.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || l.configFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("extraction.max_depth", defaults.Extraction.MaxDepth)
	v.SetDefault("extraction.max_nodes", defaults.Extraction.MaxNodes)
	v.SetDefault("extraction.preview_length", defaults.Extraction.PreviewLength)
	v.SetDefault("extraction.languages", defaults.Extraction.Languages)

	v.SetDefault("reconcile.window", defaults.Reconcile.Window)
	v.SetDefault("reconcile.categories", defaults.Reconcile.Categories)
	v.SetDefault("reconcile.aliases", defaults.Reconcile.Aliases)

	v.SetDefault("cache.enabled", defaults.Cache.Enabled)
	v.SetDefault("cache.max_entries", defaults.Cache.MaxEntries)
	v.SetDefault("cache.ttl", defaults.Cache.TTL)

	v.SetDefault("scan.include", defaults.Scan.Include)
	v.SetDefault("scan.ignore", defaults.Scan.Ignore)
	v.SetDefault("scan.workers", defaults.Scan.Workers)
	v.SetDefault("scan.overrides", defaults.Scan.Overrides)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.development", defaults.Logging.Development)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
