package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mvp-joe/structlens/internal/extractor"
	"github.com/mvp-joe/structlens/internal/grammar"
	"github.com/mvp-joe/structlens/internal/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Config System:
// - Default() returns valid configuration with all expected defaults
// - LoadConfig() uses defaults when no config file exists
// - LoadConfig() loads from .structlens/config.yml when present
// - LoadConfig() loads from .structlens/config.yaml when present
// - LoadConfig() merges config file with defaults
// - Environment variables override config file values
// - Environment variables override defaults when no config file exists
// - NewFileLoader() reads an explicit file and fails when it is missing
// - LoadConfig() returns error for malformed YAML
// - LoadConfig() returns error for invalid configuration values
// - Validate() rejects out-of-range depth, budget, preview and window
// - Validate() rejects unknown languages, bad globs, bad patterns and bad log levels
// - Validate() returns multiple errors for multiple invalid fields, each reachable by errors.Is
// - ExtractorOptions() and Patterns() carry the loaded values

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	configDir := filepath.Join(dir, DirName)
	require.NoError(t, os.MkdirAll(configDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, name), []byte(content), 0644))
}

func TestDefault_ReturnsValidConfiguration(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, 10, cfg.Extraction.MaxDepth)
	assert.Equal(t, 200000, cfg.Extraction.MaxNodes)
	assert.Equal(t, 50, cfg.Extraction.PreviewLength)
	assert.Equal(t, grammar.KnownTags(), cfg.Extraction.Languages)

	assert.Equal(t, 5, cfg.Reconcile.Window)
	assert.Empty(t, cfg.Reconcile.Categories)
	assert.Empty(t, cfg.Reconcile.Aliases)

	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 1024, cfg.Cache.MaxEntries)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)

	assert.NotEmpty(t, cfg.Scan.Include)
	assert.NotEmpty(t, cfg.Scan.Ignore)
	assert.Zero(t, cfg.Scan.Workers)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	assert.NoError(t, Validate(cfg))
}

func TestLoadConfig_UsesDefaultsWhenNoConfigFile(t *testing.T) {
	t.Parallel()

	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	expected := Default()
	assert.Equal(t, expected.Extraction, cfg.Extraction)
	assert.Equal(t, expected.Cache, cfg.Cache)
	assert.Equal(t, expected.Reconcile.Window, cfg.Reconcile.Window)
	assert.Equal(t, expected.Scan.Include, cfg.Scan.Include)
}

func TestLoadConfig_LoadsFromConfigYml(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
extraction:
  max_depth: 20
  max_nodes: 5000
  preview_length: 80
  languages: [python, cpp]

reconcile:
  window: 3
  categories:
    race condition:
      - 'threading\.Thread'
  aliases:
    toctou: race condition

cache:
  enabled: false
  max_entries: 16
  ttl: 30s

scan:
  include:
    - "**/*.py"
  ignore:
    - "venv/**"
  workers: 4
  overrides:
    - pattern: "**/*.inc"
      language: php

logging:
  level: debug
  development: true
`)

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 20, cfg.Extraction.MaxDepth)
	assert.Equal(t, 5000, cfg.Extraction.MaxNodes)
	assert.Equal(t, 80, cfg.Extraction.PreviewLength)
	assert.Equal(t, []string{"python", "cpp"}, cfg.Extraction.Languages)

	assert.Equal(t, 3, cfg.Reconcile.Window)
	assert.Equal(t, []string{`threading\.Thread`}, cfg.Reconcile.Categories["race condition"])
	assert.Equal(t, "race condition", cfg.Reconcile.Aliases["toctou"])

	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 16, cfg.Cache.MaxEntries)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)

	assert.Equal(t, []string{"**/*.py"}, cfg.Scan.Include)
	assert.Equal(t, []string{"venv/**"}, cfg.Scan.Ignore)
	assert.Equal(t, 4, cfg.Scan.Workers)
	assert.Equal(t, []LanguageOverride{{Pattern: "**/*.inc", Language: "php"}}, cfg.Scan.Overrides)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
}

func TestLoadConfig_LoadsFromConfigYaml(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yaml", `
reconcile:
  window: 8
`)

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Reconcile.Window)
}

func TestLoadConfig_MergesConfigWithDefaults(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
extraction:
  max_depth: 12
`)

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Extraction.MaxDepth)

	// Everything else comes from defaults
	assert.Equal(t, extractor.DefaultMaxNodes, cfg.Extraction.MaxNodes)
	assert.Equal(t, extractor.DefaultPreviewLength, cfg.Extraction.PreviewLength)
	assert.Equal(t, reconcile.DefaultWindow, cfg.Reconcile.Window)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfig_EnvironmentVariablesOverrideConfigFile(t *testing.T) {
	// Note: Cannot use t.Parallel() with t.Setenv()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
extraction:
  max_depth: 12
  preview_length: 30
reconcile:
  window: 2
`)

	t.Setenv("STRUCTLENS_EXTRACTION_MAX_DEPTH", "30")
	t.Setenv("STRUCTLENS_RECONCILE_WINDOW", "7")

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)

	// Environment variables should win
	assert.Equal(t, 30, cfg.Extraction.MaxDepth)
	assert.Equal(t, 7, cfg.Reconcile.Window)

	// Not overridden, should come from config file
	assert.Equal(t, 30, cfg.Extraction.PreviewLength)
}

func TestLoadConfig_EnvironmentVariablesOverrideDefaults(t *testing.T) {
	// Note: Cannot use t.Parallel() with t.Setenv()

	t.Setenv("STRUCTLENS_CACHE_ENABLED", "false")
	t.Setenv("STRUCTLENS_CACHE_TTL", "1m")
	t.Setenv("STRUCTLENS_LOGGING_LEVEL", "warn")
	t.Setenv("STRUCTLENS_SCAN_WORKERS", "2")

	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)

	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 2, cfg.Scan.Workers)

	// Non-overridden values should be defaults
	assert.Equal(t, 1024, cfg.Cache.MaxEntries)
	assert.Equal(t, extractor.DefaultMaxDepth, cfg.Extraction.MaxDepth)
}

func TestNewFileLoader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reconcile:\n  window: 1\n"), 0644))

	cfg, err := NewFileLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Reconcile.Window)

	_, err = NewFileLoader(filepath.Join(t.TempDir(), "missing.yaml")).Load()
	assert.Error(t, err)
}

func TestLoadConfig_ReturnsErrorForMalformedYaml(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
extraction:
  max_depth: "unclosed quote
  max_nodes: not-a-number
`)

	cfg, err := NewLoader(tempDir).Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadConfig_ReturnsErrorForInvalidValues(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
extraction:
  max_depth: 0
  languages: [cobol]
`)

	cfg, err := NewLoader(tempDir).Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "invalid")
	assert.ErrorIs(t, err, ErrInvalidDepth)
	assert.ErrorIs(t, err, ErrUnknownLanguage)
}

func TestValidate_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero depth", func(c *Config) { c.Extraction.MaxDepth = 0 }, ErrInvalidDepth},
		{"depth too large", func(c *Config) { c.Extraction.MaxDepth = 65 }, ErrInvalidDepth},
		{"zero node budget", func(c *Config) { c.Extraction.MaxNodes = 0 }, ErrInvalidNodeBudget},
		{"short preview", func(c *Config) { c.Extraction.PreviewLength = 3 }, ErrInvalidPreviewLength},
		{"unknown language", func(c *Config) { c.Extraction.Languages = []string{"python", "fortran"} }, ErrUnknownLanguage},
		{"negative window", func(c *Config) { c.Reconcile.Window = -1 }, ErrInvalidWindow},
		{"window too large", func(c *Config) { c.Reconcile.Window = 51 }, ErrInvalidWindow},
		{"bad pattern", func(c *Config) { c.Reconcile.Categories = map[string][]string{"x": {"("}} }, reconcile.ErrInvalidPattern},
		{"negative cache size", func(c *Config) { c.Cache.MaxEntries = -1 }, ErrInvalidCacheSettings},
		{"enabled empty cache", func(c *Config) { c.Cache.MaxEntries = 0 }, ErrInvalidCacheSettings},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -time.Second }, ErrInvalidCacheSettings},
		{"bad include glob", func(c *Config) { c.Scan.Include = []string{"[a-"} }, ErrInvalidGlob},
		{"bad ignore glob", func(c *Config) { c.Scan.Ignore = []string{"src/["} }, ErrInvalidGlob},
		{"bad override glob", func(c *Config) {
			c.Scan.Overrides = []LanguageOverride{{Pattern: "[", Language: "php"}}
		}, ErrInvalidGlob},
		{"override unknown language", func(c *Config) {
			c.Scan.Overrides = []LanguageOverride{{Pattern: "*.inc", Language: "perl"}}
		}, ErrUnknownLanguage},
		{"negative workers", func(c *Config) { c.Scan.Workers = -2 }, ErrInvalidWorkers},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, ErrInvalidLogLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidate_AcceptsBoundaries(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Extraction.MaxDepth = 64
	cfg.Extraction.PreviewLength = 4
	cfg.Extraction.Languages = []string{"PY", "c++"}
	cfg.Reconcile.Window = 0
	cfg.Cache.Enabled = false
	cfg.Cache.MaxEntries = 0
	cfg.Scan.Overrides = []LanguageOverride{{Pattern: "**/*.inc", Language: "php"}}
	cfg.Logging.Level = ""

	assert.NoError(t, Validate(cfg))
}

func TestValidate_ReturnsMultipleErrorsForMultipleInvalidFields(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Extraction.MaxDepth = -1
	cfg.Extraction.MaxNodes = 0
	cfg.Reconcile.Window = 100
	cfg.Scan.Workers = -1

	err := Validate(cfg)
	require.Error(t, err)

	errMsg := err.Error()
	assert.Contains(t, errMsg, "validation failed")
	assert.Contains(t, errMsg, "max_depth")
	assert.Contains(t, errMsg, "max_nodes")
	assert.Contains(t, errMsg, "window")
	assert.Contains(t, errMsg, "workers")

	assert.ErrorIs(t, err, ErrInvalidDepth)
	assert.ErrorIs(t, err, ErrInvalidNodeBudget)
	assert.ErrorIs(t, err, ErrInvalidWindow)
	assert.ErrorIs(t, err, ErrInvalidWorkers)
}

func TestConfig_Conversions(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Extraction.MaxDepth = 7
	cfg.Reconcile.Categories = map[string][]string{"race condition": {`threading\.`}}

	opts := cfg.ExtractorOptions()
	assert.Equal(t, 7, opts.MaxDepth)
	assert.Equal(t, extractor.DefaultMaxNodes, opts.MaxNodes)

	patterns, err := cfg.Patterns()
	require.NoError(t, err)
	assert.Contains(t, patterns.Categories(), "race condition")
}
