package config

import (
	"time"

	"github.com/mvp-joe/structlens/internal/extractor"
	"github.com/mvp-joe/structlens/internal/grammar"
	"github.com/mvp-joe/structlens/internal/reconcile"
)

// Config represents the complete structlens configuration.
// It can be loaded from .structlens/config.yml with environment variable overrides.
type Config struct {
	Extraction ExtractionConfig `yaml:"extraction" mapstructure:"extraction"`
	Reconcile  ReconcileConfig  `yaml:"reconcile" mapstructure:"reconcile"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Scan       ScanConfig       `yaml:"scan" mapstructure:"scan"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
}

// ExtractionConfig bounds tree traversal and selects the grammars to load.
type ExtractionConfig struct {
	MaxDepth      int      `yaml:"max_depth" mapstructure:"max_depth"`           // deepest node level visited
	MaxNodes      int      `yaml:"max_nodes" mapstructure:"max_nodes"`           // node-visit budget per extraction
	PreviewLength int      `yaml:"preview_length" mapstructure:"preview_length"` // runes kept in value previews
	Languages     []string `yaml:"languages" mapstructure:"languages"`           // enabled registry tags
}

// ReconcileConfig configures line reconciliation.
type ReconcileConfig struct {
	Window     int                 `yaml:"window" mapstructure:"window"`         // lines scanned each side of the reported line
	Categories map[string][]string `yaml:"categories" mapstructure:"categories"` // extra patterns per category
	Aliases    map[string]string   `yaml:"aliases" mapstructure:"aliases"`       // reported name -> category
}

// CacheConfig configures the extraction result cache.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled" mapstructure:"enabled"`
	MaxEntries int           `yaml:"max_entries" mapstructure:"max_entries"`
	TTL        time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ScanConfig defines which files a directory scan visits.
type ScanConfig struct {
	Include   []string           `yaml:"include" mapstructure:"include"`     // glob patterns for source files
	Ignore    []string           `yaml:"ignore" mapstructure:"ignore"`       // glob patterns to skip
	Workers   int                `yaml:"workers" mapstructure:"workers"`     // 0 means GOMAXPROCS
	Overrides []LanguageOverride `yaml:"overrides" mapstructure:"overrides"` // forced languages, first match wins
}

// LanguageOverride forces a language for paths matching Pattern.
// Overrides are a list rather than a map because viper splits map keys on dots.
type LanguageOverride struct {
	Pattern  string `yaml:"pattern" mapstructure:"pattern"`
	Language string `yaml:"language" mapstructure:"language"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level" mapstructure:"level"` // debug, info, warn, error
	Development bool   `yaml:"development" mapstructure:"development"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			MaxDepth:      extractor.DefaultMaxDepth,
			MaxNodes:      extractor.DefaultMaxNodes,
			PreviewLength: extractor.DefaultPreviewLength,
			Languages:     grammar.KnownTags(),
		},
		Reconcile: ReconcileConfig{
			Window:     reconcile.DefaultWindow,
			Categories: map[string][]string{},
			Aliases:    map[string]string{},
		},
		Cache: CacheConfig{
			Enabled:    true,
			MaxEntries: 1024,
			TTL:        10 * time.Minute,
		},
		Scan: ScanConfig{
			Include: []string{
				"**/*.py",
				"**/*.c",
				"**/*.h",
				"**/*.cpp",
				"**/*.cc",
				"**/*.cxx",
				"**/*.hpp",
				"**/*.java",
				"**/*.rs",
				"**/*.ts",
				"**/*.tsx",
				"**/*.js",
				"**/*.jsx",
				"**/*.rb",
				"**/*.php",
			},
			Ignore: []string{
				"node_modules/**",
				"vendor/**",
				".git/**",
				"dist/**",
				"build/**",
				"target/**",
				"__pycache__/**",
				"*.min.js",
			},
			Workers:   0,
			Overrides: []LanguageOverride{},
		},
		Logging: LoggingConfig{
			Level:       "info",
			Development: false,
		},
	}
}

// ExtractorOptions converts the extraction section into extractor options.
func (c *Config) ExtractorOptions() extractor.Options {
	return extractor.Options{
		MaxDepth:      c.Extraction.MaxDepth,
		MaxNodes:      c.Extraction.MaxNodes,
		PreviewLength: c.Extraction.PreviewLength,
	}
}

// Patterns compiles the reconcile section into a pattern set.
func (c *Config) Patterns() (*reconcile.PatternSet, error) {
	return reconcile.NewPatternSet(c.Reconcile.Categories, c.Reconcile.Aliases)
}
