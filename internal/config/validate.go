package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	"github.com/mvp-joe/structlens/internal/grammar"
	"github.com/mvp-joe/structlens/internal/reconcile"
	"go.uber.org/zap/zapcore"
)

// Depth and window bounds accepted by Validate.
const (
	MinDepth         = 1
	MaxDepth         = 64
	MinPreviewLength = 4
	MaxWindow        = 50
)

var (
	// ErrInvalidDepth indicates a traversal depth outside the accepted range
	ErrInvalidDepth = errors.New("invalid max depth")

	// ErrInvalidNodeBudget indicates a non-positive node-visit budget
	ErrInvalidNodeBudget = errors.New("invalid node budget")

	// ErrInvalidPreviewLength indicates a preview bound too short to hold the ellipsis
	ErrInvalidPreviewLength = errors.New("invalid preview length")

	// ErrUnknownLanguage indicates a language tag with no built-in grammar
	ErrUnknownLanguage = errors.New("unknown language")

	// ErrInvalidWindow indicates a reconciliation window outside the accepted range
	ErrInvalidWindow = errors.New("invalid reconcile window")

	// ErrInvalidCacheSettings indicates invalid cache configuration
	ErrInvalidCacheSettings = errors.New("invalid cache settings")

	// ErrInvalidGlob indicates an include, ignore or override pattern that does not compile
	ErrInvalidGlob = errors.New("invalid glob pattern")

	// ErrInvalidWorkers indicates a negative worker count
	ErrInvalidWorkers = errors.New("invalid worker count")

	// ErrInvalidLogLevel indicates an unrecognized log level
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateExtraction(&cfg.Extraction); err != nil {
		errs = append(errs, err)
	}

	if err := validateReconcile(&cfg.Reconcile); err != nil {
		errs = append(errs, err)
	}

	if err := validateCache(&cfg.Cache); err != nil {
		errs = append(errs, err)
	}

	if err := validateScan(&cfg.Scan); err != nil {
		errs = append(errs, err)
	}

	if err := validateLogging(&cfg.Logging); err != nil {
		errs = append(errs, err)
	}

	return joinErrors(errs)
}

func validateExtraction(cfg *ExtractionConfig) error {
	var errs []error

	if cfg.MaxDepth < MinDepth || cfg.MaxDepth > MaxDepth {
		errs = append(errs, fmt.Errorf("%w: max_depth must be between %d and %d, got %d", ErrInvalidDepth, MinDepth, MaxDepth, cfg.MaxDepth))
	}

	if cfg.MaxNodes < 1 {
		errs = append(errs, fmt.Errorf("%w: max_nodes must be positive, got %d", ErrInvalidNodeBudget, cfg.MaxNodes))
	}

	if cfg.PreviewLength < MinPreviewLength {
		errs = append(errs, fmt.Errorf("%w: preview_length must be at least %d, got %d", ErrInvalidPreviewLength, MinPreviewLength, cfg.PreviewLength))
	}

	// An empty list means every built-in language.
	for _, tag := range cfg.Languages {
		if !grammar.IsKnown(tag) {
			errs = append(errs, fmt.Errorf("%w: languages entry '%s' (known: %s)", ErrUnknownLanguage, tag, strings.Join(grammar.KnownTags(), ", ")))
		}
	}

	return joinErrors(errs)
}

func validateReconcile(cfg *ReconcileConfig) error {
	var errs []error

	if cfg.Window < 0 || cfg.Window > MaxWindow {
		errs = append(errs, fmt.Errorf("%w: window must be between 0 and %d, got %d", ErrInvalidWindow, MaxWindow, cfg.Window))
	}

	if _, err := reconcile.NewPatternSet(cfg.Categories, cfg.Aliases); err != nil {
		errs = append(errs, fmt.Errorf("categories: %w", err))
	}

	return joinErrors(errs)
}

func validateCache(cfg *CacheConfig) error {
	var errs []error

	if cfg.MaxEntries < 0 {
		errs = append(errs, fmt.Errorf("%w: max_entries cannot be negative, got %d", ErrInvalidCacheSettings, cfg.MaxEntries))
	}

	if cfg.Enabled && cfg.MaxEntries == 0 {
		errs = append(errs, fmt.Errorf("%w: max_entries must be positive when the cache is enabled", ErrInvalidCacheSettings))
	}

	if cfg.TTL < 0 {
		errs = append(errs, fmt.Errorf("%w: ttl cannot be negative, got %s", ErrInvalidCacheSettings, cfg.TTL))
	}

	return joinErrors(errs)
}

func validateScan(cfg *ScanConfig) error {
	var errs []error

	for _, pattern := range append(append([]string{}, cfg.Include...), cfg.Ignore...) {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: '%s': %v", ErrInvalidGlob, pattern, err))
		}
	}

	for _, o := range cfg.Overrides {
		if _, err := glob.Compile(o.Pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: override '%s': %v", ErrInvalidGlob, o.Pattern, err))
		}
		if !grammar.IsKnown(o.Language) {
			errs = append(errs, fmt.Errorf("%w: override '%s' names '%s'", ErrUnknownLanguage, o.Pattern, o.Language))
		}
	}

	if cfg.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: workers cannot be negative, got %d", ErrInvalidWorkers, cfg.Workers))
	}

	return joinErrors(errs)
}

func validateLogging(cfg *LoggingConfig) error {
	if _, err := zapcore.ParseLevel(cfg.Level); err != nil {
		return fmt.Errorf("%w: '%s' (valid: debug, info, warn, error)", ErrInvalidLogLevel, cfg.Level)
	}
	return nil
}

// validationErrors keeps every wrapped sentinel reachable by errors.Is.
type validationErrors []error

func (e validationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

func (e validationErrors) Unwrap() []error {
	return e
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return validationErrors(errs)
}
