// Package scan extracts structure from every supported source file under a
// directory.
package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mvp-joe/structlens/internal/config"
	"github.com/mvp-joe/structlens/internal/detect"
	"github.com/mvp-joe/structlens/internal/extractor"
	"github.com/mvp-joe/structlens/internal/lens"
	"github.com/mvp-joe/structlens/internal/logging"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxFileSize bounds the files a scan reads.
const DefaultMaxFileSize = 1 << 20

// Skip reasons reported in FileResult.Skipped.
const (
	SkipUnsupported = "unsupported"
	SkipTooLarge    = "too_large"
	SkipVendored    = "vendored"
)

// FileResult is the outcome for one discovered file.
type FileResult struct {
	Path     string            `json:"path" yaml:"path"`
	Language string            `json:"language,omitempty" yaml:"language,omitempty"`
	Result   *extractor.Result `json:"result,omitempty" yaml:"result,omitempty"`
	Skipped  string            `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Stats summarizes a scan.
type Stats struct {
	Files             int           `json:"files" yaml:"files"`
	Extracted         int           `json:"extracted" yaml:"extracted"`
	Skipped           int           `json:"skipped" yaml:"skipped"`
	Truncated         int           `json:"truncated" yaml:"truncated"`
	Functions         int           `json:"functions" yaml:"functions"`
	PotentialSecrets  int           `json:"potential_secrets" yaml:"potential_secrets"`
	StringAssignments int           `json:"string_assignments" yaml:"string_assignments"`
	Duration          time.Duration `json:"duration" yaml:"duration"`
}

// Report is the result of Scan. Files are sorted by path.
type Report struct {
	Root  string       `json:"root" yaml:"root"`
	Files []FileResult `json:"files" yaml:"files"`
	Stats Stats        `json:"stats" yaml:"stats"`
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithProgress reports progress to p.
func WithProgress(p ProgressReporter) Option {
	return func(s *Scanner) {
		if p != nil {
			s.progress = p
		}
	}
}

// WithVendored includes files that look like vendored dependencies.
func WithVendored(include bool) Option {
	return func(s *Scanner) {
		s.includeVendored = include
	}
}

// WithMaxFileSize skips files larger than n bytes.
func WithMaxFileSize(n int64) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.maxFileSize = n
		}
	}
}

// Scanner walks directories and extracts each supported file.
type Scanner struct {
	lens            *lens.Lens
	detector        *detect.Detector
	include         []string
	ignore          []string
	progress        ProgressReporter
	includeVendored bool
	maxFileSize     int64
	logger          *zap.Logger

	mu sync.Mutex // serializes progress callbacks
}

// New creates a Scanner using l for extraction and cfg for file selection.
func New(l *lens.Lens, cfg config.ScanConfig, logger *zap.Logger, opts ...Option) (*Scanner, error) {
	logger = logging.OrNop(logger)

	detector, err := detect.New(cfg.Overrides, logger)
	if err != nil {
		return nil, err
	}

	s := &Scanner{
		lens:        l,
		detector:    detector,
		include:     cfg.Include,
		ignore:      cfg.Ignore,
		progress:    &NoOpProgressReporter{},
		maxFileSize: DefaultMaxFileSize,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Scan discovers files under root and extracts them in parallel, bounded by
// the lens worker count. Unreadable files fail the scan; unsupported ones are
// reported as skipped.
func (s *Scanner) Scan(ctx context.Context, root string) (*Report, error) {
	start := time.Now()

	discovery, err := NewFileDiscovery(root, s.include, s.ignore)
	if err != nil {
		return nil, fmt.Errorf("failed to compile scan patterns: %w", err)
	}

	s.progress.OnDiscoveryStart()
	files, err := discovery.DiscoverFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}
	s.progress.OnDiscoveryComplete(len(files))

	s.progress.OnFileProcessingStart(len(files))
	results := make([]FileResult, len(files))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.lens.Workers())

	for i, rel := range files {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			fr, err := s.scanFile(root, rel)
			if err != nil {
				return err
			}
			results[i] = fr

			s.mu.Lock()
			s.progress.OnFileProcessed(rel)
			s.mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Root: root, Files: results}
	report.Stats = summarize(results)
	report.Stats.Duration = time.Since(start)

	s.logger.Info("scan_complete",
		zap.String("root", root),
		zap.Int("files", report.Stats.Files),
		zap.Int("extracted", report.Stats.Extracted),
		zap.Int("potential_secrets", report.Stats.PotentialSecrets),
		zap.Duration("duration", report.Stats.Duration))

	s.progress.OnComplete(&report.Stats)
	return report, nil
}

func (s *Scanner) scanFile(root, rel string) (FileResult, error) {
	fr := FileResult{Path: rel}

	if !s.includeVendored && detect.IsVendor(rel) {
		fr.Skipped = SkipVendored
		return fr, nil
	}

	path := filepath.Join(root, filepath.FromSlash(rel))
	info, err := os.Stat(path)
	if err != nil {
		return fr, fmt.Errorf("failed to stat %s: %w", rel, err)
	}
	if info.Size() > s.maxFileSize {
		fr.Skipped = SkipTooLarge
		return fr, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fr, fmt.Errorf("failed to read %s: %w", rel, err)
	}

	language := s.detector.Detect(rel, content)
	if language == "" {
		fr.Skipped = SkipUnsupported
		return fr, nil
	}
	if _, ok := s.lens.Canonical(language); !ok {
		fr.Language = language
		fr.Skipped = SkipUnsupported
		return fr, nil
	}

	fr.Language = language
	fr.Result = s.lens.ExtractStructure(string(content), language).WithSourceFile(rel)
	return fr, nil
}

func summarize(results []FileResult) Stats {
	stats := Stats{Files: len(results)}
	for _, fr := range results {
		if fr.Result == nil {
			stats.Skipped++
			continue
		}
		stats.Extracted++
		if fr.Result.Truncated {
			stats.Truncated++
		}
		st := fr.Result.Stats()
		stats.Functions += st.Functions + st.Methods
		stats.PotentialSecrets += st.PotentialSecrets
		stats.StringAssignments += st.StringAssignments
	}
	return stats
}
