// Package lens exposes structure extraction and line reconciliation behind
// one configured facade, shared by the CLI, the scanner and the MCP server.
package lens

import (
	"context"
	"fmt"
	"runtime"

	"github.com/mvp-joe/structlens/internal/config"
	"github.com/mvp-joe/structlens/internal/extractor"
	"github.com/mvp-joe/structlens/internal/grammar"
	"github.com/mvp-joe/structlens/internal/lines"
	"github.com/mvp-joe/structlens/internal/logging"
	"github.com/mvp-joe/structlens/internal/reconcile"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// structureExtractor is satisfied by both *extractor.Extractor and *extractor.Cache.
type structureExtractor interface {
	Extract(source, language string) *extractor.Result
}

// Input is one unit of batch extraction.
type Input struct {
	Source   string
	Language string
	File     string // optional; tags every fact when set
}

// Lens is safe for concurrent use once constructed.
type Lens struct {
	registry   *grammar.Registry
	extractor  structureExtractor
	cache      *extractor.Cache
	reconciler *reconcile.Reconciler
	workers    int
	logger     *zap.Logger
}

// New builds the grammar registry, extractor, optional cache and reconciler
// from cfg. A nil cfg uses config.Default().
func New(cfg *config.Config, logger *zap.Logger) (*Lens, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	logger = logging.OrNop(logger)

	patterns, err := cfg.Patterns()
	if err != nil {
		return nil, fmt.Errorf("failed to compile reconcile patterns: %w", err)
	}

	registry := grammar.NewRegistry(logger, cfg.Extraction.Languages...)
	ex := extractor.New(registry, cfg.ExtractorOptions(), logger)

	l := &Lens{
		registry:   registry,
		extractor:  ex,
		reconciler: reconcile.New(patterns, cfg.Reconcile.Window, logger),
		workers:    cfg.Scan.Workers,
		logger:     logger,
	}
	if l.workers <= 0 {
		l.workers = runtime.GOMAXPROCS(0)
	}

	if cfg.Cache.Enabled {
		cache, err := extractor.NewCache(ex, cfg.Cache.MaxEntries, cfg.Cache.TTL)
		if err != nil {
			return nil, err
		}
		l.cache = cache
		l.extractor = cache
	}

	return l, nil
}

// ExtractStructure parses source as language and returns its functions and
// string assignments. It never fails: unsupported languages and unparsable
// input yield empty fact lists.
func (l *Lens) ExtractStructure(source, language string) *extractor.Result {
	return l.extractor.Extract(source, language)
}

// ReconcileLine refines an approximate issue line. language is only logged;
// matching works on text lines.
func (l *Lens) ReconcileLine(source, category string, line int, language string) int {
	return l.ExplainLine(source, category, line, language).Line
}

// ExplainLine is ReconcileLine with the matching pattern attached.
func (l *Lens) ExplainLine(source, category string, line int, language string) reconcile.Match {
	m := l.reconciler.Explain(lines.Split(source), category, line)
	l.logger.Debug("reconcile_request",
		zap.String("language", language),
		zap.String("category", category),
		zap.Int("reported", line),
		zap.Int("line", m.Line))
	return m
}

// ExtractBatch extracts every input concurrently, bounded by the configured
// worker count. Results keep input order. Only context cancellation fails.
func (l *Lens) ExtractBatch(ctx context.Context, inputs []Input) ([]*extractor.Result, error) {
	results := make([]*extractor.Result, len(inputs))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(l.workers)

	for i, in := range inputs {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			result := l.extractor.Extract(in.Source, in.Language)
			if in.File != "" {
				result = result.WithSourceFile(in.File)
			}
			results[i] = result
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Languages returns the canonical tags of the loaded grammars.
func (l *Lens) Languages() []string {
	return l.registry.Languages()
}

// Canonical resolves a tag or alias to a loaded grammar's canonical tag.
func (l *Lens) Canonical(language string) (string, bool) {
	return l.registry.Canonical(language)
}

// Categories returns the reconcile categories with registered patterns.
func (l *Lens) Categories() []string {
	return l.reconciler.Patterns().Categories()
}

// Workers returns the batch concurrency limit.
func (l *Lens) Workers() int {
	return l.workers
}

// CacheStats reports cache hits and misses; both are zero without a cache.
func (l *Lens) CacheStats() (hits, misses int64) {
	if l.cache == nil {
		return 0, 0
	}
	return l.cache.Hits(), l.cache.Misses()
}

// Close releases the cache, if any.
func (l *Lens) Close() {
	if l.cache != nil {
		l.cache.Close()
	}
}
