package cli

import (
	"context"
	"io"

	"github.com/mvp-joe/structlens/internal/config"
	"github.com/mvp-joe/structlens/internal/lens"
	"github.com/mvp-joe/structlens/internal/logging"
	"github.com/mvp-joe/structlens/internal/scan"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	scanFormat        string
	scanQuiet         bool
	scanIncludeVendor bool
	scanSecretsOnly   bool
	scanMaxFileSize   int64
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Extract structure from every supported file in a directory",
	Long: `Walk a directory (default: current), select files with scan.include and
scan.ignore from the configuration, detect each file's language and extract
its functions and string assignments in parallel.

Progress is written to stderr; the report goes to stdout.

Examples:
  structlens scan
  structlens scan --secrets-only --format yaml ./services`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		l, err := newLens()
		if err != nil {
			return err
		}
		defer l.Close()

		progress := NewCLIProgressReporter(cmd.ErrOrStderr(), scanQuiet)
		return runScan(cmd.Context(), cmd.OutOrStdout(), l, appConfig.Scan, logger, root, scanOptions{
			format:        scanFormat,
			includeVendor: scanIncludeVendor,
			secretsOnly:   scanSecretsOnly,
			maxFileSize:   scanMaxFileSize,
			progress:      progress,
		})
	},
}

func init() {
	scanCmd.Flags().StringVarP(&scanFormat, "format", "f", formatJSON, "output format: json or yaml")
	scanCmd.Flags().BoolVarP(&scanQuiet, "quiet", "q", false, "suppress progress output")
	scanCmd.Flags().BoolVar(&scanIncludeVendor, "include-vendor", false, "scan vendored dependency files")
	scanCmd.Flags().BoolVar(&scanSecretsOnly, "secrets-only", false, "report only files with potential secrets")
	scanCmd.Flags().Int64Var(&scanMaxFileSize, "max-file-size", scan.DefaultMaxFileSize, "skip files larger than this many bytes")
	rootCmd.AddCommand(scanCmd)
}

type scanOptions struct {
	format        string
	includeVendor bool
	secretsOnly   bool
	maxFileSize   int64
	progress      scan.ProgressReporter
}

func runScan(ctx context.Context, out io.Writer, l *lens.Lens, cfg config.ScanConfig, logger *zap.Logger, root string, opts scanOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	scanner, err := scan.New(l, cfg, logger,
		scan.WithProgress(opts.progress),
		scan.WithVendored(opts.includeVendor),
		scan.WithMaxFileSize(opts.maxFileSize),
	)
	if err != nil {
		return err
	}

	report, err := scanner.Scan(ctx, root)
	if err != nil {
		return err
	}

	hits, misses := l.CacheStats()
	logging.OrNop(logger).Debug("extraction_cache", zap.Int64("hits", hits), zap.Int64("misses", misses))

	if opts.secretsOnly {
		report.Files = filterSecrets(report.Files)
	}
	return writeOutput(out, opts.format, report)
}

// filterSecrets keeps files with at least one potential secret.
func filterSecrets(files []scan.FileResult) []scan.FileResult {
	out := []scan.FileResult{}
	for _, fr := range files {
		if fr.Result != nil && len(fr.Result.PotentialSecrets()) > 0 {
			out = append(out, fr)
		}
	}
	return out
}
