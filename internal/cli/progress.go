package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/mvp-joe/structlens/internal/scan"
	"github.com/schollz/progressbar/v3"
)

// CLIProgressReporter reports scan progress with a progress bar on w.
type CLIProgressReporter struct {
	quiet   bool
	w       io.Writer
	fileBar *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a new CLI progress reporter.
func NewCLIProgressReporter(w io.Writer, quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		quiet: quiet,
		w:     w,
	}
}

func (c *CLIProgressReporter) OnDiscoveryStart() {
	if c.quiet {
		return
	}
	fmt.Fprintln(c.w, "Discovering files...")
}

func (c *CLIProgressReporter) OnDiscoveryComplete(files int) {
	if c.quiet {
		return
	}
	fmt.Fprintf(c.w, "Scanning %s files\n", formatNumber(files))
}

func (c *CLIProgressReporter) OnFileProcessingStart(totalFiles int) {
	if c.quiet || totalFiles == 0 {
		return
	}

	c.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetWriter(c.w),
		progressbar.OptionSetDescription("Extracting"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.w)
		}),
	)
}

func (c *CLIProgressReporter) OnFileProcessed(path string) {
	if c.quiet || c.fileBar == nil {
		return
	}
	_ = c.fileBar.Add(1)
}

func (c *CLIProgressReporter) OnComplete(stats *scan.Stats) {
	if c.quiet {
		return
	}
	if c.fileBar != nil {
		_ = c.fileBar.Finish()
		c.fileBar = nil
	}

	fmt.Fprintf(c.w, "✓ Scan complete: %s of %s files extracted in %.1fs\n",
		formatNumber(stats.Extracted), formatNumber(stats.Files), stats.Duration.Seconds())
	fmt.Fprintf(c.w, "  Functions:          %s\n", formatNumber(stats.Functions))
	fmt.Fprintf(c.w, "  Potential secrets:  %s\n", formatNumber(stats.PotentialSecrets))
	fmt.Fprintf(c.w, "  String assignments: %s\n", formatNumber(stats.StringAssignments))
	if stats.Truncated > 0 {
		fmt.Fprintf(c.w, "  Truncated:          %s\n", formatNumber(stats.Truncated))
	}
}
