package cli

import (
	"fmt"
	"io"

	"github.com/mvp-joe/structlens/internal/lens"
	"github.com/spf13/cobra"
)

var (
	reconcileCategory string
	reconcileLine     int
	reconcileLang     string
	reconcileExplain  bool
	reconcileFormat   string
)

// reconcileCmd represents the reconcile command
var reconcileCmd = &cobra.Command{
	Use:   "reconcile <file>",
	Short: "Map an approximate issue line to the exact source line",
	Long: `Search a few lines around --line for the first line matching the patterns
of --category, and print the corrected line number. The line is printed
unchanged when it is outside the file or nothing nearby matches.

Examples:
  structlens reconcile --category "hardcoded secret" --line 9 src/config.cpp
  structlens reconcile --category sqli --line 12 --explain app/db.py`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLens()
		if err != nil {
			return err
		}
		defer l.Close()

		return runReconcile(cmd.OutOrStdout(), cmd.InOrStdin(), l, args[0], reconcileOptions{
			category: reconcileCategory,
			line:     reconcileLine,
			language: reconcileLang,
			explain:  reconcileExplain,
			format:   reconcileFormat,
		})
	},
}

func init() {
	reconcileCmd.Flags().StringVarP(&reconcileCategory, "category", "c", "", "issue category, e.g. \"sql injection\"")
	reconcileCmd.Flags().IntVarP(&reconcileLine, "line", "n", 0, "approximate 1-based line number")
	reconcileCmd.Flags().StringVarP(&reconcileLang, "lang", "l", "", "language tag (informational)")
	reconcileCmd.Flags().BoolVar(&reconcileExplain, "explain", false, "print the matching pattern and line text")
	reconcileCmd.Flags().StringVarP(&reconcileFormat, "format", "f", formatJSON, "output format for --explain: json or yaml")
	_ = reconcileCmd.MarkFlagRequired("category")
	_ = reconcileCmd.MarkFlagRequired("line")
	rootCmd.AddCommand(reconcileCmd)
}

type reconcileOptions struct {
	category string
	line     int
	language string
	explain  bool
	format   string
}

func runReconcile(out io.Writer, stdin io.Reader, l *lens.Lens, file string, opts reconcileOptions) error {
	content, err := readSource(file, stdin)
	if err != nil {
		return err
	}

	if opts.explain {
		return writeOutput(out, opts.format, l.ExplainLine(string(content), opts.category, opts.line, opts.language))
	}

	_, err = fmt.Fprintln(out, l.ReconcileLine(string(content), opts.category, opts.line, opts.language))
	return err
}
