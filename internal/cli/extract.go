package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mvp-joe/structlens/internal/detect"
	"github.com/mvp-joe/structlens/internal/lens"
	"github.com/spf13/cobra"
)

var (
	extractLang   string
	extractFormat string
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <file>...",
	Short: "List functions and string assignments in source files",
	Long: `Parse each file and print its functions (with line spans and parameters)
and string-valued assignments, flagging likely secrets.

The language is detected from the file name and content unless --lang is given.
Use "-" to read from stdin (requires --lang).

Examples:
  structlens extract app/db.py
  structlens extract --lang cpp --format yaml src/user.cc
  cat snippet.py | structlens extract --lang python -`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLens()
		if err != nil {
			return err
		}
		defer l.Close()

		detector, err := detect.New(appConfig.Scan.Overrides, logger)
		if err != nil {
			return err
		}

		return runExtract(cmd.Context(), cmd.OutOrStdout(), cmd.InOrStdin(), l, detector, args, extractLang, extractFormat)
	},
}

func init() {
	extractCmd.Flags().StringVarP(&extractLang, "lang", "l", "", "language tag (default: detect)")
	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", formatJSON, "output format: json or yaml")
	rootCmd.AddCommand(extractCmd)
}

// runExtract extracts every file and writes the results. A single file
// prints one result; several print a list in argument order.
func runExtract(ctx context.Context, out io.Writer, stdin io.Reader, l *lens.Lens, detector *detect.Detector, files []string, lang, format string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	inputs := make([]lens.Input, 0, len(files))
	for _, file := range files {
		content, err := readSource(file, stdin)
		if err != nil {
			return err
		}

		language := lang
		if language == "" {
			if file == "-" {
				return fmt.Errorf("--lang is required when reading from stdin")
			}
			language = detector.Detect(file, content)
			if language == "" {
				return fmt.Errorf("could not detect a supported language for %s; use --lang", file)
			}
		}

		inputs = append(inputs, lens.Input{Source: string(content), Language: language, File: file})
	}

	results, err := l.ExtractBatch(ctx, inputs)
	if err != nil {
		return err
	}

	if len(results) == 1 {
		return writeOutput(out, format, results[0])
	}
	return writeOutput(out, format, results)
}

// readSource reads file, or stdin when file is "-".
func readSource(file string, stdin io.Reader) ([]byte, error) {
	if file == "-" {
		content, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return content, nil
	}

	content, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}
	return content, nil
}

