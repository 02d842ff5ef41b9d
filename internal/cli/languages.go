package cli

import (
	"fmt"
	"io"

	"github.com/mvp-joe/structlens/internal/lens"
	"github.com/spf13/cobra"
)

// languagesCmd represents the languages command
var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the languages with a loaded grammar",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLens()
		if err != nil {
			return err
		}
		defer l.Close()
		return listLanguages(cmd.OutOrStdout(), l)
	},
}

// categoriesCmd represents the categories command
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the issue categories reconcile has patterns for",
	Long: `List the issue categories reconcile has patterns for, including those
added under reconcile.categories in the configuration. Other category names
fall back to the first line of the search window.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLens()
		if err != nil {
			return err
		}
		defer l.Close()
		return listCategories(cmd.OutOrStdout(), l)
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
	rootCmd.AddCommand(categoriesCmd)
}

func listLanguages(out io.Writer, l *lens.Lens) error {
	for _, lang := range l.Languages() {
		if _, err := fmt.Fprintln(out, lang); err != nil {
			return err
		}
	}
	return nil
}

func listCategories(out io.Writer, l *lens.Lens) error {
	for _, category := range l.Categories() {
		if _, err := fmt.Fprintln(out, category); err != nil {
			return err
		}
	}
	return nil
}
