package cli

import (
	"fmt"
	"os"

	"github.com/mvp-joe/structlens/internal/config"
	"github.com/mvp-joe/structlens/internal/lens"
	"github.com/mvp-joe/structlens/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile string
	verbose bool

	// Populated by PersistentPreRunE for every command.
	appConfig *config.Config
	logger    = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "structlens",
	Short: "Structural facts and line reconciliation for code review",
	Long: `structlens parses source files with tree-sitter and reports the facts a
code-review pipeline needs as context: function definitions with line spans,
and string assignments flagged when they look like secrets.

It also maps approximate issue lines reported by a reviewer back to the exact
source line with a bounded, category-aware search.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		appConfig = cfg

		l, err := logging.New(logging.Options{
			Level:       cfg.Logging.Level,
			Development: cfg.Logging.Development,
			Verbose:     verbose,
		})
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.structlens/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig reads --config when set, else the working directory's project config.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.NewFileLoader(cfgFile).Load()
	}
	return config.LoadConfig()
}

// newLens builds a Lens from the loaded configuration.
func newLens() (*lens.Lens, error) {
	cfg := appConfig
	if cfg == nil {
		cfg = config.Default()
	}
	return lens.New(cfg, logger)
}
