package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blackwell-systems/apriori/internal/config"
	"github.com/blackwell-systems/apriori/internal/logging"
)

var (
	cfgFile   string
	dbPath    string
	logLevel  string
	logFormat string

	// appConfig is resolved before every command runs.
	appConfig *config.Config

	// RootCmd is the root command for apriori
	RootCmd = &cobra.Command{
		Use:   "apriori",
		Short: "Frequent itemset and association rule mining",
		Long: `apriori finds the itemsets that occur together often in a transaction
file and derives association rules ("customers who buy X also buy Y") from them.

Each line of the input file is one transaction and each comma-separated field
one item. An itemset is frequent when the fraction of transactions containing
it reaches the minimum support; a rule X -> Y is kept when
support(X and Y) / support(X) reaches the minimum confidence.

Configuration is read from $XDG_CONFIG_HOME/apriori/config.yaml (or --config),
APRIORI_* environment variables and command line flags, in increasing order
of precedence.`,
		Example: `  # Mine a file with the default thresholds
  apriori mine baskets.csv

  # Stricter thresholds, keep the run for later
  apriori mine baskets.csv --min-support 0.3 --min-confidence 0.8 --save

  # Only rules with a positive correlation
  apriori mine baskets.csv --filter 'lift > 1.0'

  # Inspect a dataset before mining it
  apriori stats baskets.csv

  # Review saved runs
  apriori history
  apriori show 3f2a

  # Suggest items for a basket from a saved run
  apriori recommend 3f2a bread butter`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "apriori: frequent itemset and association rule mining")
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Run 'apriori mine <file>' to mine a transaction file.")
			fmt.Fprintln(out, "Run 'apriori --help' for the full reference.")
			return nil
		},
	}
)

// flagKeys maps command line flags to configuration keys. Flags are bound for
// whichever command is executing, so commands sharing a flag share its key.
var flagKeys = map[string]string{
	"db":             "database.path",
	"log-level":      "log.level",
	"log-format":     "log.format",
	"min-support":    "mining.min_support",
	"min-confidence": "mining.min_confidence",
	"prune":          "mining.prune_candidates",
	"max-rows":       "dataset.max_rows",
	"delimiter":      "dataset.delimiter",
	"aliases":        "dataset.aliases_file",
	"format":         "output.format",
	"export-dir":     "output.export_dir",
}

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/apriori/config.yaml)")
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "run history database path (default: ~/.apriori/apriori.db)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	RootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2
}

// ExecuteContext runs the root command with ctx, which commands use for
// cancellation.
func ExecuteContext(ctx context.Context) error {
	return RootCmd.ExecuteContext(ctx)
}

// initConfig resolves configuration for cmd and sets up logging.
func initConfig(cmd *cobra.Command, args []string) error {
	v := viper.New()
	if err := config.Init(v, cfgFile); err != nil {
		return err
	}
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return errors.Wrapf(err, "failed to bind flag --%s", name)
			}
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	if err := logging.Initialize(cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}
	appConfig = cfg

	if used := v.ConfigFileUsed(); used != "" {
		logging.Logger.Debugw("loaded config", "file", used)
	}
	return nil
}

// getDBPath returns the database path, using the configured value or default
func getDBPath() (string, error) {
	if appConfig != nil && appConfig.Database.Path != "" {
		return appConfig.Database.Path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user home directory")
	}

	// Create .apriori directory if it doesn't exist
	dir := filepath.Join(home, ".apriori")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(err, "failed to create apriori directory")
	}

	return filepath.Join(dir, "apriori.db"), nil
}
