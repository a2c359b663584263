package app

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/apriori/internal/apriori"
	"github.com/blackwell-systems/apriori/internal/dataset"
	"github.com/blackwell-systems/apriori/internal/export"
	"github.com/blackwell-systems/apriori/internal/logging"
	"github.com/blackwell-systems/apriori/internal/output"
	"github.com/blackwell-systems/apriori/internal/rulefilter"
)

var (
	mineMinSupport    float64
	mineMinConfidence float64
	mineMaxRows       int
	mineDelimiter     string
	mineAliases       string
	minePrune         bool
	mineFilter        string
	mineFormat        string
	mineExportDir     string
	mineSave          bool
	mineJobs          int
	mineQuiet         bool
)

var mineCmd = &cobra.Command{
	Use:   "mine <file>...",
	Short: "Mine frequent itemsets and association rules",
	Long: `Read one or more transaction files and print their frequent itemsets
and association rules.

Itemsets are listed by ascending support and rules by ascending confidence.
Both thresholds are inclusive. Values outside (0, 1] are accepted as given and
only produce a warning.

When several files are given each one is mined as an independent run; up to
--jobs runs execute concurrently and results are printed in argument order.

--filter takes a CEL expression over antecedent, consequent (lists of
strings), confidence, support, lift (doubles) and size (int), for example
'lift > 1.2 && "milk" in consequent'.`,
	Example: `  # Default thresholds (support 0.15, confidence 0.5)
  apriori mine baskets.csv

  # Custom thresholds, JSON output
  apriori mine baskets.csv --min-support 0.4 --min-confidence 0.5 --format json

  # Mine several files at once and keep the runs
  apriori mine january.csv february.csv --save

  # Write a timestamped YAML report
  apriori mine baskets.csv --format yaml --export-dir ./reports`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMine,
}

func init() {
	mineCmd.Flags().Float64Var(&mineMinSupport, "min-support", 0.15, "minimum support of a frequent itemset")
	mineCmd.Flags().Float64Var(&mineMinConfidence, "min-confidence", 0.5, "minimum confidence of a rule")
	mineCmd.Flags().IntVar(&mineMaxRows, "max-rows", dataset.DefaultMaxRows, "read at most this many rows per file (0 = all)")
	mineCmd.Flags().StringVar(&mineDelimiter, "delimiter", ",", "field delimiter (single character or 'tab')")
	mineCmd.Flags().StringVar(&mineAliases, "aliases", "", "file of raw=canonical item label aliases")
	mineCmd.Flags().BoolVar(&minePrune, "prune", false, "drop candidates with an infrequent subset before counting")
	mineCmd.Flags().StringVar(&mineFilter, "filter", "", "CEL expression selecting the rules to show")
	mineCmd.Flags().StringVarP(&mineFormat, "format", "o", FormatTable, "output format (table, json, yaml, csv)")
	mineCmd.Flags().StringVar(&mineExportDir, "export-dir", "", "also write a timestamped report into this directory")
	mineCmd.Flags().BoolVar(&mineSave, "save", false, "save the run to the history database")
	mineCmd.Flags().IntVarP(&mineJobs, "jobs", "j", runtime.NumCPU(), "number of files mined concurrently")
	mineCmd.Flags().BoolVarP(&mineQuiet, "quiet", "q", false, "suppress progress and status messages")

	RootCmd.AddCommand(mineCmd)
}

func runMine(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	if mineJobs < 1 {
		return errors.Newf("invalid jobs: %d (must be positive)", mineJobs)
	}
	if err := validateFormat(cfg.Output.Format); err != nil {
		return err
	}
	filter, err := rulefilter.Compile(mineFilter)
	if err != nil {
		return err
	}
	warnThresholds(cfg)

	// Progress bars only make sense for a single run.
	var (
		obs      apriori.Observer
		progress *output.LevelProgress
	)
	if len(args) == 1 && !mineQuiet {
		progress = output.NewLevelProgress(cmd.ErrOrStderr())
		obs = progress
	}

	runs := make([]*minedRun, len(args))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(mineJobs)
	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			r, err := mineFile(ctx, path, cfg, obs)
			if err != nil {
				return err
			}
			runs[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if progress != nil {
		for _, l := range progress.Levels() {
			logging.Logger.Debugw("level mined", "size", l.Size,
				"candidates", l.Candidates, "frequent", l.Frequent)
		}
	}

	out := cmd.OutOrStdout()
	status := cmd.ErrOrStderr()
	for i, r := range runs {
		if i > 0 && strings.EqualFold(cfg.Output.Format, FormatTable) {
			fmt.Fprintln(out)
		}
		if err := renderRun(out, cfg.Output.Format, r, filter); err != nil {
			return err
		}
	}

	if cfg.Output.ExportDir != "" {
		m := export.NewManager(cfg.Output.ExportDir)
		for _, r := range runs {
			rules, err := filter.Apply(r.Rules)
			if err != nil {
				return err
			}
			path, err := m.WriteFile(r.report(rules), exportFormat(cfg.Output.Format))
			if err != nil {
				return err
			}
			if !mineQuiet {
				fmt.Fprintf(status, "Exported %s to %s\n", r.Source, path)
			}
		}
	}

	if mineSave {
		st, err := openHistory(true)
		if err != nil {
			return err
		}
		defer st.Close()

		for _, r := range runs {
			id, err := saveRun(st, r)
			if err != nil {
				return errors.Wrapf(err, "failed to save run for %s", r.Source)
			}
			if !mineQuiet {
				fmt.Fprintf(status, "Saved run %s (%s)\n", id, r.Source)
			}
		}
	}
	return nil
}
