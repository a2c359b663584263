package app

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/apriori/internal/dataset"
	"github.com/blackwell-systems/apriori/internal/output"
)

var (
	statsTop       int
	statsMaxRows   int
	statsDelimiter string
)

var statsCmd = &cobra.Command{
	Use:   "stats <file>",
	Short: "Show transaction and item statistics for a dataset",
	Long: `Load a transaction file the same way 'mine' does and summarise it: the
number of transactions, distinct items, average basket size and the most
frequent items with their support.

Use this to pick a sensible --min-support before mining.`,
	Example: `  # Summary plus the 10 most frequent items
  apriori stats baskets.csv

  # Show every item
  apriori stats baskets.csv --top 0`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	statsCmd.Flags().IntVar(&statsTop, "top", 10, "number of items to list (0 = all)")
	statsCmd.Flags().IntVar(&statsMaxRows, "max-rows", dataset.DefaultMaxRows, "read at most this many rows (0 = all)")
	statsCmd.Flags().StringVar(&statsDelimiter, "delimiter", ",", "field delimiter (single character or 'tab')")

	RootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	if statsTop < 0 {
		return errors.Newf("invalid top: %d (must not be negative)", statsTop)
	}

	opts, err := appConfig.DatasetOptions()
	if err != nil {
		return err
	}
	ds, err := dataset.Open(args[0], opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, output.RenderDatasetSummary(args[0], ds))
	fmt.Fprintln(out)
	fmt.Fprint(out, output.RenderItemCountTable(ds.ItemCounts(), ds.Len(), statsTop))
	return nil
}
