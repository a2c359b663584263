package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/apriori/internal/dataset"
	"github.com/blackwell-systems/apriori/internal/logging"
	"github.com/blackwell-systems/apriori/internal/output"
	"github.com/blackwell-systems/apriori/internal/rulefilter"
	"github.com/blackwell-systems/apriori/internal/watcher"
)

var (
	watchMinSupport    float64
	watchMinConfidence float64
	watchMaxRows       int
	watchDelimiter     string
	watchAliases       string
	watchPrune         bool
	watchFilter        string
	watchDebounce      time.Duration

	watchCmd = &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-mine a file every time it changes",
		Long: `Mine a transaction file now and again after every change to it, until
interrupted with Ctrl+C.

Each change triggers a complete run over the whole file; bursts of changes
within the debounce window trigger a single run. Errors from a run (for
example a file that is briefly missing while an editor saves it) are
reported and watching continues.`,
		Example: `  # Run in foreground (Ctrl+C to stop)
  apriori watch baskets.csv

  # Wait for two quiet seconds before re-mining
  apriori watch baskets.csv --debounce 2s --min-support 0.3`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}
)

func init() {
	watchCmd.Flags().Float64Var(&watchMinSupport, "min-support", 0.15, "minimum support of a frequent itemset")
	watchCmd.Flags().Float64Var(&watchMinConfidence, "min-confidence", 0.5, "minimum confidence of a rule")
	watchCmd.Flags().IntVar(&watchMaxRows, "max-rows", dataset.DefaultMaxRows, "read at most this many rows (0 = all)")
	watchCmd.Flags().StringVar(&watchDelimiter, "delimiter", ",", "field delimiter (single character or 'tab')")
	watchCmd.Flags().StringVar(&watchAliases, "aliases", "", "file of raw=canonical item label aliases")
	watchCmd.Flags().BoolVar(&watchPrune, "prune", false, "drop candidates with an infrequent subset before counting")
	watchCmd.Flags().StringVar(&watchFilter, "filter", "", "CEL expression selecting the rules to show")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "quiet period before re-mining")

	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	filter, err := rulefilter.Compile(watchFilter)
	if err != nil {
		return err
	}
	warnThresholds(cfg)

	path := args[0]
	out := cmd.OutOrStdout()
	status := cmd.ErrOrStderr()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Output from the initial run and the watcher goroutine is serialised.
	var mu sync.Mutex
	mineOnce := func() {
		mu.Lock()
		defer mu.Unlock()
		if err := mineAndRender(ctx, out, path, filter); err != nil {
			fmt.Fprintf(status, "Error: %v\n", err)
			logging.Logger.Warnw("watch run failed", "source", path, "error", err)
		}
	}

	w, err := watcher.New(path, watchDebounce, func() {
		fmt.Fprintf(status, "\n[%s] %s changed, mining again\n", time.Now().Format("15:04:05"), path)
		mineOnce()
	})
	if err != nil {
		return err
	}

	mineOnce()

	spinner := output.NewSpinner(status, "Starting watcher")
	spinner.Start()
	if err := w.Start(); err != nil {
		spinner.Stop()
		return err
	}
	spinner.StopWithMessage(fmt.Sprintf("Watching %s (press Ctrl+C to stop)", w.Path()))

	<-ctx.Done()

	fmt.Fprintln(status, "\nStopping watcher...")
	return w.Stop()
}

// mineAndRender runs one table-formatted mining pass over path.
func mineAndRender(ctx context.Context, w io.Writer, path string, filter *rulefilter.Filter) error {
	r, err := mineFile(ctx, path, appConfig, nil)
	if err != nil {
		return err
	}
	return renderRun(w, FormatTable, r, filter)
}
