package app

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/apriori/internal/output"
)

var (
	historyLimit  int
	historyDelete string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved mining runs",
	Long: `List the runs saved with 'apriori mine --save', newest first.

Run IDs may be abbreviated to any unique prefix, as shown in the ID column.`,
	Example: `  # Last 20 runs
  apriori history

  # Every run
  apriori history --limit 0

  # Delete a run and its results
  apriori history --delete 3f2a`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs to list (0 = all)")
	historyCmd.Flags().StringVar(&historyDelete, "delete", "", "delete the run with this ID")

	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyLimit < 0 {
		return errors.Newf("invalid limit: %d (must not be negative)", historyLimit)
	}

	st, err := openHistory(false)
	if err != nil {
		return err
	}
	defer st.Close()

	out := cmd.OutOrStdout()
	if historyDelete != "" {
		run, err := st.GetRun(historyDelete)
		if err != nil {
			return err
		}
		if err := st.DeleteRun(run.ID); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted run %s (%s)\n", run.ID, run.Source)
		return nil
	}

	runs, err := st.ListRuns(historyLimit)
	if err != nil {
		return err
	}
	fmt.Fprint(out, output.RenderRunTable(runs))
	return nil
}
