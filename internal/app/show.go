package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/apriori/internal/export"
	"github.com/blackwell-systems/apriori/internal/output"
	"github.com/blackwell-systems/apriori/internal/rulefilter"
)

var (
	showFilter string
	showFormat string
)

var showCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the results of a saved run",
	Long: `Print the frequent itemsets and rules of a run saved with
'apriori mine --save'. The run ID may be abbreviated to a unique prefix.

--filter selects rules with a CEL expression, as for 'mine'.`,
	Example: `  apriori show 3f2a
  apriori show 3f2a --filter 'confidence >= 0.9' --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&showFilter, "filter", "", "CEL expression selecting the rules to show")
	showCmd.Flags().StringVarP(&showFormat, "format", "o", FormatTable, "output format (table, json, yaml, csv)")

	RootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	format := appConfig.Output.Format
	if err := validateFormat(format); err != nil {
		return err
	}
	filter, err := rulefilter.Compile(showFilter)
	if err != nil {
		return err
	}

	st, err := openHistory(false)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.GetRun(args[0])
	if err != nil {
		return err
	}
	items, err := st.GetRunItemsets(run.ID)
	if err != nil {
		return err
	}
	allRules, err := st.GetRunRules(run.ID)
	if err != nil {
		return err
	}
	rules, err := filter.Apply(allRules)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !strings.EqualFold(format, FormatTable) {
		report := export.NewReport(run.Source, run.MinSupport, run.MinConfidence, run.TransactionCount, items, rules)
		report.RunID = run.ID
		report.CreatedAt = run.CreatedAt
		return export.Write(out, format, report)
	}

	fmt.Fprint(out, output.RenderRunHeader(run))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Frequent itemsets")
	fmt.Fprint(out, output.RenderItemsTable(items, run.MinSupport))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Association rules")
	fmt.Fprint(out, output.RenderRulesTable(rules, run.MinConfidence))
	if filter.String() != "" {
		fmt.Fprintf(out, "(filter: %s, %d of %d rules shown)\n", filter.String(), len(rules), len(allRules))
	}
	return nil
}
