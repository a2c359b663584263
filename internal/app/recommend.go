package app

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/apriori/internal/analyzer"
	"github.com/blackwell-systems/apriori/internal/output"
)

var recommendLimit int

var recommendCmd = &cobra.Command{
	Use:   "recommend <run-id> <item>...",
	Short: "Suggest items for a basket from a saved run's rules",
	Long: `Apply the association rules of a saved run to a basket of items.

A rule applies when every item of its antecedent is in the basket. Each item
of its consequent that is not yet in the basket is suggested; when several
rules suggest the same item the one with the highest confidence (then lift)
is shown. Items may also be given as a single comma-separated argument.`,
	Example: `  apriori recommend 3f2a bread butter
  apriori recommend 3f2a bread,butter --limit 3`,
	Args: cobra.MinimumNArgs(2),
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().IntVar(&recommendLimit, "limit", 10, "maximum number of suggestions (0 = all)")

	RootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	if recommendLimit < 0 {
		return errors.Newf("invalid limit: %d (must not be negative)", recommendLimit)
	}
	basket := parseBasket(args[1:])
	if len(basket) == 0 {
		return errors.New("basket is empty")
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
	rules, err := st.GetRunRules(run.ID)
	if err != nil {
		return err
	}

	a := analyzer.New(rules)
	for _, w := range a.ValidateBasket(basket) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
	}

	recs := a.Recommend(basket, recommendLimit)
	fmt.Fprint(cmd.OutOrStdout(), output.RenderRecommendationTable(recs))
	return nil
}

// parseBasket splits arguments on commas and drops empty labels.
func parseBasket(args []string) []string {
	var basket []string
	for _, arg := range args {
		for _, l := range strings.Split(arg, ",") {
			if l = strings.TrimSpace(l); l != "" {
				basket = append(basket, l)
			}
		}
	}
	return basket
}
