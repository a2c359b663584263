// Package output provides terminal output utilities for apriori.
//
// This package includes:
//   - Table rendering for frequent itemsets, association rules, saved runs and
//     dataset statistics
//   - A per-level progress bar that plugs into the miner as an observer
//   - Spinners for indeterminate operations
//
// Tables are drawn with lipgloss. ANSI colour is only emitted when stdout is a
// terminal and NO_COLOR is unset.
package output

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/apriori/internal/analyzer"
	"github.com/blackwell-systems/apriori/internal/apriori"
	"github.com/blackwell-systems/apriori/internal/dataset"
	"github.com/blackwell-systems/apriori/internal/store"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	strongStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	moderateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	weakStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize renders text with style if color is enabled, otherwise returns the
// plain text.
func colorize(style lipgloss.Style, text string) string {
	if IsColorEnabled() {
		return style.Render(text)
	}
	return text
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow && IsColorEnabled() {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		})
}

// RenderItemsTable renders frequent itemsets in the order given.
func RenderItemsTable(items []apriori.ItemRecord, minSupport float64) string {
	if len(items) == 0 {
		return "No frequent itemsets found.\n"
	}

	t := newTable("Itemset", fmt.Sprintf("Support (>= %s)", formatFloat(minSupport)), "Length")
	for _, it := range items {
		t.Row(formatItems(it.Items), formatFloat(it.Support), strconv.Itoa(it.Size))
	}
	return t.String() + "\n"
}

// RenderRulesTable renders association rules in the order given.
func RenderRulesTable(rules []apriori.RuleRecord, minConfidence float64) string {
	if len(rules) == 0 {
		return "No association rules found.\n"
	}

	t := newTable(
		"Antecedent",
		"Consequent",
		fmt.Sprintf("Confidence (>= %s)", formatFloat(minConfidence)),
		"Support",
		"Lift",
	)
	for _, r := range rules {
		t.Row(
			formatItems(r.Antecedent),
			formatItems(r.Consequent),
			colorize(confidenceStyle(r.Confidence), formatFloat(r.Confidence)),
			formatFloat(r.Support),
			formatFloat(r.Lift),
		)
	}
	return t.String() + "\n"
}

// RenderRunTable renders saved runs, newest first as returned by the store.
func RenderRunTable(runs []*store.Run) string {
	if len(runs) == 0 {
		return "No saved runs.\n"
	}

	t := newTable("ID", "Created", "Source", "Support", "Confidence", "Transactions", "Itemsets", "Rules")
	for _, r := range runs {
		t.Row(
			shortID(r.ID),
			humanize.Time(r.CreatedAt),
			r.Source,
			formatFloat(r.MinSupport),
			formatFloat(r.MinConfidence),
			humanize.Comma(int64(r.TransactionCount)),
			humanize.Comma(int64(r.ItemsetCount)),
			humanize.Comma(int64(r.RuleCount)),
		)
	}
	return t.String() + "\n"
}

// RenderRecommendationTable renders basket recommendations, best first.
func RenderRecommendationTable(recs []analyzer.Recommendation) string {
	if len(recs) == 0 {
		return "No recommendations for this basket.\n"
	}

	t := newTable("Item", "Confidence", "Lift", "Tier", "Because")
	for _, r := range recs {
		because := formatItems(r.Rule.Antecedent)
		if r.Rules > 1 {
			because += fmt.Sprintf(" (+%d more)", r.Rules-1)
		}
		t.Row(
			r.Item,
			colorize(confidenceStyle(r.Confidence), formatFloat(r.Confidence)),
			formatFloat(r.Lift),
			r.Tier,
			because,
		)
	}
	return t.String() + "\n"
}

// RenderRunHeader renders a short description of one saved run.
func RenderRunHeader(r *store.Run) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Run %s (%s)\n", r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "  Source:        %s\n", r.Source)
	fmt.Fprintf(&sb, "  Transactions:  %s\n", humanize.Comma(int64(r.TransactionCount)))
	fmt.Fprintf(&sb, "  Thresholds:    support >= %s, confidence >= %s\n",
		formatFloat(r.MinSupport), formatFloat(r.MinConfidence))
	fmt.Fprintf(&sb, "  Largest level: %d\n", r.LevelCount)
	fmt.Fprintf(&sb, "  Duration:      %s\n", r.Duration)
	return sb.String()
}

// RenderDatasetSummary renders the headline numbers of a loaded dataset.
func RenderDatasetSummary(source string, ds *dataset.Store) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Dataset: %s\n", source)
	fmt.Fprintf(&sb, "  Transactions:     %s\n", humanize.Comma(int64(ds.Len())))
	fmt.Fprintf(&sb, "  Distinct items:   %s\n", humanize.Comma(int64(len(ds.Singletons()))))
	fmt.Fprintf(&sb, "  Avg basket size:  %.2f\n", ds.AverageLength())
	return sb.String()
}

// RenderItemCountTable renders per-item transaction counts and supports.
// Only the first top entries are shown when top > 0.
func RenderItemCountTable(counts []dataset.ItemCount, transactions, top int) string {
	if len(counts) == 0 {
		return "No items found.\n"
	}
	if top > 0 && top < len(counts) {
		counts = counts[:top]
	}

	t := newTable("Item", "Transactions", "Support")
	for _, c := range counts {
		support := 0.0
		if transactions > 0 {
			support = apriori.Round(float64(c.Count) / float64(transactions))
		}
		t.Row(c.Item, humanize.Comma(int64(c.Count)), formatFloat(support))
	}
	return t.String() + "\n"
}

// confidenceStyle returns the style of a confidence tier.
func confidenceStyle(confidence float64) lipgloss.Style {
	switch analyzer.Tier(confidence) {
	case "strong":
		return strongStyle
	case "moderate":
		return moderateStyle
	default:
		return weakStyle
	}
}

// formatItems renders labels as "{a, b}".
func formatItems(items []string) string {
	return "{" + strings.Join(items, ", ") + "}"
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// shortID truncates a run ID to its first 8 characters.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
