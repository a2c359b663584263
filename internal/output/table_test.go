package output

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/blackwell-systems/apriori/internal/analyzer"
	"github.com/blackwell-systems/apriori/internal/apriori"
	"github.com/blackwell-systems/apriori/internal/dataset"
	"github.com/blackwell-systems/apriori/internal/store"
)

func TestRenderItemsTable(t *testing.T) {
	tests := []struct {
		name     string
		items    []apriori.ItemRecord
		contains []string
	}{
		{
			name:     "empty",
			items:    nil,
			contains: []string{"No frequent itemsets found"},
		},
		{
			name: "itemsets",
			items: []apriori.ItemRecord{
				{Items: []string{"A", "B"}, Support: 0.4, Size: 2},
				{Items: []string{"B"}, Support: 0.8, Size: 1},
			},
			contains: []string{"Itemset", "Support (>= 0.4)", "Length", "{A, B}", "{B}", "0.8"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RenderItemsTable(tt.items, 0.4)
			for _, expected := range tt.contains {
				if !strings.Contains(result, expected) {
					t.Errorf("RenderItemsTable() missing %q\nGot:\n%s", expected, result)
				}
			}
		})
	}
}

func TestRenderItemsTable_PreservesOrder(t *testing.T) {
	items := []apriori.ItemRecord{
		{Items: []string{"C"}, Support: 0.4, Size: 1},
		{Items: []string{"A"}, Support: 0.6, Size: 1},
	}
	result := RenderItemsTable(items, 0.4)
	if strings.Index(result, "{C}") > strings.Index(result, "{A}") {
		t.Errorf("rows reordered:\n%s", result)
	}
}

func TestRenderRulesTable(t *testing.T) {
	rules := []apriori.RuleRecord{
		{Antecedent: []string{"A"}, Consequent: []string{"B"}, Confidence: 0.66667, Support: 0.4, Lift: 0.83333},
		{Antecedent: []string{"C"}, Consequent: []string{"B"}, Confidence: 1, Support: 0.4, Lift: 1.25},
	}

	result := RenderRulesTable(rules, 0.5)
	for _, expected := range []string{
		"Antecedent", "Consequent", "Confidence (>= 0.5)", "Lift",
		"{A}", "{C}", "0.66667", "0.83333", "1.25",
	} {
		if !strings.Contains(result, expected) {
			t.Errorf("RenderRulesTable() missing %q\nGot:\n%s", expected, result)
		}
	}

	if got := RenderRulesTable(nil, 0.5); !strings.Contains(got, "No association rules found") {
		t.Errorf("RenderRulesTable(nil) = %q", got)
	}
}

func TestRenderRunTable(t *testing.T) {
	runs := []*store.Run{
		{
			ID:               "0123456789abcdef",
			CreatedAt:        time.Now().Add(-2 * time.Hour),
			Source:           "baskets.csv",
			MinSupport:       0.15,
			MinConfidence:    0.5,
			TransactionCount: 12500,
			ItemsetCount:     42,
			RuleCount:        7,
		},
	}

	result := RenderRunTable(runs)
	for _, expected := range []string{"01234567", "2 hours ago", "baskets.csv", "0.15", "12,500", "42"} {
		if !strings.Contains(result, expected) {
			t.Errorf("RenderRunTable() missing %q\nGot:\n%s", expected, result)
		}
	}
	if strings.Contains(result, "0123456789abcdef") {
		t.Error("RenderRunTable() should shorten run IDs")
	}

	if got := RenderRunTable(nil); !strings.Contains(got, "No saved runs") {
		t.Errorf("RenderRunTable(nil) = %q", got)
	}
}

func TestRenderRunHeader(t *testing.T) {
	run := &store.Run{
		ID:               "run-1",
		CreatedAt:        time.Now(),
		Source:           "baskets.csv",
		MinSupport:       0.4,
		MinConfidence:    0.5,
		TransactionCount: 5,
		LevelCount:       2,
		Duration:         3 * time.Millisecond,
	}
	result := RenderRunHeader(run)
	for _, expected := range []string{"run-1", "baskets.csv", "support >= 0.4", "confidence >= 0.5", "3ms"} {
		if !strings.Contains(result, expected) {
			t.Errorf("RenderRunHeader() missing %q\nGot:\n%s", expected, result)
		}
	}
}

func TestRenderDatasetSummaryAndCounts(t *testing.T) {
	ds := dataset.FromRecords([][]string{
		{"A", "B"},
		{"A", "B", "C"},
		{"A"},
		{"B", "C"},
	})

	summary := RenderDatasetSummary("baskets.csv", ds)
	for _, expected := range []string{"baskets.csv", "Transactions:     4", "Distinct items:   3", "2.00"} {
		if !strings.Contains(summary, expected) {
			t.Errorf("RenderDatasetSummary() missing %q\nGot:\n%s", expected, summary)
		}
	}

	counts := RenderItemCountTable(ds.ItemCounts(), ds.Len(), 2)
	if !strings.Contains(counts, "0.75") {
		t.Errorf("RenderItemCountTable() missing support 0.75\nGot:\n%s", counts)
	}
	if strings.Contains(counts, "C") {
		t.Errorf("RenderItemCountTable() should show only the top 2 items\nGot:\n%s", counts)
	}

	if got := RenderItemCountTable(nil, 0, 0); !strings.Contains(got, "No items found") {
		t.Errorf("RenderItemCountTable(nil) = %q", got)
	}
}

func TestConfidenceStyle(t *testing.T) {
	tests := []struct {
		confidence float64
		want       lipgloss.Style
	}{
		{1.0, strongStyle},
		{0.8, strongStyle},
		{0.7, moderateStyle},
		{0.6, moderateStyle},
		{0.59, weakStyle},
	}
	for _, tt := range tests {
		got := confidenceStyle(tt.confidence).GetForeground()
		if got != tt.want.GetForeground() {
			t.Errorf("confidenceStyle(%v) foreground = %v, want %v", tt.confidence, got, tt.want.GetForeground())
		}
	}
}

func TestRenderRecommendationTable(t *testing.T) {
	recs := []analyzer.Recommendation{
		{
			Item:       "milk",
			Confidence: 0.9,
			Lift:       1.3,
			Tier:       "strong",
			Rule:       apriori.RuleRecord{Antecedent: []string{"bread", "butter"}, Consequent: []string{"milk"}},
			Rules:      2,
		},
	}
	result := RenderRecommendationTable(recs)
	for _, expected := range []string{"Item", "Because", "milk", "0.9", "1.3", "strong", "{bread, butter} (+1 more)"} {
		if !strings.Contains(result, expected) {
			t.Errorf("RenderRecommendationTable() missing %q\nGot:\n%s", expected, result)
		}
	}

	if got := RenderRecommendationTable(nil); !strings.Contains(got, "No recommendations") {
		t.Errorf("RenderRecommendationTable(nil) = %q", got)
	}
}

func TestIsColorEnabled_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if IsColorEnabled() {
		t.Error("IsColorEnabled() should be false when NO_COLOR is set")
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID(abc) = %q", got)
	}
	if got := shortID("0123456789"); got != "01234567" {
		t.Errorf("shortID(0123456789) = %q", got)
	}
}
