package apriori

import (
	"math"
	"sort"
	"strings"
)

// Precision is the number of decimals records are rounded to.
const Precision = 5

// ItemRecord is a frequent itemset ready for display or export.
type ItemRecord struct {
	Items   []string `json:"items" yaml:"items"`
	Support float64  `json:"support" yaml:"support"`
	Size    int      `json:"size" yaml:"size"`
}

// RuleRecord is an association rule ready for display or export.
type RuleRecord struct {
	Antecedent []string `json:"antecedent" yaml:"antecedent"`
	Consequent []string `json:"consequent" yaml:"consequent"`
	Confidence float64  `json:"confidence" yaml:"confidence"`
	Support    float64  `json:"support" yaml:"support"`
	Lift       float64  `json:"lift" yaml:"lift"`
}

// Round rounds x to Precision decimals.
func Round(x float64) float64 {
	p := math.Pow(10, Precision)
	return math.Round(x*p) / p
}

// Items returns one record per frequent itemset, ordered by ascending support.
func Items(res *Result) []ItemRecord {
	var out []ItemRecord
	for _, s := range res.Frequent() {
		support, _ := res.Support(s)
		out = append(out, ItemRecord{
			Items:   s.Items(),
			Support: Round(support),
			Size:    s.Len(),
		})
	}
	SortItems(out)
	return out
}

// SortItems orders records by support, then size, then labels.
func SortItems(items []ItemRecord) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Support != b.Support {
			return a.Support < b.Support
		}
		if a.Size != b.Size {
			return a.Size < b.Size
		}
		return joinLabels(a.Items) < joinLabels(b.Items)
	})
}

// Rules converts rules to records ordered by ascending confidence.
func Rules(rules []Rule) []RuleRecord {
	out := make([]RuleRecord, 0, len(rules))
	for _, r := range rules {
		out = append(out, RuleRecord{
			Antecedent: r.Antecedent.Items(),
			Consequent: r.Consequent.Items(),
			Confidence: Round(r.Confidence),
			Support:    Round(r.Support),
			Lift:       Round(r.Lift),
		})
	}
	SortRules(out)
	return out
}

// SortRules orders records by confidence, then antecedent, then consequent.
func SortRules(rules []RuleRecord) {
	sort.SliceStable(rules, func(i, j int) bool {
		a, b := rules[i], rules[j]
		if a.Confidence != b.Confidence {
			return a.Confidence < b.Confidence
		}
		if x, y := joinLabels(a.Antecedent), joinLabels(b.Antecedent); x != y {
			return x < y
		}
		return joinLabels(a.Consequent) < joinLabels(b.Consequent)
	})
}

func joinLabels(items []string) string {
	return strings.Join(items, "\x00")
}
