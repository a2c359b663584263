// Package analyzer applies mined association rules to a basket of items.
package analyzer

import "github.com/blackwell-systems/apriori/internal/apriori"

// Analyzer answers questions about baskets using a fixed rule set, typically
// the rules of one saved run.
type Analyzer struct {
	rules []apriori.RuleRecord
	known map[string]struct{}
}

// New creates a new Analyzer over rules.
func New(rules []apriori.RuleRecord) *Analyzer {
	known := make(map[string]struct{})
	for _, r := range rules {
		for _, l := range r.Antecedent {
			known[l] = struct{}{}
		}
		for _, l := range r.Consequent {
			known[l] = struct{}{}
		}
	}
	return &Analyzer{rules: rules, known: known}
}

// Rules returns the number of rules the analyzer works with.
func (a *Analyzer) Rules() int {
	return len(a.rules)
}
