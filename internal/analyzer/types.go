package analyzer

import "github.com/blackwell-systems/apriori/internal/apriori"

// Recommendation is an item suggested for a basket.
type Recommendation struct {
	Item       string
	Confidence float64
	Lift       float64
	Tier       string // "strong", "moderate", "weak"
	// Rule is the highest-confidence rule that produced the item.
	Rule apriori.RuleRecord
	// Rules counts every applicable rule that suggests the item.
	Rules int
}
