package apriori

import (
	"github.com/blackwell-systems/apriori/internal/itemset"
)

// Rule predicts Consequent from Antecedent. Antecedent and Consequent are
// disjoint and their union is a frequent itemset.
type Rule struct {
	Antecedent itemset.Itemset
	Consequent itemset.Itemset
	// Confidence is support(Antecedent ∪ Consequent) / support(Antecedent).
	Confidence float64
	// Support is support(Antecedent ∪ Consequent).
	Support float64
	// Lift is Confidence / support(Consequent), 0 when that support is unknown.
	Lift float64
}

// RuleStats describes the work done by GenerateRules.
type RuleStats struct {
	// Considered counts every antecedent/consequent split examined.
	Considered int
	// Emitted counts rules meeting the confidence threshold.
	Emitted int
	// Skipped counts splits whose antecedent had no usable count.
	Skipped int
}

// GenerateRules splits every frequent itemset of size two or more into each
// non-empty antecedent and non-empty consequent, and keeps the rules whose
// confidence is at least minConfidence. Counts come from res.Frequencies; the
// transactions are not scanned again.
func GenerateRules(res *Result, minConfidence float64) ([]Rule, RuleStats) {
	var (
		rules []Rule
		stats RuleStats
	)
	freq := res.Frequencies

	for k := 2; k <= res.MaxLevel(); k++ {
		for _, whole := range res.Level(k).Sorted() {
			wholeCount, ok := freq.Count(whole)
			if !ok {
				continue
			}
			for _, ante := range whole.Subsets() {
				cons := whole.Difference(ante)
				if cons.Empty() {
					continue
				}
				stats.Considered++

				anteCount, ok := freq.Count(ante)
				if !ok || anteCount == 0 {
					stats.Skipped++
					continue
				}

				confidence := float64(wholeCount) / float64(anteCount)
				if confidence < minConfidence {
					continue
				}

				support, _ := freq.Support(whole)
				rules = append(rules, Rule{
					Antecedent: ante,
					Consequent: cons,
					Confidence: confidence,
					Support:    support,
					Lift:       lift(freq, cons, confidence),
				})
				stats.Emitted++
			}
		}
	}
	return rules, stats
}

func lift(freq *Frequencies, cons itemset.Itemset, confidence float64) float64 {
	s, ok := freq.Support(cons)
	if !ok || s == 0 {
		return 0
	}
	return confidence / s
}
