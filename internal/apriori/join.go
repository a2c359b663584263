package apriori

import (
	"github.com/blackwell-systems/apriori/internal/itemset"
)

// Join returns every union of two itemsets from previous that has exactly k
// members. previous is expected to hold itemsets of size k-1.
func Join(previous itemset.Set, k int) itemset.Set {
	sets := previous.Sorted()
	out := make(itemset.Set)
	for i := range sets {
		for j := i + 1; j < len(sets); j++ {
			u := sets[i].Union(sets[j])
			if u.Len() == k {
				out.Add(u)
			}
		}
	}
	return out
}

// Prune removes candidates having a (k-1)-subset that is not in previous.
// Such candidates can never be frequent, so dropping them changes nothing but
// the amount of counting work.
func Prune(candidates, previous itemset.Set) itemset.Set {
	out := make(itemset.Set, len(candidates))
	for k, c := range candidates {
		if allSubsetsIn(c, previous) {
			out[k] = c
		}
	}
	return out
}

func allSubsetsIn(c itemset.Itemset, previous itemset.Set) bool {
	for _, item := range c.Items() {
		if !previous.Has(c.Without(item)) {
			return false
		}
	}
	return true
}
