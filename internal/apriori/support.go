package apriori

import (
	"github.com/blackwell-systems/apriori/internal/itemset"
)

// Frequencies accumulates, for every itemset ever counted during a run, the
// number of transactions containing it. It is shared by all levels of a run
// and never reset, so supports of non-frequent candidates stay available.
type Frequencies struct {
	counts map[itemset.Key]int
	total  int
}

// NewFrequencies returns an empty accumulator for a dataset of total
// transactions.
func NewFrequencies(total int) *Frequencies {
	return &Frequencies{
		counts: make(map[itemset.Key]int),
		total:  total,
	}
}

// Add records one more transaction containing s.
func (f *Frequencies) Add(s itemset.Itemset) {
	f.counts[s.Key()]++
}

// touch makes s known to the accumulator without incrementing it.
func (f *Frequencies) touch(s itemset.Itemset) {
	k := s.Key()
	if _, ok := f.counts[k]; !ok {
		f.counts[k] = 0
	}
}

// Count returns the accumulated count for s and whether s was ever counted.
func (f *Frequencies) Count(s itemset.Itemset) (int, bool) {
	n, ok := f.counts[s.Key()]
	return n, ok
}

// Support returns count(s) / total. The bool is false when s was never
// counted or the dataset is empty.
func (f *Frequencies) Support(s itemset.Itemset) (float64, bool) {
	n, ok := f.counts[s.Key()]
	if !ok || f.total == 0 {
		return 0, false
	}
	return float64(n) / float64(f.total), true
}

// Total returns the number of transactions supports are relative to.
func (f *Frequencies) Total() int {
	return f.total
}

// Len returns the number of distinct itemsets counted so far.
func (f *Frequencies) Len() int {
	return len(f.counts)
}

// CountSupport scans every transaction for every candidate, adds each
// containment to freq and returns the candidates whose support in txs is at
// least minSupport. Candidates found in no transaction are dropped.
func CountSupport(candidates itemset.Set, txs []itemset.Itemset, freq *Frequencies, minSupport float64, obs Observer) itemset.Set {
	if obs == nil {
		obs = NopObserver{}
	}
	frequent := make(itemset.Set)
	if len(txs) == 0 {
		return frequent
	}

	total := float64(len(txs))
	for _, c := range candidates.Sorted() {
		freq.touch(c)
		local := 0
		for _, tx := range txs {
			if c.SubsetOf(tx) {
				freq.Add(c)
				local++
			}
		}
		obs.CandidateCounted(c, local)
		if local > 0 && float64(local)/total >= minSupport {
			frequent.Add(c)
		}
	}
	return frequent
}
