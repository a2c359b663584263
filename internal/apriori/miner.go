// Package apriori mines frequent itemsets level by level and derives
// association rules from them.
//
// A run starts from every single-item itemset of a dataset, keeps those whose
// support reaches the minimum, joins the survivors into candidates one item
// larger and repeats until a level yields nothing frequent. Every count made
// along the way is kept in a Frequencies accumulator so that rule generation
// never rescans the transactions.
package apriori

import (
	"github.com/blackwell-systems/apriori/internal/dataset"
	"github.com/blackwell-systems/apriori/internal/itemset"
)

// Options configures a mining run. Thresholds are used as given: values
// outside (0, 1] are not rejected and simply accept or reject everything.
type Options struct {
	MinSupport    float64
	MinConfidence float64
	// PruneCandidates drops joined candidates with an infrequent subset before
	// counting them. Results are identical with or without it.
	PruneCandidates bool
	// Observer receives progress callbacks. Nil means no callbacks.
	Observer Observer
}

// Observer is notified as a run progresses.
type Observer interface {
	LevelStarted(size, candidates int)
	CandidateCounted(candidate itemset.Itemset, count int)
	LevelFinished(size, frequent int)
}

// NopObserver ignores every callback.
type NopObserver struct{}

func (NopObserver) LevelStarted(int, int)                 {}
func (NopObserver) CandidateCounted(itemset.Itemset, int) {}
func (NopObserver) LevelFinished(int, int)                {}

// Result holds the frequent itemsets of every non-empty level and the counts
// accumulated over the whole run.
type Result struct {
	// Levels[k-1] holds the frequent itemsets of size k.
	Levels           []itemset.Set
	Frequencies      *Frequencies
	TransactionCount int
}

// Mine runs the level-wise search over every transaction in store.
func Mine(store *dataset.Store, opts Options) *Result {
	obs := opts.Observer
	if obs == nil {
		obs = NopObserver{}
	}

	txs := store.Transactions()
	res := &Result{
		Frequencies:      NewFrequencies(len(txs)),
		TransactionCount: len(txs),
	}
	if len(txs) == 0 {
		return res
	}

	candidates := store.Singletons()
	for k := 1; candidates.Len() > 0; k++ {
		obs.LevelStarted(k, candidates.Len())
		frequent := CountSupport(candidates, txs, res.Frequencies, opts.MinSupport, obs)
		obs.LevelFinished(k, frequent.Len())
		if frequent.Len() == 0 {
			break
		}
		res.Levels = append(res.Levels, frequent)

		candidates = Join(frequent, k+1)
		if opts.PruneCandidates {
			candidates = Prune(candidates, frequent)
		}
	}
	return res
}

// MaxLevel returns the size of the largest frequent itemsets, or 0 when
// nothing was frequent.
func (r *Result) MaxLevel() int {
	return len(r.Levels)
}

// Level returns the frequent itemsets of size k, or nil when there are none.
func (r *Result) Level(k int) itemset.Set {
	if k < 1 || k > len(r.Levels) {
		return nil
	}
	return r.Levels[k-1]
}

// Frequent returns every frequent itemset ordered by size then members.
func (r *Result) Frequent() []itemset.Itemset {
	var out []itemset.Itemset
	for _, level := range r.Levels {
		out = append(out, level.Sorted()...)
	}
	return out
}

// Support returns the support of s as accumulated during the run.
func (r *Result) Support(s itemset.Itemset) (float64, bool) {
	return r.Frequencies.Support(s)
}
