package itemset

import "sort"

// Set is a collection of distinct itemsets keyed by their canonical Key.
type Set map[Key]Itemset

// NewSet returns a set holding the given itemsets.
func NewSet(sets ...Itemset) Set {
	s := make(Set, len(sets))
	for _, x := range sets {
		s.Add(x)
	}
	return s
}

// Add inserts x. Adding an itemset that is already present is a no-op.
func (s Set) Add(x Itemset) {
	s[x.Key()] = x
}

// Has reports whether x is present.
func (s Set) Has(x Itemset) bool {
	_, ok := s[x.Key()]
	return ok
}

// Len returns the number of itemsets.
func (s Set) Len() int {
	return len(s)
}

// Sorted returns the itemsets ordered by size, then by canonical members.
func (s Set) Sorted() []Itemset {
	out := make([]Itemset, 0, len(s))
	for _, x := range s {
		out = append(out, x)
	}
	sort.Slice(out, func(i, j int) bool {
		return Less(out[i], out[j])
	})
	return out
}

// Less orders itemsets by size and then lexicographically by members.
func Less(a, b Itemset) bool {
	if a.Len() != b.Len() {
		return a.Len() < b.Len()
	}
	for i := range a.items {
		if a.items[i] != b.items[i] {
			return a.items[i] < b.items[i]
		}
	}
	return false
}
