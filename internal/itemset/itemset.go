// Package itemset provides an immutable, order-independent set of item labels
// that can be used as a map key through its canonical Key.
package itemset

import (
	"sort"
	"strconv"
	"strings"
)

// Key is the canonical encoding of an Itemset. Two itemsets with the same
// members always produce the same Key regardless of construction order.
type Key string

// Itemset is a set of distinct item labels. Members are kept sorted, so the
// zero value is the empty set and values are safe to copy.
type Itemset struct {
	items []string
}

// New builds an itemset from the given labels, collapsing duplicates.
func New(items ...string) Itemset {
	if len(items) == 0 {
		return Itemset{}
	}
	sorted := make([]string, len(items))
	copy(sorted, items)
	sort.Strings(sorted)

	out := sorted[:1]
	for _, item := range sorted[1:] {
		if item != out[len(out)-1] {
			out = append(out, item)
		}
	}
	return Itemset{items: out}
}

// fromSorted wraps an already sorted, duplicate-free slice.
func fromSorted(items []string) Itemset {
	return Itemset{items: items}
}

// Len returns the number of members.
func (s Itemset) Len() int {
	return len(s.items)
}

// Empty reports whether the set has no members.
func (s Itemset) Empty() bool {
	return len(s.items) == 0
}

// Items returns a copy of the members in canonical order.
func (s Itemset) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Key returns the canonical key. Each member is length-prefixed so labels
// may contain any byte without creating collisions.
func (s Itemset) Key() Key {
	var sb strings.Builder
	for _, item := range s.items {
		sb.WriteString(strconv.Itoa(len(item)))
		sb.WriteByte(':')
		sb.WriteString(item)
	}
	return Key(sb.String())
}

// Equal reports whether both sets have the same members.
func (s Itemset) Equal(o Itemset) bool {
	if len(s.items) != len(o.items) {
		return false
	}
	for i := range s.items {
		if s.items[i] != o.items[i] {
			return false
		}
	}
	return true
}

// Contains reports whether item is a member.
func (s Itemset) Contains(item string) bool {
	i := sort.SearchStrings(s.items, item)
	return i < len(s.items) && s.items[i] == item
}

// SubsetOf reports whether every member of s is also a member of t.
func (s Itemset) SubsetOf(t Itemset) bool {
	if len(s.items) > len(t.items) {
		return false
	}
	j := 0
	for _, item := range s.items {
		for j < len(t.items) && t.items[j] < item {
			j++
		}
		if j == len(t.items) || t.items[j] != item {
			return false
		}
		j++
	}
	return true
}

// Union returns the members of s or t.
func (s Itemset) Union(t Itemset) Itemset {
	out := make([]string, 0, len(s.items)+len(t.items))
	i, j := 0, 0
	for i < len(s.items) && j < len(t.items) {
		switch {
		case s.items[i] < t.items[j]:
			out = append(out, s.items[i])
			i++
		case s.items[i] > t.items[j]:
			out = append(out, t.items[j])
			j++
		default:
			out = append(out, s.items[i])
			i++
			j++
		}
	}
	out = append(out, s.items[i:]...)
	out = append(out, t.items[j:]...)
	return fromSorted(out)
}

// Difference returns the members of s that are not in t.
func (s Itemset) Difference(t Itemset) Itemset {
	out := make([]string, 0, len(s.items))
	j := 0
	for _, item := range s.items {
		for j < len(t.items) && t.items[j] < item {
			j++
		}
		if j < len(t.items) && t.items[j] == item {
			continue
		}
		out = append(out, item)
	}
	return fromSorted(out)
}

// Without returns a copy of s with item removed.
func (s Itemset) Without(item string) Itemset {
	return s.Difference(fromSorted([]string{item}))
}

// Subsets returns every non-empty subset of s, including s itself, ordered by
// size and then by member position. A set of n members yields 2^n - 1 subsets.
func (s Itemset) Subsets() []Itemset {
	n := len(s.items)
	if n == 0 {
		return nil
	}
	out := make([]Itemset, 0, (1<<n)-1)
	for size := 1; size <= n; size++ {
		combinations(n, size, func(idx []int) {
			items := make([]string, size)
			for i, x := range idx {
				items[i] = s.items[x]
			}
			out = append(out, fromSorted(items))
		})
	}
	return out
}

// combinations calls do with every increasing index tuple of length k drawn
// from [0, n).
func combinations(n, k int, do func([]int)) {
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		do(idx)
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// String renders the set as "{a, b, c}".
func (s Itemset) String() string {
	return "{" + strings.Join(s.items, ", ") + "}"
}
