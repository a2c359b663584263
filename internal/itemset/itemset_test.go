package itemset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DedupsAndSorts(t *testing.T) {
	s := New("milk", "bread", "milk", "eggs")
	assert.Equal(t, []string{"bread", "eggs", "milk"}, s.Items())
	assert.Equal(t, 3, s.Len())
}

func TestKey_OrderIndependent(t *testing.T) {
	a := New("b", "a", "c")
	b := New("c", "b", "a")
	assert.Equal(t, a.Key(), b.Key())
	assert.True(t, a.Equal(b))

	m := map[Key]int{a.Key(): 1}
	m[b.Key()]++
	assert.Len(t, m, 1)
	assert.Equal(t, 2, m[a.Key()])
}

func TestKey_NoCollisionOnSeparators(t *testing.T) {
	// "a:1" as a single label must not collide with two labels.
	one := New("1:a2:bc")
	two := New("a", "bc")
	assert.NotEqual(t, one.Key(), two.Key())
}

func TestSubsetOf(t *testing.T) {
	tx := New("a", "b", "c")
	tests := []struct {
		name string
		set  Itemset
		want bool
	}{
		{"empty", New(), true},
		{"single present", New("b"), true},
		{"pair present", New("a", "c"), true},
		{"equal", New("c", "b", "a"), true},
		{"missing member", New("a", "d"), false},
		{"larger", New("a", "b", "c", "d"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.set.SubsetOf(tx))
		})
	}
}

func TestUnionAndDifference(t *testing.T) {
	a := New("a", "b")
	b := New("b", "c")

	assert.Equal(t, []string{"a", "b", "c"}, a.Union(b).Items())
	assert.Equal(t, []string{"a"}, a.Difference(b).Items())
	assert.True(t, a.Difference(a).Empty())
	assert.Equal(t, []string{"b"}, a.Without("a").Items())
	assert.True(t, a.Contains("b"))
	assert.False(t, a.Contains("c"))
}

func TestSubsets_AllOnce(t *testing.T) {
	s := New("a", "b", "c", "d")
	subs := s.Subsets()
	require.Len(t, subs, 15)

	seen := NewSet()
	for _, sub := range subs {
		assert.False(t, seen.Has(sub), "subset %v produced twice", sub)
		assert.True(t, sub.SubsetOf(s))
		seen.Add(sub)
	}
	assert.Equal(t, 1, subs[0].Len())
	assert.True(t, subs[len(subs)-1].Equal(s))
	assert.Nil(t, New().Subsets())
}

func TestSet_Sorted(t *testing.T) {
	s := NewSet(New("b", "c"), New("a"), New("a", "b"), New("c"), New("a"))
	require.Equal(t, 4, s.Len())

	got := make([]string, 0, s.Len())
	for _, x := range s.Sorted() {
		got = append(got, x.String())
	}
	assert.Equal(t, []string{"{a}", "{c}", "{a, b}", "{b, c}"}, got)
}
