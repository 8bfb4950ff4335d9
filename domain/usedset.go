package domain

import (
	"fmt"
	"math/bits"
	"strings"
)

/*
UsedSet is the set of attribute indexes already consumed by splits on
the path from the root of a tree to a node. Its methods never modify the
receiver, so a set can be shared by every node of a branch.
*/
type UsedSet struct {
	words []uint64
}

// NewUsedSet returns a set with the given attribute indexes
func NewUsedSet(indexes ...int) UsedSet {
	var us UsedSet
	for _, i := range indexes {
		us = us.With(i)
	}
	return us
}

// With returns a new set with the given index added
func (us UsedSet) With(i int) UsedSet {
	w := i / 64
	n := len(us.words)
	if w >= n {
		n = w + 1
	}
	words := make([]uint64, n)
	copy(words, us.words)
	words[w] |= 1 << uint(i%64)
	return UsedSet{words}
}

// Has returns whether the index is in the set
func (us UsedSet) Has(i int) bool {
	w := i / 64
	if i < 0 || w >= len(us.words) {
		return false
	}
	return us.words[w]&(1<<uint(i%64)) != 0
}

// Len returns the number of indexes in the set
func (us UsedSet) Len() int {
	var n int
	for _, w := range us.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Indexes returns the indexes in the set in ascending order
func (us UsedSet) Indexes() []int {
	var result []int
	for wi, w := range us.words {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			result = append(result, wi*64+b)
			w &^= 1 << uint(b)
		}
	}
	return result
}

/*
MarkDomains takes a list of attribute domains and returns copies of them
with the ones in the set marked as used. This is the per-branch view of
the schema that nodes of a tree expose.
*/
func (us UsedSet) MarkDomains(attributes []*AttributeDomain) []*AttributeDomain {
	result := make([]*AttributeDomain, len(attributes))
	for i, a := range attributes {
		result[i] = a.Copy()
		if us.Has(i) {
			result[i].MarkUsed()
		}
	}
	return result
}

func (us UsedSet) String() string {
	idx := us.Indexes()
	s := make([]string, len(idx))
	for i, v := range idx {
		s[i] = fmt.Sprintf("%d", v)
	}
	return "{" + strings.Join(s, ",") + "}"
}
