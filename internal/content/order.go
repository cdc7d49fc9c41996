package content

import (
	"iter"
	"sort"
)

// Order tags a direction of traversal: ascending or descending.
type Order uint8

const (
	Asc Order = iota
	Desc
)

// Range yields start, start+1, ..., end-1 for Asc, or end-1, ..., start for
// Desc. It is a lazy iter.Seq so callers can range over it and break early
// without materializing the full index set.
func (o Order) Range(start, end int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if end <= start {
			return
		}
		if o == Asc {
			for i := start; i < end; i++ {
				if !yield(i) {
					return
				}
			}
			return
		}
		for i := end - 1; i >= start; i-- {
			if !yield(i) {
				return
			}
		}
	}
}

// Slice materializes Range into a []int, for callers that need a concrete
// slice (tests, anything that cannot use range-over-func).
func (o Order) Slice(start, end int) []int {
	if end <= start {
		return nil
	}
	out := make([]int, 0, end-start)
	for i := range o.Range(start, end) {
		out = append(out, i)
	}
	return out
}

// SortIndicesByKey returns a permutation of [0, n) that orders n physical
// indices ascending (Asc) or descending (Desc) by the supplied key
// extractor. Ties are broken arbitrarily by sort.Slice's unstable algorithm;
// this is safe here because every caller's tiebreaker key (cid, epoch) is
// itself unique within the compared set.
func SortIndicesByKey(n int, less func(i, j int) bool, o Order) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	if o == Asc {
		sort.Slice(perm, func(a, b int) bool { return less(perm[a], perm[b]) })
	} else {
		sort.Slice(perm, func(a, b int) bool { return less(perm[b], perm[a]) })
	}
	return perm
}
