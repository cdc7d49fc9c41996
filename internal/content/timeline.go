package content

import (
	"sort"
	"sync/atomic"
)

// Timeline owns an atomically-swappable, epoch-ordered set of cold arenas.
// Mutators (Add, RemoveByEpoch) run a compare-and-swap read-copy-update
// loop; readers take a wait-free snapshot load and iterate it without ever
// blocking a concurrent writer, and without a concurrent writer ever
// invalidating entries already yielded.
type Timeline struct {
	arenas atomic.Pointer[[]*Cold]
}

// NewTimeline builds a Timeline seeded with the given arenas, sorted by
// epoch ascending.
func NewTimeline(arenas ...*Cold) *Timeline {
	sorted := append([]*Cold(nil), arenas...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].span.Epoch < sorted[j].span.Epoch })
	t := &Timeline{}
	t.arenas.Store(&sorted)
	return t
}

// snapshot returns the current arena slice. The returned slice must never be
// mutated in place; callers that want to change membership must clone it.
func (t *Timeline) snapshot() []*Cold {
	p := t.arenas.Load()
	if p == nil {
		return nil
	}
	return *p
}

// Add inserts arena into the timeline's epoch-ordered set, retrying under
// contention. If an arena with the same epoch already exists, it is not
// touched — epoch-level de-duplication is the caller's responsibility via
// RemoveByEpoch first.
func (t *Timeline) Add(arena *Cold) {
	for {
		old := t.arenas.Load()
		var oldSlice []*Cold
		if old != nil {
			oldSlice = *old
		}
		pos := sort.Search(len(oldSlice), func(i int) bool {
			return oldSlice[i].span.Epoch >= arena.span.Epoch
		})
		if pos < len(oldSlice) && oldSlice[pos].span.Epoch == arena.span.Epoch {
			return
		}
		next := make([]*Cold, 0, len(oldSlice)+1)
		next = append(next, oldSlice[:pos]...)
		next = append(next, arena)
		next = append(next, oldSlice[pos:]...)
		if t.arenas.CompareAndSwap(old, &next) {
			return
		}
	}
}

// RemoveByEpoch removes the arena at the given epoch, if any. Removing an
// absent epoch is an idempotent no-op.
func (t *Timeline) RemoveByEpoch(epoch Timestamp) {
	for {
		old := t.arenas.Load()
		var oldSlice []*Cold
		if old != nil {
			oldSlice = *old
		}
		found := -1
		for i, a := range oldSlice {
			if a.span.Epoch == epoch {
				found = i
				break
			}
		}
		if found < 0 {
			return
		}
		next := make([]*Cold, 0, len(oldSlice)-1)
		next = append(next, oldSlice[:found]...)
		next = append(next, oldSlice[found+1:]...)
		if t.arenas.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Len returns the number of arenas in the current snapshot.
func (t *Timeline) Len() int { return len(t.snapshot()) }

// IsEmpty reports whether the current snapshot holds zero arenas.
func (t *Timeline) IsEmpty() bool { return t.Len() == 0 }

// Iter walks every relevant arena in the snapshot taken at call time, in Asc
// or Desc (timestamp, cid) order within each arena and in arena-epoch order
// across arenas. Arenas whose entire span ends before start are skipped
// without computing a per-arena skip index. The snapshot is stable for the
// life of the returned sequence: concurrent Add/RemoveByEpoch calls never
// affect entries already being yielded.
func (t *Timeline) Iter(start Timestamp, order Order) func(yield func(ColdEntry) bool) {
	return func(yield func(ColdEntry) bool) {
		snap := t.snapshot()
		first := 0
		for first < len(snap) && snap[first].span.EndExclusive() <= start {
			first++
		}
		relevant := snap[first:]

		walk := func(idx int) bool {
			arena := relevant[idx]
			for e := range arena.Iter(order, start) {
				if !yield(e) {
					return false
				}
			}
			return true
		}

		if order == Asc {
			for i := 0; i < len(relevant); i++ {
				if !walk(i) {
					return
				}
			}
			return
		}
		for i := len(relevant) - 1; i >= 0; i-- {
			if !walk(i) {
				return
			}
		}
	}
}
