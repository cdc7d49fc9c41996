package users

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/arena-labs/feedline/internal/unsafehelpers"
)

// UserMap is a lock-striped directed many-to-many relation over user ids: a
// fixed set of shards, each guarded by its own reader-writer lock, chosen by
// the low k bits of the subject uid so that writers to different shards run
// fully in parallel.
type UserMap struct {
	sharding Sharding
	mask     Uid
	bits     uint32
	locks    []sync.RWMutex
	shards   []Shard
	count    atomic.Int64
}

// NewUserMap constructs an empty UserMap with 2^sharding.Bits() shards.
func NewUserMap(sharding Sharding) *UserMap {
	n := sharding.Count()
	if !unsafehelpers.IsPowerOfTwo(uintptr(n)) {
		panic("users: shard count must be a power of two")
	}
	return &UserMap{
		sharding: sharding,
		mask:     sharding.Mask(),
		bits:     sharding.Bits(),
		locks:    make([]sync.RWMutex, n),
		shards:   make([]Shard, n),
	}
}

// find maps a user id to its (shard index, slot index) pair: shard = u &
// mask selects one of the 2^k shards, slot = u >> k is the dense index
// within that shard's outer slice.
func (m *UserMap) find(u Uid) (shardIdx, slot int) {
	return int(u & m.mask), int(u >> m.bits)
}

// Add inserts the directed edge subject->target. Re-adding an existing edge
// is a silent no-op.
func (m *UserMap) Add(subject, target Uid) {
	shardIdx, slot := m.find(subject)
	m.locks[shardIdx].Lock()
	added := m.shards[shardIdx].Insert(slot, target)
	m.locks[shardIdx].Unlock()
	if added {
		m.count.Add(1)
	}
}

// AddBulk inserts many directed edges subject->targets[i] at once. The
// targets are copied, sorted, and deduplicated, then merged in a single pass
// per subject — strictly cheaper than one Add per target for len(targets) >
// 1, and it produces identical final membership.
func (m *UserMap) AddBulk(subject Uid, targets []Uid) {
	if len(targets) == 0 {
		return
	}
	sorted := append([]Uid(nil), targets...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	deduped := sorted[:1]
	for _, t := range sorted[1:] {
		if t != deduped[len(deduped)-1] {
			deduped = append(deduped, t)
		}
	}

	shardIdx, slot := m.find(subject)
	m.locks[shardIdx].Lock()
	added := m.shards[shardIdx].Merge(slot, deduped)
	m.locks[shardIdx].Unlock()
	if added > 0 {
		m.count.Add(int64(added))
	}
}

// Remove deletes the directed edge subject->target, if present.
func (m *UserMap) Remove(subject, target Uid) {
	shardIdx, slot := m.find(subject)
	m.locks[shardIdx].Lock()
	removed := m.shards[shardIdx].Delete(slot, target)
	m.locks[shardIdx].Unlock()
	if removed {
		m.count.Add(-1)
	}
}

// Contains reports whether the directed edge subject->target exists.
func (m *UserMap) Contains(subject, target Uid) bool {
	shardIdx, slot := m.find(subject)
	m.locks[shardIdx].RLock()
	defer m.locks[shardIdx].RUnlock()
	inner, ok := m.shards[shardIdx].Get(slot)
	if !ok {
		return false
	}
	pos := sort.Search(len(inner), func(i int) bool { return inner[i] >= target })
	return pos < len(inner) && inner[pos] == target
}

// Len returns the total number of edges. It is advisory: the atomic counter
// is updated after the shard lock is released, so it may momentarily lag
// individual shard states, but is eventually consistent at quiescence.
func (m *UserMap) Len() int { return int(m.count.Load()) }

// IsEmpty reports whether the map currently holds zero edges.
func (m *UserMap) IsEmpty() bool { return m.Len() == 0 }

// Sharding returns the sharding configuration this map was constructed with.
func (m *UserMap) Sharding() Sharding { return m.sharding }

// heapBytes sums heap/waste across every shard, for Usage reporting.
func (m *UserMap) heapBytes() (heap, waste int) {
	for i := range m.shards {
		h, w := m.shards[i].heapBytes()
		heap += h
		waste += w
	}
	return heap, waste
}
