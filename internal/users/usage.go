package users

import "github.com/arena-labs/feedline/pkg/usage"

// Usage reports the map's total heap/waste footprint across every shard,
// bucketed under one aggregate with Count/Active set to the shard count and
// the number of non-empty shards.
func (m *UserMap) Usage() usage.Usage {
	u := usage.New("user_map", 0)
	active := 0
	for i := range m.shards {
		h, w := m.shards[i].heapBytes()
		u.AddHeapUsage(uint64(h))
		u.AddHeapWaste(uint64(w))
		if m.shards[i].len() > 0 {
			active++
		}
	}
	u.Count = len(m.shards)
	u.Active = active
	return u
}
