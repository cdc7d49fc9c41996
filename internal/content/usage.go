package content

import "github.com/arena-labs/feedline/pkg/usage"

// Usage reports the hot arena's heap/waste footprint: its three in-memory
// columns (cids, timestamps, uids) plus the in-memory cid dedup set; the
// blob column lives in the builder's temp file and is not counted here. The dedup set's capacity is
// approximated using Go's map bucket overhead constant below, since the
// runtime does not expose a map's actual bucket count.
func (h *Hot) Usage() usage.Usage {
	u := usage.New("hot_arena", 0)
	u.AddSlice(len(h.cids), cap(h.cids), 8)
	u.AddSlice(len(h.timestamps), cap(h.timestamps), 4)
	u.AddSlice(len(h.uids), cap(h.uids), 4)
	// Approximate map overhead: each live entry costs one bucket slot
	// (8 bytes key + ~1 byte tophash, rounded to a fixed per-entry cost);
	// unlike slices Go gives no way to read spare bucket capacity, so waste
	// for the dedup set is not separately accounted (it is dropped whole at
	// freeze regardless).
	const dedupEntryCost = 9
	u.AddHeapUsage(uint64(len(h.cidSet)) * dedupEntryCost)
	return u
}

// Usage reports the cold arena's heap/waste footprint plus its blob store's
// on-disk size.
func (c *Cold) Usage() usage.Usage {
	u := usage.New("cold_arena", 0)
	u.AddSlice(len(c.timestamps), cap(c.timestamps), 4)
	u.AddSlice(len(c.uids), cap(c.uids), 4)
	if c.blobs != nil {
		u.AddDiskUsage(uint64(c.blobs.DiskBytes()))
	}
	return u
}
