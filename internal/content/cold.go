package content

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/arena-labs/feedline/internal/content/blobstore"
)

// epochMetadataKey and durationMetadataKey are the two file-level Parquet
// key/value metadata keys an exported arena MUST carry. These are wire
// constants shared with every other implementation of this export format,
// not an internal naming choice.
const (
	epochMetadataKey    = "crimeline.epoch"
	durationMetadataKey = "crimeline.duration"
)

// Cold is an immutable, sorted-by-(timestamp,cid) view of one window's
// entries, produced either by Freeze or by Import.
type Cold struct {
	span       Window
	timestamps []uint32 // relative to span.Epoch, non-decreasing
	uids       []Uid
	blobs      *blobstore.Store
}

// Freeze consumes a hot arena, sorting its entries by (timestamp, cid)
// ascending and finalizing its blob store into a single contiguous file.
// The hot arena must not be used after this call succeeds.
func Freeze(h *Hot) (*Cold, error) {
	if h.frozen {
		return nil, ErrArenaFrozen
	}
	if err := h.flush(); err != nil {
		return nil, err
	}
	n := len(h.cids)
	perm := SortIndicesByKey(n, func(i, j int) bool {
		if h.timestamps[i] != h.timestamps[j] {
			return h.timestamps[i] < h.timestamps[j]
		}
		return h.cids[i] < h.cids[j]
	}, Asc)

	sortedTS := make([]uint32, n)
	sortedUids := make([]Uid, n)
	for i, p := range perm {
		sortedTS[i] = h.timestamps[p]
		sortedUids[i] = h.uids[p]
	}

	store, err := h.blobs.BuildAndSort(perm)
	if err != nil {
		return nil, fmt.Errorf("content: freeze: %w", err)
	}
	h.frozen = true
	h.cidSet = nil

	return &Cold{span: h.span, timestamps: sortedTS, uids: sortedUids, blobs: store}, nil
}

// Len returns the number of rows in the arena.
func (c *Cold) Len() int { return len(c.timestamps) }

// IsEmpty reports whether the arena holds zero rows.
func (c *Cold) IsEmpty() bool { return len(c.timestamps) == 0 }

// Span returns the arena's window.
func (c *Cold) Span() Window { return c.span }

// Close releases the arena's blob store (unmaps and removes its temp file).
func (c *Cold) Close() error {
	if c.blobs == nil {
		return nil
	}
	return c.blobs.Close()
}

// ColdEntry is one (uid, timestamp, cid, blob) row yielded by Cold.Iter.
type ColdEntry struct {
	cold *Cold
	idx  int
}

// Uid returns the entry's author.
func (e ColdEntry) Uid() Uid { return e.cold.uids[e.idx] }

// Timestamp returns the entry's absolute timestamp.
func (e ColdEntry) Timestamp() Timestamp {
	return e.cold.span.ToAbsolute(e.cold.timestamps[e.idx])
}

// Resolve returns the entry's content id and blob bytes.
func (e ColdEntry) Resolve() (Cid, []byte) {
	return e.cold.blobs.Resolve(e.idx)
}

// skipFor returns the first row index whose absolute timestamp is >= start.
// If start is at or before the arena's epoch, no rows are skipped.
func (c *Cold) skipFor(start Timestamp) int {
	if start <= c.span.Epoch {
		return 0
	}
	n := len(c.timestamps)
	return sort.Search(n, func(i int) bool {
		return c.span.ToAbsolute(c.timestamps[i]) >= start
	})
}

// Iter returns a lazy sequence of entries with timestamp >= start, in
// ascending or descending (timestamp, cid) order depending on order.
func (c *Cold) Iter(order Order, start Timestamp) func(yield func(ColdEntry) bool) {
	return func(yield func(ColdEntry) bool) {
		skip := c.skipFor(start)
		n := len(c.timestamps)
		for idx := range order.Range(skip, n) {
			if !yield(ColdEntry{cold: c, idx: idx}) {
				return
			}
		}
	}
}

// coldRow is the Parquet row shape for the stable export/import format.
type coldRow struct {
	Uid       uint32 `parquet:"uid"`
	Cid       uint64 `parquet:"cid"`
	Timestamp uint64 `parquet:"timestamp"`
	Blob      []byte `parquet:"blob"`
}

// Export writes the arena as a columnar Parquet file compressed with Zstd
// level 3, carrying the window in crimeline.epoch/crimeline.duration
// key/value metadata. Rows are written in on-disk (sort) order, handed to the
// Parquet writer in blobBatchSize-row batches; row-group boundaries are left
// to the writer.
func (c *Cold) Export(w io.Writer) error {
	writer := parquet.NewGenericWriter[coldRow](w,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata(epochMetadataKey, strconv.FormatUint(c.span.Epoch, 10)),
		parquet.KeyValueMetadata(durationMetadataKey, strconv.FormatUint(uint64(c.span.Duration), 10)),
	)

	n := c.Len()
	batch := make([]coldRow, 0, blobBatchSize)
	for idx := 0; idx < n; idx++ {
		cid, blob := c.blobs.Resolve(idx)
		batch = append(batch, coldRow{
			Uid:       c.uids[idx],
			Cid:       cid,
			Timestamp: c.span.ToAbsolute(c.timestamps[idx]),
			Blob:      blob,
		})
		if len(batch) == blobBatchSize {
			if _, err := writer.Write(batch); err != nil {
				writer.Close()
				return fmt.Errorf("content: export: write batch: %w", err)
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if _, err := writer.Write(batch); err != nil {
			writer.Close()
			return fmt.Errorf("content: export: write final batch: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("content: export: close writer: %w", err)
	}
	return nil
}

// Import reads a Parquet file written by Export and reconstructs the
// equivalent Cold arena. Because the rows on disk are already in
// (timestamp, cid) order, finalization uses blobstore's presorted path.
func Import(r io.ReaderAt, size int64) (*Cold, error) {
	pf, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("content: import: open file: %w", err)
	}

	epochStr, ok := lookupMetadata(pf, epochMetadataKey)
	if !ok {
		return nil, fmt.Errorf("content: import: %w: missing %s", ErrMissingMetadata, epochMetadataKey)
	}
	durationStr, ok := lookupMetadata(pf, durationMetadataKey)
	if !ok {
		return nil, fmt.Errorf("content: import: %w: missing %s", ErrMissingMetadata, durationMetadataKey)
	}
	epoch, err := strconv.ParseUint(epochStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("content: import: %w: unparsable %s: %v", ErrMissingMetadata, epochMetadataKey, err)
	}
	duration, err := strconv.ParseUint(durationStr, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("content: import: %w: unparsable %s: %v", ErrMissingMetadata, durationMetadataKey, err)
	}
	span := NewWindow(epoch, uint32(duration))

	reader := parquet.NewGenericReader[coldRow](pf)
	defer reader.Close()

	builder, err := blobstore.NewBuilder()
	if err != nil {
		return nil, err
	}

	var timestamps []uint32
	var uids []Uid
	rows := make([]coldRow, blobBatchSize)
	var pendingCids []Cid
	var pendingBlobs [][]byte
	for {
		n, err := reader.Read(rows)
		for i := 0; i < n; i++ {
			row := rows[i]
			rel, convErr := span.ToRelative(row.Timestamp)
			if convErr != nil {
				return nil, fmt.Errorf("content: import: row timestamp out of window: %w", convErr)
			}
			timestamps = append(timestamps, rel)
			uids = append(uids, row.Uid)
			pendingCids = append(pendingCids, row.Cid)
			pendingBlobs = append(pendingBlobs, row.Blob)
			if len(pendingCids) >= blobBatchSize {
				if appendErr := builder.Append(pendingCids, pendingBlobs); appendErr != nil {
					return nil, appendErr
				}
				pendingCids = pendingCids[:0]
				pendingBlobs = pendingBlobs[:0]
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("content: import: read rows: %w", err)
		}
		if n == 0 {
			break
		}
	}
	if len(pendingCids) > 0 {
		if err := builder.Append(pendingCids, pendingBlobs); err != nil {
			return nil, err
		}
	}

	store, err := builder.BuildPresorted()
	if err != nil {
		return nil, fmt.Errorf("content: import: finalize blob store: %w", err)
	}

	return &Cold{span: span, timestamps: timestamps, uids: uids, blobs: store}, nil
}

func lookupMetadata(pf *parquet.File, key string) (string, bool) {
	for _, kv := range pf.Metadata().KeyValueMetadata {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}
