package content

import (
	"github.com/arena-labs/feedline/internal/content/blobstore"
)

// blobBatchSize is how many (cid, blob) rows are buffered before being
// flushed to the blob builder as one IPC record batch, amortizing per-batch
// overhead. Cold.Export and Import also use it as their row batch size.
const blobBatchSize = 256

// Entry is one logical (uid, cid, timestamp, blob) row, as supplied to
// Hot.Add/AddBulk.
type Entry struct {
	Uid       Uid
	Cid       Cid
	Timestamp Timestamp
	Blob      []byte
}

// Hot is a write-optimized, single-writer window of entries. It dedups by
// cid (first writer wins) and accumulates parallel columns plus a private
// on-disk blob store. It is consumed exactly once, by Freeze.
type Hot struct {
	span       Window
	blobs      *blobstore.Builder
	cidSet     map[Cid]struct{}
	cids       []Cid
	timestamps []uint32 // relative to span.Epoch
	uids       []Uid

	pendingCids  []Cid
	pendingBlobs [][]byte

	frozen bool
}

// NewHot creates an empty hot arena for the given window.
func NewHot(span Window) (*Hot, error) {
	b, err := blobstore.NewBuilder()
	if err != nil {
		return nil, err
	}
	return &Hot{
		span:   span,
		blobs:  b,
		cidSet: make(map[Cid]struct{}),
	}, nil
}

// Add appends one entry. Duplicate cids (already present in this arena) are
// a silent no-op; the first writer wins. ts must fall inside the arena's
// window.
func (h *Hot) Add(uid Uid, cid Cid, ts Timestamp, blob []byte) error {
	if h.frozen {
		return ErrArenaFrozen
	}
	rel, err := h.span.ToRelative(ts)
	if err != nil {
		return err
	}
	if _, dup := h.cidSet[cid]; dup {
		return nil
	}
	h.cidSet[cid] = struct{}{}
	h.cids = append(h.cids, cid)
	h.timestamps = append(h.timestamps, rel)
	h.uids = append(h.uids, uid)

	h.pendingCids = append(h.pendingCids, cid)
	h.pendingBlobs = append(h.pendingBlobs, blob)
	if len(h.pendingCids) >= blobBatchSize {
		return h.flush()
	}
	return nil
}

// AddBulk adds a batch of entries, applying the same dedup rule across the
// whole batch as Add applies individually. Entries are internally chunked
// into blobBatchSize-sized groups to amortize blob-batch writes, exactly as
// repeated Add calls would.
func (h *Hot) AddBulk(entries []Entry) error {
	for _, e := range entries {
		if err := h.Add(e.Uid, e.Cid, e.Timestamp, e.Blob); err != nil {
			return err
		}
	}
	return nil
}

func (h *Hot) flush() error {
	if len(h.pendingCids) == 0 {
		return nil
	}
	if err := h.blobs.Append(h.pendingCids, h.pendingBlobs); err != nil {
		return err
	}
	h.pendingCids = h.pendingCids[:0]
	h.pendingBlobs = h.pendingBlobs[:0]
	return nil
}

// Len reports the number of distinct entries accepted so far.
func (h *Hot) Len() int { return len(h.cids) }

// IsEmpty reports whether the arena holds zero entries.
func (h *Hot) IsEmpty() bool { return len(h.cids) == 0 }

// Span returns the arena's window.
func (h *Hot) Span() Window { return h.span }
