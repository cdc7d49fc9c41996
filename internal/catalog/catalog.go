// Package catalog implements the "warm restart or migration" data-flow
// described for cold arenas: a durable, Badger-backed index from window
// epoch to an exported Parquet file, with singleflight-deduplicated lazy
// import so that many goroutines racing to read the same not-yet-imported
// epoch only pay the import cost once.
//
// Grounded on this codebase's disk_eject example (Badger as an L2 store)
// and its loader.go singleflight pattern, repurposed from cache-miss
// loading to catalog-entry importing.
//
// © 2025 feedline authors. MIT License.
package catalog

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"

	badger "github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/arena-labs/feedline/internal/content"
)

// Catalog is a durable epoch -> exported-arena-bytes index, with an
// in-memory cache of already-imported arenas.
type Catalog struct {
	db     *badger.DB
	logger *zap.Logger

	group singleflight.Group

	mu    sync.RWMutex
	cache map[content.Timestamp]*content.Cold
}

// Open opens (creating if absent) a Badger database at dir to back the
// catalog.
func Open(dir string, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("catalog: open badger: %w", err)
	}
	return &Catalog{
		db:     db,
		logger: logger,
		cache:  make(map[content.Timestamp]*content.Cold),
	}, nil
}

// Close closes the underlying Badger database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func encodeKey(epoch content.Timestamp) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], epoch)
	return k[:]
}

// Put exports arena and durably records it under its epoch, overwriting any
// previous entry for that epoch. The in-memory cache entry (if any) is
// refreshed to point at the same arena value passed in.
func (c *Catalog) Put(arena *content.Cold) error {
	var buf bytes.Buffer
	if err := arena.Export(&buf); err != nil {
		return fmt.Errorf("catalog: export: %w", err)
	}
	epoch := arena.Span().Epoch
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(encodeKey(epoch), buf.Bytes())
	})
	if err != nil {
		return fmt.Errorf("catalog: persist epoch %d: %w", epoch, err)
	}
	c.mu.Lock()
	c.cache[epoch] = arena
	c.mu.Unlock()
	c.logger.Info("catalog: arena persisted", zap.Uint64("epoch", epoch), zap.Int("bytes", buf.Len()))
	return nil
}

// Load returns the arena for epoch, importing it from Badger on first
// access. Concurrent Load calls for the same epoch that race a cold cache
// are deduplicated: only one goroutine performs the Badger read + Parquet
// import; the rest share its result.
func (c *Catalog) Load(epoch content.Timestamp) (*content.Cold, bool, error) {
	c.mu.RLock()
	if a, ok := c.cache[epoch]; ok {
		c.mu.RUnlock()
		return a, true, nil
	}
	c.mu.RUnlock()

	key := fmt.Sprintf("%d", epoch)
	v, err, shared := c.group.Do(key, func() (any, error) {
		raw, err := c.readBytes(epoch)
		if err != nil {
			return nil, err
		}
		arena, err := content.Import(bytes.NewReader(raw), int64(len(raw)))
		if err != nil {
			return nil, fmt.Errorf("catalog: import epoch %d: %w", epoch, err)
		}
		c.mu.Lock()
		c.cache[epoch] = arena
		c.mu.Unlock()
		return arena, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*content.Cold), shared, nil
}

func (c *Catalog) readBytes(epoch content.Timestamp) ([]byte, error) {
	var raw []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(encodeKey(epoch))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			raw = append([]byte(nil), val...)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: read epoch %d: %w", epoch, err)
	}
	return raw, nil
}

// Epochs lists every epoch currently recorded in the durable catalog.
func (c *Catalog) Epochs() ([]content.Timestamp, error) {
	var out []content.Timestamp
	err := c.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			k := it.Item().Key()
			if len(k) != 8 {
				continue
			}
			out = append(out, binary.BigEndian.Uint64(k))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: list epochs: %w", err)
	}
	return out, nil
}
