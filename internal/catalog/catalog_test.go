package catalog

import (
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/arena-labs/feedline/internal/content"
)

func buildArena(t *testing.T, epoch content.Timestamp) *content.Cold {
	t.Helper()
	h, err := content.NewHot(content.NewWindow(epoch, 3600))
	if err != nil {
		t.Fatalf("NewHot: %v", err)
	}
	if err := h.Add(1, 1, epoch+10, []byte("hello")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	cold, err := content.Freeze(h)
	if err != nil {
		t.Fatalf("Freeze: %v", err)
	}
	return cold
}

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	cat, err := Open(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { cat.Close() })
	return cat
}

func TestCatalogPutAndLoadFromCache(t *testing.T) {
	cat := openTestCatalog(t)
	arena := buildArena(t, 1_000_000)
	defer arena.Close()

	if err := cat.Put(arena); err != nil {
		t.Fatalf("Put: %v", err)
	}

	loaded, hit, err := cat.Load(1_000_000)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !hit {
		t.Errorf("expected in-memory cache hit immediately after Put")
	}
	if loaded.Len() != arena.Len() {
		t.Errorf("loaded.Len() = %d, want %d", loaded.Len(), arena.Len())
	}
}

func TestCatalogLoadImportsOnColdCache(t *testing.T) {
	dir := t.TempDir()
	cat1, err := Open(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	arena := buildArena(t, 2_000_000)
	defer arena.Close()
	if err := cat1.Put(arena); err != nil {
		t.Fatalf("Put: %v", err)
	}
	cat1.Close()

	// Reopen against the same directory with a cold in-memory cache.
	cat2, err := Open(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer cat2.Close()

	loaded, hit, err := cat2.Load(2_000_000)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if hit {
		t.Errorf("expected the first Load after reopen to miss the in-memory cache")
	}
	defer loaded.Close()
	if loaded.Len() != arena.Len() {
		t.Errorf("loaded.Len() = %d, want %d", loaded.Len(), arena.Len())
	}
}

func TestCatalogLoadMissingEpoch(t *testing.T) {
	cat := openTestCatalog(t)
	if _, _, err := cat.Load(999); err == nil {
		t.Fatalf("expected error loading an epoch never persisted")
	}
}

func TestCatalogEpochsLists(t *testing.T) {
	cat := openTestCatalog(t)
	a1 := buildArena(t, 1_000_000)
	a2 := buildArena(t, 2_000_000)
	defer a1.Close()
	defer a2.Close()

	if err := cat.Put(a1); err != nil {
		t.Fatalf("Put a1: %v", err)
	}
	if err := cat.Put(a2); err != nil {
		t.Fatalf("Put a2: %v", err)
	}

	epochs, err := cat.Epochs()
	if err != nil {
		t.Fatalf("Epochs: %v", err)
	}
	seen := map[content.Timestamp]bool{}
	for _, e := range epochs {
		seen[e] = true
	}
	if !seen[1_000_000] || !seen[2_000_000] {
		t.Errorf("Epochs() = %v, missing an expected epoch", epochs)
	}
}

// TestCatalogLoadDedupesConcurrentImports exercises the singleflight path:
// many goroutines racing to Load the same not-yet-cached epoch should only
// trigger one Badger read + Parquet import, with every caller observing the
// same arena.
func TestCatalogLoadDedupesConcurrentImports(t *testing.T) {
	dir := t.TempDir()
	seed, err := Open(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	arena := buildArena(t, 3_000_000)
	defer arena.Close()
	if err := seed.Put(arena); err != nil {
		t.Fatalf("Put: %v", err)
	}
	seed.Close()

	cat, err := Open(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer cat.Close()

	const n = 20
	var wg sync.WaitGroup
	results := make([]*content.Cold, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			a, _, err := cat.Load(3_000_000)
			if err != nil {
				t.Errorf("Load: %v", err)
				return
			}
			results[i] = a
		}()
	}
	wg.Wait()

	first := results[0]
	for i, r := range results {
		if r != first {
			t.Errorf("result[%d] is a distinct arena instance; singleflight dedup should share one", i)
		}
	}
}
