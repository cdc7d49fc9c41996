// Package usage provides a uniform heap/waste/disk accounting abstraction
// shared by the components of this module: hot and cold arenas (the cold
// arena including its blob store's disk size) and the user maps all expose a
// ReportUsage implementation so callers can print one consistent breakdown
// across very different underlying structures.
//
// Carried over from the original system's usage-reporting module (not part
// of the distilled surface, but cheap and useful to keep — see DESIGN.md).
//
// © 2025 feedline authors. MIT License.
package usage

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// ReportUsage is implemented by anything that can describe its own
// heap/waste/disk footprint. Reporting must be purely observational — it
// must never affect the reported component's semantics or state.
type ReportUsage interface {
	Usage() Usage
}

// Usage aggregates the heap, waste, and disk footprint of one or more
// components sharing a label, plus bookkeeping (count/active/min/max) for
// displaying a breakdown across many instances of the same kind of thing
// (e.g. "3 cold arenas").
type Usage struct {
	Label string

	Heap  uint64
	Waste uint64
	Disk  uint64

	// Overhead is a fixed per-instance cost (e.g. a mutex, a slice header)
	// folded into Heap by New but tracked here so callers that want to
	// decompose "locks" vs "data" in String can do so.
	Overhead uint64

	Count  int
	Active int
	Min    uint64
	Max    uint64
}

// New creates a Usage for a single instance, setting Count and Active to 1
// and folding overhead into Heap. Min and Max start at zero; only Observe
// updates them.
func New(label string, overhead uint64) Usage {
	return Usage{
		Label:    label,
		Heap:     overhead,
		Overhead: overhead,
		Count:    1,
		Active:   1,
	}
}

// AddHeapUsage adds n bytes of heap usage to u.
func (u *Usage) AddHeapUsage(n uint64) { u.Heap += n }

// AddHeapWaste adds n bytes of (allocated but unused) heap waste to u.
func (u *Usage) AddHeapWaste(n uint64) { u.Waste += n }

// AddDiskUsage adds n bytes of on-disk footprint to u.
func (u *Usage) AddDiskUsage(n uint64) { u.Disk += n }

// AddSlice accounts for a slice's capacity as heap and its unused capacity
// (cap-len) as waste, given the byte size of one element.
func (u *Usage) AddSlice(length, capacity int, elemSize uint64) {
	u.Heap += uint64(capacity) * elemSize
	u.Waste += uint64(capacity-length) * elemSize
}

// total is the sum this Usage represents: heap + waste + disk.
func (u Usage) total() uint64 { return u.Heap + u.Waste + u.Disk }

// Observe folds one component's reported Usage into an aggregate, updating
// count/active/min/max alongside the heap/waste/disk sums.
func (u *Usage) Observe(other ReportUsage, active bool) {
	o := other.Usage()
	u.Heap += o.Heap
	u.Waste += o.Waste
	u.Disk += o.Disk
	u.Count++
	if active {
		u.Active++
	}
	total := o.total()
	if u.Count == 1 || total < u.Min {
		u.Min = total
	}
	if total > u.Max {
		u.Max = total
	}
	if u.Label == "" {
		u.Label = o.Label
	}
}

// Add sums heap, waste, and disk from other into u. Count/Active/Min/Max are
// deliberately left untouched — they describe instance bookkeeping, not a
// quantity that composes under addition the way byte counts do.
func (u *Usage) Add(other Usage) {
	u.Heap += other.Heap
	u.Waste += other.Waste
	u.Disk += other.Disk
}

// String renders a human-readable breakdown, e.g.:
//
//	"536 B (64 B locks + 400 B data, 72 B wasted) across 3 (2 active, 0 B..300 B)"
func (u Usage) String() string {
	data := u.Heap - u.Overhead
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s", humanize.IBytes(u.total()))
	fmt.Fprintf(&sb, " (%s locks + %s data", humanize.IBytes(u.Overhead), humanize.IBytes(data))
	if u.Waste > 0 {
		fmt.Fprintf(&sb, ", %s wasted", humanize.IBytes(u.Waste))
	}
	if u.Disk > 0 {
		fmt.Fprintf(&sb, ", %s on disk", humanize.IBytes(u.Disk))
	}
	sb.WriteString(")")
	if u.Count > 0 {
		fmt.Fprintf(&sb, " across %d (%d active, %s..%s)", u.Count, u.Active, humanize.IBytes(u.Min), humanize.IBytes(u.Max))
	}
	return sb.String()
}
