package usage

import (
	"strings"
	"testing"
)

func TestNewSeedsOverheadIntoHeap(t *testing.T) {
	u := New("widget", 64)
	if u.Heap != 64 {
		t.Errorf("Heap = %d, want 64", u.Heap)
	}
	if u.Overhead != 64 {
		t.Errorf("Overhead = %d, want 64", u.Overhead)
	}
	if u.Count != 1 || u.Active != 1 {
		t.Errorf("Count/Active = %d/%d, want 1/1", u.Count, u.Active)
	}
}

func TestAddSliceAccountsWaste(t *testing.T) {
	u := New("widget", 0)
	u.AddSlice(3, 10, 4) // 3 used, 10 capacity, 4 bytes/elem
	if u.Heap != 40 {
		t.Errorf("Heap = %d, want 40", u.Heap)
	}
	if u.Waste != 28 {
		t.Errorf("Waste = %d, want 28", u.Waste)
	}
}

type fakeReporter struct{ u Usage }

func (f fakeReporter) Usage() Usage { return f.u }

func TestObserveAggregatesCountActiveMinMax(t *testing.T) {
	agg := Usage{Label: "arena"}
	agg.Observe(fakeReporter{New("arena", 100)}, true)
	agg.Observe(fakeReporter{New("arena", 300)}, false)

	if agg.Count != 2 {
		t.Errorf("Count = %d, want 2", agg.Count)
	}
	if agg.Active != 1 {
		t.Errorf("Active = %d, want 1", agg.Active)
	}
	if agg.Min != 100 || agg.Max != 300 {
		t.Errorf("Min/Max = %d/%d, want 100/300", agg.Min, agg.Max)
	}
}

func TestAddDoesNotTouchCountActiveMinMax(t *testing.T) {
	a := Usage{Heap: 10, Count: 5, Active: 3, Min: 1, Max: 2}
	b := Usage{Heap: 20, Waste: 5, Disk: 1}
	a.Add(b)
	if a.Heap != 30 || a.Waste != 5 || a.Disk != 1 {
		t.Errorf("byte sums wrong: %+v", a)
	}
	if a.Count != 5 || a.Active != 3 || a.Min != 1 || a.Max != 2 {
		t.Errorf("Add must not touch bookkeeping fields: %+v", a)
	}
}

func TestStringContainsHumanReadableBreakdown(t *testing.T) {
	u := New("arena", 64)
	u.AddSlice(5, 10, 4)
	u.AddDiskUsage(1024)
	s := u.String()
	for _, want := range []string{"locks", "data", "wasted", "on disk", "across"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestStringOmitsWasteAndDiskWhenZero(t *testing.T) {
	u := New("arena", 0)
	u.AddSlice(10, 10, 4) // no waste
	s := u.String()
	if strings.Contains(s, "wasted") {
		t.Errorf("String() = %q, should omit wasted when Waste is 0", s)
	}
	if strings.Contains(s, "on disk") {
		t.Errorf("String() = %q, should omit on-disk when Disk is 0", s)
	}
}
