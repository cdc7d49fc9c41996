package content

import (
	"reflect"
	"testing"

	"pgregory.net/rapid"
)

func TestOrderRangeAsc(t *testing.T) {
	got := Asc.Slice(2, 6)
	want := []int{2, 3, 4, 5}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Asc.Slice(2,6) = %v, want %v", got, want)
	}
}

func TestOrderRangeDesc(t *testing.T) {
	got := Desc.Slice(2, 6)
	want := []int{5, 4, 3, 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Desc.Slice(2,6) = %v, want %v", got, want)
	}
}

func TestOrderRangeEmpty(t *testing.T) {
	if got := Asc.Slice(5, 5); got != nil {
		t.Errorf("Asc.Slice(5,5) = %v, want nil", got)
	}
	if got := Desc.Slice(5, 3); got != nil {
		t.Errorf("Desc.Slice(5,3) = %v, want nil", got)
	}
}

func TestOrderRangeEarlyBreak(t *testing.T) {
	var seen []int
	for i := range Asc.Range(0, 100) {
		seen = append(seen, i)
		if i == 2 {
			break
		}
	}
	want := []int{0, 1, 2}
	if !reflect.DeepEqual(seen, want) {
		t.Errorf("early break sequence = %v, want %v", seen, want)
	}
}

// TestOrderDuality checks that Desc.Slice is exactly the reverse of
// Asc.Slice over the same bounds, for arbitrary non-negative ranges.
func TestOrderDuality(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		start := rapid.IntRange(0, 50).Draw(t, "start")
		end := rapid.IntRange(start, start+50).Draw(t, "end")

		asc := Asc.Slice(start, end)
		desc := Desc.Slice(start, end)

		if len(asc) != len(desc) {
			t.Fatalf("length mismatch: asc=%d desc=%d", len(asc), len(desc))
		}
		for i := range asc {
			if asc[i] != desc[len(desc)-1-i] {
				t.Fatalf("desc is not the reverse of asc at i=%d: asc=%v desc=%v", i, asc, desc)
			}
		}
	})
}

func TestSortIndicesByKey(t *testing.T) {
	keys := []int{30, 10, 20}
	less := func(i, j int) bool { return keys[i] < keys[j] }

	asc := SortIndicesByKey(len(keys), less, Asc)
	wantAsc := []int{1, 2, 0}
	if !reflect.DeepEqual(asc, wantAsc) {
		t.Errorf("SortIndicesByKey(Asc) = %v, want %v", asc, wantAsc)
	}

	desc := SortIndicesByKey(len(keys), less, Desc)
	wantDesc := []int{0, 2, 1}
	if !reflect.DeepEqual(desc, wantDesc) {
		t.Errorf("SortIndicesByKey(Desc) = %v, want %v", desc, wantDesc)
	}
}
