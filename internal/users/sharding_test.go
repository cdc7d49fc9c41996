package users

import (
	"errors"
	"testing"

	"pgregory.net/rapid"
)

func TestShardingBitsCountMask(t *testing.T) {
	cases := []struct {
		s            Sharding
		bits         uint32
		count        uint32
		mask         uint32
	}{
		{S2, 1, 2, 1},
		{S64, 6, 64, 63},
		{S4096, 12, 4096, 4095},
	}
	for _, tc := range cases {
		if tc.s.Bits() != tc.bits {
			t.Errorf("%v.Bits() = %d, want %d", tc.s, tc.s.Bits(), tc.bits)
		}
		if tc.s.Count() != tc.count {
			t.Errorf("%v.Count() = %d, want %d", tc.s, tc.s.Count(), tc.count)
		}
		if tc.s.Mask() != tc.mask {
			t.Errorf("%v.Mask() = %d, want %d", tc.s, tc.s.Mask(), tc.mask)
		}
	}
}

func TestShardingStringRoundTrip(t *testing.T) {
	all := []Sharding{S2, S4, S8, S16, S32, S64, S128, S256, S512, S1024, S2048, S4096}
	for _, s := range all {
		name := s.String()
		parsed, err := ParseSharding(name)
		if err != nil {
			t.Fatalf("ParseSharding(%q): %v", name, err)
		}
		if parsed != s {
			t.Errorf("ParseSharding(%q) = %v, want %v", name, parsed, s)
		}
	}
}

func TestParseShardingUnknownName(t *testing.T) {
	if _, err := ParseSharding("S3"); !errors.Is(err, ErrInvalidSharding) {
		t.Errorf("expected ErrInvalidSharding, got %v", err)
	}
}

func TestShardingMappingRoundTrip(t *testing.T) {
	all := []Sharding{S2, S4, S8, S16, S32, S64, S128, S256, S512, S1024, S2048, S4096}
	rapid.Check(t, func(t *rapid.T) {
		idx := rapid.IntRange(0, len(all)-1).Draw(t, "idx")
		s := all[idx]
		if s.Count() != 1<<s.Bits() {
			t.Fatalf("Count() inconsistent with Bits() for %v", s)
		}
		parsed, err := ParseSharding(s.String())
		if err != nil {
			t.Fatalf("ParseSharding round trip failed for %v: %v", s, err)
		}
		if parsed != s {
			t.Fatalf("round trip produced %v, want %v", parsed, s)
		}
	})
}
