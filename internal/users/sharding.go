// Package users implements the sharded, lock-striped relationship graph:
// a Shard of sorted adjacency slices, a UserMap of shards behind per-shard
// locks, and a Relationships pair (follows, blocks) with derived predicates.
//
// © 2025 feedline authors. MIT License.
package users

import "fmt"

// Uid identifies a user, matching content.Uid.
type Uid = uint32

// Sharding selects how many shards a UserMap uses. The twelve variants cover
// every power of two from 2 to 4096; the mapping from variant name to shard
// count is mechanical (S<n> => count = n).
type Sharding uint32

const (
	S2 Sharding = iota + 1
	S4
	S8
	S16
	S32
	S64
	S128
	S256
	S512
	S1024
	S2048
	S4096
)

// Bits returns k, the number of low bits of a uid used to select a shard.
func (s Sharding) Bits() uint32 { return uint32(s) }

// Count returns 2^k, the number of shards.
func (s Sharding) Count() uint32 { return 1 << s.Bits() }

// Mask returns Count()-1, the bitmask applied to a uid to select its shard.
func (s Sharding) Mask() uint32 { return s.Count() - 1 }

// DefaultSharding is used by constructors that accept no explicit Sharding.
const DefaultSharding = S64

var shardingNames = map[Sharding]string{
	S2: "S2", S4: "S4", S8: "S8", S16: "S16", S32: "S32", S64: "S64",
	S128: "S128", S256: "S256", S512: "S512", S1024: "S1024",
	S2048: "S2048", S4096: "S4096",
}

// String returns the variant name, e.g. "S64".
func (s Sharding) String() string {
	if name, ok := shardingNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Sharding(%d)", uint32(s))
}

// ParseSharding parses a variant name such as "S64" back into its Sharding
// value. It returns ErrInvalidSharding for any other input.
func ParseSharding(name string) (Sharding, error) {
	for s, n := range shardingNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSharding, name)
}
