package users

import "testing"

func TestRelationshipsIsFollowedBy(t *testing.T) {
	r := NewRelationships(S64)
	r.Follows.Add(10, 1) // 10 follows 1
	if !r.IsFollowedBy(1, 10) {
		t.Errorf("expected IsFollowedBy(1, 10) true: 10 follows 1")
	}
	if r.IsFollowedBy(10, 1) {
		t.Errorf("expected IsFollowedBy(10, 1) false")
	}
}

func TestRelationshipsIsBlockedBy(t *testing.T) {
	r := NewRelationships(S64)
	r.Blocks.Add(10, 1) // 10 blocks 1
	if !r.IsBlockedBy(1, 10) {
		t.Errorf("expected IsBlockedBy(1, 10) true: 10 blocks 1")
	}
	if r.IsBlockedBy(10, 1) {
		t.Errorf("expected IsBlockedBy(10, 1) false")
	}
}

func TestRelationshipsIsMutual(t *testing.T) {
	r := NewRelationships(S64)
	// viewer=1, author=10: viewer blocks author, and author follows viewer.
	r.Blocks.Add(1, 10)
	r.Follows.Add(10, 1)
	if !r.IsMutual(1, 10) {
		t.Errorf("expected IsMutual(1, 10) true")
	}
	if r.IsMutual(10, 1) {
		t.Errorf("expected IsMutual(10, 1) false: relation is not symmetric")
	}
}

func TestRelationshipsIsMutualRequiresBoth(t *testing.T) {
	r := NewRelationships(S64)
	r.Blocks.Add(1, 10) // only the block, no follow-back
	if r.IsMutual(1, 10) {
		t.Errorf("expected IsMutual(1, 10) false without the matching follow edge")
	}
}

func TestRelationshipsIndependentFollowsAndBlocks(t *testing.T) {
	r := NewRelationships(S64)
	r.Follows.Add(1, 2)
	if r.Blocks.Len() != 0 {
		t.Errorf("adding a follow edge must not affect Blocks")
	}
}
