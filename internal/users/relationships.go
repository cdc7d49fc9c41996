package users

// Relationships bundles the two directed UserMaps that answer the read
// path's per-entry membership queries: Follows (subject follows target) and
// Blocks (subject blocks target).
type Relationships struct {
	Follows *UserMap
	Blocks  *UserMap
}

// NewRelationships constructs an empty Relationships pair, both maps using
// the same Sharding.
func NewRelationships(sharding Sharding) *Relationships {
	return &Relationships{
		Follows: NewUserMap(sharding),
		Blocks:  NewUserMap(sharding),
	}
}

// IsFollowedBy reports whether target follows subject.
func (r *Relationships) IsFollowedBy(subject, target Uid) bool {
	return r.Follows.Contains(target, subject)
}

// IsBlockedBy reports whether target blocks subject.
func (r *Relationships) IsBlockedBy(subject, target Uid) bool {
	return r.Blocks.Contains(target, subject)
}

// IsMutual reports whether subject blocks target AND target follows
// subject (viewer = subject, author = target).
func (r *Relationships) IsMutual(subject, target Uid) bool {
	return r.Blocks.Contains(subject, target) && r.Follows.Contains(target, subject)
}
