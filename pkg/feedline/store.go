// Package feedline is an optional convenience facade bundling a content
// Timeline and a users Relationships graph behind one constructor with
// shared logging/metrics configuration. It does not replace direct
// construction of content.Timeline / users.Relationships / content.Hot,
// which remain independently usable (see internal/content, internal/users).
//
// © 2025 feedline authors. MIT License.
package feedline

import (
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arena-labs/feedline/internal/catalog"
	"github.com/arena-labs/feedline/internal/content"
	"github.com/arena-labs/feedline/internal/users"
)

// Store bundles one Timeline and one Relationships graph — everything a
// single feed-serving process typically needs — with shared instrumentation.
type Store struct {
	Timeline      *content.Timeline
	Relationships *users.Relationships

	cfg     config
	metrics metricsSink
}

// Open constructs a Store. With no options, it opens an empty timeline and
// an empty Relationships graph using the default sharding.
func Open(opts ...Option) (*Store, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	s := &Store{
		Timeline:      content.NewTimeline(),
		Relationships: users.NewRelationships(cfg.sharding),
		cfg:           cfg,
		metrics:       newMetricsSink(cfg.registry),
	}
	s.metrics.setArenaCount(s.Timeline.Len())
	return s, nil
}

// FreezeAndAdd freezes hot into a cold arena and inserts it into the
// timeline, logging the event and updating metrics. This is the common case
// callers reach for instead of calling content.Freeze and Timeline.Add
// separately.
func (s *Store) FreezeAndAdd(hot *content.Hot) (*content.Cold, error) {
	cold, err := content.Freeze(hot)
	if err != nil {
		s.cfg.logger.Error("freeze failed", zap.Error(err))
		return nil, err
	}
	s.Timeline.Add(cold)
	s.metrics.setArenaCount(s.Timeline.Len())
	cu := cold.Usage()
	s.metrics.addFrozenBytes(int64(cu.Disk))
	s.cfg.logger.Info("arena frozen", zap.Int("entries", cold.Len()))
	return cold, nil
}

// FreezeAndAddAll freezes several hot arenas concurrently (one errgroup
// goroutine per arena, with no concurrency limit) and, once every freeze has
// succeeded, adds the resulting cold arenas to the timeline. If any freeze
// fails, the first error is returned and no arena is added. Useful when a
// janitor is closing several windows at once during a compaction pass.
func (s *Store) FreezeAndAddAll(hots []*content.Hot) ([]*content.Cold, error) {
	cold := make([]*content.Cold, len(hots))
	var g errgroup.Group
	for i, h := range hots {
		i, h := i, h
		g.Go(func() error {
			c, err := content.Freeze(h)
			if err != nil {
				return err
			}
			cold[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, c := range cold {
		s.Timeline.Add(c)
	}
	s.metrics.setArenaCount(s.Timeline.Len())
	return cold, nil
}

// LoadFromCatalog fetches the arena for epoch from cat (importing and
// caching it on first access) and records the warm-restart hit/miss metric.
// It does not insert the arena into s.Timeline — callers decide whether a
// warm-restarted arena belongs in the live timeline.
func (s *Store) LoadFromCatalog(cat *catalog.Catalog, epoch content.Timestamp) (*content.Cold, error) {
	arena, hit, err := cat.Load(epoch)
	if err != nil {
		s.metrics.incCatalogMiss()
		return nil, err
	}
	if hit {
		s.metrics.incCatalogHit()
	} else {
		s.metrics.incCatalogMiss()
	}
	return arena, nil
}

// RefreshEdgeMetrics recomputes the follows/blocks gauges. Cheap relative to
// an Add/Remove burst, so it is left to the caller to call periodically
// rather than on every edge mutation.
func (s *Store) RefreshEdgeMetrics() {
	s.metrics.setEdgeCount(int64(s.Relationships.Follows.Len()), int64(s.Relationships.Blocks.Len()))
}
