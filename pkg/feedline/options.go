package feedline

// options.go defines the functional options accepted by Open, following the
// same pattern used throughout this codebase: an unexported config struct
// with defaults, mutated by a chain of Option closures, validated once at
// construction time.
//
// © 2025 feedline authors. MIT License.

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/arena-labs/feedline/internal/users"
)

// Option configures a Store returned by Open.
type Option func(*config)

type config struct {
	logger   *zap.Logger
	registry prometheus.Registerer
	sharding users.Sharding
}

func defaultConfig() config {
	return config{
		logger:   zap.NewNop(),
		registry: nil,
		sharding: users.DefaultSharding,
	}
}

// WithLogger attaches a zap logger used for the freeze events logged by
// Store.FreezeAndAdd. Hot-path operations never log.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics enables Prometheus instrumentation, registering this store's
// collectors against reg. Without this option, metric updates are no-ops.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *config) { c.registry = reg }
}

// WithSharding selects the shard count used by the relationship graph.
// Defaults to users.DefaultSharding.
func WithSharding(s users.Sharding) Option {
	return func(c *config) { c.sharding = s }
}

func applyOptions(opts []Option) (config, error) {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	if c.sharding < users.S2 || c.sharding > users.S4096 {
		return config{}, errInvalidSharding
	}
	return c, nil
}

var errInvalidSharding = errors.New("feedline: invalid sharding configuration")
