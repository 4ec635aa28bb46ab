package slug

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/newsline-radio/backend/internal/metrics"
	"github.com/rs/zerolog"
)

// DefaultMaxSuffix is the highest numeric suffix tried before falling back
// to a timestamp suffix.
const DefaultMaxSuffix = 100

// Store answers whether a slug is already assigned to an article.
type Store interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// Resolver turns a base slug into one that no stored article uses yet.
// The check is not transactional; repositories guard the final write.
type Resolver struct {
	store     Store
	now       func() time.Time
	maxSuffix int
	logger    zerolog.Logger
}

// NewResolver creates a Resolver. A nil clock means time.Now.
func NewResolver(store Store, now func() time.Time, logger zerolog.Logger) *Resolver {
	if now == nil {
		now = time.Now
	}
	return &Resolver{
		store:     store,
		now:       now,
		maxSuffix: DefaultMaxSuffix,
		logger:    logger.With().Str("component", "slug-resolver").Logger(),
	}
}

// EnsureUnique returns base when it is free, otherwise the first free
// base-N for N in 1..100. When every candidate is taken, or the store
// cannot be queried, it returns base-<epoch millis> without checking.
func (r *Resolver) EnsureUnique(ctx context.Context, base string) string {
	taken, err := r.store.SlugExists(ctx, base)
	if err != nil {
		return r.fallback(base, "store_error", err)
	}
	if !taken {
		return base
	}
	metrics.SlugCollisions.Inc()

	for n := 1; n <= r.maxSuffix; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		taken, err := r.store.SlugExists(ctx, candidate)
		if err != nil {
			return r.fallback(base, "store_error", err)
		}
		if !taken {
			return candidate
		}
		metrics.SlugCollisions.Inc()
	}

	return r.fallback(base, "exhausted", nil)
}

func (r *Resolver) fallback(base, reason string, err error) string {
	slug := fmt.Sprintf("%s-%d", base, r.now().UnixMilli())
	metrics.SlugFallbacks.WithLabelValues(reason).Inc()
	r.logger.Warn().
		Err(err).
		Str("base", base).
		Str("slug", slug).
		Str("reason", reason).
		Msg("falling back to timestamp slug")
	return slug
}
