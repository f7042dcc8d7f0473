package rates

import (
	"context"
	"fmt"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go-best-conversion/domain"
	"sync"
	"time"
)

// cachingRepository decorates a Repository with an in-memory copy of the last edge set.
// The cachingRepository is concurrency safe and refreshes the copy once it is older than ttl.
type cachingRepository struct {
	// next the repository being decorated with a cache
	next Repository

	// ttl how long a fetched edge set is served before refreshing
	ttl time.Duration

	// lock synchronizes access to edges and fetched
	lock    sync.RWMutex
	edges   []domain.Edge
	fetched time.Time

	logger log.Logger

	// now is time.Now, swapped in tests
	now func() time.Time
}

// NewCachingRepository returns a new caching Repository
func NewCachingRepository(ttl time.Duration, logger log.Logger, r Repository) Repository {
	return &cachingRepository{
		next:   r,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Fetch serves the cached edges while they are fresh.
// A failed refresh falls back to the stale copy when there is one.
func (r *cachingRepository) Fetch(ctx context.Context) ([]domain.Edge, error) {
	r.lock.RLock()
	edges, fetched := r.edges, r.fetched
	r.lock.RUnlock()

	if edges != nil && r.now().Sub(fetched) < r.ttl {
		return edges, nil
	}

	// Concurrent misses may each refresh. That costs a few extra upstream calls
	// but never blocks readers on the network.
	fresh, err := r.refreshNow(ctx)
	if err != nil {
		if edges != nil {
			level.Warn(r.logger).Log("msg", "refresh failed, serving stale edges", "age", r.now().Sub(fetched), "err", err)
			return edges, nil
		}
		return nil, fmt.Errorf("refreshing cache: %w", err)
	}
	return fresh, nil
}

// refreshNow refreshes the cached edges immediately
func (r *cachingRepository) refreshNow(ctx context.Context) ([]domain.Edge, error) {
	edges, err := r.next.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if edges == nil {
		edges = []domain.Edge{}
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	r.edges = edges
	r.fetched = r.now()
	return edges, nil
}
