package rates

import (
	"context"
	"github.com/prometheus/client_golang/prometheus"
	"go-best-conversion/domain"
	"go-best-conversion/metrics"
	"time"
)

// instrumentingRepository decorates a Repository with prometheus metrics
type instrumentingRepository struct {
	fetches *prometheus.CounterVec
	latency prometheus.Observer
	edges   prometheus.Gauge
	next    Repository
}

// NewInstrumentingRepository counts fetches by outcome, observes their latency
// in seconds and tracks the size of the last good edge set
func NewInstrumentingRepository(fetches *prometheus.CounterVec, latency prometheus.Observer, edges prometheus.Gauge, r Repository) Repository {
	return &instrumentingRepository{
		fetches: fetches,
		latency: latency,
		edges:   edges,
		next:    r,
	}
}

func (r *instrumentingRepository) Fetch(ctx context.Context) (edges []domain.Edge, err error) {
	defer func(begin time.Time) {
		r.fetches.WithLabelValues(metrics.Outcome(err)).Inc()
		r.latency.Observe(time.Since(begin).Seconds())
		if err == nil {
			r.edges.Set(float64(len(edges)))
		}
	}(time.Now())
	return r.next.Fetch(ctx)
}
