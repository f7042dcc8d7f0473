package conversion

import (
	"context"
	"github.com/prometheus/client_golang/prometheus"
	"go-best-conversion/domain"
	"go-best-conversion/metrics"
	"time"
)

// instrumentingService decorates a conversion.Service with prometheus metrics
type instrumentingService struct {
	requests *prometheus.CounterVec
	latency  prometheus.Observer
	next     Service
}

// NewInstrumentingService counts requests by outcome and observes their latency in seconds
func NewInstrumentingService(requests *prometheus.CounterVec, latency prometheus.Observer, s Service) Service {
	return &instrumentingService{
		requests: requests,
		latency:  latency,
		next:     s,
	}
}

func (s *instrumentingService) BestConversions(ctx context.Context, source domain.Source) (conversions []domain.Conversion, err error) {
	defer func(begin time.Time) {
		s.requests.WithLabelValues(metrics.Outcome(err)).Inc()
		s.latency.Observe(time.Since(begin).Seconds())
	}(time.Now())
	return s.next.BestConversions(ctx, source)
}
