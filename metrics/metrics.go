package metrics

import (
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
)

const namespace = "bestrate"

// Collectors the metrics recorded by the instrumenting decorators
type Collectors struct {
	FetchesTotal      *prometheus.CounterVec
	FetchSeconds      prometheus.Histogram
	FetchedEdges      prometheus.Gauge
	ConversionsTotal  *prometheus.CounterVec
	ConversionSeconds prometheus.Histogram
	HTTPRequestsTotal *prometheus.CounterVec
}

// New builds a fresh set of collectors. Nothing is registered.
func New() *Collectors {
	return &Collectors{
		FetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_fetches_total",
			Help:      "Exchange edge fetches by outcome",
		}, []string{"outcome"}),
		FetchSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rate_fetch_seconds",
			Help:      "Exchange edge fetch latency",
			Buckets:   prometheus.DefBuckets,
		}),
		FetchedEdges: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rate_fetched_edges",
			Help:      "Number of edges in the last successful fetch",
		}),
		ConversionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "best_conversions_total",
			Help:      "Best conversion computations by outcome",
		}, []string{"outcome"}),
		ConversionSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "best_conversion_seconds",
			Help:      "Fetch plus relaxation latency",
			Buckets:   prometheus.DefBuckets,
		}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"route", "code"}),
	}
}

// Init registers c together with the go and process collectors on a new registry
func Init(c *Collectors, logger log.Logger) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	toRegister := []prometheus.Collector{
		c.FetchesTotal, c.FetchSeconds, c.FetchedEdges,
		c.ConversionsTotal, c.ConversionSeconds,
		c.HTTPRequestsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}
	for _, col := range toRegister {
		if err := reg.Register(col); err != nil {
			level.Warn(logger).Log("msg", "registering collector", "err", err)
		}
	}
	level.Debug(logger).Log("msg", "prometheus metrics initialized")
	return reg
}

// Handler exposes reg in the prometheus text format
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Outcome labels a result for the *_total counters
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
