package http

import (
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"net/http"
	"strconv"
	"time"
)

// RequestIDHeader carries the request id in and out
const RequestIDHeader = "X-Request-Id"

// RequestID echoes the caller's request id, minting one when absent
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(RequestIDHeader, id)
		}
		rw.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(rw, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Logging writes one line per request and counts it in requests by path and status
func Logging(logger log.Logger, requests *prometheus.CounterVec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: rw, status: http.StatusOK}
			defer func(begin time.Time) {
				if requests != nil {
					requests.WithLabelValues(route(r.URL.Path), strconv.Itoa(rec.status)).Inc()
				}
				level.Info(logger).Log(
					"method", r.Method,
					"path", r.URL.Path,
					"status", rec.status,
					"request_id", r.Header.Get(RequestIDHeader),
					"took", time.Since(begin),
				)
			}(time.Now())
			next.ServeHTTP(rec, r)
		})
	}
}

// route keeps the metric label set bounded
func route(path string) string {
	switch path {
	case "/api/conversions", "/healthz", "/metrics":
		return path
	}
	return "other"
}
