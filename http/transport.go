package http

import (
	"encoding/json"
	"errors"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go-best-conversion/conversion"
	"go-best-conversion/domain"
	"go-best-conversion/rates"
	"go-best-conversion/sink"
	"math"
	"net/http"
	"strconv"
	"strings"
)

// Server dependencies for HTTP Server functions
type Server struct {
	Service conversion.Service

	// Source is used for whatever a request leaves out
	Source domain.Source

	// Metrics serves /metrics when set
	Metrics http.Handler

	Logger log.Logger
	router http.ServeMux
}

func NewServer(s conversion.Service, source domain.Source, logger log.Logger) *Server {
	server := &Server{
		Service: s,
		Source:  source,
		Logger:  logger,
		router:  http.ServeMux{},
	}
	server.routes()
	return server
}

func (s *Server) routes() {
	s.router.Handle("/api/conversions", s.conversions())
	s.router.HandleFunc("/healthz", func(rw http.ResponseWriter, _ *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = rw.Write([]byte("ok"))
	})
	s.router.Handle("/metrics", http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if s.Metrics == nil {
			http.NotFound(rw, r)
			return
		}
		s.Metrics.ServeHTTP(rw, r)
	}))
}

func (s *Server) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(rw, r)
}

// conversions produces the HTTP handler listing best conversions out of a source
func (s *Server) conversions() http.HandlerFunc {

	type source struct {
		Code   domain.Currency `json:"code"`
		Name   string          `json:"name"`
		Amount domain.Amount   `json:"amount"`
	}

	type item struct {
		Code   domain.Currency `json:"code"`
		Name   string          `json:"name"`
		Amount domain.Amount   `json:"amount"`
		Path   string          `json:"path"`
	}

	// response for marshalling JSON responses to return to clients
	type response struct {
		Source      source `json:"source"`
		Conversions []item `json:"conversions"`
	}

	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.Header().Set("Allow", http.MethodGet)
			writeError(rw, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		src, err := s.sourceFrom(r)
		if err != nil {
			writeError(rw, http.StatusBadRequest, "invalid amount")
			return
		}

		result, err := s.Service.BestConversions(r.Context(), src)
		if err != nil {
			level.Error(s.Logger).Log("msg", "best conversions", "source", src.Code, "err", err)
			writeError(rw, statusFor(err), "failed conversion")
			return
		}

		if wantsCSV(r) {
			rw.Header().Set("Content-Type", "text/csv; charset=utf-8")
			if err := sink.Render(rw, result); err != nil {
				level.Error(s.Logger).Log("msg", "rendering csv", "err", err)
			}
			return
		}

		resp := response{
			Source:      source{Code: src.Code, Name: src.Name, Amount: src.Amount},
			Conversions: make([]item, 0, len(result)),
		}
		for _, c := range result {
			resp.Conversions = append(resp.Conversions, item{
				Code:   c.Code,
				Name:   c.Name,
				Amount: c.Amount,
				Path:   c.Path.String(),
			})
		}

		rw.Header().Set("Content-Type", "application/json")
		enc := json.NewEncoder(rw)
		if err := enc.Encode(&resp); err != nil {
			level.Error(s.Logger).Log("msg", "encoding json", "err", err)
		}
	}
}

// sourceFrom overlays query parameters code, name and amount on the default source
func (s *Server) sourceFrom(r *http.Request) (domain.Source, error) {
	src := s.Source
	q := r.URL.Query()
	if code := q.Get("code"); code != "" {
		src.Code = domain.Currency(code)
		src.Name = q.Get("name")
	}
	if amount := q.Get("amount"); amount != "" {
		f, err := strconv.ParseFloat(amount, 64)
		if err != nil || !(f > 0) || math.IsInf(f, 1) {
			return domain.Source{}, errors.New("invalid amount")
		}
		src.Amount = domain.Amount(f)
	}
	return src, nil
}

func wantsCSV(r *http.Request) bool {
	if r.URL.Query().Get("format") == "csv" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/csv")
}

// statusFor maps error kinds onto response codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, conversion.ErrInvalidSource):
		return http.StatusBadRequest
	case errors.Is(err, rates.ErrDataUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, conversion.ErrNonTermination), errors.Is(err, conversion.ErrOverflow):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(rw http.ResponseWriter, code int, msg string) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(code)
	_ = json.NewEncoder(rw).Encode(map[string]string{"error": msg})
}
