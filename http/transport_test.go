package http

import (
	"context"
	"fmt"
	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"go-best-conversion/conversion"
	"go-best-conversion/domain"
	"go-best-conversion/rates"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type mock struct {
	t      *testing.T
	source domain.Source
	err    error
}

func (m *mock) BestConversions(_ context.Context, source domain.Source) ([]domain.Conversion, error) {
	assert.Equal(m.t, m.source, source, "source")
	if m.err != nil {
		return nil, m.err
	}
	return []domain.Conversion{
		{Code: "HKD", Name: "Hong Kong Dollar", Amount: 525, Path: domain.Path{"CAD", "USD", "HKD"}},
	}, nil
}

var cad = domain.Source{Code: "CAD", Name: "Canada Dollar", Amount: 100}

func TestServer_Conversions(t *testing.T) {
	server := NewServer(&mock{t: t, source: cad}, cad, log.NewNopLogger())

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/conversions", nil)

	server.ServeHTTP(w, r)

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t,
		`{"source":{"code":"CAD","name":"Canada Dollar","amount":100},"conversions":[{"code":"HKD","name":"Hong Kong Dollar","amount":525,"path":"CAD | USD | HKD"}]}`,
		strings.TrimSpace(w.Body.String()))
}

func TestServer_ConversionsQuery(t *testing.T) {
	want := domain.Source{Code: "USD", Name: "US Dollar", Amount: 2.5}
	server := NewServer(&mock{t: t, source: want}, cad, log.NewNopLogger())

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/conversions?code=USD&name=US+Dollar&amount=2.5", nil)

	server.ServeHTTP(w, r)

	assert.Equal(t, 200, w.Code)
}

func TestServer_ConversionsCSV(t *testing.T) {
	server := NewServer(&mock{t: t, source: cad}, cad, log.NewNopLogger())

	for _, r := range []*http.Request{
		httptest.NewRequest("GET", "/api/conversions?format=csv", nil),
		func() *http.Request {
			r := httptest.NewRequest("GET", "/api/conversions", nil)
			r.Header.Set("Accept", "text/csv")
			return r
		}(),
	} {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, r)

		assert.Equal(t, 200, w.Code)
		assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, "Currency Code,Currency Name,Amount,Best Path\nHKD,Hong Kong Dollar,525.000000,CAD | USD | HKD\n", w.Body.String())
	}
}

func TestServer_ConversionsErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		method string
		err    error
		code   int
	}{
		{"bad amount", "/api/conversions?amount=abc", "GET", nil, http.StatusBadRequest},
		{"negative amount", "/api/conversions?amount=-1", "GET", nil, http.StatusBadRequest},
		{"infinite amount", "/api/conversions?amount=Inf", "GET", nil, http.StatusBadRequest},
		{"wrong method", "/api/conversions", "POST", nil, http.StatusMethodNotAllowed},
		{"upstream down", "/api/conversions", "GET", fmt.Errorf("x: %w", rates.ErrDataUnavailable), http.StatusBadGateway},
		{"arbitrage", "/api/conversions", "GET", fmt.Errorf("x: %w", conversion.ErrNonTermination), http.StatusUnprocessableEntity},
		{"overflow", "/api/conversions", "GET", fmt.Errorf("x: %w", conversion.ErrOverflow), http.StatusUnprocessableEntity},
		{"other", "/api/conversions", "GET", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := NewServer(&mock{t: t, source: cad, err: tt.err}, cad, log.NewNopLogger())

			w := httptest.NewRecorder()
			server.ServeHTTP(w, httptest.NewRequest(tt.method, tt.target, nil))

			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestServer_Healthz(t *testing.T) {
	server := NewServer(&mock{t: t}, cad, log.NewNopLogger())

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestServer_Metrics(t *testing.T) {
	server := NewServer(&mock{t: t}, cad, log.NewNopLogger())

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	server.Metrics = http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		_, _ = rw.Write([]byte("metrics"))
	})
	w = httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, "metrics", w.Body.String())
}
