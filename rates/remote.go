package rates

import (
	"context"
	"fmt"
	"go-best-conversion/domain"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

// remote loads edges from the currency conversion API
type remote struct {
	// endpoint base API url, without the seed
	endpoint string

	// seed selects the data set served by the API
	seed string

	// client for HTTP requests
	client *http.Client
}

// RemoteOption configures a remote Repository
type RemoteOption func(*remote)

// WithHTTPClient replaces the default client
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(r *remote) {
		r.client = c
	}
}

// WithTimeout sets the overall request timeout of the default client
func WithTimeout(d time.Duration) RemoteOption {
	return func(r *remote) {
		r.client.Timeout = d
	}
}

// NewRemote constructs a Repository reading from endpoint?seed=seed
func NewRemote(endpoint, seed string, options ...RemoteOption) Repository {
	r := &remote{
		endpoint: endpoint,
		seed:     seed,
		client:   newHTTPClient(),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

func newHTTPClient() *http.Client {
	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Transport: tr, Timeout: 5 * time.Second}
}

// Fetch loads the current exchange edges.
func (r *remote) Fetch(ctx context.Context) ([]domain.Edge, error) {
	u, err := url.Parse(r.endpoint)
	if err != nil {
		return nil, unavailable("endpoint [%v]: %v", r.endpoint, err)
	}
	q := u.Query()
	q.Set("seed", r.seed)
	u.RawQuery = q.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, unavailable("building http request: %v", err)
	}
	request.Header.Set("Accept", "application/json")

	httpResponse, err := r.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: http get: %w", ErrDataUnavailable, err)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode < 200 || httpResponse.StatusCode > 299 {
		return nil, unavailable("http get [%v]: status %d", u.Redacted(), httpResponse.StatusCode)
	}

	bytes, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return nil, unavailable("reading json: %v", err)
	}

	return decodeEdges(bytes)
}
