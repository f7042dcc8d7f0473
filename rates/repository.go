// Package rates supplies the exchange edges the conversion engine relaxes over.
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"go-best-conversion/domain"
)

// ErrDataUnavailable is wrapped by every error a Repository returns
var ErrDataUnavailable = errors.New("exchange data unavailable")

// Repository supplies the full set of directed exchange edges
type Repository interface {
	Fetch(ctx context.Context) ([]domain.Edge, error)
}

// unavailable wraps err so that errors.Is(err, ErrDataUnavailable) holds
func unavailable(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrDataUnavailable, fmt.Sprintf(format, args...))
}

// decodeEdges parses the JSON list of edges shared by the remote API and the fixture
func decodeEdges(bytes []byte) ([]domain.Edge, error) {
	var edges []domain.Edge
	if err := json.Unmarshal(bytes, &edges); err != nil {
		return nil, unavailable("decoding json: %v", err)
	}
	for i, e := range edges {
		if e.From == "" || e.To == "" {
			return nil, unavailable("edge %d: missing currency code", i)
		}
	}
	return edges, nil
}
