package rates

import (
	"context"
	_ "embed"
	"go-best-conversion/domain"
	"os"
)

//go:embed fixture/local.json
var defaultFixture []byte

// fixture serves edges from a local JSON file, for development runs
type fixture struct {
	path string
}

// NewFixture constructs a Repository reading the JSON file at path.
// An empty path serves the fixture compiled into the binary.
func NewFixture(path string) Repository {
	return &fixture{path: path}
}

func (f *fixture) Fetch(_ context.Context) ([]domain.Edge, error) {
	if f.path == "" {
		return decodeEdges(defaultFixture)
	}
	bytes, err := os.ReadFile(f.path)
	if err != nil {
		return nil, unavailable("reading fixture: %v", err)
	}
	return decodeEdges(bytes)
}
