package domain

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestPath_Revisits(t *testing.T) {
	assert.False(t, Path{}.Revisits())
	assert.False(t, Path{"CAD"}.Revisits())
	assert.False(t, Path{"CAD", "USD", "EUR"}.Revisits())
	assert.True(t, Path{"CAD", "USD", "EUR", "USD"}.Revisits())
	assert.True(t, Path{"CAD", "USD", "CAD"}.Revisits())
	assert.True(t, Path{"CAD", "USD", "USD"}.Revisits())
}

func TestPath_AppendCopies(t *testing.T) {
	p := make(Path, 1, 4)
	p[0] = "CAD"

	a := p.Append("USD")
	b := p.Append("EUR")

	assert.Equal(t, "CAD | USD", a.String())
	assert.Equal(t, "CAD | EUR", b.String())
}
