package sink

import (
	"bytes"
	"context"
	"errors"
	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-best-conversion/domain"
	"os"
	"path/filepath"
	"testing"
)

var conversions = []domain.Conversion{
	{Code: "USD", Name: "United States Dollar", Amount: 75, Path: domain.Path{"CAD", "USD"}},
	{Code: "HKD", Name: "Hong Kong Dollar", Amount: 561.0000000000001, Path: domain.Path{"CAD", "USD", "CNY", "HKD"}},
	{Code: "BTC", Name: "Bitcoin", Amount: 0.0012345678, Path: domain.Path{"CAD", "USD", "BTC"}},
}

const rendered = "Currency Code,Currency Name,Amount,Best Path\n" +
	"USD,United States Dollar,75.000000,CAD | USD\n" +
	"HKD,Hong Kong Dollar,561.000000,CAD | USD | CNY | HKD\n" +
	"BTC,Bitcoin,0.001235,CAD | USD | BTC\n"

func TestRender(t *testing.T) {
	var buf bytes.Buffer

	err := Render(&buf, conversions)

	require.NoError(t, err)
	assert.Equal(t, rendered, buf.String())
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount domain.Amount
		want   string
	}{
		{75, "75.000000"},
		{0, "0.000000"},
		{561.0000000000001, "561.000000"},
		// exactly halfway in binary, rounds up
		{0.0078125, "0.007813"},
		{-0.0078125, "-0.007813"},
		// the nearest float64 sits just below or above the written decimal
		{0.1234565, "0.123456"},
		{123.4567895, "123.456789"},
		{1.0000005, "1.000001"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.amount), "%v", float64(tt.amount))
	}
}

func TestRender_Empty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Render(&buf, nil))

	assert.Equal(t, "Currency Code,Currency Name,Amount,Best Path\n", buf.String())
}

func TestRender_QuotesCommas(t *testing.T) {
	var buf bytes.Buffer

	err := Render(&buf, []domain.Conversion{{Code: "KRW", Name: "Korea (South), Won", Amount: 1, Path: domain.Path{"CAD", "KRW"}}})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `KRW,"Korea (South), Won",1.000000,CAD | KRW`)
}

func TestCSVFile_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	s := NewLoggingSink(log.NewNopLogger(), NewCSVFile(path))

	require.NoError(t, s.Write(context.Background(), conversions))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, rendered, string(b))

	// rewriting replaces the previous content
	require.NoError(t, s.Write(context.Background(), conversions[:1]))
	b, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Currency Code,Currency Name,Amount,Best Path\nUSD,United States Dollar,75.000000,CAD | USD\n", string(b))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files left behind")
}

func TestCSVFile_WriteFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", DefaultFileName)

	err := NewCSVFile(path).Write(context.Background(), conversions)

	assert.True(t, errors.Is(err, ErrWriteFailure), "got %v", err)
}

func TestNewCSVFile_DefaultName(t *testing.T) {
	assert.Equal(t, DefaultFileName, NewCSVFile("").(*csvFile).path)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).Write(context.Background(), conversions))
	assert.Equal(t, rendered, buf.String())

	err := NewWriter(failingWriter{}).Write(context.Background(), conversions)
	assert.ErrorIs(t, err, ErrWriteFailure)
}
