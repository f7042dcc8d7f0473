// Package sink persists best conversions.
package sink

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"go-best-conversion/domain"
	"github.com/shopspring/decimal"
	"io"
	"math"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
)

// DefaultFileName is written to the working directory when no path is configured
const DefaultFileName = "optimal_conversions.csv"

// ErrWriteFailure is wrapped by every error a Sink returns
var ErrWriteFailure = errors.New("writing conversions failed")

// Header the first CSV row
var Header = []string{"Currency Code", "Currency Name", "Amount", "Best Path"}

// Sink persists a set of conversions
type Sink interface {
	Write(ctx context.Context, conversions []domain.Conversion) error
}

// Render encodes conversions as CSV onto w: a header row then one row per
// conversion, amounts with six decimals and paths joined by " | ".
func Render(w io.Writer, conversions []domain.Conversion) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, c := range conversions {
		row := []string{
			string(c.Code),
			c.Name,
			FormatAmount(c.Amount),
			c.Path.String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// AmountDecimals is the number of fraction digits written for an amount
const AmountDecimals = 6

// FormatAmount renders a with AmountDecimals fraction digits, rounding the
// exact binary value half away from zero.
func FormatAmount(a domain.Amount) string {
	f := float64(a)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'f', AmountDecimals, 64)
	}
	return exact(f).StringFixed(AmountDecimals)
}

// exact converts f to a decimal without any rounding: mant * 2^exp, with a
// negative exp written as mant * 5^-exp * 10^exp.
func exact(f float64) decimal.Decimal {
	frac, exp := math.Frexp(f)
	mant := big.NewInt(int64(math.Ldexp(frac, 53)))
	exp -= 53
	if exp >= 0 {
		return decimal.NewFromBigInt(mant.Lsh(mant, uint(exp)), 0)
	}
	five := new(big.Int).Exp(big.NewInt(5), big.NewInt(int64(-exp)), nil)
	return decimal.NewFromBigInt(mant.Mul(mant, five), int32(exp))
}

// csvFile writes conversions to a CSV file, replacing it atomically
type csvFile struct {
	path string
}

// NewCSVFile constructs a Sink writing to path. An empty path means DefaultFileName.
func NewCSVFile(path string) Sink {
	if path == "" {
		path = DefaultFileName
	}
	return &csvFile{path: path}
}

func (s *csvFile) Write(_ context.Context, conversions []domain.Conversion) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("%w: creating [%v]: %w", ErrWriteFailure, s.path, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = Render(tmp, conversions); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: encoding [%v]: %w", ErrWriteFailure, s.path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: closing [%v]: %w", ErrWriteFailure, s.path, err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("%w: chmod [%v]: %w", ErrWriteFailure, s.path, err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: renaming to [%v]: %w", ErrWriteFailure, s.path, err)
	}
	return nil
}

// writerSink renders conversions onto an io.Writer, e.g. stdout
type writerSink struct {
	w io.Writer
}

// NewWriter constructs a Sink rendering CSV onto w
func NewWriter(w io.Writer) Sink {
	return &writerSink{w: w}
}

func (s *writerSink) Write(_ context.Context, conversions []domain.Conversion) error {
	if err := Render(s.w, conversions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	return nil
}
