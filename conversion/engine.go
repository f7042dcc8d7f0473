package conversion

import (
	"context"
	"errors"
	"fmt"
	"go-best-conversion/domain"
	"math"
)

// DefaultMaxSettles bounds the relaxation loop when no budget is given.
// Real rate sets settle a few hundred times at most.
const DefaultMaxSettles = 1_000_000

var (
	// ErrNonTermination is returned when a cycle with a rate product above 1 is
	// reachable from the source, or when the relaxation budget is exhausted.
	ErrNonTermination = errors.New("relaxation did not converge")

	// ErrInvalidSource is returned when the source amount is not a positive finite number
	ErrInvalidSource = errors.New("invalid source")

	// ErrOverflow is returned when a path's amount exceeds the float64 range
	ErrOverflow = errors.New("amount overflowed")
)

type options struct {
	ctx        context.Context
	maxSettles int
}

// Option configures a call to Best
type Option func(*options)

// WithMaxSettles caps the number of accepted relaxations. Zero or less removes the cap.
func WithMaxSettles(n int) Option {
	return func(o *options) {
		o.maxSettles = n
	}
}

// WithContext makes Best stop with the context's error once ctx is done
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		o.ctx = ctx
	}
}

// frontier a candidate waiting in the work queue
type frontier struct {
	code   domain.Currency
	name   string
	amount domain.Amount
	path   domain.Path
}

// Best computes, for every currency reachable from source through edges, the
// largest amount of source.Amount that can be converted into it and the path
// achieving it.
//
// Candidates are processed first-in first-out. A candidate replaces the
// recorded best only when its amount is strictly greater, so among equal
// maxima the first one discovered is kept. Records are returned in the order
// their currencies were first reached. The source itself is never returned.
//
// Every prefix of an accepted path was itself accepted, at an amount no
// greater than the current record for its last currency. An accepted path
// that revisits a currency therefore closes a gain cycle, and Best fails with
// ErrNonTermination as soon as one is found.
func Best(source domain.Source, edges []domain.Edge, opts ...Option) ([]domain.Conversion, error) {
	o := options{
		ctx:        context.Background(),
		maxSettles: DefaultMaxSettles,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if !(source.Amount > 0) || math.IsInf(float64(source.Amount), 1) {
		return nil, fmt.Errorf("amount %v: %w", source.Amount, ErrInvalidSource)
	}

	outgoing := map[domain.Currency][]domain.Edge{}
	for _, e := range edges {
		outgoing[e.From] = append(outgoing[e.From], e)
	}

	// best maps a currency to its position in records
	best := map[domain.Currency]int{}
	var records []domain.Conversion

	queue := []frontier{{
		code:   source.Code,
		name:   source.Name,
		amount: source.Amount,
		path:   domain.Path{source.Code},
	}}

	settles := 0
	for len(queue) > 0 {
		e := queue[0]
		queue[0] = frontier{}
		queue = queue[1:]

		i, seen := best[e.code]
		if seen && !(records[i].Amount < e.amount) {
			continue
		}

		settles++
		if o.maxSettles > 0 && settles > o.maxSettles {
			return nil, fmt.Errorf("%d settles from [%v]: %w", o.maxSettles, source.Code, ErrNonTermination)
		}
		if err := o.ctx.Err(); err != nil {
			return nil, fmt.Errorf("relaxing from [%v]: %w", source.Code, err)
		}
		if e.path.Revisits() {
			return nil, fmt.Errorf("gain cycle through [%v] on path %v: %w", e.code, e.path, ErrNonTermination)
		}
		if math.IsInf(float64(e.amount), 1) {
			return nil, fmt.Errorf("amount of [%v] on path %v: %w", e.code, e.path, ErrOverflow)
		}

		record := domain.Conversion{Code: e.code, Name: e.name, Amount: e.amount, Path: e.path}
		if seen {
			records[i] = record
		} else {
			best[e.code] = len(records)
			records = append(records, record)
		}

		for _, edge := range outgoing[e.code] {
			queue = append(queue, frontier{
				code:   edge.To,
				name:   edge.ToName,
				amount: e.amount * domain.Amount(edge.Rate),
				path:   e.path.Append(edge.To),
			})
		}
	}

	result := make([]domain.Conversion, 0, len(records))
	for _, r := range records {
		if r.Code == source.Code {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}
