package conversion

import (
	"context"
	"fmt"
	"go-best-conversion/domain"
	"go-best-conversion/rates"
)

// Service finds the best conversions out of a source currency
type Service interface {
	BestConversions(ctx context.Context, source domain.Source) ([]domain.Conversion, error)
}

// service computes conversions over the edges supplied by a rates.Repository
type service struct {
	// repository supplies the exchange edges for each request
	repository rates.Repository

	// maxSettles the relaxation budget handed to Best
	maxSettles int
}

// NewService constructs a valid Service. maxSettles of zero or less disables the relaxation budget.
func NewService(r rates.Repository, maxSettles int) Service {
	return &service{
		repository: r,
		maxSettles: maxSettles,
	}
}

// BestConversions fetches the current edges and relaxes them from source.
func (s *service) BestConversions(ctx context.Context, source domain.Source) ([]domain.Conversion, error) {
	edges, err := s.repository.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("best conversions from [%v]: %w", source.Code, err)
	}

	conversions, err := Best(source, edges, WithContext(ctx), WithMaxSettles(s.maxSettles))
	if err != nil {
		return nil, fmt.Errorf("best conversions from [%v]: %w", source.Code, err)
	}
	return conversions, nil
}
