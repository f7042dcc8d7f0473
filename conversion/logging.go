package conversion

import (
	"context"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go-best-conversion/domain"
	"time"
)

// loggingService decorates a conversion.Service with logging
type loggingService struct {
	logger log.Logger
	next   Service
}

// NewLoggingService returns a new instance of a logging Service
func NewLoggingService(logger log.Logger, s Service) Service {
	return &loggingService{
		next:   s,
		logger: logger,
	}
}

func (s *loggingService) BestConversions(ctx context.Context, source domain.Source) (conversions []domain.Conversion, err error) {
	defer func(begin time.Time) {
		logger := level.Info(s.logger)
		if err != nil {
			logger = level.Error(s.logger)
		}
		logger.Log(
			"method", "best_conversions",
			"source", source.Code,
			"amount", source.Amount,
			"conversions", len(conversions),
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.BestConversions(ctx, source)
}
