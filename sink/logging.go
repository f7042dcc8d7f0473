package sink

import (
	"context"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go-best-conversion/domain"
	"time"
)

// loggingSink decorates a Sink with logging
type loggingSink struct {
	next   Sink
	logger log.Logger
}

// NewLoggingSink return a new logging Sink
func NewLoggingSink(logger log.Logger, s Sink) Sink {
	return &loggingSink{
		next:   s,
		logger: logger,
	}
}

func (s *loggingSink) Write(ctx context.Context, conversions []domain.Conversion) (err error) {
	defer func(begin time.Time) {
		logger := level.Info(s.logger)
		if err != nil {
			logger = level.Error(s.logger)
		}
		logger.Log(
			"method", "write",
			"rows", len(conversions),
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Write(ctx, conversions)
}
