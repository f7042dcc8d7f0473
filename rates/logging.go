package rates

import (
	"context"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go-best-conversion/domain"
	"time"
)

// loggingRepository decorates a Repository with logging
type loggingRepository struct {
	next   Repository
	logger log.Logger
}

// NewLoggingRepository return a new logging Repository
func NewLoggingRepository(logger log.Logger, r Repository) Repository {
	return &loggingRepository{
		next:   r,
		logger: logger,
	}
}

func (r *loggingRepository) Fetch(ctx context.Context) (edges []domain.Edge, err error) {
	defer func(begin time.Time) {
		logger := level.Debug(r.logger)
		if err != nil {
			logger = level.Error(r.logger)
		}
		logger.Log(
			"method", "fetch",
			"edges", len(edges),
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Fetch(ctx)
}
