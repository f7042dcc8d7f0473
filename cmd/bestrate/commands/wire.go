package commands

import (
	"context"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"go-best-conversion/config"
	"go-best-conversion/conversion"
	"go-best-conversion/metrics"
	"go-best-conversion/rates"
	"io"
)

// app the wired services shared by the sub-commands
type app struct {
	Conversions conversion.Service
	Collectors  *metrics.Collectors
	Registry    *prometheus.Registry

	closers []io.Closer
}

func (a *app) Close() error {
	for _, c := range a.closers {
		_ = c.Close()
	}
	return nil
}

// wire builds the rate repository and conversion service stacks described by cfg.
// A long running process keeps fetched edges in memory for cfg.Cache.TTL.
func wire(ctx context.Context, cfg *config.Config, logger log.Logger, longRunning bool) *app {
	a := &app{Collectors: metrics.New()}
	a.Registry = metrics.Init(a.Collectors, log.With(logger, "component", "metrics"))

	var repository rates.Repository
	if cfg.Develop() {
		repository = rates.NewFixture(cfg.Rates.FixturePath)
		level.Info(logger).Log("msg", "develop mode, reading local fixture", "path", cfg.Rates.FixturePath)
	} else {
		repository = rates.NewRemote(cfg.Rates.Endpoint, cfg.Rates.Seed, rates.WithTimeout(cfg.Rates.Timeout))
	}
	repository = rates.NewLoggingRepository(log.With(logger, "component", "rates"), repository)
	repository = rates.NewInstrumentingRepository(a.Collectors.FetchesTotal, a.Collectors.FetchSeconds, a.Collectors.FetchedEdges, repository)

	if cfg.Cache.RedisURL != "" {
		client, err := rates.NewRedisClient(ctx, cfg.Cache.RedisURL)
		if err != nil {
			// the shared cache is an optimisation, carry on without it
			level.Warn(logger).Log("msg", "redis cache disabled", "err", err)
		} else {
			a.closers = append(a.closers, client)
			repository = rates.NewRedisRepository(client, rates.DefaultRedisKey, cfg.Cache.TTL, log.With(logger, "component", "rates_redis"), repository)
		}
	}

	if longRunning {
		repository = rates.NewCachingRepository(cfg.Cache.TTL, log.With(logger, "component", "rates_cache"), repository)
	}

	var svc conversion.Service
	svc = conversion.NewService(repository, cfg.Engine.MaxSettles)
	svc = conversion.NewLoggingService(log.With(logger, "component", "conversion"), svc)
	svc = conversion.NewInstrumentingService(a.Collectors.ConversionsTotal, a.Collectors.ConversionSeconds, svc)
	a.Conversions = svc

	return a
}
