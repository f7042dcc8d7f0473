package commands

import (
	"context"
	"errors"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
	"go-best-conversion/http"
	"go-best-conversion/metrics"
	nhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve best conversions over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			return serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from HTTP_ADDR, :8080)")
	return cmd
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := wire(ctx, cfg, logger, true)
	defer a.Close()

	server := http.NewServer(a.Conversions, cfg.HomeSource(), log.With(logger, "component", "http"))
	server.Metrics = metrics.Handler(a.Registry)

	handler := http.RequestID(http.Logging(log.With(logger, "component", "access"), a.Collectors.HTTPRequestsTotal)(server))

	srv := &nhttp.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      cfg.Engine.RunTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		level.Info(logger).Log("msg", "listening", "addr", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, nhttp.ErrServerClosed) {
			level.Error(logger).Log("msg", "http server error", "err", err)
			return err
		}
		return nil
	case <-ctx.Done():
		level.Info(logger).Log("msg", "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		level.Error(logger).Log("msg", "graceful shutdown failed", "err", err)
		return err
	}
	level.Info(logger).Log("msg", "shutdown complete")
	return nil
}
