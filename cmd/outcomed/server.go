package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/broady/outcome"
	"github.com/broady/outcome/config"
	"github.com/broady/outcome/devtools"
	"github.com/broady/outcome/internal/petstore"
	"github.com/broady/outcome/internal/telemetry"
	"github.com/broady/outcome/internal/tictactoe"
	"github.com/broady/outcome/middleware"
)

const serviceName = "outcomed"

type ServeCmd struct{}

func (c *ServeCmd) Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracer shutdown failed", slog.Any("error", err))
		}
	}()

	app, err := newApp(cfg, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{Addr: cfg.Addr, Handler: app.Handler()}
	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", cfg.Addr), slog.String("version", Version()))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.ShutdownTimeout))
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}

// newApp mounts the example APIs and devtools with the standard middleware stack.
func newApp(cfg config.Config, logger *slog.Logger) (*outcome.App, error) {
	app := outcome.NewApp(outcome.NewRegistry()).
		WithLogger(logger).
		WithMaxRequestBodySize(cfg.MaxBodySize).
		WithInterceptor(middleware.LoggingInterceptor(logger))

	games := tictactoe.NewService(tictactoe.Options{
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
	})
	if err := tictactoe.Mount(app, games); err != nil {
		return nil, fmt.Errorf("mount tictactoe: %w", err)
	}
	if err := petstore.Mount(app, petstore.NewStore(cfg.DefaultPageSize, cfg.MaxPageSize)); err != nil {
		return nil, fmt.Errorf("mount petstore: %w", err)
	}
	if err := devtools.New(app, Version()).Mount(); err != nil {
		return nil, fmt.Errorf("mount devtools: %w", err)
	}

	// Exposed headers come from the registry, so CORS is configured after mounting.
	cors := middleware.DefaultCORSConfig()
	cors.ExposeHeaders = middleware.ContractHeaders(app.Registry())
	if len(cfg.CORSOrigins) > 0 {
		cors.AllowOrigins = cfg.CORSOrigins
	}
	app.WithMiddleware(middleware.RequestID).WithMiddleware(middleware.CORS(cors))
	return app, nil
}

func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
