package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/dicionario-backend/internal/transport/middleware"
	"github.com/heartmarshall/dicionario-backend/internal/transport/rest"
)

// NewHTTPHandler mounts all REST handlers over the container's services.
func NewHTTPHandler(c *Container) http.Handler {
	logger := c.Logger
	return rest.NewRouter(rest.RouterDeps{
		Logger:    logger,
		CORS:      c.Config.CORS,
		RateLimit: c.Config.RateLimit,
		Metrics:   c.Metrics,
		Gatherer:  c.Registry,
		Tokens:    c.Auth,
		Limiter:   middleware.NewRateLimiter(10 * time.Minute),

		Health: rest.NewHealthHandler(BuildVersion(), map[string]rest.Checker{"database": c.Pool}),
		Auth:   rest.NewAuthHandler(c.Auth, logger),
		Words:  rest.NewWordHandler(c.Resolver, c.Dictionary, logger),
		Media:  rest.NewMediaHandler(c.Media, logger),
		Games:  rest.NewGameHandler(c.Games, logger),
		Util:   rest.NewUtilHandler(c.Dictionary, c.Pronounce, logger),
	})
}

// Serve runs the HTTP server until ctx is cancelled, then drains in-flight
// requests within the configured shutdown timeout.
func Serve(ctx context.Context, c *Container) error {
	cfg := c.Config.Server
	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:           NewHTTPHandler(c),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("http server listening",
			slog.String("addr", srv.Addr),
			slog.String("version", BuildVersion()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return <-errCh
}
