package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
)

const tokenPurgeInterval = time.Hour

// Run serves HTTP until ctx is cancelled, alongside the change listener and
// the revoked token purge loop. The first component to fail stops the rest.
func (app *application) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:         net.JoinHostPort("", strconv.Itoa(app.config.Server.Port)),
		Handler:      app.setupRouter(),
		ReadTimeout:  app.config.Server.ReadTimeout,
		WriteTimeout: app.config.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Info("starting server", slog.Int("port", app.config.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	if app.listener != nil {
		g.Go(func() error {
			if err := app.listener.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("change listener failed: %w", err)
			}
			return nil
		})
	}

	if app.tokenPurger != nil {
		g.Go(func() error {
			app.purgeRevokedTokens(gctx, tokenPurgeInterval)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	app.logger.Info("server shutdown completed")
	return nil
}

// purgeRevokedTokens drops expired revocations every interval until ctx
// is done. Failures are logged and retried on the next tick.
func (app *application) purgeRevokedTokens(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.tokenPurger.PurgeRevoked(ctx)
			if err != nil {
				app.logger.Error("failed to purge revoked tokens", slog.String("error", err.Error()))
				continue
			}
			if n > 0 {
				app.logger.Info("purged revoked tokens", slog.Int64("count", n))
			}
		}
	}
}
