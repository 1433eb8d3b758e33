package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/QingyuanL1/financial-backend-sub000/internal/config"
	"go.uber.org/zap"
)

// ListenAndServe serves handler on cfg.Address until ctx is cancelled, then
// shuts down gracefully within cfg.ShutdownDuration.
func ListenAndServe(ctx context.Context, logger *zap.Logger, cfg config.ServerConfig, handler http.Handler) error {
	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("op", "server.ListenAndServe"),
			zap.String("address", cfg.Address),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownDuration())
	defer cancel()

	logger.Info("shutting down server",
		zap.String("op", "server.ListenAndServe"),
	)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
