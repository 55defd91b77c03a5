package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/viajeia/viajeia/internal/config"
)

const drainTimeout = 5 * time.Second

// RunServer starts the HTTP server and shuts it down gracefully on SIGTERM or
// SIGINT, draining in-flight requests for up to five seconds.
func RunServer(cfg config.Config) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("server: invalid configuration: %w", err)
	}

	services, err := NewServices(cfg, logger)
	if err != nil {
		return fmt.Errorf("server: %w", err)
	}

	handler := NewHandler(cfg, services, logger)

	server := &http.Server{
		Addr:              cfg.Bind,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	pidFile := PIDFilePath(cfg.DataDir)
	if err := writePIDFile(pidFile); err != nil {
		logger.Warn("failed to write PID file", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	logger.Info("server listening", "address", cfg.Bind, "model", cfg.OpenAI.Model)

	select {
	case <-ctx.Done():
		logger.Info("received signal, shutting down")
	case err := <-errCh:
		os.Remove(pidFile)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen %s: %w", cfg.Bind, err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("drain timeout, forcing shutdown", "error", err)
		server.Close()
	}

	os.Remove(pidFile)
	return nil
}
