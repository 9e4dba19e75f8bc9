package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// RunConfig controls the listener started by Run.
type RunConfig struct {
	Addr              string
	ShutdownGrace     time.Duration
	ReadHeaderTimeout time.Duration
	// Listener replaces the TCP listener on Addr when set.
	Listener net.Listener
	Logger   *zap.Logger
}

// Run serves handler until ctx is done, then shuts down gracefully within
// ShutdownGrace.
func Run(ctx context.Context, handler http.Handler, cfg RunConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ShutdownGrace <= 0 {
		cfg.ShutdownGrace = 10 * time.Second
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		var err error
		if cfg.Listener != nil {
			logger.Info("listening", zap.String("addr", cfg.Listener.Addr().String()))
			err = httpServer.Serve(cfg.Listener)
		} else {
			logger.Info("listening", zap.String("addr", cfg.Addr))
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err, ok := <-errChan:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("grace", cfg.ShutdownGrace))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err, ok := <-errChan; ok {
		return err
	}
	return nil
}
