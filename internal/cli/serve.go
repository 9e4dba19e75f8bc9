package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-siggen/internal/redisclient"
	"github.com/goliatone/go-siggen/internal/server"
	"github.com/goliatone/go-siggen/internal/session"
	"github.com/goliatone/go-siggen/pkg/export"
	"github.com/goliatone/go-siggen/pkg/renderers/email"
	"github.com/goliatone/go-siggen/pkg/renderers/preview"
)

func newServeCommand(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the signature editor web service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			if addr != "" {
				cfg.Server.Addr = addr
			}
			logger := a.logger

			store, closeStore, err := a.sessionStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			opts, err := a.renderOptions()
			if err != nil {
				return err
			}
			emailRenderer, err := email.New(email.WithLogoWidth(cfg.Logo.Width))
			if err != nil {
				return err
			}
			previewRenderer, err := preview.New(preview.WithExportRenderer(emailRenderer))
			if err != nil {
				return err
			}

			var clipboard export.Clipboard
			if cfg.Clipboard.ServerSide {
				clipboard = a.clipboard
			}

			srv, err := server.New(cmd.Context(), server.Options{
				Store:        store,
				Logger:       logger,
				Email:        emailRenderer,
				Preview:      previewRenderer,
				Render:       opts,
				Clipboard:    clipboard,
				LogoFile:     cfg.Logo.Path,
				CookieName:   cfg.Session.CookieName,
				CookieSecure: cfg.Session.CookieSecure,
				CookieMaxAge: cfg.Session.TTL,
			})
			if err != nil {
				return err
			}
			defer srv.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("starting siggen",
				zap.String("addr", cfg.Server.Addr),
				zap.String("session_backend", cfg.Session.Backend),
				zap.Bool("server_side_copy", clipboard != nil),
			)
			return server.Run(ctx, srv, server.RunConfig{
				Addr:              cfg.Server.Addr,
				ShutdownGrace:     cfg.Server.ShutdownGrace,
				ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
				Logger:            logger,
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func (a *app) sessionStore(ctx context.Context) (session.Store, func(), error) {
	cfg := a.cfg
	switch strings.ToLower(cfg.Session.Backend) {
	case "redis":
		rdb := redisclient.New(cfg.Redis)
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("cli: redis %s: %w", cfg.Redis.Addr, err)
		}
		return session.NewRedisStore(rdb, cfg.Redis.KeyPrefix, cfg.Session.TTL), func() { _ = rdb.Close() }, nil
	default:
		return session.NewMemoryStore(cfg.Session.TTL), func() {}, nil
	}
}
