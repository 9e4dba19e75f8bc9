// Package cli implements the siggen command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-siggen/internal/config"
	"github.com/goliatone/go-siggen/internal/logging"
	"github.com/goliatone/go-siggen/internal/logo"
	"github.com/goliatone/go-siggen/pkg/export"
	"github.com/goliatone/go-siggen/pkg/render"
	"github.com/goliatone/go-siggen/pkg/renderers/tui"
)

// Option customises the command tree, mostly for tests.
type Option func(*app)

// WithClipboard replaces the system clipboard used by copy and edit.
func WithClipboard(clipboard export.Clipboard) Option {
	return func(a *app) {
		if clipboard != nil {
			a.clipboard = clipboard
		}
	}
}

// WithPromptDriver replaces the interactive prompt used by edit.
func WithPromptDriver(driver tui.PromptDriver) Option {
	return func(a *app) {
		if driver != nil {
			a.prompt = driver
		}
	}
}

type app struct {
	cfgFile   string
	logLevel  string
	cfg       config.Config
	logger    *zap.Logger
	clipboard export.Clipboard
	prompt    tui.PromptDriver
}

// NewRootCommand builds the siggen command tree.
func NewRootCommand(options ...Option) *cobra.Command {
	a := &app{
		clipboard: export.SystemClipboard{},
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}

	root := &cobra.Command{
		Use:           "siggen",
		Short:         "GGS Group email signature generator",
		Long:          "Edit, preview and export the HTML email signature used by GGS Group staff.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.ErrOrStderr())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./siggen.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newServeCommand(a),
		newRenderCommand(a),
		newCopyCommand(a),
		newEditCommand(a),
		newFieldsCommand(a),
	)
	return root
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context, options ...Option) error {
	return NewRootCommand(options...).ExecuteContext(ctx)
}

func (a *app) init(stderr io.Writer) error {
	cfg, used, err := config.Load(config.New(a.cfgFile))
	if err != nil {
		return err
	}
	if level := strings.TrimSpace(a.logLevel); level != "" {
		cfg.App.LogLevel = level
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.App.LogLevel, cfg.App.LogFormat)
	if err != nil {
		return fmt.Errorf("cli: %w", err)
	}
	a.logger = logger
	if used != "" {
		fmt.Fprintf(stderr, "Using config file: %s\n", used)
	}
	return nil
}

// renderOptions resolves the logo and markup settings shared by every command.
func (a *app) renderOptions() (render.RenderOptions, error) {
	opts := render.RenderOptions{
		Markup: render.ParseMarkupMode(a.cfg.Render.Markup),
	}
	if a.cfg.Logo.Path != "" {
		encoded, err := logo.Load(a.cfg.Logo.Path, a.cfg.Logo.Width)
		if err != nil {
			return opts, fmt.Errorf("cli: %w", err)
		}
		opts.Logo = encoded
	}
	return opts, nil
}
