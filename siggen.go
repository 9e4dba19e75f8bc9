// Package siggen renders the GGS Group email signature from a small record of
// contact details. It wires the email, preview and terminal renderers into a
// registry and offers one-call helpers for the common case.
package siggen

import (
	"context"
	"fmt"

	"github.com/goliatone/go-siggen/pkg/model"
	"github.com/goliatone/go-siggen/pkg/render"
	"github.com/goliatone/go-siggen/pkg/renderers/email"
	"github.com/goliatone/go-siggen/pkg/renderers/preview"
	"github.com/goliatone/go-siggen/pkg/renderers/tui"
)

// SignatureData aliases the record rendered into a signature.
type SignatureData = model.SignatureData

// RenderOptions aliases render.RenderOptions for callers of the root package.
type RenderOptions = render.RenderOptions

// Default returns the sample record shown when the editor opens.
func Default() SignatureData {
	return model.Default()
}

// Option configures the registry built by NewRegistry.
type Option func(*registryConfig)

type registryConfig struct {
	email   []email.Option
	preview []preview.Option
	tui     []tui.Option
}

// WithEmailOptions forwards options to the email renderer.
func WithEmailOptions(options ...email.Option) Option {
	return func(cfg *registryConfig) {
		cfg.email = append(cfg.email, options...)
	}
}

// WithPreviewOptions forwards options to the preview renderer.
func WithPreviewOptions(options ...preview.Option) Option {
	return func(cfg *registryConfig) {
		cfg.preview = append(cfg.preview, options...)
	}
}

// WithTUIOptions forwards options to the terminal renderer.
func WithTUIOptions(options ...tui.Option) Option {
	return func(cfg *registryConfig) {
		cfg.tui = append(cfg.tui, options...)
	}
}

// NewRegistry returns a registry holding the email (default), preview and tui
// renderers. The preview page uses the same email renderer for its export box.
func NewRegistry(options ...Option) (*render.Registry, error) {
	var cfg registryConfig
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	emailRenderer, err := email.New(cfg.email...)
	if err != nil {
		return nil, fmt.Errorf("siggen: %w", err)
	}
	previewOptions := append([]preview.Option{preview.WithExportRenderer(emailRenderer)}, cfg.preview...)
	previewRenderer, err := preview.New(previewOptions...)
	if err != nil {
		return nil, fmt.Errorf("siggen: %w", err)
	}
	tuiRenderer, err := tui.New(cfg.tui...)
	if err != nil {
		return nil, fmt.Errorf("siggen: %w", err)
	}

	registry := render.NewRegistry()
	for _, r := range []render.Renderer{emailRenderer, previewRenderer, tuiRenderer} {
		if err := registry.Register(r); err != nil {
			return nil, fmt.Errorf("siggen: %w", err)
		}
	}
	return registry, nil
}

// RenderHTML renders the export signature for data with the email renderer.
func RenderHTML(ctx context.Context, data SignatureData, options ...Option) (string, error) {
	return RenderWith(ctx, email.Name, data, RenderOptions{}, options...)
}

// RenderWith renders data with the named renderer. A blank name selects the
// email renderer.
func RenderWith(ctx context.Context, rendererName string, data SignatureData, renderOptions RenderOptions, options ...Option) (string, error) {
	registry, err := NewRegistry(options...)
	if err != nil {
		return "", err
	}
	renderer, err := registry.Resolve(rendererName)
	if err != nil {
		return "", fmt.Errorf("siggen: %w", err)
	}
	out, err := renderer.Render(ctx, data, renderOptions)
	if err != nil {
		return "", fmt.Errorf("siggen: render %s: %w", renderer.Name(), err)
	}
	return string(out), nil
}
