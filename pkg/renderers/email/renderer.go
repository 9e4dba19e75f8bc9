// Package email renders the signature as a self-contained HTML table with
// every style inlined, suitable for pasting into a mail client.
package email

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-siggen/pkg/model"
	"github.com/goliatone/go-siggen/pkg/render"
	rendertemplate "github.com/goliatone/go-siggen/pkg/render/template"
	gotemplate "github.com/goliatone/go-siggen/pkg/render/template/gotemplate"
)

const (
	// Name is the registry key of the renderer.
	Name = "email"

	templateName = "templates/signature.tmpl"

	// DefaultLogoWidth is the display width of the embedded logo in pixels.
	DefaultLogoWidth = 120
)

// Glyphs maps contact icons to the characters printed in exported markup.
var Glyphs = map[model.Icon]string{
	model.IconMail:   "📧",
	model.IconPhone:  "📞",
	model.IconMobile: "📱",
	model.IconGlobe:  "🌐",
	model.IconPin:    "📍",
}

var cellStyles = map[model.RowKind]string{
	model.RowHeading:      "font-size: 18px; font-weight: 600; color: #2c3e50; padding-bottom: 4px;",
	model.RowAccent:       "font-size: 14px; color: #6BAE47; font-weight: 500; padding-bottom: 12px;",
	model.RowOrganization: "font-size: 16px; font-weight: 600; color: #6BAE47; padding-bottom: 8px;",
	model.RowContact:      "padding-bottom: 4px;",
}

const lastRowStyle = "padding-bottom: 8px;"

// Option customises the renderer configuration.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	logoWidth        int
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithLogoWidth overrides the logo display width.
func WithLogoWidth(width int) Option {
	return func(cfg *config) {
		if width > 0 {
			cfg.logoWidth = width
		}
	}
}

// Renderer produces the export markup.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	logoWidth int
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the email renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		logoWidth:  DefaultLogoWidth,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
			gotemplate.WithTemplateFunc(render.TemplateFuncs()),
		)
		if err != nil {
			return nil, fmt.Errorf("email renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, logoWidth: cfg.logoWidth}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render returns the signature table for data. Output depends only on data
// and options, and carries no leading or trailing whitespace.
func (r *Renderer) Render(_ context.Context, data model.SignatureData, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("email renderer: template renderer is nil")
	}

	result, err := r.templates.RenderTemplate(templateName, map[string]any{
		"logo":       options.Logo,
		"logo_width": r.logoWidth,
		"markup":     string(options.MarkupOrDefault()),
		"rows":       rowViews(model.Rows(data)),
	})
	if err != nil {
		return nil, fmt.Errorf("email renderer: render template: %w", err)
	}
	return []byte(strings.TrimSpace(result)), nil
}

func rowViews(rows []model.Row) []any {
	views := make([]any, 0, len(rows))
	for idx, row := range rows {
		style := cellStyles[row.Kind]
		if row.Kind == model.RowContact && idx == len(rows)-1 {
			style = lastRowStyle
		}
		views = append(views, map[string]any{
			"field": string(row.Field),
			"kind":  string(row.Kind),
			"text":  row.Text,
			"href":  row.Href,
			"glyph": Glyphs[row.Icon],
			"style": style,
		})
	}
	return views
}
