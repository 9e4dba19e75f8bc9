// Package preview renders the interactive signature page: the field form, a
// live preview card, the copy control and the manual-copy source box.
package preview

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
	"github.com/goliatone/go-siggen/pkg/renderers/email"
	"github.com/goliatone/go-siggen/pkg/schema"
)

const (
	// Name is the registry key of the renderer.
	Name = "preview"

	pageTemplate     = "templates/page.tmpl"
	fragmentTemplate = "templates/preview.tmpl"

	// PreviewElementID is the id of the preview card root element.
	PreviewElementID = "signature-preview"
)

// Steps are the usage instructions shown under the preview.
var Steps = []string{
	`Click "Copy HTML" above`,
	"Open Outlook → File → Options → Mail → Signatures",
	"Create new signature and paste the HTML code",
	"Set as default signature for new messages",
}

// Option customises the renderer configuration.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	icons            map[model.Icon]string
	assetPrefix      string
	apiPrefix        string
	exporter         render.Renderer
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

// WithIcons overrides contact icons. Markup is sanitised with an SVG-only
// policy; icons not named keep their default.
func WithIcons(icons map[model.Icon]string) Option {
	return func(cfg *config) {
		for icon, markup := range icons {
			cfg.icons[icon] = markup
		}
	}
}

// WithAssetPrefix sets the URL path stylesheet, script and logo are served
// from.
func WithAssetPrefix(prefix string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimRight(strings.TrimSpace(prefix), "/"); trimmed != "" {
			cfg.assetPrefix = trimmed
		}
	}
}

// WithAPIPrefix sets the URL path the page script talks to.
func WithAPIPrefix(prefix string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimRight(strings.TrimSpace(prefix), "/"); trimmed != "" {
			cfg.apiPrefix = trimmed
		}
	}
}

// WithExportRenderer sets the renderer that fills the manual-copy box when
// RenderOptions.ExportHTML is empty.
func WithExportRenderer(renderer render.Renderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.exporter = renderer
		}
	}
}

// Renderer produces the page and the preview fragment.
type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	icons       map[model.Icon]string
	assetPrefix string
	apiPrefix   string
	exporter    render.Renderer
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the preview renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:  TemplatesFS(),
		icons:       make(map[model.Icon]string, len(DefaultIcons)),
		assetPrefix: DefaultAssetPrefix,
		apiPrefix:   "/api",
	}
	for icon, markup := range DefaultIcons {
		cfg.icons[icon] = markup
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
			return nil, fmt.Errorf("preview renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	exporter := cfg.exporter
	if exporter == nil {
		emailRenderer, err := email.New()
		if err != nil {
			return nil, fmt.Errorf("preview renderer: configure export renderer: %w", err)
		}
		exporter = emailRenderer
	}

	return &Renderer{
		templates:   renderer,
		icons:       sanitizeIcons(cfg.icons),
		assetPrefix: cfg.assetPrefix,
		apiPrefix:   cfg.apiPrefix,
		exporter:    exporter,
	}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render returns the full page for data.
func (r *Renderer) Render(ctx context.Context, data model.SignatureData, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("preview renderer: template renderer is nil")
	}

	fragment, err := r.RenderFragment(ctx, data, options)
	if err != nil {
		return nil, err
	}

	exportHTML := options.ExportHTML
	if exportHTML == "" {
		out, err := r.exporter.Render(ctx, data, options)
		if err != nil {
			return nil, fmt.Errorf("preview renderer: render export markup: %w", err)
		}
		exportHTML = string(out)
	}

	specs := options.Fields
	if len(specs) == 0 {
		specs, err = schema.FieldSpecs(ctx)
		if err != nil {
			return nil, fmt.Errorf("preview renderer: load field specs: %w", err)
		}
	}

	fields, err := fieldViews(specs, data)
	if err != nil {
		return nil, fmt.Errorf("preview renderer: %w", err)
	}

	copyMode := options.CopyMode
	if copyMode == "" {
		copyMode = render.CopyBrowser
	}

	result, err := r.templates.RenderTemplate(pageTemplate, map[string]any{
		"asset_prefix": r.assetPrefix,
		"api_prefix":   r.apiPrefix,
		"stylesheet":   StylesheetName,
		"script":       RuntimeScriptName,
		"fields":       fields,
		"preview":      string(fragment),
		"copied":       options.Copied,
		"copy_mode":    string(copyMode),
		"steps":        Steps,
		"export_html":  exportHTML,
		"revision":     options.Revision,
	})
	if err != nil {
		return nil, fmt.Errorf("preview renderer: render page: %w", err)
	}
	return []byte(result), nil
}

// RenderFragment returns only the preview card, used for live refresh.
func (r *Renderer) RenderFragment(_ context.Context, data model.SignatureData, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("preview renderer: template renderer is nil")
	}

	logoURL := options.LogoURL
	if logoURL == "" {
		logoURL = r.assetPrefix + "/" + LogoName
	}

	result, err := r.templates.RenderTemplate(fragmentTemplate, map[string]any{
		"logo_url": logoURL,
		"markup":   string(options.MarkupOrDefault()),
		"rows":     r.rowViews(model.Rows(data)),
	})
	if err != nil {
		return nil, fmt.Errorf("preview renderer: render fragment: %w", err)
	}
	return []byte(strings.TrimSpace(result)), nil
}

func (r *Renderer) rowViews(rows []model.Row) []any {
	views := make([]any, 0, len(rows))
	for _, row := range rows {
		views = append(views, map[string]any{
			"field": string(row.Field),
			"kind":  string(row.Kind),
			"text":  row.Text,
			"href":  row.Href,
			"icon":  r.icons[row.Icon],
		})
	}
	return views
}

func fieldViews(specs []render.FieldSpec, data model.SignatureData) ([]any, error) {
	views := make([]any, 0, len(specs))
	for _, spec := range specs {
		field, err := model.ParseField(spec.Name)
		if err != nil {
			return nil, err
		}
		value, err := data.Get(field)
		if err != nil {
			return nil, err
		}
		inputType := spec.InputType
		if inputType == "" {
			inputType = "text"
		}
		views = append(views, map[string]any{
			"name":        field.String(),
			"label":       spec.Label,
			"placeholder": spec.Placeholder,
			"inputType":   inputType,
			"value":       value,
		})
	}
	return views, nil
}
