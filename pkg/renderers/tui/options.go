package tui

import "github.com/goliatone/go-siggen/pkg/render"

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML emits a YAML document, readable by `siggen render --data`.
	OutputFormatYAML OutputFormat = "yaml"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// ParseOutputFormat resolves a flag value. Unknown values fall back to JSON.
func ParseOutputFormat(raw string) OutputFormat {
	switch OutputFormat(raw) {
	case OutputFormatYAML, "yml":
		return OutputFormatYAML
	case OutputFormatPrettyText, "text":
		return OutputFormatPrettyText
	default:
		return OutputFormatJSON
	}
}

// Theme captures optional formatting hints the driver can apply when printing
// messages.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithFields sets the fields prompted when RenderOptions carries none.
func WithFields(fields []render.FieldSpec) Option {
	return func(r *Renderer) {
		r.fields = append([]render.FieldSpec(nil), fields...)
	}
}

// WithReview asks for confirmation after all fields are answered and starts
// over when the user declines.
func WithReview(enabled bool) Option {
	return func(r *Renderer) {
		r.review = enabled
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
