package render

import "strings"

// MarkupMode decides how field values are written into markup.
type MarkupMode string

const (
	// MarkupEscape HTML-escapes every field value. This is the default.
	MarkupEscape MarkupMode = "escape"
	// MarkupSanitize keeps a small set of inline formatting tags (bold,
	// italic, line breaks) and strips everything else.
	MarkupSanitize MarkupMode = "sanitize"
)

// ParseMarkupMode resolves a configured mode, falling back to MarkupEscape for
// empty or unknown values.
func ParseMarkupMode(raw string) MarkupMode {
	switch MarkupMode(strings.ToLower(strings.TrimSpace(raw))) {
	case MarkupSanitize:
		return MarkupSanitize
	default:
		return MarkupEscape
	}
}

// CopyMode selects where the preview page performs the clipboard write.
type CopyMode string

const (
	// CopyBrowser writes through navigator.clipboard in the page.
	CopyBrowser CopyMode = "browser"
	// CopyServer posts to the service, which writes the host clipboard.
	CopyServer CopyMode = "server"
)

// FieldSpec describes how a field is presented in a form.
type FieldSpec struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
	InputType   string `json:"inputType"`
	Default     string `json:"default"`
}

// RenderOptions describe per-request data that renderers can use to customise
// their output without changing the record itself.
type RenderOptions struct {
	// Logo is the base64 encoded PNG embedded in exported markup. Empty keeps
	// the data URI placeholder.
	Logo string
	// LogoURL is the on-screen logo location used by the preview.
	LogoURL string
	// Markup controls escaping of field values. Zero value means escape.
	Markup MarkupMode
	// Fields drives the inputs rendered by page-level renderers.
	Fields []FieldSpec
	// Copied renders the copy control in its confirmation state.
	Copied bool
	// CopyMode tells the page script which clipboard path to use.
	CopyMode CopyMode
	// ExportHTML is shown on the page for manual copying.
	ExportHTML string
	// Revision seeds the page script's edit counter so edits after a reload
	// keep ordering above those already stored.
	Revision uint64
}

// MarkupOrDefault returns the effective markup mode.
func (o RenderOptions) MarkupOrDefault() MarkupMode {
	if o.Markup == "" {
		return MarkupEscape
	}
	return o.Markup
}
