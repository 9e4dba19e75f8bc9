package siggen

import (
	"io/fs"

	"github.com/goliatone/go-siggen/pkg/renderers/email"
	"github.com/goliatone/go-siggen/pkg/renderers/preview"
)

// EmbeddedTemplates exposes the built-in export templates so callers can
// copy or extend them and load the result with email.WithTemplatesDir.
func EmbeddedTemplates() fs.FS {
	return email.TemplatesFS()
}

// EmbeddedPreviewTemplates exposes the page and preview card templates.
func EmbeddedPreviewTemplates() fs.FS {
	return preview.TemplatesFS()
}
