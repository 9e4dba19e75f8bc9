package email

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded signature template.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
