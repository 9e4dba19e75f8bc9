package preview

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

//go:embed assets/*
var embeddedAssets embed.FS

const (
	StylesheetName    = "siggen.css"
	RuntimeScriptName = "siggen.js"
	LogoName          = "ggs-logo.png"

	// DefaultAssetPrefix is the URL path the service mounts AssetsFS under.
	DefaultAssetPrefix = "/assets"
)

// TemplatesFS exposes the embedded page and preview templates.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

// AssetsFS exposes the stylesheet, page script and logo so callers can serve
// them over HTTP.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}
