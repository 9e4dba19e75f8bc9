package siggen

import (
	"io/fs"

	"github.com/goliatone/go-siggen/pkg/renderers/preview"
)

// AssetsFS exposes the stylesheet, page script and logo used by the preview
// page so Go applications can serve them next to their own routes.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServer(http.FS(siggen.AssetsFS())),
//	  ),
//	)
func AssetsFS() fs.FS {
	return preview.AssetsFS()
}
