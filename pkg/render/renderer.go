package render

import (
	"context"

	"github.com/goliatone/go-siggen/pkg/model"
)

// Renderer converts a signature record into a byte representation (export
// HTML, preview page, serialized record).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, data model.SignatureData, options RenderOptions) ([]byte, error)
}
