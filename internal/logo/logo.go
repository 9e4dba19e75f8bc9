// Package logo turns an image file into the base64 PNG embedded in exported
// signatures.
package logo

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ErrInvalidWidth is returned for non-positive target widths.
var ErrInvalidWidth = errors.New("logo: width must be positive")

// Load reads the image at path and returns it as base64 PNG scaled to width.
func Load(path string, width int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("logo: open %s: %w", path, err)
	}
	defer f.Close()

	encoded, err := Encode(f, width)
	if err != nil {
		return "", fmt.Errorf("logo: %s: %w", path, err)
	}
	return encoded, nil
}

// Encode decodes a PNG, JPEG, GIF, WebP or BMP image, scales it to width
// keeping the aspect ratio and returns base64 PNG. Images already at width
// are re-encoded unscaled.
func Encode(r io.Reader, width int) (string, error) {
	if width <= 0 {
		return "", ErrInvalidWidth
	}

	src, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, Scale(src, width)); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Scale resizes src to width with Catmull-Rom resampling.
func Scale(src image.Image, width int) image.Image {
	bounds := src.Bounds()
	if bounds.Dx() == width || bounds.Dx() == 0 {
		return src
	}

	height := bounds.Dy() * width / bounds.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}
