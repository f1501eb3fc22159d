package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
)

const (
	ozjHeaderSize = 24
	oztHeaderSize = 4
)

// LoadTexture reads an image file and returns it as NRGBA.
// OZJ/OZT containers (JPEG/TGA behind a short header) are unwrapped first.
func LoadTexture(path string) (*image.NRGBA, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}

	imgData := raw
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".ozj":
		if len(raw) <= ozjHeaderSize {
			return nil, fmt.Errorf("texture: OZJ too short: %s", path)
		}
		imgData = raw[ozjHeaderSize:]
	case ".ozt":
		if len(raw) <= oztHeaderSize {
			return nil, fmt.Errorf("texture: OZT too short: %s", path)
		}
		imgData = raw[oztHeaderSize:]
	}

	img, err := decoderFor(ext, imgData)(bytes.NewReader(imgData))
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}

	return toNRGBA(img), nil
}

// decoderFor picks the decoder by extension. TGA has no magic number, so it
// is never chosen by sniffing; unknown extensions fall back to it only when
// the data carries no PNG, JPEG or BMP signature.
func decoderFor(ext string, data []byte) func(io.Reader) (image.Image, error) {
	switch ext {
	case ".ozj", ".jpg", ".jpeg":
		return jpeg.Decode
	case ".png":
		return png.Decode
	case ".bmp":
		return bmp.Decode
	case ".ozt", ".tga":
		return tga.Decode
	}
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return png.Decode
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8}):
		return jpeg.Decode
	case bytes.HasPrefix(data, []byte("BM")):
		return bmp.Decode
	}
	return tga.Decode
}

// toNRGBA converts any image to NRGBA with its origin at (0, 0).
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
