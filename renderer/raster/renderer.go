package rasterrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/ByLCY/stitch/renderer"
)

// DefaultJPEGQuality is used when Options.JPEGQuality is not in 1..100.
const DefaultJPEGQuality = 95

// Renderer encodes the canvas as PNG, JPEG, GIF, TIFF or BMP through
// github.com/disintegration/imaging, choosing the format from the extension.
type Renderer struct {
	jpegQuality int
	compression png.CompressionLevel
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the raster renderer.
type Options struct {
	JPEGQuality    int
	PNGCompression png.CompressionLevel
}

// NewRenderer creates a raster renderer.
func NewRenderer(opts Options) *Renderer {
	q := opts.JPEGQuality
	if q < 1 || q > 100 {
		q = DefaultJPEGQuality
	}
	return &Renderer{jpegQuality: q, compression: opts.PNGCompression}
}

// CanHandle 支持 .png .jpg .jpeg .gif .tif .tiff .bmp（不区分大小写）。
func (r *Renderer) CanHandle(path string) bool {
	_, err := imaging.FormatFromFilename(path)
	return err == nil
}

// Render encodes img in the format implied by path. An empty canvas renders
// to zero bytes because none of these formats can describe a 0x0 image.
func (r *Renderer) Render(img image.Image, path string) ([]byte, error) {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return nil, fmt.Errorf("无法识别输出格式 %s: %w", path, err)
	}
	if img == nil || img.Bounds().Empty() {
		return []byte{}, nil
	}
	var buf bytes.Buffer
	err = imaging.Encode(&buf, img, format,
		imaging.JPEGQuality(r.jpegQuality),
		imaging.PNGCompressionLevel(r.compression),
	)
	if err != nil {
		return nil, fmt.Errorf("编码 %s 失败: %w", format, err)
	}
	return buf.Bytes(), nil
}
