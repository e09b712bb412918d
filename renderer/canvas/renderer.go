package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/stitch/layout"
	"github.com/ByLCY/stitch/renderer"
)

const creator = "stitch"

// Renderer places the composite on a vector page via github.com/tdewolff/canvas.
// The canvas is embedded as a single raster image, one pixel per 1/DPI inch.
type Renderer struct {
	dpi float64
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the canvas renderer.
type Options struct {
	DPI float64 // <=0 时使用 layout.DefaultDPI
}

// NewRenderer creates a vector renderer.
func NewRenderer(opts Options) *Renderer {
	dpi := opts.DPI
	if dpi <= 0 {
		dpi = layout.DefaultDPI
	}
	return &Renderer{dpi: dpi}
}

// CanHandle 支持 .pdf 与 .svg。
func (r *Renderer) CanHandle(path string) bool {
	switch extension(path) {
	case ".pdf", ".svg":
		return true
	default:
		return false
	}
}

// Render draws img on a page of the same physical size and encodes the page.
func (r *Renderer) Render(img image.Image, path string) ([]byte, error) {
	ext := extension(path)
	if !r.CanHandle(path) {
		return nil, fmt.Errorf("canvas 渲染器不支持 %s", ext)
	}
	if img == nil || img.Bounds().Empty() {
		return []byte{}, nil
	}

	size := img.Bounds().Size()
	width := layout.PxToMm(size.X, r.dpi)
	height := layout.PxToMm(size.Y, r.dpi)
	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	// 默认坐标系原点在左下角，图片铺满整页
	ctx.DrawImage(0, 0, img, canvas.DPMM(layout.DotsPerMM(r.dpi)))

	var buf bytes.Buffer
	switch ext {
	case ".pdf":
		writer := pdf.New(&buf, width, height, nil)
		title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		writer.SetInfo(title, "", "", "", creator)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 PDF 失败: %w", err)
		}
	case ".svg":
		writer := svg.New(&buf, width, height, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 SVG 失败: %w", err)
		}
	}
	return buf.Bytes(), nil
}

func extension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
