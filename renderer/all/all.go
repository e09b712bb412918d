package all

import (
	"fmt"
	"image/png"

	"github.com/ByLCY/stitch/renderer"
	canvasrenderer "github.com/ByLCY/stitch/renderer/canvas"
	rasterrenderer "github.com/ByLCY/stitch/renderer/raster"
)

// Options 汇总各渲染器的配置。
type Options struct {
	JPEGQuality    int
	PNGCompression png.CompressionLevel
	DPI            float64
}

// Renderers returns the renderers in lookup order.
func Renderers(opts Options) []renderer.Renderer {
	return []renderer.Renderer{
		rasterrenderer.NewRenderer(rasterrenderer.Options{
			JPEGQuality:    opts.JPEGQuality,
			PNGCompression: opts.PNGCompression,
		}),
		canvasrenderer.NewRenderer(canvasrenderer.Options{DPI: opts.DPI}),
	}
}

// ForPath returns the first renderer that can handle path.
func ForPath(path string, opts Options) (renderer.Renderer, error) {
	for _, r := range Renderers(opts) {
		if r.CanHandle(path) {
			return r, nil
		}
	}
	return nil, fmt.Errorf("unsupported output format: '%s'", path)
}
