package all

import (
	"testing"

	canvasrenderer "github.com/ByLCY/stitch/renderer/canvas"
	rasterrenderer "github.com/ByLCY/stitch/renderer/raster"
)

func TestForPath(t *testing.T) {
	cases := []struct {
		path   string
		raster bool
	}{
		{"one.png-and-two.png", true},
		{"photo.JPEG", true},
		{"sheet.pdf", false},
		{"sheet.svg", false},
	}
	for _, tc := range cases {
		r, err := ForPath(tc.path, Options{})
		if err != nil {
			t.Fatalf("%s: %v", tc.path, err)
		}
		_, isRaster := r.(*rasterrenderer.Renderer)
		_, isCanvas := r.(*canvasrenderer.Renderer)
		if isRaster != tc.raster || isCanvas == tc.raster {
			t.Fatalf("%s: got %T", tc.path, r)
		}
	}
}

func TestForPathUnsupported(t *testing.T) {
	_, err := ForPath("archive.zip", Options{})
	if err == nil || err.Error() != "unsupported output format: 'archive.zip'" {
		t.Fatalf("unexpected error %v", err)
	}
	if _, err := ForPath("", Options{}); err == nil {
		t.Fatalf("empty path must be rejected")
	}
}
