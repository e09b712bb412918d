package compose

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/ByLCY/stitch/layout"
	"github.com/ByLCY/stitch/stitcherr"
)

var (
	red   = color.NRGBA{R: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
	ghost = color.NRGBA{R: 10, G: 20, B: 30, A: 40}
)

// memDecoder 从内存返回图片，路径不存在时模拟 fs.ErrNotExist。
func memDecoder(images map[string]image.Image) DecodeFunc {
	return func(path string) (image.Image, error) {
		img, ok := images[path]
		if !ok {
			return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
		}
		return img, nil
	}
}

func request(output string, items ...layout.Item) *layout.Request {
	return &layout.Request{Items: items, Output: output}
}

func item(path string, x, y uint64) layout.Item {
	return layout.Item{Path: path, At: layout.Placement{X: x, Y: y}}
}

func TestCanvasIsTightBound(t *testing.T) {
	c := New(Options{Decode: memDecoder(map[string]image.Image{
		"one.png": imaging.New(256, 256, red),
		"two.png": imaging.New(256, 256, blue),
	})})
	res, err := c.Compose(context.Background(), request("out.png", item("one.png", 0, 0), item("two.png", 256, 0)))
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if got := res.Canvas.Bounds(); got != image.Rect(0, 0, 512, 256) {
		t.Fatalf("expected 512x256 canvas, got %v", got)
	}
	if res.Plan.Width != 512 || res.Plan.Height != 256 || res.Plan.Output != "out.png" {
		t.Fatalf("unexpected plan %+v", res.Plan)
	}
	if got := res.Canvas.NRGBAAt(10, 10); got != red {
		t.Fatalf("left half: got %v", got)
	}
	if got := res.Canvas.NRGBAAt(300, 200); got != blue {
		t.Fatalf("right half: got %v", got)
	}
}

func TestUncoveredPixelsStayTransparent(t *testing.T) {
	c := New(Options{Decode: memDecoder(map[string]image.Image{
		"a": imaging.New(2, 2, red),
		"b": imaging.New(2, 2, blue),
	})})
	res, err := c.Compose(context.Background(), request("o.png", item("a", 0, 0), item("b", 3, 4)))
	if err != nil {
		t.Fatal(err)
	}
	if res.Canvas.Bounds().Size() != image.Pt(5, 6) {
		t.Fatalf("unexpected size %v", res.Canvas.Bounds())
	}
	if got := res.Canvas.NRGBAAt(0, 5); got != (color.NRGBA{}) {
		t.Fatalf("gap must be fully transparent, got %v", got)
	}
}

func TestLastDrawnWins(t *testing.T) {
	c := New(Options{Decode: memDecoder(map[string]image.Image{
		"first":  imaging.New(8, 8, red),
		"second": imaging.New(8, 8, ghost),
	})})
	res, err := c.Compose(context.Background(), request("o.png", item("first", 0, 0), item("second", 0, 0)))
	if err != nil {
		t.Fatal(err)
	}
	// 半透明像素也原样覆盖，不与下层混合。
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if got := res.Canvas.NRGBAAt(x, y); got != ghost {
				t.Fatalf("pixel (%d,%d): got %v want %v", x, y, got, ghost)
			}
		}
	}
}

func TestPartialOverlap(t *testing.T) {
	c := New(Options{Decode: memDecoder(map[string]image.Image{
		"a": imaging.New(4, 4, red),
		"b": imaging.New(4, 4, blue),
	})})
	res, err := c.Compose(context.Background(), request("o.png", item("a", 0, 0), item("b", 2, 2)))
	if err != nil {
		t.Fatal(err)
	}
	checks := map[image.Point]color.NRGBA{
		{1, 1}: red,
		{3, 3}: blue,
		{2, 2}: blue,
		{5, 5}: blue,
		{3, 1}: red,
		{5, 0}: {},
	}
	for p, want := range checks {
		if got := res.Canvas.NRGBAAt(p.X, p.Y); got != want {
			t.Fatalf("pixel %v: got %v want %v", p, got, want)
		}
	}
}

func TestEmptyRequest(t *testing.T) {
	res, err := New(Options{}).Compose(context.Background(), request("empty.png"))
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if !res.Canvas.Bounds().Empty() || res.Plan.Width != 0 || res.Plan.Height != 0 {
		t.Fatalf("expected 0x0 canvas, got %v", res.Canvas.Bounds())
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	images := map[string]image.Image{}
	var items []layout.Item
	for i := 0; i < 12; i++ {
		name := fmt.Sprintf("img%02d", i)
		images[name] = imaging.New(5+i, 3+i, color.NRGBA{R: uint8(i * 20), G: uint8(255 - i*10), A: 255})
		items = append(items, item(name, uint64(i*3), uint64(i%4)))
	}
	seq, err := New(Options{Jobs: 1, Decode: memDecoder(images)}).Compose(context.Background(), request("o.png", items...))
	if err != nil {
		t.Fatal(err)
	}
	par, err := New(Options{Jobs: 6, Decode: memDecoder(images)}).Compose(context.Background(), request("o.png", items...))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(seq.Canvas.Pix, par.Canvas.Pix) || seq.Canvas.Rect != par.Canvas.Rect {
		t.Fatalf("parallel decode changed the result")
	}
}

func TestIdempotentOutput(t *testing.T) {
	dir := t.TempDir()
	one := filepath.Join(dir, "one.png")
	two := filepath.Join(dir, "two.png")
	if err := imaging.Save(imaging.New(3, 3, ghost), one); err != nil {
		t.Fatal(err)
	}
	if err := imaging.Save(imaging.New(2, 5, blue), two); err != nil {
		t.Fatal(err)
	}
	req := request("o.png", item(one, 1, 0), item(two, 0, 1))
	var outputs [][]byte
	for i := 0; i < 2; i++ {
		res, err := New(Options{}).Compose(context.Background(), req)
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, res.Canvas, imaging.PNG); err != nil {
			t.Fatal(err)
		}
		outputs = append(outputs, buf.Bytes())
	}
	if !bytes.Equal(outputs[0], outputs[1]) {
		t.Fatalf("two runs produced different output")
	}
}

func TestDecodeErrorsAreClassified(t *testing.T) {
	bad := errors.New("image: unknown format")
	decode := func(path string) (image.Image, error) {
		switch path {
		case "bad":
			return nil, bad
		case "locked":
			return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrPermission}
		case "gone":
			return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
		}
		return imaging.New(1, 1, red), nil
	}
	cases := map[string]stitcherr.Kind{
		"bad":    stitcherr.ImageFormat,
		"locked": stitcherr.IO,
		"gone":   stitcherr.CommandLine,
	}
	for path, kind := range cases {
		_, err := New(Options{Decode: decode}).Compose(context.Background(), request("o.png", item("ok", 0, 0), item(path, 0, 0)))
		if !stitcherr.Is(err, kind) {
			t.Fatalf("%s: expected %s, got %v", path, kind, err)
		}
	}
}

func TestFirstFailingInputIsReported(t *testing.T) {
	var calls atomic.Int32
	decode := func(path string) (image.Image, error) {
		calls.Add(1)
		return nil, errors.New("broken " + path)
	}
	_, err := New(Options{Decode: decode}).Compose(context.Background(), request("o.png", item("a", 0, 0), item("b", 0, 0), item("c", 0, 0)))
	if err == nil || err.Error() != "a: broken a" {
		t.Fatalf("expected error for first input, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("sequential decode should stop after first failure, decoded %d", calls.Load())
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := New(Options{Decode: memDecoder(map[string]image.Image{"a": imaging.New(1, 1, red)})})
	if _, err := c.Compose(ctx, request("o.png", item("a", 0, 0))); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestOutOfRangePlacement(t *testing.T) {
	c := New(Options{Decode: memDecoder(map[string]image.Image{"a": imaging.New(1, 1, red)})})
	_, err := c.Compose(context.Background(), request("o.png", item("a", 1<<40, 0)))
	if !stitcherr.Is(err, stitcherr.CommandLine) {
		t.Fatalf("expected command-line error, got %v", err)
	}
}

func TestHugeCanvasIsRejected(t *testing.T) {
	c := New(Options{Decode: memDecoder(map[string]image.Image{"a": imaging.New(1, 1, red)})})
	_, err := c.Compose(context.Background(), request("o.png", item("a", 2000000000, 2000000000)))
	if !stitcherr.Is(err, stitcherr.CommandLine) || !errors.Is(err, layout.ErrOutOfRange) {
		t.Fatalf("expected command-line out of range error, got %v", err)
	}
}

func TestPaintConvertsPremultipliedSources(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src.SetRGBA(0, 0, color.RGBA{R: 100, A: 200})
	dst := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	Paint(dst, src, image.Pt(1, 0))
	got := dst.NRGBAAt(1, 0)
	if got.A != 200 || got.R != 127 {
		t.Fatalf("unexpected conversion %v", got)
	}
	if dst.NRGBAAt(0, 0) != (color.NRGBA{}) {
		t.Fatalf("pixel outside the source must be untouched")
	}
}

func TestPaintSubImage(t *testing.T) {
	full := imaging.New(4, 4, red)
	full.SetNRGBA(2, 2, blue)
	sub := full.SubImage(image.Rect(2, 2, 4, 4)).(*image.NRGBA)
	dst := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	Paint(dst, sub, image.Pt(0, 0))
	if dst.NRGBAAt(0, 0) != blue || dst.NRGBAAt(1, 1) != red {
		t.Fatalf("sub image offset not honoured: %v %v", dst.NRGBAAt(0, 0), dst.NRGBAAt(1, 1))
	}
}
