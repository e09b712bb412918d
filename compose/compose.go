// Package compose 实现拼接核心：解码输入、计算最小画布、按顺序把像素原样复制到画布上。
package compose

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io/fs"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/stitch/imagefile"
	"github.com/ByLCY/stitch/layout"
	"github.com/ByLCY/stitch/stitcherr"
)

// DecodeFunc decodes one input image.
type DecodeFunc func(path string) (image.Image, error)

// Options configures a Compositor.
type Options struct {
	// Jobs 是并行解码的最大数量，小于 1 时按顺序解码。
	Jobs   int
	Logger *zap.Logger
	// Decode 默认为 imagefile.Decode，测试中可替换。
	Decode DecodeFunc
}

// Result holds the painted canvas and the plan it was built from.
type Result struct {
	Canvas *image.NRGBA
	Plan   layout.Plan
}

// Compositor owns the canvas for the duration of one Compose call.
type Compositor struct {
	jobs   int
	log    *zap.Logger
	decode DecodeFunc
}

// New creates a Compositor.
func New(opts Options) *Compositor {
	c := &Compositor{jobs: opts.Jobs, log: opts.Logger, decode: opts.Decode}
	if c.jobs < 1 {
		c.jobs = 1
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.decode == nil {
		c.decode = imagefile.Decode
	}
	return c
}

// Compose decodes every input, sizes the canvas to the tight bound of all
// placements and paints the images in request order. Later images overwrite
// earlier ones where they overlap.
func (c *Compositor) Compose(ctx context.Context, req *layout.Request) (*Result, error) {
	images, err := c.decodeAll(ctx, req)
	if err != nil {
		return nil, err
	}

	sizes := make([]image.Point, len(images))
	for i, img := range images {
		sizes[i] = img.Bounds().Size()
	}
	plan, err := layout.NewPlan(req, sizes)
	if err != nil {
		if errors.Is(err, layout.ErrOutOfRange) {
			return nil, stitcherr.Wrap(stitcherr.CommandLine, err, "")
		}
		return nil, err
	}

	canvas := imaging.New(plan.Width, plan.Height, color.NRGBA{})
	for i, l := range plan.Layers {
		Paint(canvas, images[i], image.Pt(l.X, l.Y))
	}
	c.log.Info("canvas composed",
		zap.Int("width", plan.Width),
		zap.Int("height", plan.Height),
		zap.Int("layers", len(plan.Layers)))
	return &Result{Canvas: canvas, Plan: plan}, nil
}

// decodeAll 解码所有输入，结果按下标存放，因此并行度不影响绘制顺序。
// 多个文件失败时返回下标最小的那个错误。
func (c *Compositor) decodeAll(ctx context.Context, req *layout.Request) ([]image.Image, error) {
	n := len(req.Items)
	images := make([]image.Image, n)
	errs := make([]error, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.jobs)
	for i, it := range req.Items {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			img, err := c.decode(it.Path)
			if err != nil {
				errs[i] = classify(it.Path, err)
				return errs[i]
			}
			b := img.Bounds()
			c.log.Info("decoded image",
				zap.Int("index", i),
				zap.String("path", it.Path),
				zap.Int("width", b.Dx()),
				zap.Int("height", b.Dy()))
			images[i] = img
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return images, nil
}

func classify(path string, err error) error {
	var pathErr *fs.PathError
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &stitcherr.Error{Kind: stitcherr.CommandLine, Message: "file does not exist: '" + path + "'", Err: err}
	case errors.As(err, &pathErr):
		return stitcherr.Wrap(stitcherr.IO, err, "")
	default:
		return stitcherr.Wrap(stitcherr.ImageFormat, err, path)
	}
}

// Paint copies src into dst with its top-left corner at at. Channel bytes are
// copied as-is; nothing is blended with what dst already holds.
func Paint(dst *image.NRGBA, src image.Image, at image.Point) {
	s := toNRGBA(src)
	sb := s.Bounds()
	target := image.Rectangle{Min: at, Max: at.Add(sb.Size())}.Intersect(dst.Bounds())
	if target.Empty() {
		return
	}
	rowBytes := target.Dx() * 4
	for y := target.Min.Y; y < target.Max.Y; y++ {
		si := s.PixOffset(sb.Min.X+target.Min.X-at.X, sb.Min.Y+y-at.Y)
		di := dst.PixOffset(target.Min.X, y)
		copy(dst.Pix[di:di+rowBytes], s.Pix[si:si+rowBytes])
	}
}

// toNRGBA 将任意图片转为非预乘的 8 位 NRGBA；已是 NRGBA 时直接复用。
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	return imaging.Clone(img)
}
