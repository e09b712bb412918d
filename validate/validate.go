// Package validate 把原始参数校验为不可变的拼接请求。
//
// 检查按固定顺序进行，遇到第一个错误立即返回：
// -x 数量、-x 数值、-y 数量、-y 数值，最后逐个检查图片是否存在且可解码。
package validate

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/ByLCY/stitch/imagefile"
	"github.com/ByLCY/stitch/layout"
	"github.com/ByLCY/stitch/stitcherr"
)

// DefaultCoordinate 在 -x/-y 完全省略时用于每一张图片。
const DefaultCoordinate = "0"

// Options configures validation.
type Options struct {
	Logger *zap.Logger
}

// Validate checks args and returns the request with coordinates zipped to
// images by index: X[i], Y[i] and Images[i] form item i.
func Validate(args layout.Args, opts Options) (*layout.Request, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	n := len(args.Images)

	xs, err := coordinates("-x", args.X, n)
	if err != nil {
		return nil, err
	}
	ys, err := coordinates("-y", args.Y, n)
	if err != nil {
		return nil, err
	}

	for _, path := range args.Images {
		ok, err := imagefile.Exists(path)
		if err != nil {
			return nil, stitcherr.Wrap(stitcherr.IO, err, "")
		}
		if !ok {
			return nil, stitcherr.Errorf(stitcherr.CommandLine, "file does not exist: '%s'", path)
		}
		info, err := imagefile.Probe(path)
		if err != nil {
			return nil, stitcherr.Wrap(stitcherr.ImageFormat, err, path)
		}
		log.Debug("input probed",
			zap.String("path", path),
			zap.String("format", info.Format),
			zap.Int("width", info.Width),
			zap.Int("height", info.Height))
	}

	req := &layout.Request{
		Items:  make([]layout.Item, n),
		Output: layout.ResolveOutput(args.Output, args.Images),
	}
	for i, path := range args.Images {
		req.Items[i] = layout.Item{
			Path: path,
			At:   layout.Placement{X: xs[i], Y: ys[i]},
		}
	}
	return req, nil
}

// coordinates 先检查数量再逐个解析；values 为 nil 表示该参数从未出现，全部取默认值。
func coordinates(flag string, values []string, expected int) ([]uint64, error) {
	if values == nil {
		values = make([]string, expected)
		for i := range values {
			values[i] = DefaultCoordinate
		}
	}
	if len(values) != expected {
		return nil, stitcherr.Errorf(stitcherr.CommandLine, "%s specified %d times, expected %d", flag, len(values), expected)
	}
	out := make([]uint64, len(values))
	for i, raw := range values {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, stitcherr.Wrap(stitcherr.Parsing, err, flag)
		}
		out[i] = v
	}
	return out, nil
}
