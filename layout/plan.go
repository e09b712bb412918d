package layout

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strings"
)

// OutputSeparator 连接默认输出文件名中的各个输入路径。
const OutputSeparator = "-and-"

// MaxPixels caps the canvas area so the NRGBA buffer (4 bytes per pixel) stays allocatable.
const MaxPixels = 1 << 28

// ErrOutOfRange is returned when a placement plus image size does not fit an int,
// or when the resulting canvas would exceed MaxPixels.
var ErrOutOfRange = errors.New("placement out of range")

// DefaultOutput 按输入顺序用 "-and-" 连接所有输入路径，首尾不加分隔符。
func DefaultOutput(paths []string) string {
	return strings.Join(paths, OutputSeparator)
}

// ResolveOutput returns explicit when set, the joined input paths otherwise.
func ResolveOutput(explicit string, paths []string) string {
	if explicit != "" {
		return explicit
	}
	return DefaultOutput(paths)
}

// NewPlan 根据请求与各图片尺寸计算画布：
// 宽 = max(x + w)，高 = max(y + h)。没有图片时画布为 0x0。
// sizes[i] 对应 req.Items[i]。
func NewPlan(req *Request, sizes []image.Point) (Plan, error) {
	if len(sizes) != len(req.Items) {
		return Plan{}, fmt.Errorf("layout: %d sizes for %d items", len(sizes), len(req.Items))
	}
	plan := Plan{Output: req.Output, Layers: make([]Layer, 0, len(req.Items))}
	for i, it := range req.Items {
		size := sizes[i]
		if !fits(it.At.X, size.X) || !fits(it.At.Y, size.Y) {
			return Plan{}, fmt.Errorf("%w: '%s' at %d,%d (%dx%d)", ErrOutOfRange, it.Path, it.At.X, it.At.Y, size.X, size.Y)
		}
		layer := Layer{
			Path:   it.Path,
			X:      int(it.At.X),
			Y:      int(it.At.Y),
			Width:  size.X,
			Height: size.Y,
		}
		plan.Width = max(plan.Width, layer.X+layer.Width)
		plan.Height = max(plan.Height, layer.Y+layer.Height)
		plan.Layers = append(plan.Layers, layer)
	}
	// 宽高各自不超过 MaxInt32，乘积不会溢出 int64
	if int64(plan.Width)*int64(plan.Height) > MaxPixels {
		return Plan{}, fmt.Errorf("%w: canvas %dx%d exceeds %d pixels", ErrOutOfRange, plan.Width, plan.Height, MaxPixels)
	}
	return plan, nil
}

// Bounds returns the canvas rectangle of the plan.
func (p Plan) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.Width, p.Height)
}

func fits(offset uint64, extent int) bool {
	if extent < 0 || offset > math.MaxInt32 {
		return false
	}
	return int64(offset)+int64(extent) <= math.MaxInt32
}
