package layout

import "image"

// 该文件定义拼接请求与画布规划，供校验、合成、渲染与调试输出共用。

// Args 是尚未校验的原始参数：来自命令行或布局清单。
// X/Y 为 nil 表示该坐标从未出现，此时每张图片都取默认值 0。
type Args struct {
	X      []string `json:"x,omitempty"`
	Y      []string `json:"y,omitempty"`
	Output string   `json:"output,omitempty"`
	Images []string `json:"images"`
}

// Placement 是图片左上角在画布上的偏移（像素）。
type Placement struct {
	X uint64 `json:"x" yaml:"x"`
	Y uint64 `json:"y" yaml:"y"`
}

// Point converts the placement to an image.Point. Callers must have checked Fits.
func (p Placement) Point() image.Point {
	return image.Pt(int(p.X), int(p.Y))
}

// Item 是一张输入图片及其位置。
type Item struct {
	Path string    `json:"path"`
	At   Placement `json:"at"`
}

// Request 是校验后的拼接请求，校验完成后不再修改。
type Request struct {
	Items  []Item `json:"items"`
	Output string `json:"output"`
}

// Layer 记录一张已解码图片在画布中的最终位置与尺寸。
type Layer struct {
	Path   string `json:"path" yaml:"path"`
	X      int    `json:"x" yaml:"x"`
	Y      int    `json:"y" yaml:"y"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
}

// Rect returns the canvas area covered by the layer.
func (l Layer) Rect() image.Rectangle {
	return image.Rect(l.X, l.Y, l.X+l.Width, l.Y+l.Height)
}

// Plan 是一次运行的画布规划：画布尺寸、输出路径与按绘制顺序排列的图层。
type Plan struct {
	Width  int     `json:"width" yaml:"width"`
	Height int     `json:"height" yaml:"height"`
	Output string  `json:"output" yaml:"output"`
	Layers []Layer `json:"layers" yaml:"layers"`
}
