package renderer

import "image"

// Renderer 将合成后的画布编码为最终文件内容，例如 PNG 或 PDF。
// Render 返回生成的二进制数据；写文件由调用方负责，编码失败时不会留下半成品。
type Renderer interface {
	// CanHandle 根据输出路径的扩展名判断是否支持该格式。
	CanHandle(path string) bool
	Render(img image.Image, path string) ([]byte, error)
}
