package layout

// This file defines the helpers used when a pixel canvas is placed on a physical page.

const (
	MmPerInch = 25.4

	// DefaultDPI 是矢量输出时每英寸对应的像素数。
	DefaultDPI = 96.0
)

// PxToMm 将像素数在给定 DPI 下换算为毫米，dpi 非正时回退到 DefaultDPI。
func PxToMm(px int, dpi float64) float64 {
	return float64(px) / DotsPerMM(dpi)
}

// DotsPerMM returns the resolution in dots per millimeter.
func DotsPerMM(dpi float64) float64 {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return dpi / MmPerInch
}
