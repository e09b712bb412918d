// Package imagefile 负责输入图片的存在性检查、头部探测与完整解码。
package imagefile

import (
	"errors"
	"image"
	"io/fs"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Info describes an image header.
type Info struct {
	Format string `json:"format" yaml:"format"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
}

// Exists 报告 path 是否指向一个已存在的普通文件（会跟随符号链接）。
// 文件不存在时返回 false 与 nil；其他 stat 失败（如权限不足）原样返回错误。
func Exists(path string) (bool, error) {
	fi, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return fi.Mode().IsRegular(), nil
}

// Probe 只解码图片头部，返回格式与尺寸。
// 支持的格式由 imaging（png/jpeg/gif/bmp/tiff）与 x/image/webp 注册。
func Probe(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Info{}, err
	}
	return Info{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// Decode reads and fully decodes the image at path.
func Decode(path string) (image.Image, error) {
	return imaging.Open(path)
}
