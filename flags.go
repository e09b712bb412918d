package main

import (
	"fmt"
	"image/png"
	"sort"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ByLCY/stitch/validate"
)

// coordValue 记录 -x/-y 每一次出现的原始文本，保持命令行顺序。
// 数值解析留给 validate，这样错误分类与布局清单一致。
type coordValue struct {
	values []string
	set    bool
}

var _ pflag.Value = (*coordValue)(nil)

func (c *coordValue) String() string { return strings.Join(c.values, ",") }

func (c *coordValue) Set(s string) error {
	c.values = append(c.values, s)
	c.set = true
	return nil
}

func (c *coordValue) Type() string { return "uint" }

// Values returns nil when the flag never appeared, so every image falls back
// to the default coordinate.
func (c *coordValue) Values() []string {
	if !c.set {
		return nil
	}
	return append([]string(nil), c.values...)
}

// registerCoordinate 注册 -x 与隐藏的 -X，两者共享同一个值，实现大小写不敏感。
// 默认值写在 usage 中，DefValue 保持为空，避免 pflag 再追加一次。
func registerCoordinate(fs *pflag.FlagSet, name, usage string, v *coordValue) {
	usage = fmt.Sprintf("%s (default %s)", usage, validate.DefaultCoordinate)
	fs.VarP(v, name, name, usage)
	upper := strings.ToUpper(name)
	fs.VarP(v, upper, upper, usage)
	_ = fs.MarkHidden(upper)
}

var pngCompressionLevels = map[string]png.CompressionLevel{
	"default": png.DefaultCompression,
	"none":    png.NoCompression,
	"speed":   png.BestSpeed,
	"best":    png.BestCompression,
}

// pngCompressionValue maps a level name to png.CompressionLevel at parse time.
type pngCompressionValue struct {
	name  string
	level png.CompressionLevel
}

func newPNGCompressionValue() *pngCompressionValue {
	return &pngCompressionValue{name: "default", level: png.DefaultCompression}
}

var _ pflag.Value = (*pngCompressionValue)(nil)

func (v *pngCompressionValue) String() string { return v.name }

func (v *pngCompressionValue) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	level, ok := pngCompressionLevels[s]
	if !ok {
		names := make([]string, 0, len(pngCompressionLevels))
		for k := range pngCompressionLevels {
			names = append(names, k)
		}
		sort.Strings(names)
		return fmt.Errorf("must be one of: %s", strings.Join(names, ", "))
	}
	v.name, v.level = s, level
	return nil
}

func (v *pngCompressionValue) Type() string { return "string" }
