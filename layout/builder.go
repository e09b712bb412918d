package layout

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ByLCY/stitch/binding"
	"github.com/ByLCY/stitch/dsl"
	"github.com/ByLCY/stitch/stitcherr"
)

// BuildOptions 配置布局清单到原始参数的转换。
type BuildOptions struct {
	// BaseDir 用于解析清单中的相对路径，通常是清单文件所在目录。
	BaseDir string
	// Data 为 ${...} 占位符提供取值（--data 解析后的 JSON）。
	Data   any
	Logger *zap.Logger
}

// Build 将布局清单转换为与命令行等价的原始参数。
// 坐标保持原始文本，数值校验留给 validate，以便两种输入方式报告相同的错误。
func Build(doc *dsl.Manifest, opts BuildOptions) (Args, error) {
	if doc == nil {
		return Args{}, stitcherr.Errorf(stitcherr.CommandLine, "layout manifest is empty")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	var args Args
	outputs := doc.Outputs()
	if len(outputs) > 1 {
		second := outputs[1]
		return Args{}, stitcherr.Errorf(stitcherr.Parsing, "%s: output declared more than once", second.Pos)
	}
	if len(outputs) == 1 {
		args.Output = resolve(opts, interpolate(log, string(outputs[0].Path), opts.Data))
	}

	images := doc.Images()
	withCoords := 0
	for _, img := range images {
		if img.At != nil {
			withCoords++
		}
	}
	// 全部省略坐标时 X/Y 保持 nil（默认 0）；部分省略时只收集出现过的坐标，由数量校验报告不匹配。
	for _, img := range images {
		args.Images = append(args.Images, resolve(opts, interpolate(log, string(img.Path), opts.Data)))
		if withCoords == 0 || img.At == nil {
			continue
		}
		args.X = append(args.X, img.At.X)
		args.Y = append(args.Y, img.At.Y)
	}
	log.Debug("layout manifest loaded",
		zap.Int("images", len(args.Images)),
		zap.Int("placed", withCoords),
		zap.String("output", args.Output))
	return args, nil
}

func interpolate(log *zap.Logger, text string, data any) string {
	for _, path := range binding.Unresolved(text, data) {
		log.Warn("unresolved placeholder", zap.String("text", text), zap.String("path", path))
	}
	return binding.Interpolate(text, data)
}

func resolve(opts BuildOptions, path string) string {
	if path == "" || opts.BaseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(opts.BaseDir, path)
}
