package main

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ByLCY/stitch/stitcherr"
)

// configKeys lists the flags a config file may provide.
var configKeys = map[string]bool{
	"log-level":       true,
	"jobs":            true,
	"jpeg-quality":    true,
	"png-compression": true,
	"dpi":             true,
}

// applyConfig 读取 --config 指定的文件，仅为用户未在命令行显式设置的参数提供值。
// 不读取环境变量。
func applyConfig(fs *pflag.FlagSet, path string) error {
	if path == "" {
		return nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return stitcherr.Wrap(stitcherr.CommandLine, err, "read config")
	}

	var applyErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if applyErr != nil || f.Changed || !configKeys[f.Name] || !v.IsSet(f.Name) {
			return
		}
		val := fmt.Sprintf("%v", v.Get(f.Name))
		if err := f.Value.Set(val); err != nil {
			applyErr = stitcherr.Wrap(stitcherr.Parsing, err, fmt.Sprintf("config %s", f.Name))
		}
	})
	return applyErr
}
