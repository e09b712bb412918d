package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/participle/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ByLCY/stitch/compose"
	"github.com/ByLCY/stitch/dsl"
	"github.com/ByLCY/stitch/layout"
	"github.com/ByLCY/stitch/logging"
	"github.com/ByLCY/stitch/renderer/all"
	rasterrenderer "github.com/ByLCY/stitch/renderer/raster"
	"github.com/ByLCY/stitch/stitcherr"
	"github.com/ByLCY/stitch/validate"
)

const version = "1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run 执行一次命令并返回进程退出码。
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		handleError(stderr, err)
		return 1
	}
	return 0
}

type options struct {
	x, y        coordValue
	output      string
	layoutPath  string
	dataJSON    string
	planPath    string
	configPath  string
	logLevel    string
	jobs        int
	jpegQuality int
	pngLevel    *pngCompressionValue
	dpi         float64
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{pngLevel: newPNGCompressionValue()}
	cmd := &cobra.Command{
		Use:     "stitch [flags] IMAGE...",
		Short:   "Stitches images together",
		Version: version,
		Long: `Stitches images together.

Every IMAGE is placed with its top-left corner at the matching -x/-y pair
(the first -x belongs to the first IMAGE, and so on). The canvas is sized to
fit every image and starts fully transparent. Later images overwrite earlier
ones where they overlap.`,
		Example: `  # Side by side, written to one.png-and-two.png
  stitch -x 0 -y 0 one.png -x 256 -y 0 two.png

  # Place images from a layout manifest
  stitch --layout sheet.stitch --data '{"dir":"shots"}'`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, opts, args, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return stitcherr.Wrap(stitcherr.CommandLine, err, "")
	})

	flags := cmd.Flags()
	flags.SortFlags = false
	registerCoordinate(flags, "x", "X-coordinate of the matching IMAGE, repeat once per IMAGE", &opts.x)
	registerCoordinate(flags, "y", "Y-coordinate of the matching IMAGE, repeat once per IMAGE", &opts.y)
	flags.StringVarP(&opts.output, "output", "o", "", "Output file; defaults to the IMAGE names joined by '"+layout.OutputSeparator+"'")
	flags.StringVar(&opts.layoutPath, "layout", "", "Read images, coordinates and output from a layout manifest")
	flags.StringVar(&opts.dataJSON, "data", "", "JSON object bound to ${...} placeholders in the layout manifest")
	flags.StringVar(&opts.planPath, "plan", "", "Also write the computed canvas plan (JSON, or YAML for .yaml/.yml)")
	flags.StringVar(&opts.configPath, "config", "", "Config file providing defaults for log-level, jobs, jpeg-quality, png-compression and dpi")
	flags.StringVar(&opts.logLevel, "log-level", logging.DefaultLevel, "Log level: debug, info, warn, error")
	flags.IntVar(&opts.jobs, "jobs", 1, "Number of images decoded in parallel")
	flags.IntVar(&opts.jpegQuality, "jpeg-quality", rasterrenderer.DefaultJPEGQuality, "Quality (1-100) for JPEG output")
	flags.Var(opts.pngLevel, "png-compression", "PNG compression: default, none, speed, best")
	flags.Float64Var(&opts.dpi, "dpi", layout.DefaultDPI, "Pixel density used to size PDF and SVG pages")
	return cmd
}

func execute(cmd *cobra.Command, opts *options, positional []string, stdout, stderr io.Writer) error {
	if err := applyConfig(cmd.Flags(), opts.configPath); err != nil {
		return err
	}
	log, err := logging.New(opts.logLevel, stderr)
	if err != nil {
		return stitcherr.Wrap(stitcherr.CommandLine, err, "")
	}
	defer func() { _ = log.Sync() }()

	raw, err := collectArgs(opts, positional, log)
	if err != nil {
		return err
	}
	req, err := validate.Validate(raw, validate.Options{Logger: log})
	if err != nil {
		return err
	}
	if req.Output == "" {
		return stitcherr.Errorf(stitcherr.CommandLine, "no output path: pass -o or declare output in the layout")
	}

	r, err := all.ForPath(req.Output, all.Options{
		JPEGQuality:    opts.jpegQuality,
		PNGCompression: opts.pngLevel.level,
		DPI:            opts.dpi,
	})
	if err != nil {
		return stitcherr.Wrap(stitcherr.CommandLine, err, "")
	}

	res, err := compose.New(compose.Options{Jobs: opts.jobs, Logger: log}).Compose(cmd.Context(), req)
	if err != nil {
		return err
	}
	data, err := r.Render(res.Canvas, req.Output)
	if err != nil {
		return stitcherr.Wrap(stitcherr.IO, err, "render "+req.Output)
	}
	if err := os.WriteFile(req.Output, data, 0o644); err != nil {
		return stitcherr.Wrap(stitcherr.IO, err, "")
	}
	log.Info("output written", zap.String("path", req.Output), zap.Int("bytes", len(data)))

	if opts.planPath != "" {
		if err := layout.WritePlan(res.Plan, opts.planPath); err != nil {
			return stitcherr.Wrap(stitcherr.IO, err, "write plan")
		}
	}
	fmt.Fprintln(stdout, req.Output)
	return nil
}

// collectArgs 从命令行或布局清单中收集原始参数，两者互斥。
func collectArgs(opts *options, positional []string, log *zap.Logger) (layout.Args, error) {
	if opts.layoutPath == "" {
		if opts.dataJSON != "" {
			return layout.Args{}, stitcherr.Errorf(stitcherr.CommandLine, "--data requires --layout")
		}
		if len(positional) == 0 {
			return layout.Args{}, stitcherr.Errorf(stitcherr.CommandLine, "at least one IMAGE is required")
		}
		return layout.Args{
			X:      opts.x.Values(),
			Y:      opts.y.Values(),
			Output: opts.output,
			Images: positional,
		}, nil
	}

	if len(positional) > 0 || opts.x.set || opts.y.set {
		return layout.Args{}, stitcherr.Errorf(stitcherr.CommandLine, "--layout cannot be combined with IMAGE arguments or -x/-y")
	}
	var data any
	if opts.dataJSON != "" {
		if err := json.Unmarshal([]byte(opts.dataJSON), &data); err != nil {
			return layout.Args{}, stitcherr.Wrap(stitcherr.Parsing, err, "--data")
		}
	}
	doc, err := dsl.ParseFile(opts.layoutPath)
	if err != nil {
		return layout.Args{}, manifestError(opts.layoutPath, err)
	}
	raw, err := layout.Build(doc, layout.BuildOptions{
		BaseDir: filepath.Dir(opts.layoutPath),
		Data:    data,
		Logger:  log,
	})
	if err != nil {
		return layout.Args{}, err
	}
	if opts.output != "" {
		raw.Output = opts.output
	}
	return raw, nil
}

func manifestError(path string, err error) error {
	var perr participle.Error
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return stitcherr.Errorf(stitcherr.CommandLine, "file does not exist: '%s'", path)
	case errors.As(err, &perr):
		return stitcherr.Wrap(stitcherr.Parsing, err, "")
	default:
		return stitcherr.Wrap(stitcherr.IO, err, "")
	}
}
