// hares - glyph scene in the terminal
// Renders extruded "A" and "0" glyphs and, in the glow variants, a glowing
// cube with bloom.
//
// Controls:
//
//	W/S         - Move the cube up/down
//	A/D         - Move the camera left/right
//	Esc/Ctrl+C  - Quit
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/hares/internal/config"
	"github.com/taigrr/hares/internal/events"
	"github.com/taigrr/hares/internal/logging"
	"github.com/taigrr/hares/internal/viewport"
	"github.com/taigrr/hares/pkg/render"
	"github.com/taigrr/hares/pkg/typeface"
)

var version = "dev"

// app holds the settings shared by every command.
type app struct {
	configPath string
	cfg        config.Config

	variant        string
	fontURL        string
	fontPath       string
	fallback       bool
	fps            int
	background     uint32
	smooth         bool
	bloomStrength  float64
	bloomRadius    float64
	bloomThreshold float64
	logLevel       string
	logFile        string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd(&app{}), fang.WithVersion(version)); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	def := config.Default()

	cmd := &cobra.Command{
		Use:   "hares",
		Short: "Extruded glyphs and a glowing cube in your terminal",
		Long: `hares - glyph scene in the terminal

Renders the glyphs "A" and "0" and, in the glow variants, a glowing cube
with bloom.

Controls:
  W/S         - Move the cube up/down
  A/D         - Move the camera left/right
  Esc/Ctrl+C  - Quit`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runInteractive(cmd.Context())
		},
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	f.StringVar(&a.variant, "variant", def.Variant, "Scene variant: basic, glow or glow-wireframe")
	f.StringVar(&a.fontURL, "font-url", def.Font.URL, "Typeface JSON URL")
	f.StringVar(&a.fontPath, "font", "", "Local font (.json typeface, .ttf or .otf); overrides --font-url")
	f.BoolVar(&a.fallback, "fallback", def.Font.Fallback, "Use the builtin font if loading fails")
	f.IntVar(&a.fps, "fps", def.Render.FPS, "Target FPS")
	f.Uint32Var(&a.background, "bg", def.Render.Background, "Background color (0xRRGGBB)")
	f.BoolVar(&a.smooth, "smooth", def.Render.SmoothCamera, "Ease the camera toward its target")
	f.Float64Var(&a.bloomStrength, "bloom-strength", def.Bloom.Strength, "Bloom strength")
	f.Float64Var(&a.bloomRadius, "bloom-radius", def.Bloom.Radius, "Bloom radius (0-1)")
	f.Float64Var(&a.bloomThreshold, "bloom-threshold", def.Bloom.Threshold, "Bloom luminance threshold")
	f.StringVar(&a.logLevel, "log-level", def.Log.Level, "Log level: debug, info, warn or error")
	f.StringVar(&a.logFile, "log-file", "", "Write interactive logs to this file")

	cmd.AddCommand(newSnapshotCmd(a), newExportCmd(a), newInfoCmd(a))
	return cmd
}

// loadConfig reads the config file and applies any flags that were set.
func (a *app) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	f := cmd.Flags()
	set := func(name string, apply func()) {
		if f.Changed(name) {
			apply()
		}
	}
	set("variant", func() { cfg.Variant = a.variant })
	set("font-url", func() { cfg.Font.URL = a.fontURL })
	set("font", func() { cfg.Font.Path = a.fontPath })
	set("fallback", func() { cfg.Font.Fallback = a.fallback })
	set("fps", func() { cfg.Render.FPS = a.fps })
	set("bg", func() { cfg.Render.Background = a.background })
	set("smooth", func() { cfg.Render.SmoothCamera = a.smooth })
	set("bloom-strength", func() { cfg.Bloom.Strength = a.bloomStrength })
	set("bloom-radius", func() { cfg.Bloom.Radius = a.bloomRadius })
	set("bloom-threshold", func() { cfg.Bloom.Threshold = a.bloomThreshold })
	set("log-level", func() { cfg.Log.Level = a.logLevel })
	set("log-file", func() { cfg.Log.File = a.logFile })

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	a.cfg = cfg
	return nil
}

func (a *app) fontSource(log *zap.Logger) typeface.Source {
	fc := a.cfg.Font
	var src typeface.Source = typeface.HTTPSource{
		URL:    fc.URL,
		Client: &http.Client{Timeout: fc.Timeout},
	}
	if fc.Path != "" {
		src = typeface.FileSource{Path: fc.Path}
	}
	if fc.Fallback {
		src = typeface.FallbackSource{
			Primary:   src,
			Secondary: typeface.BuiltinSource{},
			OnFallback: func(err error) {
				log.Warn("using builtin font", zap.Error(err))
			},
		}
	}
	return src
}

func (a *app) newHost(log *zap.Logger) (*viewport.Host, error) {
	v, err := viewport.LookupVariant(a.cfg.Variant)
	if err != nil {
		return nil, err
	}
	opts := viewport.DefaultOptions(v)
	opts.Source = a.fontSource(log)
	opts.FPS = a.cfg.Render.FPS
	opts.Background = render.Hex(a.cfg.Render.Background)
	opts.SmoothCamera = a.cfg.Render.SmoothCamera
	opts.BloomStrength = a.cfg.Bloom.Strength
	opts.BloomRadius = a.cfg.Bloom.Radius
	opts.BloomThreshold = a.cfg.Bloom.Threshold
	return viewport.New(opts, log), nil
}

func (a *app) runInteractive(ctx context.Context) error {
	log, err := logging.ForInteractive(a.cfg.Log.Level, a.cfg.Log.File)
	if err != nil {
		return err
	}
	defer log.Sync()

	host, err := a.newHost(log)
	if err != nil {
		return err
	}

	term := viewport.NewTerminal()
	if err := host.Mount(ctx, term); err != nil {
		return fmt.Errorf("mount: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	input := make(chan events.Event, 16)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return term.Pump(gctx, input)
	})
	g.Go(func() error {
		defer cancel()
		return host.Run(gctx, input)
	})
	return g.Wait()
}
