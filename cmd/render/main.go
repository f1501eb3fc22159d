package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"rig-renderer/internal/anim"
	"rig-renderer/internal/batch"
	"rig-renderer/internal/config"
	"rig-renderer/internal/filter"
	"rig-renderer/internal/importer"
	"rig-renderer/internal/logging"
	"rig-renderer/internal/mathutil"
	"rig-renderer/internal/pipeline"
	"rig-renderer/internal/raster"
	"rig-renderer/internal/render"
	"rig-renderer/internal/scene"
	"rig-renderer/internal/texture"

	"github.com/fsnotify/fsnotify"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to a .json or .toml config file")
	model := flag.String("model", "", "Path to the BMD model")
	texDir := flag.String("textures", "", "Texture directory (default: model directory)")
	outputDir := flag.String("output", "", "Output directory (default: <model>-frames)")
	frames := flag.Int("frames", 0, "Number of frames to render (default: one loop of the clip)")
	clip := flag.Int("clip", 0, "Animation clip index")
	workers := flag.Int("workers", 0, "Number of encoder goroutines (default: NumCPU)")
	size := flag.Int("size", 0, "Output edge length in pixels (default: 512)")
	replace := flag.Bool("replace-color", false, "Draw every mesh in the material colour")
	logLevel := flag.String("log", "", "Log level: debug, info, warn, error")
	watch := flag.Bool("watch", false, "Re-render whenever the model file changes")

	flag.Parse()
	if *model == "" && flag.NArg() > 0 {
		*model = flag.Arg(0)
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			logging.Fatal("loading config", "err", err)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		Model:        *model,
		TextureDir:   *texDir,
		OutputDir:    *outputDir,
		Frames:       *frames,
		Clip:         *clip,
		Workers:      *workers,
		Size:         *size,
		ReplaceColor: *replace,
		LogLevel:     *logLevel,
	})
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		logging.Warn("ignoring log level", "level", cfg.LogLevel, "err", err)
	}

	if cfg.Model == "" {
		fmt.Fprintln(os.Stderr, "Error: no model given. Use -model or config.json.")
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		if !*watch {
			logging.Fatal("render failed", "model", cfg.Model, "err", err)
		}
		logging.Error("render failed", "model", cfg.Model, "err", err)
	}

	if *watch {
		if err := watchModel(cfg); err != nil {
			logging.Fatal("watch failed", "err", err)
		}
	}
}

func run(cfg config.Config) error {
	start := time.Now()

	asset, err := importer.LoadBMD(cfg.Model)
	if err != nil {
		return err
	}
	sc := asset.Scene

	var hide []filter.Kind
	if cfg.HideEffects {
		hide = append(hide, filter.Effect)
	}
	if cfg.HideBody {
		hide = append(hide, filter.Body)
	}
	if hidden := filter.Hide(sc, hide...); len(hidden) > 0 {
		logging.Info("meshes hidden", "count", len(hidden), "indices", hidden)
	}
	logging.Info("model loaded", "name", sc.Name, "nodes", sc.Graph.Len(), "meshes", len(sc.Meshes), "clips", len(asset.Clips))

	// Build texture index
	texIndex := texture.BuildIndex(cfg.TextureDir)
	texCache := texture.NewCache(texIndex)
	textures := texture.ForMaterials(sc.Materials, texCache)
	logging.Info("textures", "indexed", texIndex.Len(), "bound", len(textures))

	var clip *anim.Clip
	clipName := ""
	if len(asset.Clips) > 0 {
		if cfg.Clip < 0 || cfg.Clip >= len(asset.Clips) {
			return fmt.Errorf("clip %d out of range (model has %d)", cfg.Clip, len(asset.Clips))
		}
		clip = &asset.Clips[cfg.Clip]
		clipName = clip.Name
	}

	pipe, err := pipeline.New(sc, clip, textures)
	if err != nil {
		return err
	}
	mc := scene.Color(cfg.MaterialColor)
	pipe.SetConfig(render.Config{
		ReplaceColor:  cfg.ReplaceColor,
		OverrideColor: mc,
		DefaultColor:  mc,
		TwoSidedLight: cfg.TwoSidedLight,
	})

	count := cfg.Frames
	if count <= 0 {
		count = max(pipe.Duration(), 1)
	}

	renderSize := cfg.RenderSize * cfg.Supersample
	camOpts := raster.CameraOptions{
		Angle:       mathutil.WrapAngle(mathutil.Deg2Rad(cfg.Angle)),
		Upright:     *cfg.Upright,
		Perspective: cfg.Perspective,
		FOV:         cfg.FOV,
		Margin:      16 * cfg.Supersample,
		LookRadius:  cfg.LookRadius,
	}
	floorUp := 1
	if *cfg.Upright {
		floorUp = 2
	}
	drawOpts := raster.Options{
		Light:      raster.DefaultLightConfig(),
		Background: toNRGBA(cfg.Background),
	}

	writer, err := batch.Start(batch.Config{
		OutputDir:  cfg.OutputDir,
		RenderSize: cfg.RenderSize,
		Workers:    cfg.Workers,
	})
	if err != nil {
		return err
	}

	logging.Info("rendering", "clip", clipName, "duration", pipe.Duration(), "frames", count, "output", cfg.OutputDir)

	rec := raster.NewRecorder()
	var (
		cam              raster.Camera
		floorLo, floorHi mathutil.Vec3
		stepErr          error
	)
	for i := 0; i < count; i++ {
		rec.Reset()
		pipe.Render(rec)
		if i == 0 {
			// Framing is fixed from the first pose so the model does not jitter.
			lo, hi, ok := rec.List().Bounds()
			if !ok {
				writer.Close()
				return errors.New("model has no visible geometry")
			}
			cam = raster.FitCamera(lo, hi, renderSize, camOpts)
			floorLo, floorHi = lo, hi
		}
		if cfg.Floor {
			raster.EmitFloor(rec, floorLo, floorHi, floorUp, scene.Color(cfg.FloorColor))
		}
		img := raster.Draw(rec.List(), cam, drawOpts)
		writer.Submit(batch.Frame{Index: i, Tick: pipe.Tick(), Image: img})

		if stepErr = pipe.Step(); stepErr != nil {
			break
		}
	}

	results := writer.Close()
	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
			logging.Error("frame failed", "index", r.Index, "err", r.Error)
		}
	}
	if stepErr != nil {
		return stepErr
	}

	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	manifest := batch.NewManifest(cfg.Model, clipName, pipe.Duration(), cfg.RenderSize, results)
	if err := batch.WriteManifest(manifestPath, manifest); err != nil {
		logging.Warn("manifest write failed", "path", manifestPath, "err", err)
	}

	logging.Info("done", "rendered", len(results)-failed, "failed", failed, "elapsed", time.Since(start).Round(time.Millisecond))
	if failed > 0 {
		return fmt.Errorf("%d of %d frames failed", failed, len(results))
	}
	return nil
}

// watchModel re-renders after every write to the model file until interrupted.
func watchModel(cfg config.Config) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch the directory: editors often replace the file instead of writing it.
	abs, err := filepath.Abs(cfg.Model)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	logging.Info("watching", "model", abs)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	var debounce <-chan time.Time
	for {
		select {
		case e, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(e.Name) != abs || e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			debounce = time.After(200 * time.Millisecond)
		case <-debounce:
			debounce = nil
			if err := run(cfg); err != nil {
				logging.Error("render failed", "model", cfg.Model, "err", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logging.Warn("watcher", "err", err)
		case <-sigCh:
			return nil
		}
	}
}

func toNRGBA(c [4]float64) color.NRGBA {
	conv := func(v float64) uint8 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	return color.NRGBA{R: conv(c[0]), G: conv(c[1]), B: conv(c[2]), A: conv(c[3])}
}
