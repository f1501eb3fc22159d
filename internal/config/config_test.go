package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "render.toml", `
model = "models/sword.bmd"
frames = 12
render_size = 256
replace_color = true
material_color = [1.0, 0.0, 0.0, 1.0]
upright = false
hide_effects = true
log_level = "debug"
look_radius = 700.0
floor = true
floor_color = [0.1, 0.2, 0.3, 1.0]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Model != "models/sword.bmd" || cfg.Frames != 12 || cfg.RenderSize != 256 {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.ReplaceColor || cfg.MaterialColor != [4]float64{1, 0, 0, 1} || !cfg.HideEffects {
		t.Errorf("colour settings = %+v", cfg)
	}
	if cfg.Upright == nil || *cfg.Upright {
		t.Error("upright = false not kept")
	}
	if cfg.LookRadius != 700 || !cfg.Floor || cfg.FloorColor != [4]float64{0.1, 0.2, 0.3, 1} {
		t.Errorf("look radius %v floor %t color %v", cfg.LookRadius, cfg.Floor, cfg.FloorColor)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "render.json", `{"model": "a.bmd", "clip": 2, "two_sided_light": true, "angle": 45}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Model != "a.bmd" || cfg.Clip != 2 || !cfg.TwoSidedLight || cfg.Angle != 45 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none.toml")); err == nil {
		t.Error("missing file accepted")
	}
	if _, err := Load(writeConfig(t, "bad.json", "{model")); err == nil {
		t.Error("bad JSON accepted")
	}
	if _, err := Load(writeConfig(t, "bad.toml", "model = ")); err == nil {
		t.Error("bad TOML accepted")
	}
}

func TestResolveDefaults(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{Model: filepath.Join("assets", "wing.bmd")})

	if cfg.TextureDir != "assets" {
		t.Errorf("TextureDir = %q", cfg.TextureDir)
	}
	if cfg.OutputDir != filepath.Join("assets", "wing-frames") {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.RenderSize != 512 || cfg.Supersample != 2 || cfg.Workers != runtime.NumCPU() {
		t.Errorf("render defaults = %d %d %d", cfg.RenderSize, cfg.Supersample, cfg.Workers)
	}
	if cfg.MaterialColor != [4]float64{0.5, 0.2, 0.5, 1} {
		t.Errorf("MaterialColor = %v", cfg.MaterialColor)
	}
	if cfg.FloorColor != [4]float64{0, 0.3, 0.3, 1} || cfg.Floor || cfg.LookRadius != 0 {
		t.Errorf("floor %t color %v look radius %v", cfg.Floor, cfg.FloorColor, cfg.LookRadius)
	}
	if cfg.Upright == nil || !*cfg.Upright || cfg.LogLevel != "info" {
		t.Errorf("upright %v log level %q", cfg.Upright, cfg.LogLevel)
	}
}

func TestResolveFlagsOverrideFile(t *testing.T) {
	cfg := Config{Model: "file.bmd", Frames: 10, RenderSize: 128, OutputDir: "out"}
	cfg.Resolve(Flags{Model: "flag.bmd", Frames: 3, Size: 64, ReplaceColor: true, LogLevel: "warn"})

	if cfg.Model != "flag.bmd" || cfg.Frames != 3 || cfg.RenderSize != 64 {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.ReplaceColor || cfg.LogLevel != "warn" || cfg.OutputDir != "out" {
		t.Errorf("cfg = %+v", cfg)
	}
}
