package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	Model      string `json:"model" toml:"model"`
	TextureDir string `json:"texture_dir" toml:"texture_dir"`
	OutputDir  string `json:"output_dir" toml:"output_dir"`

	// Animation
	Clip   int `json:"clip" toml:"clip"`
	Frames int `json:"frames" toml:"frames"` // 0 = one full loop of the clip

	// Render settings
	RenderSize    int        `json:"render_size" toml:"render_size"`
	Supersample   int        `json:"supersample" toml:"supersample"`
	Workers       int        `json:"workers" toml:"workers"`
	ReplaceColor  bool       `json:"replace_color" toml:"replace_color"`
	MaterialColor [4]float64 `json:"material_color" toml:"material_color"`
	TwoSidedLight bool       `json:"two_sided_light" toml:"two_sided_light"`
	Background    [4]float64 `json:"background" toml:"background"`
	HideEffects   bool       `json:"hide_effects" toml:"hide_effects"`
	HideBody      bool       `json:"hide_body" toml:"hide_body"`
	Floor         bool       `json:"floor" toml:"floor"`
	FloorColor    [4]float64 `json:"floor_color" toml:"floor_color"`

	// Camera
	Angle       float64 `json:"angle" toml:"angle"` // degrees about the vertical axis
	Upright     *bool   `json:"upright" toml:"upright"`
	Perspective bool    `json:"perspective" toml:"perspective"`
	FOV         float64 `json:"fov" toml:"fov"`
	LookRadius  float64 `json:"look_radius" toml:"look_radius"` // 0 fits the model

	LogLevel string `json:"log_level" toml:"log_level"`
}

// Load reads a JSON or TOML config file, chosen by extension.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Model        string
	TextureDir   string
	OutputDir    string
	Frames       int
	Clip         int
	Workers      int
	Size         int
	ReplaceColor bool
	LogLevel     string
}

// Resolve applies CLI overrides and fills any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.Model != "" {
		c.Model = flags.Model
	}
	if flags.TextureDir != "" {
		c.TextureDir = flags.TextureDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Clip > 0 {
		c.Clip = flags.Clip
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Size > 0 {
		c.RenderSize = flags.Size
	}
	if flags.ReplaceColor {
		c.ReplaceColor = true
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}

	// Textures are looked up next to the model unless told otherwise.
	if c.TextureDir == "" && c.Model != "" {
		c.TextureDir = filepath.Dir(c.Model)
	}
	if c.OutputDir == "" {
		c.OutputDir = "frames"
		if c.Model != "" {
			stem := strings.TrimSuffix(filepath.Base(c.Model), filepath.Ext(c.Model))
			c.OutputDir = filepath.Join(filepath.Dir(c.Model), stem+"-frames")
		}
	}

	if c.RenderSize <= 0 {
		c.RenderSize = 512
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.MaterialColor == ([4]float64{}) {
		c.MaterialColor = [4]float64{0.5, 0.2, 0.5, 1}
	}
	if c.FloorColor == ([4]float64{}) {
		c.FloorColor = [4]float64{0, 0.3, 0.3, 1}
	}
	if c.Upright == nil {
		up := true
		c.Upright = &up
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
