package render

import "rig-renderer/internal/scene"

// Config is the per-call rendering state. It is a value: changing it between
// frames never affects a traversal already in progress.
type Config struct {
	// ReplaceColor draws every mesh in OverrideColor, ignoring material
	// and per-vertex colours.
	ReplaceColor  bool
	OverrideColor scene.Color
	// DefaultColor is used for meshes whose material has no diffuse colour.
	DefaultColor  scene.Color
	TwoSidedLight bool
}

// DefaultMaterialColor is used both as override and fallback colour unless configured.
var DefaultMaterialColor = scene.Color{0.5, 0.2, 0.5, 1}

func DefaultConfig() Config {
	return Config{
		OverrideColor: DefaultMaterialColor,
		DefaultColor:  DefaultMaterialColor,
	}
}

// MeshColor resolves the base colour of a mesh drawn with material mtl.
func (c Config) MeshColor(mtl *scene.Material) scene.Color {
	switch {
	case c.ReplaceColor:
		return c.OverrideColor
	case mtl != nil && mtl.HasDiffuse:
		d := mtl.Diffuse
		return scene.Color{d[0], d[1], d[2], 1}
	default:
		return c.DefaultColor
	}
}
