// Package filter classifies meshes that are overlays rather than model
// geometry, so callers can hide them before rendering.
package filter

import (
	"path/filepath"
	"regexp"
	"strings"

	"rig-renderer/internal/scene"
)

// Kind is the classification of one mesh.
type Kind int

const (
	Geometry Kind = iota
	Effect
	Body
)

func (k Kind) String() string {
	switch k {
	case Effect:
		return "effect"
	case Body:
		return "body"
	default:
		return "geometry"
	}
}

var gradientEffectRE = regexp.MustCompile(`^(?:mini_|hangul)?gra(?:\d|_|$)`)

var effectPatterns = []string{
	"glow", "flare", "chrome", "effect",
	"aura", "shiny", "spark", "fire", "blur",
	"elec_light", "arrowlight", "lighting_mega", "pin_star",
	"energy", "plasma", "shine", "halo", "trail",
	"gradation", "alpha_line", "damage",
	"shockwave", "swordeff", "circle_shield",
}

// "flame" only counts at the start of the stem: "box_flame_wood" is a frame.
var effectPrefixPatterns = []string{"flame"}

// Character skin and hair textures that ship inside equipment models.
var bodyTextureRE = regexp.MustCompile(`(?i)^(?:` +
	`hqskin(?:2)?(?:_)?class\d+` +
	`|skinclass\d+head` +
	`|nude_` +
	`|item\d+_head` +
	`|skin_(?:barbarian|warrior|class)` +
	`|level_man\d+` +
	`|(?:hq)?hair_r` +
	`)`)

// smallSpan is the largest extent of a tiny mesh still treated as a decal.
const smallSpan = 20

// TextureStem lowercases a texture path and strips its directory and extension.
func TextureStem(tex string) string {
	tex = strings.ToLower(strings.ReplaceAll(tex, "\\", "/"))
	return strings.TrimSuffix(filepath.Base(tex), filepath.Ext(tex))
}

// Classify decides whether mesh m with texture tex is an effect overlay,
// a character body underlay or regular geometry.
func Classify(m *scene.Mesh, tex string) Kind {
	stem := TextureStem(tex)
	if stem != "" && bodyTextureRE.MatchString(stem) {
		return Body
	}
	if stem != "" && isEffectStem(stem) {
		return Effect
	}

	// Tiny billboards are sparkles; large quads such as blade decals are kept.
	nv := len(m.Positions)
	if nv > 0 && nv <= 8 && len(m.Faces) <= 4 {
		lo, hi := m.Positions[0], m.Positions[0]
		for _, p := range m.Positions[1:] {
			lo, hi = lo.Min(p), hi.Max(p)
		}
		d := hi.Sub(lo)
		if max(d[0], d[1], d[2]) <= smallSpan {
			return Effect
		}
	}
	return Geometry
}

func isEffectStem(stem string) bool {
	if gradientEffectRE.MatchString(stem) {
		return true
	}
	for _, p := range effectPatterns {
		if strings.Contains(stem, p) {
			return true
		}
	}
	for _, p := range effectPrefixPatterns {
		if strings.HasPrefix(stem, p) {
			return true
		}
	}
	return false
}

// Hide clears the faces of every mesh whose kind is listed in kinds. Vertex
// data and bones stay, so the mesh is still skinned but draws nothing.
// It returns the indices of the hidden meshes.
func Hide(s *scene.Scene, kinds ...Kind) []int {
	if len(kinds) == 0 {
		return nil
	}
	var hidden []int
	for i, m := range s.Meshes {
		tex := ""
		if m.Material >= 0 && m.Material < len(s.Materials) {
			tex = s.Materials[m.Material].Texture
		}
		k := Classify(m, tex)
		for _, want := range kinds {
			if k == want {
				m.Faces = nil
				hidden = append(hidden, i)
				break
			}
		}
	}
	return hidden
}
