// Package render walks the scene graph and emits each node's meshes to a Backend.
package render

import (
	"image"

	"rig-renderer/internal/mathutil"
	"rig-renderer/internal/scene"
)

// Primitive is the topology of one emitted face.
type Primitive int

const (
	Points Primitive = iota
	Lines
	Triangles
	Polygon
)

func (p Primitive) String() string {
	switch p {
	case Points:
		return "points"
	case Lines:
		return "lines"
	case Triangles:
		return "triangles"
	default:
		return "polygon"
	}
}

// PrimitiveFor maps a face's index count to its topology.
func PrimitiveFor(indices int) Primitive {
	switch indices {
	case 1:
		return Points
	case 2:
		return Lines
	case 3:
		return Triangles
	default:
		return Polygon
	}
}

// TextureSet maps a material index to a decoded texture.
type TextureSet map[int]*image.NRGBA

// Backend receives draw calls in traversal order, in the manner of an
// immediate-mode graphics API. Vertex attributes set before Vertex apply to it.
type Backend interface {
	// Configure is called once per traversal, before any other call.
	Configure(cfg Config)
	// SetTransform replaces the accumulated model transform.
	SetTransform(m mathutil.Mat4)
	// BindTexture selects the texture for following primitives; nil unbinds.
	BindTexture(tex *image.NRGBA)
	Begin(p Primitive)
	Color(c scene.Color)
	TexCoord(uv [2]float64)
	Normal(n mathutil.Vec3)
	Vertex(p mathutil.Vec3)
	End()
}
