package raster

import (
	"rig-renderer/internal/mathutil"
	"rig-renderer/internal/render"
	"rig-renderer/internal/scene"
)

// DefaultFloorColor is a dark teal.
var DefaultFloorColor = scene.Color{0, 0.3, 0.3, 1}

// EmitFloor draws an untextured quad on the bottom face of the box [lo, hi].
// up is the world axis that points up (1 for Y, 2 for Z). The quad reaches
// one box footprint beyond each side.
func EmitFloor(b render.Backend, lo, hi mathutil.Vec3, up int, c scene.Color) {
	a1, a2 := (up+1)%3, (up+2)%3
	center := lo.Add(hi).Scale(0.5)
	e1 := max(hi[a1]-lo[a1], 1)
	e2 := max(hi[a2]-lo[a2], 1)

	var n mathutil.Vec3
	n[up] = 1

	corner := func(s1, s2 float64) mathutil.Vec3 {
		var p mathutil.Vec3
		p[up] = lo[up]
		p[a1] = center[a1] + s1*e1
		p[a2] = center[a2] + s2*e2
		return p
	}

	b.SetTransform(mathutil.Mat4Identity())
	b.BindTexture(nil)
	b.Begin(render.Polygon)
	b.Color(c)
	b.Normal(n)
	b.Vertex(corner(-1, -1))
	b.Vertex(corner(1, -1))
	b.Vertex(corner(1, 1))
	b.Vertex(corner(-1, 1))
	b.End()
}
