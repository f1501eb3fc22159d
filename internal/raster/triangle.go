package raster

import (
	"image"
	"math"

	"rig-renderer/internal/mathutil"
)

// screenVert is a projected vertex: pixel position, depth and linear colour.
type screenVert struct {
	x, y, z    float64
	r, g, b, a float64 // linear RGB, alpha in [0, 1]
	u, v       float64
}

// RasterizeTriangle fills one triangle with z-buffering, optional bilinear
// texturing modulated by the interpolated vertex colour, and a flat shade.
//
// This is the HOT PATH: no allocation inside the pixel loop.
func RasterizeTriangle(fb *FrameBuffer, sv [3]screenVert, tex *image.NRGBA, shade float64, lc *LightConfig) {
	x0, y0, z0 := sv[0].x, sv[0].y, sv[0].z
	x1, y1, z1 := sv[1].x, sv[1].y, sv[1].z
	x2, y2, z2 := sv[2].x, sv[2].y, sv[2].z

	// Bounding box
	minX := int(math.Floor(math.Min(math.Min(x0, x1), x2)))
	maxX := int(math.Ceil(math.Max(math.Max(x0, x1), x2)))
	minY := int(math.Floor(math.Min(math.Min(y0, y1), y2)))
	maxY := int(math.Ceil(math.Max(math.Max(y0, y1), y2)))

	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.Width {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) - y2
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			lr := w0*sv[0].r + w1*sv[1].r + w2*sv[2].r
			lg := w0*sv[0].g + w1*sv[1].g + w2*sv[2].g
			lb := w0*sv[0].b + w1*sv[1].b + w2*sv[2].b
			la := w0*sv[0].a + w1*sv[1].a + w2*sv[2].a

			if tex != nil {
				u := w0*sv[0].u + w1*sv[1].u + w2*sv[2].u
				v := w0*sv[0].v + w1*sv[1].v + w2*sv[2].v
				cr, cg, cb, ca := SampleTexture(tex, u, v)
				lr *= srgbToLinear[cr]
				lg *= srgbToLinear[cg]
				lb *= srgbToLinear[cb]
				la *= float64(ca) / 255
			}

			// Skip transparent texels
			if la < 8.0/255 {
				continue
			}
			z := w0*z0 + w1*z1 + w2*z2
			if !fb.depthTest(sx, sy, z) {
				continue
			}

			r, g, b := lc.shadePixel(lr, lg, lb, shade)
			fb.set(sx, sy, r, g, b, clamp255(la*255))
		}
	}
}

// RasterizeLine draws a one-pixel line with interpolated depth and colour.
func RasterizeLine(fb *FrameBuffer, a, b screenVert, shade float64, lc *LightConfig) {
	dx := b.x - a.x
	dy := b.y - a.y
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps == 0 {
		RasterizePoint(fb, a, shade, lc)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p := screenVert{
			x: a.x + dx*t,
			y: a.y + dy*t,
			z: a.z + (b.z-a.z)*t,
			r: a.r + (b.r-a.r)*t,
			g: a.g + (b.g-a.g)*t,
			b: a.b + (b.b-a.b)*t,
			a: a.a + (b.a-a.a)*t,
		}
		RasterizePoint(fb, p, shade, lc)
	}
}

// RasterizePoint plots a single z-tested pixel.
func RasterizePoint(fb *FrameBuffer, p screenVert, shade float64, lc *LightConfig) {
	x := int(math.Round(p.x))
	y := int(math.Round(p.y))
	if !fb.depthTest(x, y, p.z) {
		return
	}
	r, g, b := lc.shadePixel(p.r, p.g, p.b, shade)
	fb.set(x, y, r, g, b, clamp255(p.a*255))
}

// faceNormal returns the view-space normal of a face: the mean of its vertex
// normals when all are present, the geometric normal otherwise.
func faceNormal(view []mathutil.Vec3, normals []mathutil.Vec3) mathutil.Vec3 {
	if len(normals) == len(view) && len(normals) > 0 {
		var sum mathutil.Vec3
		for _, n := range normals {
			sum = sum.Add(n)
		}
		if n := sum.Normalize(); n != (mathutil.Vec3{}) {
			return n
		}
	}
	if len(view) < 3 {
		return mathutil.Vec3{0, 0, 1}
	}
	n := view[1].Sub(view[0]).Cross(view[2].Sub(view[0])).Normalize()
	if n == (mathutil.Vec3{}) {
		return mathutil.Vec3{0, 0, 1}
	}
	return n
}
