package raster

import (
	"image"
	"image/color"
	"math"

	"rig-renderer/internal/mathutil"
	"rig-renderer/internal/render"
)

// Options controls one rasterization pass.
type Options struct {
	Light      LightConfig
	Background color.NRGBA
}

// Draw rasterizes a recorded frame through cam into a new NRGBA image of cam.Size².
func Draw(list *List, cam Camera, opts Options) *image.NRGBA {
	size := cam.Size
	fb := NewFrameBuffer(size, size, opts.Background)
	lc := opts.Light

	var (
		sv      []screenVert
		view    []mathutil.Vec3
		normals []mathutil.Vec3
	)
	for pi := range list.Prims {
		prim := &list.Prims[pi]
		sv = sv[:0]
		view = view[:0]
		normals = normals[:0]

		hasUV := prim.Texture != nil
		for _, v := range prim.Verts {
			x, y, z := cam.Project(v.Pos)
			s := screenVert{
				x: x, y: y, z: z,
				r: linear(v.Color[0]),
				g: linear(v.Color[1]),
				b: linear(v.Color[2]),
				a: clamp01(v.Color[3]),
				u: v.UV[0],
				v: v.UV[1],
			}
			sv = append(sv, s)
			view = append(view, cam.View.MulVec3(v.Pos))
			if v.HasNormal {
				normals = append(normals, cam.ViewDir(v.Normal))
			}
			hasUV = hasUV && v.HasUV
		}
		var tex *image.NRGBA
		if hasUV {
			tex = prim.Texture
		}

		switch prim.Kind {
		case render.Points:
			for i := range sv {
				RasterizePoint(fb, sv[i], pointShade(&lc, normals, i, list.TwoSided), &lc)
			}
		case render.Lines:
			shade := lc.ComputeShade(faceNormal(view, normals), list.TwoSided)
			for i := 0; i+1 < len(sv); i += 2 {
				RasterizeLine(fb, sv[i], sv[i+1], shade, &lc)
			}
		case render.Triangles:
			for i := 0; i+2 < len(sv); i += 3 {
				shade := lc.ComputeShade(faceNormal(view[i:i+3], sliceOrNil(normals, i, 3)), list.TwoSided)
				RasterizeTriangle(fb, [3]screenVert{sv[i], sv[i+1], sv[i+2]}, tex, shade, &lc)
			}
		default:
			// Convex polygon as a triangle fan.
			if len(sv) < 3 {
				continue
			}
			shade := lc.ComputeShade(faceNormal(view, normals), list.TwoSided)
			for i := 1; i+1 < len(sv); i++ {
				RasterizeTriangle(fb, [3]screenVert{sv[0], sv[i], sv[i+1]}, tex, shade, &lc)
			}
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	copy(img.Pix, fb.Color)
	return img
}

func pointShade(lc *LightConfig, normals []mathutil.Vec3, i int, twoSided bool) float64 {
	if i >= len(normals) {
		return 1
	}
	return lc.ComputeShade(normals[i], twoSided)
}

// sliceOrNil returns normals[i:i+n] when every vertex of the group had a normal.
func sliceOrNil(normals []mathutil.Vec3, i, n int) []mathutil.Vec3 {
	if i+n > len(normals) {
		return nil
	}
	return normals[i : i+n]
}

func linear(c float64) float64 {
	return math.Pow(clamp01(c), 2.2)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
