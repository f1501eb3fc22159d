package raster

import (
	"math"

	"rig-renderer/internal/mathutil"
)

// CameraOptions describes how a camera frames the model.
type CameraOptions struct {
	Angle       float64 // orbit about the vertical axis, radians
	Upright     bool    // rotate the model 90° about X before viewing
	Perspective bool
	FOV         float64 // degrees, perspective only
	Margin      int     // pixels left free on each side
	// LookRadius is the camera distance from the box centre. In orthographic
	// mode it is the half-width of the view instead. Zero fits the box.
	LookRadius float64
}

// DefaultFOV matches a 35° vertical field of view.
const DefaultFOV = 35.0

// Camera maps world space to screen pixels. +Z in view space points to the
// viewer, so larger depth values are closer.
type Camera struct {
	View        mathutil.Mat3
	Center      mathutil.Vec3 // view-space point mapped to the image centre
	Scale       float64       // pixels per unit
	Size        int
	Perspective bool
	camDist     float64
	zCenter     float64
}

// FitCamera builds a camera that fits the world box [lo, hi] into a size×size image.
func FitCamera(lo, hi mathutil.Vec3, size int, opts CameraOptions) Camera {
	view := mathutil.RotY(opts.Angle)
	if opts.Upright {
		view = mathutil.Mat3Mul(view, mathutil.ModelUpright)
	}

	vmin := mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	vmax := mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i := 0; i < 8; i++ {
		corner := mathutil.Vec3{lo[0], lo[1], lo[2]}
		if i&1 != 0 {
			corner[0] = hi[0]
		}
		if i&2 != 0 {
			corner[1] = hi[1]
		}
		if i&4 != 0 {
			corner[2] = hi[2]
		}
		t := view.MulVec3(corner)
		vmin = vmin.Min(t)
		vmax = vmax.Max(t)
	}

	center := vmin.Add(vmax).Scale(0.5)
	span := math.Max(vmax[0]-vmin[0], vmax[1]-vmin[1])
	if span < 0.001 {
		span = 0.001
	}
	usable := size - 2*opts.Margin
	if usable < 1 {
		usable = size
	}

	if opts.LookRadius > 0 && !opts.Perspective {
		span = 2 * opts.LookRadius
	}

	cam := Camera{
		View:        view,
		Center:      center,
		Scale:       float64(usable) / span,
		Size:        size,
		Perspective: opts.Perspective,
	}

	if opts.Perspective {
		fov := opts.FOV
		if fov <= 0 {
			fov = DefaultFOV
		}
		tan := math.Tan(mathutil.Deg2Rad(fov / 2))
		cam.zCenter = center[2]
		if opts.LookRadius > 0 {
			// The centre plane shows radius·tan(fov/2) either side of the centre.
			cam.camDist = opts.LookRadius
			cam.Scale = float64(usable) / (2 * opts.LookRadius * tan)
		} else {
			cam.camDist = (span/2)/tan + (vmax[2]-vmin[2])/2
		}
	}
	return cam
}

// Project maps a world point to screen x, y and depth.
func (c Camera) Project(p mathutil.Vec3) (float64, float64, float64) {
	t := c.View.MulVec3(p)
	x := t[0] - c.Center[0]
	y := t[1] - c.Center[1]
	if c.Perspective {
		zOff := t[2] - c.zCenter
		depth := math.Max(c.camDist-zOff, 0.1)
		factor := c.camDist / depth
		x *= factor
		y *= factor
	}
	half := float64(c.Size) / 2
	return x*c.Scale + half, -y*c.Scale + half, t[2]
}

// ViewDir rotates a world direction into view space.
func (c Camera) ViewDir(n mathutil.Vec3) mathutil.Vec3 {
	return c.View.MulVec3(n)
}
