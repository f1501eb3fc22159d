package raster

import (
	"image"
	"image/color"
	"math"
	"testing"

	"rig-renderer/internal/mathutil"
	"rig-renderer/internal/render"
	"rig-renderer/internal/scene"
)

func TestRecorderTransformsVertices(t *testing.T) {
	r := NewRecorder()
	r.Configure(render.Config{TwoSidedLight: true})
	r.SetTransform(mathutil.Translation(mathutil.Vec3{5, 0, 0}))

	// Outside Begin/End nothing is recorded.
	r.Vertex(mathutil.Vec3{})

	r.Begin(render.Triangles)
	r.Color(scene.Color{1, 0, 0, 1})
	r.Normal(mathutil.Vec3{0, 0, 2})
	r.Vertex(mathutil.Vec3{0, 0, 0})
	r.Vertex(mathutil.Vec3{1, 0, 0})
	r.Vertex(mathutil.Vec3{0, 1, 0})
	r.End()

	r.Begin(render.Points)
	r.End()

	l := r.List()
	if !l.TwoSided {
		t.Error("TwoSided not taken from config")
	}
	if len(l.Prims) != 1 {
		t.Fatalf("recorded %d primitives, want 1", len(l.Prims))
	}
	v := l.Prims[0].Verts[1]
	if v.Pos != (mathutil.Vec3{6, 0, 0}) {
		t.Errorf("position = %v, want (6,0,0)", v.Pos)
	}
	if !v.HasNormal || v.Normal != (mathutil.Vec3{0, 0, 1}) {
		t.Errorf("normal = %v (%t), want unit +Z", v.Normal, v.HasNormal)
	}
	if v.Color != (scene.Color{1, 0, 0, 1}) {
		t.Errorf("color = %v", v.Color)
	}

	lo, hi, ok := l.Bounds()
	if !ok || lo != (mathutil.Vec3{5, 0, 0}) || hi != (mathutil.Vec3{6, 1, 0}) {
		t.Errorf("Bounds = %v %v %t", lo, hi, ok)
	}

	r.Reset()
	if len(r.List().Prims) != 0 {
		t.Error("Reset kept primitives")
	}
}

func TestFitCameraCentresBox(t *testing.T) {
	lo := mathutil.Vec3{-2, -1, -1}
	hi := mathutil.Vec3{4, 3, 1}
	for _, persp := range []bool{false, true} {
		cam := FitCamera(lo, hi, 64, CameraOptions{Perspective: persp})
		x, y, _ := cam.Project(lo.Add(hi).Scale(0.5))
		if math.Abs(x-32) > 1e-9 || math.Abs(y-32) > 1e-9 {
			t.Errorf("perspective=%t: centre projects to (%v, %v)", persp, x, y)
		}
	}

	cam := FitCamera(lo, hi, 64, CameraOptions{})
	// Widest extent is 6 units across 64 pixels.
	if math.Abs(cam.Scale-64.0/6) > 1e-9 {
		t.Errorf("Scale = %v", cam.Scale)
	}
	// Screen y grows downwards.
	_, yTop, _ := cam.Project(mathutil.Vec3{1, 3, 0})
	_, yBottom, _ := cam.Project(mathutil.Vec3{1, -1, 0})
	if yTop >= yBottom {
		t.Errorf("top y %v not above bottom y %v", yTop, yBottom)
	}
}

func TestFitCameraLookRadius(t *testing.T) {
	lo := mathutil.Vec3{-1, -1, -1}
	hi := mathutil.Vec3{1, 1, 1}

	// Orthographic: the radius is the half-width of the usable area.
	cam := FitCamera(lo, hi, 64, CameraOptions{LookRadius: 4, Margin: 2})
	if x, _, _ := cam.Project(mathutil.Vec3{4, 0, 0}); math.Abs(x-62) > 1e-9 {
		t.Errorf("x = %v, want the right margin at 62", x)
	}

	// Perspective: doubling the distance halves the image size.
	near := FitCamera(lo, hi, 64, CameraOptions{Perspective: true, LookRadius: 10})
	far := FitCamera(lo, hi, 64, CameraOptions{Perspective: true, LookRadius: 20})
	if math.Abs(near.Scale-2*far.Scale) > 1e-9 {
		t.Errorf("scale %v at 10, %v at 20", near.Scale, far.Scale)
	}
	if x, y, _ := far.Project(mathutil.Vec3{}); math.Abs(x-32) > 1e-9 || math.Abs(y-32) > 1e-9 {
		t.Errorf("centre projects to (%v, %v)", x, y)
	}
	// A point nearer the camera appears further from the centre.
	xFront, _, _ := near.Project(mathutil.Vec3{1, 0, 1})
	xBack, _, _ := near.Project(mathutil.Vec3{1, 0, -1})
	if xFront <= xBack {
		t.Errorf("front x %v, back x %v", xFront, xBack)
	}
}

func TestEmitFloor(t *testing.T) {
	lo := mathutil.Vec3{-1, -2, 0}
	hi := mathutil.Vec3{1, 2, 5}
	r := NewRecorder()
	// A translated model transform must not move the floor.
	r.SetTransform(mathutil.Translation(mathutil.Vec3{9, 9, 9}))
	EmitFloor(r, lo, hi, 2, DefaultFloorColor)

	l := r.List()
	if len(l.Prims) != 1 || l.Prims[0].Kind != render.Polygon || len(l.Prims[0].Verts) != 4 {
		t.Fatalf("prims = %+v", l.Prims)
	}
	if l.Prims[0].Texture != nil {
		t.Error("floor is textured")
	}
	for _, v := range l.Prims[0].Verts {
		if v.Pos[2] != 0 || v.Normal != (mathutil.Vec3{0, 0, 1}) || v.Color != DefaultFloorColor {
			t.Errorf("vertex %+v", v)
		}
	}
	flo, fhi, _ := l.Bounds()
	if flo != (mathutil.Vec3{-2, -4, 0}) || fhi != (mathutil.Vec3{2, 4, 0}) {
		t.Errorf("floor spans %v..%v", flo, fhi)
	}

	// Z-up floors face the viewer's up axis once the model is made upright.
	cam := FitCamera(lo, hi, 32, CameraOptions{Upright: true})
	if up := cam.ViewDir(mathutil.Vec3{0, 0, 1}); math.Abs(up[1]-1) > 1e-9 {
		t.Errorf("floor normal in view = %v, want +Y", up)
	}
}

func TestDrawTriangle(t *testing.T) {
	r := NewRecorder()
	r.Begin(render.Triangles)
	r.Color(scene.Color{1, 1, 1, 1})
	r.Vertex(mathutil.Vec3{-1, -1, 0})
	r.Vertex(mathutil.Vec3{1, -1, 0})
	r.Vertex(mathutil.Vec3{0, 1, 0})
	r.End()

	lo, hi, _ := r.List().Bounds()
	cam := FitCamera(lo, hi, 32, CameraOptions{})
	img := Draw(r.List(), cam, Options{Light: DefaultLightConfig()})

	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Fatalf("image size %v", b)
	}
	if c := img.NRGBAAt(16, 16); c.A != 255 || c.R == 0 {
		t.Errorf("centre pixel = %v, want lit opaque", c)
	}
	if c := img.NRGBAAt(0, 0); c != (color.NRGBA{}) {
		t.Errorf("corner pixel = %v, want background", c)
	}
}

func TestDrawDepthOrder(t *testing.T) {
	r := NewRecorder()
	emit := func(z float64, c scene.Color) {
		r.Begin(render.Polygon)
		r.Color(c)
		r.Vertex(mathutil.Vec3{-1, -1, z})
		r.Vertex(mathutil.Vec3{1, -1, z})
		r.Vertex(mathutil.Vec3{1, 1, z})
		r.Vertex(mathutil.Vec3{-1, 1, z})
		r.End()
	}
	// The near quad is drawn first; the far one must not overwrite it.
	emit(1, scene.Color{1, 0, 0, 1})
	emit(-1, scene.Color{0, 0, 1, 1})

	lo, hi, _ := r.List().Bounds()
	cam := FitCamera(lo, hi, 16, CameraOptions{})
	img := Draw(r.List(), cam, Options{Light: DefaultLightConfig()})
	if c := img.NRGBAAt(8, 8); c.R == 0 || c.B != 0 {
		t.Errorf("centre pixel = %v, want the red near quad", c)
	}
}

func TestSampleTextureOrigin(t *testing.T) {
	tex := image.NewNRGBA(image.Rect(0, 0, 1, 2))
	tex.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255}) // top row
	tex.SetNRGBA(0, 1, color.NRGBA{B: 255, A: 255}) // bottom row

	if r, _, b, _ := SampleTexture(tex, 0, 0); b != 255 || r != 0 {
		t.Errorf("v=0 sampled (%d, _, %d), want the bottom row", r, b)
	}
	if r, _, b, _ := SampleTexture(tex, 0, 0.999999); r != 255 || b != 0 {
		t.Errorf("v≈1 sampled (%d, _, %d), want the top row", r, b)
	}
}

func TestComputeShadeTwoSided(t *testing.T) {
	lc := DefaultLightConfig()
	front := lc.LightDir
	back := front.Scale(-1)

	if a, b := lc.ComputeShade(front, true), lc.ComputeShade(back, true); math.Abs(a-b) > 1e-12 {
		t.Errorf("two-sided: front %v back %v", a, b)
	}
	if a, b := lc.ComputeShade(front, false), lc.ComputeShade(back, false); b >= a {
		t.Errorf("one-sided: back face %v not darker than front %v", b, a)
	}
}
