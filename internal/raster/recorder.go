package raster

import (
	"image"

	"rig-renderer/internal/mathutil"
	"rig-renderer/internal/render"
	"rig-renderer/internal/scene"
)

// Vertex is one emitted vertex in world space with its attributes.
type Vertex struct {
	Pos       mathutil.Vec3
	Normal    mathutil.Vec3 // unit length when HasNormal
	HasNormal bool
	Color     scene.Color
	UV        [2]float64
	HasUV     bool
}

// Primitive is one Begin/End block.
type Primitive struct {
	Kind    render.Primitive
	Verts   []Vertex
	Texture *image.NRGBA
}

// List is a recorded frame, ready to be rasterized from any camera.
type List struct {
	Prims    []Primitive
	TwoSided bool
}

// Recorder implements render.Backend by transforming vertices to world
// space and keeping them as a display list.
type Recorder struct {
	list   List
	model  mathutil.Mat4
	normal mathutil.Mat4
	tex    *image.NRGBA
	cur    Vertex
	prim   *Primitive
}

var _ render.Backend = (*Recorder)(nil)

func NewRecorder() *Recorder {
	r := &Recorder{}
	r.Reset()
	return r
}

// Reset clears the list and the current state for a new frame.
func (r *Recorder) Reset() {
	r.list = List{}
	r.model = mathutil.Mat4Identity()
	r.normal = mathutil.Mat4Identity()
	r.tex = nil
	r.cur = Vertex{Color: scene.Color{1, 1, 1, 1}}
	r.prim = nil
}

// List returns the primitives recorded since the last Reset.
func (r *Recorder) List() *List {
	return &r.list
}

func (r *Recorder) Configure(cfg render.Config) {
	r.list.TwoSided = cfg.TwoSidedLight
}

func (r *Recorder) SetTransform(m mathutil.Mat4) {
	r.model = m
	r.normal = m.Inverse().Transpose()
}

func (r *Recorder) BindTexture(tex *image.NRGBA) {
	r.tex = tex
}

func (r *Recorder) Begin(p render.Primitive) {
	r.prim = &Primitive{Kind: p, Texture: r.tex}
	r.cur.HasNormal = false
	r.cur.HasUV = false
}

func (r *Recorder) Color(c scene.Color) {
	r.cur.Color = c
}

func (r *Recorder) TexCoord(uv [2]float64) {
	r.cur.UV = uv
	r.cur.HasUV = true
}

func (r *Recorder) Normal(n mathutil.Vec3) {
	r.cur.Normal = n
	r.cur.HasNormal = true
}

func (r *Recorder) Vertex(p mathutil.Vec3) {
	if r.prim == nil {
		return
	}
	v := r.cur
	v.Pos = r.model.MulPoint(p)
	if v.HasNormal {
		v.Normal = r.normal.MulDir(v.Normal).Normalize()
	}
	r.prim.Verts = append(r.prim.Verts, v)
}

func (r *Recorder) End() {
	if r.prim == nil {
		return
	}
	if len(r.prim.Verts) > 0 {
		r.list.Prims = append(r.list.Prims, *r.prim)
	}
	r.prim = nil
}

// Bounds returns the world-space box of every recorded vertex.
func (l *List) Bounds() (lo, hi mathutil.Vec3, ok bool) {
	for _, p := range l.Prims {
		for _, v := range p.Verts {
			if !ok {
				lo, hi, ok = v.Pos, v.Pos, true
				continue
			}
			lo = lo.Min(v.Pos)
			hi = hi.Max(v.Pos)
		}
	}
	return lo, hi, ok
}
