package scene

import "rig-renderer/internal/mathutil"

// Color is RGBA in [0, 1].
type Color [4]float64

// Face is an ordered list of vertex indices. Its length selects the
// primitive: 1 point, 2 line, 3 triangle, more polygon.
type Face []int

// Weight is one bone influence on a vertex.
type Weight struct {
	Vertex int
	Weight float64
}

// Bone deforms the vertices listed in Weights, driven by the node of the same name.
// Weights for a vertex across a mesh's bones are expected to sum to 1; this
// is not checked.
type Bone struct {
	Name    string
	Offset  mathutil.Mat4 // bind-pose mesh space → bone space
	Weights []Weight
}

// Mesh is the live geometry of one sub-mesh. Positions and Normals are
// overwritten by skinning every frame; the reference pose lives in BindPose.
type Mesh struct {
	Name      string
	Positions []mathutil.Vec3
	Normals   []mathutil.Vec3
	Faces     []Face
	Material  int
	Colors    []Color      // optional, per vertex
	TexCoords [][2]float64 // optional, per vertex
	Bones     []Bone
}

func (m *Mesh) HasNormals() bool   { return len(m.Normals) == len(m.Positions) && len(m.Normals) > 0 }
func (m *Mesh) HasColors() bool    { return len(m.Colors) == len(m.Positions) && len(m.Colors) > 0 }
func (m *Mesh) HasTexCoords() bool { return len(m.TexCoords) == len(m.Positions) && len(m.TexCoords) > 0 }

// Material carries the surface description referenced by Mesh.Material.
type Material struct {
	Name       string
	Diffuse    Color
	HasDiffuse bool
	Texture    string // diffuse texture file as authored, may be empty
}

// BindPose is the undeformed copy of a mesh's vertex data, taken once after load.
type BindPose struct {
	Positions []mathutil.Vec3
	Normals   []mathutil.Vec3
}

// Snapshot copies the current positions and normals of every mesh.
// Call it once, before the first skinning pass.
func Snapshot(meshes []*Mesh) []BindPose {
	out := make([]BindPose, len(meshes))
	for i, m := range meshes {
		out[i] = BindPose{
			Positions: append([]mathutil.Vec3(nil), m.Positions...),
			Normals:   append([]mathutil.Vec3(nil), m.Normals...),
		}
	}
	return out
}
