package render

import (
	"rig-renderer/internal/mathutil"
	"rig-renderer/internal/scene"
)

// Traverse draws s depth-first, pre-order. Each node's local transform is
// pushed onto a transform stack on entry and popped on exit, so a mesh is
// always drawn with the full chain of its ancestors applied. Vertex data is
// taken from the live mesh buffers as left by the last skinning pass.
func Traverse(s *scene.Scene, textures TextureSet, cfg Config, b Backend) {
	b.Configure(cfg)
	t := traversal{scene: s, textures: textures, cfg: cfg, backend: b}
	t.stack = append(t.stack, mathutil.Mat4Identity())
	t.node(s.Graph.Root())
}

type traversal struct {
	scene    *scene.Scene
	textures TextureSet
	cfg      Config
	backend  Backend
	stack    []mathutil.Mat4
}

func (t *traversal) node(id scene.NodeID) {
	n := t.scene.Graph.Node(id)
	top := t.stack[len(t.stack)-1]
	t.stack = append(t.stack, mathutil.Mat4Mul(top, n.Transform))
	t.backend.SetTransform(t.stack[len(t.stack)-1])

	for _, mi := range n.Meshes {
		t.mesh(t.scene.Meshes[mi])
	}
	for _, c := range n.Children {
		t.node(c)
	}

	t.stack = t.stack[:len(t.stack)-1]
	t.backend.SetTransform(t.stack[len(t.stack)-1])
}

func (t *traversal) mesh(m *scene.Mesh) {
	var mtl *scene.Material
	if m.Material >= 0 && m.Material < len(t.scene.Materials) {
		mtl = &t.scene.Materials[m.Material]
	}
	b := t.backend

	b.Color(t.cfg.MeshColor(mtl))

	hasUV := m.HasTexCoords()
	if tex := t.textures[m.Material]; hasUV && tex != nil {
		b.BindTexture(tex)
	} else {
		b.BindTexture(nil)
	}

	hasColors := m.HasColors() && !t.cfg.ReplaceColor
	hasNormals := m.HasNormals()

	for _, f := range m.Faces {
		b.Begin(PrimitiveFor(len(f)))
		for _, vi := range f {
			if hasColors {
				b.Color(m.Colors[vi])
			}
			if hasUV {
				b.TexCoord(m.TexCoords[vi])
			}
			if hasNormals {
				b.Normal(m.Normals[vi])
			}
			b.Vertex(m.Positions[vi])
		}
		b.End()
	}
}
