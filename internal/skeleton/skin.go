package skeleton

import (
	"fmt"

	"rig-renderer/internal/mathutil"
	"rig-renderer/internal/scene"
)

// Skinner applies linear-blend skinning to meshes.
type Skinner struct {
	resolver *Resolver
}

func NewSkinner(r *Resolver) *Skinner {
	return &Skinner{resolver: r}
}

// Skin rewrites the live positions and normals of m from its bind pose.
//
// Positions use the weighted sum of all influencing bones' skinning matrices.
// Normals use the inverse-transpose of a single bone's skinning matrix: the
// last bone in m.Bones that weights the vertex. Vertices with no influence
// keep whatever the live buffers hold, which is the bind pose.
func (s *Skinner) Skin(m *scene.Mesh, bind scene.BindPose) error {
	if len(m.Bones) == 0 {
		return nil
	}
	if len(bind.Positions) != len(m.Positions) {
		return fmt.Errorf("skeleton: mesh %q: bind pose has %d vertices, mesh %d",
			m.Name, len(bind.Positions), len(m.Positions))
	}

	n := len(m.Positions)
	accum := make([]mathutil.Mat4, n)
	normal := make([]mathutil.Mat4, n)
	touched := make([]bool, n)

	for i := range m.Bones {
		bone := &m.Bones[i]
		skinMat, err := s.resolver.Resolve(bone)
		if err != nil {
			return err
		}
		normalMat := skinMat.Inverse().Transpose()

		for _, w := range bone.Weights {
			v := w.Vertex
			if v < 0 || v >= n {
				return fmt.Errorf("skeleton: mesh %q bone %q: vertex %d: %w", m.Name, bone.Name, v, ErrVertexRange)
			}
			weighted := skinMat.Scale(w.Weight)
			if touched[v] {
				accum[v] = accum[v].Add(weighted)
			} else {
				accum[v] = weighted
				touched[v] = true
			}
			normal[v] = normalMat
		}
	}

	hasNormals := m.HasNormals() && len(bind.Normals) == n
	for v := 0; v < n; v++ {
		if !touched[v] {
			continue
		}
		m.Positions[v] = accum[v].MulPoint(bind.Positions[v])
		if hasNormals {
			m.Normals[v] = normal[v].MulPoint(bind.Normals[v])
		}
	}
	return nil
}
