package scene

import (
	"fmt"
	"math"

	"rig-renderer/internal/mathutil"
)

// Scene owns the node graph together with the meshes and materials it references.
type Scene struct {
	Name      string
	Graph     *Graph
	Meshes    []*Mesh
	Materials []Material
}

// Validate checks the hierarchy and every index a node or mesh holds.
func (s *Scene) Validate() error {
	if s.Graph == nil {
		return fmt.Errorf("scene: %s: no graph", s.Name)
	}
	if err := s.Graph.Validate(); err != nil {
		return err
	}
	for i := 0; i < s.Graph.Len(); i++ {
		n := s.Graph.Node(NodeID(i))
		for _, mi := range n.Meshes {
			if mi < 0 || mi >= len(s.Meshes) {
				return fmt.Errorf("scene: node %q: mesh index %d out of range", n.Name, mi)
			}
		}
	}
	for i, m := range s.Meshes {
		if len(s.Materials) > 0 && (m.Material < 0 || m.Material >= len(s.Materials)) {
			return fmt.Errorf("scene: mesh %d: material index %d out of range", i, m.Material)
		}
		for fi, f := range m.Faces {
			for _, vi := range f {
				if vi < 0 || vi >= len(m.Positions) {
					return fmt.Errorf("scene: mesh %d face %d: vertex %d out of range", i, fi, vi)
				}
			}
		}
	}
	return nil
}

// Bounds returns the world-space bounding box of the positions of every mesh
// that has faces, walking the graph with accumulated node transforms.
// ok is false when nothing is drawable.
func (s *Scene) Bounds() (lo, hi mathutil.Vec3, ok bool) {
	lo = mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi = mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	s.bounds(s.Graph.Root(), mathutil.Mat4Identity(), &lo, &hi, &ok)
	return lo, hi, ok
}

func (s *Scene) bounds(id NodeID, parent mathutil.Mat4, lo, hi *mathutil.Vec3, ok *bool) {
	n := s.Graph.Node(id)
	world := mathutil.Mat4Mul(parent, n.Transform)
	for _, mi := range n.Meshes {
		if len(s.Meshes[mi].Faces) == 0 {
			continue
		}
		for _, p := range s.Meshes[mi].Positions {
			t := world.MulPoint(p)
			*lo = lo.Min(t)
			*hi = hi.Max(t)
			*ok = true
		}
	}
	for _, c := range n.Children {
		s.bounds(c, world, lo, hi, ok)
	}
}
