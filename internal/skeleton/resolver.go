// Package skeleton resolves bone skinning matrices from the scene graph and
// deforms mesh vertices with linear-blend skinning.
package skeleton

import (
	"errors"
	"fmt"

	"rig-renderer/internal/mathutil"
	"rig-renderer/internal/scene"
)

var ErrVertexRange = errors.New("bone weight references a vertex outside the mesh")

// Resolver computes skinning matrices from the current node transforms.
// It keeps no state between calls: node transforms change every tick.
type Resolver struct {
	graph *scene.Graph
}

func NewResolver(g *scene.Graph) *Resolver {
	return &Resolver{graph: g}
}

// Resolve returns world(node named by bone) × bone.Offset.
func (r *Resolver) Resolve(b *scene.Bone) (mathutil.Mat4, error) {
	id, ok := r.graph.Find(b.Name)
	if !ok {
		return mathutil.Mat4{}, fmt.Errorf("skeleton: bone %q: %w", b.Name, scene.ErrUnknownNode)
	}
	return mathutil.Mat4Mul(r.graph.World(id), b.Offset), nil
}

// CheckBones verifies that every bone of every mesh names a node in g and
// only weights vertices the mesh has.
func CheckBones(g *scene.Graph, meshes []*scene.Mesh) error {
	for mi, m := range meshes {
		for _, b := range m.Bones {
			if _, ok := g.Find(b.Name); !ok {
				return fmt.Errorf("skeleton: mesh %d bone %q: %w", mi, b.Name, scene.ErrUnknownNode)
			}
			for _, w := range b.Weights {
				if w.Vertex < 0 || w.Vertex >= len(m.Positions) {
					return fmt.Errorf("skeleton: mesh %d bone %q: vertex %d of %d: %w",
						mi, b.Name, w.Vertex, len(m.Positions), ErrVertexRange)
				}
			}
		}
	}
	return nil
}
