// Package importer converts parsed model files into a scene and its animation clips.
package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"rig-renderer/internal/anim"
	"rig-renderer/internal/bmd"
	"rig-renderer/internal/mathutil"
	"rig-renderer/internal/scene"
)

// RootName is the name of the node that owns all meshes.
const RootName = "root"

// Asset is an imported model: the scene plus every animation it carries.
type Asset struct {
	Scene *scene.Scene
	Clips []anim.Clip
}

// LoadBMD parses and converts a BMD file.
func LoadBMD(path string) (*Asset, error) {
	m, err := bmd.Parse(path)
	if err != nil {
		return nil, err
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	a, err := FromBMD(m)
	if err != nil {
		return nil, fmt.Errorf("importer: %s: %w", path, err)
	}
	return a, nil
}

// FromBMD builds a scene from a BMD model.
//
// Every bone becomes a node below its parent bone (or the root), with its
// action 0 / frame 0 pose as local transform. BMD stores vertices in the
// space of their bone, so each bone gets an identity offset and each vertex
// a single weight of 1.0. Each action with keys becomes a clip whose
// duration is its key count.
func FromBMD(m *bmd.Model) (*Asset, error) {
	g := scene.NewGraph(RootName)

	boneNodes := make([]string, len(m.Bones))
	for i := range m.Bones {
		b := &m.Bones[i]
		name := b.Name
		if name == "" || b.IsDummy {
			name = fmt.Sprintf("bone_%d", i)
		}
		if _, taken := g.Find(name); taken {
			name = fmt.Sprintf("%s_%d", name, i)
		}

		parent := g.Root()
		if b.Parent >= 0 && b.Parent < i {
			if id, ok := g.Find(boneNodes[b.Parent]); ok {
				parent = id
			}
		}

		local := mathutil.Mat4Identity()
		if !b.IsDummy {
			p, r := b.BindPosition(), b.BindRotation()
			local = anim.LocalTransform(vec3(p), eulerQuat(r))
		}
		if _, err := g.Add(parent, name, local); err != nil {
			return nil, err
		}
		boneNodes[i] = name
	}

	s := &scene.Scene{Name: m.Name, Graph: g}
	for i := range m.Meshes {
		mesh, mtl := convertMesh(&m.Meshes[i], i, m.Bones, boneNodes)
		mesh.Material = len(s.Materials)
		s.Materials = append(s.Materials, mtl)
		s.Meshes = append(s.Meshes, mesh)
		g.AttachMesh(g.Root(), len(s.Meshes)-1)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &Asset{Scene: s, Clips: convertActions(m, boneNodes)}, nil
}

type corner struct {
	v, n, t int16
}

func convertMesh(src *bmd.Mesh, index int, bones []bmd.Bone, boneNodes []string) (*scene.Mesh, scene.Material) {
	dst := &scene.Mesh{Name: fmt.Sprintf("mesh_%d", index)}
	remap := make(map[corner]int)
	vertexBone := []int16{}
	allNormals, allUVs := true, true

	for _, tri := range src.Tris {
		n := tri.Corners()
		face := make(scene.Face, 0, n)
		ok := true
		for k := 0; k < n; k++ {
			if tri.VI[k] < 0 || int(tri.VI[k]) >= len(src.Verts) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		for k := 0; k < n; k++ {
			c := corner{tri.VI[k], tri.NI[k], tri.TI[k]}
			if vi, seen := remap[c]; seen {
				face = append(face, vi)
				continue
			}
			vi := len(dst.Positions)
			remap[c] = vi
			dst.Positions = append(dst.Positions, vec3(src.Verts[c.v]))
			vertexBone = append(vertexBone, src.Nodes[c.v])

			if c.n >= 0 && int(c.n) < len(src.Normals) {
				dst.Normals = append(dst.Normals, vec3(src.Normals[c.n]))
			} else {
				allNormals = false
				dst.Normals = append(dst.Normals, mathutil.Vec3{})
			}
			if c.t >= 0 && int(c.t) < len(src.UVs) {
				uv := src.UVs[c.t]
				// BMD texture rows run top to bottom.
				dst.TexCoords = append(dst.TexCoords, [2]float64{float64(uv[0]), 1 - float64(uv[1])})
			} else {
				allUVs = false
				dst.TexCoords = append(dst.TexCoords, [2]float64{})
			}
			face = append(face, vi)
		}
		dst.Faces = append(dst.Faces, face)
	}
	if !allNormals {
		dst.Normals = nil
	}
	if !allUVs {
		dst.TexCoords = nil
	}

	byBone := make(map[int]int) // bone index → position in dst.Bones
	for vi, bi16 := range vertexBone {
		bi := int(bi16)
		if bi < 0 || bi >= len(bones) || bones[bi].IsDummy {
			continue
		}
		slot, ok := byBone[bi]
		if !ok {
			slot = len(dst.Bones)
			byBone[bi] = slot
			dst.Bones = append(dst.Bones, scene.Bone{
				Name:   boneNodes[bi],
				Offset: mathutil.Mat4Identity(),
			})
		}
		dst.Bones[slot].Weights = append(dst.Bones[slot].Weights, scene.Weight{Vertex: vi, Weight: 1})
	}

	stem := strings.TrimSuffix(filepath.Base(src.TexPath), filepath.Ext(src.TexPath))
	return dst, scene.Material{Name: stem, Texture: src.TexPath}
}

func convertActions(m *bmd.Model, boneNodes []string) []anim.Clip {
	var clips []anim.Clip
	for a, act := range m.Actions {
		if act.NumKeys <= 0 {
			continue
		}
		clip := anim.Clip{Name: fmt.Sprintf("action_%d", a), Duration: act.NumKeys}
		for bi := range m.Bones {
			b := &m.Bones[bi]
			if b.IsDummy || a >= len(b.Keys) || len(b.Keys[a].Positions) == 0 {
				continue
			}
			keys := b.Keys[a]
			ch := anim.Channel{
				Node:      boneNodes[bi],
				Positions: make([]anim.VectorKey, len(keys.Positions)),
				Rotations: make([]anim.QuatKey, len(keys.Rotations)),
			}
			for k, p := range keys.Positions {
				ch.Positions[k] = anim.VectorKey{Tick: float64(k), Value: vec3(p)}
			}
			for k, r := range keys.Rotations {
				ch.Rotations[k] = anim.QuatKey{Tick: float64(k), Value: eulerQuat(r)}
			}
			clip.Channels = append(clip.Channels, ch)
		}
		clips = append(clips, clip)
	}
	return clips
}

func vec3(v [3]float32) mathutil.Vec3 {
	return mathutil.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}

func eulerQuat(r [3]float32) mathutil.Quat {
	return mathutil.EulerToQuat(float64(r[0]), float64(r[1]), float64(r[2]))
}
