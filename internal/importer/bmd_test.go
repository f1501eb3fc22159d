package importer

import (
	"os"
	"path/filepath"
	"testing"

	"rig-renderer/internal/bmd"
	"rig-renderer/internal/mathutil"
	"rig-renderer/internal/pipeline"
)

func armModel() *bmd.Model {
	zero := [3]float32{}
	return &bmd.Model{
		Meshes: []bmd.Mesh{{
			Verts:       [][3]float32{{0, 0, 0}, {0, 1, 0}, {0, 0, 1}},
			Nodes:       []int16{1, 1, 0},
			Normals:     [][3]float32{{1, 0, 0}},
			NormalNodes: []int16{1},
			UVs:         [][2]float32{{0, 0.25}, {1, 0}, {0, 1}},
			Tris: []bmd.Triangle{
				{Polygon: 3, VI: [4]int16{0, 1, 2}, NI: [4]int16{0, 0, 0}, TI: [4]int16{0, 1, 2}},
				{Polygon: 3, VI: [4]int16{0, 1, 9}},
			},
			TexPath: "Data/Item/arm.jpg",
		}},
		Actions: []bmd.Action{{NumKeys: 2}},
		Bones: []bmd.Bone{
			{
				Name:   "base",
				Parent: -1,
				Keys: []bmd.BoneKeys{{
					Positions: [][3]float32{{0, 0, 0}, {0, 0, 1}},
					Rotations: [][3]float32{zero, zero},
				}},
			},
			{
				Name:   "tip",
				Parent: 0,
				Keys: []bmd.BoneKeys{{
					Positions: [][3]float32{{1, 0, 0}, {1, 0, 0}},
					Rotations: [][3]float32{zero, zero},
				}},
			},
			{Parent: -1, IsDummy: true},
			{
				Name:   "tip",
				Parent: 1,
				Keys: []bmd.BoneKeys{{
					Positions: [][3]float32{zero, zero},
					Rotations: [][3]float32{zero, zero},
				}},
			},
		},
	}
}

func TestFromBMDHierarchy(t *testing.T) {
	a, err := FromBMD(armModel())
	if err != nil {
		t.Fatal(err)
	}
	g := a.Scene.Graph

	for _, name := range []string{RootName, "base", "tip", "bone_2", "tip_3"} {
		if _, ok := g.Find(name); !ok {
			t.Errorf("node %q missing", name)
		}
	}
	base, _ := g.Find("base")
	tip, _ := g.Find("tip")
	dummy, _ := g.Find("bone_2")
	if g.Node(tip).Parent != base || g.Node(base).Parent != g.Root() || g.Node(dummy).Parent != g.Root() {
		t.Error("bone parents not carried over")
	}
	if got := g.World(tip).MulPoint(mathutil.Vec3{}); got != (mathutil.Vec3{1, 0, 0}) {
		t.Errorf("tip bind origin = %v, want (1,0,0)", got)
	}
}

func TestFromBMDMesh(t *testing.T) {
	a, err := FromBMD(armModel())
	if err != nil {
		t.Fatal(err)
	}
	s := a.Scene
	if len(s.Meshes) != 1 || len(s.Materials) != 1 {
		t.Fatalf("meshes %d materials %d", len(s.Meshes), len(s.Materials))
	}
	m := s.Meshes[0]
	// The second triangle points past the vertex array and is dropped.
	if len(m.Faces) != 1 || len(m.Positions) != 3 {
		t.Fatalf("faces %v positions %v", m.Faces, m.Positions)
	}
	if !m.HasNormals() || !m.HasTexCoords() {
		t.Error("normals or texture coordinates lost")
	}
	if m.TexCoords[0] != [2]float64{0, 0.75} {
		t.Errorf("uv 0 = %v, want v flipped to 0.75", m.TexCoords[0])
	}
	if mtl := s.Materials[m.Material]; mtl.Name != "arm" || mtl.Texture != "Data/Item/arm.jpg" {
		t.Errorf("material = %+v", mtl)
	}

	weights := map[string]int{}
	for _, b := range m.Bones {
		if !b.Offset.IsIdentity() {
			t.Errorf("bone %q offset not identity", b.Name)
		}
		for _, w := range b.Weights {
			if w.Weight != 1 {
				t.Errorf("bone %q weight %v", b.Name, w.Weight)
			}
		}
		weights[b.Name] = len(b.Weights)
	}
	if weights["tip"] != 2 || weights["base"] != 1 {
		t.Errorf("weights per bone = %v", weights)
	}
}

func TestFromBMDClips(t *testing.T) {
	a, err := FromBMD(armModel())
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Clips) != 1 {
		t.Fatalf("clips = %d", len(a.Clips))
	}
	c := a.Clips[0]
	if c.Duration != 2 || len(c.Channels) != 3 {
		t.Errorf("clip duration %d channels %d", c.Duration, len(c.Channels))
	}
	if err := c.Validate(); err != nil {
		t.Error(err)
	}
}

func TestImportedRigAnimates(t *testing.T) {
	raw, err := bmd.Encode(armModel())
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "arm.bmd")
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatal(err)
	}
	a, err := LoadBMD(path)
	if err != nil {
		t.Fatal(err)
	}
	if a.Scene.Name != "arm" {
		t.Errorf("scene name = %q, want file stem", a.Scene.Name)
	}

	p, err := pipeline.New(a.Scene, &a.Clips[0], nil)
	if err != nil {
		t.Fatal(err)
	}
	m := a.Scene.Meshes[0]
	if m.Positions[0] != (mathutil.Vec3{1, 0, 0}) {
		t.Errorf("tick 0: %v, want (1,0,0)", m.Positions[0])
	}
	if err := p.Step(); err != nil {
		t.Fatal(err)
	}
	if m.Positions[0] != (mathutil.Vec3{1, 0, 1}) {
		t.Errorf("tick 1: %v, want (1,0,1)", m.Positions[0])
	}
}
