package scene

import (
	"errors"
	"testing"

	"rig-renderer/internal/mathutil"
)

func translate(x, y, z float64) mathutil.Mat4 {
	return mathutil.Translation(mathutil.Vec3{x, y, z})
}

func TestAddAndFind(t *testing.T) {
	g := NewGraph("root")
	a, err := g.Add(g.Root(), "a", translate(1, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	b, err := g.Add(a, "b", translate(0, 1, 0))
	if err != nil {
		t.Fatal(err)
	}

	if id, ok := g.Find("b"); !ok || id != b {
		t.Errorf("Find(b) = %d, %t", id, ok)
	}
	if g.Node(b).Parent != a {
		t.Errorf("parent of b = %d, want %d", g.Node(b).Parent, a)
	}
	if _, err := g.Add(a, "b", mathutil.Mat4Identity()); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("duplicate Add: err = %v, want ErrDuplicateName", err)
	}
	if _, err := g.Add(NodeID(42), "c", mathutil.Mat4Identity()); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("Add under missing parent: err = %v, want ErrUnknownNode", err)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestWorld(t *testing.T) {
	g := NewGraph("root")
	g.SetTransform(g.Root(), translate(0, 0, 5))
	a, _ := g.Add(g.Root(), "a", translate(1, 0, 0))
	b, _ := g.Add(a, "b", translate(0, 2, 0))

	got := g.World(b).MulPoint(mathutil.Vec3{})
	want := mathutil.Vec3{1, 2, 5}
	if got != want {
		t.Errorf("World(b) origin = %v, want %v", got, want)
	}

	// Recomputed on every call.
	g.SetTransform(a, translate(3, 0, 0))
	if got := g.World(b).MulPoint(mathutil.Vec3{}); got != (mathutil.Vec3{3, 2, 5}) {
		t.Errorf("World(b) after parent moved = %v", got)
	}
}

func TestFromNodesRejectsBadTrees(t *testing.T) {
	id := mathutil.Mat4Identity()
	tests := []struct {
		name  string
		nodes []Node
		want  error
	}{
		{
			name: "cycle",
			nodes: []Node{
				{Name: "root", Transform: id, Parent: NoParent, Children: []NodeID{1}},
				{Name: "a", Transform: id, Parent: 0, Children: []NodeID{2}},
				{Name: "b", Transform: id, Parent: 1, Children: []NodeID{1}},
			},
			want: ErrCycle,
		},
		{
			name: "unreachable",
			nodes: []Node{
				{Name: "root", Transform: id, Parent: NoParent},
				{Name: "orphan", Transform: id, Parent: 0},
			},
			want: ErrCycle,
		},
		{
			name: "duplicate",
			nodes: []Node{
				{Name: "root", Transform: id, Parent: NoParent, Children: []NodeID{1}},
				{Name: "root", Transform: id, Parent: 0},
			},
			want: ErrDuplicateName,
		},
		{
			name: "dangling child",
			nodes: []Node{
				{Name: "root", Transform: id, Parent: NoParent, Children: []NodeID{7}},
			},
			want: ErrUnknownNode,
		},
		{
			name:  "empty",
			nodes: nil,
			want:  ErrCycle,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromNodes(tt.nodes); !errors.Is(err, tt.want) {
				t.Errorf("FromNodes: err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestWalkOrder(t *testing.T) {
	g := NewGraph("root")
	a, _ := g.Add(g.Root(), "a", mathutil.Mat4Identity())
	g.Add(a, "a1", mathutil.Mat4Identity())
	g.Add(g.Root(), "b", mathutil.Mat4Identity())

	var names []string
	var depths []int
	g.Walk(func(id NodeID, depth int) {
		names = append(names, g.Node(id).Name)
		depths = append(depths, depth)
	})
	want := []string{"root", "a", "a1", "b"}
	wantDepth := []int{0, 1, 2, 1}
	for i := range want {
		if names[i] != want[i] || depths[i] != wantDepth[i] {
			t.Fatalf("Walk = %v %v, want %v %v", names, depths, want, wantDepth)
		}
	}
}
