// Package scene holds the node hierarchy, meshes and materials of a rigged model.
package scene

import (
	"errors"
	"fmt"

	"rig-renderer/internal/mathutil"
)

var (
	ErrUnknownNode   = errors.New("unknown node")
	ErrDuplicateName = errors.New("duplicate node name")
	ErrCycle         = errors.New("node hierarchy is not a tree")
)

// NodeID addresses a node inside its Graph. IDs are stable for the life of the graph.
type NodeID int

// NoParent marks the root node.
const NoParent NodeID = -1

// Node is one element of the hierarchy. Parent is a lookup key into the
// owning Graph, never an owning reference.
type Node struct {
	Name      string
	Transform mathutil.Mat4 // local, relative to Parent
	Parent    NodeID
	Children  []NodeID
	Meshes    []int // indices into Scene.Meshes
}

// Graph is an arena of nodes. Node 0 is the root.
type Graph struct {
	nodes  []Node
	byName map[string]NodeID
}

// NewGraph creates a graph holding a single identity-transform root.
func NewGraph(rootName string) *Graph {
	g := &Graph{byName: make(map[string]NodeID)}
	g.nodes = append(g.nodes, Node{
		Name:      rootName,
		Transform: mathutil.Mat4Identity(),
		Parent:    NoParent,
	})
	g.byName[rootName] = 0
	return g
}

// FromNodes builds a graph from a flat node table as delivered by an importer.
// Node 0 must be the root. Children lists are taken as given and the result
// is validated.
func FromNodes(nodes []Node) (*Graph, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("scene: empty node table: %w", ErrCycle)
	}
	g := &Graph{
		nodes:  make([]Node, len(nodes)),
		byName: make(map[string]NodeID, len(nodes)),
	}
	copy(g.nodes, nodes)
	for i, n := range g.nodes {
		if _, dup := g.byName[n.Name]; dup {
			return nil, fmt.Errorf("scene: node %q: %w", n.Name, ErrDuplicateName)
		}
		g.byName[n.Name] = NodeID(i)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Add appends a child of parent and returns its ID.
func (g *Graph) Add(parent NodeID, name string, local mathutil.Mat4) (NodeID, error) {
	if !g.valid(parent) {
		return NoParent, fmt.Errorf("scene: add %q: parent %d: %w", name, parent, ErrUnknownNode)
	}
	if _, dup := g.byName[name]; dup {
		return NoParent, fmt.Errorf("scene: add %q: %w", name, ErrDuplicateName)
	}
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, Node{Name: name, Transform: local, Parent: parent})
	g.nodes[parent].Children = append(g.nodes[parent].Children, id)
	g.byName[name] = id
	return id, nil
}

// Validate checks that the graph is a single rooted tree: every node is
// reachable from the root exactly once and parent links agree with child lists.
func (g *Graph) Validate() error {
	if len(g.nodes) == 0 || g.nodes[0].Parent != NoParent {
		return fmt.Errorf("scene: node 0 is not a root: %w", ErrCycle)
	}
	seen := make([]bool, len(g.nodes))
	stack := []NodeID{0}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			return fmt.Errorf("scene: node %q visited twice: %w", g.nodes[id].Name, ErrCycle)
		}
		seen[id] = true
		for _, c := range g.nodes[id].Children {
			if !g.valid(c) {
				return fmt.Errorf("scene: node %q: child %d: %w", g.nodes[id].Name, c, ErrUnknownNode)
			}
			if g.nodes[c].Parent != id {
				return fmt.Errorf("scene: node %q: parent link disagrees with %q: %w",
					g.nodes[c].Name, g.nodes[id].Name, ErrCycle)
			}
			stack = append(stack, c)
		}
	}
	for i, ok := range seen {
		if !ok {
			return fmt.Errorf("scene: node %q unreachable from root: %w", g.nodes[i].Name, ErrCycle)
		}
	}
	return nil
}

func (g *Graph) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(g.nodes)
}

func (g *Graph) Root() NodeID { return 0 }

func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the node with the given ID. The pointer is invalidated by Add.
func (g *Graph) Node(id NodeID) *Node {
	return &g.nodes[id]
}

// Find looks a node up by name.
func (g *Graph) Find(name string) (NodeID, bool) {
	id, ok := g.byName[name]
	return id, ok
}

// SetTransform replaces a node's local transform.
func (g *Graph) SetTransform(id NodeID, m mathutil.Mat4) {
	g.nodes[id].Transform = m
}

// AttachMesh makes node id draw mesh index mesh.
func (g *Graph) AttachMesh(id NodeID, mesh int) {
	g.nodes[id].Meshes = append(g.nodes[id].Meshes, mesh)
}

// World composes local transforms from id up to the root:
// root × … × parent × node. Nothing is cached.
func (g *Graph) World(id NodeID) mathutil.Mat4 {
	m := mathutil.Mat4Identity()
	for id != NoParent {
		n := &g.nodes[id]
		m = mathutil.Mat4Mul(n.Transform, m)
		id = n.Parent
	}
	return m
}

// Walk visits nodes depth-first, parent before children, children in order.
func (g *Graph) Walk(fn func(id NodeID, depth int)) {
	g.walk(0, 0, fn)
}

func (g *Graph) walk(id NodeID, depth int, fn func(NodeID, int)) {
	fn(id, depth)
	for _, c := range g.nodes[id].Children {
		g.walk(c, depth+1, fn)
	}
}
