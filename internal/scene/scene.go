package scene

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Transform holds the animatable part of a node's state: a world-space
// position and a unit-quaternion orientation.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// Node is a single entity in the scene graph.
type Node struct {
	ID        string
	Transform Transform
}

// Graph is the read-only lookup surface the recorder consumes. The host
// application owns the nodes; the recorder only copies values out.
type Graph interface {
	GetNode(id string) (*Node, bool)
}

// MemoryGraph is an in-memory Graph used by the bake engine's take replay,
// the demo generator and tests.
type MemoryGraph struct {
	nodes map[string]*Node
}

// NewMemoryGraph creates an empty in-memory scene graph.
func NewMemoryGraph() *MemoryGraph {
	return &MemoryGraph{
		nodes: make(map[string]*Node),
	}
}

// Put inserts or replaces a node with the given transform.
func (g *MemoryGraph) Put(id string, position mgl64.Vec3, rotation mgl64.Quat) *Node {
	node := &Node{
		ID: id,
		Transform: Transform{
			Position: position,
			Rotation: rotation,
		},
	}
	g.nodes[id] = node
	return node
}

// Remove deletes a node. Removing an unknown id is a no-op.
func (g *MemoryGraph) Remove(id string) {
	delete(g.nodes, id)
}

func (g *MemoryGraph) GetNode(id string) (*Node, bool) {
	node, ok := g.nodes[id]
	return node, ok
}
