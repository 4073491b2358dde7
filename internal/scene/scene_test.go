package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestMemoryGraph(t *testing.T) {
	graph := NewMemoryGraph()

	if _, ok := graph.GetNode("a"); ok {
		t.Error("Expected lookup miss on empty graph")
	}

	graph.Put("a", mgl64.Vec3{1, 2, 3}, mgl64.QuatIdent())

	node, ok := graph.GetNode("a")
	if !ok {
		t.Fatal("Expected node after Put")
	}
	if node.Transform.Position != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("Position mismatch: got %v", node.Transform.Position)
	}

	// Put replaces
	graph.Put("a", mgl64.Vec3{4, 5, 6}, mgl64.QuatIdent())
	node, _ = graph.GetNode("a")
	if node.Transform.Position != (mgl64.Vec3{4, 5, 6}) {
		t.Errorf("Expected replaced position, got %v", node.Transform.Position)
	}

	graph.Remove("a")
	if _, ok := graph.GetNode("a"); ok {
		t.Error("Expected lookup miss after Remove")
	}

	// Removing an unknown id is a no-op
	graph.Remove("missing")
}
