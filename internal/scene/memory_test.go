package scene

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"worldpop/internal/geometry"
	"worldpop/internal/kind"
	"worldpop/internal/stream"
)

func testNode(k kind.Kind) Node {
	b := geometry.NewBuilder()
	b.Box(mgl32.Vec3{1, 1, 1})
	return Node{Scope: stream.Coord{X: 1}, Kind: k, Mesh: b.Mesh(), Transform: mgl32.Ident4()}
}

func TestMemoryAttachDetachSymmetry(t *testing.T) {
	m := NewMemory()
	a, err := m.Attach(testNode(kind.Oak))
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	b, err := m.Attach(testNode(kind.Pebble))
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if a == b {
		t.Fatalf("handles must be unique")
	}
	if m.Live() != 2 || m.Attached() != 2 {
		t.Fatalf("live=%d attached=%d", m.Live(), m.Attached())
	}

	m.Detach(a)
	m.Detach(a)
	m.Detach(Handle(999))

	if m.DetachCount(a) != 2 || m.DetachCount(b) != 0 {
		t.Fatalf("detach counts a=%d b=%d", m.DetachCount(a), m.DetachCount(b))
	}
	if m.Duplicates() != 2 {
		t.Fatalf("expected 2 duplicate detaches, got %d", m.Duplicates())
	}
	if _, ok := m.Node(b); !ok || m.Live() != 1 {
		t.Fatalf("unrelated node should survive")
	}
	if nodes := m.Nodes(); len(nodes) != 1 || nodes[0].Kind != kind.Pebble {
		t.Fatalf("unexpected nodes %v", nodes)
	}
}

func TestMemoryRejectsEmptyNodesAndInjectedFailures(t *testing.T) {
	m := NewMemory()
	if _, err := m.Attach(Node{Kind: kind.Oak}); err == nil {
		t.Fatalf("node without geometry should be rejected")
	}
	boom := errors.New("scene full")
	m.FailAttach = func(n Node) error {
		if n.Kind == kind.Boulder {
			return boom
		}
		return nil
	}
	if _, err := m.Attach(testNode(kind.Boulder)); !errors.Is(err, boom) {
		t.Fatalf("expected injected failure, got %v", err)
	}
	if _, err := m.Attach(testNode(kind.Oak)); err != nil {
		t.Fatalf("other kinds should attach: %v", err)
	}
	if m.Attached() != 1 {
		t.Fatalf("failed attaches must not count, got %d", m.Attached())
	}
}

func TestMemoryCollisionRegistry(t *testing.T) {
	m := NewMemory()
	owner, err := m.Attach(testNode(kind.Oak))
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	vol := geometry.Volume{Shape: geometry.ShapeCapsule, Radius: 0.5, Height: 6}

	if _, err := m.Register(Handle(42), vol, LayerHarvestable); !errors.Is(err, ErrUnknownHandle) {
		t.Fatalf("expected ErrUnknownHandle, got %v", err)
	}
	if _, err := m.Register(owner, vol, 0); err == nil {
		t.Fatalf("zero layer should be rejected")
	}

	ch, err := m.Register(owner, vol, LayerHarvestable)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if got, ok := m.ColliderOwner(ch); !ok || got != owner {
		t.Fatalf("collider owner = %d,%v", got, ok)
	}
	if m.Colliders() != 1 {
		t.Fatalf("expected one collider")
	}

	m.Unregister(ch)
	m.Unregister(ch)
	if m.Colliders() != 0 {
		t.Fatalf("collider should be gone")
	}
	if _, ok := m.ColliderOwner(ch); ok {
		t.Fatalf("owner mapping should be removed")
	}
}
