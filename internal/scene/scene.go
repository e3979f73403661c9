package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"worldpop/internal/geometry"
	"worldpop/internal/groundcover"
	"worldpop/internal/kind"
	"worldpop/internal/stream"
)

// Handle is an opaque reference to an attached scene node.
type Handle uint64

// CollisionHandle is an opaque reference to a registered collision body.
type CollisionHandle uint64

// Layer is a collision filter bit.
type Layer uint32

const (
	LayerStatic Layer = 1 << iota
	LayerHarvestable
)

// Node is what the population core hands to the scene. Exactly one of Mesh
// or Batch is set. Transform is relative to Origin.
type Node struct {
	Scope      stream.Coord
	Kind       kind.Kind
	Mesh       *geometry.Mesh
	Batch      *groundcover.Batch
	Origin     mgl64.Vec3
	Transform  mgl32.Mat4
	Visibility kind.Visibility
}

// Attacher adds and removes renderable nodes. Implementations need not be
// safe for concurrent use; the population core calls it from one goroutine.
type Attacher interface {
	Attach(node Node) (Handle, error)
	Detach(h Handle)
}

// CollisionRegistry holds collision bodies for harvestable objects.
type CollisionRegistry interface {
	Register(owner Handle, volume geometry.Volume, layer Layer) (CollisionHandle, error)
	Unregister(h CollisionHandle)
}
