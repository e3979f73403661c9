package world

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"worldpop/internal/biome"
	"worldpop/internal/geometry"
	"worldpop/internal/kind"
	"worldpop/internal/scene"
	"worldpop/internal/stream"
)

// ObjectID identifies one spawned object for its whole lifetime. Harvest
// notifications refer to objects by this ID.
type ObjectID = uuid.UUID

// SpawnedObject is an individually attached object owned by a chunk.
// Transform is relative to the chunk origin.
type SpawnedObject struct {
	ID        ObjectID
	Kind      kind.Kind
	Biome     biome.Biome
	Chunk     stream.Coord
	Position  mgl64.Vec3
	Rotation  float64 // yaw, radians
	Scale     float64
	Transform mgl32.Mat4
	Handle    scene.Handle
	Collision *scene.CollisionHandle
	Harvest   *geometry.Harvest
	Variant   string
}

// Harvestable reports whether gameplay may destroy the object early.
func (o *SpawnedObject) Harvestable() bool {
	return o.Kind.Harvestable()
}

func objectTransform(local mgl64.Vec3, yaw, scale float64) mgl32.Mat4 {
	t := mgl32.Translate3D(float32(local.X()), float32(local.Y()), float32(local.Z()))
	r := mgl32.HomogRotate3DY(float32(yaw))
	s := mgl32.Scale3D(float32(scale), float32(scale), float32(scale))
	return t.Mul4(r).Mul4(s)
}

// scaleVolume applies the placement scale to a collision volume in the
// node's local frame.
func scaleVolume(v geometry.Volume, scale float64) geometry.Volume {
	s := float32(scale)
	v.Center = v.Center.Mul(s)
	v.Radius *= s
	v.Height *= s
	return v
}
