package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrUnknownKind is returned when no generator is registered for a kind.
	ErrUnknownKind = errors.New("geometry: no generator for kind")
	// ErrDegenerateMesh is returned when a generator produced nothing drawable.
	ErrDegenerateMesh = errors.New("geometry: degenerate mesh")
)

// Mesh is an indexed triangle list with per-vertex normals and colours.
type Mesh struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Colors    []mgl32.Vec3
	Indices   []uint32
}

func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Bounds returns the axis-aligned bounding box. An empty mesh has zero bounds.
func (m *Mesh) Bounds() (min, max mgl32.Vec3) {
	if len(m.Positions) == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	min, max = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		for i := 0; i < 3; i++ {
			if p[i] < min[i] {
				min[i] = p[i]
			}
			if p[i] > max[i] {
				max[i] = p[i]
			}
		}
	}
	return min, max
}

// BoundingRadius is the largest distance of any vertex from center.
func (m *Mesh) BoundingRadius(center mgl32.Vec3) float32 {
	var r float32
	for _, p := range m.Positions {
		if d := p.Sub(center).Len(); d > r {
			r = d
		}
	}
	return r
}

// Validate reports ErrDegenerateMesh for empty meshes, out-of-range indices
// and non-finite positions.
func (m *Mesh) Validate() error {
	if len(m.Positions) == 0 || len(m.Indices) < 3 {
		return fmt.Errorf("%w: %d vertices, %d indices", ErrDegenerateMesh, len(m.Positions), len(m.Indices))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: index count %d is not a multiple of 3", ErrDegenerateMesh, len(m.Indices))
	}
	if len(m.Normals) != len(m.Positions) || len(m.Colors) != len(m.Positions) {
		return fmt.Errorf("%w: attribute length mismatch", ErrDegenerateMesh)
	}
	for _, idx := range m.Indices {
		if int(idx) >= len(m.Positions) {
			return fmt.Errorf("%w: index %d out of range", ErrDegenerateMesh, idx)
		}
	}
	for _, p := range m.Positions {
		for _, c := range p {
			if math.IsNaN(float64(c)) || math.IsInf(float64(c), 0) {
				return fmt.Errorf("%w: non-finite position %v", ErrDegenerateMesh, p)
			}
		}
	}
	return nil
}

// Shape is the collision primitive.
type Shape int

const (
	ShapeSphere Shape = iota
	ShapeCapsule
)

func (s Shape) String() string {
	if s == ShapeCapsule {
		return "capsule"
	}
	return "sphere"
}

// Volume is a collision volume in the object's local space. For capsules
// Height is the full height along +Y including the caps.
type Volume struct {
	Shape  Shape
	Center mgl32.Vec3
	Radius float32
	Height float32
}

// VolumeFor sizes a collision volume from the mesh bounds. Capsules wrap the
// footprint radius and full height; spheres wrap every vertex.
func VolumeFor(m *Mesh, shape Shape) Volume {
	min, max := m.Bounds()
	center := min.Add(max).Mul(0.5)
	if shape == ShapeCapsule {
		half := max.Sub(min).Mul(0.5)
		radius := half.X()
		if half.Z() > radius {
			radius = half.Z()
		}
		height := max.Y() - min.Y()
		if height < 2*radius {
			height = 2 * radius
		}
		return Volume{Shape: ShapeCapsule, Center: center, Radius: radius, Height: height}
	}
	return Volume{Shape: ShapeSphere, Center: center, Radius: m.BoundingRadius(center)}
}

// Harvest is the gameplay metadata carried by harvestable kinds.
type Harvest struct {
	Resource  string
	YieldMin  int
	YieldMax  int
	Tool      string
	HitPoints int
}
