package geometry

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
)

const minTriangleArea = 1e-10

// Builder appends flat-shaded primitives to a mesh. Primitives are described
// in local space and placed through a transform stack.
type Builder struct {
	mesh  Mesh
	color mgl32.Vec3
	stack []mgl32.Mat4
}

func NewBuilder() *Builder {
	return &Builder{
		color: mgl32.Vec3{1, 1, 1},
		stack: []mgl32.Mat4{mgl32.Ident4()},
	}
}

// Mesh returns the accumulated mesh. The builder must not be used afterwards.
func (b *Builder) Mesh() *Mesh {
	m := b.mesh
	return &m
}

// SetColor sets the vertex colour for subsequent primitives.
func (b *Builder) SetColor(c mgl32.Vec3) {
	b.color = c
}

// Push composes m onto the current transform.
func (b *Builder) Push(m mgl32.Mat4) {
	b.stack = append(b.stack, b.top().Mul4(m))
}

// Pop restores the previous transform. The root transform is never removed.
func (b *Builder) Pop() {
	if len(b.stack) > 1 {
		b.stack = b.stack[:len(b.stack)-1]
	}
}

func (b *Builder) top() mgl32.Mat4 {
	return b.stack[len(b.stack)-1]
}

func (b *Builder) apply(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(p, b.top())
}

// Triangle emits one face. Faces with no area are dropped so normals stay
// finite.
func (b *Builder) Triangle(p0, p1, p2 mgl32.Vec3) {
	a, c, d := b.apply(p0), b.apply(p1), b.apply(p2)
	n := c.Sub(a).Cross(d.Sub(a))
	if n.Len() < minTriangleArea {
		return
	}
	n = n.Normalize()
	base := uint32(len(b.mesh.Positions))
	b.mesh.Positions = append(b.mesh.Positions, a, c, d)
	b.mesh.Normals = append(b.mesh.Normals, n, n, n)
	b.mesh.Colors = append(b.mesh.Colors, b.color, b.color, b.color)
	b.mesh.Indices = append(b.mesh.Indices, base, base+1, base+2)
}

// Quad emits two triangles for a planar quad wound p0..p3.
func (b *Builder) Quad(p0, p1, p2, p3 mgl32.Vec3) {
	b.Triangle(p0, p1, p2)
	b.Triangle(p0, p2, p3)
}

func ring(radius, y float32, i, segments int) mgl32.Vec3 {
	a := float64(i) / float64(segments) * 2 * math.Pi
	return mgl32.Vec3{radius * float32(math.Cos(a)), y, radius * float32(math.Sin(a))}
}

// Frustum emits a capped truncated cone along +Y from y=0 to y=height.
func (b *Builder) Frustum(bottom, top, height float32, segments int) {
	if segments < 3 {
		segments = 3
	}
	apex := mgl32.Vec3{0, height, 0}
	for i := 0; i < segments; i++ {
		b0 := ring(bottom, 0, i, segments)
		b1 := ring(bottom, 0, i+1, segments)
		if top <= 0 {
			b.Triangle(b0, apex, b1)
		} else {
			t0 := ring(top, height, i, segments)
			t1 := ring(top, height, i+1, segments)
			b.Quad(b0, t0, t1, b1)
			b.Triangle(apex, t1, t0)
		}
		b.Triangle(mgl32.Vec3{}, b0, b1)
	}
}

// Cylinder is a frustum with equal radii.
func (b *Builder) Cylinder(radius, height float32, segments int) {
	b.Frustum(radius, radius, height, segments)
}

// Cone is a frustum closing to a point.
func (b *Builder) Cone(radius, height float32, segments int) {
	b.Frustum(radius, 0, height, segments)
}

// Sphere emits a UV sphere centred on the origin. Each vertex radius is
// perturbed by up to jitter (a fraction of radius) when rng is non-nil.
func (b *Builder) Sphere(radius float32, rings, segments int, jitter float32, rng *rand.Rand) {
	if rings < 2 {
		rings = 2
	}
	if segments < 3 {
		segments = 3
	}
	grid := make([][]mgl32.Vec3, rings+1)
	for r := 0; r <= rings; r++ {
		phi := float64(r) / float64(rings) * math.Pi
		y := float32(math.Cos(phi))
		s := float32(math.Sin(phi))
		grid[r] = make([]mgl32.Vec3, segments)
		for i := 0; i < segments; i++ {
			rad := radius
			if rng != nil && jitter > 0 && r > 0 && r < rings {
				rad *= 1 + (float32(rng.Float64())*2-1)*jitter
			}
			p := ring(s, y, i, segments)
			grid[r][i] = mgl32.Vec3{p.X() * rad, y * rad, p.Z() * rad}
		}
	}
	for r := 0; r < rings; r++ {
		for i := 0; i < segments; i++ {
			j := (i + 1) % segments
			b.Quad(grid[r][i], grid[r][j], grid[r+1][j], grid[r+1][i])
		}
	}
}

// Box emits an axis-aligned box of the given full size centred on the origin.
func (b *Builder) Box(size mgl32.Vec3) {
	h := size.Mul(0.5)
	v := [8]mgl32.Vec3{
		{-h[0], -h[1], -h[2]}, {h[0], -h[1], -h[2]}, {h[0], h[1], -h[2]}, {-h[0], h[1], -h[2]},
		{-h[0], -h[1], h[2]}, {h[0], -h[1], h[2]}, {h[0], h[1], h[2]}, {-h[0], h[1], h[2]},
	}
	b.Quad(v[0], v[3], v[2], v[1])
	b.Quad(v[4], v[5], v[6], v[7])
	b.Quad(v[0], v[1], v[5], v[4])
	b.Quad(v[3], v[7], v[6], v[2])
	b.Quad(v[0], v[4], v[7], v[3])
	b.Quad(v[1], v[2], v[6], v[5])
}

// Disc emits an upward facing fan at y=0.
func (b *Builder) Disc(radius float32, segments int) {
	if segments < 3 {
		segments = 3
	}
	for i := 0; i < segments; i++ {
		b.Triangle(mgl32.Vec3{}, ring(radius, 0, i+1, segments), ring(radius, 0, i, segments))
	}
}

// Blade emits a tapered two-sided strip from the origin up to height,
// bending forward by curve at the tip.
func (b *Builder) Blade(width, height, curve float32) {
	w := width * 0.5
	mid := mgl32.Vec3{0, height * 0.55, curve * 0.35}
	tip := mgl32.Vec3{0, height, curve}
	l0, r0 := mgl32.Vec3{-w, 0, 0}, mgl32.Vec3{w, 0, 0}
	l1, r1 := mid.Add(mgl32.Vec3{-w * 0.6, 0, 0}), mid.Add(mgl32.Vec3{w * 0.6, 0, 0})
	b.Quad(l0, r0, r1, l1)
	b.Triangle(l1, r1, tip)
	b.Quad(r0, l0, l1, r1)
	b.Triangle(r1, l1, tip)
}

// Append copies m into the builder through the current transform.
func (b *Builder) Append(m *Mesh) {
	saved := b.color
	defer b.SetColor(saved)
	for i := 0; i+2 < len(m.Indices); i += 3 {
		b.SetColor(m.Colors[m.Indices[i]])
		b.Triangle(m.Positions[m.Indices[i]], m.Positions[m.Indices[i+1]], m.Positions[m.Indices[i+2]])
	}
}

// Transform helpers in float64 radians, mirroring the generator parameters.

func translate(x, y, z float32) mgl32.Mat4 {
	return mgl32.Translate3D(x, y, z)
}

func rotateY(angle float64) mgl32.Mat4 {
	return mgl32.HomogRotate3DY(float32(angle))
}

func rotateAxis(angle float64, axis mgl32.Vec3) mgl32.Mat4 {
	return mgl32.HomogRotate3D(float32(angle), axis.Normalize())
}

func scale(x, y, z float32) mgl32.Mat4 {
	return mgl32.Scale3D(x, y, z)
}
