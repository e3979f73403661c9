package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	grassGreen = mgl32.Vec3{0.36, 0.62, 0.24}
	seedHead   = mgl32.Vec3{0.78, 0.70, 0.42}
	stemGreen  = mgl32.Vec3{0.28, 0.52, 0.20}
	pollen     = mgl32.Vec3{0.98, 0.85, 0.25}
	fernGreen  = mgl32.Vec3{0.18, 0.48, 0.22}
	twigBrown  = mgl32.Vec3{0.55, 0.44, 0.32}
	reedGreen  = mgl32.Vec3{0.50, 0.62, 0.32}
	cattail    = mgl32.Vec3{0.40, 0.26, 0.14}
	geodePurp  = mgl32.Vec3{0.55, 0.30, 0.70}
)

var petalColors = []mgl32.Vec3{
	{0.95, 0.30, 0.35},
	{0.98, 0.85, 0.30},
	{0.60, 0.45, 0.95},
	{0.98, 0.98, 0.98},
	{0.95, 0.55, 0.20},
}

// grassBlade is the shared base mesh for batched grass, built once.
var grassBlade = func() *Mesh {
	b := NewBuilder()
	b.SetColor(mgl32.Vec3{1, 1, 1})
	b.Blade(0.08, 0.55, 0.12)
	return b.Mesh()
}()

// GrassBlade returns the shared blade mesh used as the instancing base. Its
// colour is white so per-instance tints apply unchanged. Callers must not
// modify it.
func GrassBlade() *Mesh {
	return grassBlade
}

func grassTuft(p *params, b *Builder) string {
	var variant string
	s := p.between(p.shape.CoverScale)
	b.SetColor(p.tint(grassGreen))
	for i, n := 0, p.intn(3, 6); i < n; i++ {
		b.Push(rotateY(p.angle()).Mul4(rotateAxis(float64(p.span(0, 0.3)), mgl32.Vec3{1, 0, 0})))
		b.Blade(0.08*s, 0.55*s*p.span(0.7, 1.2), 0.12*s)
		b.Pop()
	}
	if p.characterVariant() {
		variant = "seeded"
		b.SetColor(p.tint(seedHead))
		b.Push(translate(0, 0.6*s, 0))
		b.Cylinder(0.03*s, 0.12*s, 4)
		b.Pop()
	}
	return variant
}

func flower(p *params, b *Builder) string {
	var variant string
	s := p.between(p.shape.CoverScale)
	height := 0.35 * s * p.span(0.8, 1.3)
	petal := petalColors[p.rng.IntN(len(petalColors))]
	blooms := 1
	if p.characterVariant() {
		variant = "double_bloom"
		blooms = 2
	}

	for i := 0; i < blooms; i++ {
		x, z := heading(p.angle(), 0.08*s*float32(i))
		h := height * (1 - 0.25*float32(i))
		b.Push(translate(x, 0, z))
		b.SetColor(p.tint(stemGreen))
		b.Cylinder(0.015*s, h, 4)
		b.Push(translate(0, h, 0))
		b.SetColor(p.tint(petal))
		petals := p.intn(5, 8)
		for j := 0; j < petals; j++ {
			a := float64(j) / float64(petals) * 2 * math.Pi
			px, pz := heading(a, 0.06*s)
			b.Push(translate(px, 0, pz).Mul4(scale(1, 0.3, 1)))
			b.Sphere(0.05*s, 2, 5, 0, nil)
			b.Pop()
		}
		b.SetColor(pollen)
		b.Sphere(0.03*s, 2, 5, 0, nil)
		b.Pop()
		b.Pop()
	}
	return variant
}

func pebble(p *params, b *Builder) string {
	var variant string
	s := p.between(p.shape.CoverScale)
	b.SetColor(p.tint(stoneGrey))
	for i, n := 0, p.intn(1, 3); i < n; i++ {
		x, z := heading(p.angle(), 0.12*s*float32(i))
		r := 0.09 * s * p.span(0.6, 1.3)
		b.Push(translate(x, r*0.4, z).Mul4(scale(1, 0.5, p.span(0.8, 1.2))))
		b.Sphere(r, 3, 6, 0.15, p.rng)
		b.Pop()
	}
	if p.characterVariant() {
		variant = "geode"
		b.SetColor(p.tint(geodePurp))
		b.Push(translate(0, 0.06*s, 0))
		b.Cone(0.04*s, 0.08*s, 5)
		b.Pop()
	}
	return variant
}

func fern(p *params, b *Builder) string {
	var variant string
	s := p.between(p.shape.CoverScale)
	curl := float32(0.25)
	if p.characterVariant() {
		variant = "curled"
		curl = 0.05
	}
	b.SetColor(p.tint(fernGreen))
	for _, a := range p.branchAngles(p.intn(5, 9)) {
		b.Push(rotateY(a).Mul4(rotateAxis(-float64(p.span(0.5, 0.9)), axisZ)))
		b.Blade(0.12*s, 0.6*s*p.span(0.7, 1.1), curl*s)
		b.Pop()
	}
	b.Blade(0.1*s, 0.45*s, curl*s)
	return variant
}

func smallMushroom(b *Builder, x, z, s float32, capColor mgl32.Vec3) {
	b.Push(translate(x, 0, z))
	b.SetColor(stemCream)
	b.Cylinder(0.025*s, 0.12*s, 5)
	b.SetColor(capColor)
	b.Push(translate(0, 0.12*s, 0).Mul4(scale(1, 0.5, 1)))
	b.Sphere(0.07*s, 3, 6, 0, nil)
	b.Pop()
	b.Pop()
}

func mushroom(p *params, b *Builder) string {
	var variant string
	s := p.between(p.shape.CoverScale)
	color := p.tint(capRed)
	smallMushroom(b, 0, 0, s, color)
	if p.characterVariant() {
		variant = "fairy_ring"
		n := p.intn(4, 7)
		for i := 0; i < n; i++ {
			x, z := heading(float64(i)/float64(n)*2*math.Pi, 0.3*s)
			smallMushroom(b, x, z, s*p.span(0.7, 1), color)
		}
	}
	return variant
}

func deadBush(p *params, b *Builder) string {
	var variant string
	s := p.between(p.shape.CoverScale)
	b.SetColor(p.tint(twigBrown))
	if p.characterVariant() {
		variant = "tumbleweed"
		b.Push(translate(0, 0.25*s, 0))
		b.Sphere(0.25*s, 4, 7, 0.3, p.rng)
		b.Pop()
		return variant
	}
	for i, n := 0, p.intn(5, 9); i < n; i++ {
		limb(b, 0, p.angle(), float64(p.span(0.3, 1.0)), func() {
			b.Frustum(0.015*s, 0.004*s, 0.35*s*p.span(0.6, 1.2), 3)
		})
	}
	return variant
}

func reed(p *params, b *Builder) string {
	var variant string
	s := p.between(p.shape.CoverScale)
	flowering := p.characterVariant()
	if flowering {
		variant = "flowering"
	}
	for i, n := 0, p.intn(4, 8); i < n; i++ {
		x, z := heading(p.angle(), 0.1*s*p.unit())
		h := 0.9 * s * p.span(0.7, 1.2)
		b.Push(translate(x, 0, z).Mul4(rotateAxis(float64(p.span(-0.1, 0.1)), axisZ)))
		b.SetColor(p.tint(reedGreen))
		b.Cylinder(0.012*s, h, 3)
		if flowering || i%2 == 0 {
			b.SetColor(p.tint(cattail))
			b.Push(translate(0, h*0.75, 0))
			b.Cylinder(0.03*s, h*0.15, 5)
			b.Pop()
		}
		b.Pop()
	}
	return variant
}

func snowTuft(p *params, b *Builder) string {
	var variant string
	s := p.between(p.shape.CoverScale)
	b.SetColor(p.tint(snowWhite))
	b.Push(scale(1, 0.4, 1))
	b.Sphere(0.3*s, 3, 7, 0.2, p.rng)
	b.Pop()
	if p.characterVariant() {
		variant = "icy"
		b.SetColor(p.tint(iceBlue))
		for i := 0; i < 3; i++ {
			x, z := heading(p.angle(), 0.12*s)
			b.Push(translate(x, 0.05*s, z))
			b.Cone(0.03*s, 0.2*s, 4)
			b.Pop()
		}
	}
	return variant
}
