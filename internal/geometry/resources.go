package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	stoneGrey   = mgl32.Vec3{0.52, 0.51, 0.50}
	mossGreen   = mgl32.Vec3{0.33, 0.45, 0.20}
	copperOre   = mgl32.Vec3{0.72, 0.45, 0.20}
	goldOre     = mgl32.Vec3{0.90, 0.75, 0.25}
	bushGreen   = mgl32.Vec3{0.22, 0.42, 0.20}
	berryRed    = mgl32.Vec3{0.75, 0.10, 0.22}
	berryGold   = mgl32.Vec3{0.95, 0.78, 0.20}
	crystalBlue = mgl32.Vec3{0.55, 0.45, 0.85}
	crystalGlow = mgl32.Vec3{0.70, 0.95, 1.00}
)

func rock(p *params, b *Builder, radius float32) {
	b.Push(scale(p.span(0.9, 1.2), p.span(0.55, 0.8), p.span(0.9, 1.2)).Mul4(translate(0, radius*0.6, 0)))
	b.Sphere(radius, 5, p.segments(), 0.22, p.rng)
	b.Pop()
}

func boulder(p *params, b *Builder) string {
	var variant string
	radius := p.between(p.shape.RockRadius)
	b.SetColor(p.tint(stoneGrey))
	rock(p, b, radius)
	if p.characterVariant() {
		variant = "mossy"
		b.SetColor(p.tint(mossGreen))
		b.Push(translate(0, radius*1.05, 0).Mul4(scale(1, 0.25, 1)))
		b.Sphere(radius*0.7, 3, 8, 0.1, p.rng)
		b.Pop()
	}
	return variant
}

func oreNode(p *params, b *Builder) string {
	var variant string
	radius := p.between(p.shape.RockRadius)
	veins := p.intn(3, 6)
	color := copperOre
	if p.characterVariant() {
		variant = "rich"
		veins *= 2
		color = goldOre
	}
	b.SetColor(p.tint(stoneGrey.Mul(0.8)))
	rock(p, b, radius)

	b.SetColor(p.tint(color))
	for i := 0; i < veins; i++ {
		a := p.angle()
		x, z := heading(a, radius*0.8)
		size := radius * p.span(0.15, 0.3)
		b.Push(translate(x, radius*p.span(0.3, 0.8), z).Mul4(rotateY(a)).Mul4(rotateAxis(p.rng.Float64(), axisZ)))
		b.Box(mgl32.Vec3{size, size * 0.7, size})
		b.Pop()
	}
	return variant
}

func berryBush(p *params, b *Builder) string {
	var variant string
	radius := p.between(p.shape.BushRadius)
	berries := berryRed
	if p.characterVariant() {
		variant = "golden"
		berries = berryGold
	}
	seg := p.segments()

	b.SetColor(p.tint(bushGreen))
	lobes := p.intn(3, 5)
	type spot struct{ x, y, z, r float32 }
	spots := make([]spot, 0, lobes)
	for i := 0; i < lobes; i++ {
		x, z := heading(p.angle(), radius*p.span(0, 0.6))
		s := spot{x, radius * p.span(0.6, 0.9), z, radius * p.span(0.55, 0.8)}
		spots = append(spots, s)
		blob(b, p, s.x, s.y, s.z, s.r, 0.85, seg)
	}

	b.SetColor(p.tint(berries))
	for i, n := 0, p.intn(6, 12); i < n; i++ {
		s := spots[p.rng.IntN(len(spots))]
		a := p.angle()
		elev := float64(p.span(-0.3, 1.2))
		dir := mgl32.Vec3{
			float32(math.Cos(a) * math.Cos(elev)),
			float32(math.Sin(elev)),
			float32(math.Sin(a) * math.Cos(elev)),
		}
		c := mgl32.Vec3{s.x, s.y, s.z}.Add(dir.Mul(s.r))
		b.Push(translate(c.X(), c.Y(), c.Z()))
		b.Sphere(radius*0.08, 3, 5, 0, nil)
		b.Pop()
	}
	return variant
}

func crystalCluster(p *params, b *Builder) string {
	var variant string
	radius := p.between(p.shape.RockRadius)
	color := crystalBlue
	if p.characterVariant() {
		variant = "glowing"
		color = crystalGlow
	}
	b.SetColor(p.tint(stoneGrey))
	b.Push(scale(1, 0.3, 1))
	b.Sphere(radius*0.8, 3, 7, 0.2, p.rng)
	b.Pop()

	for i, n := 0, p.intn(3, 7); i < n; i++ {
		a := p.angle()
		x, z := heading(a, radius*p.span(0, 0.5))
		height := radius * p.span(0.9, 2.2)
		width := height * p.span(0.12, 0.2)
		b.SetColor(p.tint(color))
		b.Push(translate(x, 0, z).Mul4(rotateY(a)).Mul4(rotateAxis(-float64(p.span(0, 0.6)), axisZ)))
		b.Cylinder(width, height*0.75, 6)
		b.Push(translate(0, height*0.75, 0))
		b.Cone(width, height*0.25, 6)
		b.Pop()
		b.Pop()
	}
	return variant
}
