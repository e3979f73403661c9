package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	bleached     = mgl32.Vec3{0.80, 0.76, 0.68}
	driftBrown   = mgl32.Vec3{0.58, 0.50, 0.40}
	stemCream    = mgl32.Vec3{0.90, 0.86, 0.76}
	capRed       = mgl32.Vec3{0.78, 0.16, 0.14}
	capGlow      = mgl32.Vec3{0.35, 0.85, 0.90}
	iceBlue      = mgl32.Vec3{0.72, 0.88, 0.98}
	ringWood     = mgl32.Vec3{0.78, 0.64, 0.44}
	boneWhite    = mgl32.Vec3{0.93, 0.91, 0.85}
	toolHandle   = mgl32.Vec3{0.50, 0.36, 0.22}
	hollowShadow = mgl32.Vec3{0.10, 0.07, 0.05}
)

// lying turns +Y primitives onto their side along +X.
func lying(b *Builder, yaw float64, y float32) {
	b.Push(rotateY(yaw).Mul4(translate(0, y, 0)).Mul4(rotateAxis(-math.Pi/2, axisZ)))
}

func driftwood(p *params, b *Builder) string {
	var variant string
	s := p.between(p.shape.DecorationScale)
	color := driftBrown
	if p.characterVariant() {
		variant = "bleached"
		color = bleached
	}
	length := 2.2 * s
	radius := 0.14 * s
	b.SetColor(p.tint(color))
	lying(b, p.angle(), radius)
	b.Frustum(radius, radius*0.7, length*0.55, 6)
	b.Push(translate(0, length*0.55, 0).Mul4(rotateAxis(float64(p.span(-0.5, 0.5)), mgl32.Vec3{1, 0, 0})))
	b.Frustum(radius*0.7, radius*0.35, length*0.45, 6)
	b.Pop()
	b.Pop()
	return variant
}

func giantMushroom(p *params, b *Builder) string {
	var variant string
	s := p.between(p.shape.DecorationScale)
	capColor := capRed
	if p.characterVariant() {
		variant = "glowing"
		capColor = capGlow
	}
	height := 2.4 * s
	capRadius := 1.3 * s
	seg := p.segments()

	b.SetColor(p.tint(stemCream))
	b.Frustum(0.3*s, 0.22*s, height, seg)
	b.SetColor(p.tint(capColor))
	b.Push(translate(0, height, 0).Mul4(scale(1, 0.45, 1)))
	b.Sphere(capRadius, 5, seg, 0.05, p.rng)
	b.Pop()

	b.SetColor(stemCream)
	for i, n := 0, p.intn(4, 8); i < n; i++ {
		x, z := heading(p.angle(), capRadius*p.span(0.2, 0.75))
		b.Push(translate(x, height+capRadius*0.4, z).Mul4(scale(1, 0.4, 1)))
		b.Sphere(0.12*s, 2, 5, 0, nil)
		b.Pop()
	}
	return variant
}

func iceSpike(p *params, b *Builder) string {
	var variant string
	s := p.between(p.shape.DecorationScale)
	b.SetColor(p.tint(iceBlue))
	for i, n := 0, p.intn(1, 4); i < n; i++ {
		a := p.angle()
		x, z := heading(a, 0.4*s*float32(i))
		b.Push(translate(x, 0, z).Mul4(rotateY(a)).Mul4(rotateAxis(-float64(p.span(0, 0.25)), axisZ)))
		b.Cone(0.35*s*p.span(0.7, 1.1), 3.2*s*p.span(0.5, 1), p.intn(4, 6))
		b.Pop()
	}
	if p.characterVariant() {
		variant = "shard_ring"
		for i := 0; i < 8; i++ {
			a := float64(i) / 8 * 2 * math.Pi
			x, z := heading(a, 1.4*s)
			b.Push(translate(x, 0, z).Mul4(rotateY(a)).Mul4(rotateAxis(-0.5, axisZ)))
			b.Cone(0.12*s, 0.8*s, 4)
			b.Pop()
		}
	}
	return variant
}

func stump(p *params, b *Builder) string {
	var variant string
	s := p.between(p.shape.DecorationScale)
	radius := 0.45 * s
	height := 0.6 * s * p.span(0.7, 1.2)
	seg := p.segments()

	b.SetColor(p.tint(barkBrown))
	b.Frustum(radius*1.1, radius, height, seg)
	for i, n := 0, p.intn(3, 5); i < n; i++ {
		limb(b, radius*0.2, p.angle(), 1.25, func() {
			b.Cone(radius*0.3, radius*1.1, 4)
		})
	}
	b.SetColor(p.tint(ringWood))
	b.Push(translate(0, height+0.001, 0))
	b.Disc(radius*0.9, seg)
	b.Pop()
	if p.characterVariant() {
		variant = "axe"
		b.SetColor(toolHandle)
		b.Push(translate(0, height+0.35*s, 0).Mul4(rotateAxis(0.4, axisZ)))
		b.Box(mgl32.Vec3{0.06 * s, 0.8 * s, 0.06 * s})
		b.Pop()
	}
	return variant
}

func fallenLog(p *params, b *Builder) string {
	var variant string
	s := p.between(p.shape.DecorationScale)
	radius := 0.32 * s
	length := 3.0 * s * p.span(0.8, 1.2)
	seg := p.segments()
	hollow := p.characterVariant()
	if hollow {
		variant = "hollow"
	}

	lying(b, p.angle(), radius)
	b.Push(translate(0, -length/2, 0))
	b.SetColor(p.tint(barkBrown))
	b.Cylinder(radius, length, seg)
	b.SetColor(p.tint(mossGreen))
	b.Push(translate(radius*0.6, length*0.3, 0).Mul4(scale(0.4, 1, 1)))
	b.Cylinder(radius*0.5, length*0.4, 5)
	b.Pop()
	if hollow {
		b.SetColor(hollowShadow)
		b.Push(translate(0, length+0.002, 0))
		b.Disc(radius*0.7, seg)
		b.Pop()
	}
	b.Pop()
	b.Pop()
	return variant
}

func skull(b *Builder, x, y, z, size float32) {
	b.Push(translate(x, y, z).Mul4(scale(1, 0.85, 1.2)))
	b.Sphere(size, 4, 6, 0, nil)
	b.Pop()
}

func bones(p *params, b *Builder) string {
	var variant string
	s := p.between(p.shape.DecorationScale)
	b.SetColor(p.tint(boneWhite))

	yaw := p.angle()
	b.Push(rotateY(yaw))
	ribs := p.intn(4, 7)
	for i := 0; i < ribs; i++ {
		x := (float32(i) - float32(ribs)/2) * 0.22 * s
		for _, side := range []float64{-1, 1} {
			b.Push(translate(x, 0.05*s, 0).Mul4(rotateAxis(side*1.1, mgl32.Vec3{1, 0, 0})))
			b.Frustum(0.04*s, 0.025*s, 0.7*s, 4)
			b.Pop()
		}
	}
	lying(b, 0, 0.05*s)
	b.Push(translate(0, -float32(ribs)*0.13*s, 0))
	b.Cylinder(0.05*s, float32(ribs)*0.26*s, 4)
	b.Pop()
	b.Pop()
	skull(b, float32(ribs)*0.16*s, 0.2*s, 0, 0.25*s)
	b.Pop()

	if p.characterVariant() {
		variant = "skull_pile"
		for i := 0; i < 4; i++ {
			x, z := heading(p.angle(), 0.6*s)
			skull(b, x, 0.18*s, z, 0.2*s)
		}
	}
	return variant
}
