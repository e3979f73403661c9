package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	barkBrown   = mgl32.Vec3{0.40, 0.27, 0.16}
	birchBark   = mgl32.Vec3{0.88, 0.87, 0.82}
	darkBark    = mgl32.Vec3{0.22, 0.18, 0.15}
	leafGreen   = mgl32.Vec3{0.20, 0.50, 0.18}
	birchLeaf   = mgl32.Vec3{0.46, 0.68, 0.26}
	pineGreen   = mgl32.Vec3{0.10, 0.35, 0.18}
	snowWhite   = mgl32.Vec3{0.94, 0.96, 0.98}
	palmLeaf    = mgl32.Vec3{0.36, 0.62, 0.20}
	palmBark    = mgl32.Vec3{0.55, 0.42, 0.28}
	deadGrey    = mgl32.Vec3{0.45, 0.40, 0.35}
	charred     = mgl32.Vec3{0.12, 0.10, 0.10}
	cactusGreen = mgl32.Vec3{0.30, 0.55, 0.25}
	blossomPink = mgl32.Vec3{0.95, 0.45, 0.65}
	coconut     = mgl32.Vec3{0.35, 0.22, 0.10}
)

var axisZ = mgl32.Vec3{0, 0, 1}

// heading returns the x/z offset of dist along angle a, matching rotateY.
func heading(a float64, dist float32) (x, z float32) {
	return float32(math.Cos(a)) * dist, -float32(math.Sin(a)) * dist
}

// limb places a +Y primitive at height y, turned toward angle a and tilted
// outward by tilt radians.
func limb(b *Builder, y float32, a, tilt float64, draw func()) {
	b.Push(translate(0, y, 0).Mul4(rotateY(a)).Mul4(rotateAxis(-tilt, axisZ)))
	draw()
	b.Pop()
}

func blob(b *Builder, p *params, x, y, z, radius, squash float32, segments int) {
	b.Push(translate(x, y, z).Mul4(scale(1, squash, 1)))
	b.Sphere(radius, 5, segments, 0.15, p.rng)
	b.Pop()
}

func oak(p *params, b *Builder) string {
	var variant string
	height := p.between(p.shape.TreeHeight)
	trunk := p.between(p.shape.TrunkRadius)
	canopy := p.between(p.shape.CanopyRadius)
	if p.characterVariant() {
		variant = "ancient"
		height *= 1.3
		trunk *= 1.6
		canopy *= 1.25
	}
	seg := p.segments()
	p.applyLean(b)

	b.SetColor(p.tint(barkBrown))
	b.Frustum(trunk, trunk*0.7, height*0.75, seg)

	kept := p.branchAngles(p.intn(3, 5))
	for _, a := range kept {
		limb(b, height*p.span(0.45, 0.65), a, 0.9, func() {
			b.Frustum(trunk*0.35, trunk*0.2, canopy*0.9, 5)
		})
	}

	b.SetColor(p.tint(leafGreen))
	blob(b, p, 0, height*0.8, 0, canopy, 0.8, seg)
	for _, a := range kept {
		x, z := heading(a, canopy*0.75)
		blob(b, p, x, height*p.span(0.65, 0.75), z, canopy*p.span(0.5, 0.7), 0.8, seg)
	}
	b.Pop()
	return variant
}

func birch(p *params, b *Builder) string {
	var variant string
	height := p.between(p.shape.TreeHeight) * 1.1
	trunk := p.between(p.shape.TrunkRadius) * 0.7
	canopy := p.between(p.shape.CanopyRadius) * 0.75
	seg := p.segments()
	p.applyLean(b)

	trunks := []float32{0}
	if p.characterVariant() {
		variant = "twin"
		trunks = append(trunks, trunk*3)
	}
	kept := p.branchAngles(p.intn(3, 6))
	for _, off := range trunks {
		b.Push(translate(off, 0, 0))
		b.SetColor(p.tint(birchBark))
		b.Cylinder(trunk, height*0.85, seg)
		b.SetColor(darkBark)
		for i, bands := 0, p.intn(3, 6); i < bands; i++ {
			b.Push(translate(0, height*p.span(0.1, 0.8), 0))
			b.Box(mgl32.Vec3{trunk * 2.05, height * 0.015, trunk * 0.6})
			b.Pop()
		}
		b.SetColor(p.tint(birchLeaf))
		blob(b, p, 0, height*0.85, 0, canopy, 1.5, seg)
		for _, a := range kept {
			x, z := heading(a, canopy*0.55)
			blob(b, p, x, height*p.span(0.6, 0.8), z, canopy*0.55, 1.3, seg)
		}
		b.Pop()
	}
	b.Pop()
	return variant
}

// conifer is shared by pine and snow pine.
func conifer(p *params, b *Builder, snowy bool) string {
	var variant string
	height := p.between(p.shape.TreeHeight) * 1.15
	trunk := p.between(p.shape.TrunkRadius) * 0.8
	canopy := p.between(p.shape.CanopyRadius)
	seg := p.segments()
	tiers := p.intn(3, 5)
	broken := p.characterVariant()
	if broken {
		if snowy {
			variant = "frozen"
		} else {
			variant = "broken_top"
		}
	}
	p.applyLean(b)

	b.SetColor(p.tint(barkBrown))
	b.Cylinder(trunk, height*0.9, seg)

	for _, a := range p.branchAngles(8) {
		limb(b, height*p.span(0.15, 0.3), a, 1.3, func() {
			b.Cone(trunk*0.4, canopy*0.6, 4)
		})
	}

	green := p.tint(pineGreen)
	if snowy && broken {
		green = green.Add(snowWhite).Mul(0.5)
	}
	last := tiers
	if broken && !snowy {
		last = tiers - 1
	}
	tierHeight := height * 0.75 / float32(tiers)
	for i := 0; i < last; i++ {
		frac := float32(i) / float32(tiers)
		radius := canopy * (1 - frac*0.7)
		y := height*0.2 + float32(i)*tierHeight*0.8
		b.SetColor(green)
		b.Push(translate(0, y, 0))
		b.Cone(radius, tierHeight*1.4, seg)
		if snowy {
			b.SetColor(snowWhite)
			b.Push(translate(0, tierHeight*0.7, 0))
			b.Cone(radius*0.55, tierHeight*0.72, seg)
			b.Pop()
		}
		b.Pop()
	}
	if broken && !snowy {
		b.SetColor(darkBark)
		b.Push(translate(0, height*0.9, 0))
		b.Cone(trunk, height*0.08, 3)
		b.Pop()
	}
	b.Pop()
	return variant
}

func pine(p *params, b *Builder) string {
	return conifer(p, b, false)
}

func snowPine(p *params, b *Builder) string {
	return conifer(p, b, true)
}

func palm(p *params, b *Builder) string {
	var variant string
	height := p.between(p.shape.TreeHeight)
	trunk := p.between(p.shape.TrunkRadius) * 0.8
	canopy := p.between(p.shape.CanopyRadius) * 1.2
	if p.characterVariant() {
		variant = "coconut"
	}
	p.applyLean(b)

	segments := p.intn(5, 8)
	bendHeading := p.angle()
	bendAxis := mgl32.Vec3{float32(math.Cos(bendHeading)), 0, float32(math.Sin(bendHeading))}
	bend := p.rng.Float64() * 0.12
	step := height / float32(segments)

	b.SetColor(p.tint(palmBark))
	for i := 0; i < segments; i++ {
		r := trunk * (1 - float32(i)*0.06)
		b.Frustum(r, r*0.92, step*1.02, 6)
		b.Push(translate(0, step, 0).Mul4(rotateAxis(bend, bendAxis)))
	}

	b.SetColor(p.tint(palmLeaf))
	for _, a := range p.branchAngles(p.intn(5, 8)) {
		b.Push(rotateY(a).Mul4(rotateAxis(-1.9, axisZ)).Mul4(translate(0, canopy*0.5, 0)))
		b.Box(mgl32.Vec3{canopy * 0.22, canopy, trunk * 0.15})
		b.Pop()
	}
	if variant != "" {
		b.SetColor(coconut)
		for i := 0; i < 3; i++ {
			x, z := heading(p.angle(), trunk*1.2)
			blob(b, p, x, -trunk*0.8, z, trunk*0.6, 1, 6)
		}
	}
	for i := 0; i < segments; i++ {
		b.Pop()
	}
	b.Pop()
	return variant
}

func deadTree(p *params, b *Builder) string {
	var variant string
	height := p.between(p.shape.TreeHeight) * 0.85
	trunk := p.between(p.shape.TrunkRadius)
	color := deadGrey
	if p.characterVariant() {
		variant = "charred"
		color = charred
	}
	seg := p.segments()
	p.applyLean(b)

	b.SetColor(p.tint(color))
	b.Frustum(trunk, trunk*0.4, height, seg)
	for _, a := range p.branchAngles(p.intn(3, 6)) {
		length := height * p.span(0.25, 0.45)
		limb(b, height*p.span(0.35, 0.8), a, p.rng.Float64()*0.6+0.5, func() {
			b.Frustum(trunk*0.3, trunk*0.08, length, 4)
			limb(b, length*0.6, p.angle(), 0.7, func() {
				b.Cone(trunk*0.12, length*0.4, 3)
			})
		})
	}
	b.Pop()
	return variant
}

func cactus(p *params, b *Builder) string {
	var variant string
	height := p.between(p.shape.CactusHeight)
	radius := height * p.span(0.1, 0.14)
	seg := p.segments()
	p.applyLean(b)

	b.SetColor(p.tint(cactusGreen))
	b.Cylinder(radius, height, seg)
	blob(b, p, 0, height, 0, radius, 1, seg)

	for _, a := range p.branchAngles(p.intn(1, 3)) {
		armY := height * p.span(0.3, 0.6)
		armOut := radius * 2.2
		armUp := height * p.span(0.2, 0.35)
		b.Push(translate(0, armY, 0).Mul4(rotateY(a)))
		b.Push(rotateAxis(-math.Pi/2, axisZ))
		b.Cylinder(radius*0.6, armOut, seg)
		b.Pop()
		b.Push(translate(armOut, 0, 0))
		b.Cylinder(radius*0.6, armUp, seg)
		blob(b, p, 0, armUp, 0, radius*0.6, 1, seg)
		b.Pop()
		b.Pop()
	}
	if p.characterVariant() {
		variant = "flowering"
		b.SetColor(p.tint(blossomPink))
		blob(b, p, 0, height+radius*0.8, 0, radius*0.5, 0.6, 6)
	}
	b.Pop()
	return variant
}
