package geometry

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"

	"worldpop/internal/config"
	"worldpop/internal/kind"
)

// Result is one generated object. Collision and Harvest are set only for
// harvestable kinds. Variant names a rare character variant when one was
// rolled. Lean is the applied tilt in radians (trees only).
type Result struct {
	Kind      kind.Kind
	Mesh      *Mesh
	Collision *Volume
	Harvest   *Harvest
	Variant   string
	Lean      float64
}

// params is the per-call generation context. Generators read all randomness
// through it and share no state between calls.
type params struct {
	rng   *rand.Rand
	shape config.ShapeConfig
	lean  float64
}

type generatorFunc func(p *params, b *Builder) (variant string)

var generators map[kind.Kind]generatorFunc

func init() {
	generators = map[kind.Kind]generatorFunc{
		kind.Oak:      oak,
		kind.Birch:    birch,
		kind.Pine:     pine,
		kind.SnowPine: snowPine,
		kind.Palm:     palm,
		kind.DeadTree: deadTree,
		kind.Cactus:   cactus,

		kind.Boulder:        boulder,
		kind.OreNode:        oreNode,
		kind.BerryBush:      berryBush,
		kind.CrystalCluster: crystalCluster,

		kind.Driftwood:     driftwood,
		kind.GiantMushroom: giantMushroom,
		kind.IceSpike:      iceSpike,
		kind.Stump:         stump,
		kind.FallenLog:     fallenLog,
		kind.Bones:         bones,

		kind.Grass:    grassTuft,
		kind.Flower:   flower,
		kind.Pebble:   pebble,
		kind.Fern:     fern,
		kind.Mushroom: mushroom,
		kind.DeadBush: deadBush,
		kind.Reed:     reed,
		kind.SnowTuft: snowTuft,
	}
}

// Generate builds one object of kind k. The rng is owned by the caller and
// must not be shared with a concurrent call.
func Generate(k kind.Kind, rng *rand.Rand, shape config.ShapeConfig) (Result, error) {
	fn, ok := generators[k]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
	info, _ := kind.Lookup(k)

	p := &params{rng: rng, shape: shape}
	b := NewBuilder()
	variant := fn(p, b)
	mesh := b.Mesh()
	if err := mesh.Validate(); err != nil {
		return Result{}, fmt.Errorf("generate %s: %w", k, err)
	}

	res := Result{Kind: k, Mesh: mesh, Variant: variant, Lean: p.lean}
	if info.Harvestable {
		shape := ShapeSphere
		if info.Class == kind.ClassTree {
			shape = ShapeCapsule
		}
		vol := VolumeFor(mesh, shape)
		res.Collision = &vol
		h := harvestFor(k, variant)
		res.Harvest = &h
	}
	return res, nil
}

// Supported reports whether a generator is registered for k.
func Supported(k kind.Kind) bool {
	_, ok := generators[k]
	return ok
}

func (p *params) unit() float32 {
	return float32(p.rng.Float64())
}

func (p *params) between(r config.Range) float32 {
	return float32(r.Lerp(p.rng.Float64()))
}

func (p *params) span(lo, hi float32) float32 {
	return lo + (hi-lo)*p.unit()
}

func (p *params) intn(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + p.rng.IntN(hi-lo+1)
}

func (p *params) segments() int {
	return p.intn(p.shape.SegmentsMin, p.shape.SegmentsMax)
}

func (p *params) angle() float64 {
	return p.rng.Float64() * 2 * math.Pi
}

// characterVariant rolls the rare variant independently of everything else.
func (p *params) characterVariant() bool {
	return p.rng.Float64() < p.shape.CharacterVariantChance
}

// tint jitters each channel of base within ±ColorJitter and clamps to [0,1].
func (p *params) tint(base mgl32.Vec3) mgl32.Vec3 {
	j := float32(p.shape.ColorJitter)
	var out mgl32.Vec3
	for i := range base {
		out[i] = mgl32.Clamp(base[i]+(p.unit()*2-1)*j, 0, 1)
	}
	return out
}

// applyLean tilts the rest of the object around a random horizontal axis by
// up to MaxLean radians.
func (p *params) applyLean(b *Builder) {
	p.lean = p.rng.Float64() * p.shape.MaxLean
	heading := p.angle()
	axis := mgl32.Vec3{float32(math.Cos(heading)), 0, float32(math.Sin(heading))}
	b.Push(rotateAxis(p.lean, axis))
}

// branchAngles spreads n branch headings around the trunk and drops some of
// them. The drop chance peaks at a random bias heading and falls to zero on
// the opposite side, so trees thin out on one side only.
func (p *params) branchAngles(n int) []float64 {
	bias := p.angle()
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		a := float64(i)/float64(n)*2*math.Pi + (p.rng.Float64()-0.5)*0.5
		weight := (1 + math.Cos(a-bias)) * 0.5
		if p.rng.Float64() < p.shape.BranchSuppression*weight {
			continue
		}
		out = append(out, a)
	}
	return out
}

var harvestTable = map[kind.Kind]Harvest{
	kind.Oak:            {Resource: "wood", YieldMin: 3, YieldMax: 6, Tool: "axe", HitPoints: 120},
	kind.Birch:          {Resource: "wood", YieldMin: 2, YieldMax: 5, Tool: "axe", HitPoints: 90},
	kind.Pine:           {Resource: "wood", YieldMin: 3, YieldMax: 5, Tool: "axe", HitPoints: 110},
	kind.SnowPine:       {Resource: "wood", YieldMin: 2, YieldMax: 4, Tool: "axe", HitPoints: 110},
	kind.Palm:           {Resource: "wood", YieldMin: 2, YieldMax: 4, Tool: "axe", HitPoints: 80},
	kind.DeadTree:       {Resource: "wood", YieldMin: 1, YieldMax: 3, Tool: "axe", HitPoints: 50},
	kind.Cactus:         {Resource: "fiber", YieldMin: 1, YieldMax: 3, Tool: "knife", HitPoints: 40},
	kind.Boulder:        {Resource: "stone", YieldMin: 3, YieldMax: 7, Tool: "pickaxe", HitPoints: 160},
	kind.OreNode:        {Resource: "ore", YieldMin: 2, YieldMax: 5, Tool: "pickaxe", HitPoints: 200},
	kind.BerryBush:      {Resource: "berries", YieldMin: 2, YieldMax: 6, Tool: "hand", HitPoints: 20},
	kind.CrystalCluster: {Resource: "crystal", YieldMin: 1, YieldMax: 3, Tool: "pickaxe", HitPoints: 240},
}

// harvestFor returns the metadata for k; character variants yield half again.
func harvestFor(k kind.Kind, variant string) Harvest {
	h := harvestTable[k]
	if h.Resource == "" {
		h = Harvest{Resource: string(k), YieldMin: 1, YieldMax: 1, Tool: "hand", HitPoints: 10}
	}
	if variant != "" {
		h.YieldMin += h.YieldMin / 2
		h.YieldMax += (h.YieldMax + 1) / 2
	}
	return h
}
