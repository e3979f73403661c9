package groundcover

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"worldpop/internal/biome"
	"worldpop/internal/config"
	"worldpop/internal/geometry"
	"worldpop/internal/kind"
)

// Sample is one accepted ground-cover position routed to the batcher.
type Sample struct {
	Position mgl64.Vec3
	Dense    bool
	Biome    biome.Biome
}

// Accumulator collects the batched samples of one chunk. Instance
// transforms are stored relative to Origin so float32 precision holds far
// from the world origin.
type Accumulator struct {
	Origin  mgl64.Vec3
	samples []Sample
}

func NewAccumulator(origin mgl64.Vec3) *Accumulator {
	return &Accumulator{Origin: origin}
}

func (a *Accumulator) Add(s Sample) {
	a.samples = append(a.samples, s)
}

func (a *Accumulator) Len() int {
	return len(a.samples)
}

func (a *Accumulator) Empty() bool {
	return len(a.samples) == 0
}

// Samples returns the collected samples. The slice must not be modified.
func (a *Accumulator) Samples() []Sample {
	return a.samples
}

// Batch is one instanced draw: a shared base mesh plus a transform and a
// tint per instance.
type Batch struct {
	Category   kind.Kind
	Base       *geometry.Mesh
	Origin     mgl64.Vec3
	Transforms []mgl32.Mat4
	Colors     []mgl32.Vec3
	Samples    int
}

// Len is the number of instances in the batch.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Transforms)
}

// InstancePosition returns the world position of instance i.
func (b *Batch) InstancePosition(i int) mgl64.Vec3 {
	t := b.Transforms[i].Col(3)
	return b.Origin.Add(mgl64.Vec3{float64(t.X()), float64(t.Y()), float64(t.Z())})
}

// Build fans every sample out into a few blade instances. It returns nil for
// an empty accumulator.
func Build(acc *Accumulator, rng *rand.Rand, cfg config.GroundCoverConfig) *Batch {
	if acc == nil || acc.Empty() {
		return nil
	}
	batch := &Batch{
		Category: kind.Grass,
		Base:     geometry.GrassBlade(),
		Origin:   acc.Origin,
		Samples:  acc.Len(),
	}
	capacity := acc.Len() * max(cfg.BladesMax+cfg.DenseExtra, 0)
	batch.Transforms = make([]mgl32.Mat4, 0, capacity)
	batch.Colors = make([]mgl32.Vec3, 0, capacity)

	for _, s := range acc.samples {
		count := cfg.BladesMin
		if cfg.BladesMax > cfg.BladesMin {
			count += rng.IntN(cfg.BladesMax - cfg.BladesMin + 1)
		}
		if s.Dense {
			count += cfg.DenseExtra
		}
		count = max(count, 0)
		local := s.Position.Sub(acc.Origin)
		bands := palette(s.Biome)
		for i := 0; i < count; i++ {
			batch.Transforms = append(batch.Transforms, instanceTransform(local, rng, cfg))
			batch.Colors = append(batch.Colors, shade(bands, rng, cfg.ColorJitter))
		}
	}
	return batch
}

func instanceTransform(local mgl64.Vec3, rng *rand.Rand, cfg config.GroundCoverConfig) mgl32.Mat4 {
	// sqrt keeps the scatter uniform over the disc area.
	dist := cfg.ScatterRadius * math.Sqrt(rng.Float64())
	dir := rng.Float64() * 2 * math.Pi
	x := local.X() + math.Cos(dir)*dist
	z := local.Z() + math.Sin(dir)*dist

	yaw := rng.Float64() * 2 * math.Pi
	lean := rng.Float64() * cfg.MaxLean
	leanDir := rng.Float64() * 2 * math.Pi
	axis := mgl32.Vec3{float32(math.Cos(leanDir)), 0, float32(math.Sin(leanDir))}
	s := float32(1 + (rng.Float64()*2-1)*cfg.ScaleJitter)

	return mgl32.Translate3D(float32(x), float32(local.Y()), float32(z)).
		Mul4(mgl32.HomogRotate3D(float32(lean), axis)).
		Mul4(mgl32.HomogRotate3DY(float32(yaw))).
		Mul4(mgl32.Scale3D(s, s, s))
}

// shade picks one discrete band and jitters it slightly.
func shade(bands []mgl32.Vec3, rng *rand.Rand, jitter float64) mgl32.Vec3 {
	base := bands[rng.IntN(len(bands))]
	var out mgl32.Vec3
	for i := range base {
		out[i] = mgl32.Clamp(base[i]+float32((rng.Float64()*2-1)*jitter), 0, 1)
	}
	return out
}

var palettes = map[biome.Biome][]mgl32.Vec3{
	biome.Grassland: {{0.36, 0.62, 0.24}, {0.44, 0.70, 0.28}, {0.30, 0.54, 0.20}},
	biome.Forest:    {{0.22, 0.48, 0.20}, {0.28, 0.56, 0.22}, {0.18, 0.40, 0.16}},
	biome.Beach:     {{0.62, 0.66, 0.38}, {0.70, 0.72, 0.44}, {0.55, 0.60, 0.34}},
	biome.Mountain:  {{0.40, 0.52, 0.30}, {0.48, 0.58, 0.36}, {0.34, 0.46, 0.26}},
	biome.Desert:    {{0.72, 0.66, 0.40}, {0.78, 0.70, 0.46}, {0.66, 0.58, 0.34}},
	biome.Snow:      {{0.70, 0.76, 0.66}, {0.78, 0.82, 0.74}, {0.62, 0.70, 0.60}},
	biome.Ocean:     {{0.30, 0.50, 0.36}, {0.36, 0.56, 0.40}, {0.26, 0.44, 0.32}},
}

func palette(b biome.Biome) []mgl32.Vec3 {
	if bands, ok := palettes[b]; ok {
		return bands
	}
	return palettes[biome.Grassland]
}
