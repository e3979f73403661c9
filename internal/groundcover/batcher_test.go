package groundcover

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"worldpop/internal/biome"
	"worldpop/internal/config"
	"worldpop/internal/geometry"
	"worldpop/internal/kind"
)

func TestBuildEmptyAccumulatorReturnsNil(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 0))
	if b := Build(NewAccumulator(mgl64.Vec3{}), rng, config.Default().Spawn.GroundCover); b != nil {
		t.Fatalf("expected nil batch, got %d instances", b.Len())
	}
	var nilBatch *Batch
	if nilBatch.Len() != 0 {
		t.Fatalf("nil batch should be empty")
	}
}

func TestBuildForestChunkInstanceCountWithinBladeRange(t *testing.T) {
	cfg := config.Default().Spawn.GroundCover
	origin := mgl64.Vec3{320, 0, -640}
	acc := NewAccumulator(origin)
	for i := 0; i < 100; i++ {
		acc.Add(Sample{
			Position: origin.Add(mgl64.Vec3{float64(i%10) * 3, 2, float64(i/10) * 3}),
			Biome:    biome.Forest,
		})
	}

	for seed := uint64(0); seed < 20; seed++ {
		batch := Build(acc, rand.New(rand.NewPCG(seed, 0)), cfg)
		lo, hi := 100*cfg.BladesMin, 100*cfg.BladesMax
		if n := batch.Len(); n < lo || n > hi {
			t.Fatalf("seed %d: %d instances outside [%d,%d]", seed, n, lo, hi)
		}
		if len(batch.Colors) != batch.Len() {
			t.Fatalf("one colour per instance expected")
		}
		if batch.Samples != 100 || batch.Category != kind.Grass || batch.Base != geometry.GrassBlade() {
			t.Fatalf("unexpected batch header %+v", batch)
		}
	}
}

func TestBuildDenseSamplesAddExtraBlades(t *testing.T) {
	cfg := config.Default().Spawn.GroundCover
	cfg.BladesMin, cfg.BladesMax, cfg.DenseExtra = 4, 4, 3

	acc := NewAccumulator(mgl64.Vec3{})
	acc.Add(Sample{Position: mgl64.Vec3{1, 0, 1}, Biome: biome.Grassland})
	acc.Add(Sample{Position: mgl64.Vec3{2, 0, 2}, Biome: biome.Grassland, Dense: true})

	batch := Build(acc, rand.New(rand.NewPCG(2, 0)), cfg)
	if batch.Len() != 4+4+3 {
		t.Fatalf("expected 11 instances, got %d", batch.Len())
	}
}

func TestBuildScattersAroundSamples(t *testing.T) {
	cfg := config.Default().Spawn.GroundCover
	origin := mgl64.Vec3{10000, 0, 10000}
	acc := NewAccumulator(origin)
	sample := origin.Add(mgl64.Vec3{5, 3, 7})
	acc.Add(Sample{Position: sample, Biome: biome.Grassland})

	batch := Build(acc, rand.New(rand.NewPCG(8, 0)), cfg)
	for i := 0; i < batch.Len(); i++ {
		pos := batch.InstancePosition(i)
		dx, dz := pos.X()-sample.X(), pos.Z()-sample.Z()
		if d := math.Hypot(dx, dz); d > cfg.ScatterRadius+1e-3 {
			t.Fatalf("instance %d scattered %f from its sample", i, d)
		}
		if math.Abs(pos.Y()-sample.Y()) > 1e-3 {
			t.Fatalf("instance %d height %f, want %f", i, pos.Y(), sample.Y())
		}
		// Column lengths of the upper 3x3 carry the uniform scale.
		col := batch.Transforms[i].Col(1)
		s := float64(mgl32.Vec3{col.X(), col.Y(), col.Z()}.Len())
		if s < 1-cfg.ScaleJitter-1e-4 || s > 1+cfg.ScaleJitter+1e-4 {
			t.Fatalf("instance %d scale %f outside jitter range", i, s)
		}
	}
}

func TestBuildUsesDiscreteShadeBands(t *testing.T) {
	cfg := config.Default().Spawn.GroundCover
	cfg.ColorJitter = 0

	acc := NewAccumulator(mgl64.Vec3{})
	for i := 0; i < 50; i++ {
		acc.Add(Sample{Position: mgl64.Vec3{float64(i), 0, 0}, Biome: biome.Desert})
	}
	batch := Build(acc, rand.New(rand.NewPCG(4, 0)), cfg)

	distinct := map[mgl32.Vec3]bool{}
	for _, c := range batch.Colors {
		distinct[c] = true
	}
	if len(distinct) < 2 || len(distinct) > 3 {
		t.Fatalf("expected 2-3 shade bands without jitter, got %d", len(distinct))
	}
	for c := range distinct {
		found := false
		for _, band := range palettes[biome.Desert] {
			if c == band {
				found = true
			}
		}
		if !found {
			t.Fatalf("colour %v is not a desert band", c)
		}
	}
}

func TestBuildToleratesNegativeBladeCounts(t *testing.T) {
	cfg := config.Default().Spawn.GroundCover
	cfg.BladesMin = -4
	cfg.BladesMax = -2
	cfg.DenseExtra = -1
	acc := NewAccumulator(mgl64.Vec3{})
	acc.Add(Sample{Position: mgl64.Vec3{1, 0, 1}, Biome: biome.Grassland})
	acc.Add(Sample{Position: mgl64.Vec3{2, 0, 2}, Dense: true, Biome: biome.Grassland})

	b := Build(acc, rand.New(rand.NewPCG(3, 0)), cfg)
	if b == nil || b.Len() != 0 || b.Samples != 2 {
		t.Fatalf("expected an empty batch over 2 samples, got %+v", b)
	}
}
