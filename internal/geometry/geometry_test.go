package geometry

import (
	"errors"
	"math"
	"math/rand/v2"
	"reflect"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"worldpop/internal/config"
	"worldpop/internal/kind"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

func defaultShapes() config.ShapeConfig {
	return config.Default().Spawn.Shapes
}

func TestEveryKindGeneratesAValidMesh(t *testing.T) {
	shapes := defaultShapes()
	for _, info := range kind.All() {
		t.Run(string(info.Kind), func(t *testing.T) {
			if !Supported(info.Kind) {
				t.Fatalf("no generator registered")
			}
			for seed := uint64(0); seed < 25; seed++ {
				res, err := Generate(info.Kind, newRNG(seed), shapes)
				if err != nil {
					t.Fatalf("seed %d: %v", seed, err)
				}
				if res.Kind != info.Kind {
					t.Fatalf("seed %d: result kind %s", seed, res.Kind)
				}
				if res.Mesh.TriangleCount() == 0 {
					t.Fatalf("seed %d: empty mesh", seed)
				}
				for i, n := range res.Mesh.Normals {
					if l := n.Len(); math.Abs(float64(l)-1) > 1e-3 {
						t.Fatalf("seed %d: normal %d has length %f", seed, i, l)
					}
				}
				for _, c := range res.Mesh.Colors {
					for _, ch := range c {
						if ch < 0 || ch > 1 {
							t.Fatalf("seed %d: colour %v outside [0,1]", seed, c)
						}
					}
				}
				if info.Harvestable != (res.Collision != nil) || info.Harvestable != (res.Harvest != nil) {
					t.Fatalf("seed %d: harvestable=%v but collision=%v harvest=%v",
						seed, info.Harvestable, res.Collision, res.Harvest)
				}
				if res.Collision != nil && res.Collision.Radius <= 0 {
					t.Fatalf("seed %d: collision radius %f", seed, res.Collision.Radius)
				}
			}
		})
	}
}

func TestGenerateUnknownKind(t *testing.T) {
	_, err := Generate("teapot", newRNG(1), defaultShapes())
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestGenerateRejectsDegenerateOutput(t *testing.T) {
	shapes := defaultShapes()
	shapes.RockRadius = config.Range{Min: 0, Max: 0}
	shapes.CharacterVariantChance = 0

	_, err := Generate(kind.Boulder, newRNG(3), shapes)
	if !errors.Is(err, ErrDegenerateMesh) {
		t.Fatalf("expected ErrDegenerateMesh, got %v", err)
	}
}

func TestGenerateIsDeterministicPerSeed(t *testing.T) {
	shapes := defaultShapes()
	for _, k := range []kind.Kind{kind.Oak, kind.Palm, kind.CrystalCluster, kind.Flower} {
		a, err := Generate(k, newRNG(42), shapes)
		if err != nil {
			t.Fatalf("%s: %v", k, err)
		}
		b, err := Generate(k, newRNG(42), shapes)
		if err != nil {
			t.Fatalf("%s: %v", k, err)
		}
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("%s: same seed produced different results", k)
		}
		c, err := Generate(k, newRNG(43), shapes)
		if err != nil {
			t.Fatalf("%s: %v", k, err)
		}
		if reflect.DeepEqual(a.Mesh.Positions, c.Mesh.Positions) {
			t.Fatalf("%s: different seeds should differ", k)
		}
	}
}

func TestGenerateConcurrentCallsDoNotInterfere(t *testing.T) {
	shapes := defaultShapes()
	want, err := Generate(kind.Oak, newRNG(7), shapes)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	var wg sync.WaitGroup
	mismatches := make(chan int, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := Generate(kind.Oak, newRNG(7), shapes)
			if err != nil || !reflect.DeepEqual(got, want) {
				mismatches <- i
			}
		}(i)
	}
	wg.Wait()
	close(mismatches)
	for i := range mismatches {
		t.Fatalf("goroutine %d produced a different oak", i)
	}
}

func TestTreesLeanWithinLimit(t *testing.T) {
	shapes := defaultShapes()
	shapes.MaxLean = 0.2

	leaned := 0
	for seed := uint64(0); seed < 40; seed++ {
		for _, k := range kind.OfClass(kind.ClassTree) {
			res, err := Generate(k, newRNG(seed), shapes)
			if err != nil {
				t.Fatalf("%s seed %d: %v", k, seed, err)
			}
			if res.Lean < 0 || res.Lean > shapes.MaxLean {
				t.Fatalf("%s seed %d: lean %f outside [0,%f]", k, seed, res.Lean, shapes.MaxLean)
			}
			if res.Lean > 0 {
				leaned++
			}
			if res.Collision.Shape != ShapeCapsule {
				t.Fatalf("%s: trees should collide as capsules", k)
			}
		}
	}
	if leaned == 0 {
		t.Fatalf("expected at least some trees to lean")
	}

	shapes.MaxLean = 0
	res, err := Generate(kind.Pine, newRNG(1), shapes)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Lean != 0 {
		t.Fatalf("zero max lean should keep trees upright, got %f", res.Lean)
	}
}

func TestBranchSuppressionThinsTrees(t *testing.T) {
	full := defaultShapes()
	full.BranchSuppression = 0
	full.CharacterVariantChance = 0
	thinned := full
	thinned.BranchSuppression = 1

	var fullTris, thinTris int
	for seed := uint64(0); seed < 60; seed++ {
		a, err := Generate(kind.Oak, newRNG(seed), full)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		b, err := Generate(kind.Oak, newRNG(seed), thinned)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		fullTris += a.Mesh.TriangleCount()
		thinTris += b.Mesh.TriangleCount()
	}
	if thinTris >= fullTris {
		t.Fatalf("suppression should remove branches: %d >= %d triangles", thinTris, fullTris)
	}
}

func TestBranchAnglesSuppressionIsOneSided(t *testing.T) {
	shapes := defaultShapes()
	shapes.BranchSuppression = 1
	p := &params{rng: newRNG(9), shape: shapes}

	for i := 0; i < 200; i++ {
		if kept := p.branchAngles(12); len(kept) == 0 {
			t.Fatalf("full suppression should still leave the side opposite the bias")
		}
	}
}

func TestCharacterVariantChance(t *testing.T) {
	always := defaultShapes()
	always.CharacterVariantChance = 1
	never := defaultShapes()
	never.CharacterVariantChance = 0

	for _, info := range kind.All() {
		a, err := Generate(info.Kind, newRNG(5), always)
		if err != nil {
			t.Fatalf("%s: %v", info.Kind, err)
		}
		if a.Variant == "" {
			t.Fatalf("%s: chance 1 should always roll a variant", info.Kind)
		}
		b, err := Generate(info.Kind, newRNG(5), never)
		if err != nil {
			t.Fatalf("%s: %v", info.Kind, err)
		}
		if b.Variant != "" {
			t.Fatalf("%s: chance 0 rolled variant %q", info.Kind, b.Variant)
		}
	}
}

func TestHarvestVariantsYieldMore(t *testing.T) {
	plain := harvestFor(kind.Oak, "")
	ancient := harvestFor(kind.Oak, "ancient")
	if ancient.YieldMin <= plain.YieldMin || ancient.YieldMax <= plain.YieldMax {
		t.Fatalf("variant yield %+v should exceed %+v", ancient, plain)
	}
	if plain.Tool != "axe" || plain.Resource != "wood" {
		t.Fatalf("unexpected oak harvest %+v", plain)
	}
}

func TestGrassBladeIsSharedAndValid(t *testing.T) {
	if GrassBlade() != GrassBlade() {
		t.Fatalf("grass blade should be a single shared mesh")
	}
	if err := GrassBlade().Validate(); err != nil {
		t.Fatalf("grass blade invalid: %v", err)
	}
	for _, c := range GrassBlade().Colors {
		if c != (mgl32.Vec3{1, 1, 1}) {
			t.Fatalf("blade colour should be neutral white, got %v", c)
		}
	}
}
