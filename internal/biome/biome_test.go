package biome

import (
	"math/rand/v2"
	"testing"

	"worldpop/internal/config"
)

func testClassifier() *Classifier {
	return NewClassifier(config.Default().Biome)
}

func TestClassifyDecisionLadder(t *testing.T) {
	c := testClassifier()
	far := 1000.0

	tests := []struct {
		name string
		in   Input
		want Biome
	}{
		{"deep water", Input{Base: -0.8, Temperature: 0.5, Moisture: 0.5, DistanceFromOrigin: far}, Ocean},
		{"shallow shore", Input{Base: -0.3, Temperature: 0.5, Moisture: 0.5, DistanceFromOrigin: far}, Beach},
		{"cold peak", Input{Base: 0.7, Temperature: 0.1, Moisture: 0.5, DistanceFromOrigin: far}, Snow},
		{"warm peak", Input{Base: 0.7, Temperature: 0.5, Moisture: 0.5, DistanceFromOrigin: far}, Mountain},
		{"hot and dry", Input{Base: 0.1, Temperature: 0.8, Moisture: 0.2, DistanceFromOrigin: far}, Desert},
		{"hot but wet", Input{Base: 0.1, Temperature: 0.8, Moisture: 0.7, DistanceFromOrigin: far}, Forest},
		{"wet", Input{Base: 0.1, Temperature: 0.5, Moisture: 0.7, DistanceFromOrigin: far}, Forest},
		{"temperate", Input{Base: 0.1, Temperature: 0.5, Moisture: 0.5, DistanceFromOrigin: far}, Grassland},
		{"beach threshold is exclusive", Input{Base: -0.25, Temperature: 0.5, Moisture: 0.5, DistanceFromOrigin: far}, Grassland},
		{"mountain threshold is exclusive", Input{Base: 0.45, Temperature: 0.1, Moisture: 0.5, DistanceFromOrigin: far}, Grassland},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.in); got != tt.want {
				t.Fatalf("Classify(%+v) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestClassifySafeRadiusForcesGrassland(t *testing.T) {
	c := testClassifier()
	rng := rand.New(rand.NewPCG(3, 0))
	for i := 0; i < 500; i++ {
		x := rng.Float64()*60 - 30
		z := rng.Float64()*60 - 30
		in := Input{
			X:                  x,
			Z:                  z,
			Base:               rng.Float64()*2 - 1,
			Temperature:        rng.Float64(),
			Moisture:           rng.Float64(),
			DistanceFromOrigin: Distance(x, z),
		}
		if in.DistanceFromOrigin >= c.SafeRadius() {
			continue
		}
		if got := c.Classify(in); got != Grassland {
			t.Fatalf("position inside safe radius classified as %s: %+v", got, in)
		}
	}
}

func TestClassifyIsPureAndTotal(t *testing.T) {
	c := testClassifier()
	rng := rand.New(rand.NewPCG(11, 0))
	for i := 0; i < 2000; i++ {
		in := Input{
			Base:               rng.Float64()*2 - 1,
			Temperature:        rng.Float64(),
			Moisture:           rng.Float64(),
			DistanceFromOrigin: rng.Float64() * 500,
		}
		first := c.Classify(in)
		second := c.Classify(in)
		if first != second {
			t.Fatalf("classification changed between calls: %s vs %s", first, second)
		}
		if !first.Valid() {
			t.Fatalf("unknown biome %q for %+v", first, in)
		}
	}
}

func TestAllIsACopy(t *testing.T) {
	list := All()
	list[0] = "lava"
	if All()[0] != Ocean {
		t.Fatalf("All must not expose the package slice")
	}
	if Biome("lava").Valid() {
		t.Fatalf("lava should not be a valid biome")
	}
}
