package noise

import (
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"worldpop/internal/config"
)

func TestNewSamplerRejectsUnknownAlgorithm(t *testing.T) {
	if _, err := NewSampler("worley", 1); err == nil {
		t.Fatalf("expected an error for an unknown algorithm")
	}
}

func TestSamplersStayInRangeAndAreDeterministic(t *testing.T) {
	for _, algorithm := range []string{"value", "simplex", "perlin"} {
		t.Run(algorithm, func(t *testing.T) {
			a, err := NewSampler(algorithm, 424242)
			if err != nil {
				t.Fatalf("new sampler: %v", err)
			}
			b, err := NewSampler(algorithm, 424242)
			if err != nil {
				t.Fatalf("new sampler: %v", err)
			}

			rng := rand.New(rand.NewPCG(1337, 0))
			for i := 0; i < 1000; i++ {
				x := rng.Float64()*2000 - 1000
				z := rng.Float64()*2000 - 1000
				va := a.Sample(x, z)
				vb := b.Sample(x, z)
				if va != vb {
					t.Fatalf("sample %d (%f,%f): mismatch %f vs %f", i, x, z, va, vb)
				}
				if va < -1 || va > 1 || math.IsNaN(va) {
					t.Fatalf("sample %d (%f,%f): %f out of range", i, x, z, va)
				}
			}
		})
	}
}

func TestValueSamplerMatchesLatticeAtIntegerPoints(t *testing.T) {
	s := valueSampler{seed: 7}
	for x := -3; x <= 3; x++ {
		for z := -3; z <= 3; z++ {
			got := s.Sample(float64(x), float64(z))
			want := random2D(x, z, 7)
			if got != want {
				t.Fatalf("lattice (%d,%d): got %f want %f", x, z, got, want)
			}
		}
	}
}

func TestFractalWithZeroOctavesIsFlat(t *testing.T) {
	f := NewFractal(valueSampler{seed: 1}, config.FieldConfig{Frequency: 1, Octaves: 0})
	if v := f.Sample(12.5, -3.25); v != 0 {
		t.Fatalf("expected 0, got %f", v)
	}
}

func TestFieldsRangesAndDistinctOffsets(t *testing.T) {
	cfg := config.Default().Noise
	fields, err := NewFields(cfg, 99)
	if err != nil {
		t.Fatalf("new fields: %v", err)
	}

	differs := false
	for i := 0; i < 200; i++ {
		x := float64(i)*37.3 - 3000
		z := float64(i)*-11.9 + 500
		s := fields.Sample(x, z)
		if s.Base < -1 || s.Base > 1 {
			t.Fatalf("base %f out of range", s.Base)
		}
		for name, v := range map[string]float64{"temperature": s.Temperature, "moisture": s.Moisture, "cluster": s.Cluster} {
			if v < 0 || v > 1 {
				t.Fatalf("%s %f out of range", name, v)
			}
		}
		if s.Temperature != s.Moisture {
			differs = true
		}
		if fields.Base(x, z) != s.Base || fields.Cluster(x, z) != s.Cluster {
			t.Fatalf("single-field accessors disagree with Sample at (%f,%f)", x, z)
		}
	}
	if !differs {
		t.Fatalf("temperature and moisture should not be the same field")
	}
}

func TestFieldsRejectUnknownAlgorithm(t *testing.T) {
	cfg := config.Default().Noise
	cfg.Moisture.Algorithm = "cellular"
	if _, err := NewFields(cfg, 1); err == nil {
		t.Fatalf("expected an error")
	}
}

func TestFieldsSafeForConcurrentUse(t *testing.T) {
	fields, err := NewFields(config.Default().Noise, 5)
	if err != nil {
		t.Fatalf("new fields: %v", err)
	}
	want := fields.Sample(123.4, -56.7)

	var wg sync.WaitGroup
	errs := make(chan Sample, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				if got := fields.Sample(123.4, -56.7); got != want {
					errs <- got
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for got := range errs {
		t.Fatalf("concurrent sample mismatch: %+v vs %+v", got, want)
	}
}
