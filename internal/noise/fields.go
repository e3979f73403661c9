package noise

import (
	"fmt"

	"worldpop/internal/config"
)

// Sample carries the four field values at one world position. Base stays in
// [-1, 1]; the climate and cluster fields are remapped to [0, 1].
type Sample struct {
	Base        float64
	Temperature float64
	Moisture    float64
	Cluster     float64
}

// Fields is the set of named noise fields shared by classification, terrain
// and spawn gating. It holds no mutable state after construction.
type Fields struct {
	base        *Fractal
	temperature *Fractal
	moisture    *Fractal
	cluster     *Fractal
}

func NewFields(cfg config.NoiseConfig, seed int64) (*Fields, error) {
	build := func(name string, fc config.FieldConfig) (*Fractal, error) {
		sampler, err := NewSampler(fc.Algorithm, seed+fc.SeedOffset)
		if err != nil {
			return nil, fmt.Errorf("noise field %s: %w", name, err)
		}
		return NewFractal(sampler, fc), nil
	}

	var (
		f   Fields
		err error
	)
	if f.base, err = build("base", cfg.Base); err != nil {
		return nil, err
	}
	if f.temperature, err = build("temperature", cfg.Temperature); err != nil {
		return nil, err
	}
	if f.moisture, err = build("moisture", cfg.Moisture); err != nil {
		return nil, err
	}
	if f.cluster, err = build("cluster", cfg.Cluster); err != nil {
		return nil, err
	}
	return &f, nil
}

// Sample evaluates every field at (x, z).
func (f *Fields) Sample(x, z float64) Sample {
	return Sample{
		Base:        f.base.Sample(x, z),
		Temperature: toUnit(f.temperature.Sample(x, z)),
		Moisture:    toUnit(f.moisture.Sample(x, z)),
		Cluster:     toUnit(f.cluster.Sample(x, z)),
	}
}

// Base evaluates only the height field.
func (f *Fields) Base(x, z float64) float64 {
	return f.base.Sample(x, z)
}

// Cluster evaluates only the cluster field, remapped to [0, 1].
func (f *Fields) Cluster(x, z float64) float64 {
	return toUnit(f.cluster.Sample(x, z))
}

func toUnit(v float64) float64 {
	return (v + 1) * 0.5
}
