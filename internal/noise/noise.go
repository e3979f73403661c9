package noise

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"

	"worldpop/internal/config"
)

// Sampler returns a deterministic value in [-1, 1] for a 2D coordinate.
type Sampler interface {
	Sample(x, z float64) float64
}

// NewSampler builds the single-octave sampler named by algorithm.
func NewSampler(algorithm string, seed int64) (Sampler, error) {
	switch algorithm {
	case "value":
		return valueSampler{seed: seed}, nil
	case "simplex":
		return simplexSampler{noise: opensimplex.New(seed)}, nil
	case "perlin":
		return perlinSampler{noise: perlin.NewPerlin(perlinAlpha, perlinBeta, 1, seed)}, nil
	default:
		return nil, fmt.Errorf("unknown noise algorithm %q", algorithm)
	}
}

// valueSampler is hashed lattice noise with smoothstep interpolation.
type valueSampler struct {
	seed int64
}

func (s valueSampler) Sample(x, z float64) float64 {
	x0 := int(math.Floor(x))
	z0 := int(math.Floor(z))
	x1 := x0 + 1
	z1 := z0 + 1

	sx := smooth(x - float64(x0))
	sz := smooth(z - float64(z0))

	n0 := random2D(x0, z0, s.seed)
	n1 := random2D(x1, z0, s.seed)
	ix0 := lerp(n0, n1, sx)

	n2 := random2D(x0, z1, s.seed)
	n3 := random2D(x1, z1, s.seed)
	ix1 := lerp(n2, n3, sx)

	return lerp(ix0, ix1, sz)
}

type simplexSampler struct {
	noise opensimplex.Noise
}

func (s simplexSampler) Sample(x, z float64) float64 {
	return clampUnit(s.noise.Eval2(x, z))
}

const (
	perlinAlpha = 2.0
	perlinBeta  = 2.0
	// A single go-perlin octave peaks near 0.7; rescale so fields use the
	// full range the classifier thresholds are tuned for.
	perlinGain = 1.4
)

type perlinSampler struct {
	noise *perlin.Perlin
}

func (s perlinSampler) Sample(x, z float64) float64 {
	return clampUnit(s.noise.Noise2D(x, z) * perlinGain)
}

// Fractal sums octaves of a sampler and normalises by total amplitude.
type Fractal struct {
	sampler     Sampler
	frequency   float64
	octaves     int
	persistence float64
	lacunarity  float64
}

// NewFractal wraps sampler using the octave settings of cfg.
func NewFractal(sampler Sampler, cfg config.FieldConfig) *Fractal {
	return &Fractal{
		sampler:     sampler,
		frequency:   cfg.Frequency,
		octaves:     cfg.Octaves,
		persistence: cfg.Persistence,
		lacunarity:  cfg.Lacunarity,
	}
}

// Sample returns the fractal value at (x, z) in [-1, 1].
func (f *Fractal) Sample(x, z float64) float64 {
	frequency := f.frequency
	amplitude := 1.0
	noiseSum := 0.0
	maxAmplitude := 0.0

	for i := 0; i < f.octaves; i++ {
		noiseSum += f.sampler.Sample(x*frequency, z*frequency) * amplitude
		maxAmplitude += amplitude
		amplitude *= f.persistence
		frequency *= f.lacunarity
	}

	if maxAmplitude == 0 {
		return 0
	}
	return clampUnit(noiseSum / maxAmplitude)
}

func smooth(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func random2D(x, z int, seed int64) float64 {
	return float64(hash3(x, z, int(seed))&0xFFFF)/0x8000 - 1.0
}

func hash3(x, y, z int) uint32 {
	h := uint32(x*374761393 + y*668265263 + z*2147483647)
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}

func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
