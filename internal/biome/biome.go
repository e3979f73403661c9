package biome

import (
	"math"

	"worldpop/internal/config"
)

// Biome is the climate/terrain category of a world position.
type Biome string

const (
	Ocean     Biome = "ocean"
	Beach     Biome = "beach"
	Grassland Biome = "grassland"
	Forest    Biome = "forest"
	Desert    Biome = "desert"
	Mountain  Biome = "mountain"
	Snow      Biome = "snow"
)

var all = []Biome{Ocean, Beach, Grassland, Forest, Desert, Mountain, Snow}

// All returns every biome in a stable order.
func All() []Biome {
	out := make([]Biome, len(all))
	copy(out, all)
	return out
}

// Valid reports whether b is one of the known biomes.
func (b Biome) Valid() bool {
	for _, known := range all {
		if b == known {
			return true
		}
	}
	return false
}

// Input is everything classification reads. Base is in [-1, 1]; Temperature
// and Moisture are in [0, 1].
type Input struct {
	X, Z               float64
	Base               float64
	Temperature        float64
	Moisture           float64
	DistanceFromOrigin float64
}

// Classifier maps noise samples to biomes. It has no state beyond its
// thresholds and is safe for concurrent use.
type Classifier struct {
	cfg config.BiomeConfig
}

func NewClassifier(cfg config.BiomeConfig) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify returns the single biome for in. Positions inside the safe spawn
// radius are always Grassland.
func (c *Classifier) Classify(in Input) Biome {
	if in.DistanceFromOrigin < c.cfg.SpawnSafeRadius {
		return Grassland
	}
	switch {
	case in.Base < c.cfg.OceanThreshold:
		return Ocean
	case in.Base < c.cfg.BeachThreshold:
		return Beach
	case in.Base > c.cfg.MountainThreshold:
		if in.Temperature < c.cfg.ColdThreshold {
			return Snow
		}
		return Mountain
	case in.Temperature > c.cfg.HotThreshold && in.Moisture < c.cfg.DryThreshold:
		return Desert
	case in.Moisture > c.cfg.WetThreshold:
		return Forest
	default:
		return Grassland
	}
}

// SafeRadius is the spawn-protection radius around the origin.
func (c *Classifier) SafeRadius() float64 {
	return c.cfg.SpawnSafeRadius
}

// Distance is the horizontal distance of (x, z) from the world origin.
func Distance(x, z float64) float64 {
	return math.Hypot(x, z)
}
