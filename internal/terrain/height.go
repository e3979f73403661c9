package terrain

import (
	"errors"
	"fmt"
	"math"

	"worldpop/internal/biome"
	"worldpop/internal/config"
)

// ErrOutOfBounds is returned for queries outside the generated terrain.
var ErrOutOfBounds = errors.New("terrain: position outside world extent")

// HeightField turns the base noise sample into a surface height. It is the
// reference height provider; games with their own terrain swap it out.
type HeightField struct {
	cfg config.TerrainConfig
}

func NewHeightField(cfg config.TerrainConfig) *HeightField {
	return &HeightField{cfg: cfg}
}

// HeightAt returns SeaLevel + base*Amplitude plus the biome offset. A
// positive Extent bounds the world to |x|,|z| <= Extent.
func (h *HeightField) HeightAt(x, z, base float64, b biome.Biome) (float64, error) {
	if math.IsNaN(x) || math.IsNaN(z) || math.IsNaN(base) {
		return 0, fmt.Errorf("%w: non-finite query (%v,%v)", ErrOutOfBounds, x, z)
	}
	if h.cfg.Extent > 0 && (math.Abs(x) > h.cfg.Extent || math.Abs(z) > h.cfg.Extent) {
		return 0, fmt.Errorf("%w: (%.1f,%.1f) beyond %.1f", ErrOutOfBounds, x, z, h.cfg.Extent)
	}
	return h.cfg.SeaLevel + base*h.cfg.Amplitude + h.cfg.BiomeOffsets[string(b)], nil
}
