package spawn

import (
	"github.com/go-gl/mathgl/mgl64"

	"worldpop/internal/biome"
	"worldpop/internal/config"
	"worldpop/internal/kind"
)

const defaultClusterThreshold = 0.5

// Chances are the per-slot range widths for one biome: base density times
// the biome multiplier. They are not normalised; once their running sum
// passes 1 the later slots can no longer be drawn.
type Chances struct {
	Tree       float64
	Resource   float64
	Decoration float64
	Grass      float64
	Flower     float64
	Rock       float64
	Shrub      float64
}

// GroundCoverResult is the outcome of one ground-cover draw. Kind is empty
// when nothing spawns.
type GroundCoverResult struct {
	Kind    kind.Kind
	Batched bool
	Dense   bool
}

// Table holds the spawn rules. Every query is a pure function of its
// arguments; callers supply the random draw.
type Table struct {
	cfg config.SpawnConfig
}

func NewTable(cfg config.SpawnConfig) *Table {
	return &Table{cfg: cfg}
}

// Config returns the spawn configuration the table was built from.
func (t *Table) Config() config.SpawnConfig {
	return t.cfg
}

func (t *Table) multiplier(b biome.Biome) config.BiomeMultiplier {
	if m, ok := t.cfg.BiomeMultipliers[string(b)]; ok {
		return m
	}
	return config.BiomeMultiplier{Tree: 1, Resource: 1, Decoration: 1, Grass: 1, Flower: 1, Rock: 1, Shrub: 1}
}

// Chances returns the range widths used for biome b.
func (t *Table) Chances(b biome.Biome) Chances {
	m := t.multiplier(b)
	return Chances{
		Tree:       t.cfg.TreeDensity * m.Tree,
		Resource:   t.cfg.ResourceDensity * m.Resource,
		Decoration: t.cfg.DecorationDensity * m.Decoration,
		Grass:      t.cfg.GrassDensity * m.Grass,
		Flower:     t.cfg.FlowerDensity * m.Flower,
		Rock:       t.cfg.RockDensity * m.Rock,
		Shrub:      t.cfg.ShrubDensity * m.Shrub,
	}
}

// ClusterThreshold is the minimum cluster value at which ground cover may
// appear in biome b.
func (t *Table) ClusterThreshold(b biome.Biome) float64 {
	if v, ok := t.cfg.ClusterThresholds[string(b)]; ok {
		return v
	}
	return defaultClusterThreshold
}

// LargeVegetation maps a draw in [0, 1) to a tree, resource or decoration
// kind. Ranges are checked in that order and are half-open, so a draw equal
// to a range's upper edge falls to the next range.
func (t *Table) LargeVegetation(b biome.Biome, pos mgl64.Vec3, draw float64) (kind.Kind, bool) {
	if t.cfg.SpawnClearRadius > 0 && biome.Distance(pos.X(), pos.Z()) < t.cfg.SpawnClearRadius {
		return "", false
	}
	c := t.Chances(b)
	return pick(draw, []slot{
		{width: c.Tree, kinds: largeTrees[b]},
		{width: c.Resource, kinds: largeResources[b]},
		{width: c.Decoration, kinds: largeDecorations[b]},
	})
}

// GroundCover gates on the cluster value first; a value equal to the
// threshold is accepted. Samples at least DenseMargin above the threshold are
// flagged dense.
func (t *Table) GroundCover(b biome.Biome, cluster, draw float64) GroundCoverResult {
	threshold := t.ClusterThreshold(b)
	if cluster < threshold {
		return GroundCoverResult{}
	}
	c := t.Chances(b)
	k, ok := pick(draw, []slot{
		{width: c.Grass, kinds: coverGrass[b]},
		{width: c.Flower, kinds: coverFlowers[b]},
		{width: c.Rock, kinds: coverRocks[b]},
		{width: c.Shrub, kinds: coverShrubs[b]},
	})
	if !ok {
		return GroundCoverResult{}
	}
	return GroundCoverResult{
		Kind:    k,
		Batched: k.Batched(),
		Dense:   cluster >= threshold+t.cfg.DenseMargin,
	}
}

type slot struct {
	width float64
	kinds []kind.Kind
}

// pick walks the cumulative ranges. Inside the winning range the relative
// position of the draw chooses among the slot's kinds, so no extra
// randomness is consumed. Empty ranges can never win.
func pick(draw float64, slots []slot) (kind.Kind, bool) {
	if draw < 0 {
		return "", false
	}
	lower := 0.0
	for _, s := range slots {
		if s.width <= 0 {
			continue
		}
		upper := lower + s.width
		if draw < upper {
			if len(s.kinds) == 0 {
				return "", false
			}
			rel := (draw - lower) / s.width
			idx := int(rel * float64(len(s.kinds)))
			if idx >= len(s.kinds) {
				idx = len(s.kinds) - 1
			}
			return s.kinds[idx], true
		}
		lower = upper
	}
	return "", false
}
