package config

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
)

// Correction records one clamped configuration value.
type Correction struct {
	Field       string
	Value       string
	Replacement string
}

func (c Correction) String() string {
	return fmt.Sprintf("%s: %s replaced with %s", c.Field, c.Value, c.Replacement)
}

// Clamp bounds v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type sanitizer struct {
	corrections []Correction
}

func (s *sanitizer) note(field string, value, replacement any) {
	s.corrections = append(s.corrections, Correction{
		Field:       field,
		Value:       fmt.Sprint(value),
		Replacement: fmt.Sprint(replacement),
	})
}

func (s *sanitizer) nonNegative(field string, v *float64) {
	if *v < 0 || math.IsNaN(*v) {
		s.note(field, *v, 0)
		*v = 0
	}
}

func (s *sanitizer) unit(field string, v *float64) {
	s.between(field, v, 0, 1)
}

// between clamps v to [lo, hi]. NaN compares false against both bounds, so
// it is replaced with lo.
func (s *sanitizer) between(field string, v *float64, lo, hi float64) {
	c := lo
	if !math.IsNaN(*v) {
		c = Clamp(*v, lo, hi)
	}
	if c != *v || math.IsNaN(*v) {
		s.note(field, *v, c)
		*v = c
	}
}

func (s *sanitizer) count(field string, v *int) {
	if *v < 0 {
		s.note(field, *v, 0)
		*v = 0
	}
}

func (s *sanitizer) rng(field string, r *Range, fallback Range) {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || r.Min < 0 || r.Max < r.Min {
		s.note(field, fmt.Sprintf("[%g,%g]", r.Min, r.Max), fmt.Sprintf("[%g,%g]", fallback.Min, fallback.Max))
		*r = fallback
	}
}

// Sanitize clamps malformed spawn values to safe defaults in place and returns
// the corrections it made. Map entries are visited in key order so repeated
// loads report the same list.
func (c *Config) Sanitize() []Correction {
	s := &sanitizer{}
	sp := &c.Spawn

	s.count("spawn.largeSamples", &sp.LargeSamples)
	s.count("spawn.groundSamples", &sp.GroundSamples)
	s.nonNegative("spawn.treeDensity", &sp.TreeDensity)
	s.nonNegative("spawn.resourceDensity", &sp.ResourceDensity)
	s.nonNegative("spawn.decorationDensity", &sp.DecorationDensity)
	s.nonNegative("spawn.grassDensity", &sp.GrassDensity)
	s.nonNegative("spawn.flowerDensity", &sp.FlowerDensity)
	s.nonNegative("spawn.rockDensity", &sp.RockDensity)
	s.nonNegative("spawn.shrubDensity", &sp.ShrubDensity)
	s.nonNegative("spawn.denseMargin", &sp.DenseMargin)
	s.nonNegative("spawn.spawnClearRadius", &sp.SpawnClearRadius)

	for _, name := range sortedKeys(sp.ClusterThresholds) {
		v := sp.ClusterThresholds[name]
		s.unit("spawn.clusterThresholds."+name, &v)
		sp.ClusterThresholds[name] = v
	}
	for _, name := range sortedKeys(sp.BiomeMultipliers) {
		m := sp.BiomeMultipliers[name]
		prefix := "spawn.biomeMultipliers." + name
		s.nonNegative(prefix+".tree", &m.Tree)
		s.nonNegative(prefix+".resource", &m.Resource)
		s.nonNegative(prefix+".decoration", &m.Decoration)
		s.nonNegative(prefix+".grass", &m.Grass)
		s.nonNegative(prefix+".flower", &m.Flower)
		s.nonNegative(prefix+".rock", &m.Rock)
		s.nonNegative(prefix+".shrub", &m.Shrub)
		sp.BiomeMultipliers[name] = m
	}

	shapes := &sp.Shapes
	def := defaultShapes()
	s.rng("spawn.shapes.treeHeight", &shapes.TreeHeight, def.TreeHeight)
	s.rng("spawn.shapes.trunkRadius", &shapes.TrunkRadius, def.TrunkRadius)
	s.rng("spawn.shapes.canopyRadius", &shapes.CanopyRadius, def.CanopyRadius)
	s.rng("spawn.shapes.rockRadius", &shapes.RockRadius, def.RockRadius)
	s.rng("spawn.shapes.bushRadius", &shapes.BushRadius, def.BushRadius)
	s.rng("spawn.shapes.cactusHeight", &shapes.CactusHeight, def.CactusHeight)
	s.rng("spawn.shapes.decorationScale", &shapes.DecorationScale, def.DecorationScale)
	s.rng("spawn.shapes.coverScale", &shapes.CoverScale, def.CoverScale)
	s.between("spawn.shapes.maxLean", &shapes.MaxLean, 0, 0.5)
	s.unit("spawn.shapes.branchSuppression", &shapes.BranchSuppression)
	s.between("spawn.shapes.colorJitter", &shapes.ColorJitter, 0, 0.5)
	s.unit("spawn.shapes.characterVariantChance", &shapes.CharacterVariantChance)
	if shapes.SegmentsMin < 3 || shapes.SegmentsMax < shapes.SegmentsMin {
		s.note("spawn.shapes.segments",
			fmt.Sprintf("[%d,%d]", shapes.SegmentsMin, shapes.SegmentsMax),
			fmt.Sprintf("[%d,%d]", def.SegmentsMin, def.SegmentsMax))
		shapes.SegmentsMin = def.SegmentsMin
		shapes.SegmentsMax = def.SegmentsMax
	}

	gc := &sp.GroundCover
	defGC := defaultGroundCover()
	if gc.BladesMin < 1 || gc.BladesMax < gc.BladesMin {
		s.note("spawn.groundCover.blades",
			fmt.Sprintf("[%d,%d]", gc.BladesMin, gc.BladesMax),
			fmt.Sprintf("[%d,%d]", defGC.BladesMin, defGC.BladesMax))
		gc.BladesMin = defGC.BladesMin
		gc.BladesMax = defGC.BladesMax
	}
	if gc.DenseExtra < 0 {
		s.note("spawn.groundCover.denseExtra", gc.DenseExtra, 0)
		gc.DenseExtra = 0
	}
	s.nonNegative("spawn.groundCover.scatterRadius", &gc.ScatterRadius)
	s.between("spawn.groundCover.maxLean", &gc.MaxLean, 0, 0.8)
	s.between("spawn.groundCover.scaleJitter", &gc.ScaleJitter, 0, 0.9)
	s.between("spawn.groundCover.colorJitter", &gc.ColorJitter, 0, 0.5)

	return s.corrections
}

// Clone returns a deep copy of c, so the copy can be sanitized without
// touching the caller's maps.
func (c *Config) Clone() *Config {
	out := *c
	out.Spawn.ClusterThresholds = maps.Clone(c.Spawn.ClusterThresholds)
	out.Spawn.BiomeMultipliers = maps.Clone(c.Spawn.BiomeMultipliers)
	out.Terrain.BiomeOffsets = maps.Clone(c.Terrain.BiomeOffsets)
	return &out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
