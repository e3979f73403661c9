package spawn

import (
	"worldpop/internal/biome"
	"worldpop/internal/kind"
)

// Per-biome kind lists for each slot. A biome missing from a list has an
// empty slot: its range still consumes draws but spawns nothing.

var largeTrees = map[biome.Biome][]kind.Kind{
	biome.Beach:     {kind.Palm},
	biome.Grassland: {kind.Oak, kind.Birch},
	biome.Forest:    {kind.Oak, kind.Birch, kind.Pine},
	biome.Desert:    {kind.Cactus, kind.DeadTree},
	biome.Mountain:  {kind.Pine, kind.DeadTree},
	biome.Snow:      {kind.SnowPine},
}

var largeResources = map[biome.Biome][]kind.Kind{
	biome.Beach:     {kind.Boulder},
	biome.Grassland: {kind.Boulder, kind.BerryBush},
	biome.Forest:    {kind.BerryBush, kind.Boulder},
	biome.Desert:    {kind.Boulder, kind.OreNode},
	biome.Mountain:  {kind.OreNode, kind.Boulder, kind.CrystalCluster},
	biome.Snow:      {kind.CrystalCluster, kind.Boulder},
}

var largeDecorations = map[biome.Biome][]kind.Kind{
	biome.Ocean:     {kind.Driftwood},
	biome.Beach:     {kind.Driftwood, kind.Bones},
	biome.Grassland: {kind.Stump, kind.FallenLog},
	biome.Forest:    {kind.GiantMushroom, kind.FallenLog, kind.Stump},
	biome.Desert:    {kind.Bones},
	biome.Mountain:  {kind.FallenLog, kind.Bones},
	biome.Snow:      {kind.IceSpike},
}

var coverGrass = map[biome.Biome][]kind.Kind{
	biome.Beach:     {kind.Grass},
	biome.Grassland: {kind.Grass},
	biome.Forest:    {kind.Grass},
	biome.Desert:    {kind.DeadBush},
	biome.Mountain:  {kind.Grass},
	biome.Snow:      {kind.SnowTuft},
}

var coverFlowers = map[biome.Biome][]kind.Kind{
	biome.Grassland: {kind.Flower},
	biome.Forest:    {kind.Flower, kind.Mushroom},
	biome.Mountain:  {kind.Flower},
}

var coverRocks = map[biome.Biome][]kind.Kind{
	biome.Ocean:     {kind.Pebble},
	biome.Beach:     {kind.Pebble},
	biome.Grassland: {kind.Pebble},
	biome.Forest:    {kind.Pebble},
	biome.Desert:    {kind.Pebble},
	biome.Mountain:  {kind.Pebble},
	biome.Snow:      {kind.Pebble},
}

var coverShrubs = map[biome.Biome][]kind.Kind{
	biome.Ocean:     {kind.Reed},
	biome.Beach:     {kind.Reed},
	biome.Grassland: {kind.Fern},
	biome.Forest:    {kind.Fern, kind.Mushroom},
	biome.Desert:    {kind.DeadBush},
	biome.Mountain:  {kind.Fern},
	biome.Snow:      {kind.SnowTuft},
}
