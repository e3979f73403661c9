package config

import "time"

func Default() *Config {
	return &Config{
		World: WorldConfig{
			Seed:       1337,
			ChunkSize:  32,
			LoadRadius: 3,
			Workers:    0,
			MaxPerTick: 0,
		},
		Noise: NoiseConfig{
			Base: FieldConfig{
				Algorithm:   "simplex",
				Frequency:   0.004,
				Octaves:     4,
				Persistence: 0.5,
				Lacunarity:  2.0,
				SeedOffset:  0,
			},
			Temperature: FieldConfig{
				Algorithm:   "simplex",
				Frequency:   0.0015,
				Octaves:     2,
				Persistence: 0.5,
				Lacunarity:  2.0,
				SeedOffset:  101,
			},
			Moisture: FieldConfig{
				Algorithm:   "simplex",
				Frequency:   0.002,
				Octaves:     3,
				Persistence: 0.5,
				Lacunarity:  2.0,
				SeedOffset:  202,
			},
			Cluster: FieldConfig{
				Algorithm:   "perlin",
				Frequency:   0.05,
				Octaves:     2,
				Persistence: 0.55,
				Lacunarity:  2.0,
				SeedOffset:  303,
			},
		},
		Biome: BiomeConfig{
			SpawnSafeRadius:   48,
			OceanThreshold:    -0.35,
			BeachThreshold:    -0.25,
			MountainThreshold: 0.45,
			ColdThreshold:     0.35,
			HotThreshold:      0.62,
			DryThreshold:      0.38,
			WetThreshold:      0.58,
		},
		Terrain: TerrainConfig{
			SeaLevel:  0,
			Amplitude: 40,
			Extent:    0,
			BiomeOffsets: map[string]float64{
				"mountain": 12,
				"snow":     18,
			},
		},
		Spawn: defaultSpawn(),
		Simulation: SimulationConfig{
			TickRate:      Duration(50 * time.Millisecond),
			ObserverSpeed: 8,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Preview: PreviewConfig{
			Dir:        "",
			PixelsSide: 256,
		},
	}
}

func defaultSpawn() SpawnConfig {
	return SpawnConfig{
		LargeSamples:      24,
		GroundSamples:     160,
		MinHeight:         -8,
		SpawnClearRadius:  6,
		TreeDensity:       0.35,
		ResourceDensity:   0.12,
		DecorationDensity: 0.04,
		GrassDensity:      0.55,
		FlowerDensity:     0.08,
		RockDensity:       0.06,
		ShrubDensity:      0.07,
		DenseMargin:       0.2,
		ClusterThresholds: map[string]float64{
			"ocean":     0.9,
			"beach":     0.55,
			"grassland": 0.25,
			"forest":    0.3,
			"desert":    0.6,
			"mountain":  0.5,
			"snow":      0.65,
		},
		BiomeMultipliers: map[string]BiomeMultiplier{
			"ocean":     {Tree: 0, Resource: 0, Decoration: 0, Grass: 0, Flower: 0, Rock: 0.2, Shrub: 0},
			"beach":     {Tree: 0.2, Resource: 0.3, Decoration: 1.5, Grass: 0.4, Flower: 0, Rock: 1.2, Shrub: 0.6},
			"grassland": {Tree: 0.35, Resource: 0.8, Decoration: 0.5, Grass: 1.2, Flower: 1.5, Rock: 0.6, Shrub: 0.8},
			"forest":    {Tree: 1.6, Resource: 0.8, Decoration: 1.2, Grass: 0.9, Flower: 0.6, Rock: 0.5, Shrub: 1.6},
			"desert":    {Tree: 0.25, Resource: 0.7, Decoration: 1.0, Grass: 0.2, Flower: 0.1, Rock: 1.4, Shrub: 0.9},
			"mountain":  {Tree: 0.3, Resource: 2.2, Decoration: 0.8, Grass: 0.4, Flower: 0.2, Rock: 2.0, Shrub: 0.4},
			"snow":      {Tree: 0.5, Resource: 1.0, Decoration: 1.0, Grass: 0.3, Flower: 0, Rock: 1.2, Shrub: 0.5},
		},
		Shapes:      defaultShapes(),
		GroundCover: defaultGroundCover(),
	}
}

func defaultShapes() ShapeConfig {
	return ShapeConfig{
		TreeHeight:             Range{Min: 4, Max: 9},
		TrunkRadius:            Range{Min: 0.18, Max: 0.4},
		CanopyRadius:           Range{Min: 1.4, Max: 2.8},
		RockRadius:             Range{Min: 0.5, Max: 1.6},
		BushRadius:             Range{Min: 0.45, Max: 0.9},
		CactusHeight:           Range{Min: 1.5, Max: 3.5},
		DecorationScale:        Range{Min: 0.7, Max: 1.3},
		CoverScale:             Range{Min: 0.6, Max: 1.2},
		MaxLean:                0.12,
		BranchSuppression:      0.6,
		ColorJitter:            0.06,
		CharacterVariantChance: 0.08,
		SegmentsMin:            6,
		SegmentsMax:            10,
	}
}

func defaultGroundCover() GroundCoverConfig {
	return GroundCoverConfig{
		BladesMin:     3,
		BladesMax:     6,
		DenseExtra:    3,
		ScatterRadius: 0.6,
		MaxLean:       0.25,
		ScaleJitter:   0.3,
		ColorJitter:   0.04,
	}
}
