package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// Duration is a config-friendly wrapper around time.Duration that accepts human
// readable strings such as "150ms" in JSON, YAML and TOML files while still
// allowing numeric nanosecond values in JSON.
type Duration time.Duration

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// MarshalJSON encodes the duration using the canonical string representation.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON decodes a duration from either a string (e.g. "250ms") or a
// numeric value representing nanoseconds. Empty strings and null values decode
// to zero.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("duration: empty value")
	}
	if string(b) == "null" {
		*d = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("duration: decode string: %w", err)
		}
		return d.UnmarshalText([]byte(s))
	}
	var n int64
	if err := json.Unmarshal(b, &n); err == nil {
		*d = Duration(time.Duration(n))
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*d = Duration(time.Duration(f))
		return nil
	}
	return fmt.Errorf("duration: invalid value %s", string(b))
}

// MarshalText lets YAML and TOML encoders write the string form.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText parses strings such as "33ms".
func (d *Duration) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration: parse %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config captures every tunable of the population core. It is loaded once and
// treated as read-only by everything downstream.
type Config struct {
	World      WorldConfig      `json:"world" yaml:"world" toml:"world"`
	Noise      NoiseConfig      `json:"noise" yaml:"noise" toml:"noise"`
	Biome      BiomeConfig      `json:"biome" yaml:"biome" toml:"biome"`
	Terrain    TerrainConfig    `json:"terrain" yaml:"terrain" toml:"terrain"`
	Spawn      SpawnConfig      `json:"spawn" yaml:"spawn" toml:"spawn"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation" toml:"simulation"`
	Logging    LoggingConfig    `json:"logging" yaml:"logging" toml:"logging"`
	Preview    PreviewConfig    `json:"preview" yaml:"preview" toml:"preview"`
}

type WorldConfig struct {
	Seed       int64   `json:"seed" yaml:"seed" toml:"seed"`
	ChunkSize  float64 `json:"chunkSize" yaml:"chunkSize" toml:"chunkSize"`    // world units per chunk edge
	LoadRadius int     `json:"loadRadius" yaml:"loadRadius" toml:"loadRadius"` // in chunks
	Workers    int     `json:"workers" yaml:"workers" toml:"workers"`          // plan builders, 0 = GOMAXPROCS
	MaxPerTick int     `json:"maxPerTick" yaml:"maxPerTick" toml:"maxPerTick"` // chunks populated per update, 0 = unlimited
}

// FieldConfig describes one fractal noise field.
type FieldConfig struct {
	Algorithm   string  `json:"algorithm" yaml:"algorithm" toml:"algorithm"` // value, simplex or perlin
	Frequency   float64 `json:"frequency" yaml:"frequency" toml:"frequency"`
	Octaves     int     `json:"octaves" yaml:"octaves" toml:"octaves"`
	Persistence float64 `json:"persistence" yaml:"persistence" toml:"persistence"`
	Lacunarity  float64 `json:"lacunarity" yaml:"lacunarity" toml:"lacunarity"`
	SeedOffset  int64   `json:"seedOffset" yaml:"seedOffset" toml:"seedOffset"`
}

type NoiseConfig struct {
	Base        FieldConfig `json:"base" yaml:"base" toml:"base"`
	Temperature FieldConfig `json:"temperature" yaml:"temperature" toml:"temperature"`
	Moisture    FieldConfig `json:"moisture" yaml:"moisture" toml:"moisture"`
	Cluster     FieldConfig `json:"cluster" yaml:"cluster" toml:"cluster"`
}

type BiomeConfig struct {
	SpawnSafeRadius   float64 `json:"spawnSafeRadius" yaml:"spawnSafeRadius" toml:"spawnSafeRadius"`
	OceanThreshold    float64 `json:"oceanThreshold" yaml:"oceanThreshold" toml:"oceanThreshold"`
	BeachThreshold    float64 `json:"beachThreshold" yaml:"beachThreshold" toml:"beachThreshold"`
	MountainThreshold float64 `json:"mountainThreshold" yaml:"mountainThreshold" toml:"mountainThreshold"`
	ColdThreshold     float64 `json:"coldThreshold" yaml:"coldThreshold" toml:"coldThreshold"`
	HotThreshold      float64 `json:"hotThreshold" yaml:"hotThreshold" toml:"hotThreshold"`
	DryThreshold      float64 `json:"dryThreshold" yaml:"dryThreshold" toml:"dryThreshold"`
	WetThreshold      float64 `json:"wetThreshold" yaml:"wetThreshold" toml:"wetThreshold"`
}

type TerrainConfig struct {
	SeaLevel     float64            `json:"seaLevel" yaml:"seaLevel" toml:"seaLevel"`
	Amplitude    float64            `json:"amplitude" yaml:"amplitude" toml:"amplitude"`
	Extent       float64            `json:"extent" yaml:"extent" toml:"extent"` // 0 = unbounded
	BiomeOffsets map[string]float64 `json:"biomeOffsets" yaml:"biomeOffsets" toml:"biomeOffsets"`
}

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min float64 `json:"min" yaml:"min" toml:"min"`
	Max float64 `json:"max" yaml:"max" toml:"max"`
}

// Lerp maps t in [0,1] onto the range.
func (r Range) Lerp(t float64) float64 {
	return r.Min + (r.Max-r.Min)*t
}

// Contains reports whether v lies in the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// BiomeMultiplier scales the base densities for one biome.
type BiomeMultiplier struct {
	Tree       float64 `json:"tree" yaml:"tree" toml:"tree"`
	Resource   float64 `json:"resource" yaml:"resource" toml:"resource"`
	Decoration float64 `json:"decoration" yaml:"decoration" toml:"decoration"`
	Grass      float64 `json:"grass" yaml:"grass" toml:"grass"`
	Flower     float64 `json:"flower" yaml:"flower" toml:"flower"`
	Rock       float64 `json:"rock" yaml:"rock" toml:"rock"`
	Shrub      float64 `json:"shrub" yaml:"shrub" toml:"shrub"`
}

// ShapeConfig holds the size ranges read by the geometry generators.
type ShapeConfig struct {
	TreeHeight             Range   `json:"treeHeight" yaml:"treeHeight" toml:"treeHeight"`
	TrunkRadius            Range   `json:"trunkRadius" yaml:"trunkRadius" toml:"trunkRadius"`
	CanopyRadius           Range   `json:"canopyRadius" yaml:"canopyRadius" toml:"canopyRadius"`
	RockRadius             Range   `json:"rockRadius" yaml:"rockRadius" toml:"rockRadius"`
	BushRadius             Range   `json:"bushRadius" yaml:"bushRadius" toml:"bushRadius"`
	CactusHeight           Range   `json:"cactusHeight" yaml:"cactusHeight" toml:"cactusHeight"`
	DecorationScale        Range   `json:"decorationScale" yaml:"decorationScale" toml:"decorationScale"`
	CoverScale             Range   `json:"coverScale" yaml:"coverScale" toml:"coverScale"`
	MaxLean                float64 `json:"maxLean" yaml:"maxLean" toml:"maxLean"` // radians
	BranchSuppression      float64 `json:"branchSuppression" yaml:"branchSuppression" toml:"branchSuppression"`
	ColorJitter            float64 `json:"colorJitter" yaml:"colorJitter" toml:"colorJitter"`
	CharacterVariantChance float64 `json:"characterVariantChance" yaml:"characterVariantChance" toml:"characterVariantChance"`
	SegmentsMin            int     `json:"segmentsMin" yaml:"segmentsMin" toml:"segmentsMin"`
	SegmentsMax            int     `json:"segmentsMax" yaml:"segmentsMax" toml:"segmentsMax"`
}

// GroundCoverConfig drives the instanced blade fan-out.
type GroundCoverConfig struct {
	BladesMin     int     `json:"bladesMin" yaml:"bladesMin" toml:"bladesMin"`
	BladesMax     int     `json:"bladesMax" yaml:"bladesMax" toml:"bladesMax"`
	DenseExtra    int     `json:"denseExtra" yaml:"denseExtra" toml:"denseExtra"`
	ScatterRadius float64 `json:"scatterRadius" yaml:"scatterRadius" toml:"scatterRadius"`
	MaxLean       float64 `json:"maxLean" yaml:"maxLean" toml:"maxLean"`
	ScaleJitter   float64 `json:"scaleJitter" yaml:"scaleJitter" toml:"scaleJitter"`
	ColorJitter   float64 `json:"colorJitter" yaml:"colorJitter" toml:"colorJitter"`
}

type SpawnConfig struct {
	LargeSamples      int                        `json:"largeSamples" yaml:"largeSamples" toml:"largeSamples"`
	GroundSamples     int                        `json:"groundSamples" yaml:"groundSamples" toml:"groundSamples"`
	MinHeight         float64                    `json:"minHeight" yaml:"minHeight" toml:"minHeight"`
	SpawnClearRadius  float64                    `json:"spawnClearRadius" yaml:"spawnClearRadius" toml:"spawnClearRadius"`
	TreeDensity       float64                    `json:"treeDensity" yaml:"treeDensity" toml:"treeDensity"`
	ResourceDensity   float64                    `json:"resourceDensity" yaml:"resourceDensity" toml:"resourceDensity"`
	DecorationDensity float64                    `json:"decorationDensity" yaml:"decorationDensity" toml:"decorationDensity"`
	GrassDensity      float64                    `json:"grassDensity" yaml:"grassDensity" toml:"grassDensity"`
	FlowerDensity     float64                    `json:"flowerDensity" yaml:"flowerDensity" toml:"flowerDensity"`
	RockDensity       float64                    `json:"rockDensity" yaml:"rockDensity" toml:"rockDensity"`
	ShrubDensity      float64                    `json:"shrubDensity" yaml:"shrubDensity" toml:"shrubDensity"`
	DenseMargin       float64                    `json:"denseMargin" yaml:"denseMargin" toml:"denseMargin"`
	ClusterThresholds map[string]float64         `json:"clusterThresholds" yaml:"clusterThresholds" toml:"clusterThresholds"`
	BiomeMultipliers  map[string]BiomeMultiplier `json:"biomeMultipliers" yaml:"biomeMultipliers" toml:"biomeMultipliers"`
	Shapes            ShapeConfig                `json:"shapes" yaml:"shapes" toml:"shapes"`
	GroundCover       GroundCoverConfig          `json:"groundCover" yaml:"groundCover" toml:"groundCover"`
}

type SimulationConfig struct {
	TickRate      Duration `json:"tickRate" yaml:"tickRate" toml:"tickRate"`
	ObserverSpeed float64  `json:"observerSpeed" yaml:"observerSpeed" toml:"observerSpeed"` // world units per tick
}

type LoggingConfig struct {
	Level  string `json:"level" yaml:"level" toml:"level"`
	Format string `json:"format" yaml:"format" toml:"format"` // text or json
}

type PreviewConfig struct {
	Dir        string `json:"dir" yaml:"dir" toml:"dir"`
	PixelsSide int    `json:"pixelsSide" yaml:"pixelsSide" toml:"pixelsSide"`
}

// Load reads configuration from a JSON, YAML or TOML file chosen by extension.
// An empty path returns defaults. Malformed spawn values are clamped and the
// corrections are returned so the caller can log each one once.
func Load(path string) (*Config, []Correction, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read config: %w", err)
	}

	if err := decode(path, data, cfg); err != nil {
		return nil, nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, cfg.Sanitize(), nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		return toml.Unmarshal(data, cfg)
	case ".json", "":
		return json.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config extension %q", filepath.Ext(path))
	}
}

var noiseAlgorithms = map[string]struct{}{
	"value":   {},
	"simplex": {},
	"perlin":  {},
}

var logLevels = map[string]struct{}{
	"":      {},
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// Validate rejects values no clamping can repair.
func (c *Config) Validate() error {
	if c.World.ChunkSize <= 0 {
		return errors.New("world.chunkSize must be positive")
	}
	if c.World.LoadRadius < 0 {
		return errors.New("world.loadRadius cannot be negative")
	}
	if c.World.Workers < 0 {
		return errors.New("world.workers cannot be negative")
	}
	fields := []struct {
		name  string
		field FieldConfig
	}{
		{"noise.base", c.Noise.Base},
		{"noise.temperature", c.Noise.Temperature},
		{"noise.moisture", c.Noise.Moisture},
		{"noise.cluster", c.Noise.Cluster},
	}
	for _, f := range fields {
		if _, ok := noiseAlgorithms[f.field.Algorithm]; !ok {
			return fmt.Errorf("%s.algorithm %q is not one of value, simplex, perlin", f.name, f.field.Algorithm)
		}
		if f.field.Octaves <= 0 {
			return fmt.Errorf("%s.octaves must be positive", f.name)
		}
		if f.field.Frequency <= 0 {
			return fmt.Errorf("%s.frequency must be positive", f.name)
		}
	}
	if c.Biome.OceanThreshold > c.Biome.BeachThreshold {
		return errors.New("biome.oceanThreshold must be <= beachThreshold")
	}
	if c.Biome.BeachThreshold > c.Biome.MountainThreshold {
		return errors.New("biome.beachThreshold must be <= mountainThreshold")
	}
	if _, ok := logLevels[strings.ToLower(c.Logging.Level)]; !ok {
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	if c.Simulation.TickRate < 0 {
		return errors.New("simulation.tickRate cannot be negative")
	}
	return nil
}
