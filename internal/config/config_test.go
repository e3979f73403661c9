package config

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestValidateDefaultConfig(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default configuration should be valid: %v", err)
	}
	if corrections := cfg.Sanitize(); len(corrections) != 0 {
		t.Fatalf("default configuration should need no clamping, got %v", corrections)
	}
}

func TestValidateDetectsInvalidConfigurations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "non positive chunk size",
			mutate: func(cfg *Config) {
				cfg.World.ChunkSize = 0
			},
			wantErr: "world.chunkSize must be positive",
		},
		{
			name: "negative load radius",
			mutate: func(cfg *Config) {
				cfg.World.LoadRadius = -1
			},
			wantErr: "world.loadRadius cannot be negative",
		},
		{
			name: "negative workers",
			mutate: func(cfg *Config) {
				cfg.World.Workers = -2
			},
			wantErr: "world.workers cannot be negative",
		},
		{
			name: "unknown noise algorithm",
			mutate: func(cfg *Config) {
				cfg.Noise.Cluster.Algorithm = "worley"
			},
			wantErr: `noise.cluster.algorithm "worley" is not one of value, simplex, perlin`,
		},
		{
			name: "zero octaves",
			mutate: func(cfg *Config) {
				cfg.Noise.Base.Octaves = 0
			},
			wantErr: "noise.base.octaves must be positive",
		},
		{
			name: "ocean above beach",
			mutate: func(cfg *Config) {
				cfg.Biome.OceanThreshold = 0
				cfg.Biome.BeachThreshold = -0.1
			},
			wantErr: "biome.oceanThreshold must be <= beachThreshold",
		},
		{
			name: "unknown log level",
			mutate: func(cfg *Config) {
				cfg.Logging.Level = "chatty"
			},
			wantErr: `logging.level "chatty" is not one of debug, info, warn, error`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected an error, got nil")
			}
			if err.Error() != tt.wantErr {
				t.Fatalf("unexpected error: got %q want %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSanitizeClampsMalformedSpawnValues(t *testing.T) {
	cfg := Default()
	cfg.Spawn.TreeDensity = -0.5
	cfg.Spawn.Shapes.TreeHeight = Range{Min: 9, Max: 2}
	cfg.Spawn.Shapes.CharacterVariantChance = 3
	cfg.Spawn.GroundCover.BladesMin = 8
	cfg.Spawn.GroundCover.BladesMax = 2
	cfg.Spawn.ClusterThresholds["forest"] = -1
	m := cfg.Spawn.BiomeMultipliers["desert"]
	m.Tree = -2
	cfg.Spawn.BiomeMultipliers["desert"] = m

	corrections := cfg.Sanitize()

	if cfg.Spawn.TreeDensity != 0 {
		t.Fatalf("negative density should clamp to 0, got %v", cfg.Spawn.TreeDensity)
	}
	if want := defaultShapes().TreeHeight; cfg.Spawn.Shapes.TreeHeight != want {
		t.Fatalf("inverted range should fall back to %v, got %v", want, cfg.Spawn.Shapes.TreeHeight)
	}
	if cfg.Spawn.Shapes.CharacterVariantChance != 1 {
		t.Fatalf("probability should clamp to 1, got %v", cfg.Spawn.Shapes.CharacterVariantChance)
	}
	if cfg.Spawn.GroundCover.BladesMin != 3 || cfg.Spawn.GroundCover.BladesMax != 6 {
		t.Fatalf("inverted blade range should fall back to defaults, got [%d,%d]",
			cfg.Spawn.GroundCover.BladesMin, cfg.Spawn.GroundCover.BladesMax)
	}
	if cfg.Spawn.ClusterThresholds["forest"] != 0 {
		t.Fatalf("cluster threshold should clamp to 0, got %v", cfg.Spawn.ClusterThresholds["forest"])
	}
	if cfg.Spawn.BiomeMultipliers["desert"].Tree != 0 {
		t.Fatalf("negative multiplier should clamp to 0")
	}
	if len(corrections) != 6 {
		t.Fatalf("expected 6 corrections, got %d: %v", len(corrections), corrections)
	}
	if again := cfg.Sanitize(); len(again) != 0 {
		t.Fatalf("sanitize should be idempotent, got %v", again)
	}
}

func TestSanitizeReplacesNaN(t *testing.T) {
	nan := math.NaN()
	cfg := Default()
	cfg.Spawn.GrassDensity = nan
	cfg.Spawn.ClusterThresholds["forest"] = nan
	cfg.Spawn.Shapes.MaxLean = nan
	cfg.Spawn.Shapes.RockRadius = Range{Min: nan, Max: 1}

	corrections := cfg.Sanitize()

	if cfg.Spawn.GrassDensity != 0 {
		t.Fatalf("NaN density should clamp to 0, got %v", cfg.Spawn.GrassDensity)
	}
	if cfg.Spawn.ClusterThresholds["forest"] != 0 {
		t.Fatalf("NaN threshold should clamp to 0, got %v", cfg.Spawn.ClusterThresholds["forest"])
	}
	if cfg.Spawn.Shapes.MaxLean != 0 {
		t.Fatalf("NaN lean should clamp to 0, got %v", cfg.Spawn.Shapes.MaxLean)
	}
	if want := defaultShapes().RockRadius; cfg.Spawn.Shapes.RockRadius != want {
		t.Fatalf("NaN range should fall back to %v, got %v", want, cfg.Spawn.Shapes.RockRadius)
	}
	if len(corrections) != 4 {
		t.Fatalf("expected 4 corrections, got %d: %v", len(corrections), corrections)
	}
	if again := cfg.Sanitize(); len(again) != 0 {
		t.Fatalf("sanitize should be idempotent, got %v", again)
	}
}

func TestCloneDoesNotShareMaps(t *testing.T) {
	cfg := Default()
	cfg.Spawn.ClusterThresholds["forest"] = -1
	clone := cfg.Clone()
	clone.Sanitize()

	if cfg.Spawn.ClusterThresholds["forest"] != -1 {
		t.Fatalf("sanitizing a clone changed the original: %v", cfg.Spawn.ClusterThresholds["forest"])
	}
	if clone.Spawn.ClusterThresholds["forest"] != 0 {
		t.Fatalf("clone was not sanitized: %v", clone.Spawn.ClusterThresholds["forest"])
	}
}

func TestLoadClampsNegativeSampleCounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := []byte(`{"spawn": {"largeSamples": -3, "groundSamples": -4}}`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, corrections, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Spawn.LargeSamples != 0 || cfg.Spawn.GroundSamples != 0 {
		t.Fatalf("sample counts should clamp to 0, got %d/%d", cfg.Spawn.LargeSamples, cfg.Spawn.GroundSamples)
	}
	fields := map[string]bool{}
	for _, c := range corrections {
		fields[c.Field] = true
	}
	if !fields["spawn.largeSamples"] || !fields["spawn.groundSamples"] {
		t.Fatalf("expected sample count corrections, got %v", corrections)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, corrections, err := Load("")
	if err != nil {
		t.Fatalf("load default config: %v", err)
	}
	if len(corrections) != 0 {
		t.Fatalf("unexpected corrections: %v", corrections)
	}
	if want := Default(); !reflect.DeepEqual(cfg, want) {
		t.Fatalf("default configuration mismatch:\nwant: %#v\n got: %#v", want, cfg)
	}
}

func TestLoadReadsJSONAndValidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := Default()
	cfg.World.Seed = 99
	cfg.World.LoadRadius = 5
	cfg.Simulation.TickRate = Duration(75 * time.Millisecond)

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	got, _, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Fatalf("loaded configuration mismatch:\nwant: %#v\n got: %#v", cfg, got)
	}
}

func TestLoadReadsYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "world.yaml")
	doc := `
world:
  seed: 7
  loadRadius: 2
spawn:
  treeDensity: -1
  clusterThresholds:
    forest: 0.4
simulation:
  tickRate: 20ms
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, corrections, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.World.Seed != 7 || cfg.World.LoadRadius != 2 {
		t.Fatalf("world section not decoded: %+v", cfg.World)
	}
	if cfg.World.ChunkSize != Default().World.ChunkSize {
		t.Fatalf("unset fields should keep defaults, got chunk size %v", cfg.World.ChunkSize)
	}
	if cfg.Simulation.TickRate.Duration() != 20*time.Millisecond {
		t.Fatalf("tick rate not decoded: %v", cfg.Simulation.TickRate.Duration())
	}
	if cfg.Spawn.ClusterThresholds["forest"] != 0.4 {
		t.Fatalf("cluster threshold not decoded: %v", cfg.Spawn.ClusterThresholds)
	}
	if cfg.Spawn.TreeDensity != 0 {
		t.Fatalf("negative density should be clamped, got %v", cfg.Spawn.TreeDensity)
	}
	if len(corrections) != 1 || corrections[0].Field != "spawn.treeDensity" {
		t.Fatalf("expected a single treeDensity correction, got %v", corrections)
	}
}

func TestLoadReadsTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "world.toml")
	doc := `
[world]
seed = 42
chunkSize = 16.0

[spawn]
largeSamples = 12
groundSamples = 80
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.World.Seed != 42 || cfg.World.ChunkSize != 16 {
		t.Fatalf("world section not decoded: %+v", cfg.World)
	}
	if cfg.Spawn.LargeSamples != 12 || cfg.Spawn.GroundSamples != 80 {
		t.Fatalf("spawn samples not decoded: %d/%d", cfg.Spawn.LargeSamples, cfg.Spawn.GroundSamples)
	}
}

func TestLoadInvalidConfiguration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := Default()
	cfg.World.ChunkSize = 0

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, err = Load(path)
	if err == nil {
		t.Fatalf("expected load to fail")
	}
	if !strings.Contains(err.Error(), "validate config: world.chunkSize must be positive") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.ini")
	if err := os.WriteFile(path, []byte("seed=1"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, err := Load(path); err == nil || !strings.Contains(err.Error(), "unsupported config extension") {
		t.Fatalf("expected extension error, got %v", err)
	}
}

func TestFetchReturnsLocalPathsUnchanged(t *testing.T) {
	got, err := Fetch(context.Background(), "configs/world.yaml", t.TempDir())
	if err != nil {
		t.Fatalf("fetch local path: %v", err)
	}
	if got != "configs/world.yaml" {
		t.Fatalf("local path rewritten to %q", got)
	}
}

func TestRemoteName(t *testing.T) {
	tests := map[string]string{
		"https://example.com/cfg/world.yaml?ref=main":           "world.yaml",
		"s3::https://bucket.s3.amazonaws.com/worlds/world.toml": "world.toml",
		"git::https://example.com/repo.git//configs/world.json": "world.json",
		"https://example.com/":                                  "config.json",
	}
	for src, want := range tests {
		if got := remoteName(src); got != want {
			t.Fatalf("remoteName(%q) = %q, want %q", src, got, want)
		}
	}
}
