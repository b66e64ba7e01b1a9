package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() returned error: %v", err)
	}
	if got := cfg.WorldWidth(); got != 960 {
		t.Fatalf("WorldWidth() = %d, want 960", got)
	}
	if got := cfg.WorldHeight(); got != 96 {
		t.Fatalf("WorldHeight() = %d, want 96", got)
	}
}

func TestValidateRejectsInvalidConfigurations(t *testing.T) {
	tests := map[string]func(*WorldGen){
		"chunk too large for vertex fields": func(c *WorldGen) { c.ChunkSize = 64 },
		"zero chunk size":                   func(c *WorldGen) { c.ChunkSize = 0 },
		"zero world width":                  func(c *WorldGen) { c.ChunksX = 0 },
		"index overflow": func(c *WorldGen) {
			c.ChunksX, c.ChunksY, c.ChunksZ = 200, 200, 200
		},
		"negative workers":     func(c *WorldGen) { c.Workers = -1 },
		"unordered thresholds": func(c *WorldGen) { c.Terrain.StoneLevel = c.Terrain.SnowLevel },
		"tree probability":     func(c *WorldGen) { c.Terrain.TreeProbability = 1.5 },
		"zero base frequency":  func(c *WorldGen) { c.Terrain.BaseFrequency = 0 },
		"zero cloud scale":     func(c *WorldGen) { c.Clouds.Scale = 0 },
	}

	for name, mutate := range tests {
		cfg := Default()
		mutate(&cfg)
		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: expected error", name)
			continue
		}
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: error %v does not wrap ErrInvalid", name, err)
		}
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "world.yaml")
	data := []byte("seed: 99\nchunk_size: 16\nchunks_x: 4\nterrain:\n  tree_probability: 0.5\nclouds:\n  scale: 2\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Seed != 99 || cfg.ChunkSize != 16 || cfg.ChunksX != 4 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.ChunksZ != 20 {
		t.Fatalf("ChunksZ = %d, want default 20", cfg.ChunksZ)
	}
	if cfg.Terrain.TreeProbability != 0.5 {
		t.Fatalf("TreeProbability = %v, want 0.5", cfg.Terrain.TreeProbability)
	}
	if cfg.Terrain.SnowLevel != 54 {
		t.Fatalf("SnowLevel = %d, want default 54", cfg.Terrain.SnowLevel)
	}
	if cfg.Clouds.Scale != 2 || cfg.Clouds.Frequency != 0.13 {
		t.Fatalf("cloud config = %+v", cfg.Clouds)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "world.yaml")
	if err := os.WriteFile(path, []byte("chunk_size: 64\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Load() error = %v, want ErrInvalid", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("Load() of missing file returned nil error")
	}
}

func TestRenderSettingsClamp(t *testing.T) {
	old := GetFOV()
	defer SetFOV(old)

	SetFOV(5)
	if got := GetFOV(); got != 30 {
		t.Fatalf("GetFOV() = %v, want 30", got)
	}
	SetFOV(500)
	if got := GetFOV(); got != 110 {
		t.Fatalf("GetFOV() = %v, want 110", got)
	}

	oldLimit := GetFPSLimit()
	defer SetFPSLimit(oldLimit)
	SetFPSLimit(-3)
	if got := GetFPSLimit(); got != 0 {
		t.Fatalf("GetFPSLimit() = %d, want 0", got)
	}
}
