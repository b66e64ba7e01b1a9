package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid world configuration")

// maxChunkSize is the largest chunk edge whose corner coordinates (0..S)
// still fit the 6-bit position fields of a packed vertex.
const maxChunkSize = 63

// WorldGen holds world generation parameters. Default returns the
// reference configuration; a YAML file may override any field.
type WorldGen struct {
	Seed int64 `yaml:"seed"`

	ChunkSize   int `yaml:"chunk_size"`
	ChunksX     int `yaml:"chunks_x"`
	ChunksY     int `yaml:"chunks_y"`
	ChunksZ     int `yaml:"chunks_z"`
	Workers     int `yaml:"workers"` // 0 = runtime.NumCPU()
	MeshWorkers int `yaml:"mesh_workers"`

	Terrain TerrainConfig `yaml:"terrain"`
	Clouds  CloudConfig   `yaml:"clouds"`
}

// TerrainConfig drives height, caves, surface banding and trees.
type TerrainConfig struct {
	BaseFrequency  float64 `yaml:"base_frequency"`
	VarietyScale   float64 `yaml:"variety_scale"`
	VarietyFactor  float64 `yaml:"variety_factor"`
	IslandFalloff  float64 `yaml:"island_falloff"`
	IslandExponent float64 `yaml:"island_exponent"`

	CaveScale        float64 `yaml:"cave_scale"`
	CaveCeilingScale float64 `yaml:"cave_ceiling_scale"`
	CaveDepth        int     `yaml:"cave_depth"`

	SurfaceJitter   float64 `yaml:"surface_jitter"`
	SnowLevel       int     `yaml:"snow_level"`
	StoneLevel      int     `yaml:"stone_level"`
	DirtLevel       int     `yaml:"dirt_level"`
	GrassLevel      int     `yaml:"grass_level"`
	TreeProbability float64 `yaml:"tree_probability"`
}

// CloudConfig drives the cloud coverage mask and its placement.
type CloudConfig struct {
	Frequency float64 `yaml:"frequency"`
	Threshold float64 `yaml:"threshold"`
	Scale     float32 `yaml:"scale"`
	Height    float32 `yaml:"height"`
}

// Default returns the reference configuration.
func Default() WorldGen {
	return WorldGen{
		Seed:      1,
		ChunkSize: 48,
		ChunksX:   20,
		ChunksY:   2,
		ChunksZ:   20,
		Terrain: TerrainConfig{
			BaseFrequency:    0.005,
			VarietyScale:     0.1,
			VarietyFactor:    1.07,
			IslandFalloff:    0.0025,
			IslandExponent:   20,
			CaveScale:        0.09,
			CaveCeilingScale: 0.1,
			CaveDepth:        10,
			SurfaceJitter:    7,
			SnowLevel:        54,
			StoneLevel:       49,
			DirtLevel:        40,
			GrassLevel:       8,
			TreeProbability:  0.02,
		},
		Clouds: CloudConfig{
			Frequency: 0.13,
			Threshold: 0.2,
			Scale:     4,
			Height:    160,
		},
	}
}

// Load reads a YAML file on top of Default and validates the result.
func Load(path string) (WorldGen, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// WorldWidth returns the world extent along X in voxels.
func (c WorldGen) WorldWidth() int { return c.ChunksX * c.ChunkSize }

// WorldHeight returns the world extent along Y in voxels.
func (c WorldGen) WorldHeight() int { return c.ChunksY * c.ChunkSize }

// WorldDepth returns the world extent along Z in voxels.
func (c WorldGen) WorldDepth() int { return c.ChunksZ * c.ChunkSize }

// Validate rejects configurations the generator and vertex format cannot hold.
func (c WorldGen) Validate() error {
	if c.ChunkSize < 1 || c.ChunkSize > maxChunkSize {
		return fmt.Errorf("%w: chunk_size %d outside [1,%d]", ErrInvalid, c.ChunkSize, maxChunkSize)
	}
	if c.ChunksX < 1 || c.ChunksY < 1 || c.ChunksZ < 1 {
		return fmt.Errorf("%w: world dimensions %dx%dx%d must be positive", ErrInvalid, c.ChunksX, c.ChunksY, c.ChunksZ)
	}
	s := int64(c.ChunkSize)
	voxels := int64(c.ChunksX) * int64(c.ChunksY) * int64(c.ChunksZ) * s * s * s
	if voxels > math.MaxInt32 {
		return fmt.Errorf("%w: %d voxels overflow the world index", ErrInvalid, voxels)
	}
	if c.Workers < 0 || c.MeshWorkers < 0 {
		return fmt.Errorf("%w: worker counts must not be negative", ErrInvalid)
	}

	t := c.Terrain
	if t.BaseFrequency <= 0 || t.VarietyScale <= 0 || t.CaveScale <= 0 || t.CaveCeilingScale <= 0 {
		return fmt.Errorf("%w: noise frequencies must be positive", ErrInvalid)
	}
	if t.VarietyFactor <= 0 {
		return fmt.Errorf("%w: variety_factor must be positive", ErrInvalid)
	}
	if t.IslandFalloff <= 0 || t.IslandExponent <= 0 {
		return fmt.Errorf("%w: island falloff and exponent must be positive", ErrInvalid)
	}
	if t.SurfaceJitter < 0 {
		return fmt.Errorf("%w: surface_jitter must not be negative", ErrInvalid)
	}
	if !(t.SnowLevel > t.StoneLevel && t.StoneLevel > t.DirtLevel && t.DirtLevel > t.GrassLevel) {
		return fmt.Errorf("%w: levels must descend snow > stone > dirt > grass, got %d/%d/%d/%d",
			ErrInvalid, t.SnowLevel, t.StoneLevel, t.DirtLevel, t.GrassLevel)
	}
	if t.TreeProbability < 0 || t.TreeProbability > 1 {
		return fmt.Errorf("%w: tree_probability %v outside [0,1]", ErrInvalid, t.TreeProbability)
	}

	if c.Clouds.Frequency <= 0 || c.Clouds.Scale <= 0 {
		return fmt.Errorf("%w: cloud frequency and scale must be positive", ErrInvalid)
	}
	return nil
}
