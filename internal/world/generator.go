package world

import (
	"math"
	"math/rand/v2"

	"mini-isle/internal/config"
)

// Generator derives column heights and voxel materials from a NoiseField.
// Height is a pure function of the seed; surface banding and trees draw
// from a per-chunk RNG seeded by the chunk position, so a given seed always
// regenerates the same world.
type Generator struct {
	cfg   config.WorldGen
	noise *NoiseField

	halfHeight       float64
	centerX, centerZ float64
}

// NewGenerator creates a generator for the given configuration.
func NewGenerator(cfg config.WorldGen) *Generator {
	return &Generator{
		cfg:        cfg,
		noise:      NewNoiseField(cfg.Seed),
		halfHeight: float64(cfg.WorldHeight()) / 2,
		centerX:    float64(cfg.WorldWidth()) / 2,
		centerZ:    float64(cfg.WorldDepth()) / 2,
	}
}

// Noise exposes the underlying field, shared with the cloud layer.
func (g *Generator) Noise() *NoiseField {
	return g.noise
}

// HeightAt computes the surface height of the column at world X,Z.
func (g *Generator) HeightAt(worldX, worldZ int) int {
	t := g.cfg.Terrain
	x := float64(worldX)
	z := float64(worldZ)

	a1 := g.halfHeight
	a2 := a1 / 2
	a4 := a1 / 4
	a8 := a1 / 8
	if g.noise.Simplex2(t.VarietyScale*x, t.VarietyScale*z) < 0 {
		a1 /= t.VarietyFactor
	}

	f := t.BaseFrequency
	height := g.noise.Simplex2(f*x, f*z)*a1 + a1
	height += g.noise.Simplex2(2*f*x, 2*f*z)*a2 - a2
	height += g.noise.Simplex2(4*f*x, 4*f*z)*a4 + a4
	height += g.noise.Simplex2(8*f*x, 8*f*z)*a8 - a8
	if height < 1 {
		height = 1
	}

	return int(height * g.islandMask(x, z))
}

// islandMask is ~1 over the interior and falls off sharply near the rim.
func (g *Generator) islandMask(x, z float64) float64 {
	t := g.cfg.Terrain
	d := math.Hypot(x-g.centerX, z-g.centerZ)
	mask := 1 / (1e-4 + math.Pow(t.IslandFalloff*d, t.IslandExponent))
	if mask > 1 {
		return 1
	}
	return mask
}

// VoxelAt picks the material of a voxel inside a column of the given height.
// Callers only ask for worldY < columnHeight; everything at or above
// columnHeight-1 is treated as surface band.
func (g *Generator) VoxelAt(rng *rand.Rand, worldX, worldY, worldZ, columnHeight int) Voxel {
	t := g.cfg.Terrain
	if worldY < columnHeight-1 {
		if g.isCave(worldX, worldY, worldZ, columnHeight) {
			return Air
		}
		return Stone
	}

	ry := float64(worldY) - rng.Float64()*t.SurfaceJitter
	switch {
	case ry > float64(t.SnowLevel):
		return Snow
	case ry > float64(t.StoneLevel):
		return Stone
	case ry > float64(t.DirtLevel):
		return Dirt
	case ry > float64(t.GrassLevel):
		return Grass
	default:
		return Sand
	}
}

func (g *Generator) isCave(worldX, worldY, worldZ, columnHeight int) bool {
	t := g.cfg.Terrain
	if worldY >= columnHeight-t.CaveDepth {
		return false
	}
	x, y, z := float64(worldX), float64(worldY), float64(worldZ)
	if g.noise.Simplex3(t.CaveScale*x, t.CaveScale*y, t.CaveScale*z) <= 0 {
		return false
	}
	floor := g.noise.Simplex2(t.CaveCeilingScale*x, t.CaveCeilingScale*z)*3 + 3
	return floor < y
}

// ChunkRand returns the RNG used for the chunk at grid position (cx,cy,cz).
func (g *Generator) ChunkRand(cx, cy, cz int) *rand.Rand {
	h := uint64(cx)*0x9E3779B97F4A7C15 ^ uint64(cy)*0x517CC1B727220A95 ^ uint64(cz)*0x6C62272E07BB0142
	return rand.New(rand.NewPCG(uint64(g.cfg.Seed), h))
}

type treeSite struct{ x, y, z int }

// PopulateChunk fills a chunk from the height field, then grows trees.
func (g *Generator) PopulateChunk(c *Chunk) {
	t := g.cfg.Terrain
	rng := g.ChunkRand(c.X, c.Y, c.Z)
	size := c.Size()
	baseX, baseY, baseZ := c.Origin()

	var trees []treeSite
	for lz := range size {
		for lx := range size {
			worldX := baseX + lx
			worldZ := baseZ + lz
			height := g.HeightAt(worldX, worldZ)
			top := min(height-baseY, size)
			for ly := 0; ly < top; ly++ {
				worldY := baseY + ly
				v := g.VoxelAt(rng, worldX, worldY, worldZ, height)
				c.set(lx, ly, lz, v)
				if v == Grass && worldY < t.DirtLevel && rng.Float64() < t.TreeProbability {
					trees = append(trees, treeSite{lx, ly, lz})
				}
			}
		}
	}

	// Trees go in after every column so no later column overwrites a canopy.
	for _, s := range trees {
		PlaceTree(c, s.x, s.y, s.z)
	}

	c.refreshEmpty()
	c.dirty = true
}
