package world

import (
	"crypto/sha256"
	"math/rand/v2"
	"testing"

	"mini-isle/internal/config"
)

func smallConfig() config.WorldGen {
	cfg := config.Default()
	cfg.Seed = 1337
	cfg.ChunkSize = 16
	cfg.ChunksX, cfg.ChunksY, cfg.ChunksZ = 4, 2, 4
	cfg.Workers = 2
	return cfg
}

// hashChunkVoxels computes a SHA-256 hash of all voxels in a chunk
func hashChunkVoxels(c *Chunk) [32]byte {
	h := sha256.New()
	for _, v := range c.voxels {
		h.Write([]byte{byte(v)})
	}
	var result [32]byte
	copy(result[:], h.Sum(nil))
	return result
}

func TestNoiseFieldDeterministic(t *testing.T) {
	a := NewNoiseField(42)
	b := NewNoiseField(42)
	rng := rand.New(rand.NewPCG(1, 2))
	for range 500 {
		x := rng.Float64()*400 - 200
		y := rng.Float64()*400 - 200
		z := rng.Float64()*400 - 200
		if a.Simplex2(x, z) != b.Simplex2(x, z) || a.Simplex3(x, y, z) != b.Simplex3(x, y, z) {
			t.Fatalf("noise differs at (%f,%f,%f)", x, y, z)
		}
		if v := a.Simplex3(x, y, z); v < -1.01 || v > 1.01 {
			t.Fatalf("Simplex3 = %f, expected roughly [-1,1]", v)
		}
	}
}

func TestHeightAtDeterministic(t *testing.T) {
	g1 := NewGenerator(config.Default())
	g2 := NewGenerator(config.Default())
	for x := 300; x < 660; x += 17 {
		for z := 300; z < 660; z += 23 {
			h := g1.HeightAt(x, z)
			if again := g1.HeightAt(x, z); again != h {
				t.Fatalf("HeightAt(%d,%d) not idempotent: %d then %d", x, z, h, again)
			}
			if other := g2.HeightAt(x, z); other != h {
				t.Fatalf("HeightAt(%d,%d) differs across generators: %d vs %d", x, z, h, other)
			}
		}
	}
}

func TestHeightAtIslandMask(t *testing.T) {
	g := NewGenerator(config.Default())
	// Corners are ~680 voxels from the center; the mask drives them to zero.
	for _, p := range [][2]int{{0, 0}, {959, 0}, {0, 959}, {959, 959}} {
		if h := g.HeightAt(p[0], p[1]); h != 0 {
			t.Errorf("HeightAt(%d,%d) = %d at the world rim, want 0", p[0], p[1], h)
		}
	}
	// Near the center the mask is 1 and the floor of 1 applies.
	if h := g.HeightAt(480, 480); h < 1 {
		t.Errorf("HeightAt(center) = %d, want >= 1", h)
	}
}

func TestVoxelAtSurfaceBands(t *testing.T) {
	cfg := config.Default()
	cfg.Terrain.SurfaceJitter = 0
	g := NewGenerator(cfg)
	rng := rand.New(rand.NewPCG(1, 1))

	tests := []struct {
		y    int
		want Voxel
	}{
		{60, Snow},
		{50, Stone},
		{45, Dirt},
		{20, Grass},
		{5, Sand},
	}
	for _, tt := range tests {
		if got := g.VoxelAt(rng, 100, tt.y, 100, tt.y+1); got != tt.want {
			t.Errorf("surface voxel at y=%d = %v, want %v", tt.y, got, tt.want)
		}
	}
}

func TestVoxelAtJitterStaysBetweenNeighbouringBands(t *testing.T) {
	g := NewGenerator(config.Default())
	rng := rand.New(rand.NewPCG(7, 7))
	for range 200 {
		got := g.VoxelAt(rng, 10, 57, 10, 58)
		if got != Snow && got != Stone {
			t.Fatalf("surface voxel at y=57 = %v, want snow or stone", got)
		}
	}
}

func TestVoxelAtBelowSurface(t *testing.T) {
	g := NewGenerator(config.Default())
	rng := rand.New(rand.NewPCG(3, 3))
	sawStone := false
	for x := 0; x < 64; x++ {
		for y := 0; y < 60; y++ {
			v := g.VoxelAt(rng, x, y, 7, 80)
			switch v {
			case Stone:
				sawStone = true
			case Air:
			default:
				t.Fatalf("VoxelAt below surface = %v, want stone or air", v)
			}
		}
	}
	if !sawStone {
		t.Fatal("expected stone below the surface")
	}
	// The crust between columnHeight-10 and the surface is never carved.
	for y := 70; y < 79; y++ {
		if v := g.VoxelAt(rng, 5, y, 5, 80); v != Stone {
			t.Fatalf("VoxelAt(y=%d) = %v in crust, want stone", y, v)
		}
	}
}

func TestPopulateChunkDeterministic(t *testing.T) {
	cfg := smallConfig()
	positions := [][3]int{{0, 0, 0}, {1, 0, 2}, {3, 1, 3}}
	for _, p := range positions {
		c1 := NewChunk(p[0], p[1], p[2], cfg.ChunkSize)
		NewGenerator(cfg).PopulateChunk(c1)
		c2 := NewChunk(p[0], p[1], p[2], cfg.ChunkSize)
		NewGenerator(cfg).PopulateChunk(c2)
		if hashChunkVoxels(c1) != hashChunkVoxels(c2) {
			t.Errorf("chunk at %v not deterministic", p)
		}
	}
}

func TestPopulateChunkMatchesHeight(t *testing.T) {
	cfg := smallConfig()
	cfg.Terrain.TreeProbability = 0
	g := NewGenerator(cfg)
	c := NewChunk(1, 0, 1, cfg.ChunkSize)
	g.PopulateChunk(c)

	baseX, baseY, baseZ := c.Origin()
	for lz := range cfg.ChunkSize {
		for lx := range cfg.ChunkSize {
			h := g.HeightAt(baseX+lx, baseZ+lz)
			for ly := range cfg.ChunkSize {
				v := c.Get(lx, ly, lz)
				if baseY+ly >= h && v != Air {
					t.Fatalf("voxel above surface at (%d,%d,%d): %v", lx, ly, lz, v)
				}
				if baseY+ly == h-1 && v == Air {
					t.Fatalf("surface voxel missing at (%d,%d,%d)", lx, ly, lz)
				}
			}
		}
	}
}

func TestPlaceTree(t *testing.T) {
	c := NewChunk(0, 0, 0, 16)
	if !PlaceTree(c, 8, 2, 8) {
		t.Fatal("tree should fit in the middle of the chunk")
	}
	if got := c.Get(8, 2, 8); got != Dirt {
		t.Errorf("footprint = %v, want dirt", got)
	}
	for y := 3; y <= 7; y++ {
		if got := c.Get(8, y, 8); got != Wood {
			t.Errorf("trunk at y=%d = %v, want wood", y, got)
		}
	}
	if got := c.Get(8, 2+TreeHeight-1, 8); got != Leaves {
		t.Errorf("top = %v, want leaves", got)
	}
	if got := c.Get(8, 2+TreeHeight, 8); got != Air {
		t.Errorf("above top = %v, want air", got)
	}

	// The wide layers drop the ring cells where (ix+iz)%4 == 0, the corners.
	for _, ly := range []int{6, 7} {
		for _, d := range [][2]int{{-2, -2}, {-2, 2}, {2, -2}, {2, 2}} {
			if got := c.Get(8+d[0], ly, 8+d[1]); got != Air {
				t.Errorf("canopy corner (%d,%d,%d) = %v, want air", 8+d[0], ly, 8+d[1], got)
			}
		}
		if got := c.Get(10, ly, 9); got != Leaves {
			t.Errorf("canopy ring (10,%d,9) = %v, want leaves", ly, got)
		}
	}

	leaves := 0
	for _, v := range c.voxels {
		if v == Leaves {
			leaves++
		}
	}
	// 8 + 20 + 20 + 9 canopy cells plus the top.
	if leaves != 58 {
		t.Errorf("leaf count = %d, want 58", leaves)
	}
}

func TestPlaceTreeRejectsChunkBorder(t *testing.T) {
	tests := [][3]int{
		{1, 2, 8},  // too close to -X
		{14, 2, 8}, // too close to +X
		{8, 2, 2},  // too close to -Z
		{8, 0, 8},  // footprint on the bottom face
		{8, 8, 8},  // canopy reaches the top face
	}
	for _, p := range tests {
		c := NewChunk(0, 0, 0, 16)
		if PlaceTree(c, p[0], p[1], p[2]) {
			t.Errorf("PlaceTree(%v) should not fit", p)
		}
		for _, v := range c.voxels {
			if v != Air {
				t.Fatalf("rejected tree at %v still wrote voxels", p)
			}
		}
	}
}

func BenchmarkPopulateChunk(b *testing.B) {
	g := NewGenerator(config.Default())
	for i := 0; i < b.N; i++ {
		c := NewChunk(10, 0, 10, 48)
		g.PopulateChunk(c)
	}
}

func BenchmarkHeightAt(b *testing.B) {
	g := NewGenerator(config.Default())
	for i := 0; i < b.N; i++ {
		_ = g.HeightAt(i%960, (i*31)%960)
	}
}
