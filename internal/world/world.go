package world

import (
	"log"
	"runtime"
	"sync"

	"mini-isle/internal/config"
	"mini-isle/internal/profiling"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// World is a fixed grid of chunks stored in a flat arena indexed
// x + sizeX*z + sizeX*sizeZ*y.
type World struct {
	cfg       config.WorldGen
	chunkSize int
	sizeX     int
	sizeY     int
	sizeZ     int
	chunks    []*Chunk
	gen       *Generator
}

// NewEmpty validates the configuration and allocates an all-air world.
func NewEmpty(cfg config.WorldGen) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	w := &World{
		cfg:       cfg,
		chunkSize: cfg.ChunkSize,
		sizeX:     cfg.ChunksX,
		sizeY:     cfg.ChunksY,
		sizeZ:     cfg.ChunksZ,
		chunks:    make([]*Chunk, cfg.ChunksX*cfg.ChunksY*cfg.ChunksZ),
		gen:       NewGenerator(cfg),
	}
	for y := range w.sizeY {
		for z := range w.sizeZ {
			for x := range w.sizeX {
				w.chunks[w.chunkIndex(x, y, z)] = NewChunk(x, y, z, w.chunkSize)
			}
		}
	}
	return w, nil
}

// New builds a world and runs generation (phase one) for every chunk.
// Meshing is a separate pass that must only start after New returns.
func New(cfg config.WorldGen) (*World, error) {
	w, err := NewEmpty(cfg)
	if err != nil {
		return nil, err
	}
	w.Generate()
	return w, nil
}

// Generate populates every chunk in parallel and returns once all are done.
func (w *World) Generate() {
	defer profiling.Track("world.Generate")()

	workers := w.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	pool := pond.NewPool(workers)
	defer pool.StopAndWait()

	var wg sync.WaitGroup
	for _, c := range w.chunks {
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			w.gen.PopulateChunk(c)
		})
	}
	wg.Wait()

	empty := 0
	for _, c := range w.chunks {
		if c.IsEmpty() {
			empty++
		}
	}
	log.Printf("generated %d chunks (%d empty) with seed %d", len(w.chunks), empty, w.cfg.Seed)
}

// chunkIndex returns the arena index, or -1 outside the grid.
func (w *World) chunkIndex(cx, cy, cz int) int {
	if cx < 0 || cx >= w.sizeX || cy < 0 || cy >= w.sizeY || cz < 0 || cz >= w.sizeZ {
		return -1
	}
	return cx + w.sizeX*cz + w.sizeX*w.sizeZ*cy
}

// ChunkAt returns the chunk at grid coordinates, or nil outside the world.
func (w *World) ChunkAt(cx, cy, cz int) *Chunk {
	i := w.chunkIndex(cx, cy, cz)
	if i < 0 {
		return nil
	}
	return w.chunks[i]
}

// ChunkFromVoxel returns the chunk owning the world voxel, or nil.
func (w *World) ChunkFromVoxel(worldX, worldY, worldZ int) *Chunk {
	return w.ChunkAt(
		floorDiv(worldX, w.chunkSize),
		floorDiv(worldY, w.chunkSize),
		floorDiv(worldZ, w.chunkSize),
	)
}

// VoxelIsEmpty reports whether a voxel is air. The owning chunk is found
// from world coordinates and the local coordinates are wrapped into it, so
// callers may pass neighbour offsets of -1 or size. Anything outside the
// world counts as empty.
func (w *World) VoxelIsEmpty(localX, localY, localZ, worldX, worldY, worldZ int) bool {
	c := w.ChunkFromVoxel(worldX, worldY, worldZ)
	if c == nil {
		return true
	}
	s := w.chunkSize
	lx := (localX%s + s) % s
	ly := (localY%s + s) % s
	lz := (localZ%s + s) % s
	return c.voxels[c.Index(lx, ly, lz)] == Air
}

// Voxel returns the voxel at world coordinates; outside the world is air.
func (w *World) Voxel(worldX, worldY, worldZ int) Voxel {
	c := w.ChunkFromVoxel(worldX, worldY, worldZ)
	if c == nil {
		return Air
	}
	return c.Get(mod(worldX, w.chunkSize), mod(worldY, w.chunkSize), mod(worldZ, w.chunkSize))
}

// SetVoxel is the edit entry point. It stores the voxel and marks dirty
// every chunk whose faces or ambient occlusion can see it: the owner and
// any chunk holding one of its 26 neighbours. Returns false when the
// coordinate is outside the world or the value is unchanged.
//
// Edits are not synchronised with mesh rebuilds; callers serialise them.
func (w *World) SetVoxel(worldX, worldY, worldZ int, v Voxel) bool {
	c := w.ChunkFromVoxel(worldX, worldY, worldZ)
	if c == nil {
		return false
	}
	if !c.Set(mod(worldX, w.chunkSize), mod(worldY, w.chunkSize), mod(worldZ, w.chunkSize), v) {
		return false
	}

	for dy := -1; dy <= 1; dy++ {
		for dz := -1; dz <= 1; dz++ {
			for dx := -1; dx <= 1; dx++ {
				if nb := w.ChunkFromVoxel(worldX+dx, worldY+dy, worldZ+dz); nb != nil {
					nb.MarkDirty()
				}
			}
		}
	}
	return true
}

// Chunks returns every chunk in arena order.
func (w *World) Chunks() []*Chunk {
	return w.chunks
}

// DirtyChunks returns the chunks whose mesh is stale.
func (w *World) DirtyChunks() []*Chunk {
	var dirty []*Chunk
	for _, c := range w.chunks {
		if c.IsDirty() {
			dirty = append(dirty, c)
		}
	}
	return dirty
}

// Config returns the configuration the world was built from.
func (w *World) Config() config.WorldGen {
	return w.cfg
}

// Generator returns the terrain generator.
func (w *World) Generator() *Generator {
	return w.gen
}

// ChunkSize returns the chunk edge length in voxels.
func (w *World) ChunkSize() int {
	return w.chunkSize
}

// Dimensions returns the grid size in chunks.
func (w *World) Dimensions() (x, y, z int) {
	return w.sizeX, w.sizeY, w.sizeZ
}

// Center returns the horizontal center of the world at ground level.
func (w *World) Center() mgl32.Vec3 {
	return mgl32.Vec3{
		float32(w.cfg.WorldWidth()) / 2,
		0,
		float32(w.cfg.WorldDepth()) / 2,
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
