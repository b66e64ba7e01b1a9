package world

import (
	"errors"
	"testing"

	"mini-isle/internal/config"
)

func emptyWorld(t *testing.T, size, cx, cy, cz int) *World {
	t.Helper()
	cfg := config.Default()
	cfg.ChunkSize = size
	cfg.ChunksX, cfg.ChunksY, cfg.ChunksZ = cx, cy, cz
	w, err := NewEmpty(cfg)
	if err != nil {
		t.Fatalf("NewEmpty: %v", err)
	}
	return w
}

func TestNewEmptyRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.ChunkSize = 64
	if _, err := NewEmpty(cfg); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("NewEmpty error = %v, want ErrInvalid", err)
	}
}

func TestChunkArenaLayout(t *testing.T) {
	w := emptyWorld(t, 4, 3, 2, 5)
	if got := len(w.Chunks()); got != 30 {
		t.Fatalf("len(Chunks()) = %d, want 30", got)
	}
	for i, c := range w.Chunks() {
		if got := w.chunkIndex(c.X, c.Y, c.Z); got != i {
			t.Fatalf("chunk %d at (%d,%d,%d) maps to index %d", i, c.X, c.Y, c.Z, got)
		}
	}
	if got := w.chunkIndex(1, 1, 2); got != 1+3*2+3*5*1 {
		t.Fatalf("chunkIndex(1,1,2) = %d", got)
	}
	for _, p := range [][3]int{{-1, 0, 0}, {3, 0, 0}, {0, 2, 0}, {0, 0, 5}, {0, -1, 0}} {
		if c := w.ChunkAt(p[0], p[1], p[2]); c != nil {
			t.Errorf("ChunkAt(%v) = %v, want nil", p, c)
		}
	}
}

func TestVoxelIsEmptyOutsideWorld(t *testing.T) {
	w := emptyWorld(t, 4, 2, 2, 2)
	// Fill the whole world so only out-of-range lookups can be empty.
	for y := range 8 {
		for z := range 8 {
			for x := range 8 {
				w.SetVoxel(x, y, z, Stone)
			}
		}
	}

	outside := [][3]int{
		{-1, 0, 0}, {8, 0, 0},
		{0, -1, 0}, {0, 8, 0},
		{0, 0, -1}, {0, 0, 8},
		{-100, 50, 3}, {9, 9, 9},
	}
	for _, p := range outside {
		if !w.VoxelIsEmpty(p[0], p[1], p[2], p[0], p[1], p[2]) {
			t.Errorf("VoxelIsEmpty(%v) = false outside the world", p)
		}
	}
	for _, p := range [][3]int{{0, 0, 0}, {7, 7, 7}, {4, 3, 5}} {
		if w.VoxelIsEmpty(p[0]%4, p[1]%4, p[2]%4, p[0], p[1], p[2]) {
			t.Errorf("VoxelIsEmpty(%v) = true inside a solid world", p)
		}
	}
}

func TestVoxelIsEmptyWrapsNeighbourOffsets(t *testing.T) {
	w := emptyWorld(t, 4, 2, 1, 1)
	w.SetVoxel(3, 0, 0, Stone) // last voxel of chunk 0
	w.SetVoxel(4, 0, 0, Dirt)  // first voxel of chunk 1

	// From chunk 1 looking at local x=-1 lands in chunk 0 at x=3.
	if w.VoxelIsEmpty(-1, 0, 0, 3, 0, 0) {
		t.Error("local -1 should wrap to x=3 of the neighbour chunk")
	}
	// From chunk 0 looking at local x=4 lands in chunk 1 at x=0.
	if w.VoxelIsEmpty(4, 0, 0, 4, 0, 0) {
		t.Error("local 4 should wrap to x=0 of the neighbour chunk")
	}
	if !w.VoxelIsEmpty(1, 0, 0, 5, 0, 0) {
		t.Error("x=5 is air")
	}
}

func TestVoxelGetSet(t *testing.T) {
	w := emptyWorld(t, 4, 2, 2, 2)
	if !w.SetVoxel(5, 6, 7, Wood) {
		t.Fatal("SetVoxel should succeed inside the world")
	}
	if got := w.Voxel(5, 6, 7); got != Wood {
		t.Fatalf("Voxel = %v, want wood", got)
	}
	if w.SetVoxel(5, 6, 7, Wood) {
		t.Fatal("SetVoxel with the same value should report no change")
	}
	if w.SetVoxel(-1, 0, 0, Wood) {
		t.Fatal("SetVoxel outside the world should fail")
	}
	if got := w.Voxel(100, 0, 0); got != Air {
		t.Fatalf("Voxel outside = %v, want air", got)
	}
}

func TestSetVoxelInvalidatesNeighbours(t *testing.T) {
	w := emptyWorld(t, 4, 3, 3, 3)
	for _, c := range w.Chunks() {
		c.SetMesh(nil)
	}

	// Interior voxel of the center chunk: only the owner changes.
	w.SetVoxel(5, 5, 5, Stone)
	if got := len(w.DirtyChunks()); got != 1 {
		t.Fatalf("interior edit dirtied %d chunks, want 1", got)
	}
	for _, c := range w.Chunks() {
		c.SetMesh(nil)
	}

	// Corner voxel (4,4,4) of the center chunk touches 8 chunks.
	w.SetVoxel(4, 4, 4, Stone)
	dirty := w.DirtyChunks()
	if len(dirty) != 8 {
		t.Fatalf("corner edit dirtied %d chunks, want 8", len(dirty))
	}
	for _, c := range dirty {
		if c.X > 1 || c.Y > 1 || c.Z > 1 {
			t.Errorf("unexpected dirty chunk (%d,%d,%d)", c.X, c.Y, c.Z)
		}
	}
	for _, c := range w.Chunks() {
		c.SetMesh(nil)
	}

	// Face voxel (4,5,5) touches the owner and the -X neighbour.
	w.SetVoxel(4, 5, 5, Stone)
	if got := len(w.DirtyChunks()); got != 2 {
		t.Fatalf("face edit dirtied %d chunks, want 2", got)
	}
}

func TestGenerateSmallWorld(t *testing.T) {
	w, err := New(smallConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	solid := 0
	for _, c := range w.Chunks() {
		if !c.IsEmpty() {
			solid++
		}
	}
	if solid == 0 {
		t.Fatal("expected some non-empty chunks")
	}

	again, err := New(smallConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i, c := range w.Chunks() {
		if hashChunkVoxels(c) != hashChunkVoxels(again.Chunks()[i]) {
			t.Fatalf("chunk %d differs between parallel generations with the same seed", i)
		}
	}
}

func TestFloorDivAndMod(t *testing.T) {
	tests := []struct{ a, b, div, mod int }{
		{0, 4, 0, 0},
		{3, 4, 0, 3},
		{4, 4, 1, 0},
		{-1, 4, -1, 3},
		{-4, 4, -1, 0},
		{-5, 4, -2, 3},
	}
	for _, tt := range tests {
		if got := floorDiv(tt.a, tt.b); got != tt.div {
			t.Errorf("floorDiv(%d,%d) = %d, want %d", tt.a, tt.b, got, tt.div)
		}
		if got := mod(tt.a, tt.b); got != tt.mod {
			t.Errorf("mod(%d,%d) = %d, want %d", tt.a, tt.b, got, tt.mod)
		}
	}
}
