package game

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"mini-isle/internal/config"
	"mini-isle/internal/world"
)

func smallConfig() config.WorldGen {
	cfg := config.Default()
	cfg.Seed = 1337
	cfg.ChunkSize = 16
	cfg.ChunksX, cfg.ChunksY, cfg.ChunksZ = 4, 2, 4
	cfg.Workers = 2
	cfg.MeshWorkers = 2
	return cfg
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(smallConfig())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestNewSessionRejectsInvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.ChunkSize = 64
	if _, err := NewSession(cfg); err == nil {
		t.Fatalf("expected error for oversized chunks")
	}
}

func TestNewSessionBuildsEverything(t *testing.T) {
	s := newTestSession(t)

	if n := len(s.World.DirtyChunks()); n != 0 {
		t.Fatalf("%d chunks left unmeshed", n)
	}
	st := s.Stats()
	if st.Chunks != 32 {
		t.Fatalf("chunks = %d, want 32", st.Chunks)
	}
	if st.Vertices == 0 || st.Vertices%6 != 0 {
		t.Fatalf("vertex total %d", st.Vertices)
	}
	if st.EmptyChunks >= st.Chunks {
		t.Fatalf("every chunk is empty")
	}
	if st.CloudQuads != len(s.CloudRects) || st.CloudQuads > st.CloudCells {
		t.Fatalf("cloud quads %d for %d cells", st.CloudQuads, st.CloudCells)
	}
	if len(s.CloudMesh) != 6*st.CloudQuads {
		t.Fatalf("cloud mesh has %d vertices for %d quads", len(s.CloudMesh), st.CloudQuads)
	}
	for _, v := range s.CloudMesh {
		if v.Y() != s.Config.Clouds.Height {
			t.Fatalf("cloud vertex at height %v", v.Y())
		}
	}
}

func TestStatsCountsVisibleChunks(t *testing.T) {
	s := newTestSession(t)

	var target *world.Chunk
	for _, c := range s.World.Chunks() {
		if c.VertexCount() > 0 {
			target = c
			break
		}
	}
	if target == nil {
		t.Fatalf("no meshed chunk")
	}

	s.Camera.Position = target.Center().Add(mgl32.Vec3{0, 0, 40})
	s.Camera.LookAt(target.Center())
	if s.Stats().VisibleCount == 0 {
		t.Fatalf("camera aimed at a chunk sees nothing")
	}

	// Facing away from the whole world.
	s.Camera.Position = mgl32.Vec3{-500, 10, -500}
	s.Camera.LookAt(mgl32.Vec3{-1000, 10, -1000})
	if n := s.Stats().VisibleCount; n != 0 {
		t.Fatalf("camera facing away sees %d chunks", n)
	}
}

func TestSessionEditAndRebuild(t *testing.T) {
	s := newTestSession(t)

	// A chunk corner touches eight chunks.
	x, y, z := 16, 16, 16
	v := world.Stone
	if s.World.Voxel(x, y, z) == world.Stone {
		v = world.Air
	}
	if !s.SetVoxel(x, y, z, v) {
		t.Fatalf("edit rejected")
	}
	dirty := len(s.World.DirtyChunks())
	if dirty != 8 {
		t.Fatalf("dirty chunks = %d, want 8", dirty)
	}
	if n := s.Rebuild(); n != dirty {
		t.Fatalf("Rebuild = %d, want %d", n, dirty)
	}
	if len(s.World.DirtyChunks()) != 0 {
		t.Fatalf("dirty chunks remain after rebuild")
	}
	if s.SetVoxel(-1, 0, 0, world.Stone) {
		t.Fatalf("edit outside the world accepted")
	}
	s.Close()
}
