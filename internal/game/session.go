package game

import (
	"fmt"
	"log"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"

	"mini-isle/internal/camera"
	"mini-isle/internal/config"
	"mini-isle/internal/meshing"
	"mini-isle/internal/profiling"
	"mini-isle/internal/world"
)

// Default viewport used before a window reports its size.
const (
	DefaultWidth  = 1280
	DefaultHeight = 720
)

// spawnClearance is how far above the island centre the camera starts.
const spawnClearance = 40

// Session owns a fully built world: voxels, chunk meshes, the cloud layer
// and a camera. It has no GL state so it also backs the headless commands.
type Session struct {
	Config config.WorldGen
	World  *world.World
	Camera *camera.Camera

	CloudMask   *meshing.CloudMask
	CloudRects  []meshing.Rect
	CloudMesh   []mgl32.Vec3
	rebuildPool *meshing.WorkerPool
}

// NewSession generates every chunk, then meshes every chunk, then builds
// the cloud layer. Meshing only starts once generation has finished.
func NewSession(cfg config.WorldGen) (*Session, error) {
	w, err := world.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("build world: %w", err)
	}
	meshing.BuildAll(w, cfg.Workers)

	s := &Session{
		Config: cfg,
		World:  w,
		Camera: camera.New(DefaultWidth, DefaultHeight),
	}
	s.buildClouds()
	s.ResetCamera()

	workers := cfg.MeshWorkers
	if workers <= 0 {
		workers = max(1, runtime.NumCPU()-1)
	}
	s.rebuildPool = meshing.NewWorkerPool(workers, 64)
	return s, nil
}

func (s *Session) buildClouds() {
	defer profiling.Track("clouds.Build")()

	cc := s.Config.Clouds
	width, depth := s.Config.WorldWidth(), s.Config.WorldDepth()
	s.CloudMask = meshing.GenerateCloudMask(s.World.Generator().Noise(), cc, width, depth)
	s.CloudRects = s.CloudMask.GreedyRects()
	s.CloudMesh = meshing.BuildCloudMesh(s.CloudRects, width, depth, s.World.Center(), cc.Scale, cc.Height)
	log.Printf("clouds: %d covered cells merged into %d quads", s.CloudMask.Count(), len(s.CloudRects))
}

// ResetCamera places the camera above the island centre looking north
// and slightly down.
func (s *Session) ResetCamera() {
	center := s.World.Center()
	ground := s.World.Generator().HeightAt(int(center.X()), int(center.Z()))
	cam := s.Camera
	cam.Position = mgl32.Vec3{center.X(), float32(ground + spawnClearance), center.Z() + float32(s.Config.WorldDepth())/4}
	cam.Yaw = -90
	cam.Pitch = -20
	cam.FOV = config.GetFOV()
	cam.Far = float32(max(s.Config.WorldWidth(), s.Config.WorldDepth()))
}

// SetVoxel edits one voxel. Affected chunks are re-meshed by Rebuild.
func (s *Session) SetVoxel(wx, wy, wz int, v world.Voxel) bool {
	return s.World.SetVoxel(wx, wy, wz, v)
}

// Rebuild re-meshes every dirty chunk and returns how many were rebuilt.
func (s *Session) Rebuild() int {
	defer profiling.Track("meshing.RebuildDirty")()
	return s.rebuildPool.RebuildDirty(s.World)
}

// Close stops the rebuild workers. It is safe to call more than once.
func (s *Session) Close() {
	if s.rebuildPool != nil {
		s.rebuildPool.Shutdown()
	}
}

// Stats summarises the built world.
type Stats struct {
	Chunks       int
	EmptyChunks  int
	Vertices     int
	CloudCells   int
	CloudQuads   int
	VisibleCount int
}

// Stats counts chunks and vertices and how many non-empty chunks the
// current camera sees.
func (s *Session) Stats() Stats {
	st := Stats{
		CloudCells: s.CloudMask.Count(),
		CloudQuads: len(s.CloudRects),
	}
	frustum := s.Camera.Frustum()
	for _, c := range s.World.Chunks() {
		st.Chunks++
		if c.IsEmpty() {
			st.EmptyChunks++
		}
		n := c.VertexCount()
		st.Vertices += n
		if n > 0 && s.Camera.Sees(c.Center(), c.Radius(), frustum) {
			st.VisibleCount++
		}
	}
	return st
}
