package meshing

import (
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/alitto/pond/v2"

	"mini-isle/internal/profiling"
	"mini-isle/internal/world"
)

// BuildAll meshes every chunk of w in parallel. It must run after the
// world is fully generated since faces and AO read neighbouring chunks.
// workers <= 0 uses GOMAXPROCS.
func BuildAll(w *world.World, workers int) {
	defer profiling.Track("meshing.BuildAll")()
	start := time.Now()

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	pool := pond.NewPool(workers)
	defer pool.StopAndWait()

	chunks := w.Chunks()
	var wg sync.WaitGroup
	for _, c := range chunks {
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			c.SetMesh(MeshChunk(w, c))
		})
	}
	wg.Wait()

	vertices := 0
	for _, c := range chunks {
		vertices += c.VertexCount()
	}
	log.Printf("meshed %d chunks (%d vertices) in %v", len(chunks), vertices, time.Since(start))
}
