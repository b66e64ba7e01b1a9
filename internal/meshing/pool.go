package meshing

import (
	"context"
	"sync"

	"mini-isle/internal/world"
)

// MeshJob represents a meshing job request
type MeshJob struct {
	World *world.World
	Chunk *world.Chunk
	// Result channel - will be sent the result when done
	ResultChan chan MeshResult
}

// MeshResult contains the result of a meshing operation
type MeshResult struct {
	Chunk    *world.Chunk
	Vertices []uint32 // Packed vertices
}

// WorkerPool manages goroutines that re-mesh chunks after edits.
type WorkerPool struct {
	jobQueue chan MeshJob
	workers  int
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewWorkerPool creates a new mesh worker pool
func NewWorkerPool(workers int, queueSize int) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())

	pool := &WorkerPool{
		jobQueue: make(chan MeshJob, queueSize),
		workers:  workers,
		ctx:      ctx,
		cancel:   cancel,
	}

	for i := range workers {
		pool.wg.Add(1)
		go pool.worker(i)
	}

	return pool
}

// SubmitJob submits a mesh generation job to the pool
// Returns true if job was submitted successfully, false if queue is full
func (p *WorkerPool) SubmitJob(job MeshJob) bool {
	select {
	case <-p.ctx.Done():
		return false
	default:
	}
	select {
	case p.jobQueue <- job:
		return true
	default:
		return false // Queue is full
	}
}

// SubmitJobBlocking blocks until the job is queued. It returns false if the
// pool shut down first.
func (p *WorkerPool) SubmitJobBlocking(job MeshJob) bool {
	select {
	case <-p.ctx.Done():
		return false
	default:
	}
	select {
	case p.jobQueue <- job:
		return true
	case <-p.ctx.Done():
		return false
	}
}

// worker is the worker goroutine that processes mesh jobs
func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobQueue:
			result := MeshResult{
				Chunk:    job.Chunk,
				Vertices: MeshChunk(job.World, job.Chunk),
			}

			select {
			case job.ResultChan <- result:
			case <-p.ctx.Done():
				return
			}

		case <-p.ctx.Done():
			return
		}
	}
}

// RebuildDirty re-meshes every dirty chunk of w and installs the results.
// It returns the number of chunks rebuilt.
func (p *WorkerPool) RebuildDirty(w *world.World) int {
	dirty := w.DirtyChunks()
	if len(dirty) == 0 {
		return 0
	}

	results := make(chan MeshResult, len(dirty))
	submitted := 0
	for _, c := range dirty {
		if !p.SubmitJobBlocking(MeshJob{World: w, Chunk: c, ResultChan: results}) {
			break
		}
		submitted++
	}

	rebuilt := 0
	for rebuilt < submitted {
		select {
		case r := <-results:
			r.Chunk.SetMesh(r.Vertices)
			rebuilt++
		case <-p.ctx.Done():
			return rebuilt
		}
	}
	return rebuilt
}

// Shutdown stops the workers and waits for them to exit. Queued jobs are
// dropped. It is safe to call more than once.
func (p *WorkerPool) Shutdown() {
	p.stopOnce.Do(func() {
		p.cancel()
		p.wg.Wait()
	})
}

// GetQueueLength returns the current number of jobs in the queue
func (p *WorkerPool) GetQueueLength() int {
	return len(p.jobQueue)
}
