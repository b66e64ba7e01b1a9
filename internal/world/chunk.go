package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Chunk is a cube of Size()^3 voxels plus its packed mesh.
// Voxels are addressed x fastest, then z, then y.
type Chunk struct {
	X, Y, Z int // chunk grid position

	size   int
	voxels []Voxel
	empty  bool
	dirty  bool

	center mgl32.Vec3
	radius float32

	mesh        []uint32
	meshVersion uint64
}

// NewChunk allocates an all-air chunk at the given grid position.
func NewChunk(x, y, z, size int) *Chunk {
	half := float32(size) / 2
	return &Chunk{
		X:      x,
		Y:      y,
		Z:      z,
		size:   size,
		voxels: make([]Voxel, size*size*size),
		empty:  true,
		dirty:  true,
		center: mgl32.Vec3{
			float32(x*size) + half,
			float32(y*size) + half,
			float32(z*size) + half,
		},
		radius: half * float32(math.Sqrt(3)),
	}
}

// Size returns the chunk edge length in voxels.
func (c *Chunk) Size() int {
	return c.size
}

// Index converts local coordinates to a flat voxel index.
func (c *Chunk) Index(x, y, z int) int {
	return x + c.size*z + c.size*c.size*y
}

// Coords is the inverse of Index.
func (c *Chunk) Coords(i int) (x, y, z int) {
	area := c.size * c.size
	y = i / area
	rem := i % area
	return rem % c.size, y, rem / c.size
}

func (c *Chunk) inBounds(x, y, z int) bool {
	return x >= 0 && x < c.size && y >= 0 && y < c.size && z >= 0 && z < c.size
}

// Get returns the voxel at local coordinates; outside the chunk is air.
func (c *Chunk) Get(x, y, z int) Voxel {
	if !c.inBounds(x, y, z) {
		return Air
	}
	return c.voxels[c.Index(x, y, z)]
}

// set writes a voxel without touching the empty or dirty flags.
// Generation uses it and calls refreshEmpty once at the end.
func (c *Chunk) set(x, y, z int, v Voxel) {
	if !c.inBounds(x, y, z) {
		return
	}
	c.voxels[c.Index(x, y, z)] = v
}

// Set writes a voxel and keeps the empty and dirty flags current.
// It reports whether the stored value changed.
func (c *Chunk) Set(x, y, z int, v Voxel) bool {
	if !c.inBounds(x, y, z) {
		return false
	}
	i := c.Index(x, y, z)
	old := c.voxels[i]
	if old == v {
		return false
	}
	c.voxels[i] = v
	c.dirty = true
	if v != Air {
		c.empty = false
	} else if !c.empty {
		c.refreshEmpty()
	}
	return true
}

func (c *Chunk) refreshEmpty() {
	for _, v := range c.voxels {
		if v != Air {
			c.empty = false
			return
		}
	}
	c.empty = true
}

// IsEmpty reports whether every voxel is air.
func (c *Chunk) IsEmpty() bool {
	return c.empty
}

// IsDirty returns whether the mesh is stale.
func (c *Chunk) IsDirty() bool {
	return c.dirty
}

// MarkDirty flags the mesh for rebuild.
func (c *Chunk) MarkDirty() {
	c.dirty = true
}

// Origin returns the world coordinates of local voxel (0,0,0).
func (c *Chunk) Origin() (x, y, z int) {
	return c.X * c.size, c.Y * c.size, c.Z * c.size
}

// ModelOrigin is Origin as a translation vector for the renderer.
func (c *Chunk) ModelOrigin() mgl32.Vec3 {
	x, y, z := c.Origin()
	return mgl32.Vec3{float32(x), float32(y), float32(z)}
}

// Center returns the world-space center of the bounding sphere.
func (c *Chunk) Center() mgl32.Vec3 {
	return c.center
}

// Radius returns the bounding sphere radius, (size/2)*sqrt(3).
func (c *Chunk) Radius() float32 {
	return c.radius
}

// SetMesh replaces the packed vertex list and clears the dirty flag.
func (c *Chunk) SetMesh(vertices []uint32) {
	c.mesh = vertices
	c.meshVersion++
	c.dirty = false
}

// Mesh returns the packed vertex list.
func (c *Chunk) Mesh() []uint32 {
	return c.mesh
}

// MeshVersion increases every time SetMesh is called.
func (c *Chunk) MeshVersion() uint64 {
	return c.meshVersion
}

// VertexCount is the draw count, three per emitted triangle.
func (c *Chunk) VertexCount() int {
	return len(c.mesh)
}
