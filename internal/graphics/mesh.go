package graphics

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"mini-isle/internal/meshing"
	"mini-isle/internal/world"
)

// Mesh is a drawable GPU resource.
type Mesh interface {
	// Init allocates GL objects. It must run on the GL thread.
	Init()
	// Update uploads new vertex data if the source changed.
	Update()
	// Attach binds the mesh's vertex array and per-mesh uniforms.
	Attach(s *Shader)
	Draw()
	Dispose()
}

// ChunkMesh mirrors a chunk's packed vertex buffer on the GPU.
type ChunkMesh struct {
	chunk   *world.Chunk
	model   mgl32.Mat4
	vao     uint32
	vbo     uint32
	count   int32
	version uint64
	loaded  bool
}

// NewChunkMesh wraps a chunk. Call Init before use.
func NewChunkMesh(c *world.Chunk) *ChunkMesh {
	o := c.ModelOrigin()
	return &ChunkMesh{
		chunk: c,
		model: mgl32.Translate3D(o.X(), o.Y(), o.Z()),
	}
}

func (m *ChunkMesh) Init() {
	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)

	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.EnableVertexAttribArray(0)
	// One packed uint32 per vertex, read as an integer attribute.
	gl.VertexAttribIPointer(0, 1, gl.UNSIGNED_INT, meshing.VertexStride, gl.PtrOffset(0))
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (m *ChunkMesh) Update() {
	v := m.chunk.MeshVersion()
	if m.loaded && v == m.version {
		return
	}
	vertices := m.chunk.Mesh()
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	if len(vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*meshing.VertexStride, gl.Ptr(vertices), gl.STATIC_DRAW)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	m.count = int32(len(vertices))
	m.version = v
	m.loaded = true
}

func (m *ChunkMesh) Attach(s *Shader) {
	s.SetMatrix4("model", &m.model[0])
	gl.BindVertexArray(m.vao)
}

func (m *ChunkMesh) Draw() {
	if m.count == 0 {
		return
	}
	gl.DrawArrays(gl.TRIANGLES, 0, m.count)
}

func (m *ChunkMesh) Dispose() {
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteVertexArrays(1, &m.vao)
}

// VertexCount returns the number of vertices currently on the GPU.
func (m *ChunkMesh) VertexCount() int {
	return int(m.count)
}

// CloudMesh draws the static cloud layer.
type CloudMesh struct {
	vertices []mgl32.Vec3
	vao      uint32
	vbo      uint32
	count    int32
	dirty    bool
}

func NewCloudMesh(vertices []mgl32.Vec3) *CloudMesh {
	return &CloudMesh{vertices: vertices, dirty: true}
}

func (m *CloudMesh) Init() {
	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)

	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, gl.PtrOffset(0))
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// SetVertices replaces the cloud geometry; it is uploaded on the next Update.
func (m *CloudMesh) SetVertices(vertices []mgl32.Vec3) {
	m.vertices = vertices
	m.dirty = true
}

func (m *CloudMesh) Update() {
	if !m.dirty {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	if len(m.vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(m.vertices)*3*4, gl.Ptr(&m.vertices[0][0]), gl.STATIC_DRAW)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	m.count = int32(len(m.vertices))
	m.dirty = false
}

func (m *CloudMesh) Attach(s *Shader) {
	gl.BindVertexArray(m.vao)
}

func (m *CloudMesh) Draw() {
	if m.count == 0 {
		return
	}
	gl.DrawArrays(gl.TRIANGLES, 0, m.count)
}

func (m *CloudMesh) Dispose() {
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteVertexArrays(1, &m.vao)
}
