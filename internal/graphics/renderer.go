package graphics

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"mini-isle/internal/camera"
	"mini-isle/internal/config"
	"mini-isle/internal/graphics/atlas"
	"mini-isle/internal/profiling"
	"mini-isle/internal/world"
)

var skyColor = mgl32.Vec3{0.53, 0.81, 0.92}

// FrameStats summarises one rendered frame.
type FrameStats struct {
	Visible  int
	Culled   int
	Vertices int
}

// Renderer draws the world chunks, the cloud layer and the text overlay.
type Renderer struct {
	chunkShader *Shader
	cloudShader *Shader
	atlasTex    uint32

	chunks []*ChunkMesh
	clouds *CloudMesh
	text   *TextRenderer
}

// NewRenderer compiles the shaders, uploads textures and allocates one
// GPU mesh per chunk. It must run on the GL thread.
func NewRenderer(w *world.World, clouds []mgl32.Vec3, materials *atlas.Materials, glyphs *atlas.Glyphs, width, height int) (*Renderer, error) {
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	chunkShader, err := LoadShader("chunk")
	if err != nil {
		return nil, err
	}
	cloudShader, err := LoadShader("cloud")
	if err != nil {
		chunkShader.Delete()
		return nil, err
	}
	text, err := NewTextRenderer(glyphs, width, height)
	if err != nil {
		chunkShader.Delete()
		cloudShader.Delete()
		return nil, err
	}

	r := &Renderer{
		chunkShader: chunkShader,
		cloudShader: cloudShader,
		atlasTex:    UploadMaterials(materials),
		clouds:      NewCloudMesh(clouds),
		text:        text,
	}
	r.clouds.Init()
	for _, c := range w.Chunks() {
		m := NewChunkMesh(c)
		m.Init()
		r.chunks = append(r.chunks, m)
	}
	return r, nil
}

// SetViewport updates the GL viewport and overlay projection.
func (r *Renderer) SetViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	r.text.SetViewport(width, height)
}

// Render draws one frame from cam and returns culling statistics.
func (r *Renderer) Render(cam *camera.Camera) FrameStats {
	gl.ClearColor(skyColor.X(), skyColor.Y(), skyColor.Z(), 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	view := cam.ViewMatrix()
	projection := cam.ProjectionMatrix()

	stats := r.renderChunks(cam, view, projection)
	if config.GetCloudsShown() {
		r.renderClouds(cam, view, projection)
	}
	return stats
}

func (r *Renderer) renderChunks(cam *camera.Camera, view, projection mgl32.Mat4) FrameStats {
	defer profiling.Track("render.chunks")()

	if config.GetWireframe() {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		defer gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	s := r.chunkShader
	s.Use()
	s.SetMatrix4("view", &view[0])
	s.SetMatrix4("projection", &projection[0])
	s.SetVector3("fogColor", skyColor.X(), skyColor.Y(), skyColor.Z())
	s.SetFloat("fogFar", cam.Far)
	s.SetInt("atlas", 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, r.atlasTex)

	frustum := cam.Frustum()
	forward, up, right := cam.Forward(), cam.Up(), cam.Right()

	var stats FrameStats
	for _, m := range r.chunks {
		m.Update()
		if m.VertexCount() == 0 {
			continue
		}
		c := m.chunk
		if !camera.IsVisible(c.Center(), c.Radius(), cam.Position, forward, up, right, frustum) {
			stats.Culled++
			continue
		}
		m.Attach(s)
		m.Draw()
		stats.Visible++
		stats.Vertices += m.VertexCount()
	}
	gl.BindVertexArray(0)
	return stats
}

func (r *Renderer) renderClouds(cam *camera.Camera, view, projection mgl32.Mat4) {
	defer profiling.Track("render.clouds")()

	r.clouds.Update()

	s := r.cloudShader
	s.Use()
	s.SetMatrix4("view", &view[0])
	s.SetMatrix4("projection", &projection[0])
	s.SetVector3("fogColor", skyColor.X(), skyColor.Y(), skyColor.Z())
	s.SetFloat("fogFar", cam.Far)

	// Visible from above and below.
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	r.clouds.Attach(s)
	r.clouds.Draw()
	gl.BindVertexArray(0)
	gl.Disable(gl.BLEND)
	gl.Enable(gl.CULL_FACE)
}

// RenderOverlay draws text lines in the top-left corner.
func (r *Renderer) RenderOverlay(lines []string) {
	defer profiling.Track("render.overlay")()
	r.text.RenderLines(lines, 8, 20, 18, 1, mgl32.Vec3{1, 1, 1})
}

// Dispose releases every GL resource.
func (r *Renderer) Dispose() {
	for _, m := range r.chunks {
		m.Dispose()
	}
	r.clouds.Dispose()
	r.text.Dispose()
	gl.DeleteTextures(1, &r.atlasTex)
	r.chunkShader.Delete()
	r.cloudShader.Delete()
}
