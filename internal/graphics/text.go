package graphics

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"mini-isle/internal/graphics/atlas"
)

// TextRenderer draws overlay text from a baked glyph sheet.
type TextRenderer struct {
	glyphs     *atlas.Glyphs
	texture    uint32
	shader     *Shader
	projection mgl32.Mat4
	vao        uint32
	vbo        uint32
}

func NewTextRenderer(glyphs *atlas.Glyphs, width, height int) (*TextRenderer, error) {
	shader, err := LoadShader("text")
	if err != nil {
		return nil, err
	}
	tr := &TextRenderer{
		glyphs:  glyphs,
		texture: UploadGlyphs(glyphs),
		shader:  shader,
	}
	tr.SetViewport(width, height)

	gl.GenVertexArrays(1, &tr.vao)
	gl.GenBuffers(1, &tr.vbo)
	gl.BindVertexArray(tr.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, tr.vbo)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 4, gl.FLOAT, false, 4*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return tr, nil
}

// SetViewport sets the pixel space text is laid out in.
func (tr *TextRenderer) SetViewport(width, height int) {
	tr.projection = mgl32.Ortho(0, float32(width), float32(height), 0, 0, 1)
}

// RenderLines draws lines top-down from (x, yStart) in one draw call.
func (tr *TextRenderer) RenderLines(lines []string, x, yStart, lineStep, scale float32, color mgl32.Vec3) {
	var vertices []float32
	y := yStart
	for _, line := range lines {
		vertices = append(vertices, tr.glyphs.Layout(line, x, y, scale)...)
		y += lineStep
	}
	if len(vertices) == 0 {
		return
	}

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	tr.shader.Use()
	tr.shader.SetVector3("textColor", color.X(), color.Y(), color.Z())
	tr.shader.SetMatrix4("projection", &tr.projection[0])
	tr.shader.SetInt("glyphs", 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tr.texture)

	gl.BindVertexArray(tr.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, tr.vbo)
	// Orphan then fill to avoid stalls on dynamic updates
	size := len(vertices) * 4
	gl.BufferData(gl.ARRAY_BUFFER, size, nil, gl.DYNAMIC_DRAW)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, gl.Ptr(vertices))
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(vertices)/4))
	gl.BindVertexArray(0)

	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
}

func (tr *TextRenderer) Dispose() {
	gl.DeleteBuffers(1, &tr.vbo)
	gl.DeleteVertexArrays(1, &tr.vao)
	gl.DeleteTextures(1, &tr.texture)
	tr.shader.Delete()
}
