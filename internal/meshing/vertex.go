package meshing

import "mini-isle/internal/world"

// VertexStride is the size in bytes of one packed vertex.
const VertexStride = 4

// Face identifies one of the six cube faces. The values are part of the
// packed vertex format and are read by the chunk shader.
type Face uint8

const (
	FaceTop    Face = iota // +Y
	FaceBottom             // -Y
	FaceRight              // +X
	FaceLeft               // -X
	FaceBack               // -Z
	FaceFront              // +Z
)

// Bit layout of a packed vertex, low to high:
//
//	flip:1 ao:2 face:3 material:8 z:6 y:6 x:6
const (
	flipShift     = 0
	aoShift       = 1
	faceShift     = 3
	materialShift = 6
	zShift        = 14
	yShift        = 20
	xShift        = 26

	aoMask       = 0x3
	faceMask     = 0x7
	materialMask = 0xFF
	posMask      = 0x3F
)

// Vertex is a chunk vertex packed into one 32-bit word.
type Vertex uint32

// VertexAttribs is the unpacked form of a Vertex. X, Y and Z are voxel
// corner coordinates local to the chunk.
type VertexAttribs struct {
	X, Y, Z  uint8
	Material world.Voxel
	Face     Face
	AO       uint8
	Flip     bool
}

// PackVertex encodes attributes into the 32-bit layout. Out-of-range
// fields are masked to their bit width.
func PackVertex(a VertexAttribs) Vertex {
	v := uint32(a.X&posMask)<<xShift |
		uint32(a.Y&posMask)<<yShift |
		uint32(a.Z&posMask)<<zShift |
		uint32(a.Material)<<materialShift |
		uint32(a.Face&faceMask)<<faceShift |
		uint32(a.AO&aoMask)<<aoShift
	if a.Flip {
		v |= 1 << flipShift
	}
	return Vertex(v)
}

// Unpack decodes a packed vertex.
func (v Vertex) Unpack() VertexAttribs {
	u := uint32(v)
	return VertexAttribs{
		X:        uint8(u >> xShift & posMask),
		Y:        uint8(u >> yShift & posMask),
		Z:        uint8(u >> zShift & posMask),
		Material: world.Voxel(u >> materialShift & materialMask),
		Face:     Face(u >> faceShift & faceMask),
		AO:       uint8(u >> aoShift & aoMask),
		Flip:     u>>flipShift&1 == 1,
	}
}
