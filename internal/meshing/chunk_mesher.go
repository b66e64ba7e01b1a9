package meshing

import (
	"mini-isle/internal/world"
)

// faceDef describes one cube face. u and v span the face plane with
// u x v = normal, so corners visited (-,-) (+,-) (+,+) (-,+) wind
// counter-clockwise seen from outside.
type faceDef struct {
	face   Face
	normal [3]int
	u, v   [3]int
}

var faceDefs = [6]faceDef{
	{FaceTop, [3]int{0, 1, 0}, [3]int{0, 0, 1}, [3]int{1, 0, 0}},
	{FaceBottom, [3]int{0, -1, 0}, [3]int{1, 0, 0}, [3]int{0, 0, 1}},
	{FaceRight, [3]int{1, 0, 0}, [3]int{0, 1, 0}, [3]int{0, 0, 1}},
	{FaceLeft, [3]int{-1, 0, 0}, [3]int{0, 0, 1}, [3]int{0, 1, 0}},
	{FaceBack, [3]int{0, 0, -1}, [3]int{0, 1, 0}, [3]int{1, 0, 0}},
	{FaceFront, [3]int{0, 0, 1}, [3]int{1, 0, 0}, [3]int{0, 1, 0}},
}

// Corner signs along (u, v) in winding order.
var cornerSigns = [4][2]int{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

// Corner order of the two triangles, without and with the flip.
var (
	quadOrder        = [6]int{0, 1, 2, 0, 2, 3}
	quadOrderFlipped = [6]int{1, 2, 3, 1, 3, 0}
)

// MeshChunk builds the packed triangle list of a chunk. Every solid voxel
// face whose neighbour is empty (world edges included) becomes a quad of
// two triangles with per-corner ambient occlusion.
func MeshChunk(w *world.World, c *world.Chunk) []uint32 {
	if c == nil || c.IsEmpty() {
		return nil
	}

	m := chunkMesher{w: w, c: c}
	m.ox, m.oy, m.oz = c.Origin()
	size := c.Size()
	vertices := make([]uint32, 0, 1024)

	for y := range size {
		for z := range size {
			for x := range size {
				material := c.Get(x, y, z)
				if material == world.Air {
					continue
				}
				for i := range faceDefs {
					fd := &faceDefs[i]
					if !m.empty(x+fd.normal[0], y+fd.normal[1], z+fd.normal[2]) {
						continue
					}
					vertices = m.appendQuad(vertices, fd, x, y, z, material)
				}
			}
		}
	}
	return vertices
}

type chunkMesher struct {
	w          *world.World
	c          *world.Chunk
	ox, oy, oz int
}

// empty tests a cell given in chunk-local coordinates, which may lie in a
// neighbouring chunk.
func (m *chunkMesher) empty(lx, ly, lz int) bool {
	return m.w.VoxelIsEmpty(lx, ly, lz, m.ox+lx, m.oy+ly, m.oz+lz)
}

func b2i(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// cornerAO counts the open cells around one corner in the layer just
// outside the face: both edge neighbours and the diagonal.
func (m *chunkMesher) cornerAO(fd *faceDef, x, y, z, su, sv int) uint8 {
	// Cell in front of the face.
	px := x + fd.normal[0]
	py := y + fd.normal[1]
	pz := z + fd.normal[2]

	ux, uy, uz := su*fd.u[0], su*fd.u[1], su*fd.u[2]
	vx, vy, vz := sv*fd.v[0], sv*fd.v[1], sv*fd.v[2]

	side1 := m.empty(px+ux, py+uy, pz+uz)
	side2 := m.empty(px+vx, py+vy, pz+vz)
	diag := m.empty(px+ux+vx, py+uy+vy, pz+uz+vz)
	return b2i(side1) + b2i(side2) + b2i(diag)
}

// FaceAO returns the four corner AO values of a quad, in winding order.
func FaceAO(w *world.World, c *world.Chunk, face Face, x, y, z int) [4]uint8 {
	m := chunkMesher{w: w, c: c}
	m.ox, m.oy, m.oz = c.Origin()
	fd := &faceDefs[face]
	var ao [4]uint8
	for i, s := range cornerSigns {
		ao[i] = m.cornerAO(fd, x, y, z, s[0], s[1])
	}
	return ao
}

// ShouldFlip reports whether a quad is split along the 1-3 diagonal.
func ShouldFlip(ao [4]uint8) bool {
	return ao[1]+ao[3] > ao[0]+ao[2]
}

func (m *chunkMesher) appendQuad(dst []uint32, fd *faceDef, x, y, z int, material world.Voxel) []uint32 {
	var ao [4]uint8
	var corners [4][3]int

	// Voxel corner at the min end of every axis, pushed onto the face plane.
	bx, by, bz := x, y, z
	if fd.normal[0] > 0 {
		bx++
	}
	if fd.normal[1] > 0 {
		by++
	}
	if fd.normal[2] > 0 {
		bz++
	}

	for i, s := range cornerSigns {
		su, sv := s[0], s[1]
		ao[i] = m.cornerAO(fd, x, y, z, su, sv)

		cx, cy, cz := bx, by, bz
		if su > 0 {
			cx += fd.u[0]
			cy += fd.u[1]
			cz += fd.u[2]
		}
		if sv > 0 {
			cx += fd.v[0]
			cy += fd.v[1]
			cz += fd.v[2]
		}
		corners[i] = [3]int{cx, cy, cz}
	}

	flip := ShouldFlip(ao)
	order := quadOrder
	if flip {
		order = quadOrderFlipped
	}
	for _, ci := range order {
		p := corners[ci]
		dst = append(dst, uint32(PackVertex(VertexAttribs{
			X:        uint8(p[0]),
			Y:        uint8(p[1]),
			Z:        uint8(p[2]),
			Material: material,
			Face:     fd.face,
			AO:       ao[ci],
			Flip:     flip,
		})))
	}
	return dst
}
