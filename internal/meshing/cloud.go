package meshing

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/willf/bitset"

	"mini-isle/internal/config"
	"mini-isle/internal/world"
)

// CloudMask is a width x depth coverage grid, row-major with z outer.
type CloudMask struct {
	width, depth int
	bits         *bitset.BitSet
}

// NewCloudMask returns an empty mask.
func NewCloudMask(width, depth int) *CloudMask {
	return &CloudMask{
		width: width,
		depth: depth,
		bits:  bitset.New(uint(width * depth)),
	}
}

// GenerateCloudMask marks every cell whose noise sample reaches the
// configured threshold.
func GenerateCloudMask(noise *world.NoiseField, cfg config.CloudConfig, width, depth int) *CloudMask {
	m := NewCloudMask(width, depth)
	for z := range depth {
		for x := range width {
			if noise.Simplex2(cfg.Frequency*float64(x), cfg.Frequency*float64(z)) >= cfg.Threshold {
				m.Set(x, z)
			}
		}
	}
	return m
}

func (m *CloudMask) index(x, z int) uint {
	return uint(x + z*m.width)
}

// Width returns the mask extent along x.
func (m *CloudMask) Width() int { return m.width }

// Depth returns the mask extent along z.
func (m *CloudMask) Depth() int { return m.depth }

// Set marks a cell as covered.
func (m *CloudMask) Set(x, z int) {
	if x < 0 || x >= m.width || z < 0 || z >= m.depth {
		return
	}
	m.bits.Set(m.index(x, z))
}

// Covered reports whether a cell is covered. Cells outside the mask are not.
func (m *CloudMask) Covered(x, z int) bool {
	if x < 0 || x >= m.width || z < 0 || z >= m.depth {
		return false
	}
	return m.bits.Test(m.index(x, z))
}

// Count returns the number of covered cells.
func (m *CloudMask) Count() int {
	return int(m.bits.Count())
}

// Rect is an axis-aligned run of covered mask cells.
type Rect struct {
	X, Z         int
	Width, Depth int
}

// GreedyRects covers the mask with disjoint rectangles. From each unvisited
// covered cell it takes the longest x run, then the shortest z run under
// that x run. The cover is greedy, not minimal.
func (m *CloudMask) GreedyRects() []Rect {
	visited := bitset.New(uint(m.width * m.depth))
	open := func(x, z int) bool {
		i := m.index(x, z)
		return m.bits.Test(i) && !visited.Test(i)
	}

	var rects []Rect
	for z := range m.depth {
		for x := range m.width {
			if !open(x, z) {
				continue
			}

			xCont := 0
			for x+xCont < m.width && open(x+xCont, z) {
				xCont++
			}

			zCont := m.depth - z
			for dx := range xCont {
				k := 0
				for z+k < m.depth && k < zCont && open(x+dx, z+k) {
					k++
				}
				zCont = min(zCont, k)
			}

			for dz := range zCont {
				for dx := range xCont {
					visited.Set(m.index(x+dx, z+dz))
				}
			}
			rects = append(rects, Rect{X: x, Z: z, Width: xCont, Depth: zCont})
		}
	}
	return rects
}

// BuildCloudMesh turns rectangles into a flat triangle list at the given
// height. Each mask cell spans scale world units and the mask is centered
// on center's x and z.
func BuildCloudMesh(rects []Rect, maskWidth, maskDepth int, center mgl32.Vec3, scale, height float32) []mgl32.Vec3 {
	halfW := float32(maskWidth) / 2
	halfD := float32(maskDepth) / 2
	toWorld := func(x, z int) mgl32.Vec3 {
		return mgl32.Vec3{
			center.X() + (float32(x)-halfW)*scale,
			height,
			center.Z() + (float32(z)-halfD)*scale,
		}
	}

	vertices := make([]mgl32.Vec3, 0, len(rects)*6)
	for _, r := range rects {
		p00 := toWorld(r.X, r.Z)
		p10 := toWorld(r.X+r.Width, r.Z)
		p11 := toWorld(r.X+r.Width, r.Z+r.Depth)
		p01 := toWorld(r.X, r.Z+r.Depth)
		// Counter-clockwise seen from above.
		vertices = append(vertices, p00, p01, p11, p00, p11, p10)
	}
	return vertices
}
