package world

const (
	treeTrunkHeight = 5
	treeCanopyStart = 3 // first leaf layer, relative to the ground voxel
	treeRadius      = 2
)

// Leaf layer extents from the bottom of the canopy upward. A single leaf
// caps the tree one layer above the last entry.
var treeCanopy = [...]int{1, 2, 2, 1}

// TreeHeight is the number of layers a tree occupies, ground voxel included.
const TreeHeight = treeCanopyStart + len(treeCanopy) + 1

// PlaceTree grows a tree on the ground voxel at local (x,y,z) and reports
// whether it fit. The whole tree must sit inside the chunk without touching
// its faces, so trees never span chunks.
func PlaceTree(c *Chunk, x, y, z int) bool {
	size := c.Size()
	top := y + TreeHeight - 1
	if x-treeRadius < 1 || x+treeRadius > size-2 ||
		z-treeRadius < 1 || z+treeRadius > size-2 ||
		y < 1 || top > size-2 {
		return false
	}

	c.set(x, y, z, Dirt)
	for i := 1; i <= treeTrunkHeight; i++ {
		c.set(x, y+i, z, Wood)
	}

	for layer, r := range treeCanopy {
		ly := y + treeCanopyStart + layer
		for iz := -r; iz <= r; iz++ {
			for ix := -r; ix <= r; ix++ {
				onRing := abs(ix) == r || abs(iz) == r
				if onRing && r > 1 && (ix+iz)%4 == 0 {
					continue
				}
				if c.Get(x+ix, ly, z+iz) != Air {
					continue
				}
				c.set(x+ix, ly, z+iz, Leaves)
			}
		}
	}
	c.set(x, top, z, Leaves)
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
