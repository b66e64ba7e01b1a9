// Package atlas builds the CPU-side images uploaded as textures: one
// tile per voxel material and a baked glyph sheet for the overlay.
package atlas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"mini-isle/internal/world"
)

// DefaultTileSize is the edge of one material tile in pixels.
const DefaultTileSize = 16

// Base colours of the procedural tiles, indexed by material id.
var palette = [world.MaterialCount]color.RGBA{
	world.Air:    {0, 0, 0, 0},
	world.Sand:   {219, 207, 163, 255},
	world.Grass:  {96, 159, 62, 255},
	world.Dirt:   {134, 96, 67, 255},
	world.Stone:  {125, 125, 125, 255},
	world.Snow:   {240, 244, 250, 255},
	world.Leaves: {58, 120, 40, 255},
	world.Wood:   {102, 81, 50, 255},
}

// Materials is a stack of square tiles, one layer per material id, meant
// for a 2D array texture.
type Materials struct {
	TileSize int
	Layers   []*image.RGBA
}

// Procedural returns speckled solid-colour tiles. The speckle pattern is
// fixed so repeated runs produce identical textures.
func Procedural(tileSize int) *Materials {
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	m := &Materials{TileSize: tileSize, Layers: make([]*image.RGBA, world.MaterialCount)}
	for id := range world.MaterialCount {
		m.Layers[id] = speckledTile(tileSize, palette[id], uint64(id))
	}
	return m
}

func speckledTile(size int, base color.RGBA, seed uint64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	rng := rand.New(rand.NewPCG(seed, 0x5eed))
	for y := range size {
		for x := range size {
			shade := 0.85 + 0.3*rng.Float64()
			img.SetRGBA(x, y, color.RGBA{
				R: scaleChannel(base.R, shade),
				G: scaleChannel(base.G, shade),
				B: scaleChannel(base.B, shade),
				A: base.A,
			})
		}
	}
	return img
}

func scaleChannel(c uint8, f float64) uint8 {
	return uint8(min(255, float64(c)*f))
}

// Load builds the procedural tiles, then replaces every material that has
// a "<name>.png" file in dir. Images of any size are scaled to the tile
// size with nearest-neighbour sampling. A missing dir is not an error.
func Load(dir string, tileSize int) (*Materials, error) {
	m := Procedural(tileSize)
	if dir == "" {
		return m, nil
	}
	for id := 1; id < world.MaterialCount; id++ {
		path := filepath.Join(dir, world.Voxel(id).String()+".png")
		img, err := decodeFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		m.Layers[id] = Scale(img, m.TileSize)
	}
	return m, nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return img, nil
}

// Scale resamples src into a size x size RGBA image.
func Scale(src image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Pix concatenates the layers into one buffer ready for a 3D texture upload.
func (m *Materials) Pix() []byte {
	layer := m.TileSize * m.TileSize * 4
	out := make([]byte, 0, layer*len(m.Layers))
	for _, l := range m.Layers {
		out = append(out, l.Pix...)
	}
	return out
}
