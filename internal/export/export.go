// Package export writes chunk meshes to a compressed dump for offline
// inspection. Voxels are not stored; a dump cannot rebuild a world.
package export

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"mini-isle/internal/world"
)

var magic = [4]byte{'V', 'X', 'M', '1'}

// MaxChunkSize is the largest chunk edge a dump may declare. Packed vertex
// positions hold 0..63.
const MaxChunkSize = 63

// ErrBadMagic is returned when a stream is not a mesh dump.
var ErrBadMagic = errors.New("export: not a mesh dump")

type header struct {
	Magic     [4]byte
	ChunkSize uint16
	Count     uint32
}

type chunkHeader struct {
	X, Y, Z  int16
	Vertices uint32
}

// ChunkMesh is one chunk's grid position and packed vertices.
type ChunkMesh struct {
	X, Y, Z  int
	Vertices []uint32
}

// Dump is the decoded content of a mesh dump.
type Dump struct {
	ChunkSize int
	Chunks    []ChunkMesh
}

// VertexCount sums the vertices of every chunk.
func (d *Dump) VertexCount() int {
	n := 0
	for _, c := range d.Chunks {
		n += len(c.Vertices)
	}
	return n
}

// FromWorld collects every chunk with a non-empty mesh.
func FromWorld(w *world.World) Dump {
	d := Dump{ChunkSize: w.ChunkSize()}
	for _, c := range w.Chunks() {
		if c.VertexCount() == 0 {
			continue
		}
		d.Chunks = append(d.Chunks, ChunkMesh{X: c.X, Y: c.Y, Z: c.Z, Vertices: c.Mesh()})
	}
	return d
}

// WriteMeshes encodes d as a zstd stream: header, then per chunk its
// position, vertex count and little-endian vertices.
func WriteMeshes(out io.Writer, d Dump) (err error) {
	enc, err := zstd.NewWriter(out)
	if err != nil {
		return fmt.Errorf("export: zstd writer: %w", err)
	}
	defer func() {
		if cerr := enc.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("export: flush: %w", cerr)
		}
	}()

	h := header{Magic: magic, ChunkSize: uint16(d.ChunkSize), Count: uint32(len(d.Chunks))}
	if err = binary.Write(enc, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("export: header: %w", err)
	}
	for _, c := range d.Chunks {
		ch := chunkHeader{X: int16(c.X), Y: int16(c.Y), Z: int16(c.Z), Vertices: uint32(len(c.Vertices))}
		if err = binary.Write(enc, binary.LittleEndian, ch); err != nil {
			return fmt.Errorf("export: chunk (%d,%d,%d): %w", c.X, c.Y, c.Z, err)
		}
		if err = binary.Write(enc, binary.LittleEndian, c.Vertices); err != nil {
			return fmt.Errorf("export: chunk (%d,%d,%d) vertices: %w", c.X, c.Y, c.Z, err)
		}
	}
	return nil
}

// ReadMeshes decodes a stream written by WriteMeshes.
func ReadMeshes(in io.Reader) (*Dump, error) {
	dec, err := zstd.NewReader(in)
	if err != nil {
		return nil, fmt.Errorf("export: zstd reader: %w", err)
	}
	defer dec.Close()

	var h header
	if err := binary.Read(dec, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("export: header: %w", err)
	}
	if h.Magic != magic {
		return nil, ErrBadMagic
	}

	if h.ChunkSize < 1 || h.ChunkSize > MaxChunkSize {
		return nil, fmt.Errorf("export: chunk size %d outside [1,%d]", h.ChunkSize, MaxChunkSize)
	}

	// Every voxel of a chunk can emit at most six quads.
	s := int(h.ChunkSize)
	maxVertices := uint32(s * s * s * 36)

	// Count comes from the stream; grow as chunks actually decode.
	d := &Dump{ChunkSize: s, Chunks: make([]ChunkMesh, 0, min(h.Count, 64))}
	for i := range h.Count {
		var ch chunkHeader
		if err := binary.Read(dec, binary.LittleEndian, &ch); err != nil {
			return nil, fmt.Errorf("export: chunk %d: %w", i, err)
		}
		if ch.Vertices > maxVertices {
			return nil, fmt.Errorf("export: chunk %d claims %d vertices", i, ch.Vertices)
		}
		vertices := make([]uint32, ch.Vertices)
		if err := binary.Read(dec, binary.LittleEndian, vertices); err != nil {
			return nil, fmt.Errorf("export: chunk %d vertices: %w", i, err)
		}
		d.Chunks = append(d.Chunks, ChunkMesh{X: int(ch.X), Y: int(ch.Y), Z: int(ch.Z), Vertices: vertices})
	}
	return d, nil
}

// WriteFile dumps the meshes of w to path.
func WriteFile(path string, w *world.World) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := WriteMeshes(f, FromWorld(w)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile loads a dump from path.
func ReadFile(path string) (*Dump, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	defer f.Close()
	return ReadMeshes(f)
}
