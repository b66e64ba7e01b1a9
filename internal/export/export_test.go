package export

import (
	"bytes"
	"encoding/binary"
	"errors"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"

	"mini-isle/internal/config"
	"mini-isle/internal/meshing"
	"mini-isle/internal/world"
)

func builtWorld(t *testing.T) *world.World {
	t.Helper()
	cfg := config.Default()
	cfg.Seed = 7
	cfg.ChunkSize = 16
	cfg.ChunksX, cfg.ChunksY, cfg.ChunksZ = 3, 2, 3
	cfg.Workers = 2
	w, err := world.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	meshing.BuildAll(w, 2)
	return w
}

func TestWriteReadFile(t *testing.T) {
	w := builtWorld(t)
	path := filepath.Join(t.TempDir(), "meshes.vxm")
	if err := WriteFile(path, w); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	d, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	want := FromWorld(w)
	if d.ChunkSize != 16 || len(d.Chunks) != len(want.Chunks) {
		t.Fatalf("got size %d with %d chunks, want 16 with %d", d.ChunkSize, len(d.Chunks), len(want.Chunks))
	}
	if len(want.Chunks) == 0 {
		t.Fatalf("world produced no meshes")
	}
	for i, c := range d.Chunks {
		wc := want.Chunks[i]
		if c.X != wc.X || c.Y != wc.Y || c.Z != wc.Z {
			t.Fatalf("chunk %d at (%d,%d,%d), want (%d,%d,%d)", i, c.X, c.Y, c.Z, wc.X, wc.Y, wc.Z)
		}
		if len(c.Vertices) != len(wc.Vertices) {
			t.Fatalf("chunk %d has %d vertices, want %d", i, len(c.Vertices), len(wc.Vertices))
		}
		for j := range c.Vertices {
			if c.Vertices[j] != wc.Vertices[j] {
				t.Fatalf("chunk %d vertex %d differs", i, j)
			}
		}
	}
	if d.VertexCount() != want.VertexCount() {
		t.Fatalf("vertex totals differ")
	}
}

func TestReadMeshesBadMagic(t *testing.T) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	enc.Write([]byte("NOPE0000000000"))
	enc.Close()

	if _, err := ReadMeshes(&buf); !errors.Is(err, ErrBadMagic) {
		t.Fatalf("got %v, want ErrBadMagic", err)
	}
}

func TestReadMeshesTruncated(t *testing.T) {
	var buf bytes.Buffer
	d := Dump{ChunkSize: 8, Chunks: []ChunkMesh{{X: 1, Vertices: []uint32{1, 2, 3}}}}
	if err := WriteMeshes(&buf, d); err != nil {
		t.Fatalf("WriteMeshes: %v", err)
	}

	full, err := ReadMeshes(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadMeshes: %v", err)
	}
	if full.Chunks[0].X != 1 || len(full.Chunks[0].Vertices) != 3 {
		t.Fatalf("round trip: %+v", full.Chunks[0])
	}

	// Re-encode all but the last vertex.
	dec, _ := zstd.NewReader(nil)
	raw, err := dec.DecodeAll(buf.Bytes(), nil)
	dec.Close()
	if err != nil {
		t.Fatal(err)
	}
	var cut bytes.Buffer
	enc, _ := zstd.NewWriter(&cut)
	enc.Write(raw[:len(raw)-4])
	enc.Close()

	if _, err := ReadMeshes(&cut); err == nil {
		t.Fatalf("truncated dump decoded without error")
	}
}

// encodeHeader compresses a bare dump header with no chunk data after it.
func encodeHeader(t *testing.T, h header) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := binary.Write(enc, binary.LittleEndian, h); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func TestReadMeshesHugeCount(t *testing.T) {
	buf := encodeHeader(t, header{Magic: magic, ChunkSize: 48, Count: 0xFFFFFFFF})
	if _, err := ReadMeshes(buf); err == nil {
		t.Fatalf("header claiming %d chunks with no data decoded without error", uint32(0xFFFFFFFF))
	}
}

func TestReadMeshesRejectsChunkSize(t *testing.T) {
	for _, size := range []uint16{0, MaxChunkSize + 1, 65535} {
		buf := encodeHeader(t, header{Magic: magic, ChunkSize: size, Count: 1})
		if _, err := ReadMeshes(buf); err == nil {
			t.Errorf("chunk size %d accepted", size)
		}
	}
}
