package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mini-isle/internal/config"
	"mini-isle/internal/export"
)

const smallWorld = `
chunk_size: 16
chunks_x: 3
chunks_y: 2
chunks_z: 3
workers: 2
mesh_workers: 1
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "world.yaml")
	if err := os.WriteFile(path, []byte(smallWorld), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestStatsCommand(t *testing.T) {
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out

	if err := app.Run([]string{"mini-isle", "--config", writeConfig(t), "--seed", "3", "stats"}); err != nil {
		t.Fatalf("stats: %v", err)
	}
	for _, want := range []string{"chunks:   18", "vertices:", "clouds:", "visible:"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestExportCommand(t *testing.T) {
	dump := filepath.Join(t.TempDir(), "out.vxm")
	err := newApp().Run([]string{"mini-isle", "--config", writeConfig(t), "export", "--out", dump})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	d, err := export.ReadFile(dump)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if d.ChunkSize != 16 || len(d.Chunks) == 0 {
		t.Fatalf("dump has size %d and %d chunks", d.ChunkSize, len(d.Chunks))
	}
}

func TestInvalidOverrideRejected(t *testing.T) {
	err := newApp().Run([]string{"mini-isle", "--config", writeConfig(t), "--workers", "-1", "stats"})
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("got %v, want ErrInvalid", err)
	}
}
