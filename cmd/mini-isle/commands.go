package main

import (
	"fmt"
	"log"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/urfave/cli/v2"
	"github.com/xlab/closer"

	"mini-isle/internal/config"
	"mini-isle/internal/export"
	"mini-isle/internal/game"
	"mini-isle/internal/game/viewer"
	"mini-isle/internal/profiling"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "mini-isle",
		Usage: "generates a voxel island, meshes it and flies over it",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML world generation config"},
			&cli.Int64Flag{Name: "seed", Usage: "override the noise seed"},
			&cli.IntFlag{Name: "workers", Usage: "generation and meshing workers (0 = all CPUs)"},
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "open the viewer",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "width", Value: game.DefaultWidth},
					&cli.IntFlag{Name: "height", Value: game.DefaultHeight},
					&cli.StringFlag{Name: "textures", Usage: "directory of <material>.png overrides"},
				},
				Action: runViewer,
			},
			{
				Name:   "stats",
				Usage:  "build the world headless and print statistics",
				Action: runStats,
			},
			{
				Name:  "export",
				Usage: "build the world headless and dump chunk meshes",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "meshes.vxm"},
				},
				Action: runExport,
			},
		},
	}
}

// loadConfig applies the config file, then flag overrides, then validates.
func loadConfig(c *cli.Context) (config.WorldGen, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if c.IsSet("seed") {
		cfg.Seed = c.Int64("seed")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newSession builds a session and ties its worker shutdown to process exit.
func newSession(c *cli.Context) (*game.Session, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	log.Printf("building %dx%dx%d chunks of %d (seed %d)", cfg.ChunksX, cfg.ChunksY, cfg.ChunksZ, cfg.ChunkSize, cfg.Seed)
	s, err := game.NewSession(cfg)
	if err != nil {
		return nil, err
	}
	closer.Bind(s.Close)
	return s, nil
}

func runStats(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	st := s.Stats()
	fmt.Fprintf(c.App.Writer, "chunks:   %d (%d empty)\n", st.Chunks, st.EmptyChunks)
	fmt.Fprintf(c.App.Writer, "vertices: %d (%d triangles)\n", st.Vertices, st.Vertices/3)
	fmt.Fprintf(c.App.Writer, "clouds:   %d cells in %d quads\n", st.CloudCells, st.CloudQuads)
	fmt.Fprintf(c.App.Writer, "visible:  %d chunks from the spawn camera\n", st.VisibleCount)
	fmt.Fprintf(c.App.Writer, "timings:  %s\n", profiling.TopN(4))
	return nil
}

func runExport(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	out := c.String("out")
	if err := export.WriteFile(out, s.World); err != nil {
		return err
	}
	log.Printf("wrote %s", out)
	return nil
}

func runViewer(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	window, err := viewer.SetupWindow(c.Int("width"), c.Int("height"), "mini-isle")
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()

	app, err := viewer.NewApp(window, s, viewer.Options{
		Width:      c.Int("width"),
		Height:     c.Int("height"),
		TextureDir: c.String("textures"),
	})
	if err != nil {
		return err
	}
	defer app.Dispose()

	app.Run()
	return nil
}
