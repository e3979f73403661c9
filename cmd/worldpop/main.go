package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"worldpop/internal/config"
	"worldpop/internal/kind"
	"worldpop/internal/logging"
	"worldpop/internal/preview"
	"worldpop/internal/scene"
	"worldpop/internal/sim"
	"worldpop/internal/terrain"
	"worldpop/internal/world"
)

func main() {
	var (
		cfgPath    string
		seed       int64
		pathSpec   string
		previewDir string
		logLevel   string
	)
	flag.StringVar(&cfgPath, "config", "", "configuration file path or go-getter URL (json, yaml or toml)")
	flag.Int64Var(&seed, "seed", 0, "world seed, overrides the configuration")
	flag.StringVar(&pathSpec, "path", "0,0;256,0;256,256", "observer waypoints as x,z;x,z;...")
	flag.StringVar(&previewDir, "preview", "", "directory for chunk preview PNGs")
	flag.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	flag.Parse()

	ctx, cancel := signalContext()
	defer cancel()

	localPath, err := config.Fetch(ctx, cfgPath, filepath.Join(os.TempDir(), "worldpop-config"))
	if err != nil {
		log.Fatalf("fetch config: %v", err)
	}
	cfg, corrections, err := config.Load(localPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.World.Seed = seed
		case "preview":
			cfg.Preview.Dir = previewDir
		case "log-level":
			cfg.Logging.Level = logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid flags: %v", err)
	}

	logger := logging.New(cfg.Logging, os.Stderr)
	logging.Corrections(logger, corrections)

	mem := scene.NewMemory()
	manager, err := world.New(world.Options{
		Config:     cfg,
		Heights:    terrain.NewHeightField(cfg.Terrain),
		Scene:      mem,
		Collisions: mem,
		Logger:     logger,
	})
	if err != nil {
		log.Fatalf("initialise population: %v", err)
	}
	defer manager.Close()

	waypoints, err := sim.ParsePath(pathSpec)
	if err != nil {
		log.Fatalf("parse path: %v", err)
	}
	runner, err := sim.New(manager, waypoints, cfg.Simulation, logger)
	if err != nil {
		log.Fatalf("initialise simulation: %v", err)
	}
	if cfg.Preview.Dir != "" {
		biomeAt := preview.ForManager(manager)
		runner.OnLoad = func(rep world.Report) {
			ch, err := manager.Chunk(rep.Coord)
			if err != nil {
				return
			}
			path, err := preview.SaveChunkPreview(ch, manager.ChunkSize(), biomeAt, cfg.Preview.PixelsSide, cfg.Preview.Dir)
			if err != nil {
				logger.Warn("chunk preview failed", "chunk", rep.Coord.String(), "err", err)
				return
			}
			logger.Debug("chunk preview written", "path", path)
		}
	}

	start := time.Now()
	summary, err := runner.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("simulation exited with error: %v", err)
	}
	printSummary(os.Stdout, summary, time.Since(start))
	fmt.Printf("scene: %d live nodes, %d colliders, %d duplicate detaches\n", mem.Live(), mem.Colliders(), mem.Duplicates())
}

func printSummary(w io.Writer, s sim.Summary, elapsed time.Duration) {
	fmt.Fprintf(w, "ticks=%d loaded=%d unloaded=%d spawned=%d released=%d elapsed=%s\n",
		s.Ticks, s.Loaded, s.Unloaded, s.Spawned, s.Released, elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "live: chunks=%d objects=%d batches=%d instances=%d\n",
		s.Final.Loaded, s.Final.Objects, s.Final.Batches, s.Final.Instances)
	sk := s.Final.Skipped
	fmt.Fprintf(w, "skipped: height=%d biome=%d nokind=%d degenerate=%d attach=%d\n",
		sk.Height, sk.Biome, sk.NoKind, sk.Degenerate, sk.Attach)

	kinds := make([]kind.Kind, 0, len(s.KindCounts))
	for k := range s.KindCounts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, k := range kinds {
		fmt.Fprintf(w, "  %-16s %d\n", k, s.KindCounts[k])
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
