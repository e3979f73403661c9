package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"worldpop/internal/config"
	"worldpop/internal/kind"
	"worldpop/internal/logging"
	"worldpop/internal/world"
)

// Summary describes one finished or interrupted run.
type Summary struct {
	Ticks      int
	Loaded     int
	Unloaded   int
	Spawned    int
	Released   int
	KindCounts map[kind.Kind]int
	Final      world.Stats
}

// Runner walks an observer along a path and lets the manager stream chunks
// around it, one update per tick.
type Runner struct {
	manager *world.Manager
	path    []mgl64.Vec2
	speed   float64
	tick    time.Duration
	log     *slog.Logger

	// OnLoad, when set, is called for every populated chunk.
	OnLoad func(world.Report)
}

func New(m *world.Manager, path []mgl64.Vec2, cfg config.SimulationConfig, logger *slog.Logger) (*Runner, error) {
	if m == nil {
		return nil, errors.New("sim: manager is required")
	}
	if len(path) == 0 {
		return nil, errors.New("sim: path needs at least one point")
	}
	if len(path) > 1 && cfg.ObserverSpeed <= 0 {
		return nil, errors.New("sim: observerSpeed must be positive to follow a path")
	}
	return &Runner{
		manager: m,
		path:    append([]mgl64.Vec2(nil), path...),
		speed:   cfg.ObserverSpeed,
		tick:    cfg.TickRate.Duration(),
		log:     logging.Or(logger).With("component", "sim"),
	}, nil
}

// Run updates the manager once per tick until the observer reaches the end
// of the path and no chunk is waiting to be populated. A zero tick rate runs
// the updates back to back. Cancelling ctx stops the run and returns the
// summary so far together with the context error.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	s := Summary{KindCounts: make(map[kind.Kind]int)}
	pos := r.path[0]
	seg := 0

	var tickC <-chan time.Time
	if r.tick > 0 {
		ticker := time.NewTicker(r.tick)
		defer ticker.Stop()
		tickC = ticker.C
	}

	for {
		if err := r.step(pos, &s); err != nil {
			return s, err
		}
		if seg >= len(r.path)-1 && r.manager.Stats().Pending == 0 {
			break
		}
		if tickC == nil {
			if err := ctx.Err(); err != nil {
				s.Final = r.manager.Stats()
				return s, err
			}
		} else {
			select {
			case <-ctx.Done():
				s.Final = r.manager.Stats()
				return s, ctx.Err()
			case <-tickC:
			}
		}
		pos, seg = advance(r.path, pos, seg, r.speed)
	}

	s.Final = r.manager.Stats()
	r.log.Info("run finished",
		"ticks", s.Ticks,
		"loaded", s.Loaded,
		"unloaded", s.Unloaded,
		"spawned", s.Spawned,
		"released", s.Released,
	)
	return s, nil
}

func (r *Runner) step(pos mgl64.Vec2, s *Summary) error {
	res, err := r.manager.Update(mgl64.Vec3{pos.X(), 0, pos.Y()})
	if err != nil {
		return fmt.Errorf("tick %d: %w", s.Ticks, err)
	}
	s.Ticks++
	for _, c := range res.Unloaded {
		r.log.Info("chunk unloaded", "chunk", c.String())
	}
	s.Unloaded += len(res.Unloaded)
	s.Released += res.Released

	for _, rep := range res.Loaded {
		s.Loaded++
		s.Spawned += rep.Accepted()
		if ch, err := r.manager.Chunk(rep.Coord); err == nil {
			for _, o := range ch.Objects() {
				s.KindCounts[o.Kind]++
			}
		}
		r.log.Info("chunk loaded",
			"chunk", rep.Coord.String(),
			"objects", rep.Accepted(),
			"instances", rep.BatchInstances,
			"skipped", rep.Skipped.Total(),
		)
		if r.OnLoad != nil {
			r.OnLoad(rep)
		}
	}
	return nil
}

// advance moves pos up to speed units along the path starting at segment
// seg and returns the new position and segment.
func advance(path []mgl64.Vec2, pos mgl64.Vec2, seg int, speed float64) (mgl64.Vec2, int) {
	remaining := speed
	for remaining > 0 && seg < len(path)-1 {
		next := path[seg+1]
		d := next.Sub(pos).Len()
		if d <= remaining {
			pos = next
			seg++
			remaining -= d
			continue
		}
		pos = pos.Add(next.Sub(pos).Mul(remaining / d))
		remaining = 0
	}
	return pos, seg
}

// ParsePath reads "x,z;x,z;..." into waypoints.
func ParsePath(s string) ([]mgl64.Vec2, error) {
	var out []mgl64.Vec2
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		xz := strings.Split(part, ",")
		if len(xz) != 2 {
			return nil, fmt.Errorf("path point %q: want x,z", part)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xz[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("path point %q: %w", part, err)
		}
		z, err := strconv.ParseFloat(strings.TrimSpace(xz[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("path point %q: %w", part, err)
		}
		out = append(out, mgl64.Vec2{x, z})
	}
	if len(out) == 0 {
		return nil, errors.New("path is empty")
	}
	return out, nil
}
