package world

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"

	"worldpop/internal/biome"
	"worldpop/internal/config"
	"worldpop/internal/geometry"
	"worldpop/internal/groundcover"
	"worldpop/internal/kind"
	"worldpop/internal/noise"
	"worldpop/internal/spawn"
	"worldpop/internal/stream"
)

// HeightProvider answers terrain height queries for candidate validation.
// It must be safe for concurrent use.
type HeightProvider interface {
	HeightAt(x, z, base float64, b biome.Biome) (float64, error)
}

// Skipped counts rejected candidates per reason.
type Skipped struct {
	Height     int // no valid height or below the minimum
	Biome      int // biome allows nothing in this pass
	NoKind     int // draw or cluster gate produced no kind
	Degenerate int // generator failed
	Attach     int // scene or collision registration failed
}

func (s Skipped) Total() int {
	return s.Height + s.Biome + s.NoKind + s.Degenerate + s.Attach
}

func (s *Skipped) add(o Skipped) {
	s.Height += o.Height
	s.Biome += o.Biome
	s.NoKind += o.NoKind
	s.Degenerate += o.Degenerate
	s.Attach += o.Attach
}

// Report summarises one chunk population.
type Report struct {
	Coord           stream.Coord
	LargeCandidates int
	LargeAccepted   int
	CoverCandidates int
	CoverAccepted   int
	BatchedSamples  int
	BatchInstances  int
	Skipped         Skipped
}

// Accepted is the number of individually spawned objects.
func (r Report) Accepted() int {
	return r.LargeAccepted + r.CoverAccepted
}

// placement is one accepted candidate. Generators already randomise size,
// so placements carry a unit scale.
type placement struct {
	large    bool
	biome    biome.Biome
	position mgl64.Vec3
	yaw      float64
	scale    float64
	result   geometry.Result
}

// plan is everything decided for a chunk before anything touches the scene.
type plan struct {
	coord      stream.Coord
	origin     mgl64.Vec3
	placements []placement
	batch      *groundcover.Batch
	report     Report
}

// planner holds the read-only collaborators plan building needs. Every
// method is safe to call from several goroutines at once.
type planner struct {
	seed       int64
	chunkSize  float64
	spawn      config.SpawnConfig
	fields     *noise.Fields
	classifier *biome.Classifier
	table      *spawn.Table
	heights    HeightProvider
	generate   func(kind.Kind, *rand.Rand, config.ShapeConfig) (geometry.Result, error)
}

type site struct {
	pos    mgl64.Vec3
	biome  biome.Biome
	sample noise.Sample
}

// locate samples noise, classifies the biome and validates the height of a
// candidate. It reports false when the height is missing or too low.
func (p *planner) locate(x, z float64) (site, bool) {
	s := p.fields.Sample(x, z)
	b := p.classifier.Classify(biome.Input{
		X:                  x,
		Z:                  z,
		Base:               s.Base,
		Temperature:        s.Temperature,
		Moisture:           s.Moisture,
		DistanceFromOrigin: biome.Distance(x, z),
	})
	h, err := p.heights.HeightAt(x, z, s.Base, b)
	if err != nil || math.IsNaN(h) || h < p.spawn.MinHeight {
		return site{}, false
	}
	return site{pos: mgl64.Vec3{x, h, z}, biome: b, sample: s}, true
}

func (p *planner) build(coord stream.Coord) *plan {
	out := &plan{
		coord:  coord,
		origin: coord.Origin(p.chunkSize),
		report: Report{Coord: coord},
	}
	seed := chunkSeed(p.seed, coord)
	p.largePass(out, seed)
	acc := p.coverPass(out, seed)
	if !acc.Empty() {
		out.batch = groundcover.Build(acc, candidateRNG(seed, passBatch, 0), p.spawn.GroundCover)
		out.report.BatchedSamples = acc.Len()
		out.report.BatchInstances = out.batch.Len()
	}
	return out
}

func (p *planner) largePass(out *plan, seed uint64) {
	r := &out.report
	for i := 0; i < p.spawn.LargeSamples; i++ {
		r.LargeCandidates++
		rng := candidateRNG(seed, passLarge, i)
		x := out.origin.X() + rng.Float64()*p.chunkSize
		z := out.origin.Z() + rng.Float64()*p.chunkSize
		at, ok := p.locate(x, z)
		if !ok {
			r.Skipped.Height++
			continue
		}
		c := p.table.Chances(at.biome)
		if c.Tree+c.Resource+c.Decoration <= 0 {
			r.Skipped.Biome++
			continue
		}
		k, ok := p.table.LargeVegetation(at.biome, at.pos, rng.Float64())
		if !ok {
			r.Skipped.NoKind++
			continue
		}
		res, err := p.generate(k, rng, p.spawn.Shapes)
		if err != nil {
			r.Skipped.Degenerate++
			continue
		}
		out.placements = append(out.placements, placement{
			large:    true,
			biome:    at.biome,
			position: at.pos,
			yaw:      rng.Float64() * 2 * math.Pi,
			scale:    1,
			result:   res,
		})
		r.LargeAccepted++
	}
}

func (p *planner) coverPass(out *plan, seed uint64) *groundcover.Accumulator {
	r := &out.report
	acc := groundcover.NewAccumulator(out.origin)
	for i := 0; i < p.spawn.GroundSamples; i++ {
		r.CoverCandidates++
		rng := candidateRNG(seed, passCover, i)
		x := out.origin.X() + rng.Float64()*p.chunkSize
		z := out.origin.Z() + rng.Float64()*p.chunkSize
		at, ok := p.locate(x, z)
		if !ok {
			r.Skipped.Height++
			continue
		}
		c := p.table.Chances(at.biome)
		if c.Grass+c.Flower+c.Rock+c.Shrub <= 0 {
			r.Skipped.Biome++
			continue
		}
		gc := p.table.GroundCover(at.biome, at.sample.Cluster, rng.Float64())
		if gc.Kind == "" {
			r.Skipped.NoKind++
			continue
		}
		if gc.Batched {
			acc.Add(groundcover.Sample{Position: at.pos, Dense: gc.Dense, Biome: at.biome})
			continue
		}
		res, err := p.generate(gc.Kind, rng, p.spawn.Shapes)
		if err != nil {
			r.Skipped.Degenerate++
			continue
		}
		out.placements = append(out.placements, placement{
			biome:    at.biome,
			position: at.pos,
			yaw:      rng.Float64() * 2 * math.Pi,
			scale:    1,
			result:   res,
		})
		r.CoverAccepted++
	}
	return acc
}
