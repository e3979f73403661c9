package world

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"worldpop/internal/biome"
	"worldpop/internal/config"
	"worldpop/internal/geometry"
	"worldpop/internal/kind"
	"worldpop/internal/logging"
	"worldpop/internal/noise"
	"worldpop/internal/scene"
	"worldpop/internal/spawn"
	"worldpop/internal/stream"
	"worldpop/internal/terrain"
)

var (
	// ErrChunkNotLoaded is returned when a chunk is queried that is not in
	// the loaded set.
	ErrChunkNotLoaded = errors.New("world: chunk not loaded")
	// ErrClosed is returned once Close has been called.
	ErrClosed = errors.New("world: manager closed")
)

// Options wires a Manager to its collaborators. Heights defaults to the
// reference terrain height field; Collisions may be nil when no physics is
// attached.
type Options struct {
	Config     *config.Config
	Heights    HeightProvider
	Scene      scene.Attacher
	Collisions scene.CollisionRegistry
	Logger     *slog.Logger
}

// UpdateResult lists what one observer update changed. Released counts the
// objects freed by the unloads.
type UpdateResult struct {
	Loaded   []Report
	Unloaded []stream.Coord
	Released int
}

// Stats is a snapshot of the manager. Counters are cumulative; the rest
// describe the loaded set.
type Stats struct {
	Loaded     int
	Objects    int
	Batches    int
	Instances  int
	Pending    int
	KindCounts map[kind.Kind]int

	Populated uint64
	Unloaded  uint64
	Spawned   uint64
	Released  uint64
	Destroyed uint64
	Skipped   Skipped
}

type counters struct {
	populated uint64
	unloaded  uint64
	spawned   uint64
	released  uint64
	destroyed uint64
	skipped   Skipped
}

// Manager owns every populated chunk. Plans are built on a worker pool;
// scene attachment always happens on the goroutine that called into the
// manager.
type Manager struct {
	cfg        *config.Config
	planner    *planner
	scene      scene.Attacher
	collisions scene.CollisionRegistry
	log        *slog.Logger
	tracker    *stream.Tracker
	pending    *stream.Queue
	pool       pond.Pool

	mu     sync.RWMutex
	chunks map[stream.Coord]*Chunk
	owners map[ObjectID]stream.Coord
	closed bool

	statsMu sync.Mutex
	stats   counters
}

// New validates and sanitizes a private copy of opts.Config, so malformed
// spawn values are clamped here instead of failing while a chunk populates.
func New(opts Options) (*Manager, error) {
	cfg := config.Default()
	if opts.Config != nil {
		cfg = opts.Config.Clone()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("world config: %w", err)
	}
	if opts.Scene == nil {
		return nil, errors.New("world: scene attacher is required")
	}
	log := logging.Or(opts.Logger).With("component", "population")
	logging.Corrections(log, cfg.Sanitize())

	fields, err := noise.NewFields(cfg.Noise, cfg.World.Seed)
	if err != nil {
		return nil, err
	}
	heights := opts.Heights
	if heights == nil {
		heights = terrain.NewHeightField(cfg.Terrain)
	}
	workers := cfg.World.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	return &Manager{
		cfg: cfg,
		planner: &planner{
			seed:       cfg.World.Seed,
			chunkSize:  cfg.World.ChunkSize,
			spawn:      cfg.Spawn,
			fields:     fields,
			classifier: biome.NewClassifier(cfg.Biome),
			table:      spawn.NewTable(cfg.Spawn),
			heights:    heights,
			generate:   geometry.Generate,
		},
		scene:      opts.Scene,
		collisions: opts.Collisions,
		log:        log,
		tracker:    stream.NewTracker(cfg.World.LoadRadius, cfg.World.ChunkSize),
		pending:    stream.NewQueue(),
		pool:       pond.NewPool(workers),
		chunks:     make(map[stream.Coord]*Chunk),
		owners:     make(map[ObjectID]stream.Coord),
	}, nil
}

// Fields exposes the noise fields the manager samples.
func (m *Manager) Fields() *noise.Fields {
	return m.planner.fields
}

// Classifier exposes the biome classifier the manager uses.
func (m *Manager) Classifier() *biome.Classifier {
	return m.planner.classifier
}

// ChunkSize is the edge length of a chunk in world units.
func (m *Manager) ChunkSize() float64 {
	return m.planner.chunkSize
}

// Update moves the observer, unloads chunks that left the load radius and
// populates chunks that entered it, nearest first. With World.MaxPerTick set,
// entries beyond the limit wait for later updates.
func (m *Manager) Update(observer mgl64.Vec3) (UpdateResult, error) {
	var res UpdateResult
	if m.isClosed() {
		return res, ErrClosed
	}
	for _, e := range m.tracker.Update(observer) {
		if e.Type == stream.Exited {
			if n, ok := m.unload(e.Coord); ok {
				res.Unloaded = append(res.Unloaded, e.Coord)
				res.Released += n
			}
			continue
		}
		m.pending.Enqueue(e)
	}

	var coords []stream.Coord
	for _, e := range m.pending.Drain(m.cfg.World.MaxPerTick) {
		if m.tracker.InRange(e.Coord) {
			coords = append(coords, e.Coord)
		}
	}
	res.Loaded = m.populateMany(coords)
	return res, nil
}

// HandleEvent applies one event from an external streaming source.
func (m *Manager) HandleEvent(e stream.Event) error {
	switch e.Type {
	case stream.Entered:
		_, err := m.Populate(e.Coord)
		return err
	case stream.Exited:
		m.Unload(e.Coord)
		return nil
	default:
		return fmt.Errorf("world: unknown event type %d", e.Type)
	}
}

// Populate runs both placement passes for coord and attaches the result.
// Populating a chunk that is already loaded returns its existing report; if
// another caller is still populating it, Populate waits for that to finish.
func (m *Manager) Populate(coord stream.Coord) (Report, error) {
	if m.isClosed() {
		return Report{}, ErrClosed
	}
	m.mu.RLock()
	ch, ok := m.chunks[coord]
	m.mu.RUnlock()
	if ok {
		return ch.wait(), nil
	}
	reports := m.populateMany([]stream.Coord{coord})
	if len(reports) == 0 {
		return m.existingReport(coord)
	}
	return reports[0], nil
}

func (m *Manager) existingReport(coord stream.Coord) (Report, error) {
	ch, err := m.Chunk(coord)
	if err != nil {
		return Report{}, err
	}
	return ch.Report(), nil
}

type job struct {
	chunk *Chunk
	plan  *plan
}

func (m *Manager) populateMany(coords []stream.Coord) []Report {
	jobs := m.reserve(coords)
	if len(jobs) == 0 {
		return nil
	}
	if len(jobs) == 1 {
		jobs[0].plan = m.planner.build(jobs[0].chunk.Coord)
	} else {
		tasks := make([]pond.Task, len(jobs))
		for i := range jobs {
			j := &jobs[i]
			tasks[i] = m.pool.Submit(func() {
				j.plan = m.planner.build(j.chunk.Coord)
			})
		}
		for i, task := range tasks {
			if err := task.Wait(); err != nil {
				m.log.Error("plan failed", "chunk", jobs[i].chunk.Coord.String(), "err", err)
			}
		}
	}

	reports := make([]Report, 0, len(jobs))
	for _, j := range jobs {
		if j.plan == nil {
			m.abandon(j.chunk)
			continue
		}
		reports = append(reports, m.commit(j.chunk, j.plan))
	}
	return reports
}

// abandon drops a reserved chunk whose plan could not be built. Waiters are
// released with an empty report and a later Populate call can retry it.
func (m *Manager) abandon(ch *Chunk) {
	m.mu.Lock()
	if m.chunks[ch.Coord] == ch {
		delete(m.chunks, ch.Coord)
	}
	m.mu.Unlock()
	ch.finish(Report{Coord: ch.Coord})
	ch.releaseAll(m.scene, m.collisions)
}

// reserve registers a Populating chunk for every coordinate not yet loaded.
func (m *Manager) reserve(coords []stream.Coord) []job {
	m.mu.Lock()
	defer m.mu.Unlock()
	jobs := make([]job, 0, len(coords))
	for _, c := range coords {
		if _, ok := m.chunks[c]; ok {
			continue
		}
		ch := newChunk(c, m.planner.chunkSize)
		m.chunks[c] = ch
		jobs = append(jobs, job{chunk: ch})
	}
	return jobs
}

func (m *Manager) commit(ch *Chunk, p *plan) Report {
	r := p.report
	for _, pl := range p.placements {
		obj, err := m.attach(ch, pl)
		if err != nil {
			r.Skipped.Attach++
			if pl.large {
				r.LargeAccepted--
			} else {
				r.CoverAccepted--
			}
			m.log.Debug("attach failed", "chunk", ch.Coord.String(), "kind", string(pl.result.Kind), "err", err)
			continue
		}
		ch.track(obj)
		m.mu.Lock()
		m.owners[obj.ID] = ch.Coord
		m.mu.Unlock()
	}

	if p.batch != nil {
		info, _ := kind.Lookup(p.batch.Category)
		h, err := m.scene.Attach(scene.Node{
			Scope:      ch.Coord,
			Kind:       p.batch.Category,
			Batch:      p.batch,
			Origin:     p.origin,
			Transform:  mgl32.Ident4(),
			Visibility: info.Visibility,
		})
		if err != nil {
			r.Skipped.Attach++
			r.BatchInstances = 0
			m.log.Debug("batch attach failed", "chunk", ch.Coord.String(), "err", err)
		} else {
			ch.setBatch(p.batch, h)
		}
	}
	ch.finish(r)

	// Unloaded while populating: drop everything we just attached.
	m.mu.RLock()
	current := m.chunks[ch.Coord] == ch
	m.mu.RUnlock()
	if !current {
		m.forgetOwners(ch.releaseAll(m.scene, m.collisions))
	}

	m.statsMu.Lock()
	m.stats.populated++
	m.stats.spawned += uint64(r.Accepted())
	m.stats.skipped.add(r.Skipped)
	m.statsMu.Unlock()

	m.log.Debug("chunk populated",
		"chunk", ch.Coord.String(),
		"large", r.LargeAccepted,
		"cover", r.CoverAccepted,
		"batched", r.BatchedSamples,
		"instances", r.BatchInstances,
		"skipped", r.Skipped.Total(),
	)
	return r
}

func (m *Manager) attach(ch *Chunk, pl placement) (*SpawnedObject, error) {
	res := pl.result
	info, _ := kind.Lookup(res.Kind)
	transform := objectTransform(pl.position.Sub(ch.Origin), pl.yaw, pl.scale)
	h, err := m.scene.Attach(scene.Node{
		Scope:      ch.Coord,
		Kind:       res.Kind,
		Mesh:       res.Mesh,
		Origin:     ch.Origin,
		Transform:  transform,
		Visibility: info.Visibility,
	})
	if err != nil {
		return nil, err
	}
	obj := &SpawnedObject{
		ID:        uuid.New(),
		Kind:      res.Kind,
		Biome:     pl.biome,
		Chunk:     ch.Coord,
		Position:  pl.position,
		Rotation:  pl.yaw,
		Scale:     pl.scale,
		Transform: transform,
		Handle:    h,
		Harvest:   res.Harvest,
		Variant:   res.Variant,
	}
	if res.Collision != nil && m.collisions != nil {
		collider, err := m.collisions.Register(h, scaleVolume(*res.Collision, pl.scale), scene.LayerHarvestable)
		if err != nil {
			m.scene.Detach(h)
			return nil, fmt.Errorf("register collision: %w", err)
		}
		obj.Collision = &collider
	}
	return obj, nil
}

// Unload releases everything the chunk spawned. It reports false when the
// chunk was not loaded.
func (m *Manager) Unload(coord stream.Coord) bool {
	_, ok := m.unload(coord)
	return ok
}

func (m *Manager) unload(coord stream.Coord) (int, bool) {
	m.mu.Lock()
	ch, ok := m.chunks[coord]
	if ok {
		delete(m.chunks, coord)
	}
	m.mu.Unlock()
	if !ok {
		return 0, false
	}
	ids := ch.releaseAll(m.scene, m.collisions)
	m.forgetOwners(ids)

	m.statsMu.Lock()
	m.stats.unloaded++
	m.statsMu.Unlock()
	m.log.Debug("chunk unloaded", "chunk", coord.String(), "released", len(ids))
	return len(ids), true
}

func (m *Manager) forgetOwners(ids []ObjectID) {
	if len(ids) == 0 {
		return
	}
	m.mu.Lock()
	for _, id := range ids {
		delete(m.owners, id)
	}
	m.mu.Unlock()
}

func (m *Manager) chunkOf(id ObjectID) *Chunk {
	m.mu.RLock()
	defer m.mu.RUnlock()
	coord, ok := m.owners[id]
	if !ok {
		return nil
	}
	return m.chunks[coord]
}

// Release detaches one object ahead of its chunk. Releasing an unknown or
// already released object is a no-op.
func (m *Manager) Release(id ObjectID) bool {
	ch := m.chunkOf(id)
	if ch == nil || !ch.release(id, m.scene, m.collisions) {
		return false
	}
	m.forgetOwners([]ObjectID{id})
	m.statsMu.Lock()
	m.stats.released++
	m.statsMu.Unlock()
	return true
}

// NotifyDestroyed records that gameplay destroyed a harvestable object. The
// object is dropped from its chunk without being detached, so the later
// unload does not free it a second time. Only harvestable kinds can be
// destroyed early; for anything else it reports false and leaves the object
// tracked.
func (m *Manager) NotifyDestroyed(id ObjectID) bool {
	ch := m.chunkOf(id)
	if ch == nil || !ch.forget(id) {
		return false
	}
	m.forgetOwners([]ObjectID{id})
	m.statsMu.Lock()
	m.stats.destroyed++
	m.statsMu.Unlock()
	return true
}

// Chunk returns a loaded chunk.
func (m *Manager) Chunk(coord stream.Coord) (*Chunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ch, ok := m.chunks[coord]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrChunkNotLoaded, coord)
	}
	return ch, nil
}

// Loaded returns the loaded chunk coordinates ordered by X then Z.
func (m *Manager) Loaded() []stream.Coord {
	m.mu.RLock()
	out := make([]stream.Coord, 0, len(m.chunks))
	for c := range m.chunks {
		out = append(out, c)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Z < out[j].Z
	})
	return out
}

func (m *Manager) Stats() Stats {
	m.mu.RLock()
	chunks := make([]*Chunk, 0, len(m.chunks))
	for _, ch := range m.chunks {
		chunks = append(chunks, ch)
	}
	m.mu.RUnlock()

	s := Stats{Loaded: len(chunks), Pending: m.pending.Len(), KindCounts: make(map[kind.Kind]int)}
	for _, ch := range chunks {
		for _, o := range ch.Objects() {
			s.KindCounts[o.Kind]++
		}
		s.Objects += ch.Len()
		if b := ch.Batch(); b != nil {
			s.Batches++
			s.Instances += b.Len()
		}
	}

	m.statsMu.Lock()
	s.Populated = m.stats.populated
	s.Unloaded = m.stats.unloaded
	s.Spawned = m.stats.spawned
	s.Released = m.stats.released
	s.Destroyed = m.stats.destroyed
	s.Skipped = m.stats.skipped
	m.statsMu.Unlock()
	return s
}

func (m *Manager) isClosed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

// Close stops the worker pool and unloads every chunk.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.mu.Unlock()

	m.pool.StopAndWait()
	for _, c := range m.Loaded() {
		m.Unload(c)
	}
}
