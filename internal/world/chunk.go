package world

import (
	"sort"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"worldpop/internal/groundcover"
	"worldpop/internal/scene"
	"worldpop/internal/stream"
)

// State is the population state of a chunk.
type State int

const (
	Unloaded State = iota
	Populating
	Populated
)

func (s State) String() string {
	switch s {
	case Populating:
		return "populating"
	case Populated:
		return "populated"
	default:
		return "unloaded"
	}
}

// Chunk is the arena for everything spawned in one chunk. The tracking set
// is guarded by the chunk's own lock so gameplay notifications and teardown
// serialize per chunk without a global lock.
type Chunk struct {
	Coord  stream.Coord
	Origin mgl64.Vec3

	mu          sync.Mutex
	state       State
	objects     map[ObjectID]*SpawnedObject
	batch       *groundcover.Batch
	batchHandle scene.Handle
	report      Report
	done        chan struct{}
}

func newChunk(coord stream.Coord, size float64) *Chunk {
	return &Chunk{
		Coord:   coord,
		Origin:  coord.Origin(size),
		state:   Populating,
		objects: make(map[ObjectID]*SpawnedObject),
		done:    make(chan struct{}),
	}
}

// Len is the number of tracked individual objects.
func (c *Chunk) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.objects)
}

func (c *Chunk) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Objects returns copies of the tracked objects ordered by ID.
func (c *Chunk) Objects() []SpawnedObject {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]SpawnedObject, 0, len(c.objects))
	for _, o := range c.objects {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out
}

// Object returns a copy of one tracked object.
func (c *Chunk) Object(id ObjectID) (SpawnedObject, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.objects[id]
	if !ok {
		return SpawnedObject{}, false
	}
	return *o, true
}

// Batch is the chunk's ground-cover batch, or nil.
func (c *Chunk) Batch() *groundcover.Batch {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.batch
}

// Report is the population report recorded when the chunk was populated.
func (c *Chunk) Report() Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.report
}

func (c *Chunk) track(o *SpawnedObject) {
	c.mu.Lock()
	c.objects[o.ID] = o
	c.mu.Unlock()
}

func (c *Chunk) setBatch(b *groundcover.Batch, h scene.Handle) {
	c.mu.Lock()
	c.batch = b
	c.batchHandle = h
	c.mu.Unlock()
}

func (c *Chunk) finish(r Report) {
	c.mu.Lock()
	c.report = r
	c.state = Populated
	c.mu.Unlock()
	close(c.done)
}

// wait blocks until the chunk's population has been committed and returns
// its report.
func (c *Chunk) wait() Report {
	<-c.done
	return c.Report()
}

// release detaches one object and drops it from the tracking set. Releasing
// an object that is no longer tracked is a no-op.
func (c *Chunk) release(id ObjectID, att scene.Attacher, reg scene.CollisionRegistry) bool {
	c.mu.Lock()
	o, ok := c.objects[id]
	if ok {
		delete(c.objects, id)
	}
	c.mu.Unlock()
	if !ok {
		return false
	}
	freeObject(o, att, reg)
	return true
}

// forget drops a harvestable object gameplay already destroyed. Nothing is
// detached.
func (c *Chunk) forget(id ObjectID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.objects[id]
	if !ok || !o.Harvestable() {
		return false
	}
	delete(c.objects, id)
	return true
}

// releaseAll frees every tracked object and the batch and returns the IDs
// of the individual objects released.
func (c *Chunk) releaseAll(att scene.Attacher, reg scene.CollisionRegistry) []ObjectID {
	c.mu.Lock()
	objects := c.objects
	c.objects = make(map[ObjectID]*SpawnedObject)
	batch := c.batch
	batchHandle := c.batchHandle
	c.batch = nil
	c.batchHandle = 0
	c.state = Unloaded
	c.mu.Unlock()

	ids := make([]ObjectID, 0, len(objects))
	for id, o := range objects {
		freeObject(o, att, reg)
		ids = append(ids, id)
	}
	if batch != nil {
		att.Detach(batchHandle)
	}
	return ids
}

func freeObject(o *SpawnedObject, att scene.Attacher, reg scene.CollisionRegistry) {
	if o.Collision != nil && reg != nil {
		reg.Unregister(*o.Collision)
	}
	att.Detach(o.Handle)
}
