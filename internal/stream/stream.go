package stream

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Coord is a chunk position on the XZ grid.
type Coord struct {
	X int
	Z int
}

func (c Coord) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Z)
}

// Origin is the world position of the chunk's minimum corner.
func (c Coord) Origin(size float64) mgl64.Vec3 {
	return mgl64.Vec3{float64(c.X) * size, 0, float64(c.Z) * size}
}

// Center is the world position of the chunk's middle.
func (c Coord) Center(size float64) mgl64.Vec3 {
	return mgl64.Vec3{(float64(c.X) + 0.5) * size, 0, (float64(c.Z) + 0.5) * size}
}

// DistanceSquared is measured in chunk units.
func (c Coord) DistanceSquared(o Coord) int {
	dx := c.X - o.X
	dz := c.Z - o.Z
	return dx*dx + dz*dz
}

// ChunkOf returns the chunk containing the world position.
func ChunkOf(pos mgl64.Vec3, size float64) Coord {
	return Coord{
		X: int(math.Floor(pos.X() / size)),
		Z: int(math.Floor(pos.Z() / size)),
	}
}

type EventType int

const (
	Entered EventType = iota
	Exited
)

func (t EventType) String() string {
	if t == Exited {
		return "exited"
	}
	return "entered"
}

// Event reports a chunk crossing the load radius.
type Event struct {
	Type  EventType
	Coord Coord
}

// Tracker derives entered/exited events from observer movement using a
// circular radius measured in chunks.
type Tracker struct {
	radius int
	size   float64
	center Coord
	loaded map[Coord]struct{}
}

func NewTracker(radius int, chunkSize float64) *Tracker {
	return &Tracker{
		radius: radius,
		size:   chunkSize,
		loaded: make(map[Coord]struct{}),
	}
}

// Update moves the observer and returns exits first, then entries nearest
// first. Repeating an update from the same chunk returns nothing.
func (t *Tracker) Update(observer mgl64.Vec3) []Event {
	center := ChunkOf(observer, t.size)
	t.center = center

	want := make(map[Coord]struct{})
	r2 := t.radius * t.radius
	for dx := -t.radius; dx <= t.radius; dx++ {
		for dz := -t.radius; dz <= t.radius; dz++ {
			if dx*dx+dz*dz > r2 {
				continue
			}
			want[Coord{X: center.X + dx, Z: center.Z + dz}] = struct{}{}
		}
	}

	var exited, entered []Coord
	for c := range t.loaded {
		if _, ok := want[c]; !ok {
			exited = append(exited, c)
			delete(t.loaded, c)
		}
	}
	for c := range want {
		if _, ok := t.loaded[c]; !ok {
			entered = append(entered, c)
			t.loaded[c] = struct{}{}
		}
	}

	sortByDistance(exited, center)
	sortByDistance(entered, center)

	events := make([]Event, 0, len(exited)+len(entered))
	for _, c := range exited {
		events = append(events, Event{Type: Exited, Coord: c})
	}
	for _, c := range entered {
		events = append(events, Event{Type: Entered, Coord: c})
	}
	return events
}

// Loaded returns the chunks currently in range, nearest first.
func (t *Tracker) Loaded() []Coord {
	out := make([]Coord, 0, len(t.loaded))
	for c := range t.loaded {
		out = append(out, c)
	}
	sortByDistance(out, t.center)
	return out
}

// InRange reports whether c is inside the current radius.
func (t *Tracker) InRange(c Coord) bool {
	_, ok := t.loaded[c]
	return ok
}

func sortByDistance(coords []Coord, center Coord) {
	sort.Slice(coords, func(i, j int) bool {
		di, dj := coords[i].DistanceSquared(center), coords[j].DistanceSquared(center)
		if di != dj {
			return di < dj
		}
		if coords[i].X != coords[j].X {
			return coords[i].X < coords[j].X
		}
		return coords[i].Z < coords[j].Z
	})
}
