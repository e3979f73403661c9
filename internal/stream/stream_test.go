package stream

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestChunkOfFloorsNegativeCoordinates(t *testing.T) {
	tests := []struct {
		pos  mgl64.Vec3
		want Coord
	}{
		{mgl64.Vec3{0, 0, 0}, Coord{0, 0}},
		{mgl64.Vec3{31.9, 0, 32}, Coord{0, 1}},
		{mgl64.Vec3{-0.1, 5, -32}, Coord{-1, -1}},
		{mgl64.Vec3{-32.1, 0, 64}, Coord{-2, 2}},
	}
	for _, tt := range tests {
		if got := ChunkOf(tt.pos, 32); got != tt.want {
			t.Fatalf("ChunkOf(%v) = %v, want %v", tt.pos, got, tt.want)
		}
	}
	c := Coord{X: -1, Z: 2}
	if c.Origin(32) != (mgl64.Vec3{-32, 0, 64}) || c.Center(32) != (mgl64.Vec3{-16, 0, 80}) {
		t.Fatalf("origin/centre mismatch: %v %v", c.Origin(32), c.Center(32))
	}
}

func TestTrackerInitialUpdateEntersCircleNearestFirst(t *testing.T) {
	tr := NewTracker(1, 32)
	events := tr.Update(mgl64.Vec3{16, 0, 16})

	if len(events) != 5 {
		t.Fatalf("radius 1 should cover 5 chunks, got %d: %v", len(events), events)
	}
	if events[0].Type != Entered || events[0].Coord != (Coord{0, 0}) {
		t.Fatalf("observer chunk should enter first, got %+v", events[0])
	}
	for _, e := range events {
		if e.Type != Entered {
			t.Fatalf("unexpected exit on first update: %+v", e)
		}
	}
	if again := tr.Update(mgl64.Vec3{20, 0, 10}); len(again) != 0 {
		t.Fatalf("moving inside the same chunk should not emit events, got %v", again)
	}
}

func TestTrackerEmitsExitsBeforeEntries(t *testing.T) {
	tr := NewTracker(1, 32)
	tr.Update(mgl64.Vec3{16, 0, 16})

	events := tr.Update(mgl64.Vec3{48, 0, 16})
	var exits, entries int
	seenEntry := false
	for _, e := range events {
		switch e.Type {
		case Exited:
			if seenEntry {
				t.Fatalf("exit after entry in %v", events)
			}
			exits++
		case Entered:
			seenEntry = true
			entries++
		}
	}
	if exits != 3 || entries != 3 {
		t.Fatalf("expected 3 exits and 3 entries, got %d/%d: %v", exits, entries, events)
	}
	if !tr.InRange(Coord{1, 0}) || tr.InRange(Coord{-1, 0}) {
		t.Fatalf("tracker membership not updated")
	}
	if loaded := tr.Loaded(); len(loaded) != 5 || loaded[0] != (Coord{1, 0}) {
		t.Fatalf("unexpected loaded set %v", loaded)
	}
}

func TestTrackerZeroRadiusTracksOnlyCurrentChunk(t *testing.T) {
	tr := NewTracker(0, 16)
	events := tr.Update(mgl64.Vec3{-1, 0, -1})
	if len(events) != 1 || events[0].Coord != (Coord{-1, -1}) {
		t.Fatalf("unexpected events %v", events)
	}
}

func TestQueueDrainReleasesReferences(t *testing.T) {
	q := NewQueue()
	for i := 0; i < 4; i++ {
		q.Enqueue(Event{Type: Entered, Coord: Coord{X: i}})
	}

	batch := q.Drain(0)
	if len(batch) != 4 {
		t.Fatalf("expected 4 events in batch, got %d", len(batch))
	}
	if q.pending != nil {
		t.Fatalf("expected queue storage to be reset, got len=%d cap=%d", len(q.pending), cap(q.pending))
	}

	q.Enqueue(Event{Coord: Coord{X: 10}}, Event{Coord: Coord{X: 11}}, Event{Type: Exited, Coord: Coord{X: 12}})
	batch = q.Drain(2)
	if len(batch) != 2 || batch[0].Coord.X != 10 {
		t.Fatalf("unexpected partial batch %v", batch)
	}
	if q.Len() != 1 || q.pending[0].Coord.X != 12 {
		t.Fatalf("expected the third event to remain, got %v", q.pending)
	}
	if q.Drain(5)[0].Type != Exited || q.Drain(1) != nil {
		t.Fatalf("draining past the end should return the remainder then nil")
	}
}
