package stream

import "sync"

// Queue buffers events produced by an external streaming source until the
// simulation thread drains them.
type Queue struct {
	mu      sync.Mutex
	pending []Event
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Enqueue(events ...Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, events...)
}

// Drain removes up to max events in FIFO order; max <= 0 drains everything.
func (q *Queue) Drain(max int) []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	if max <= 0 || max >= len(q.pending) {
		batch := q.pending
		q.pending = nil
		return batch
	}
	batch := append([]Event(nil), q.pending[:max]...)
	q.pending = append([]Event(nil), q.pending[max:]...)
	return batch
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
