package scene

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/brentp/intintmap"

	"worldpop/internal/geometry"
)

// ErrUnknownHandle is returned when registering collision for a node that is
// not attached.
var ErrUnknownHandle = errors.New("scene: unknown handle")

// Memory is an in-process scene and collision registry. It records how
// often every handle was detached so callers can check attach/detach
// symmetry.
type Memory struct {
	mu sync.Mutex

	next     uint64
	nodes    map[Handle]Node
	detaches *intintmap.Map // handle -> detach calls
	attached int
	dupes    int

	nextCollider uint64
	colliders    map[CollisionHandle]geometry.Volume
	owners       *intintmap.Map // collision handle -> node handle
	unregisters  int

	// FailAttach, when set, is consulted before each attach.
	FailAttach func(Node) error
}

func NewMemory() *Memory {
	return &Memory{
		nodes:     make(map[Handle]Node),
		detaches:  intintmap.New(1024, 0.6),
		colliders: make(map[CollisionHandle]geometry.Volume),
		owners:    intintmap.New(256, 0.6),
	}
}

func (m *Memory) Attach(node Node) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if node.Mesh == nil && node.Batch == nil {
		return 0, fmt.Errorf("attach %s: node has no geometry", node.Kind)
	}
	if m.FailAttach != nil {
		if err := m.FailAttach(node); err != nil {
			return 0, err
		}
	}
	m.next++
	h := Handle(m.next)
	m.nodes[h] = node
	m.detaches.Put(int64(h), 0)
	m.attached++
	return h, nil
}

// Detach removes the node. Detaching an unknown or already detached handle
// is counted as a duplicate and otherwise ignored.
func (m *Memory) Detach(h Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count, known := m.detaches.Get(int64(h))
	if !known {
		m.dupes++
		return
	}
	m.detaches.Put(int64(h), count+1)
	if count > 0 {
		m.dupes++
		return
	}
	delete(m.nodes, h)
}

func (m *Memory) Register(owner Handle, volume geometry.Volume, layer Layer) (CollisionHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.nodes[owner]; !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownHandle, owner)
	}
	if layer == 0 {
		return 0, errors.New("scene: collision layer must be non-zero")
	}
	m.nextCollider++
	ch := CollisionHandle(m.nextCollider)
	m.colliders[ch] = volume
	m.owners.Put(int64(ch), int64(owner))
	return ch, nil
}

func (m *Memory) Unregister(h CollisionHandle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.colliders[h]; !ok {
		return
	}
	delete(m.colliders, h)
	m.owners.Del(int64(h))
	m.unregisters++
}

// Live is the number of attached nodes.
func (m *Memory) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.nodes)
}

// Attached is the total number of successful attaches.
func (m *Memory) Attached() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attached
}

// DetachCount is how many times h was detached.
func (m *Memory) DetachCount(h Handle) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count, _ := m.detaches.Get(int64(h))
	return int(count)
}

// Duplicates counts detaches of unknown or already detached handles.
func (m *Memory) Duplicates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dupes
}

// Colliders is the number of registered collision bodies.
func (m *Memory) Colliders() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.colliders)
}

// ColliderOwner returns the node a collision body belongs to.
func (m *Memory) ColliderOwner(h CollisionHandle) (Handle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	owner, ok := m.owners.Get(int64(h))
	return Handle(owner), ok
}

func (m *Memory) Node(h Handle) (Node, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[h]
	return n, ok
}

// Nodes returns the attached nodes ordered by handle.
func (m *Memory) Nodes() []Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	handles := make([]Handle, 0, len(m.nodes))
	for h := range m.nodes {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })
	out := make([]Node, 0, len(handles))
	for _, h := range handles {
		out = append(out, m.nodes[h])
	}
	return out
}
