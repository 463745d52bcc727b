// Package descpool groups descriptor set allocation by uniform type signature.
//
// Every signature owns a list of pools. A pool serves sets until its outstanding count
// reaches the manager capacity, after which a new pool with the same key is created.
// Pools are never shrunk. An empty pool stays in its list and is reused by the next
// Acquire for that key.
package descpool

import (
	"math"

	"github.com/andewx/glgpu"
)

// DefaultCapacity is the number of sets a single native pool is sized for.
const DefaultCapacity = 65535

// Key counts the descriptors of each uniform kind a set needs.
type Key [glgpu.UniformTypeMax]uint16

// KeyOf builds the signature of a uniform list. Counts saturate at 65535.
func KeyOf(uniforms []glgpu.ShaderUniform) Key {
	var k Key
	for _, u := range uniforms {
		if u.Type >= glgpu.UniformTypeMax {
			continue
		}
		n := uint32(k[u.Type]) + u.DescriptorCount()
		if n > math.MaxUint16 {
			n = math.MaxUint16
		}
		k[u.Type] = uint16(n)
	}
	return k
}

// Less orders keys lexicographically by kind.
func (k Key) Less(o Key) bool {
	for i := range k {
		if k[i] != o[i] {
			return k[i] < o[i]
		}
	}
	return false
}

// PoolAllocator creates and destroys the native pools behind a Manager.
type PoolAllocator[P any] interface {
	CreatePool(key Key, maxSets uint32) (P, error)
	DestroyPool(pool P)
}

// Entry is one native pool and the number of sets allocated from it that have not been
// released.
type Entry[P any] struct {
	Pool  P
	Key   Key
	count uint32
}

// Count is the number of outstanding sets.
func (e *Entry[P]) Count() uint32 {
	return e.count
}

// Manager is not safe for concurrent use; callers serialise uniform set creation.
type Manager[P any] struct {
	alloc    PoolAllocator[P]
	capacity uint32
	pools    map[Key][]*Entry[P]
}

// NewManager returns a manager sizing pools for capacity sets. Zero selects DefaultCapacity.
func NewManager[P any](alloc PoolAllocator[P], capacity uint32) *Manager[P] {
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	return &Manager[P]{
		alloc:    alloc,
		capacity: capacity,
		pools:    make(map[Key][]*Entry[P]),
	}
}

func (m *Manager[P]) Capacity() uint32 {
	return m.capacity
}

// Acquire reserves one set in the first pool under key with spare capacity, creating a
// pool when every existing one is full.
func (m *Manager[P]) Acquire(key Key) (*Entry[P], error) {
	for _, e := range m.pools[key] {
		if e.count < m.capacity {
			e.count++
			return e, nil
		}
	}
	p, err := m.alloc.CreatePool(key, m.capacity)
	if err != nil {
		return nil, err
	}
	e := &Entry[P]{Pool: p, Key: key, count: 1}
	m.pools[key] = append(m.pools[key], e)
	return e, nil
}

// Release gives back one set reserved from e.
func (m *Manager[P]) Release(e *Entry[P]) {
	if e == nil || e.count == 0 {
		return
	}
	e.count--
}

// PoolCount is the number of native pools created for key.
func (m *Manager[P]) PoolCount(key Key) int {
	return len(m.pools[key])
}

// TotalPools is the number of native pools across every key.
func (m *Manager[P]) TotalPools() int {
	n := 0
	for _, list := range m.pools {
		n += len(list)
	}
	return n
}

// Destroy destroys every pool regardless of outstanding sets.
func (m *Manager[P]) Destroy() {
	for key, list := range m.pools {
		for _, e := range list {
			m.alloc.DestroyPool(e.Pool)
		}
		delete(m.pools, key)
	}
}
