// Package arena is a typed slab allocator handing out index handles.
//
// Handles are slot index plus one, so the zero handle is never valid. Freed slots go on
// a LIFO free list and are reused by the next Alloc. There is no generation check: a
// handle used after Free silently aliases whatever was allocated into its slot.
package arena

import "sync"

// Arena stores values of T in a slice of slots. Get may run concurrently with Alloc and
// Free; callers still serialize the lifetime of each handle themselves.
type Arena[T any] struct {
	mu    sync.RWMutex
	slots []slot[T]
	free  []uint32
	live  int
}

type slot[T any] struct {
	value T
	used  bool
}

// New returns an arena with room for capacity values before growing.
func New[T any](capacity int) *Arena[T] {
	return &Arena[T]{slots: make([]slot[T], 0, capacity)}
}

// Alloc stores v and returns its handle.
func (a *Arena[T]) Alloc(v T) uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.live++
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[idx] = slot[T]{value: v, used: true}
		return idx + 1
	}
	a.slots = append(a.slots, slot[T]{value: v, used: true})
	return uint32(len(a.slots))
}

// Get returns the value stored under h. It returns false for the zero handle, for handles
// past the end of the arena and for free slots.
func (a *Arena[T]) Get(h uint32) (T, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if h == 0 || int(h) > len(a.slots) {
		var zero T
		return zero, false
	}
	s := &a.slots[h-1]
	return s.value, s.used
}

// MustGet is Get for handles the caller guarantees are live.
func (a *Arena[T]) MustGet(h uint32) T {
	v, ok := a.Get(h)
	if !ok {
		panic("arena: invalid handle")
	}
	return v
}

// Free releases the slot of h and returns the value it held. Freeing the zero handle or
// an already free slot is a no-op.
func (a *Arena[T]) Free(h uint32) (T, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var zero T
	if h == 0 || int(h) > len(a.slots) || !a.slots[h-1].used {
		return zero, false
	}
	v := a.slots[h-1].value
	a.slots[h-1] = slot[T]{}
	a.free = append(a.free, h-1)
	a.live--
	return v, true
}

// Len is the number of live values.
func (a *Arena[T]) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.live
}

// Each calls fn for every value live when it was called, in slot order. fn may Free.
func (a *Arena[T]) Each(fn func(h uint32, v T)) {
	type entry struct {
		h uint32
		v T
	}
	a.mu.RLock()
	live := make([]entry, 0, a.live)
	for i := range a.slots {
		if a.slots[i].used {
			live = append(live, entry{uint32(i) + 1, a.slots[i].value})
		}
	}
	a.mu.RUnlock()
	for _, e := range live {
		fn(e.h, e.v)
	}
}
