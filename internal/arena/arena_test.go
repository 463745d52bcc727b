package arena

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocNeverReturnsZero(t *testing.T) {
	a := New[string](2)
	h1 := a.Alloc("a")
	h2 := a.Alloc("b")
	h3 := a.Alloc("c")
	assert.Equal(t, []uint32{1, 2, 3}, []uint32{h1, h2, h3})
	assert.Equal(t, 3, a.Len())

	v, ok := a.Get(h2)
	require.True(t, ok)
	assert.Equal(t, "b", v)
}

func TestFreedSlotIsReusedLIFO(t *testing.T) {
	a := New[int](0)
	h1 := a.Alloc(10)
	h2 := a.Alloc(20)
	h3 := a.Alloc(30)

	_, ok := a.Free(h1)
	require.True(t, ok)
	_, ok = a.Free(h3)
	require.True(t, ok)
	assert.Equal(t, 1, a.Len())

	assert.Equal(t, h3, a.Alloc(40))
	assert.Equal(t, h1, a.Alloc(50))
	assert.Equal(t, uint32(4), a.Alloc(60))

	v, _ := a.Get(h2)
	assert.Equal(t, 20, v)
	v, _ = a.Get(h1)
	assert.Equal(t, 50, v)
}

func TestInvalidHandles(t *testing.T) {
	a := New[int](0)
	_, ok := a.Get(0)
	assert.False(t, ok)
	_, ok = a.Get(7)
	assert.False(t, ok)

	h := a.Alloc(1)
	v, ok := a.Free(h)
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = a.Free(h)
	assert.False(t, ok, "double free is a no-op")
	_, ok = a.Get(h)
	assert.False(t, ok)
	assert.Panics(t, func() { a.MustGet(h) })
}

func TestEachVisitsLiveValues(t *testing.T) {
	a := New[string](0)
	a.Alloc("x")
	h := a.Alloc("y")
	a.Alloc("z")
	a.Free(h)

	var seen []string
	a.Each(func(_ uint32, v string) { seen = append(seen, v) })
	assert.Equal(t, []string{"x", "z"}, seen)
}

func TestEachMayFree(t *testing.T) {
	a := New[int](0)
	for i := 0; i < 4; i++ {
		a.Alloc(i)
	}
	a.Each(func(h uint32, _ int) { a.Free(h) })
	assert.Zero(t, a.Len())
}

func TestGetWhileAllocating(t *testing.T) {
	a := New[int](1)
	h := a.Alloc(7)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			v, ok := a.Get(h)
			assert.True(t, ok)
			assert.Equal(t, 7, v)
		}
	}()
	for i := 0; i < 1000; i++ {
		a.Free(a.Alloc(i))
		a.Alloc(i)
	}
	wg.Wait()
	assert.Equal(t, 1001, a.Len())
}
