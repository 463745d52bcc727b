package descpool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andewx/glgpu"
)

type fakePools struct {
	next      int
	created   []int
	destroyed []int
	fail      bool
}

func (f *fakePools) CreatePool(_ Key, _ uint32) (int, error) {
	if f.fail {
		return 0, errors.New("out of pool memory")
	}
	f.next++
	f.created = append(f.created, f.next)
	return f.next, nil
}

func (f *fakePools) DestroyPool(p int) {
	f.destroyed = append(f.destroyed, p)
}

func uboKey() Key {
	return KeyOf([]glgpu.ShaderUniform{{Type: glgpu.UniformTypeUniformBuffer, Data: []glgpu.Handle{1}}})
}

func TestSameSignatureSharesOnePool(t *testing.T) {
	f := &fakePools{}
	m := NewManager[int](f, 0)
	require.Equal(t, uint32(DefaultCapacity), m.Capacity())

	key := uboKey()
	for i := 0; i < 1000; i++ {
		_, err := m.Acquire(key)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, m.PoolCount(key))
	assert.Len(t, f.created, 1)
}

func TestExhaustedPoolAllocatesSecond(t *testing.T) {
	f := &fakePools{}
	m := NewManager[int](f, 8)
	key := uboKey()

	var entries []*Entry[int]
	for i := 0; i < 8; i++ {
		e, err := m.Acquire(key)
		require.NoError(t, err)
		entries = append(entries, e)
	}
	assert.Equal(t, 1, m.PoolCount(key))

	e, err := m.Acquire(key)
	require.NoError(t, err)
	assert.Equal(t, 2, m.PoolCount(key))
	assert.Equal(t, 2, e.Pool)
	assert.Equal(t, uint32(8), entries[0].Count())

	// Freed capacity in the first pool is preferred again.
	m.Release(entries[3])
	e, err = m.Acquire(key)
	require.NoError(t, err)
	assert.Equal(t, 1, e.Pool)
	assert.Equal(t, 2, m.PoolCount(key))
}

func TestEmptyPoolRetained(t *testing.T) {
	f := &fakePools{}
	m := NewManager[int](f, 4)
	key := uboKey()

	e, err := m.Acquire(key)
	require.NoError(t, err)
	m.Release(e)
	assert.Zero(t, e.Count())
	assert.Empty(t, f.destroyed)

	again, err := m.Acquire(key)
	require.NoError(t, err)
	assert.Same(t, e, again)
	assert.Len(t, f.created, 1)
}

func TestDistinctSignaturesGetDistinctPools(t *testing.T) {
	f := &fakePools{}
	m := NewManager[int](f, 0)
	a := uboKey()
	b := KeyOf([]glgpu.ShaderUniform{
		{Type: glgpu.UniformTypeSamplerWithTexture, Data: []glgpu.Handle{1, 2, 3, 4}},
		{Type: glgpu.UniformTypeStorageBuffer, Data: []glgpu.Handle{5}},
	})
	assert.Equal(t, uint16(2), b[glgpu.UniformTypeSamplerWithTexture])
	assert.Equal(t, uint16(1), b[glgpu.UniformTypeStorageBuffer])

	_, err := m.Acquire(a)
	require.NoError(t, err)
	_, err = m.Acquire(b)
	require.NoError(t, err)
	assert.Equal(t, 2, m.TotalPools())

	m.Destroy()
	assert.ElementsMatch(t, []int{1, 2}, f.destroyed)
	assert.Zero(t, m.TotalPools())
}

func TestDestroyIgnoresOutstandingSets(t *testing.T) {
	f := &fakePools{}
	m := NewManager[int](f, 2)
	key := uboKey()
	for i := 0; i < 3; i++ {
		_, err := m.Acquire(key)
		require.NoError(t, err)
	}
	m.Destroy()
	assert.Len(t, f.destroyed, 2)
}

func TestCreateFailureIsReturned(t *testing.T) {
	m := NewManager[int](&fakePools{fail: true}, 0)
	_, err := m.Acquire(uboKey())
	assert.Error(t, err)
	assert.Zero(t, m.TotalPools())
}

func TestKeyOrder(t *testing.T) {
	var a, b Key
	a[glgpu.UniformTypeUniformBuffer] = 1
	b[glgpu.UniformTypeSampler] = 1
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.False(t, a.Less(a))
}
