package glgpu

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	apiFake    API = 100
	apiFailing API = 101
)

type fakeBackend struct {
	Backend
	guard *Guard
}

func (f *fakeBackend) Destroy() {
	f.guard.Release()
}

var errDriver = errors.New("no device")

func init() {
	Register(apiFake, func(info CreateInfo, guard *Guard) (Backend, error) {
		return &fakeBackend{guard: guard}, nil
	})
	Register(apiFailing, func(info CreateInfo, guard *Guard) (Backend, error) {
		return nil, errDriver
	})
}

func TestCreateSingleton(t *testing.T) {
	b, err := Create(CreateInfo{API: apiFake})
	require.NoError(t, err)

	_, err = Create(CreateInfo{API: apiFake})
	assert.ErrorIs(t, err, ErrBackendExists)

	b.Destroy()
	b.Destroy()

	b2, err := Create(CreateInfo{API: apiFake})
	require.NoError(t, err)
	b2.Destroy()
}

func TestCreateReleasesOnFailure(t *testing.T) {
	_, err := Create(CreateInfo{API: apiFailing})
	assert.ErrorIs(t, err, errDriver)

	b, err := Create(CreateInfo{API: apiFake})
	require.NoError(t, err)
	b.Destroy()
}

func TestCreateUnsupportedAPI(t *testing.T) {
	_, err := Create(CreateInfo{API: API(55)})
	assert.ErrorIs(t, err, ErrUnsupportedAPI)
}

func TestRegisterTwicePanics(t *testing.T) {
	assert.Panics(t, func() {
		Register(apiFake, func(CreateInfo, *Guard) (Backend, error) { return nil, nil })
	})
	assert.Panics(t, func() { Register(API(77), nil) })
}

func TestCreateConcurrent(t *testing.T) {
	const n = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created []Backend
		exists  int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := Create(CreateInfo{API: apiFake})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				assert.ErrorIs(t, err, ErrBackendExists)
				exists++
				return
			}
			created = append(created, b)
		}()
	}
	wg.Wait()
	require.Len(t, created, 1)
	assert.Equal(t, n-1, exists)
	created[0].Destroy()
}
