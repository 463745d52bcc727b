package glgpu

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type submission struct {
	cmd          CommandBuffer
	fence        Fence
	wait, signal Semaphore
}

// fakeFrameDevice hands out increasing handles and records what happens to them.
type fakeFrameDevice struct {
	next        uint32
	cmds        []uint64
	waited      []Fence
	reset       []Fence
	freedFences []Fence
	freedSems   []Semaphore
	freedPools  []CommandPool
	poolResets  int
	allocs      int
	submits     []submission
	semErr      error
	submitErr   error
}

func (d *fakeFrameDevice) handle() uint32 { d.next++; return d.next }

func (d *fakeFrameDevice) FenceCreate(bool) (Fence, error) { return Fence(d.handle()), nil }
func (d *fakeFrameDevice) FenceFree(f Fence)               { d.freedFences = append(d.freedFences, f) }
func (d *fakeFrameDevice) FenceWait(f Fence) error {
	d.waited = append(d.waited, f)
	return nil
}
func (d *fakeFrameDevice) FenceReset(f Fence) { d.reset = append(d.reset, f) }
func (d *fakeFrameDevice) SemaphoreCreate() (Semaphore, error) {
	if d.semErr != nil {
		return 0, d.semErr
	}
	return Semaphore(d.handle()), nil
}
func (d *fakeFrameDevice) SemaphoreFree(s Semaphore) { d.freedSems = append(d.freedSems, s) }
func (d *fakeFrameDevice) CommandPoolCreate(CommandQueue) (CommandPool, error) {
	return CommandPool(d.handle()), nil
}
func (d *fakeFrameDevice) CommandPoolFree(p CommandPool) { d.freedPools = append(d.freedPools, p) }
func (d *fakeFrameDevice) CommandPoolAllocate(CommandPool) (CommandBuffer, error) {
	d.allocs++
	d.cmds = append(d.cmds, uint64(d.handle()))
	return CommandBuffer(unsafe.Pointer(&d.cmds[len(d.cmds)-1])), nil
}
func (d *fakeFrameDevice) CommandPoolReset(CommandPool) { d.poolResets++ }
func (d *fakeFrameDevice) QueueSubmit(_ CommandQueue, cmd CommandBuffer, fence Fence, wait, signal Semaphore) error {
	if d.submitErr != nil {
		return d.submitErr
	}
	d.submits = append(d.submits, submission{cmd, fence, wait, signal})
	return nil
}

func TestFenceManagerRecycles(t *testing.T) {
	dev := &fakeFrameDevice{}
	m := NewFenceManager(dev)

	a, err := m.NewFence()
	require.NoError(t, err)
	b, err := m.NewFence()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Equal(t, []Fence{a, b}, m.ActiveFences())

	require.NoError(t, m.Reset())
	assert.Equal(t, []Fence{a, b}, dev.waited)
	assert.Equal(t, []Fence{a, b}, dev.reset)
	assert.Empty(t, m.ActiveFences())

	again, err := m.NewFence()
	require.NoError(t, err)
	assert.Equal(t, a, again)

	m.Destroy()
	assert.ElementsMatch(t, []Fence{a, b}, dev.freedFences)
}

func TestCommandBufferManagerRecycles(t *testing.T) {
	dev := &fakeFrameDevice{}
	m, err := NewCommandBufferManager(dev, 1)
	require.NoError(t, err)

	first, err := m.NewCommandBuffer()
	require.NoError(t, err)
	second, err := m.NewCommandBuffer()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, dev.allocs)
	assert.Zero(t, dev.poolResets)

	m.Reset()
	again, err := m.NewCommandBuffer()
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, 2, dev.allocs)
	assert.Equal(t, 1, dev.poolResets)

	m.Destroy()
	assert.Len(t, dev.freedPools, 1)
}

func TestFramesRotateAndWait(t *testing.T) {
	dev := &fakeFrameDevice{}
	frames, err := NewFrames(dev, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, frames.Len())

	f0, err := frames.Begin()
	require.NoError(t, err)
	assert.Equal(t, 0, f0.Index)
	cmd, err := f0.NewCommandBuffer()
	require.NoError(t, err)
	require.NoError(t, f0.SubmitSwapchain(cmd))
	require.Len(t, dev.submits, 1)
	assert.Equal(t, f0.Acquire, dev.submits[0].wait)
	assert.Equal(t, f0.Release, dev.submits[0].signal)
	assert.NotZero(t, dev.submits[0].fence)

	f1, err := frames.Begin()
	require.NoError(t, err)
	assert.Equal(t, 1, f1.Index)
	assert.NotEqual(t, f0.Acquire, f1.Acquire)
	assert.Empty(t, dev.waited, "a fresh slot has nothing to wait for")

	cmd, err = f1.NewCommandBuffer()
	require.NoError(t, err)
	require.NoError(t, f1.Submit(cmd))
	assert.Zero(t, dev.submits[1].wait)
	assert.Zero(t, dev.submits[1].signal)

	again, err := frames.Begin()
	require.NoError(t, err)
	assert.Same(t, f0, again)
	assert.Equal(t, []Fence{dev.submits[0].fence}, dev.waited)

	frames.Destroy()
	assert.Len(t, dev.freedSems, 4)
	assert.Len(t, dev.freedPools, 2)
}

func TestNewFramesValidation(t *testing.T) {
	_, err := NewFrames(&fakeFrameDevice{}, 1, 0)
	assert.Error(t, err)

	dev := &fakeFrameDevice{semErr: errors.New("out of semaphores")}
	_, err = NewFrames(dev, 1, 2)
	require.EqualError(t, err, "out of semaphores")
	assert.Len(t, dev.freedPools, 1, "the partial frame is torn down")
}

func TestFailedSubmitReleasesFence(t *testing.T) {
	dev := &fakeFrameDevice{submitErr: errors.New("device lost")}
	frames, err := NewFrames(dev, 1, 1)
	require.NoError(t, err)
	defer frames.Destroy()

	fr, err := frames.Begin()
	require.NoError(t, err)
	cmd, err := fr.NewCommandBuffer()
	require.NoError(t, err)
	require.EqualError(t, fr.Submit(cmd), "device lost")
	assert.Empty(t, fr.fences.ActiveFences())

	_, err = frames.Begin()
	require.NoError(t, err)
	assert.Empty(t, dev.waited, "an unsubmitted fence is never waited on")

	dev.submitErr = nil
	require.NoError(t, fr.Submit(cmd))
	require.Len(t, dev.submits, 1)
	assert.Empty(t, dev.freedFences)
	assert.Len(t, fr.fences.fences, 1, "the returned fence is reused")
}
